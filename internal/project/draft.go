package project

import "context"

// Draft stages edits to one project. Changes live only in the draft until
// Save commits them; dropping the draft leaves the stored project untouched.
type Draft struct {
	list     *List
	original Project
	staged   Project
}

// Original returns the project as it was when the draft opened.
func (d *Draft) Original() Project {
	return d.original.clone()
}

// Staged returns the current staged copy.
func (d *Draft) Staged() Project {
	return d.staged.clone()
}

// SetTitle stages a title change.
func (d *Draft) SetTitle(title string) {
	d.staged.Title = title
}

// SetDetails stages a details change.
func (d *Draft) SetDetails(details string) {
	d.staged.Details = details
}

// SetImage stages an image change. Nil clears the image.
func (d *Draft) SetImage(image []byte) {
	if image == nil {
		d.staged.Image = nil
		return
	}
	d.staged.Image = append([]byte(nil), image...)
}

// Changed reports whether the staged copy differs from the original.
func (d *Draft) Changed() bool {
	return !d.staged.Equal(d.original)
}

// Save commits the staged copy into the list at the matching identity.
func (d *Draft) Save(ctx context.Context) error {
	return d.list.commit(ctx, d.staged)
}
