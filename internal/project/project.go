// Package project holds the note project model and its in-memory list.
package project

import (
	"bytes"

	"github.com/google/uuid"
)

// DefaultTitle is assigned to newly created projects.
const DefaultTitle = "New Project"

// Project is one captured note with optional attached image bytes.
type Project struct {
	ID      string
	Title   string
	Details string
	Image   []byte
}

// New builds a project with a fresh uuid identity and the default title.
func New(details string) Project {
	return Project{
		ID:      uuid.NewString(),
		Title:   DefaultTitle,
		Details: details,
	}
}

// Equal compares all fields structurally, including image bytes.
func (p Project) Equal(other Project) bool {
	return p.ID == other.ID &&
		p.Title == other.Title &&
		p.Details == other.Details &&
		bytes.Equal(p.Image, other.Image)
}

// clone returns a deep copy so callers cannot alias stored image bytes.
func (p Project) clone() Project {
	out := p
	if p.Image != nil {
		out.Image = append([]byte(nil), p.Image...)
	}
	return out
}
