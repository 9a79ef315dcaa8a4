package project

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// fakeStore records saves and serves a canned load result.
type fakeStore struct {
	loaded  []Project
	loadErr error
	saveErr error
	saves   [][]Project
	keys    []string
}

func (f *fakeStore) Load(_ context.Context, key string) ([]Project, error) {
	f.keys = append(f.keys, key)
	return f.loaded, f.loadErr
}

func (f *fakeStore) Save(_ context.Context, key string, projects []Project) error {
	f.keys = append(f.keys, key)
	f.saves = append(f.saves, projects)
	return f.saveErr
}

func TestNewAssignsIdentityAndDefaultTitle(t *testing.T) {
	p := New("captured text")
	require.Equal(t, DefaultTitle, p.Title)
	require.Equal(t, "captured text", p.Details)
	require.Nil(t, p.Image)

	_, err := uuid.Parse(p.ID)
	require.NoError(t, err)

	other := New("captured text")
	require.NotEqual(t, p.ID, other.ID)
}

func TestEqualComparesAllFields(t *testing.T) {
	p := Project{ID: "a", Title: "T", Details: "D", Image: []byte{1}}
	require.True(t, p.Equal(Project{ID: "a", Title: "T", Details: "D", Image: []byte{1}}))
	require.False(t, p.Equal(Project{ID: "a", Title: "T", Details: "D", Image: []byte{2}}))
	require.False(t, p.Equal(Project{ID: "b", Title: "T", Details: "D", Image: []byte{1}}))
}

func TestCreateAppendsExactlyOneProject(t *testing.T) {
	store := &fakeStore{}
	list := NewList("projects", store, MirrorLog, nil)

	created, err := list.Create(context.Background(), "foo")
	require.NoError(t, err)
	require.Equal(t, "foo", created.Details)

	all := list.All()
	require.Len(t, all, 1)
	require.Equal(t, created.ID, all[0].ID)
	require.Len(t, store.saves, 1)
}

func TestLoadStoredReplacesList(t *testing.T) {
	stored := []Project{New("one"), New("two")}
	list := NewList("projects", &fakeStore{loaded: stored}, MirrorLog, nil)

	require.NoError(t, list.LoadStored(context.Background()))
	require.Equal(t, 2, list.Len())
	require.Equal(t, stored[0].ID, list.All()[0].ID)
}

func TestDeleteRemovesMatchingIDs(t *testing.T) {
	store := &fakeStore{}
	list := NewList("projects", store, MirrorLog, nil)
	a, _ := list.Create(context.Background(), "a")
	b, _ := list.Create(context.Background(), "b")

	require.NoError(t, list.Delete(context.Background(), a.ID, "unknown"))
	all := list.All()
	require.Len(t, all, 1)
	require.Equal(t, b.ID, all[0].ID)
}

func TestEditDiscardLeavesStoredProjectUnchanged(t *testing.T) {
	list := NewList("projects", nil, MirrorLog, nil)
	created, err := list.Create(context.Background(), "original details")
	require.NoError(t, err)

	draft, err := list.Edit(created.ID)
	require.NoError(t, err)
	draft.SetTitle("changed")
	draft.SetDetails("changed details")
	draft.SetImage([]byte{9, 9})
	require.True(t, draft.Changed())

	// draft dropped without Save
	stored, err := list.Get(created.ID)
	require.NoError(t, err)
	require.True(t, stored.Equal(created))
}

func TestEditSaveCommitsStagedCopy(t *testing.T) {
	store := &fakeStore{}
	list := NewList("projects", store, MirrorLog, nil)
	created, err := list.Create(context.Background(), "original")
	require.NoError(t, err)

	draft, err := list.Edit(created.ID)
	require.NoError(t, err)
	draft.SetTitle("My Notes")
	draft.SetImage([]byte{1, 2, 3})
	require.NoError(t, draft.Save(context.Background()))

	stored, err := list.Get(created.ID)
	require.NoError(t, err)
	require.True(t, stored.Equal(draft.Staged()))
	require.Equal(t, created.ID, stored.ID)
	require.Equal(t, "My Notes", stored.Title)
	require.Equal(t, []byte{1, 2, 3}, stored.Image)
}

func TestEditUnknownID(t *testing.T) {
	list := NewList("projects", nil, MirrorLog, nil)
	_, err := list.Edit("missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMirrorLogSwallowsSaveFailure(t *testing.T) {
	store := &fakeStore{saveErr: errors.New("disk full")}
	list := NewList("projects", store, MirrorLog, nil)

	_, err := list.Create(context.Background(), "foo")
	require.NoError(t, err)
	require.Equal(t, 1, list.Len())
}

func TestMirrorFailSurfacesSaveFailure(t *testing.T) {
	store := &fakeStore{saveErr: errors.New("disk full")}
	list := NewList("projects", store, MirrorFail, nil)

	_, err := list.Create(context.Background(), "foo")
	require.Error(t, err)
	require.Contains(t, err.Error(), "disk full")
	// the in-memory list still holds the project
	require.Equal(t, 1, list.Len())
}

func TestAllReturnsCopies(t *testing.T) {
	list := NewList("projects", nil, MirrorLog, nil)
	created, _ := list.Create(context.Background(), "foo")

	all := list.All()
	all[0].Details = "mutated"

	stored, err := list.Get(created.ID)
	require.NoError(t, err)
	require.Equal(t, "foo", stored.Details)
}
