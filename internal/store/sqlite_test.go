package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/voxnote/voxnote/internal/project"
)

func openTestStore(t *testing.T) *SQLite {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "projects.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestLoadEmptyKey(t *testing.T) {
	s := openTestStore(t)
	projects, err := s.Load(context.Background(), "projects")
	require.NoError(t, err)
	require.Empty(t, projects)
}

func TestSaveThenLoadPreservesOrderAndFields(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	list := []project.Project{
		{ID: "a", Title: "First", Details: "alpha", Image: []byte{1, 2}},
		{ID: "b", Title: "Second", Details: "beta"},
		{ID: "c", Title: "Third", Details: "gamma"},
	}
	require.NoError(t, s.Save(ctx, "projects", list))

	loaded, err := s.Load(ctx, "projects")
	require.NoError(t, err)
	require.Len(t, loaded, 3)
	for i := range list {
		require.True(t, loaded[i].Equal(list[i]), "project %d", i)
	}
}

func TestSaveReplacesWholeList(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "projects", []project.Project{
		{ID: "a", Title: "First", Details: "alpha"},
		{ID: "b", Title: "Second", Details: "beta"},
	}))
	require.NoError(t, s.Save(ctx, "projects", []project.Project{
		{ID: "b", Title: "Renamed", Details: "beta"},
	}))

	loaded, err := s.Load(ctx, "projects")
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	require.Equal(t, "Renamed", loaded[0].Title)
}

func TestKeysAreIsolated(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "projects", []project.Project{{ID: "a", Title: "A", Details: "x"}}))
	require.NoError(t, s.Save(ctx, "archive", []project.Project{{ID: "z", Title: "Z", Details: "y"}}))

	projects, err := s.Load(ctx, "projects")
	require.NoError(t, err)
	require.Len(t, projects, 1)
	require.Equal(t, "a", projects[0].ID)

	archive, err := s.Load(ctx, "archive")
	require.NoError(t, err)
	require.Len(t, archive, 1)
	require.Equal(t, "z", archive[0].ID)
}

func TestOpenCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state", "projects.db")
	s, err := Open(context.Background(), path, nil)
	require.NoError(t, err)
	require.NoError(t, s.Close())
}
