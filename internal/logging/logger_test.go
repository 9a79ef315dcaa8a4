package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewWritesUnderXDGStateHome(t *testing.T) {
	stateDir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", stateDir)

	rt, err := New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = rt.Close() })

	require.Equal(t, filepath.Join(stateDir, "voxnote", "log.jsonl"), rt.Path)
	rt.Logger.Info("probe", "key", "value")
	require.NoError(t, rt.Close())

	data, err := os.ReadFile(rt.Path)
	require.NoError(t, err)
	require.Contains(t, string(data), `"msg":"probe"`)
}

func TestResolveLogPathFallsBackToHome(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "")
	path, err := resolveLogPath()
	require.NoError(t, err)
	require.Contains(t, path, filepath.Join(".local", "state", "voxnote"))
}
