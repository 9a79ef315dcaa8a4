package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	loaded, err := Load("")
	require.NoError(t, err)
	require.False(t, loaded.Exists)
	require.Equal(t, Default().Recognizer.Endpoint, loaded.Config.Recognizer.Endpoint)
	require.NotEmpty(t, loaded.Warnings)
	require.Contains(t, loaded.Warnings[0].Message, "not found")
}

func TestLoadParsesYAMLOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
recognizer:
  mode: mock
  language: sv-SE
audio:
  sample_rate: 48000
store:
  on_error: fail
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.True(t, loaded.Exists)
	require.Equal(t, "mock", loaded.Config.Recognizer.Mode)
	require.Equal(t, "sv-SE", loaded.Config.Recognizer.Language)
	require.Equal(t, 48000, loaded.Config.Audio.SampleRate)
	require.Equal(t, "fail", loaded.Config.Store.OnError)
	// untouched fields keep defaults
	require.Equal(t, 1, loaded.Config.Audio.Channels)
	require.Equal(t, "projects", loaded.Config.Store.ListKey)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("VOXNOTE_RECOGNIZER_MODE", "mock")
	t.Setenv("VOXNOTE_RECOGNIZER_LANGUAGE", "de-DE")
	t.Setenv("VOXNOTE_AUDIO_CHANNELS", "2")
	t.Setenv("VOXNOTE_STORE_ON_ERROR", "fail")
	t.Setenv("VOXNOTE_INDICATOR_ENABLE", "false")

	loaded, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "mock", loaded.Config.Recognizer.Mode)
	require.Equal(t, "de-DE", loaded.Config.Recognizer.Language)
	require.Equal(t, 2, loaded.Config.Audio.Channels)
	require.Equal(t, "fail", loaded.Config.Store.OnError)
	require.False(t, loaded.Config.Indicator.Enable)
}

func TestLoadRejectsInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("recognizer: ["), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "parse config")
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"bad mode", func(c *Config) { c.Recognizer.Mode = "cloud" }, "recognizer.mode"},
		{"bad scheme", func(c *Config) { c.Recognizer.Endpoint = "http://x" }, "ws://"},
		{"empty language", func(c *Config) { c.Recognizer.Language = " " }, "recognizer.language"},
		{"zero sample rate", func(c *Config) { c.Audio.SampleRate = 0 }, "audio.sample_rate"},
		{"zero channels", func(c *Config) { c.Audio.Channels = 0 }, "audio.channels"},
		{"empty list key", func(c *Config) { c.Store.ListKey = "" }, "store.list_key"},
		{"bad policy", func(c *Config) { c.Store.OnError = "retry" }, "store.on_error"},
		{"empty prompt", func(c *Config) { c.Transcript.Prompt = "" }, "transcript.prompt"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			_, err := Validate(cfg)
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestValidateWarnsOnEmptyAPIKey(t *testing.T) {
	cfg := Default()
	cfg.Recognizer.APIKey = ""
	warnings, err := Validate(cfg)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	require.Contains(t, warnings[0].Message, "api_key")
}

func TestResolveStorePath(t *testing.T) {
	path, err := ResolveStorePath("/tmp/explicit.db")
	require.NoError(t, err)
	require.Equal(t, "/tmp/explicit.db", path)

	stateDir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", stateDir)
	path, err = ResolveStorePath("")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(stateDir, "voxnote", "projects.db"), path)
}
