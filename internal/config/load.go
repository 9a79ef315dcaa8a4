package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Loaded captures resolved config path, parsed values, and non-fatal warnings.
type Loaded struct {
	Path     string
	Config   Config
	Warnings []Warning
	Exists   bool
}

// Load resolves, reads, parses, and validates the runtime configuration.
// Precedence: defaults, then file, then VOXNOTE_* environment overrides.
func Load(explicitPath string) (Loaded, error) {
	resolvedPath, err := ResolvePath(explicitPath)
	if err != nil {
		return Loaded{}, err
	}

	cfg := Default()
	exists := true
	warnings := make([]Warning, 0)

	content, err := os.ReadFile(resolvedPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return Loaded{}, fmt.Errorf("read config %q: %w", resolvedPath, err)
		}
		exists = false
		warnings = append(warnings, Warning{
			Message: fmt.Sprintf("config file %q not found; using defaults", resolvedPath),
		})
	} else if err := yaml.Unmarshal(content, &cfg); err != nil {
		return Loaded{}, fmt.Errorf("parse config %q: %w", resolvedPath, err)
	}

	applyEnvOverrides(&cfg)

	validateWarnings, err := Validate(cfg)
	if err != nil {
		return Loaded{}, fmt.Errorf("validate config %q: %w", resolvedPath, err)
	}
	warnings = append(warnings, validateWarnings...)

	return Loaded{
		Path:     resolvedPath,
		Config:   cfg,
		Warnings: warnings,
		Exists:   exists,
	}, nil
}

func applyEnvOverrides(cfg *Config) {
	overrideString(&cfg.Recognizer.Mode, "VOXNOTE_RECOGNIZER_MODE")
	overrideString(&cfg.Recognizer.Endpoint, "VOXNOTE_RECOGNIZER_ENDPOINT")
	overrideString(&cfg.Recognizer.APIKey, "VOXNOTE_RECOGNIZER_API_KEY")
	overrideString(&cfg.Recognizer.AuthEndpoint, "VOXNOTE_RECOGNIZER_AUTH_ENDPOINT")
	overrideString(&cfg.Recognizer.HealthHTTP, "VOXNOTE_RECOGNIZER_HEALTH_HTTP")
	overrideString(&cfg.Recognizer.HealthGRPC, "VOXNOTE_RECOGNIZER_HEALTH_GRPC")
	overrideString(&cfg.Recognizer.Language, "VOXNOTE_RECOGNIZER_LANGUAGE")
	overrideString(&cfg.Recognizer.Model, "VOXNOTE_RECOGNIZER_MODEL")
	overrideBool(&cfg.Recognizer.Punctuate, "VOXNOTE_RECOGNIZER_PUNCTUATE")
	overrideInt(&cfg.Recognizer.DialTimeoutMS, "VOXNOTE_RECOGNIZER_DIAL_TIMEOUT_MS")
	overrideString(&cfg.Audio.Input, "VOXNOTE_AUDIO_INPUT")
	overrideString(&cfg.Audio.Fallback, "VOXNOTE_AUDIO_FALLBACK")
	overrideInt(&cfg.Audio.SampleRate, "VOXNOTE_AUDIO_SAMPLE_RATE")
	overrideInt(&cfg.Audio.Channels, "VOXNOTE_AUDIO_CHANNELS")
	overrideString(&cfg.Store.Path, "VOXNOTE_STORE_PATH")
	overrideString(&cfg.Store.ListKey, "VOXNOTE_STORE_LIST_KEY")
	overrideString(&cfg.Store.OnError, "VOXNOTE_STORE_ON_ERROR")
	overrideString(&cfg.Transcript.Prompt, "VOXNOTE_TRANSCRIPT_PROMPT")
	overrideBool(&cfg.Indicator.Enable, "VOXNOTE_INDICATOR_ENABLE")
	overrideString(&cfg.Indicator.AppName, "VOXNOTE_INDICATOR_APP_NAME")
	overrideInt(&cfg.Indicator.ErrorTimeoutMS, "VOXNOTE_INDICATOR_ERROR_TIMEOUT_MS")
}

func overrideString(target *string, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok && strings.TrimSpace(value) != "" {
		*target = value
	}
}

func overrideInt(target *int, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			*target = parsed
		}
	}
}

func overrideBool(target *bool, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok {
		if parsed, err := strconv.ParseBool(value); err == nil {
			*target = parsed
		}
	}
}
