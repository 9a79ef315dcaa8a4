package config

import (
	"fmt"
	"strings"
)

// Validate enforces config invariants and returns non-fatal warnings.
func Validate(cfg Config) ([]Warning, error) {
	warnings := make([]Warning, 0)

	mode := strings.ToLower(strings.TrimSpace(cfg.Recognizer.Mode))
	if mode != "live" && mode != "mock" {
		return nil, fmt.Errorf("recognizer.mode must be one of: live, mock")
	}
	if mode == "live" {
		endpoint := strings.TrimSpace(cfg.Recognizer.Endpoint)
		if endpoint == "" {
			return nil, fmt.Errorf("recognizer.endpoint must not be empty when recognizer.mode=live")
		}
		if !strings.HasPrefix(endpoint, "ws://") && !strings.HasPrefix(endpoint, "wss://") {
			return nil, fmt.Errorf("recognizer.endpoint must use ws:// or wss://")
		}
		if strings.TrimSpace(cfg.Recognizer.APIKey) == "" {
			warnings = append(warnings, Warning{Message: "recognizer.api_key is empty; the recognizer may reject the session"})
		}
	}
	if strings.TrimSpace(cfg.Recognizer.Language) == "" {
		return nil, fmt.Errorf("recognizer.language must not be empty")
	}
	if cfg.Recognizer.DialTimeoutMS <= 0 {
		return nil, fmt.Errorf("recognizer.dial_timeout_ms must be > 0")
	}

	if cfg.Audio.SampleRate <= 0 {
		return nil, fmt.Errorf("audio.sample_rate must be > 0")
	}
	if cfg.Audio.Channels <= 0 {
		return nil, fmt.Errorf("audio.channels must be > 0")
	}

	if strings.TrimSpace(cfg.Store.ListKey) == "" {
		return nil, fmt.Errorf("store.list_key must not be empty")
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Store.OnError)) {
	case "log", "fail":
	default:
		return nil, fmt.Errorf("store.on_error must be one of: log, fail")
	}

	if strings.TrimSpace(cfg.Transcript.Prompt) == "" {
		return nil, fmt.Errorf("transcript.prompt must not be empty")
	}

	if cfg.Indicator.Enable && strings.TrimSpace(cfg.Indicator.AppName) == "" {
		return nil, fmt.Errorf("indicator.app_name must not be empty when indicator.enable=true")
	}
	if cfg.Indicator.ErrorTimeoutMS < 0 {
		return nil, fmt.Errorf("indicator.error_timeout_ms must be >= 0")
	}

	return warnings, nil
}
