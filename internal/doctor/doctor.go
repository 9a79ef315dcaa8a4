// Package doctor runs runtime readiness diagnostics for config, audio,
// storage, and the speech recognizer.
package doctor

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/voxnote/voxnote/internal/asr"
	"github.com/voxnote/voxnote/internal/audio"
	"github.com/voxnote/voxnote/internal/config"
)

// Check is one doctor assertion result.
type Check struct {
	Name    string
	Pass    bool
	Message string
}

// Report is the full doctor output contract.
type Report struct {
	Checks []Check
}

// OK returns true when all checks pass.
func (r Report) OK() bool {
	for _, check := range r.Checks {
		if !check.Pass {
			return false
		}
	}
	return true
}

// String renders the report as user-facing text output.
func (r Report) String() string {
	var b strings.Builder
	for _, check := range r.Checks {
		status := "OK"
		if !check.Pass {
			status = "FAIL"
		}
		b.WriteString(fmt.Sprintf("[%s] %s: %s\n", status, check.Name, check.Message))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// Run executes environment/config/runtime checks for a loaded config.
func Run(ctx context.Context, cfg config.Loaded, storePath string) Report {
	checks := []Check{}

	configMsg := fmt.Sprintf("loaded %q", cfg.Path)
	if !cfg.Exists {
		configMsg = fmt.Sprintf("no file at %q, using defaults", cfg.Path)
	}
	checks = append(checks, Check{Name: "config", Pass: true, Message: configMsg})

	for _, warning := range cfg.Warnings {
		checks = append(checks, Check{Name: "config.warning", Pass: true, Message: warning.Message})
	}

	checks = append(checks, checkStorePath(storePath))
	checks = append(checks, checkAudioSelection(ctx, cfg.Config))
	checks = append(checks, checkAuthorization(ctx, cfg.Config))

	if strings.TrimSpace(cfg.Config.Recognizer.HealthHTTP) != "" {
		checks = append(checks, checkRecognizerHTTP(cfg.Config))
	}
	if strings.TrimSpace(cfg.Config.Recognizer.HealthGRPC) != "" {
		checks = append(checks, checkRecognizerGRPC(ctx, cfg.Config))
	}

	return Report{Checks: checks}
}

// checkStorePath verifies the project store directory exists or can be created.
func checkStorePath(path string) Check {
	if strings.TrimSpace(path) == "" {
		return Check{Name: "store.path", Pass: false, Message: "store path is empty"}
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Check{Name: "store.path", Pass: false, Message: fmt.Sprintf("cannot create %s: %v", dir, err)}
	}
	probe := filepath.Join(dir, ".voxnote-doctor")
	if err := os.WriteFile(probe, []byte("ok"), 0o600); err != nil {
		return Check{Name: "store.path", Pass: false, Message: fmt.Sprintf("directory not writable: %v", err)}
	}
	_ = os.Remove(probe)
	return Check{Name: "store.path", Pass: true, Message: fmt.Sprintf("writable at %s", dir)}
}

// checkAudioSelection runs live device selection to surface selection/fallback issues.
func checkAudioSelection(ctx context.Context, cfg config.Config) Check {
	selection, err := audio.SelectDevice(ctx, cfg.Audio.Input, cfg.Audio.Fallback)
	if err != nil {
		return Check{Name: "audio.device", Pass: false, Message: err.Error()}
	}
	message := fmt.Sprintf("selected %q", selection.Device.ID)
	if selection.Warning != "" {
		message = message + " (" + selection.Warning + ")"
	}
	return Check{Name: "audio.device", Pass: true, Message: message}
}

// checkAuthorization queries the recognizer's authorization status.
func checkAuthorization(ctx context.Context, cfg config.Config) Check {
	recognizer := buildRecognizer(cfg)
	status, err := recognizer.Authorize(ctx)
	if err != nil {
		return Check{Name: "recognizer.auth", Pass: false, Message: fmt.Sprintf("%s: %v", status, err)}
	}
	if status != asr.AuthAuthorized {
		return Check{Name: "recognizer.auth", Pass: false, Message: string(status)}
	}
	return Check{Name: "recognizer.auth", Pass: true, Message: string(status)}
}

// checkRecognizerHTTP probes the recognizer's HTTP ready endpoint.
func checkRecognizerHTTP(cfg config.Config) Check {
	base := strings.TrimSpace(cfg.Recognizer.HealthHTTP)
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}

	client := http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(base)
	if err != nil {
		return Check{Name: "recognizer.http", Pass: false, Message: fmt.Sprintf("request failed: %v", err)}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 256))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Check{Name: "recognizer.http", Pass: false, Message: fmt.Sprintf("HTTP %d from %s", resp.StatusCode, base)}
	}
	return Check{Name: "recognizer.http", Pass: true, Message: fmt.Sprintf("ready at %s", base)}
}

// checkRecognizerGRPC runs a standard gRPC health check against the endpoint.
func checkRecognizerGRPC(ctx context.Context, cfg config.Config) Check {
	endpoint := strings.TrimSpace(cfg.Recognizer.HealthGRPC)
	timeout := time.Duration(cfg.Recognizer.DialTimeoutMS) * time.Millisecond
	if err := probeGRPCHealth(ctx, endpoint, timeout); err != nil {
		return Check{Name: "recognizer.grpc", Pass: false, Message: err.Error()}
	}
	return Check{Name: "recognizer.grpc", Pass: true, Message: fmt.Sprintf("serving at %s", endpoint)}
}

// buildRecognizer constructs the recognizer named by config for probing.
func buildRecognizer(cfg config.Config) asr.Recognizer {
	if cfg.Recognizer.Mode == "mock" {
		return asr.NewMock()
	}
	return asr.NewLive(asr.LiveConfig{
		Endpoint:     cfg.Recognizer.Endpoint,
		APIKey:       cfg.Recognizer.APIKey,
		AuthEndpoint: cfg.Recognizer.AuthEndpoint,
		HealthHTTP:   cfg.Recognizer.HealthHTTP,
		DialTimeout:  time.Duration(cfg.Recognizer.DialTimeoutMS) * time.Millisecond,
	}, nil)
}
