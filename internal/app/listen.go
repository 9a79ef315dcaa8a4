package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"strings"
	"time"

	"github.com/voxnote/voxnote/internal/asr"
	"github.com/voxnote/voxnote/internal/audio"
	"github.com/voxnote/voxnote/internal/config"
	"github.com/voxnote/voxnote/internal/indicator"
	"github.com/voxnote/voxnote/internal/ipc"
	"github.com/voxnote/voxnote/internal/project"
	"github.com/voxnote/voxnote/internal/session"
	"github.com/voxnote/voxnote/internal/store"
)

// commandListen toggles capture: forward a stop to a running owner, or
// become the owner and run one capture session to completion.
func (r Runner) commandListen(ctx context.Context, cfg config.Config, logger *slog.Logger) int {
	socketPath, err := ipc.RuntimeSocketPath()
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	resp, handled, err := tryForward(ctx, socketPath, ipc.CommandToggle)
	if handled {
		if err != nil {
			fmt.Fprintf(r.Stderr, "error: %v\n", err)
			return 1
		}
		if resp.Message != "" {
			fmt.Fprintln(r.Stdout, resp.Message)
		}
		return 0
	}

	listener, err := ipc.Acquire(ctx, socketPath, 180*time.Millisecond, 8)
	if err != nil {
		if errors.Is(err, ipc.ErrAlreadyRunning) {
			resp, _, forwardErr := tryForward(ctx, socketPath, ipc.CommandToggle)
			if forwardErr != nil {
				fmt.Fprintf(r.Stderr, "error: %v\n", forwardErr)
				return 1
			}
			if resp.Message != "" {
				fmt.Fprintln(r.Stdout, resp.Message)
			}
			return 0
		}
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	defer func() {
		_ = listener.Close()
		_ = os.Remove(socketPath)
	}()

	return r.runOwnerSession(ctx, cfg, logger, listener)
}

// runOwnerSession runs one capture session as the socket owner and commits
// the transcript into the project list on a clean stop.
func (r Runner) runOwnerSession(ctx context.Context, cfg config.Config, logger *slog.Logger, listener net.Listener) int {
	storePath, err := config.ResolveStorePath(cfg.Store.Path)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	projectStore, err := store.Open(ctx, storePath, logger)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: open project store: %v\n", err)
		return 1
	}
	defer func() { _ = projectStore.Close() }()

	projects := project.NewList(cfg.Store.ListKey, projectStore, project.MirrorPolicy(cfg.Store.OnError), logger)
	if err := projects.LoadStored(ctx); err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	engine := audio.NewEngine(cfg.Audio.Input, cfg.Audio.Fallback, audio.Format{
		SampleRate: cfg.Audio.SampleRate,
		Channels:   cfg.Audio.Channels,
	})
	notifier := indicator.NewDesktop(cfg.Indicator, logger)
	controller := session.NewController(
		logger,
		engineAdapter{engine},
		buildRecognizer(cfg, logger),
		notifier,
		cfg.Transcript.Prompt,
	)

	serverCtx, serverCancel := context.WithCancel(ctx)
	defer serverCancel()

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- ipc.Serve(serverCtx, listener, controller)
	}()

	done, err := controller.Start(ctx)
	if err != nil {
		serverCancel()
		<-serverErrCh
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	var outcome session.Outcome
	select {
	case outcome = <-done:
	case <-ctx.Done():
		controller.Cancel()
		outcome = <-done
	}

	serverCancel()
	if serverErr := <-serverErrCh; serverErr != nil {
		fmt.Fprintf(r.Stderr, "error: ipc server failed: %v\n", serverErr)
		return 1
	}

	logSessionOutcome(logger, outcome)

	if outcome.Cancelled {
		fmt.Fprintln(r.Stdout, "cancelled")
		return 0
	}
	if outcome.Err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", outcome.Err)
		return 1
	}

	text := strings.TrimSpace(outcome.Transcript)
	if text == "" {
		fmt.Fprintln(r.Stdout, "no speech detected")
		return 0
	}

	created, err := projects.Create(ctx, text)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	controller.ResetTranscript()

	fmt.Fprintln(r.Stdout, text)
	fmt.Fprintf(r.Stdout, "saved project %s\n", created.ID)
	return 0
}

// buildRecognizer constructs the recognizer named by config.
func buildRecognizer(cfg config.Config, logger *slog.Logger) asr.Recognizer {
	if cfg.Recognizer.Mode == "mock" {
		return asr.NewMock()
	}
	return asr.NewLive(asr.LiveConfig{
		Endpoint:     cfg.Recognizer.Endpoint,
		APIKey:       cfg.Recognizer.APIKey,
		AuthEndpoint: cfg.Recognizer.AuthEndpoint,
		HealthHTTP:   cfg.Recognizer.HealthHTTP,
		Language:     cfg.Recognizer.Language,
		Model:        cfg.Recognizer.Model,
		Punctuate:    cfg.Recognizer.Punctuate,
		SampleRate:   cfg.Audio.SampleRate,
		Channels:     cfg.Audio.Channels,
		DialTimeout:  time.Duration(cfg.Recognizer.DialTimeoutMS) * time.Millisecond,
	}, logger)
}

// engineAdapter narrows *audio.Engine to the session's AudioEngine contract.
type engineAdapter struct {
	engine *audio.Engine
}

func (a engineAdapter) Format(ctx context.Context) (audio.Format, error) {
	return a.engine.Format(ctx)
}

func (a engineAdapter) AttachTap(ctx context.Context) (session.AudioTap, error) {
	return a.engine.AttachTap(ctx)
}

func (a engineAdapter) Start(ctx context.Context) error {
	return a.engine.Start(ctx)
}

func (a engineAdapter) Stop(ctx context.Context) error {
	return a.engine.Stop(ctx)
}

func (a engineAdapter) Device() string {
	return a.engine.Device()
}

func logSessionOutcome(logger *slog.Logger, outcome session.Outcome) {
	if logger == nil {
		return
	}
	fields := []any{
		"state", outcome.State,
		"cancelled", outcome.Cancelled,
		"started_at", outcome.StartedAt.Format(time.RFC3339Nano),
		"finished_at", outcome.FinishedAt.Format(time.RFC3339Nano),
		"duration_ms", outcome.FinishedAt.Sub(outcome.StartedAt).Milliseconds(),
		"audio_device", outcome.Device,
		"bytes_captured", outcome.BytesCaptured,
		"transcript_length", len(outcome.Transcript),
	}

	if outcome.Err != nil {
		logger.Error("session failed", append(fields, "error", outcome.Err.Error())...)
		return
	}
	logger.Info("session complete", fields...)
}
