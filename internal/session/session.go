// Package session owns the capture lifecycle: one live audio tap feeding one
// streaming recognition task, with guaranteed teardown on every exit path.
package session

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/voxnote/voxnote/internal/asr"
	"github.com/voxnote/voxnote/internal/audio"
	"github.com/voxnote/voxnote/internal/fsm"
	"github.com/voxnote/voxnote/internal/ipc"
	"github.com/voxnote/voxnote/internal/transcript"
)

// AudioEngine is the session-facing subset of audio capture behavior. Tap
// attachment and engine start are separate so the engine-start failure path
// can remove an already-attached tap.
type AudioEngine interface {
	Format(ctx context.Context) (audio.Format, error)
	AttachTap(ctx context.Context) (AudioTap, error)
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Device() string
}

// AudioTap delivers PCM chunks until removed.
type AudioTap interface {
	Chunks() <-chan []byte
	Bytes() int64
	Remove() error
}

// Notifier is the session-facing subset of indicator behavior.
type Notifier interface {
	ShowListening(context.Context)
	ShowError(context.Context, string)
	Hide(context.Context)
}

// noopNotifier preserves session flow when no indicator is wired.
type noopNotifier struct{}

func (noopNotifier) ShowListening(context.Context)     {}
func (noopNotifier) ShowError(context.Context, string) {}
func (noopNotifier) Hide(context.Context)              {}

// Update is one observable change to the controller's state or transcript.
type Update struct {
	State      fsm.State
	Transcript string
	Err        error
}

// Outcome is the complete lifecycle output of one capture session.
type Outcome struct {
	State         fsm.State
	Transcript    string
	Cancelled     bool
	Err           error
	Device        string
	BytesCaptured int64
	StartedAt     time.Time
	FinishedAt    time.Time
}

// capture holds the resources of one live session. Tap, stream, and the two
// background goroutines are acquired together and released together.
type capture struct {
	gen       uint64
	tap       AudioTap
	stream    asr.Stream
	startedAt time.Time
	done      chan Outcome
}

// Controller drives the capture lifecycle. All state mutation is serialized
// behind mu; audio chunks and recognition results arrive on background
// goroutines and re-enter only through generation-checked handlers so events
// from a torn-down session are dropped.
type Controller struct {
	logger     *slog.Logger
	engine     AudioEngine
	recognizer asr.Recognizer
	notifier   Notifier
	prompt     string

	mu           sync.Mutex
	state        fsm.State
	authResolved bool
	generation   uint64
	active       *capture
	hypothesis   string
	lastFinal    string

	updates chan Update
}

// NewController constructs an idle controller with safe default fallbacks.
func NewController(
	logger *slog.Logger,
	engine AudioEngine,
	recognizer asr.Recognizer,
	notifier Notifier,
	prompt string,
) *Controller {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(12)}))
	}
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &Controller{
		logger:     logger,
		engine:     engine,
		recognizer: recognizer,
		notifier:   notifier,
		prompt:     prompt,
		state:      fsm.StateIdle,
		updates:    make(chan Update, 16),
	}
}

// State returns the current lifecycle state.
func (c *Controller) State() fsm.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// IsListening reports whether a capture session is live.
func (c *Controller) IsListening() bool {
	return c.State() == fsm.StateListening
}

// Transcript returns the displayed transcript: the latest hypothesis while
// listening, the initial prompt otherwise.
func (c *Controller) Transcript() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == fsm.StateListening && c.hypothesis != "" {
		return c.hypothesis
	}
	return c.prompt
}

// LastTranscript returns the transcript retained by the most recent clean stop.
func (c *Controller) LastTranscript() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastFinal
}

// ResetTranscript clears the retained transcript, returning the display to
// the initial prompt. Called after the transcript is consumed.
func (c *Controller) ResetTranscript() {
	c.mu.Lock()
	c.lastFinal = ""
	c.mu.Unlock()
}

// Updates returns the observable state/transcript stream. Delivery is
// best-effort; slow consumers miss intermediate hypotheses, never the data.
func (c *Controller) Updates() <-chan Update {
	return c.updates
}

// Start runs the session acquisition sequence: authorization, availability,
// recognition stream, format validation, tap attachment, engine start,
// recognition task. Each step that fails releases everything acquired before
// it. The returned channel delivers the session's Outcome exactly once.
func (c *Controller) Start(ctx context.Context) (<-chan Outcome, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active != nil || c.state == fsm.StateListening {
		return nil, ErrSessionActive
	}
	if c.state != fsm.StateIdle {
		return nil, fmt.Errorf("cannot start from state %s", c.state)
	}

	if err := c.resolveAuthorizationLocked(ctx); err != nil {
		return nil, err
	}

	// state is now ready; release on every branch below
	if !c.recognizer.Available(ctx) {
		return nil, c.failLocked(ErrUnavailable)
	}

	stream, err := c.recognizer.Open(ctx)
	if err != nil {
		return nil, c.failLocked(fmt.Errorf("%w: %v", ErrUnavailable, err))
	}

	format, err := c.engine.Format(ctx)
	if err != nil {
		_ = stream.Cancel()
		return nil, c.failLocked(fmt.Errorf("%w: %v", ErrBadFormat, err))
	}
	if !format.Valid() {
		_ = stream.Cancel()
		return nil, c.failLocked(fmt.Errorf("%w: %s", ErrBadFormat, format))
	}

	tap, err := c.engine.AttachTap(ctx)
	if err != nil {
		_ = stream.Cancel()
		return nil, c.failLocked(fmt.Errorf("%w: %v", ErrEngineStart, err))
	}

	if err := c.engine.Start(ctx); err != nil {
		_ = tap.Remove()
		_ = stream.Cancel()
		return nil, c.failLocked(fmt.Errorf("%w: %v", ErrEngineStart, err))
	}

	c.generation++
	active := &capture{
		gen:       c.generation,
		tap:       tap,
		stream:    stream,
		startedAt: time.Now(),
		done:      make(chan Outcome, 1),
	}
	c.active = active
	c.hypothesis = ""

	if err := c.transitionLocked(fsm.EventListen); err != nil {
		c.releaseLocked(active, false)
		return nil, c.failLocked(err)
	}

	go c.pump(active)
	go c.watch(active.gen, active)

	c.notifier.ShowListening(ctx)
	c.publishLocked(nil)
	c.logger.Info("capture session started",
		"generation", active.gen,
		"device", c.engine.Device(),
		"format", format.String())

	return active.done, nil
}

// resolveAuthorizationLocked walks idle to ready, querying the recognizer the
// first time. The lock is released across the authorization prompt and
// re-taken afterwards.
func (c *Controller) resolveAuthorizationLocked(ctx context.Context) error {
	if c.authResolved {
		return c.transitionLocked(fsm.EventGranted)
	}

	if err := c.transitionLocked(fsm.EventStart); err != nil {
		return err
	}

	c.mu.Unlock()
	status, err := c.recognizer.Authorize(ctx)
	c.mu.Lock()

	if c.state != fsm.StateAuthorizing {
		return fmt.Errorf("state changed during authorization: %s", c.state)
	}
	if err != nil {
		return c.failLocked(fmt.Errorf("%w: %v", ErrAuthorization, err))
	}
	if status != asr.AuthAuthorized {
		return c.failLocked(fmt.Errorf("%w: %s", ErrAuthorization, status))
	}

	c.authResolved = true
	return c.transitionLocked(fsm.EventGranted)
}

// Stop ends the live session gracefully and retains the latest hypothesis as
// the final transcript. Idempotent: a second call, or a call when idle, is a
// no-op. Safe against a concurrent terminal-error callback; whichever tears
// down first wins.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != fsm.StateListening || c.active == nil {
		return
	}
	c.stopLocked(false)
}

// Cancel ends the live session and discards the transcript.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != fsm.StateListening || c.active == nil {
		return
	}
	c.stopLocked(true)
}

// stopLocked tears the live session down: stop engine, remove tap, finish
// the recognition stream, then transition stopping -> idle and deliver the
// outcome. Callers hold the lock and have verified a session is live.
func (c *Controller) stopLocked(cancelled bool) {
	active := c.active
	_ = c.transitionLocked(fsm.EventStop)

	outcome := Outcome{
		Cancelled:     cancelled,
		Device:        c.engine.Device(),
		BytesCaptured: active.tap.Bytes(),
		StartedAt:     active.startedAt,
	}

	c.releaseLocked(active, !cancelled)

	_ = c.transitionLocked(fsm.EventStopped)

	if cancelled {
		c.lastFinal = ""
	} else {
		c.lastFinal = transcript.Normalize(c.hypothesis)
	}
	c.hypothesis = ""

	outcome.State = c.state
	outcome.Transcript = c.lastFinal
	outcome.FinishedAt = time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), 800*time.Millisecond)
	defer cancel()
	c.notifier.Hide(ctx)

	c.publishLocked(nil)
	active.done <- outcome
}

// releaseLocked returns every held session resource. Graceful teardown closes
// the send side first so the provider can flush; both paths end with Cancel.
func (c *Controller) releaseLocked(active *capture, graceful bool) {
	c.active = nil

	ctx, cancel := context.WithTimeout(context.Background(), 800*time.Millisecond)
	defer cancel()

	if err := c.engine.Stop(ctx); err != nil {
		c.logger.Warn("audio engine stop failed", "error", err.Error())
	}
	if err := active.tap.Remove(); err != nil {
		c.logger.Warn("audio tap remove failed", "error", err.Error())
	}
	if graceful {
		_ = active.stream.CloseSend()
	}
	_ = active.stream.Cancel()
}

// failSessionLocked force-stops a live session after a terminal recognition
// error. The transcript is discarded.
func (c *Controller) failSessionLocked(err error) {
	active := c.active

	outcome := Outcome{
		Err:           err,
		Device:        c.engine.Device(),
		BytesCaptured: active.tap.Bytes(),
		StartedAt:     active.startedAt,
	}

	c.releaseLocked(active, false)
	c.hypothesis = ""

	_ = c.failLocked(err)

	outcome.State = c.state
	outcome.FinishedAt = time.Now()
	active.done <- outcome
}

// failLocked surfaces an error, walks errored -> idle, and returns the error
// for the caller to propagate.
func (c *Controller) failLocked(err error) error {
	_ = c.transitionLocked(fsm.EventFail)
	c.publishLocked(err)

	ctx, cancel := context.WithTimeout(context.Background(), 800*time.Millisecond)
	defer cancel()
	c.notifier.ShowError(ctx, err.Error())

	_ = c.transitionLocked(fsm.EventReset)
	c.logger.Warn("capture session error", "error", err.Error())
	return err
}

// transitionLocked applies one lifecycle event under the held lock.
func (c *Controller) transitionLocked(event fsm.Event) error {
	next, err := fsm.Transition(c.state, event)
	if err != nil {
		return err
	}
	c.state = next
	return nil
}

// publishLocked emits a best-effort update snapshot.
func (c *Controller) publishLocked(err error) {
	text := c.hypothesis
	if c.state != fsm.StateListening || text == "" {
		text = c.prompt
	}
	select {
	case c.updates <- Update{State: c.state, Transcript: text, Err: err}:
	default:
	}
}

// pump forwards tap chunks into the recognition stream until the tap closes.
func (c *Controller) pump(active *capture) {
	for chunk := range active.tap.Chunks() {
		if err := active.stream.Send(chunk); err != nil {
			return
		}
	}
}

// watch delivers recognition results back into the controller.
func (c *Controller) watch(gen uint64, active *capture) {
	for res := range active.stream.Results() {
		c.handleResult(gen, res)
	}
}

// handleResult applies one recognition event. Events whose generation does
// not match the live session are stale and dropped without touching state.
func (c *Controller) handleResult(gen uint64, res asr.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active == nil || c.active.gen != gen {
		return
	}

	if res.Err != nil {
		c.failSessionLocked(fmt.Errorf("%w: %v", ErrRecognition, res.Err))
		return
	}

	// latest hypothesis wins; each event replaces the display wholesale
	text := transcript.Normalize(res.Text)
	if text == "" {
		return
	}
	c.hypothesis = text
	c.publishLocked(nil)
}

// Handle serves IPC commands for the active owner session.
func (c *Controller) Handle(_ context.Context, req ipc.Request) ipc.Response {
	switch req.Command {
	case ipc.CommandStatus:
		return ipc.Response{OK: true, State: string(c.State())}
	case ipc.CommandToggle, ipc.CommandStop:
		if !c.IsListening() {
			return ipc.Response{OK: false, State: string(c.State()), Error: "no active session"}
		}
		c.Stop()
		return ipc.Response{OK: true, State: string(c.State()), Message: "stopped"}
	case ipc.CommandCancel:
		if !c.IsListening() {
			return ipc.Response{OK: false, State: string(c.State()), Error: "no active session"}
		}
		c.Cancel()
		return ipc.Response{OK: true, State: string(c.State()), Message: "cancelled"}
	case ipc.CommandTranscript:
		return ipc.Response{OK: true, State: string(c.State()), Transcript: c.Transcript()}
	default:
		return ipc.Response{OK: false, State: string(c.State()), Error: fmt.Sprintf("unknown command: %s", strings.TrimSpace(req.Command))}
	}
}
