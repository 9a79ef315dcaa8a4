package audio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/jfreymuth/pulse"
	pulseproto "github.com/jfreymuth/pulse/proto"
)

// ErrNoTap is returned by Start when no tap has been attached first.
var ErrNoTap = errors.New("audio engine has no attached tap")

// Engine owns device resolution and the capture stream for one process.
// Tap attachment and stream start are separate steps so a caller can
// validate the negotiated format and wire downstream consumers before
// any PCM flows.
type Engine struct {
	input    string
	fallback string
	format   Format

	mu        sync.Mutex
	selection *Selection
	active    *Tap
}

// NewEngine builds an engine for the configured input preferences.
func NewEngine(input string, fallback string, format Format) *Engine {
	return &Engine{input: input, fallback: fallback, format: format}
}

// Format resolves and caches the capture device, then returns the
// configured capture format. Resolution failures surface here rather
// than at tap attachment so callers can distinguish the two steps.
func (e *Engine) Format(ctx context.Context) (Format, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.selection == nil {
		selection, err := SelectDevice(ctx, e.input, e.fallback)
		if err != nil {
			return Format{}, err
		}
		e.selection = &selection
	}
	return e.format, nil
}

// Device returns a description of the resolved capture device.
func (e *Engine) Device() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.selection == nil {
		return ""
	}
	return DescribeDevice(e.selection.Device)
}

// SelectionWarning returns the fallback warning recorded during device
// resolution, if any.
func (e *Engine) SelectionWarning() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.selection == nil {
		return ""
	}
	return e.selection.Warning
}

// AttachTap connects to Pulse and creates the record stream without
// starting it. The returned tap delivers fixed-size PCM chunks once
// Start is called.
func (e *Engine) AttachTap(ctx context.Context) (*Tap, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.active != nil {
		return nil, errors.New("audio tap already attached")
	}
	if e.selection == nil {
		selection, err := SelectDevice(ctx, e.input, e.fallback)
		if err != nil {
			return nil, err
		}
		e.selection = &selection
	}

	client, err := pulse.NewClient(
		pulse.ClientApplicationName("voxnote"),
		pulse.ClientApplicationIconName("audio-input-microphone"),
	)
	if err != nil {
		return nil, fmt.Errorf("connect pulse server: %w", err)
	}

	source, err := client.SourceByID(e.selection.Device.ID)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("resolve source %q: %w", e.selection.Device.ID, err)
	}

	tap := &Tap{
		engine:    e,
		client:    client,
		chunkSize: e.format.chunkSize(),
		chunks:    make(chan []byte, 128),
		stopCh:    make(chan struct{}),
	}

	writer := pulse.NewWriter(writerFunc(tap.onPCM), pulseproto.FormatInt16LE)
	opts := []pulse.RecordOption{
		pulse.RecordSource(source),
		pulse.RecordSampleRate(e.format.SampleRate),
		pulse.RecordBufferFragmentSize(uint32(tap.chunkSize)),
		pulse.RecordMediaName("voxnote dictation"),
	}
	if e.format.Channels == 2 {
		opts = append(opts, pulse.RecordStereo)
	} else {
		opts = append(opts, pulse.RecordMono)
	}

	stream, err := client.NewRecord(writer, opts...)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("create pulse record stream: %w", err)
	}
	tap.stream = stream

	e.active = tap
	return tap, nil
}

// Start begins PCM delivery on the attached tap.
func (e *Engine) Start(_ context.Context) error {
	e.mu.Lock()
	tap := e.active
	e.mu.Unlock()
	if tap == nil {
		return ErrNoTap
	}
	tap.stream.Start()
	return nil
}

// Stop halts PCM delivery without removing the tap.
func (e *Engine) Stop(_ context.Context) error {
	e.mu.Lock()
	tap := e.active
	e.mu.Unlock()
	if tap == nil {
		return nil
	}
	tap.stream.Stop()
	return nil
}

// detach clears the engine's active tap reference. Called by Tap.Remove.
func (e *Engine) detach(tap *Tap) {
	e.mu.Lock()
	if e.active == tap {
		e.active = nil
	}
	e.mu.Unlock()
}

// Tap streams fixed-size PCM chunks from the engine's record stream.
type Tap struct {
	engine    *Engine
	client    *pulse.Client
	stream    *pulse.RecordStream
	chunkSize int

	chunks chan []byte
	stopCh chan struct{}

	mu      sync.Mutex
	pending []byte
	removed bool

	inflight sync.WaitGroup
	bytes    atomic.Int64
}

// Chunks returns the PCM stream as fixed-size byte slices. The channel
// closes after Remove.
func (t *Tap) Chunks() <-chan []byte {
	return t.chunks
}

// Bytes reports total bytes accepted from Pulse.
func (t *Tap) Bytes() int64 {
	return t.bytes.Load()
}

// Remove stops the stream, flushes residual PCM, closes Chunks exactly
// once, and releases the Pulse connection. Safe to call repeatedly.
func (t *Tap) Remove() error {
	t.mu.Lock()
	if t.removed {
		t.mu.Unlock()
		return nil
	}
	t.removed = true
	close(t.stopCh)
	t.mu.Unlock()

	if t.stream != nil {
		t.stream.Stop()
		t.stream.Close()
	}
	if t.client != nil {
		t.client.Close()
	}

	t.inflight.Wait()

	t.mu.Lock()
	pending := append([]byte(nil), t.pending...)
	t.pending = nil
	t.mu.Unlock()

	if len(pending) > 0 {
		chunk := make([]byte, len(pending))
		copy(chunk, pending)
		select {
		case t.chunks <- chunk:
		default:
		}
	}

	close(t.chunks)
	if t.engine != nil {
		t.engine.detach(t)
	}
	return nil
}

// onPCM receives raw Pulse frames and emits chunkSize slices to t.chunks.
func (t *Tap) onPCM(buffer []byte) (int, error) {
	if len(buffer) == 0 {
		return 0, nil
	}

	select {
	case <-t.stopCh:
		return 0, io.EOF
	default:
	}

	t.mu.Lock()
	if t.removed {
		t.mu.Unlock()
		return 0, io.EOF
	}
	// Guard Add under the same mutex as t.removed to avoid Add/Wait races.
	t.inflight.Add(1)

	t.pending = append(t.pending, buffer...)

	chunks := make([][]byte, 0, len(t.pending)/t.chunkSize)
	for len(t.pending) >= t.chunkSize {
		chunk := make([]byte, t.chunkSize)
		copy(chunk, t.pending[:t.chunkSize])
		t.pending = t.pending[t.chunkSize:]
		chunks = append(chunks, chunk)
	}
	t.mu.Unlock()
	defer t.inflight.Done()

	t.bytes.Add(int64(len(buffer)))

	for _, chunk := range chunks {
		select {
		case <-t.stopCh:
			return 0, io.EOF
		case t.chunks <- chunk:
		}
	}

	return len(buffer), nil
}

// writerFunc adapts a function to io.Writer for pulse.NewWriter.
type writerFunc func([]byte) (int, error)

func (f writerFunc) Write(b []byte) (int, error) {
	return f(b)
}
