package asr

import (
	"context"
	"fmt"
	"sync"
)

type mockRecognizer struct{}

// NewMock returns a recognizer that synthesizes hypotheses from received byte
// counts. It backs recognizer.mode=mock so the capture pipeline can run
// without a speech service.
func NewMock() Recognizer {
	return mockRecognizer{}
}

func (mockRecognizer) Authorize(context.Context) (AuthStatus, error) {
	return AuthAuthorized, nil
}

func (mockRecognizer) Available(context.Context) bool {
	return true
}

func (mockRecognizer) Open(context.Context) (Stream, error) {
	return &mockStream{results: make(chan Result, 16)}, nil
}

type mockStream struct {
	mu      sync.Mutex
	total   int
	done    bool
	results chan Result
}

func (m *mockStream) Results() <-chan Result {
	return m.results
}

func (m *mockStream) Send(chunk []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.done {
		return nil
	}
	m.total += len(chunk)
	select {
	case m.results <- Result{Text: fmt.Sprintf("[heard %d bytes]", m.total)}:
	default:
	}
	return nil
}

func (m *mockStream) CloseSend() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.done {
		return nil
	}
	m.done = true
	m.results <- Result{Text: fmt.Sprintf("[heard %d bytes]", m.total), Final: true}
	close(m.results)
	return nil
}

func (m *mockStream) Cancel() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.done {
		return nil
	}
	m.done = true
	close(m.results)
	return nil
}
