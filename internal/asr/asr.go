// Package asr abstracts streaming speech recognition backends.
package asr

import "context"

// AuthStatus is the recognizer's authorization answer for this client.
type AuthStatus string

const (
	AuthAuthorized   AuthStatus = "authorized"
	AuthDenied       AuthStatus = "denied"
	AuthRestricted   AuthStatus = "restricted"
	AuthUndetermined AuthStatus = "undetermined"
)

// Result is one recognition callback: a revised hypothesis or a terminal
// error. A hypothesis always carries the full best-formatted text so far,
// never a delta.
type Result struct {
	Text  string
	Final bool
	Err   error
}

// Stream is one active recognition request/task. Send appends raw audio,
// CloseSend signals end-of-audio for a graceful finish, Cancel hard-stops.
// Results is closed when the task ends for any reason.
type Stream interface {
	Send(chunk []byte) error
	Results() <-chan Result
	CloseSend() error
	Cancel() error
}

// Recognizer abstracts a streaming speech recognition service.
type Recognizer interface {
	Authorize(ctx context.Context) (AuthStatus, error)
	Available(ctx context.Context) bool
	Open(ctx context.Context) (Stream, error)
}
