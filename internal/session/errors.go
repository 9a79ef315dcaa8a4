package session

import "errors"

// Session error taxonomy. Every one of these ends the attempt, resets the
// controller to idle, and surfaces a human-readable status string.
var (
	// ErrAuthorization covers denied, restricted, and undetermined
	// recognizer authorization.
	ErrAuthorization = errors.New("speech recognition not authorized")

	// ErrUnavailable means the recognizer cannot take a session right now.
	ErrUnavailable = errors.New("recognizer unavailable")

	// ErrBadFormat means the negotiated audio format is unusable.
	ErrBadFormat = errors.New("invalid audio format")

	// ErrEngineStart means the audio engine failed to attach or start.
	ErrEngineStart = errors.New("audio engine failed to start")

	// ErrRecognition wraps a mid-session failure reported by the recognizer.
	ErrRecognition = errors.New("recognition failed")

	// ErrSessionActive rejects Start while a capture session is live.
	ErrSessionActive = errors.New("capture session already active")
)
