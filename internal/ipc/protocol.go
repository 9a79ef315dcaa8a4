// Package ipc carries control commands between a voxnote owner process and
// forwarding invocations over a unix socket, one JSON line each way.
package ipc

// Commands understood by the session owner.
const (
	CommandStatus     = "status"
	CommandToggle     = "toggle"
	CommandStop       = "stop"
	CommandCancel     = "cancel"
	CommandTranscript = "transcript"
)

type Request struct {
	Command string `json:"command"`
}

type Response struct {
	OK         bool   `json:"ok"`
	State      string `json:"state,omitempty"`
	Message    string `json:"message,omitempty"`
	Transcript string `json:"transcript,omitempty"`
	Error      string `json:"error,omitempty"`
}
