package fsm

import "fmt"

type State string

type Event string

const (
	StateIdle        State = "idle"
	StateAuthorizing State = "authorizing"
	StateReady       State = "ready"
	StateListening   State = "listening"
	StateStopping    State = "stopping"
	StateErrored     State = "errored"
)

const (
	EventStart   Event = "start"
	EventGranted Event = "granted"
	EventListen  Event = "listen"
	EventStop    Event = "stop"
	EventStopped Event = "stopped"
	EventFail    Event = "fail"
	EventReset   Event = "reset"
)

// Transition applies one event to the current state and returns the next
// state. EventFail is accepted from every state; everything else follows the
// capture lifecycle idle -> authorizing -> ready -> listening -> stopping ->
// idle. EventGranted from idle covers the case where authorization was
// already resolved on an earlier session.
func Transition(current State, event Event) (State, error) {
	if event == EventFail {
		return StateErrored, nil
	}

	switch current {
	case StateIdle:
		switch event {
		case EventStart:
			return StateAuthorizing, nil
		case EventGranted:
			return StateReady, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateAuthorizing:
		switch event {
		case EventGranted:
			return StateReady, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateReady:
		switch event {
		case EventListen:
			return StateListening, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateListening:
		switch event {
		case EventStop:
			return StateStopping, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateStopping:
		switch event {
		case EventStopped:
			return StateIdle, nil
		default:
			return current, invalidTransition(current, event)
		}
	case StateErrored:
		switch event {
		case EventReset:
			return StateIdle, nil
		default:
			return current, invalidTransition(current, event)
		}
	default:
		return current, fmt.Errorf("unknown state %q", current)
	}
}

func invalidTransition(state State, event Event) error {
	return fmt.Errorf("invalid transition: %s --(%s)--> ?", state, event)
}
