package domain

// ConnState is the push-channel connection state. There is no terminal
// failure state: the channel retries for as long as the client is alive.
type ConnState int

const (
	StateConnecting ConnState = iota
	StateOpen
	StateRetrying
)

func (s ConnState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateRetrying:
		return "closed-retrying"
	}
	return "unknown"
}

// ConnEvent is an observable transport event driving the state machine.
type ConnEvent int

const (
	EventDialOK ConnEvent = iota
	EventDialFail
	EventReadFail
	EventRetryElapsed
)

// Next is the pure transition function for the connection state machine.
// Events that make no sense in the current state leave it unchanged, so the
// function is total over ConnState x ConnEvent.
func Next(s ConnState, e ConnEvent) ConnState {
	switch s {
	case StateConnecting:
		switch e {
		case EventDialOK:
			return StateOpen
		case EventDialFail:
			return StateRetrying
		}
	case StateOpen:
		if e == EventReadFail {
			return StateRetrying
		}
	case StateRetrying:
		if e == EventRetryElapsed {
			return StateConnecting
		}
	}
	return s
}
