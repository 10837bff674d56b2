package ticket

import "errors"

var (
	ErrNotFound   = errors.New("ticket not found")
	ErrWrongState = errors.New("ticket in wrong state")
)

// State is the lifecycle position of a ticket.
type State uint8

const (
	Unused State = iota
	Used
	Consumed
)

func (s State) String() string {
	switch s {
	case Unused:
		return "unused"
	case Used:
		return "used"
	case Consumed:
		return "consumed"
	default:
		return "unknown"
	}
}

// Use moves an unused ticket to Used.
func (s State) Use() (State, error) {
	if s != Unused {
		return s, ErrWrongState
	}
	return Used, nil
}

// Consume moves a used ticket to Consumed.
func (s State) Consume() (State, error) {
	if s != Used {
		return s, ErrWrongState
	}
	return Consumed, nil
}

// Ticket is the stored ticket record. KeyHash is the hash of the caller's
// ticket key; the plaintext key is never stored.
type Ticket struct {
	ID          string
	KeyHash     string
	RedirectURL string
	State       State
}
