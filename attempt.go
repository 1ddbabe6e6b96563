package hcs

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// State is a step of a login attempt.
type State int

const (
	StateNew State = iota
	StatePublicKeySet
	StateSessionKeyGenerated
	StateLayoutReceived
	StateEncoded
	StateSubmitted
	StateAuthorized
	StateRejected
)

var stateNames = [...]string{
	StateNew:                 "new",
	StatePublicKeySet:        "public_key_set",
	StateSessionKeyGenerated: "session_key_generated",
	StateLayoutReceived:      "layout_received",
	StateEncoded:             "encoded",
	StateSubmitted:           "submitted",
	StateAuthorized:          "authorized",
	StateRejected:            "rejected",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Terminal reports whether no transition leaves s.
func (s State) Terminal() bool {
	return s == StateAuthorized || s == StateRejected
}

// attempt tracks one Login call through the state machine. Restarts after
// a transport failure keep the id and bump try.
type attempt struct {
	id    string
	try   int
	state State
	log   zerolog.Logger
}

func newAttempt(log zerolog.Logger) *attempt {
	id := uuid.NewString()
	return &attempt{
		id:  id,
		try: 1,
		log: log.With().Str("attempt_id", id).Logger(),
	}
}

func validTransition(from, to State) bool {
	switch from {
	case StateSubmitted:
		return to == StateAuthorized || to == StateRejected
	case StateAuthorized, StateRejected:
		return false
	default:
		return to == from+1
	}
}

// advance moves to next or fails with ErrInvalidTransition.
func (a *attempt) advance(next State) error {
	if !validTransition(a.state, next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, a.state, next)
	}
	a.log.Debug().
		Int("try", a.try).
		Stringer("from", a.state).
		Stringer("to", next).
		Msg("attempt state")
	a.state = next
	return nil
}

// reset returns to StateNew for a fresh try. Once the password has been
// submitted the attempt can no longer be restarted.
func (a *attempt) reset() error {
	if a.state >= StateSubmitted {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, a.state, StateNew)
	}
	a.state = StateNew
	a.try++
	return nil
}
