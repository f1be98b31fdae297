package game

import (
	"errors"
	"fmt"
)

var (
	ErrMatchNotStarted  = errors.New("match not started")
	ErrNotYourTurn      = errors.New("action out of turn")
	ErrWrongPhase       = errors.New("action not legal in current phase")
	ErrTossAlreadyUsed  = errors.New("already tossed this turn")
	ErrCardNotInHand    = errors.New("card not in hand")
	ErrRankMismatch     = errors.New("toss cards must share a rank")
	ErrSameCard         = errors.New("toss needs two distinct cards")
	ErrDiscardPileEmpty = errors.New("discard pile is empty")
	ErrReclaimForbidden = errors.New("cannot reclaim the card just discarded")
	ErrNotAuthority     = errors.New("only the host seat may advance in online mode")
	ErrRoundsRemain     = errors.New("rounds remain, advance the round instead")
	ErrMatchOver        = errors.New("match already over")
	ErrMatchInProgress  = errors.New("match already in progress")
)

// RuleError is the typed validation failure for a rejected action. The
// state is guaranteed untouched when one is returned.
type RuleError struct {
	Action ActionType
	Seat   int
	Reason error
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("illegal %s by seat %d: %v", e.Action, e.Seat, e.Reason)
}

func (e *RuleError) Unwrap() error { return e.Reason }

func reject(a Action, reason error) error {
	return &RuleError{Action: a.Type, Seat: a.Seat, Reason: reason}
}
