package game

import "errors"

// Interpreter-surfaced errors. These indicate malformed queries or rules,
// never a normal search outcome; the search core propagates them unchanged.
var (
	// ErrIllegalMove reports a move that is not legal for its role in the
	// queried state.
	ErrIllegalMove = errors.New("illegal move")

	// ErrWrongRoles reports a turn that does not cover exactly the roles in
	// control of the queried state.
	ErrWrongRoles = errors.New("turn does not match roles in control")

	// ErrUnknownRole reports a role the game does not declare.
	ErrUnknownRole = errors.New("unknown role")

	// ErrGoalUndefined reports a goal query for a role or state without a
	// defined goal value (e.g. a non-terminal state).
	ErrGoalUndefined = errors.New("goal undefined")

	// ErrUnsatisfiableRecord reports that no development is consistent with
	// the given record. Either the record contradicts itself or the caller's
	// belief state has diverged from the true game.
	ErrUnsatisfiableRecord = errors.New("no development consistent with record")
)
