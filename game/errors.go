package game

import "errors"

var (
	// ErrIllegalMove rejects a caller-supplied move that is not in the
	// current legal set. The session is left untouched.
	ErrIllegalMove = errors.New("illegal move")

	// ErrEngineMove rejects a move returned by the external engine that
	// failed legality validation. The turn does not advance; the caller
	// decides whether to retry or abort.
	ErrEngineMove = errors.New("engine returned invalid move")

	// ErrGameOver rejects moves after the session reached a terminal
	// status.
	ErrGameOver = errors.New("game is over")

	// ErrNothingToUndo is returned by Undo on a fresh session.
	ErrNothingToUndo = errors.New("nothing to undo")
)
