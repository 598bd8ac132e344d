// Package game drives a chess game as a turn-taking state machine over the
// rules core. A Session owns the authoritative board and its history; UIs
// and engine adapters feed it one validated move per turn and query it
// read-only in between. Sessions are not safe for concurrent use; a host
// driving one from several goroutines must serialize access itself.
package game

import (
	"fmt"

	"golang.org/x/exp/slices"

	"chess-core/rules"
)

// Session is the authoritative game state: the current board, the undo
// stack, and the signature history that backs repetition detection.
type Session struct {
	board   *rules.Board
	stack   []rules.MoveState
	keys    []uint64
	status  Status
	winner  rules.Color
	decided bool
}

// NewSession starts a game from the standard initial position.
func NewSession() *Session {
	s, err := NewSessionFEN(rules.StartingFEN)
	if err != nil {
		panic("game: starting position failed to parse: " + err.Error())
	}
	return s
}

// NewSessionFEN starts a game from an arbitrary position in exchange
// notation. The error, if any, wraps rules.ErrInvalidFEN.
func NewSessionFEN(fen string) (*Session, error) {
	b, err := rules.ParseFEN(fen)
	if err != nil {
		return nil, err
	}
	s := &Session{board: b, keys: []uint64{b.Signature()}}
	s.status = s.classify()
	return s, nil
}

// Status returns the classification after the last completed half-move.
func (s *Session) Status() Status { return s.status }

// Winner returns the winning side of a decided game (checkmate or
// resignation) and whether there is one.
func (s *Session) Winner() (rules.Color, bool) { return s.winner, s.decided }

// SideToMove reports whose turn it is.
func (s *Session) SideToMove() rules.Color { return s.board.SideToMove() }

// FEN serializes the current position to exchange notation, the string
// handed to an external engine.
func (s *Session) FEN() string { return s.board.FEN() }

// PieceAt returns the piece on a square, or rules.NoPiece.
func (s *Session) PieceAt(sq rules.Square) rules.Piece { return s.board.PieceAt(sq) }

// InCheck reports whether the side to move is currently attacked.
func (s *Session) InCheck() bool { return s.board.InCheck(s.board.SideToMove()) }

// MovesPlayed returns the number of half-moves applied so far.
func (s *Session) MovesPlayed() int { return len(s.stack) }

// LegalMoves returns the legal moves in the current position.
func (s *Session) LegalMoves() []rules.Move { return s.board.LegalMoves() }

// LegalMovesFrom returns the legal moves from one square, for move-hint
// highlighting.
func (s *Session) LegalMovesFrom(sq rules.Square) []rules.Move {
	return s.board.LegalMovesFrom(sq)
}

// Play applies one move obtained from LegalMoves. Anything not in the
// current legal set is rejected with ErrIllegalMove and the session stays
// exactly as it was. After a terminal status every move is rejected with
// ErrGameOver.
func (s *Session) Play(m rules.Move) error {
	if s.status.Terminal() {
		return ErrGameOver
	}
	legal := s.board.LegalMoves()
	if !slices.Contains(legal, m) {
		return fmt.Errorf("%w: %s", ErrIllegalMove, m)
	}
	return s.apply(m)
}

// PlayCoordinate applies a move given in coordinate notation ("e2e4",
// "e7e8q"), matching it against the legal set by source, destination and
// promotion kind. A pawn move to the last rank without a promotion letter
// matches nothing and is rejected.
func (s *Session) PlayCoordinate(move string) error {
	if s.status.Terminal() {
		return ErrGameOver
	}
	m, err := s.matchCoordinate(move)
	if err != nil {
		return err
	}
	return s.apply(m)
}

// PlayEngineMove applies a move returned by the external search engine.
// It runs the same validation as PlayCoordinate but reports failures as
// ErrEngineMove: the turn is not advanced and the caller decides whether
// to retry or abort.
func (s *Session) PlayEngineMove(move string) error {
	if s.status.Terminal() {
		return ErrGameOver
	}
	m, err := s.matchCoordinate(move)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrEngineMove, move)
	}
	return s.apply(m)
}

func (s *Session) matchCoordinate(move string) (rules.Move, error) {
	from, to, promo, err := rules.ParseCoordinate(move)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrIllegalMove, err)
	}
	for _, m := range s.board.LegalMoves() {
		if m.From() == from && m.To() == to && m.Promotion().Type() == promo {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrIllegalMove, move)
}

// apply assumes m is a member of the current legal set.
func (s *Session) apply(m rules.Move) error {
	ok, st := s.board.MakeMove(m)
	if !ok {
		// Unreachable for generator-approved moves; kept as a guard.
		return fmt.Errorf("%w: %s", ErrIllegalMove, m)
	}
	s.stack = append(s.stack, st)
	s.keys = append(s.keys, s.board.Signature())
	s.status = s.classify()
	if s.status == Checkmate {
		s.winner = s.board.SideToMove().Other()
		s.decided = true
	}
	return nil
}

// Undo takes back the last applied move, restoring the previous position
// exactly. On a game ended by resignation or abort it first rescinds that
// outcome without touching the board; the next Undo pops a move again.
func (s *Session) Undo() error {
	if s.status == Resigned || s.status == Aborted {
		s.winner, s.decided = 0, false
		s.status = s.classify()
		return nil
	}
	if len(s.stack) == 0 {
		return ErrNothingToUndo
	}
	st := s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
	s.keys = s.keys[:len(s.keys)-1]
	s.board.UnmakeMove(st)
	s.winner, s.decided = 0, false
	s.status = s.classify()
	return nil
}

// Resign ends the game in favor of the opponent of c.
func (s *Session) Resign(c rules.Color) {
	if s.status.Terminal() {
		return
	}
	s.status = Resigned
	s.winner = c.Other()
	s.decided = true
}

// Abort ends the game without a result. There is no pending internal
// operation to cancel; the session simply stops accepting moves.
func (s *Session) Abort() {
	if s.status.Terminal() {
		return
	}
	s.status = Aborted
}

// History returns the moves played so far, oldest first.
func (s *Session) History() []rules.Move {
	moves := make([]rules.Move, len(s.stack))
	for i, st := range s.stack {
		moves[i] = st.Move()
	}
	return moves
}

// RepetitionCount reports how often the current position has occurred.
func (s *Session) RepetitionCount() int {
	return s.board.RepetitionCount(s.keys)
}

// classify is the game state evaluator. Zero-legal-move outcomes come
// first, then the draw rules, then the check sub-state.
func (s *Session) classify() Status {
	if !s.board.HasLegalMoves() {
		if s.board.InCheck(s.board.SideToMove()) {
			return Checkmate
		}
		return Stalemate
	}
	if s.board.IsDrawByRepetition(s.keys) {
		return DrawByRepetition
	}
	if s.board.IsDrawByFiftyMoves() {
		return DrawByFiftyMoves
	}
	if s.board.InsufficientMaterial() {
		return DrawByInsufficientMaterial
	}
	if s.board.InCheck(s.board.SideToMove()) {
		return Check
	}
	return Ongoing
}
