package game

// Status classifies a session after each completed half-move. Check is a
// sub-state of an ongoing game, not a terminal one. The zero-legal-move
// outcomes take priority over the draw counters: a position with no legal
// moves is decisive regardless of repetition count or halfmove clock.
type Status uint8

const (
	Ongoing Status = iota
	Check
	Checkmate
	Stalemate
	DrawByRepetition
	DrawByFiftyMoves
	DrawByInsufficientMaterial
	Resigned
	Aborted
)

// Terminal reports whether the game has ended.
func (s Status) Terminal() bool { return s != Ongoing && s != Check }

// Draw reports whether the status is one of the draw outcomes.
func (s Status) Draw() bool {
	switch s {
	case Stalemate, DrawByRepetition, DrawByFiftyMoves, DrawByInsufficientMaterial:
		return true
	}
	return false
}

func (s Status) String() string {
	switch s {
	case Ongoing:
		return "ongoing"
	case Check:
		return "check"
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	case DrawByRepetition:
		return "draw by threefold repetition"
	case DrawByFiftyMoves:
		return "draw by fifty-move rule"
	case DrawByInsufficientMaterial:
		return "draw by insufficient material"
	case Resigned:
		return "resigned"
	case Aborted:
		return "aborted"
	}
	return "unknown"
}
