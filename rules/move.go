package rules

import (
	"fmt"
	"strings"
)

// Move packs a candidate move into 32 bits: source and destination square,
// the moved and captured piece codes, the promotion piece, and a special
// flag. A Move is only applicable once it came out of LegalMoves (or was
// matched against that set); hand-built moves are candidates, nothing more.
type Move uint32

// Bitfield layout, LSB first.
const (
	moveFromShift    = 0  // 6 bits
	moveToShift      = 6  // 6 bits
	movePieceShift   = 12 // 4 bits
	moveCaptureShift = 16 // 4 bits
	movePromoteShift = 20 // 4 bits
	moveFlagShift    = 24 // 2 bits
)

// Special-move flags. A capture is indicated by a non-zero captured piece
// and a promotion by a non-zero promotion piece, so neither needs a flag.
const (
	FlagNone       = 0
	FlagCastle     = 1
	FlagEnPassant  = 2
	FlagDoublePush = 3
)

// NewMove assembles a Move from its components.
func NewMove(from, to Square, piece, captured, promotion Piece, flag uint8) Move {
	return Move(uint32(from&0x3F) |
		uint32(to&0x3F)<<moveToShift |
		uint32(piece&0xF)<<movePieceShift |
		uint32(captured&0xF)<<moveCaptureShift |
		uint32(promotion&0xF)<<movePromoteShift |
		uint32(flag&0x3)<<moveFlagShift)
}

// From returns the source square.
func (m Move) From() Square { return Square(uint32(m) >> moveFromShift & 0x3F) }

// To returns the destination square.
func (m Move) To() Square { return Square(uint32(m) >> moveToShift & 0x3F) }

// MovedPiece returns the piece being moved.
func (m Move) MovedPiece() Piece { return Piece(uint32(m) >> movePieceShift & 0xF) }

// CapturedPiece returns the captured piece, or NoPiece. For en passant
// this is the pawn removed from beside the destination square.
func (m Move) CapturedPiece() Piece { return Piece(uint32(m) >> moveCaptureShift & 0xF) }

// Promotion returns the piece the pawn promotes to, or NoPiece.
func (m Move) Promotion() Piece { return Piece(uint32(m) >> movePromoteShift & 0xF) }

// Flags returns the special-move flag.
func (m Move) Flags() uint8 { return uint8(uint32(m) >> moveFlagShift & 0x3) }

// IsCapture reports whether the move captures, including en passant.
func (m Move) IsCapture() bool { return m.CapturedPiece() != NoPiece }

// String renders the move in coordinate notation: source square,
// destination square, and a lowercase promotion letter if any ("e2e4",
// "e7e8q"). This is the notation exchanged with an external engine.
func (m Move) String() string {
	s := m.From().String() + m.To().String()
	if promo := m.Promotion(); promo != NoPiece {
		s += strings.ToLower(string(pieceLetter(promo)))
	}
	return s
}

// ParseCoordinate splits coordinate notation into source, destination and
// promotion kind. It performs no legality checking; the caller matches the
// triple against the current legal move set.
func ParseCoordinate(s string) (from, to Square, promo PieceType, err error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if len(s) < 4 || len(s) > 5 {
		return NoSquare, NoSquare, NoPieceType, fmt.Errorf("coordinate move %q: wrong length", s)
	}
	if from, err = ParseSquare(s[0:2]); err != nil {
		return NoSquare, NoSquare, NoPieceType, fmt.Errorf("coordinate move %q: %w", s, err)
	}
	if to, err = ParseSquare(s[2:4]); err != nil {
		return NoSquare, NoSquare, NoPieceType, fmt.Errorf("coordinate move %q: %w", s, err)
	}
	if len(s) == 5 {
		switch s[4] {
		case 'q':
			promo = Queen
		case 'r':
			promo = Rook
		case 'b':
			promo = Bishop
		case 'n':
			promo = Knight
		default:
			return NoSquare, NoSquare, NoPieceType, fmt.Errorf("coordinate move %q: bad promotion letter", s)
		}
	}
	return from, to, promo, nil
}

func errInvalidSquare(s string) error {
	return fmt.Errorf("invalid square %q", s)
}
