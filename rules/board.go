// Package rules implements the chess rules core: board state, legal move
// generation, move application/undo, and the draw bookkeeping (repetition,
// fifty-move rule, insufficient material) a game driver needs.
//
// The package is the single authority on legality. Callers obtain candidate
// moves from LegalMoves and apply them with MakeMove; everything else is a
// read-only query.
package rules

import "math/bits"

// Piece identifies a colored piece. Black pieces are encoded as
// (white piece | 8) so that p&7 yields the kind and p&8 the color.
type Piece uint8

const (
	NoPiece     Piece = 0
	WhitePawn   Piece = 1
	WhiteKnight Piece = 2
	WhiteBishop Piece = 3
	WhiteRook   Piece = 4
	WhiteQueen  Piece = 5
	WhiteKing   Piece = 6

	BlackPawn   Piece = 1 | 8
	BlackKnight Piece = 2 | 8
	BlackBishop Piece = 3 | 8
	BlackRook   Piece = 4 | 8
	BlackQueen  Piece = 5 | 8
	BlackKing   Piece = 6 | 8
)

// PieceType is the colorless kind of a piece, used for table lookups and
// promotion selection.
type PieceType uint8

const (
	NoPieceType PieceType = 0
	Pawn        PieceType = 1
	Knight      PieceType = 2
	Bishop      PieceType = 3
	Rook        PieceType = 4
	Queen       PieceType = 5
	King        PieceType = 6
)

// Type returns the colorless kind of the piece.
func (p Piece) Type() PieceType { return PieceType(p & 7) }

// Color returns the side owning the piece. NoPiece reports White.
func (p Piece) Color() Color {
	if p&8 != 0 {
		return Black
	}
	return White
}

// MakePiece combines a side and a kind into a concrete Piece.
func MakePiece(c Color, pt PieceType) Piece {
	if pt == NoPieceType {
		return NoPiece
	}
	p := Piece(pt)
	if c == Black {
		p |= 8
	}
	return p
}

// Color is a side, White or Black.
type Color uint8

const (
	White Color = 0
	Black Color = 1
)

// Other returns the opposing side.
func (c Color) Other() Color { return 1 - c }

func (c Color) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

// CastlingRights is a bitmask of the four independent castling permissions.
type CastlingRights uint8

const (
	CastleWhiteKingside CastlingRights = 1 << iota
	CastleWhiteQueenside
	CastleBlackKingside
	CastleBlackQueenside
)

// Has reports whether every right in the mask is still available.
func (cr CastlingRights) Has(mask CastlingRights) bool { return cr&mask == mask }

// Square is a board coordinate in 0..63, a1=0, h1=7, a8=56, h8=63.
type Square int

const NoSquare Square = -1

// SquareAt builds a Square from a file and rank, both 0..7.
func SquareAt(file, rank int) Square { return Square(rank*8 + file) }

// File returns the file index 0..7 (a..h).
func (sq Square) File() int { return int(sq) % 8 }

// Rank returns the rank index 0..7 (1..8).
func (sq Square) Rank() int { return int(sq) / 8 }

func (sq Square) String() string {
	if sq == NoSquare {
		return "-"
	}
	return string([]byte{'a' + byte(sq.File()), '1' + byte(sq.Rank())})
}

// ParseSquare converts algebraic notation ("e4") to a Square.
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return NoSquare, errInvalidSquare(s)
	}
	return SquareAt(int(s[0]-'a'), int(s[1]-'1')), nil
}

// Board holds a full position: piece placement, side to move, castling
// rights, the en passant target, and the halfmove/fullmove counters.
// Placement is kept redundantly as per-piece bitboards and a 64-entry
// mailbox; the two are updated together and cross-checked by Validate.
type Board struct {
	pawns   [2]uint64
	knights [2]uint64
	bishops [2]uint64
	rooks   [2]uint64
	queens  [2]uint64
	kings   [2]uint64

	// occupancy[White] | occupancy[Black] is the full occupied set.
	occupancy [2]uint64

	pieces [64]Piece

	sideToMove     Color
	castlingRights CastlingRights

	// Target square of a double pawn push, valid only for the reply move.
	enPassantTarget Square

	// Half-moves since the last capture or pawn move, for the fifty-move rule.
	halfmoveClock int

	// Starts at 1, incremented after Black's move.
	fullmoveNumber int

	// Zobrist key over placement, side to move, castling rights and en
	// passant file. Excludes the move counters, so equal keys mean equal
	// positions for repetition purposes.
	zobristKey uint64
}

// NewBoard returns a board set up in the standard initial position.
func NewBoard() *Board {
	b, err := ParseFEN(StartingFEN)
	if err != nil {
		panic("rules: starting position failed to parse: " + err.Error())
	}
	return b
}

// PieceAt returns the piece on a square, or NoPiece.
func (b *Board) PieceAt(sq Square) Piece { return b.pieces[int(sq)] }

// SideToMove reports which side is to play.
func (b *Board) SideToMove() Color { return b.sideToMove }

// CastlingRights returns the remaining castling permissions.
func (b *Board) CastlingRights() CastlingRights { return b.castlingRights }

// EnPassantTarget returns the current en passant target square, or NoSquare.
func (b *Board) EnPassantTarget() Square { return b.enPassantTarget }

// HalfmoveClock returns the half-moves since the last capture or pawn move.
func (b *Board) HalfmoveClock() int { return b.halfmoveClock }

// FullmoveNumber returns the full move counter.
func (b *Board) FullmoveNumber() int { return b.fullmoveNumber }

// Signature returns the position signature used for repetition detection.
// Two boards with equal placement, side to move, castling rights and en
// passant target have equal signatures regardless of their move counters.
func (b *Board) Signature() uint64 { return b.zobristKey }

// AllOccupancy returns the bitboard of every occupied square.
func (b *Board) AllOccupancy() uint64 { return b.occupancy[0] | b.occupancy[1] }

// ColorOccupancy returns the occupancy bitboard of one side.
func (b *Board) ColorOccupancy(c Color) uint64 { return b.occupancy[int(c)] }

// KingSquare returns the square of the given side's king.
func (b *Board) KingSquare(c Color) Square {
	kbb := b.kings[int(c)]
	if kbb == 0 {
		return NoSquare
	}
	return Square(bits.TrailingZeros64(kbb))
}

// bb returns a bitboard with only the given square set.
func bb(sq Square) uint64 { return 1 << uint(sq) }

// popLSB removes and returns the lowest set bit index of the mask.
func popLSB(mask *uint64) int {
	idx := bits.TrailingZeros64(*mask)
	*mask &= *mask - 1
	return idx
}

// bitboardFor returns the per-kind bitboard holding pieces like p.
func (b *Board) bitboardFor(p Piece) *uint64 {
	ci := int(p.Color())
	switch p.Type() {
	case Pawn:
		return &b.pawns[ci]
	case Knight:
		return &b.knights[ci]
	case Bishop:
		return &b.bishops[ci]
	case Rook:
		return &b.rooks[ci]
	case Queen:
		return &b.queens[ci]
	case King:
		return &b.kings[ci]
	}
	return nil
}

// addPiece places a piece on an empty square, keeping bitboards, mailbox
// and the zobrist key in sync.
func (b *Board) addPiece(sq Square, p Piece) {
	if p == NoPiece {
		return
	}
	b.pieces[int(sq)] = p
	b.occupancy[int(p.Color())] |= bb(sq)
	*b.bitboardFor(p) |= bb(sq)
	b.zobristKey ^= zobristPiece[p][int(sq)]
}

// removePiece clears a square and returns whatever stood there.
func (b *Board) removePiece(sq Square) Piece {
	p := b.pieces[int(sq)]
	if p == NoPiece {
		return NoPiece
	}
	b.pieces[int(sq)] = NoPiece
	b.occupancy[int(p.Color())] &^= bb(sq)
	*b.bitboardFor(p) &^= bb(sq)
	b.zobristKey ^= zobristPiece[p][int(sq)]
	return p
}

// movePiece relocates the piece on from to the empty square to.
func (b *Board) movePiece(from, to Square) {
	b.addPiece(to, b.removePiece(from))
}

// setEnPassantTarget updates the en passant target and its zobrist term.
func (b *Board) setEnPassantTarget(sq Square) {
	if b.enPassantTarget != NoSquare {
		b.zobristKey ^= zobristEnPassant[b.enPassantTarget.File()]
	}
	b.enPassantTarget = sq
	if sq != NoSquare {
		b.zobristKey ^= zobristEnPassant[sq.File()]
	}
}

// setCastlingRights updates the rights and their zobrist term.
func (b *Board) setCastlingRights(cr CastlingRights) {
	if cr == b.castlingRights {
		return
	}
	b.zobristKey ^= zobristCastle[int(b.castlingRights)]
	b.zobristKey ^= zobristCastle[int(cr)]
	b.castlingRights = cr
}

// toggleSideToMove flips the mover and its zobrist term.
func (b *Board) toggleSideToMove() {
	b.sideToMove = b.sideToMove.Other()
	b.zobristKey ^= zobristSide
}

// IsDrawByFiftyMoves reports a fifty-move rule draw: one hundred
// half-moves without a capture or pawn move.
func (b *Board) IsDrawByFiftyMoves() bool { return b.halfmoveClock >= 100 }

// RepetitionCount returns how often the current signature occurs in the
// given history plus the current position. A final history entry equal to
// the current signature is not double-counted, so callers may record the
// signature after every move, including the latest.
func (b *Board) RepetitionCount(history []uint64) int {
	end := len(history)
	if end > 0 && history[end-1] == b.zobristKey {
		end--
	}
	count := 1
	for _, key := range history[:end] {
		if key == b.zobristKey {
			count++
		}
	}
	return count
}

// IsDrawByRepetition reports a threefold repetition against the history.
func (b *Board) IsDrawByRepetition(history []uint64) bool {
	return b.RepetitionCount(history) >= 3
}

const darkSquares uint64 = 0xAA55AA55AA55AA55

// InsufficientMaterial reports that neither side retains mating material:
// bare kings, a lone minor piece, or bishops all confined to one square
// color. Two knights against a bare king are not a forced draw and are
// not reported here.
func (b *Board) InsufficientMaterial() bool {
	if b.pawns[0]|b.pawns[1]|b.rooks[0]|b.rooks[1]|b.queens[0]|b.queens[1] != 0 {
		return false
	}
	knights := b.knights[0] | b.knights[1]
	bishops := b.bishops[0] | b.bishops[1]
	if bits.OnesCount64(knights|bishops) <= 1 {
		return true
	}
	if knights != 0 {
		return false
	}
	return bishops&darkSquares == 0 || bishops&^darkSquares == 0
}

// Validate cross-checks the mailbox, the per-kind bitboards, the occupancy
// sets and the zobrist key. It also enforces the structural invariants:
// exactly one king per side and no pawn on the first or last rank.
func (b *Board) Validate() bool {
	var occ, pawns, knights, bishops, rooks, queens, kings [2]uint64
	for sq := 0; sq < 64; sq++ {
		p := b.pieces[sq]
		if p == NoPiece {
			continue
		}
		ci := int(p.Color())
		bit := uint64(1) << uint(sq)
		occ[ci] |= bit
		switch p.Type() {
		case Pawn:
			pawns[ci] |= bit
		case Knight:
			knights[ci] |= bit
		case Bishop:
			bishops[ci] |= bit
		case Rook:
			rooks[ci] |= bit
		case Queen:
			queens[ci] |= bit
		case King:
			kings[ci] |= bit
		}
	}
	if occ != b.occupancy {
		return false
	}
	if pawns != b.pawns || knights != b.knights || bishops != b.bishops ||
		rooks != b.rooks || queens != b.queens || kings != b.kings {
		return false
	}
	if bits.OnesCount64(kings[0]) != 1 || bits.OnesCount64(kings[1]) != 1 {
		return false
	}
	const backRanks = 0xFF000000000000FF
	if (pawns[0]|pawns[1])&backRanks != 0 {
		return false
	}
	return b.zobristKey == b.computeZobrist()
}
