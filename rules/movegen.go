package rules

// Move generation happens in two stages. pseudoLegalInto emits every move
// obeying piece geometry, including the castling and en passant special
// rules; LegalMoves then keeps only moves that survive a tentative
// MakeMove, which rejects anything leaving the mover's own king attacked.
// Castling pre-checks its no-check and attacked-path conditions during
// generation because they concern squares the king passes through, not
// only the one it lands on.

// LegalMoves returns every legal move for the side to move. Two calls on
// equal boards return equal move sets.
func (b *Board) LegalMoves() []Move {
	return b.LegalMovesInto(make([]Move, 0, 64))
}

// LegalMovesInto appends all legal moves into dst (reset to length zero)
// and returns it, reusing capacity across calls.
func (b *Board) LegalMovesInto(dst []Move) []Move {
	pseudo := b.pseudoLegalInto(dst[:0])
	legal := pseudo[:0]
	for _, m := range pseudo {
		if ok, st := b.MakeMove(m); ok {
			b.UnmakeMove(st)
			legal = append(legal, m)
		}
	}
	return legal
}

// LegalMovesFrom returns the legal moves originating on one square, for
// move-hint queries.
func (b *Board) LegalMovesFrom(sq Square) []Move {
	var from []Move
	for _, m := range b.LegalMoves() {
		if m.From() == sq {
			from = append(from, m)
		}
	}
	return from
}

// HasLegalMoves reports whether the side to move has any legal move.
func (b *Board) HasLegalMoves() bool {
	pseudo := b.pseudoLegalInto(make([]Move, 0, 64))
	for _, m := range pseudo {
		if ok, st := b.MakeMove(m); ok {
			b.UnmakeMove(st)
			return true
		}
	}
	return false
}

// InCheckmate reports whether the side to move is checkmated.
func (b *Board) InCheckmate() bool {
	return b.InCheck(b.sideToMove) && !b.HasLegalMoves()
}

// InStalemate reports whether the side to move is stalemated.
func (b *Board) InStalemate() bool {
	return !b.InCheck(b.sideToMove) && !b.HasLegalMoves()
}

// promotionKinds is the order promotions are emitted in.
var promotionKinds = [4]PieceType{Queen, Rook, Bishop, Knight}

func (b *Board) pseudoLegalInto(dst []Move) []Move {
	moves := dst
	us := b.sideToMove
	ui := int(us)
	ownOcc := b.occupancy[ui]
	oppOcc := b.occupancy[1-ui]
	allOcc := ownOcc | oppOcc

	moves = b.pawnMovesInto(moves, allOcc, oppOcc)

	// Knights, bishops, rooks, queens and plain king moves all reduce to
	// an attack-set lookup minus own occupancy.
	for _, pt := range [5]PieceType{Knight, Bishop, Rook, Queen, King} {
		pieces := *b.bitboardFor(MakePiece(us, pt))
		for pieces != 0 {
			from := popLSB(&pieces)
			moved := b.pieces[from]
			targets := Attacks(pt, us, Square(from), allOcc) &^ ownOcc
			for targets != 0 {
				to := popLSB(&targets)
				moves = append(moves, NewMove(Square(from), Square(to), moved, b.pieces[to], NoPiece, FlagNone))
			}
		}
	}

	return b.castlingMovesInto(moves, allOcc)
}

func (b *Board) pawnMovesInto(moves []Move, allOcc, oppOcc uint64) []Move {
	us := b.sideToMove
	forward, homeRank, lastRank := 8, 1, 7
	if us == Black {
		forward, homeRank, lastRank = -8, 6, 0
	}

	pawns := b.pawns[int(us)]
	for pawns != 0 {
		from := popLSB(&pawns)
		moved := b.pieces[from]

		// Single push, promotion fan-out on the last rank, then the
		// double push from the home rank.
		one := from + forward
		if allOcc>>uint(one)&1 == 0 {
			if one/8 == lastRank {
				for _, pt := range promotionKinds {
					moves = append(moves, NewMove(Square(from), Square(one), moved, NoPiece, MakePiece(us, pt), FlagNone))
				}
			} else {
				moves = append(moves, NewMove(Square(from), Square(one), moved, NoPiece, NoPiece, FlagNone))
				if from/8 == homeRank {
					if two := one + forward; allOcc>>uint(two)&1 == 0 {
						moves = append(moves, NewMove(Square(from), Square(two), moved, NoPiece, NoPiece, FlagDoublePush))
					}
				}
			}
		}

		caps := pawnCaptures[us][from]
		targets := caps & oppOcc
		for targets != 0 {
			to := popLSB(&targets)
			captured := b.pieces[to]
			if to/8 == lastRank {
				for _, pt := range promotionKinds {
					moves = append(moves, NewMove(Square(from), Square(to), moved, captured, MakePiece(us, pt), FlagNone))
				}
			} else {
				moves = append(moves, NewMove(Square(from), Square(to), moved, captured, NoPiece, FlagNone))
			}
		}

		// En passant: the target square must be set and attackable from
		// this pawn. The captured pawn sits beside the target, not on it.
		if ep := b.enPassantTarget; ep != NoSquare && caps&bb(ep) != 0 {
			captured := MakePiece(us.Other(), Pawn)
			moves = append(moves, NewMove(Square(from), ep, moved, captured, NoPiece, FlagEnPassant))
		}
	}
	return moves
}

// castlingSpec describes one castling option: the rights bit, king path
// (from, via, to), the rook's home square, and the squares that must be
// empty between king and rook.
type castlingSpec struct {
	right      CastlingRights
	kingFrom   Square
	kingVia    Square
	kingTo     Square
	rookFrom   Square
	emptyMask  uint64
	king, rook Piece
}

var castlingSpecs = [4]castlingSpec{
	{CastleWhiteKingside, 4, 5, 6, 7, bb(5) | bb(6), WhiteKing, WhiteRook},
	{CastleWhiteQueenside, 4, 3, 2, 0, bb(1) | bb(2) | bb(3), WhiteKing, WhiteRook},
	{CastleBlackKingside, 60, 61, 62, 63, bb(61) | bb(62), BlackKing, BlackRook},
	{CastleBlackQueenside, 60, 59, 58, 56, bb(57) | bb(58) | bb(59), BlackKing, BlackRook},
}

func (b *Board) castlingMovesInto(moves []Move, allOcc uint64) []Move {
	us := b.sideToMove
	them := us.Other()
	for _, cs := range castlingSpecs {
		if cs.king.Color() != us || !b.castlingRights.Has(cs.right) {
			continue
		}
		if allOcc&cs.emptyMask != 0 || b.pieces[cs.rookFrom] != cs.rook {
			continue
		}
		// The king may not castle out of, through, or into check. The
		// landing square is re-verified by MakeMove, but checking it here
		// keeps the emitted move honest.
		if b.IsSquareAttacked(cs.kingFrom, them) ||
			b.IsSquareAttacked(cs.kingVia, them) ||
			b.IsSquareAttacked(cs.kingTo, them) {
			continue
		}
		moves = append(moves, NewMove(cs.kingFrom, cs.kingTo, cs.king, NoPiece, NoPiece, FlagCastle))
	}
	return moves
}

// Perft counts leaf nodes reachable in depth half-moves. The standard
// correctness metric for a move generator.
func Perft(b *Board, depth int) uint64 {
	if depth == 0 {
		return 1
	}
	bufs := make([][]Move, depth)
	return perftRec(b, depth, bufs)
}

func perftRec(b *Board, depth int, bufs [][]Move) uint64 {
	moves := b.pseudoLegalInto(bufs[depth-1][:0])
	bufs[depth-1] = moves[:0]
	var nodes uint64
	for _, m := range moves {
		ok, st := b.MakeMove(m)
		if !ok {
			continue
		}
		if depth == 1 {
			nodes++
		} else {
			nodes += perftRec(b, depth-1, bufs)
		}
		b.UnmakeMove(st)
	}
	return nodes
}

// PerftDivide maps each legal root move to its subtree leaf count.
func PerftDivide(b *Board, depth int) map[Move]uint64 {
	result := make(map[Move]uint64)
	if depth <= 0 {
		return result
	}
	for _, m := range b.LegalMoves() {
		ok, st := b.MakeMove(m)
		if !ok {
			continue
		}
		result[m] = Perft(b, depth-1)
		b.UnmakeMove(st)
	}
	return result
}
