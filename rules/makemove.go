package rules

// MoveState records everything needed to reverse a move exactly: the move
// itself, the captured piece and its square, and the prior castling
// rights, en passant target, clocks and signature.
type MoveState struct {
	move          Move
	captured      Piece
	capturedSq    Square
	prevCastling  CastlingRights
	prevEnPassant Square
	prevHalfmove  int
	prevFullmove  int
	prevZobrist   uint64
	rookFrom      Square
	rookTo        Square
}

// Move returns the move this state undoes.
func (st MoveState) Move() Move { return st.move }

// Captured returns the piece the move captured, or NoPiece.
func (st MoveState) Captured() Piece { return st.captured }

// MakeMove applies a move and reports whether it was legal. An illegal
// move, one leaving the mover's own king attacked, is rolled back before
// returning ok=false, so the board is unchanged on failure. This is the
// tentative-application step the legal generator relies on.
func (b *Board) MakeMove(m Move) (ok bool, st MoveState) {
	st = MoveState{
		move:          m,
		captured:      NoPiece,
		capturedSq:    NoSquare,
		prevCastling:  b.castlingRights,
		prevEnPassant: b.enPassantTarget,
		prevHalfmove:  b.halfmoveClock,
		prevFullmove:  b.fullmoveNumber,
		prevZobrist:   b.zobristKey,
		rookFrom:      NoSquare,
		rookTo:        NoSquare,
	}

	us := b.sideToMove
	from, to := m.From(), m.To()
	moved := b.pieces[int(from)]
	promo := m.Promotion()
	flag := m.Flags()

	// Any move invalidates the previous en passant window.
	b.setEnPassantTarget(NoSquare)

	// Remove the captured piece. On en passant the victim stands beside
	// the destination square, never on it.
	capSq := NoSquare
	if flag == FlagEnPassant {
		if us == White {
			capSq = to - 8
		} else {
			capSq = to + 8
		}
	} else if b.pieces[int(to)] != NoPiece {
		capSq = to
	}
	if capSq != NoSquare {
		st.captured = b.removePiece(capSq)
		st.capturedSq = capSq
	}

	// Relocate the mover, swapping in the promotion piece if any.
	b.removePiece(from)
	if promo != NoPiece {
		b.addPiece(to, promo)
	} else {
		b.addPiece(to, moved)
	}

	// Castling moves the rook alongside the king.
	if flag == FlagCastle {
		for _, cs := range castlingSpecs {
			if cs.king == moved && cs.kingTo == to {
				b.movePiece(cs.rookFrom, cs.kingVia)
				st.rookFrom, st.rookTo = cs.rookFrom, cs.kingVia
				break
			}
		}
	}

	b.setCastlingRights(b.updatedCastlingRights(moved, from, st.captured, capSq))

	// Only a double pawn push opens an en passant window.
	if flag == FlagDoublePush {
		b.setEnPassantTarget((from + to) / 2)
	}

	b.toggleSideToMove()

	// Legality: the mover's king may not be left attacked, whether or not
	// the king itself moved.
	ksq := b.KingSquare(us)
	if ksq == NoSquare || b.IsSquareAttacked(ksq, us.Other()) {
		b.UnmakeMove(st)
		return false, st
	}

	if moved.Type() == Pawn || st.captured != NoPiece {
		b.halfmoveClock = 0
	} else {
		b.halfmoveClock++
	}
	if us == Black {
		b.fullmoveNumber++
	}
	return true, st
}

// updatedCastlingRights clears rights once a king or rook has moved, or a
// rook has been captured on its home square.
func (b *Board) updatedCastlingRights(moved Piece, from Square, captured Piece, capSq Square) CastlingRights {
	cr := b.castlingRights
	switch moved {
	case WhiteKing:
		cr &^= CastleWhiteKingside | CastleWhiteQueenside
	case BlackKing:
		cr &^= CastleBlackKingside | CastleBlackQueenside
	}
	cr &^= rookRightLost(moved, from)
	if captured != NoPiece {
		cr &^= rookRightLost(captured, capSq)
	}
	return cr
}

func rookRightLost(p Piece, sq Square) CastlingRights {
	if p.Type() != Rook {
		return 0
	}
	switch sq {
	case 0:
		return CastleWhiteQueenside
	case 7:
		return CastleWhiteKingside
	case 56:
		return CastleBlackQueenside
	case 63:
		return CastleBlackKingside
	}
	return 0
}

// UnmakeMove restores the position preceding the MakeMove that produced
// st. Applying a state out of order is a programming error.
func (b *Board) UnmakeMove(st MoveState) {
	m := st.move
	from, to := m.From(), m.To()
	moved := b.pieces[int(to)]
	if promo := m.Promotion(); promo != NoPiece {
		moved = MakePiece(promo.Color(), Pawn)
	}

	b.removePiece(to)
	b.addPiece(from, moved)

	if st.rookFrom != NoSquare {
		b.movePiece(st.rookTo, st.rookFrom)
	}
	if st.captured != NoPiece {
		b.addPiece(st.capturedSq, st.captured)
	}

	b.sideToMove = moved.Color()
	b.castlingRights = st.prevCastling
	b.enPassantTarget = st.prevEnPassant
	b.halfmoveClock = st.prevHalfmove
	b.fullmoveNumber = st.prevFullmove
	b.zobristKey = st.prevZobrist
}
