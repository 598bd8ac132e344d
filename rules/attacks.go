package rules

import "math/bits"

// Precomputed attack masks, filled once at package init.
var (
	knightAttacks [64]uint64
	kingAttacks   [64]uint64

	// pawnCaptures[color][sq]: squares a pawn of color attacks from sq.
	// Pawns are the one asymmetric piece; White attacks up, Black down.
	pawnCaptures [2][64]uint64

	// Directional rays excluding the origin square.
	// Rook directions: 0=N 1=S 2=E 3=W. Bishop: 0=NE 1=NW 2=SE 3=SW.
	rookRays   [64][4]uint64
	bishopRays [64][4]uint64

	// Occupancy masks and pext-indexed attack tables for sliders.
	rookMask       [64]uint64
	bishopMask     [64]uint64
	rookAttTable   [64][]uint64
	bishopAttTable [64][]uint64
)

func init() {
	initLeaperTables()
	initRays()
	initSliderTables()
}

func initLeaperTables() {
	knightOffsets := [8][2]int{
		{2, 1}, {2, -1}, {-2, 1}, {-2, -1},
		{1, 2}, {1, -2}, {-1, 2}, {-1, -2},
	}
	kingOffsets := [8][2]int{
		{1, 0}, {-1, 0}, {0, 1}, {0, -1},
		{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
	}
	for sq := 0; sq < 64; sq++ {
		file, rank := sq%8, sq/8
		for _, off := range knightOffsets {
			if r, f := rank+off[0], file+off[1]; r >= 0 && r < 8 && f >= 0 && f < 8 {
				knightAttacks[sq] |= uint64(1) << uint(r*8+f)
			}
		}
		for _, off := range kingOffsets {
			if r, f := rank+off[0], file+off[1]; r >= 0 && r < 8 && f >= 0 && f < 8 {
				kingAttacks[sq] |= uint64(1) << uint(r*8+f)
			}
		}
		if rank < 7 {
			if file > 0 {
				pawnCaptures[White][sq] |= uint64(1) << uint((rank+1)*8+file-1)
			}
			if file < 7 {
				pawnCaptures[White][sq] |= uint64(1) << uint((rank+1)*8+file+1)
			}
		}
		if rank > 0 {
			if file > 0 {
				pawnCaptures[Black][sq] |= uint64(1) << uint((rank-1)*8+file-1)
			}
			if file < 7 {
				pawnCaptures[Black][sq] |= uint64(1) << uint((rank-1)*8+file+1)
			}
		}
	}
}

func initRays() {
	for sq := 0; sq < 64; sq++ {
		file, rank := sq%8, sq/8

		for r := rank + 1; r < 8; r++ {
			rookRays[sq][0] |= 1 << uint(r*8+file)
		}
		for r := rank - 1; r >= 0; r-- {
			rookRays[sq][1] |= 1 << uint(r*8+file)
		}
		for f := file + 1; f < 8; f++ {
			rookRays[sq][2] |= 1 << uint(rank*8+f)
		}
		for f := file - 1; f >= 0; f-- {
			rookRays[sq][3] |= 1 << uint(rank*8+f)
		}

		for r, f := rank+1, file+1; r < 8 && f < 8; r, f = r+1, f+1 {
			bishopRays[sq][0] |= 1 << uint(r*8+f)
		}
		for r, f := rank+1, file-1; r < 8 && f >= 0; r, f = r+1, f-1 {
			bishopRays[sq][1] |= 1 << uint(r*8+f)
		}
		for r, f := rank-1, file+1; r >= 0 && f < 8; r, f = r-1, f+1 {
			bishopRays[sq][2] |= 1 << uint(r*8+f)
		}
		for r, f := rank-1, file-1; r >= 0 && f >= 0; r, f = r-1, f-1 {
			bishopRays[sq][3] |= 1 << uint(r*8+f)
		}
	}
}

// initSliderTables enumerates, per square, every subset of the blocker
// mask and stores the resulting attack set, indexed by software pext.
func initSliderTables() {
	for sq := 0; sq < 64; sq++ {
		file, rank := sq%8, sq/8

		// Masks exclude board-edge squares; a blocker on the edge cannot
		// shorten the ray any further.
		var rm uint64
		for r := rank + 1; r < 7; r++ {
			rm |= 1 << uint(r*8+file)
		}
		for r := rank - 1; r > 0; r-- {
			rm |= 1 << uint(r*8+file)
		}
		for f := file + 1; f < 7; f++ {
			rm |= 1 << uint(rank*8+f)
		}
		for f := file - 1; f > 0; f-- {
			rm |= 1 << uint(rank*8+f)
		}
		rookMask[sq] = rm

		var bm uint64
		for r, f := rank+1, file+1; r < 7 && f < 7; r, f = r+1, f+1 {
			bm |= 1 << uint(r*8+f)
		}
		for r, f := rank+1, file-1; r < 7 && f > 0; r, f = r+1, f-1 {
			bm |= 1 << uint(r*8+f)
		}
		for r, f := rank-1, file+1; r > 0 && f < 7; r, f = r-1, f+1 {
			bm |= 1 << uint(r*8+f)
		}
		for r, f := rank-1, file-1; r > 0 && f > 0; r, f = r-1, f-1 {
			bm |= 1 << uint(r*8+f)
		}
		bishopMask[sq] = bm

		rookAttTable[sq] = make([]uint64, 1<<uint(bits.OnesCount64(rm)))
		for idx := range rookAttTable[sq] {
			rookAttTable[sq][idx] = rookAttacksSlow(sq, pdep(uint64(idx), rm))
		}
		bishopAttTable[sq] = make([]uint64, 1<<uint(bits.OnesCount64(bm)))
		for idx := range bishopAttTable[sq] {
			bishopAttTable[sq][idx] = bishopAttacksSlow(sq, pdep(uint64(idx), bm))
		}
	}
}

// pext packs the bits of x selected by mask into the low bits.
func pext(x, mask uint64) uint64 {
	var res uint64
	var idx uint
	for m := mask; m != 0; m &= m - 1 {
		if x>>uint(bits.TrailingZeros64(m))&1 != 0 {
			res |= 1 << idx
		}
		idx++
	}
	return res
}

// pdep deposits the low bits of x into the positions selected by mask.
func pdep(x, mask uint64) uint64 {
	var res uint64
	var idx uint
	for m := mask; m != 0; m &= m - 1 {
		if x>>idx&1 != 0 {
			res |= 1 << uint(bits.TrailingZeros64(m))
		}
		idx++
	}
	return res
}

// rookAttacksSlow walks each ray to the first blocker, inclusive. Only
// used to build the lookup tables.
func rookAttacksSlow(sq int, occ uint64) uint64 {
	var attacks uint64
	for d := 0; d < 4; d++ {
		ray := rookRays[sq][d]
		if blockers := ray & occ; blockers != 0 {
			ray &^= rookRays[firstBlocker(blockers, d == 0 || d == 2)][d]
		}
		attacks |= ray
	}
	return attacks
}

func bishopAttacksSlow(sq int, occ uint64) uint64 {
	var attacks uint64
	for d := 0; d < 4; d++ {
		ray := bishopRays[sq][d]
		if blockers := ray & occ; blockers != 0 {
			ray &^= bishopRays[firstBlocker(blockers, d == 0 || d == 1)][d]
		}
		attacks |= ray
	}
	return attacks
}

// firstBlocker returns the blocker nearest the ray origin: the lowest bit
// for rays walking up the board, the highest for rays walking down.
func firstBlocker(blockers uint64, ascending bool) int {
	if ascending {
		return bits.TrailingZeros64(blockers)
	}
	return 63 - bits.LeadingZeros64(blockers)
}

func rookAttacksFrom(sq int, occ uint64) uint64 {
	return rookAttTable[sq][pext(occ, rookMask[sq])]
}

func bishopAttacksFrom(sq int, occ uint64) uint64 {
	return bishopAttTable[sq][pext(occ, bishopMask[sq])]
}

// Attacks returns the set of squares a piece of the given kind and color
// pseudo-legally attacks from sq against the given occupancy. Sliders stop
// at the first occupied square, inclusive; whether that square holds a
// friend or an enemy is the caller's concern. Pure function, no board
// state involved.
func Attacks(pt PieceType, c Color, sq Square, occ uint64) uint64 {
	s := int(sq)
	switch pt {
	case Pawn:
		return pawnCaptures[c][s]
	case Knight:
		return knightAttacks[s]
	case Bishop:
		return bishopAttacksFrom(s, occ)
	case Rook:
		return rookAttacksFrom(s, occ)
	case Queen:
		return rookAttacksFrom(s, occ) | bishopAttacksFrom(s, occ)
	case King:
		return kingAttacks[s]
	}
	return 0
}

// IsSquareAttacked reports whether any piece of the given color attacks
// the square on the current board.
func (b *Board) IsSquareAttacked(sq Square, by Color) bool {
	return b.isSquareAttackedWithOcc(int(sq), by, b.AllOccupancy())
}

// isSquareAttackedWithOcc is the occupancy-parameterized variant, used to
// probe hypothetical positions (king moves, en passant) without mutation.
func (b *Board) isSquareAttackedWithOcc(s int, by Color, occ uint64) bool {
	bi := int(by)

	// Reverse pawn lookup: a pawn of `by` attacks s iff a pawn of the
	// opposite color standing on s would attack the pawn's square.
	if pawnCaptures[by.Other()][s]&b.pawns[bi] != 0 {
		return true
	}
	if knightAttacks[s]&b.knights[bi] != 0 {
		return true
	}
	if kingAttacks[s]&b.kings[bi] != 0 {
		return true
	}
	if rookAttacksFrom(s, occ)&(b.rooks[bi]|b.queens[bi]) != 0 {
		return true
	}
	if bishopAttacksFrom(s, occ)&(b.bishops[bi]|b.queens[bi]) != 0 {
		return true
	}
	return false
}

// InCheck reports whether the given side's king is attacked.
func (b *Board) InCheck(c Color) bool {
	ksq := b.KingSquare(c)
	if ksq == NoSquare {
		return false
	}
	return b.IsSquareAttacked(ksq, c.Other())
}
