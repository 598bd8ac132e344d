package rules

import "math/rand"

// Zobrist tables: one key per piece/square, per castling-rights state, per
// en passant file, plus one for the side to move. The key over a position
// is the XOR of the applicable entries; incremental updates in the board
// mutators keep it current without recomputation.
var (
	zobristPiece     [15][64]uint64
	zobristCastle    [16]uint64
	zobristEnPassant [8]uint64
	zobristSide      uint64
)

func init() {
	// Fixed seed keeps signatures stable across runs and tests.
	rnd := rand.New(rand.NewSource(0x5EED5))

	for p := range zobristPiece {
		for sq := 0; sq < 64; sq++ {
			zobristPiece[p][sq] = rnd.Uint64()
		}
	}
	for cr := range zobristCastle {
		zobristCastle[cr] = rnd.Uint64()
	}
	for f := range zobristEnPassant {
		zobristEnPassant[f] = rnd.Uint64()
	}
	zobristSide = rnd.Uint64()
}

// computeZobrist derives the key from scratch. Used when constructing a
// board and by Validate to cross-check the incremental key.
func (b *Board) computeZobrist() uint64 {
	var key uint64
	for sq := 0; sq < 64; sq++ {
		if p := b.pieces[sq]; p != NoPiece {
			key ^= zobristPiece[p][sq]
		}
	}
	if b.sideToMove == Black {
		key ^= zobristSide
	}
	key ^= zobristCastle[int(b.castlingRights)]
	if b.enPassantTarget != NoSquare {
		key ^= zobristEnPassant[b.enPassantTarget.File()]
	}
	return key
}
