package rules_test

import (
	"testing"

	"chess-core/rules"
)

// Positions exercising every special move kind at least once.
var roundTripFENs = []string{
	rules.StartingFEN,
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
	"k7/8/8/3pP3/8/8/8/7K w - d6 0 2",
}

func TestMakeUnmakeRoundTrip(t *testing.T) {
	for _, fen := range roundTripFENs {
		b := mustBoard(t, fen)
		sig := b.Signature()
		for _, m := range b.LegalMoves() {
			ok, st := b.MakeMove(m)
			if !ok {
				t.Fatalf("%s: legal move %s rejected", fen, m)
			}
			if !b.Validate() {
				t.Fatalf("%s: board invalid after %s:\n%s", fen, m, b.FEN())
			}
			b.UnmakeMove(st)
			if got := b.FEN(); got != fen {
				t.Fatalf("unmake %s:\n want %s\n got  %s", m, fen, got)
			}
			if b.Signature() != sig {
				t.Fatalf("unmake %s: signature not restored", m)
			}
		}
	}
}

func TestEnPassantCaptureRemovesBypassedPawn(t *testing.T) {
	b := mustBoard(t, "k7/8/8/3pP3/8/8/8/7K w - d6 0 2")
	playMove(t, b, "e5d6")
	d5, _ := rules.ParseSquare("d5")
	d6, _ := rules.ParseSquare("d6")
	if p := b.PieceAt(d5); p != rules.NoPiece {
		t.Errorf("d5 holds %v after en passant, want empty", p)
	}
	if p := b.PieceAt(d6); p != rules.WhitePawn {
		t.Errorf("d6 holds %v after en passant, want white pawn", p)
	}
}

func TestCastlingMovesTheRook(t *testing.T) {
	b := mustBoard(t, "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	playMove(t, b, "e1g1")
	if got := b.FEN(); got != "r3k2r/8/8/8/8/8/8/R4RK1 b kq - 1 1" {
		t.Fatalf("after e1g1: %s", got)
	}

	b = mustBoard(t, "r3k2r/8/8/8/8/8/8/R3K2R b KQkq - 0 1")
	playMove(t, b, "e8c8")
	if got := b.FEN(); got != "2kr3r/8/8/8/8/8/8/R3K2R w KQ - 1 2" {
		t.Fatalf("after e8c8: %s", got)
	}
}

func TestPromotionReplacesPawn(t *testing.T) {
	b := mustBoard(t, "8/P6k/8/8/8/8/8/K7 w - - 0 1")
	playMove(t, b, "a7a8q")
	a8, _ := rules.ParseSquare("a8")
	if p := b.PieceAt(a8); p != rules.WhiteQueen {
		t.Fatalf("a8 holds %v after promotion, want white queen", p)
	}
	if got := b.FEN(); got != "Q7/7k/8/8/8/8/8/K7 b - - 0 1" {
		t.Fatalf("after a7a8q: %s", got)
	}
}

func TestHalfmoveClockBookkeeping(t *testing.T) {
	b := mustBoard(t, "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 3 5")
	playMove(t, b, "g1f3")
	if got := b.HalfmoveClock(); got != 4 {
		t.Errorf("quiet knight move: clock %d, want 4", got)
	}
	playMove(t, b, "e7e5")
	if got := b.HalfmoveClock(); got != 0 {
		t.Errorf("pawn move: clock %d, want 0", got)
	}
	playMove(t, b, "f3e5")
	if got := b.HalfmoveClock(); got != 0 {
		t.Errorf("capture: clock %d, want 0", got)
	}
}

func TestFullmoveNumberAdvancesAfterBlack(t *testing.T) {
	b := rules.NewBoard()
	playMove(t, b, "e2e4")
	if got := b.FullmoveNumber(); got != 1 {
		t.Errorf("after white's move: fullmove %d, want 1", got)
	}
	playMove(t, b, "e7e5")
	if got := b.FullmoveNumber(); got != 2 {
		t.Errorf("after black's move: fullmove %d, want 2", got)
	}
}

func TestDoublePushOpensEnPassantWindow(t *testing.T) {
	b := rules.NewBoard()
	playMove(t, b, "e2e4")
	e3, _ := rules.ParseSquare("e3")
	if got := b.EnPassantTarget(); got != e3 {
		t.Errorf("en passant target = %v, want e3", got)
	}
	playMove(t, b, "g8f6")
	if got := b.EnPassantTarget(); got != rules.NoSquare {
		t.Errorf("en passant target survived a reply: %v", got)
	}
}

func TestIllegalMoveRollsBack(t *testing.T) {
	// Moving the pinned bishop exposes the king; MakeMove must refuse and
	// leave the board untouched.
	fen := "4k3/4r3/8/8/8/8/4B3/4K3 w - - 0 1"
	b := mustBoard(t, fen)
	e2, _ := rules.ParseSquare("e2")
	d3, _ := rules.ParseSquare("d3")
	m := rules.NewMove(e2, d3, rules.WhiteBishop, rules.NoPiece, rules.NoPiece, rules.FlagNone)
	ok, _ := b.MakeMove(m)
	if ok {
		t.Fatalf("pinned bishop move accepted")
	}
	if got := b.FEN(); got != fen {
		t.Fatalf("board changed by rejected move:\n want %s\n got  %s", fen, got)
	}
	if !b.Validate() {
		t.Fatalf("board invalid after rejected move")
	}
}

func TestFiftyMoveRuleThreshold(t *testing.T) {
	b := mustBoard(t, "4k3/8/8/8/8/8/8/4K2R w - - 99 70")
	if b.IsDrawByFiftyMoves() {
		t.Fatalf("draw claimed at clock 99")
	}
	playMove(t, b, "h1h2")
	if !b.IsDrawByFiftyMoves() {
		t.Fatalf("no draw at clock 100")
	}
}
