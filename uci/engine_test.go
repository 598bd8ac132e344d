package uci_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"chess-core/uci"
)

// scripted builds an Engine over an in-memory transport: replies holds
// everything the fake engine will ever say, sent collects what we write.
func scripted(replies string) (*uci.Engine, *bytes.Buffer) {
	sent := &bytes.Buffer{}
	return uci.New(strings.NewReader(replies), sent), sent
}

func TestHandshakeCapturesEngineName(t *testing.T) {
	e, sent := scripted("id name Stockfish 16\nid author the Stockfish developers\nuciok\n")
	require.NoError(t, e.Handshake())
	require.Equal(t, "Stockfish 16", e.Name())
	require.Equal(t, "uci\n", sent.String())
}

func TestHandshakeFailsOnClosedTransport(t *testing.T) {
	e, _ := scripted("")
	err := e.Handshake()
	require.Error(t, err)
	require.Contains(t, err.Error(), "closed")
}

func TestNewGameWaitsForReadyok(t *testing.T) {
	e, sent := scripted("readyok\n")
	require.NoError(t, e.NewGame())
	require.Equal(t, "ucinewgame\nisready\n", sent.String())
}

func TestSetOption(t *testing.T) {
	e, sent := scripted("")
	require.NoError(t, e.SetOption("Skill Level", "5"))
	require.Equal(t, "setoption name Skill Level value 5\n", sent.String())
}

func TestBestMoveSendsPositionAndLimits(t *testing.T) {
	e, sent := scripted("info depth 1 score cp 20 pv e2e4\ninfo depth 2 score cp 15 pv e2e4 e7e5\nbestmove e2e4 ponder e7e5\n")
	fen := "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"
	mv, err := e.BestMove(fen, uci.Limits{Depth: 3, MoveTime: 100 * time.Millisecond})
	require.NoError(t, err)
	require.Equal(t, "e2e4", mv)
	require.Equal(t, "position fen "+fen+"\ngo depth 3 movetime 100\n", sent.String())
}

func TestBestMoveOmitsZeroLimits(t *testing.T) {
	e, sent := scripted("bestmove g8f6\n")
	mv, err := e.BestMove("fen-here", uci.Limits{})
	require.NoError(t, err)
	require.Equal(t, "g8f6", mv)
	require.True(t, strings.HasSuffix(sent.String(), "go\n"))
}

func TestBestMoveReportsNoMove(t *testing.T) {
	for _, reply := range []string{"bestmove (none)\n", "bestmove 0000\n"} {
		e, _ := scripted(reply)
		_, err := e.BestMove("fen-here", uci.Limits{Depth: 1})
		require.Error(t, err)
		require.Contains(t, err.Error(), "no move")
	}
}

func TestBestMoveSkipsInfoChatter(t *testing.T) {
	var replies strings.Builder
	for i := 0; i < 50; i++ {
		replies.WriteString("info string noise\n")
	}
	replies.WriteString("bestmove e7e8q\n")
	e, _ := scripted(replies.String())
	mv, err := e.BestMove("fen-here", uci.Limits{Depth: 1})
	require.NoError(t, err)
	require.Equal(t, "e7e8q", mv)
}

func TestCloseSendsQuit(t *testing.T) {
	e, sent := scripted("")
	require.NoError(t, e.Close())
	require.Equal(t, "quit\n", sent.String())
}
