// Terminal driver: a human plays the engine over one game session. Moves
// are typed in coordinate notation ("e2e4", "e7e8q"); "undo", "resign"
// and "quit" are also understood. Without -engine both sides are typed in
// by hand, which doubles as a handy way to probe positions.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"

	"chess-core/game"
	"chess-core/rules"
	"chess-core/uci"
)

func main() {
	enginePath := flag.String("engine", "", "path to a UCI engine binary (empty: both sides manual)")
	depth := flag.Int("depth", 5, "engine search depth")
	moveTime := flag.Duration("movetime", 500*time.Millisecond, "engine time per move")
	fen := flag.String("fen", rules.StartingFEN, "starting position in FEN")
	playBlack := flag.Bool("black", false, "play the black pieces")
	flag.Parse()

	session, err := game.NewSessionFEN(*fen)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bad position: %v\n", err)
		os.Exit(2)
	}

	var engine *uci.Engine
	if *enginePath != "" {
		engine, err = uci.Start(*enginePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "starting engine: %v\n", err)
			os.Exit(1)
		}
		defer engine.Close()
		if err := engine.NewGame(); err != nil {
			fmt.Fprintf(os.Stderr, "engine newgame: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("playing against %s\n", engine.Name())
	}

	humanSide := rules.White
	if *playBlack {
		humanSide = rules.Black
	}

	reader := bufio.NewScanner(os.Stdin)
	for {
		printBoard(session)
		fmt.Printf("[%s] %s to move\n", session.Status(), session.SideToMove())
		if session.Status().Terminal() {
			printResult(session)
			return
		}

		if engine != nil && session.SideToMove() != humanSide {
			if err := engineTurn(session, engine, uci.Limits{Depth: *depth, MoveTime: *moveTime}); err != nil {
				fmt.Fprintf(os.Stderr, "%v\n", err)
				return
			}
			continue
		}

		fmt.Print("> ")
		if !reader.Scan() {
			return
		}
		line := strings.TrimSpace(reader.Text())
		switch line {
		case "":
			continue
		case "quit":
			return
		case "undo":
			if err := session.Undo(); err != nil {
				fmt.Println(err)
			}
			continue
		case "resign":
			session.Resign(session.SideToMove())
			continue
		case "moves":
			for _, m := range session.LegalMoves() {
				fmt.Printf("%s ", m)
			}
			fmt.Println()
			continue
		}
		if err := session.PlayCoordinate(line); err != nil {
			fmt.Println(err)
		}
	}
}

// engineTurn runs one engine round-trip: position out as FEN, best move
// back in coordinate notation, validated by the session before it lands.
func engineTurn(session *game.Session, engine *uci.Engine, lim uci.Limits) error {
	mv, err := engine.BestMove(session.FEN(), lim)
	if err != nil {
		return fmt.Errorf("engine search: %w", err)
	}
	if err := session.PlayEngineMove(mv); err != nil {
		return err
	}
	fmt.Printf("engine plays %s\n", mv)
	return nil
}

var (
	whitePiece = color.New(color.FgHiWhite, color.Bold)
	blackPiece = color.New(color.FgHiBlue, color.Bold)
	boardFrame = color.New(color.FgYellow)
)

func printBoard(session *game.Session) {
	for rank := 7; rank >= 0; rank-- {
		boardFrame.Printf("%d ", rank+1)
		for file := 0; file < 8; file++ {
			p := session.PieceAt(rules.SquareAt(file, rank))
			if p == rules.NoPiece {
				fmt.Print(". ")
				continue
			}
			letter := pieceGlyph(p)
			if p.Color() == rules.White {
				whitePiece.Printf("%c ", letter)
			} else {
				blackPiece.Printf("%c ", letter)
			}
		}
		fmt.Println()
	}
	boardFrame.Println("  a b c d e f g h")
}

func pieceGlyph(p rules.Piece) byte {
	letters := "PNBRQK"
	return letters[int(p.Type())-1]
}

func printResult(session *game.Session) {
	if winner, ok := session.Winner(); ok {
		fmt.Printf("%s wins (%s)\n", winner, session.Status())
		return
	}
	fmt.Println(session.Status())
}
