// Perft driver: counts move-generation leaf nodes for a position, with an
// optional per-root-move breakdown for debugging the generator.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"chess-core/rules"
)

func main() {
	fen := flag.String("fen", rules.StartingFEN, "position in FEN (defaults to the initial position)")
	depth := flag.Int("depth", 0, "perft depth (required)")
	divide := flag.Bool("divide", false, "print per-move node counts at the root")
	flag.Parse()

	if *depth <= 0 {
		fmt.Fprintln(os.Stderr, "-depth must be > 0")
		os.Exit(2)
	}

	board, err := rules.ParseFEN(*fen)
	if err != nil {
		fmt.Fprintf(os.Stderr, "parsing FEN: %v\n", err)
		os.Exit(2)
	}

	if *divide {
		div := rules.PerftDivide(board, *depth)
		moves := maps.Keys(div)
		slices.SortFunc(moves, func(a, b rules.Move) bool {
			return a.String() < b.String()
		})
		var sum uint64
		for _, m := range moves {
			fmt.Printf("%s: %d\n", m, div[m])
			sum += div[m]
		}
		fmt.Printf("Total: %d\n", sum)
		return
	}

	start := time.Now()
	nodes := rules.Perft(board, *depth)
	elapsed := time.Since(start)
	fmt.Printf("perft(%d) = %d in %s (%.0f nodes/s)\n",
		*depth, nodes, elapsed.Round(time.Millisecond), float64(nodes)/elapsed.Seconds())
}
