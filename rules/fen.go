package rules

import (
	"errors"
	"fmt"
	"math/bits"
	"strconv"
	"strings"
)

// StartingFEN is the standard initial position in exchange notation.
const StartingFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ErrInvalidFEN is wrapped by every parse failure; a failed parse leaves
// no board behind.
var ErrInvalidFEN = errors.New("invalid FEN")

func pieceFromLetter(ch rune) Piece {
	switch ch {
	case 'P':
		return WhitePawn
	case 'N':
		return WhiteKnight
	case 'B':
		return WhiteBishop
	case 'R':
		return WhiteRook
	case 'Q':
		return WhiteQueen
	case 'K':
		return WhiteKing
	case 'p':
		return BlackPawn
	case 'n':
		return BlackKnight
	case 'b':
		return BlackBishop
	case 'r':
		return BlackRook
	case 'q':
		return BlackQueen
	case 'k':
		return BlackKing
	}
	return NoPiece
}

func pieceLetter(p Piece) rune {
	switch p {
	case WhitePawn:
		return 'P'
	case WhiteKnight:
		return 'N'
	case WhiteBishop:
		return 'B'
	case WhiteRook:
		return 'R'
	case WhiteQueen:
		return 'Q'
	case WhiteKing:
		return 'K'
	case BlackPawn:
		return 'p'
	case BlackKnight:
		return 'n'
	case BlackBishop:
		return 'b'
	case BlackRook:
		return 'r'
	case BlackQueen:
		return 'q'
	case BlackKing:
		return 'k'
	}
	return '?'
}

// ParseFEN parses exchange notation into a new Board. The six
// space-delimited fields are piece placement (rank 8 down to rank 1,
// run-length-encoded), side to move, castling rights, en passant target,
// halfmove clock and fullmove number; the clocks may be omitted. Errors
// wrap ErrInvalidFEN.
func ParseFEN(fen string) (*Board, error) {
	fields := strings.Fields(fen)
	if len(fields) < 4 {
		return nil, fmt.Errorf("%w: need at least 4 fields, have %d", ErrInvalidFEN, len(fields))
	}

	b := &Board{enPassantTarget: NoSquare, fullmoveNumber: 1}

	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return nil, fmt.Errorf("%w: placement needs 8 ranks, have %d", ErrInvalidFEN, len(ranks))
	}
	for i, rankStr := range ranks {
		rank := 7 - i
		file := 0
		for _, ch := range rankStr {
			if ch >= '1' && ch <= '8' {
				file += int(ch - '0')
				continue
			}
			p := pieceFromLetter(ch)
			if p == NoPiece {
				return nil, fmt.Errorf("%w: bad piece letter %q", ErrInvalidFEN, ch)
			}
			if file >= 8 {
				return nil, fmt.Errorf("%w: rank %d overflows", ErrInvalidFEN, rank+1)
			}
			b.addPiece(SquareAt(file, rank), p)
			file++
		}
		if file != 8 {
			return nil, fmt.Errorf("%w: rank %d has %d files", ErrInvalidFEN, rank+1, file)
		}
	}

	switch fields[1] {
	case "w":
		b.sideToMove = White
	case "b":
		b.sideToMove = Black
	default:
		return nil, fmt.Errorf("%w: side to move must be w or b", ErrInvalidFEN)
	}

	if fields[2] != "-" {
		for _, ch := range fields[2] {
			switch ch {
			case 'K':
				b.castlingRights |= CastleWhiteKingside
			case 'Q':
				b.castlingRights |= CastleWhiteQueenside
			case 'k':
				b.castlingRights |= CastleBlackKingside
			case 'q':
				b.castlingRights |= CastleBlackQueenside
			default:
				return nil, fmt.Errorf("%w: bad castling letter %q", ErrInvalidFEN, ch)
			}
		}
	}

	if fields[3] != "-" {
		sq, err := ParseSquare(fields[3])
		if err != nil {
			return nil, fmt.Errorf("%w: en passant target: %v", ErrInvalidFEN, err)
		}
		b.enPassantTarget = sq
	}

	if len(fields) > 4 {
		n, err := strconv.Atoi(fields[4])
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: halfmove clock %q", ErrInvalidFEN, fields[4])
		}
		b.halfmoveClock = n
	}
	if len(fields) > 5 {
		n, err := strconv.Atoi(fields[5])
		if err != nil || n < 1 {
			return nil, fmt.Errorf("%w: fullmove number %q", ErrInvalidFEN, fields[5])
		}
		b.fullmoveNumber = n
	}

	// An en passant target is only meaningful right after a double push:
	// the target square sits empty on the pushing side's third rank with
	// the pushed pawn beside it.
	if ep := b.enPassantTarget; ep != NoSquare {
		wantRank, victim, victimSq := 5, BlackPawn, ep-8
		if b.sideToMove == Black {
			wantRank, victim, victimSq = 2, WhitePawn, ep+8
		}
		if ep.Rank() != wantRank || b.pieces[int(ep)] != NoPiece || b.pieces[int(victimSq)] != victim {
			return nil, fmt.Errorf("%w: en passant target %s has no double-pushed pawn beside it", ErrInvalidFEN, ep)
		}
	}

	// Structural invariants: one king per side, no pawn on a back rank.
	if bits.OnesCount64(b.kings[0]) != 1 || bits.OnesCount64(b.kings[1]) != 1 {
		return nil, fmt.Errorf("%w: each side needs exactly one king", ErrInvalidFEN)
	}
	const backRanks = 0xFF000000000000FF
	if (b.pawns[0]|b.pawns[1])&backRanks != 0 {
		return nil, fmt.Errorf("%w: pawn on a back rank", ErrInvalidFEN)
	}

	b.zobristKey = b.computeZobrist()
	return b, nil
}

// FEN serializes the position back to exchange notation.
func (b *Board) FEN() string {
	var sb strings.Builder

	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			p := b.pieces[rank*8+file]
			if p == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte('0' + byte(empty))
				empty = 0
			}
			sb.WriteRune(pieceLetter(p))
		}
		if empty > 0 {
			sb.WriteByte('0' + byte(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	sb.WriteByte(' ')
	if b.sideToMove == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}

	sb.WriteByte(' ')
	if b.castlingRights == 0 {
		sb.WriteByte('-')
	} else {
		if b.castlingRights.Has(CastleWhiteKingside) {
			sb.WriteByte('K')
		}
		if b.castlingRights.Has(CastleWhiteQueenside) {
			sb.WriteByte('Q')
		}
		if b.castlingRights.Has(CastleBlackKingside) {
			sb.WriteByte('k')
		}
		if b.castlingRights.Has(CastleBlackQueenside) {
			sb.WriteByte('q')
		}
	}

	sb.WriteByte(' ')
	sb.WriteString(b.enPassantTarget.String())

	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(b.halfmoveClock))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(b.fullmoveNumber))
	return sb.String()
}
