package board

import (
	"fmt"
	"strconv"
	"strings"

	"chesscore/internal/core"
)

// ParseFEN decodes a six-field FEN string. Any malformed field yields an
// error wrapping core.ErrInvalidFEN and no board.
func ParseFEN(fen string) (*Board, error) {
	parts := strings.Fields(fen)
	if len(parts) != 6 {
		return nil, fmt.Errorf("%w: expected 6 parts, got %d", core.ErrInvalidFEN, len(parts))
	}

	b := &Board{}

	if err := b.parsePlacement(parts[0]); err != nil {
		return nil, err
	}

	switch parts[1] {
	case "w":
		b.turn = core.ColorWhite
	case "b":
		b.turn = core.ColorBlack
	default:
		return nil, fmt.Errorf("%w: turn must be 'w' or 'b'", core.ErrInvalidFEN)
	}

	cr, err := parseCastling(parts[2])
	if err != nil {
		return nil, err
	}
	b.castling = cr

	if parts[3] != "-" {
		sq, err := core.ParseSquare(parts[3])
		if err != nil {
			return nil, fmt.Errorf("%w: en passant square %q", core.ErrInvalidFEN, parts[3])
		}
		// The target sits behind a pawn that just advanced two squares
		wantRank := 5
		if b.turn == core.ColorBlack {
			wantRank = 2
		}
		if sq.Rank() != wantRank {
			return nil, fmt.Errorf("%w: en passant square %s on wrong rank", core.ErrInvalidFEN, sq)
		}
		b.epSquare, b.hasEP = sq, true
	}

	if b.halfmove, err = parseCounter(parts[4]); err != nil {
		return nil, fmt.Errorf("%w: halfmove counter %q", core.ErrInvalidFEN, parts[4])
	}
	if b.fullmove, err = parseCounter(parts[5]); err != nil || b.fullmove < 1 {
		return nil, fmt.Errorf("%w: fullmove counter %q", core.ErrInvalidFEN, parts[5])
	}

	b.resetHistory()
	return b, nil
}

// parseCounter accepts plain decimal digits only, without sign or leading
// zeros, so a decoded counter encodes back to the same text
func parseCounter(field string) (int, error) {
	if field == "" || (len(field) > 1 && field[0] == '0') {
		return 0, fmt.Errorf("malformed counter %q", field)
	}
	for i := 0; i < len(field); i++ {
		if field[i] < '0' || field[i] > '9' {
			return 0, fmt.Errorf("malformed counter %q", field)
		}
	}
	return strconv.Atoi(field)
}

func (b *Board) parsePlacement(placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return fmt.Errorf("%w: expected 8 ranks, got %d", core.ErrInvalidFEN, len(ranks))
	}

	var kings [2]int
	for i, row := range ranks {
		rank := 7 - i
		file := 0
		for j := 0; j < len(row); j++ {
			ch := row[j]
			if ch >= '1' && ch <= '8' {
				file += int(ch - '0')
				continue
			}
			p, ok := core.PieceFromChar(ch)
			if !ok {
				return fmt.Errorf("%w: unknown piece %q", core.ErrInvalidFEN, ch)
			}
			if file >= 8 {
				return fmt.Errorf("%w: too many pieces in rank %d", core.ErrInvalidFEN, rank+1)
			}
			if p.Type == core.King {
				kings[p.Color]++
			}
			b.squares[core.NewSquare(file, rank)] = p
			file++
		}
		if file != 8 {
			return fmt.Errorf("%w: rank %d has %d files", core.ErrInvalidFEN, rank+1, file)
		}
	}

	if kings[core.ColorWhite] != 1 || kings[core.ColorBlack] != 1 {
		return fmt.Errorf("%w: need exactly one king per side", core.ErrInvalidFEN)
	}
	return nil
}

func parseCastling(field string) (CastlingRights, error) {
	if field == "-" {
		return NoCastling, nil
	}

	cr := NoCastling
	for i := 0; i < len(field); i++ {
		var r CastlingRights
		switch field[i] {
		case 'K':
			r = WhiteKingside
		case 'Q':
			r = WhiteQueenside
		case 'k':
			r = BlackKingside
		case 'q':
			r = BlackQueenside
		default:
			return NoCastling, fmt.Errorf("%w: castling field %q", core.ErrInvalidFEN, field)
		}
		if cr.Has(r) {
			return NoCastling, fmt.Errorf("%w: repeated castling right in %q", core.ErrInvalidFEN, field)
		}
		cr |= r
	}
	return cr, nil
}

// FEN encodes the current position
func (b *Board) FEN() string {
	var sb strings.Builder

	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			p := b.squares[core.NewSquare(file, rank)]
			if p.IsEmpty() {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteByte(p.Char())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	ep := "-"
	if b.hasEP {
		ep = b.epSquare.String()
	}

	fmt.Fprintf(&sb, " %s %s %s %d %d", b.turn, b.castling, ep, b.halfmove, b.fullmove)
	return sb.String()
}
