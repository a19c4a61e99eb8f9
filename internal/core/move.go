package core

import "fmt"

// Move is pseudo-legal until checked against the mover's king safety.
// Captured and Promotion use NoPieceType when absent.
type Move struct {
	From      Square
	To        Square
	Piece     PieceType
	Captured  PieceType
	Promotion PieceType
	Castle    bool
	EnPassant bool
}

func (m Move) IsCapture() bool {
	return m.Captured != NoPieceType
}

// UCI renders coordinate notation, e.g. e2e4 or e7e8q
func (m Move) UCI() string {
	s := m.From.String() + m.To.String()
	if m.Promotion != NoPieceType {
		s += string(m.Promotion.Char())
	}
	return s
}

func (m Move) String() string {
	return m.UCI()
}

// ParseMove splits coordinate notation into its squares and optional promotion
func ParseMove(s string) (from, to Square, promo PieceType, err error) {
	if len(s) != 4 && len(s) != 5 {
		return 0, 0, NoPieceType, fmt.Errorf("%w: %q", ErrInvalidMoveFormat, s)
	}
	if from, err = ParseSquare(s[0:2]); err != nil {
		return 0, 0, NoPieceType, fmt.Errorf("%w: %q", ErrInvalidMoveFormat, s)
	}
	if to, err = ParseSquare(s[2:4]); err != nil {
		return 0, 0, NoPieceType, fmt.Errorf("%w: %q", ErrInvalidMoveFormat, s)
	}
	if len(s) == 5 {
		t, ok := PieceTypeFromChar(s[4])
		if !ok || t == Pawn || t == King {
			return 0, 0, NoPieceType, fmt.Errorf("%w: bad promotion in %q", ErrInvalidMoveFormat, s)
		}
		promo = t
	}
	return from, to, promo, nil
}
