package core

import "fmt"

// Square indexes the board: rank = sq/8, file = sq%8, a1 = 0, h8 = 63
type Square uint8

const NumSquares = 64

const (
	A1 Square = 0
	C1 Square = 2
	D1 Square = 3
	E1 Square = 4
	F1 Square = 5
	G1 Square = 6
	H1 Square = 7
	A8 Square = 56
	C8 Square = 58
	D8 Square = 59
	E8 Square = 60
	F8 Square = 61
	G8 Square = 62
	H8 Square = 63
)

func NewSquare(file, rank int) Square {
	return Square(rank*8 + file)
}

func (s Square) Rank() int { return int(s) / 8 }
func (s Square) File() int { return int(s) % 8 }

func (s Square) Valid() bool {
	return s < NumSquares
}

func (s Square) String() string {
	if !s.Valid() {
		return "-"
	}
	return string([]byte{byte('a' + s.File()), byte('1' + s.Rank())})
}

// ParseSquare converts algebraic notation such as "e4"
func ParseSquare(name string) (Square, error) {
	if len(name) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSquare, name)
	}
	file, rank := name[0], name[1]
	if file < 'a' || file > 'h' || rank < '1' || rank > '8' {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSquare, name)
	}
	return NewSquare(int(file-'a'), int(rank-'1')), nil
}

// Shift offsets the square by file and rank deltas, reporting false when it leaves the board
func (s Square) Shift(df, dr int) (Square, bool) {
	f, r := s.File()+df, s.Rank()+dr
	if f < 0 || f > 7 || r < 0 || r > 7 {
		return 0, false
	}
	return NewSquare(f, r), true
}
