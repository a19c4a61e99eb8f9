package core

type PieceType uint8

const (
	NoPieceType PieceType = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

// PromotionTypes lists promotion choices in generation order
var PromotionTypes = [4]PieceType{Queen, Rook, Bishop, Knight}

// Char returns the lowercase letter of the piece type, or 0 for none
func (t PieceType) Char() byte {
	switch t {
	case Pawn:
		return 'p'
	case Knight:
		return 'n'
	case Bishop:
		return 'b'
	case Rook:
		return 'r'
	case Queen:
		return 'q'
	case King:
		return 'k'
	default:
		return 0
	}
}

func (t PieceType) String() string {
	switch t {
	case Pawn:
		return "pawn"
	case Knight:
		return "knight"
	case Bishop:
		return "bishop"
	case Rook:
		return "rook"
	case Queen:
		return "queen"
	case King:
		return "king"
	default:
		return "none"
	}
}

// PieceTypeFromChar parses a lowercase or uppercase piece letter
func PieceTypeFromChar(c byte) (PieceType, bool) {
	switch c | 0x20 {
	case 'p':
		return Pawn, true
	case 'n':
		return Knight, true
	case 'b':
		return Bishop, true
	case 'r':
		return Rook, true
	case 'q':
		return Queen, true
	case 'k':
		return King, true
	}
	return NoPieceType, false
}

// Piece is an immutable value; the zero value is an empty square
type Piece struct {
	Type  PieceType
	Color Color
}

var NoPiece = Piece{}

func NewPiece(t PieceType, c Color) Piece {
	return Piece{Type: t, Color: c}
}

func (p Piece) IsEmpty() bool {
	return p.Type == NoPieceType
}

// Char returns the FEN letter, uppercase for White, '.' for empty
func (p Piece) Char() byte {
	if p.IsEmpty() {
		return '.'
	}
	c := p.Type.Char()
	if p.Color == ColorWhite {
		c -= 'a' - 'A'
	}
	return c
}

// PieceFromChar parses a FEN piece letter
func PieceFromChar(c byte) (Piece, bool) {
	t, ok := PieceTypeFromChar(c)
	if !ok {
		return NoPiece, false
	}
	color := ColorBlack
	if c >= 'A' && c <= 'Z' {
		color = ColorWhite
	}
	return Piece{Type: t, Color: color}, true
}
