package core

import (
	"errors"
	"testing"
)

func TestParseSquare(t *testing.T) {
	tests := []struct {
		name    string
		want    Square
		wantErr bool
	}{
		{"a1", A1, false},
		{"h1", H1, false},
		{"e4", 28, false},
		{"h8", H8, false},
		{"i1", 0, true},
		{"a9", 0, true},
		{"a0", 0, true},
		{"e", 0, true},
		{"e44", 0, true},
		{"E4", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSquare(tt.name)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidSquare) {
					t.Fatalf("ParseSquare(%q) error = %v, want ErrInvalidSquare", tt.name, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseSquare(%q) unexpected error: %v", tt.name, err)
			}
			if got != tt.want {
				t.Errorf("ParseSquare(%q) = %d, want %d", tt.name, got, tt.want)
			}
			if got.String() != tt.name {
				t.Errorf("String() = %q, want %q", got.String(), tt.name)
			}
		})
	}
}

func TestSquareShift(t *testing.T) {
	if sq, ok := E1.Shift(1, 1); !ok || sq.String() != "f2" {
		t.Errorf("e1 shift (1,1) = %s %v, want f2 true", sq, ok)
	}
	if _, ok := H8.Shift(1, 0); ok {
		t.Error("h8 shift off the board should fail")
	}
	if _, ok := A1.Shift(0, -1); ok {
		t.Error("a1 shift below the board should fail")
	}
}

func TestParseMove(t *testing.T) {
	tests := []struct {
		input   string
		from    string
		to      string
		promo   PieceType
		wantErr bool
	}{
		{"e2e4", "e2", "e4", NoPieceType, false},
		{"e7e8q", "e7", "e8", Queen, false},
		{"a2a1n", "a2", "a1", Knight, false},
		{"b7b8R", "b7", "b8", Rook, false},
		{"e2", "", "", NoPieceType, true},
		{"e2e4e5", "", "", NoPieceType, true},
		{"z2e4", "", "", NoPieceType, true},
		{"e2e9", "", "", NoPieceType, true},
		{"e7e8k", "", "", NoPieceType, true},
		{"e7e8p", "", "", NoPieceType, true},
		{"e7e8x", "", "", NoPieceType, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			from, to, promo, err := ParseMove(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidMoveFormat) {
					t.Fatalf("ParseMove(%q) error = %v, want ErrInvalidMoveFormat", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseMove(%q) unexpected error: %v", tt.input, err)
			}
			if from.String() != tt.from || to.String() != tt.to || promo != tt.promo {
				t.Errorf("ParseMove(%q) = %s %s %v, want %s %s %v",
					tt.input, from, to, promo, tt.from, tt.to, tt.promo)
			}
		})
	}
}

func TestMoveUCI(t *testing.T) {
	m := Move{From: 52, To: 60, Piece: Pawn, Promotion: Queen}
	if got := m.UCI(); got != "e7e8q" {
		t.Errorf("UCI() = %q, want e7e8q", got)
	}
	m = Move{From: 12, To: 28, Piece: Pawn}
	if got := m.String(); got != "e2e4" {
		t.Errorf("String() = %q, want e2e4", got)
	}
	if m.IsCapture() {
		t.Error("quiet move reported as capture")
	}
}

func TestPieceChars(t *testing.T) {
	for _, c := range []byte("PNBRQKpnbrqk") {
		p, ok := PieceFromChar(c)
		if !ok {
			t.Fatalf("PieceFromChar(%q) failed", c)
		}
		if p.Char() != c {
			t.Errorf("Char() = %q, want %q", p.Char(), c)
		}
	}
	if _, ok := PieceFromChar('x'); ok {
		t.Error("PieceFromChar('x') should fail")
	}
	if NoPiece.Char() != '.' {
		t.Errorf("empty square char = %q, want '.'", NoPiece.Char())
	}
}

func TestStateAndColor(t *testing.T) {
	if StateOngoing.IsOver() {
		t.Error("ongoing state reported as over")
	}
	for _, s := range []State{StateWhiteWins, StateBlackWins, StateStalemate, StateDrawRepetition, StateDrawFiftyMove} {
		if !s.IsOver() {
			t.Errorf("%s should be over", s)
		}
	}
	if Winner(ColorWhite) != StateBlackWins || Winner(ColorBlack) != StateWhiteWins {
		t.Error("Winner maps the mated side incorrectly")
	}
	if ColorWhite.Opposite() != ColorBlack || OppositeColor(ColorBlack) != ColorWhite {
		t.Error("Opposite is not an involution")
	}
	if ColorWhite.Name() != "White" || ColorBlack.String() != "b" {
		t.Error("unexpected color text")
	}
}
