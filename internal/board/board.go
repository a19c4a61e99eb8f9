package board

import (
	"fmt"
	"slices"
	"strings"

	"chesscore/internal/core"
)

const (
	StartingFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"
)

type CastlingRights uint8

const (
	WhiteKingside CastlingRights = 1 << iota
	WhiteQueenside
	BlackKingside
	BlackQueenside

	NoCastling  CastlingRights = 0
	AllCastling                = WhiteKingside | WhiteQueenside | BlackKingside | BlackQueenside
)

func (cr CastlingRights) Has(r CastlingRights) bool {
	return cr&r == r
}

// String renders the FEN castling field
func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	var sb strings.Builder
	if cr.Has(WhiteKingside) {
		sb.WriteByte('K')
	}
	if cr.Has(WhiteQueenside) {
		sb.WriteByte('Q')
	}
	if cr.Has(BlackKingside) {
		sb.WriteByte('k')
	}
	if cr.Has(BlackQueenside) {
		sb.WriteByte('q')
	}
	return sb.String()
}

// Rights lost when a piece leaves or lands on the square
var castlingMask = [core.NumSquares]CastlingRights{
	core.A1: WhiteQueenside,
	core.E1: WhiteKingside | WhiteQueenside,
	core.H1: WhiteKingside,
	core.A8: BlackQueenside,
	core.E8: BlackKingside | BlackQueenside,
	core.H8: BlackKingside,
}

// undoRecord snapshots everything a move destroys
type undoRecord struct {
	move     core.Move
	castling CastlingRights
	epSquare core.Square
	hasEP    bool
	halfmove int
	fullmove int
	hash     uint64
}

// Board owns the position and its history. It is not safe for concurrent use.
type Board struct {
	squares  [core.NumSquares]core.Piece
	turn     core.Color
	castling CastlingRights
	epSquare core.Square
	hasEP    bool
	halfmove int
	fullmove int
	hash     uint64

	history   []undoRecord
	positions []uint64 // last entry is always the current hash
}

// New returns a board in the standard starting position
func New() *Board {
	b := &Board{}
	b.SetupInitialPosition()
	return b
}

func (b *Board) SetupInitialPosition() {
	*b = Board{}

	backRank := [8]core.PieceType{
		core.Rook, core.Knight, core.Bishop, core.Queen,
		core.King, core.Bishop, core.Knight, core.Rook,
	}
	for f := 0; f < 8; f++ {
		b.squares[core.NewSquare(f, 0)] = core.NewPiece(backRank[f], core.ColorWhite)
		b.squares[core.NewSquare(f, 1)] = core.NewPiece(core.Pawn, core.ColorWhite)
		b.squares[core.NewSquare(f, 6)] = core.NewPiece(core.Pawn, core.ColorBlack)
		b.squares[core.NewSquare(f, 7)] = core.NewPiece(backRank[f], core.ColorBlack)
	}

	b.turn = core.ColorWhite
	b.castling = AllCastling
	b.fullmove = 1
	b.resetHistory()
}

// resetHistory makes the current position the root of both histories
func (b *Board) resetHistory() {
	b.hash = b.ComputeHash()
	b.history = make([]undoRecord, 0, 64)
	b.positions = make([]uint64, 1, 64)
	b.positions[0] = b.hash
}

func (b *Board) Turn() core.Color { return b.turn }
func (b *Board) CastlingRights() CastlingRights { return b.castling }
func (b *Board) HalfmoveClock() int { return b.halfmove }
func (b *Board) FullmoveNumber() int { return b.fullmove }
func (b *Board) Hash() uint64 { return b.hash }
func (b *Board) EnPassant() (core.Square, bool) { return b.epSquare, b.hasEP }
func (b *Board) At(sq core.Square) core.Piece { return b.squares[sq] }
func (b *Board) PositionHistory() []uint64 { return slices.Clone(b.positions) }
func (b *Board) HistoryLen() int { return len(b.history) }

// MoveHistory returns the applied moves, oldest first
func (b *Board) MoveHistory() []core.Move {
	moves := make([]core.Move, len(b.history))
	for i, rec := range b.history {
		moves[i] = rec.move
	}
	return moves
}

// Piece returns the occupant of sq, empty if none
func (b *Board) Piece(sq core.Square) (core.Piece, error) {
	if !sq.Valid() {
		return core.NoPiece, fmt.Errorf("%w: %d", core.ErrInvalidSquare, sq)
	}
	return b.squares[sq], nil
}

// SetPiece edits the current position. Pass core.NoPiece to clear.
func (b *Board) SetPiece(sq core.Square, p core.Piece) error {
	if !sq.Valid() {
		return fmt.Errorf("%w: %d", core.ErrInvalidSquare, sq)
	}
	b.put(sq, p)
	b.positions[len(b.positions)-1] = b.hash
	return nil
}

// SetTurn hands the move to c, dropping any en passant target
func (b *Board) SetTurn(c core.Color) {
	b.setEnPassant(0, false)
	if b.turn != c {
		b.turn = c
		b.hash ^= blackToMove
	}
	b.positions[len(b.positions)-1] = b.hash
}

func (b *Board) put(sq core.Square, p core.Piece) {
	if old := b.squares[sq]; !old.IsEmpty() {
		b.hash ^= pieceKey(old, sq)
	}
	b.squares[sq] = p
	if !p.IsEmpty() {
		b.hash ^= pieceKey(p, sq)
	}
}

func (b *Board) setCastling(cr CastlingRights) {
	b.hash ^= castlingKeys[b.castling] ^ castlingKeys[cr]
	b.castling = cr
}

func (b *Board) setEnPassant(sq core.Square, ok bool) {
	if b.hasEP {
		b.hash ^= enPassantKeys[b.epSquare.File()]
	}
	b.epSquare, b.hasEP = 0, false
	if ok {
		b.epSquare, b.hasEP = sq, true
		b.hash ^= enPassantKeys[sq.File()]
	}
}

// KingSquare locates the king of color c
func (b *Board) KingSquare(c core.Color) (core.Square, bool) {
	king := core.NewPiece(core.King, c)
	for sq, p := range b.squares {
		if p == king {
			return core.Square(sq), true
		}
	}
	return 0, false
}

// MakeMove applies m for the side to move. The move must come from the move
// generator or be structurally equivalent; promotion defaults to Queen.
// A rejected move leaves the board untouched.
func (b *Board) MakeMove(m core.Move) error {
	if err := b.normalize(&m); err != nil {
		return err
	}

	mover := b.squares[m.From]
	b.history = append(b.history, undoRecord{
		move:     m,
		castling: b.castling,
		epSquare: b.epSquare,
		hasEP:    b.hasEP,
		halfmove: b.halfmove,
		fullmove: b.fullmove,
		hash:     b.hash,
	})

	b.setEnPassant(0, false)

	if m.EnPassant {
		b.put(enPassantVictim(m), core.NoPiece)
	}

	placed := mover
	if m.Promotion != core.NoPieceType {
		placed = core.NewPiece(m.Promotion, mover.Color)
	}
	b.put(m.From, core.NoPiece)
	b.put(m.To, placed)

	if m.Castle {
		rookFrom, rookTo := castleRookSquares(m.To)
		rook := b.squares[rookFrom]
		b.put(rookFrom, core.NoPiece)
		b.put(rookTo, rook)
	}

	b.setCastling(b.castling &^ (castlingMask[m.From] | castlingMask[m.To]))

	if m.Piece == core.Pawn && (int(m.To)-int(m.From) == 16 || int(m.From)-int(m.To) == 16) {
		b.setEnPassant(core.Square((int(m.From)+int(m.To))/2), true)
	}

	if m.Piece == core.Pawn || m.IsCapture() {
		b.halfmove = 0
	} else {
		b.halfmove++
	}
	if mover.Color == core.ColorBlack {
		b.fullmove++
	}

	b.turn = b.turn.Opposite()
	b.hash ^= blackToMove
	b.positions = append(b.positions, b.hash)
	return nil
}

// normalize checks m against the board and fills in the fields derived from it
func (b *Board) normalize(m *core.Move) error {
	if !m.From.Valid() || !m.To.Valid() {
		return fmt.Errorf("%w: %d-%d", core.ErrInvalidSquare, m.From, m.To)
	}
	if m.From == m.To {
		return fmt.Errorf("%w: %s", core.ErrIllegalMove, m.UCI())
	}

	p := b.squares[m.From]
	if p.IsEmpty() {
		return fmt.Errorf("%w: %s", core.ErrNoPiece, m.From)
	}
	if p.Color != b.turn {
		return fmt.Errorf("%w: %s", core.ErrWrongColor, m.From)
	}

	target := b.squares[m.To]
	if !target.IsEmpty() && (target.Color == p.Color || target.Type == core.King) {
		return fmt.Errorf("%w: %s", core.ErrIllegalMove, m.UCI())
	}

	m.Piece = p.Type
	m.Captured = target.Type

	if m.EnPassant {
		victim := core.NewPiece(core.Pawn, p.Color.Opposite())
		if p.Type != core.Pawn || !b.hasEP || m.To != b.epSquare || !target.IsEmpty() ||
			b.squares[enPassantVictim(*m)] != victim {
			return fmt.Errorf("%w: %s", core.ErrIllegalMove, m.UCI())
		}
		m.Captured = core.Pawn
	}

	if m.Castle {
		if p.Type != core.King || (m.From != core.E1 && m.From != core.E8) ||
			m.From.Rank() != m.To.Rank() || absInt(m.To.File()-m.From.File()) != 2 {
			return fmt.Errorf("%w: %s", core.ErrIllegalMove, m.UCI())
		}
		rookFrom, _ := castleRookSquares(m.To)
		if b.squares[rookFrom] != core.NewPiece(core.Rook, p.Color) || !target.IsEmpty() {
			return fmt.Errorf("%w: %s", core.ErrIllegalMove, m.UCI())
		}
	}

	lastRank := 7
	if p.Color == core.ColorBlack {
		lastRank = 0
	}
	promoting := p.Type == core.Pawn && m.To.Rank() == lastRank
	switch {
	case promoting && m.Promotion == core.NoPieceType:
		m.Promotion = core.Queen
	case promoting && (m.Promotion == core.Pawn || m.Promotion == core.King):
		return fmt.Errorf("%w: %s", core.ErrIllegalMove, m.UCI())
	case !promoting && m.Promotion != core.NoPieceType:
		return fmt.Errorf("%w: %s", core.ErrIllegalMove, m.UCI())
	}
	return nil
}

// UndoMove reverses the most recent MakeMove
func (b *Board) UndoMove() error {
	n := len(b.history)
	if n == 0 {
		return core.ErrNoMovesToUndo
	}
	rec := b.history[n-1]
	b.history = b.history[:n-1]
	b.positions = b.positions[:len(b.positions)-1]

	m := rec.move
	mover := b.turn.Opposite()

	b.squares[m.From] = core.NewPiece(m.Piece, mover)
	b.squares[m.To] = core.NoPiece
	switch {
	case m.EnPassant:
		b.squares[enPassantVictim(m)] = core.NewPiece(core.Pawn, b.turn)
	case m.IsCapture():
		b.squares[m.To] = core.NewPiece(m.Captured, b.turn)
	}
	if m.Castle {
		rookFrom, rookTo := castleRookSquares(m.To)
		b.squares[rookFrom] = b.squares[rookTo]
		b.squares[rookTo] = core.NoPiece
	}

	b.turn = mover
	b.castling = rec.castling
	b.epSquare, b.hasEP = rec.epSquare, rec.hasEP
	b.halfmove = rec.halfmove
	b.fullmove = rec.fullmove
	b.hash = rec.hash
	return nil
}

// enPassantVictim is the square of the pawn removed by an en passant capture
func enPassantVictim(m core.Move) core.Square {
	return core.NewSquare(m.To.File(), m.From.Rank())
}

// castleRookSquares maps the king's destination to the rook's move
func castleRookSquares(kingTo core.Square) (from, to core.Square) {
	switch kingTo {
	case core.G1:
		return core.H1, core.F1
	case core.C1:
		return core.A1, core.D1
	case core.G8:
		return core.H8, core.F8
	default:
		return core.A8, core.D8
	}
}

// Clone returns an independent deep copy
func (b *Board) Clone() *Board {
	c := *b
	c.history = slices.Clone(b.history)
	c.positions = slices.Clone(b.positions)
	return &c
}

// SamePosition compares everything FEN can express plus the hash
func (b *Board) SamePosition(o *Board) bool {
	return b.squares == o.squares &&
		b.turn == o.turn &&
		b.castling == o.castling &&
		b.hasEP == o.hasEP &&
		b.epSquare == o.epSquare &&
		b.halfmove == o.halfmove &&
		b.fullmove == o.fullmove &&
		b.hash == o.hash
}

// Equal additionally compares move and position histories
func (b *Board) Equal(o *Board) bool {
	return b.SamePosition(o) &&
		slices.Equal(b.history, o.history) &&
		slices.Equal(b.positions, o.positions)
}

// String renders the board for the terminal, White at the bottom
func (b *Board) String() string {
	var sb strings.Builder
	sb.WriteString("  a b c d e f g h\n")

	for r := 7; r >= 0; r-- {
		fmt.Fprintf(&sb, "%d ", r+1)
		for f := 0; f < 8; f++ {
			sb.WriteByte(b.squares[core.NewSquare(f, r)].Char())
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%d\n", r+1)
	}
	sb.WriteString("  a b c d e f g h\n\n")
	fmt.Fprintf(&sb, "%s to move", b.turn.Name())

	return sb.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
