package board

import "chesscore/internal/core"

// Key table, filled once by init and read-only afterwards
var (
	pieceKeys     [2][7][core.NumSquares]uint64
	castlingKeys  [16]uint64
	enPassantKeys [8]uint64
	blackToMove   uint64
)

const zobristSeed = 0x2D358DCCAA6C78A5

func init() {
	rng := xorshift{state: zobristSeed}

	for c := core.ColorWhite; c <= core.ColorBlack; c++ {
		for t := core.Pawn; t <= core.King; t++ {
			for sq := 0; sq < core.NumSquares; sq++ {
				pieceKeys[c][t][sq] = rng.next()
			}
		}
	}
	for i := range castlingKeys {
		castlingKeys[i] = rng.next()
	}
	for f := range enPassantKeys {
		enPassantKeys[f] = rng.next()
	}
	blackToMove = rng.next()
}

// xorshift64* generator, fixed seed so hashes are stable across runs
type xorshift struct {
	state uint64
}

func (x *xorshift) next() uint64 {
	x.state ^= x.state >> 12
	x.state ^= x.state << 25
	x.state ^= x.state >> 27
	return x.state * 0x2545F4914F6CDD1D
}

func pieceKey(p core.Piece, sq core.Square) uint64 {
	return pieceKeys[p.Color][p.Type][sq]
}

// ComputeHash derives the Zobrist fingerprint from scratch.
// The board maintains the same value incrementally in Hash.
func (b *Board) ComputeHash() uint64 {
	var h uint64
	for sq, p := range b.squares {
		if !p.IsEmpty() {
			h ^= pieceKey(p, core.Square(sq))
		}
	}
	h ^= castlingKeys[b.castling]
	if b.hasEP {
		h ^= enPassantKeys[b.epSquare.File()]
	}
	if b.turn == core.ColorBlack {
		h ^= blackToMove
	}
	return h
}
