package core

// Request types

type MoveRequest struct {
	Move string `validate:"required,min=4,max=5,alphanum"` // UCI, promotion letter optional
}

type AIRequest struct {
	Depth int `validate:"min=1,max=5"`
}

type PerftRequest struct {
	Depth int `validate:"min=1,max=6"`
}

type FENRequest struct {
	FEN string `validate:"required,max=100"`
}

// Response types

// DrawReport is the repetition and fifty-move status of a position
type DrawReport struct {
	Repetition bool
	FiftyMove  bool
	Clock      int
}

// PerftReport carries a node count and the time it took
type PerftReport struct {
	Depth     int
	Nodes     uint64
	ElapsedMS int64
}
