package core

// State is the outcome classification of a position
type State int

const (
	StateOngoing State = iota
	StateWhiteWins
	StateBlackWins
	StateStalemate
	StateDrawRepetition
	StateDrawFiftyMove
)

func (s State) String() string {
	switch s {
	case StateWhiteWins:
		return "white wins"
	case StateBlackWins:
		return "black wins"
	case StateStalemate:
		return "stalemate"
	case StateDrawRepetition:
		return "draw by repetition"
	case StateDrawFiftyMove:
		return "draw by 50-move rule"
	case StateOngoing:
		return "ongoing"
	default:
		return "unknown"
	}
}

// IsOver reports whether no further moves should be played
func (s State) IsOver() bool {
	return s != StateOngoing
}

type Color uint8

const (
	ColorWhite Color = iota
	ColorBlack
)

// String returns the FEN side letter
func (c Color) String() string {
	if c == ColorWhite {
		return "w"
	}
	return "b"
}

// Name returns the capitalized color name used in protocol output
func (c Color) Name() string {
	if c == ColorWhite {
		return "White"
	}
	return "Black"
}

func (c Color) Opposite() Color {
	return c ^ 1
}

func OppositeColor(c Color) Color {
	return c.Opposite()
}

// Winner maps a mated side to the winning state
func Winner(mated Color) State {
	if mated == ColorWhite {
		return StateBlackWins
	}
	return StateWhiteWins
}
