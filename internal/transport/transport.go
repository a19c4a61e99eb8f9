package transport

import (
	"chesscore/internal/board"
	"chesscore/internal/cli"
)

// View abstracts display/output operations
type View interface {
	GetCommand() (*cli.Command, error)
	DisplayBoard(b *board.Board)
	ShowMessage(msg string)
	ShowError(msg string)
	ShowHelp()
	SetTheme(theme cli.ColorTheme) error
	Theme() cli.ColorTheme
	ToggleVerbose() bool
	IsVerbose() bool
}
