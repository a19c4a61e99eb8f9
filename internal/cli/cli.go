package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"chesscore/internal/board"
	"chesscore/internal/core"

	"github.com/chzyer/readline"
	"golang.org/x/term"
)

type CommandType int

const (
	CmdNone CommandType = iota
	CmdInvalid
	CmdNew
	CmdMove
	CmdUndo
	CmdAI
	CmdFEN
	CmdExport
	CmdEval
	CmdHash
	CmdDraws
	CmdHistory
	CmdPerft
	CmdDivide
	CmdStatus
	CmdColor
	CmdVerbose
	CmdHelp
	CmdQuit
)

type Command struct {
	Type CommandType
	Args []string
	Raw  string
}

// commandSpec describes one REPL command for parsing and help output
type commandSpec struct {
	Name        string
	Alias       string
	Usage       string
	Description string
	Type        CommandType
}

var commandTable = []commandSpec{
	{"new", "", "new", "Start a new game from the standard position", CmdNew},
	{"move", "", "move <from><to>[q|r|b|n]", "Make a move, e.g. move e2e4 or move e7e8q", CmdMove},
	{"undo", "", "undo", "Take back the last move", CmdUndo},
	{"ai", "", "ai [depth]", "Let the engine play a move, depth 1-5", CmdAI},
	{"fen", "", "fen <FEN>", "Load a position", CmdFEN},
	{"export", "", "export", "Print the current position as FEN", CmdExport},
	{"eval", "", "eval", "Static evaluation, positive favors White", CmdEval},
	{"hash", "", "hash", "Zobrist hash of the current position", CmdHash},
	{"draws", "", "draws", "Repetition and 50-move rule status", CmdDraws},
	{"history", "", "history", "Hashes of every position in the game", CmdHistory},
	{"perft", "", "perft <depth>", "Count leaf nodes, depth 1-6", CmdPerft},
	{"divide", "", "divide <depth>", "Perft per root move", CmdDivide},
	{"status", "", "status", "Report checkmate, stalemate or draw", CmdStatus},
	{"color", "", "color <off|brown|green|gray>", "Set board color theme", CmdColor},
	{"verbose", "", "verbose", "Toggle search statistics", CmdVerbose},
	{"help", "?", "help", "Show this help message", CmdHelp},
	{"quit", "exit", "quit", "Exit the program", CmdQuit},
}

var commandIndex = func() map[string]commandSpec {
	idx := make(map[string]commandSpec, len(commandTable)*2)
	for _, c := range commandTable {
		idx[c.Name] = c
		if c.Alias != "" {
			idx[c.Alias] = c
		}
	}
	return idx
}()

type ColorTheme string

const (
	ThemeOff   ColorTheme = "off"
	ThemeBrown ColorTheme = "brown"
	ThemeGreen ColorTheme = "green"
	ThemeGray  ColorTheme = "gray"
)

// ErrInvalidTheme is returned by SetTheme for unknown theme names
var ErrInvalidTheme = errors.New("invalid theme")

type themeColors struct {
	lightBg string
	darkBg  string
	white   string
	black   string
	reset   string
}

var themes = map[ColorTheme]themeColors{
	ThemeOff: {},
	ThemeBrown: {
		lightBg: "\033[48;5;230m", // Beige
		darkBg:  "\033[48;5;94m",  // Brown
		white:   "\033[97m",
		black:   "\033[30m",
		reset:   "\033[0m",
	},
	ThemeGreen: {
		lightBg: "\033[48;5;157m", // Light green
		darkBg:  "\033[48;5;22m",  // Dark green
		white:   "\033[97m",
		black:   "\033[30m",
		reset:   "\033[0m",
	},
	ThemeGray: {
		lightBg: "\033[48;5;251m", // Light gray
		darkBg:  "\033[48;5;240m", // Dark gray
		white:   "\033[97m",
		black:   "\033[30m",
		reset:   "\033[0m",
	},
}

// LineReader yields one input line at a time and io.EOF when input ends
type LineReader interface {
	ReadLine() (string, error)
	Close() error
}

type scannerReader struct {
	scanner *bufio.Scanner
}

func (r *scannerReader) ReadLine() (string, error) {
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return r.scanner.Text(), nil
}

func (r *scannerReader) Close() error { return nil }

type readlineReader struct {
	rl *readline.Instance
}

func (r *readlineReader) ReadLine() (string, error) {
	for {
		line, err := r.rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			// ^C on an empty line ends the session, otherwise drops the line
			if line == "" {
				return "", io.EOF
			}
			continue
		}
		return line, err
	}
}

func (r *readlineReader) Close() error { return r.rl.Close() }

type CLI struct {
	input   LineReader
	output  io.Writer
	theme   ColorTheme
	verbose bool
}

// New reads commands from input without any line editing
func New(input io.Reader, output io.Writer) *CLI {
	return &CLI{
		input:  &scannerReader{scanner: bufio.NewScanner(input)},
		output: output,
		theme:  ThemeOff,
	}
}

// NewInteractive uses readline with persistent history when stdin is a
// terminal and falls back to plain line reading for pipes and files
func NewInteractive(historyFile string) (*CLI, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return New(os.Stdin, os.Stdout), nil
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start line editor: %w", err)
	}

	return &CLI{
		input:  &readlineReader{rl: rl},
		output: rl.Stdout(),
		theme:  ThemeOff,
	}, nil
}

func (c *CLI) Close() error {
	return c.input.Close()
}

// GetCommand blocks for the next line. End of input reads as quit.
func (c *CLI) GetCommand() (*Command, error) {
	line, err := c.input.ReadLine()
	if errors.Is(err, io.EOF) {
		return &Command{Type: CmdQuit}, nil
	}
	if err != nil {
		return nil, err
	}
	return ParseCommand(line), nil
}

// ParseCommand splits a line into a command and its arguments. Raw keeps the
// text after the command word so a FEN survives intact.
func ParseCommand(input string) *Command {
	input = strings.TrimSpace(input)
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return &Command{Type: CmdNone}
	}

	spec, ok := commandIndex[parts[0]]
	if !ok {
		return &Command{Type: CmdInvalid, Args: parts, Raw: input}
	}

	raw := strings.TrimSpace(strings.TrimPrefix(input, parts[0]))
	return &Command{Type: spec.Type, Args: parts[1:], Raw: raw}
}

func (c *CLI) SetTheme(theme ColorTheme) error {
	if _, ok := themes[theme]; !ok {
		return fmt.Errorf("%w: %s (use: off, brown, green, gray)", ErrInvalidTheme, theme)
	}
	c.theme = theme
	return nil
}

func (c *CLI) Theme() ColorTheme {
	return c.theme
}

func (c *CLI) SetVerbose(v bool) {
	c.verbose = v
}

func (c *CLI) ToggleVerbose() bool {
	c.verbose = !c.verbose
	return c.verbose
}

func (c *CLI) IsVerbose() bool {
	return c.verbose
}

func (c *CLI) ShowMessage(msg string) {
	fmt.Fprintln(c.output, msg)
}

// ShowError prints err as a protocol error line
func (c *CLI) ShowError(msg string) {
	c.ShowMessage("ERROR: " + msg)
}

// DisplayBoard prints the grid with White at the bottom and the side to move
func (c *CLI) DisplayBoard(b *board.Board) {
	if c.theme == ThemeOff {
		c.ShowMessage(b.String())
		return
	}

	theme := themes[c.theme]
	var sb strings.Builder
	sb.WriteString("  a b c d e f g h\n")

	for r := 7; r >= 0; r-- {
		fmt.Fprintf(&sb, "%d ", r+1)
		for f := 0; f < 8; f++ {
			piece := b.At(core.NewSquare(f, r))

			bg := theme.lightBg
			if (r+f)%2 == 0 {
				bg = theme.darkBg
			}

			if piece.IsEmpty() {
				fmt.Fprintf(&sb, "%s. %s", bg, theme.reset)
				continue
			}
			fg := theme.black
			if piece.Color == core.ColorWhite {
				fg = theme.white
			}
			fmt.Fprintf(&sb, "%s%s%c %s", bg, fg, piece.Char(), theme.reset)
		}
		fmt.Fprintf(&sb, "%d\n", r+1)
	}
	sb.WriteString("  a b c d e f g h\n\n")
	fmt.Fprintf(&sb, "%s to move", b.Turn().Name())

	c.ShowMessage(sb.String())
}

func (c *CLI) ShowHelp() {
	var sb strings.Builder
	sb.WriteString("Commands:\n")
	for _, cmd := range commandTable {
		usage := cmd.Usage
		if cmd.Alias != "" {
			usage += "/" + cmd.Alias
		}
		fmt.Fprintf(&sb, "  %-30s - %s\n", usage, cmd.Description)
	}
	c.ShowMessage(strings.TrimRight(sb.String(), "\n"))
}

func (c *CLI) ShowWelcome() {
	c.ShowMessage("Chess engine ready. Type 'help' for commands.")
}
