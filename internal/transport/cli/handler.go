package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"

	"chesscore/internal/cli"
	"chesscore/internal/core"
	"chesscore/internal/game"
	"chesscore/internal/service"
	"chesscore/internal/settings"
	"chesscore/internal/transport"
)

// protocolErrors maps domain errors to the text after "ERROR: "
var protocolErrors = []struct {
	err  error
	text string
}{
	{core.ErrInvalidMoveFormat, "Invalid move format"},
	{core.ErrNoPiece, "No piece at source square"},
	{core.ErrWrongColor, "Wrong color piece"},
	{core.ErrIllegalMove, "Illegal move"},
	{core.ErrNoMovesToUndo, "No moves to undo"},
	{core.ErrInvalidDepth, "AI depth must be 1-5"},
	{core.ErrInvalidPerftDepth, "Invalid perft depth"},
	{core.ErrInvalidFEN, "Invalid FEN string"},
	{core.ErrNoLegalMoves, "No legal moves available"},
	{cli.ErrInvalidTheme, "Invalid theme"},
}

func protocolError(err error) string {
	for _, pe := range protocolErrors {
		if errors.Is(err, pe.err) {
			return pe.text
		}
	}
	return err.Error()
}

// Outcome returns the announcement line for a finished game, empty while ongoing
func Outcome(state core.State) string {
	switch state {
	case core.StateWhiteWins:
		return "CHECKMATE: White wins"
	case core.StateBlackWins:
		return "CHECKMATE: Black wins"
	case core.StateStalemate:
		return "STALEMATE: Draw"
	case core.StateDrawRepetition:
		return "DRAW: by repetition"
	case core.StateDrawFiftyMove:
		return "DRAW: by 50-move rule"
	default:
		return ""
	}
}

type CLIHandler struct {
	svc      *service.Service
	view     transport.View
	gameID   string
	settings *settings.Store // nil if preferences are not persisted
	depth    int             // depth for a bare "ai"
	scored   string          // id of the game already counted in the stats
}

func New(svc *service.Service, view transport.View) *CLIHandler {
	return &CLIHandler{
		svc:   svc,
		view:  view,
		depth: settings.DefaultDepth,
	}
}

// SetSettings enables saving preferences and outcome tallies
func (h *CLIHandler) SetSettings(store *settings.Store) {
	h.settings = store
}

func (h *CLIHandler) SetDefaultDepth(depth int) {
	if depth >= core.MinSearchDepth && depth <= core.MaxSearchDepth {
		h.depth = depth
	}
}

// GameID returns the id of the game the session is playing
func (h *CLIHandler) GameID() string {
	return h.gameID
}

// Start opens a session on the standard position
func (h *CLIHandler) Start() error {
	return h.startGame("")
}

// Main loop: read, execute, repeat until quit or end of input
func (h *CLIHandler) Run() error {
	if h.gameID == "" {
		if err := h.Start(); err != nil {
			return err
		}
	}

	for {
		cmd, err := h.view.GetCommand()
		if err != nil {
			return err
		}
		if !h.ProcessCommand(cmd) {
			return nil
		}
	}
}

// Handles user commands - returns false to exit
func (h *CLIHandler) ProcessCommand(cmd *cli.Command) bool {
	switch cmd.Type {
	case cli.CmdNone:

	case cli.CmdQuit:
		return false

	case cli.CmdInvalid:
		h.view.ShowError("Invalid command")

	case cli.CmdNew:
		if err := h.startGame(""); err != nil {
			h.view.ShowError(protocolError(err))
			return true
		}
		h.view.ShowMessage("OK: New game started")
		h.showBoard()

	case cli.CmdMove:
		h.handleMove(cmd.Args)

	case cli.CmdUndo:
		if err := h.svc.Undo(h.gameID); err != nil {
			h.view.ShowError(protocolError(err))
			return true
		}
		h.view.ShowMessage("OK: Undo")
		h.showBoard()

	case cli.CmdAI:
		h.handleAI(cmd.Args)

	case cli.CmdFEN:
		if cmd.Raw == "" {
			h.view.ShowError(protocolError(core.ErrInvalidFEN))
			return true
		}
		if err := h.startGame(cmd.Raw); err != nil {
			h.view.ShowError(protocolError(err))
			return true
		}
		h.view.ShowMessage("OK: FEN loaded")
		h.showBoard()

	case cli.CmdExport:
		fen, err := h.svc.ExportFEN(h.gameID)
		if err != nil {
			h.view.ShowError(protocolError(err))
			return true
		}
		h.view.ShowMessage("FEN: " + fen)

	case cli.CmdEval:
		score, err := h.svc.Evaluate(h.gameID)
		if err != nil {
			h.view.ShowError(protocolError(err))
			return true
		}
		h.view.ShowMessage(fmt.Sprintf("Evaluation: %d", score))

	case cli.CmdHash:
		hash, err := h.svc.Hash(h.gameID)
		if err != nil {
			h.view.ShowError(protocolError(err))
			return true
		}
		h.view.ShowMessage(fmt.Sprintf("Hash: %016x", hash))

	case cli.CmdDraws:
		report, err := h.svc.Draws(h.gameID)
		if err != nil {
			h.view.ShowError(protocolError(err))
			return true
		}
		h.view.ShowMessage(fmt.Sprintf("Repetition: %t, 50-move rule: %t, 50-move clock: %d",
			report.Repetition, report.FiftyMove, report.Clock))

	case cli.CmdHistory:
		hashes, err := h.svc.PositionHistory(h.gameID)
		if err != nil {
			h.view.ShowError(protocolError(err))
			return true
		}
		h.view.ShowMessage(fmt.Sprintf("Position history (%d positions):", len(hashes)))
		for i, hash := range hashes {
			h.view.ShowMessage(fmt.Sprintf("  %d: %016x", i, hash))
		}

	case cli.CmdPerft:
		depth, ok := depthArg(cmd.Args)
		if !ok {
			h.view.ShowError(protocolError(core.ErrInvalidPerftDepth))
			return true
		}
		report, err := h.svc.Perft(h.gameID, core.PerftRequest{Depth: depth})
		if err != nil {
			h.view.ShowError(protocolError(err))
			return true
		}
		h.view.ShowMessage(fmt.Sprintf("Perft(%d): %d nodes (%dms)", report.Depth, report.Nodes, report.ElapsedMS))

	case cli.CmdDivide:
		depth, ok := depthArg(cmd.Args)
		if !ok {
			h.view.ShowError(protocolError(core.ErrInvalidPerftDepth))
			return true
		}
		entries, err := h.svc.Divide(context.Background(), h.gameID, core.PerftRequest{Depth: depth})
		if err != nil {
			h.view.ShowError(protocolError(err))
			return true
		}
		var total uint64
		for _, e := range entries {
			h.view.ShowMessage(fmt.Sprintf("%s: %d", e.Move, e.Nodes))
			total += e.Nodes
		}
		h.view.ShowMessage(fmt.Sprintf("Total: %d", total))

	case cli.CmdStatus:
		state, err := h.svc.Status(h.gameID)
		if err != nil {
			h.view.ShowError(protocolError(err))
			return true
		}
		if line := Outcome(state); line != "" {
			h.view.ShowMessage(line)
		} else {
			h.view.ShowMessage("OK: Game in progress")
		}

	case cli.CmdColor:
		if len(cmd.Args) != 1 {
			h.view.ShowError(protocolError(cli.ErrInvalidTheme))
			return true
		}
		theme := cli.ColorTheme(cmd.Args[0])
		if err := h.view.SetTheme(theme); err != nil {
			h.view.ShowError(protocolError(err))
			return true
		}
		h.view.ShowMessage(fmt.Sprintf("OK: Color theme set to %s", theme))
		h.showBoard()
		h.savePreferences()

	case cli.CmdVerbose:
		mode := "off"
		if h.view.ToggleVerbose() {
			mode = "on"
		}
		h.view.ShowMessage("OK: Verbose mode " + mode)
		h.savePreferences()

	case cli.CmdHelp:
		h.view.ShowHelp()
	}

	return true
}

func (h *CLIHandler) handleMove(args []string) {
	if len(args) != 1 {
		h.view.ShowError(protocolError(core.ErrInvalidMoveFormat))
		return
	}

	result, err := h.svc.MakeMove(h.gameID, core.MoveRequest{Move: args[0]})
	if err != nil {
		h.view.ShowError(protocolError(err))
		return
	}

	h.view.ShowMessage("OK: " + args[0])
	h.showBoard()
	h.announce(result)
}

func (h *CLIHandler) handleAI(args []string) {
	depth := h.depth
	if len(args) > 0 {
		d, ok := depthArg(args)
		if !ok {
			h.view.ShowError(protocolError(core.ErrInvalidDepth))
			return
		}
		depth = d
	}

	result, err := h.svc.ComputerMove(h.gameID, core.AIRequest{Depth: depth})
	if err != nil {
		h.view.ShowError(protocolError(err))
		return
	}

	h.view.ShowMessage(fmt.Sprintf("AI: %s (depth=%d, eval=%d, time=%dms)",
		result.Move, result.Depth, result.Score, result.Elapsed.Milliseconds()))
	if h.view.IsVerbose() {
		h.view.ShowMessage(fmt.Sprintf("Searched %d nodes", result.Nodes))
	}
	h.showBoard()
	h.announce(result)
}

// announce prints the outcome line after a move that ended the game
func (h *CLIHandler) announce(result *game.MoveResult) {
	line := Outcome(result.GameState)
	if line == "" {
		return
	}
	h.view.ShowMessage(line)

	// Undoing a finished game and replaying it counts once
	if h.settings != nil && h.scored != h.gameID {
		if err := h.settings.RecordOutcome(result.GameState); err != nil {
			log.Printf("Failed to record outcome: %v", err)
			return
		}
		h.scored = h.gameID
	}
}

// startGame swaps the session to a fresh game. The current game survives a
// rejected FEN.
func (h *CLIHandler) startGame(fen string) error {
	id := h.svc.GenerateGameID()

	var err error
	if fen == "" {
		err = h.svc.NewGame(id, "")
	} else {
		err = h.svc.LoadFEN(id, core.FENRequest{FEN: fen})
	}
	if err != nil {
		return err
	}

	if h.gameID != "" {
		_ = h.svc.DeleteGame(h.gameID)
	}
	h.gameID = id
	return nil
}

func (h *CLIHandler) showBoard() {
	g, err := h.svc.GetGame(h.gameID)
	if err != nil {
		return
	}
	h.view.DisplayBoard(g.Board())
}

func (h *CLIHandler) savePreferences() {
	if h.settings == nil {
		return
	}

	prefs := &settings.Preferences{
		Theme:        string(h.view.Theme()),
		Verbose:      h.view.IsVerbose(),
		DefaultDepth: h.depth,
	}
	if err := h.settings.SavePreferences(prefs); err != nil {
		log.Printf("Failed to save preferences: %v", err)
	}
}

func depthArg(args []string) (int, bool) {
	if len(args) != 1 {
		return 0, false
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, false
	}
	return n, true
}
