// Package main runs the chess engine REPL: one command per line on stdin,
// protocol lines on stdout, diagnostics on stderr.
package main

import (
	"flag"
	"log"
	"os"

	"chesscore/cmd/chess/cli"
	viewcli "chesscore/internal/cli"
	"chesscore/internal/service"
	"chesscore/internal/settings"
	"chesscore/internal/storage"
	clitransport "chesscore/internal/transport/cli"
)

func main() {
	// Check for CLI database commands
	if len(os.Args) > 1 && os.Args[1] == "db" {
		if err := cli.Run(os.Args[2:]); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		os.Exit(0)
	}

	var (
		storagePath  = flag.String("storage-path", "", "Path to SQLite game archive (disables archiving if empty)")
		settingsPath = flag.String("settings-path", "", "Directory for saved preferences (disables them if empty)")
		historyFile  = flag.String("history", "", "Line editor history file (interactive sessions only)")
		dev          = flag.Bool("dev", false, "Development mode (WAL journal on the archive)")
		theme        = flag.String("theme", "", "Board color theme: off, brown, green or gray")
		depth        = flag.Int("depth", 0, "Search depth for a bare 'ai' command (1-5)")
		workers      = flag.Int("workers", 0, "Goroutines used by 'divide' (0 = one per CPU)")
		quiet        = flag.Bool("quiet", false, "Do not print the welcome banner")
	)
	flag.Parse()

	// 1. Game archive (optional)
	var store *storage.Store
	if *storagePath != "" {
		var err error
		store, err = storage.NewStore(*storagePath, *dev)
		if err != nil {
			log.Fatalf("Failed to initialize storage: %v", err)
		}
		if err := store.InitDB(); err != nil {
			log.Fatalf("Failed to initialize schema: %v", err)
		}
	}

	svc, err := service.New(store)
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	defer func() {
		if err := svc.Close(); err != nil {
			log.Printf("Warning: failed to close storage cleanly: %v", err)
		}
	}()
	if *workers > 0 {
		svc.SetDivideWorkers(*workers)
	}

	// 2. View
	view, err := viewcli.NewInteractive(*historyFile)
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	defer view.Close()

	handler := clitransport.New(svc, view)

	// 3. Preferences (optional); flags override what was saved
	if *settingsPath != "" {
		prefs, err := openSettings(*settingsPath)
		if err != nil {
			log.Printf("Preferences disabled: %v", err)
		} else {
			defer prefs.store.Close()
			handler.SetSettings(prefs.store)
			if err := view.SetTheme(viewcli.ColorTheme(prefs.Theme)); err != nil {
				log.Printf("Ignoring saved theme: %v", err)
			}
			view.SetVerbose(prefs.Verbose)
			handler.SetDefaultDepth(prefs.DefaultDepth)
		}
	}
	if *theme != "" {
		if err := view.SetTheme(viewcli.ColorTheme(*theme)); err != nil {
			log.Fatalf("Invalid -theme: %v", err)
		}
	}
	if *depth != 0 {
		handler.SetDefaultDepth(*depth)
	}

	if !*quiet {
		view.ShowWelcome()
	}

	if err := handler.Run(); err != nil {
		log.Printf("Input error: %v", err)
	}
}

type savedPreferences struct {
	*settings.Preferences
	store *settings.Store
}

// openSettings opens the preference store and reads what was saved
func openSettings(dir string) (*savedPreferences, error) {
	st, err := settings.Open(dir)
	if err != nil {
		return nil, err
	}

	prefs, err := st.LoadPreferences()
	if err != nil {
		st.Close()
		return nil, err
	}
	return &savedPreferences{Preferences: prefs, store: st}, nil
}
