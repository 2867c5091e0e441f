package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	flag "github.com/spf13/pflag"
	"github.com/tgienger/ytl/internal/config"
	"github.com/tgienger/ytl/internal/db"
	"github.com/tgienger/ytl/internal/menu"
	"github.com/tgienger/ytl/internal/ui"
)

// Version information set via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	flags := flag.NewFlagSet("ytl", flag.ContinueOnError)
	dbPath := flags.String("db", "", "path to the SQLite database")
	configPath := flags.String("config", "", "path to a config file (JSONC)")
	plain := flags.Bool("plain", false, "use the numbered text menu instead of the full-screen UI")
	debug := flags.Bool("debug", false, "write debug logs to ytl-debug.log")
	writeConfig := flags.Bool("write-config", false, "save the effective config to the global config file and exit")
	showVersion := flags.BoolP("version", "v", false, "print version and exit")

	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if *showVersion {
		fmt.Printf("ytl %s (commit: %s, built: %s)\n", version, commit, date)
		return 0
	}

	env := environ()

	// Logs go to a file when debugging, nowhere otherwise
	if *debug || env["YTL_DEBUG"] != "" {
		f, err := tea.LogToFile("ytl-debug.log", "ytl")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening debug log: %v\n", err)
			return 1
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	cfg, err := config.Load(config.LoadInput{
		ConfigPath: *configPath,
		Overrides:  config.Overrides{DBPath: *dbPath, Plain: *plain},
		Env:        env,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return 1
	}
	log.Printf("config: db=%s global=%q explicit=%q", cfg.DBPath, cfg.Sources.Global, cfg.Sources.Explicit)

	if *writeConfig {
		path := config.GlobalPath(env)
		if path == "" {
			fmt.Fprintln(os.Stderr, "Error writing config: no config directory (set HOME or XDG_CONFIG_HOME)")
			return 1
		}
		if err := config.Write(path, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing config: %v\n", err)
			return 1
		}
		fmt.Printf("Config written to %s\n", path)
		return 0
	}

	// Initialize database
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing database: %v\n", err)
		return 1
	}
	defer database.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Plain {
		return runMenu(ctx, database, cfg, env)
	}

	// Create and run the application
	app := ui.NewApp(database, cfg.DeadlineDays)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		fmt.Fprintf(os.Stderr, "Error running application: %v\n", err)
		return 1
	}
	return 0
}

func runMenu(ctx context.Context, database *db.DB, cfg config.Config, env map[string]string) int {
	term := menu.OpenTerminal(menu.HistoryPath(env["HOME"]))
	defer term.Close()

	// A blocked prompt can't see the context, so shut down from here
	stopAfter := context.AfterFunc(ctx, func() {
		term.Close()
		database.Close()
		fmt.Fprintln(os.Stdout, "\nInterrupted.")
		os.Exit(130)
	})
	defer stopAfter()

	if err := menu.New(database, term, os.Stdout, cfg.DeadlineDays).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func environ() map[string]string {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	return env
}
