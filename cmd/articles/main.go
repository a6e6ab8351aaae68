package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/iammorganparry/articles/internal/api"
	"github.com/iammorganparry/articles/internal/client"
	"github.com/iammorganparry/articles/internal/config"
	"github.com/iammorganparry/articles/internal/credentials"
	"github.com/iammorganparry/articles/internal/logger"
	"github.com/iammorganparry/articles/internal/tui"
)

func main() {
	debug := flag.Bool("debug", false, "show the debug panel and log at debug level")
	ephemeral := flag.Bool("ephemeral", false, "keep the session token in memory only")
	configPath := flag.String("config", "", "config file (default ~/.articles/config.yaml)")
	flag.Parse()

	if err := run(*configPath, *debug, *ephemeral); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, debug, ephemeral bool) error {
	dir, err := config.Dir()
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}
	if configPath == "" {
		configPath = filepath.Join(dir, "config.yaml")
	}

	// Config
	cfg, err := config.LoadClient(configPath)
	if err != nil {
		return err
	}
	if debug {
		cfg.LogLevel = "debug"
	}

	// Logger (the TUI owns stdout)
	logPath := cfg.LogPath
	if logPath == "" {
		logPath = filepath.Join(dir, "articles.log")
	}
	logFile, err := logger.OpenFile(logPath)
	if err != nil {
		return err
	}
	defer logFile.Close()
	log := logger.New(logFile, cfg.LogLevel)

	// Credentials
	var store credentials.Store
	if ephemeral {
		store = credentials.NewMemoryStore("")
	} else {
		credsPath := cfg.CredentialsPath
		if credsPath == "" {
			credsPath = filepath.Join(dir, credentials.FileName)
		}
		store = credentials.NewFileStore(credsPath)
	}

	// API
	gw := api.NewClient(cfg.APIBaseURL(),
		api.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		api.WithLogger(log),
	)

	app := client.New(gw, store, log)
	log.Info("client starting", "server_url", cfg.ServerURL, "ephemeral", ephemeral)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := tea.NewProgram(
		tui.NewRootModel(ctx, app, debug),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	if _, err := p.Run(); err != nil {
		return err
	}

	log.Info("client stopped")
	return nil
}
