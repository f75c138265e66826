package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"inkboard/internal/board"
	"inkboard/internal/config"
	"inkboard/internal/logger"
	"inkboard/internal/store"
	"inkboard/internal/tui"
)

var (
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "inkboard",
	Short: "A multi-page whiteboard for the terminal",
	Long: `inkboard is a vector whiteboard with pages and per-page undo/redo.
Boards are stored as JSON and can be exported to PNG, PDF or plain text.`,
	Version:       "0.3.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/"+config.FileName+")")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error or off")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg := config.Load()
	if configPath != "" {
		var err error
		cfg, err = config.LoadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}
	if logLevel != "" {
		level, ok := logger.ParseLevel(logLevel)
		if !ok {
			return nil, fmt.Errorf("unknown log level %q", logLevel)
		}
		cfg.LogLevel = level
	}
	return cfg, nil
}

// cliLogger logs to the configured file when there is one, else to stderr.
func cliLogger(cfg *config.Config) (*logger.Logger, func(), error) {
	if cfg.LogFile == "" {
		return logger.New(os.Stderr, cfg.LogLevel, "inkboard"), func() {}, nil
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	return logger.New(f, cfg.LogLevel, "inkboard"), func() { f.Close() }, nil
}

// resolve maps a board argument to its store and key. A bare name is looked up
// in the configured save directory.
func resolve(cfg *config.Config, arg string) (*store.FileStore, string) {
	dir := filepath.Dir(arg)
	if filepath.Base(arg) == arg && cfg.SaveDirectory != "" {
		dir = cfg.SaveDirectory
	}
	return store.NewFileStore(dir), store.Key(arg)
}

func openBoard(ctx context.Context, cfg *config.Config, log *logger.Logger, arg string) (*board.Board, *store.FileStore, string, error) {
	st, key := resolve(cfg, arg)
	data, err := st.Load(ctx, key)
	if err != nil {
		return nil, nil, "", err
	}
	b := board.New(append(tui.BoardOptions(cfg), board.WithLogger(log.WithPrefix("board")))...)
	if err := b.LoadWire(data); err != nil {
		return nil, nil, "", fmt.Errorf("%s: %w", st.BlobPath(key), err)
	}
	return b, st, key, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}

// blankBoard returns a board with n empty pages and the first one active.
func blankBoard(cfg *config.Config, log *logger.Logger, n int) *board.Board {
	b := board.New(append(tui.BoardOptions(cfg), board.WithLogger(log.WithPrefix("board")))...)
	first := b.ActivePageID()
	for i := 1; i < n; i++ {
		b.AddPage("")
	}
	b.SelectPage(first)
	return b
}
