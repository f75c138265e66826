package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"inkboard/internal/logger"
	"inkboard/internal/tui"
)

var editWatch bool

var editCmd = &cobra.Command{
	Use:   "edit <board>",
	Short: "Open a board in the terminal editor",
	Long: `Open a board in the terminal editor. A board that does not exist yet is
created on the first save. With --watch the board is reloaded whenever the file
changes on disk.`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	editCmd.Flags().BoolVarP(&editWatch, "watch", "w", false, "reload the board when the file changes")
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// The terminal belongs to the editor, so logs only go to a file.
	log := logger.Discard()
	if cfg.LogFile != "" {
		f, err := tea.LogToFile(cfg.LogFile, "inkboard")
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer f.Close()
		log = logger.New(f, cfg.LogLevel, "inkboard")
	}

	st, key := resolve(cfg, args[0])
	initial, err := st.Load(cmd.Context(), key)
	if err != nil {
		if !isNotFound(err) {
			return err
		}
		log.Info("%s does not exist yet, starting blank", st.BlobPath(key))
		initial = nil
	}

	return tui.Run(tui.Options{
		Config:  cfg,
		Log:     log,
		Store:   st,
		Key:     key,
		Initial: initial,
		Watch:   editWatch,
	})
}
