package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"inkboard/internal/thumbnail"
)

var (
	newPages int
	newForce bool
)

var newCmd = &cobra.Command{
	Use:   "new <board>",
	Short: "Create an empty board",
	Args:  cobra.ExactArgs(1),
	RunE:  runNew,
}

func init() {
	newCmd.Flags().IntVarP(&newPages, "pages", "n", 1, "number of blank pages")
	newCmd.Flags().BoolVar(&newForce, "force", false, "overwrite an existing board")
	rootCmd.AddCommand(newCmd)
}

func runNew(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if newPages < 1 {
		return fmt.Errorf("--pages must be at least 1, got %d", newPages)
	}
	log, closeLog, err := cliLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	st, key := resolve(cfg, args[0])
	if !newForce {
		if _, err := st.Load(cmd.Context(), key); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", st.BlobPath(key))
		} else if !isNotFound(err) {
			return err
		}
	}

	b := blankBoard(cfg, log, newPages)
	blob, err := b.Wire()
	if err != nil {
		return err
	}
	thumb, err := thumbnail.Render(b.ActivePage())
	if err != nil {
		return err
	}
	if err := st.Save(cmd.Context(), key, blob, thumb); err != nil {
		return err
	}
	fmt.Println(st.BlobPath(key))
	return nil
}
