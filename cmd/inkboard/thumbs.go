package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"inkboard/internal/thumbnail"
)

var (
	thumbsOut   string
	thumbsStore bool
)

var thumbsCmd = &cobra.Command{
	Use:   "thumbs <board>",
	Short: "Render page thumbnails",
	Long: `Render a small preview of every page. With --store the active page's
thumbnail is also written next to the board, where the editor keeps it.`,
	Args: cobra.ExactArgs(1),
	RunE: runThumbs,
}

func init() {
	thumbsCmd.Flags().StringVarP(&thumbsOut, "out", "o", "", "output directory (default: next to the board)")
	thumbsCmd.Flags().BoolVar(&thumbsStore, "store", false, "refresh the board's stored thumbnail")
	rootCmd.AddCommand(thumbsCmd)
}

func runThumbs(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, closeLog, err := cliLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	b, st, key, err := openBoard(cmd.Context(), cfg, log, args[0])
	if err != nil {
		return err
	}
	outDir := thumbsOut
	if outDir == "" {
		outDir = st.Dir()
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return err
	}

	cache := thumbnail.NewCache()
	done := log.Step("render thumbnails")
	thumbs, err := cache.RenderAll(cmd.Context(), b.Pages())
	done()
	if err != nil {
		return err
	}
	hits, misses := cache.Stats()
	log.Debug("thumbnail cache: %d entries, %d hits, %d misses", cache.Len(), hits, misses)

	for i, p := range b.Pages() {
		path := filepath.Join(outDir, fmt.Sprintf("%s-page%d-thumb.png", key, i+1))
		if err := os.WriteFile(path, thumbs[p.ID], 0644); err != nil {
			return err
		}
		fmt.Printf("%s  %s (%s)\n", path, p.Name, thumbnail.Label(len(p.Shapes)))
	}

	if thumbsStore {
		blob, err := b.Wire()
		if err != nil {
			return err
		}
		if err := st.Save(cmd.Context(), key, blob, thumbs[b.ActivePageID()]); err != nil {
			return err
		}
		fmt.Println(st.ThumbnailPath(key))
	}
	return nil
}
