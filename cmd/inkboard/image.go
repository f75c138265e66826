package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"inkboard/internal/board"
	"inkboard/internal/render"
	"inkboard/internal/thumbnail"
)

var (
	imagePage string
	imageX    float64
	imageY    float64
)

var imageCmd = &cobra.Command{
	Use:   "image <board> <file>",
	Short: "Place an image file on a page",
	Long: `Embed a PNG, JPEG or GIF file into a board as an image shape. The image keeps
its pixel size unless it is larger than the canvas, in which case it is scaled
down to fit. The placement is one undoable edit on the chosen page.`,
	Args: cobra.ExactArgs(2),
	RunE: runImage,
}

func init() {
	imageCmd.Flags().StringVarP(&imagePage, "page", "p", "", "page number (1-based) or page id (default: the active page)")
	imageCmd.Flags().Float64Var(&imageX, "x", 0, "left edge in canvas units")
	imageCmd.Flags().Float64Var(&imageY, "y", 0, "top edge in canvas units")
	rootCmd.AddCommand(imageCmd)
}

func runImage(cmd *cobra.Command, args []string) error {
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
	if imagePage != "" {
		pages, err := selectPages(b, imagePage)
		if err != nil {
			return err
		}
		if err := b.SelectPage(b.Pages()[pages[0]-1].ID); err != nil {
			return err
		}
	}

	id, err := placeImage(b, args[1], imageX, imageY)
	if err != nil {
		return err
	}
	log.Info("placed %s as %s on %s", args[1], id, b.ActivePageID())

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

// placeImage reads path and adds it to the active page at (x, y).
func placeImage(b *board.Board, path string, x, y float64) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	src, w, h, err := render.ImageDataURL(f)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	width, height := board.FitSize(float64(w), float64(h), b.Size())
	return b.AddImage(src, x, y, width, height), nil
}
