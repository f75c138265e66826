package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"inkboard/internal/board"
	"inkboard/internal/export"
	"inkboard/internal/render"
	"inkboard/internal/tui"
)

var (
	exportFormat string
	exportPage   string
	exportOut    string
	exportScale  float64
)

var exportCmd = &cobra.Command{
	Use:   "export <board>",
	Short: "Export a board to PNG, PDF or text",
	Long: `Export a board. PNG and text write one file per page; PDF writes a single
document with one page per board page. Only committed shapes are exported.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "png", "output format: png, pdf or txt")
	exportCmd.Flags().StringVarP(&exportPage, "page", "p", "all", "page number (1-based), page id or \"all\"")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output directory (default: next to the board)")
	exportCmd.Flags().Float64Var(&exportScale, "scale", 1, "PNG scale factor")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
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
	outDir := exportOut
	if outDir == "" {
		outDir = st.Dir()
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return err
	}

	format := strings.ToLower(exportFormat)
	if format == "pdf" {
		var buf bytes.Buffer
		if err := export.PDF(&buf, b.Document(), b.Size()); err != nil {
			return err
		}
		path := filepath.Join(outDir, key+".pdf")
		if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	}
	if format != "png" && format != "txt" {
		return fmt.Errorf("unknown format %q", exportFormat)
	}

	pages, err := selectPages(b, exportPage)
	if err != nil {
		return err
	}
	rasterizer := &render.Rasterizer{Scale: exportScale, Log: log.WithPrefix("render")}
	for _, n := range pages {
		if err := b.SelectPage(b.Pages()[n-1].ID); err != nil {
			return err
		}
		done := log.Step(fmt.Sprintf("export page %d", n))
		path := filepath.Join(outDir, fmt.Sprintf("%s-page%d.%s", key, n, format))
		if format == "png" {
			err = exportPNG(b, rasterizer, path)
		} else {
			err = exportTXT(b, path)
		}
		done()
		if err != nil {
			return fmt.Errorf("page %d: %w", n, err)
		}
		fmt.Println(path)
	}
	return nil
}

// selectPages resolves the --page flag to 1-based page numbers.
func selectPages(b *board.Board, which string) ([]int, error) {
	pages := b.Pages()
	if which == "" || which == "all" {
		out := make([]int, len(pages))
		for i := range pages {
			out[i] = i + 1
		}
		return out, nil
	}
	if n, err := strconv.Atoi(which); err == nil {
		if n < 1 || n > len(pages) {
			return nil, fmt.Errorf("page %d out of range 1-%d", n, len(pages))
		}
		return []int{n}, nil
	}
	for i, p := range pages {
		if p.ID == which {
			return []int{i + 1}, nil
		}
	}
	return nil, fmt.Errorf("page %q not found", which)
}

func exportPNG(b *board.Board, r board.Rasterizer, path string) error {
	data, err := b.Export(r)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func exportTXT(b *board.Board, path string) error {
	size := b.Size()
	cols, rows := tui.GridSize(size.Width, size.Height)
	return tui.WriteTextFile(path, b.Shapes(), cols, rows)
}
