package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"inkboard/internal/shape"
	"inkboard/internal/store"
)

var infoCmd = &cobra.Command{
	Use:   "info <board>",
	Short: "Display pages and shape counts of a board",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

var listCmd = &cobra.Command{
	Use:   "list [dir]",
	Short: "List the boards in a directory",
	Long:  "List the boards in dir, or in the configured save directory when dir is omitted.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(listCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
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
	doc := b.Document()
	size := b.Size()

	fmt.Println("Board Information")
	fmt.Println("=================")
	fmt.Printf("File: %s\n", st.BlobPath(key))
	fmt.Printf("Canvas: %.0f x %.0f\n", size.Width, size.Height)
	fmt.Printf("Pages: %d\n", len(doc.Pages))
	fmt.Printf("Shapes: %d\n", doc.ShapeCount())
	if n := b.HistoryLimit(); n > 0 {
		fmt.Printf("Undo depth: %d snapshots per page\n", n)
	} else {
		fmt.Println("Undo depth: unbounded")
	}
	if _, err := st.LoadThumbnail(cmd.Context(), key); err == nil {
		fmt.Printf("Thumbnail: %s\n", st.ThumbnailPath(key))
	}
	fmt.Println()

	for i, p := range doc.Pages {
		marker := " "
		if p.ID == doc.ActivePageID {
			marker = "*"
		}
		fmt.Printf("%s %d. %s [%s]\n", marker, i+1, p.Name, p.ID)

		counts := make(map[shape.Kind]int)
		for _, s := range p.Shapes {
			counts[s.Kind()]++
		}
		kinds := make([]string, 0, len(counts))
		for k := range counts {
			kinds = append(kinds, string(k))
		}
		sort.Strings(kinds)
		for _, k := range kinds {
			fmt.Printf("     %-7s %d\n", k, counts[shape.Kind(k)])
		}
	}
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	dir := cfg.SaveDirectory
	if len(args) == 1 {
		dir = args[0]
	}
	st := store.NewFileStore(dir)
	keys, err := st.List(cmd.Context())
	if err != nil {
		return err
	}
	for _, k := range keys {
		fmt.Println(st.BlobPath(k))
	}
	return nil
}
