package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/term8/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available carts",
	Long:  `Shows the built-in carts and the carts saved in the library.`,
	Run:   runList,
}

type listRow struct {
	id, title, author, source string
}

func runList(cmd *cobra.Command, args []string) {
	var rows []listRow
	for _, c := range registry.List() {
		rows = append(rows, listRow{c.ID, c.Title, c.Author, "built-in"})
	}

	if cfg, err := loadConfig(); err == nil {
		if store := openStore(cfg); store != nil {
			entries, err := store.ListCarts()
			store.Close()
			if err != nil {
				fmt.Printf("Warning: could not list library: %v\n", err)
			}
			for _, e := range entries {
				rows = append(rows, listRow{e.Name, e.Name, e.Author, "library"})
			}
		}
	}

	if len(rows) == 0 {
		fmt.Println("No carts available.")
		return
	}

	fmt.Println("Available carts:")
	fmt.Println()

	// Calculate column widths
	maxIDLen, maxTitleLen := 2, 5 // "ID", "Title" headers
	for _, r := range rows {
		maxIDLen = max(maxIDLen, len(r.id))
		maxTitleLen = max(maxTitleLen, len(r.title))
	}

	fmt.Printf("  %-*s  %-*s  %-8s  %s\n", maxIDLen, "ID", maxTitleLen, "Title", "Source", "Author")
	fmt.Printf("  %-*s  %-*s  %-8s  %s\n", maxIDLen, "--", maxTitleLen, "-----", "------", "------")
	for _, r := range rows {
		fmt.Printf("  %-*s  %-*s  %-8s  %s\n", maxIDLen, r.id, maxTitleLen, r.title, r.source, r.author)
	}

	fmt.Println()
	fmt.Println("Run 'term8 run <id>' to play a cart.")
}
