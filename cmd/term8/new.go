package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/term8/internal/cart"
	"github.com/vovakirdan/term8/internal/registry"
)

var (
	flagNewFrom  string
	flagNewName  string
	flagNewForce bool
)

var newCmd = &cobra.Command{
	Use:   "new <file>",
	Short: "Write a starter cart file",
	Long: `Write a new cart file based on a built-in cart, ready to edit.
Use 'term8 run <file> --watch' to see changes as you save.

Examples:
  term8 new mygame.t8.yaml
  term8 new mygame.t8.yaml --from starcatcher --name "My Game"`,
	Args: cobra.ExactArgs(1),
	Run:  runNew,
}

func init() {
	newCmd.Flags().StringVar(&flagNewFrom, "from", "hello", "Built-in cart to start from")
	newCmd.Flags().StringVar(&flagNewName, "name", "", "Cart name (default: from the file name)")
	newCmd.Flags().BoolVar(&flagNewForce, "force", false, "Overwrite an existing file")
}

func runNew(_ *cobra.Command, args []string) {
	path := args[0]
	if _, err := os.Stat(path); err == nil && !flagNewForce {
		fmt.Fprintf(os.Stderr, "Error: %s already exists (use --force to overwrite)\n", path)
		os.Exit(1)
	}

	c, err := registry.Create(flagNewFrom)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	c.Name = flagNewName
	if c.Name == "" {
		base := filepath.Base(path)
		base = strings.TrimSuffix(base, cart.FileExtension)
		c.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	c.Author = os.Getenv("USER")

	if err := cart.Save(path, c); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s. Try 'term8 run %s --watch'.\n", path, path)
}
