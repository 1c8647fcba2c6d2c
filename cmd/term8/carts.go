package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/term8/internal/cart"
	"github.com/vovakirdan/term8/internal/storage"
)

var flagSaveName string

var cartsCmd = &cobra.Command{
	Use:   "carts",
	Short: "Manage the cart library",
	Long: `Save cart files into the library database, list them and remove them.
Saved carts show up in 'term8 list' and the menu, and can be run by name.

Examples:
  term8 carts save ./mygame.t8.yaml
  term8 carts save ./mygame.t8.yaml --name mygame-v2
  term8 carts ls
  term8 carts rm mygame`,
}

var cartsLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List saved carts",
	Args:  cobra.NoArgs,
	Run:   runCartsLs,
}

var cartsSaveCmd = &cobra.Command{
	Use:   "save <file>",
	Short: "Save a cart file into the library",
	Args:  cobra.ExactArgs(1),
	Run:   runCartsSave,
}

var cartsRmCmd = &cobra.Command{
	Use:   "rm <name>",
	Short: "Remove a cart from the library",
	Args:  cobra.ExactArgs(1),
	Run:   runCartsRm,
}

func init() {
	cartsSaveCmd.Flags().StringVar(&flagSaveName, "name", "", "Library name (default: the cart's name)")

	cartsCmd.AddCommand(cartsLsCmd)
	cartsCmd.AddCommand(cartsSaveCmd)
	cartsCmd.AddCommand(cartsRmCmd)
}

// mustOpenStore opens the database or exits.
func mustOpenStore() *storage.Store {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	store, err := storage.Open(cfg.DBPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	return store
}

func runCartsLs(_ *cobra.Command, _ []string) {
	store := mustOpenStore()
	defer store.Close()

	entries, err := store.ListCarts()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if len(entries) == 0 {
		fmt.Println("The library is empty.")
		fmt.Println("Save a cart with 'term8 carts save <file>'.")
		return
	}

	maxNameLen := 4 // "Name" header
	for _, e := range entries {
		maxNameLen = max(maxNameLen, len(e.Name))
	}

	fmt.Printf("  %-*s  %-16s  %s\n", maxNameLen, "Name", "Updated", "Author")
	fmt.Printf("  %-*s  %-16s  %s\n", maxNameLen, "----", "-------", "------")
	for _, e := range entries {
		fmt.Printf("  %-*s  %-16s  %s\n", maxNameLen, e.Name, e.UpdatedAt.Format("2006-01-02 15:04"), e.Author)
	}
}

func runCartsSave(_ *cobra.Command, args []string) {
	c, err := cart.Load(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if flagSaveName != "" {
		c.Name = flagSaveName
	}
	if c.Name == "" {
		fmt.Fprintln(os.Stderr, "Error: cart has no name; pass --name")
		os.Exit(1)
	}

	store := mustOpenStore()
	defer store.Close()

	if err := store.SaveCart(c); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Saved %q. Run it with 'term8 run %s'.\n", c.Name, c.Name)
}

func runCartsRm(_ *cobra.Command, args []string) {
	store := mustOpenStore()
	defer store.Close()

	if err := store.DeleteCart(args[0]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Removed %q.\n", args[0])
}
