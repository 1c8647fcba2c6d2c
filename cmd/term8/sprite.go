package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/term8/internal/cart"
)

var spriteCmd = &cobra.Command{
	Use:   "sprite",
	Short: "Import and inspect sprites",
	Long: `Work with the 16 sprites of a cart file.

Examples:
  term8 sprite import hero.png mygame.t8.yaml 0
  term8 sprite show mygame.t8.yaml 0`,
}

var spriteImportCmd = &cobra.Command{
	Use:   "import <image> <cart-file> <id>",
	Short: "Convert an image to an 8x8 sprite and store it in a cart file",
	Long: `Scale an image (PNG, GIF or JPEG) to 8x8, reduce it to the console
palette and store it as sprite <id> (0-15). Transparent pixels become
colour 0, which spr does not draw.`,
	Args: cobra.ExactArgs(3),
	Run:  runSpriteImport,
}

var spriteShowCmd = &cobra.Command{
	Use:   "show <cart-file> <id>",
	Short: "Print a sprite as hex rows",
	Args:  cobra.ExactArgs(2),
	Run:   runSpriteShow,
}

func init() {
	spriteCmd.AddCommand(spriteImportCmd)
	spriteCmd.AddCommand(spriteShowCmd)
}

// parseSpriteID parses a sprite id in [0,15].
func parseSpriteID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id < 0 || id >= cart.BankSize {
		return 0, fmt.Errorf("sprite id must be 0-%d, got %q", cart.BankSize-1, s)
	}
	return id, nil
}

func runSpriteImport(_ *cobra.Command, args []string) {
	id, err := parseSpriteID(args[2])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	sprite, err := cart.ImportFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := storeSprite(args[1], id, sprite); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Imported %s as sprite %d of %s.\n", args[0], id, args[1])
	fmt.Print(spriteRows(&sprite))
}

// storeSprite replaces one sprite of a cart file.
func storeSprite(path string, id int, s cart.Sprite) error {
	c, err := cart.Load(path)
	if err != nil {
		return err
	}
	c.Sprites[id] = s
	return cart.Save(path, c)
}

func runSpriteShow(_ *cobra.Command, args []string) {
	id, err := parseSpriteID(args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	c, err := cart.Load(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Print(spriteRows(c.Sprites.Sprite(id)))
}

// spriteRows formats a sprite as 8 lines of hex colour digits.
func spriteRows(s *cart.Sprite) string {
	var b strings.Builder
	for y := range cart.SpriteSize {
		for x := range cart.SpriteSize {
			fmt.Fprintf(&b, "%x", s.Pixel(x, y))
		}
		b.WriteByte('\n')
	}
	return b.String()
}
