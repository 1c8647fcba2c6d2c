package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/term8/internal/assist"
	"github.com/vovakirdan/term8/internal/cart"
	"github.com/vovakirdan/term8/internal/config"
)

var (
	flagAssistCart  string
	flagAssistWrite bool
	flagAssistID    int
)

var assistCmd = &cobra.Command{
	Use:   "assist",
	Short: "Generate cart code or sprites with Gemini",
	Long: `Ask Gemini to write cart code or draw a sprite. The API key is read
from the environment variable named by assist.api_key_env in the config
(GEMINI_API_KEY by default).

Examples:
  term8 assist code "make the stars fall faster" --cart mygame.t8.yaml --write
  term8 assist sprite "a small red heart" --cart mygame.t8.yaml --id 2`,
}

var assistCodeCmd = &cobra.Command{
	Use:   "code <instruction>",
	Short: "Generate or edit cart code",
	Args:  cobra.MinimumNArgs(1),
	Run:   runAssistCode,
}

var assistSpriteCmd = &cobra.Command{
	Use:   "sprite <description>",
	Short: "Generate an 8x8 sprite",
	Args:  cobra.MinimumNArgs(1),
	Run:   runAssistSprite,
}

func init() {
	assistCmd.PersistentFlags().StringVar(&flagAssistCart, "cart", "", "Cart file to read from and write to")
	assistCodeCmd.Flags().BoolVar(&flagAssistWrite, "write", false, "Replace the cart's code instead of printing it")
	assistSpriteCmd.Flags().IntVar(&flagAssistID, "id", -1, "Store the sprite in the cart under this id (0-15)")

	assistCmd.AddCommand(assistCodeCmd)
	assistCmd.AddCommand(assistSpriteCmd)
}

// newAssistClient builds a Gemini client from the assist config.
func newAssistClient(cfg config.Config) *assist.Client {
	client := assist.NewClient(cfg.Assist.Endpoint, cfg.Assist.Model, os.Getenv(cfg.Assist.APIKeyEnv), cfg.AssistTimeout())
	client.Logger = newLogger("term8-assist")
	return client
}

func assistFail(cfg config.Config, err error) {
	if errors.Is(err, assist.ErrNoAPIKey) {
		fmt.Fprintf(os.Stderr, "Error: set %s to use assist\n", cfg.Assist.APIKeyEnv)
	} else {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(1)
}

func runAssistCode(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var c *cart.Cart
	current := ""
	if flagAssistCart != "" {
		c, err = cart.Load(flagAssistCart)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		current = c.Code
	}

	var gen assist.CodeGenerator = newAssistClient(cfg)
	code, err := gen.GenerateCode(cmd.Context(), strings.Join(args, " "), current)
	if err != nil {
		assistFail(cfg, err)
	}

	if flagAssistWrite && c != nil {
		c.Code = code + "\n"
		if err := cart.Save(flagAssistCart, c); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Updated the code of %s.\n", flagAssistCart)
		return
	}
	fmt.Println(code)
}

func runAssistSprite(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var gen assist.SpriteGenerator = newAssistClient(cfg)
	sprite, err := gen.GenerateSprite(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		assistFail(cfg, err)
	}

	if flagAssistCart != "" && flagAssistID >= 0 {
		id, err := parseSpriteID(fmt.Sprint(flagAssistID))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if err := storeSprite(flagAssistCart, id, sprite); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Stored sprite %d in %s.\n", id, flagAssistCart)
	}
	fmt.Print(spriteRows(&sprite))
}
