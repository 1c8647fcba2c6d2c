package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/term8/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start term8 with a cart picker menu",
	Long: `Start term8 in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to run a cart, Tab for the
run history. Esc in a running cart returns to the menu.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Run cart
  Tab          - Run history
  Q            - Quit

Examples:
  term8 menu
  term8 menu --fps 30
  term8 menu --db ./term8.db`,
	Run: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := checkTerminal(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger, closeLog := newTUILogger("term8")
	defer closeLog()

	store := openStore(cfg)
	if store != nil {
		defer store.Close()
	}

	for {
		menuResult, err := tui.RunMenu(store)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return
		}
		if menuResult.Quit {
			return
		}

		if menuResult.WantsRuns {
			goBack, runsErr := tui.RunRuns(store)
			if runsErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", runsErr)
			}
			if goBack {
				continue // Back to menu
			}
			return
		}

		item := menuResult.Item
		if item == nil {
			return
		}

		c, err := tui.Resolve(store, *item)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading cart: %v\n", err)
			continue
		}

		back, err := tui.Run(tui.Options{
			CartID: item.ID,
			Cart:   c,
			Store:  store,
			Config: cfg,
			Logger: logger,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error running cart: %v\n", err)
		}
		if !back {
			return
		}
	}
}
