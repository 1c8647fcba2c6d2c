package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/term8/internal/cart"
	"github.com/vovakirdan/term8/internal/platform/tui"
	"github.com/vovakirdan/term8/internal/platform/window"
	"github.com/vovakirdan/term8/internal/registry"
	"github.com/vovakirdan/term8/internal/storage"
	"github.com/vovakirdan/term8/internal/watch"
)

var (
	flagWindow bool
	flagWatch  bool
)

var runCmd = &cobra.Command{
	Use:   "run <cart>",
	Short: "Run a cart",
	Long: `Run a cart in the terminal, or in a desktop window with --window.

<cart> is a built-in cart id, the name of a cart saved in the library,
or the path of a cart file. With --watch the file is reloaded whenever
it changes on disk.

Controls (terminal):
  Arrows/hjkl  - Left, Right, Up, Down
  Z / X        - Buttons A and B
  Ctrl+R       - Restart the cart
  ?            - Toggle help
  Esc / Q      - Quit

In a window, Esc closes the window.

Examples:
  term8 run starcatcher
  term8 run ./mygame.t8.yaml --watch
  term8 run bounce --window
  term8 run starcatcher --seed 42`,
	Args: cobra.ExactArgs(1),
	Run:  runRun,
}

func init() {
	runCmd.Flags().BoolVar(&flagWindow, "window", false, "Open a desktop window instead of using the terminal")
	runCmd.Flags().BoolVar(&flagWatch, "watch", false, "Reload the cart file when it changes")
}

func runRun(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger := newLogger("term8")
	if !flagWindow {
		if err := checkTerminal(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		var closeLog func()
		logger, closeLog = newTUILogger("term8")
		defer closeLog()
	}

	store := openStore(cfg)
	if store != nil {
		defer store.Close()
	}

	id, c, path, err := resolveCart(args[0], store)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Run 'term8 list' to see available carts.")
		os.Exit(1)
	}

	var updates <-chan watch.Update
	if flagWatch {
		if path == "" {
			fmt.Fprintln(os.Stderr, "Error: --watch needs a cart file path")
			os.Exit(1)
		}
		w, err := watch.New(path, watch.DefaultDebounce, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer w.Close()
		updates = w.Updates()
	}

	if flagWindow {
		err = window.Run(window.Options{
			CartID:  id,
			Cart:    c,
			Store:   store,
			Config:  cfg,
			Updates: updates,
			Logger:  logger,
		})
	} else {
		_, err = tui.Run(tui.Options{
			CartID:  id,
			Cart:    c,
			Store:   store,
			Config:  cfg,
			Updates: updates,
			Logger:  logger,
		})
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running cart: %v\n", err)
		os.Exit(1)
	}
}

// resolveCart finds a cart by file path, built-in id or library name, in
// that order. path is set only for carts read from a file.
func resolveCart(arg string, store *storage.Store) (id string, c *cart.Cart, path string, err error) {
	if info, statErr := os.Stat(arg); statErr == nil && !info.IsDir() {
		c, err = cart.Load(arg)
		if err != nil {
			return "", nil, "", err
		}
		return c.Name, c, arg, nil
	}

	if registry.Exists(arg) {
		c, err = registry.Create(arg)
		return arg, c, "", err
	}

	if store != nil {
		c, err = store.LoadCart(arg)
		if err == nil {
			return arg, c, "", nil
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return "", nil, "", err
		}
	}

	return "", nil, "", fmt.Errorf("unknown cart %q", arg)
}
