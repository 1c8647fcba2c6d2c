// term8 is a fantasy console for the terminal: 128x128 pixels, 16 colours,
// six buttons and Lua carts.
//
// Usage:
//
//	term8 list                       - List built-in and saved carts
//	term8 run <cart>                 - Run a cart in the terminal
//	term8 menu                       - Pick carts interactively
//	term8 serve                      - Start SSH server for remote play
//	term8 carts ls|save|rm           - Manage the cart library
//	term8 runs [cart]                - Show run history
//	term8 new <file>                 - Write a starter cart
//	term8 shot <cart>                - Render a cart to PNG without a display
//	term8 sprite import <png> ...    - Import an image as a sprite
//	term8 assist code|sprite ...     - Generate code or sprites with Gemini
//
// Global flags:
//
//	--fps <rate>        - Terminal frame rate (default: from config)
//	--seed <value>      - RNG seed for reproducible runs
//	--db <path>         - Database path (default: ~/.term8/term8.db)
//	--config <path>     - Config file
//	--log-level <lvl>   - debug, info, warn or error
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/term8/internal/config"
	"github.com/vovakirdan/term8/internal/core"
	"github.com/vovakirdan/term8/internal/platform/tui"
	"github.com/vovakirdan/term8/internal/storage"

	// Import carts to register them
	_ "github.com/vovakirdan/term8/internal/carts/bounce"
	_ "github.com/vovakirdan/term8/internal/carts/hello"
	_ "github.com/vovakirdan/term8/internal/carts/starcatcher"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagConfig   string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "term8",
	Short: "term8 - a fantasy console in your terminal",
	Long: `term8 runs small Lua programs ("carts") on a 128x128, 16-colour
virtual screen with six buttons, in the terminal, in a window or over SSH.

Available commands:
  list     - Show built-in and saved carts
  run      - Run a cart directly
  menu     - Interactive cart picker
  serve    - Start SSH server for remote play
  carts    - Manage the cart library
  runs     - View run history
  new      - Write a starter cart file
  shot     - Render a cart to a PNG file
  sprite   - Import sprites from images
  assist   - Generate code and sprites with Gemini

Examples:
  term8 list
  term8 run starcatcher
  term8 run ./mygame.t8.yaml --watch
  term8 menu
  term8 serve --ssh :2222`,
	SilenceUsage: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 0, "Terminal frame rate (0 = console.tick_rate from config)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = console.seed from config)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to database (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(cartsCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(shotCmd)
	rootCmd.AddCommand(spriteCmd)
	rootCmd.AddCommand(assistCmd)
}

// loadConfig loads the config file and applies the global flag overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}
	if flagFPS > 0 {
		cfg.Console.TickRate = flagFPS
	}
	if flagSeed != 0 {
		cfg.Console.Seed = flagSeed
	}
	if flagDBPath != "" {
		cfg.Storage.DB = flagDBPath
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// newLogger creates the stderr logger used by every command.
func newLogger(prefix string) *log.Logger {
	return newLoggerTo(os.Stderr, prefix)
}

// newTUILogger logs to ~/.term8/term8.log so log lines do not tear the
// terminal UI. The returned func closes the file.
func newTUILogger(prefix string) (*log.Logger, func()) {
	path := filepath.Join(config.Dir(), "term8.log")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return newLoggerTo(io.Discard, prefix), func() {}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return newLoggerTo(io.Discard, prefix), func() {}
	}
	return newLoggerTo(f, prefix), func() { f.Close() }
}

func newLoggerTo(w io.Writer, prefix string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		logger.Warn("unknown log level, using warn", "level", flagLogLevel)
		level = log.WarnLevel
	}
	logger.SetLevel(level)
	return logger
}

// openStore opens the database, or returns nil with a warning when it is
// unavailable. Carts still run without it.
func openStore(cfg config.Config) *storage.Store {
	store, err := storage.Open(cfg.DBPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open database: %v\n", err)
		return nil
	}
	return store
}

// checkTerminal fails when stdout is not a terminal and warns when it is
// too small to show the whole screen.
func checkTerminal() error {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return errors.New("stdout is not a terminal; use --window or 'term8 shot'")
	}
	// HUD line above the screen, help line below it.
	needW, needH := core.ScreenWidth, tui.CellRows+2
	if w, h, err := term.GetSize(fd); err == nil && (w < needW || h < needH) {
		fmt.Fprintf(os.Stderr, "Warning: terminal is %dx%d, the console needs %dx%d; the picture will be cut off\n", w, h, needW, needH)
	}
	return nil
}
