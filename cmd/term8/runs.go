package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/term8/internal/core"
)

var flagRunsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs [cart]",
	Short: "Show run history",
	Long: `Display the most recent runs, optionally for one cart, with how each
run ended and the error that stopped it.

Examples:
  term8 runs
  term8 runs starcatcher --limit 5`,
	Args: cobra.MaximumNArgs(1),
	Run:  runRuns,
}

func init() {
	runsCmd.Flags().IntVar(&flagRunsLimit, "limit", 10, "Number of runs to show")
}

func runRuns(_ *cobra.Command, args []string) {
	cartName := ""
	if len(args) == 1 {
		cartName = args[0]
	}

	store := mustOpenStore()
	defer store.Close()

	runs, err := store.RecentRuns(cartName, flagRunsLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving runs: %v\n", err)
		os.Exit(1)
	}

	if cartName != "" {
		fmt.Printf("Runs - %s\n", cartName)
	} else {
		fmt.Println("Runs")
	}
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		return
	}

	fmt.Printf("  %-16s  %-12s  %-14s  %7s  %8s  %s\n", "Date", "Cart", "Outcome", "Ticks", "Time", "Message")
	fmt.Printf("  %-16s  %-12s  %-14s  %7s  %8s  %s\n", "----", "----", "-------", "-----", "----", "-------")
	for _, r := range runs {
		msg, _, _ := strings.Cut(r.Message, "\n")
		fmt.Printf("  %-16s  %-12s  %-14s  %7d  %8s  %s\n",
			r.CreatedAt.Format("2006-01-02 15:04"), r.Cart, r.Outcome, r.Ticks,
			r.Duration.Round(100*time.Millisecond), msg)
	}

	stats, err := store.GetCartStats(
		core.StateCompileFailed.String(),
		core.StateInitFailed.String(),
		core.StateHalted.String(),
	)
	if err != nil {
		return
	}
	if st, ok := stats[cartName]; ok {
		fmt.Println()
		fmt.Printf("Total: %d runs, %d failed, %d ticks\n", st.Runs, st.Failures, st.TotalTicks)
	}
}
