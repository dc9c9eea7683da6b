package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/clarityai/clarity/go-engine/internal/journal"
)

// #region inspect-cmd

func newInspectCmd() *cobra.Command {
	var (
		sessionID string
		last      int
		jsonOut   bool
	)

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show recent transitions and stats from the audit journal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.JournalPath == "" {
				return fmt.Errorf("no journal configured: pass --db or set journal_path")
			}

			jnl, err := journal.Open(cfg.JournalPath)
			if err != nil {
				return err
			}
			defer jnl.Close()

			entries, err := jnl.RecentTransitions(sessionID, last)
			if err != nil {
				return err
			}
			stats, err := jnl.TransitionStats(sessionID)
			if err != nil {
				return err
			}

			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(struct {
					Entries []journal.Entry `json:"entries"`
					Stats   journal.Stats   `json:"stats"`
				}{entries, stats})
			}

			printEntries(entries)
			printStats(stats)
			return nil
		},
	}
	cmd.Flags().StringVar(&sessionID, "session", "", "filter to one session id")
	cmd.Flags().IntVar(&last, "last", 20, "show N most recent transitions")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "output as JSON instead of a table")
	return cmd
}

// #endregion inspect-cmd

// #region print

func printEntries(entries []journal.Entry) {
	if len(entries) == 0 {
		fmt.Println("no transitions recorded")
		return
	}
	fmt.Printf("%-30s %-12s %-24s %-10s %8s %6s\n",
		"TIME", "SESSION", "TRANSITION", "TRIGGER", "DWELL", "CONF")
	for _, e := range entries {
		fmt.Printf("%-30s %-12s %-24s %-10s %7dms %6.2f\n",
			e.CreatedAt.Format(time.RFC3339),
			truncate(e.SessionID, 12),
			fmt.Sprintf("%s -> %s", e.From, e.To),
			e.Trigger,
			e.DurationMs,
			e.Confidence)
	}
}

func printStats(stats journal.Stats) {
	fmt.Printf("\ntotal=%d avg_confidence=%.2f\n", stats.Total, stats.AvgConfidence)
	for _, k := range sortedKeys(stats.ByTrigger) {
		fmt.Printf("  trigger %-10s %d\n", k, stats.ByTrigger[k])
	}
	for _, k := range sortedKeys(stats.ByPair) {
		fmt.Printf("  pair    %-24s %d\n", k, stats.ByPair[k])
	}
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// truncate shortens s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// #endregion print
