package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/clarityai/clarity/go-engine/internal/replay"
)

// #region replay-cmd

func newReplayCmd() *cobra.Command {
	var (
		file    string
		jsonOut bool
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Run a JSONL transcript through a fresh engine",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			interactions, err := replay.LoadTranscript(file)
			if err != nil {
				return err
			}

			results, summary := replay.Replay(cfg, interactions)

			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(struct {
					Results []replay.StepResult `json:"results"`
					Summary replay.Summary      `json:"summary"`
				}{results, summary})
			}

			if verbose {
				for _, r := range results {
					line := fmt.Sprintf("step %-3d %-8s mode=%-10s", r.Index, r.Kind, r.Mode)
					if r.Transition != nil {
						line += fmt.Sprintf(" -> %s", r.Transition.TargetFeature)
					}
					if r.Detail != "" {
						line += " " + r.Detail
					}
					if r.Err != nil {
						line += fmt.Sprintf(" error=%v", r.Err)
					}
					fmt.Println(line)
				}
				fmt.Println()
			}

			fmt.Printf("steps=%d transitions=%d final_mode=%s\n",
				summary.Steps, summary.Transitions, summary.FinalMode)
			for _, k := range sortedKeys(summary.ByTrigger) {
				fmt.Printf("  trigger %-10s %d\n", k, summary.ByTrigger[k])
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "path to JSONL transcript (required)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "output as JSON")
	cmd.Flags().BoolVar(&verbose, "steps", false, "print per-step results")
	cmd.MarkFlagRequired("file")
	return cmd
}

// #endregion replay-cmd
