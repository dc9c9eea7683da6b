package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/clarityai/clarity/go-engine/internal/feature"
	"github.com/clarityai/clarity/go-engine/internal/journal"
	"github.com/clarityai/clarity/go-engine/internal/session"
)

// #region repl-cmd

func newReplCmd() *cobra.Command {
	var sessionID string

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Interactive engine session",
		Long: `Reads lines from stdin. Plain text is submitted as a chat message.
Directives:
  :use <feature> <ms>     record feature usage
  :predict <ms>           ask for a next-feature prediction
  :goto <feature>         manual transition
  :poll                   drain pending commands
  :state                  show UI state and usage profile
  quit | exit             leave`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer logger.Sync()

			var jnl *journal.Journal
			if cfg.JournalPath != "" {
				jnl, err = journal.Open(cfg.JournalPath)
				if err != nil {
					return err
				}
				defer jnl.Close()
			}

			mgr := session.NewManager(cfg, jnl, logger)
			defer mgr.Close()
			sess := mgr.Get(sessionID)

			fmt.Printf("ClarityAI engine ready. Session: %s\n", sess.ID())
			if cfg.JournalPath != "" {
				fmt.Printf("  journal: %s\n", cfg.JournalPath)
			}
			fmt.Println("Type a message (or 'quit' to exit, ':help' for directives):")

			return runRepl(cmd.Context(), sess)
		},
	}
	cmd.Flags().StringVar(&sessionID, "session", "", "session id (default: generated)")
	return cmd
}

// #endregion repl-cmd

// #region repl-loop

func runRepl(ctx context.Context, sess *session.Session) error {
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			return nil
		}
		if strings.HasPrefix(line, ":") {
			if err := runDirective(ctx, sess, line); err != nil {
				fmt.Printf("  error: %v\n", err)
			}
			continue
		}

		res, err := sess.SubmitMessage(ctx, line, "")
		if err != nil {
			fmt.Printf("  error: %v\n", err)
			continue
		}
		if res.Intent.Suggested() {
			fmt.Printf("  intent: %s (%.2f) %s\n", res.Intent.Suggestion, res.Intent.Confidence, res.Intent.Reason)
		} else {
			fmt.Println("  intent: none")
		}
		if res.Transition != nil {
			fmt.Printf("  transition -> %s [%s]\n", res.Transition.TargetFeature, res.Transition.ID)
		}
	}
}

func runDirective(ctx context.Context, sess *session.Session, line string) error {
	fields := strings.Fields(line)
	switch fields[0] {
	case ":help":
		fmt.Println("  :use <feature> <ms> | :predict <ms> | :goto <feature> | :poll | :state")
		return nil

	case ":use":
		if len(fields) != 3 {
			return fmt.Errorf("usage: :use <feature> <ms>")
		}
		f, err := feature.Parse(fields[1])
		if err != nil {
			return err
		}
		ms, err := strconv.ParseInt(fields[2], 10, 64)
		if err != nil {
			return fmt.Errorf("bad duration: %w", err)
		}
		sum, err := sess.RecordFeatureUsage(ctx, f, ms, map[string]string{"source": "repl"})
		if err != nil {
			return err
		}
		fmt.Printf("  usage: chat=%.1f timeline=%.1f storyboard=%.1f (top=%s)\n",
			sum.Percent[feature.Chat], sum.Percent[feature.Timeline],
			sum.Percent[feature.Storyboard], sum.TopFeature)
		return nil

	case ":predict":
		if len(fields) != 2 {
			return fmt.Errorf("usage: :predict <ms>")
		}
		ms, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return fmt.Errorf("bad time-in-mode: %w", err)
		}
		pred, err := sess.PredictNextFeature(ctx, "", ms)
		if err != nil {
			return err
		}
		fmt.Printf("  predict: %s (%.2f) suggest=%v %s\n",
			pred.Prediction.Feature, pred.Prediction.Confidence, pred.ShouldSuggest, pred.Prediction.Reasoning)
		if pred.Transition != nil {
			fmt.Printf("  transition -> %s [%s]\n", pred.Transition.TargetFeature, pred.Transition.ID)
		}
		return nil

	case ":goto":
		if len(fields) != 2 {
			return fmt.Errorf("usage: :goto <feature>")
		}
		f, err := feature.Parse(fields[1])
		if err != nil {
			return err
		}
		st, err := sess.RequestTransition(ctx, f, "repl directive")
		if err != nil {
			return err
		}
		fmt.Printf("  mode: %s\n", st.Mode)
		return nil

	case ":poll":
		cmds, err := sess.PollPendingCommands(ctx)
		if err != nil {
			return err
		}
		if len(cmds) == 0 {
			fmt.Println("  no pending commands")
			return nil
		}
		for _, c := range cmds {
			fmt.Printf("  %s -> %s (%.2f) %s\n", c.ID, c.TargetFeature, c.Confidence, c.Reason)
		}
		return nil

	case ":state":
		st, sum, err := sess.Snapshot(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("  mode=%s prediction=%s confidence=%.2f\n", st.Mode, st.Prediction, st.Confidence)
		fmt.Printf("  usage: chat=%.1f timeline=%.1f storyboard=%.1f observations=%d transitions=%d\n",
			sum.Percent[feature.Chat], sum.Percent[feature.Timeline],
			sum.Percent[feature.Storyboard], sum.SessionCount, sum.Transitions)
		return nil
	}
	return fmt.Errorf("unknown directive %s", fields[0])
}

// #endregion repl-loop
