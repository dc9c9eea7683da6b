// Package replay runs a recorded transcript of messages and usage reports
// through a fresh engine, entirely in memory, so transition policy changes
// can be evaluated against real traces.
package replay

import (
	"fmt"

	"github.com/clarityai/clarity/go-engine/internal/config"
	"github.com/clarityai/clarity/go-engine/internal/coordinator"
	"github.com/clarityai/clarity/go-engine/internal/feature"
	"github.com/clarityai/clarity/go-engine/internal/intent"
	"github.com/clarityai/clarity/go-engine/internal/predict"
	"github.com/clarityai/clarity/go-engine/internal/usage"
)

// #region types

// Step kinds understood by the harness.
const (
	StepMessage = "message"
	StepUsage   = "usage"
	StepPredict = "predict"
)

// Interaction is a single recorded step of a transcript.
type Interaction struct {
	Kind         string `json:"kind"`
	Message      string `json:"message,omitempty"`
	Mode         string `json:"mode,omitempty"`
	Feature      string `json:"feature,omitempty"`
	DurationMs   int64  `json:"duration_ms,omitempty"`
	TimeInModeMs int64  `json:"time_in_mode_ms,omitempty"`
}

// StepResult captures the outcome of replaying one interaction.
type StepResult struct {
	Index      int                         `json:"index"`
	Kind       string                      `json:"kind"`
	Mode       feature.ID                  `json:"mode"` // mode after the step
	Transition *coordinator.PendingCommand `json:"transition,omitempty"`
	Detail     string                      `json:"detail,omitempty"`
	Err        error                       `json:"-"`
	ErrMsg     string                      `json:"error,omitempty"`
}

// Summary aggregates the outcome of a replay run.
type Summary struct {
	Steps       int
	Transitions int
	ByTrigger   map[string]int
	FinalMode   feature.ID
	FinalUsage  usage.Summary
}

// #endregion types

// #region replay

// Replay feeds interactions through a fresh engine built from cfg.
// Operates entirely in memory; per-step errors (bad feature names in the
// transcript) are recorded on the step, not fatal.
func Replay(cfg config.Config, interactions []Interaction) ([]StepResult, Summary) {
	tracker := usage.NewTracker(cfg.TransitionLogCap)
	coord := coordinator.New(coordinator.Config{
		IntentThreshold:     cfg.IntentThreshold,
		PredictionThreshold: cfg.PredictionThreshold,
		MinTimeInModeMs:     cfg.MinTimeInModeMs,
		QueueCap:            cfg.CommandQueueCap,
	}, tracker, nil)

	results := make([]StepResult, 0, len(interactions))
	summary := Summary{ByTrigger: make(map[string]int)}

	for i, inter := range interactions {
		res := StepResult{Index: i, Kind: inter.Kind}

		switch inter.Kind {
		case StepMessage:
			mode := coord.State().Mode
			if inter.Mode != "" {
				parsed, err := feature.Parse(inter.Mode)
				if err != nil {
					res.Err = err
					break
				}
				mode = parsed
			}
			class := intent.Classify(inter.Message, mode)
			res.Transition = coord.ApplyIntent(class)
			if class.Suggested() {
				res.Detail = fmt.Sprintf("%s (%.2f)", class.Suggestion, class.Confidence)
			}

		case StepUsage:
			f, err := feature.Parse(inter.Feature)
			if err != nil {
				res.Err = err
				break
			}
			if err := tracker.RecordUsage(f, inter.DurationMs); err != nil {
				res.Err = err
			}

		case StepPredict:
			mode := coord.State().Mode
			pred := predict.PredictNext(mode, inter.TimeInModeMs, tracker.Recent(predict.WindowSize))
			res.Transition = coord.ApplyPrediction(pred, inter.TimeInModeMs)
			res.Detail = pred.Reasoning

		default:
			res.Err = fmt.Errorf("unknown step kind %q", inter.Kind)
		}

		res.Mode = coord.State().Mode
		if res.Err != nil {
			res.ErrMsg = res.Err.Error()
		}
		if res.Transition != nil {
			summary.Transitions++
			trigger := triggerForKind(inter.Kind)
			summary.ByTrigger[trigger]++
		}
		results = append(results, res)
	}

	summary.Steps = len(results)
	summary.FinalMode = coord.State().Mode
	summary.FinalUsage = tracker.Snapshot()
	return results, summary
}

func triggerForKind(kind string) string {
	if kind == StepPredict {
		return string(coordinator.TriggerPrediction)
	}
	return string(coordinator.TriggerIntent)
}

// #endregion replay
