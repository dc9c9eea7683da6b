package coordinator

import (
	"github.com/clarityai/clarity/go-engine/internal/feature"
	"github.com/clarityai/clarity/go-engine/internal/usage"
)

// #region trigger

// Trigger enumerates why a transition fired. The set is closed: every
// accepted transition carries exactly one of these kinds.
type Trigger string

const (
	TriggerIntent     Trigger = "intent"
	TriggerPrediction Trigger = "prediction"
	TriggerManual     Trigger = "manual"
)

// #endregion trigger

// #region ui-state

// UIState is the externally visible snapshot of the mode state machine.
// Readers get a copy; the coordinator is the only writer.
type UIState struct {
	Mode             feature.ID `json:"mode"`
	Prediction       feature.ID `json:"prediction,omitempty"` // empty when no prediction recorded
	Confidence       float64    `json:"confidence"`
	LastTransitionAt int64      `json:"last_transition_at"` // ms since epoch
}

// #endregion ui-state

// #region pending-command

// PendingCommand is a one-shot instruction queued for the frontend poller.
// Consumed and removed in the same poll; at-most-once delivery.
type PendingCommand struct {
	ID            string     `json:"id"`
	Kind          string     `json:"kind"` // always "transition"
	TargetFeature feature.ID `json:"target_feature"`
	Reason        string     `json:"reason"`
	Confidence    float64    `json:"confidence"`
	Timestamp     int64      `json:"timestamp"` // ms since epoch
}

// CommandKindTransition is the only command kind the engine emits.
const CommandKindTransition = "transition"

// #endregion pending-command

// #region config

// Config holds the transition policy thresholds.
type Config struct {
	IntentThreshold     float64 // classifier confidence must exceed this
	PredictionThreshold float64 // predictor confidence must exceed this
	MinTimeInModeMs     int64   // predictions may not fire before this dwell time
	QueueCap            int     // pending command queue bound (drop-oldest)
}

// DefaultConfig returns the reference policy thresholds.
func DefaultConfig() Config {
	return Config{
		IntentThreshold:     0.4,
		PredictionThreshold: 0.6,
		MinTimeInModeMs:     10_000,
		QueueCap:            64,
	}
}

// #endregion config

// #region journal-interface

// Journal receives accepted transitions for durable audit. Implementations
// must tolerate being called once per transition; errors are logged by the
// coordinator and never surfaced to callers.
type Journal interface {
	AppendTransition(ev usage.TransitionEvent, trigger Trigger, commandID string) error
}

// #endregion journal-interface
