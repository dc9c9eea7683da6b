// Package coordinator owns the UI mode state machine: it applies accepted
// intent and prediction suggestions, records transition events, and queues
// one-shot commands for the frontend poller.
package coordinator

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/clarityai/clarity/go-engine/internal/feature"
	"github.com/clarityai/clarity/go-engine/internal/intent"
	"github.com/clarityai/clarity/go-engine/internal/predict"
	"github.com/clarityai/clarity/go-engine/internal/usage"
)

// #region coordinator-struct

// Coordinator mutates shared UI state for one session. Not safe for
// concurrent use; the owning session actor serializes all calls.
type Coordinator struct {
	cfg     Config
	tracker *usage.Tracker
	journal Journal // nil = audit disabled
	log     *zap.Logger

	state   UIState
	pending []PendingCommand
	now     func() time.Time
}

// #endregion coordinator-struct

// #region constructor

// New creates a coordinator starting in chat mode. logger may be nil.
func New(cfg Config, tracker *usage.Tracker, logger *zap.Logger) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.QueueCap <= 0 {
		cfg.QueueCap = DefaultConfig().QueueCap
	}
	c := &Coordinator{
		cfg:     cfg,
		tracker: tracker,
		log:     logger,
		now:     time.Now,
	}
	c.state = UIState{
		Mode:             feature.Chat,
		LastTransitionAt: c.now().UnixMilli(),
	}
	return c
}

// AttachJournal wires a durable audit sink. Pass nil to detach.
func (c *Coordinator) AttachJournal(j Journal) {
	c.journal = j
}

// #endregion constructor

// #region state

// State returns a copy of the current UI state.
func (c *Coordinator) State() UIState {
	return c.state
}

// #endregion state

// #region apply-intent

// ApplyIntent acts on a classification result. A transition fires only when
// the classifier suggested a mode with confidence above the intent
// threshold; the returned command is nil otherwise.
func (c *Coordinator) ApplyIntent(res intent.Result) *PendingCommand {
	if !res.Suggested() || res.Confidence <= c.cfg.IntentThreshold {
		return nil
	}
	return c.transition(res.Suggestion, res.Confidence, res.Reason, TriggerIntent)
}

// #endregion apply-intent

// #region apply-prediction

// ApplyPrediction records the prediction on the UI state and fires a
// transition when the predictor clears its threshold and the session has
// dwelt in the current mode long enough.
func (c *Coordinator) ApplyPrediction(res predict.Result, timeInModeMs int64) *PendingCommand {
	c.state.Prediction = res.Feature
	c.state.Confidence = res.Confidence

	if res.Confidence <= c.cfg.PredictionThreshold {
		return nil
	}
	if timeInModeMs < c.cfg.MinTimeInModeMs {
		return nil
	}
	return c.transition(res.Feature, res.Confidence, res.Reasoning, TriggerPrediction)
}

// #endregion apply-prediction

// #region request

// Request performs a manual transition to target. Self-transitions are
// still guarded: requesting the current mode is a no-op.
func (c *Coordinator) Request(target feature.ID, reason string) (*PendingCommand, error) {
	if !target.Valid() {
		return nil, fmt.Errorf("%w: %q", feature.ErrUnknownFeature, string(target))
	}
	if reason == "" {
		reason = "manual request"
	}
	return c.transition(target, 1, reason, TriggerManual), nil
}

// #endregion request

// #region transition

// transition is the single path through which the mode changes.
func (c *Coordinator) transition(target feature.ID, confidence float64, reason string, trigger Trigger) *PendingCommand {
	if target == c.state.Mode {
		// Self-transition guard: no event, no command, no state change.
		return nil
	}

	nowMs := c.now().UnixMilli()
	durationMs := nowMs - c.state.LastTransitionAt
	if durationMs < 0 {
		durationMs = 0
	}
	from := c.state.Mode

	ctx := map[string]string{
		"trigger":       string(trigger),
		"previous_mode": string(from),
		"hour":          strconv.Itoa(c.now().Hour()),
	}
	if err := c.tracker.RecordTransition(from, target, durationMs, confidence, ctx); err != nil {
		// Only reachable with an invalid target, which callers validate.
		c.log.Warn("record transition", zap.Error(err))
		return nil
	}

	cmd := PendingCommand{
		ID:            "transition-" + uuid.New().String(),
		Kind:          CommandKindTransition,
		TargetFeature: target,
		Reason:        reason,
		Confidence:    confidence,
		Timestamp:     nowMs,
	}
	c.pending = append(c.pending, cmd)
	if len(c.pending) > c.cfg.QueueCap {
		c.pending = c.pending[len(c.pending)-c.cfg.QueueCap:]
	}

	c.state.Mode = target
	c.state.LastTransitionAt = nowMs

	if c.journal != nil {
		ev := usage.TransitionEvent{
			From:       from,
			To:         target,
			Timestamp:  nowMs,
			DurationMs: durationMs,
			Confidence: confidence,
			Context:    ctx,
		}
		if err := c.journal.AppendTransition(ev, trigger, cmd.ID); err != nil {
			c.log.Warn("journal transition", zap.Error(err))
		}
	}

	c.log.Info("transition",
		zap.String("from", string(from)),
		zap.String("to", string(target)),
		zap.String("trigger", string(trigger)),
		zap.Float64("confidence", confidence),
		zap.Int64("duration_ms", durationMs))

	return &cmd
}

// #endregion transition

// #region poll

// PollCommands drains the pending queue. A second consecutive poll with no
// new transitions in between returns nil.
func (c *Coordinator) PollCommands() []PendingCommand {
	if len(c.pending) == 0 {
		return nil
	}
	out := c.pending
	c.pending = nil
	return out
}

// #endregion poll
