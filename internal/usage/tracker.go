// Package usage maintains EMA-smoothed per-feature usage percentages and a
// bounded log of feature-transition events.
package usage

import (
	"errors"
	"fmt"
	"time"

	"github.com/clarityai/clarity/go-engine/internal/feature"
)

// #region constants

const (
	// decayFactor blends the prior percentage with each new observation.
	decayFactor = 0.9
	// weightScale converts a capped duration weight into percentage points.
	weightScale = 10.0
	// fullWeightMs is the duration at which an observation carries full weight.
	fullWeightMs = 60_000

	// DefaultLogCap bounds the transition log. The log is a ring: once full,
	// the oldest entry is dropped on append.
	DefaultLogCap = 256
)

// #endregion constants

// #region errors

// ErrNegativeDuration is returned when a caller reports a negative duration.
var ErrNegativeDuration = errors.New("negative duration")

// #endregion errors

// #region tracker-struct

// Tracker holds one session's usage profile. It is not safe for concurrent
// use; the owning session actor serializes all calls.
type Tracker struct {
	percent      map[feature.ID]float64
	sessionCount int
	log          []TransitionEvent
	logCap       int
	now          func() time.Time
}

// #endregion tracker-struct

// #region constructor

// NewTracker creates a tracker with the default 33/33/34 profile split.
// logCap <= 0 selects DefaultLogCap.
func NewTracker(logCap int) *Tracker {
	if logCap <= 0 {
		logCap = DefaultLogCap
	}
	return &Tracker{
		percent: map[feature.ID]float64{
			feature.Chat:       33,
			feature.Timeline:   33,
			feature.Storyboard: 34,
		},
		logCap: logCap,
		now:    time.Now,
	}
}

// #endregion constructor

// #region record-usage

// RecordUsage folds one observation into the profile. The EMA rule keeps
// every percentage in [0, 100]: a full minute in a feature contributes at
// most 10 points before decay, and the result is clamped at 100.
func (t *Tracker) RecordUsage(f feature.ID, durationMs int64) error {
	if !f.Valid() {
		return fmt.Errorf("%w: %q", feature.ErrUnknownFeature, string(f))
	}
	if durationMs < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeDuration, durationMs)
	}

	w := float64(durationMs) / fullWeightMs
	if w > 1 {
		w = 1
	}
	next := t.percent[f]*decayFactor + w*weightScale
	if next > 100 {
		next = 100
	}
	t.percent[f] = next
	t.sessionCount++
	return nil
}

// #endregion record-usage

// #region record-transition

// RecordTransition appends one event to the bounded log.
func (t *Tracker) RecordTransition(from, to feature.ID, durationMs int64, confidence float64, ctx map[string]string) error {
	if !from.Valid() {
		return fmt.Errorf("%w: from %q", feature.ErrUnknownFeature, string(from))
	}
	if !to.Valid() {
		return fmt.Errorf("%w: to %q", feature.ErrUnknownFeature, string(to))
	}
	if durationMs < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeDuration, durationMs)
	}

	ev := TransitionEvent{
		From:       from,
		To:         to,
		Timestamp:  t.now().UnixMilli(),
		DurationMs: durationMs,
		Confidence: confidence,
		Context:    copyContext(ctx),
	}
	t.log = append(t.log, ev)
	if len(t.log) > t.logCap {
		// Drop the oldest entry; shift rather than re-slice so the backing
		// array does not pin evicted events.
		copy(t.log, t.log[1:])
		t.log = t.log[:t.logCap]
	}
	return nil
}

// #endregion record-transition

// #region accessors

// Recent returns up to n of the most recent transitions, oldest first.
// The returned slice is a copy.
func (t *Tracker) Recent(n int) []TransitionEvent {
	if n <= 0 || len(t.log) == 0 {
		return nil
	}
	if n > len(t.log) {
		n = len(t.log)
	}
	out := make([]TransitionEvent, n)
	copy(out, t.log[len(t.log)-n:])
	return out
}

// Snapshot copies the profile out of the tracker.
func (t *Tracker) Snapshot() Summary {
	pct := make(map[feature.ID]float64, len(t.percent))
	var top feature.ID
	best := -1.0
	for _, f := range feature.All() {
		v := t.percent[f]
		pct[f] = v
		if v > best {
			best = v
			top = f
		}
	}
	return Summary{
		Percent:      pct,
		SessionCount: t.sessionCount,
		Transitions:  len(t.log),
		TopFeature:   top,
	}
}

// #endregion accessors

// #region helpers

func copyContext(ctx map[string]string) map[string]string {
	if len(ctx) == 0 {
		return nil
	}
	out := make(map[string]string, len(ctx))
	for k, v := range ctx {
		out[k] = v
	}
	return out
}

// #endregion helpers
