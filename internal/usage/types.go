package usage

import (
	"github.com/clarityai/clarity/go-engine/internal/feature"
)

// #region transition-event

// TransitionEvent is an immutable record of one accepted mode change.
type TransitionEvent struct {
	From       feature.ID
	To         feature.ID
	Timestamp  int64 // ms since epoch
	DurationMs int64 // time spent in From before switching
	Confidence float64
	Context    map[string]string
}

// #endregion transition-event

// #region summary

// Summary is a copy-out snapshot of a tracker's profile.
type Summary struct {
	Percent      map[feature.ID]float64
	SessionCount int
	Transitions  int
	TopFeature   feature.ID
}

// #endregion summary
