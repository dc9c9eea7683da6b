// Package predict suggests the next UI mode from recent transition history.
package predict

import (
	"fmt"

	"github.com/clarityai/clarity/go-engine/internal/feature"
	"github.com/clarityai/clarity/go-engine/internal/usage"
)

// #region constants

// WindowSize is how many of the most recent transitions the predictor consults.
const WindowSize = 20

// SuggestThreshold is the confidence above which a prediction is worth
// surfacing to the user.
const SuggestThreshold = 0.6

// #endregion constants

// #region result

// Result is the predictor's best guess for the next mode.
type Result struct {
	Feature    feature.ID
	Confidence float64
	Reasoning  string
}

// ShouldSuggest reports whether the prediction clears the suggestion bar.
func (r Result) ShouldSuggest() bool {
	return r.Confidence > SuggestThreshold
}

// #endregion result

// #region pair-stat

// pairStat accumulates per-(from,to) statistics over the window.
// avgDuration uses the recurrence avg = (avg + d) / 2 from zero, which
// overweights recent samples. That recency bias is the contract here, not
// an arithmetic mean.
type pairStat struct {
	from        feature.ID
	to          feature.ID
	count       int
	avgDuration float64
}

// #endregion pair-stat

// #region predict-next

// PredictNext scores candidate next features by transition frequency and a
// duration comparison against time already spent in the current mode.
// Pure function over the supplied log; never errors. An empty or
// non-matching log degrades to the chat default.
func PredictNext(currentMode feature.ID, timeInModeMs int64, log []usage.TransitionEvent) Result {
	window := log
	if len(window) > WindowSize {
		window = window[len(window)-WindowSize:]
	}
	if len(window) == 0 {
		return defaultResult()
	}

	// Group by (from, to), preserving first-encounter order so score ties
	// resolve deterministically in favor of the earlier pair.
	index := make(map[[2]feature.ID]*pairStat)
	order := make([]*pairStat, 0, len(window))
	for _, ev := range window {
		key := [2]feature.ID{ev.From, ev.To}
		st, ok := index[key]
		if !ok {
			st = &pairStat{from: ev.From, to: ev.To}
			index[key] = st
			order = append(order, st)
		}
		st.count++
		st.avgDuration = (st.avgDuration + float64(ev.DurationMs)) / 2
	}

	recentCount := len(window)
	var best *pairStat
	bestScore := 0.0
	for _, st := range order {
		if st.from != currentMode {
			continue
		}
		mult := 0.8
		if float64(timeInModeMs) > st.avgDuration {
			mult = 1.2
		}
		score := float64(st.count) / float64(recentCount) * mult
		if best == nil || score > bestScore {
			best = st
			bestScore = score
		}
	}
	if best == nil {
		return defaultResult()
	}

	confidence := bestScore
	if confidence > 1 {
		confidence = 1
	}
	return Result{
		Feature:    best.to,
		Confidence: confidence,
		Reasoning: fmt.Sprintf("%d of last %d transitions went %s->%s (blended duration %.0fms)",
			best.count, recentCount, best.from, best.to, best.avgDuration),
	}
}

func defaultResult() Result {
	return Result{Feature: feature.Chat, Confidence: 0, Reasoning: "default"}
}

// #endregion predict-next
