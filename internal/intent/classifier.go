// Package intent maps free-text chat messages to a suggested UI mode via
// keyword heuristics. No model call.
package intent

import (
	"fmt"
	"strings"

	"github.com/clarityai/clarity/go-engine/internal/feature"
)

// #region keywords

// Multi-word phrases count like any other entry: a match is any substring
// occurrence in the lowercased message. "sequence" appears in both sets on
// purpose; the strictly-greater storyboard tie-break below resolves it.
var timelineKeywords = []string{
	"timeline", "edit", "cut", "trim", "split", "clips", "precision",
	"frame", "second", "duration", "sync", "audio", "video", "sequence",
	"edit video", "cut clip", "trim video", "precise editing",
}

var storyboardKeywords = []string{
	"storyboard", "scene", "story", "flow", "sequence", "plan",
	"narrative", "shots", "angle", "composition",
	"story flow", "plan story", "organize scenes", "story planning",
}

// #endregion keywords

// #region overrides

// Exact-phrase overrides trump keyword scoring unconditionally.
var timelineOverrides = []string{"switch to timeline", "timeline editor"}
var storyboardOverrides = []string{"switch to storyboard", "storyboard editor"}

// #endregion overrides

// #region constants

const (
	// matchWeight is each keyword hit's confidence contribution.
	matchWeight = 0.3
	// maxKeywordConfidence caps keyword-derived confidence below the
	// override confidence.
	maxKeywordConfidence = 0.9
	// overrideConfidence is assigned to exact-phrase override matches.
	overrideConfidence = 0.95
)

// #endregion constants

// #region result

// Result is the classification outcome for one message.
type Result struct {
	Suggestion feature.ID // empty when nothing matched
	Confidence float64
	Reason     string
}

// Suggested reports whether the classifier proposed a mode.
func (r Result) Suggested() bool {
	return r.Suggestion != ""
}

// #endregion result

// #region classify

// Classify scans message against both keyword sets and the override phrases.
// Pure function: identical inputs always yield identical results.
func Classify(message string, currentMode feature.ID) Result {
	lower := strings.ToLower(message)

	timelineMatches := countMatches(lower, timelineKeywords)
	storyboardMatches := countMatches(lower, storyboardKeywords)

	timelineConf := keywordConfidence(timelineMatches)
	storyboardConf := keywordConfidence(storyboardMatches)

	var res Result
	if timelineMatches > 0 && currentMode != feature.Timeline {
		res = Result{
			Suggestion: feature.Timeline,
			Confidence: timelineConf,
			Reason:     fmt.Sprintf("Matched %d timeline keywords", timelineMatches),
		}
	}
	// Storyboard wins only on strictly greater confidence.
	if storyboardConf > timelineConf && currentMode != feature.Storyboard {
		res = Result{
			Suggestion: feature.Storyboard,
			Confidence: storyboardConf,
			Reason:     fmt.Sprintf("Matched %d storyboard keywords", storyboardMatches),
		}
	}

	switch {
	case containsAny(lower, timelineOverrides):
		res = Result{
			Suggestion: feature.Timeline,
			Confidence: overrideConfidence,
			Reason:     "Direct request for timeline editor",
		}
	case containsAny(lower, storyboardOverrides):
		res = Result{
			Suggestion: feature.Storyboard,
			Confidence: overrideConfidence,
			Reason:     "Direct request for storyboard editor",
		}
	}

	return res
}

// #endregion classify

// #region helpers

func countMatches(lower string, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			n++
		}
	}
	return n
}

func keywordConfidence(matches int) float64 {
	conf := float64(matches) * matchWeight
	if conf > maxKeywordConfidence {
		conf = maxKeywordConfidence
	}
	return conf
}

func containsAny(lower string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// #endregion helpers
