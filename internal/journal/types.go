package journal

import (
	"time"

	"github.com/clarityai/clarity/go-engine/internal/feature"
)

// #region entry

// Entry is one persisted transition row.
type Entry struct {
	CommandID   string
	SessionID   string
	From        feature.ID
	To          feature.ID
	Trigger     string
	DurationMs  int64
	Confidence  float64
	ContextJSON string
	CreatedAt   time.Time
}

// #endregion entry

// #region usage-snapshot

// UsageSnapshot is one persisted usage profile row.
type UsageSnapshot struct {
	SessionID     string
	ChatPct       float64
	TimelinePct   float64
	StoryboardPct float64
	SessionCount  int
	ContextJSON   string
	CreatedAt     time.Time
}

// #endregion usage-snapshot

// #region stats

// Stats aggregates journal contents for inspection.
type Stats struct {
	Total         int
	ByTrigger     map[string]int
	ByPair        map[string]int
	AvgConfidence float64
}

// #endregion stats
