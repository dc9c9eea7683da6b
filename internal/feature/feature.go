// Package feature defines the closed set of UI modes the engine can drive.
package feature

import (
	"errors"
	"fmt"
)

// #region feature-id

// ID identifies one of the three UI modes.
type ID string

const (
	Chat       ID = "chat"
	Timeline   ID = "timeline"
	Storyboard ID = "storyboard"
)

// #endregion feature-id

// #region errors

// ErrUnknownFeature is returned when a string does not name a known UI mode.
var ErrUnknownFeature = errors.New("unknown feature")

// #endregion errors

// #region parse

// Parse validates s against the known mode set.
func Parse(s string) (ID, error) {
	f := ID(s)
	if !f.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownFeature, s)
	}
	return f, nil
}

// Valid reports whether f names a known mode.
func (f ID) Valid() bool {
	switch f {
	case Chat, Timeline, Storyboard:
		return true
	}
	return false
}

// All returns the known modes in canonical order.
func All() []ID {
	return []ID{Chat, Timeline, Storyboard}
}

// #endregion parse
