package session

import (
	"errors"

	"github.com/clarityai/clarity/go-engine/internal/coordinator"
	"github.com/clarityai/clarity/go-engine/internal/feature"
	"github.com/clarityai/clarity/go-engine/internal/intent"
	"github.com/clarityai/clarity/go-engine/internal/predict"
	"github.com/clarityai/clarity/go-engine/internal/usage"
)

// #region errors

// ErrSessionClosed is returned for operations on a closed session.
var ErrSessionClosed = errors.New("session closed")

// #endregion errors

// #region op-kind

// opKind enumerates the operations a session actor dispatches. The set is
// closed; the actor loop switches over it once per request.
type opKind int

const (
	opSubmit opKind = iota
	opRecordUsage
	opPredict
	opPoll
	opRequest
	opSnapshot
)

// request carries one operation and its parameters into the actor.
type request struct {
	kind opKind

	message      string
	mode         feature.ID
	target       feature.ID
	reason       string
	durationMs   int64
	timeInModeMs int64
	usageContext map[string]string

	reply chan response
}

// response carries an operation's result back out of the actor.
type response struct {
	classification ClassificationResult
	prediction     PredictionResult
	summary        usage.Summary
	commands       []coordinator.PendingCommand
	state          coordinator.UIState
	err            error
}

// #endregion op-kind

// #region results

// ClassificationResult reports what a submitted message did.
type ClassificationResult struct {
	Intent     intent.Result
	Transition *coordinator.PendingCommand // non-nil when the message changed the mode
	Mode       feature.ID                  // mode after processing
}

// PredictionResult wraps a predictor result with the suggestion rule applied.
type PredictionResult struct {
	Prediction    predict.Result
	ShouldSuggest bool
	Transition    *coordinator.PendingCommand // non-nil when the prediction was auto-applied
}

// #endregion results
