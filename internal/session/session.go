// Package session gives every chat session a single owning goroutine that
// serializes all engine operations, eliminating read-modify-write races on
// the session's usage profile and UI state.
package session

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/clarityai/clarity/go-engine/internal/config"
	"github.com/clarityai/clarity/go-engine/internal/coordinator"
	"github.com/clarityai/clarity/go-engine/internal/feature"
	"github.com/clarityai/clarity/go-engine/internal/intent"
	"github.com/clarityai/clarity/go-engine/internal/journal"
	"github.com/clarityai/clarity/go-engine/internal/predict"
	"github.com/clarityai/clarity/go-engine/internal/usage"
)

// #region journal-sink

// journalSink binds a session id to the shared journal so the coordinator
// can stay session-agnostic.
type journalSink struct {
	j         *journal.Journal
	sessionID string
}

func (s *journalSink) AppendTransition(ev usage.TransitionEvent, trigger coordinator.Trigger, commandID string) error {
	return s.j.AppendEvent(s.sessionID, ev, string(trigger), commandID)
}

// #endregion journal-sink

// #region session-struct

// Session owns one user's engine state. All public methods funnel through
// the actor channel; they are safe for concurrent use.
type Session struct {
	id      string
	cfg     config.Config
	log     *zap.Logger
	jnl     *journal.Journal
	tracker *usage.Tracker
	coord   *coordinator.Coordinator

	requests  chan request
	done      chan struct{}
	loopDone  chan struct{}
	closeOnce sync.Once
}

// #endregion session-struct

// #region constructor

// New creates a session and starts its actor goroutine. jnl and logger may
// be nil.
func New(id string, cfg config.Config, jnl *journal.Journal, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("session", id))

	tracker := usage.NewTracker(cfg.TransitionLogCap)
	coord := coordinator.New(coordinator.Config{
		IntentThreshold:     cfg.IntentThreshold,
		PredictionThreshold: cfg.PredictionThreshold,
		MinTimeInModeMs:     cfg.MinTimeInModeMs,
		QueueCap:            cfg.CommandQueueCap,
	}, tracker, logger)
	if jnl != nil {
		coord.AttachJournal(&journalSink{j: jnl, sessionID: id})
	}

	s := &Session{
		id:       id,
		cfg:      cfg,
		log:      logger,
		jnl:      jnl,
		tracker:  tracker,
		coord:    coord,
		requests: make(chan request),
		done:     make(chan struct{}),
		loopDone: make(chan struct{}),
	}
	go s.loop()
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// #endregion constructor

// #region actor-loop

func (s *Session) loop() {
	defer close(s.loopDone)
	for {
		select {
		case req := <-s.requests:
			req.reply <- s.handle(req)
		case <-s.done:
			return
		}
	}
}

// handle dispatches one request. Runs only on the actor goroutine.
func (s *Session) handle(req request) response {
	switch req.kind {
	case opSubmit:
		return s.handleSubmit(req)
	case opRecordUsage:
		return s.handleRecordUsage(req)
	case opPredict:
		return s.handlePredict(req)
	case opPoll:
		return response{commands: s.coord.PollCommands()}
	case opRequest:
		_, err := s.coord.Request(req.target, req.reason)
		return response{state: s.coord.State(), err: err}
	case opSnapshot:
		return response{state: s.coord.State(), summary: s.tracker.Snapshot()}
	}
	return response{}
}

func (s *Session) handleSubmit(req request) response {
	mode := req.mode
	if mode == "" {
		mode = s.coord.State().Mode
	} else if !mode.Valid() {
		return response{err: invalidFeature(mode)}
	}

	res := intent.Classify(req.message, mode)
	s.log.Debug("classify",
		zap.String("mode", string(mode)),
		zap.String("suggestion", string(res.Suggestion)),
		zap.Float64("confidence", res.Confidence))

	cmd := s.coord.ApplyIntent(res)
	return response{classification: ClassificationResult{
		Intent:     res,
		Transition: cmd,
		Mode:       s.coord.State().Mode,
	}}
}

func (s *Session) handleRecordUsage(req request) response {
	if err := s.tracker.RecordUsage(req.target, req.durationMs); err != nil {
		return response{err: err}
	}
	summary := s.tracker.Snapshot()
	if s.jnl != nil {
		if err := s.jnl.SnapshotUsage(s.id, summary, req.usageContext); err != nil {
			s.log.Warn("snapshot usage", zap.Error(err))
		}
	}
	return response{summary: summary}
}

func (s *Session) handlePredict(req request) response {
	mode := req.mode
	if mode == "" {
		mode = s.coord.State().Mode
	} else if !mode.Valid() {
		return response{err: invalidFeature(mode)}
	}

	res := predict.PredictNext(mode, req.timeInModeMs, s.tracker.Recent(predict.WindowSize))
	cmd := s.coord.ApplyPrediction(res, req.timeInModeMs)
	return response{prediction: PredictionResult{
		Prediction:    res,
		ShouldSuggest: res.Confidence > s.cfg.PredictionThreshold,
		Transition:    cmd,
	}}
}

// #endregion actor-loop

// #region operations

// SubmitMessage classifies a chat message and, when confident enough,
// transitions the UI mode. currentMode == "" means "use the engine's mode".
func (s *Session) SubmitMessage(ctx context.Context, message string, currentMode feature.ID) (ClassificationResult, error) {
	resp, err := s.send(ctx, request{kind: opSubmit, message: message, mode: currentMode})
	if err != nil {
		return ClassificationResult{}, err
	}
	return resp.classification, resp.err
}

// RecordFeatureUsage folds one dwell observation into the usage profile.
// usageCtx is free-form caller metadata persisted with the journal snapshot;
// nil is fine.
func (s *Session) RecordFeatureUsage(ctx context.Context, f feature.ID, durationMs int64, usageCtx map[string]string) (usage.Summary, error) {
	resp, err := s.send(ctx, request{kind: opRecordUsage, target: f, durationMs: durationMs, usageContext: usageCtx})
	if err != nil {
		return usage.Summary{}, err
	}
	return resp.summary, resp.err
}

// PredictNextFeature consults the transition log for a next-mode suggestion
// and auto-applies it when the prediction policy allows.
func (s *Session) PredictNextFeature(ctx context.Context, currentMode feature.ID, timeInModeMs int64) (PredictionResult, error) {
	resp, err := s.send(ctx, request{kind: opPredict, mode: currentMode, timeInModeMs: timeInModeMs})
	if err != nil {
		return PredictionResult{}, err
	}
	return resp.prediction, resp.err
}

// PollPendingCommands drains the pending command queue. At-most-once: a
// command is returned by exactly one poll.
func (s *Session) PollPendingCommands(ctx context.Context) ([]coordinator.PendingCommand, error) {
	resp, err := s.send(ctx, request{kind: opPoll})
	if err != nil {
		return nil, err
	}
	return resp.commands, resp.err
}

// RequestTransition performs an explicit mode change.
func (s *Session) RequestTransition(ctx context.Context, target feature.ID, reason string) (coordinator.UIState, error) {
	resp, err := s.send(ctx, request{kind: opRequest, target: target, reason: reason})
	if err != nil {
		return coordinator.UIState{}, err
	}
	return resp.state, resp.err
}

// Snapshot returns the current UI state and usage profile.
func (s *Session) Snapshot(ctx context.Context) (coordinator.UIState, usage.Summary, error) {
	resp, err := s.send(ctx, request{kind: opSnapshot})
	if err != nil {
		return coordinator.UIState{}, usage.Summary{}, err
	}
	return resp.state, resp.summary, resp.err
}

// #endregion operations

// #region plumbing

func (s *Session) send(ctx context.Context, req request) (response, error) {
	req.reply = make(chan response, 1)
	select {
	case s.requests <- req:
	case <-s.done:
		return response{}, ErrSessionClosed
	case <-ctx.Done():
		return response{}, ctx.Err()
	}
	select {
	case resp := <-req.reply:
		return resp, nil
	case <-ctx.Done():
		return response{}, ctx.Err()
	}
}

// Close stops the actor. Safe to call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() { close(s.done) })
	<-s.loopDone
}

func invalidFeature(f feature.ID) error {
	_, err := feature.Parse(string(f))
	return err
}

// #endregion plumbing
