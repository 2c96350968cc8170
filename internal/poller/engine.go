package poller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"reviewbot/internal/config"
	"reviewbot/internal/homework"
	"reviewbot/internal/logging"
)

// ErrCyclePanic tags a panic recovered inside a cycle.
var ErrCyclePanic = errors.New("cycle panic")

// Fetcher retrieves the raw review API payload for statuses since from.
type Fetcher interface {
	Fetch(ctx context.Context, from int64) (any, error)
}

// Sender delivers notification text. Implementations never return delivery
// errors; the result only reports whether delivery succeeded.
type Sender interface {
	Notify(ctx context.Context, text string) bool
	NotifyFailure(ctx context.Context, err error) bool
}

// Outcome classifies a successful cycle.
type Outcome string

const (
	OutcomeNotified  Outcome = "notified"
	OutcomeNoChange  Outcome = "no_change"
	OutcomeDuplicate Outcome = "duplicate"
)

// CycleResult describes one successful cycle.
type CycleResult struct {
	ID        string
	Outcome   Outcome
	Message   string
	Delivered bool
	// From is the cursor the fetch used; Cursor is the cursor after the cycle.
	From   int64
	Cursor int64
}

// PollState is the engine's in-memory state.
type PollState struct {
	Cursor      int64
	LastMessage string
	LastFailure string
	Cycles      int64
}

// Engine runs polling cycles.
type Engine struct {
	fetcher    Fetcher
	translator *homework.Translator
	notifier   Sender
	logger     *slog.Logger

	interval     time.Duration
	cursorPolicy string
	reportErrors bool

	now   func() time.Time
	sleep func(context.Context, time.Duration) error
	newID func() string

	state PollState
}

// Option configures optional Engine behavior.
type Option func(*Engine)

// WithClock replaces the wall clock used for the start cursor and cursor
// advancement.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithSleeper replaces the pause between cycles.
func WithSleeper(sleep func(context.Context, time.Duration) error) Option {
	return func(e *Engine) { e.sleep = sleep }
}

// WithIDGenerator replaces the cycle correlation ID source.
func WithIDGenerator(newID func() string) Option {
	return func(e *Engine) { e.newID = newID }
}

// New constructs an engine whose cursor starts at the current time.
func New(cfg *config.Config, fetcher Fetcher, translator *homework.Translator, notifier Sender, logger *slog.Logger, opts ...Option) *Engine {
	e := &Engine{
		fetcher:      fetcher,
		translator:   translator,
		notifier:     notifier,
		logger:       logging.Named(logger, "poller"),
		interval:     cfg.PollInterval(),
		cursorPolicy: cfg.Polling.CursorPolicy,
		reportErrors: cfg.Polling.ReportErrors,
		now:          time.Now,
		sleep:        sleepWithContext,
		newID:        uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.state.Cursor = e.now().Unix()
	return e
}

// State returns a copy of the current poll state.
func (e *Engine) State() PollState {
	return e.state
}

// Run executes cycles until ctx is cancelled. Cycle failures never end the
// loop, and the pause between cycles is unconditional.
func (e *Engine) Run(ctx context.Context) error {
	e.logger.Info("polling started",
		logging.Duration("interval", e.interval),
		logging.String("cursor_policy", e.cursorPolicy),
		logging.Int64("cursor", e.state.Cursor),
		logging.String(logging.FieldEventType, "polling_started"),
	)
	for {
		if ctx.Err() != nil {
			break
		}
		result, err := e.RunCycle(ctx)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			e.handleFailure(logging.WithCycleID(ctx, result.ID), err)
		}
		if err := e.sleep(ctx, e.interval); err != nil {
			break
		}
	}
	e.logger.Info("polling stopped",
		logging.Int64("cycles", e.state.Cycles),
		logging.String(logging.FieldEventType, "polling_stopped"),
	)
	return nil
}

// RunCycle performs one fetch, validate, translate and notify pass without
// the trailing sleep. The cursor only moves when the cycle succeeds.
func (e *Engine) RunCycle(ctx context.Context) (result CycleResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrCyclePanic, r)
		}
	}()

	id := e.newID()
	ctx = logging.WithCycleID(ctx, id)
	logger := logging.WithContext(ctx, e.logger)
	started := e.now()
	e.state.Cycles++
	result = CycleResult{ID: id, From: e.state.Cursor, Cursor: e.state.Cursor}

	raw, err := e.fetcher.Fetch(ctx, e.state.Cursor)
	if err != nil {
		return result, err
	}

	response, err := homework.Validate(raw, logger)
	if err != nil {
		return result, err
	}

	head, ok := response.Head()
	if !ok {
		logger.Info("no change", logging.String(logging.FieldEventType, "no_change"))
		result.Outcome = OutcomeNoChange
		return e.finish(result, response, started), nil
	}

	text, err := e.translator.Translate(head)
	if err != nil {
		return result, err
	}
	if text == "" {
		logger.Info("no change", logging.String(logging.FieldEventType, "no_change"))
		result.Outcome = OutcomeNoChange
		return e.finish(result, response, started), nil
	}

	result.Message = text
	if text == e.state.LastMessage {
		logger.Debug("status unchanged since last message; not resending",
			logging.String(logging.FieldEventType, "duplicate_suppressed"),
		)
		result.Outcome = OutcomeDuplicate
		return e.finish(result, response, started), nil
	}

	result.Delivered = e.notifier.Notify(ctx, text)
	result.Outcome = OutcomeNotified
	// An undelivered message is sent again only if a later fetch still
	// returns the same head item.
	if result.Delivered {
		e.state.LastMessage = text
	}
	return e.finish(result, response, started), nil
}

func (e *Engine) finish(result CycleResult, response homework.APIResponse, started time.Time) CycleResult {
	if e.cursorPolicy == config.CursorAdvance {
		if response.CurrentDate > 0 {
			e.state.Cursor = response.CurrentDate
		} else {
			e.state.Cursor = started.Unix()
		}
	}
	e.state.LastFailure = ""
	result.Cursor = e.state.Cursor
	return result
}

func (e *Engine) handleFailure(ctx context.Context, err error) {
	logger := logging.WithContext(ctx, e.logger)
	kind := homework.KindOf(err)
	if errors.Is(err, ErrCyclePanic) {
		kind = "panic"
	}
	logging.ErrorWithContext(logger, "polling cycle failed", "cycle_failed",
		logging.String(logging.FieldErrorKind, kind),
		logging.Error(err),
		logging.Duration("retry_in", e.interval),
	)
	if !e.reportErrors {
		return
	}
	report := err.Error()
	if report == e.state.LastFailure {
		logger.Debug("failure already reported; not resending",
			logging.String(logging.FieldErrorKind, kind),
			logging.String(logging.FieldEventType, "failure_report_suppressed"),
		)
		return
	}
	e.notifier.NotifyFailure(ctx, err)
	e.state.LastFailure = report
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
