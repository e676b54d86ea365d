// Package engine is the single-writer pipeline that turns behavior events
// into snapshots, predictions, compositions, and state transitions. One
// goroutine owns every mutable structure; events, timer ticks, and fetch
// completions all funnel through the same work channel, so correctness
// rests on cooperative scheduling rather than locks.
package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/charlyptai/adaptive-interface/go-engine/internal/audit"
	"github.com/charlyptai/adaptive-interface/go-engine/internal/compose"
	"github.com/charlyptai/adaptive-interface/go-engine/internal/events"
	"github.com/charlyptai/adaptive-interface/go-engine/internal/fuse"
	"github.com/charlyptai/adaptive-interface/go-engine/internal/persist"
	"github.com/charlyptai/adaptive-interface/go-engine/internal/predict"
	"github.com/charlyptai/adaptive-interface/go-engine/internal/signals"
	"github.com/charlyptai/adaptive-interface/go-engine/internal/store"
)

// #region ports

// Renderer receives snapshot and composition changes. Called from the
// engine goroutine; implementations must hand off quickly.
type Renderer interface {
	Render(snap fuse.ContextSnapshot, comp compose.Composition, pred predict.Prediction)
}

// Telemetry receives decision entries. audit.Log satisfies it.
type Telemetry interface {
	Record(entry audit.Entry) error
}

// #endregion ports

// #region config

// Config holds the engine's loop timings and scoring window.
type Config struct {
	ScoreWindow  time.Duration // event window fed to the scorers
	EmotionTick  time.Duration // periodic re-score cadence
	SaveInterval time.Duration // periodic persistence cadence
	QueueSize    int           // work channel capacity
}

// DefaultConfig returns the documented engine defaults.
func DefaultConfig() Config {
	return Config{
		ScoreWindow:  events.DefaultRetention,
		EmotionTick:  30 * time.Second,
		SaveInterval: time.Minute,
		QueueSize:    256,
	}
}

// #endregion config

// #region work-items

type workKind int

const (
	workEvent workKind = iota
	workAction
	workTick
)

type workItem struct {
	kind   workKind
	event  events.BehaviorEvent
	action store.Action
}

// #endregion work-items

// #region engine-struct

// Engine wires the full pipeline. Construct with NewEngine, drive with Run,
// feed with Submit/Dispatch, and Close to flush the final save.
type Engine struct {
	config    Config
	collector *events.Collector
	scorerCfg signals.ScorerConfig
	fuser     *fuse.Fuser
	predictor *predict.Predictor
	store     *store.Store
	renderer  Renderer
	telemetry Telemetry
	log       zerolog.Logger

	work chan workItem
	done chan struct{}

	prev  fuse.ContextSnapshot
	attrs fuse.Attributes
	now   func() time.Time
}

// Options carries the collaborators the engine does not build itself. Any
// nil field degrades gracefully: no renderer means no notifications, no
// telemetry means no decision log, no port means in-memory state only.
type Options struct {
	Renderer  Renderer
	Telemetry Telemetry
	Fetcher   store.SliceFetcher
	Port      persist.Port
	Predictor *predict.Predictor
	Log       zerolog.Logger
}

// NewEngine builds a fully wired engine around the supplied collaborators.
func NewEngine(config Config, opts Options) *Engine {
	pred := opts.Predictor
	if pred == nil {
		pred = predict.NewPredictor(predict.DefaultConfig(), nil, opts.Log)
	}

	e := &Engine{
		config:    config,
		scorerCfg: signals.DefaultScorerConfig(),
		fuser:     fuse.NewFuser(fuse.DefaultConfig()),
		predictor: pred,
		store:     store.NewStore(opts.Fetcher, opts.Port, opts.Log),
		renderer:  opts.Renderer,
		telemetry: opts.Telemetry,
		log:       opts.Log.With().Str("component", "engine").Logger(),
		work:      make(chan workItem, config.QueueSize),
		done:      make(chan struct{}),
		now:       time.Now,
	}
	// The collector shares the engine clock so eviction follows pipeline time.
	e.collector = events.NewCollectorWithClock(config.ScoreWindow, func() time.Time { return e.now() })

	st := e.store.State()
	e.attrs = fuse.Attributes{
		DeviceClass:    st.DeviceClass,
		ExperienceTier: st.ExperienceTier,
	}
	e.prev = fuse.DefaultSnapshot(e.attrs, e.now().UTC())
	return e
}

// Store exposes the state store for read access and test wiring.
func (e *Engine) Store() *store.Store {
	return e.store
}

// Snapshot returns the current authoritative snapshot.
func (e *Engine) Snapshot() fuse.ContextSnapshot {
	return e.prev
}

// #endregion engine-struct

// #region submit

// Submit enqueues a behavior event for the next pipeline pass. Safe to call
// from any goroutine; blocks only when the queue is full.
func (e *Engine) Submit(ev events.BehaviorEvent) {
	select {
	case e.work <- workItem{kind: workEvent, event: ev}:
	case <-e.done:
	}
}

// Dispatch enqueues a state store action. Fetch completions and profile or
// platform updates enter the pipeline through here.
func (e *Engine) Dispatch(action store.Action) {
	select {
	case e.work <- workItem{kind: workAction, action: action}:
	case <-e.done:
	}
}

// #endregion submit

// #region run

// Run owns the pipeline goroutine. Returns when ctx is cancelled, after a
// final save.
func (e *Engine) Run(ctx context.Context) error {
	emotionTick := time.NewTicker(e.config.EmotionTick)
	defer emotionTick.Stop()
	saveTick := time.NewTicker(e.config.SaveInterval)
	defer saveTick.Stop()

	defer close(e.done)

	for {
		select {
		case <-ctx.Done():
			e.flush()
			return ctx.Err()
		case item := <-e.work:
			e.handle(item)
		case <-emotionTick.C:
			e.handle(workItem{kind: workTick})
		case <-saveTick.C:
			if err := e.store.SaveNow(); err != nil {
				e.log.Warn().Err(err).Msg("periodic save failed")
			}
		}
	}
}

// flush drains queued work and performs the shutdown save.
func (e *Engine) flush() {
	for {
		select {
		case item := <-e.work:
			e.handle(item)
		default:
			if err := e.store.SaveNow(); err != nil {
				e.log.Warn().Err(err).Msg("shutdown save failed")
			}
			return
		}
	}
}

func (e *Engine) handle(item workItem) {
	switch item.kind {
	case workEvent:
		e.collector.Record(item.event)
		e.classify()
	case workAction:
		if err := e.store.Dispatch(item.action); err != nil {
			e.log.Warn().Err(err).Msg("dispatch failed")
		}
		e.refreshAttrs()
	case workTick:
		// Timer-driven pass: no new events, but emotional state decays
		// toward baseline as the window ages.
		e.classify()
	}
}

// #endregion run

// #region classify

// classify runs one full pipeline pass: score, fuse, predict, compose,
// dispatch, notify. Runs to completion inside the engine goroutine.
func (e *Engine) classify() {
	now := e.now().UTC()
	window := e.collector.Window(e.config.ScoreWindow)

	ctxSigs := signals.ScoreContext(window, now, e.scorerCfg)
	intentSigs := signals.ScoreIntent(window, now, e.scorerCfg)
	emoSigs := signals.ScoreEmotion(window, now, e.scorerCfg)

	snap := e.fuser.Fuse(ctxSigs, intentSigs, emoSigs, e.prev, e.attrs, now)
	if snap.ID == e.prev.ID {
		e.audit(audit.Entry{
			Kind:       audit.KindSnapshotRetain,
			SnapshotID: snap.ID,
			StateKey:   snap.StateKey(),
			Reason:     "no axis moved beyond threshold",
		})
		return
	}

	e.log.Debug().
		Str("context", string(snap.Context)).
		Str("intent", string(snap.Intent)).
		Str("emotion", string(snap.Emotion)).
		Int("confidence", snap.ConfidenceLevel).
		Msg("snapshot committed")

	e.predictor.Record(snap)
	pred := e.predictor.PredictNext(snap.StateKey(), window, now)
	comp := compose.Compose(snap)

	if err := e.store.Dispatch(store.SnapshotCommitted{Snapshot: snap}); err != nil {
		e.log.Warn().Err(err).Msg("snapshot dispatch failed")
	}

	detail, _ := json.Marshal(map[string]interface{}{
		"confidence_level": snap.ConfidenceLevel,
		"layout":           comp.Layout,
		"next_state":       pred.NextState,
		"next_confidence":  pred.Confidence,
		"urgency":          pred.Urgency,
	})
	e.audit(audit.Entry{
		Kind:       audit.KindSnapshotCommit,
		SnapshotID: snap.ID,
		StateKey:   snap.StateKey(),
		Detail:     string(detail),
	})

	e.prev = snap
	if e.renderer != nil {
		e.renderer.Render(snap, comp, pred)
	}
}

// refreshAttrs re-reads tier and device from the store so the next fuse
// pass stamps current attributes.
func (e *Engine) refreshAttrs() {
	st := e.store.State()
	e.attrs = fuse.Attributes{
		DeviceClass:    st.DeviceClass,
		ExperienceTier: st.ExperienceTier,
	}
}

func (e *Engine) audit(entry audit.Entry) {
	if e.telemetry == nil {
		return
	}
	if err := e.telemetry.Record(entry); err != nil {
		e.log.Warn().Err(err).Msg("telemetry record failed")
	}
}

// #endregion classify

// #region sync-pass

// Step runs one synchronous pipeline pass over a single event. Replay and
// tests use it to drive the pipeline without the goroutine loop.
func (e *Engine) Step(ev events.BehaviorEvent) (fuse.ContextSnapshot, error) {
	if ev.Category == "" {
		return e.prev, fmt.Errorf("event category required")
	}
	e.collector.Record(ev)
	e.classify()
	return e.prev, nil
}

// Close performs the final save for engines driven synchronously through
// Step. Run-driven engines save on context cancellation instead.
func (e *Engine) Close() error {
	if err := e.store.SaveNow(); err != nil {
		return fmt.Errorf("final save: %w", err)
	}
	return nil
}

// #endregion sync-pass
