package predict

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/charlyptai/adaptive-interface/go-engine/internal/events"
	"github.com/charlyptai/adaptive-interface/go-engine/internal/fuse"
)

// #region predictor

// Predictor learns workflow transitions online and predicts the next state.
// It owns the in-memory table and pattern set; an optional Store mirrors
// both durably (mirror failures are logged and never fatal).
type Predictor struct {
	table    *Table
	patterns map[string]*BehaviorPattern // keyed by from|to
	config   Config
	store    *Store
	log      zerolog.Logger
	prevKey  string
}

// NewPredictor creates a predictor. store may be nil (purely in-memory).
func NewPredictor(config Config, store *Store, log zerolog.Logger) *Predictor {
	p := &Predictor{
		table:    NewTable(config.NormTolerance),
		patterns: make(map[string]*BehaviorPattern),
		config:   config,
		store:    store,
		log:      log.With().Str("component", "predict").Logger(),
	}
	if store != nil {
		if err := p.restore(); err != nil {
			p.log.Warn().Err(err).Msg("restore from mirror failed, starting cold")
		}
	}
	return p
}

// Table exposes the transition table for inspection and tests.
func (p *Predictor) Table() *Table {
	return p.table
}

// Patterns returns a copy of the reinforced behavior patterns.
func (p *Predictor) Patterns() []BehaviorPattern {
	out := make([]BehaviorPattern, 0, len(p.patterns))
	for _, pat := range p.patterns {
		out = append(out, *pat)
	}
	return out
}

// #endregion predictor

// #region record

// Record feeds a committed snapshot into the table, counting the transition
// from the previously recorded state key and reinforcing the matching
// behavior pattern.
func (p *Predictor) Record(snap fuse.ContextSnapshot) {
	key := snap.StateKey()
	defer func() { p.prevKey = key }()

	if p.prevKey == "" || p.prevKey == key {
		return
	}

	p.table.Record(p.prevKey, key)
	p.reinforce(p.prevKey, key, snap.Timestamp)

	if p.store != nil {
		if err := p.store.UpsertTransition(p.prevKey, key); err != nil {
			p.log.Warn().Err(err).Msg("transition mirror write failed")
		}
		if pat, ok := p.patterns[p.prevKey+"|"+key]; ok {
			if err := p.store.SavePattern(*pat); err != nil {
				p.log.Warn().Err(err).Msg("pattern mirror write failed")
			}
		}
	}
}

// reinforce bumps the pattern for (from, to): frequency, last-seen, and a
// rolling confidence stepped toward 1 by alpha.
func (p *Predictor) reinforce(from, to string, seen time.Time) {
	id := from + "|" + to
	pat, ok := p.patterns[id]
	if !ok {
		pat = &BehaviorPattern{
			ID:      uuid.New().String(),
			FromKey: from,
			ToKey:   to,
		}
		p.patterns[id] = pat
	}
	pat.Frequency++
	pat.LastSeen = seen
	pat.Confidence += p.config.PatternAlpha * (1 - pat.Confidence)
}

// #endregion record

// #region predict

// PredictNext picks the highest-probability destination for the state key.
// An unseen key returns the fixed cold-start default. Recently reinforced
// patterns targeting the same destination boost confidence (capped at 1.0),
// and explicit deadline evidence in recent events hard-overrides urgency to
// critical, bypassing the weighted computation.
func (p *Predictor) PredictNext(stateKey string, recent []events.BehaviorEvent, now time.Time) Prediction {
	row := p.table.Row(stateKey)
	if len(row) == 0 {
		pred := Prediction{
			NextState:             DefaultNextState,
			Confidence:            DefaultConfidence,
			SuggestedActions:      actionsFor(DefaultNextState),
			EstimatedDelayMinutes: delayFor(DefaultNextState),
			Urgency:               UrgencyNormal,
		}
		pred.Urgency = p.finalUrgency(pred.Confidence, recent, now)
		return pred
	}

	dest, prob := bestDestination(row)
	conf := prob + p.patternBoost(stateKey, dest, now)
	if conf > 1.0 {
		conf = 1.0
	}

	return Prediction{
		NextState:             dest,
		Confidence:            conf,
		SuggestedActions:      actionsFor(dest),
		EstimatedDelayMinutes: delayFor(dest),
		Urgency:               p.finalUrgency(conf, recent, now),
	}
}

// bestDestination picks the max-probability destination; probability ties
// resolve by lexicographic key order so prediction is deterministic.
func bestDestination(row map[string]float64) (string, float64) {
	var dest string
	best := -1.0
	for k, v := range row {
		if v > best || (v == best && k < dest) {
			dest, best = k, v
		}
	}
	return dest, best
}

// patternBoost sums decayed confidence of patterns targeting dest from the
// same source key.
func (p *Predictor) patternBoost(from, dest string, now time.Time) float64 {
	pat, ok := p.patterns[from+"|"+dest]
	if !ok {
		return 0
	}
	age := now.Sub(pat.LastSeen)
	if age < 0 {
		age = 0
	}
	decay := math.Exp2(-float64(age) / float64(p.config.PatternHalfLife))
	return p.config.PatternBoostWeight * pat.Confidence * decay
}

// finalUrgency grades urgency from confidence, then applies the deadline
// hard-override.
func (p *Predictor) finalUrgency(conf float64, recent []events.BehaviorEvent, now time.Time) Urgency {
	if hasDeadlineEvidence(recent, now, p.config.DeadlineLookback) {
		return UrgencyCritical
	}
	switch {
	case conf >= 0.8:
		return UrgencyHigh
	case conf >= 0.5:
		return UrgencyNormal
	default:
		return UrgencyLow
	}
}

// hasDeadlineEvidence reports explicit deadline/urgency evidence within the
// lookback window.
func hasDeadlineEvidence(recent []events.BehaviorEvent, now time.Time, lookback time.Duration) bool {
	cutoff := now.Add(-lookback)
	for _, ev := range recent {
		if ev.Timestamp.Before(cutoff) {
			continue
		}
		if ev.Category == events.CategoryDeadline {
			return true
		}
		if ev.Metadata["deadline"] == "imminent" {
			return true
		}
	}
	return false
}

// #endregion predict

// #region restore

// restore loads mirrored transitions and patterns from the durable store.
func (p *Predictor) restore() error {
	edges, err := p.store.LoadTransitions()
	if err != nil {
		return err
	}
	for _, e := range edges {
		p.table.Seed(e.FromKey, e.ToKey, float64(e.Count))
	}

	pats, err := p.store.LoadPatterns()
	if err != nil {
		return err
	}
	for _, pat := range pats {
		cp := pat
		p.patterns[pat.FromKey+"|"+pat.ToKey] = &cp
	}
	p.log.Info().Int("transitions", len(edges)).Int("patterns", len(pats)).Msg("restored predictor state")
	return nil
}

// #endregion restore

// #region helpers

func destContext(stateKey string) string {
	if i := strings.IndexByte(stateKey, ':'); i > 0 {
		return stateKey[:i]
	}
	return stateKey
}

func actionsFor(stateKey string) []string {
	return suggestedActions[destContext(stateKey)]
}

func delayFor(stateKey string) int {
	return estimatedDelayMinutes[destContext(stateKey)]
}

// #endregion helpers
