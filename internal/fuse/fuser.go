package fuse

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/charlyptai/adaptive-interface/go-engine/internal/signals"
)

// #region fuser

// Fuser merges per-axis signals into authoritative snapshots and keeps a
// bounded history of committed ones for stability analysis.
type Fuser struct {
	config  Config
	history []ContextSnapshot
}

// NewFuser creates a fuser with the given configuration.
func NewFuser(config Config) *Fuser {
	return &Fuser{config: config}
}

// DefaultSnapshot is the snapshot an empty session starts from.
func DefaultSnapshot(attrs Attributes, now time.Time) ContextSnapshot {
	return ContextSnapshot{
		ID:             uuid.New().String(),
		Context:        signals.ContextDiscovery,
		Intent:         signals.IntentExplore,
		Emotion:        signals.EmotionFocused,
		TimeOfDay:      timeOfDay(now),
		DeviceClass:    attrs.DeviceClass,
		ExperienceTier: attrs.ExperienceTier,
		Timestamp:      now,
	}
}

// #endregion fuser

// #region fuse

// Fuse picks the highest-confidence signal per axis, applies hysteresis
// against sparse evidence, and emits a new snapshot only when an axis, an
// attribute, or the confidence level moved beyond epsilon. Otherwise it
// returns prev unchanged — an idempotent no-op, so repeated passes over an
// identical window never multiply snapshots.
func (f *Fuser) Fuse(ctxSigs, intentSigs, emoSigs []signals.Signal, prev ContextSnapshot, attrs Attributes, now time.Time) ContextSnapshot {
	context := signals.ContextLabel(acceptOrRetain(ctxSigs, string(prev.Context), f.config.ContextThreshold))
	intent := signals.IntentLabel(acceptOrRetain(intentSigs, string(prev.Intent), f.config.IntentThreshold))
	emotion := signals.EmotionLabel(acceptOrRetain(emoSigs, string(prev.Emotion), f.config.EmotionThreshold))

	// Confidence follows the context axis. When the axis is retained on
	// sparse evidence the previous level is retained with it, so an empty
	// window cannot force a spurious commit.
	level := prev.ConfidenceLevel
	if top, ok := topSignal(ctxSigs); ok && top.Confidence >= f.config.ContextThreshold {
		level = int(math.Round(top.Confidence * 100))
	}

	changed := context != prev.Context ||
		intent != prev.Intent ||
		emotion != prev.Emotion ||
		attrs.DeviceClass != prev.DeviceClass ||
		attrs.ExperienceTier != prev.ExperienceTier ||
		abs(level-prev.ConfidenceLevel) > f.config.ConfidenceEpsilon

	if !changed {
		return prev
	}

	// Commit order invariant: timestamps never decrease.
	if now.Before(prev.Timestamp) {
		now = prev.Timestamp
	}

	snap := ContextSnapshot{
		ID:              uuid.New().String(),
		Context:         context,
		Intent:          intent,
		Emotion:         emotion,
		ConfidenceLevel: level,
		TimeOfDay:       timeOfDay(now),
		DeviceClass:     attrs.DeviceClass,
		ExperienceTier:  attrs.ExperienceTier,
		Timestamp:       now,
	}
	f.remember(snap)
	return snap
}

// #endregion fuse

// #region history

// History returns the committed snapshots, oldest first, capped at the
// configured limit.
func (f *Fuser) History() []ContextSnapshot {
	out := make([]ContextSnapshot, len(f.history))
	copy(out, f.history)
	return out
}

func (f *Fuser) remember(snap ContextSnapshot) {
	f.history = append(f.history, snap)
	if limit := f.config.HistoryLimit; limit > 0 && len(f.history) > limit {
		f.history = f.history[len(f.history)-limit:]
	}
}

// #endregion history

// #region helpers

// topSignal returns the first (highest-confidence) signal. Scorers emit
// signals pre-sorted with deterministic tie-breaks.
func topSignal(sigs []signals.Signal) (signals.Signal, bool) {
	if len(sigs) == 0 {
		return signals.Signal{}, false
	}
	return sigs[0], true
}

// acceptOrRetain applies the per-axis acceptance threshold: below it, the
// previous value survives (InsufficientEvidence resolves here, never as an
// error).
func acceptOrRetain(sigs []signals.Signal, prev string, threshold float64) string {
	top, ok := topSignal(sigs)
	if !ok || top.Confidence < threshold {
		return prev
	}
	return top.Label
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// #endregion helpers
