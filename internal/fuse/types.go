package fuse

import (
	"time"

	"github.com/charlyptai/adaptive-interface/go-engine/internal/signals"
)

// #region attributes

// DeviceClass is the viewport class reported by the platform collaborator.
type DeviceClass string

const (
	DeviceMobile  DeviceClass = "mobile"
	DeviceTablet  DeviceClass = "tablet"
	DeviceDesktop DeviceClass = "desktop"
)

// ExperienceTier is the declared experience level from the profile collaborator.
type ExperienceTier string

const (
	TierNovice       ExperienceTier = "novice"
	TierIntermediate ExperienceTier = "intermediate"
	TierExpert       ExperienceTier = "expert"
)

// Attributes carries the collaborator-supplied snapshot attributes that the
// fuser stamps onto every committed snapshot.
type Attributes struct {
	DeviceClass    DeviceClass
	ExperienceTier ExperienceTier
}

// #endregion attributes

// #region snapshot

// ContextSnapshot is the single authoritative classification of the user's
// workflow state. Exactly one instance is authoritative at any instant and
// snapshots commit in non-decreasing timestamp order.
type ContextSnapshot struct {
	ID              string
	Context         signals.ContextLabel
	Intent          signals.IntentLabel
	Emotion         signals.EmotionLabel
	ConfidenceLevel int // 0-100, scaled top context-axis confidence
	TimeOfDay       string
	DeviceClass     DeviceClass
	ExperienceTier  ExperienceTier
	Timestamp       time.Time
}

// StateKey returns the context:intent key used by the transition predictor.
func (s ContextSnapshot) StateKey() string {
	return string(s.Context) + ":" + string(s.Intent)
}

// #endregion snapshot

// #region config

// Config holds the per-axis acceptance thresholds and the change epsilon.
// A top signal below its axis threshold does not flip that axis; the
// previous value is retained instead (hysteresis against sparse evidence).
type Config struct {
	ContextThreshold  float64 // default 0.35
	IntentThreshold   float64 // default 0.35
	EmotionThreshold  float64 // default 0.30
	ConfidenceEpsilon int     // confidence-level points, default 2
	HistoryLimit      int     // retained snapshots, default 50
}

// DefaultConfig returns the documented fusion defaults.
func DefaultConfig() Config {
	return Config{
		ContextThreshold:  0.35,
		IntentThreshold:   0.35,
		EmotionThreshold:  0.30,
		ConfidenceEpsilon: 2,
		HistoryLimit:      50,
	}
}

// #endregion config

// #region time-of-day

// timeOfDay buckets a timestamp for the snapshot's temporal attribute.
func timeOfDay(t time.Time) string {
	switch h := t.Hour(); {
	case h < 6:
		return "night"
	case h < 12:
		return "morning"
	case h < 18:
		return "afternoon"
	default:
		return "evening"
	}
}

// #endregion time-of-day
