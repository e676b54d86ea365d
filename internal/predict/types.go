package predict

import (
	"time"
)

// #region urgency

// Urgency grades how soon the predicted next step matters.
type Urgency string

const (
	UrgencyLow      Urgency = "low"
	UrgencyNormal   Urgency = "normal"
	UrgencyHigh     Urgency = "high"
	UrgencyCritical Urgency = "critical"
)

// #endregion urgency

// #region prediction

// Prediction is the predictor's answer for a source state key.
type Prediction struct {
	NextState             string
	Confidence            float64
	SuggestedActions      []string
	EstimatedDelayMinutes int
	Urgency               Urgency
}

// DefaultNextState is returned for state keys with no recorded history
// (PredictorColdStart: a fixed default, never an error).
const DefaultNextState = "discovery:explore"

// DefaultConfidence accompanies the cold-start default.
const DefaultConfidence = 0.5

// #endregion prediction

// #region behavior-pattern

// BehaviorPattern is a reinforced workflow habit: one row per observed
// (from, to) state transition. Patterns are never deleted; their influence
// decays through recency weighting instead.
type BehaviorPattern struct {
	ID         string
	FromKey    string
	ToKey      string
	Frequency  int
	LastSeen   time.Time
	Confidence float64 // rolling, [0, 1]
}

// #endregion behavior-pattern

// #region config

// Config holds predictor tuning.
type Config struct {
	// NormTolerance is the float tolerance for row sums; a row outside it
	// is treated as corrupt and reset to uniform.
	NormTolerance float64
	// PatternAlpha is the rolling-confidence step applied on reinforcement.
	PatternAlpha float64
	// PatternHalfLife controls how fast an unreinforced pattern's boost fades.
	PatternHalfLife time.Duration
	// PatternBoostWeight scales the decayed pattern confidence added to the
	// row probability (result capped at 1.0).
	PatternBoostWeight float64
	// DeadlineLookback is how far back deadline evidence forces critical urgency.
	DeadlineLookback time.Duration
}

// DefaultConfig returns the documented predictor defaults.
func DefaultConfig() Config {
	return Config{
		NormTolerance:      1e-6,
		PatternAlpha:       0.2,
		PatternHalfLife:    30 * time.Minute,
		PatternBoostWeight: 0.25,
		DeadlineLookback:   2 * time.Minute,
	}
}

// #endregion config

// #region destination-tables

// suggestedActions maps a destination context (the prefix of a state key)
// to the fixed next-step suggestions surfaced with a prediction.
var suggestedActions = map[string][]string{
	"discovery":   {"open search", "refine filters"},
	"analysis":    {"open comparables", "review valuation detail"},
	"preparation": {"resume draft", "complete required fields"},
	"filing":      {"run final review", "submit filing"},
	"monitoring":  {"check filing status", "set a status reminder"},
	"celebration": {"view outcome summary", "export results"},
}

// estimatedDelayMinutes is the fixed per-destination delay estimate.
var estimatedDelayMinutes = map[string]int{
	"discovery":   5,
	"analysis":    10,
	"preparation": 15,
	"filing":      10,
	"monitoring":  30,
	"celebration": 5,
}

// #endregion destination-tables
