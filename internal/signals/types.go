package signals

import "time"

// #region labels

// ContextLabel names a workflow phase.
type ContextLabel string

const (
	ContextDiscovery   ContextLabel = "discovery"
	ContextAnalysis    ContextLabel = "analysis"
	ContextPreparation ContextLabel = "preparation"
	ContextFiling      ContextLabel = "filing"
	ContextMonitoring  ContextLabel = "monitoring"
	ContextCelebration ContextLabel = "celebration"
)

// IntentLabel names the immediate goal within a context.
type IntentLabel string

const (
	IntentExplore IntentLabel = "explore"
	IntentAnalyze IntentLabel = "analyze"
	IntentCreate  IntentLabel = "create"
	IntentSubmit  IntentLabel = "submit"
	IntentTrack   IntentLabel = "track"
	IntentLearn   IntentLabel = "learn"
)

// EmotionLabel names an inferred affective state.
type EmotionLabel string

const (
	EmotionConfident  EmotionLabel = "confident"
	EmotionFocused    EmotionLabel = "focused"
	EmotionStressed   EmotionLabel = "stressed"
	EmotionUncertain  EmotionLabel = "uncertain"
	EmotionExcited    EmotionLabel = "excited"
	EmotionFrustrated EmotionLabel = "frustrated"
)

// #endregion labels

// #region priority-order

// Tie-break orders. When two labels score identically the one listed first
// wins. Fixed and documented so classification is never nondeterministic.
var (
	ContextPriority = []ContextLabel{
		ContextDiscovery, ContextAnalysis, ContextPreparation,
		ContextFiling, ContextMonitoring, ContextCelebration,
	}
	IntentPriority = []IntentLabel{
		IntentExplore, IntentAnalyze, IntentCreate,
		IntentSubmit, IntentTrack, IntentLearn,
	}
	EmotionPriority = []EmotionLabel{
		EmotionFocused, EmotionConfident, EmotionUncertain,
		EmotionStressed, EmotionFrustrated, EmotionExcited,
	}
)

// #endregion priority-order

// #region signal

// Signal is a confidence-scored candidate label for one classification axis.
// Transient: produced per scoring pass, consumed by the fuser.
type Signal struct {
	Label      string
	Confidence float64 // [0, 1]
	Evidence   []string
	Timestamp  time.Time
}

// #endregion signal

// #region scorer-config

// ScorerConfig holds the fixed indicator weights for all three scorers.
// The weights are deliberately inspectable: confidence is always a clamped
// weighted sum of the features below, never a sampled value.
type ScorerConfig struct {
	MatchWeight   float64 // per matching event, context/intent axes (default 0.08)
	PageWeight    float64 // per page-tag match (default 0.04)
	DwellWeight   float64 // per long-dwell event on a single item (default 0.10)
	DwellMin      time.Duration // duration that counts as a long dwell (default 20s)
	ErrorWeight   float64 // per error event, frustration (default 0.15)
	UndoWeight    float64 // per corrective/backtrack event (default 0.10)
	HelpWeight    float64 // per help-seeking event, uncertainty (default 0.12)
	SubmitWeight  float64 // per review/submit event, confidence (default 0.12)
	CelebrateWeight float64 // per celebration-view event, excitement (default 0.30)
	BurstCount    int           // errors within BurstWindow that trigger the bonus (default 3)
	BurstWindow   time.Duration // default 10s
	BurstBonus    float64       // default 0.20
	RateWeight    float64       // stress per event/min above RateBaseline (default 0.06)
	RateBaseline  float64       // events/min considered calm (default 6)
	DecayHalfLife time.Duration // recency half-life for emotion evidence (default 2m)
	QuietWeight   float64       // max baseline(focused) credit for a quiet window (default 0.40)
	QuietHalfLife time.Duration // how fast quiet time earns the baseline credit (default 90s)
}

// DefaultScorerConfig returns the documented default weights. The numbers are
// tuned so that six search events alone clear 0.3 on discovery and a three
// error burst clears the emotion acceptance threshold on frustrated.
func DefaultScorerConfig() ScorerConfig {
	return ScorerConfig{
		MatchWeight:     0.08,
		PageWeight:      0.04,
		DwellWeight:     0.10,
		DwellMin:        20 * time.Second,
		ErrorWeight:     0.15,
		UndoWeight:      0.10,
		HelpWeight:      0.12,
		SubmitWeight:    0.12,
		CelebrateWeight: 0.30,
		BurstCount:      3,
		BurstWindow:     10 * time.Second,
		BurstBonus:      0.20,
		RateWeight:      0.06,
		RateBaseline:    6,
		DecayHalfLife:   2 * time.Minute,
		QuietWeight:     0.40,
		QuietHalfLife:   90 * time.Second,
	}
}

// #endregion scorer-config

// #region helpers

// clamp restricts v to [0, 1].
func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// #endregion helpers
