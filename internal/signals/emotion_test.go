package signals

import (
	"testing"
	"time"

	"github.com/charlyptai/adaptive-interface/go-engine/internal/events"
)

// #region zero-window

func TestScoreEmotion_ZeroWindow(t *testing.T) {
	sigs := ScoreEmotion(nil, scoreBase, DefaultScorerConfig())
	if len(sigs) != 6 {
		t.Fatalf("expected one signal per label, got %d", len(sigs))
	}
	for _, s := range sigs {
		if s.Confidence != 0 {
			t.Errorf("label %s: expected confidence 0, got %f", s.Label, s.Confidence)
		}
	}
	if sigs[0].Label != string(EmotionFocused) {
		t.Errorf("expected focused to lead on all-zero tie, got %s", sigs[0].Label)
	}
}

// #endregion zero-window

// #region frustration

func TestScoreEmotion_ErrorBurst(t *testing.T) {
	// Three errors within 10 seconds must push frustrated over the
	// emotion acceptance threshold (0.30).
	evts := []events.BehaviorEvent{
		{Category: events.CategoryError, Timestamp: scoreBase.Add(-9 * time.Second)},
		{Category: events.CategoryError, Timestamp: scoreBase.Add(-5 * time.Second)},
		{Category: events.CategoryError, Timestamp: scoreBase.Add(-1 * time.Second)},
	}
	sigs := ScoreEmotion(evts, scoreBase, DefaultScorerConfig())

	frustrated := confidenceOf(sigs, string(EmotionFrustrated))
	if frustrated < 0.30 {
		t.Errorf("expected frustrated above stress threshold, got %f", frustrated)
	}
	if sigs[0].Label != string(EmotionFrustrated) {
		t.Errorf("expected frustrated on top, got %s", sigs[0].Label)
	}
}

func TestScoreEmotion_SpreadErrorsNoBurstBonus(t *testing.T) {
	cfg := DefaultScorerConfig()
	burst := []events.BehaviorEvent{
		{Category: events.CategoryError, Timestamp: scoreBase.Add(-8 * time.Second)},
		{Category: events.CategoryError, Timestamp: scoreBase.Add(-4 * time.Second)},
		{Category: events.CategoryError, Timestamp: scoreBase.Add(-1 * time.Second)},
	}
	spread := []events.BehaviorEvent{
		{Category: events.CategoryError, Timestamp: scoreBase.Add(-3 * time.Minute)},
		{Category: events.CategoryError, Timestamp: scoreBase.Add(-90 * time.Second)},
		{Category: events.CategoryError, Timestamp: scoreBase.Add(-1 * time.Second)},
	}
	burstConf := confidenceOf(ScoreEmotion(burst, scoreBase, cfg), string(EmotionFrustrated))
	spreadConf := confidenceOf(ScoreEmotion(spread, scoreBase, cfg), string(EmotionFrustrated))
	if spreadConf >= burstConf {
		t.Errorf("expected burst to outscore spread errors: burst=%f spread=%f", burstConf, spreadConf)
	}
}

// #endregion frustration

// #region decay

func TestScoreEmotion_FrustrationDecaysWithAge(t *testing.T) {
	cfg := DefaultScorerConfig()
	evts := []events.BehaviorEvent{
		{Category: events.CategoryError, Timestamp: scoreBase.Add(-8 * time.Second)},
		{Category: events.CategoryError, Timestamp: scoreBase.Add(-4 * time.Second)},
		{Category: events.CategoryError, Timestamp: scoreBase.Add(-1 * time.Second)},
	}
	fresh := confidenceOf(ScoreEmotion(evts, scoreBase, cfg), string(EmotionFrustrated))
	later := confidenceOf(ScoreEmotion(evts, scoreBase.Add(4*time.Minute), cfg), string(EmotionFrustrated))
	if later >= fresh {
		t.Errorf("expected frustration to decay as events age: fresh=%f later=%f", fresh, later)
	}
}

func TestScoreEmotion_QuietWindowDriftsTowardFocused(t *testing.T) {
	cfg := DefaultScorerConfig()
	evts := []events.BehaviorEvent{
		{Category: events.CategoryOpenDocument, Timestamp: scoreBase.Add(-4 * time.Minute), Duration: 90 * time.Second},
		{Category: events.CategoryError, Timestamp: scoreBase.Add(-3 * time.Minute)},
	}
	// Right after the error, frustration is live; minutes later the quiet
	// credit has grown and the error weight has decayed.
	justAfter := ScoreEmotion(evts, scoreBase.Add(-3*time.Minute+time.Second), cfg)
	muchLater := ScoreEmotion(evts, scoreBase, cfg)

	if justAfter[0].Label != string(EmotionFrustrated) && justAfter[0].Label != string(EmotionStressed) {
		t.Errorf("expected negative emotion right after error, got %s", justAfter[0].Label)
	}
	if muchLater[0].Label != string(EmotionFocused) {
		t.Errorf("expected drift back to focused, got %s", muchLater[0].Label)
	}
}

// #endregion decay

// #region positive

func TestScoreEmotion_CelebrationExcites(t *testing.T) {
	evts := []events.BehaviorEvent{
		{Category: events.CategoryCelebrateView, Timestamp: scoreBase.Add(-10 * time.Second)},
		{Category: events.CategoryCelebrateView, Timestamp: scoreBase.Add(-5 * time.Second)},
	}
	sigs := ScoreEmotion(evts, scoreBase, DefaultScorerConfig())
	if sigs[0].Label != string(EmotionExcited) {
		t.Errorf("expected excited on top, got %s", sigs[0].Label)
	}
}

func TestScoreEmotion_SubmissionPathBuildsConfidence(t *testing.T) {
	evts := []events.BehaviorEvent{
		{Category: events.CategoryReview, Timestamp: scoreBase.Add(-40 * time.Second)},
		{Category: events.CategoryReview, Timestamp: scoreBase.Add(-25 * time.Second)},
		{Category: events.CategorySubmitForm, Timestamp: scoreBase.Add(-10 * time.Second)},
	}
	sigs := ScoreEmotion(evts, scoreBase, DefaultScorerConfig())
	confident := confidenceOf(sigs, string(EmotionConfident))
	if confident <= 0 {
		t.Errorf("expected positive confident score, got %f", confident)
	}
	frustrated := confidenceOf(sigs, string(EmotionFrustrated))
	if frustrated != 0 {
		t.Errorf("expected zero frustration without negative events, got %f", frustrated)
	}
}

// #endregion positive

// #region helpers

func TestRecencyWeight(t *testing.T) {
	tests := []struct {
		age  time.Duration
		want float64
	}{
		{0, 1.0},
		{2 * time.Minute, 0.5},
		{4 * time.Minute, 0.25},
	}
	for _, tt := range tests {
		got := recencyWeight(tt.age, 2*time.Minute)
		if diff := got - tt.want; diff > 0.001 || diff < -0.001 {
			t.Errorf("recencyWeight(%v) = %f, want %f", tt.age, got, tt.want)
		}
	}
}

func TestHasBurst(t *testing.T) {
	times := []time.Time{
		scoreBase,
		scoreBase.Add(4 * time.Second),
		scoreBase.Add(9 * time.Second),
		scoreBase.Add(40 * time.Second),
	}
	if !hasBurst(times, 3, 10*time.Second) {
		t.Error("expected burst in first three timestamps")
	}
	if hasBurst(times[1:], 3, 10*time.Second) {
		t.Error("expected no burst across the 40s gap")
	}
	if hasBurst(times[:2], 3, 10*time.Second) {
		t.Error("expected no burst with fewer than count events")
	}
}

// #endregion helpers
