package signals

import (
	"testing"
	"time"

	"github.com/charlyptai/adaptive-interface/go-engine/internal/events"
)

// #region zero-window

func TestScoreIntent_ZeroWindow(t *testing.T) {
	sigs := ScoreIntent(nil, scoreBase, DefaultScorerConfig())
	if len(sigs) != 6 {
		t.Fatalf("expected one signal per label, got %d", len(sigs))
	}
	for _, s := range sigs {
		if s.Confidence != 0 {
			t.Errorf("label %s: expected confidence 0, got %f", s.Label, s.Confidence)
		}
	}
	if sigs[0].Label != string(IntentExplore) {
		t.Errorf("expected explore to lead on all-zero tie, got %s", sigs[0].Label)
	}
}

// #endregion zero-window

// #region scoring

func TestScoreIntent_CreateFromEditing(t *testing.T) {
	evts := append(
		eventsOf(events.CategoryEditField, 4, scoreBase.Add(-time.Minute), 5*time.Second),
		eventsOf(events.CategoryDraft, 2, scoreBase.Add(-30*time.Second), 5*time.Second)...,
	)
	sigs := ScoreIntent(evts, scoreBase, DefaultScorerConfig())
	if sigs[0].Label != string(IntentCreate) {
		t.Errorf("expected create on top, got %s", sigs[0].Label)
	}
	if sigs[0].Confidence < 0.4 {
		t.Errorf("expected strong create confidence, got %f", sigs[0].Confidence)
	}
}

func TestScoreIntent_HelpSeekingBoostsLearn(t *testing.T) {
	cfg := DefaultScorerConfig()
	evts := eventsOf(events.CategoryHelp, 2, scoreBase.Add(-time.Minute), 10*time.Second)
	sigs := ScoreIntent(evts, scoreBase, cfg)

	learn := confidenceOf(sigs, string(IntentLearn))
	// Frequency plus the help-seeking indicator: 2*0.08 + 2*0.12.
	want := 2*cfg.MatchWeight + 2*cfg.HelpWeight
	if diff := learn - want; diff > 0.001 || diff < -0.001 {
		t.Errorf("expected learn confidence ~%f, got %f", want, learn)
	}
	if sigs[0].Label != string(IntentLearn) {
		t.Errorf("expected learn on top, got %s", sigs[0].Label)
	}
}

func TestScoreIntent_TrackFromStatusChecks(t *testing.T) {
	evts := eventsOf(events.CategoryStatusCheck, 3, scoreBase.Add(-time.Minute), 15*time.Second)
	sigs := ScoreIntent(evts, scoreBase, DefaultScorerConfig())
	if sigs[0].Label != string(IntentTrack) {
		t.Errorf("expected track on top, got %s", sigs[0].Label)
	}
}

// #endregion scoring
