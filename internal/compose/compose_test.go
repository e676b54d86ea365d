package compose

import (
	"reflect"
	"testing"
	"time"

	"github.com/charlyptai/adaptive-interface/go-engine/internal/fuse"
	"github.com/charlyptai/adaptive-interface/go-engine/internal/signals"
)

// #region helpers

func snapOf(ctx signals.ContextLabel, intent signals.IntentLabel, emotion signals.EmotionLabel) fuse.ContextSnapshot {
	return fuse.ContextSnapshot{
		ID:              "snap-1",
		Context:         ctx,
		Intent:          intent,
		Emotion:         emotion,
		ConfidenceLevel: 70,
		TimeOfDay:       "morning",
		DeviceClass:     fuse.DeviceDesktop,
		ExperienceTier:  fuse.TierIntermediate,
		Timestamp:       time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
	}
}

// #endregion helpers

// #region layout-tests

func TestCompose_LayoutPrecedence(t *testing.T) {
	cases := []struct {
		name string
		snap fuse.ContextSnapshot
		want Layout
	}{
		{"frustrated wins over creation", snapOf(signals.ContextPreparation, signals.IntentCreate, signals.EmotionFrustrated), LayoutMinimal},
		{"stressed wins over filing", snapOf(signals.ContextFiling, signals.IntentSubmit, signals.EmotionStressed), LayoutMinimal},
		{"create intent", snapOf(signals.ContextPreparation, signals.IntentCreate, signals.EmotionFocused), LayoutCreation},
		{"analysis analyze", snapOf(signals.ContextAnalysis, signals.IntentAnalyze, signals.EmotionFocused), LayoutComparison},
		{"analysis without analyze falls through", snapOf(signals.ContextAnalysis, signals.IntentExplore, signals.EmotionFocused), LayoutOverview},
		{"filing", snapOf(signals.ContextFiling, signals.IntentSubmit, signals.EmotionConfident), LayoutStepWorkflow},
		{"general overview", snapOf(signals.ContextDiscovery, signals.IntentExplore, signals.EmotionFocused), LayoutOverview},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Compose(tc.snap).Layout; got != tc.want {
				t.Errorf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

// #endregion layout-tests

// #region determinism-tests

func TestCompose_ReferentiallyDeterministic(t *testing.T) {
	snap := snapOf(signals.ContextAnalysis, signals.IntentAnalyze, signals.EmotionUncertain)
	first := Compose(snap)
	for i := 0; i < 10; i++ {
		if got := Compose(snap); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d diverged: %+v vs %+v", i, got, first)
		}
	}
}

// #endregion determinism-tests

// #region stress-tests

func TestCompose_StressCapsSecondaryComponents(t *testing.T) {
	snap := snapOf(signals.ContextAnalysis, signals.IntentAnalyze, signals.EmotionStressed)
	comp := Compose(snap)

	if len(comp.Secondary) > 2 {
		t.Errorf("expected at most 2 secondary components under stress, got %d", len(comp.Secondary))
	}
	// The trimmed components move to hidden rather than vanishing.
	found := false
	for _, c := range comp.Hidden {
		if c == "annotation_panel" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected trimmed component in hidden set, got %v", comp.Hidden)
	}
	if comp.Density != DensitySpacious || comp.Depth != DepthSummary {
		t.Errorf("expected degraded density and depth, got %s/%s", comp.Density, comp.Depth)
	}
	if comp.Confirmation != ConfirmStrict {
		t.Errorf("expected strict confirmation under stress, got %s", comp.Confirmation)
	}
}

func TestCompose_FrustratedSelectsMinimal(t *testing.T) {
	snap := snapOf(signals.ContextDiscovery, signals.IntentExplore, signals.EmotionFrustrated)
	comp := Compose(snap)
	if comp.Layout != LayoutMinimal {
		t.Errorf("expected minimal layout, got %s", comp.Layout)
	}
	if comp.Tone != ToneSupportive {
		t.Errorf("expected supportive tone, got %s", comp.Tone)
	}
}

// #endregion stress-tests

// #region density-depth-tests

func TestCompose_DensityTracksDeviceAndTier(t *testing.T) {
	snap := snapOf(signals.ContextDiscovery, signals.IntentExplore, signals.EmotionFocused)

	snap.DeviceClass = fuse.DeviceMobile
	if got := Compose(snap).Density; got != DensitySpacious {
		t.Errorf("mobile: expected spacious, got %s", got)
	}

	snap.DeviceClass = fuse.DeviceDesktop
	snap.ExperienceTier = fuse.TierExpert
	if got := Compose(snap).Density; got != DensityCompact {
		t.Errorf("expert desktop: expected compact, got %s", got)
	}

	snap.ExperienceTier = fuse.TierNovice
	comp := Compose(snap)
	if comp.Density != DensityComfortable {
		t.Errorf("novice desktop: expected comfortable, got %s", comp.Density)
	}
	if comp.Depth != DepthSummary {
		t.Errorf("novice: expected summary depth, got %s", comp.Depth)
	}
}

func TestCompose_ExpertPromotesHiddenComponents(t *testing.T) {
	snap := snapOf(signals.ContextMonitoring, signals.IntentTrack, signals.EmotionFocused)
	snap.ExperienceTier = fuse.TierExpert

	comp := Compose(snap)
	if len(comp.Hidden) != 0 {
		t.Errorf("expected empty hidden set for expert, got %v", comp.Hidden)
	}
	found := false
	for _, c := range comp.Secondary {
		if c == "appeal_editor" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected promoted component in secondary, got %v", comp.Secondary)
	}
	if comp.Confirmation != ConfirmRelaxed {
		t.Errorf("expected relaxed confirmation for expert monitoring, got %s", comp.Confirmation)
	}
}

// #endregion density-depth-tests

// #region tone-tests

func TestCompose_ToneFollowsEmotion(t *testing.T) {
	cases := map[signals.EmotionLabel]Tone{
		signals.EmotionConfident:  ToneEncouraging,
		signals.EmotionFocused:    ToneNeutral,
		signals.EmotionStressed:   ToneReassuring,
		signals.EmotionUncertain:  ToneSupportive,
		signals.EmotionExcited:    ToneEnergetic,
		signals.EmotionFrustrated: ToneSupportive,
	}
	for emotion, want := range cases {
		snap := snapOf(signals.ContextDiscovery, signals.IntentExplore, emotion)
		if got := Compose(snap).Tone; got != want {
			t.Errorf("%s: expected %s, got %s", emotion, want, got)
		}
	}
}

// #endregion tone-tests
