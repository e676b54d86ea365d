// Package compose maps a committed context snapshot to an interface
// composition. Compose is a pure function over fixed lookup tables: the same
// snapshot always yields the same composition, so callers may memoize or
// diff results freely.
package compose

import (
	"github.com/charlyptai/adaptive-interface/go-engine/internal/fuse"
	"github.com/charlyptai/adaptive-interface/go-engine/internal/signals"
)

// #region types

// Layout names the top-level screen arrangement.
type Layout string

const (
	LayoutMinimal      Layout = "minimal"       // single-task, distraction-free
	LayoutCreation     Layout = "creation"      // form-centric authoring surface
	LayoutComparison   Layout = "comparison"    // side-by-side evidence panes
	LayoutStepWorkflow Layout = "step_workflow" // guided sequential steps
	LayoutOverview     Layout = "overview"      // general dashboard
)

// Density is how much information competes for the viewport at once.
type Density string

const (
	DensityCompact     Density = "compact"
	DensityComfortable Density = "comfortable"
	DensitySpacious    Density = "spacious"
)

// Depth is how much detail each component exposes before drill-down.
type Depth string

const (
	DepthSummary  Depth = "summary"
	DepthStandard Depth = "standard"
	DepthDetailed Depth = "detailed"
)

// Tone shapes copy and microinteractions across the surface.
type Tone string

const (
	ToneNeutral     Tone = "neutral"
	ToneSupportive  Tone = "supportive"
	ToneReassuring  Tone = "reassuring"
	ToneEncouraging Tone = "encouraging"
	ToneEnergetic   Tone = "energetic"
)

// ConfirmationLevel controls how aggressively destructive or submitting
// actions are guarded.
type ConfirmationLevel string

const (
	ConfirmRelaxed  ConfirmationLevel = "relaxed"
	ConfirmStandard ConfirmationLevel = "standard"
	ConfirmStrict   ConfirmationLevel = "strict"
)

// Composition is the full layout/density/visibility descriptor handed to the
// rendering collaborator.
type Composition struct {
	Layout       Layout
	Density      Density
	Depth        Depth
	Primary      []string
	Secondary    []string
	Hidden       []string
	Tone         Tone
	Confirmation ConfirmationLevel
}

// #endregion types

// #region component-tables

// componentSet is the per-context component split before emotion adjustments.
type componentSet struct {
	primary   []string
	secondary []string
	hidden    []string
}

// componentsByContext maps each workflow phase to its component visibility
// sets. Fixed so composition stays deterministic and auditable.
var componentsByContext = map[signals.ContextLabel]componentSet{
	signals.ContextDiscovery: {
		primary:   []string{"property_search", "results_map", "saved_searches"},
		secondary: []string{"market_trends", "recent_sales", "filters_advanced"},
		hidden:    []string{"appeal_drafts", "filing_queue"},
	},
	signals.ContextAnalysis: {
		primary:   []string{"assessment_detail", "comparable_grid", "valuation_chart"},
		secondary: []string{"tax_history", "neighborhood_stats", "annotation_panel"},
		hidden:    []string{"property_search", "filing_queue"},
	},
	signals.ContextPreparation: {
		primary:   []string{"appeal_editor", "evidence_binder", "document_upload"},
		secondary: []string{"comparable_grid", "template_library", "deadline_banner"},
		hidden:    []string{"market_trends", "celebration_feed"},
	},
	signals.ContextFiling: {
		primary:   []string{"filing_steps", "review_checklist", "submission_form"},
		secondary: []string{"deadline_banner", "fee_summary"},
		hidden:    []string{"property_search", "market_trends", "celebration_feed"},
	},
	signals.ContextMonitoring: {
		primary:   []string{"case_status", "timeline", "notifications"},
		secondary: []string{"deadline_banner", "hearing_prep", "related_cases"},
		hidden:    []string{"appeal_editor", "property_search"},
	},
	signals.ContextCelebration: {
		primary:   []string{"outcome_summary", "savings_breakdown", "share_card"},
		secondary: []string{"next_steps", "referral_offer"},
		hidden:    []string{"filing_steps", "assessment_detail"},
	},
}

// stressSecondaryCap bounds secondary components when the user reads as
// stressed or frustrated.
const stressSecondaryCap = 2

// #endregion component-tables

// #region tone-table

// toneByEmotion maps the fused emotion axis to copy tone.
var toneByEmotion = map[signals.EmotionLabel]Tone{
	signals.EmotionConfident:  ToneEncouraging,
	signals.EmotionFocused:    ToneNeutral,
	signals.EmotionStressed:   ToneReassuring,
	signals.EmotionUncertain:  ToneSupportive,
	signals.EmotionExcited:    ToneEnergetic,
	signals.EmotionFrustrated: ToneSupportive,
}

// #endregion tone-table

// #region compose

// Compose maps a snapshot to its interface composition. Precedence for the
// layout is fixed: distress first, then authoring intent, then the
// analysis/filing specials, then the general overview.
func Compose(snap fuse.ContextSnapshot) Composition {
	stressed := snap.Emotion == signals.EmotionStressed ||
		snap.Emotion == signals.EmotionFrustrated

	comp := Composition{
		Layout:       layoutFor(snap, stressed),
		Density:      densityFor(snap, stressed),
		Depth:        depthFor(snap, stressed),
		Tone:         toneFor(snap.Emotion),
		Confirmation: confirmationFor(snap, stressed),
	}

	set, ok := componentsByContext[snap.Context]
	if !ok {
		set = componentsByContext[signals.ContextDiscovery]
	}
	comp.Primary = append([]string(nil), set.primary...)
	comp.Secondary = append([]string(nil), set.secondary...)
	comp.Hidden = append([]string(nil), set.hidden...)

	if stressed {
		if len(comp.Secondary) > stressSecondaryCap {
			comp.Hidden = append(comp.Hidden, comp.Secondary[stressSecondaryCap:]...)
			comp.Secondary = comp.Secondary[:stressSecondaryCap]
		}
	} else if snap.ExperienceTier == fuse.TierExpert {
		// Experts get the hidden set promoted into secondary.
		comp.Secondary = append(comp.Secondary, comp.Hidden...)
		comp.Hidden = nil
	}

	return comp
}

func layoutFor(snap fuse.ContextSnapshot, stressed bool) Layout {
	switch {
	case stressed:
		return LayoutMinimal
	case snap.Intent == signals.IntentCreate:
		return LayoutCreation
	case snap.Context == signals.ContextAnalysis && snap.Intent == signals.IntentAnalyze:
		return LayoutComparison
	case snap.Context == signals.ContextFiling:
		return LayoutStepWorkflow
	default:
		return LayoutOverview
	}
}

// densityFor degrades with shrinking device class or stress and escalates
// with the declared experience tier.
func densityFor(snap fuse.ContextSnapshot, stressed bool) Density {
	if stressed || snap.DeviceClass == fuse.DeviceMobile {
		return DensitySpacious
	}
	if snap.DeviceClass == fuse.DeviceTablet {
		if snap.ExperienceTier == fuse.TierExpert {
			return DensityComfortable
		}
		return DensitySpacious
	}
	if snap.ExperienceTier == fuse.TierExpert {
		return DensityCompact
	}
	return DensityComfortable
}

func depthFor(snap fuse.ContextSnapshot, stressed bool) Depth {
	if stressed || snap.ExperienceTier == fuse.TierNovice {
		return DepthSummary
	}
	if snap.ExperienceTier == fuse.TierExpert && snap.DeviceClass == fuse.DeviceDesktop {
		return DepthDetailed
	}
	return DepthStandard
}

func toneFor(emotion signals.EmotionLabel) Tone {
	if t, ok := toneByEmotion[emotion]; ok {
		return t
	}
	return ToneNeutral
}

// confirmationFor tightens guards while filing or distressed and relaxes
// them for experts in the low-stakes monitoring phase.
func confirmationFor(snap fuse.ContextSnapshot, stressed bool) ConfirmationLevel {
	if snap.Context == signals.ContextFiling || stressed {
		return ConfirmStrict
	}
	if snap.Context == signals.ContextMonitoring && snap.ExperienceTier == fuse.TierExpert {
		return ConfirmRelaxed
	}
	return ConfirmStandard
}

// #endregion compose
