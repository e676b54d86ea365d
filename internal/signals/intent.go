package signals

import (
	"fmt"
	"time"

	"github.com/charlyptai/adaptive-interface/go-engine/internal/events"
)

// #region category-map

// intentByCategory maps an event category to the goal it evidences.
var intentByCategory = map[events.Category]IntentLabel{
	events.CategorySearch:       IntentExplore,
	events.CategoryFilter:       IntentExplore,
	events.CategoryOpenDocument: IntentAnalyze,
	events.CategoryCompare:      IntentAnalyze,
	events.CategoryAnnotate:     IntentAnalyze,
	events.CategoryEditField:    IntentCreate,
	events.CategoryDraft:        IntentCreate,
	events.CategoryReview:       IntentSubmit,
	events.CategorySubmitForm:   IntentSubmit,
	events.CategoryStatusCheck:  IntentTrack,
	events.CategoryRefresh:      IntentTrack,
	events.CategoryDeadline:     IntentTrack,
	events.CategoryHelp:         IntentLearn,
	events.CategoryTutorial:     IntentLearn,
}

// #endregion category-map

// #region score-intent

// ScoreIntent scores every intent label against the windowed events.
// Same contract as ScoreContext: pure, never empty, all-zero on an empty
// window, ties broken by IntentPriority.
func ScoreIntent(evts []events.BehaviorEvent, now time.Time, cfg ScorerConfig) []Signal {
	matches := make(map[IntentLabel]int)
	dwells := make(map[IntentLabel]int)
	helpCount := 0

	for _, ev := range evts {
		label, ok := intentByCategory[ev.Category]
		if !ok {
			continue
		}
		matches[label]++
		if ev.Duration >= cfg.DwellMin {
			dwells[label]++
		}
		if label == IntentLearn {
			helpCount++
		}
	}

	sigs := make([]Signal, 0, len(IntentPriority))
	for _, label := range IntentPriority {
		conf := cfg.MatchWeight*float64(matches[label]) + cfg.DwellWeight*float64(dwells[label])
		// Help-seeking is a stronger indicator than raw frequency alone.
		if label == IntentLearn && helpCount > 0 {
			conf += cfg.HelpWeight * float64(helpCount)
		}
		conf = clamp(conf)

		var evidence []string
		if matches[label] > 0 {
			evidence = append(evidence, fmt.Sprintf("%d %s events in window", matches[label], label))
		}
		if dwells[label] > 0 {
			evidence = append(evidence, fmt.Sprintf("%d long dwells", dwells[label]))
		}
		sigs = append(sigs, Signal{
			Label:      string(label),
			Confidence: conf,
			Evidence:   evidence,
			Timestamp:  now,
		})
	}

	sortByConfidence(sigs, intentRank)
	return sigs
}

// #endregion score-intent

// #region rank

func intentRank(label string) int {
	for i, l := range IntentPriority {
		if string(l) == label {
			return i
		}
	}
	return len(IntentPriority)
}

// #endregion rank
