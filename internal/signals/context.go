package signals

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charlyptai/adaptive-interface/go-engine/internal/events"
)

// #region category-map

// contextByCategory maps an event category to the workflow phase it
// evidences. Categories absent from the table contribute to no phase.
var contextByCategory = map[events.Category]ContextLabel{
	events.CategorySearch:        ContextDiscovery,
	events.CategoryFilter:        ContextDiscovery,
	events.CategoryOpenDocument:  ContextAnalysis,
	events.CategoryCompare:       ContextAnalysis,
	events.CategoryAnnotate:      ContextAnalysis,
	events.CategoryEditField:     ContextPreparation,
	events.CategoryDraft:         ContextPreparation,
	events.CategoryReview:        ContextFiling,
	events.CategorySubmitForm:    ContextFiling,
	events.CategoryStatusCheck:   ContextMonitoring,
	events.CategoryRefresh:       ContextMonitoring,
	events.CategoryDeadline:      ContextMonitoring,
	events.CategoryCelebrateView: ContextCelebration,
	events.CategoryExport:        ContextCelebration,
}

// pageHints maps page-tag substrings to phases, a weaker indicator than the
// event category itself.
var pageHints = map[string]ContextLabel{
	"search":   ContextDiscovery,
	"browse":   ContextDiscovery,
	"analysis": ContextAnalysis,
	"detail":   ContextAnalysis,
	"prepare":  ContextPreparation,
	"draft":    ContextPreparation,
	"filing":   ContextFiling,
	"submit":   ContextFiling,
	"status":   ContextMonitoring,
	"track":    ContextMonitoring,
	"summary":  ContextCelebration,
	"results":  ContextCelebration,
}

// #endregion category-map

// #region score-context

// ScoreContext scores every workflow phase against the windowed events.
// Pure: identical (events, now, cfg) always yields identical signals.
// A zero-event window yields confidence 0 for every label. The result is
// ordered by confidence, ties broken by ContextPriority, and always
// contains one signal per label.
func ScoreContext(evts []events.BehaviorEvent, now time.Time, cfg ScorerConfig) []Signal {
	matches := make(map[ContextLabel]int)
	pages := make(map[ContextLabel]int)
	dwells := make(map[ContextLabel]int)

	for _, ev := range evts {
		label, ok := contextByCategory[ev.Category]
		if !ok {
			continue
		}
		matches[label]++
		if ev.Duration >= cfg.DwellMin {
			dwells[label]++
		}
		if page := strings.ToLower(ev.Page); page != "" {
			for hint, hinted := range pageHints {
				if hinted == label && strings.Contains(page, hint) {
					pages[label]++
					break
				}
			}
		}
	}

	sigs := make([]Signal, 0, len(ContextPriority))
	for _, label := range ContextPriority {
		conf := clamp(
			cfg.MatchWeight*float64(matches[label]) +
				cfg.PageWeight*float64(pages[label]) +
				cfg.DwellWeight*float64(dwells[label]),
		)
		var evidence []string
		if matches[label] > 0 {
			evidence = append(evidence, fmt.Sprintf("%d %s-phase events in window", matches[label], label))
		}
		if dwells[label] > 0 {
			evidence = append(evidence, fmt.Sprintf("%d long dwells", dwells[label]))
		}
		if pages[label] > 0 {
			evidence = append(evidence, fmt.Sprintf("%d page-tag matches", pages[label]))
		}
		sigs = append(sigs, Signal{
			Label:      string(label),
			Confidence: conf,
			Evidence:   evidence,
			Timestamp:  now,
		})
	}

	sortByConfidence(sigs, contextRank)
	return sigs
}

// #endregion score-context

// #region sort

func contextRank(label string) int {
	for i, l := range ContextPriority {
		if string(l) == label {
			return i
		}
	}
	return len(ContextPriority)
}

// sortByConfidence orders signals by descending confidence; equal confidence
// falls back to the axis priority order so ties never resolve arbitrarily.
func sortByConfidence(sigs []Signal, rank func(string) int) {
	sort.SliceStable(sigs, func(i, j int) bool {
		if sigs[i].Confidence != sigs[j].Confidence {
			return sigs[i].Confidence > sigs[j].Confidence
		}
		return rank(sigs[i].Label) < rank(sigs[j].Label)
	})
}

// #endregion sort
