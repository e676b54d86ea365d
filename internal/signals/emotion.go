package signals

import (
	"fmt"
	"math"
	"time"

	"github.com/charlyptai/adaptive-interface/go-engine/internal/events"
)

// #region score-emotion

// ScoreEmotion scores every affective label against the windowed events.
// Evidence is recency-weighted with an exponential half-life so negative
// signals fade as their events age inside the window; the periodic re-score
// tick therefore walks emotion back toward the focused baseline without new
// events arriving. A zero-event window still yields confidence 0 everywhere.
func ScoreEmotion(evts []events.BehaviorEvent, now time.Time, cfg ScorerConfig) []Signal {
	var (
		errorSum, undoSum, helpSum   float64
		dwellSum, submitSum, cheerSum float64
		errorCount, undoCount, helpCount int
		errTimes                     []time.Time
		lastNegative, oldest         time.Time
	)

	for _, ev := range evts {
		if oldest.IsZero() || ev.Timestamp.Before(oldest) {
			oldest = ev.Timestamp
		}
		w := recencyWeight(now.Sub(ev.Timestamp), cfg.DecayHalfLife)
		switch ev.Category {
		case events.CategoryError:
			errorSum += w
			errorCount++
			errTimes = append(errTimes, ev.Timestamp)
			lastNegative = laterOf(lastNegative, ev.Timestamp)
		case events.CategoryUndo:
			undoSum += w
			undoCount++
			lastNegative = laterOf(lastNegative, ev.Timestamp)
		case events.CategoryHelp, events.CategoryTutorial:
			helpSum += w
			helpCount++
			lastNegative = laterOf(lastNegative, ev.Timestamp)
		case events.CategoryReview, events.CategorySubmitForm, events.CategoryExport:
			submitSum += w
		case events.CategoryCelebrateView:
			cheerSum += w
		}
		if ev.Duration >= cfg.DwellMin {
			dwellSum += w
		}
	}

	burst := hasBurst(errTimes, cfg.BurstCount, cfg.BurstWindow)

	frustrated := cfg.ErrorWeight*errorSum + cfg.UndoWeight*undoSum
	if burst {
		frustrated += cfg.BurstBonus
	}

	uncertain := cfg.HelpWeight*helpSum + 0.5*cfg.UndoWeight*undoSum

	stressed := 0.5*cfg.ErrorWeight*errorSum + rateScore(evts, now, oldest, cfg)
	if burst {
		stressed += 0.5 * cfg.BurstBonus
	}

	focused := cfg.DwellWeight * dwellSum
	if len(evts) > 0 {
		focused += cfg.QuietWeight * quietCredit(now, oldest, lastNegative, cfg.QuietHalfLife)
	}

	confident := cfg.SubmitWeight * submitSum
	if errorCount == 0 && undoCount == 0 {
		confident += 0.5 * cfg.SubmitWeight * dwellSum
	}

	excited := cfg.CelebrateWeight*cheerSum + 0.25*cfg.SubmitWeight*submitSum

	build := func(label EmotionLabel, conf float64, evidence []string) Signal {
		return Signal{Label: string(label), Confidence: clamp(conf), Evidence: evidence, Timestamp: now}
	}

	sigs := []Signal{
		build(EmotionFocused, focused, dwellEvidence(dwellSum, lastNegative)),
		build(EmotionConfident, confident, countEvidence("submission-path", int(math.Round(submitSum)))),
		build(EmotionUncertain, uncertain, countEvidence("help-seeking", helpCount)),
		build(EmotionStressed, stressed, countEvidence("error", errorCount)),
		build(EmotionFrustrated, frustrated, frustrationEvidence(errorCount, undoCount, burst)),
		build(EmotionExcited, excited, countEvidence("celebration-view", int(math.Round(cheerSum)))),
	}

	sortByConfidence(sigs, emotionRank)
	return sigs
}

// #endregion score-emotion

// #region indicators

// recencyWeight returns exp2(-age/halfLife): 1.0 for a fresh event, 0.5 at
// one half-life, and so on.
func recencyWeight(age, halfLife time.Duration) float64 {
	if halfLife <= 0 || age <= 0 {
		return 1
	}
	return math.Exp2(-float64(age) / float64(halfLife))
}

// hasBurst reports whether count events fall inside any window-long span.
// Timestamps arrive in insertion order, which the collector keeps sorted.
func hasBurst(times []time.Time, count int, window time.Duration) bool {
	if count <= 0 || len(times) < count {
		return false
	}
	for i := 0; i+count-1 < len(times); i++ {
		if times[i+count-1].Sub(times[i]) <= window {
			return true
		}
	}
	return false
}

// rateScore scores event pace above the calm baseline. The span is floored
// at one minute so a handful of fast events reads as a burst, not a pace.
func rateScore(evts []events.BehaviorEvent, now, oldest time.Time, cfg ScorerConfig) float64 {
	if len(evts) < 2 {
		return 0
	}
	span := now.Sub(oldest)
	if span < time.Minute {
		span = time.Minute
	}
	perMinute := float64(len(evts)) / span.Minutes()
	if perMinute <= cfg.RateBaseline {
		return 0
	}
	return cfg.RateWeight * (perMinute - cfg.RateBaseline)
}

// quietCredit grows toward 1.0 as time passes without negative evidence.
// With no negative event in the window, quiet is the full working span.
func quietCredit(now, oldest, lastNegative time.Time, halfLife time.Duration) float64 {
	var quiet time.Duration
	if lastNegative.IsZero() {
		quiet = now.Sub(oldest)
	} else {
		quiet = now.Sub(lastNegative)
	}
	if quiet <= 0 || halfLife <= 0 {
		return 0
	}
	return 1 - math.Exp2(-float64(quiet)/float64(halfLife))
}

// #endregion indicators

// #region evidence

func countEvidence(kind string, n int) []string {
	if n == 0 {
		return nil
	}
	return []string{fmt.Sprintf("%d %s events in window", n, kind)}
}

func dwellEvidence(dwellSum float64, lastNegative time.Time) []string {
	var out []string
	if dwellSum > 0 {
		out = append(out, fmt.Sprintf("dwell weight %.2f", dwellSum))
	}
	if lastNegative.IsZero() {
		out = append(out, "no corrective events in window")
	}
	return out
}

func frustrationEvidence(errors, undos int, burst bool) []string {
	var out []string
	if errors > 0 {
		out = append(out, fmt.Sprintf("%d error events in window", errors))
	}
	if undos > 0 {
		out = append(out, fmt.Sprintf("%d corrective events in window", undos))
	}
	if burst {
		out = append(out, "error burst detected")
	}
	return out
}

// #endregion evidence

// #region rank

func emotionRank(label string) int {
	for i, l := range EmotionPriority {
		if string(l) == label {
			return i
		}
	}
	return len(EmotionPriority)
}

func laterOf(a, b time.Time) time.Time {
	if b.After(a) {
		return b
	}
	return a
}

// #endregion rank
