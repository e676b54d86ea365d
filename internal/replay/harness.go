package replay

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/charlyptai/adaptive-interface/go-engine/internal/compose"
	"github.com/charlyptai/adaptive-interface/go-engine/internal/events"
	"github.com/charlyptai/adaptive-interface/go-engine/internal/fuse"
	"github.com/charlyptai/adaptive-interface/go-engine/internal/predict"
	"github.com/charlyptai/adaptive-interface/go-engine/internal/signals"
)

// #region types

// StepResult captures the pipeline outcome after replaying one event.
type StepResult struct {
	Step        int
	Event       events.BehaviorEvent
	Committed   bool
	Snapshot    fuse.ContextSnapshot
	Composition compose.Composition
	Prediction  predict.Prediction
}

// Mismatch records one expectation the replay failed to meet.
type Mismatch struct {
	Step     int
	Field    string
	Expected string
	Actual   string
}

// Summary provides aggregate stats from a replay run.
type Summary struct {
	TotalSteps    int
	Commits       int
	Retains       int
	Mismatches    []Mismatch
	FinalSnapshot fuse.ContextSnapshot
}

// #endregion types

// #region replay

// Replay drives a fixture through the full in-memory pipeline, one event per
// step: collect, score, fuse, predict, compose. No persistence and no
// goroutines; identical fixtures always produce identical results.
func Replay(fixture *Fixture, log zerolog.Logger) ([]StepResult, Summary) {
	start := fixture.StartTime
	if start.IsZero() {
		start = time.Now().UTC()
	}
	attrs := fixture.Attributes.ToAttributes()

	clock := start
	collector := events.NewCollectorWithClock(events.DefaultRetention, func() time.Time { return clock })
	fuser := fuse.NewFuser(fuse.DefaultConfig())
	predictor := predict.NewPredictor(predict.DefaultConfig(), nil, log)
	scorerCfg := signals.DefaultScorerConfig()

	prev := fuse.DefaultSnapshot(attrs, start)
	results := make([]StepResult, 0, len(fixture.Events))

	for i, fe := range fixture.Events {
		ev := fe.ToEvent(start)
		clock = ev.Timestamp
		collector.Record(ev)
		now := ev.Timestamp
		window := collector.Window(events.DefaultRetention)

		ctxSigs := signals.ScoreContext(window, now, scorerCfg)
		intentSigs := signals.ScoreIntent(window, now, scorerCfg)
		emoSigs := signals.ScoreEmotion(window, now, scorerCfg)

		snap := fuser.Fuse(ctxSigs, intentSigs, emoSigs, prev, attrs, now)
		committed := snap.ID != prev.ID
		if committed {
			predictor.Record(snap)
			prev = snap
		}

		results = append(results, StepResult{
			Step:        i,
			Event:       ev,
			Committed:   committed,
			Snapshot:    prev,
			Composition: compose.Compose(prev),
			Prediction:  predictor.PredictNext(prev.StateKey(), window, now),
		})
	}

	return results, summarize(fixture, results, prev)
}

// summarize counts commits and checks every fixture expectation against the
// replayed results.
func summarize(fixture *Fixture, results []StepResult, final fuse.ContextSnapshot) Summary {
	s := Summary{
		TotalSteps:    len(results),
		FinalSnapshot: final,
	}
	for _, r := range results {
		if r.Committed {
			s.Commits++
		} else {
			s.Retains++
		}
	}

	for _, exp := range fixture.Expected {
		if exp.Step < 0 || exp.Step >= len(results) {
			s.Mismatches = append(s.Mismatches, Mismatch{
				Step: exp.Step, Field: "step",
				Expected: "within replayed range",
				Actual:   fmt.Sprintf("%d steps replayed", len(results)),
			})
			continue
		}
		r := results[exp.Step]
		check := func(field, want, got string) {
			if want != "" && want != got {
				s.Mismatches = append(s.Mismatches, Mismatch{
					Step: exp.Step, Field: field, Expected: want, Actual: got,
				})
			}
		}
		check("context", exp.Context, string(r.Snapshot.Context))
		check("intent", exp.Intent, string(r.Snapshot.Intent))
		check("emotion", exp.Emotion, string(r.Snapshot.Emotion))
		check("layout", exp.Layout, string(r.Composition.Layout))
	}
	return s
}

// #endregion replay
