package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/charlyptai/adaptive-interface/go-engine/internal/replay"
)

// #region main

func main() {
	fixturePath := flag.String("fixture", "", "path to fixture JSON")
	jsonOut := flag.Bool("json", false, "output step results as JSON")
	verbose := flag.Bool("v", false, "print every step, not just commits")
	flag.Parse()

	if *fixturePath == "" {
		fmt.Fprintln(os.Stderr, "usage: replay --fixture path/to/fixture.json [--json] [-v]")
		os.Exit(2)
	}

	fixture, err := replay.LoadFixture(*fixturePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load fixture: %v\n", err)
		os.Exit(2)
	}

	results, summary := replay.Replay(fixture, zerolog.Nop())

	if *jsonOut {
		if err := printJSON(results, summary); err != nil {
			fmt.Fprintf(os.Stderr, "encode: %v\n", err)
			os.Exit(1)
		}
	} else {
		printTable(fixture, results, summary, *verbose)
	}

	if len(summary.Mismatches) > 0 {
		os.Exit(1)
	}
}

// #endregion main

// #region output

func printTable(fixture *replay.Fixture, results []replay.StepResult, summary replay.Summary, verbose bool) {
	if fixture.Description != "" {
		fmt.Printf("# %s\n\n", fixture.Description)
	}

	fmt.Printf("%-4s  %-16s  %-9s  %-30s  %-13s  %s\n",
		"Step", "Event", "Outcome", "Snapshot", "Layout", "Next")
	for _, r := range results {
		outcome := "retain"
		if r.Committed {
			outcome = "commit"
		} else if !verbose {
			continue
		}
		snapshot := fmt.Sprintf("%s/%s/%s", r.Snapshot.Context, r.Snapshot.Intent, r.Snapshot.Emotion)
		fmt.Printf("%-4d  %-16s  %-9s  %-30s  %-13s  %s (%.2f)\n",
			r.Step, r.Event.Category, outcome, snapshot,
			r.Composition.Layout, r.Prediction.NextState, r.Prediction.Confidence)
	}

	fmt.Printf("\n%d steps: %d commits, %d retains\n",
		summary.TotalSteps, summary.Commits, summary.Retains)
	fmt.Printf("final: %s/%s/%s confidence=%d\n",
		summary.FinalSnapshot.Context, summary.FinalSnapshot.Intent,
		summary.FinalSnapshot.Emotion, summary.FinalSnapshot.ConfidenceLevel)

	if len(summary.Mismatches) == 0 {
		if len(fixture.Expected) > 0 {
			fmt.Printf("all %d expectations met\n", len(fixture.Expected))
		}
		return
	}
	fmt.Printf("\n%d expectation mismatches:\n", len(summary.Mismatches))
	for _, m := range summary.Mismatches {
		fmt.Printf("  step %d: %s expected %q, got %q\n", m.Step, m.Field, m.Expected, m.Actual)
	}
}

func printJSON(results []replay.StepResult, summary replay.Summary) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		Results []replay.StepResult `json:"results"`
		Summary replay.Summary      `json:"summary"`
	}{results, summary})
}

// #endregion output
