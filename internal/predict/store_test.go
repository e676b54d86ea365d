package predict

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	_ "modernc.org/sqlite"
)

// #region helpers

func tempStore(t *testing.T) (*Store, *sql.DB) {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "predict.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	s, err := NewStore(db)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return s, db
}

// #endregion helpers

// #region transition-tests

func TestStore_UpsertAndLoadTransitions(t *testing.T) {
	s, _ := tempStore(t)

	for i := 0; i < 3; i++ {
		if err := s.UpsertTransition("analysis:analyze", "preparation:create"); err != nil {
			t.Fatalf("UpsertTransition: %v", err)
		}
	}
	if err := s.UpsertTransition("analysis:analyze", "filing:submit"); err != nil {
		t.Fatalf("UpsertTransition: %v", err)
	}

	edges, err := s.LoadTransitions()
	if err != nil {
		t.Fatalf("LoadTransitions: %v", err)
	}
	if len(edges) != 2 {
		t.Fatalf("expected 2 edges, got %d", len(edges))
	}
	counts := make(map[string]int)
	for _, e := range edges {
		counts[e.ToKey] = e.Count
	}
	if counts["preparation:create"] != 3 {
		t.Errorf("expected count 3, got %d", counts["preparation:create"])
	}
	if counts["filing:submit"] != 1 {
		t.Errorf("expected count 1, got %d", counts["filing:submit"])
	}
}

// #endregion transition-tests

// #region pattern-tests

func TestStore_SaveAndLoadPatterns(t *testing.T) {
	s, _ := tempStore(t)

	pat := BehaviorPattern{
		ID:         "pat-1",
		FromKey:    "discovery:explore",
		ToKey:      "analysis:analyze",
		Frequency:  4,
		LastSeen:   time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC),
		Confidence: 0.59,
	}
	if err := s.SavePattern(pat); err != nil {
		t.Fatalf("SavePattern: %v", err)
	}

	// Upsert on the same (from, to) replaces the row.
	pat.Frequency = 5
	pat.Confidence = 0.67
	if err := s.SavePattern(pat); err != nil {
		t.Fatalf("SavePattern upsert: %v", err)
	}

	pats, err := s.LoadPatterns()
	if err != nil {
		t.Fatalf("LoadPatterns: %v", err)
	}
	if len(pats) != 1 {
		t.Fatalf("expected 1 pattern, got %d", len(pats))
	}
	got := pats[0]
	if got.Frequency != 5 || got.Confidence != 0.67 {
		t.Errorf("expected upserted values, got %+v", got)
	}
	if !got.LastSeen.Equal(pat.LastSeen) {
		t.Errorf("expected last seen %v, got %v", pat.LastSeen, got.LastSeen)
	}
}

// #endregion pattern-tests

// #region restore-tests

func TestNewPredictor_RestoresFromMirror(t *testing.T) {
	s, _ := tempStore(t)

	for i := 0; i < 3; i++ {
		if err := s.UpsertTransition("analysis:analyze", "preparation:create"); err != nil {
			t.Fatalf("UpsertTransition: %v", err)
		}
	}
	if err := s.SavePattern(BehaviorPattern{
		ID: "pat-1", FromKey: "analysis:analyze", ToKey: "preparation:create",
		Frequency: 3, LastSeen: time.Now().UTC(), Confidence: 0.49,
	}); err != nil {
		t.Fatalf("SavePattern: %v", err)
	}

	p := NewPredictor(DefaultConfig(), s, zerolog.Nop())
	pred := p.PredictNext("analysis:analyze", nil, time.Now().UTC())
	if pred.NextState != "preparation:create" {
		t.Errorf("expected restored prediction, got %s", pred.NextState)
	}
	if pred.Confidence <= 0.9 {
		t.Errorf("expected near-certain restored confidence, got %f", pred.Confidence)
	}
}

// #endregion restore-tests
