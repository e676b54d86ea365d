package predict

import (
	"fmt"
	"math"
	"testing"
)

// #region helpers

// assertRowNormalized fails unless the row for key sums to 1.0 within tolerance.
func assertRowNormalized(t *testing.T, tbl *Table, key string) {
	t.Helper()
	row := tbl.Row(key)
	if row == nil {
		t.Fatalf("expected a row for %s", key)
	}
	var sum float64
	for _, p := range row {
		sum += p
	}
	if math.Abs(sum-1.0) > 1e-6 {
		t.Errorf("row %s sums to %f, want 1.0", key, sum)
	}
}

// #endregion helpers

// #region normalization

func TestTable_RowSumsToOneAfterEachUpdate(t *testing.T) {
	tbl := NewTable(1e-6)
	// An arbitrary but deterministic recording sequence.
	transitions := []struct{ from, to string }{
		{"discovery:explore", "analysis:analyze"},
		{"discovery:explore", "analysis:analyze"},
		{"discovery:explore", "preparation:create"},
		{"analysis:analyze", "preparation:create"},
		{"discovery:explore", "monitoring:track"},
		{"analysis:analyze", "filing:submit"},
		{"discovery:explore", "analysis:analyze"},
	}
	for i, tr := range transitions {
		tbl.Record(tr.from, tr.to)
		assertRowNormalized(t, tbl, tr.from)
		_ = i
	}
}

func TestTable_ManyDestinations(t *testing.T) {
	tbl := NewTable(1e-6)
	for i := 0; i < 50; i++ {
		tbl.Record("discovery:explore", fmt.Sprintf("dest:%d", i%7))
		assertRowNormalized(t, tbl, "discovery:explore")
	}
}

func TestTable_UnseenKeyHasNoRow(t *testing.T) {
	tbl := NewTable(1e-6)
	if row := tbl.Row("never:seen"); row != nil {
		t.Errorf("expected nil row for unseen key, got %v", row)
	}
}

// #endregion normalization

// #region corruption

func TestTable_CorruptRowResetsToUniform(t *testing.T) {
	tbl := NewTable(1e-6)
	tbl.Record("analysis:analyze", "preparation:create")
	tbl.Record("analysis:analyze", "filing:submit")

	// Corrupt the counts so renormalization cannot succeed.
	tbl.counts["analysis:analyze"]["preparation:create"] = math.NaN()
	tbl.Record("analysis:analyze", "filing:submit")

	row := tbl.Row("analysis:analyze")
	if len(row) != 2 {
		t.Fatalf("expected 2 destinations after reset, got %d", len(row))
	}
	for dest, p := range row {
		if math.Abs(p-0.5) > 1e-9 {
			t.Errorf("destination %s: expected uniform 0.5, got %f", dest, p)
		}
	}
	assertRowNormalized(t, tbl, "analysis:analyze")
}

func TestTable_NegativeTotalResetsToUniform(t *testing.T) {
	tbl := NewTable(1e-6)
	tbl.Record("filing:submit", "monitoring:track")
	tbl.counts["filing:submit"]["monitoring:track"] = -3

	tbl.Record("filing:submit", "celebration:track")
	assertRowNormalized(t, tbl, "filing:submit")
}

// #endregion corruption

// #region seed

func TestTable_SeedRestoresCounts(t *testing.T) {
	tbl := NewTable(1e-6)
	tbl.Seed("discovery:explore", "analysis:analyze", 3)
	tbl.Seed("discovery:explore", "monitoring:track", 1)

	row := tbl.Row("discovery:explore")
	if math.Abs(row["analysis:analyze"]-0.75) > 1e-9 {
		t.Errorf("expected 0.75, got %f", row["analysis:analyze"])
	}
	assertRowNormalized(t, tbl, "discovery:explore")
}

func TestTable_SeedIgnoresNonPositive(t *testing.T) {
	tbl := NewTable(1e-6)
	tbl.Seed("discovery:explore", "analysis:analyze", 0)
	if row := tbl.Row("discovery:explore"); row != nil {
		t.Errorf("expected no row from zero seed, got %v", row)
	}
}

// #endregion seed
