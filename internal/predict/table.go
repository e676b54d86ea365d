package predict

import "math"

// #region table

// Table is an online frequency table over (context,intent) state keys.
// Every row's probabilities sum to 1.0 (within tolerance) after each update.
type Table struct {
	counts    map[string]map[string]float64
	probs     map[string]map[string]float64
	tolerance float64
}

// NewTable creates an empty transition table.
func NewTable(tolerance float64) *Table {
	return &Table{
		counts:    make(map[string]map[string]float64),
		probs:     make(map[string]map[string]float64),
		tolerance: tolerance,
	}
}

// #endregion table

// #region record

// Record increments the (from -> to) count and renormalizes the row.
func (t *Table) Record(from, to string) {
	if t.counts[from] == nil {
		t.counts[from] = make(map[string]float64)
	}
	t.counts[from][to]++
	t.renormalize(from)
}

// Seed loads a pre-existing count without touching other rows. Used when
// restoring the table from the durable mirror.
func (t *Table) Seed(from, to string, count float64) {
	if count <= 0 {
		return
	}
	if t.counts[from] == nil {
		t.counts[from] = make(map[string]float64)
	}
	t.counts[from][to] = count
	t.renormalize(from)
}

// #endregion record

// #region row

// Row returns a copy of the normalized probability row for a state key,
// or nil when the key has never been observed.
func (t *Table) Row(from string) map[string]float64 {
	row, ok := t.probs[from]
	if !ok {
		return nil
	}
	out := make(map[string]float64, len(row))
	for k, v := range row {
		out[k] = v
	}
	return out
}

// Count returns the raw observation count for (from -> to).
func (t *Table) Count(from, to string) float64 {
	return t.counts[from][to]
}

// Keys returns the observed source state keys.
func (t *Table) Keys() []string {
	out := make([]string, 0, len(t.probs))
	for k := range t.probs {
		out = append(out, k)
	}
	return out
}

// #endregion row

// #region normalize

// renormalize rebuilds the probability row from counts and verifies the
// invariant. A row that cannot be normalized within tolerance — NaN or a
// non-positive total — is reset to a uniform distribution over its observed
// destinations rather than left inconsistent.
func (t *Table) renormalize(from string) {
	counts := t.counts[from]
	if len(counts) == 0 {
		delete(t.probs, from)
		return
	}

	var total float64
	for _, c := range counts {
		total += c
	}

	row := make(map[string]float64, len(counts))
	if total <= 0 || math.IsNaN(total) || math.IsInf(total, 0) {
		t.resetUniform(from)
		return
	}
	var sum float64
	for dest, c := range counts {
		p := c / total
		row[dest] = p
		sum += p
	}
	if math.Abs(sum-1.0) > t.tolerance {
		t.resetUniform(from)
		return
	}
	t.probs[from] = row
}

// resetUniform recovers a corrupt row: uniform probability over observed
// destinations, counts reset to 1 so future updates stay consistent.
func (t *Table) resetUniform(from string) {
	counts := t.counts[from]
	n := float64(len(counts))
	row := make(map[string]float64, len(counts))
	for dest := range counts {
		counts[dest] = 1
		row[dest] = 1 / n
	}
	t.probs[from] = row
}

// #endregion normalize
