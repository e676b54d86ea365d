package main

import (
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	_ "modernc.org/sqlite"

	"github.com/charlyptai/adaptive-interface/go-engine/internal/audit"
	"github.com/charlyptai/adaptive-interface/go-engine/internal/predict"
	"github.com/charlyptai/adaptive-interface/go-engine/internal/store"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to adaptive_ui.db")
	last := flag.Int("last", 20, "show N most recent decisions")
	section := flag.String("section", "all", "state | transitions | patterns | decisions | all")
	jsonOut := flag.Bool("json", false, "output as JSON instead of text")
	flag.Parse()

	if *dbPath == "" {
		fmt.Fprintln(os.Stderr, "usage: inspect --db path/to/adaptive_ui.db [--last N] [--section name] [--json]")
		os.Exit(2)
	}

	db, err := sql.Open("sqlite", *dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	run := func(name string, fn func(*sql.DB, int, bool) error) {
		if *section != "all" && *section != name {
			return
		}
		if err := fn(db, *last, *jsonOut); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", name, err)
			os.Exit(1)
		}
	}

	run("state", showState)
	run("transitions", showTransitions)
	run("patterns", showPatterns)
	run("decisions", showDecisions)
}

// #endregion main

// #region state

func showState(db *sql.DB, _ int, jsonOut bool) error {
	var payload []byte
	err := db.QueryRow(`SELECT value FROM kv_state WHERE key = 'adaptive_state'`).Scan(&payload)
	if err == sql.ErrNoRows {
		fmt.Println("== state ==\n(no persisted state)")
		return nil
	}
	if err != nil {
		return err
	}

	if jsonOut {
		os.Stdout.Write(payload)
		fmt.Println()
		return nil
	}

	var st store.PersistedState
	if err := json.Unmarshal(payload, &st); err != nil {
		return fmt.Errorf("parse persisted state: %w", err)
	}
	fmt.Println("== state ==")
	fmt.Printf("session:  %s\n", st.SessionID)
	fmt.Printf("tier:     %s\n", st.ExperienceTier)
	fmt.Printf("device:   %s\n", st.DeviceClass)
	fmt.Printf("snapshot: %s\n", st.LastSnapshotID)
	for k, v := range st.Preferences {
		fmt.Printf("pref %s = %s\n", k, v)
	}
	fmt.Println()
	return nil
}

// #endregion state

// #region transitions

func showTransitions(db *sql.DB, _ int, jsonOut bool) error {
	s, err := predict.NewStore(db)
	if err != nil {
		return err
	}
	edges, err := s.LoadTransitions()
	if err != nil {
		return err
	}

	if jsonOut {
		return encode(edges)
	}
	fmt.Println("== transitions ==")
	if len(edges) == 0 {
		fmt.Println("(none)")
	}
	for _, e := range edges {
		fmt.Printf("%-24s -> %-24s %d\n", e.FromKey, e.ToKey, e.Count)
	}
	fmt.Println()
	return nil
}

// #endregion transitions

// #region patterns

func showPatterns(db *sql.DB, _ int, jsonOut bool) error {
	s, err := predict.NewStore(db)
	if err != nil {
		return err
	}
	pats, err := s.LoadPatterns()
	if err != nil {
		return err
	}

	if jsonOut {
		return encode(pats)
	}
	fmt.Println("== patterns ==")
	if len(pats) == 0 {
		fmt.Println("(none)")
	}
	for _, p := range pats {
		fmt.Printf("%-24s -> %-24s freq=%d conf=%.2f last=%s\n",
			p.FromKey, p.ToKey, p.Frequency, p.Confidence,
			p.LastSeen.Format("2006-01-02 15:04:05"))
	}
	fmt.Println()
	return nil
}

// #endregion patterns

// #region decisions

func showDecisions(db *sql.DB, last int, jsonOut bool) error {
	l, err := audit.NewLog(db)
	if err != nil {
		return err
	}
	entries, err := l.Recent(last)
	if err != nil {
		return err
	}

	if jsonOut {
		return encode(entries)
	}
	fmt.Println("== decisions ==")
	if len(entries) == 0 {
		fmt.Println("(none)")
	}
	for _, e := range entries {
		fmt.Printf("%s  %-16s  %-24s  %s\n",
			e.CreatedAt.Format("15:04:05"), e.Kind, e.StateKey, e.Reason)
	}
	return nil
}

// #endregion decisions

// #region helpers

func encode(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// #endregion helpers
