package store

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/charlyptai/adaptive-interface/go-engine/internal/fuse"
	"github.com/charlyptai/adaptive-interface/go-engine/internal/persist"
	"github.com/charlyptai/adaptive-interface/go-engine/internal/signals"
)

// #region allow-list

// persistedFields is the allow-list of fields written to the durable store.
// Slice contents and snapshot internals are deliberately excluded; they are
// rebuilt from live behavior on the next session.
var persistedFields = []string{
	"session_id",
	"experience_tier",
	"device_class",
	"preferences",
	"last_snapshot_id",
}

// #endregion allow-list

// #region store-struct

// Store owns the adaptive state. All mutation funnels through Dispatch,
// which performs exactly one transition and is never reentrant; the
// single-writer pipeline guarantees no concurrent callers.
type Store struct {
	state       State
	fetcher     SliceFetcher
	port        persist.Port // nil = in-memory only
	subscribers []Subscriber
	log         zerolog.Logger

	dispatching bool
	dirty       bool
}

// NewStore builds a store with a fresh session, loading allow-listed fields
// from the persistence port when one is supplied.
func NewStore(fetcher SliceFetcher, port persist.Port, log zerolog.Logger) *Store {
	s := &Store{
		state: State{
			SessionID:      uuid.New().String(),
			ExperienceTier: fuse.TierIntermediate,
			DeviceClass:    fuse.DeviceDesktop,
			Preferences:    make(map[string]string),
		},
		fetcher: fetcher,
		port:    port,
		log:     log.With().Str("component", "store").Logger(),
	}
	if port != nil {
		s.loadPersisted()
	}
	return s
}

// Subscribe registers a subscriber. Not safe to call from inside a
// subscriber callback.
func (s *Store) Subscribe(sub Subscriber) {
	s.subscribers = append(s.subscribers, sub)
}

// State returns a copy of the current state.
func (s *Store) State() State {
	return s.state.clone()
}

// #endregion store-struct

// #region dispatch

// Dispatch applies exactly one action. A handler or subscriber that
// synchronously dispatches again gets an error instead of a nested
// transition.
func (s *Store) Dispatch(action Action) error {
	if s.dispatching {
		return fmt.Errorf("reentrant dispatch of %s rejected", action.actionName())
	}
	s.dispatching = true
	defer func() { s.dispatching = false }()

	if err := s.apply(action); err != nil {
		return err
	}

	if s.dirty {
		s.persistAllowListed()
		s.dirty = false
	}

	current := s.state.clone()
	for _, sub := range s.subscribers {
		sub(current)
	}
	return nil
}

func (s *Store) apply(action Action) error {
	switch a := action.(type) {
	case EnterContext:
		s.enterContext(a)
	case SetPreference:
		s.state.Preferences[a.Key] = a.Value
		s.dirty = true
	case SetTier:
		s.state.ExperienceTier = a.Tier
		s.dirty = true
	case SetDevice:
		s.state.DeviceClass = a.Device
		s.dirty = true
	case SnapshotCommitted:
		s.state.LastSnapshotID = a.Snapshot.ID
		s.dirty = true
		if s.state.Slice == nil || s.state.Slice.Context != a.Snapshot.Context {
			s.enterContext(EnterContext{Context: a.Snapshot.Context})
		}
	case SliceDataLoaded:
		if !s.sliceMatches(a.Context, a.Generation) {
			s.log.Debug().Str("context", string(a.Context)).Int("generation", a.Generation).
				Msg("discarding stale slice data")
			return nil
		}
		for k, v := range a.Fields {
			s.state.Slice.Fields[k] = v
		}
		s.state.Slice.Loading = false
		s.state.Slice.FetchErr = ""
	case SliceLoadFailed:
		if !s.sliceMatches(a.Context, a.Generation) {
			return nil
		}
		s.state.Slice.Loading = false
		s.state.Slice.FetchErr = a.Err
		s.log.Warn().Str("context", string(a.Context)).Str("err", a.Err).
			Msg("slice fetch failed")
	default:
		return fmt.Errorf("unknown action %T", action)
	}
	return nil
}

// enterContext drops the previous slice and materializes a fresh one with
// the context's default fields, then starts the background fetch.
func (s *Store) enterContext(a EnterContext) {
	gen := 1
	if s.state.Slice != nil {
		if s.state.Slice.Context == a.Context {
			return // already materialized
		}
		gen = s.state.Slice.Generation + 1
	}

	fields := make(map[string]string)
	for k, v := range sliceDefaults[a.Context] {
		fields[k] = v
	}
	s.state.Slice = &ContextSlice{
		Context:    a.Context,
		Generation: gen,
		Fields:     fields,
		Loading:    s.fetcher != nil,
	}
	if s.fetcher != nil {
		s.fetcher.Fetch(a.Context, gen)
	}
}

// sliceMatches guards the dispatch boundary: completions for any slice that
// is no longer active are silently discarded.
func (s *Store) sliceMatches(ctx signals.ContextLabel, gen int) bool {
	return s.state.Slice != nil &&
		s.state.Slice.Context == ctx &&
		s.state.Slice.Generation == gen
}

// #endregion dispatch

// #region persistence

// PersistedState is the serialized form of the allow-listed fields.
type PersistedState struct {
	SessionID      string            `json:"session_id"`
	ExperienceTier string            `json:"experience_tier"`
	DeviceClass    string            `json:"device_class"`
	Preferences    map[string]string `json:"preferences"`
	LastSnapshotID string            `json:"last_snapshot_id"`
}

// SaveNow writes the allow-listed fields immediately. The engine calls this
// on its periodic save tick and on shutdown.
func (s *Store) SaveNow() error {
	if s.port == nil {
		return nil
	}
	payload, err := json.Marshal(PersistedState{
		SessionID:      s.state.SessionID,
		ExperienceTier: string(s.state.ExperienceTier),
		DeviceClass:    string(s.state.DeviceClass),
		Preferences:    s.state.Preferences,
		LastSnapshotID: s.state.LastSnapshotID,
	})
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	if err := s.port.Save("adaptive_state", payload); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

// persistAllowListed saves after a mutating dispatch. Failure is logged and
// retried on the next periodic save, never surfaced to the dispatcher.
func (s *Store) persistAllowListed() {
	if err := s.SaveNow(); err != nil {
		s.log.Warn().Err(err).Msg("persist failed, continuing in memory")
	}
}

// loadPersisted restores the allow-listed fields saved by a prior session.
func (s *Store) loadPersisted() {
	payload, ok, err := s.port.Load("adaptive_state")
	if err != nil {
		s.log.Warn().Err(err).Msg("load persisted state failed, starting fresh")
		return
	}
	if !ok {
		return
	}
	var saved PersistedState
	if err := json.Unmarshal(payload, &saved); err != nil {
		s.log.Warn().Err(err).Msg("corrupt persisted state, starting fresh")
		return
	}
	if saved.SessionID != "" {
		s.state.SessionID = saved.SessionID
	}
	if saved.ExperienceTier != "" {
		s.state.ExperienceTier = fuse.ExperienceTier(saved.ExperienceTier)
	}
	if saved.DeviceClass != "" {
		s.state.DeviceClass = fuse.DeviceClass(saved.DeviceClass)
	}
	if saved.Preferences != nil {
		s.state.Preferences = saved.Preferences
	}
	s.state.LastSnapshotID = saved.LastSnapshotID
}

// #endregion persistence
