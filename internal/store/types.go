package store

import (
	"github.com/charlyptai/adaptive-interface/go-engine/internal/fuse"
	"github.com/charlyptai/adaptive-interface/go-engine/internal/signals"
)

// #region state

// ContextSlice is the materialized working set for the active workflow
// context. At most one slice exists at a time; entering a new context
// discards the old slice entirely so memory stays bounded.
type ContextSlice struct {
	Context    signals.ContextLabel
	Generation int
	Fields     map[string]string
	Loading    bool
	FetchErr   string
}

// State is the full adaptive state. Dispatch is the only legal mutation
// path; everything handed to subscribers or persisted is a copy.
type State struct {
	SessionID      string
	ExperienceTier fuse.ExperienceTier
	DeviceClass    fuse.DeviceClass
	Preferences    map[string]string
	LastSnapshotID string
	Slice          *ContextSlice
}

// clone deep-copies the state so subscribers can never mutate the original.
func (s State) clone() State {
	out := s
	out.Preferences = make(map[string]string, len(s.Preferences))
	for k, v := range s.Preferences {
		out.Preferences[k] = v
	}
	if s.Slice != nil {
		slice := *s.Slice
		slice.Fields = make(map[string]string, len(s.Slice.Fields))
		for k, v := range s.Slice.Fields {
			slice.Fields[k] = v
		}
		out.Slice = &slice
	}
	return out
}

// #endregion state

// #region actions

// Action is a single state transition request.
type Action interface {
	actionName() string
}

// EnterContext materializes a fresh slice for the named context and starts
// its background fetch.
type EnterContext struct {
	Context signals.ContextLabel
}

// SetPreference upserts one preference key.
type SetPreference struct {
	Key   string
	Value string
}

// SetTier records the declared experience tier from the profile collaborator.
type SetTier struct {
	Tier fuse.ExperienceTier
}

// SetDevice records the viewport class from the platform collaborator.
type SetDevice struct {
	Device fuse.DeviceClass
}

// SnapshotCommitted records the latest authoritative snapshot ID and follows
// its context.
type SnapshotCommitted struct {
	Snapshot fuse.ContextSnapshot
}

// SliceDataLoaded delivers a completed background fetch. Stale generations
// are discarded at the dispatch boundary.
type SliceDataLoaded struct {
	Context    signals.ContextLabel
	Generation int
	Fields     map[string]string
}

// SliceLoadFailed records a fetch failure into the slice's error field.
type SliceLoadFailed struct {
	Context    signals.ContextLabel
	Generation int
	Err        string
}

func (EnterContext) actionName() string      { return "enter_context" }
func (SetPreference) actionName() string     { return "set_preference" }
func (SetTier) actionName() string           { return "set_tier" }
func (SetDevice) actionName() string         { return "set_device" }
func (SnapshotCommitted) actionName() string { return "snapshot_committed" }
func (SliceDataLoaded) actionName() string   { return "slice_data_loaded" }
func (SliceLoadFailed) actionName() string   { return "slice_load_failed" }

// #endregion actions

// #region ports

// SliceFetcher starts the background load for a freshly materialized slice.
// Implementations must not block; completion re-enters the store through a
// later Dispatch of SliceDataLoaded or SliceLoadFailed.
type SliceFetcher interface {
	Fetch(ctx signals.ContextLabel, generation int)
}

// Subscriber receives a state copy after each completed transition.
type Subscriber func(State)

// #endregion ports

// #region slice-defaults

// sliceDefaults seeds a freshly materialized slice per context. Background
// fetches overwrite these once data arrives.
var sliceDefaults = map[signals.ContextLabel]map[string]string{
	signals.ContextDiscovery: {
		"search_query": "",
		"result_count": "0",
	},
	signals.ContextAnalysis: {
		"property_id":      "",
		"comparable_count": "0",
	},
	signals.ContextPreparation: {
		"draft_id":       "",
		"evidence_count": "0",
	},
	signals.ContextFiling: {
		"step":      "review",
		"submitted": "false",
	},
	signals.ContextMonitoring: {
		"case_id":     "",
		"case_status": "unknown",
	},
	signals.ContextCelebration: {
		"outcome": "",
		"savings": "0",
	},
}

// #endregion slice-defaults
