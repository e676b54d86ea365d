package replay

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/charlyptai/adaptive-interface/go-engine/internal/events"
	"github.com/charlyptai/adaptive-interface/go-engine/internal/fuse"
)

// #region fixture-types

// Fixture is the top-level JSON structure for a replay fixture: a recorded
// behavior-event sequence plus the classifications each step should reach.
type Fixture struct {
	Description string               `json:"description"`
	StartTime   time.Time            `json:"start_time"`
	Attributes  FixtureAttributes    `json:"attributes"`
	Events      []FixtureEvent       `json:"events"`
	Expected    []FixtureExpectation `json:"expected"`
}

// FixtureAttributes mirrors fuse.Attributes with JSON tags.
type FixtureAttributes struct {
	DeviceClass    string `json:"device_class"`
	ExperienceTier string `json:"experience_tier"`
}

// FixtureEvent is one recorded interaction, timed as an offset from the
// fixture's start so fixtures stay clock-independent.
type FixtureEvent struct {
	OffsetMS   int64             `json:"offset_ms"`
	Category   string            `json:"category"`
	DurationMS int64             `json:"duration_ms,omitempty"`
	Page       string            `json:"page,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// FixtureExpectation pins the classification after a given step. Empty
// fields are not checked.
type FixtureExpectation struct {
	Step    int    `json:"step"`
	Context string `json:"context,omitempty"`
	Intent  string `json:"intent,omitempty"`
	Emotion string `json:"emotion,omitempty"`
	Layout  string `json:"layout,omitempty"`
}

// #endregion fixture-types

// #region fixture-loader

// LoadFixture reads and parses a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	if len(f.Events) == 0 {
		return nil, fmt.Errorf("fixture %s has no events", path)
	}
	return &f, nil
}

// ToEvent converts a fixture event to a domain event timed off the start.
func (fe *FixtureEvent) ToEvent(start time.Time) events.BehaviorEvent {
	return events.BehaviorEvent{
		Category:  events.Category(fe.Category),
		Timestamp: start.Add(time.Duration(fe.OffsetMS) * time.Millisecond),
		Duration:  time.Duration(fe.DurationMS) * time.Millisecond,
		Page:      fe.Page,
		Metadata:  fe.Metadata,
	}
}

// ToAttributes converts fixture attributes to the fuser's domain type.
func (fa *FixtureAttributes) ToAttributes() fuse.Attributes {
	attrs := fuse.Attributes{
		DeviceClass:    fuse.DeviceClass(fa.DeviceClass),
		ExperienceTier: fuse.ExperienceTier(fa.ExperienceTier),
	}
	if attrs.DeviceClass == "" {
		attrs.DeviceClass = fuse.DeviceDesktop
	}
	if attrs.ExperienceTier == "" {
		attrs.ExperienceTier = fuse.TierIntermediate
	}
	return attrs
}

// #endregion fixture-loader
