package events

import "time"

// #region category
// Category tags a behavior event with the kind of interaction it captures.
type Category string

const (
	CategorySearch        Category = "search"
	CategoryFilter        Category = "filter"
	CategoryOpenDocument  Category = "open_document"
	CategoryCompare       Category = "compare"
	CategoryAnnotate      Category = "annotate"
	CategoryEditField     Category = "edit_field"
	CategoryDraft         Category = "draft"
	CategoryReview        Category = "review"
	CategorySubmitForm    Category = "submit_form"
	CategoryStatusCheck   Category = "status_check"
	CategoryRefresh       Category = "refresh"
	CategoryExport        Category = "export"
	CategoryError         Category = "error"
	CategoryUndo          Category = "undo"
	CategoryHelp          Category = "help"
	CategoryTutorial      Category = "tutorial"
	CategoryCelebrateView Category = "celebrate_view"
	CategoryDeadline      Category = "deadline_warning"
)

// #endregion category

// #region behavior-event
// BehaviorEvent is a single recorded user interaction. Events are immutable
// once recorded; the collector never mutates them after Record.
type BehaviorEvent struct {
	Category  Category          `json:"category"`
	Timestamp time.Time         `json:"timestamp"`
	Duration  time.Duration     `json:"duration,omitempty"`
	Page      string            `json:"page,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// #endregion behavior-event
