package models

import "time"

// NewsUpdate is an announcement shown on the public site and parent dashboard.
type NewsUpdate struct {
	Meta

	Title    string `json:"title"`
	Body     string `json:"body"`
	Author   string `json:"author"`
	Category string `json:"category,omitempty"`
	Pinned   bool   `json:"pinned"`

	// PublishedAt is nil for drafts. A future time schedules publication.
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
}

// TourProgress tracks how far a user got through a guided tour. The record id
// is the tour id.
type TourProgress struct {
	Meta

	CompletedAt     *time.Time `json:"completedAt,omitempty"`
	LastStepReached int        `json:"lastStepReached"`
	TotalSteps      int        `json:"totalSteps"`
}
