package models

// Lesson is a curriculum lesson plan.
type Lesson struct {
	Meta

	Title           string   `json:"title"`
	AgeGroup        AgeGroup `json:"ageGroup"`
	DurationMinutes int      `json:"durationMinutes"`

	// Domain is the developmental domain, e.g. "literacy", "math", "motor".
	Domain string `json:"domain"`

	Objectives []string   `json:"objectives"`
	Materials  []string   `json:"materials"`
	Activities []Activity `json:"activities"`
	Assessment string     `json:"assessment,omitempty"`

	// RemixedFrom is the id of the lesson this one was adapted from.
	RemixedFrom string `json:"remixedFrom,omitempty"`
}

// Activity is one step of a lesson.
type Activity struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Minutes     int    `json:"minutes"`
}
