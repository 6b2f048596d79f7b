package remix

import (
	"strings"

	"github.com/brightbeginnings/daycare/internal/models"
	"github.com/brightbeginnings/daycare/internal/storage"
)

// Request asks for an existing lesson to be adapted. Exactly one of
// BaseLessonID and BaseLesson is normally set; when both are, the id wins.
type Request struct {
	BaseLessonID    string          `json:"baseLessonId,omitempty"`
	BaseLesson      *models.Lesson  `json:"baseLesson,omitempty"`
	NewAgeGroup     models.AgeGroup `json:"newAgeGroup,omitempty"`
	NewDuration     int             `json:"newDuration,omitempty"`
	NewDomain       string          `json:"newDomain,omitempty"`
	AdaptationNotes string          `json:"adaptationNotes,omitempty"`
	Save            bool            `json:"save,omitempty"`
}

// Result is a generated lesson and whether it was persisted.
type Result struct {
	Lesson models.Lesson `json:"lesson"`
	Saved  bool          `json:"saved"`
}

// hasBase reports whether the request names a base lesson at all.
func (r Request) hasBase() bool {
	return strings.TrimSpace(r.BaseLessonID) != "" || r.BaseLesson != nil
}

// hasAdaptation reports whether at least one adaptation parameter is set.
func (r Request) hasAdaptation() bool {
	return r.NewAgeGroup != "" ||
		r.NewDuration > 0 ||
		strings.TrimSpace(r.NewDomain) != "" ||
		strings.TrimSpace(r.AdaptationNotes) != ""
}

// validateParams checks the adaptation parameters themselves.
func (r Request) validateParams() error {
	if !r.hasAdaptation() {
		return storage.Invalid("", "At least one adaptation parameter is required (newAgeGroup, newDuration, newDomain or adaptationNotes)")
	}
	if r.NewAgeGroup != "" && !r.NewAgeGroup.Valid() {
		return storage.Invalid("newAgeGroup", "unknown age group %q", r.NewAgeGroup)
	}
	if r.NewDuration < 0 {
		return storage.Invalid("newDuration", "cannot be negative")
	}
	return nil
}
