package employees

import (
	"context"
	"sort"

	"github.com/brightbeginnings/daycare/internal/models"
)

// ChildrenPerStaff is the maximum number of children one staff member may
// supervise, by age group.
var ChildrenPerStaff = map[models.AgeGroup]int{
	models.AgeInfant:    4,
	models.AgeToddler:   6,
	models.AgePreschool: 10,
	models.AgeSchoolAge: 15,
}

// RoomLoad is the headcount of one classroom. AgeGroup is the youngest group
// present, which sets the ratio.
type RoomLoad struct {
	Classroom string          `json:"classroom"`
	AgeGroup  models.AgeGroup `json:"ageGroup"`
	Children  int             `json:"children"`
	Staff     int             `json:"staff"`
}

// RatioStatus is the compliance verdict for one classroom.
type RatioStatus struct {
	RoomLoad
	MaxPerStaff int  `json:"maxPerStaff"`
	StaffNeeded int  `json:"staffNeeded"`
	Compliant   bool `json:"compliant"`
}

// CheckRatios evaluates each room against ChildrenPerStaff. Rooms with an
// unknown age group use the strictest (infant) ratio. Output is sorted with
// non-compliant rooms first, then by classroom name.
func CheckRatios(rooms []RoomLoad) []RatioStatus {
	out := make([]RatioStatus, 0, len(rooms))
	for _, room := range rooms {
		limit, ok := ChildrenPerStaff[room.AgeGroup]
		if !ok {
			limit = ChildrenPerStaff[models.AgeInfant]
		}
		needed := (room.Children + limit - 1) / limit
		out = append(out, RatioStatus{
			RoomLoad:    room,
			MaxPerStaff: limit,
			StaffNeeded: needed,
			Compliant:   room.Staff >= needed,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Compliant != out[j].Compliant {
			return !out[i].Compliant
		}
		return out[i].Classroom < out[j].Classroom
	})
	return out
}

// StaffOnDuty counts clocked-in staff per classroom.
func (s *Store) StaffOnDuty(ctx context.Context) (map[string]int, error) {
	open, err := s.OpenEntries(ctx)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for _, e := range open {
		if e.Classroom == "" {
			continue
		}
		counts[e.Classroom]++
	}
	return counts, nil
}
