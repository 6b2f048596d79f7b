package families

import (
	"context"
	"fmt"
	"time"

	"github.com/brightbeginnings/daycare/internal/auth"
	"github.com/brightbeginnings/daycare/internal/models"
)

// DemoPassword is the portal password of every seeded family.
const DemoPassword = "welcome-home"

func birth(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Seed populates an empty families collection with demo accounts.
func (s *Store) Seed(ctx context.Context) error {
	hash, err := auth.HashSecret(DemoPassword)
	if err != nil {
		return err
	}
	samples := []models.Family{
		{
			Meta:         models.Meta{ID: "fam_rivera"},
			Name:         "Rivera",
			Email:        "rivera@example.com",
			Phone:        "555-0142",
			PasswordHash: hash,
			Parents: []models.Guardian{
				{Name: "Elena Rivera", Relationship: "mother", Phone: "555-0142", CanPickUp: true},
				{Name: "Tomas Rivera", Relationship: "father", Phone: "555-0143", CanPickUp: true},
			},
			Children: []models.Child{
				{ID: "child_mateo", FirstName: "Mateo", LastName: "Rivera", BirthDate: birth(2025, time.March, 2), Classroom: "Sunflowers", AgeGroup: models.AgeInfant},
				{
					ID: "child_lucia", FirstName: "Lucia", LastName: "Rivera", BirthDate: birth(2022, time.June, 18),
					Classroom: "Oak Room", AgeGroup: models.AgePreschool, Allergies: []string{"peanuts"},
					Reports: []models.ProgressReport{{
						ID:      "rpt_lucia_fall",
						Date:    birth(2026, time.September, 30),
						Author:  "Dana Whitfield",
						Summary: "Lucia is writing her name and loves the counting games.",
						Ratings: map[string]string{"literacy": "meeting", "social": "exceeding"},
					}},
				},
			},
		},
		{
			Meta:         models.Meta{ID: "fam_chen"},
			Name:         "Chen",
			Email:        "chen@example.com",
			PasswordHash: hash,
			Parents: []models.Guardian{
				{Name: "Wei Chen", Relationship: "father", CanPickUp: true},
				{Name: "Grandma Li", Relationship: "grandmother", CanPickUp: false},
			},
			Children: []models.Child{
				{ID: "child_ava", FirstName: "Ava", LastName: "Chen", BirthDate: birth(2024, time.August, 9), Classroom: "Bluebirds", AgeGroup: models.AgeToddler, Allergies: []string{"dairy"}},
			},
		},
	}
	if _, err := s.Families.SeedIfEmpty(ctx, samples); err != nil {
		return fmt.Errorf("failed to seed families: %w", err)
	}
	return nil
}
