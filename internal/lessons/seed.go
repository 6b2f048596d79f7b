package lessons

import (
	"context"
	"fmt"

	"github.com/brightbeginnings/daycare/internal/models"
)

var sampleLessons = []models.Lesson{
	{
		Meta:            models.Meta{ID: "lesson_colors"},
		Title:           "Color Mixing Discovery",
		AgeGroup:        models.AgePreschool,
		DurationMinutes: 30,
		Domain:          "science",
		Objectives:      []string{"Name primary colors", "Predict what happens when two colors mix"},
		Materials:       []string{"Washable paint (red, yellow, blue)", "Paper plates", "Brushes", "Smocks"},
		Activities: []models.Activity{
			{Name: "Color hunt", Description: "Find red, yellow and blue objects around the room.", Minutes: 8},
			{Name: "Mix and guess", Description: "Children predict, then mix two colors on a plate.", Minutes: 15},
			{Name: "Share", Description: "Each child shows one new color and names it.", Minutes: 7},
		},
		Assessment: "Child can name at least two primary colors and one mixed color.",
	},
	{
		Meta:            models.Meta{ID: "lesson_counting"},
		Title:           "Counting with Nature",
		AgeGroup:        models.AgePreschool,
		DurationMinutes: 25,
		Domain:          "math",
		Objectives:      []string{"Count objects to ten", "Sort objects by size"},
		Materials:       []string{"Leaves", "Pinecones", "Egg cartons"},
		Activities: []models.Activity{
			{Name: "Nature walk", Description: "Collect ten items outdoors.", Minutes: 10},
			{Name: "Carton count", Description: "Place one item in each cup while counting aloud.", Minutes: 15},
		},
		Assessment: "Child counts to ten with one-to-one correspondence.",
	},
	{
		Meta:            models.Meta{ID: "lesson_textures"},
		Title:           "Touch and Feel Textures",
		AgeGroup:        models.AgeInfant,
		DurationMinutes: 10,
		Domain:          "sensory",
		Objectives:      []string{"Explore soft, rough and smooth surfaces"},
		Materials:       []string{"Texture board", "Fabric squares"},
		Activities: []models.Activity{
			{Name: "Texture board", Description: "Guide hands across each surface and name it.", Minutes: 10},
		},
	},
	{
		Meta:            models.Meta{ID: "lesson_story"},
		Title:           "Story Time Sequencing",
		AgeGroup:        models.AgeToddler,
		DurationMinutes: 15,
		Domain:          "literacy",
		Objectives:      []string{"Retell a story in order", "Build vocabulary"},
		Materials:       []string{"Picture book", "Felt board pieces"},
		Activities: []models.Activity{
			{Name: "Read aloud", Description: "Read the book, pausing on each picture.", Minutes: 8},
			{Name: "Felt board", Description: "Children place pieces in story order.", Minutes: 7},
		},
	},
}

// Seed populates an empty lesson library.
func (s *Store) Seed(ctx context.Context) error {
	if _, err := s.Lessons.SeedIfEmpty(ctx, sampleLessons); err != nil {
		return fmt.Errorf("failed to seed lessons: %w", err)
	}
	return nil
}
