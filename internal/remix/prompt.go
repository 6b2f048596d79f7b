package remix

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/brightbeginnings/daycare/internal/models"
)

const systemPrompt = `You are an early childhood curriculum specialist.
Adapt the lesson plan you are given according to the requested changes.
Keep activities safe and developmentally appropriate for the target age group.
Respond with a single JSON object with these fields:
title, ageGroup, durationMinutes, domain, objectives (array of strings),
materials (array of strings), activities (array of {name, description, minutes}),
assessment. Do not wrap the JSON in markdown.`

// buildPrompt renders the user prompt for adapting base.
func buildPrompt(base models.Lesson, req Request) (string, error) {
	source := base
	source.Meta = models.Meta{}
	source.RemixedFrom = ""
	encoded, err := json.MarshalIndent(source, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode base lesson: %w", err)
	}

	var b strings.Builder
	b.WriteString("Base lesson:\n")
	b.Write(encoded)
	b.WriteString("\n\nRequested changes:\n")
	if req.NewAgeGroup != "" {
		fmt.Fprintf(&b, "- Target age group: %s\n", req.NewAgeGroup)
	}
	if req.NewDuration > 0 {
		fmt.Fprintf(&b, "- Total duration: %d minutes\n", req.NewDuration)
	}
	if d := strings.TrimSpace(req.NewDomain); d != "" {
		fmt.Fprintf(&b, "- Developmental domain: %s\n", d)
	}
	if n := strings.TrimSpace(req.AdaptationNotes); n != "" {
		fmt.Fprintf(&b, "- Notes from the teacher: %s\n", n)
	}
	return b.String(), nil
}

// parseLesson decodes the model's reply. Replies wrapped in a markdown code
// fence are unwrapped first.
func parseLesson(reply string) (models.Lesson, error) {
	text := strings.TrimSpace(reply)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	}
	var lesson models.Lesson
	if err := json.Unmarshal([]byte(text), &lesson); err != nil {
		return models.Lesson{}, fmt.Errorf("reply is not a lesson: %w", err)
	}
	if strings.TrimSpace(lesson.Title) == "" {
		return models.Lesson{}, fmt.Errorf("reply has no title")
	}
	lesson.Meta = models.Meta{}
	return lesson, nil
}
