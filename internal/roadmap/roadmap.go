// Package roadmap builds the fixed 8-step learning roadmap for a topic.
package roadmap

import (
	"fmt"

	"github.com/jonathan/course-roadmap/internal/types"
)

// stepTemplate is one of the fixed roadmap positions
type stepTemplate struct {
	Label      string
	Difficulty string
}

var steps = [types.RoadmapSteps]stepTemplate{
	{"Foundations", types.LevelBeginner},
	{"Core Concepts", types.LevelBeginner},
	{"Practical Skills", types.LevelIntermediate},
	{"Intermediate Topics", types.LevelIntermediate},
	{"Advanced Techniques", types.LevelIntermediate},
	{"Specialization", types.LevelAdvanced},
	{"Expert Level", types.LevelAdvanced},
	{"Mastery", types.LevelAdvanced},
}

// Labels returns the fixed step labels in order
func Labels() []string {
	labels := make([]string, len(steps))
	for i, s := range steps {
		labels[i] = s.Label
	}
	return labels
}

// Build annotates the fixed steps with course titles by position.
// Steps without a matching course get a placeholder naming the topic.
func Build(topic string, set types.RecommendationSet) types.Roadmap {
	rm := types.Roadmap{
		Topic: topic,
		Steps: make([]types.Step, len(steps)),
	}

	for i, tmpl := range steps {
		step := types.Step{
			Number:     i + 1,
			Label:      tmpl.Label,
			Difficulty: tmpl.Difficulty,
		}
		if i < set.Len() {
			step.Annotation = set.Courses[i].Title
			step.FromCourse = true
		} else {
			step.Annotation = Placeholder(topic, i+1)
		}
		rm.Steps[i] = step
	}

	return rm
}

// Placeholder is the annotation used for a step without a course
func Placeholder(topic string, number int) string {
	if topic == "" {
		return fmt.Sprintf("Complete step %d objectives", number)
	}
	return fmt.Sprintf("%s: %s", topic, steps[number-1].Label)
}
