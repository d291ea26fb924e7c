package roadmap

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/course-roadmap/internal/types"
)

func TestBuild_NoCourses(t *testing.T) {
	rm := Build("Data Science", types.RecommendationSet{})

	require.Len(t, rm.Steps, types.RoadmapSteps)
	assert.Equal(t, "Data Science", rm.Topic)
	for i, step := range rm.Steps {
		assert.Equal(t, i+1, step.Number)
		assert.False(t, step.FromCourse)
		assert.Equal(t, Placeholder("Data Science", i+1), step.Annotation)
	}
	assert.Equal(t, "Data Science: Foundations", rm.Steps[0].Annotation)
}

func TestBuild_PartialCourses(t *testing.T) {
	set := types.NewRecommendationSet([]types.Course{
		{Title: "Python for Everybody"},
		{Title: "Statistics with R"},
	})

	rm := Build("Data Science", set)

	want := []types.Step{
		{Number: 1, Label: "Foundations", Difficulty: types.LevelBeginner, Annotation: "Python for Everybody", FromCourse: true},
		{Number: 2, Label: "Core Concepts", Difficulty: types.LevelBeginner, Annotation: "Statistics with R", FromCourse: true},
		{Number: 3, Label: "Practical Skills", Difficulty: types.LevelIntermediate, Annotation: "Data Science: Practical Skills"},
	}
	if diff := cmp.Diff(want, rm.Steps[:3]); diff != "" {
		t.Errorf("Build() steps mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_FullSet(t *testing.T) {
	courses := make([]types.Course, types.MaxCourses)
	for i := range courses {
		courses[i] = types.Course{Title: Labels()[i] + " course"}
	}

	rm := Build("Go", types.NewRecommendationSet(courses))

	require.Len(t, rm.Steps, types.RoadmapSteps)
	for i, step := range rm.Steps {
		assert.True(t, step.FromCourse)
		assert.Equal(t, courses[i].Title, step.Annotation)
	}
}

func TestLabels(t *testing.T) {
	want := []string{
		"Foundations", "Core Concepts", "Practical Skills", "Intermediate Topics",
		"Advanced Techniques", "Specialization", "Expert Level", "Mastery",
	}
	assert.Equal(t, want, Labels())
}

func TestPlaceholder_NoTopic(t *testing.T) {
	assert.Equal(t, "Complete step 4 objectives", Placeholder("", 4))
}
