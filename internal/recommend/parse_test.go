package recommend

import (
	"errors"
	"testing"

	"github.com/jonathan/course-roadmap/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReply_JSON(t *testing.T) {
	reply := `Here are your courses:
{
  "courses": [
    {"title": "Python for Everybody", "platform": "Coursera", "level": "Beginner", "rating": 4.8, "url": "https://www.coursera.org/specializations/python", "skills_gained": ["Python"]},
    {"title": "Deep Learning Specialization", "difficulty": "Advanced", "url": "not a url", "description": "Build neural networks."},
    {"title": "", "platform": "Udemy"}
  ]
}
Good luck!`

	set, err := ParseReply(reply)
	require.NoError(t, err)
	require.Equal(t, 2, set.Len())

	first := set.Courses[0]
	assert.Equal(t, "Python for Everybody", first.Title)
	assert.Equal(t, types.LevelBeginner, first.Level)
	assert.Equal(t, types.FlexString("4.8"), first.Rating)
	assert.Equal(t, "https://www.coursera.org/specializations/python", first.URL)
	assert.Equal(t, types.SourceAIGenerated, first.Source)

	second := set.Courses[1]
	assert.Equal(t, types.LevelAdvanced, second.Level, "difficulty is used when level is missing")
	assert.Empty(t, second.URL, "invalid URLs are cleared")
	assert.Equal(t, "Build neural networks.", second.Description)
}

func TestParseReply_JSONArray(t *testing.T) {
	set, err := ParseReply("```json\n[{\"title\": \"SQL Basics\", \"level\": \"beginner\"}]\n```")
	require.NoError(t, err)
	require.Equal(t, 1, set.Len())
	assert.Equal(t, "SQL Basics", set.Courses[0].Title)
}

func TestParseReply_UnknownLevelCleared(t *testing.T) {
	set, err := ParseReply(`{"courses": [{"title": "Mixed Bag", "level": "all levels"}]}`)
	require.NoError(t, err)
	assert.Empty(t, set.Courses[0].Level)
}

func TestParseReply_ListFallback(t *testing.T) {
	reply := `Sure! Recommended courses:
1. **Intro to Statistics** - Beginner - Understand distributions and sampling
2) Applied Regression | Intermediate | Fit and interpret linear models
- Bayesian Methods - Advanced
* Just A Title
Hope this helps.`

	set, err := ParseReply(reply)
	require.NoError(t, err)
	require.Equal(t, 4, set.Len())

	assert.Equal(t, "Intro to Statistics", set.Courses[0].Title)
	assert.Equal(t, types.LevelBeginner, set.Courses[0].Level)
	assert.Equal(t, "Understand distributions and sampling", set.Courses[0].Description)

	assert.Equal(t, "Applied Regression", set.Courses[1].Title)
	assert.Equal(t, types.LevelIntermediate, set.Courses[1].Level)
	assert.Equal(t, "Fit and interpret linear models", set.Courses[1].Description)

	assert.Equal(t, types.LevelAdvanced, set.Courses[2].Level)
	assert.Empty(t, set.Courses[3].Level)
}

func TestParseReply_ListOutcomeNotMistakenForLevel(t *testing.T) {
	set, err := ParseReply("1. Web Foundations - Build basic web pages with HTML")
	require.NoError(t, err)
	assert.Empty(t, set.Courses[0].Level)
	assert.Equal(t, "Build basic web pages with HTML", set.Courses[0].Description)
}

func TestParseReply_ListTruncated(t *testing.T) {
	reply := ""
	for i := 1; i <= 11; i++ {
		reply += "- Course\n"
	}
	set, err := ParseReply(reply)
	require.NoError(t, err)
	assert.Equal(t, types.MaxCourses, set.Len())
}

func TestParseReply_Unparseable(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{"empty", ""},
		{"whitespace", "  \n\t"},
		{"prose", "I cannot recommend courses on that topic."},
		{"broken json", `{"courses": [{"title": "A"`},
		{"empty course list", `{"courses": []}`},
		{"no titles", `{"courses": [{"platform": "edX"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := ParseReply(tt.reply)
			require.Error(t, err)
			var parseErr *ParseError
			assert.True(t, errors.As(err, &parseErr))
			assert.Zero(t, set.Len())
		})
	}
}

func TestParseReply_MistypedFieldsKeepSiblings(t *testing.T) {
	sibling := `{"title": "SQL Basics", "level": "beginner"}`

	tests := []struct {
		name   string
		course string
		check  func(t *testing.T, c types.Course)
	}{
		{
			name:   "skills as string",
			course: `{"title": "Python Data", "skills_gained": "Python, SQL"}`,
			check: func(t *testing.T, c types.Course) {
				assert.Equal(t, types.FlexList{"Python", "SQL"}, c.SkillsGained)
			},
		},
		{
			name:   "boolean certification",
			course: `{"title": "Python Data", "certification": true}`,
			check: func(t *testing.T, c types.Course) {
				assert.Equal(t, types.FlexString("true"), c.Certification)
			},
		},
		{
			name:   "numeric price",
			course: `{"title": "Python Data", "price": 0}`,
			check: func(t *testing.T, c types.Course) {
				assert.Equal(t, types.FlexString("0"), c.Price)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := ParseReply(`{"courses": [` + tt.course + `, ` + sibling + `]}`)
			require.NoError(t, err)
			require.Equal(t, 2, set.Len())
			assert.Equal(t, "Python Data", set.Courses[0].Title)
			tt.check(t, set.Courses[0])
			assert.Equal(t, "SQL Basics", set.Courses[1].Title)
		})
	}
}

func TestParseReply_UndecodableCourseSkipped(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{"object", `{"courses": [{"title": {"en": "Bad"}}, {"title": "SQL Basics"}]}`},
		{"bare array", `[{"title": ["Bad"]}, {"title": "SQL Basics"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := ParseReply(tt.reply)
			require.NoError(t, err)
			assert.Equal(t, []string{"SQL Basics"}, set.Titles())
		})
	}
}
