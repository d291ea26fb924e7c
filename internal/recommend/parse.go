package recommend

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/course-roadmap/internal/llm"
	"github.com/jonathan/course-roadmap/internal/types"
)

var validate = validator.New()

// listItemPattern matches numbered ("1." / "2)") or bulleted ("-", "*", "•") lines
var listItemPattern = regexp.MustCompile(`^\s*(?:\d+[.)]|[-*•])\s+(.+)$`)

// fieldSeparators split a list line into title / level / outcome
var fieldSeparators = regexp.MustCompile(`\s+[|–—-]\s+|\s*\|\s*`)

type courseEnvelope struct {
	Courses []json.RawMessage `json:"courses"`
}

// ParseReply turns a free-text model reply into at most types.MaxCourses courses.
// JSON is tried first; if no usable JSON is present the reply is split into
// numbered or bulleted lines. A reply with neither yields a *ParseError.
func ParseReply(text string) (types.RecommendationSet, error) {
	if strings.TrimSpace(text) == "" {
		return types.RecommendationSet{}, &ParseError{Message: "empty response"}
	}

	courses, jsonErr := parseJSONCourses(text)
	if len(courses) == 0 {
		courses = parseListCourses(text)
	}
	if len(courses) == 0 {
		return types.RecommendationSet{}, &ParseError{
			Message: "no course entries found in response",
			Cause:   jsonErr,
		}
	}

	for i := range courses {
		courses[i].Source = types.SourceAIGenerated
	}
	return types.NewRecommendationSet(courses), nil
}

func parseJSONCourses(text string) ([]types.Course, error) {
	raw, err := decodeCourses(text)
	if err != nil {
		return nil, err
	}

	courses := make([]types.Course, 0, len(raw))
	for _, c := range raw {
		if c, ok := sanitizeCourse(c); ok {
			courses = append(courses, c)
		}
	}
	return courses, nil
}

// decodeCourses accepts either {"courses": [...]} or a bare array.
// Entries that fail to decode are skipped so one bad course does not
// discard its siblings.
func decodeCourses(text string) ([]types.Course, error) {
	cleaned := llm.CleanJSONBlock(text)

	var entries []json.RawMessage
	if strings.HasPrefix(cleaned, "[") {
		if err := json.Unmarshal([]byte(cleaned), &entries); err != nil {
			entries = nil
		}
	}

	if entries == nil {
		obj := llm.ExtractJSONObject(cleaned)
		if obj == "" {
			obj = llm.ExtractJSONObject(text)
		}
		if obj == "" {
			return nil, fmt.Errorf("no JSON object in response")
		}

		var env courseEnvelope
		if err := json.Unmarshal([]byte(obj), &env); err != nil {
			return nil, fmt.Errorf("failed to decode course object: %w", err)
		}
		entries = env.Courses
	}

	courses := make([]types.Course, 0, len(entries))
	var firstErr error
	for i, entry := range entries {
		var c types.Course
		if err := json.Unmarshal(entry, &c); err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("failed to decode course %d: %w", i+1, err)
			}
			continue
		}
		courses = append(courses, c)
	}
	if len(courses) == 0 && firstErr != nil {
		return nil, firstErr
	}
	return courses, nil
}

// sanitizeCourse normalizes a decoded course. Bad optional fields are cleared;
// a course without a title is rejected.
func sanitizeCourse(c types.Course) (types.Course, bool) {
	c.Title = strings.TrimSpace(c.Title)

	level := c.Level
	if level == "" {
		level = c.Difficulty
	}
	c.Level = types.NormalizeLevel(level)
	if validate.Var(c.Level, "omitempty,oneof=beginner intermediate advanced") != nil {
		c.Level = ""
	}

	c.URL = strings.TrimSpace(c.URL)
	if validate.Var(c.URL, "omitempty,url") != nil {
		c.URL = ""
	}

	if err := validate.Struct(c); err != nil {
		return c, false
	}
	return c, true
}

func parseListCourses(text string) []types.Course {
	var courses []types.Course
	for _, line := range strings.Split(text, "\n") {
		m := listItemPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		item := strings.TrimSpace(strings.ReplaceAll(m[1], "**", ""))
		var course types.Course
		var outcome []string
		for i, field := range fieldSeparators.Split(item, -1) {
			field = strings.TrimSpace(field)
			if field == "" {
				continue
			}
			if i == 0 {
				course.Title = field
				continue
			}
			if lvl := types.NormalizeLevel(field); course.Level == "" && len(strings.Fields(field)) <= 2 && isKnownLevel(lvl) {
				course.Level = lvl
				continue
			}
			outcome = append(outcome, field)
		}
		course.Description = strings.Join(outcome, " - ")

		if c, ok := sanitizeCourse(course); ok {
			courses = append(courses, c)
		}
	}
	return courses
}

func isKnownLevel(level string) bool {
	switch level {
	case types.LevelBeginner, types.LevelIntermediate, types.LevelAdvanced:
		return true
	}
	return false
}
