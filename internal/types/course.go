// Package types provides type definitions for structured data used throughout the course-roadmap system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"strconv"
	"strings"
)

// MaxCourses is the upper bound on the number of courses in a recommendation set
const MaxCourses = 8

// Course levels
const (
	LevelBeginner     = "beginner"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"
)

// SourceAIGenerated marks courses that came back from the model
const SourceAIGenerated = "AI Generated"

// Course represents a single recommended course
type Course struct {
	Title         string     `json:"title" validate:"required"`
	Platform      string     `json:"platform,omitempty"`
	Instructor    string     `json:"instructor,omitempty"`
	Duration      string     `json:"duration,omitempty"`
	Difficulty    string     `json:"difficulty,omitempty"`
	Level         string     `json:"level,omitempty" validate:"omitempty,oneof=beginner intermediate advanced"`
	Rating        FlexString `json:"rating,omitempty"`
	Price         FlexString `json:"price,omitempty"`
	Description   string     `json:"description,omitempty"` // approximate outcome text
	SkillsGained  FlexList   `json:"skills_gained,omitempty"`
	URL           string     `json:"url,omitempty" validate:"omitempty,url"`
	Certification FlexString `json:"certification,omitempty"`
	Source        string     `json:"source,omitempty"`
}

// RecommendationSet is an ordered list of at most MaxCourses courses
type RecommendationSet struct {
	Courses []Course `json:"courses"`
}

// NewRecommendationSet builds a set from courses, dropping anything past MaxCourses
func NewRecommendationSet(courses []Course) RecommendationSet {
	if len(courses) > MaxCourses {
		courses = courses[:MaxCourses]
	}
	out := make([]Course, len(courses))
	copy(out, courses)
	return RecommendationSet{Courses: out}
}

// Len returns the number of courses in the set
func (s RecommendationSet) Len() int {
	return len(s.Courses)
}

// Titles returns course titles in order
func (s RecommendationSet) Titles() []string {
	titles := make([]string, 0, len(s.Courses))
	for _, c := range s.Courses {
		titles = append(titles, c.Title)
	}
	return titles
}

// ByLevel returns the courses whose level matches, preserving order
func (s RecommendationSet) ByLevel(level string) []Course {
	var out []Course
	for _, c := range s.Courses {
		if c.Level == level {
			out = append(out, c)
		}
	}
	return out
}

// NormalizeLevel maps free-text difficulty strings onto the three known levels.
// Unknown values are returned lower-cased and trimmed.
func NormalizeLevel(level string) string {
	level = strings.ToLower(strings.TrimSpace(level))

	switch {
	case strings.HasPrefix(level, "beg"), strings.Contains(level, "intro"), strings.Contains(level, "basic"):
		return LevelBeginner
	case strings.HasPrefix(level, "int"):
		return LevelIntermediate
	case strings.HasPrefix(level, "adv"), strings.Contains(level, "expert"):
		return LevelAdvanced
	default:
		return level
	}
}

// FlexString accepts a JSON string, number or boolean.
// Models are inconsistent about quoting ratings, prices and flags.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler
func (f *FlexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexString(s)
		return nil
	}
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*f = FlexString(strconv.FormatBool(b))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

// FlexList accepts a JSON array of strings or a single comma-separated string
type FlexList []string

// UnmarshalJSON implements json.Unmarshaler
func (l *FlexList) UnmarshalJSON(data []byte) error {
	var items []string
	if err := json.Unmarshal(data, &items); err == nil {
		*l = items
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	items = nil
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	*l = items
	return nil
}
