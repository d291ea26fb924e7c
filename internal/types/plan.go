package types

import "time"

// RecommendationStatus describes how the recommendation set was obtained
type RecommendationStatus string

// Recommendation statuses
const (
	StatusOK                 RecommendationStatus = "ok"
	StatusMissingCredentials RecommendationStatus = "missing_credentials"
	StatusUnparseable        RecommendationStatus = "unparseable"
)

// Plan is the full result of a run, written as the optional JSON artifact
type Plan struct {
	RunID       string               `json:"run_id"`
	Topic       string               `json:"topic"`
	Skills      string               `json:"skills,omitempty"`
	Goals       string               `json:"goals,omitempty"`
	Model       string               `json:"model,omitempty"`
	Status      RecommendationStatus `json:"status"`
	Message     string               `json:"message,omitempty"`
	Courses     []Course             `json:"courses"`
	Roadmap     Roadmap              `json:"roadmap"`
	ImagePath   string               `json:"image_path"`
	GeneratedAt time.Time            `json:"generated_at"`
	DurationMs  int64                `json:"duration_ms"`
}
