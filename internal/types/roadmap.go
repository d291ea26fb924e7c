package types

// RoadmapSteps is the fixed number of steps in every roadmap
const RoadmapSteps = 8

// Roadmap is the fixed 8-step learning progression drawn for a topic
type Roadmap struct {
	Topic string `json:"topic"`
	Steps []Step `json:"steps"`
}

// Step represents one node of the roadmap
type Step struct {
	Number     int    `json:"number"`
	Label      string `json:"label"`
	Difficulty string `json:"difficulty"`
	Annotation string `json:"annotation"`
	FromCourse bool   `json:"from_course"`
}
