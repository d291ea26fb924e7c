// Package steps provides step definitions and dependency tracking for a
// roadmap run.
package steps

import (
	"fmt"
	"time"
)

// Step names
const (
	StepRecommend    = "recommend_courses"
	StepBuildRoadmap = "build_roadmap"
	StepRenderImage  = "render_image"
	StepWritePlan    = "write_plan"
)

// Step categories
const (
	CategoryRecommendation = "recommendation"
	CategoryRoadmap        = "roadmap"
	CategoryOutput         = "output"
)

// Step statuses
const (
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
	StatusSkipped    = "skipped"
)

// StepDefinition defines metadata for a run step
type StepDefinition struct {
	Name         string
	Category     string
	Dependencies []string
}

// StepResult represents the result of executing a step
type StepResult struct {
	Step     string
	Status   string
	Duration int64 // milliseconds
	Error    error
}

// StepRegistry holds all step definitions
var StepRegistry = map[string]StepDefinition{
	StepRecommend: {
		Name:         StepRecommend,
		Category:     CategoryRecommendation,
		Dependencies: []string{},
	},
	StepBuildRoadmap: {
		Name:         StepBuildRoadmap,
		Category:     CategoryRoadmap,
		Dependencies: []string{StepRecommend},
	},
	StepRenderImage: {
		Name:         StepRenderImage,
		Category:     CategoryOutput,
		Dependencies: []string{StepBuildRoadmap},
	},
	StepWritePlan: {
		Name:         StepWritePlan,
		Category:     CategoryOutput,
		Dependencies: []string{StepRenderImage},
	},
}

// Order is the execution order of the registered steps
var Order = []string{StepRecommend, StepBuildRoadmap, StepRenderImage, StepWritePlan}

// DependencyError represents a dependency validation error
type DependencyError struct {
	Step                string
	MissingDependencies []string
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("missing dependencies: %v", e.MissingDependencies)
}

// Tracker records step progress for a single run
type Tracker struct {
	started map[string]time.Time
	results []StepResult
	now     func() time.Time
}

// NewTracker creates an empty Tracker
func NewTracker() *Tracker {
	return &Tracker{
		started: make(map[string]time.Time),
		now:     time.Now,
	}
}

// Start marks a step as in progress once its dependencies have completed
func (t *Tracker) Start(stepName string) error {
	def, ok := StepRegistry[stepName]
	if !ok {
		return fmt.Errorf("unknown step: %s", stepName)
	}

	var missing []string
	for _, dep := range def.Dependencies {
		if t.Status(dep) != StatusCompleted {
			missing = append(missing, dep)
		}
	}
	if len(missing) > 0 {
		return &DependencyError{
			Step:                stepName,
			MissingDependencies: missing,
		}
	}

	t.started[stepName] = t.now()
	return nil
}

// Complete records the outcome of a started step. A nil err marks it completed.
func (t *Tracker) Complete(stepName string, err error) StepResult {
	result := StepResult{Step: stepName, Status: StatusCompleted, Error: err}
	if err != nil {
		result.Status = StatusFailed
	}
	if start, ok := t.started[stepName]; ok {
		result.Duration = t.now().Sub(start).Milliseconds()
		delete(t.started, stepName)
	}
	t.results = append(t.results, result)
	return result
}

// Skip records a step that was intentionally not run
func (t *Tracker) Skip(stepName string) StepResult {
	result := StepResult{Step: stepName, Status: StatusSkipped}
	t.results = append(t.results, result)
	return result
}

// Status returns the latest recorded status of a step, or "" if it never ran
func (t *Tracker) Status(stepName string) string {
	if _, ok := t.started[stepName]; ok {
		return StatusInProgress
	}
	for i := len(t.results) - 1; i >= 0; i-- {
		if t.results[i].Step == stepName {
			return t.results[i].Status
		}
	}
	return ""
}

// Results returns the recorded results in the order they finished
func (t *Tracker) Results() []StepResult {
	out := make([]StepResult, len(t.results))
	copy(out, t.results)
	return out
}
