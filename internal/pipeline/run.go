// Package pipeline provides the high-level orchestration of a roadmap run.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/course-roadmap/internal/config"
	"github.com/jonathan/course-roadmap/internal/input"
	"github.com/jonathan/course-roadmap/internal/llm"
	"github.com/jonathan/course-roadmap/internal/observability"
	"github.com/jonathan/course-roadmap/internal/pipeline/steps"
	"github.com/jonathan/course-roadmap/internal/recommend"
	"github.com/jonathan/course-roadmap/internal/rendering"
	"github.com/jonathan/course-roadmap/internal/roadmap"
	"github.com/jonathan/course-roadmap/internal/schemas"
	"github.com/jonathan/course-roadmap/internal/types"
)

// totalSteps is the number of numbered steps shown to the user
const totalSteps = 4

// ProgressEvent represents a progress update during a run
type ProgressEvent struct {
	Step     string `json:"step"`
	Category string `json:"category"`
	Message  string `json:"message"`
	RunID    string `json:"run_id,omitempty"`
	Content  any    `json:"content,omitempty"`
}

// ProgressCallback is called when run progress occurs
type ProgressCallback func(event ProgressEvent)

// RunOptions holds configuration for a single run
type RunOptions struct {
	Query  input.Query
	Config *config.Config
	// OutputPath overrides the image location derived from Config.OutputDir
	OutputPath string
	Stdout     io.Writer
	Logger     *zap.Logger
	// ClientFactory replaces the Gemini client constructor (tests)
	ClientFactory llm.Factory
	OnProgress    ProgressCallback
}

// Outcome describes what a run produced
type Outcome struct {
	RunID     string
	Status    types.RecommendationStatus
	Message   string
	Courses   types.RecommendationSet
	Roadmap   *types.Roadmap
	Layout    *rendering.Layout
	ImagePath string
	PlanPath  string
	Steps     []steps.StepResult
}

// emitProgress calls the progress callback if configured
func emitProgress(opts *RunOptions, runID, step, message string, content any) {
	if opts.OnProgress == nil {
		return
	}
	opts.OnProgress(ProgressEvent{
		Step:     step,
		Category: steps.StepRegistry[step].Category,
		Message:  message,
		RunID:    runID,
		Content:  content,
	})
}

// ImagePath returns where the roadmap image for a run is written
func ImagePath(opts RunOptions) string {
	if opts.OutputPath != "" {
		return opts.OutputPath
	}
	dir := "."
	if opts.Config != nil && opts.Config.OutputDir != "" {
		dir = opts.Config.OutputDir
	}
	return filepath.Join(dir, rendering.FileName(opts.Query.Topic))
}

// Run executes a full roadmap run: recommend, build the roadmap, render the
// image and optionally write the plan artifact.
//
// Missing credentials are not an error: guidance is printed and the returned
// outcome has no image.
func Run(ctx context.Context, opts RunOptions) (*Outcome, error) {
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	// Without credentials the guidance is shown whatever the topic
	if opts.Query.Topic == "" && opts.Config.HasCredentials() {
		return nil, input.ErrEmptyTopic
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	runID := uuid.New().String()
	logger := opts.Logger.With(zap.String("run_id", runID))
	printer := observability.NewPrinter(opts.Stdout)
	tracker := steps.NewTracker()
	outcome := &Outcome{RunID: runID}
	start := time.Now()

	if timeout := opts.Config.Timeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	printer.PrintBanner(opts.Query.Topic)
	logger.Debug("starting run",
		zap.String("topic", opts.Query.Topic),
		zap.String("model", opts.Config.Model),
		zap.Bool("credentials", opts.Config.HasCredentials()))

	// Step 1: recommendations
	printer.PrintStep(1, totalSteps, "Requesting course recommendations...")
	if err := tracker.Start(steps.StepRecommend); err != nil {
		return nil, err
	}

	reqOpts := []recommend.Option{recommend.WithLogger(logger)}
	if opts.ClientFactory != nil {
		reqOpts = append(reqOpts, recommend.WithClientFactory(opts.ClientFactory))
	}
	llmConfig := llm.DefaultConfig()
	if opts.Config.Model != "" {
		llmConfig = llmConfig.WithModel(llm.TierStandard, opts.Config.Model)
	}
	requester := recommend.NewRequester(llmConfig, opts.Config.Credentials(), reqOpts...)

	result, err := requester.Recommend(ctx, opts.Query)
	tracker.Complete(steps.StepRecommend, err)
	if err != nil {
		outcome.Steps = tracker.Results()
		return outcome, fmt.Errorf("course recommendation failed: %w", err)
	}

	outcome.Status = result.Status
	outcome.Message = result.Message
	outcome.Courses = result.Courses
	emitProgress(&opts, runID, steps.StepRecommend,
		fmt.Sprintf("Recommendation status: %s (%d courses)", result.Status, result.Courses.Len()), result)

	if result.Status == types.StatusMissingCredentials {
		printer.PrintNotice(recommend.GuidanceTitle, result.Message)
		for _, name := range steps.Order[1:] {
			tracker.Skip(name)
		}
		outcome.Steps = tracker.Results()
		logger.Info("run finished without credentials")
		return outcome, nil
	}

	if result.Status == types.StatusUnparseable {
		printer.PrintNotice(recommend.UnparseableTitle, result.Message)
	} else {
		printer.PrintCourses(result.Courses)
	}

	// Step 2: roadmap
	printer.PrintStep(2, totalSteps, "Building learning roadmap...")
	if err := tracker.Start(steps.StepBuildRoadmap); err != nil {
		return nil, err
	}
	rm := roadmap.Build(opts.Query.Topic, result.Courses)
	tracker.Complete(steps.StepBuildRoadmap, nil)
	outcome.Roadmap = &rm
	printer.PrintRoadmap(rm)
	emitProgress(&opts, runID, steps.StepBuildRoadmap, "Built 8-step roadmap", rm)

	// Step 3: image
	imagePath := ImagePath(opts)
	printer.PrintStep(3, totalSteps, fmt.Sprintf("Rendering roadmap image to %s...", imagePath))
	if err := tracker.Start(steps.StepRenderImage); err != nil {
		return nil, err
	}
	layout, err := renderImage(rm, imagePath)
	tracker.Complete(steps.StepRenderImage, err)
	if err != nil {
		outcome.Steps = tracker.Results()
		return outcome, err
	}
	outcome.Layout = layout
	outcome.ImagePath = imagePath
	logger.Debug("rendered roadmap image", zap.String("path", imagePath), zap.Int("nodes", len(layout.Nodes)))
	emitProgress(&opts, runID, steps.StepRenderImage, fmt.Sprintf("Rendered roadmap image %s", imagePath), nil)

	// Step 4: plan artifact
	if opts.Config.WritePlanJSON {
		printer.PrintStep(4, totalSteps, "Writing plan JSON...")
		if err := tracker.Start(steps.StepWritePlan); err != nil {
			return nil, err
		}
		plan := buildPlan(runID, opts, result, rm, imagePath, start)
		planPath, err := writePlan(plan, imagePath)
		tracker.Complete(steps.StepWritePlan, err)
		if err != nil {
			outcome.Steps = tracker.Results()
			return outcome, err
		}
		outcome.PlanPath = planPath
		emitProgress(&opts, runID, steps.StepWritePlan, fmt.Sprintf("Wrote plan %s", planPath), nil)
	} else {
		tracker.Skip(steps.StepWritePlan)
	}

	outcome.Steps = tracker.Results()
	elapsed := time.Since(start)
	printer.PrintSummary(observability.Summary{
		Topic:     opts.Query.Topic,
		Courses:   result.Courses.Len(),
		Steps:     len(rm.Steps),
		ImagePath: outcome.ImagePath,
		PlanPath:  outcome.PlanPath,
		Elapsed:   elapsed,
	})
	logger.Info("run complete",
		zap.String("status", string(result.Status)),
		zap.Int("courses", result.Courses.Len()),
		zap.Duration("elapsed", elapsed))

	return outcome, nil
}

func renderImage(rm types.Roadmap, path string) (*rendering.Layout, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, &rendering.RenderError{Message: "failed to create output directory", Path: dir, Cause: err}
		}
	}
	return rendering.RenderPNG(rm, path)
}

func buildPlan(runID string, opts RunOptions, result *recommend.Result, rm types.Roadmap, imagePath string, start time.Time) *types.Plan {
	courses := result.Courses.Courses
	if courses == nil {
		courses = []types.Course{}
	}
	return &types.Plan{
		RunID:       runID,
		Topic:       opts.Query.Topic,
		Skills:      opts.Query.Skills,
		Goals:       opts.Query.Goals,
		Model:       result.Model,
		Status:      result.Status,
		Message:     result.Message,
		Courses:     courses,
		Roadmap:     rm,
		ImagePath:   imagePath,
		GeneratedAt: time.Now().UTC(),
		DurationMs:  time.Since(start).Milliseconds(),
	}
}

// writePlan validates the plan and writes it next to the image
func writePlan(plan *types.Plan, imagePath string) (string, error) {
	data, err := schemas.MarshalPlan(plan)
	if err != nil {
		return "", fmt.Errorf("plan failed validation: %w", err)
	}

	planPath := imagePath + ".json"
	if err := os.WriteFile(planPath, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write plan: %w", err)
	}
	return planPath, nil
}
