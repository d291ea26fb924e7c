package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/jonathan/course-roadmap/internal/config"
	"github.com/jonathan/course-roadmap/internal/input"
	"github.com/jonathan/course-roadmap/internal/llm"
	"github.com/jonathan/course-roadmap/internal/pipeline/steps"
	"github.com/jonathan/course-roadmap/internal/recommend"
	"github.com/jonathan/course-roadmap/internal/roadmap"
	"github.com/jonathan/course-roadmap/internal/schemas"
	"github.com/jonathan/course-roadmap/internal/types"
)

func TestMain(m *testing.M) {
	// genai's opencensus dependency starts a stats worker from init
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"))
}

// MockLLMClient implements llm.Client for testing
type MockLLMClient struct {
	Reply  string
	Err    error
	Calls  int
	Closed bool
}

func (m *MockLLMClient) GenerateContent(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
	m.Calls++
	return m.Reply, m.Err
}

func (m *MockLLMClient) GenerateJSON(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	return m.GenerateContent(ctx, prompt, tier)
}

func (m *MockLLMClient) GetModel(_ llm.ModelTier) string {
	return "mock-model"
}

func (m *MockLLMClient) Close() error {
	m.Closed = true
	return nil
}

type factoryRecorder struct {
	client *MockLLMClient
	calls  int
	keys   []string
	models []string
}

func (f *factoryRecorder) factory(_ context.Context, cfg *llm.Config, apiKey string) (llm.Client, error) {
	f.calls++
	f.keys = append(f.keys, apiKey)
	f.models = append(f.models, cfg.GetModel(llm.TierStandard))
	return f.client, nil
}

func coursesJSON(n int) string {
	levels := []string{"Beginner", "Intermediate", "Advanced"}
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf(`{"title": "Course %d", "platform": "Udemy", "level": %q}`, i+1, levels[i%3])
	}
	return "```json\n{\"courses\": [" + strings.Join(parts, ",") + "]}\n```"
}

func testOptions(t *testing.T, keys []string, rec *factoryRecorder, stdout *bytes.Buffer) RunOptions {
	t.Helper()
	cfg := config.Default()
	cfg.APIKeys = keys
	cfg.OutputDir = t.TempDir()
	return RunOptions{
		Query:         input.Query{Topic: "Machine Learning"},
		Config:        cfg,
		Stdout:        stdout,
		ClientFactory: rec.factory,
	}
}

func pngFiles(t *testing.T, dir string) []string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, "*.png"))
	require.NoError(t, err)
	return matches
}

func TestRun_MissingCredentials(t *testing.T) {
	var stdout bytes.Buffer
	rec := &factoryRecorder{client: &MockLLMClient{}}
	opts := testOptions(t, nil, rec, &stdout)

	outcome, err := Run(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, types.StatusMissingCredentials, outcome.Status)
	assert.Empty(t, outcome.ImagePath)
	assert.Nil(t, outcome.Roadmap)
	assert.Zero(t, rec.calls, "no client should be constructed")
	assert.Empty(t, pngFiles(t, opts.Config.OutputDir))

	out := stdout.String()
	assert.Contains(t, out, "API KEY REQUIRED")
	assert.Contains(t, out, config.EnvAPIKeyPrimary)
	assert.Contains(t, out, "https://aistudio.google.com/app/apikey")

	require.Len(t, outcome.Steps, len(steps.Order))
	assert.Equal(t, steps.StatusCompleted, outcome.Steps[0].Status)
	for _, s := range outcome.Steps[1:] {
		assert.Equal(t, steps.StatusSkipped, s.Status, s.Step)
	}
}

func TestRun_Success(t *testing.T) {
	var stdout bytes.Buffer
	client := &MockLLMClient{Reply: coursesJSON(8)}
	rec := &factoryRecorder{client: client}
	opts := testOptions(t, []string{"key-1", "key-2"}, rec, &stdout)

	outcome, err := Run(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, types.StatusOK, outcome.Status)
	assert.Equal(t, 8, outcome.Courses.Len())
	assert.NotEmpty(t, outcome.RunID)

	assert.Equal(t, 1, rec.calls)
	assert.Equal(t, []string{"key-1"}, rec.keys, "only the first key is used")
	assert.Equal(t, []string{config.DefaultModel}, rec.models)
	assert.Equal(t, 1, client.Calls, "exactly one API call")
	assert.True(t, client.Closed)

	files := pngFiles(t, opts.Config.OutputDir)
	require.Len(t, files, 1)
	assert.Equal(t, filepath.Join(opts.Config.OutputDir, "learning_roadmap_machine_learning.png"), files[0])
	assert.Equal(t, files[0], outcome.ImagePath)
	assert.Empty(t, outcome.PlanPath)

	require.NotNil(t, outcome.Layout)
	require.Len(t, outcome.Layout.Nodes, types.RoadmapSteps)
	for i, label := range roadmap.Labels() {
		assert.Contains(t, outcome.Layout.Nodes[i].Label, label)
	}
	assert.Equal(t, "Course 1", outcome.Roadmap.Steps[0].Annotation)

	out := stdout.String()
	assert.Contains(t, out, "Step 1/4")
	assert.Contains(t, out, "RECOMMENDED COURSES")
	assert.Contains(t, out, "LEARNING ROADMAP")
	assert.Contains(t, out, "ROADMAP COMPLETE")
}

func TestRun_RecommendationCountBounded(t *testing.T) {
	for _, n := range []int{0, 1, 7, 8, 9, 15} {
		t.Run(fmt.Sprintf("%d courses", n), func(t *testing.T) {
			var stdout bytes.Buffer
			rec := &factoryRecorder{client: &MockLLMClient{Reply: coursesJSON(n)}}
			opts := testOptions(t, []string{"key"}, rec, &stdout)

			outcome, err := Run(context.Background(), opts)
			require.NoError(t, err)

			assert.LessOrEqual(t, outcome.Courses.Len(), types.MaxCourses)
			assert.Len(t, outcome.Roadmap.Steps, types.RoadmapSteps)
			assert.Len(t, pngFiles(t, opts.Config.OutputDir), 1)
		})
	}
}

func TestRun_UnparseableReply(t *testing.T) {
	var stdout bytes.Buffer
	rec := &factoryRecorder{client: &MockLLMClient{Reply: "Sorry, I cannot help with that right now."}}
	opts := testOptions(t, []string{"key"}, rec, &stdout)

	outcome, err := Run(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, types.StatusUnparseable, outcome.Status)
	assert.Equal(t, recommend.UnparseableMessage, outcome.Message)
	assert.Zero(t, outcome.Courses.Len())
	assert.Contains(t, stdout.String(), "RECOMMENDATIONS UNAVAILABLE")

	require.NotNil(t, outcome.Roadmap)
	for _, step := range outcome.Roadmap.Steps {
		assert.False(t, step.FromCourse)
	}
	assert.Len(t, pngFiles(t, opts.Config.OutputDir), 1)
}

func TestRun_APIError(t *testing.T) {
	var stdout bytes.Buffer
	rec := &factoryRecorder{client: &MockLLMClient{Err: errors.New("quota exceeded")}}
	opts := testOptions(t, []string{"key"}, rec, &stdout)

	outcome, err := Run(context.Background(), opts)
	require.Error(t, err)

	var apiErr *recommend.APICallError
	require.True(t, errors.As(err, &apiErr))
	assert.Contains(t, err.Error(), "quota exceeded")
	require.NotNil(t, outcome)
	assert.Empty(t, outcome.ImagePath)
	assert.Empty(t, pngFiles(t, opts.Config.OutputDir))
	assert.True(t, rec.client.Closed)
}

func TestRun_EmptyTopic(t *testing.T) {
	var stdout bytes.Buffer
	rec := &factoryRecorder{client: &MockLLMClient{}}
	opts := testOptions(t, []string{"key"}, rec, &stdout)
	opts.Query.Topic = ""

	_, err := Run(context.Background(), opts)
	assert.ErrorIs(t, err, input.ErrEmptyTopic)
	assert.Zero(t, rec.calls)
}

func TestRun_MissingCredentialsEmptyTopic(t *testing.T) {
	var stdout bytes.Buffer
	rec := &factoryRecorder{client: &MockLLMClient{}}
	opts := testOptions(t, nil, rec, &stdout)
	opts.Query.Topic = ""

	outcome, err := Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, types.StatusMissingCredentials, outcome.Status)
	assert.Contains(t, stdout.String(), "API KEY REQUIRED")
	assert.Zero(t, rec.calls)
}

func TestRun_WritesValidPlan(t *testing.T) {
	var stdout bytes.Buffer
	rec := &factoryRecorder{client: &MockLLMClient{Reply: coursesJSON(3)}}
	opts := testOptions(t, []string{"key"}, rec, &stdout)
	opts.Config.WritePlanJSON = true
	opts.Query.Skills = "Python"

	outcome, err := Run(context.Background(), opts)
	require.NoError(t, err)
	require.NotEmpty(t, outcome.PlanPath)
	assert.Equal(t, outcome.ImagePath+".json", outcome.PlanPath)

	data, err := os.ReadFile(outcome.PlanPath)
	require.NoError(t, err)
	require.NoError(t, schemas.ValidatePlanJSON(data))

	var plan types.Plan
	require.NoError(t, json.Unmarshal(data, &plan))
	assert.Equal(t, outcome.RunID, plan.RunID)
	assert.Equal(t, "Machine Learning", plan.Topic)
	assert.Equal(t, "Python", plan.Skills)
	assert.Equal(t, "mock-model", plan.Model)
	assert.Len(t, plan.Courses, 3)
	assert.Len(t, plan.Roadmap.Steps, types.RoadmapSteps)
	assert.Contains(t, stdout.String(), "Plan:")
}

func TestRun_OutputPathOverride(t *testing.T) {
	var stdout bytes.Buffer
	rec := &factoryRecorder{client: &MockLLMClient{Reply: coursesJSON(2)}}
	opts := testOptions(t, []string{"key"}, rec, &stdout)
	opts.OutputPath = filepath.Join(t.TempDir(), "nested", "roadmap.png")

	outcome, err := Run(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, opts.OutputPath, outcome.ImagePath)
	_, statErr := os.Stat(opts.OutputPath)
	assert.NoError(t, statErr)
	assert.Empty(t, pngFiles(t, opts.Config.OutputDir))
}

func TestRun_ProgressEvents(t *testing.T) {
	var stdout bytes.Buffer
	rec := &factoryRecorder{client: &MockLLMClient{Reply: coursesJSON(4)}}
	opts := testOptions(t, []string{"key"}, rec, &stdout)
	opts.Config.WritePlanJSON = true

	var events []ProgressEvent
	opts.OnProgress = func(e ProgressEvent) { events = append(events, e) }

	outcome, err := Run(context.Background(), opts)
	require.NoError(t, err)

	require.Len(t, events, len(steps.Order))
	for i, e := range events {
		assert.Equal(t, steps.Order[i], e.Step)
		assert.Equal(t, steps.StepRegistry[e.Step].Category, e.Category)
		assert.Equal(t, outcome.RunID, e.RunID)
	}
}

func TestImagePath(t *testing.T) {
	cfg := config.Default()
	cfg.OutputDir = "out"

	assert.Equal(t, filepath.Join("out", "learning_roadmap_go.png"),
		ImagePath(RunOptions{Query: input.Query{Topic: "Go"}, Config: cfg}))
	assert.Equal(t, "custom.png",
		ImagePath(RunOptions{Query: input.Query{Topic: "Go"}, Config: cfg, OutputPath: "custom.png"}))
	assert.Equal(t, "learning_roadmap_go.png",
		ImagePath(RunOptions{Query: input.Query{Topic: "Go"}}))
}
