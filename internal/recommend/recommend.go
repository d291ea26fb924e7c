// Package recommend asks the generative model for course recommendations on a
// topic and turns its reply into a bounded recommendation set.
package recommend

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/course-roadmap/internal/input"
	"github.com/jonathan/course-roadmap/internal/llm"
	"github.com/jonathan/course-roadmap/internal/prompts"
	"github.com/jonathan/course-roadmap/internal/types"
)

const (
	promptFile = "recommend.json"
	promptKey  = "recommend-courses"
)

// Payload is the exact request sent to the model
type Payload struct {
	Prompt string
	Tier   llm.ModelTier
}

// BuildPayload renders the recommendation prompt for a query.
// It depends only on the query, so every input mode produces the same request.
func BuildPayload(q input.Query) (Payload, error) {
	prompt, err := prompts.Render(promptFile, promptKey, map[string]string{
		"Topic":  q.Topic,
		"Skills": orNotSpecified(q.Skills),
		"Goals":  orNotSpecified(q.Goals),
		"Count":  strconv.Itoa(types.MaxCourses),
	})
	if err != nil {
		return Payload{}, err
	}
	return Payload{Prompt: prompt, Tier: llm.TierStandard}, nil
}

func orNotSpecified(s string) string {
	if s == "" {
		return notSpecified
	}
	return s
}

// Result is the outcome of a recommendation request
type Result struct {
	Status  types.RecommendationStatus
	Courses types.RecommendationSet
	Message string
	Model   string
	Elapsed time.Duration
}

// Requester issues a single recommendation request per call
type Requester struct {
	config    *llm.Config
	apiKeys   []string
	newClient llm.Factory
	logger    *zap.Logger
}

// Option configures a Requester
type Option func(*Requester)

// WithClientFactory replaces the function used to construct the LLM client
func WithClientFactory(f llm.Factory) Option {
	return func(r *Requester) { r.newClient = f }
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(r *Requester) { r.logger = l }
}

// NewRequester creates a Requester. apiKeys may be empty, in which case
// Recommend returns guidance instead of calling the API.
func NewRequester(config *llm.Config, apiKeys []string, opts ...Option) *Requester {
	if config == nil {
		config = llm.DefaultConfig()
	}
	r := &Requester{
		config:    config,
		apiKeys:   apiKeys,
		newClient: llm.NewClient,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Recommend requests course recommendations for q.
//
// Without credentials it returns StatusMissingCredentials and the guidance
// message without touching the network. API failures are returned as
// *APICallError. An unparseable reply degrades to StatusUnparseable.
func (r *Requester) Recommend(ctx context.Context, q input.Query) (*Result, error) {
	if len(r.apiKeys) == 0 {
		r.logger.Info("no API key configured, skipping recommendation request")
		return &Result{
			Status:  types.StatusMissingCredentials,
			Message: GuidanceMessage,
		}, nil
	}

	payload, err := BuildPayload(q)
	if err != nil {
		return nil, err
	}

	client, err := r.newClient(ctx, r.config, r.apiKeys[0])
	if err != nil {
		return nil, &APICallError{
			Message: "failed to create LLM client",
			Cause:   err,
		}
	}
	defer func() { _ = client.Close() }()

	model := client.GetModel(payload.Tier)
	r.logger.Debug("requesting course recommendations",
		zap.String("topic", q.Topic),
		zap.String("model", model),
		zap.Int("prompt_chars", len(payload.Prompt)))

	start := time.Now()
	reply, err := client.GenerateJSON(ctx, payload.Prompt, payload.Tier)
	elapsed := time.Since(start)
	if err != nil {
		return nil, &APICallError{
			Message: "failed to generate course recommendations",
			Cause:   err,
		}
	}
	r.logger.Debug("received model reply",
		zap.Int("reply_chars", len(reply)),
		zap.Duration("elapsed", elapsed))

	set, err := ParseReply(reply)
	if err != nil {
		r.logger.Warn("could not parse model reply", zap.Error(err))
		return &Result{
			Status:  types.StatusUnparseable,
			Message: UnparseableMessage,
			Model:   model,
			Elapsed: elapsed,
		}, nil
	}

	return &Result{
		Status:  types.StatusOK,
		Courses: set,
		Model:   model,
		Elapsed: elapsed,
	}, nil
}
