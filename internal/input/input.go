// Package input gathers the learner's topic, either interactively or from
// the --quick command-line argument.
package input

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrEmptyTopic is returned when no topic was supplied
var ErrEmptyTopic = errors.New("a topic is required (e.g. 'Machine Learning', 'Web Development')")

// Query is what the learner asked for
type Query struct {
	Topic  string
	Skills string
	Goals  string
}

// Interactive prompts
const (
	PromptTopic  = "What would you like to learn? (e.g., 'Machine Learning', 'Web Development'): "
	PromptSkills = "What are your current skills? (optional): "
	PromptGoals  = "What are your career goals? (optional): "
)

// FromQuick builds a query from the --quick value plus any trailing
// positional arguments, so that unquoted multi-word topics still work.
func FromQuick(topic string, rest []string, skills, goals string) (Query, error) {
	parts := make([]string, 0, len(rest)+1)
	for _, p := range append([]string{topic}, rest...) {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return newQuery(strings.Join(parts, " "), skills, goals)
}

func newQuery(topic, skills, goals string) (Query, error) {
	q := Query{
		Topic:  strings.Join(strings.Fields(topic), " "),
		Skills: strings.TrimSpace(skills),
		Goals:  strings.TrimSpace(goals),
	}
	if q.Topic == "" {
		return Query{}, ErrEmptyTopic
	}
	return q, nil
}

// Prompter asks for a query on an interactive terminal
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPrompter creates a Prompter reading answers from in and writing prompts to out
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// Ask prompts for the topic and then the optional skills and goals.
// An empty topic stops before the optional questions.
func (p *Prompter) Ask(ctx context.Context) (Query, error) {
	topic, err := p.ask(ctx, PromptTopic)
	if err != nil {
		return Query{}, err
	}
	if strings.TrimSpace(topic) == "" {
		return Query{}, ErrEmptyTopic
	}

	skills, err := p.ask(ctx, PromptSkills)
	if err != nil {
		return Query{}, err
	}
	goals, err := p.ask(ctx, PromptGoals)
	if err != nil {
		return Query{}, err
	}

	return newQuery(topic, skills, goals)
}

// ask writes a prompt and reads one line. EOF after a partial line is accepted;
// EOF with nothing read yields an empty answer.
func (p *Prompter) ask(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if _, err := fmt.Fprint(p.out, prompt); err != nil {
		return "", fmt.Errorf("failed to write prompt: %w", err)
	}

	line, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read answer: %w", err)
	}
	return strings.TrimSpace(line), nil
}
