// Package observability provides formatted console output for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jonathan/course-roadmap/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// contentWidth is the printable width inside a box
	contentWidth = boxWidth - 4
)

// Level badge colours
var (
	beginnerColor     = lipgloss.Color("#4CAF50") // green
	intermediateColor = lipgloss.Color("#FFC107") // yellow
	advancedColor     = lipgloss.Color("#e53935") // red
	otherColor        = lipgloss.Color("#9E9E9E")
)

// levelOrder is the display order of course groups
var levelOrder = []string{types.LevelBeginner, types.LevelIntermediate, types.LevelAdvanced, ""}

// Summary describes the files and counts produced by a run
type Summary struct {
	Topic     string
	Courses   int
	Steps     int
	ImagePath string
	PlanPath  string
	Elapsed   time.Duration
}

// Printer handles formatted output to the console
type Printer struct {
	out      io.Writer
	renderer *lipgloss.Renderer
}

// NewPrinter creates a new Printer that writes to the given writer.
// Colour is only emitted when the writer is a terminal.
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out, renderer: lipgloss.NewRenderer(out)}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(truncate(title, contentWidth)))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	fit := p.renderer.NewStyle().MaxWidth(contentWidth)
	for _, line := range strings.Split(content, "\n") {
		if lipgloss.Width(line) > contentWidth {
			line = fit.Render(line)
		}
		fmt.Fprintf(p.out, "│ %s │\n", pad(line))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintStep outputs a one-line progress marker.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintStep(n, total int, message string) {
	fmt.Fprintf(p.out, "Step %d/%d: %s\n", n, total, message)
}

// PrintBanner outputs the run header for a topic.
func (p *Printer) PrintBanner(topic string) {
	p.printBox("COURSE ROADMAP", fmt.Sprintf("Topic:  %s", truncate(topic, contentWidth-8)))
}

// PrintNotice outputs a titled block of free text, wrapping long lines.
func (p *Printer) PrintNotice(title, message string) {
	message = strings.TrimSpace(message)
	if message == "" {
		return
	}

	var lines []string
	for _, para := range strings.Split(message, "\n") {
		lines = append(lines, wrapText(para, contentWidth)...)
	}
	p.printBox(title, strings.Join(lines, "\n"))
}

// PrintCourses outputs the recommended courses grouped by level.
func (p *Printer) PrintCourses(set types.RecommendationSet) {
	if set.Len() == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Recommended %d courses:\n", set.Len()))

	n := 0
	for _, level := range levelOrder {
		group := coursesAtLevel(set, level)
		if len(group) == 0 {
			continue
		}

		sb.WriteString("\n")
		sb.WriteString(p.badge(level))
		sb.WriteString("\n")
		for _, c := range group {
			n++
			sb.WriteString(fmt.Sprintf("%d. %s\n", n, truncate(c.Title, contentWidth-4)))
			if details := courseDetails(c); details != "" {
				sb.WriteString(fmt.Sprintf("   %s\n", truncate(details, contentWidth-3)))
			}
			if c.Description != "" {
				sb.WriteString(fmt.Sprintf("   %s\n", truncate(c.Description, contentWidth-3)))
			}
		}
	}

	p.printBox("RECOMMENDED COURSES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRoadmap outputs the roadmap steps in order.
func (p *Printer) PrintRoadmap(rm types.Roadmap) {
	if len(rm.Steps) == 0 {
		return
	}

	var sb strings.Builder
	for _, step := range rm.Steps {
		sb.WriteString(fmt.Sprintf("%d. %-20s %s\n", step.Number, step.Label, p.badge(step.Difficulty)))
		sb.WriteString(fmt.Sprintf("   %s\n", truncate(step.Annotation, contentWidth-3)))
	}

	p.printBox("LEARNING ROADMAP", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSummary outputs the result counts and written files.
func (p *Printer) PrintSummary(s Summary) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Topic:    %s\n", truncate(s.Topic, contentWidth-10)))
	sb.WriteString(fmt.Sprintf("Courses:  %d\n", s.Courses))
	sb.WriteString(fmt.Sprintf("Steps:    %d\n", s.Steps))
	if s.ImagePath != "" {
		sb.WriteString(fmt.Sprintf("Image:    %s\n", truncate(s.ImagePath, contentWidth-10)))
	}
	if s.PlanPath != "" {
		sb.WriteString(fmt.Sprintf("Plan:     %s\n", truncate(s.PlanPath, contentWidth-10)))
	}
	if s.Elapsed > 0 {
		sb.WriteString(fmt.Sprintf("Elapsed:  %s\n", s.Elapsed.Round(time.Millisecond)))
	}

	p.printBox("✅ ROADMAP COMPLETE", strings.TrimSuffix(sb.String(), "\n"))
}

func (p *Printer) badge(level string) string {
	style := p.renderer.NewStyle().Bold(true)
	switch level {
	case types.LevelBeginner:
		return style.Foreground(beginnerColor).Render("[BEGINNER]")
	case types.LevelIntermediate:
		return style.Foreground(intermediateColor).Render("[INTERMEDIATE]")
	case types.LevelAdvanced:
		return style.Foreground(advancedColor).Render("[ADVANCED]")
	default:
		return style.Foreground(otherColor).Render("[OTHER]")
	}
}

func coursesAtLevel(set types.RecommendationSet, level string) []types.Course {
	if level != "" {
		return set.ByLevel(level)
	}

	var out []types.Course
	for _, c := range set.Courses {
		switch c.Level {
		case types.LevelBeginner, types.LevelIntermediate, types.LevelAdvanced:
		default:
			out = append(out, c)
		}
	}
	return out
}

func courseDetails(c types.Course) string {
	rating := strings.TrimSpace(string(c.Rating))
	if rating != "" {
		rating = "★ " + rating
	}

	var parts []string
	for _, s := range []string{c.Platform, c.Duration, rating, string(c.Price)} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " · ")
}

func pad(s string) string {
	if w := lipgloss.Width(s); w < contentWidth {
		return s + strings.Repeat(" ", contentWidth-w)
	}
	return s
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-3]) + "..."
}

func wrapText(s string, width int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	line := ""
	for _, w := range words {
		w = truncate(w, width)
		switch {
		case line == "":
			line = w
		case len([]rune(line))+1+len([]rune(w)) <= width:
			line += " " + w
		default:
			lines = append(lines, line)
			line = w
		}
	}
	return append(lines, line)
}
