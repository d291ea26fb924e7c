package rendering

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/jonathan/course-roadmap/internal/types"
)

// Canvas and road geometry, in data units
const (
	canvasWidth  = 30.0
	canvasHeight = 16.0

	roadStartX      = 3.0
	roadEndX        = 27.0
	roadCenterY     = 10.0
	roadAmplitude   = 1.8
	roadHalfPeriods = 2.8
	roadSamples     = 600

	cardOffset = 3.0
	cardMaxY   = 13.0 // keeps cards clear of the title
	cardMinY   = 1.5

	annotationWidth = 26
	annotationLines = 2
)

// stepColors holds one colour per roadmap step
var stepColors = [types.RoadmapSteps]color.RGBA{
	{R: 0xE9, G: 0x1E, B: 0x63, A: 0xFF}, // pink
	{R: 0x00, G: 0x96, B: 0x88, A: 0xFF}, // teal
	{R: 0x9C, G: 0x27, B: 0xB0, A: 0xFF}, // purple
	{R: 0xFF, G: 0x98, B: 0x00, A: 0xFF}, // orange
	{R: 0x21, G: 0x96, B: 0xF3, A: 0xFF}, // blue
	{R: 0x4C, G: 0xAF, B: 0x50, A: 0xFF}, // green
	{R: 0xF4, G: 0x43, B: 0x36, A: 0xFF}, // red
	{R: 0x79, G: 0x55, B: 0x48, A: 0xFF}, // brown
}

// Point is a position in data units
type Point struct {
	X, Y float64
}

// Node is one drawn roadmap step
type Node struct {
	Step  types.Step
	Road  Point // pin on the road
	Card  Point // centre of the text card
	Color color.RGBA
	Label string
}

// Layout is everything needed to draw a roadmap
type Layout struct {
	Title    string
	Subtitle string
	Road     []Point
	Nodes    []Node
}

// ComputeLayout places the roadmap steps at their fixed positions along the road.
// Steps past the eighth are ignored.
func ComputeLayout(rm types.Roadmap) Layout {
	road := roadPath()

	steps := rm.Steps
	if len(steps) > types.RoadmapSteps {
		steps = steps[:types.RoadmapSteps]
	}

	nodes := make([]Node, len(steps))
	for i, step := range steps {
		progress := 0.5
		if len(steps) > 1 {
			progress = float64(i) / float64(len(steps)-1)
		}
		pin := road[int(progress*float64(len(road)-1))]

		card := Point{X: pin.X}
		if i%2 == 0 {
			card.Y = math.Min(pin.Y+cardOffset, cardMaxY)
		} else {
			card.Y = math.Max(pin.Y-cardOffset, cardMinY)
		}
		card.X = math.Max(math.Min(card.X, canvasWidth-2.5), 2.5)

		nodes[i] = Node{
			Step:  step,
			Road:  pin,
			Card:  card,
			Color: stepColors[i%len(stepColors)],
			Label: nodeLabel(step),
		}
	}

	topic := strings.ToUpper(strings.TrimSpace(rm.Topic))
	if topic == "" {
		topic = "LEARNING PATH"
	}

	return Layout{
		Title:    fmt.Sprintf("%s LEARNING ROADMAP", topic),
		Subtitle: fmt.Sprintf("%d-STEP LEARNING TIMELINE", types.RoadmapSteps),
		Road:     road,
		Nodes:    nodes,
	}
}

// roadPath samples the wavy road centre line
func roadPath() []Point {
	pts := make([]Point, roadSamples)
	for i := range pts {
		progress := float64(i) / float64(roadSamples-1)
		pts[i] = Point{
			X: roadStartX + progress*(roadEndX-roadStartX),
			Y: roadCenterY + roadAmplitude*math.Sin(progress*math.Pi*roadHalfPeriods),
		}
	}
	return pts
}

func nodeLabel(step types.Step) string {
	lines := []string{fmt.Sprintf("%d. %s", step.Number, step.Label)}
	lines = append(lines, wrap(step.Annotation, annotationWidth, annotationLines)...)
	return strings.Join(lines, "\n")
}

// wrap breaks text into at most maxLines lines of about width runes,
// marking truncation with "..."
func wrap(text string, width, maxLines int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	current := ""
	for _, w := range words {
		if r := []rune(w); len(r) > width {
			w = string(r[:width-3]) + "..."
		}
		switch {
		case current == "":
			current = w
		case len([]rune(current))+1+len([]rune(w)) <= width:
			current += " " + w
		default:
			lines = append(lines, current)
			current = w
		}
	}
	lines = append(lines, current)

	if len(lines) > maxLines {
		lines = lines[:maxLines]
		last := []rune(lines[maxLines-1])
		if len(last) > width-3 {
			last = last[:width-3]
		}
		lines[maxLines-1] = strings.TrimRight(string(last), " ") + "..."
	}
	return lines
}
