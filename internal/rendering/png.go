package rendering

import (
	"image/color"
	"os"
	"path/filepath"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/jonathan/course-roadmap/internal/types"
)

// Output image size
const (
	imageWidth  = 15 * vg.Inch
	imageHeight = 8 * vg.Inch
)

var (
	roadColor       = color.RGBA{R: 0x42, G: 0x42, B: 0x42, A: 0xFF}
	roadMarkColor   = color.RGBA{R: 0xFF, G: 0xC1, B: 0x07, A: 0xFF}
	connectorColor  = color.RGBA{R: 0x9E, G: 0x9E, B: 0x9E, A: 0xFF}
	subtitleColor   = color.RGBA{R: 0x61, G: 0x61, B: 0x61, A: 0xFF}
	pinNumberColor  = color.White
	backgroundColor = color.White
)

// RenderPNG draws the roadmap and writes it to path as a PNG.
// The file is written through a temporary file in the same directory so a
// failed render never leaves a partial image behind.
func RenderPNG(rm types.Roadmap, path string) (*Layout, error) {
	layout := ComputeLayout(rm)

	p, err := buildPlot(layout)
	if err != nil {
		return nil, err
	}

	wt, err := p.WriterTo(imageWidth, imageHeight, "png")
	if err != nil {
		return nil, &RenderError{Message: "failed to encode image", Path: path, Cause: err}
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".roadmap-*.png")
	if err != nil {
		return nil, &RenderError{Message: "failed to create output file", Path: path, Cause: err}
	}
	tmpName := tmp.Name()

	if _, err := wt.WriteTo(tmp); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return nil, &RenderError{Message: "failed to write image", Path: path, Cause: err}
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return nil, &RenderError{Message: "failed to write image", Path: path, Cause: err}
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return nil, &RenderError{Message: "failed to move image into place", Path: path, Cause: err}
	}

	return &layout, nil
}

func buildPlot(layout Layout) (*plot.Plot, error) {
	p := plot.New()
	p.BackgroundColor = backgroundColor
	p.HideAxes()
	p.Title.Text = layout.Title
	p.Title.TextStyle.Font.Size = vg.Points(22)
	p.Title.Padding = vg.Points(12)

	roadXYs := make(plotter.XYs, len(layout.Road))
	for i, pt := range layout.Road {
		roadXYs[i] = plotter.XY{X: pt.X, Y: pt.Y}
	}

	road, err := plotter.NewLine(roadXYs)
	if err != nil {
		return nil, &RenderError{Message: "failed to build road", Cause: err}
	}
	road.LineStyle.Width = vg.Points(18)
	road.LineStyle.Color = roadColor

	marks, err := plotter.NewLine(roadXYs)
	if err != nil {
		return nil, &RenderError{Message: "failed to build road markings", Cause: err}
	}
	marks.LineStyle.Width = vg.Points(2)
	marks.LineStyle.Color = roadMarkColor
	marks.LineStyle.Dashes = []vg.Length{vg.Points(8), vg.Points(6)}

	p.Add(road, marks)

	pins := make(plotter.XYs, len(layout.Nodes))
	cards := make(plotter.XYs, len(layout.Nodes))
	numbers := make([]string, len(layout.Nodes))
	labels := make([]string, len(layout.Nodes))

	for i, n := range layout.Nodes {
		connector, err := plotter.NewLine(plotter.XYs{
			{X: n.Road.X, Y: n.Road.Y},
			{X: n.Card.X, Y: n.Card.Y},
		})
		if err != nil {
			return nil, &RenderError{Message: "failed to build connector", Cause: err}
		}
		connector.LineStyle.Width = vg.Points(1.5)
		connector.LineStyle.Color = connectorColor
		connector.LineStyle.Dashes = []vg.Length{vg.Points(3), vg.Points(3)}
		p.Add(connector)

		pins[i] = plotter.XY{X: n.Road.X, Y: n.Road.Y}
		cards[i] = plotter.XY{X: n.Card.X, Y: n.Card.Y}
		numbers[i] = strconv.Itoa(n.Step.Number)
		labels[i] = n.Label
	}

	if len(layout.Nodes) > 0 {
		scatter, err := plotter.NewScatter(pins)
		if err != nil {
			return nil, &RenderError{Message: "failed to build step pins", Cause: err}
		}
		scatter.GlyphStyleFunc = func(i int) draw.GlyphStyle {
			return draw.GlyphStyle{
				Color:  layout.Nodes[i].Color,
				Radius: vg.Points(14),
				Shape:  draw.CircleGlyph{},
			}
		}

		pinLabels, err := plotter.NewLabels(plotter.XYLabels{XYs: pins, Labels: numbers})
		if err != nil {
			return nil, &RenderError{Message: "failed to build step numbers", Cause: err}
		}
		for i := range pinLabels.TextStyle {
			centre(&pinLabels.TextStyle[i])
			pinLabels.TextStyle[i].Color = pinNumberColor
			pinLabels.TextStyle[i].Font.Size = vg.Points(13)
		}

		cardLabels, err := plotter.NewLabels(plotter.XYLabels{XYs: cards, Labels: labels})
		if err != nil {
			return nil, &RenderError{Message: "failed to build step labels", Cause: err}
		}
		for i := range cardLabels.TextStyle {
			centre(&cardLabels.TextStyle[i])
			cardLabels.TextStyle[i].Color = layout.Nodes[i].Color
			cardLabels.TextStyle[i].Font.Size = vg.Points(10)
		}

		p.Add(scatter, pinLabels, cardLabels)
	}

	subtitle, err := plotter.NewLabels(plotter.XYLabels{
		XYs:    plotter.XYs{{X: canvasWidth / 2, Y: canvasHeight - 1}},
		Labels: []string{layout.Subtitle},
	})
	if err != nil {
		return nil, &RenderError{Message: "failed to build subtitle", Cause: err}
	}
	centre(&subtitle.TextStyle[0])
	subtitle.TextStyle[0].Color = subtitleColor
	subtitle.TextStyle[0].Font.Size = vg.Points(14)
	p.Add(subtitle)

	// Fixed canvas regardless of what the plotters report
	p.X.Min, p.X.Max = 0, canvasWidth
	p.Y.Min, p.Y.Max = 0, canvasHeight

	return p, nil
}

func centre(s *text.Style) {
	s.XAlign = text.XCenter
	s.YAlign = text.YCenter
}

