// Package report renders planned speed profiles as PNG plots and interactive
// HTML charts.
package report

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/velocity.plan/internal/monitoring"
	"github.com/banshee-data/velocity.plan/internal/stboundary"
	"github.com/banshee-data/velocity.plan/internal/stspeed"
)

var (
	profileColor = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	accelColor   = color.RGBA{R: 255, G: 127, B: 14, A: 255}
	jerkColor    = color.RGBA{R: 44, G: 160, B: 44, A: 255}
)

// boundaryColor picks a fill per boundary type. Blocking obstacles are red.
func boundaryColor(bt stboundary.BoundaryType) color.RGBA {
	if bt.IsBlocking() {
		return color.RGBA{R: 214, G: 39, B: 40, A: 96}
	}
	return color.RGBA{R: 127, G: 127, B: 127, A: 96}
}

// WritePlots saves three PNG files into outputDir: the ST graph with the
// obstacle regions, the speed profile, and the acceleration and jerk
// profile. It returns the written paths.
func WritePlots(outputDir, name string, data *stspeed.SpeedData, boundaries []*stboundary.Boundary) ([]string, error) {
	if data.Len() == 0 {
		return nil, fmt.Errorf("no speed points to plot")
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	points := data.Points()
	stPts := make(plotter.XYs, 0, len(points))
	vPts := make(plotter.XYs, 0, len(points))
	aPts := make(plotter.XYs, 0, len(points))
	jPts := make(plotter.XYs, 0, len(points))
	for _, p := range points {
		stPts = append(stPts, plotter.XY{X: p.T, Y: p.S})
		vPts = append(vPts, plotter.XY{X: p.T, Y: p.V})
		aPts = append(aPts, plotter.XY{X: p.T, Y: p.A})
		jPts = append(jPts, plotter.XY{X: p.T, Y: p.Da})
	}

	pST := plot.New()
	pST.Title.Text = fmt.Sprintf("%s - ST graph", name)
	pST.X.Label.Text = "t (s)"
	pST.Y.Label.Text = "s (m)"

	for _, b := range boundaries {
		poly, err := boundaryPolygon(b)
		if err != nil {
			return nil, err
		}
		if poly == nil {
			continue
		}
		pST.Add(poly)
		pST.Legend.Add(fmt.Sprintf("%s (%s)", b.ID, b.Type), poly)
	}

	stLine, err := plotter.NewLine(stPts)
	if err != nil {
		return nil, fmt.Errorf("failed to create st line: %w", err)
	}
	stLine.Color = profileColor
	stLine.Width = vg.Points(1)
	pST.Add(stLine)
	pST.Legend.Add("s(t)", stLine)

	pV := plot.New()
	pV.Title.Text = fmt.Sprintf("%s - speed", name)
	pV.X.Label.Text = "t (s)"
	pV.Y.Label.Text = "v (m/s)"
	vLine, err := plotter.NewLine(vPts)
	if err != nil {
		return nil, fmt.Errorf("failed to create speed line: %w", err)
	}
	vLine.Color = profileColor
	vLine.Width = vg.Points(1)
	pV.Add(vLine)

	pA := plot.New()
	pA.Title.Text = fmt.Sprintf("%s - acceleration and jerk", name)
	pA.X.Label.Text = "t (s)"
	pA.Y.Label.Text = "a (m/s^2), j (m/s^3)"
	aLine, err := plotter.NewLine(aPts)
	if err != nil {
		return nil, fmt.Errorf("failed to create accel line: %w", err)
	}
	aLine.Color = accelColor
	aLine.Width = vg.Points(1)
	pA.Add(aLine)
	pA.Legend.Add("a(t)", aLine)
	jLine, err := plotter.NewLine(jPts)
	if err != nil {
		return nil, fmt.Errorf("failed to create jerk line: %w", err)
	}
	jLine.Color = jerkColor
	jLine.Width = vg.Points(1)
	pA.Add(jLine)
	pA.Legend.Add("j(t)", jLine)

	files := []struct {
		p    *plot.Plot
		name string
	}{
		{pST, plotFileName(name, "st")},
		{pV, plotFileName(name, "speed")},
		{pA, plotFileName(name, "accel")},
	}
	written := make([]string, 0, len(files))
	for _, f := range files {
		path := filepath.Join(outputDir, f.name)
		if err := f.p.Save(14*vg.Inch, 6*vg.Inch, path); err != nil {
			return written, fmt.Errorf("failed to save %s: %w", f.name, err)
		}
		written = append(written, path)
	}

	monitoring.Logf("Saved %d plots for %s to %s", len(written), name, outputDir)
	return written, nil
}

// boundaryPolygon traces the occupied region of b: along the upper edge
// forwards in time, then back along the lower edge.
func boundaryPolygon(b *stboundary.Boundary) (*plotter.Polygon, error) {
	pts := b.Points()
	if len(pts) < 2 {
		return nil, nil
	}
	ring := make(plotter.XYs, 0, 2*len(pts))
	for _, p := range pts {
		ring = append(ring, plotter.XY{X: p.T, Y: p.SUpper})
	}
	for i := len(pts) - 1; i >= 0; i-- {
		ring = append(ring, plotter.XY{X: pts[i].T, Y: pts[i].SLower})
	}
	poly, err := plotter.NewPolygon(ring)
	if err != nil {
		return nil, fmt.Errorf("failed to create polygon for boundary %s: %w", b.ID, err)
	}
	poly.Color = boundaryColor(b.Type)
	poly.LineStyle.Color = boundaryColor(b.Type)
	poly.LineStyle.Width = vg.Points(0.5)
	return poly, nil
}

// plotFileName builds "<name>_<kind>.png" with every character of name
// outside [A-Za-z0-9._-] replaced by an underscore, so scenario names
// cannot escape the output directory.
func plotFileName(name, kind string) string {
	const maxLen = 96
	var b strings.Builder
	lastUnderscore := false
	for _, r := range name {
		if b.Len() >= maxLen {
			break
		}
		switch {
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'),
			r == '.' || r == '_' || r == '-':
			b.WriteRune(r)
			lastUnderscore = r == '_'
		default:
			if !lastUnderscore {
				b.WriteRune('_')
				lastUnderscore = true
			}
		}
	}
	base := strings.Trim(b.String(), "._")
	if base == "" {
		base = "plan"
	}
	return fmt.Sprintf("%s_%s.png", base, kind)
}
