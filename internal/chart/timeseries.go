package chart

import (
	"fmt"
	"image/color"
	"log/slog"
	"math"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"priceshift/internal/dataset"
	apperrors "priceshift/internal/errors"
)

// IndicesChart describes the time series of normalised indices
type IndicesChart struct {
	Table       *dataset.Table
	Target      string
	Baseline    dataset.Month
	PolicyDate  time.Time
	PolicyLabel string
}

// Title returns the chart title naming the baseline month
func (c IndicesChart) Title(prefix string) string {
	return fmt.Sprintf("%s - ONS index changes for tampons and related consumer goods, normalised to %s",
		prefix, c.Baseline.Time().Format("Jan 2006"))
}

var (
	dashed = []vg.Length{vg.Points(6), vg.Points(4)}
	dotted = []vg.Length{vg.Points(1), vg.Points(3)}
)

// RenderIndices draws one line per series over the month axis. The
// reference and the target are dashed and always drawn; the other goods
// only when ShowAll is set. A dotted vertical line marks the policy date.
func (r *Renderer) RenderIndices(c IndicesChart, path string) error {
	t := c.Table
	if len(t.Months) == 0 {
		return apperrors.NewAppValidationError("no months to chart")
	}

	p := plot.New()
	p.Title.Text = c.Title(r.cfg.Title)
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.Y.Label.Text = "Relative prices"
	p.Y.Tick.Marker = percentTicks{plot.DefaultTicks{}}
	p.X.Tick.Marker = plot.TimeTicks{Ticker: monthTicks{}, Format: "Jan 2006", Time: plot.UTCUnixTime}
	p.X.Tick.Label.Rotation = math.Pi / 2
	p.X.Min = unixX(t.Months[0].Time())
	p.X.Max = unixX(t.Months[len(t.Months)-1].Time())
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	yMin, yMax := math.Inf(1), math.Inf(-1)
	drawn := 0
	for i, s := range t.All() {
		highlighted := s == t.Reference || s.Name == c.Target
		if !highlighted && !r.cfg.ShowAll {
			continue
		}

		segments := segmentsOf(t.Months, s)
		if len(segments) == 0 {
			r.logger.Warn("Series has no values to chart", slog.String("series", s.Name))
			continue
		}

		col := plotutil.Color(i)
		var legend plot.Thumbnailer
		for _, seg := range segments {
			line, points, err := plotter.NewLinePoints(seg)
			if err != nil {
				return apperrors.NewAppError(apperrors.ErrTypeValidation, "failed to build line", err).
					WithContext("series", s.Name)
			}
			line.Color = col
			line.Width = vg.Points(1.5)
			if highlighted {
				line.Dashes = dashed
			}
			points.Color = col
			points.Radius = vg.Points(2)
			p.Add(line, points)
			if legend == nil {
				legend = line
			}

			for _, xy := range seg {
				yMin = math.Min(yMin, xy.Y)
				yMax = math.Max(yMax, xy.Y)
			}
		}
		p.Legend.Add(capitalize(s.Name), legend)
		drawn++
	}

	if drawn == 0 {
		return apperrors.NewAppValidationError("no series to chart")
	}

	if err := addPolicyMarker(p, c, yMin, yMax); err != nil {
		return err
	}

	r.logger.Debug("Indices chart prepared",
		slog.Int("series_drawn", drawn),
		slog.Bool("show_all", r.cfg.ShowAll))

	return r.save(p, path)
}

// segmentsOf splits a series into runs of consecutive months with values
func segmentsOf(months []dataset.Month, s *dataset.Series) []plotter.XYs {
	var segments []plotter.XYs
	var current plotter.XYs
	for _, m := range months {
		v, ok := s.Value(m)
		if !ok {
			if len(current) > 0 {
				segments = append(segments, current)
				current = nil
			}
			continue
		}
		current = append(current, plotter.XY{X: unixX(m.Time()), Y: v})
	}
	if len(current) > 0 {
		segments = append(segments, current)
	}
	return segments
}

func addPolicyMarker(p *plot.Plot, c IndicesChart, yMin, yMax float64) error {
	x := unixX(c.PolicyDate)
	if x < p.X.Min || x > p.X.Max {
		return nil
	}

	vline, err := plotter.NewLine(plotter.XYs{{X: x, Y: yMin}, {X: x, Y: yMax}})
	if err != nil {
		return apperrors.NewAppError(apperrors.ErrTypeValidation, "failed to build policy line", err)
	}
	vline.Color = color.Black
	vline.Dashes = dotted
	p.Add(vline)

	if c.PolicyLabel == "" {
		return nil
	}
	labels, err := plotter.NewLabels(plotter.XYLabels{
		XYs:    []plotter.XY{{X: x, Y: yMax}},
		Labels: []string{c.PolicyLabel},
	})
	if err != nil {
		return apperrors.NewAppError(apperrors.ErrTypeValidation, "failed to build policy label", err)
	}
	labels.Offset = vg.Point{X: vg.Points(4), Y: vg.Points(-10)}
	p.Add(labels)
	return nil
}
