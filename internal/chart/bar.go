package chart

import (
	"fmt"
	"log/slog"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"priceshift/internal/analysis"
	"priceshift/internal/dataset"
	apperrors "priceshift/internal/errors"
)

// PriceChangeChart describes the sorted bar chart of price changes
type PriceChangeChart struct {
	Results []analysis.Comparison
	Target  string
	From    dataset.Month
	To      dataset.Month
}

// Title returns the chart title naming the change window
func (c PriceChangeChart) Title(prefix string) string {
	return fmt.Sprintf("%s - overall change in price of products from %s to %s",
		prefix, c.From.Time().Format("January 2006"), c.To.Time().Format("January 2006"))
}

// RenderPriceChanges draws one bar per series, ascending by change, with
// the target highlighted
func (r *Renderer) RenderPriceChanges(c PriceChangeChart, path string) error {
	var ranked []analysis.Comparison
	for _, res := range analysis.Rank(c.Results) {
		if math.IsNaN(res.Change) {
			r.logger.Warn("Series left out of price change chart",
				slog.String("series", res.Series),
				slog.String("reason", "undefined change"))
			continue
		}
		ranked = append(ranked, res)
	}
	if len(ranked) == 0 {
		return apperrors.NewAppValidationError("no defined price changes to chart")
	}

	p := plot.New()
	p.Title.Text = c.Title(r.cfg.Title)
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.Y.Label.Text = "% change"
	p.Y.Tick.Marker = percentTicks{plot.DefaultTicks{}}

	names := make([]string, len(ranked))
	for i, res := range ranked {
		names[i] = capitalize(res.Series)

		bar, err := plotter.NewBarChart(plotter.Values{res.Change}, vg.Points(28))
		if err != nil {
			return apperrors.NewAppError(apperrors.ErrTypeValidation, "failed to build bar", err).
				WithContext("series", res.Series)
		}
		bar.XMin = float64(i)
		bar.LineStyle.Width = vg.Length(0)
		bar.Color = plotutil.Color(0)
		if res.Series == c.Target {
			bar.Color = plotutil.Color(1)
		}
		p.Add(bar)
	}

	p.Add(plotter.NewGrid())
	p.NominalX(names...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter

	return r.save(p, path)
}
