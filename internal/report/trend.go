package report

import (
	"fmt"
	"math"
	"strings"

	"github.com/alhadhrami/bizreport/internal/metrics"
)

// Sparkline drawing area in viewBox units.
const (
	sparkWidth   = 560
	sparkHeight  = 120
	sparkPadding = 6
)

// TrendView is one metric's trend rendered as SVG polyline coordinates.
// Raw and Smoothed share one vertical scale so the lines overlay.
type TrendView struct {
	Label    string
	Raw      string
	Smoothed string
}

// BuildTrends converts trend series into renderable views. Series with
// fewer than two plottable points are skipped.
func BuildTrends(trends []metrics.Trend) []TrendView {
	views := make([]TrendView, 0, len(trends))
	for _, trend := range trends {
		lo, hi, count := seriesBounds(trend.Values, trend.Smoothed)
		if count < 2 {
			continue
		}
		views = append(views, TrendView{
			Label:    trend.Label,
			Raw:      polylinePoints(trend.Values, lo, hi),
			Smoothed: polylinePoints(trend.Smoothed, lo, hi),
		})
	}
	return views
}

// seriesBounds finds the shared value range across both series and the
// number of plottable (non-NaN) raw points.
func seriesBounds(values, smoothed []float64) (lo, hi float64, count int) {
	lo = math.Inf(1)
	hi = math.Inf(-1)
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		count++
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	for _, v := range smoothed {
		if math.IsNaN(v) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi, count
}

// polylinePoints maps a series onto the sparkline viewBox as an SVG
// points attribute, skipping NaN cells. A flat series draws at mid-height.
func polylinePoints(values []float64, lo, hi float64) string {
	if len(values) == 0 {
		return ""
	}

	plotWidth := float64(sparkWidth - 2*sparkPadding)
	plotHeight := float64(sparkHeight - 2*sparkPadding)
	step := 0.0
	if len(values) > 1 {
		step = plotWidth / float64(len(values)-1)
	}

	var b strings.Builder
	for i, v := range values {
		if math.IsNaN(v) {
			continue
		}
		x := sparkPadding + float64(i)*step
		y := sparkPadding + plotHeight/2
		if hi > lo {
			y = sparkPadding + (hi-v)/(hi-lo)*plotHeight
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%.1f,%.1f", x, y)
	}
	return b.String()
}
