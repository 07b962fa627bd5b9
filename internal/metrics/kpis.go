package metrics

import (
	"fmt"
	"math"
	"strings"
)

// Standard metric columns recognized by the KPI calculator.
const (
	ColumnRevenue   = "Revenue"
	ColumnSales     = "Sales"
	ColumnCustomers = "Customer_Count"
)

// KPI is one named metric value with display metadata. Order matters:
// callers render KPIs in the order the calculator emits them.
type KPI struct {
	// Key is the stable snake_case identifier, e.g. "total_revenue".
	Key string

	// Label is the human-readable name, e.g. "Total Revenue".
	Label string

	// Value is the computed number.
	Value float64

	// Prefix precedes the formatted value ("$" for currency).
	Prefix string

	// Suffix follows the formatted value ("%" for growth rates).
	Suffix string
}

// FormattedValue renders the value with thousands separators and two
// decimals, plus the prefix/suffix.
func (k KPI) FormattedValue() string {
	if math.IsInf(k.Value, 1) {
		return k.Prefix + "Inf" + k.Suffix
	}
	if math.IsInf(k.Value, -1) {
		return k.Prefix + "-Inf" + k.Suffix
	}
	return k.Prefix + groupThousands(fmt.Sprintf("%.2f", k.Value)) + k.Suffix
}

// groupThousands inserts commas into the integer part of a formatted number.
func groupThousands(s string) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, fracPart, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}

	out := b.String()
	if fracPart != "" {
		out += "." + fracPart
	}
	if neg {
		out = "-" + out
	}
	return out
}

// Sum totals a column, skipping NaN cells. Returns 0 for unknown columns.
func (d *Dataset) Sum(column string) float64 {
	var total float64
	for _, v := range d.columns[column] {
		if !math.IsNaN(v) {
			total += v
		}
	}
	return total
}

// Mean averages a column, skipping NaN cells. Returns 0 when no values exist.
func (d *Dataset) Mean(column string) float64 {
	var total float64
	var count int
	for _, v := range d.columns[column] {
		if !math.IsNaN(v) {
			total += v
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return total / float64(count)
}

// GrowthRate computes the period-over-period growth percentage of the last
// observation versus the previous one, rounded to two decimals. With fewer
// than two observations it returns 0; a zero previous value yields +Inf
// unless the current value is also zero.
func (d *Dataset) GrowthRate(column string) float64 {
	var values []float64
	for _, v := range d.columns[column] {
		if !math.IsNaN(v) {
			values = append(values, v)
		}
	}
	if len(values) < 2 {
		return 0
	}

	current := values[len(values)-1]
	previous := values[len(values)-2]
	if previous == 0 {
		if current != 0 {
			return math.Inf(1)
		}
		return 0
	}

	growth := (current - previous) / previous * 100
	return math.Round(growth*100) / 100
}

// MovingAverage computes a trailing moving average with a minimum period
// of one, skipping NaN cells. Returns nil for unknown columns.
func (d *Dataset) MovingAverage(column string, window int) []float64 {
	col, ok := d.columns[column]
	if !ok {
		return nil
	}
	if window < 1 {
		window = 1
	}

	out := make([]float64, len(col))
	for i := range col {
		start := i - window + 1
		if start < 0 {
			start = 0
		}
		var sum float64
		var count int
		for _, v := range col[start : i+1] {
			if !math.IsNaN(v) {
				sum += v
				count++
			}
		}
		if count == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = sum / float64(count)
	}
	return out
}

// DefaultTrendWindow is the moving-average window used for report trend
// sections.
const DefaultTrendWindow = 7

// Trend pairs a metric's raw series with its trailing moving average, in
// the dataset's date order.
type Trend struct {
	// Column is the source column name.
	Column string

	// Label is the human-readable metric name.
	Label string

	// Values is the raw series; missing cells are NaN.
	Values []float64

	// Smoothed is the moving average of Values over the requested window.
	Smoothed []float64
}

// trendColumns are the metric columns that get a trend section, with
// their display labels, in render order.
var trendColumns = []struct {
	column string
	label  string
}{
	{ColumnRevenue, "Revenue"},
	{ColumnSales, "Sales"},
	{ColumnCustomers, "Customers"},
}

// Trends returns the trend series for each recognized metric column
// present in the dataset. A window below one is treated as one.
func (d *Dataset) Trends(window int) []Trend {
	var trends []Trend
	for _, tc := range trendColumns {
		if !d.HasColumn(tc.column) {
			continue
		}
		values := d.columns[tc.column]
		trends = append(trends, Trend{
			Column:   tc.column,
			Label:    tc.label,
			Values:   append([]float64(nil), values...),
			Smoothed: d.MovingAverage(tc.column, window),
		})
	}
	return trends
}

// KPIs computes the key business metrics available in the dataset, in
// stable display order. Columns absent from the data contribute nothing.
func (d *Dataset) KPIs() []KPI {
	var kpis []KPI

	if d.HasColumn(ColumnRevenue) {
		kpis = append(kpis,
			KPI{Key: "total_revenue", Label: "Total Revenue", Value: d.Sum(ColumnRevenue), Prefix: "$"},
			KPI{Key: "avg_daily_revenue", Label: "Avg Daily Revenue", Value: d.Mean(ColumnRevenue), Prefix: "$"},
			KPI{Key: "revenue_growth", Label: "Revenue Growth", Value: d.GrowthRate(ColumnRevenue), Suffix: "%"},
		)
	}

	if d.HasColumn(ColumnSales) {
		kpis = append(kpis,
			KPI{Key: "total_sales", Label: "Total Sales", Value: d.Sum(ColumnSales)},
			KPI{Key: "avg_daily_sales", Label: "Avg Daily Sales", Value: d.Mean(ColumnSales)},
			KPI{Key: "sales_growth", Label: "Sales Growth", Value: d.GrowthRate(ColumnSales), Suffix: "%"},
		)
	}

	if d.HasColumn(ColumnCustomers) {
		kpis = append(kpis,
			KPI{Key: "total_customers", Label: "Total Customers", Value: d.Sum(ColumnCustomers)},
			KPI{Key: "avg_daily_customers", Label: "Avg Daily Customers", Value: d.Mean(ColumnCustomers)},
			KPI{Key: "customer_growth", Label: "Customer Growth", Value: d.GrowthRate(ColumnCustomers), Suffix: "%"},
		)

		if d.HasColumn(ColumnRevenue) {
			if customers := d.Sum(ColumnCustomers); customers != 0 {
				kpis = append(kpis, KPI{
					Key:    "avg_revenue_per_customer",
					Label:  "Avg Revenue/Customer",
					Value:  d.Sum(ColumnRevenue) / customers,
					Prefix: "$",
				})
			}
		}
	}

	return kpis
}
