// Package metrics loads tabular business data and computes the KPI set
// embedded into reports: totals, daily means, period-over-period growth,
// and moving averages for trend analysis.
package metrics

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/alhadhrami/bizreport/pkg/bizreport"
)

// DateColumn is the required column holding the observation date.
const DateColumn = "Date"

// dateLayouts are accepted in order; the first successful parse wins.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"01/02/2006",
	"02-Jan-2006",
	time.RFC3339,
}

// Dataset holds date-sorted rows of numeric business metrics. Cells that
// were blank or non-numeric in the source are NaN and excluded from
// aggregate calculations.
type Dataset struct {
	dates   []time.Time
	columns map[string][]float64
	order   []string // metric column order as it appeared in the header
}

// LoadCSV reads and validates a dataset from a CSV file.
func LoadCSV(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("data file not found: %s: %w", path, bizreport.ErrInvalidData)
		}
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

// Load reads and validates CSV content. The header row is required, the
// Date column is required, and every other column is treated as a metric.
func Load(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("data is empty: %w", bizreport.ErrInvalidData)
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	dateIdx := -1
	for i, name := range header {
		header[i] = strings.TrimSpace(name)
		if header[i] == DateColumn {
			dateIdx = i
		}
	}
	if dateIdx == -1 {
		return nil, fmt.Errorf("missing required column %q: %w", DateColumn, bizreport.ErrInvalidData)
	}

	ds := &Dataset{columns: make(map[string][]float64)}
	for i, name := range header {
		if i == dateIdx {
			continue
		}
		ds.order = append(ds.order, name)
		ds.columns[name] = nil
	}

	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row %d: %w", line+1, err)
		}
		line++

		date, err := parseDate(record[dateIdx])
		if err != nil {
			return nil, fmt.Errorf("row %d: %v: %w", line, err, bizreport.ErrInvalidData)
		}
		ds.dates = append(ds.dates, date)

		for i, name := range header {
			if i == dateIdx {
				continue
			}
			ds.columns[name] = append(ds.columns[name], parseCell(record[i]))
		}
	}

	if len(ds.dates) == 0 {
		return nil, fmt.Errorf("data has no rows: %w", bizreport.ErrInvalidData)
	}

	ds.sortByDate()
	return ds, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

// parseCell coerces a cell to float64, NaN when blank or non-numeric.
func parseCell(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// sortByDate orders all rows chronologically, keeping columns aligned.
func (d *Dataset) sortByDate() {
	idx := make([]int, len(d.dates))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return d.dates[idx[a]].Before(d.dates[idx[b]])
	})

	sortedDates := make([]time.Time, len(idx))
	for i, j := range idx {
		sortedDates[i] = d.dates[j]
	}
	d.dates = sortedDates

	for name, col := range d.columns {
		sorted := make([]float64, len(idx))
		for i, j := range idx {
			sorted[i] = col[j]
		}
		d.columns[name] = sorted
	}
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	return len(d.dates)
}

// Dates returns the chronologically sorted observation dates.
func (d *Dataset) Dates() []time.Time {
	return d.dates
}

// Columns returns the metric column names in header order.
func (d *Dataset) Columns() []string {
	return d.order
}

// HasColumn reports whether a metric column exists.
func (d *Dataset) HasColumn(name string) bool {
	_, ok := d.columns[name]
	return ok
}

// Column returns a metric column's values, aligned with Dates.
func (d *Dataset) Column(name string) []float64 {
	return d.columns[name]
}
