package metrics

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alhadhrami/bizreport/pkg/bizreport"
)

const sampleCSV = `Date,Revenue,Sales,Customer_Count
2025-01-03,1200.50,30,15
2025-01-01,1000.00,25,10
2025-01-02,1100.00,28,12
`

func TestLoad_SortsByDate(t *testing.T) {
	ds, err := Load(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	require.Equal(t, 3, ds.Len())
	dates := ds.Dates()
	assert.True(t, dates[0].Before(dates[1]))
	assert.True(t, dates[1].Before(dates[2]))

	// Columns must stay aligned with the sorted dates
	revenue := ds.Column(ColumnRevenue)
	assert.Equal(t, []float64{1000.00, 1100.00, 1200.50}, revenue)
}

func TestLoad_ColumnOrderFollowsHeader(t *testing.T) {
	ds, err := Load(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	assert.Equal(t, []string{"Revenue", "Sales", "Customer_Count"}, ds.Columns())
}

func TestLoad_MissingDateColumn(t *testing.T) {
	_, err := Load(strings.NewReader("Revenue,Sales\n100,5\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, bizreport.ErrInvalidData))
	assert.Contains(t, err.Error(), "Date")
}

func TestLoad_EmptyInput(t *testing.T) {
	_, err := Load(strings.NewReader(""))
	assert.True(t, errors.Is(err, bizreport.ErrInvalidData))
}

func TestLoad_HeaderOnly(t *testing.T) {
	_, err := Load(strings.NewReader("Date,Revenue\n"))
	assert.True(t, errors.Is(err, bizreport.ErrInvalidData))
}

func TestLoad_InvalidDate(t *testing.T) {
	_, err := Load(strings.NewReader("Date,Revenue\nnot-a-date,100\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, bizreport.ErrInvalidData))
}

func TestLoad_AcceptsMultipleDateLayouts(t *testing.T) {
	csv := "Date,Revenue\n01/15/2025,100\n2025-01-16,200\n"
	ds, err := Load(strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, 2, ds.Len())
}

func TestLoad_BlankAndBadCellsBecomeNaN(t *testing.T) {
	csv := "Date,Revenue\n2025-01-01,100\n2025-01-02,\n2025-01-03,n/a\n"
	ds, err := Load(strings.NewReader(csv))
	require.NoError(t, err)

	col := ds.Column(ColumnRevenue)
	assert.Equal(t, 100.0, col[0])
	assert.True(t, math.IsNaN(col[1]))
	assert.True(t, math.IsNaN(col[2]))

	// Aggregates skip NaN cells
	assert.Equal(t, 100.0, ds.Sum(ColumnRevenue))
	assert.Equal(t, 100.0, ds.Mean(ColumnRevenue))
}

func TestLoadCSV_FileNotFound(t *testing.T) {
	_, err := LoadCSV("does/not/exist.csv")
	assert.True(t, errors.Is(err, bizreport.ErrInvalidData))
}
