package climate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func linearSeries(startYear, n int, slope, intercept float64) []TrendPoint {
	points := make([]TrendPoint, 0, n)
	for i := 0; i < n; i++ {
		year := startYear + i
		points = append(points, TrendPoint{Year: year, Value: slope*float64(year) + intercept})
	}
	return points
}

func TestAnalyzeTrendPerfectlyLinearSeries(t *testing.T) {
	points := linearSeries(2000, 15, 1.0, 10)

	result, ok := AnalyzeTrend("temperature_mean", points)
	require.True(t, ok)

	assert.Equal(t, "temperature_mean", result.Metric)
	assert.Equal(t, 2000, result.PeriodStart)
	assert.Equal(t, 2014, result.PeriodEnd)
	assert.InDelta(t, 1.0, result.TrendSlope, 1e-9)
	assert.Equal(t, TrendIncreasing, result.TrendDirection)
	assert.InDelta(t, 100.0, result.ConfidenceLevel, 1e-6)
}

func TestAnalyzeTrendRefusesShortSeries(t *testing.T) {
	_, ok := AnalyzeTrend("temperature_mean", linearSeries(2000, 9, 1.0, 0))
	assert.False(t, ok, "nine points must not produce a trend")

	_, ok = AnalyzeTrend("temperature_mean", linearSeries(2000, 10, 1.0, 0))
	assert.True(t, ok, "ten points is the significance floor")
}

func TestAnalyzeTrendDirections(t *testing.T) {
	tests := []struct {
		name  string
		slope float64
		want  TrendDirection
	}{
		{"increasing", 0.5, TrendIncreasing},
		{"decreasing", -0.5, TrendDecreasing},
		{"stable", 0.001, TrendStable},
		{"stable negative", -0.001, TrendStable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, ok := AnalyzeTrend("m", linearSeries(2000, 12, tt.slope, 100))
			require.True(t, ok)
			assert.Equal(t, tt.want, result.TrendDirection)
		})
	}
}

func TestAnalyzeTrendBaselineAndPercentChange(t *testing.T) {
	// Baseline and current are the raw endpoints, not regression values,
	// and percent change divides by the first observation.
	points := linearSeries(2000, 11, 2.0, -3990) // 2000 -> 10, 2010 -> 30

	result, ok := AnalyzeTrend("precipitation", points)
	require.True(t, ok)

	assert.InDelta(t, 10.0, result.BaselineValue, 1e-9)
	assert.InDelta(t, 30.0, result.CurrentValue, 1e-9)
	assert.InDelta(t, 200.0, result.PercentChange, 1e-9)
}

func TestAnalyzeTrendZeroBaseline(t *testing.T) {
	points := linearSeries(2000, 10, 1.0, -2000) // first value is 0

	result, ok := AnalyzeTrend("precipitation", points)
	require.True(t, ok)
	assert.Zero(t, result.PercentChange)
}

func TestAnalyzeAllTrendsSkipsShortMetrics(t *testing.T) {
	var years []YearlySummary
	for y := 2000; y < 2009; y++ {
		years = append(years, YearlySummary{Year: y, TemperatureMeanAvg: float64(y)})
	}
	assert.Empty(t, AnalyzeAllTrends(years))

	years = append(years, YearlySummary{Year: 2009, TemperatureMeanAvg: 2009})
	results := AnalyzeAllTrends(years)
	require.NotEmpty(t, results)

	metrics := make([]string, 0, len(results))
	for _, r := range results {
		metrics = append(metrics, r.Metric)
	}
	assert.Contains(t, metrics, "temperature_mean")
	assert.Contains(t, metrics, "precipitation")
}
