package climate

import "fmt"

// minTrendPoints is the statistical-significance floor below which no trend
// is produced.
const minTrendPoints = 10

// stableSlopeEpsilon: slopes smaller than this in magnitude are reported as
// "stable" rather than a direction.
const stableSlopeEpsilon = 0.01

// TrendPoint is one (year, value) observation of a metric series.
type TrendPoint struct {
	Year  int
	Value float64
}

// AnalyzeTrend fits an ordinary least-squares line to a chronologically
// ordered metric series and classifies the result. It returns ok=false when
// fewer than ten points are supplied; too-short series yield no trend rather
// than an unreliable one.
//
// BaselineValue and CurrentValue are the raw first and last observations, not
// points on the fitted line, and PercentChange is measured between those two
// raw values.
func AnalyzeTrend(metric string, points []TrendPoint) (TrendResult, bool) {
	n := len(points)
	if n < minTrendPoints {
		return TrendResult{}, false
	}

	var sumX, sumY, sumXY, sumXX float64
	for _, p := range points {
		x := float64(p.Year)
		sumX += x
		sumY += p.Value
		sumXY += x * p.Value
		sumXX += x * x
	}

	fn := float64(n)
	denom := fn*sumXX - sumX*sumX
	if denom == 0 {
		return TrendResult{}, false
	}
	slope := (fn*sumXY - sumX*sumY) / denom
	intercept := (sumY - slope*sumX) / fn

	// R-squared against the mean of y.
	meanY := sumY / fn
	var ssRes, ssTot float64
	for _, p := range points {
		predicted := slope*float64(p.Year) + intercept
		ssRes += (p.Value - predicted) * (p.Value - predicted)
		ssTot += (p.Value - meanY) * (p.Value - meanY)
	}
	rSquared := 1.0
	if ssTot != 0 {
		rSquared = 1 - ssRes/ssTot
	}
	if rSquared < 0 {
		rSquared = 0
	}

	direction := TrendStable
	if slope >= stableSlopeEpsilon {
		direction = TrendIncreasing
	} else if slope <= -stableSlopeEpsilon {
		direction = TrendDecreasing
	}

	baseline := points[0].Value
	current := points[n-1].Value
	var pctChange float64
	if baseline != 0 {
		pctChange = (current - baseline) / baseline * 100
	}

	return TrendResult{
		Metric:          metric,
		PeriodStart:     points[0].Year,
		PeriodEnd:       points[n-1].Year,
		TrendSlope:      slope,
		TrendDirection:  direction,
		ConfidenceLevel: rSquared * 100,
		BaselineValue:   baseline,
		CurrentValue:    current,
		PercentChange:   pctChange,
	}, true
}

// trendMetrics maps metric identifiers to the yearly-summary field the trend
// is computed over.
var trendMetrics = []struct {
	name  string
	value func(YearlySummary) float64
}{
	{"temperature_mean", func(y YearlySummary) float64 { return y.TemperatureMeanAvg }},
	{"temperature_max", func(y YearlySummary) float64 { return y.TemperatureMaxAvg }},
	{"temperature_min", func(y YearlySummary) float64 { return y.TemperatureMinAvg }},
	{"precipitation", func(y YearlySummary) float64 { return y.PrecipitationTotal }},
}

// AnalyzeAllTrends runs the trend analyzer over every tracked metric of a
// yearly series. Metrics with too few points simply do not appear in the
// result.
func AnalyzeAllTrends(years []YearlySummary) []TrendResult {
	results := make([]TrendResult, 0, len(trendMetrics))
	for _, m := range trendMetrics {
		points := make([]TrendPoint, 0, len(years))
		for _, y := range years {
			points = append(points, TrendPoint{Year: y.Year, Value: m.value(y)})
		}
		if r, ok := AnalyzeTrend(m.name, points); ok {
			results = append(results, r)
		}
	}
	return results
}

// PeriodLabel formats a start/end year pair the way the API reports periods.
func PeriodLabel(start, end int) string {
	return fmt.Sprintf("%d-%d", start, end)
}
