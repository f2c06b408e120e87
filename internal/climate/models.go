package climate

import (
	"fmt"
	"time"
)

// DailyRecord is one day of upstream archive or model data. Temperature and
// precipitation fields are pointers because the upstream series may carry
// nulls for days without valid samples.
type DailyRecord struct {
	Date            time.Time `json:"date"`
	TemperatureMax  *float64  `json:"temperatureMax"`
	TemperatureMin  *float64  `json:"temperatureMin"`
	TemperatureMean *float64  `json:"temperatureMean"`
	Precipitation   *float64  `json:"precipitation"`
	Humidity        *float64  `json:"humidity,omitempty"`
	WindSpeed       *float64  `json:"windSpeed,omitempty"`
	Pressure        *float64  `json:"pressure,omitempty"`
}

// YearlySummary is the reduction of one calendar year of daily records.
// A summary only exists for years with at least one valid day.
type YearlySummary struct {
	Year               int     `json:"year"`
	TemperatureMaxAvg  float64 `json:"temperatureMaxAvg"`
	TemperatureMinAvg  float64 `json:"temperatureMinAvg"`
	TemperatureMeanAvg float64 `json:"temperatureMeanAvg"`
	PrecipitationTotal float64 `json:"precipitationTotal"`
	PrecipitationAvg   float64 `json:"precipitationAvg"`
	HumidityAvg        float64 `json:"humidityAvg"`
	WindSpeedAvg       float64 `json:"windSpeedAvg"`
	PressureAvg        float64 `json:"pressureAvg"`
	DataPointsCount    int     `json:"dataPointsCount"`
}

// DecadalSummary averages the yearly summaries that fall into one decade
// bucket (floor(year/10)*10).
type DecadalSummary struct {
	DecadeStart        int     `json:"decadeStart"`
	DecadeEnd          int     `json:"decadeEnd"`
	TemperatureMaxAvg  float64 `json:"temperatureMaxAvg"`
	TemperatureMinAvg  float64 `json:"temperatureMinAvg"`
	TemperatureMeanAvg float64 `json:"temperatureMeanAvg"`
	PrecipitationTotal float64 `json:"precipitationTotal"`
	PrecipitationAvg   float64 `json:"precipitationAvg"`
	HumidityAvg        float64 `json:"humidityAvg"`
	WindSpeedAvg       float64 `json:"windSpeedAvg"`
	PressureAvg        float64 `json:"pressureAvg"`
	YearsCount         int     `json:"yearsCount"`
}

// TrendDirection classifies the sign of a fitted slope.
type TrendDirection string

const (
	TrendIncreasing TrendDirection = "increasing"
	TrendDecreasing TrendDirection = "decreasing"
	TrendStable     TrendDirection = "stable"
)

// TrendResult is an ordinary least-squares fit over one metric's yearly
// series. ConfidenceLevel is R-squared scaled to 0-100.
type TrendResult struct {
	Metric          string         `json:"metric"`
	PeriodStart     int            `json:"periodStart"`
	PeriodEnd       int            `json:"periodEnd"`
	TrendSlope      float64        `json:"trendSlope"`
	TrendDirection  TrendDirection `json:"trendDirection"`
	ConfidenceLevel float64        `json:"confidenceLevel"`
	BaselineValue   float64        `json:"baselineValue"`
	CurrentValue    float64        `json:"currentValue"`
	PercentChange   float64        `json:"percentChange"`
}

// Location is a coordinate pair. Geocoding happens upstream of this service;
// here a location is always already resolved to lat/lon.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// SkippedYear records a year that could not be retrieved, with the reason it
// was dropped, so callers can tell partial results from complete ones.
type SkippedYear struct {
	Year   int    `json:"year"`
	Reason string `json:"reason"`
}

// YearlyResult carries both the summaries that could be computed and the
// years that were skipped, in input order.
type YearlyResult struct {
	Summaries []YearlySummary `json:"summaries"`
	Skipped   []SkippedYear   `json:"skipped,omitempty"`
}

// Scenario selects one of the emission pathways a projection is run under.
type Scenario string

const (
	ScenarioOptimistic  Scenario = "optimistic"
	ScenarioModerate    Scenario = "moderate"
	ScenarioPessimistic Scenario = "pessimistic"
)

// Scenarios lists all supported scenarios in fixed order.
var Scenarios = []Scenario{ScenarioOptimistic, ScenarioModerate, ScenarioPessimistic}

// ParseScenario validates a caller-supplied scenario identifier.
func ParseScenario(s string) (Scenario, error) {
	switch Scenario(s) {
	case ScenarioOptimistic, ScenarioModerate, ScenarioPessimistic:
		return Scenario(s), nil
	}
	return "", fmt.Errorf("unknown scenario %q (want optimistic, moderate or pessimistic)", s)
}

// DataSource tags whether a projection was computed from upstream model data
// or synthesized by the extrapolation fallback.
type DataSource string

const (
	SourceReal      DataSource = "real"
	SourceSynthetic DataSource = "synthetic"
)

// Baseline is the fixed reference climate all projection deltas are measured
// against.
type Baseline struct {
	Period          string  `json:"period"`
	TemperatureMean float64 `json:"temperatureMean"`
	Precipitation   float64 `json:"precipitation"`
}

// ChangeFromBaseline is the delta of a projection period against Baseline:
// absolute degrees for temperature, percent for precipitation.
type ChangeFromBaseline struct {
	Temperature      float64 `json:"temperature"`
	PrecipitationPct float64 `json:"precipitationPercent"`
}

// UncertaintyRange is the symmetric inter-model spread band around a
// projected value, not a statistical confidence interval.
type UncertaintyRange struct {
	TemperatureLow    float64 `json:"temperatureLow"`
	TemperatureHigh   float64 `json:"temperatureHigh"`
	PrecipitationLow  float64 `json:"precipitationLow"`
	PrecipitationHigh float64 `json:"precipitationHigh"`
}

// ProjectionPeriod is one decade bucket of a scenario projection.
type ProjectionPeriod struct {
	Period             string             `json:"period"`
	StartYear          int                `json:"startYear"`
	EndYear            int                `json:"endYear"`
	TemperatureMaxAvg  float64            `json:"temperatureMaxAvg"`
	TemperatureMinAvg  float64            `json:"temperatureMinAvg"`
	TemperatureMeanAvg float64            `json:"temperatureMeanAvg"`
	PrecipitationTotal float64            `json:"precipitationTotal"`
	PrecipitationAvg   float64            `json:"precipitationAvg"`
	ChangeFromBaseline ChangeFromBaseline `json:"changeFromBaseline"`
	UncertaintyRange   UncertaintyRange   `json:"uncertaintyRange"`
}

// ProjectionResponse is a full single-scenario projection.
type ProjectionResponse struct {
	Location Location           `json:"location"`
	Scenario Scenario           `json:"scenario"`
	Model    string             `json:"model"`
	Source   DataSource         `json:"source"`
	Baseline Baseline           `json:"baseline"`
	Periods  []ProjectionPeriod `json:"periods"`
}

// ScenarioSet bundles all three scenarios for side-by-side comparison.
type ScenarioSet struct {
	Optimistic  ProjectionResponse `json:"optimistic"`
	Moderate    ProjectionResponse `json:"moderate"`
	Pessimistic ProjectionResponse `json:"pessimistic"`
}

// DecadalReport is the decadal endpoint payload.
type DecadalReport struct {
	Location         Location         `json:"location"`
	RequestedDecades []int            `json:"requestedDecades"`
	DecadalData      []DecadalSummary `json:"decadalData"`
	Skipped          []SkippedYear    `json:"skippedYears,omitempty"`
}

// TrendReport is the trends endpoint payload: fitted trends plus the yearly
// data they were computed from.
type TrendReport struct {
	Location   Location        `json:"location"`
	Period     string          `json:"period"`
	DataYears  int             `json:"dataYears"`
	Trends     []TrendResult   `json:"trends"`
	YearlyData []YearlySummary `json:"yearlyData"`
	Skipped    []SkippedYear   `json:"skippedYears,omitempty"`
}
