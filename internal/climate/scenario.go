package climate

// DefaultBaseline is the fixed 1990-2020 reference climate all projection
// deltas are measured against.
var DefaultBaseline = Baseline{
	Period:          "1990-2020",
	TemperatureMean: 13.9,
	Precipitation:   850.0,
}

// baselineYear anchors extrapolation distances.
const baselineYear = 2020

// maxModelYear is the last start year the upstream climate-model API can
// simulate; periods starting later are extrapolated instead of fetched.
const maxModelYear = 2050

// scenarioParams bundles the per-scenario knobs: which upstream model to
// query, how fast extrapolated change accumulates, and how wide the
// inter-model spread band is.
type scenarioParams struct {
	Model           string
	Multiplier      float64
	TempUncertainty float64 // degrees C, symmetric
	PrecipUncPct    float64 // percent of the projected total, symmetric
}

var scenarioTable = map[Scenario]scenarioParams{
	ScenarioOptimistic: {
		Model:           "EC_Earth3P_HR",
		Multiplier:      0.6,
		TempUncertainty: 0.5,
		PrecipUncPct:    10,
	},
	ScenarioModerate: {
		Model:           "MPI_ESM1_2_XR",
		Multiplier:      1.0,
		TempUncertainty: 0.8,
		PrecipUncPct:    15,
	},
	ScenarioPessimistic: {
		Model:           "MRI_AGCM3_2_S",
		Multiplier:      1.4,
		TempUncertainty: 1.2,
		PrecipUncPct:    20,
	},
}

// ScenarioModel returns the upstream model identifier for a scenario.
func ScenarioModel(s Scenario) string {
	return scenarioTable[s].Model
}

// projectionPeriods are the four decade buckets every projection covers.
var projectionPeriods = []struct {
	Label     string
	StartYear int
	EndYear   int
}{
	{"2020s", 2020, 2029},
	{"2030s", 2030, 2039},
	{"2040s", 2040, 2049},
	{"2050s", 2050, 2059},
}
