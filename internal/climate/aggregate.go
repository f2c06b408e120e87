package climate

import "sort"

// validDay reports whether a record counts toward yearly aggregation.
// All three temperature fields must be present; other metrics are filtered
// per-field.
func validDay(r DailyRecord) bool {
	return r.TemperatureMean != nil && r.TemperatureMax != nil && r.TemperatureMin != nil
}

// AggregateYear reduces one calendar year of daily records into a
// YearlySummary. It returns ok=false when the year has no valid day at all,
// in which case the year must be omitted rather than reported as zeros.
func AggregateYear(year int, days []DailyRecord) (YearlySummary, bool) {
	var (
		sumMax, sumMin, sumMean  float64
		sumPrecip                float64
		sumHum, sumWind, sumPres float64
		humN, windN, presN       int
		valid                    int
	)

	for _, d := range days {
		if !validDay(d) {
			continue
		}
		valid++
		sumMax += *d.TemperatureMax
		sumMin += *d.TemperatureMin
		sumMean += *d.TemperatureMean
		if d.Precipitation != nil {
			sumPrecip += *d.Precipitation
		}
		if d.Humidity != nil {
			sumHum += *d.Humidity
			humN++
		}
		if d.WindSpeed != nil {
			sumWind += *d.WindSpeed
			windN++
		}
		if d.Pressure != nil {
			sumPres += *d.Pressure
			presN++
		}
	}

	if valid == 0 {
		return YearlySummary{}, false
	}

	n := float64(valid)
	s := YearlySummary{
		Year:               year,
		TemperatureMaxAvg:  sumMax / n,
		TemperatureMinAvg:  sumMin / n,
		TemperatureMeanAvg: sumMean / n,
		PrecipitationTotal: sumPrecip,
		PrecipitationAvg:   sumPrecip / n,
		DataPointsCount:    valid,
	}
	if humN > 0 {
		s.HumidityAvg = sumHum / float64(humN)
	}
	if windN > 0 {
		s.WindSpeedAvg = sumWind / float64(windN)
	}
	if presN > 0 {
		s.PressureAvg = sumPres / float64(presN)
	}
	return s, true
}

// DecadeStart returns the decade bucket a year belongs to.
func DecadeStart(year int) int {
	return (year / 10) * 10
}

// AggregateDecades groups yearly summaries into decade buckets and averages
// the per-year values of each bucket without weighting by data-point count.
// The result is ordered by ascending decade start; decades with no
// contributing years do not appear.
func AggregateDecades(years []YearlySummary) []DecadalSummary {
	buckets := make(map[int][]YearlySummary)
	for _, y := range years {
		d := DecadeStart(y.Year)
		buckets[d] = append(buckets[d], y)
	}

	starts := make([]int, 0, len(buckets))
	for d := range buckets {
		starts = append(starts, d)
	}
	sort.Ints(starts)

	out := make([]DecadalSummary, 0, len(starts))
	for _, start := range starts {
		group := buckets[start]
		n := float64(len(group))

		var sum DecadalSummary
		for _, y := range group {
			sum.TemperatureMaxAvg += y.TemperatureMaxAvg
			sum.TemperatureMinAvg += y.TemperatureMinAvg
			sum.TemperatureMeanAvg += y.TemperatureMeanAvg
			sum.PrecipitationTotal += y.PrecipitationTotal
			sum.PrecipitationAvg += y.PrecipitationAvg
			sum.HumidityAvg += y.HumidityAvg
			sum.WindSpeedAvg += y.WindSpeedAvg
			sum.PressureAvg += y.PressureAvg
		}

		out = append(out, DecadalSummary{
			DecadeStart:        start,
			DecadeEnd:          start + 9,
			TemperatureMaxAvg:  sum.TemperatureMaxAvg / n,
			TemperatureMinAvg:  sum.TemperatureMinAvg / n,
			TemperatureMeanAvg: sum.TemperatureMeanAvg / n,
			PrecipitationTotal: sum.PrecipitationTotal / n,
			PrecipitationAvg:   sum.PrecipitationAvg / n,
			HumidityAvg:        sum.HumidityAvg / n,
			WindSpeedAvg:       sum.WindSpeedAvg / n,
			PressureAvg:        sum.PressureAvg / n,
			YearsCount:         len(group),
		})
	}
	return out
}
