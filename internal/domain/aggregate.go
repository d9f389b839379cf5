package domain

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Station matching tolerances for arrival/departure resolution. Long
// coaching routes get the wider window because chainage drift accumulates.
const (
	stationTolerance     = 400.0
	stationToleranceWide = 800.0
	wideRouteLength      = 200_000.0
)

// SpeedRangeRow is one bucket of the speed-distribution table.
type SpeedRangeRow struct {
	Label    string  `json:"label"`
	Distance float64 `json:"distance"`
	Percent  float64 `json:"percent"`
}

// SpeedRangeSummary is the distance histogram over speed buckets, with the
// "AT MPS" row prepended.
type SpeedRangeSummary struct {
	Rows          []SpeedRangeRow `json:"summary"`
	TotalDistance float64         `json:"totalDistance"`
}

// ComputeSpeedRangeSummary accumulates the distance covered by each
// consecutive sample pair into the bucket matching the pair's average speed,
// plus a separate AT MPS row for pairs whose rounded average equals the
// maximum permissible speed.
func ComputeSpeedRangeSummary(series *NormalizedSeries, rake RakeType, maxPermissibleSpeed float64) SpeedRangeSummary {
	samples := series.Samples
	buckets := BucketsFor(rake)

	dist := make([]float64, len(buckets))
	atMPS := 0.0
	total := 0.0

	for i := 1; i < len(samples); i++ {
		dd := math.Abs(samples[i].Distance - samples[i-1].Distance)
		if dd == 0 {
			continue
		}
		total += dd
		avg := (samples[i].Speed + samples[i-1].Speed) / 2

		if math.Round(avg) == maxPermissibleSpeed {
			atMPS += dd
		}
		for b, bucket := range buckets {
			if avg < bucket.Lo {
				continue
			}
			if bucket.Hi >= 0 && avg >= bucket.Hi {
				continue
			}
			dist[b] += dd
			break
		}
	}

	pct := func(d float64) float64 {
		if total == 0 {
			return 0
		}
		return d / total * 100
	}

	rows := make([]SpeedRangeRow, 0, len(buckets)+1)
	rows = append(rows, SpeedRangeRow{Label: "AT MPS", Distance: atMPS, Percent: pct(atMPS)})
	for b, bucket := range buckets {
		rows = append(rows, SpeedRangeRow{Label: bucket.Label, Distance: dist[b], Percent: pct(dist[b])})
	}
	return SpeedRangeSummary{Rows: rows, TotalDistance: total}
}

// SectionSpeedRow summarizes moving-speed statistics for one inter-station
// segment, or for the whole route ("Overall").
type SectionSpeedRow struct {
	Section    string  `json:"section"`
	MaxSpeed   float64 `json:"maxSpeed"`
	AvgSpeed   float64 `json:"avgSpeed"`
	ModalSpeed float64 `json:"modalSpeed"`
}

// ComputeSectionSpeedSummary computes max, average, and modal (most frequent
// integer-floor) speed over moving samples, per inter-station segment and
// for the route as a whole.
func ComputeSectionSpeedSummary(series *NormalizedSeries, route Route) []SectionSpeedRow {
	samples := series.Samples

	rows := make([]SectionSpeedRow, 0, len(route.Stations))
	for i := 0; i+1 < len(route.Stations); i++ {
		a, b := route.Stations[i], route.Stations[i+1]
		var speeds []float64
		for _, s := range samples {
			if s.Speed > 0 && s.Distance >= a.Distance && s.Distance < b.Distance {
				speeds = append(speeds, s.Speed)
			}
		}
		rows = append(rows, sectionRow(a.Name+" - "+b.Name, speeds))
	}

	var all []float64
	for _, s := range samples {
		if s.Speed > 0 {
			all = append(all, s.Speed)
		}
	}
	rows = append(rows, sectionRow("Overall", all))
	return rows
}

func sectionRow(section string, speeds []float64) SectionSpeedRow {
	row := SectionSpeedRow{Section: section}
	if len(speeds) == 0 {
		return row
	}

	floors := make([]float64, len(speeds))
	for i, v := range speeds {
		if v > row.MaxSpeed {
			row.MaxSpeed = v
		}
		floors[i] = math.Floor(v)
	}
	row.AvgSpeed = stat.Mean(speeds, nil)

	// stat.Mode wants sorted input; sorting also pins the tie-break to the
	// lowest of equally frequent values.
	sort.Float64s(floors)
	row.ModalSpeed, _ = stat.Mode(floors, nil)
	return row
}

// StationStop is a station's resolved arrival and departure. Nil times mean
// not applicable: the first station has no arrival, the last no departure,
// and a run-through station has only the crossing time.
type StationStop struct {
	Station   string     `json:"station"`
	Arrival   *time.Time `json:"arrival"`
	Departure *time.Time `json:"departure"`
}

// ResolveStationStops matches retained stops to route stations within the
// distance tolerance; the latest matching stop supplies arrival (anchor) and
// departure (resume). Stations with no matching stop are treated as
// run-throughs timed at the sample where the series crosses their distance.
func ResolveStationStops(series *NormalizedSeries, route Route, stops []Stop, rake RakeType) []StationStop {
	tolerance := stationTolerance
	if rake == RakeCoaching && route.Length > wideRouteLength {
		tolerance = stationToleranceWide
	}

	out := make([]StationStop, len(route.Stations))
	for i, st := range route.Stations {
		entry := StationStop{Station: st.Name}
		terminal := i == len(route.Stations)-1

		if stop := latestStopNear(stops, st.Distance, tolerance); stop != nil {
			t := stop.Time
			entry.Arrival = &t
			entry.Departure = stop.ResumeTime
		} else if t := crossingTime(series.Samples, st.Distance); t != nil {
			if terminal {
				entry.Arrival = t
			} else {
				entry.Departure = t
			}
		}

		// Trip boundaries: no arrival at the origin, no departure at the
		// destination, by definition.
		if i == 0 {
			entry.Arrival = nil
		}
		if terminal {
			entry.Departure = nil
		}
		out[i] = entry
	}
	return out
}

func latestStopNear(stops []Stop, distance, tolerance float64) *Stop {
	var best *Stop
	for i := range stops {
		if math.Abs(stops[i].Distance-distance) > tolerance {
			continue
		}
		if best == nil || stops[i].Time.After(best.Time) {
			best = &stops[i]
		}
	}
	return best
}

// crossingTime returns the time of the first sample at or beyond the
// station's distance, or nil if the series never reaches it.
func crossingTime(samples []Sample, distance float64) *time.Time {
	for _, s := range samples {
		if s.Distance >= distance {
			t := s.Time
			return &t
		}
	}
	return nil
}
