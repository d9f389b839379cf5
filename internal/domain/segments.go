package domain

import (
	"fmt"
	"time"
)

// SpeedSegment is one closed over-speed, wheel-slip, or wheel-skid episode.
type SpeedSegment struct {
	Section    string    `json:"section"`
	Start      time.Time `json:"startTime"`
	End        time.Time `json:"endTime"`
	MinSpeed   float64   `json:"minSpeed"`
	MaxSpeed   float64   `json:"maxSpeed"`
	SpeedRange string    `json:"speedRange"`
}

// DetectOverSpeed reports every episode where speed exceeds the maximum
// permissible speed, grouped per inter-station section. An episode is not
// over until speed is back within the limit, so the first in-limit sample
// after a run bounds the episode and contributes to its speed range.
func DetectOverSpeed(series *NormalizedSeries, route Route, maxPermissibleSpeed float64) []SpeedSegment {
	samples := series.Samples
	runs := GroupRuns(samples,
		func(i int) bool { return samples[i].Speed > maxPermissibleSpeed },
		func(i int) string { return route.SectionLabel(samples[i].Distance) },
		func(i int) float64 { return samples[i].Speed },
	)

	for r := range runs {
		j := runs[r].EndIndex + 1
		if j >= len(samples) {
			continue
		}
		runs[r].EndIndex = j
		runs[r].End = samples[j].Time
		if samples[j].Speed < runs[r].Min {
			runs[r].Min = samples[j].Speed
		}
		if samples[j].Speed > runs[r].Max {
			runs[r].Max = samples[j].Speed
		}
	}
	return segmentsFromRuns(runs)
}

// Wheel-slip/skid thresholds over consecutive sample pairs no more than 1 s
// apart. Pairs with larger gaps are ignored entirely, not grouped.
const (
	slipDeltaKmh = 4.0
	skidDeltaKmh = -5.0
	maxPairGap   = time.Second
)

// DetectWheelSlip reports sudden speed rises of at least 4 km/h between
// consecutive samples, the signature of driving wheels losing adhesion.
func DetectWheelSlip(series *NormalizedSeries, route Route) []SpeedSegment {
	return detectDeltaRuns(series, route, func(dv float64) bool { return dv >= slipDeltaKmh })
}

// DetectWheelSkid reports sudden speed drops of at least 5 km/h between
// consecutive samples, the signature of wheels locking under braking.
func DetectWheelSkid(series *NormalizedSeries, route Route) []SpeedSegment {
	return detectDeltaRuns(series, route, func(dv float64) bool { return dv <= skidDeltaKmh })
}

func detectDeltaRuns(series *NormalizedSeries, route Route, test func(dv float64) bool) []SpeedSegment {
	samples := series.Samples
	runs := GroupRuns(samples,
		func(i int) bool {
			if i == 0 {
				return false
			}
			dt := samples[i].Time.Sub(samples[i-1].Time)
			if dt <= 0 || dt > maxPairGap {
				return false
			}
			return test(samples[i].Speed - samples[i-1].Speed)
		},
		func(i int) string { return route.SectionLabel(samples[i].Distance) },
		func(i int) float64 { return samples[i].Speed },
	)
	return segmentsFromRuns(runs)
}

func segmentsFromRuns(runs []Interval) []SpeedSegment {
	if len(runs) == 0 {
		return nil
	}
	out := make([]SpeedSegment, len(runs))
	for i, r := range runs {
		out[i] = SpeedSegment{
			Section:    r.Label,
			Start:      r.Start,
			End:        r.End,
			MinSpeed:   r.Min,
			MaxSpeed:   r.Max,
			SpeedRange: fmt.Sprintf("%.2f-%.2f", r.Min, r.Max),
		}
	}
	return out
}
