package domain

import "time"

// Departure scan constants: a journey starts at the first sample moving at
// ≥1 km/h that covers 200 m before any sample returns to exactly zero.
const (
	departureMinSpeed    = 1.0
	departureMinDistance = 200.0
)

// Normalize converts raw chainage to route-relative distance, locates the
// departure sample inside the analysis window, and produces the series
// truncated to [departureTime, windowEnd] with distance re-based to zero at
// departure.
//
// The departure must lie inside the window, but its confirmation scan (200 m
// of sustained movement) may read past the window end. If no sample falls
// inside the window at all, the full series is used instead and the result
// is marked Degraded; this mirrors logger formats whose clocks drift outside
// the booked window and is not an error.
func Normalize(samples []Sample, windowStart, windowEnd time.Time, fromStationDistance float64) (*NormalizedSeries, error) {
	if len(samples) == 0 {
		return nil, ErrEmptyInput
	}

	rel := make([]Sample, len(samples))
	copy(rel, samples)
	for i := range rel {
		rel[i].Distance -= fromStationDistance
	}

	inWindow := func(s Sample) bool {
		return !s.Time.Before(windowStart) && !s.Time.After(windowEnd)
	}
	degraded := true
	for _, s := range rel {
		if inWindow(s) {
			degraded = false
			break
		}
	}
	if degraded {
		inWindow = func(Sample) bool { return true }
		windowEnd = rel[len(rel)-1].Time
	}

	dep := findDeparture(rel, inWindow)
	if dep < 0 {
		return nil, ErrNoDeparture
	}

	out := make([]Sample, 0, len(rel)-dep)
	for _, s := range rel[dep:] {
		if s.Time.After(windowEnd) {
			break
		}
		out = append(out, s)
	}
	if len(out) < 2 {
		return nil, ErrNoDataAfterDeparture
	}

	base := out[0].Distance
	for i := range out {
		out[i].Distance -= base
	}

	return &NormalizedSeries{Samples: out, Degraded: degraded}, nil
}

// findDeparture returns the earliest in-window index moving at ≥1 km/h from
// which the cumulative absolute distance reaches 200 m before any sample's
// speed drops back to exactly zero, or -1 if no such index exists.
func findDeparture(samples []Sample, inWindow func(Sample) bool) int {
	for i := range samples {
		if samples[i].Speed < departureMinSpeed || !inWindow(samples[i]) {
			continue
		}
		moved := 0.0
		for j := i + 1; j < len(samples); j++ {
			if samples[j].Speed == 0 {
				break
			}
			d := samples[j].Distance - samples[j-1].Distance
			if d < 0 {
				d = -d
			}
			moved += d
			if moved >= departureMinDistance {
				return i
			}
		}
	}
	return -1
}
