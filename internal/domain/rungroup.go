package domain

import "time"

// maxRunGap is the sample-to-sample time gap beyond which an open interval
// is closed and a qualifying sample starts a fresh one.
const maxRunGap = 10 * time.Second

// Interval is one closed run emitted by GroupRuns: a maximal stretch of
// qualifying samples sharing a label with no gap over 10 s. Min and Max
// aggregate the metric over the run. Immutable once emitted.
type Interval struct {
	Label      string
	StartIndex int
	EndIndex   int
	Start      time.Time
	End        time.Time
	Min        float64
	Max        float64
}

// GroupRuns is the shared temporal-grouping primitive behind over-speed,
// wheel-slip, and wheel-skid detection. It walks the series once and emits
// closed intervals such that every sample for which qualifies holds belongs
// to exactly one interval:
//
//   - a qualifying sample opens an interval when none is open, when its
//     label differs from the open interval's, or when the gap since the
//     previous sample exceeds 10 s;
//   - otherwise it extends the open interval;
//   - a non-qualifying sample closes the open interval;
//   - the end of the series closes any still-open interval.
func GroupRuns(samples []Sample, qualifies func(i int) bool, label func(i int) string, metric func(i int) float64) []Interval {
	var out []Interval
	var open *Interval

	for i := range samples {
		if !qualifies(i) {
			if open != nil {
				out = append(out, *open)
				open = nil
			}
			continue
		}

		l := label(i)
		m := metric(i)
		gapped := i > 0 && samples[i].Time.Sub(samples[i-1].Time) > maxRunGap

		if open == nil || open.Label != l || gapped {
			if open != nil {
				out = append(out, *open)
			}
			open = &Interval{
				Label:      l,
				StartIndex: i,
				EndIndex:   i,
				Start:      samples[i].Time,
				End:        samples[i].Time,
				Min:        m,
				Max:        m,
			}
			continue
		}

		open.EndIndex = i
		open.End = samples[i].Time
		if m < open.Min {
			open.Min = m
		}
		if m > open.Max {
			open.Max = m
		}
	}

	if open != nil {
		out = append(out, *open)
	}
	return out
}
