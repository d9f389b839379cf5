package domain

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// Stop detection constants.
const (
	// stopMergeGap merges consecutive zero-speed samples into one candidate.
	stopMergeGap = 10 * time.Second
	// stopDedupDistance drops a candidate within this range of the
	// previously retained one.
	stopDedupDistance = 200.0
	// minStopDuration is the dwell below which a stop is discarded, unless
	// it is the journey's final stop.
	minStopDuration = 10.0
)

// BrakingClass is the braking-approach quality verdict for a stop.
type BrakingClass string

const (
	BrakingSmooth BrakingClass = "Smooth"
	BrakingLate   BrakingClass = "Late"
)

// CheckpointSpeed is the approach speed observed at one distance-before-stop
// target. Found is false when no sample reached the target distance.
type CheckpointSpeed struct {
	Target float64 `json:"target"`
	Speed  float64 `json:"speed"`
	Found  bool    `json:"found"`
}

// Stop is one retained halt, enriched and immutable.
type Stop struct {
	Seq        int               `json:"seq"`
	Time       time.Time         `json:"time"`
	Distance   float64           `json:"distance"`
	Duration   float64           `json:"duration"`
	ResumeTime *time.Time        `json:"resumeTime,omitempty"`
	Location   string            `json:"location"`
	Checkpoint []CheckpointSpeed `json:"checkpoints"`
	Class      BrakingClass      `json:"brakingClass"`
	Last       bool              `json:"isLastStopOfJourney"`

	// index of the anchor sample in the normalized series.
	index int
}

// stopCandidate is a merged zero-speed run before filtering.
type stopCandidate struct {
	index    int
	time     time.Time
	distance float64
}

// DetectStops runs the stop lifecycle over the normalized series: merge
// zero-speed runs into candidates, deduplicate by distance, measure dwell,
// apply the duration filter, then enrich the survivors with location,
// approach-speed checkpoints, and a braking classification.
func DetectStops(series *NormalizedSeries, route Route, profile VendorProfile, rake RakeType) []Stop {
	samples := series.Samples

	candidates := mergeStopCandidates(samples, profile)
	candidates = dedupByDistance(candidates)

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].time.Before(candidates[j].time)
	})

	var stops []Stop
	for i, c := range candidates {
		resume := findResume(samples, c, profile)
		duration := 0.0
		if resume != nil {
			duration = resume.Sub(c.time).Seconds()
		}
		last := i == len(candidates)-1
		if duration < minStopDuration && !last {
			continue
		}
		stops = append(stops, Stop{
			Time:       c.time,
			Distance:   c.distance,
			Duration:   duration,
			ResumeTime: resume,
			Last:       last,
			index:      c.index,
		})
	}

	for i := range stops {
		stops[i].Seq = i + 1
		enrichStop(&stops[i], samples, route, profile, rake)
	}
	return stops
}

// mergeStopCandidates groups potential-stop samples (zero speed plus the
// vendor's zero-speed code) whose spacing stays within 10 s, anchoring each
// run on the first or last sample per the vendor's policy, and drops exact
// (distance, time) duplicates some loggers emit.
func mergeStopCandidates(samples []Sample, profile VendorProfile) []stopCandidate {
	isPotential := func(s Sample) bool {
		return s.Speed == 0 && s.EventCode == profile.ZeroSpeedCode
	}

	var candidates []stopCandidate
	seen := make(map[string]bool)

	emit := func(first, last int) {
		anchor := last
		if profile.Anchor == AnchorFirst {
			anchor = first
		}
		s := samples[anchor]
		key := fmt.Sprintf("%.2f|%s", s.Distance, s.Time.Format(time.RFC3339))
		if seen[key] {
			return
		}
		seen[key] = true
		candidates = append(candidates, stopCandidate{index: anchor, time: s.Time, distance: s.Distance})
	}

	first := -1
	prev := -1
	for i := range samples {
		if !isPotential(samples[i]) {
			continue
		}
		if first >= 0 && samples[i].Time.Sub(samples[prev].Time) > stopMergeGap {
			emit(first, prev)
			first = i
		}
		if first < 0 {
			first = i
		}
		prev = i
	}
	if first >= 0 {
		emit(first, prev)
	}
	return candidates
}

// dedupByDistance drops candidates within 200 m of the previously retained
// one, scanning monotonically and keeping the first of each cluster.
func dedupByDistance(candidates []stopCandidate) []stopCandidate {
	var out []stopCandidate
	for _, c := range candidates {
		if len(out) > 0 && math.Abs(c.distance-out[len(out)-1].distance) < stopDedupDistance {
			continue
		}
		out = append(out, c)
	}
	return out
}

// findResume returns the time of the first sample after the anchor showing
// renewed movement: speed > 0, or the vendor's start code when it has one.
// Nil when the series ends without movement.
func findResume(samples []Sample, c stopCandidate, profile VendorProfile) *time.Time {
	for i := c.index + 1; i < len(samples); i++ {
		if !samples[i].Time.After(c.time) {
			continue
		}
		resumed := samples[i].Speed > 0
		if profile.ResumeCode != "" {
			resumed = samples[i].EventCode == profile.ResumeCode
		}
		if resumed {
			t := samples[i].Time
			return &t
		}
	}
	return nil
}

// enrichStop fills location, approach-speed checkpoints, and the braking
// classification for one retained stop.
func enrichStop(stop *Stop, samples []Sample, route Route, profile VendorProfile, rake RakeType) {
	stop.Location = route.StopLocation(stop.Distance)

	stop.Checkpoint = make([]CheckpointSpeed, len(profile.Schedule))
	for i, target := range profile.Schedule {
		speed, ok := checkpointSpeed(samples, stop.index, target, profile.TieBreak)
		stop.Checkpoint[i] = CheckpointSpeed{Target: target, Speed: speed, Found: ok}
	}

	stop.Class = BrakingSmooth
	for _, cp := range stop.Checkpoint {
		limit, classified := BrakingThreshold(rake, cp.Target)
		if classified && cp.Found && cp.Speed > limit {
			stop.Class = BrakingLate
			break
		}
	}
}

// checkpointSpeed scans backward from the stop anchor for the sample whose
// distance short of the stop best matches the target, under the vendor's
// tie-break policy. The gap grows monotonically while scanning backward, so
// both policies can stop at the first at-or-beyond sample.
func checkpointSpeed(samples []Sample, stopIdx int, target float64, policy TieBreakPolicy) (float64, bool) {
	stopDist := samples[stopIdx].Distance
	prevGap := math.Inf(-1)
	prevIdx := -1

	for j := stopIdx; j >= 0; j-- {
		gap := stopDist - samples[j].Distance
		if gap < target {
			prevGap, prevIdx = gap, j
			continue
		}
		if policy == TieBreakNearest && prevIdx >= 0 && target-prevGap < gap-target {
			return samples[prevIdx].Speed, true
		}
		return samples[j].Speed, true
	}
	return 0, false
}
