package domain

import "time"

// Grace-period tolerances for the descent tracker: a rebound above the
// running minimum ends the reduction attempt only once it exceeds 2 km/h or
// outlasts 2 s.
const (
	graceMaxIncrease = 2.0
	graceMaxDuration = 2 * time.Second
)

// BFT acceptance: the minimum must arrive more than 1 s after entry with a
// reduction of at least 5 km/h. BPT uses the proportional rule instead.
const (
	minDescentSeconds = 1.0
	bftMinReduction   = 5.0
	bptReductionRatio = 0.40
)

// BrakeTestResult is an accepted BFT or BPT verdict.
type BrakeTestResult struct {
	Time       time.Time `json:"time"`
	StartSpeed float64   `json:"startSpeed"`
	EndSpeed   float64   `json:"endSpeed"`
	Reduction  float64   `json:"reductionKmh"`
	Duration   float64   `json:"durationSec"`
	EndTime    time.Time `json:"endTime"`
}

// BrakeTestOutcome is the per-test terminal state: an accepted result, a
// "missed" flag (the qualifying window passed without a test), or neither
// when the speed never reached the band.
type BrakeTestOutcome struct {
	Result *BrakeTestResult
	Missed bool
}

func (o BrakeTestOutcome) resolved() bool { return o.Result != nil || o.Missed }

// EvaluateBrakeTests scans the series once and verdicts the Brake Feel Test
// and Brake Power Test independently. A test resolves either to an accepted
// reduction or to "missed" when speed exceeds the band's ceiling before any
// reduction was accepted; the scan halts once both are resolved.
func EvaluateBrakeTests(series *NormalizedSeries, profile VendorProfile, rake RakeType) (bft, bpt BrakeTestOutcome) {
	samples := series.Samples
	bands := BandsFor(rake)

	for i := range samples {
		if bft.resolved() && bpt.resolved() {
			break
		}
		if !bft.resolved() {
			bft = evaluateAt(samples, i, bands.BFT, func(start, reduction float64) bool {
				return reduction >= bftMinReduction
			})
		}
		if !bpt.resolved() {
			bpt = evaluateAt(samples, i, bands.BPT, func(start, reduction float64) bool {
				required := start * bptReductionRatio
				if profile.BPTReductionFloor && required < bftMinReduction {
					required = bftMinReduction
				}
				return reduction >= required
			})
		}
	}
	return bft, bpt
}

// evaluateAt advances one test by one sample: runs the descent tracker when
// the sample is inside the band, or marks the test missed when the sample
// overshoots the ceiling.
func evaluateAt(samples []Sample, i int, band BrakeTestBand, accept func(start, reduction float64) bool) BrakeTestOutcome {
	speed := samples[i].Speed
	if speed > band.MaxSpeed {
		return BrakeTestOutcome{Missed: true}
	}
	if speed < band.MinSpeed {
		return BrakeTestOutcome{}
	}

	res := trackSpeedReduction(samples, i, band.MaxDuration)
	if res == nil {
		return BrakeTestOutcome{}
	}

	reduction := speed - res.speed
	if res.timeDiff > minDescentSeconds && accept(speed, reduction) {
		return BrakeTestOutcome{Result: &BrakeTestResult{
			Time:       samples[i].Time,
			StartSpeed: speed,
			EndSpeed:   res.speed,
			Reduction:  reduction,
			Duration:   res.timeDiff,
			EndTime:    samples[res.index].Time,
		}}
	}
	return BrakeTestOutcome{}
}

// descentResult is the minimum located by the grace-period descent tracker.
type descentResult struct {
	index    int
	speed    float64
	timeDiff float64
}

// trackSpeedReduction follows the speed minimum forward from start for at
// most maxDuration, tolerating rebounds of up to 2 km/h lasting up to 2 s
// before concluding the reduction attempt is over. It returns nil when the
// train stops outright (speed 0: a halt, not a controlled brake test) or
// when the minimum never moves off the start sample.
func trackSpeedReduction(samples []Sample, start int, maxDuration time.Duration) *descentResult {
	lowest := samples[start].Speed
	lowestIdx := start

	var graceStart time.Time
	var graceFloor float64
	graceActive := false

	for j := start + 1; j < len(samples); j++ {
		if samples[j].Time.Sub(samples[start].Time) > maxDuration {
			break
		}
		v := samples[j].Speed
		if v == 0 {
			return nil
		}
		if v <= lowest {
			lowest = v
			lowestIdx = j
			graceActive = false
			continue
		}
		if !graceActive {
			graceActive = true
			graceStart = samples[j].Time
			graceFloor = lowest
		}
		if v-graceFloor > graceMaxIncrease || samples[j].Time.Sub(graceStart) > graceMaxDuration {
			break
		}
	}

	if lowestIdx == start {
		return nil
	}
	return &descentResult{
		index:    lowestIdx,
		speed:    lowest,
		timeDiff: samples[lowestIdx].Time.Sub(samples[start].Time).Seconds(),
	}
}
