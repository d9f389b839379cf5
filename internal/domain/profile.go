package domain

import (
	"fmt"
	"strings"
	"time"
)

// RakeType identifies the rolling-stock class, which selects the braking
// thresholds, brake-test speed bands, and speed-distribution buckets.
type RakeType string

const (
	RakeGoods    RakeType = "GOODS"
	RakeCoaching RakeType = "COACHING"
	RakeMEMU     RakeType = "MEMU"
)

// ParseRakeType validates a rake type string, case-insensitively.
func ParseRakeType(s string) (RakeType, error) {
	switch RakeType(strings.ToUpper(strings.TrimSpace(s))) {
	case RakeGoods:
		return RakeGoods, nil
	case RakeCoaching:
		return RakeCoaching, nil
	case RakeMEMU:
		return RakeMEMU, nil
	}
	return "", fmt.Errorf("unknown rake type %q", s)
}

// AnchorPolicy selects which sample of a merged zero-speed run anchors the
// stop candidate. Vendors disagree; see the profile table below.
type AnchorPolicy int

const (
	// AnchorLast anchors on the last potential-stop sample of the run.
	AnchorLast AnchorPolicy = iota
	// AnchorFirst anchors on the first potential-stop sample of the run.
	AnchorFirst
)

// TieBreakPolicy selects how the backward checkpoint scan picks a sample for
// a given distance-before-stop target.
type TieBreakPolicy int

const (
	// TieBreakAtOrBeyond takes the first sample, scanning backward, whose
	// distance-to-stop is at or beyond the target (smallest overshoot).
	TieBreakAtOrBeyond TieBreakPolicy = iota
	// TieBreakNearest takes the sample whose distance-to-stop is closest to
	// the target in absolute terms, on either side.
	TieBreakNearest
)

// Checkpoint schedules: distances before the stop, in metres, at which
// approach speed is sampled. Which schedule applies is a vendor property.
var (
	scheduleElevenPoint = []float64{2000, 1000, 800, 600, 500, 400, 300, 100, 50, 20, 0}
	scheduleFivePoint   = []float64{1000, 800, 500, 100, 50}
)

// VendorProfile captures the behavioural differences between the five SPM
// logger vendors that survive file parsing. The algorithms never branch on
// vendor name; they read these fields.
type VendorProfile struct {
	Name string

	// ZeroSpeedCode is the event code the logger emits on zero-speed samples.
	ZeroSpeedCode string

	// ResumeCode, when non-empty, marks resumption of movement after a halt;
	// the dwell scan matches it instead of speed > 0.
	ResumeCode string

	Anchor   AnchorPolicy
	TieBreak TieBreakPolicy

	// Schedule is the checkpoint distance list for braking classification.
	Schedule []float64

	// BPTReductionFloor floors the required BPT reduction at 5 km/h on top
	// of the 40% proportional rule.
	BPTReductionFloor bool
}

var profiles = map[string]VendorProfile{
	"medha": {
		Name:              "medha",
		ZeroSpeedCode:     "0",
		Anchor:            AnchorLast,
		TieBreak:          TieBreakAtOrBeyond,
		Schedule:          scheduleElevenPoint,
		BPTReductionFloor: true,
	},
	"laxven": {
		Name:          "laxven",
		ZeroSpeedCode: "HALT",
		Anchor:        AnchorFirst,
		TieBreak:      TieBreakNearest,
		Schedule:      scheduleFivePoint,
	},
	"telpro": {
		Name:          "telpro",
		ZeroSpeedCode: "0",
		Anchor:        AnchorLast,
		TieBreak:      TieBreakAtOrBeyond,
		Schedule:      scheduleElevenPoint,
	},
	"autometers": {
		Name:          "autometers",
		ZeroSpeedCode: "STOP",
		ResumeCode:    "START",
		Anchor:        AnchorLast,
		TieBreak:      TieBreakNearest,
		Schedule:      scheduleFivePoint,
	},
	"shakti": {
		Name:              "shakti",
		ZeroSpeedCode:     "0",
		Anchor:            AnchorFirst,
		TieBreak:          TieBreakAtOrBeyond,
		Schedule:          scheduleElevenPoint,
		BPTReductionFloor: true,
	},
}

// ProfileByName returns the vendor profile for a (case-insensitive) name.
func ProfileByName(name string) (VendorProfile, error) {
	p, ok := profiles[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return VendorProfile{}, fmt.Errorf("unknown vendor profile %q", name)
	}
	return p, nil
}

// ProfileNames lists the supported vendor profiles in stable order.
func ProfileNames() []string {
	return []string{"medha", "laxven", "telpro", "autometers", "shakti"}
}

// BrakeTestBand is the qualifying entry-speed window and scan budget for one
// brake test.
type BrakeTestBand struct {
	MinSpeed    float64
	MaxSpeed    float64
	MaxDuration time.Duration
}

// BrakeTestBands holds the BFT and BPT bands for a rake type.
type BrakeTestBands struct {
	BFT BrakeTestBand
	BPT BrakeTestBand
}

var brakeTestBands = map[RakeType]BrakeTestBands{
	RakeGoods: {
		BFT: BrakeTestBand{MinSpeed: 12, MaxSpeed: 24, MaxDuration: 90 * time.Second},
		BPT: BrakeTestBand{MinSpeed: 30, MaxSpeed: 45, MaxDuration: 120 * time.Second},
	},
	RakeCoaching: {
		BFT: BrakeTestBand{MinSpeed: 15, MaxSpeed: 25, MaxDuration: 60 * time.Second},
		BPT: BrakeTestBand{MinSpeed: 60, MaxSpeed: 80, MaxDuration: 120 * time.Second},
	},
	RakeMEMU: {
		BFT: BrakeTestBand{MinSpeed: 15, MaxSpeed: 25, MaxDuration: 60 * time.Second},
		BPT: BrakeTestBand{MinSpeed: 50, MaxSpeed: 70, MaxDuration: 120 * time.Second},
	},
}

// BandsFor returns the brake-test bands for a rake type.
func BandsFor(rake RakeType) BrakeTestBands {
	return brakeTestBands[rake]
}

// brakingThresholds maps checkpoint distance (metres before stop) to the
// maximum approach speed (km/h) still classed as smooth braking.
var brakingThresholds = map[RakeType]map[float64]float64{
	RakeGoods:    {2000: 40, 1000: 30, 800: 25, 500: 20, 100: 10, 50: 8},
	RakeCoaching: {2000: 60, 1000: 45, 800: 40, 500: 30, 100: 15, 50: 10},
	RakeMEMU:     {2000: 55, 1000: 45, 800: 40, 500: 30, 100: 18, 50: 12},
}

// BrakingThreshold returns the smooth-braking speed limit at a checkpoint
// distance, if the rake table defines one. Schedule entries without a
// threshold (600, 400, 300, 20, 0 m) are reported but not classified.
func BrakingThreshold(rake RakeType, checkpoint float64) (float64, bool) {
	limit, ok := brakingThresholds[rake][checkpoint]
	return limit, ok
}

// SpeedBucket is one row of the speed-distribution table. Hi < 0 marks an
// open-ended final bucket.
type SpeedBucket struct {
	Label string
	Lo    float64
	Hi    float64
}

var goodsBuckets = []SpeedBucket{
	{Label: "0-10", Lo: 0, Hi: 10},
	{Label: "10-20", Lo: 10, Hi: 20},
	{Label: "20-30", Lo: 20, Hi: 30},
	{Label: "30-40", Lo: 30, Hi: 40},
	{Label: "40-50", Lo: 40, Hi: 50},
	{Label: "50-60", Lo: 50, Hi: 60},
	{Label: "60-75", Lo: 60, Hi: 75},
	{Label: "75+", Lo: 75, Hi: -1},
}

var coachingBuckets = []SpeedBucket{
	{Label: "0-20", Lo: 0, Hi: 20},
	{Label: "20-40", Lo: 20, Hi: 40},
	{Label: "40-60", Lo: 40, Hi: 60},
	{Label: "60-80", Lo: 60, Hi: 80},
	{Label: "80-100", Lo: 80, Hi: 100},
	{Label: "100-110", Lo: 100, Hi: 110},
	{Label: "110-130", Lo: 110, Hi: 130},
	{Label: "130+", Lo: 130, Hi: -1},
}

// BucketsFor returns the ordered speed-distribution buckets for a rake type.
// MEMU stock shares the coaching table.
func BucketsFor(rake RakeType) []SpeedBucket {
	if rake == RakeGoods {
		return goodsBuckets
	}
	return coachingBuckets
}
