package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Report is the engine's output object, consumed by presentation and upload
// layers. All times are raw instants; rendering to local strings is the
// caller's concern.
type Report struct {
	ID          string    `json:"id"`
	GeneratedAt time.Time `json:"generatedAt"`
	Profile     string    `json:"profile"`
	Rake        RakeType  `json:"rake"`
	Degraded    bool      `json:"degraded,omitempty"`

	Stops        []Stop            `json:"stops"`
	StationStops []StationStop     `json:"stationStops"`
	OverSpeed    []SpeedSegment    `json:"overSpeedDetails"`
	WheelSlip    []SpeedSegment    `json:"wheelSlipDetails"`
	WheelSkid    []SpeedSegment    `json:"wheelSkidDetails"`
	BFT          *BrakeTestResult  `json:"bftDetails"`
	BFTMissed    bool              `json:"bftMissed"`
	BPT          *BrakeTestResult  `json:"bptDetails"`
	BPTMissed    bool              `json:"bptMissed"`
	SpeedRange   SpeedRangeSummary `json:"speedRangeSummary"`
	SectionSpeed []SectionSpeedRow `json:"sectionSpeedSummary"`
}

// reportID produces a deterministic ID from the run's key fields, so that
// re-analyzing the same trip yields the same ID for idempotent downstream
// upserts.
func reportID(cfg RunConfig, samples []Sample) string {
	first, last := time.Time{}, time.Time{}
	if len(samples) > 0 {
		first = samples[0].Time
		last = samples[len(samples)-1].Time
	}
	input := fmt.Sprintf("%s|%s|%s|%s|%g|%d|%d|%d|%d|%d",
		cfg.Profile, cfg.Rake, cfg.FromStation, cfg.ToStation,
		cfg.MaxPermissibleSpeed,
		cfg.WindowStart.Unix(), cfg.WindowEnd.Unix(),
		len(samples), first.Unix(), last.Unix(),
	)
	hash := sha256.Sum256([]byte(input))
	return "spm-" + hex.EncodeToString(hash[:8])
}
