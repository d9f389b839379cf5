package domain

import "fmt"

// Prepared is the validated input shared by every detector: the normalized
// series, the travel-frame route, and the resolved profile.
type Prepared struct {
	Series  *NormalizedSeries
	Route   Route
	Profile VendorProfile
	Config  RunConfig
}

// Prepare resolves the vendor profile, builds the route, and normalizes the
// sample series. Every structural failure of §7 surfaces here; the detectors
// themselves cannot fail.
func Prepare(samples []Sample, table StationTable, cfg RunConfig) (*Prepared, error) {
	profile, err := ProfileByName(cfg.Profile)
	if err != nil {
		return nil, err
	}

	route, err := BuildRoute(table, cfg.FromStation, cfg.ToStation)
	if err != nil {
		return nil, err
	}

	fromDistance := 0.0
	for _, s := range table.Stations {
		if s.Name == cfg.FromStation {
			fromDistance = s.Distance
			break
		}
	}

	series, err := Normalize(samples, cfg.WindowStart, cfg.WindowEnd, fromDistance)
	if err != nil {
		return nil, fmt.Errorf("normalize series: %w", err)
	}

	return &Prepared{Series: series, Route: route, Profile: profile, Config: cfg}, nil
}

// Assemble runs the aggregation stages that depend on detector output and
// packages everything into a Report.
func (p *Prepared) Assemble(stops []Stop, over, slip, skid []SpeedSegment, bft, bpt BrakeTestOutcome) *Report {
	return &Report{
		ID:           reportID(p.Config, p.Series.Samples),
		GeneratedAt:  clock.Now().UTC(),
		Profile:      p.Profile.Name,
		Rake:         p.Config.Rake,
		Degraded:     p.Series.Degraded,
		Stops:        stops,
		StationStops: ResolveStationStops(p.Series, p.Route, stops, p.Config.Rake),
		OverSpeed:    over,
		WheelSlip:    slip,
		WheelSkid:    skid,
		BFT:          bft.Result,
		BFTMissed:    bft.Missed,
		BPT:          bpt.Result,
		BPTMissed:    bpt.Missed,
		SpeedRange:   ComputeSpeedRangeSummary(p.Series, p.Config.Rake, p.Config.MaxPermissibleSpeed),
		SectionSpeed: ComputeSectionSpeedSummary(p.Series, p.Route),
	}
}

// Analyze is the sequential engine entry point: normalize, run every
// detector, aggregate, and assemble the report.
func Analyze(samples []Sample, table StationTable, cfg RunConfig) (*Report, error) {
	p, err := Prepare(samples, table, cfg)
	if err != nil {
		return nil, err
	}

	stops := DetectStops(p.Series, p.Route, p.Profile, cfg.Rake)
	over := DetectOverSpeed(p.Series, p.Route, cfg.MaxPermissibleSpeed)
	slip := DetectWheelSlip(p.Series, p.Route)
	skid := DetectWheelSkid(p.Series, p.Route)
	bft, bpt := EvaluateBrakeTests(p.Series, p.Profile, cfg.Rake)

	return p.Assemble(stops, over, slip, skid, bft, bpt), nil
}
