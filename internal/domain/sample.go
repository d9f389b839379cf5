package domain

import (
	"errors"
	"time"
)

// Structural failures reported to the adapter layer. "No result" outcomes
// (no stops found, brake test never qualifies) are normal outputs, not errors.
var (
	// ErrEmptyInput means no samples were supplied at all.
	ErrEmptyInput = errors.New("no samples in input")

	// ErrNoDeparture means no sample inside the analysis window starts a
	// sustained movement of at least 200 m without an intervening halt.
	ErrNoDeparture = errors.New("no departure found in analysis window")

	// ErrInvalidStationRange means the configured from/to station is not
	// present in the station table.
	ErrInvalidStationRange = errors.New("from/to station not found in station table")

	// ErrNoDataAfterDeparture means the series ends at the departure sample.
	ErrNoDataAfterDeparture = errors.New("no samples recorded after departure")
)

// Sample is one canonical SPM record as emitted by the vendor file parsers.
// Distance is cumulative metres; Speed is km/h. EventCode is empty when the
// logger recorded no event for the sample.
type Sample struct {
	Time      time.Time `json:"time"`
	Distance  float64   `json:"distance"`
	Speed     float64   `json:"speed"`
	EventCode string    `json:"event,omitempty"`
}

// Station is one named point on a route with its cumulative chainage from
// the line origin, in metres.
type Station struct {
	Name     string  `json:"name"`
	Distance float64 `json:"distance"`
}

// StationSignal is one entry of the fine-grained station/signal reference
// used for location tagging (a signal post, loop line, or platform marker).
type StationSignal struct {
	Section  string  `json:"section"`
	Station  string  `json:"station"`
	Signal   string  `json:"signal"`
	Distance float64 `json:"distance"`
}

// StationTable is the route reference data handed to the engine: the ordered
// station list plus the auxiliary station/signal lookup.
type StationTable struct {
	Stations []Station       `json:"stations"`
	Signals  []StationSignal `json:"signals,omitempty"`
}

// RunConfig selects the vendor profile, rolling-stock tables, analysis
// window, and route endpoints for one engine run.
type RunConfig struct {
	Profile             string    `json:"profile"`
	Rake                RakeType  `json:"rake"`
	MaxPermissibleSpeed float64   `json:"maxPermissibleSpeed"`
	WindowStart         time.Time `json:"windowStart"`
	WindowEnd           time.Time `json:"windowEnd"`
	FromStation         string    `json:"fromStation"`
	ToStation           string    `json:"toStation"`
}

// NormalizedSeries is the sample sequence re-based so that distance is zero
// at the departure sample and truncated to the analysis window. It is
// immutable once produced; every detector reads it without writing back.
type NormalizedSeries struct {
	Samples []Sample

	// Degraded is set when no sample fell inside the requested window and
	// the full series was used instead.
	Degraded bool
}
