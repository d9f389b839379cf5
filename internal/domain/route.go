package domain

import (
	"fmt"
	"math"
)

// signalTolerance is the distance window, in metres, within which a sample
// is attributed to a station/signal reference entry.
const signalTolerance = 400

// RoutePoint is a station projected onto the trip's travel direction:
// Distance is metres from the "from" station, ascending along the journey.
type RoutePoint struct {
	Name     string
	Distance float64
}

// RouteSignal is a station/signal reference entry projected the same way.
type RouteSignal struct {
	Section  string
	Station  string
	Signal   string
	Distance float64
}

// Route is the contiguous station sub-range between the configured from and
// to stations, re-based to the travel direction so that the from station is
// at distance zero regardless of which way the line is traversed.
type Route struct {
	Stations []RoutePoint
	Signals  []RouteSignal

	// Length is the from-to distance in metres.
	Length float64
}

// BuildRoute resolves the from/to endpoints against the station table and
// projects stations and signals into the travel frame. The route may run in
// either physical direction; either way route distances ascend from zero.
func BuildRoute(table StationTable, from, to string) (Route, error) {
	fromIdx, toIdx := -1, -1
	for i, s := range table.Stations {
		if s.Name == from {
			fromIdx = i
		}
		if s.Name == to {
			toIdx = i
		}
	}
	if fromIdx < 0 || toIdx < 0 || fromIdx == toIdx {
		return Route{}, fmt.Errorf("%w: from=%q to=%q", ErrInvalidStationRange, from, to)
	}

	origin := table.Stations[fromIdx].Distance
	dir := 1.0
	if table.Stations[toIdx].Distance < origin {
		dir = -1.0
	}

	lo, hi := fromIdx, toIdx
	if lo > hi {
		lo, hi = hi, lo
	}
	sub := table.Stations[lo : hi+1]

	r := Route{Stations: make([]RoutePoint, len(sub))}
	for i, s := range sub {
		rel := (s.Distance - origin) * dir
		// Keep stations ordered along the journey, not along the line.
		j := i
		if dir < 0 {
			j = len(sub) - 1 - i
		}
		r.Stations[j] = RoutePoint{Name: s.Name, Distance: rel}
	}
	r.Length = r.Stations[len(r.Stations)-1].Distance

	for _, sig := range table.Signals {
		rel := (sig.Distance - origin) * dir
		if rel < -signalTolerance || rel > r.Length+signalTolerance {
			continue
		}
		r.Signals = append(r.Signals, RouteSignal{
			Section:  sig.Section,
			Station:  sig.Station,
			Signal:   sig.Signal,
			Distance: rel,
		})
	}

	return r, nil
}

// sectionAt returns the inter-station segment containing the distance, as
// "A - B", if one encloses it.
func (r Route) sectionAt(dist float64) (string, bool) {
	for i := 0; i+1 < len(r.Stations); i++ {
		if dist >= r.Stations[i].Distance && dist < r.Stations[i+1].Distance {
			return r.Stations[i].Name + " - " + r.Stations[i+1].Name, true
		}
	}
	return "", false
}

// nearestSignal returns the closest station/signal entry within the given
// tolerance. Ties resolve to the earliest table entry.
func (r Route) nearestSignal(dist, tolerance float64) (RouteSignal, bool) {
	best := RouteSignal{}
	bestDiff := math.Inf(1)
	found := false
	for _, sig := range r.Signals {
		diff := math.Abs(sig.Distance - dist)
		if diff <= tolerance && diff < bestDiff {
			best, bestDiff, found = sig, diff, true
		}
	}
	return best, found
}

// SectionLabel names the location of an over-speed / slip / skid sample:
// enclosing inter-station segment first, then any station/signal within
// 400 m, else "Unknown".
func (r Route) SectionLabel(dist float64) string {
	if sec, ok := r.sectionAt(dist); ok {
		return sec
	}
	if sig, ok := r.nearestSignal(dist, signalTolerance); ok {
		return sig.Station + "/" + sig.Signal
	}
	return "Unknown"
}

// StopLocation names a stop: station/signal within 400 m first (the finer
// reference), then the enclosing segment, else "Unknown Section".
func (r Route) StopLocation(dist float64) string {
	if sig, ok := r.nearestSignal(dist, signalTolerance); ok {
		return sig.Station + "/" + sig.Signal
	}
	if sec, ok := r.sectionAt(dist); ok {
		return sec
	}
	return "Unknown Section"
}
