package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var testBase = time.Date(2024, time.November, 5, 8, 0, 0, 0, time.UTC)

// tick is a compact sample spec: seconds after testBase, cumulative metres,
// km/h, and an optional event code.
type tick struct {
	sec   int
	dist  float64
	speed float64
	event string
}

func buildSamples(specs []tick) []Sample {
	out := make([]Sample, len(specs))
	for i, s := range specs {
		out[i] = Sample{
			Time:      testBase.Add(time.Duration(s.sec) * time.Second),
			Distance:  s.dist,
			Speed:     s.speed,
			EventCode: s.event,
		}
	}
	return out
}

func seriesOf(specs []tick) *NormalizedSeries {
	return &NormalizedSeries{Samples: buildSamples(specs)}
}

func testTable() StationTable {
	return StationTable{
		Stations: []Station{
			{Name: "ALPHA", Distance: 10000},
			{Name: "BRAVO", Distance: 14000},
			{Name: "CHARLIE", Distance: 19000},
		},
		Signals: []StationSignal{
			{Section: "ALPHA - BRAVO", Station: "BRAVO", Signal: "Home", Distance: 13700},
			{Section: "BRAVO - CHARLIE", Station: "CHARLIE", Signal: "Distant", Distance: 17900},
		},
	}
}

func testRoute(t *testing.T, from, to string) Route {
	t.Helper()
	r, err := BuildRoute(testTable(), from, to)
	require.NoError(t, err)
	return r
}

func mustProfile(t *testing.T, name string) VendorProfile {
	t.Helper()
	p, err := ProfileByName(name)
	require.NoError(t, err)
	return p
}
