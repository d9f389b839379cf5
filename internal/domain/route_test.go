package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRoute(t *testing.T) {
	t.Run("forward route rebases to the from station", func(t *testing.T) {
		r, err := BuildRoute(testTable(), "ALPHA", "CHARLIE")
		require.NoError(t, err)

		require.Len(t, r.Stations, 3)
		assert.Equal(t, RoutePoint{Name: "ALPHA", Distance: 0}, r.Stations[0])
		assert.Equal(t, RoutePoint{Name: "BRAVO", Distance: 4000}, r.Stations[1])
		assert.Equal(t, RoutePoint{Name: "CHARLIE", Distance: 9000}, r.Stations[2])
		assert.Equal(t, 9000.0, r.Length)

		require.Len(t, r.Signals, 2)
		assert.Equal(t, 3700.0, r.Signals[0].Distance)
		assert.Equal(t, 7900.0, r.Signals[1].Distance)
	})

	t.Run("reverse route ascends along the journey", func(t *testing.T) {
		r, err := BuildRoute(testTable(), "CHARLIE", "ALPHA")
		require.NoError(t, err)

		require.Len(t, r.Stations, 3)
		assert.Equal(t, RoutePoint{Name: "CHARLIE", Distance: 0}, r.Stations[0])
		assert.Equal(t, RoutePoint{Name: "BRAVO", Distance: 5000}, r.Stations[1])
		assert.Equal(t, RoutePoint{Name: "ALPHA", Distance: 9000}, r.Stations[2])
		assert.Equal(t, 9000.0, r.Length)

		// Home at km 13.7 sits 5.3 km into the reversed journey.
		require.Len(t, r.Signals, 2)
		byName := map[string]float64{}
		for _, sig := range r.Signals {
			byName[sig.Signal] = sig.Distance
		}
		assert.Equal(t, 5300.0, byName["Home"])
		assert.Equal(t, 1100.0, byName["Distant"])
	})

	t.Run("partial route drops out-of-range signals", func(t *testing.T) {
		r, err := BuildRoute(testTable(), "ALPHA", "BRAVO")
		require.NoError(t, err)

		assert.Equal(t, 4000.0, r.Length)
		require.Len(t, r.Signals, 1, "the Distant signal at km 17.9 is past BRAVO plus tolerance")
		assert.Equal(t, "Home", r.Signals[0].Signal)
	})

	t.Run("unknown or identical endpoints", func(t *testing.T) {
		_, err := BuildRoute(testTable(), "ALPHA", "DELTA")
		assert.ErrorIs(t, err, ErrInvalidStationRange)

		_, err = BuildRoute(testTable(), "BRAVO", "BRAVO")
		assert.ErrorIs(t, err, ErrInvalidStationRange)
	})
}

func TestRouteLabels(t *testing.T) {
	route := testRoute(t, "ALPHA", "CHARLIE")

	t.Run("section label prefers the enclosing segment", func(t *testing.T) {
		assert.Equal(t, "ALPHA - BRAVO", route.SectionLabel(2000))
		assert.Equal(t, "BRAVO - CHARLIE", route.SectionLabel(4000), "segment boundaries are half-open")
	})

	t.Run("section label falls back to a nearby signal", func(t *testing.T) {
		reversed := testRoute(t, "CHARLIE", "BRAVO")
		// 5200 m is past BRAVO at 5000 but within 400 m of its Home signal.
		assert.Equal(t, "BRAVO/Home", reversed.SectionLabel(5200))
	})

	t.Run("section label unknown outside both", func(t *testing.T) {
		assert.Equal(t, "Unknown", route.SectionLabel(-500))
	})

	t.Run("stop location prefers the signal", func(t *testing.T) {
		assert.Equal(t, "BRAVO/Home", route.StopLocation(3800))
		assert.Equal(t, "ALPHA - BRAVO", route.StopLocation(2000))
		assert.Equal(t, "Unknown Section", route.StopLocation(9500))
	})
}
