package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	windowStart := testBase
	windowEnd := testBase.Add(time.Hour)

	t.Run("finds departure and rebases distance", func(t *testing.T) {
		samples := buildSamples([]tick{
			{0, 1000, 0, "0"},
			{1, 1000, 2, ""},
			{2, 1100, 10, ""},
			{3, 1300, 20, ""},
			{4, 1500, 25, ""},
		})

		series, err := Normalize(samples, windowStart, windowEnd, 1000)
		require.NoError(t, err)

		assert.False(t, series.Degraded)
		require.Len(t, series.Samples, 4)
		assert.Equal(t, 0.0, series.Samples[0].Distance)
		assert.Equal(t, 2.0, series.Samples[0].Speed)
		assert.Equal(t, 500.0, series.Samples[3].Distance)
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := Normalize(nil, windowStart, windowEnd, 0)
		assert.ErrorIs(t, err, ErrEmptyInput)
	})

	t.Run("no departure when movement never sustains 200 m", func(t *testing.T) {
		samples := buildSamples([]tick{
			{0, 0, 5, ""},
			{1, 100, 5, ""},
			{2, 100, 0, "0"},
			{3, 150, 3, ""},
			{4, 180, 0, "0"},
		})

		_, err := Normalize(samples, windowStart, windowEnd, 0)
		assert.ErrorIs(t, err, ErrNoDeparture)
	})

	t.Run("skips a false start before the real departure", func(t *testing.T) {
		samples := buildSamples([]tick{
			{0, 0, 5, ""},
			{1, 100, 5, ""},
			{2, 100, 0, "0"},
			{3, 150, 10, ""},
			{4, 300, 15, ""},
			{5, 400, 20, ""},
		})

		series, err := Normalize(samples, windowStart, windowEnd, 0)
		require.NoError(t, err)

		require.Len(t, series.Samples, 3)
		assert.Equal(t, 10.0, series.Samples[0].Speed)
		assert.Equal(t, 0.0, series.Samples[0].Distance)
		assert.Equal(t, 250.0, series.Samples[2].Distance)
	})

	t.Run("window excludes earlier trips", func(t *testing.T) {
		samples := buildSamples([]tick{
			{-3600, 0, 30, ""},
			{-3599, 500, 30, ""},
			{0, 1000, 0, "0"},
			{1, 1000, 5, ""},
			{2, 1200, 20, ""},
			{3, 1400, 25, ""},
		})

		series, err := Normalize(samples, windowStart, windowEnd, 0)
		require.NoError(t, err)

		assert.False(t, series.Degraded)
		assert.Equal(t, 5.0, series.Samples[0].Speed)
	})

	t.Run("degraded fallback when window is empty", func(t *testing.T) {
		samples := buildSamples([]tick{
			{0, 0, 5, ""},
			{1, 150, 10, ""},
			{2, 350, 15, ""},
		})

		series, err := Normalize(samples, testBase.Add(24*time.Hour), testBase.Add(25*time.Hour), 0)
		require.NoError(t, err)

		assert.True(t, series.Degraded)
		require.Len(t, series.Samples, 3)
	})

	t.Run("no data after departure", func(t *testing.T) {
		// The confirmation scan may look past the window end, but the output
		// series is truncated there.
		samples := buildSamples([]tick{
			{0, 0, 0, "0"},
			{1, 0, 20, ""},
			{2, 100, 20, ""},
			{3, 300, 20, ""},
		})

		_, err := Normalize(samples, windowStart, windowStart.Add(time.Second), 0)
		assert.ErrorIs(t, err, ErrNoDataAfterDeparture)
	})
}
