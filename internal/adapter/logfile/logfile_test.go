package logfile

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestReadSamples(t *testing.T) {
	t.Run("parses rows in order", func(t *testing.T) {
		path := writeFile(t, "samples.csv",
			"time,distance_m,speed_kmh,event_code\n"+
				"2024-11-05T08:00:00Z,10000,0,0\n"+
				"2024-11-05T08:00:02Z,10050,18,\n")

		samples, err := ReadSamples(path)
		require.NoError(t, err)

		require.Len(t, samples, 2)
		assert.Equal(t, time.Date(2024, time.November, 5, 8, 0, 0, 0, time.UTC), samples[0].Time)
		assert.Equal(t, 10000.0, samples[0].Distance)
		assert.Equal(t, "0", samples[0].EventCode)
		assert.Equal(t, 18.0, samples[1].Speed)
		assert.Empty(t, samples[1].EventCode)
	})

	t.Run("event code column is optional", func(t *testing.T) {
		path := writeFile(t, "samples.csv",
			"time,distance_m,speed_kmh\n"+
				"2024-11-05T08:00:00Z,10000,12.5\n")

		samples, err := ReadSamples(path)
		require.NoError(t, err)
		assert.Equal(t, 12.5, samples[0].Speed)
		assert.Empty(t, samples[0].EventCode)
	})

	t.Run("rejects a bad timestamp with line context", func(t *testing.T) {
		path := writeFile(t, "samples.csv",
			"time,distance_m,speed_kmh,event_code\n"+
				"yesterday,10000,0,0\n")

		_, err := ReadSamples(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "line 2")
	})

	t.Run("rejects a missing required column", func(t *testing.T) {
		path := writeFile(t, "samples.csv", "time,speed_kmh\n2024-11-05T08:00:00Z,0\n")

		_, err := ReadSamples(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "distance_m")
	})

	t.Run("rejects an empty file", func(t *testing.T) {
		path := writeFile(t, "samples.csv", "time,distance_m,speed_kmh,event_code\n")

		_, err := ReadSamples(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no data rows")
	})
}

func TestReadStationTable(t *testing.T) {
	stations := "name,distance_m\nALPHA,10000\nBRAVO,14000\n"
	signals := "section,station,signal,distance_m\nALPHA - BRAVO,BRAVO,Home,13700\n"

	t.Run("stations with signals", func(t *testing.T) {
		table, err := ReadStationTable(
			writeFile(t, "stations.csv", stations),
			writeFile(t, "signals.csv", signals),
		)
		require.NoError(t, err)

		require.Len(t, table.Stations, 2)
		assert.Equal(t, "ALPHA", table.Stations[0].Name)
		assert.Equal(t, 14000.0, table.Stations[1].Distance)

		require.Len(t, table.Signals, 1)
		assert.Equal(t, "Home", table.Signals[0].Signal)
		assert.Equal(t, 13700.0, table.Signals[0].Distance)
	})

	t.Run("signals file is optional", func(t *testing.T) {
		table, err := ReadStationTable(writeFile(t, "stations.csv", stations), "")
		require.NoError(t, err)
		assert.Len(t, table.Stations, 2)
		assert.Empty(t, table.Signals)
	})

	t.Run("bad station distance", func(t *testing.T) {
		_, err := ReadStationTable(writeFile(t, "stations.csv", "name,distance_m\nALPHA,ten\n"), "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "line 2")
	})
}
