// Package logfile reads the canonical CSV forms of SPM telemetry and route
// reference data. The per-vendor parsers (Excel sheets, fixed-width TXT,
// printer PDFs) live upstream; by the time data reaches this service it has
// been flattened to these layouts:
//
//	samples:  time,distance_m,speed_kmh,event_code
//	stations: name,distance_m
//	signals:  section,station,signal,distance_m
//
// Times are RFC 3339. The event_code column may be empty.
package logfile

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/railsight/spm-analyzer/internal/domain"
)

// ReadSamples loads a sample series CSV.
func ReadSamples(path string) ([]domain.Sample, error) {
	rows, idx, err := readCSV(path, "time", "distance_m", "speed_kmh")
	if err != nil {
		return nil, err
	}

	samples := make([]domain.Sample, 0, len(rows))
	for i, row := range rows {
		ts, err := time.Parse(time.RFC3339, get(row, idx, "time"))
		if err != nil {
			return nil, fmt.Errorf("%s line %d: bad time: %w", path, i+2, err)
		}
		dist, err := parseFloat(row, idx, "distance_m")
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, i+2, err)
		}
		speed, err := parseFloat(row, idx, "speed_kmh")
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, i+2, err)
		}
		samples = append(samples, domain.Sample{
			Time:      ts,
			Distance:  dist,
			Speed:     speed,
			EventCode: get(row, idx, "event_code"),
		})
	}
	return samples, nil
}

// ReadStationTable loads the station list plus, when signalsPath is
// non-empty, the station/signal reference.
func ReadStationTable(stationsPath, signalsPath string) (domain.StationTable, error) {
	var table domain.StationTable

	rows, idx, err := readCSV(stationsPath, "name", "distance_m")
	if err != nil {
		return table, err
	}
	for i, row := range rows {
		dist, err := parseFloat(row, idx, "distance_m")
		if err != nil {
			return table, fmt.Errorf("%s line %d: %w", stationsPath, i+2, err)
		}
		table.Stations = append(table.Stations, domain.Station{
			Name:     get(row, idx, "name"),
			Distance: dist,
		})
	}

	if signalsPath == "" {
		return table, nil
	}

	rows, idx, err = readCSV(signalsPath, "section", "station", "signal", "distance_m")
	if err != nil {
		return table, err
	}
	for i, row := range rows {
		dist, err := parseFloat(row, idx, "distance_m")
		if err != nil {
			return table, fmt.Errorf("%s line %d: %w", signalsPath, i+2, err)
		}
		table.Signals = append(table.Signals, domain.StationSignal{
			Section:  get(row, idx, "section"),
			Station:  get(row, idx, "station"),
			Signal:   get(row, idx, "signal"),
			Distance: dist,
		})
	}
	return table, nil
}

// readCSV loads a headed CSV and verifies the required columns exist.
func readCSV(path string, required ...string) ([][]string, map[string]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	all, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(all) < 2 {
		return nil, nil, fmt.Errorf("no data rows in %s", path)
	}

	idx := map[string]int{}
	for i, h := range all[0] {
		idx[strings.TrimSpace(strings.ToLower(h))] = i
	}
	for _, col := range required {
		if _, ok := idx[col]; !ok {
			return nil, nil, fmt.Errorf("%s: missing column %q", path, col)
		}
	}
	return all[1:], idx, nil
}

func get(row []string, idx map[string]int, col string) string {
	i, ok := idx[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func parseFloat(row []string, idx map[string]int, col string) (float64, error) {
	v, err := strconv.ParseFloat(get(row, idx, col), 64)
	if err != nil {
		return 0, fmt.Errorf("bad %s: %w", col, err)
	}
	return v, nil
}
