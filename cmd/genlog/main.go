// Command genlog generates a synthetic SPM trip in the canonical CSV layout,
// for exercising the analyzer without real logger exports. The trip is
// deterministic for a given seed: acceleration out of the origin, a brake
// feel test, cruising with jitter past the permissible speed, a dwell at the
// intermediate station, and a final halt.
//
// Usage:
//
//	go run ./cmd/genlog -out data/mock -profile medha -seed 7
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/railsight/spm-analyzer/internal/domain"
)

var tripStart = time.Date(2024, time.November, 5, 8, 0, 0, 0, time.UTC)

var stations = []domain.Station{
	{Name: "ALPHA", Distance: 10000},
	{Name: "BRAVO", Distance: 14000},
	{Name: "CHARLIE", Distance: 19000},
}

var signals = []domain.StationSignal{
	{Section: "ALPHA - BRAVO", Station: "BRAVO", Signal: "Home", Distance: 13700},
	{Section: "BRAVO - CHARLIE", Station: "CHARLIE", Signal: "Distant", Distance: 17900},
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	outDir := flag.String("out", "", "output directory for the CSV files")
	profileName := flag.String("profile", "medha", "vendor profile whose event codes to emit")
	seed := flag.Int64("seed", 1, "random seed for speed jitter")
	flag.Parse()

	if *outDir == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}

	profile, err := domain.ProfileByName(*profileName)
	if err != nil {
		return err
	}

	samples := generateTrip(profile, rand.New(rand.NewSource(*seed)))
	log.Printf("generated %d samples over %.1f km", len(samples),
		(samples[len(samples)-1].Distance-samples[0].Distance)/1000)

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return err
	}
	if err := writeSamples(filepath.Join(*outDir, "trip.csv"), samples); err != nil {
		return err
	}
	if err := writeStations(filepath.Join(*outDir, "stations.csv")); err != nil {
		return err
	}
	if err := writeSignals(filepath.Join(*outDir, "signals.csv")); err != nil {
		return err
	}
	log.Printf("wrote trip.csv, stations.csv, signals.csv to %s", *outDir)
	return nil
}

// phase is one leg of the synthetic speed profile: ramp from the current
// speed to target over the given number of seconds.
type phase struct {
	target float64
	secs   int
	jitter float64
}

func generateTrip(profile domain.VendorProfile, rng *rand.Rand) []domain.Sample {
	phases := []phase{
		{target: 0, secs: 30},                  // dwell at ALPHA before departure
		{target: 20, secs: 40},                 // pull out
		{target: 14, secs: 30},                 // brake feel test dip
		{target: 55, secs: 60, jitter: 1.5},    // accelerate to cruise
		{target: 62, secs: 40, jitter: 1.0},    // drift past the 60 km/h MPS
		{target: 55, secs: 30, jitter: 1.5},    // back under
		{target: 0, secs: 60},                  // brake into BRAVO
		{target: 0, secs: 45},                  // dwell at BRAVO
		{target: 50, secs: 60, jitter: 1.5},    // depart for CHARLIE
		{target: 0, secs: 90},                  // brake into CHARLIE
	}

	var samples []domain.Sample
	speed := 0.0
	distance := 10000.0
	elapsed := 0

	for _, p := range phases {
		step := (p.target - speed) / float64(p.secs)
		for s := 0; s < p.secs; s++ {
			speed += step
			v := speed
			if p.jitter > 0 {
				v += (rng.Float64()*2 - 1) * p.jitter
			}
			if v < 0 || p.target == 0 && s == p.secs-1 {
				v = 0
			}
			// km/h over one second -> metres.
			distance += v / 3.6

			event := ""
			if v == 0 {
				event = profile.ZeroSpeedCode
			}
			samples = append(samples, domain.Sample{
				Time:      tripStart.Add(time.Duration(elapsed) * time.Second),
				Distance:  distance,
				Speed:     v,
				EventCode: event,
			})
			elapsed++
		}
		speed = p.target
	}
	return samples
}

func writeSamples(path string, samples []domain.Sample) error {
	rows := [][]string{{"time", "distance_m", "speed_kmh", "event_code"}}
	for _, s := range samples {
		rows = append(rows, []string{
			s.Time.Format(time.RFC3339),
			strconv.FormatFloat(s.Distance, 'f', 1, 64),
			strconv.FormatFloat(s.Speed, 'f', 2, 64),
			s.EventCode,
		})
	}
	return writeCSV(path, rows)
}

func writeStations(path string) error {
	rows := [][]string{{"name", "distance_m"}}
	for _, st := range stations {
		rows = append(rows, []string{st.Name, strconv.FormatFloat(st.Distance, 'f', 0, 64)})
	}
	return writeCSV(path, rows)
}

func writeSignals(path string) error {
	rows := [][]string{{"section", "station", "signal", "distance_m"}}
	for _, sig := range signals {
		rows = append(rows, []string{sig.Section, sig.Station, sig.Signal, strconv.FormatFloat(sig.Distance, 'f', 0, 64)})
	}
	return writeCSV(path, rows)
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
