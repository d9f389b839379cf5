// Command spmreport runs one analysis from the command line: it reads a
// sample series and station table from canonical CSV files and writes the
// report as JSON.
//
// Usage:
//
//	go run ./cmd/spmreport \
//	  -samples data/trip.csv \
//	  -stations data/stations.csv \
//	  -signals data/signals.csv \
//	  -profile medha -rake GOODS -mps 60 \
//	  -from ALPHA -to CHARLIE \
//	  -window-start 2024-11-05T08:00:00Z -window-end 2024-11-05T16:00:00Z
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/railsight/spm-analyzer/internal/adapter/logfile"
	"github.com/railsight/spm-analyzer/internal/domain"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	samplesPath := flag.String("samples", "", "path to the sample series CSV")
	stationsPath := flag.String("stations", "", "path to the station list CSV")
	signalsPath := flag.String("signals", "", "optional path to the station/signal CSV")
	profile := flag.String("profile", "", "vendor profile (medha, laxven, telpro, autometers, shakti)")
	rake := flag.String("rake", "", "rake type (GOODS, COACHING, MEMU)")
	mps := flag.Float64("mps", 0, "maximum permissible speed in km/h")
	from := flag.String("from", "", "route origin station name")
	to := flag.String("to", "", "route destination station name")
	windowStart := flag.String("window-start", "", "analysis window start (RFC 3339)")
	windowEnd := flag.String("window-end", "", "analysis window end (RFC 3339)")
	out := flag.String("out", "", "output path; stdout when empty")
	flag.Parse()

	if *samplesPath == "" || *stationsPath == "" || *profile == "" || *rake == "" ||
		*mps <= 0 || *from == "" || *to == "" || *windowStart == "" || *windowEnd == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags")
	}

	rakeType, err := domain.ParseRakeType(*rake)
	if err != nil {
		return err
	}
	start, err := time.Parse(time.RFC3339, *windowStart)
	if err != nil {
		return fmt.Errorf("bad -window-start: %w", err)
	}
	end, err := time.Parse(time.RFC3339, *windowEnd)
	if err != nil {
		return fmt.Errorf("bad -window-end: %w", err)
	}

	samples, err := logfile.ReadSamples(*samplesPath)
	if err != nil {
		return fmt.Errorf("read samples: %w", err)
	}
	table, err := logfile.ReadStationTable(*stationsPath, *signalsPath)
	if err != nil {
		return fmt.Errorf("read station table: %w", err)
	}

	report, err := domain.Analyze(samples, table, domain.RunConfig{
		Profile:             *profile,
		Rake:                rakeType,
		MaxPermissibleSpeed: *mps,
		WindowStart:         start,
		WindowEnd:           end,
		FromStation:         *from,
		ToStation:           *to,
	})
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	if *out == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(*out, data, 0o600); err != nil {
		return err
	}
	log.Printf("wrote report %s: %d stops, %d over-speed segments", report.ID, len(report.Stops), len(report.OverSpeed))
	return nil
}
