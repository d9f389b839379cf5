package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/railsight/spm-analyzer/internal/domain"
	"github.com/railsight/spm-analyzer/internal/observability"
)

var tripStart = time.Date(2024, time.November, 5, 8, 0, 0, 0, time.UTC)

func tripSamples() []domain.Sample {
	specs := []struct {
		sec   int
		dist  float64
		speed float64
		event string
	}{
		{0, 10000, 0, "0"},
		{2, 10050, 18, ""},
		{4, 10400, 40, ""},
		{6, 10900, 62, ""},
		{8, 11400, 58, ""},
		{10, 12000, 0, "0"},
	}
	out := make([]domain.Sample, len(specs))
	for i, s := range specs {
		out[i] = domain.Sample{
			Time:      tripStart.Add(time.Duration(s.sec) * time.Second),
			Distance:  s.dist,
			Speed:     s.speed,
			EventCode: s.event,
		}
	}
	return out
}

func tripTable() domain.StationTable {
	return domain.StationTable{
		Stations: []domain.Station{
			{Name: "ALPHA", Distance: 10000},
			{Name: "BRAVO", Distance: 14000},
		},
	}
}

func tripConfig() domain.RunConfig {
	return domain.RunConfig{
		Profile:             "medha",
		Rake:                domain.RakeGoods,
		MaxPermissibleSpeed: 60,
		WindowStart:         tripStart,
		WindowEnd:           tripStart.Add(time.Hour),
		FromStation:         "ALPHA",
		ToStation:           "BRAVO",
	}
}

type fakePublisher struct {
	published []*domain.Report
	err       error
}

func (f *fakePublisher) Publish(_ context.Context, report *domain.Report) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, report)
	return nil
}

func testRunner(pub Publisher) *Runner {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(logger, observability.NewMetricsForTesting(), pub)
}

func TestRunner_Analyze(t *testing.T) {
	pub := &fakePublisher{}
	r := testRunner(pub)

	report, err := r.Analyze(context.Background(), tripSamples(), tripTable(), tripConfig())
	require.NoError(t, err)

	assert.Equal(t, "medha", report.Profile)
	require.Len(t, report.Stops, 1)
	assert.True(t, report.Stops[0].Last)
	require.Len(t, report.OverSpeed, 1)
	assert.Equal(t, "58.00-62.00", report.OverSpeed[0].SpeedRange)

	require.Len(t, pub.published, 1)
	assert.Same(t, report, pub.published[0])
}

func TestRunner_MatchesSequentialEngine(t *testing.T) {
	domain.SetClock(clockwork.NewFakeClockAt(tripStart.Add(2 * time.Hour)))
	t.Cleanup(func() { domain.SetClock(nil) })

	want, err := domain.Analyze(tripSamples(), tripTable(), tripConfig())
	require.NoError(t, err)

	got, err := testRunner(nil).Analyze(context.Background(), tripSamples(), tripTable(), tripConfig())
	require.NoError(t, err)

	if diff := cmp.Diff(want, got, cmp.AllowUnexported(domain.Stop{})); diff != "" {
		t.Fatalf("concurrent run diverges from sequential engine (-want +got):\n%s", diff)
	}
}

func TestRunner_RejectsStructuralErrors(t *testing.T) {
	pub := &fakePublisher{}
	r := testRunner(pub)

	_, err := r.Analyze(context.Background(), nil, tripTable(), tripConfig())
	assert.ErrorIs(t, err, domain.ErrEmptyInput)

	cfg := tripConfig()
	cfg.ToStation = "ZULU"
	_, err = r.Analyze(context.Background(), tripSamples(), tripTable(), cfg)
	assert.ErrorIs(t, err, domain.ErrInvalidStationRange)

	assert.Empty(t, pub.published, "rejected runs must not publish")
}

func TestRunner_PublishFailureDoesNotFailAnalysis(t *testing.T) {
	r := testRunner(&fakePublisher{err: errors.New("broker unavailable")})

	report, err := r.Analyze(context.Background(), tripSamples(), tripTable(), tripConfig())
	require.NoError(t, err)
	assert.NotNil(t, report)
}

func TestRunner_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := testRunner(nil).Analyze(ctx, tripSamples(), tripTable(), tripConfig())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunner_Readiness(t *testing.T) {
	r := testRunner(nil)

	assert.NoError(t, r.CheckReadiness(context.Background()))
	r.Drain()
	assert.Error(t, r.CheckReadiness(context.Background()))
}
