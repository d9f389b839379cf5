package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/railsight/spm-analyzer/internal/domain"
	"github.com/railsight/spm-analyzer/internal/observability"
)

// Publisher hands a finished report to a downstream sink.
type Publisher interface {
	Publish(ctx context.Context, report *domain.Report) error
}

// Runner executes analysis runs: it validates and normalizes the input, fans
// the detectors out across goroutines, assembles the report, and optionally
// publishes it. A Runner is safe for concurrent use.
type Runner struct {
	logger    *slog.Logger
	metrics   *observability.Metrics
	publisher Publisher
	draining  atomic.Bool
}

// New creates a Runner. Pass a nil publisher to disable report publishing.
func New(logger *slog.Logger, metrics *observability.Metrics, publisher Publisher) *Runner {
	if publisher != nil {
		metrics.PublishEnabled.Set(1)
	}
	return &Runner{
		logger:    logger,
		metrics:   metrics,
		publisher: publisher,
	}
}

// CheckReadiness returns nil while the runner accepts work, or an error once
// shutdown has begun so load balancers stop routing to this instance.
func (r *Runner) CheckReadiness(_ context.Context) error {
	if r.draining.Load() {
		return errors.New("runner is draining for shutdown")
	}
	return nil
}

// Drain marks the runner as shutting down. In-flight runs complete normally.
func (r *Runner) Drain() {
	r.draining.Store(true)
}

// Analyze performs one full engine run. Detectors are independent reads of
// the same immutable normalized series, so they run concurrently; the
// aggregation stages that need detector output run after the join.
func (r *Runner) Analyze(ctx context.Context, samples []domain.Sample, table domain.StationTable, cfg domain.RunConfig) (*domain.Report, error) {
	start := time.Now()
	r.metrics.AnalysisRunning.Inc()
	defer r.metrics.AnalysisRunning.Dec()

	p, err := domain.Prepare(samples, table, cfg)
	if err != nil {
		r.metrics.AnalysisFailures.WithLabelValues(failureReason(err)).Inc()
		r.logger.Warn("analysis rejected", "error", err, "profile", cfg.Profile, "samples", len(samples))
		return nil, err
	}

	var (
		wg         sync.WaitGroup
		stops      []domain.Stop
		over       []domain.SpeedSegment
		slip, skid []domain.SpeedSegment
		bft, bpt   domain.BrakeTestOutcome
	)

	wg.Add(4)
	go func() {
		defer wg.Done()
		stops = domain.DetectStops(p.Series, p.Route, p.Profile, cfg.Rake)
	}()
	go func() {
		defer wg.Done()
		over = domain.DetectOverSpeed(p.Series, p.Route, cfg.MaxPermissibleSpeed)
	}()
	go func() {
		defer wg.Done()
		slip = domain.DetectWheelSlip(p.Series, p.Route)
		skid = domain.DetectWheelSkid(p.Series, p.Route)
	}()
	go func() {
		defer wg.Done()
		bft, bpt = domain.EvaluateBrakeTests(p.Series, p.Profile, cfg.Rake)
	}()
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report := p.Assemble(stops, over, slip, skid, bft, bpt)

	r.metrics.SamplesAnalyzed.Add(float64(len(samples)))
	r.metrics.SeriesLength.Observe(float64(len(p.Series.Samples)))
	r.metrics.ReportsGenerated.Inc()
	r.metrics.AnalysisDuration.Observe(time.Since(start).Seconds())

	r.logger.Info("analysis complete",
		"report_id", report.ID,
		"profile", report.Profile,
		"rake", report.Rake,
		"stops", len(report.Stops),
		"over_speed", len(report.OverSpeed),
		"degraded", report.Degraded,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	r.publish(ctx, report)
	return report, nil
}

// publish hands the report to the sink. Publish failures are logged and
// counted but never fail the analysis; the caller already has the report.
func (r *Runner) publish(ctx context.Context, report *domain.Report) {
	if r.publisher == nil {
		return
	}
	if err := r.publisher.Publish(ctx, report); err != nil {
		r.metrics.PublishErrors.Inc()
		r.logger.Warn("report publish failed", "error", err, "report_id", report.ID)
		return
	}
	r.metrics.ReportsPublished.Inc()
}

// failureReason maps structural engine errors onto metric labels.
func failureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrEmptyInput):
		return "empty_input"
	case errors.Is(err, domain.ErrNoDeparture):
		return "no_departure"
	case errors.Is(err, domain.ErrInvalidStationRange):
		return "invalid_station_range"
	case errors.Is(err, domain.ErrNoDataAfterDeparture):
		return "no_data_after_departure"
	default:
		return "other"
	}
}
