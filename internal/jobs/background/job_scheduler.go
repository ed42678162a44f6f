package background

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"menuhub/internal/metrics"
	"menuhub/internal/models"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog"
)

const UnlinkedItemsReportJob = "unlinked-items-report"

// UnlinkedItemCounter is the slice of the order item repository the report
// needs.
type UnlinkedItemCounter interface {
	CountUnlinkedSince(ctx context.Context, since time.Time) ([]models.TenantUnlinkedCount, error)
}

// SchedulerConfig controls the report cadence.
type SchedulerConfig struct {
	UnlinkedReportInterval time.Duration
	UnlinkedReportLookback time.Duration
}

// JobScheduler manages background jobs
type JobScheduler struct {
	scheduler gocron.Scheduler
	items     UnlinkedItemCounter
	metrics   *metrics.JobMetrics
	logger    zerolog.Logger
	cfg       SchedulerConfig
	now       func() time.Time
	jobs      map[string]gocron.Job
	mu        sync.RWMutex
}

// NewJobScheduler creates a new job scheduler with the report registered
func NewJobScheduler(items UnlinkedItemCounter, m *metrics.JobMetrics, logger zerolog.Logger, cfg SchedulerConfig) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	js := &JobScheduler{
		scheduler: scheduler,
		items:     items,
		metrics:   m,
		logger:    logger.With().Str("component", "job_scheduler").Logger(),
		cfg:       cfg,
		now:       time.Now,
		jobs:      make(map[string]gocron.Job),
	}

	if err := js.registerJobs(); err != nil {
		_ = scheduler.Shutdown()
		return nil, err
	}
	return js, nil
}

// Start starts the job scheduler
func (js *JobScheduler) Start() {
	js.logger.Info().Int("jobs", len(js.jobs)).Msg("starting background job scheduler")
	js.scheduler.Start()
}

// Stop stops the job scheduler and waits for running jobs
func (js *JobScheduler) Stop() error {
	js.logger.Info().Msg("stopping background job scheduler")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) registerJobs() error {
	interval := js.cfg.UnlinkedReportInterval
	if interval <= 0 {
		interval = time.Hour
	}

	job, err := js.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(js.RunUnlinkedItemsReport, context.Background()),
		gocron.WithName(UnlinkedItemsReportJob),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("register %s job: %w", UnlinkedItemsReportJob, err)
	}

	js.mu.Lock()
	js.jobs[UnlinkedItemsReportJob] = job
	js.mu.Unlock()
	return nil
}

// RunUnlinkedItemsReport counts items saved without a catalog product during
// the lookback window and logs one line per tenant.
func (js *JobScheduler) RunUnlinkedItemsReport(ctx context.Context) error {
	start := js.now()
	lookback := js.cfg.UnlinkedReportLookback
	if lookback <= 0 {
		lookback = 24 * time.Hour
	}
	since := start.Add(-lookback)

	defer func() {
		js.metrics.ObserveDuration(UnlinkedItemsReportJob, js.now().Sub(start))
	}()

	counts, err := js.items.CountUnlinkedSince(ctx, since)
	if err != nil {
		js.metrics.IncFailure(UnlinkedItemsReportJob)
		js.logger.Error().Err(err).Str("job", UnlinkedItemsReportJob).Msg("count unlinked order items")
		return err
	}

	gauge := make(map[string]int, len(counts))
	total := 0
	for _, c := range counts {
		gauge[c.TenantID] = c.Count
		total += c.Count
		js.logger.Warn().
			Str("job", UnlinkedItemsReportJob).
			Str("tenant_id", c.TenantID).
			Int("unlinked_items", c.Count).
			Time("since", since).
			Msg("order items saved without catalog product")
	}
	js.metrics.SetUnlinked(gauge)
	js.metrics.IncSuccess(UnlinkedItemsReportJob)

	js.logger.Info().
		Str("job", UnlinkedItemsReportJob).
		Int("tenants", len(counts)).
		Int("unlinked_items", total).
		Msg("unlinked items report completed")
	return nil
}

// JobNames lists the registered jobs
func (js *JobScheduler) JobNames() []string {
	js.mu.RLock()
	defer js.mu.RUnlock()

	names := make([]string, 0, len(js.jobs))
	for name := range js.jobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
