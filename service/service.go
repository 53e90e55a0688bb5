// Package service runs the full planning pipeline (parse, validate, compute,
// allocate) for the CLI and the HTTP front end.
package service

import (
	"agent-staffing/errors"
	"agent-staffing/metrics"
	"agent-staffing/models"
	"agent-staffing/parser"
	"agent-staffing/scheduler"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"
)

// Options tune a planning run.
type Options struct {
	// Utilization must be in (0,1]; 1.0 applies no derating.
	Utilization float64
	// Capacity caps agents per hour; 0 means unlimited.
	Capacity int
}

// DefaultOptions returns full utilization and no capacity cap.
func DefaultOptions() Options {
	return Options{Utilization: 1.0}
}

// Planner turns demand input into a staffing schedule. It holds no state
// between runs and is safe for concurrent use.
type Planner struct {
	logger *slog.Logger
}

// New returns a Planner that logs through logger (slog.Default when nil).
func New(logger *slog.Logger) *Planner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Planner{logger: logger}
}

// BuildFromFile opens path and runs Build on its contents. Failures to open or
// read the file are returned wrapped and never match errors.ErrValidation.
func (p *Planner) BuildFromFile(path string, opts Options) (*models.Schedule, error) {
	if err := checkOptions(opts); err != nil {
		metrics.SchedulerRunsTotal.WithLabelValues("invalid_input").Inc()
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		metrics.SchedulerRunsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}
	defer file.Close()

	return p.Build(file, opts)
}

// Build parses demand rows from r and computes the schedule.
func (p *Planner) Build(r io.Reader, opts Options) (*models.Schedule, error) {
	if err := checkOptions(opts); err != nil {
		metrics.SchedulerRunsTotal.WithLabelValues("invalid_input").Inc()
		return nil, err
	}

	parseStart := time.Now()
	demands, err := parser.Parse(r)
	metrics.ParserDurationSeconds.Observe(time.Since(parseStart).Seconds())
	if err != nil {
		if stderrors.Is(err, errors.ErrValidation) {
			metrics.ParserErrorsTotal.WithLabelValues(errors.Kind(err)).Inc()
			metrics.SchedulerRunsTotal.WithLabelValues("invalid_input").Inc()
		} else {
			metrics.SchedulerRunsTotal.WithLabelValues("error").Inc()
		}
		return nil, err
	}
	metrics.ParserRecordsTotal.Add(float64(len(demands)))

	schedule, err := p.Schedule(demands, opts)
	if err != nil {
		return nil, err
	}

	p.logger.Debug("schedule built",
		"demands", len(demands),
		"utilization", opts.Utilization,
		"capacity", opts.Capacity,
		"unmet_hours", len(schedule.UnmetDemands),
		"duration_ms", time.Since(parseStart).Milliseconds(),
	)
	return schedule, nil
}

// Schedule computes the schedule for already-validated demands.
func (p *Planner) Schedule(demands []models.Demand, opts Options) (*models.Schedule, error) {
	start := time.Now()
	schedule, err := scheduler.GenerateSchedule(demands, opts.Utilization, opts.Capacity)
	metrics.SchedulerDurationSeconds.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.SchedulerRunsTotal.WithLabelValues("invalid_input").Inc()
		return nil, err
	}

	metrics.SchedulerDemandsProcessed.Observe(float64(len(demands)))
	recordSchedule(schedule)
	metrics.SchedulerRunsTotal.WithLabelValues("success").Inc()
	return schedule, nil
}

func checkOptions(opts Options) error {
	if err := scheduler.ValidateUtilization(opts.Utilization); err != nil {
		return err
	}
	if opts.Capacity < 0 {
		return fmt.Errorf("%w: got %d", errors.ErrInvalidCapacity, opts.Capacity)
	}
	return nil
}

// recordSchedule publishes last-run gauges for a computed schedule.
func recordSchedule(schedule *models.Schedule) {
	metrics.ResetSchedulerGauges()

	demanded, peak, staffed := 0, 0, 0
	for h := 0; h < models.HoursPerDay; h++ {
		total := schedule.Grid.Total(h)
		if total > 0 {
			staffed++
		}
		peak = max(peak, total)
		demanded += total
	}

	unmetTotal := 0
	for _, unmet := range schedule.UnmetDemands {
		unmetTotal += unmet.UnmetAgents
		demanded += unmet.UnmetAgents
		for _, client := range unmet.ImpactedClients {
			metrics.ObserveUnmetPriority(client.Priority, client.UnmetAgents)
		}
	}

	metrics.AgentsDemandedTotal.Set(float64(demanded))
	metrics.PeakHourAgents.Set(float64(peak))
	metrics.HoursStaffed.Set(float64(staffed))
	metrics.AgentsUnmetTotal.Set(float64(unmetTotal))
	metrics.HoursWithUnmetDemand.Set(float64(len(schedule.UnmetDemands)))
}
