package scheduler

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// JobTasks are the periodic maintenance tasks wired in by the caller
type JobTasks struct {
	DailyIngestion func()
	InjuryRefresh  func()
	RankingsScrape func()
	GoldmineScan   func()
}

// Jobs runs the non-live periodic work on a cron scheduler
type Jobs struct {
	s      gocron.Scheduler
	tasks  JobTasks
	logger *slog.Logger
}

// NewJobs creates the job scheduler in US Eastern time, where the NFL
// schedule lives.
func NewJobs(tasks JobTasks, logger *slog.Logger) (*Jobs, error) {
	location, err := time.LoadLocation("America/New_York")
	if err != nil {
		return nil, fmt.Errorf("loading timezone: %w", err)
	}

	s, err := gocron.NewScheduler(
		gocron.WithLocation(location),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	return &Jobs{
		s:      s,
		tasks:  tasks,
		logger: logger.With("component", "jobs"),
	}, nil
}

// Start registers and starts all jobs
func (j *Jobs) Start() error {
	// Daily ingestion - 03:00, after west coast games settle
	if j.tasks.DailyIngestion != nil {
		_, err := j.s.NewJob(
			gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(3, 0, 0))),
			gocron.NewTask(j.tasks.DailyIngestion),
		)
		if err != nil {
			return fmt.Errorf("failed to create daily ingestion job: %w", err)
		}
	}

	// Injury refresh - 08:00 and 16:00, reports move twice a day in season
	if j.tasks.InjuryRefresh != nil {
		_, err := j.s.NewJob(
			gocron.DailyJob(1, gocron.NewAtTimes(
				gocron.NewAtTime(8, 0, 0),
				gocron.NewAtTime(16, 0, 0),
			)),
			gocron.NewTask(j.tasks.InjuryRefresh),
		)
		if err != nil {
			return fmt.Errorf("failed to create injury refresh job: %w", err)
		}
	}

	// Rankings scrape - Tuesday 09:00, after the weekly article publishes
	if j.tasks.RankingsScrape != nil {
		_, err := j.s.NewJob(
			gocron.WeeklyJob(1, gocron.NewWeekdays(time.Tuesday), gocron.NewAtTimes(gocron.NewAtTime(9, 0, 0))),
			gocron.NewTask(j.tasks.RankingsScrape),
		)
		if err != nil {
			return fmt.Errorf("failed to create rankings scrape job: %w", err)
		}
	}

	// Goldmine scan - 10:00 daily, lines are posted by mid-morning
	if j.tasks.GoldmineScan != nil {
		_, err := j.s.NewJob(
			gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(10, 0, 0))),
			gocron.NewTask(j.tasks.GoldmineScan),
		)
		if err != nil {
			return fmt.Errorf("failed to create goldmine scan job: %w", err)
		}
	}

	j.s.Start()
	j.logger.Info("periodic jobs started")
	return nil
}

// Stop shuts the job scheduler down
func (j *Jobs) Stop() error {
	return j.s.Shutdown()
}
