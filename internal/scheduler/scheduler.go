package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/i474232898/weather-globe/internal/weather"
)

// ErrPassRunning is returned when a pass is requested while another one is
// still fetching.
var ErrPassRunning = errors.New("weather pass already running")

// Updater runs one fetch pass over a list of cities.
type Updater interface {
	Update(ctx context.Context, locs []weather.Location) (weather.UpdateResult, error)
}

// Scheduler fetches weather for the configured cities: once at start, then
// every interval when one is set.
type Scheduler struct {
	scheduler *gocron.Scheduler
	updater   Updater
	locations []weather.Location
	interval  time.Duration
	timeout   time.Duration
	logger    *zap.Logger

	// pass is held for the whole of every pass, scheduled or manual, so at
	// most one fetch sequence reaches the provider at a time.
	pass sync.Mutex
	wg   sync.WaitGroup

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a new Scheduler. timeout bounds one whole pass; zero means none.
func New(locations []weather.Location, interval, timeout time.Duration, updater Updater, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := gocron.NewScheduler(time.UTC)
	// A slow pass must not pile up behind itself.
	s.SingletonModeAll()

	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		scheduler: s,
		updater:   updater,
		locations: locations,
		interval:  interval,
		timeout:   timeout,
		logger:    logger,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start schedules the job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	if len(s.locations) == 0 {
		s.logger.Info("scheduler: no cities configured; nothing to schedule")
		return nil
	}

	if s.interval <= 0 {
		_, err := s.scheduler.Every(1).Day().LimitRunsTo(1).StartImmediately().Do(s.run)
		if err != nil {
			return err
		}
	} else {
		_, err := s.scheduler.Every(s.interval).StartImmediately().Do(s.run)
		if err != nil {
			return err
		}
	}

	s.scheduler.StartAsync()
	return nil
}

// RunNow performs one pass synchronously, outside the schedule. It returns
// ErrPassRunning instead of waiting when a pass is already in flight.
func (s *Scheduler) RunNow(ctx context.Context) (weather.UpdateResult, error) {
	if !s.pass.TryLock() {
		return weather.UpdateResult{}, ErrPassRunning
	}
	defer s.pass.Unlock()
	return s.update(ctx)
}

// Trigger starts one pass in the background and returns at once. The pass
// runs until it completes or Stop is called.
func (s *Scheduler) Trigger() error {
	if err := s.ctx.Err(); err != nil {
		return err
	}
	if !s.pass.TryLock() {
		return ErrPassRunning
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.pass.Unlock()
		s.logger.Info("scheduler: running requested weather fetch", zap.Int("cities", len(s.locations)))
		s.report(s.update(s.ctx))
	}()
	return nil
}

// run is the gocron job. It waits for a manual pass rather than skipping.
func (s *Scheduler) run() {
	s.pass.Lock()
	defer s.pass.Unlock()

	s.logger.Info("scheduler: running weather fetch job", zap.Int("cities", len(s.locations)))
	s.report(s.update(s.ctx))
}

func (s *Scheduler) update(ctx context.Context) (weather.UpdateResult, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	return s.updater.Update(ctx, s.locations)
}

func (s *Scheduler) report(res weather.UpdateResult, err error) {
	if err != nil {
		s.logger.Warn("scheduler: weather fetch job aborted", zap.Error(err))
		return
	}
	s.logger.Info("scheduler: completed weather fetch job",
		zap.Int("updated", len(res.Updated)),
		zap.Int("failed", len(res.Failed)))
}

// Stop cancels an in-flight pass and any future jobs.
func (s *Scheduler) Stop() {
	s.cancel()
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
	s.wg.Wait()
}
