package background

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

// Loader is anything whose in-memory mirror can be rebuilt from the store
type Loader interface {
	Load(ctx context.Context) error
}

// JobScheduler periodically resyncs service mirrors so writes made by
// other processes become visible within one interval.
type JobScheduler struct {
	scheduler gocron.Scheduler
	loaders   map[string]Loader
	interval  time.Duration
	logger    *zap.SugaredLogger
	jobs      map[string]gocron.Job
	mu        sync.RWMutex
}

// NewJobScheduler creates a scheduler refreshing each named loader every interval
func NewJobScheduler(interval time.Duration, loaders map[string]Loader, lg *zap.SugaredLogger) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	js := &JobScheduler{
		scheduler: scheduler,
		loaders:   loaders,
		interval:  interval,
		logger:    lg,
		jobs:      make(map[string]gocron.Job),
	}

	if err := js.registerJobs(); err != nil {
		return nil, err
	}
	return js, nil
}

func (js *JobScheduler) Start() {
	js.logger.Infow("starting background job scheduler", "interval", js.interval, "mirrors", len(js.loaders))
	js.scheduler.Start()
}

func (js *JobScheduler) Stop() error {
	js.logger.Info("stopping background job scheduler")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) registerJobs() error {
	job, err := js.scheduler.NewJob(
		gocron.DurationJob(js.interval),
		gocron.NewTask(js.RefreshMirrors, context.Background()),
		gocron.WithName("mirror-resync"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("create mirror resync job: %w", err)
	}

	js.mu.Lock()
	js.jobs["mirror-resync"] = job
	js.mu.Unlock()
	return nil
}

// RefreshMirrors reloads every mirror concurrently. A failed load keeps the
// previous mirror state and is reported in the returned slice of names.
func (js *JobScheduler) RefreshMirrors(ctx context.Context) []string {
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		failed []string
	)
	semaphore := make(chan struct{}, 3)

	for name, loader := range js.loaders {
		wg.Add(1)
		go func(name string, loader Loader) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			start := time.Now()
			if err := loader.Load(ctx); err != nil {
				js.logger.Errorw("mirror resync failed", "mirror", name, "error", err)
				mu.Lock()
				failed = append(failed, name)
				mu.Unlock()
				return
			}
			js.logger.Debugw("mirror resynced", "mirror", name, "duration", time.Since(start))
		}(name, loader)
	}

	wg.Wait()
	sort.Strings(failed)
	return failed
}

// NextRun reports when the resync job fires next
func (js *JobScheduler) NextRun() (time.Time, error) {
	js.mu.RLock()
	job, ok := js.jobs["mirror-resync"]
	js.mu.RUnlock()
	if !ok {
		return time.Time{}, fmt.Errorf("mirror resync job not registered")
	}
	return job.NextRun()
}
