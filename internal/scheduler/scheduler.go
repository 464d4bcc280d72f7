package scheduler

import (
	"errors"
	"runboard/internal/providers"
	"runboard/internal/scheduler/interfaces"
	"runboard/internal/services"
	"runboard/internal/structures"
	"sync"
	"time"

	"github.com/roylee0704/gron"
)

// Scheduler drives the run clock for clients that do not tick themselves.
type Scheduler struct {
	config  *structures.Config
	logger  providers.Logger
	session services.RunSessionServiceInterface
	cron    *gron.Cron
	opsMu   sync.Mutex
}

// interval is the tick period rounded down to whole seconds, at least one.
func (s *Scheduler) interval() time.Duration {
	return max(s.config.Run.TickInterval.Truncate(time.Second), time.Second)
}

func (s *Scheduler) Init() {
	if !s.config.Run.AutoTick {
		s.logger.Infof(providers.TypeApp, "Run clock driven by client ticks")
		return
	}
	interval := s.interval()
	s.cron = gron.New()
	s.cron.AddFunc(gron.Every(interval), func() {
		s.tick(interval)
	})
	s.cron.Start()
	s.logger.Infof(providers.TypeApp, "Run clock ticking every %s", interval)
}

func (s *Scheduler) tick(interval time.Duration) {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	err := s.session.Tick(interval.Seconds())
	if err != nil && !errors.Is(err, services.ErrNoActiveRun) {
		s.logger.Errorf(providers.TypeRun, "Run clock tick failed: %s", err)
	}
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// Drain closes an active run as abandoned and waits for background leaderboard
// rebuilds so nothing is left half-open at shutdown.
func (s *Scheduler) Drain() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	defer s.session.WaitIdle()
	if !s.session.Active() {
		return nil
	}
	res, err := s.session.FinishRun(services.FinishAbandon)
	if err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while closing run: %s", err)
		return err
	}
	s.logger.Infof(providers.TypeApp, "Run %s abandoned at shutdown", res.RunID)
	return nil
}

func NewScheduler(config *structures.Config, logger providers.Logger, session services.RunSessionServiceInterface) interfaces.SchedulerInterface {
	return &Scheduler{
		config:  config,
		logger:  logger,
		session: session,
	}
}
