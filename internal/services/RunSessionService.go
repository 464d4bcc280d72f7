package services

import (
	"errors"
	"runboard/internal/leaderboard"
	"runboard/internal/leaderboard/interfaces"
	"runboard/internal/models"
	"runboard/internal/providers"
	"runboard/internal/rating"
	"runboard/internal/run"
	"runboard/internal/structures"
	"sync"
)

var (
	ErrNoActiveRun = errors.New("no active run")
	ErrBadEvent    = errors.New("bad event")
)

const (
	FinishDeath   = "death"
	FinishVictory = "victory"
	FinishAbandon = "abandon"
)

type RunSessionServiceInterface interface {
	StartRun(req StartRunRequest) (run.View, error)
	ApplyEvent(ev Event) (EventResult, error)
	Tick(dt float64) error
	CompleteStage() (StageResult, error)
	FinishRun(reason string) (FinishResult, error)
	State() (SessionState, error)
	Active() bool
	BountyEntries(category models.RunCategory) []leaderboard.Entry
	SpeedRunEntries(category models.RunCategory, stage int) []leaderboard.Entry
	Snapshot(category models.RunCategory) (*models.RunSummarySnapshot, error)
	EditProofOfRun(category models.RunCategory, url string) error
	ConfirmProofOfRun(category models.RunCategory) error
	Account() models.AccountRestrictionRecord
	SubmitAppeal(message, evidenceURL string) (bool, error)
	WaitIdle()
}

type StartRunRequest struct {
	Difficulty string      `json:"difficulty"`
	Party      string      `json:"party"`
	Loadout    run.Loadout `json:"loadout"`
}

type SessionState struct {
	Run          run.View `json:"run"`
	SkillRating  int      `json:"skillRating"`
	LuckRating   float64  `json:"luckRating"`
	LuckQuantity float64  `json:"luckQuantity"`
	LuckQuality  float64  `json:"luckQuality"`
	BountyTarget int64    `json:"bountyTarget10"`
	StageTarget  float64  `json:"stageTarget10"`
	Cleared      []int    `json:"stagesCleared"`
}

type StageResult struct {
	Stage     int     `json:"stage"`
	Seconds   float64 `json:"seconds"`
	Submitted bool    `json:"submitted"`
	NewBest   bool    `json:"newBest"`
	Target10  float64 `json:"target10"`
	NextStage int     `json:"nextStage"`
}

type FinishResult struct {
	RunID      string              `json:"runId"`
	Reason     string              `json:"reason"`
	Bounty     int64               `json:"bounty"`
	Submitted  bool                `json:"submitted"`
	NewBest    bool                `json:"newBest"`
	Target10   int64               `json:"target10"`
	Cleared    []int               `json:"stagesCleared"`
	BestStages []int               `json:"newBestStages"`
	Entries    []leaderboard.Entry `json:"entries"`
}

// RunSessionService is the single logical update thread of the run core. The
// mutex serializes every call into the machine, the ratings and the stores.
type RunSessionService struct {
	mu      sync.Mutex
	active  bool
	machine *run.StateMachine
	skill   *rating.SkillRating
	luck    *rating.LuckTracker
	stages  *models.StageProgress
	engine  *leaderboard.Engine
	entries *leaderboard.EntryCache
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
}

// RunCore is the run-scoped state machine together with the ratings fed by it.
type RunCore struct {
	Machine *run.StateMachine
	Skill   *rating.SkillRating
	Luck    *rating.LuckTracker
}

// NewRunCore builds the machine with the skill rating attached.
func NewRunCore(conf *structures.Config, catalog *run.ItemCatalog, logger providers.Logger) *RunCore {
	machine := run.NewStateMachine(run.ConfigFrom(conf), catalog, logger)
	skill := rating.NewSkillRating()
	skill.Attach(machine)
	return &RunCore{Machine: machine, Skill: skill, Luck: rating.NewLuckTracker()}
}

// NewRunSource exposes the core to the snapshot store.
func NewRunSource(core *RunCore) interfaces.RunSourceInterface {
	return leaderboard.NewRunSource(core.Machine, core.Skill, core.Luck)
}

func NewRunSessionService(core *RunCore, engine *leaderboard.Engine, entries *leaderboard.EntryCache,
	logger providers.Logger, metrics providers.MetricsProviderInterface) RunSessionServiceInterface {
	return &RunSessionService{
		machine: core.Machine,
		skill:   core.Skill,
		luck:    core.Luck,
		stages:  models.NewStageProgress(),
		engine:  engine,
		entries: entries,
		logger:  logger,
		metrics: metrics,
	}
}

func (s *RunSessionService) StartRun(req StartRunRequest) (run.View, error) {
	category, err := models.NewRunCategory(req.Difficulty, req.Party)
	if err != nil {
		return run.View{}, errors.Join(ErrBadEvent, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active {
		s.logger.Infof(providers.TypeRun, "Run %s abandoned by a new start", s.machine.RunID())
		s.metrics.IncRunsFinished(FinishAbandon)
	}
	s.machine.ResetForNewRun(category, req.Loadout)
	s.luck.ResetForNewRun()
	s.stages.Reset()
	s.active = true
	return s.machine.State(), nil
}

func (s *RunSessionService) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

func (s *RunSessionService) ApplyEvent(ev Event) (EventResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return EventResult{}, ErrNoActiveRun
	}
	return s.apply(ev)
}

// Tick advances the run clock, the stage timer and the skill windows by dt seconds.
func (s *RunSessionService) Tick(dt float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return ErrNoActiveRun
	}
	s.machine.Tick(dt)
	s.skill.TickSkillRating(dt)
	return nil
}

// CompleteStage submits the stage clear time and moves the run to the next
// stage with boss and timer reset.
func (s *RunSessionService) CompleteStage() (StageResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return StageResult{}, ErrNoActiveRun
	}
	category := s.machine.Category()
	stage := s.machine.Stage()
	res := StageResult{
		Stage:    stage,
		Seconds:  s.machine.StageElapsed(),
		Target10: s.engine.GetSpeedRunTarget10(category, stage),
	}
	res.Submitted = s.engine.SubmitStageSpeedRunTime(category, stage, res.Seconds)
	res.NewBest = res.Submitted && s.engine.LastSubmissionWasNewBest()
	s.stages.MarkCleared(stage, res.NewBest)
	if res.NewBest {
		s.refresh(leaderboard.EntriesKey(leaderboard.BoardSpeedrun, category, stage), func() []leaderboard.Entry {
			return s.engine.BuildSpeedRunEntries(category, stage)
		})
	}

	s.machine.SetBossInactive()
	s.machine.ResetStageTimer()
	s.machine.SetCurrentStage(stage + 1)
	res.NextStage = s.machine.Stage()
	return res, nil
}

// FinishRun submits the run's bounty and closes the run.
func (s *RunSessionService) FinishRun(reason string) (FinishResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return FinishResult{}, ErrNoActiveRun
	}
	switch reason {
	case FinishDeath, FinishVictory, FinishAbandon:
	default:
		if s.machine.IsDead() {
			reason = FinishDeath
		} else {
			reason = FinishVictory
		}
	}
	category := s.machine.Category()
	res := FinishResult{
		RunID:      s.machine.RunID(),
		Reason:     reason,
		Bounty:     s.machine.Bounty(),
		Target10:   s.engine.GetBountyTarget10(category),
		Cleared:    s.stages.ClearedStages(),
		BestStages: s.stages.NewBestStages(),
	}
	if reason != FinishAbandon {
		res.Submitted = s.engine.SubmitRunBounty(category, res.Bounty)
		res.NewBest = res.Submitted && s.engine.LastSubmissionWasNewBest()
	}
	res.Entries = s.engine.BuildBountyEntries(category)
	if res.NewBest {
		s.refresh(leaderboard.EntriesKey(leaderboard.BoardBounty, category, 0), func() []leaderboard.Entry {
			return s.engine.BuildBountyEntries(category)
		})
	}

	s.machine.SetStageTimerActive(false)
	s.active = false
	s.metrics.IncRunsFinished(reason)
	s.logger.Infof(providers.TypeRun, "Run %s finished (%s) with bounty %d", res.RunID, reason, res.Bounty)
	return res, nil
}

// refresh drops a stale view and rebuilds it in the background. It is called
// with s.mu held; the rebuild takes the lock once the caller releases it.
func (s *RunSessionService) refresh(key string, build func() []leaderboard.Entry) {
	s.entries.Invalidate(key)
	s.entries.Request(key, func() ([]leaderboard.Entry, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		return build(), nil
	})
}

// WaitIdle blocks until background leaderboard rebuilds have finished. It must
// not be called with s.mu held.
func (s *RunSessionService) WaitIdle() {
	s.entries.Wait()
}

func (s *RunSessionService) State() (SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return SessionState{}, ErrNoActiveRun
	}
	category := s.machine.Category()
	return SessionState{
		Run:          s.machine.State(),
		SkillRating:  s.skill.Rating(),
		LuckRating:   s.luck.LuckRating(),
		LuckQuantity: s.luck.LuckQuantity(),
		LuckQuality:  s.luck.LuckQuality(),
		BountyTarget: s.engine.GetBountyTarget10(category),
		StageTarget:  s.engine.GetSpeedRunTarget10(category, s.machine.Stage()),
		Cleared:      s.stages.ClearedStages(),
	}, nil
}

func (s *RunSessionService) cachedEntries(key string, build func() []leaderboard.Entry) []leaderboard.Entry {
	if entries, ok := s.entries.Get(key); ok {
		return entries
	}
	s.mu.Lock()
	entries := build()
	s.mu.Unlock()
	s.entries.Set(key, entries)
	return entries
}

func (s *RunSessionService) BountyEntries(category models.RunCategory) []leaderboard.Entry {
	return s.cachedEntries(leaderboard.EntriesKey(leaderboard.BoardBounty, category, 0), func() []leaderboard.Entry {
		return s.engine.BuildBountyEntries(category)
	})
}

func (s *RunSessionService) SpeedRunEntries(category models.RunCategory, stage int) []leaderboard.Entry {
	return s.cachedEntries(leaderboard.EntriesKey(leaderboard.BoardSpeedrun, category, stage), func() []leaderboard.Entry {
		return s.engine.BuildSpeedRunEntries(category, stage)
	})
}

func (s *RunSessionService) Snapshot(category models.RunCategory) (*models.RunSummarySnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Snapshots().Load(category)
}

func (s *RunSessionService) EditProofOfRun(category models.RunCategory, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Snapshots().EditProofOfRunURL(category, url)
}

func (s *RunSessionService) ConfirmProofOfRun(category models.RunCategory) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Snapshots().ConfirmProofOfRun(category)
}

func (s *RunSessionService) Account() models.AccountRestrictionRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Records().AccountRestriction()
}

func (s *RunSessionService) SubmitAppeal(message, evidenceURL string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Records().SubmitAppeal(message, evidenceURL)
}
