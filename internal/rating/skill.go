package rating

import (
	"math"
	"runboard/internal/run"
)

const (
	SkillWindowSeconds = 5.0
	SkillInitialRating = 50
	SkillMinRating     = 0
	SkillMaxRating     = 100
)

// SkillRating scores the hero in fixed 5 second windows. It only moves on a
// window boundary and only while tracking is active.
type SkillRating struct {
	rating   int
	tracking bool
	elapsed  float64
	hits     int
}

func NewSkillRating() *SkillRating {
	s := &SkillRating{}
	s.ResetForNewRun()
	return s
}

func (s *SkillRating) ResetForNewRun() {
	s.rating = SkillInitialRating
	s.tracking = false
	s.clearWindow()
}

func (s *SkillRating) clearWindow() {
	s.elapsed = 0
	s.hits = 0
}

// SetTrackingActive discards the window in progress on every transition.
func (s *SkillRating) SetTrackingActive(active bool) {
	if active == s.tracking {
		return
	}
	s.tracking = active
	s.clearWindow()
}

func (s *SkillRating) NotifyDamageTaken() {
	if s.tracking {
		s.hits++
	}
}

func (s *SkillRating) TickSkillRating(dt float64) {
	if !s.tracking || !(dt > 0) || math.IsInf(dt, 1) {
		return
	}
	s.elapsed += dt
	for s.elapsed >= SkillWindowSeconds {
		s.elapsed -= SkillWindowSeconds
		s.rating = min(max(s.rating+WindowDelta(s.hits), SkillMinRating), SkillMaxRating)
		s.hits = 0
	}
}

// WindowDelta is the rating change for one closed window.
func WindowDelta(hits int) int {
	switch {
	case hits <= 0:
		return 1
	case hits == 1:
		return -1
	case hits == 2:
		return -5
	case hits == 3:
		return -10
	case hits == 4:
		return -20
	default:
		return -50
	}
}

func (s *SkillRating) Rating() int      { return s.rating }
func (s *SkillRating) Tracking() bool   { return s.tracking }
func (s *SkillRating) WindowHits() int  { return s.hits }
func (s *SkillRating) Elapsed() float64 { return s.elapsed }

// Attach mirrors the stage timer's active flag and the machine's damage
// events into the rating. The returned func detaches it.
func (s *SkillRating) Attach(m *run.StateMachine) (detach func()) {
	return m.Subscribe(func(c run.Change) {
		switch c.Kind {
		case run.ChangeTimerActive:
			s.SetTrackingActive(c.Flag)
		case run.ChangeDamageTaken:
			s.NotifyDamageTaken()
		case run.ChangeRunReset:
			s.ResetForNewRun()
		}
	})
}
