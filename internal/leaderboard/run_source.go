package leaderboard

import (
	"runboard/internal/models"
	"runboard/internal/rating"
	"runboard/internal/run"
)

// RunSource captures a snapshot body straight from the live run and its ratings.
type RunSource struct {
	Machine *run.StateMachine
	Skill   *rating.SkillRating
	Luck    *rating.LuckTracker
}

func NewRunSource(machine *run.StateMachine, skill *rating.SkillRating, luck *rating.LuckTracker) *RunSource {
	return &RunSource{Machine: machine, Skill: skill, Luck: luck}
}

func (r *RunSource) CaptureRunSummary() models.RunSummarySnapshot {
	m := r.Machine
	loadout := m.Loadout()
	idols := m.Idols()
	snap := models.RunSummarySnapshot{
		RunID:             m.RunID(),
		StageReached:      m.Stage(),
		HeroID:            loadout.HeroID,
		HeroBodyType:      loadout.HeroBodyType,
		CompanionID:       loadout.CompanionID,
		CompanionBodyType: loadout.CompanionBodyType,
		StatValues:        m.EffectiveStats(),
		LuckRating:        models.MissingRating,
		LuckQuantity:      models.MissingRating,
		LuckQuality:       models.MissingRating,
		SkillRating:       models.MissingRating,
		EquippedIdols:     idols[:],
		Inventory:         m.Inventory(),
		EventLog:          m.EventLog(),
	}
	if r.Luck != nil {
		snap.LuckRating = r.Luck.LuckRating()
		snap.LuckQuantity = r.Luck.LuckQuantity()
		snap.LuckQuality = r.Luck.LuckQuality()
	}
	if r.Skill != nil {
		snap.SkillRating = float64(r.Skill.Rating())
	}
	return snap
}
