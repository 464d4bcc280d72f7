package run

import "runboard/internal/models"

// View is a read-only copy of the machine for transport and snapshots.
type View struct {
	RunID               string                    `json:"runId"`
	Category            string                    `json:"category"`
	Loadout             Loadout                   `json:"loadout"`
	Clock               float64                   `json:"clock"`
	Hearts              int                       `json:"hearts"`
	MaxHearts           int                       `json:"maxHearts"`
	Dead                bool                      `json:"dead"`
	Invulnerable        bool                      `json:"invulnerable"`
	Gold                int64                     `json:"gold"`
	Debt                int64                     `json:"debt"`
	Bounty              int64                     `json:"bounty"`
	DifficultySkulls    float64                   `json:"difficultySkulls"`
	DifficultyTier      int                       `json:"difficultyTier"`
	Stage               int                       `json:"stage"`
	StageTimerActive    bool                      `json:"stageTimerActive"`
	StageTimerRemaining float64                   `json:"stageTimerRemaining"`
	Boss                BossState                 `json:"boss"`
	EquippedIdols       [IdolSlots]string         `json:"equippedIdols"`
	Inventory           []string                  `json:"inventory"`
	Derived             DerivedStats              `json:"derived"`
	EffectiveStats      [models.StatCount]float64 `json:"effectiveStats"`
	EventLogSize        int                       `json:"eventLogSize"`
}

func (m *StateMachine) State() View {
	return View{
		RunID:               m.runID,
		Category:            m.category.Key(),
		Loadout:             m.loadout,
		Clock:               m.clock,
		Hearts:              m.hearts,
		MaxHearts:           m.maxHearts,
		Dead:                m.IsDead(),
		Invulnerable:        m.IsInvulnerable(),
		Gold:                m.gold,
		Debt:                m.debt,
		Bounty:              m.bounty,
		DifficultySkulls:    m.skulls,
		DifficultyTier:      m.tier,
		Stage:               m.stage,
		StageTimerActive:    m.timerActive,
		StageTimerRemaining: m.timerRemaining,
		Boss:                m.boss,
		EquippedIdols:       m.idols,
		Inventory:           m.Inventory(),
		Derived:             m.derived,
		EffectiveStats:      m.EffectiveStats(),
		EventLogSize:        m.eventLog.Len(),
	}
}
