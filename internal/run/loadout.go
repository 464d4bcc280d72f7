package run

import "runboard/internal/models"

const (
	StatHealth = iota
	StatDamage
	StatAttackSpeed
	StatMoveSpeed
	StatDashCooldown
	StatRange
	StatLuck
	StatScale
)

var StatNames = [models.StatCount]string{
	"health", "damage", "attack_speed", "move_speed", "dash_cooldown", "range", "luck", "scale",
}

type Loadout struct {
	HeroID            string                    `json:"heroId"`
	HeroBodyType      string                    `json:"heroBodyType"`
	CompanionID       string                    `json:"companionId"`
	CompanionBodyType string                    `json:"companionBodyType"`
	BaseStats         [models.StatCount]float64 `json:"baseStats"`
}

// DefaultBaseStats is used when a loadout leaves every base stat at zero.
func DefaultBaseStats() [models.StatCount]float64 {
	return [models.StatCount]float64{1, 1, 1, 1, 1, 1, 1, 1}
}

func (l Loadout) withDefaults() Loadout {
	if l.BaseStats == ([models.StatCount]float64{}) {
		l.BaseStats = DefaultBaseStats()
	}
	return l
}

// EffectiveStats applies the derived item multipliers to the hero's base stats.
// Health reports max hearts.
func (m *StateMachine) EffectiveStats() [models.StatCount]float64 {
	s := m.loadout.BaseStats
	s[StatHealth] = float64(m.maxHearts)
	s[StatDamage] *= m.derived.DamageMultiplier
	s[StatAttackSpeed] *= m.derived.AttackSpeedMultiplier
	s[StatDashCooldown] *= m.derived.DashCooldownMultiplier
	s[StatScale] *= m.derived.ScaleMultiplier
	return s
}
