package services

import (
	"errors"
	"fmt"
	"math"
	"runboard/internal/rating"
	"runboard/internal/run"

	"github.com/spf13/cast"
)

var ErrUnknownEvent = errors.New("unknown event")

const (
	EventDamage         = "damage"
	EventHeal           = "heal"
	EventGold           = "gold"
	EventSpend          = "spend"
	EventBorrow         = "borrow"
	EventPayDebt        = "pay_debt"
	EventBounty         = "bounty"
	EventSkulls         = "skulls"
	EventStage          = "stage"
	EventTimerActive    = "timer_active"
	EventTimerReset     = "timer_reset"
	EventBossStart      = "boss_start"
	EventBossDamage     = "boss_damage"
	EventBossEnd        = "boss_end"
	EventIdolEquip      = "idol_equip"
	EventIdolEquipFirst = "idol_equip_first"
	EventIdolUnequip    = "idol_unequip"
	EventItemAdd        = "item_add"
	EventItemRemove     = "item_remove"
	EventLuckRoll       = "luck_roll"
	EventLog            = "log"
)

// Event is one gameplay input from the client. Amount is taken loosely so
// clients may send numbers or numeric strings.
type Event struct {
	Type    string              `json:"type"`
	Amount  interface{}         `json:"amount,omitempty"`
	Slot    int                 `json:"slot,omitempty"`
	ID      string              `json:"id,omitempty"`
	Active  bool                `json:"active,omitempty"`
	Message string              `json:"message,omitempty"`
	Roll    *rating.RollOutcome `json:"roll,omitempty"`
}

type EventResult struct {
	Applied bool     `json:"applied"`
	Value   float64  `json:"value"`
	State   run.View `json:"state"`
}

// apply runs one event against the machine. Only a malformed event is an
// error; rejected gameplay actions come back as Applied=false.
func (s *RunSessionService) apply(ev Event) (EventResult, error) {
	m := s.machine
	amount, err := cast.ToFloat64E(ev.Amount)
	if ev.Amount != nil && err != nil {
		return EventResult{}, fmt.Errorf("%w: amount %v", ErrBadEvent, ev.Amount)
	}

	res := EventResult{Applied: true}
	switch ev.Type {
	case EventDamage:
		res.Applied = m.ApplyDamage(toInt(amount))
		res.Value = float64(m.Hearts())
	case EventHeal:
		m.Heal(toInt(amount))
		res.Value = float64(m.Hearts())
	case EventGold:
		m.AddGold(toInt64(amount))
		res.Value = float64(m.Gold())
	case EventSpend:
		res.Applied = m.TrySpendGold(toInt64(amount))
		res.Value = float64(m.Gold())
	case EventBorrow:
		m.BorrowGold(toInt64(amount))
		res.Value = float64(m.Debt())
	case EventPayDebt:
		res.Value = float64(m.PayDebt(toInt64(amount)))
	case EventBounty:
		m.AddBounty(toInt64(amount))
		res.Value = float64(m.Bounty())
	case EventSkulls:
		m.AddDifficultySkulls(amount)
		res.Value = float64(m.DifficultyTier())
	case EventStage:
		m.SetCurrentStage(toInt(amount))
		res.Value = float64(m.Stage())
	case EventTimerActive:
		m.SetStageTimerActive(ev.Active)
		res.Value = m.StageTimerRemaining()
	case EventTimerReset:
		m.ResetStageTimer()
		res.Value = m.StageTimerRemaining()
	case EventBossStart:
		m.SetBossActive(ev.ID, amount)
		res.Value = m.Boss().CurrentHP
	case EventBossDamage:
		res.Value, res.Applied = m.ApplyBossDamage(amount)
	case EventBossEnd:
		m.SetBossInactive()
	case EventIdolEquip:
		res.Applied = m.EquipIdolInSlot(ev.Slot, ev.ID)
	case EventIdolEquipFirst:
		res.Applied = m.EquipIdolFirstEmpty(ev.ID)
	case EventIdolUnequip:
		res.Applied = m.UnequipIdol(ev.Slot)
	case EventItemAdd:
		res.Applied = m.AddItem(ev.ID)
	case EventItemRemove:
		res.Applied = m.RemoveItemAt(ev.Slot)
	case EventLuckRoll:
		if ev.Roll == nil {
			return EventResult{}, fmt.Errorf("%w: luck_roll without roll", ErrBadEvent)
		}
		res.Applied = s.luck.Record(*ev.Roll)
		res.Value = s.luck.LuckRating()
	case EventLog:
		m.LogEvent(ev.Message)
	default:
		return EventResult{}, fmt.Errorf("%w: %q", ErrUnknownEvent, ev.Type)
	}
	res.State = m.State()
	return res, nil
}

// toInt64 clamps f to the int64 range. NaN becomes 0.
func toInt64(f float64) int64 {
	switch {
	case math.IsNaN(f):
		return 0
	case f >= math.MaxInt64:
		return math.MaxInt64
	case f <= math.MinInt64:
		return math.MinInt64
	}
	return int64(f)
}

func toInt(f float64) int {
	return int(min(max(toInt64(f), math.MinInt), math.MaxInt))
}
