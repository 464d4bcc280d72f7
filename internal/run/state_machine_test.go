package run

import (
	"math"
	"runboard/internal/models"
	"runboard/internal/testutil"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{
		StageSeconds:           360,
		InvulnerabilitySeconds: 1.0,
		StartingHearts:         3,
		MaxHearts:              5,
	}
}

func newMachine() *StateMachine {
	m := NewStateMachine(testConfig(), DefaultItemCatalog(), &testutil.MockLogger{})
	m.ResetForNewRun(models.RunCategory{Difficulty: models.DifficultyEasy, PartySize: models.PartySolo}, Loadout{HeroID: "knight"})
	return m
}

type recorder struct {
	changes []Change
}

func (r *recorder) observe(c Change) { r.changes = append(r.changes, c) }

func (r *recorder) kinds() []ChangeKind {
	out := make([]ChangeKind, len(r.changes))
	for i, c := range r.changes {
		out[i] = c.Kind
	}
	return out
}

func (r *recorder) count(kind ChangeKind) int {
	n := 0
	for _, c := range r.changes {
		if c.Kind == kind {
			n++
		}
	}
	return n
}

func TestResetForNewRun_Defaults(t *testing.T) {
	m := newMachine()
	assert.NotEmpty(t, m.RunID())
	assert.Equal(t, 3, m.Hearts())
	assert.Equal(t, 5, m.MaxHearts())
	assert.Equal(t, 1, m.Stage())
	assert.False(t, m.StageTimerActive())
	assert.Equal(t, 360.0, m.StageTimerRemaining())
	assert.Equal(t, NeutralDerivedStats(), m.Derived())
	assert.Equal(t, DefaultBaseStats(), m.Loadout().BaseStats)
	assert.Equal(t, "easy_solo", m.Category().Key())
}

func TestResetForNewRun_NewRunID(t *testing.T) {
	m := newMachine()
	first := m.RunID()
	m.AddGold(10)
	m.ResetForNewRun(m.Category(), Loadout{})
	assert.NotEqual(t, first, m.RunID())
	assert.Equal(t, int64(0), m.Gold())
	assert.Len(t, m.EventLog(), 1, "only the run-start entry survives a reset")
}

func TestApplyDamage_InvulnerabilityWindow(t *testing.T) {
	m := newMachine()
	require.True(t, m.ApplyDamage(1))
	assert.Equal(t, 2, m.Hearts())
	assert.True(t, m.IsInvulnerable())

	assert.False(t, m.ApplyDamage(1), "second hit inside the window is absorbed")
	assert.Equal(t, 2, m.Hearts())

	m.Tick(0.5)
	assert.False(t, m.ApplyDamage(1))

	m.Tick(0.5)
	assert.True(t, m.ApplyDamage(1))
	assert.Equal(t, 1, m.Hearts())
}

func TestApplyDamage_DeathNotification(t *testing.T) {
	m := newMachine()
	rec := &recorder{}
	m.Subscribe(rec.observe)

	require.True(t, m.ApplyDamage(10))
	assert.Equal(t, 0, m.Hearts(), "hearts clamp at zero")
	assert.True(t, m.IsDead())
	assert.Equal(t, []ChangeKind{ChangeDamageTaken, ChangeHearts, ChangeDied}, rec.kinds())

	m.Tick(5)
	assert.False(t, m.ApplyDamage(1), "no damage after death")
	assert.Equal(t, 1, rec.count(ChangeDied))
}

func TestApplyDamage_NonPositive(t *testing.T) {
	m := newMachine()
	assert.False(t, m.ApplyDamage(0))
	assert.False(t, m.ApplyDamage(-2))
	assert.Equal(t, 3, m.Hearts())
	assert.False(t, m.IsInvulnerable())
}

func TestHealAndMaxHearts(t *testing.T) {
	m := newMachine()
	m.Heal(10)
	assert.Equal(t, 5, m.Hearts(), "heal clamps at max")

	m.SetMaxHearts(2)
	assert.Equal(t, 2, m.Hearts())
	m.SetMaxHearts(-1)
	assert.Equal(t, 0, m.MaxHearts())
	assert.Equal(t, 0, m.Hearts())
}

func TestGold_BorrowAndPayDebt(t *testing.T) {
	m := newMachine()

	m.BorrowGold(200)
	assert.Equal(t, int64(200), m.Gold())
	assert.Equal(t, int64(200), m.Debt())

	assert.Equal(t, int64(150), m.PayDebt(150))
	assert.Equal(t, int64(50), m.Gold())
	assert.Equal(t, int64(50), m.Debt())

	assert.Equal(t, int64(50), m.PayDebt(1000), "payment clamps to what is owed")
	assert.Equal(t, int64(0), m.Gold())
	assert.Equal(t, int64(0), m.Debt())
}

func TestPayDebt_LimitedByGold(t *testing.T) {
	m := newMachine()
	m.BorrowGold(100)
	require.True(t, m.TrySpendGold(80))
	assert.Equal(t, int64(20), m.PayDebt(100))
	assert.Equal(t, int64(0), m.Gold())
	assert.Equal(t, int64(80), m.Debt())
	assert.Equal(t, int64(0), m.PayDebt(-5))
}

func TestGold_SpendAndClamp(t *testing.T) {
	m := newMachine()
	m.AddGold(-50)
	assert.Equal(t, int64(0), m.Gold())

	m.AddGold(30)
	assert.False(t, m.TrySpendGold(31))
	assert.False(t, m.TrySpendGold(-1))
	assert.True(t, m.TrySpendGold(0))
	assert.True(t, m.TrySpendGold(30))
	assert.Equal(t, int64(0), m.Gold())
}

func TestBounty(t *testing.T) {
	m := newMachine()
	m.AddBounty(250)
	m.AddBounty(-100)
	assert.Equal(t, int64(250), m.Bounty())
}

func TestSetCurrentStage_Clamps(t *testing.T) {
	m := newMachine()
	m.SetCurrentStage(100)
	assert.Equal(t, 66, m.Stage())
	m.SetCurrentStage(-3)
	assert.Equal(t, 1, m.Stage())
}

func TestSetCurrentStage_DoesNotResetBossOrTimer(t *testing.T) {
	m := newMachine()
	m.SetBossActive("warden", 100)
	m.SetStageTimerActive(true)
	m.TickStageTimer(10)

	m.SetCurrentStage(2)
	assert.True(t, m.Boss().Active)
	assert.True(t, m.StageTimerActive())
	assert.Equal(t, 350.0, m.StageTimerRemaining())
}

func TestStageTimer_FrozenWhileInactive(t *testing.T) {
	m := newMachine()
	m.ResetStageTimer()
	m.TickStageTimer(5.0)
	assert.Equal(t, 360.0, m.StageTimerRemaining())

	m.SetStageTimerActive(true)
	m.TickStageTimer(5.0)
	assert.Equal(t, 355.0, m.StageTimerRemaining())
	assert.Equal(t, 5.0, m.StageElapsed())
}

func TestStageTimer_FloorsAtZero(t *testing.T) {
	m := newMachine()
	m.SetStageTimerActive(true)
	m.TickStageTimer(1000)
	assert.Equal(t, 0.0, m.StageTimerRemaining())
	m.TickStageTimer(1)
	assert.Equal(t, 0.0, m.StageTimerRemaining())
}

func TestStageTimer_NotificationThrottledPerSecond(t *testing.T) {
	m := newMachine()
	m.SetStageTimerActive(true)
	rec := &recorder{}
	m.Subscribe(rec.observe)

	for i := 0; i < 64; i++ {
		m.TickStageTimer(1.0 / 64.0)
	}
	assert.Equal(t, 1, rec.count(ChangeTimer), "one notification for one whole second crossed")

	m.TickStageTimer(2.5)
	assert.Equal(t, 2, rec.count(ChangeTimer), "a large step still emits once")
}

func TestStageTimer_ActiveToggleNotifiesOnce(t *testing.T) {
	m := newMachine()
	rec := &recorder{}
	m.Subscribe(rec.observe)

	m.SetStageTimerActive(true)
	m.SetStageTimerActive(true)
	m.SetStageTimerActive(false)
	require.Equal(t, 2, rec.count(ChangeTimerActive))
	assert.True(t, rec.changes[0].Flag)
	assert.False(t, rec.changes[1].Flag)
}

func TestTick_IgnoresBadDelta(t *testing.T) {
	m := newMachine()
	m.SetStageTimerActive(true)
	m.Tick(-1)
	m.Tick(0)
	assert.Equal(t, 0.0, m.Clock())
	assert.Equal(t, 360.0, m.StageTimerRemaining())
}

func TestBoss_DamageAndDefeat(t *testing.T) {
	m := newMachine()
	rec := &recorder{}
	m.Subscribe(rec.observe)

	remaining, defeated := m.ApplyBossDamage(10)
	assert.False(t, defeated, "no boss yet")
	assert.Equal(t, 0.0, remaining)

	m.SetBossActive("warden", 100)
	remaining, defeated = m.ApplyBossDamage(40)
	assert.Equal(t, 60.0, remaining)
	assert.False(t, defeated)

	remaining, defeated = m.ApplyBossDamage(500)
	assert.Equal(t, 0.0, remaining)
	assert.True(t, defeated)
	assert.True(t, m.Boss().Active)

	_, defeated = m.ApplyBossDamage(5)
	assert.False(t, defeated, "defeat fires once")
	assert.Equal(t, 1, rec.count(ChangeBossDefeated))

	m.SetBossInactive()
	assert.Equal(t, BossState{}, m.Boss())
}

func TestBoss_HPInvariant(t *testing.T) {
	m := newMachine()
	m.SetBossActive("x", -5)
	assert.Equal(t, 1.0, m.Boss().MaxHP)
	assert.LessOrEqual(t, m.Boss().CurrentHP, m.Boss().MaxHP)
}

func TestDifficultySkulls_NeverDecrease(t *testing.T) {
	m := newMachine()
	m.AddDifficultySkulls(0.6)
	assert.Equal(t, 0, m.DifficultyTier())
	m.AddDifficultySkulls(0.6)
	assert.InDelta(t, 1.2, m.Skulls(), 1e-9)
	assert.Equal(t, 1, m.DifficultyTier())

	m.AddDifficultySkulls(-5)
	assert.InDelta(t, 1.2, m.Skulls(), 1e-9)
	assert.Equal(t, 1, m.DifficultyTier())

	m.AddDifficultySkulls(3.0)
	assert.Equal(t, 4, m.DifficultyTier())
}

func TestIdols_EquipRules(t *testing.T) {
	m := newMachine()
	rec := &recorder{}
	m.Subscribe(rec.observe)

	assert.True(t, m.EquipIdolInSlot(1, "ember"))
	assert.False(t, m.EquipIdolInSlot(1, "ember"), "same id in same slot is a no-op")
	assert.Equal(t, 1, rec.count(ChangeIdols))

	assert.False(t, m.EquipIdolInSlot(3, "ember"))
	assert.False(t, m.EquipIdolInSlot(-1, "ember"))

	assert.True(t, m.EquipIdolFirstEmpty("ember"), "duplicates allowed")
	assert.True(t, m.EquipIdolFirstEmpty("frost"))
	assert.False(t, m.EquipIdolFirstEmpty("storm"), "all slots full")
	assert.Equal(t, [IdolSlots]string{"ember", "ember", "frost"}, m.Idols())

	assert.True(t, m.UnequipIdol(0))
	assert.False(t, m.UnequipIdol(0))
	assert.True(t, m.EquipIdolFirstEmpty("storm"))
	assert.Equal(t, "storm", m.Idols()[0])
}

func TestInventory_LimitAndDerivedStats(t *testing.T) {
	m := newMachine()
	require.True(t, m.AddItem("whetstone"))
	assert.InDelta(t, 1.10, m.Derived().DamageMultiplier, 1e-9)

	assert.False(t, m.AddItem("no_such_item"))
	for i := 0; i < 4; i++ {
		require.True(t, m.AddItem("whetstone"))
	}
	assert.False(t, m.AddItem("whetstone"), "inventory holds five items")
	assert.Len(t, m.Inventory(), MaxInventory)
	assert.InDelta(t, 1.50, m.Derived().DamageMultiplier, 1e-9)

	require.True(t, m.RemoveItemAt(0))
	assert.InDelta(t, 1.40, m.Derived().DamageMultiplier, 1e-9)
	assert.False(t, m.RemoveItemAt(9))
}

func TestRecomputeItemDerivedStats_Idempotent(t *testing.T) {
	m := newMachine()
	m.AddItem("giant_belt")
	m.AddItem("feather_boots")

	m.RecomputeItemDerivedStats()
	first := m.Derived()
	m.RecomputeItemDerivedStats()
	assert.Equal(t, first, m.Derived())
}

func TestEffectiveStats(t *testing.T) {
	m := newMachine()
	m.AddItem("war_drum")
	stats := m.EffectiveStats()
	assert.Equal(t, 5.0, stats[StatHealth])
	assert.InDelta(t, 1.12, stats[StatAttackSpeed], 1e-9)
	assert.Equal(t, 1.0, stats[StatMoveSpeed])
}

func TestNotifications_AfterMutation(t *testing.T) {
	m := newMachine()
	var seenGold, seenDebt int64
	m.Subscribe(func(c Change) {
		if c.Kind == ChangeGold {
			seenGold, seenDebt = m.Gold(), m.Debt()
		}
	})
	m.BorrowGold(70)
	assert.Equal(t, int64(70), seenGold)
	assert.Equal(t, int64(70), seenDebt, "debt is already updated when the gold notification fires")
}

func TestNotifications_ReentrantMutationQueued(t *testing.T) {
	m := newMachine()
	var order []ChangeKind
	m.Subscribe(func(c Change) {
		order = append(order, c.Kind)
		if c.Kind == ChangeStage {
			m.AddGold(5)
			order = append(order, ChangeKind(-1))
		}
	})
	m.SetCurrentStage(2)
	assert.Equal(t, []ChangeKind{ChangeStage, ChangeKind(-1), ChangeGold}, order)
}

func TestSubscribe_Unsubscribe(t *testing.T) {
	m := newMachine()
	rec := &recorder{}
	unsubscribe := m.Subscribe(rec.observe)
	m.AddGold(1)
	unsubscribe()
	m.AddGold(1)
	assert.Len(t, rec.changes, 1)
}

func TestSetMaxHearts_ZeroKills(t *testing.T) {
	m := newMachine()
	rec := &recorder{}
	m.Subscribe(rec.observe)

	m.SetMaxHearts(0)
	assert.True(t, m.IsDead())
	assert.Equal(t, []ChangeKind{ChangeHearts, ChangeDied}, rec.kinds())
	last := m.StructuredEventLog()[len(m.StructuredEventLog())-1]
	assert.Equal(t, ChangeDied.String(), last.Kind)

	m.SetMaxHearts(-3)
	m.SetMaxHearts(2)
	assert.Equal(t, 1, rec.count(ChangeDied), "already dead, no second death")
}

func TestEconomy_SaturatesAtMaxInt64(t *testing.T) {
	m := newMachine()
	m.AddGold(math.MaxInt64)
	m.AddGold(1)
	assert.Equal(t, int64(math.MaxInt64), m.Gold())

	m.AddBounty(math.MaxInt64)
	m.AddBounty(10)
	assert.Equal(t, int64(math.MaxInt64), m.Bounty())

	b := newMachine()
	b.BorrowGold(math.MaxInt64)
	b.BorrowGold(10)
	assert.Equal(t, int64(math.MaxInt64), b.Gold())
	assert.Equal(t, int64(math.MaxInt64), b.Debt())

	c := newMachine()
	c.AddGold(100)
	c.BorrowGold(math.MaxInt64)
	assert.Equal(t, int64(math.MaxInt64), c.Gold())
	assert.Equal(t, int64(math.MaxInt64-100), c.Debt(), "borrow bounded by gold headroom")
}

func TestResetsAreLogged(t *testing.T) {
	m := newMachine()
	m.SetStageTimerActive(true)
	m.ResetStageTimer()
	last := m.StructuredEventLog()[len(m.StructuredEventLog())-1]
	assert.Equal(t, ChangeTimer.String(), last.Kind)
	assert.Equal(t, 360.0, last.Value)

	m.SetBossActive("warden", 50)
	m.SetBossInactive()
	last = m.StructuredEventLog()[len(m.StructuredEventLog())-1]
	assert.Equal(t, ChangeBoss.String(), last.Kind)
	assert.Contains(t, last.Detail, "warden")
}

func TestEventLog_Bounded(t *testing.T) {
	m := newMachine()
	for i := 0; i < 1000; i++ {
		m.AddGold(1)
	}
	assert.Len(t, m.EventLog(), MaxEventLog)
	assert.Len(t, m.StructuredEventLog(), MaxStructuredEventLog)
	last := m.StructuredEventLog()[MaxStructuredEventLog-1]
	assert.Equal(t, "gold", last.Kind)
	assert.Equal(t, 1000.0, last.Value)
}

func TestState_View(t *testing.T) {
	m := newMachine()
	m.AddItem("whetstone")
	m.EquipIdolInSlot(2, "ember")
	v := m.State()
	assert.Equal(t, m.RunID(), v.RunID)
	assert.Equal(t, "easy_solo", v.Category)
	assert.Equal(t, []string{"whetstone"}, v.Inventory)
	assert.Equal(t, "ember", v.EquippedIdols[2])
	assert.Equal(t, "knight", v.Loadout.HeroID)
}
