package run

import (
	"fmt"
	"math"
	"runboard/internal/models"
	"runboard/internal/providers"
	"runboard/internal/structures"

	"github.com/google/uuid"
)

const IdolSlots = 3

type Config struct {
	StageSeconds           float64
	InvulnerabilitySeconds float64
	StartingHearts         int
	MaxHearts              int
}

func ConfigFrom(conf *structures.Config) Config {
	return Config{
		StageSeconds:           conf.Run.StageSeconds,
		InvulnerabilitySeconds: conf.Run.InvulnerabilitySeconds,
		StartingHearts:         conf.Run.StartingHearts,
		MaxHearts:              conf.Run.MaxHearts,
	}
}

type BossState struct {
	Active    bool    `json:"active"`
	ID        string  `json:"id,omitempty"`
	CurrentHP float64 `json:"currentHp"`
	MaxHP     float64 `json:"maxHp"`
}

// StateMachine is the authoritative run-scoped state. It is owned by one
// logical update thread and is not safe for concurrent use.
type StateMachine struct {
	cfg     Config
	catalog *ItemCatalog
	logger  providers.Logger

	runID    string
	category models.RunCategory
	loadout  Loadout

	clock          float64
	lastDamageAt   float64
	hasTakenDamage bool

	hearts    int
	maxHearts int
	gold      int64
	debt      int64
	bounty    int64

	skulls float64
	tier   int

	stage               int
	timerActive         bool
	timerRemaining      float64
	lastNotifiedSeconds int

	boss BossState

	inventory []string
	idols     [IdolSlots]string
	derived   DerivedStats

	eventLog      *Ring[string]
	structuredLog *Ring[EventEntry]

	observers      []observerEntry
	nextObserverID int
	pending        []Change
	dispatching    bool
}

func NewStateMachine(cfg Config, catalog *ItemCatalog, logger providers.Logger) *StateMachine {
	if cfg.MaxHearts < 1 {
		cfg.MaxHearts = 1
	}
	cfg.StartingHearts = min(max(cfg.StartingHearts, 1), cfg.MaxHearts)
	if cfg.StageSeconds <= 0 {
		cfg.StageSeconds = 360
	}
	cfg.InvulnerabilitySeconds = math.Max(0, cfg.InvulnerabilitySeconds)
	if catalog == nil {
		catalog = DefaultItemCatalog()
	}
	m := &StateMachine{
		cfg:           cfg,
		catalog:       catalog,
		logger:        logger,
		eventLog:      NewRing[string](MaxEventLog),
		structuredLog: NewRing[EventEntry](MaxStructuredEventLog),
	}
	m.reset(models.RunCategory{}, Loadout{})
	return m
}

func (m *StateMachine) reset(category models.RunCategory, loadout Loadout) {
	m.runID = uuid.NewString()
	m.category = category
	m.loadout = loadout.withDefaults()
	m.clock = 0
	m.lastDamageAt = 0
	m.hasTakenDamage = false
	m.maxHearts = m.cfg.MaxHearts
	m.hearts = m.cfg.StartingHearts
	m.gold, m.debt, m.bounty = 0, 0, 0
	m.skulls, m.tier = 0, 0
	m.stage = models.MinStage
	m.timerActive = false
	m.timerRemaining = m.cfg.StageSeconds
	m.lastNotifiedSeconds = int(math.Ceil(m.timerRemaining))
	m.boss = BossState{}
	m.inventory = make([]string, 0, MaxInventory)
	m.idols = [IdolSlots]string{}
	m.eventLog.Clear()
	m.structuredLog.Clear()
	m.RecomputeItemDerivedStats()
}

// ResetForNewRun puts every run-scoped field back to its starting value.
func (m *StateMachine) ResetForNewRun(category models.RunCategory, loadout Loadout) {
	m.reset(category, loadout)
	m.record(ChangeRunReset, 0, fmt.Sprintf("run %s started (%s, hero %s)", m.runID, category.Key(), m.loadout.HeroID))
	m.logger.Infof(providers.TypeRun, "Run %s started in %s", m.runID, category.Key())
	m.emit(Change{Kind: ChangeRunReset})
}

func (m *StateMachine) record(kind ChangeKind, value float64, detail string) {
	m.eventLog.Push(fmt.Sprintf("[s%02d %7.2fs] %s", m.stage, m.clock, detail))
	m.structuredLog.Push(EventEntry{Kind: kind.String(), Stage: m.stage, Clock: m.clock, Value: value, Detail: detail})
}

// LogEvent appends a free-form provenance entry.
func (m *StateMachine) LogEvent(detail string) {
	m.eventLog.Push(fmt.Sprintf("[s%02d %7.2fs] %s", m.stage, m.clock, detail))
	m.structuredLog.Push(EventEntry{Kind: "note", Stage: m.stage, Clock: m.clock, Detail: detail})
}

// Tick advances the run clock, which drives the invulnerability window, and
// then the stage timer.
func (m *StateMachine) Tick(dt float64) {
	if !(dt > 0) || math.IsInf(dt, 1) {
		return
	}
	m.clock += dt
	m.TickStageTimer(dt)
}

// --- hearts ---

func (m *StateMachine) IsInvulnerable() bool {
	return m.hasTakenDamage && m.clock-m.lastDamageAt < m.cfg.InvulnerabilitySeconds
}

// ApplyDamage returns false when the hit is absorbed by the invulnerability
// window, the amount is not positive, or the hero is already dead.
func (m *StateMachine) ApplyDamage(hearts int) bool {
	if hearts <= 0 || m.hearts == 0 || m.IsInvulnerable() {
		return false
	}
	m.hearts = max(m.hearts-hearts, 0)
	m.lastDamageAt = m.clock
	m.hasTakenDamage = true
	m.record(ChangeDamageTaken, float64(hearts), fmt.Sprintf("took %d damage, %d/%d hearts", hearts, m.hearts, m.maxHearts))

	changes := []Change{
		{Kind: ChangeDamageTaken, Value: float64(hearts)},
		{Kind: ChangeHearts, Value: float64(m.hearts)},
	}
	if m.hearts == 0 {
		m.record(ChangeDied, 0, "hero died")
		m.logger.Infof(providers.TypeRun, "Run %s: hero died on stage %d", m.runID, m.stage)
		changes = append(changes, Change{Kind: ChangeDied})
	}
	m.emit(changes...)
	return true
}

func (m *StateMachine) Heal(hearts int) {
	if hearts <= 0 || m.hearts == 0 || m.hearts == m.maxHearts {
		return
	}
	m.hearts = min(m.hearts+hearts, m.maxHearts)
	m.record(ChangeHearts, float64(m.hearts), fmt.Sprintf("healed to %d/%d hearts", m.hearts, m.maxHearts))
	m.emit(Change{Kind: ChangeHearts, Value: float64(m.hearts)})
}

func (m *StateMachine) SetMaxHearts(n int) {
	n = max(n, 0)
	if n == m.maxHearts {
		return
	}
	wasAlive := m.hearts > 0
	m.maxHearts = n
	m.hearts = min(m.hearts, n)
	m.record(ChangeHearts, float64(m.hearts), fmt.Sprintf("max hearts set to %d", n))
	changes := []Change{{Kind: ChangeHearts, Value: float64(m.hearts)}}
	if wasAlive && m.hearts == 0 {
		m.record(ChangeDied, 0, "hero died")
		m.logger.Infof(providers.TypeRun, "Run %s: hero died on stage %d", m.runID, m.stage)
		changes = append(changes, Change{Kind: ChangeDied})
	}
	m.emit(changes...)
}

func (m *StateMachine) IsDead() bool { return m.hearts == 0 }

// --- economy ---

// AddGold saturates at math.MaxInt64.
func (m *StateMachine) AddGold(amount int64) {
	amount = min(amount, math.MaxInt64-m.gold)
	if amount <= 0 {
		return
	}
	m.gold += amount
	m.record(ChangeGold, float64(m.gold), fmt.Sprintf("gained %d gold", amount))
	m.emit(Change{Kind: ChangeGold, Value: float64(m.gold)})
}

func (m *StateMachine) TrySpendGold(amount int64) bool {
	if amount < 0 || amount > m.gold {
		return false
	}
	if amount == 0 {
		return true
	}
	m.gold -= amount
	m.record(ChangeGold, float64(m.gold), fmt.Sprintf("spent %d gold", amount))
	m.emit(Change{Kind: ChangeGold, Value: float64(m.gold)})
	return true
}

// BorrowGold adds the same amount to gold and debt. There is no credit limit
// beyond the int64 headroom of both counters.
func (m *StateMachine) BorrowGold(amount int64) {
	amount = min(amount, math.MaxInt64-m.gold, math.MaxInt64-m.debt)
	if amount <= 0 {
		return
	}
	m.gold += amount
	m.debt += amount
	m.record(ChangeDebt, float64(m.debt), fmt.Sprintf("borrowed %d gold", amount))
	m.emit(
		Change{Kind: ChangeGold, Value: float64(m.gold)},
		Change{Kind: ChangeDebt, Value: float64(m.debt)},
	)
}

// PayDebt pays min(amount, gold, debt) and returns what was actually paid.
func (m *StateMachine) PayDebt(amount int64) int64 {
	paid := min(max(amount, 0), m.gold, m.debt)
	if paid == 0 {
		return 0
	}
	m.gold -= paid
	m.debt -= paid
	m.record(ChangeDebt, float64(m.debt), fmt.Sprintf("paid %d debt", paid))
	m.emit(
		Change{Kind: ChangeGold, Value: float64(m.gold)},
		Change{Kind: ChangeDebt, Value: float64(m.debt)},
	)
	return paid
}

func (m *StateMachine) AddBounty(amount int64) {
	amount = min(amount, math.MaxInt64-m.bounty)
	if amount <= 0 {
		return
	}
	m.bounty += amount
	m.record(ChangeBounty, float64(m.bounty), fmt.Sprintf("earned %d bounty", amount))
	m.emit(Change{Kind: ChangeBounty, Value: float64(m.bounty)})
}

// --- stage & timer ---

// SetCurrentStage clamps n to [1,66]. Boss and timer resets belong to the
// stage-gate caller.
func (m *StateMachine) SetCurrentStage(n int) {
	n = models.ClampStage(n)
	if n == m.stage {
		return
	}
	m.stage = n
	m.record(ChangeStage, float64(n), fmt.Sprintf("entered stage %d", n))
	m.emit(Change{Kind: ChangeStage, Value: float64(n)})
}

func (m *StateMachine) SetStageTimerActive(active bool) {
	if active == m.timerActive {
		return
	}
	m.timerActive = active
	state := "paused"
	if active {
		state = "started"
	}
	m.record(ChangeTimerActive, m.timerRemaining, "stage timer "+state)
	m.emit(Change{Kind: ChangeTimerActive, Value: m.timerRemaining, Flag: active})
}

// ResetStageTimer refills the timer and stops it.
func (m *StateMachine) ResetStageTimer() {
	wasActive := m.timerActive
	m.timerActive = false
	m.timerRemaining = m.cfg.StageSeconds
	m.lastNotifiedSeconds = int(math.Ceil(m.timerRemaining))
	m.record(ChangeTimer, m.timerRemaining, "stage timer reset")
	changes := []Change{{Kind: ChangeTimer, Value: m.timerRemaining}}
	if wasActive {
		changes = append(changes, Change{Kind: ChangeTimerActive, Value: m.timerRemaining, Flag: false})
	}
	m.emit(changes...)
}

// TickStageTimer counts down only while the timer is active. Observers hear
// about it at most once per whole second crossed.
func (m *StateMachine) TickStageTimer(dt float64) {
	if !m.timerActive || !(dt > 0) || m.timerRemaining == 0 {
		return
	}
	m.timerRemaining = math.Max(0, m.timerRemaining-dt)
	whole := int(math.Ceil(m.timerRemaining))
	if whole == m.lastNotifiedSeconds {
		return
	}
	m.lastNotifiedSeconds = whole
	if m.timerRemaining == 0 {
		m.record(ChangeTimer, 0, "stage timer expired")
	}
	m.emit(Change{Kind: ChangeTimer, Value: m.timerRemaining})
}

func (m *StateMachine) StageElapsed() float64 {
	return m.cfg.StageSeconds - m.timerRemaining
}

// --- boss ---

func (m *StateMachine) SetBossActive(id string, maxHP float64) {
	if !(maxHP > 0) {
		maxHP = 1
	}
	m.boss = BossState{Active: true, ID: id, CurrentHP: maxHP, MaxHP: maxHP}
	m.record(ChangeBoss, maxHP, fmt.Sprintf("boss %s engaged (%.0f hp)", id, maxHP))
	m.emit(Change{Kind: ChangeBoss, Value: maxHP})
}

// ApplyBossDamage reports defeated only on the hit that brings HP to zero.
// The boss stays active at zero HP until SetBossInactive.
func (m *StateMachine) ApplyBossDamage(amount float64) (remaining float64, defeated bool) {
	if !m.boss.Active || !(amount > 0) || m.boss.CurrentHP == 0 {
		return m.boss.CurrentHP, false
	}
	m.boss.CurrentHP = math.Max(0, m.boss.CurrentHP-amount)
	changes := []Change{{Kind: ChangeBoss, Value: m.boss.CurrentHP}}
	if m.boss.CurrentHP == 0 {
		defeated = true
		m.record(ChangeBossDefeated, 0, fmt.Sprintf("boss %s defeated", m.boss.ID))
		changes = append(changes, Change{Kind: ChangeBossDefeated})
	}
	m.emit(changes...)
	return m.boss.CurrentHP, defeated
}

func (m *StateMachine) SetBossInactive() {
	if !m.boss.Active {
		return
	}
	m.record(ChangeBoss, m.boss.CurrentHP, fmt.Sprintf("boss %s cleared", m.boss.ID))
	m.boss = BossState{}
	m.emit(Change{Kind: ChangeBoss})
}

// --- difficulty ---

// AddDifficultySkulls only ever raises the skull count.
func (m *StateMachine) AddDifficultySkulls(delta float64) {
	if !(delta > 0) || math.IsInf(delta, 1) {
		return
	}
	m.skulls += delta
	tier := int(math.Floor(m.skulls))
	if tier != m.tier {
		m.record(ChangeSkulls, m.skulls, fmt.Sprintf("difficulty tier %d", tier))
	}
	m.tier = tier
	m.emit(Change{Kind: ChangeSkulls, Value: m.skulls})
}

// --- idols ---

func (m *StateMachine) EquipIdolInSlot(slot int, id string) bool {
	if slot < 0 || slot >= IdolSlots || id == "" || m.idols[slot] == id {
		return false
	}
	m.idols[slot] = id
	m.record(ChangeIdols, float64(slot), fmt.Sprintf("equipped idol %s in slot %d", id, slot))
	m.emit(Change{Kind: ChangeIdols, Value: float64(slot)})
	return true
}

func (m *StateMachine) EquipIdolFirstEmpty(id string) bool {
	for slot, held := range m.idols {
		if held == "" {
			return m.EquipIdolInSlot(slot, id)
		}
	}
	return false
}

func (m *StateMachine) UnequipIdol(slot int) bool {
	if slot < 0 || slot >= IdolSlots || m.idols[slot] == "" {
		return false
	}
	m.record(ChangeIdols, float64(slot), fmt.Sprintf("removed idol %s from slot %d", m.idols[slot], slot))
	m.idols[slot] = ""
	m.emit(Change{Kind: ChangeIdols, Value: float64(slot)})
	return true
}

// --- inventory ---

func (m *StateMachine) AddItem(id string) bool {
	if len(m.inventory) >= MaxInventory {
		return false
	}
	if _, ok := m.catalog.Lookup(id); !ok {
		return false
	}
	m.inventory = append(m.inventory, id)
	m.inventoryChanged("picked up " + id)
	return true
}

func (m *StateMachine) RemoveItemAt(index int) bool {
	if index < 0 || index >= len(m.inventory) {
		return false
	}
	id := m.inventory[index]
	m.inventory = append(m.inventory[:index], m.inventory[index+1:]...)
	m.inventoryChanged("dropped " + id)
	return true
}

func (m *StateMachine) inventoryChanged(detail string) {
	m.RecomputeItemDerivedStats()
	m.record(ChangeInventory, float64(len(m.inventory)), detail)
	m.emit(Change{Kind: ChangeInventory, Value: float64(len(m.inventory))})
}

// RecomputeItemDerivedStats is a pure function of the inventory and safe to
// call at any time.
func (m *StateMachine) RecomputeItemDerivedStats() {
	m.derived = ComputeDerivedStats(m.inventory, m.catalog)
}

// --- accessors ---

func (m *StateMachine) RunID() string                { return m.runID }
func (m *StateMachine) Category() models.RunCategory { return m.category }
func (m *StateMachine) Loadout() Loadout             { return m.loadout }
func (m *StateMachine) Clock() float64               { return m.clock }
func (m *StateMachine) Hearts() int                  { return m.hearts }
func (m *StateMachine) MaxHearts() int               { return m.maxHearts }
func (m *StateMachine) Gold() int64                  { return m.gold }
func (m *StateMachine) Debt() int64                  { return m.debt }
func (m *StateMachine) Bounty() int64                { return m.bounty }
func (m *StateMachine) Skulls() float64              { return m.skulls }
func (m *StateMachine) DifficultyTier() int          { return m.tier }
func (m *StateMachine) Stage() int                   { return m.stage }
func (m *StateMachine) StageTimerActive() bool       { return m.timerActive }
func (m *StateMachine) StageTimerRemaining() float64 { return m.timerRemaining }
func (m *StateMachine) StageTimerDuration() float64  { return m.cfg.StageSeconds }
func (m *StateMachine) Boss() BossState              { return m.boss }
func (m *StateMachine) Idols() [IdolSlots]string     { return m.idols }
func (m *StateMachine) Derived() DerivedStats        { return m.derived }

func (m *StateMachine) Inventory() []string {
	out := make([]string, len(m.inventory))
	copy(out, m.inventory)
	return out
}

func (m *StateMachine) EventLog() []string               { return m.eventLog.Items() }
func (m *StateMachine) StructuredEventLog() []EventEntry { return m.structuredLog.Items() }
