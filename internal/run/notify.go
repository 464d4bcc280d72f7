package run

type ChangeKind int

const (
	ChangeHearts ChangeKind = iota
	ChangeDied
	ChangeGold
	ChangeDebt
	ChangeBounty
	ChangeStage
	ChangeTimer
	ChangeTimerActive
	ChangeBoss
	ChangeBossDefeated
	ChangeSkulls
	ChangeIdols
	ChangeInventory
	ChangeDamageTaken
	ChangeRunReset
)

var changeNames = [...]string{
	"hearts", "died", "gold", "debt", "bounty", "stage", "timer", "timer_active",
	"boss", "boss_defeated", "skulls", "idols", "inventory", "damage_taken", "run_reset",
}

func (k ChangeKind) String() string {
	if k < 0 || int(k) >= len(changeNames) {
		return "unknown"
	}
	return changeNames[k]
}

// Change is delivered to observers after the state transition it describes has
// completed. Value carries the new numeric value where one applies; Flag carries
// the new boolean for ChangeTimerActive.
type Change struct {
	Kind  ChangeKind
	Value float64
	Flag  bool
}

type Observer func(Change)

type observerEntry struct {
	id int
	fn Observer
}

// Subscribe registers fn for every change. The returned func removes it.
func (m *StateMachine) Subscribe(fn Observer) (unsubscribe func()) {
	m.nextObserverID++
	id := m.nextObserverID
	m.observers = append(m.observers, observerEntry{id: id, fn: fn})
	return func() {
		for i, o := range m.observers {
			if o.id == id {
				m.observers = append(m.observers[:i:i], m.observers[i+1:]...)
				return
			}
		}
	}
}

// emit queues changes and drains the queue unless a dispatch is already in
// progress. A handler that mutates the machine therefore never observes a
// second notification while it is still running.
func (m *StateMachine) emit(changes ...Change) {
	m.pending = append(m.pending, changes...)
	if m.dispatching {
		return
	}
	m.dispatching = true
	defer func() { m.dispatching = false }()

	for len(m.pending) > 0 {
		c := m.pending[0]
		m.pending = m.pending[1:]
		observers := make([]observerEntry, len(m.observers))
		copy(observers, m.observers)
		for _, o := range observers {
			o.fn(c)
		}
	}
	m.pending = nil
}
