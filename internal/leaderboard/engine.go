package leaderboard

import (
	"fmt"
	"math"
	"runboard/internal/leaderboard/interfaces"
	"runboard/internal/models"
	"runboard/internal/providers"
)

const (
	TopEntries       = 10
	LocalRank        = TopEntries + 1
	NameYou          = "YOU"
	NameAnonymous    = "ANONYMOUS"
	bountyTopBonus   = 1.0
	speedrunTopShave = 0.4
)

const (
	OutcomeAccepted = "accepted"
	OutcomeNewBest  = "new_best"
	OutcomeBlocked  = "blocked"
	OutcomeRejected = "rejected"
	OutcomeRepaired = "repaired"
)

var syntheticNames = [TopEntries]string{
	"VESPER", "KORRIN", "ASHLOCK", "MIREL", "TALLOW",
	"BRANDT", "QUILL", "SORREL", "NYX", "HOLLOWAY",
}

type Entry struct {
	Rank        int     `json:"rank"`
	DisplayName string  `json:"displayName"`
	Value       float64 `json:"value"`
	IsLocal     bool    `json:"isLocal"`
	// Unset marks a local speedrun row without a recorded time.
	Unset bool `json:"unset,omitempty"`
}

// Engine owns submission upserts and the Top 10 + You views.
type Engine struct {
	targets   *StatTargetTable
	records   *RecordStore
	snapshots *SnapshotStore
	settings  interfaces.SettingsProviderInterface
	logger    providers.Logger
	metrics   providers.MetricsProviderInterface

	lastNewBest bool
}

func NewEngine(targets *StatTargetTable, records *RecordStore, snapshots *SnapshotStore,
	settings interfaces.SettingsProviderInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) *Engine {
	return &Engine{
		targets:   targets,
		records:   records,
		snapshots: snapshots,
		settings:  settings,
		logger:    logger,
		metrics:   metrics,
	}
}

func (e *Engine) Records() *RecordStore     { return e.records }
func (e *Engine) Snapshots() *SnapshotStore { return e.snapshots }

func (e *Engine) GetBountyTarget10(category models.RunCategory) int64 {
	return e.targets.BountyTarget10(category)
}

func (e *Engine) GetSpeedRunTarget10(category models.RunCategory, stage int) float64 {
	return e.targets.SpeedRunTarget10(category, stage)
}

// LastSubmissionWasNewBest reports whether the latest Submit call improved a
// record. The Submit return value only says the call was processed.
func (e *Engine) LastSubmissionWasNewBest() bool { return e.lastNewBest }

// SubmitRunBounty returns false only when practice mode blocks the call.
func (e *Engine) SubmitRunBounty(category models.RunCategory, bounty int64) bool {
	e.lastNewBest = false
	if e.settings.PracticeMode() {
		e.metrics.IncSubmissions(BoardBounty, OutcomeBlocked)
		e.logger.Debugf(providers.TypeLeaderboard, "Bounty %d for %s blocked by practice mode", bounty, category.Key())
		return false
	}
	bounty = max(bounty, 0)
	e.metrics.IncSubmissions(BoardBounty, OutcomeAccepted)

	improved, err := e.records.UpsertBounty(category, bounty, e.settings.Anonymous())
	if err != nil {
		e.logger.Errorf(providers.TypeLeaderboard, "Bounty record for %s kept in memory only: %v", category.Key(), err)
	}
	if improved {
		e.lastNewBest = true
		e.metrics.IncSubmissions(BoardBounty, OutcomeNewBest)
		e.logger.Infof(providers.TypeLeaderboard, "New best bounty %d for %s", bounty, category.Key())
		e.captureSnapshot(category, bounty)
		return true
	}

	// Records written before snapshots existed have no summary to open. An
	// exact repeat of the best fills the gap; anything lower never does.
	if rec, ok := e.records.BountyRecord(category); ok && bounty == rec.BestBounty && !e.snapshots.HasSnapshot(category) {
		e.metrics.IncSubmissions(BoardBounty, OutcomeRepaired)
		e.logger.Infof(providers.TypeLeaderboard, "Capturing missing run summary for %s best %d", category.Key(), bounty)
		e.captureSnapshot(category, bounty)
	}
	return true
}

func (e *Engine) captureSnapshot(category models.RunCategory, bounty int64) {
	if _, err := e.snapshots.SaveSnapshot(category, bounty); err != nil {
		e.logger.Errorf(providers.TypeLeaderboard, "Run summary for %s not captured: %v", category.Key(), err)
	}
}

// SubmitStageSpeedRunTime returns false when practice mode blocks the call or
// seconds is not a positive time.
func (e *Engine) SubmitStageSpeedRunTime(category models.RunCategory, stage int, seconds float64) bool {
	e.lastNewBest = false
	if e.settings.PracticeMode() {
		e.metrics.IncSubmissions(BoardSpeedrun, OutcomeBlocked)
		e.logger.Debugf(providers.TypeLeaderboard, "Stage %d time for %s blocked by practice mode", stage, category.Key())
		return false
	}
	if !(seconds > 0) || math.IsInf(seconds, 1) {
		e.metrics.IncSubmissions(BoardSpeedrun, OutcomeRejected)
		return false
	}
	stage = models.ClampStage(stage)
	e.metrics.IncSubmissions(BoardSpeedrun, OutcomeAccepted)

	improved, err := e.records.UpsertSpeedrun(category, stage, seconds, e.settings.Anonymous())
	if err != nil {
		e.logger.Errorf(providers.TypeLeaderboard, "Speedrun record for %s kept in memory only: %v", category.StageKey(stage), err)
	}
	if improved {
		e.lastNewBest = true
		e.metrics.IncSubmissions(BoardSpeedrun, OutcomeNewBest)
		e.logger.Infof(providers.TypeLeaderboard, "New best time %.2fs for %s", seconds, category.StageKey(stage))
	}
	return true
}

func (e *Engine) localName(recorded bool, anonymous bool) string {
	if !recorded {
		anonymous = e.settings.Anonymous()
	}
	if anonymous {
		return NameAnonymous
	}
	return NameYou
}

// BuildBountyEntries returns ranks 1-10, plus the local row at rank 11 when it
// does not beat the 10th place value.
func (e *Engine) BuildBountyEntries(category models.RunCategory) []Entry {
	target := float64(e.GetBountyTarget10(category))
	entries := make([]Entry, TopEntries)
	for i := range entries {
		rank := i + 1
		mult := 1 + bountyTopBonus*float64(TopEntries-rank)/float64(TopEntries-1)
		entries[i] = Entry{Rank: rank, DisplayName: syntheticNames[i], Value: math.Round(target * mult)}
	}

	rec, ok := e.records.BountyRecord(category)
	local := Entry{DisplayName: e.localName(ok, rec.SubmittedAnonymous), Value: float64(rec.BestBounty), IsLocal: true}
	return merge(entries, local, func(a, b float64) bool { return a > b })
}

// BuildSpeedRunEntries is BuildBountyEntries for stage times, where lower wins.
func (e *Engine) BuildSpeedRunEntries(category models.RunCategory, stage int) []Entry {
	stage = models.ClampStage(stage)
	target := e.GetSpeedRunTarget10(category, stage)
	entries := make([]Entry, TopEntries)
	for i := range entries {
		rank := i + 1
		mult := 1 - speedrunTopShave*float64(TopEntries-rank)/float64(TopEntries-1)
		entries[i] = Entry{Rank: rank, DisplayName: syntheticNames[i], Value: math.Round(target*mult*100) / 100}
	}

	rec, ok := e.records.SpeedrunRecord(category, stage)
	local := Entry{DisplayName: e.localName(ok, rec.SubmittedAnonymous), IsLocal: true}
	if !rec.IsSet() {
		local.Unset = true
		local.Rank = LocalRank
		return append(entries, local)
	}
	local.Value = rec.BestSeconds
	return merge(entries, local, func(a, b float64) bool { return a < b })
}

// merge inserts local before the first entry it strictly beats. Ties keep the
// incumbent in place.
func merge(entries []Entry, local Entry, better func(a, b float64) bool) []Entry {
	at := -1
	for i, en := range entries {
		if better(local.Value, en.Value) {
			at = i
			break
		}
	}
	if at < 0 {
		local.Rank = LocalRank
		return append(entries, local)
	}
	merged := make([]Entry, 0, TopEntries+1)
	merged = append(merged, entries[:at]...)
	merged = append(merged, local)
	merged = append(merged, entries[at:]...)
	merged = merged[:TopEntries]
	for i := range merged {
		merged[i].Rank = i + 1
	}
	return merged
}

// EntriesKey names one leaderboard view in the entry cache.
func EntriesKey(board string, category models.RunCategory, stage int) string {
	if board == BoardSpeedrun {
		return fmt.Sprintf("%s:%s", board, category.StageKey(models.ClampStage(stage)))
	}
	return fmt.Sprintf("%s:%s", board, category.Key())
}
