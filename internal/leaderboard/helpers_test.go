package leaderboard

import (
	"runboard/internal/models"
	"runboard/internal/rating"
	"runboard/internal/run"
	"runboard/internal/storage"
	"runboard/internal/testutil"
	"testing"
)

type fakeSettings struct {
	practice  bool
	anonymous bool
}

func (f *fakeSettings) PracticeMode() bool { return f.practice }
func (f *fakeSettings) Anonymous() bool    { return f.anonymous }

type fixture struct {
	blobs    *storage.MemoryBlobStore
	codec    *storage.Codec
	logger   *testutil.MockLogger
	metrics  *testutil.MockMetrics
	settings *fakeSettings
	machine  *run.StateMachine
	skill    *rating.SkillRating
	luck     *rating.LuckTracker
	records  *RecordStore
	snaps    *SnapshotStore
	engine   *Engine
}

var easySolo = models.RunCategory{Difficulty: models.DifficultyEasy, PartySize: models.PartySolo}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		blobs:    storage.NewMemoryBlobStore(),
		codec:    storage.NewCodec(&testutil.MockCompressor{}),
		logger:   &testutil.MockLogger{},
		metrics:  testutil.NewMockMetrics(),
		settings: &fakeSettings{},
		skill:    rating.NewSkillRating(),
		luck:     rating.NewLuckTracker(),
	}
	f.machine = run.NewStateMachine(run.Config{StageSeconds: 360, InvulnerabilitySeconds: 1, StartingHearts: 3, MaxHearts: 3},
		run.DefaultItemCatalog(), f.logger)
	f.machine.ResetForNewRun(easySolo, run.Loadout{HeroID: "knight", CompanionID: "owl"})
	f.records = NewRecordStore(f.blobs, f.codec, f.logger)
	f.snaps = NewSnapshotStore(f.blobs, f.codec, NewRunSource(f.machine, f.skill, f.luck), f.logger, f.metrics)
	f.engine = NewEngine(NewStatTargetTable(), f.records, f.snaps, f.settings, f.logger, f.metrics)
	return f
}

// reopen simulates a new process over the same blobs.
func (f *fixture) reopen() {
	f.records = NewRecordStore(f.blobs, f.codec, f.logger)
	f.engine = NewEngine(NewStatTargetTable(), f.records, f.snaps, f.settings, f.logger, f.metrics)
}
