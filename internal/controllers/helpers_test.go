package controllers

import (
	"net/http"
	"net/http/httptest"
	"runboard/internal/leaderboard"
	"runboard/internal/services"
	"runboard/internal/storage"
	"runboard/internal/structures"
	"runboard/internal/testutil"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type testDeps struct {
	session  services.RunSessionServiceInterface
	settings *services.SettingsProvider
	entries  *leaderboard.EntryCache
	logger   *testutil.MockLogger
}

func newTestDeps(t *testing.T) *testDeps {
	t.Helper()
	conf := &structures.Config{Run: structures.RunConfig{StageSeconds: 360, InvulnerabilitySeconds: 1, StartingHearts: 3, MaxHearts: 3}}
	logger := &testutil.MockLogger{}
	metrics := testutil.NewMockMetrics()
	blobs := storage.NewMemoryBlobStore()
	codec := storage.NewCodec(&testutil.MockCompressor{})
	settings := services.NewSettingsProvider(conf)

	core := services.NewRunCore(conf, nil, logger)
	snaps := leaderboard.NewSnapshotStore(blobs, codec, services.NewRunSource(core), logger, metrics)
	engine := leaderboard.NewEngine(leaderboard.NewStatTargetTable(), leaderboard.NewRecordStore(blobs, codec, logger), snaps, settings, logger, metrics)
	entries := leaderboard.NewEntryCache(testutil.NewMockCache(), logger)

	return &testDeps{
		session:  services.NewRunSessionService(core, engine, entries, logger, metrics),
		settings: settings,
		entries:  entries,
		logger:   logger,
	}
}

func do(t *testing.T, h http.HandlerFunc, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	rr := httptest.NewRecorder()
	h(rr, req)
	require.NotZero(t, rr.Code)
	return rr
}
