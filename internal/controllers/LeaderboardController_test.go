package controllers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type boardBody struct {
	Board    string `json:"board"`
	Category string `json:"category"`
	Stage    int    `json:"stage"`
	Entries  []struct {
		Rank        int     `json:"rank"`
		DisplayName string  `json:"displayName"`
		Value       float64 `json:"value"`
		IsLocal     bool    `json:"isLocal"`
	} `json:"entries"`
}

func TestLeaderboardController_Bounty(t *testing.T) {
	d := newTestDeps(t)
	lc := NewLeaderboardController(d.logger, d.session, d.settings)

	rr := do(t, lc.Bounty, http.MethodGet, "/leaderboard/bounty?difficulty=hard&party=duo", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var body boardBody
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "hard_duo", body.Category)
	require.Len(t, body.Entries, 11)
	assert.Equal(t, 11, body.Entries[10].Rank)
	assert.Equal(t, "YOU", body.Entries[10].DisplayName)
	assert.Equal(t, 1550.0, body.Entries[9].Value)
}

func TestLeaderboardController_SpeedRunStageParam(t *testing.T) {
	d := newTestDeps(t)
	lc := NewLeaderboardController(d.logger, d.session, d.settings)

	rr := do(t, lc.SpeedRun, http.MethodGet, "/leaderboard/speedrun?difficulty=easy&party=solo&stage=90", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var body boardBody
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, 66, body.Stage)

	assert.Equal(t, http.StatusBadRequest, do(t, lc.SpeedRun, http.MethodGet, "/leaderboard/speedrun?difficulty=easy&party=solo&stage=x", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, lc.Bounty, http.MethodGet, "/leaderboard/bounty?difficulty=easy", "").Code)
}

func TestLeaderboardController_Settings(t *testing.T) {
	d := newTestDeps(t)
	lc := NewLeaderboardController(d.logger, d.session, d.settings)

	rr := do(t, lc.UpdateSettings, http.MethodPost, "/settings", `{"practiceMode":true}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, d.settings.PracticeMode())
	assert.False(t, d.settings.Anonymous())

	do(t, lc.UpdateSettings, http.MethodPost, "/settings?anonymous=true&practiceMode=0", "")
	assert.True(t, d.settings.Anonymous())
	assert.False(t, d.settings.PracticeMode())

	rr = do(t, lc.GetSettings, http.MethodGet, "/settings", "")
	assert.JSONEq(t, `{"practiceMode":false,"anonymous":true}`, rr.Body.String())
}
