package controllers

import (
	"net/http"
	"runboard/internal/leaderboard"
	"runboard/internal/models"
	"runboard/internal/providers"
	"runboard/internal/services"

	"github.com/spf13/cast"
)

type LeaderboardController struct {
	logger   providers.Logger
	session  services.RunSessionServiceInterface
	settings *services.SettingsProvider
}

func NewLeaderboardController(logger providers.Logger, session services.RunSessionServiceInterface, settings *services.SettingsProvider) *LeaderboardController {
	return &LeaderboardController{
		logger:   logger,
		session:  session,
		settings: settings,
	}
}

type boardResponse struct {
	Board     string              `json:"board"`
	Category  string              `json:"category"`
	Stage     int                 `json:"stage,omitempty"`
	Entries   []leaderboard.Entry `json:"entries"`
	Anonymous bool                `json:"anonymous"`
	Practice  bool                `json:"practiceMode"`
}

func (lc *LeaderboardController) Bounty(w http.ResponseWriter, r *http.Request) {
	category, _, err := categoryFromQuery(r)
	if err != nil {
		writeError(w, r, lc.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, boardResponse{
		Board:     leaderboard.BoardBounty,
		Category:  category.Key(),
		Entries:   lc.session.BountyEntries(category),
		Anonymous: lc.settings.Anonymous(),
		Practice:  lc.settings.PracticeMode(),
	})
}

func (lc *LeaderboardController) SpeedRun(w http.ResponseWriter, r *http.Request) {
	category, stage, err := categoryFromQuery(r)
	if err != nil {
		writeError(w, r, lc.logger, err)
		return
	}
	stage = models.ClampStage(stage)
	writeJSON(w, http.StatusOK, boardResponse{
		Board:     leaderboard.BoardSpeedrun,
		Category:  category.Key(),
		Stage:     stage,
		Entries:   lc.session.SpeedRunEntries(category, stage),
		Anonymous: lc.settings.Anonymous(),
		Practice:  lc.settings.PracticeMode(),
	})
}

type settingsPayload struct {
	PracticeMode *bool `json:"practiceMode,omitempty"`
	Anonymous    *bool `json:"anonymous,omitempty"`
}

func (lc *LeaderboardController) GetSettings(w http.ResponseWriter, r *http.Request) {
	practice, anonymous := lc.settings.PracticeMode(), lc.settings.Anonymous()
	writeJSON(w, http.StatusOK, settingsPayload{PracticeMode: &practice, Anonymous: &anonymous})
}

// UpdateSettings accepts partial updates; a query form (?practiceMode=1) works too.
func (lc *LeaderboardController) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsPayload
	if r.ContentLength != 0 {
		if !decodeBody(w, r, &req) {
			return
		}
	} else {
		q := r.URL.Query()
		if raw := q.Get("practiceMode"); raw != "" {
			v := cast.ToBool(raw)
			req.PracticeMode = &v
		}
		if raw := q.Get("anonymous"); raw != "" {
			v := cast.ToBool(raw)
			req.Anonymous = &v
		}
	}
	if req.PracticeMode != nil {
		lc.settings.SetPracticeMode(*req.PracticeMode)
		lc.logger.Infof(providers.TypePost, "Practice mode set to %t", *req.PracticeMode)
	}
	if req.Anonymous != nil {
		lc.settings.SetAnonymous(*req.Anonymous)
	}
	lc.GetSettings(w, r)
}
