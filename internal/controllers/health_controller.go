package controllers

import (
	"fmt"
	"net/http"
	"runboard/internal/services"
	"time"

	json "github.com/goccy/go-json"
)

type HealthController struct {
	session   services.RunSessionServiceInterface
	settings  *services.SettingsProvider
	startTime time.Time
}

type healthResponse struct {
	Status        string  `json:"status"`
	Uptime        string  `json:"uptime"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	ActiveRun     bool    `json:"active_run"`
	PracticeMode  bool    `json:"practice_mode"`
}

func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(hc.startTime)
	resp := healthResponse{
		Status:        "ok",
		Uptime:        formatDuration(uptime),
		UptimeSeconds: uptime.Seconds(),
		ActiveRun:     hc.session.Active(),
		PracticeMode:  hc.settings.PracticeMode(),
	}

	gson, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
}

func NewHealthController(session services.RunSessionServiceInterface, settings *services.SettingsProvider) *HealthController {
	return &HealthController{
		session:   session,
		settings:  settings,
		startTime: time.Now(),
	}
}
