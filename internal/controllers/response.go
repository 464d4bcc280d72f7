package controllers

import (
	"errors"
	"net/http"
	"runboard/internal/leaderboard"
	"runboard/internal/models"
	"runboard/internal/providers"
	"runboard/internal/services"

	json "github.com/goccy/go-json"
	"github.com/spf13/cast"
)

const maxRequestBodySize = 1 << 20 // 1 MB

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	gson, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrBadEvent), errors.Is(err, services.ErrUnknownEvent), errors.Is(err, leaderboard.ErrProofEmpty):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrNoActiveRun):
		return http.StatusConflict
	case errors.Is(err, leaderboard.ErrSnapshotNotFound):
		return http.StatusNotFound
	case errors.Is(err, leaderboard.ErrProofLocked):
		return http.StatusLocked
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, logger providers.Logger, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		logger.Errorf(providers.GetLogTypeByRequestType(r.Method), "%s %s: %s", r.Method, r.URL.Path, err)
		msg = "Internal Server Error"
	}
	writeJSON(w, status, errorResponse{Error: msg})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Bad Request"})
		return false
	}
	return true
}

// categoryFromQuery reads ?difficulty=&party=&stage=.
func categoryFromQuery(r *http.Request) (models.RunCategory, int, error) {
	q := r.URL.Query()
	category, err := models.NewRunCategory(q.Get("difficulty"), q.Get("party"))
	if err != nil {
		return models.RunCategory{}, 0, errors.Join(services.ErrBadEvent, err)
	}
	stage := models.MinStage
	if raw := q.Get("stage"); raw != "" {
		if stage, err = cast.ToIntE(raw); err != nil {
			return models.RunCategory{}, 0, errors.Join(services.ErrBadEvent, err)
		}
	}
	return category, stage, nil
}
