package controllers

import (
	"net/http"
	"runboard/internal/providers"
	"runboard/internal/services"

	"github.com/spf13/cast"
)

type RunController struct {
	logger  providers.Logger
	session services.RunSessionServiceInterface
}

func NewRunController(logger providers.Logger, session services.RunSessionServiceInterface) *RunController {
	return &RunController{
		logger:  logger,
		session: session,
	}
}

func (rc *RunController) Start(w http.ResponseWriter, r *http.Request) {
	var req services.StartRunRequest
	if !decodeBody(w, r, &req) {
		return
	}
	view, err := rc.session.StartRun(req)
	if err != nil {
		writeError(w, r, rc.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (rc *RunController) Event(w http.ResponseWriter, r *http.Request) {
	var ev services.Event
	if !decodeBody(w, r, &ev) {
		return
	}
	res, err := rc.session.ApplyEvent(ev)
	if err != nil {
		writeError(w, r, rc.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type tickRequest struct {
	Dt interface{} `json:"dt"`
}

func (rc *RunController) Tick(w http.ResponseWriter, r *http.Request) {
	var req tickRequest
	if !decodeBody(w, r, &req) {
		return
	}
	dt, err := cast.ToFloat64E(req.Dt)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "dt must be a number"})
		return
	}
	if err := rc.session.Tick(dt); err != nil {
		writeError(w, r, rc.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (rc *RunController) CompleteStage(w http.ResponseWriter, r *http.Request) {
	res, err := rc.session.CompleteStage()
	if err != nil {
		writeError(w, r, rc.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type finishRequest struct {
	Reason string `json:"reason"`
}

func (rc *RunController) Finish(w http.ResponseWriter, r *http.Request) {
	var req finishRequest
	if r.ContentLength != 0 && !decodeBody(w, r, &req) {
		return
	}
	res, err := rc.session.FinishRun(req.Reason)
	if err != nil {
		writeError(w, r, rc.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (rc *RunController) State(w http.ResponseWriter, r *http.Request) {
	st, err := rc.session.State()
	if err != nil {
		writeError(w, r, rc.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}
