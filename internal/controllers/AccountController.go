package controllers

import (
	"net/http"
	"runboard/internal/providers"
	"runboard/internal/services"
)

// AccountController serves run summaries, their proof of run, and the
// account restriction with its appeal.
type AccountController struct {
	logger  providers.Logger
	session services.RunSessionServiceInterface
}

func NewAccountController(logger providers.Logger, session services.RunSessionServiceInterface) *AccountController {
	return &AccountController{
		logger:  logger,
		session: session,
	}
}

func (ac *AccountController) Snapshot(w http.ResponseWriter, r *http.Request) {
	category, _, err := categoryFromQuery(r)
	if err != nil {
		writeError(w, r, ac.logger, err)
		return
	}
	snap, err := ac.session.Snapshot(category)
	if err != nil {
		writeError(w, r, ac.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

type proofRequest struct {
	URL string `json:"url"`
}

func (ac *AccountController) EditProof(w http.ResponseWriter, r *http.Request) {
	category, _, err := categoryFromQuery(r)
	if err != nil {
		writeError(w, r, ac.logger, err)
		return
	}
	var req proofRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := ac.session.EditProofOfRun(category, req.URL); err != nil {
		writeError(w, r, ac.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (ac *AccountController) ConfirmProof(w http.ResponseWriter, r *http.Request) {
	category, _, err := categoryFromQuery(r)
	if err != nil {
		writeError(w, r, ac.logger, err)
		return
	}
	if err := ac.session.ConfirmProofOfRun(category); err != nil {
		writeError(w, r, ac.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type accountResponse struct {
	Restricted           bool   `json:"restricted"`
	Kind                 string `json:"kind"`
	Reason               string `json:"reason,omitempty"`
	LinkedRunSummarySlot string `json:"linkedRunSummarySlot,omitempty"`
	AppealStatus         string `json:"appealStatus"`
	LastAppealMessage    string `json:"lastAppealMessage,omitempty"`
	LastEvidenceUrl      string `json:"lastEvidenceUrl,omitempty"`
}

func (ac *AccountController) Account(w http.ResponseWriter, r *http.Request) {
	rec := ac.session.Account()
	writeJSON(w, http.StatusOK, accountResponse{
		Restricted:           rec.Restricted(),
		Kind:                 rec.Kind.String(),
		Reason:               rec.Reason,
		LinkedRunSummarySlot: rec.LinkedRunSummarySlot,
		AppealStatus:         rec.AppealStatus.String(),
		LastAppealMessage:    rec.LastAppealMessage,
		LastEvidenceUrl:      rec.LastEvidenceUrl,
	})
}

type appealRequest struct {
	Message     string `json:"message"`
	EvidenceUrl string `json:"evidenceUrl"`
}

type appealResponse struct {
	Accepted bool `json:"accepted"`
}

func (ac *AccountController) Appeal(w http.ResponseWriter, r *http.Request) {
	var req appealRequest
	if !decodeBody(w, r, &req) {
		return
	}
	ok, err := ac.session.SubmitAppeal(req.Message, req.EvidenceUrl)
	if err != nil {
		writeError(w, r, ac.logger, err)
		return
	}
	status := http.StatusAccepted
	if !ok {
		status = http.StatusConflict
	}
	writeJSON(w, status, appealResponse{Accepted: ok})
}
