package handler

import (
	"mattressfit/internal/model"
	"mattressfit/internal/service"
	"mattressfit/internal/survey"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

// SurveyHandler handles survey dialog sessions and direct submissions
type SurveyHandler struct {
	surveySvc *service.SurveyService
	leadSvc   *service.LeadService
}

// NewSurveyHandler creates a new survey handler
func NewSurveyHandler(surveySvc *service.SurveyService, leadSvc *service.LeadService) *SurveyHandler {
	return &SurveyHandler{
		surveySvc: surveySvc,
		leadSvc:   leadSvc,
	}
}

// AnswerRequest is the body of an answer update
type AnswerRequest struct {
	Value string `json:"value"`
}

// OtherAnswerRequest is the body of a custom answer update
type OtherAnswerRequest struct {
	Text string `json:"text"`
}

// Open handles POST /api/survey/sessions
// @Summary Open a survey dialog
// @Tags survey
// @Produce json
// @Success 201 {object} service.SessionView
// @Router /api/survey/sessions [post]
func (h *SurveyHandler) Open(w http.ResponseWriter, r *http.Request) {
	view, err := h.surveySvc.Open(r.Context(), r.UserAgent(), r.Referer())
	if err != nil {
		writeFault(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

// Get handles GET /api/survey/sessions/{id}
// @Summary Current state of a survey dialog
// @Tags survey
// @Produce json
// @Param id path string true "session id"
// @Success 200 {object} service.SessionView
// @Failure 404 {object} map[string]string
// @Router /api/survey/sessions/{id} [get]
func (h *SurveyHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.respond(w)(h.surveySvc.Get(r.Context(), mux.Vars(r)["id"]))
}

// Answer handles PUT /api/survey/sessions/{id}/answers/{questionId}
// @Summary Answer the current question
// @Tags survey
// @Accept json
// @Produce json
// @Param id path string true "session id"
// @Param questionId path string true "question id"
// @Param body body AnswerRequest true "value"
// @Router /api/survey/sessions/{id}/answers/{questionId} [put]
func (h *SurveyHandler) Answer(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	var req AnswerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	h.respond(w)(h.surveySvc.Answer(r.Context(), vars["id"], vars["questionId"], req.Value))
}

// AnswerOther handles PUT /api/survey/sessions/{id}/answers/{questionId}/other
// @Summary Type the custom answer of the current question
// @Tags survey
// @Accept json
// @Produce json
// @Param id path string true "session id"
// @Param questionId path string true "question id"
// @Param body body OtherAnswerRequest true "text"
// @Router /api/survey/sessions/{id}/answers/{questionId}/other [put]
func (h *SurveyHandler) AnswerOther(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	var req OtherAnswerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	h.respond(w)(h.surveySvc.AnswerOther(r.Context(), vars["id"], vars["questionId"], req.Text))
}

// Next handles POST /api/survey/sessions/{id}/next
// @Summary Move to the next question or to the contact step
// @Tags survey
// @Produce json
// @Param id path string true "session id"
// @Router /api/survey/sessions/{id}/next [post]
func (h *SurveyHandler) Next(w http.ResponseWriter, r *http.Request) {
	h.respond(w)(h.surveySvc.Next(r.Context(), mux.Vars(r)["id"]))
}

// Prev handles POST /api/survey/sessions/{id}/prev
// @Summary Move back one question
// @Tags survey
// @Produce json
// @Param id path string true "session id"
// @Router /api/survey/sessions/{id}/prev [post]
func (h *SurveyHandler) Prev(w http.ResponseWriter, r *http.Request) {
	h.respond(w)(h.surveySvc.Prev(r.Context(), mux.Vars(r)["id"]))
}

// SetContact handles PUT /api/survey/sessions/{id}/contact
// @Summary Store the contact fields
// @Tags survey
// @Accept json
// @Produce json
// @Param id path string true "session id"
// @Param body body survey.Contact true "contact"
// @Router /api/survey/sessions/{id}/contact [put]
func (h *SurveyHandler) SetContact(w http.ResponseWriter, r *http.Request) {
	var req survey.Contact
	if !decodeJSON(w, r, &req) {
		return
	}
	h.respond(w)(h.surveySvc.SetContact(r.Context(), mux.Vars(r)["id"], req))
}

// Submit handles POST /api/survey/sessions/{id}/submit
// @Summary Submit the finished survey
// @Tags survey
// @Produce json
// @Param id path string true "session id"
// @Failure 409 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /api/survey/sessions/{id}/submit [post]
func (h *SurveyHandler) Submit(w http.ResponseWriter, r *http.Request) {
	h.respond(w)(h.surveySvc.Submit(r.Context(), mux.Vars(r)["id"]))
}

// Close handles DELETE /api/survey/sessions/{id}
// @Summary Discard a survey dialog
// @Tags survey
// @Param id path string true "session id"
// @Router /api/survey/sessions/{id} [delete]
func (h *SurveyHandler) Close(w http.ResponseWriter, r *http.Request) {
	if err := h.surveySvc.Close(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeFault(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SubmitDirect handles POST /api/submit-survey
// @Summary Submit a survey run on the client
// @Tags survey
// @Accept json
// @Produce json
// @Param body body model.DirectSubmitRequest true "contact and answers"
// @Router /api/submit-survey [post]
func (h *SurveyHandler) SubmitDirect(w http.ResponseWriter, r *http.Request) {
	var req model.DirectSubmitRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	meta := model.LeadMeta{
		UserAgent:   r.UserAgent(),
		Referer:     r.Referer(),
		SubmittedAt: time.Now(),
	}
	lead, err := h.leadSvc.SubmitDirect(r.Context(), req, meta)
	if err != nil {
		writeFault(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "id": lead.ID})
}

func (h *SurveyHandler) respond(w http.ResponseWriter) func(*service.SessionView, error) {
	return func(view *service.SessionView, err error) {
		if err != nil {
			writeFault(w, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}
