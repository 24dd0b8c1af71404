package handler

import (
	"mattressfit/internal/catalog"
	"mattressfit/internal/model"
	"mattressfit/internal/service"
	"net/http"

	"github.com/gorilla/mux"
)

// QuestionHandler handles the survey catalog endpoints
type QuestionHandler struct {
	catalogSvc *service.CatalogService
}

// NewQuestionHandler creates a new question handler
func NewQuestionHandler(catalogSvc *service.CatalogService) *QuestionHandler {
	return &QuestionHandler{catalogSvc: catalogSvc}
}

// List handles GET /api/survey-questions
// @Summary Current survey catalog
// @Tags questions
// @Produce json
// @Success 200 {array} model.QuestionInput
// @Router /api/survey-questions [get]
func (h *QuestionHandler) List(w http.ResponseWriter, r *http.Request) {
	questions, err := h.catalogSvc.Questions(r.Context())
	if err != nil {
		writeFault(w, err)
		return
	}
	writeJSON(w, http.StatusOK, questions)
}

// Defaults handles GET /api/survey-questions/defaults
// @Summary Built-in survey catalog
// @Tags questions
// @Produce json
// @Success 200 {array} model.QuestionInput
// @Router /api/survey-questions/defaults [get]
func (h *QuestionHandler) Defaults(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.catalogSvc.Defaults())
}

// Replace handles POST /api/survey-questions
// @Summary Replace the survey catalog
// @Tags questions
// @Accept json
// @Produce json
// @Param body body model.ReplaceQuestionsRequest true "questions"
// @Failure 400 {object} map[string]string
// @Router /api/survey-questions [post]
func (h *QuestionHandler) Replace(w http.ResponseWriter, r *http.Request) {
	var req model.ReplaceQuestionsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Questions == nil {
		writeError(w, http.StatusBadRequest, "Invalid questions data")
		return
	}

	questions, err := h.catalogSvc.Replace(r.Context(), req.Questions)
	if err != nil {
		writeFault(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "questions": questions})
}

// Move handles POST /api/admin/survey-questions/{id}/move
// @Summary Move a question one place up or down
// @Tags questions
// @Accept json
// @Produce json
// @Param id path string true "question id"
// @Param body body model.MoveQuestionRequest true "direction"
// @Router /api/admin/survey-questions/{id}/move [post]
func (h *QuestionHandler) Move(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req model.MoveQuestionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	dir := catalog.Direction(req.Direction)
	if dir != catalog.Up && dir != catalog.Down {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "direction must be up or down", Field: "direction"})
		return
	}

	questions, err := h.catalogSvc.Move(r.Context(), id, dir)
	if err != nil {
		writeFault(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "questions": questions})
}
