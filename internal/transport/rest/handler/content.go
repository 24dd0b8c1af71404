package handler

import (
	"mattressfit/internal/model"
	"mattressfit/internal/service"
	"net/http"
)

// ContentHandler serves the editable site content
type ContentHandler struct {
	contentSvc *service.ContentService
}

// NewContentHandler creates a new content handler
func NewContentHandler(contentSvc *service.ContentService) *ContentHandler {
	return &ContentHandler{contentSvc: contentSvc}
}

// Get handles GET /api/content
// @Summary Site content merged over the defaults
// @Tags content
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/content [get]
func (h *ContentHandler) Get(w http.ResponseWriter, r *http.Request) {
	content, err := h.contentSvc.GetAll(r.Context())
	if err != nil {
		writeFault(w, err)
		return
	}
	writeJSON(w, http.StatusOK, content)
}

// SetMany handles POST /api/content
// @Summary Store several content keys
// @Tags content
// @Accept json
// @Produce json
// @Router /api/content [post]
func (h *ContentHandler) SetMany(w http.ResponseWriter, r *http.Request) {
	var values map[string]any
	if !decodeJSON(w, r, &values) {
		return
	}
	if err := h.contentSvc.SetMany(r.Context(), values); err != nil {
		writeFault(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "content": values})
}

// Update handles PATCH /api/content/update
// @Summary Store one content key
// @Tags content
// @Accept json
// @Produce json
// @Param body body model.ContentPatch true "key and value"
// @Router /api/content/update [patch]
func (h *ContentHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req model.ContentPatch
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.contentSvc.Set(r.Context(), req.Key, req.Value); err != nil {
		writeFault(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "key": req.Key, "value": req.Value})
}
