package handler

import (
	"mattressfit/internal/service"
	"net/http"
)

const maxUploadBytes = 32 << 20

// UploadHandler accepts admin file uploads
type UploadHandler struct {
	uploadSvc *service.UploadService
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(uploadSvc *service.UploadService) *UploadHandler {
	return &UploadHandler{uploadSvc: uploadSvc}
}

// Upload handles POST /api/upload
// @Summary Upload an image into the public directory
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "file"
// @Param folder formData string false "target folder"
// @Param filename formData string false "target name"
// @Router /api/upload [post]
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()

	url, err := h.uploadSvc.Save(service.UploadRequest{
		Body:        file,
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Folder:      r.FormValue("folder"),
		Filename:    r.FormValue("filename"),
	})
	if err != nil {
		writeFault(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}
