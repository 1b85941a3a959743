package handler

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/fakturo-as/billing-api/internal/domain"
	"github.com/fakturo-as/billing-api/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type FileHandler struct {
	fileService *service.FileService
	logger      *zap.Logger
}

func NewFileHandler(fileService *service.FileService, logger *zap.Logger) *FileHandler {
	return &FileHandler{
		fileService: fileService,
		logger:      logger,
	}
}

// GetByID godoc
// @Summary Get file metadata
// @Tags Files
// @Produce json
// @Param id path string true "File ID" format(uuid)
// @Success 200 {object} domain.FileDTO
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /files/{id} [get]
func (h *FileHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid file ID format",
		})
		return
	}

	file, err := h.fileService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "get file")
		return
	}

	respondJSON(w, http.StatusOK, file)
}

// Download godoc
// @Summary Download file
// @Description Stream the stored file content
// @Tags Files
// @Produce octet-stream
// @Param id path string true "File ID" format(uuid)
// @Success 200 {file} binary
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /files/{id}/download [get]
func (h *FileHandler) Download(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid file ID format",
		})
		return
	}

	file, reader, err := h.fileService.Download(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "download file")
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	if file.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(file.Size, 10))
	}

	if _, err := io.Copy(w, reader); err != nil {
		h.logger.Warn("file stream interrupted",
			zap.String("file_id", id.String()),
			zap.Error(err))
	}
}
