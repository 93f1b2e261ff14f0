package handlers

import (
	"net/http"

	"selvaquiz/internal/models"

	"github.com/gin-gonic/gin"
)

// HandleUpload stores an uploaded file in the uploads bucket under a key
// namespaced by user id and timestamp, and returns that key. The client
// passes it back as file_path to /api/generate.
func (h *Handler) HandleUpload(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Authentication required", nil)
		return
	}
	if h.Storage == nil {
		respondError(c, http.StatusInternalServerError, "Missing environment variables", nil)
		return
	}

	if err := c.Request.ParseMultipartForm(maxUploadMemory); err != nil {
		respondError(c, http.StatusBadRequest, "Failed to parse form data", err)
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Failed to parse form data or no file uploaded", err)
		return
	}
	defer file.Close()

	path, err := h.Storage.Upload(c.Request.Context(), user.ID, header.Filename, file)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to upload file", err)
		return
	}

	c.JSON(http.StatusOK, models.UploadResponse{FilePath: path})
}
