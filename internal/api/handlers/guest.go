package handlers

import (
	"errors"
	"io"
	"log"
	"net/http"

	"selvaquiz/internal/extract"
	"selvaquiz/internal/gemini"

	"github.com/gin-gonic/gin"
)

// maxUploadMemory bounds in-memory multipart parsing (64 MB).
const maxUploadMemory = 64 << 20

// GuestQuizHandler handles the anonymous sample flow: one uploaded PDF in,
// five questions inline out. Nothing is persisted and no identity is read.
// The variant selects the minimal or extended question shape for the route.
func (h *Handler) GuestQuizHandler(variant gemini.GuestVariant) gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.Gemini == nil {
			respondError(c, http.StatusInternalServerError, "Missing GEMINI_API_KEY", nil)
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
		log.Printf("INFO: guest generation request for file %s (%d bytes)", header.Filename, header.Size)

		data, err := io.ReadAll(file)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "Failed to read uploaded file", err)
			return
		}

		text, err := h.extractText(data)
		if err != nil {
			if errors.Is(err, extract.ErrNoText) {
				respondError(c, http.StatusBadRequest, "No text content found in PDF", err)
			} else {
				respondError(c, http.StatusInternalServerError, "Failed to extract text from PDF", err)
			}
			return
		}

		questions, err := h.Gemini.GenerateGuestQuiz(c.Request.Context(), text, variant)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "Failed to parse AI response", err)
			return
		}

		// The raw question array, never a quiz id: the guest flow is a
		// side-effect-free preview.
		c.JSON(http.StatusOK, questions)
	}
}

// extractText runs the configured extractor, defaulting to the PDF library.
func (h *Handler) extractText(data []byte) (string, error) {
	if h.Extract != nil {
		return h.Extract(data)
	}
	return extract.Text(data)
}
