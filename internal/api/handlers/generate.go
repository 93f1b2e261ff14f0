package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"selvaquiz/internal/extract"
	"selvaquiz/internal/models"

	"github.com/gin-gonic/gin"
)

// GenerateQuizRequest is the authenticated generation request body. The file
// must already exist in the uploads bucket.
type GenerateQuizRequest struct {
	FilePath      string `json:"file_path"`
	MaterialTitle string `json:"material_title"`
}

// defaultMaterialTitle is used when the request carries no title.
const defaultMaterialTitle = "Quiz sem título"

// HandleGenerateQuiz runs the authenticated pipeline: download the referenced
// object, extract its text, generate 7 questions, persist quiz + questions in
// one transaction, and answer with the quiz id only.
//
// Preconditions short-circuit in a fixed order: configuration (500), file
// path (400), bearer token (401), token validity (401). Auth is resolved
// in-handler rather than by middleware to keep that ordering.
func (h *Handler) HandleGenerateQuiz(c *gin.Context) {
	ctx := c.Request.Context()

	if h.Gemini == nil || h.Storage == nil || h.Store == nil || h.Auth == nil {
		respondError(c, http.StatusInternalServerError, "Missing environment variables", nil)
		return
	}

	var req GenerateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "file_path is required", err)
		return
	}
	if req.FilePath == "" {
		respondError(c, http.StatusBadRequest, "file_path is required", nil)
		return
	}

	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		respondError(c, http.StatusUnauthorized, "Authorization header required", nil)
		return
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")

	user, err := h.Auth.GetUser(ctx, token)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Invalid token", err)
		return
	}
	log.Printf("INFO: handling quiz generation for user %s (file: %s)", user.ID, req.FilePath)

	data, err := h.Storage.Download(ctx, req.FilePath)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to download file", err)
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

	questions, err := h.Gemini.GenerateQuiz(ctx, text)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to parse AI response", err)
		return
	}
	if len(questions) == 0 {
		respondError(c, http.StatusInternalServerError, "Invalid questions format from AI", nil)
		return
	}

	title := req.MaterialTitle
	if title == "" {
		title = defaultMaterialTitle
	}

	quiz, err := h.Store.CreateQuizWithQuestions(ctx, user.ID, title, questions)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create quiz", err)
		return
	}

	log.Printf("INFO: created quiz %d with %d questions for user %s", quiz.ID, len(questions), user.ID)

	// The id only; the client re-fetches the question bodies.
	c.JSON(http.StatusOK, models.GenerateQuizResponse{QuizID: quiz.ID})
}
