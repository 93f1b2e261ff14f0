package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

func quizIDParam(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("quizId"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid quiz id %q", c.Param("quizId"))
	}
	return id, nil
}

// HandleGetQuiz retrieves a quiz row owned by the current user.
func (h *Handler) HandleGetQuiz(c *gin.Context) {
	ctx := c.Request.Context()

	user, ok := currentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Authentication required", nil)
		return
	}
	if h.Store == nil {
		respondError(c, http.StatusInternalServerError, "Missing environment variables", nil)
		return
	}

	quizID, err := quizIDParam(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid quiz id", err)
		return
	}

	quiz, err := h.Store.GetQuizByID(ctx, quizID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			respondError(c, http.StatusNotFound, "Quiz not found", err)
		} else {
			respondError(c, http.StatusInternalServerError, "Failed to get quiz", err)
		}
		return
	}

	if quiz.UserID != user.ID {
		respondError(c, http.StatusForbidden, "You do not have access to this quiz", nil)
		return
	}

	c.JSON(http.StatusOK, quiz)
}

// HandleGetQuizQuestions returns a quiz's questions ordered by ordem.
// The read is idempotent; the client calls it after generation and again on
// every runner restart.
func (h *Handler) HandleGetQuizQuestions(c *gin.Context) {
	ctx := c.Request.Context()

	user, ok := currentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Authentication required", nil)
		return
	}
	if h.Store == nil {
		respondError(c, http.StatusInternalServerError, "Missing environment variables", nil)
		return
	}

	quizID, err := quizIDParam(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid quiz id", err)
		return
	}

	quiz, err := h.Store.GetQuizByID(ctx, quizID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			respondError(c, http.StatusNotFound, "Quiz not found", err)
		} else {
			respondError(c, http.StatusInternalServerError, "Failed to get quiz", err)
		}
		return
	}
	if quiz.UserID != user.ID {
		respondError(c, http.StatusForbidden, "You do not have access to this quiz", nil)
		return
	}

	questions, err := h.Store.ListQuestionsByQuizID(ctx, quizID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to load questions", err)
		return
	}

	log.Printf("INFO: returning %d questions for quiz %d", len(questions), quizID)
	c.JSON(http.StatusOK, questions)
}

// HandleListUserQuizzes lists the current user's quizzes, newest first.
func (h *Handler) HandleListUserQuizzes(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Authentication required", nil)
		return
	}
	if h.Store == nil {
		respondError(c, http.StatusInternalServerError, "Missing environment variables", nil)
		return
	}

	quizzes, err := h.Store.ListQuizzesByUser(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to list quizzes", err)
		return
	}

	c.JSON(http.StatusOK, quizzes)
}
