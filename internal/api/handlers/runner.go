package handlers

import (
	"encoding/gob"
	"errors"
	"net/http"

	"selvaquiz/internal/flow"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

// runnerSessionKey holds the serialized runner position in the cookie session.
const runnerSessionKey = "quizRunner"

// runnerState is the cookie-session payload for an active run. It carries the
// position only; question bodies stay in the database and are re-fetched per
// request, keeping the encoded value well under the 4 KB cookie limit.
type runnerState struct {
	QuizID    int64
	Index     int
	Answers   map[int64]string
	Submitted bool
}

func init() {
	gob.Register(runnerState{})
}

// StartRunnerRequest begins a runner session over a persisted quiz.
type StartRunnerRequest struct {
	QuizID int64 `json:"quiz_id" binding:"required"`
}

// AnswerRequest carries one free-text answer for the current question.
type AnswerRequest struct {
	Answer string `json:"answer"`
}

// loadRunner rebuilds the runner from the session position and the quiz's
// stored questions. On failure it has already written the error response.
func (h *Handler) loadRunner(c *gin.Context) (*flow.Runner, int64, bool) {
	if h.Store == nil {
		respondError(c, http.StatusInternalServerError, "Missing environment variables", nil)
		return nil, 0, false
	}

	session := sessions.Default(c)
	state, ok := session.Get(runnerSessionKey).(runnerState)
	if !ok {
		respondError(c, http.StatusNotFound, "No active quiz session", nil)
		return nil, 0, false
	}

	questions, err := h.Store.ListQuestionsByQuizID(c.Request.Context(), state.QuizID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to load questions", err)
		return nil, 0, false
	}
	if len(questions) == 0 {
		session.Delete(runnerSessionKey)
		_ = session.Save()
		respondError(c, http.StatusNotFound, "No active quiz session", nil)
		return nil, 0, false
	}

	runner := &flow.Runner{
		Questions: questions,
		Index:     state.Index,
		Answers:   state.Answers,
		Submitted: state.Submitted,
	}
	return runner, state.QuizID, true
}

func saveRunner(c *gin.Context, quizID int64, runner *flow.Runner) error {
	session := sessions.Default(c)
	session.Set(runnerSessionKey, runnerState{
		QuizID:    quizID,
		Index:     runner.Index,
		Answers:   runner.Answers,
		Submitted: runner.Submitted,
	})
	return session.Save()
}

// runnerView renders the runner position for the client.
func runnerView(runner *flow.Runner) gin.H {
	answered, total := runner.Progress()
	view := gin.H{
		"submitted": runner.Submitted,
		"answered":  answered,
		"total":     total,
	}
	if current, err := runner.Current(); err == nil {
		view["question"] = current
		view["index"] = runner.Index
	}
	return view
}

// HandleRunnerStart loads a quiz's questions and opens a fresh runner session
// positioned at the first question. Starting over an existing session
// replaces it.
func (h *Handler) HandleRunnerStart(c *gin.Context) {
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

	var req StartRunnerRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.QuizID <= 0 {
		respondError(c, http.StatusBadRequest, "quiz_id is required", err)
		return
	}

	quiz, err := h.Store.GetQuizByID(ctx, req.QuizID)
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

	questions, err := h.Store.ListQuestionsByQuizID(ctx, req.QuizID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to load questions", err)
		return
	}
	if len(questions) == 0 {
		respondError(c, http.StatusNotFound, "Quiz has no questions", nil)
		return
	}

	runner := flow.NewRunner(questions)
	if err := saveRunner(c, req.QuizID, runner); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to save session", err)
		return
	}

	c.JSON(http.StatusOK, runnerView(runner))
}

// HandleRunnerCurrent reports the runner position without mutating it.
func (h *Handler) HandleRunnerCurrent(c *gin.Context) {
	runner, _, ok := h.loadRunner(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, runnerView(runner))
}

// HandleRunnerAnswer records the answer for the current question and advances
// the cursor. Answering the last question finishes the run.
func (h *Handler) HandleRunnerAnswer(c *gin.Context) {
	runner, quizID, ok := h.loadRunner(c)
	if !ok {
		return
	}

	var req AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "answer is required", err)
		return
	}

	if err := runner.Submit(req.Answer); err != nil {
		switch {
		case errors.Is(err, flow.ErrEmptyAnswer):
			respondError(c, http.StatusBadRequest, "answer is required", err)
		case errors.Is(err, flow.ErrAlreadyDone):
			respondError(c, http.StatusConflict, "Quiz already submitted", err)
		default:
			respondError(c, http.StatusInternalServerError, "Failed to record answer", err)
		}
		return
	}

	if err := saveRunner(c, quizID, runner); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to save session", err)
		return
	}

	c.JSON(http.StatusOK, runnerView(runner))
}

// HandleRunnerPrevious moves back one question and returns the answer stored
// for it, so the client can repopulate the input.
func (h *Handler) HandleRunnerPrevious(c *gin.Context) {
	runner, quizID, ok := h.loadRunner(c)
	if !ok {
		return
	}

	answer, moved := runner.Previous()
	if !moved {
		respondError(c, http.StatusBadRequest, "Already at the first question", nil)
		return
	}

	if err := saveRunner(c, quizID, runner); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to save session", err)
		return
	}

	view := runnerView(runner)
	view["answer"] = answer
	c.JSON(http.StatusOK, view)
}

// HandleRunnerRetry restarts the active run at the first question, keeping
// the loaded questions but discarding recorded answers.
func (h *Handler) HandleRunnerRetry(c *gin.Context) {
	runner, quizID, ok := h.loadRunner(c)
	if !ok {
		return
	}

	runner.Retry()
	if err := saveRunner(c, quizID, runner); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to save session", err)
		return
	}

	c.JSON(http.StatusOK, runnerView(runner))
}

// HandleRunnerReset discards the runner session entirely.
func (h *Handler) HandleRunnerReset(c *gin.Context) {
	session := sessions.Default(c)
	session.Delete(runnerSessionKey)
	if err := session.Save(); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to save session", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "reset"})
}
