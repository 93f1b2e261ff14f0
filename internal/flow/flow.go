package flow

import (
	"errors"
	"strings"

	"selvaquiz/internal/models"
)

// State is one of the flow controller's view states.
type State string

const (
	// StateInput is the initial state and the target of every loadNew.
	StateInput State = "input"
	// StateLoading covers an in-flight generation request.
	StateLoading State = "loading"
	// StateGuestResults shows inline guest questions; nothing was persisted.
	StateGuestResults State = "guest_results"
	// StateQuizRunner walks a persisted quiz by id.
	StateQuizRunner State = "quiz_runner"
	// StateOnboarding replaces Input for authenticated users without a
	// stored student type.
	StateOnboarding State = "onboarding"
)

// Flow errors.
var (
	ErrEmptyAnswer   = errors.New("answer must not be empty")
	ErrNoQuestions   = errors.New("runner has no questions")
	ErrAlreadyDone   = errors.New("quiz already submitted")
	ErrNotGenerating = errors.New("no generation in flight")
)

// Controller drives the linear upload → generate → answer → results flow.
// It holds no I/O; callers feed it the outcomes of their network calls.
type Controller struct {
	state      State
	loggedIn   bool
	hasProfile bool

	quizID    int64
	questions []models.GuestQuestion
}

// NewController creates a controller for the given session flags.
func NewController(loggedIn, hasProfile bool) *Controller {
	return &Controller{state: StateInput, loggedIn: loggedIn, hasProfile: hasProfile}
}

// State returns the effective view state. An authenticated user without a
// completed onboarding sees Onboarding wherever Input would show.
func (c *Controller) State() State {
	if c.state == StateInput && c.loggedIn && !c.hasProfile {
		return StateOnboarding
	}
	return c.state
}

// Submit marks a generation request as in flight.
func (c *Controller) Submit() {
	c.quizID = 0
	c.questions = nil
	c.state = StateLoading
}

// CompleteAuthenticated records a successful authenticated generation; the
// runner will re-fetch the question bodies by quiz id.
func (c *Controller) CompleteAuthenticated(quizID int64) error {
	if c.state != StateLoading {
		return ErrNotGenerating
	}
	c.quizID = quizID
	c.state = StateQuizRunner
	return nil
}

// CompleteGuest records a successful guest generation with inline questions.
func (c *Controller) CompleteGuest(questions []models.GuestQuestion) error {
	if c.state != StateLoading {
		return ErrNotGenerating
	}
	c.questions = questions
	c.state = StateGuestResults
	return nil
}

// Fail returns to the input state; no partial state is retained.
func (c *Controller) Fail() {
	c.quizID = 0
	c.questions = nil
	c.state = StateInput
}

// LoadNew resets to the input state from anywhere.
func (c *Controller) LoadNew() {
	c.quizID = 0
	c.questions = nil
	c.state = StateInput
}

// CompleteOnboarding marks the stored student type as present.
func (c *Controller) CompleteOnboarding() {
	c.hasProfile = true
}

// QuizID returns the active quiz id, zero outside the runner state.
func (c *Controller) QuizID() int64 { return c.quizID }

// GuestQuestions returns the inline guest questions, nil outside guest results.
func (c *Controller) GuestQuestions() []models.GuestQuestion { return c.questions }

// Runner iterates a quiz's questions linearly, collecting free-text answers.
// It is a plain value so it can live in a cookie session between requests.
type Runner struct {
	Questions []models.Question `json:"questions"`
	Index     int               `json:"index"`
	Answers   map[int64]string  `json:"answers"`
	Submitted bool              `json:"submitted"`
}

// NewRunner starts a runner at the first question with no answers recorded.
func NewRunner(questions []models.Question) *Runner {
	return &Runner{
		Questions: questions,
		Answers:   make(map[int64]string),
	}
}

// Current returns the question at the cursor.
func (r *Runner) Current() (models.Question, error) {
	if len(r.Questions) == 0 {
		return models.Question{}, ErrNoQuestions
	}
	if r.Submitted {
		return models.Question{}, ErrAlreadyDone
	}
	return r.Questions[r.Index], nil
}

// Submit records the answer for the current question and advances. Answering
// the last question flips Submitted instead of advancing past the end.
// Empty or whitespace-only answers are rejected.
func (r *Runner) Submit(answer string) error {
	current, err := r.Current()
	if err != nil {
		return err
	}
	if strings.TrimSpace(answer) == "" {
		return ErrEmptyAnswer
	}
	if r.Answers == nil {
		r.Answers = make(map[int64]string)
	}
	r.Answers[current.ID] = answer

	if r.Index < len(r.Questions)-1 {
		r.Index++
	} else {
		r.Submitted = true
	}
	return nil
}

// Previous moves the cursor back one question and returns the answer stored
// for it, so the caller can re-populate the editable field.
func (r *Runner) Previous() (string, bool) {
	if r.Index == 0 || r.Submitted {
		return "", false
	}
	r.Index--
	return r.Answers[r.Questions[r.Index].ID], true
}

// Retry resets the cursor, answers, and submitted flag without refetching.
func (r *Runner) Retry() {
	r.Index = 0
	r.Answers = make(map[int64]string)
	r.Submitted = false
}

// Progress reports how many questions have answers recorded.
func (r *Runner) Progress() (answered, total int) {
	return len(r.Answers), len(r.Questions)
}
