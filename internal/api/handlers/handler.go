package handlers

import (
	"context"
	"io"
	"log"

	"selvaquiz/internal/authapi"
	"selvaquiz/internal/gemini"
	"selvaquiz/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ContextUserKey is the gin context key holding the resolved auth identity.
const ContextUserKey = "authUser"

// Generator produces quiz questions from extracted text.
type Generator interface {
	GenerateGuestQuiz(ctx context.Context, text string, variant gemini.GuestVariant) ([]models.GuestQuestion, error)
	GenerateQuiz(ctx context.Context, text string) ([]models.GeneratedQuestion, error)
}

// AuthClient resolves bearer tokens to user identities.
type AuthClient interface {
	GetUser(ctx context.Context, token string) (*authapi.User, error)
}

// ObjectStore reads and writes uploaded study material.
type ObjectStore interface {
	Download(ctx context.Context, path string) ([]byte, error)
	Upload(ctx context.Context, userID uuid.UUID, filename string, content io.Reader) (string, error)
}

// QuizStore persists quizzes, questions, and user profiles.
type QuizStore interface {
	CreateQuizWithQuestions(ctx context.Context, userID uuid.UUID, materialTitle string, questions []models.GeneratedQuestion) (models.Quiz, error)
	GetQuizByID(ctx context.Context, id int64) (models.Quiz, error)
	ListQuestionsByQuizID(ctx context.Context, quizID int64) ([]models.Question, error)
	ListQuizzesByUser(ctx context.Context, userID uuid.UUID) ([]models.Quiz, error)
	GetUserProfile(ctx context.Context, id uuid.UUID) (models.UserProfile, error)
	CreateUserProfile(ctx context.Context, id uuid.UUID, name, email string) (models.UserProfile, error)
	UpdateStudentType(ctx context.Context, id uuid.UUID, studentType string) (models.UserProfile, error)
	UpdatePlanType(ctx context.Context, id uuid.UUID, planType string) (models.UserProfile, error)
}

// Handler contains the API handlers' collaborators. Any of them may be nil
// when its configuration is absent; affected endpoints answer 500.
type Handler struct {
	Auth    AuthClient
	Store   QuizStore
	Gemini  Generator
	Storage ObjectStore
	Extract func(data []byte) (string, error)
}

// respondError logs the underlying cause and writes the uniform error
// envelope. Every failure path goes through here exactly once.
func respondError(c *gin.Context, status int, message string, err error) {
	if err != nil {
		log.Printf("ERROR: %s: %v (path: %s)", message, err, c.Request.URL.Path)
	} else {
		log.Printf("WARN: %s (path: %s)", message, c.Request.URL.Path)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

// currentUser pulls the identity set by the AuthRequired middleware.
func currentUser(c *gin.Context) (*authapi.User, bool) {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*authapi.User)
	return user, ok && user != nil
}
