package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"selvaquiz/internal/authapi"
	"selvaquiz/internal/gemini"
	"selvaquiz/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeGenerator struct {
	guestQuestions []models.GuestQuestion
	questions      []models.GeneratedQuestion
	err            error

	guestCalls int
	quizCalls  int
	lastText   string
}

func (f *fakeGenerator) GenerateGuestQuiz(_ context.Context, text string, _ gemini.GuestVariant) ([]models.GuestQuestion, error) {
	f.guestCalls++
	f.lastText = text
	return f.guestQuestions, f.err
}

func (f *fakeGenerator) GenerateQuiz(_ context.Context, text string) ([]models.GeneratedQuestion, error) {
	f.quizCalls++
	f.lastText = text
	return f.questions, f.err
}

type fakeAuth struct {
	user  *authapi.User
	err   error
	calls int
}

func (f *fakeAuth) GetUser(context.Context, string) (*authapi.User, error) {
	f.calls++
	return f.user, f.err
}

type fakeStorage struct {
	data       []byte
	err        error
	uploadPath string
}

func (f *fakeStorage) Download(context.Context, string) ([]byte, error) {
	return f.data, f.err
}

func (f *fakeStorage) Upload(context.Context, uuid.UUID, string, io.Reader) (string, error) {
	return f.uploadPath, f.err
}

type fakeStore struct {
	quiz      models.Quiz
	questions []models.Question
	quizzes   []models.Quiz
	profile   models.UserProfile
	err       error

	createCalls     int
	createdUserID   uuid.UUID
	createdTitle    string
	createdQuestion []models.GeneratedQuestion
}

func (f *fakeStore) CreateQuizWithQuestions(_ context.Context, userID uuid.UUID, title string, questions []models.GeneratedQuestion) (models.Quiz, error) {
	f.createCalls++
	f.createdUserID = userID
	f.createdTitle = title
	f.createdQuestion = questions
	return f.quiz, f.err
}

func (f *fakeStore) GetQuizByID(context.Context, int64) (models.Quiz, error) {
	if f.err != nil {
		return models.Quiz{}, f.err
	}
	if f.quiz.ID == 0 {
		return models.Quiz{}, pgx.ErrNoRows
	}
	return f.quiz, nil
}

func (f *fakeStore) ListQuestionsByQuizID(context.Context, int64) ([]models.Question, error) {
	return f.questions, f.err
}

func (f *fakeStore) ListQuizzesByUser(context.Context, uuid.UUID) ([]models.Quiz, error) {
	return f.quizzes, f.err
}

func (f *fakeStore) GetUserProfile(context.Context, uuid.UUID) (models.UserProfile, error) {
	if f.err != nil {
		return models.UserProfile{}, f.err
	}
	if f.profile.ID == uuid.Nil {
		return models.UserProfile{}, pgx.ErrNoRows
	}
	return f.profile, nil
}

func (f *fakeStore) CreateUserProfile(_ context.Context, id uuid.UUID, name, email string) (models.UserProfile, error) {
	return models.UserProfile{ID: id, Name: name, Email: email, PlanType: models.PlanFree}, f.err
}

func (f *fakeStore) UpdateStudentType(_ context.Context, id uuid.UUID, studentType string) (models.UserProfile, error) {
	f.profile.ID = id
	f.profile.StudentType = studentType
	return f.profile, f.err
}

func (f *fakeStore) UpdatePlanType(_ context.Context, id uuid.UUID, planType string) (models.UserProfile, error) {
	f.profile.ID = id
	f.profile.PlanType = planType
	return f.profile, f.err
}

// multipartBody builds a multipart form with a single file field.
func multipartBody(t *testing.T, fieldName, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(fieldName, filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return body, writer.FormDataContentType()
}

func performRequest(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return resp["error"]
}
