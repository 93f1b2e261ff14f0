package db

import (
	"context"
	"fmt"

	"selvaquiz/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is satisfied by *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Queries bundles all database operations over a single connection source.
type Queries struct {
	db DBTX
}

// New creates Queries backed by the given pool or transaction.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx returns Queries bound to the given transaction.
func (q *Queries) WithTx(tx pgx.Tx) *Queries {
	return &Queries{db: tx}
}

const createQuiz = `
INSERT INTO quizzes (user_id, material_title)
VALUES ($1, $2)
RETURNING id, user_id, material_title, created_at
`

// CreateQuiz inserts a quiz row scoped to the given user.
func (q *Queries) CreateQuiz(ctx context.Context, userID uuid.UUID, materialTitle string) (models.Quiz, error) {
	var quiz models.Quiz
	err := q.db.QueryRow(ctx, createQuiz, userID, materialTitle).
		Scan(&quiz.ID, &quiz.UserID, &quiz.MaterialTitle, &quiz.CreatedAt)
	if err != nil {
		return models.Quiz{}, fmt.Errorf("failed to create quiz: %w", err)
	}
	return quiz, nil
}

const createQuestion = `
INSERT INTO questions (quiz_id, pergunta, opcoes, resposta_correta, ordem)
VALUES ($1, $2, $3, $4, $5)
RETURNING id
`

// CreateQuestion inserts one question row at the given 1-based position.
func (q *Queries) CreateQuestion(ctx context.Context, quizID int64, question models.GeneratedQuestion, ordem int32) (int64, error) {
	var id int64
	err := q.db.QueryRow(ctx, createQuestion,
		quizID, question.Pergunta, question.Opcoes, question.RespostaCorreta, ordem).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert question (ordem %d): %w", ordem, err)
	}
	return id, nil
}

const getQuizByID = `
SELECT id, user_id, material_title, created_at
FROM quizzes
WHERE id = $1
`

// GetQuizByID fetches a quiz row. Returns pgx.ErrNoRows when absent.
func (q *Queries) GetQuizByID(ctx context.Context, id int64) (models.Quiz, error) {
	var quiz models.Quiz
	err := q.db.QueryRow(ctx, getQuizByID, id).
		Scan(&quiz.ID, &quiz.UserID, &quiz.MaterialTitle, &quiz.CreatedAt)
	if err != nil {
		return models.Quiz{}, err
	}
	return quiz, nil
}

const listQuestionsByQuizID = `
SELECT id, quiz_id, pergunta, opcoes, resposta_correta, ordem
FROM questions
WHERE quiz_id = $1
ORDER BY ordem ASC
`

// ListQuestionsByQuizID returns a quiz's questions in ordem order.
// Reads never mutate, so repeated calls return the same ordered set.
func (q *Queries) ListQuestionsByQuizID(ctx context.Context, quizID int64) ([]models.Question, error) {
	rows, err := q.db.Query(ctx, listQuestionsByQuizID, quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions for quiz %d: %w", quizID, err)
	}
	defer rows.Close()

	questions := []models.Question{}
	for rows.Next() {
		var question models.Question
		if err := rows.Scan(&question.ID, &question.QuizID, &question.Pergunta,
			&question.Opcoes, &question.RespostaCorreta, &question.Ordem); err != nil {
			return nil, fmt.Errorf("failed to scan question row: %w", err)
		}
		questions = append(questions, question)
	}
	return questions, rows.Err()
}

const listQuizzesByUser = `
SELECT id, user_id, material_title, created_at
FROM quizzes
WHERE user_id = $1
ORDER BY created_at DESC
`

// ListQuizzesByUser returns the user's quizzes, newest first.
func (q *Queries) ListQuizzesByUser(ctx context.Context, userID uuid.UUID) ([]models.Quiz, error) {
	rows, err := q.db.Query(ctx, listQuizzesByUser, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list quizzes for user %s: %w", userID, err)
	}
	defer rows.Close()

	quizzes := []models.Quiz{}
	for rows.Next() {
		var quiz models.Quiz
		if err := rows.Scan(&quiz.ID, &quiz.UserID, &quiz.MaterialTitle, &quiz.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan quiz row: %w", err)
		}
		quizzes = append(quizzes, quiz)
	}
	return quizzes, rows.Err()
}

const getUserProfile = `
SELECT id, name, email, COALESCE(student_type, ''), plan_type
FROM user_profiles
WHERE id = $1
`

// GetUserProfile fetches a profile row. Returns pgx.ErrNoRows when absent.
func (q *Queries) GetUserProfile(ctx context.Context, id uuid.UUID) (models.UserProfile, error) {
	var profile models.UserProfile
	err := q.db.QueryRow(ctx, getUserProfile, id).
		Scan(&profile.ID, &profile.Name, &profile.Email, &profile.StudentType, &profile.PlanType)
	if err != nil {
		return models.UserProfile{}, err
	}
	return profile, nil
}

const createUserProfile = `
INSERT INTO user_profiles (id, name, email, plan_type)
VALUES ($1, $2, $3, $4)
RETURNING id, name, email, COALESCE(student_type, ''), plan_type
`

// CreateUserProfile inserts the lazily-created profile for a first-seen user.
func (q *Queries) CreateUserProfile(ctx context.Context, id uuid.UUID, name, email string) (models.UserProfile, error) {
	var profile models.UserProfile
	err := q.db.QueryRow(ctx, createUserProfile, id, name, email, models.PlanFree).
		Scan(&profile.ID, &profile.Name, &profile.Email, &profile.StudentType, &profile.PlanType)
	if err != nil {
		return models.UserProfile{}, fmt.Errorf("failed to create user profile: %w", err)
	}
	return profile, nil
}

const updateStudentType = `
UPDATE user_profiles
SET student_type = $2
WHERE id = $1
RETURNING id, name, email, COALESCE(student_type, ''), plan_type
`

// UpdateStudentType overwrites the onboarding marker and returns the merged record.
func (q *Queries) UpdateStudentType(ctx context.Context, id uuid.UUID, studentType string) (models.UserProfile, error) {
	var profile models.UserProfile
	err := q.db.QueryRow(ctx, updateStudentType, id, studentType).
		Scan(&profile.ID, &profile.Name, &profile.Email, &profile.StudentType, &profile.PlanType)
	if err != nil {
		return models.UserProfile{}, fmt.Errorf("failed to update student type: %w", err)
	}
	return profile, nil
}

const updatePlanType = `
UPDATE user_profiles
SET plan_type = $2
WHERE id = $1
RETURNING id, name, email, COALESCE(student_type, ''), plan_type
`

// UpdatePlanType overwrites the plan tier and returns the merged record.
func (q *Queries) UpdatePlanType(ctx context.Context, id uuid.UUID, planType string) (models.UserProfile, error) {
	var profile models.UserProfile
	err := q.db.QueryRow(ctx, updatePlanType, id, planType).
		Scan(&profile.ID, &profile.Name, &profile.Email, &profile.StudentType, &profile.PlanType)
	if err != nil {
		return models.UserProfile{}, fmt.Errorf("failed to update plan type: %w", err)
	}
	return profile, nil
}

// txBeginner is satisfied by *pgxpool.Pool and pgx.Tx.
type txBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// CreateQuizWithQuestions inserts a quiz row and its question batch in one
// transaction, ordem running 1..N in array order. Either everything lands or
// nothing does; a failed question insert leaves no orphaned quiz row.
func (db *DB) CreateQuizWithQuestions(ctx context.Context, userID uuid.UUID, materialTitle string, questions []models.GeneratedQuestion) (models.Quiz, error) {
	return createQuizWithQuestions(ctx, db.Pool, db.Queries, userID, materialTitle, questions)
}

func createQuizWithQuestions(ctx context.Context, pool txBeginner, q *Queries, userID uuid.UUID, materialTitle string, questions []models.GeneratedQuestion) (models.Quiz, error) {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return models.Quiz{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) // no-op after Commit

	qtx := q.WithTx(tx)

	quiz, err := qtx.CreateQuiz(ctx, userID, materialTitle)
	if err != nil {
		return models.Quiz{}, err
	}

	for i, question := range questions {
		if _, err := qtx.CreateQuestion(ctx, quiz.ID, question, int32(i+1)); err != nil {
			return models.Quiz{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return models.Quiz{}, fmt.Errorf("failed to commit quiz %d: %w", quiz.ID, err)
	}
	return quiz, nil
}
