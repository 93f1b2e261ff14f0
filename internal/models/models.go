package models

import (
	"time"

	"github.com/google/uuid"
)

// Quiz represents a persisted quiz generated from an uploaded PDF.
// The ID is assigned by the database on insert; the row is never mutated afterwards.
type Quiz struct {
	ID            int64     `json:"id"`
	UserID        uuid.UUID `json:"user_id"`
	MaterialTitle string    `json:"material_title"`
	CreatedAt     time.Time `json:"created_at"`
}

// Question represents a persisted question belonging to exactly one quiz,
// ordered by Ordem (1-based position within the generation batch).
type Question struct {
	ID              int64    `json:"id"`
	QuizID          int64    `json:"quiz_id,omitempty"`
	Pergunta        string   `json:"pergunta"`
	Opcoes          []string `json:"opcoes,omitempty"`
	RespostaCorreta string   `json:"resposta_correta,omitempty"`
	Ordem           int32    `json:"ordem,omitempty"`
}

// UserProfile mirrors the auth subject plus onboarding and plan state.
// Created lazily on first observation of an authenticated session.
type UserProfile struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	StudentType string    `json:"student_type,omitempty"`
	PlanType    string    `json:"plan_type"`
}

// Plan tiers for user profiles.
const (
	PlanFree    = "free"
	PlanMonthly = "monthly"
	PlanAnnual  = "annual"
)

// GeneratedQuestion is the shape the generation model must return for the
// authenticated path: four options and one correct answer.
type GeneratedQuestion struct {
	Pergunta        string   `json:"pergunta"`
	Opcoes          []string `json:"opcoes"`
	RespostaCorreta string   `json:"resposta_correta"`
}

// GuestQuestion is the inline question shape returned by the guest path.
// Opcoes and RespostaCorreta are only present in the extended variant.
type GuestQuestion struct {
	ID              int      `json:"id"`
	Pergunta        string   `json:"pergunta"`
	Opcoes          []string `json:"opcoes,omitempty"`
	RespostaCorreta string   `json:"resposta_correta,omitempty"`
}

// GenerateQuizResponse is the authenticated generation response: the quiz
// identifier only, never the question bodies.
type GenerateQuizResponse struct {
	QuizID int64 `json:"quizId"`
}

// UploadResponse is returned by the upload endpoint.
type UploadResponse struct {
	FilePath string `json:"file_path"`
}

// ErrorResponse represents an error response envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}
