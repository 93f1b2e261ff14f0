package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"unicode/utf8"

	"selvaquiz/internal/models"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// ModelName is the Gemini model used for question generation.
const ModelName = "gemini-1.5-flash"

// Character limits applied to the extracted text before prompting, bounding
// request size and cost per path.
const (
	GuestTextLimit = 20000
	QuizTextLimit  = 30000
)

// GuestVariant selects the output shape of the guest generation call.
type GuestVariant int

const (
	// GuestMinimal yields questions carrying only {id, pergunta}.
	GuestMinimal GuestVariant = iota
	// GuestExtended additionally yields opcoes and resposta_correta.
	GuestExtended
)

const guestMinimalInstruction = `Você é um assistente educacional. Baseado no texto, gere 5 perguntas de múltipla escolha. Sua resposta deve ser APENAS um JSON válido, no formato: [ { "id": 1, "pergunta": "..." }, { "id": 2, "pergunta": "..." } ] Não inclua ` + "```json" + ` ou qualquer outro texto.`

const guestExtendedInstruction = `Você é um assistente educacional. Baseado no texto, gere 5 perguntas de múltipla escolha. Sua resposta deve ser APENAS um JSON válido, no formato: [ { "id": 1, "pergunta": "...", "opcoes": ["A", "B"], "resposta_correta": "A" }, { "id": 2, "pergunta": "..." } ] Não inclua ` + "```json" + ` ou qualquer outro texto.`

const quizInstruction = `Você é um assistente educacional especialista em criar quizzes. Baseado no texto fornecido, gere 7 perguntas de múltipla escolha. Sua resposta deve ser APENAS um JSON válido, seguindo este formato exato: [ { "pergunta": "...", "opcoes": ["A", "B", "C", "D"], "resposta_correta": "A" } ] Não inclua ` + "```json" + ` ou qualquer outro texto antes ou depois do array JSON.`

// ParseError reports that the model output could not be turned into the
// expected question array. It keeps the raw text for diagnosis.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse AI response: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Client wraps the Gemini client.
type Client struct {
	client *genai.Client
}

// NewClient creates a new Gemini client. It returns (nil, nil) when
// GEMINI_API_KEY is not set, so the server can run with generation disabled;
// handlers report a configuration error per request instead.
func NewClient(ctx context.Context) (*Client, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		log.Println("WARN: GEMINI_API_KEY not set. Question generation will be unavailable.")
		return nil, nil
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Client{client: client}, nil
}

// Close closes the Gemini client.
func (c *Client) Close() {
	if c != nil && c.client != nil {
		c.client.Close()
	}
}

// GenerateGuestQuiz generates 5 sample questions for the anonymous flow.
// The text is truncated to GuestTextLimit characters before prompting.
func (c *Client) GenerateGuestQuiz(ctx context.Context, text string, variant GuestVariant) ([]models.GuestQuestion, error) {
	instruction := guestMinimalInstruction
	if variant == GuestExtended {
		instruction = guestExtendedInstruction
	}

	prompt := fmt.Sprintf("Analise o seguinte texto e gere 5 perguntas de múltipla escolha:\n\n%s", truncate(text, GuestTextLimit))

	raw, err := c.generate(ctx, instruction, prompt)
	if err != nil {
		return nil, err
	}

	questions, err := parseQuestions[models.GuestQuestion](raw)
	if err != nil {
		return nil, err
	}
	return questions, nil
}

// GenerateQuiz generates 7 questions with options and a correct answer for
// the authenticated flow. The text is truncated to QuizTextLimit characters.
// The result is guaranteed to be a non-empty array.
func (c *Client) GenerateQuiz(ctx context.Context, text string) ([]models.GeneratedQuestion, error) {
	prompt := fmt.Sprintf("Analise o seguinte texto e gere 7 perguntas de múltipla escolha:\n\n%s", truncate(text, QuizTextLimit))

	raw, err := c.generate(ctx, quizInstruction, prompt)
	if err != nil {
		return nil, err
	}

	questions, err := parseQuestions[models.GeneratedQuestion](raw)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, &ParseError{Raw: raw, Err: fmt.Errorf("invalid questions format from AI: empty array")}
	}
	return questions, nil
}

// generate runs a single model invocation and returns the concatenated text
// parts of the first candidate. No retries: any failure aborts the request.
func (c *Client) generate(ctx context.Context, instruction, prompt string) (string, error) {
	model := c.client.GenerativeModel(ModelName)
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(instruction)}}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content generated")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String(), nil
}

// parseQuestions strips markdown fences from the raw model output and
// unmarshals it into a question array. Failures log the raw text.
func parseQuestions[T any](raw string) ([]T, error) {
	cleaned := StripCodeFences(raw)

	var questions []T
	if err := json.Unmarshal([]byte(cleaned), &questions); err != nil {
		log.Printf("ERROR: JSON parse error on model output: %v. Raw text: %s", err, raw)
		return nil, &ParseError{Raw: raw, Err: err}
	}
	return questions, nil
}

// StripCodeFences removes triple-backtick code fence markers, with or without
// a json language tag, from a model response.
func StripCodeFences(s string) string {
	s = strings.ReplaceAll(s, "```json\n", "")
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```\n", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// truncate cuts s to at most limit bytes without splitting a rune; the gRPC
// transport rejects prompts that are not valid UTF-8.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit]
}
