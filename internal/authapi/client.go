package authapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidToken indicates the auth service rejected the bearer token.
var ErrInvalidToken = errors.New("invalid token")

// User is the identity resolved from a bearer token.
type User struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	Metadata struct {
		Name string `json:"name"`
	} `json:"user_metadata"`
}

// Client resolves bearer tokens against the managed auth service.
type Client struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
}

// NewClient creates an auth client from environment variables. It returns
// (nil, nil) when the auth service is not configured; the authenticated
// endpoints then report a configuration error per request.
func NewClient() (*Client, error) {
	baseURL := os.Getenv("SUPABASE_URL")
	serviceKey := os.Getenv("SUPABASE_SERVICE_KEY")

	if baseURL == "" || serviceKey == "" {
		log.Println("WARN: SUPABASE_URL or SUPABASE_SERVICE_KEY not set. Authenticated endpoints will be unavailable.")
		return nil, nil
	}

	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		serviceKey: serviceKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}, nil
}

// GetUser resolves a bearer token to its user identity.
// Any non-200 answer from the auth service maps to ErrInvalidToken.
func (c *Client) GetUser(ctx context.Context, token string) (*User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build auth request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("apikey", c.serviceKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("auth request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("WARN: auth service rejected token with status %d", resp.StatusCode)
		return nil, ErrInvalidToken
	}

	var user User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to decode auth response: %w", err)
	}
	if user.ID == uuid.Nil {
		return nil, ErrInvalidToken
	}
	return &user, nil
}
