// Package apiclient talks to the CalSnap REST API on behalf of one signed-in
// user. It satisfies the mealsync store interfaces.
package apiclient

import (
	"bytes"
	"calsnap/internal/models"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	DefaultBaseURL = "http://localhost:3000"
	DefaultTimeout = 60 * time.Second

	analyzeFallbackMessage = "Failed to analyze food"
)

var ErrMissingSubject = errors.New("token has no subject")

// APIError is a non-2xx answer from the API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func New(baseURL, token string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// envelope is the {"status","message","data","error"} shape of the REST API.
type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func (c *Client) ListMeals(ctx context.Context, from, to time.Time) ([]models.Meal, error) {
	q := url.Values{}
	q.Set("from", from.Format(time.RFC3339))
	q.Set("to", to.Format(time.RFC3339))

	meals := []models.Meal{}
	if err := c.do(ctx, http.MethodGet, "/api/meals?"+q.Encode(), nil, &meals); err != nil {
		return nil, err
	}
	return meals, nil
}

func (c *Client) CreateMeal(ctx context.Context, draft models.MealDraft) (*models.Meal, error) {
	var meal models.Meal
	if err := c.do(ctx, http.MethodPost, "/api/meals", draft, &meal); err != nil {
		return nil, err
	}
	return &meal, nil
}

func (c *Client) UpdateMeal(ctx context.Context, id string, patch models.MealPatch) (*models.Meal, error) {
	var meal models.Meal
	if err := c.do(ctx, http.MethodPatch, "/api/meals/"+url.PathEscape(id), patch, &meal); err != nil {
		return nil, err
	}
	return &meal, nil
}

func (c *Client) DeleteMeal(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/meals/"+url.PathEscape(id), nil, nil)
}

func (c *Client) GetProfile(ctx context.Context) (*models.Profile, error) {
	var profile models.Profile
	if err := c.do(ctx, http.MethodGet, "/api/profile", nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (c *Client) UpdateProfile(ctx context.Context, patch models.ProfilePatch) (*models.Profile, error) {
	var profile models.Profile
	if err := c.do(ctx, http.MethodPatch, "/api/profile", patch, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// UploadPhoto stores an image and returns its public URL.
func (c *Client) UploadPhoto(ctx context.Context, image string) (string, error) {
	var data struct {
		PhotoURL string `json:"photo_url"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/photos", models.PhotoUploadRequest{Image: image}, &data); err != nil {
		return "", err
	}
	return data.PhotoURL, nil
}

// AnalyzeFood calls the analysis proxy. Its answers are bare JSON rather than
// the envelope; failures carry the server's "message" when present.
func (c *Client) AnalyzeFood(ctx context.Context, image string) (*models.AnalysisResult, error) {
	resp, err := c.send(ctx, http.MethodPost, "/api/analyze-food", models.AnalyzeFoodRequest{Image: image})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var body struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		message := analyzeFallbackMessage
		if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Message != "" {
			message = body.Message
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Message: message}
	}

	var result models.AnalysisResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode analysis: %w", err)
	}
	return &result, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	resp, err := c.send(ctx, method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := env.Error
		if message == "" {
			message = env.Message
		}
		if decodeErr != nil || message == "" {
			message = http.StatusText(resp.StatusCode)
		}
		return &APIError{StatusCode: resp.StatusCode, Message: message}
	}
	if decodeErr != nil {
		return fmt.Errorf("failed to decode response: %w", decodeErr)
	}

	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("failed to decode response data: %w", err)
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	return resp, nil
}

// UserIDFromToken reads the subject of an access token without verifying
// it. The server verifies every request; the client only needs to know who
// is signed in.
func UserIDFromToken(token string) (string, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return "", fmt.Errorf("failed to parse token: %w", err)
	}
	sub, err := claims.GetSubject()
	if err != nil {
		return "", fmt.Errorf("failed to read token subject: %w", err)
	}
	if sub == "" {
		return "", ErrMissingSubject
	}
	return sub, nil
}
