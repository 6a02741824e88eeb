// Package ai talks to the Gemini generateContent REST API.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rebelice/jsonstudio/internal/logging"
)

const (
	// DefaultBaseURL is the Gemini v1beta endpoint
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	// AutoModel asks the client to pick a model from the account's list
	AutoModel = "auto"
	// FallbackModel is used when the model list cannot be fetched
	FallbackModel = "gemini-1.5-flash-001"

	defaultTimeout = 60 * time.Second
)

var (
	// ErrMissingAPIKey is returned before any request when no key is set
	ErrMissingAPIKey = errors.New("gemini API key is not set")
	// ErrRateLimited is returned for HTTP 429
	ErrRateLimited = errors.New("rate limit exceeded, please wait a moment before trying again")
	// ErrEmptyResponse is returned when the first candidate has no text
	ErrEmptyResponse = errors.New("no response from AI")
	// ErrNoModels is returned when the key can use no generateContent model
	ErrNoModels = errors.New("no compatible Gemini models found for this key")
)

// APIError is a non-2xx response other than 429
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("failed to contact Gemini (status %d)", e.StatusCode)
	}
	return fmt.Sprintf("gemini: %s (status %d)", e.Message, e.StatusCode)
}

// Model is one entry of the models listing
type Model struct {
	Name                       string   `json:"name"`
	DisplayName                string   `json:"displayName"`
	SupportedGenerationMethods []string `json:"supportedGenerationMethods"`
}

// SupportsGenerate reports whether the model accepts generateContent
func (m Model) SupportsGenerate() bool {
	for _, method := range m.SupportedGenerationMethods {
		if method == "generateContent" {
			return true
		}
	}
	return false
}

// Client is a Gemini client. The zero value is not usable; use NewClient.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// Option configures a Client
type Option func(*Client)

// WithBaseURL points the client at another endpoint, e.g. a test server
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient replaces the HTTP client
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// WithModel sets the preferred model. Empty or "auto" selects one per call.
func WithModel(model string) Option {
	return func(c *Client) { c.model = model }
}

// NewClient creates a client for apiKey
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		apiKey:     apiKey,
		model:      AutoModel,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Model returns the preferred model setting
func (c *Client) Model() string { return c.model }

// ListModels returns the models that support generateContent
func (c *Client) ListModels(ctx context.Context) ([]Model, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint("models"), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	var out struct {
		Models []Model `json:"models"`
	}
	if err := c.do(req, &out); err != nil {
		return nil, err
	}

	models := make([]Model, 0, len(out.Models))
	for _, m := range out.Models {
		if m.SupportsGenerate() {
			models = append(models, m)
		}
	}
	return models, nil
}

var modelPriority = []string{"gemini-1.5-flash", "gemini-1.5-pro", "gemini-1.0-pro", "gemini-pro"}

// PickModel chooses from a listing: the first match of the priority list,
// otherwise the first model
func PickModel(models []Model) (string, error) {
	for _, want := range modelPriority {
		for _, m := range models {
			if strings.Contains(m.Name, want) {
				return m.Name, nil
			}
		}
	}
	if len(models) == 0 {
		return "", ErrNoModels
	}
	return models[0].Name, nil
}

// BestModel resolves the model to use for a request. A failed listing
// falls back to FallbackModel.
func (c *Client) BestModel(ctx context.Context) string {
	logger := logging.FromContext(ctx)

	models, err := c.ListModels(ctx)
	if err != nil {
		logger.Warn("Failed to list models, using fallback", "model", FallbackModel, "err", err)
		return FallbackModel
	}
	name, err := PickModel(models)
	if err != nil {
		logger.Warn("No usable model in listing, using fallback", "model", FallbackModel)
		return FallbackModel
	}
	return name
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Generate sends prompt to model and returns the text of the first
// candidate. An empty or "auto" model is resolved with BestModel.
func (c *Client) Generate(ctx context.Context, model, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", ErrMissingAPIKey
	}
	if model == "" || model == AutoModel {
		model = c.BestModel(ctx)
	}

	logger := logging.FromContext(ctx)
	progress := logging.NewProgress(logger)

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(modelPath(model)+":generateContent"), bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var out generateResponse
	if err := c.do(req, &out); err != nil {
		return "", err
	}

	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyResponse
	}
	text := out.Candidates[0].Content.Parts[0].Text
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}

	progress.Done("Generated with " + model)
	return text, nil
}

// modelPath makes sure the name carries exactly one "models/" prefix
func modelPath(model string) string {
	if strings.HasPrefix(model, "models/") {
		return model
	}
	return "models/" + model
}

func (c *Client) endpoint(path string) string {
	return c.baseURL + "/" + path + "?key=" + url.QueryEscape(c.apiKey)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to contact Gemini: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return ErrRateLimited
	}
	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		_ = json.Unmarshal(data, &apiErr)
		return &APIError{StatusCode: resp.StatusCode, Message: apiErr.Error.Message}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
