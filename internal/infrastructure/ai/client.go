// Package ai talks to an OpenAI-compatible chat completions endpoint to score
// products and to identify products in photos.
package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ecosnap/backend/internal/domain"
)

// maxErrorBody bounds how much of a failed response is logged
const maxErrorBody = 512

// ErrStatus is returned for non-2xx responses
var ErrStatus = errors.New("model endpoint returned error status")

// Config holds model endpoint settings
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	// Timeout of zero leaves the HTTP client without a deadline
	Timeout time.Duration
}

// Client calls the model endpoint. It performs exactly one request per call.
type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	model      string
	logger     *slog.Logger
}

// NewClient creates a new model client
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		model:      cfg.Model,
		logger:     logger.With("component", "ai"),
	}
}

// Configured reports whether an API credential is present
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Resolve asks the model for sub-scores. Every failure is reported as ok=false.
func (c *Client) Resolve(ctx context.Context, attrs *domain.ProductAttributes) (*domain.AIAssessment, bool) {
	if !c.Configured() {
		c.logger.Debug("no API key configured, skipping model")
		return nil, false
	}
	if attrs == nil {
		return nil, false
	}

	content, err := c.complete(ctx, []chatMessage{
		{Role: "user", Content: BuildScorePrompt(attrs)},
	})
	if err != nil {
		c.logger.Warn("score request failed", "product", attrs.Name, "error", err)
		return nil, false
	}

	assessment, err := ParseAssessment(content)
	if err != nil {
		c.logger.Warn("score response unusable", "product", attrs.Name, "error", err)
		return nil, false
	}

	c.logger.Debug("model scored product", "product", attrs.Name)
	return assessment, true
}

// IdentifyProduct sends the photo as a data URI and parses the product attributes
func (c *Client) IdentifyProduct(ctx context.Context, image []byte, mimeType string) (*domain.ProductAttributes, error) {
	if !c.Configured() {
		return nil, domain.ErrAIUnavailable
	}

	if mimeType == "" {
		mimeType = http.DetectContentType(image)
	}
	dataURI := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(image))

	content, err := c.complete(ctx, []chatMessage{{
		Role: "user",
		Content: []contentPart{
			{Type: "text", Text: identifyPrompt},
			{Type: "image_url", ImageURL: &imageURL{URL: dataURI}},
		},
	}})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrAIUnavailable, err)
	}

	return ParseIdentification(content)
}

// complete performs a single chat completion and returns the first choice's text
func (c *Client) complete(ctx context.Context, messages []chatMessage) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: 0.2,
	})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("User-Agent", "EcoSnap/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", fmt.Errorf("%w: status %d, body: %s", ErrStatus, resp.StatusCode, string(snippet))
	}

	var completion chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices", ErrNoJSON)
	}

	return completion.Choices[0].Message.Content, nil
}
