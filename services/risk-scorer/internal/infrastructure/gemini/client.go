// Package gemini calls the Gemini generateContent REST endpoint.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/fraudguard/fraudguard/pkg/httpclient"
)

// ErrEmptyReply is returned when the model produced no text.
var ErrEmptyReply = errors.New("gemini returned no candidates")

const (
	temperature     = 0.1
	maxOutputTokens = 256
)

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	Temperature      float64 `json:"temperature"`
	MaxOutputTokens  int     `json:"maxOutputTokens"`
	ResponseMimeType string  `json:"responseMimeType,omitempty"`
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
}

// Client implements port.AIScorer.
type Client struct {
	http   *httpclient.Client
	model  string
	apiKey string
}

// NewClient creates a Gemini Client for model.
func NewClient(http *httpclient.Client, model, apiKey string) *Client {
	return &Client{http: http, model: model, apiKey: apiKey}
}

// Generate sends prompt and returns the first candidate's text.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	req := generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{
			Temperature:      temperature,
			MaxOutputTokens:  maxOutputTokens,
			ResponseMimeType: "application/json",
		},
	}

	path := "/v1beta/models/" + url.PathEscape(c.model) + ":generateContent?" + url.Values{"key": {c.apiKey}}.Encode()

	var resp generateResponse
	if err := c.http.Post(ctx, path, req, &resp); err != nil {
		var se *httpclient.StatusError
		if errors.As(err, &se) {
			// The URL carries the API key.
			return "", fmt.Errorf("gemini %s: status %d", c.model, se.StatusCode)
		}
		return "", fmt.Errorf("gemini %s: %w", c.model, redact(err, c.apiKey))
	}

	if len(resp.Candidates) == 0 {
		return "", ErrEmptyReply
	}
	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	if strings.TrimSpace(b.String()) == "" {
		return "", ErrEmptyReply
	}
	return b.String(), nil
}

func redact(err error, secret string) error {
	if secret == "" {
		return err
	}
	return errors.New(strings.ReplaceAll(err.Error(), secret, "REDACTED"))
}
