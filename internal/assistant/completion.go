package assistant

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

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/tair/lumina-storefront/internal/platform/breaker"
)

// ErrCompletionFailed wraps every failure of the completion service.
var ErrCompletionFailed = errors.New("completion request failed")

// CompletionRequest is one system-framed, single-turn prompt.
type CompletionRequest struct {
	SystemInstruction string
	Message           string
	Temperature       float64
}

// Completer produces a model reply for a prompt.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// GenerateContentClient calls a generateContent style completion endpoint.
type GenerateContentClient struct {
	baseURL string
	model   string
	apiKey  string
	client  *http.Client
	breaker *breaker.Breaker
}

// NewGenerateContentClient creates a traced, circuit-broken completion client.
func NewGenerateContentClient(baseURL, model, apiKey string) *GenerateContentClient {
	return &GenerateContentClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		apiKey:  apiKey,
		client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		breaker: breaker.New("completion", breaker.DefaultSettings()),
	}
}

// Breaker exposes the client's circuit breaker for health reporting.
func (c *GenerateContentClient) Breaker() *breaker.Breaker { return c.breaker }

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generateRequest struct {
	SystemInstruction *content  `json:"systemInstruction,omitempty"`
	Contents          []content `json:"contents"`
	GenerationConfig  struct {
		Temperature float64 `json:"temperature"`
	} `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Complete sends req and returns the concatenated text of the first candidate.
// An empty reply is not an error.
func (c *GenerateContentClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	body := generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: req.Message}}}},
	}
	if req.SystemInstruction != "" {
		body.SystemInstruction = &content{Parts: []part{{Text: req.SystemInstruction}}}
	}
	body.GenerationConfig.Temperature = req.Temperature

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal completion request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, url.PathEscape(c.model))

	var text string
	err = c.breaker.Call(func() error {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
		if err != nil {
			return err
		}
		httpReq.Header.Set("Content-Type", "application/json")
		if c.apiKey != "" {
			httpReq.Header.Set("x-goog-api-key", c.apiKey)
		}

		resp, err := c.client.Do(httpReq)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
			return fmt.Errorf("unexpected status %d", resp.StatusCode)
		}

		var decoded generateResponse
		if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
			return fmt.Errorf("decode completion response: %w", err)
		}
		if len(decoded.Candidates) > 0 {
			var sb strings.Builder
			for _, p := range decoded.Candidates[0].Content.Parts {
				sb.WriteString(p.Text)
			}
			text = sb.String()
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrCompletionFailed, err)
	}

	return text, nil
}
