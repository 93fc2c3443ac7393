// Package analysis wraps the hosted-LLM narrative analysis call. The call is
// opaque to the pipeline: its output is carried verbatim in the report and
// every failure is absorbed by the caller into an error field.
package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const systemPrompt = `You are a maritime traffic analyst. You receive a JSON ` +
	`snapshot of one Australian port's current vessel activity: the in-port ` +
	`roster, expected arrivals, recent port calls and aggregate statistics. ` +
	`Respond with a single JSON object and nothing else, with the fields ` +
	`"summary" (2-3 sentences on overall activity), "notable_vessels" (array ` +
	`of short strings) and "traffic_outlook" (one sentence). Quote concrete ` +
	`numbers from the snapshot.`

// Client calls a chat-completions API to produce the narrative analysis.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	endpoint   string
	model      string
	apiKey     string
}

// New builds a Client. rpm bounds outbound request rate; burst is kept at 2
// so a GET and a POST landing together do not queue behind each other.
func New(endpoint, model, apiKey string, rpm int) *Client {
	rps := rate.Limit(float64(rpm) / 60.0)
	return &Client{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		limiter:    rate.NewLimiter(rps, 2),
		endpoint:   endpoint,
		model:      model,
		apiKey:     apiKey,
	}
}

// Enabled reports whether an API key was configured. Without one the
// pipeline skips analysis entirely.
func (c *Client) Enabled() bool {
	return c != nil && c.apiKey != ""
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Analyze sends the report snapshot and returns the model's JSON payload.
// Non-JSON model output is wrapped under a "summary" key rather than
// rejected.
func (c *Client) Analyze(ctx context.Context, portName string, snapshot any) (map[string]any, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("analysis not configured")
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("analysis rate limiter: %w", err)
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	payload, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: fmt.Sprintf("Port: %s\n%s", portName, data)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("analysis call: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read analysis response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("analysis API status %d: %s", resp.StatusCode, truncate(body, 200))
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode analysis response: %w", err)
	}
	if parsed.Error != nil {
		return nil, fmt.Errorf("analysis API error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("analysis response had no choices")
	}

	content := parsed.Choices[0].Message.Content
	var out map[string]any
	if err := json.Unmarshal([]byte(content), &out); err != nil {
		return map[string]any{"summary": content}, nil
	}
	return out, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
