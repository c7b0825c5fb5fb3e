// Package chatgpt calls the ChatGPT Responses API with the access token
// and account ID produced by the oauth package, and extracts the generated
// text from the SSE response stream.
package chatgpt

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"runtime"
	"strings"
	"time"
)

// DefaultResponsesURL is the Codex Responses API endpoint.
const DefaultResponsesURL = "https://chatgpt.com/backend-api/codex/responses"

// DefaultTimeout bounds a single generation request, including streaming.
const DefaultTimeout = 120 * time.Second

// Client is a minimal Responses API client. It owns nothing about token
// lifecycle; callers pass a validated (access token, account ID) pair.
type Client struct {
	url        string
	httpClient *http.Client
}

// NewClient creates a Responses API client. Empty url and nil httpClient
// select production defaults.
func NewClient(url string, httpClient *http.Client) *Client {
	if url == "" {
		url = DefaultResponsesURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}

	return &Client{url: url, httpClient: httpClient}
}

// message is a single input turn.
type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// request is the Responses API payload.
type request struct {
	Model             string    `json:"model"`
	Instructions      string    `json:"instructions"`
	Input             []message `json:"input"`
	Tools             []any     `json:"tools"`
	ToolChoice        string    `json:"tool_choice"`
	ParallelToolCalls bool      `json:"parallel_tool_calls"`
	Store             bool      `json:"store"`
	Stream            bool      `json:"stream"`
}

// GenerateCommand asks the model for a shell command matching the prompt.
// The returned text has one command per line, the preferred one first.
func (c *Client) GenerateCommand(ctx context.Context, accessToken, accountID, model, prompt string) (string, error) {
	payload := request{
		Model:        model,
		Instructions: instructions(),
		Input: []message{
			{Role: "user", Content: prompt},
		},
		Tools:      []any{},
		ToolChoice: "auto",
		Store:      false,
		Stream:     true,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("chatgpt-account-id", accountID)
	req.Header.Set("OpenAI-Beta", "responses=experimental")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("API error: %d - %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	text, err := extractText(resp.Body)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(text), nil
}

// sseEvent is the subset of stream event fields we consume. Delta is
// either a plain string or an object with a text field depending on the
// event type, so it stays raw until inspected.
type sseEvent struct {
	Type  string          `json:"type"`
	Delta json.RawMessage `json:"delta"`
}

// extractText scans an SSE stream and concatenates the output text deltas.
// Undecodable events are skipped; the stream ends at EOF or a [DONE]
// sentinel.
func extractText(r io.Reader) (string, error) {
	var sb strings.Builder

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}

		data := strings.TrimPrefix(line, "data: ")
		if data == "[DONE]" {
			break
		}

		var event sseEvent
		if err := json.Unmarshal([]byte(data), &event); err != nil {
			continue
		}

		sb.WriteString(deltaText(event))
	}

	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("reading response stream: %w", err)
	}

	return sb.String(), nil
}

// deltaText pulls the text fragment out of a stream event.
func deltaText(event sseEvent) string {
	if len(event.Delta) == 0 {
		return ""
	}

	if event.Type == "response.output_text.delta" {
		var delta string
		if err := json.Unmarshal(event.Delta, &delta); err == nil {
			return delta
		}
		return ""
	}

	// Other event shapes carry either a bare string delta or an object
	// with a text field.
	var delta string
	if err := json.Unmarshal(event.Delta, &delta); err == nil {
		return delta
	}

	var obj struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(event.Delta, &obj); err == nil {
		return obj.Text
	}

	return ""
}

// instructions builds the system prompt, naming the user's platform so the
// generated commands fit it.
func instructions() string {
	return fmt.Sprintf(`You are an expert shell command generator for %s.
Respond with ONLY the exact shell command. No explanation. No markdown. No backticks.
If there are alternatives, put them on separate lines.`, osName())
}

// osName maps runtime.GOOS to a human-readable platform name.
func osName() string {
	switch runtime.GOOS {
	case "linux":
		return "Linux"
	case "darwin":
		return "macOS"
	case "windows":
		return "Windows"
	default:
		return runtime.GOOS
	}
}
