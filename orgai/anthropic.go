package orgai

import (
	"context"
	"net/http"
	"os"
	"strings"
)

const anthropicURL = "https://api.anthropic.com/v1/messages"

// AnthropicBackend talks to the Anthropic messages API.
type AnthropicBackend struct {
	URL     string
	Version string
	Model   string
	APIKey  string
	Client  *http.Client
}

// NewAnthropicBackend reads ANTHROPIC_API_KEY from the environment.
func NewAnthropicBackend() *AnthropicBackend {
	return &AnthropicBackend{
		URL:     anthropicURL,
		Version: "2023-06-01",
		Model:   "claude-sonnet-4-5",
		APIKey:  os.Getenv("ANTHROPIC_API_KEY"),
	}
}

func (a *AnthropicBackend) Name() string { return "anthropic" }

func (a *AnthropicBackend) Models() []string {
	return []string{"claude-sonnet-4-5", "claude-haiku-4-5", "claude-opus-4-1"}
}

type anthropicContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type anthropicMessage struct {
	Role    string             `json:"role"`
	Content []anthropicContent `json:"content"`
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	Stream      bool               `json:"stream"`
	System      string             `json:"system,omitempty"`
	Temperature *float64           `json:"temperature,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
}

type anthropicResponse struct {
	Content    []anthropicContent `json:"content"`
	StopReason string             `json:"stop_reason"`
}

func (a *AnthropicBackend) Complete(ctx context.Context, req Request) (string, error) {
	model := req.Model
	if model == "" {
		model = a.Model
	}
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = 1024
	}
	wire := anthropicRequest{
		Model:       model,
		MaxTokens:   maxTokens,
		Stream:      false,
		System:      req.System,
		Temperature: req.Temperature,
		Messages:    anthropifyTurns(req.Turns),
	}
	headers := map[string]string{
		"x-api-key":         a.APIKey,
		"anthropic-version": a.Version,
	}
	var out anthropicResponse
	if err := postJSON(ctx, a.Client, a.Name(), a.URL, headers, wire, &out); err != nil {
		return "", err
	}
	var sb strings.Builder
	for _, c := range out.Content {
		if c.Type == "" || c.Type == "text" {
			sb.WriteString(c.Text)
		}
	}
	return sb.String(), nil
}

// anthropifyTurns converts turns into the message shape the API
// accepts: empty turns are dropped, consecutive same-role turns merge,
// and a trailing assistant turn is removed.
func anthropifyTurns(turns []Turn) []anthropicMessage {
	msgs := make([]anthropicMessage, 0, len(turns))
	for _, t := range turns {
		if strings.TrimSpace(t.Content) == "" {
			continue
		}
		role := string(t.Role)
		if role != "user" && role != "assistant" {
			role = "user"
		}
		if len(msgs) > 0 && msgs[len(msgs)-1].Role == role {
			last := &msgs[len(msgs)-1]
			last.Content = append(last.Content, anthropicContent{Type: "text", Text: t.Content})
			continue
		}
		msgs = append(msgs, anthropicMessage{
			Role:    role,
			Content: []anthropicContent{{Type: "text", Text: t.Content}},
		})
	}
	if len(msgs) > 0 && msgs[len(msgs)-1].Role == "assistant" {
		msgs = msgs[:len(msgs)-1]
	}
	return msgs
}
