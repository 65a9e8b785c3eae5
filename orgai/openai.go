package orgai

import (
	"context"
	"net/http"
	"os"
)

const openAIURL = "https://api.openai.com/v1/chat/completions"

// OpenAIBackend talks to the OpenAI chat completions API.
type OpenAIBackend struct {
	URL    string
	Model  string
	APIKey string
	Client *http.Client
}

// NewOpenAIBackend reads OPENAI_API_KEY from the environment.
func NewOpenAIBackend() *OpenAIBackend {
	return &OpenAIBackend{
		URL:    openAIURL,
		Model:  "gpt-5-mini",
		APIKey: os.Getenv("OPENAI_API_KEY"),
	}
}

func (o *OpenAIBackend) Name() string { return "openai" }

func (o *OpenAIBackend) Models() []string {
	return []string{"gpt-5", "gpt-5-mini", "gpt-4o", "gpt-4o-mini"}
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIRequest struct {
	Model       string          `json:"model"`
	Stream      bool            `json:"stream"`
	Temperature *float64        `json:"temperature,omitempty"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
	Messages    []openAIMessage `json:"messages"`
}

type openAIResponse struct {
	Choices []struct {
		Message openAIMessage `json:"message"`
	} `json:"choices"`
}

func (o *OpenAIBackend) Complete(ctx context.Context, req Request) (string, error) {
	model := req.Model
	if model == "" {
		model = o.Model
	}
	wire := openAIRequest{
		Model:       model,
		Stream:      false,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
		Messages:    openaifyTurns(req.System, req.Turns),
	}
	headers := map[string]string{"Authorization": "Bearer " + o.APIKey}
	var out openAIResponse
	if err := postJSON(ctx, o.Client, o.Name(), o.URL, headers, wire, &out); err != nil {
		return "", err
	}
	if len(out.Choices) == 0 {
		return "", &BackendError{Backend: o.Name(), StatusCode: 200, Message: "response carried no choices"}
	}
	return out.Choices[0].Message.Content, nil
}

// openaifyTurns renders the system text as a leading system message and
// keeps the remaining turns as plain role/content pairs, skipping empty
// ones.
func openaifyTurns(system string, turns []Turn) []openAIMessage {
	msgs := make([]openAIMessage, 0, len(turns)+1)
	if system != "" {
		msgs = append(msgs, openAIMessage{Role: "system", Content: system})
	}
	for _, t := range turns {
		if t.Content == "" {
			continue
		}
		msgs = append(msgs, openAIMessage{Role: string(t.Role), Content: t.Content})
	}
	return msgs
}
