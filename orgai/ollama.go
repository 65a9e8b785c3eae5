package orgai

import (
	"context"
	"net/http"
	"os"
	"strings"
)

// OllamaBackend talks to a local ollama daemon through its
// OpenAI-compatible chat endpoint. No auth.
type OllamaBackend struct {
	Host   string
	Model  string
	Client *http.Client
}

// NewOllamaBackend reads OLLAMA_HOST from the environment, defaulting
// to the daemon's standard local address.
func NewOllamaBackend() *OllamaBackend {
	host := os.Getenv("OLLAMA_HOST")
	if host == "" {
		host = "http://localhost:11434"
	}
	return &OllamaBackend{Host: host, Model: "llama3.2"}
}

func (o *OllamaBackend) Name() string { return "ollama" }

func (o *OllamaBackend) Models() []string {
	return []string{"llama3.2", "mistral", "qwen2.5"}
}

func (o *OllamaBackend) Complete(ctx context.Context, req Request) (string, error) {
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
	url := strings.TrimRight(o.Host, "/") + "/v1/chat/completions"
	var out openAIResponse
	if err := postJSON(ctx, o.Client, o.Name(), url, nil, wire, &out); err != nil {
		return "", err
	}
	if len(out.Choices) == 0 {
		return "", &BackendError{Backend: o.Name(), StatusCode: 200, Message: "response carried no choices"}
	}
	return out.Choices[0].Message.Content, nil
}
