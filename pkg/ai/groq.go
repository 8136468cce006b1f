package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/johnquangdev/meeting-tasks/pkg/config"
)

// TaskPayload is the task shape exchanged with the model. IDs are carried
// through the round trip so that edits can be matched back to stored tasks.
type TaskPayload struct {
	ID              string  `json:"id,omitempty"`
	AssigneeName    string  `json:"assignee_name"`
	TaskDescription string  `json:"task_description"`
	Deadline        *string `json:"deadline,omitempty"`
	Priority        *string `json:"priority,omitempty"`
}

// GroqClient is a minimal client for Groq chat completions used for task
// extraction and modification
type GroqClient struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

// NewGroqClient creates a Groq client using values from the provided config.
// Pass a nil config to fall back to environment variables.
func NewGroqClient(cfg *config.GroqConfig) *GroqClient {
	var apiKey string
	if cfg != nil {
		apiKey = cfg.APIKey
	}
	if apiKey == "" {
		apiKey = os.Getenv("GROQ_API_KEY")
	}

	var base string
	if cfg != nil && cfg.BaseURL != "" {
		base = cfg.BaseURL
	} else {
		base = os.Getenv("GROQ_API_URL")
		if base == "" {
			base = "https://api.groq.com"
		}
	}

	model := "llama-3.1-70b-versatile"
	if cfg != nil && cfg.Model != "" {
		model = cfg.Model
	}

	timeout := 45 * time.Second
	if cfg != nil && cfg.Timeout > 0 {
		timeout = cfg.Timeout
	}

	return &GroqClient{
		apiKey:  apiKey,
		baseURL: base,
		model:   model,
		client:  &http.Client{Timeout: timeout},
	}
}

// ChatRequest is the shape for chat completion requests
type ChatRequest struct {
	Model       string      `json:"model,omitempty"`
	Messages    interface{} `json:"messages,omitempty"`
	Temperature float64     `json:"temperature"`
	MaxTokens   int         `json:"max_tokens,omitempty"`
}

// ChatResponse is a minimal response shape
type ChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// ExtractTasks sends the transcript to Groq and returns the parsed task list
func (g *GroqClient) ExtractTasks(ctx context.Context, transcript, additionalContext string) ([]TaskPayload, error) {
	content, err := g.chat(ctx, extractionPrompt(transcript, additionalContext))
	if err != nil {
		return nil, err
	}
	return ParseTaskResponse(content)
}

// ModifyTasks sends the current task set plus the user's instruction to Groq
// and returns the full replacement task list
func (g *GroqClient) ModifyTasks(ctx context.Context, transcript string, current []TaskPayload, instruction string) ([]TaskPayload, error) {
	currentJSON, err := json.MarshalIndent(current, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode current tasks: %w", err)
	}

	content, err := g.chat(ctx, modificationPrompt(transcript, string(currentJSON), instruction))
	if err != nil {
		return nil, err
	}
	return ParseTaskResponse(content)
}

// chat performs a single chat completion round trip and returns the
// assistant content
func (g *GroqClient) chat(ctx context.Context, prompt string) (string, error) {
	reqBody := ChatRequest{
		Model:       g.model,
		Messages:    []map[string]string{{"role": "user", "content": prompt}},
		Temperature: 0.0,
		MaxTokens:   8000,
	}

	b, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	endpoint := g.baseURL + "/openai/v1/chat/completions"
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("groq returned status %d", resp.StatusCode)
	}

	var cr ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", err
	}
	if len(cr.Choices) == 0 {
		return "", fmt.Errorf("empty response from groq")
	}
	return cr.Choices[0].Message.Content, nil
}
