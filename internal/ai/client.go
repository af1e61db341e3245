// Package ai talks to the external completion API that turns raw context and
// task text into structured suggestions. The rest of the application treats
// its payloads as opaque.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"taskwise/internal/models"
)

const defaultBaseURL = "https://api.openai.com/v1"

type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

// WithBaseURL points the client at a different API endpoint, e.g. a test
// server or a compatible proxy.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func NewClient(apiKey, model string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		model:      model,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
	Temperature float64 `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// complete runs one chat completion in JSON mode and returns the raw JSON
// document the model produced.
func (c *Client) complete(ctx context.Context, system, user string, temperature float64) (json.RawMessage, error) {
	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: temperature,
	}
	reqBody.ResponseFormat.Type = "json_object"

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build completion request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call completion API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read completion response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("completion API returned %d: %s", resp.StatusCode, truncate(body, 200))
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode completion response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("completion API returned no choices")
	}
	return json.RawMessage(parsed.Choices[0].Message.Content), nil
}

// EnhanceTaskInput carries the task fields plus recent context fed into the
// enhancement prompt.
type EnhanceTaskInput struct {
	Title          string
	Description    string
	Category       string
	ContextEntries []models.ContextEntry
}

// EnhanceTask asks the model to enrich a single task with context-aware
// description, category, priority, deadline and estimate suggestions.
func (c *Client) EnhanceTask(ctx context.Context, in EnhanceTaskInput) (*TaskSuggestion, error) {
	raw, err := c.complete(ctx, enhanceSystemPrompt, buildEnhancePrompt(in), 0.7)
	if err != nil {
		return nil, err
	}
	var suggestion TaskSuggestion
	if err := json.Unmarshal(raw, &suggestion); err != nil {
		return nil, fmt.Errorf("decode task suggestion: %w", err)
	}
	return &suggestion, nil
}

// ProcessContext extracts tasks, priority updates and suggestions from a
// batch of context entries.
func (c *Client) ProcessContext(ctx context.Context, entries []models.ContextEntry) (*ContextInsights, error) {
	raw, err := c.complete(ctx, processSystemPrompt, buildProcessPrompt(entries), 0.3)
	if err != nil {
		return nil, err
	}
	var insights ContextInsights
	if err := json.Unmarshal(raw, &insights); err != nil {
		return nil, fmt.Errorf("decode context insights: %w", err)
	}
	return &insights, nil
}

// PrioritizeTasks reorders tasks by the id order the model returns; tasks
// the model leaves out keep their relative order at the tail. If the model
// call fails the input order is returned unchanged.
func (c *Client) PrioritizeTasks(ctx context.Context, tasks []models.Task, entries []models.ContextEntry) []models.Task {
	raw, err := c.complete(ctx, prioritizeSystemPrompt, buildPrioritizePrompt(tasks, entries), 0.2)
	if err != nil {
		log.Printf("ai: prioritization failed, keeping stored order: %v", err)
		return tasks
	}

	var result struct {
		PrioritizedTaskIDs []int  `json:"prioritizedTaskIds"`
		Reasoning          string `json:"reasoning"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		log.Printf("ai: prioritization returned invalid JSON, keeping stored order: %v", err)
		return tasks
	}

	byID := make(map[int]models.Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}

	ordered := make([]models.Task, 0, len(tasks))
	picked := make(map[int]bool, len(result.PrioritizedTaskIDs))
	for _, id := range result.PrioritizedTaskIDs {
		if t, ok := byID[id]; ok && !picked[id] {
			ordered = append(ordered, t)
			picked[id] = true
		}
	}
	for _, t := range tasks {
		if !picked[t.ID] {
			ordered = append(ordered, t)
		}
	}
	return ordered
}

// GenerateSuggestions produces 3-5 productivity suggestions from the current
// tasks and recent context. Failures degrade to an empty list.
func (c *Client) GenerateSuggestions(ctx context.Context, tasks []models.Task, entries []models.ContextEntry) []Suggestion {
	raw, err := c.complete(ctx, suggestSystemPrompt, buildSuggestionsPrompt(tasks, entries), 0.6)
	if err != nil {
		log.Printf("ai: suggestion generation failed: %v", err)
		return []Suggestion{}
	}

	var result struct {
		Suggestions []Suggestion `json:"suggestions"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		log.Printf("ai: suggestions returned invalid JSON: %v", err)
		return []Suggestion{}
	}
	if result.Suggestions == nil {
		return []Suggestion{}
	}
	return result.Suggestions
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
