package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskwise/internal/models"
)

// fakeCompletionServer answers every chat completion with the given JSON
// document, recording the last request body.
func fakeCompletionServer(t *testing.T, content string) (*httptest.Server, *chatRequest) {
	t.Helper()
	var last chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&last))

		resp := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]interface{}{"content": content}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv, &last
}

func TestClient_EnhanceTask(t *testing.T) {
	srv, last := fakeCompletionServer(t, `{
		"enhancedDescription": "Do it with context",
		"suggestedCategory": "Work",
		"suggestedPriority": "high",
		"suggestedDeadline": "2025-09-05",
		"estimatedTime": "2 hours",
		"reasoning": "deadline in context"
	}`)

	c := NewClient("test-key", "gpt-4o", WithBaseURL(srv.URL))
	suggestion, err := c.EnhanceTask(context.Background(), EnhanceTaskInput{
		Title: "Write report",
		ContextEntries: []models.ContextEntry{
			{Content: "Boss wants the report Friday", SourceType: models.SourceTypeEmail},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "Work", suggestion.SuggestedCategory)
	assert.Equal(t, "high", suggestion.SuggestedPriority)
	assert.Equal(t, "2 hours", suggestion.EstimatedTime)

	assert.Equal(t, "gpt-4o", last.Model)
	assert.Equal(t, "json_object", last.ResponseFormat.Type)
	require.Len(t, last.Messages, 2)
	assert.Equal(t, "system", last.Messages[0].Role)
	assert.Contains(t, last.Messages[1].Content, "Write report")
	assert.Contains(t, last.Messages[1].Content, "Boss wants the report Friday")
}

func TestClient_ProcessContext(t *testing.T) {
	srv, last := fakeCompletionServer(t, `{
		"extractedTasks": [
			{"title": "Prepare slides", "description": "For Friday", "category": "Work", "priority": "high", "urgency": 9}
		],
		"priorityUpdates": [],
		"suggestions": [
			{"type": "schedule", "message": "Block Friday morning", "actionable": true}
		]
	}`)

	c := NewClient("test-key", "gpt-4o", WithBaseURL(srv.URL))
	insights, err := c.ProcessContext(context.Background(), []models.ContextEntry{
		{Content: "meeting friday", SourceType: models.SourceTypeNote},
	})
	require.NoError(t, err)

	require.Len(t, insights.ExtractedTasks, 1)
	assert.Equal(t, "Prepare slides", insights.ExtractedTasks[0].Title)
	assert.Equal(t, 9, insights.ExtractedTasks[0].Urgency)
	require.Len(t, insights.Suggestions, 1)
	assert.True(t, insights.Suggestions[0].Actionable)

	// Source types are labeled in the prompt.
	assert.Contains(t, last.Messages[1].Content, "[NOTE] meeting friday")
}

func TestClient_PrioritizeTasks(t *testing.T) {
	tasks := []models.Task{
		{ID: 1, Title: "a"},
		{ID: 2, Title: "b"},
		{ID: 3, Title: "c"},
	}

	t.Run("reorders by returned ids, keeps leftovers", func(t *testing.T) {
		srv, _ := fakeCompletionServer(t, `{"prioritizedTaskIds": [3, 1], "reasoning": "c first"}`)
		c := NewClient("test-key", "gpt-4o", WithBaseURL(srv.URL))

		ordered := c.PrioritizeTasks(context.Background(), tasks, nil)
		require.Len(t, ordered, 3)
		assert.Equal(t, 3, ordered[0].ID)
		assert.Equal(t, 1, ordered[1].ID)
		assert.Equal(t, 2, ordered[2].ID)
	})

	t.Run("ignores unknown and duplicate ids", func(t *testing.T) {
		srv, _ := fakeCompletionServer(t, `{"prioritizedTaskIds": [2, 2, 99], "reasoning": "noise"}`)
		c := NewClient("test-key", "gpt-4o", WithBaseURL(srv.URL))

		ordered := c.PrioritizeTasks(context.Background(), tasks, nil)
		require.Len(t, ordered, 3)
		assert.Equal(t, 2, ordered[0].ID)
		assert.Equal(t, 1, ordered[1].ID)
		assert.Equal(t, 3, ordered[2].ID)
	})

	t.Run("keeps stored order on API failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		defer srv.Close()
		c := NewClient("test-key", "gpt-4o", WithBaseURL(srv.URL))

		ordered := c.PrioritizeTasks(context.Background(), tasks, nil)
		require.Len(t, ordered, 3)
		assert.Equal(t, 1, ordered[0].ID)
		assert.Equal(t, 2, ordered[1].ID)
		assert.Equal(t, 3, ordered[2].ID)
	})
}

func TestClient_GenerateSuggestions(t *testing.T) {
	t.Run("parses suggestions", func(t *testing.T) {
		srv, _ := fakeCompletionServer(t, `{"suggestions": [
			{"type": "break", "message": "Take a walk", "actionable": true},
			{"type": "optimize", "message": "Batch errands", "actionable": true}
		]}`)
		c := NewClient("test-key", "gpt-4o", WithBaseURL(srv.URL))

		suggestions := c.GenerateSuggestions(context.Background(), nil, nil)
		require.Len(t, suggestions, 2)
		assert.Equal(t, "break", suggestions[0].Type)
	})

	t.Run("degrades to empty list on failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		defer srv.Close()
		c := NewClient("test-key", "gpt-4o", WithBaseURL(srv.URL))

		suggestions := c.GenerateSuggestions(context.Background(), nil, nil)
		assert.NotNil(t, suggestions)
		assert.Empty(t, suggestions)
	})
}

func TestClient_CompleteErrors(t *testing.T) {
	t.Run("non-200 status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error": "rate limited"}`, http.StatusTooManyRequests)
		}))
		defer srv.Close()
		c := NewClient("test-key", "gpt-4o", WithBaseURL(srv.URL))

		_, err := c.EnhanceTask(context.Background(), EnhanceTaskInput{Title: "x"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "429")
	})

	t.Run("no choices", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]interface{}{"choices": []interface{}{}})
		}))
		defer srv.Close()
		c := NewClient("test-key", "gpt-4o", WithBaseURL(srv.URL))

		_, err := c.EnhanceTask(context.Background(), EnhanceTaskInput{Title: "x"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no choices")
	})
}
