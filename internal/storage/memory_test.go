package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskwise/internal/models"
)

func TestMemoryStorage_SeedData(t *testing.T) {
	s := NewMemoryStorage()
	ctx := context.Background()

	tasks, err := s.GetTasks(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, 5)

	entries, err := s.GetContextEntries(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 3)

	categories, err := s.GetCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 5)
	assert.Equal(t, "Work", categories[0].Name)
	assert.Equal(t, 5, categories[0].UsageCount)
}

func TestMemoryStorage_CreateTask_AssignsIncreasingIDs(t *testing.T) {
	s := NewMemoryStorage()
	ctx := context.Background()

	lastID := 0
	for i := 0; i < 10; i++ {
		task, err := s.CreateTask(ctx, TaskInput{
			Title:    "task",
			Category: "Work",
			Priority: models.PriorityMedium,
		})
		require.NoError(t, err)
		assert.Greater(t, task.ID, lastID)
		lastID = task.ID
	}
}

func TestMemoryStorage_CreateTask_Defaults(t *testing.T) {
	s := NewMemoryStorage()
	ctx := context.Background()

	_, err := s.CreateCategory(ctx, CategoryInput{Name: "Errands", Color: "blue"})
	require.NoError(t, err)

	task, err := s.CreateTask(ctx, TaskInput{
		Title:    "X",
		Category: "Errands",
		Priority: models.PriorityHigh,
	})
	require.NoError(t, err)

	assert.Equal(t, models.TaskStatusPending, task.Status)
	assert.GreaterOrEqual(t, task.PriorityScore, 7)
	assert.LessOrEqual(t, task.PriorityScore, 9)
	assert.Equal(t, task.CreatedAt, task.UpdatedAt)

	categories, err := s.GetCategories(ctx)
	require.NoError(t, err)
	for _, c := range categories {
		if c.Name == "Errands" {
			assert.Equal(t, 1, c.UsageCount)
			return
		}
	}
	t.Fatal("category Errands missing")
}

func TestMemoryStorage_CreateTask_PriorityScoreBands(t *testing.T) {
	tests := []struct {
		priority string
		min, max int
	}{
		{models.PriorityHigh, 7, 9},
		{models.PriorityMedium, 4, 6},
		{models.PriorityLow, 1, 3},
		{"unknown", 5, 5},
	}

	s := NewMemoryStorage()
	ctx := context.Background()

	for _, tt := range tests {
		t.Run(tt.priority, func(t *testing.T) {
			// The banding is randomized; sample several times.
			for i := 0; i < 20; i++ {
				task, err := s.CreateTask(ctx, TaskInput{
					Title:    "banded",
					Category: "Work",
					Priority: tt.priority,
				})
				require.NoError(t, err)
				assert.GreaterOrEqual(t, task.PriorityScore, tt.min)
				assert.LessOrEqual(t, task.PriorityScore, tt.max)
			}
		})
	}
}

func TestMemoryStorage_CreateTask_ExplicitScoreKept(t *testing.T) {
	s := NewMemoryStorage()
	ctx := context.Background()

	score := 2
	task, err := s.CreateTask(ctx, TaskInput{
		Title:         "scored",
		Category:      "Work",
		Priority:      models.PriorityHigh,
		PriorityScore: &score,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, task.PriorityScore)
}

func TestMemoryStorage_UpdateTask(t *testing.T) {
	s := NewMemoryStorage()
	ctx := context.Background()

	created, err := s.CreateTask(ctx, TaskInput{
		Title:    "before",
		Category: "Work",
		Priority: models.PriorityLow,
	})
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	title := "after"
	status := models.TaskStatusCompleted
	updated, err := s.UpdateTask(ctx, created.ID, TaskUpdate{
		Title:  &title,
		Status: &status,
	})
	require.NoError(t, err)

	assert.Equal(t, "after", updated.Title)
	assert.Equal(t, models.TaskStatusCompleted, updated.Status)
	// Untouched fields survive a partial update.
	assert.Equal(t, created.Priority, updated.Priority)
	assert.Equal(t, created.Category, updated.Category)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))
}

func TestMemoryStorage_UpdateTask_NotFound(t *testing.T) {
	s := NewMemoryStorage()

	title := "nope"
	_, err := s.UpdateTask(context.Background(), 999, TaskUpdate{Title: &title})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "not found")
}

func TestMemoryStorage_DeleteTask(t *testing.T) {
	s := NewMemoryStorage()
	ctx := context.Background()

	require.NoError(t, s.DeleteTask(ctx, 1))

	task, err := s.GetTaskByID(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, task)
}

func TestMemoryStorage_DeleteTask_NotFound(t *testing.T) {
	s := NewMemoryStorage()
	ctx := context.Background()

	before, err := s.GetTasks(ctx)
	require.NoError(t, err)

	err = s.DeleteTask(ctx, 999)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "not found")

	after, err := s.GetTasks(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestMemoryStorage_GetTaskByID_MissingIsNil(t *testing.T) {
	s := NewMemoryStorage()

	task, err := s.GetTaskByID(context.Background(), 12345)
	require.NoError(t, err)
	assert.Nil(t, task)
}

func TestMemoryStorage_TaskOrdering(t *testing.T) {
	s := NewMemoryStorage()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := s.CreateTask(ctx, TaskInput{Title: "t", Category: "Work", Priority: models.PriorityLow})
		require.NoError(t, err)
	}

	tasks, err := s.GetTasks(ctx)
	require.NoError(t, err)
	for i := 1; i < len(tasks); i++ {
		assert.False(t, tasks[i].CreatedAt.After(tasks[i-1].CreatedAt),
			"tasks must be ordered newest first")
	}
}

func TestMemoryStorage_CategoryOrdering(t *testing.T) {
	s := NewMemoryStorage()
	ctx := context.Background()

	categories, err := s.GetCategories(ctx)
	require.NoError(t, err)
	for i := 1; i < len(categories); i++ {
		assert.GreaterOrEqual(t, categories[i-1].UsageCount, categories[i].UsageCount,
			"categories must be ordered by usage count descending")
	}
}

func TestMemoryStorage_CreateCategory_Duplicate(t *testing.T) {
	s := NewMemoryStorage()
	ctx := context.Background()

	before, err := s.GetCategories(ctx)
	require.NoError(t, err)

	_, err = s.CreateCategory(ctx, CategoryInput{Name: "Work", Color: "teal"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateName)

	after, err := s.GetCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestMemoryStorage_UsageCountMonotonic(t *testing.T) {
	s := NewMemoryStorage()
	ctx := context.Background()

	usage := func(name string) int {
		categories, err := s.GetCategories(ctx)
		require.NoError(t, err)
		for _, c := range categories {
			if c.Name == name {
				return c.UsageCount
			}
		}
		t.Fatalf("category %s missing", name)
		return 0
	}

	before := usage("Personal")
	const n = 4
	for i := 0; i < n; i++ {
		_, err := s.CreateTask(ctx, TaskInput{Title: "t", Category: "Personal", Priority: models.PriorityLow})
		require.NoError(t, err)
	}
	assert.Equal(t, before+n, usage("Personal"))
}

func TestMemoryStorage_AutoCreatesUnknownCategory(t *testing.T) {
	s := NewMemoryStorage()
	ctx := context.Background()

	_, err := s.CreateTask(ctx, TaskInput{Title: "t", Category: "Unknown", Priority: models.PriorityLow})
	require.NoError(t, err)

	categories, err := s.GetCategories(ctx)
	require.NoError(t, err)
	for _, c := range categories {
		if c.Name == "Unknown" {
			assert.Equal(t, 1, c.UsageCount)
			assert.Equal(t, "gray", c.Color)
			return
		}
	}
	t.Fatal("auto-created category missing")
}

func TestMemoryStorage_CreateContextEntry_ForcesUnprocessed(t *testing.T) {
	s := NewMemoryStorage()
	ctx := context.Background()

	entry, err := s.CreateContextEntry(ctx, ContextEntryInput{
		Content:    "test",
		SourceType: models.SourceTypeNote,
	})
	require.NoError(t, err)

	assert.False(t, entry.IsProcessed)
	assert.Nil(t, entry.ProcessedInsights)
	assert.Nil(t, entry.ExtractedTasks)
	assert.Equal(t, 4, entry.ID)
}

func TestMemoryStorage_UpdateContextEntry(t *testing.T) {
	s := NewMemoryStorage()
	ctx := context.Background()

	processed := true
	entry, err := s.UpdateContextEntry(ctx, 3, ContextEntryUpdate{
		ProcessedInsights: models.JSONPayload(`{"urgency_level":"low"}`),
		ExtractedTasks:    models.JSONPayload(`[]`),
		IsProcessed:       &processed,
	})
	require.NoError(t, err)

	assert.True(t, entry.IsProcessed)
	assert.JSONEq(t, `{"urgency_level":"low"}`, string(entry.ProcessedInsights))
	// Content is untouched by the partial update.
	assert.NotEmpty(t, entry.Content)
}

func TestMemoryStorage_UpdateContextEntry_NotFound(t *testing.T) {
	s := NewMemoryStorage()

	processed := true
	_, err := s.UpdateContextEntry(context.Background(), 404, ContextEntryUpdate{IsProcessed: &processed})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "not found")
}

func TestMemoryStorage_Stats(t *testing.T) {
	s := NewMemoryStorage()

	stats := s.Stats()
	assert.Equal(t, 5, stats.TotalTasks)
	assert.Equal(t, 4, stats.PendingTasks)
	assert.Equal(t, 1, stats.CompletedTasks)
	assert.Equal(t, 4, stats.AIEnhancedTasks)
	assert.Equal(t, 3, stats.TotalContextEntries)
	assert.Equal(t, 2, stats.ProcessedContextEntries)
	assert.Equal(t, 5, stats.TotalCategories)
}
