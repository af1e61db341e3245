package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"taskwise/internal/models"
)

// MemoryStorage is a fully functional in-process implementation of Storage,
// used when the database is unreachable. It is seeded with a fixed
// demonstration dataset at construction and keeps nothing across restarts.
type MemoryStorage struct {
	mu             sync.RWMutex
	tasks          []models.Task
	entries        []models.ContextEntry
	categories     []models.Category
	nextTaskID     int
	nextEntryID    int
	nextCategoryID int
}

// MemoryStats is a snapshot of the adapter's contents, useful for debugging.
type MemoryStats struct {
	TotalTasks              int `json:"totalTasks"`
	PendingTasks            int `json:"pendingTasks"`
	CompletedTasks          int `json:"completedTasks"`
	AIEnhancedTasks         int `json:"aiEnhancedTasks"`
	TotalContextEntries     int `json:"totalContextEntries"`
	ProcessedContextEntries int `json:"processedContextEntries"`
	TotalCategories         int `json:"totalCategories"`
}

func NewMemoryStorage() *MemoryStorage {
	s := &MemoryStorage{}
	s.seed()
	return s
}

func (s *MemoryStorage) seed() {
	seededAt := time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)

	s.categories = []models.Category{
		{ID: 1, Name: "Work", Color: "blue", UsageCount: 5, CreatedAt: seededAt},
		{ID: 2, Name: "Personal", Color: "green", UsageCount: 3, CreatedAt: seededAt},
		{ID: 3, Name: "Learning", Color: "purple", UsageCount: 2, CreatedAt: seededAt},
		{ID: 4, Name: "Health", Color: "red", UsageCount: 1, CreatedAt: seededAt},
		{ID: 5, Name: "Shopping", Color: "orange", UsageCount: 1, CreatedAt: seededAt},
	}
	s.nextCategoryID = 6

	deadline := func(y int, m time.Month, d int) *time.Time {
		t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		return &t
	}

	s.tasks = []models.Task{
		{
			ID:            1,
			Title:         "Complete project presentation",
			Description:   "Based on your email context, this presentation for the Q1 review is crucial for the upcoming meeting on Friday. Include revenue metrics, project status, and Q2 planning overview.",
			Category:      "Work",
			Priority:      models.PriorityHigh,
			PriorityScore: 9,
			Status:        models.TaskStatusPending,
			Deadline:      deadline(2025, time.July, 5),
			EstimatedTime: "2-3 hours",
			AIEnhanced:    true,
			AISuggestions: models.JSONPayload(`{"reasoning":"High priority due to board meeting deadline and manager emphasis","confidence":0.95,"suggestedActions":["Block morning hours for focused work","Prepare backup slides"]}`),
			Tags:          models.StringList{"presentation", "quarterly", "urgent"},
			CreatedAt:     time.Date(2025, time.July, 4, 10, 30, 0, 0, time.UTC),
			UpdatedAt:     time.Date(2025, time.July, 4, 11, 45, 0, 0, time.UTC),
		},
		{
			ID:            2,
			Title:         "Buy groceries for family dinner",
			Description:   "Purchase pasta ingredients, Caesar salad components, and wine for Saturday family dinner. Shopping list optimized based on dietary preferences.",
			Category:      "Personal",
			Priority:      models.PriorityMedium,
			PriorityScore: 5,
			Status:        models.TaskStatusPending,
			Deadline:      deadline(2025, time.July, 5),
			EstimatedTime: "1 hour",
			AIEnhanced:    true,
			AISuggestions: models.JSONPayload(`{"reasoning":"Medium priority family obligation with flexible timing","confidence":0.8,"suggestedActions":["Combine with other errands","Check store hours"]}`),
			Tags:          models.StringList{"family", "groceries", "weekend"},
			CreatedAt:     time.Date(2025, time.July, 4, 9, 15, 0, 0, time.UTC),
			UpdatedAt:     time.Date(2025, time.July, 4, 9, 15, 0, 0, time.UTC),
		},
		{
			ID:            3,
			Title:         "Read \"The Lean Startup\" book",
			Description:   "Continue reading progress for learning goals. Currently 30% complete. AI suggests reading 20 pages daily to finish within 2 weeks.",
			Category:      "Learning",
			Priority:      models.PriorityLow,
			PriorityScore: 3,
			Status:        models.TaskStatusPending,
			Deadline:      deadline(2025, time.August, 1),
			EstimatedTime: "Flexible - 30 min daily",
			AIEnhanced:    true,
			AISuggestions: models.JSONPayload(`{"reasoning":"Learning goal with flexible timeline, good for filling gaps between high-priority tasks","confidence":0.7,"suggestedActions":["Schedule consistent reading time","Take notes for better retention"]}`),
			Tags:          models.StringList{"reading", "entrepreneurship", "self-improvement"},
			CreatedAt:     time.Date(2025, time.July, 3, 14, 20, 0, 0, time.UTC),
			UpdatedAt:     time.Date(2025, time.July, 4, 8, 30, 0, 0, time.UTC),
		},
		{
			ID:            4,
			Title:         "Schedule dentist appointment",
			Description:   "Completed dental cleaning appointment at HealthCare Plus Dental. Great job staying on top of health maintenance!",
			Category:      "Health",
			Priority:      models.PriorityMedium,
			PriorityScore: 4,
			Status:        models.TaskStatusCompleted,
			Deadline:      deadline(2025, time.July, 4),
			EstimatedTime: "30 minutes",
			Tags:          models.StringList{"health", "appointment", "routine"},
			CreatedAt:     time.Date(2025, time.July, 2, 11, 0, 0, 0, time.UTC),
			UpdatedAt:     time.Date(2025, time.July, 4, 14, 0, 0, 0, time.UTC),
		},
		{
			ID:            5,
			Title:         "Create project roadmap",
			Description:   "Develop detailed roadmap for new mobile app features based on team meeting discussions. Include timeline, resource allocation, and milestone definitions.",
			Category:      "Work",
			Priority:      models.PriorityHigh,
			PriorityScore: 8,
			Status:        models.TaskStatusPending,
			Deadline:      deadline(2025, time.July, 7),
			EstimatedTime: "4-5 hours",
			AIEnhanced:    true,
			AISuggestions: models.JSONPayload(`{"reasoning":"Critical deliverable for team coordination and project success","confidence":0.9,"suggestedActions":["Break into phases","Involve team leads in planning","Use project management tools"]}`),
			Tags:          models.StringList{"planning", "mobile", "team", "roadmap"},
			CreatedAt:     time.Date(2025, time.July, 4, 15, 30, 0, 0, time.UTC),
			UpdatedAt:     time.Date(2025, time.July, 4, 15, 30, 0, 0, time.UTC),
		},
	}
	s.nextTaskID = 6

	s.entries = []models.ContextEntry{
		{
			ID:                1,
			Content:           "Email from manager about quarterly review meeting. Need to prepare presentation by Friday with revenue metrics and project status.",
			SourceType:        models.SourceTypeEmail,
			ProcessedInsights: models.JSONPayload(`{"urgency_level":"high","extracted_deadlines":["2025-07-05"],"key_topics":["presentation","quarterly review","revenue"],"sentiment":"urgent"}`),
			ExtractedTasks:    models.JSONPayload(`[{"title":"Prepare quarterly presentation","description":"Create comprehensive presentation for board meeting","category":"Work","priority":"high","urgency":9}]`),
			IsProcessed:       true,
			CreatedAt:         time.Date(2025, time.July, 4, 9, 15, 0, 0, time.UTC),
		},
		{
			ID:                2,
			Content:           "WhatsApp message from family about weekend plans. Family dinner Saturday 6 PM, need groceries for pasta and salad.",
			SourceType:        models.SourceTypeMessage,
			ProcessedInsights: models.JSONPayload(`{"urgency_level":"medium","extracted_deadlines":["2025-07-05"],"key_topics":["family dinner","groceries","weekend"],"sentiment":"positive"}`),
			ExtractedTasks:    models.JSONPayload(`[{"title":"Buy groceries for family dinner","description":"Purchase ingredients for pasta and salad","category":"Personal","priority":"medium","urgency":5}]`),
			IsProcessed:       true,
			CreatedAt:         time.Date(2025, time.July, 4, 11, 30, 0, 0, time.UTC),
		},
		{
			ID:         3,
			Content:    "Meeting notes: Discussed new project requirements and timeline. Need to create roadmap by Monday and set up development environment.",
			SourceType: models.SourceTypeNote,
			CreatedAt:  time.Date(2025, time.July, 4, 16, 45, 0, 0, time.UTC),
		},
	}
	s.nextEntryID = 4
}

func (s *MemoryStorage) GetTasks(ctx context.Context) ([]models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Task, len(s.tasks))
	copy(out, s.tasks)
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemoryStorage) GetTaskByID(ctx context.Context, id int) (*models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, t := range s.tasks {
		if t.ID == id {
			task := t
			return &task, nil
		}
	}
	return nil, nil
}

func (s *MemoryStorage) CreateTask(ctx context.Context, in TaskInput) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	task := models.Task{
		ID:            s.nextTaskID,
		Title:         in.Title,
		Description:   in.Description,
		Category:      in.Category,
		Priority:      in.Priority,
		Status:        in.Status,
		Deadline:      in.Deadline,
		EstimatedTime: in.EstimatedTime,
		AIEnhanced:    in.AIEnhanced,
		AISuggestions: in.AISuggestions,
		Tags:          in.Tags,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if task.Status == "" {
		task.Status = models.TaskStatusPending
	}
	if in.PriorityScore != nil {
		task.PriorityScore = *in.PriorityScore
	} else {
		task.PriorityScore = defaultPriorityScore(in.Priority)
	}
	s.nextTaskID++
	s.tasks = append(s.tasks, task)

	if task.Category != "" {
		s.incrementUsageLocked(task.Category)
	}
	return &task, nil
}

func (s *MemoryStorage) UpdateTask(ctx context.Context, id int, in TaskUpdate) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.tasks {
		if s.tasks[i].ID != id {
			continue
		}
		t := &s.tasks[i]
		if in.Title != nil {
			t.Title = *in.Title
		}
		if in.Description != nil {
			t.Description = *in.Description
		}
		if in.Category != nil {
			t.Category = *in.Category
		}
		if in.Priority != nil {
			t.Priority = *in.Priority
		}
		if in.PriorityScore != nil {
			t.PriorityScore = *in.PriorityScore
		}
		if in.Status != nil {
			t.Status = *in.Status
		}
		if in.Deadline != nil {
			t.Deadline = in.Deadline
		}
		if in.EstimatedTime != nil {
			t.EstimatedTime = *in.EstimatedTime
		}
		if in.AIEnhanced != nil {
			t.AIEnhanced = *in.AIEnhanced
		}
		if in.AISuggestions != nil {
			t.AISuggestions = in.AISuggestions
		}
		if in.Tags != nil {
			t.Tags = in.Tags
		}
		t.UpdatedAt = time.Now().UTC()
		task := *t
		return &task, nil
	}
	return nil, fmt.Errorf("task with id %d %w", id, ErrNotFound)
}

func (s *MemoryStorage) DeleteTask(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("task with id %d %w", id, ErrNotFound)
}

func (s *MemoryStorage) GetContextEntries(ctx context.Context) ([]models.ContextEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.ContextEntry, len(s.entries))
	copy(out, s.entries)
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemoryStorage) CreateContextEntry(ctx context.Context, in ContextEntryInput) (*models.ContextEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// AI result fields start null and the processed flag false no matter
	// what the caller supplies.
	entry := models.ContextEntry{
		ID:         s.nextEntryID,
		Content:    in.Content,
		SourceType: in.SourceType,
		CreatedAt:  time.Now().UTC(),
	}
	s.nextEntryID++
	s.entries = append(s.entries, entry)
	return &entry, nil
}

func (s *MemoryStorage) UpdateContextEntry(ctx context.Context, id int, in ContextEntryUpdate) (*models.ContextEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.entries {
		if s.entries[i].ID != id {
			continue
		}
		e := &s.entries[i]
		if in.Content != nil {
			e.Content = *in.Content
		}
		if in.SourceType != nil {
			e.SourceType = *in.SourceType
		}
		if in.ProcessedInsights != nil {
			e.ProcessedInsights = in.ProcessedInsights
		}
		if in.ExtractedTasks != nil {
			e.ExtractedTasks = in.ExtractedTasks
		}
		if in.IsProcessed != nil {
			e.IsProcessed = *in.IsProcessed
		}
		entry := *e
		return &entry, nil
	}
	return nil, fmt.Errorf("context entry with id %d %w", id, ErrNotFound)
}

func (s *MemoryStorage) GetCategories(ctx context.Context) ([]models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Category, len(s.categories))
	copy(out, s.categories)
	sort.Slice(out, func(i, j int) bool {
		if out[i].UsageCount == out[j].UsageCount {
			return out[i].ID < out[j].ID
		}
		return out[i].UsageCount > out[j].UsageCount
	})
	return out, nil
}

func (s *MemoryStorage) CreateCategory(ctx context.Context, in CategoryInput) (*models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.createCategoryLocked(in)
}

func (s *MemoryStorage) createCategoryLocked(in CategoryInput) (*models.Category, error) {
	for _, c := range s.categories {
		if c.Name == in.Name {
			return nil, fmt.Errorf("category %q %w", in.Name, ErrDuplicateName)
		}
	}
	cat := models.Category{
		ID:        s.nextCategoryID,
		Name:      in.Name,
		Color:     in.Color,
		CreatedAt: time.Now().UTC(),
	}
	s.nextCategoryID++
	s.categories = append(s.categories, cat)
	return &cat, nil
}

func (s *MemoryStorage) IncrementCategoryUsage(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.incrementUsageLocked(name)
	return nil
}

func (s *MemoryStorage) incrementUsageLocked(name string) {
	for i := range s.categories {
		if s.categories[i].Name == name {
			s.categories[i].UsageCount++
			return
		}
	}
	// Unknown category names are auto-created with a default color; the
	// increment that triggered creation counts, so usage starts at 1.
	s.categories = append(s.categories, models.Category{
		ID:         s.nextCategoryID,
		Name:       name,
		Color:      defaultCategoryColor,
		UsageCount: 1,
		CreatedAt:  time.Now().UTC(),
	})
	s.nextCategoryID++
}

// Stats returns a snapshot of the current contents.
func (s *MemoryStorage) Stats() MemoryStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := MemoryStats{
		TotalTasks:          len(s.tasks),
		TotalContextEntries: len(s.entries),
		TotalCategories:     len(s.categories),
	}
	for _, t := range s.tasks {
		switch t.Status {
		case models.TaskStatusPending:
			stats.PendingTasks++
		case models.TaskStatusCompleted:
			stats.CompletedTasks++
		}
		if t.AIEnhanced {
			stats.AIEnhancedTasks++
		}
	}
	for _, e := range s.entries {
		if e.IsProcessed {
			stats.ProcessedContextEntries++
		}
	}
	return stats
}
