// Package storage provides the data-access layer behind the API: a common
// CRUD contract with two interchangeable backends (PostgreSQL and a seeded
// in-memory store) and a manager that probes connectivity once and picks one.
package storage

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"taskwise/internal/models"
)

// ErrNotFound is wrapped by adapters when an update or delete references an
// id that does not exist. The handler layer maps it to a 404.
var ErrNotFound = errors.New("not found")

// ErrDuplicateName is wrapped when a category is created with a name that is
// already taken (exact, case-sensitive match).
var ErrDuplicateName = errors.New("already exists")

// Storage is the contract both adapters implement. Reads of missing tasks
// return nil without an error; updates and deletes of missing ids fail with
// ErrNotFound.
type Storage interface {
	GetTasks(ctx context.Context) ([]models.Task, error)
	GetTaskByID(ctx context.Context, id int) (*models.Task, error)
	CreateTask(ctx context.Context, in TaskInput) (*models.Task, error)
	UpdateTask(ctx context.Context, id int, in TaskUpdate) (*models.Task, error)
	DeleteTask(ctx context.Context, id int) error

	GetContextEntries(ctx context.Context) ([]models.ContextEntry, error)
	CreateContextEntry(ctx context.Context, in ContextEntryInput) (*models.ContextEntry, error)
	UpdateContextEntry(ctx context.Context, id int, in ContextEntryUpdate) (*models.ContextEntry, error)

	GetCategories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, in CategoryInput) (*models.Category, error)
	IncrementCategoryUsage(ctx context.Context, name string) error
}

// TaskInput carries the caller-supplied fields for task creation. Status
// defaults to pending and PriorityScore is derived from Priority when unset.
type TaskInput struct {
	Title         string             `json:"title"`
	Description   string             `json:"description"`
	Category      string             `json:"category"`
	Priority      string             `json:"priority"`
	PriorityScore *int               `json:"priorityScore"`
	Status        string             `json:"status"`
	Deadline      *time.Time         `json:"deadline"`
	EstimatedTime string             `json:"estimatedTime"`
	AIEnhanced    bool               `json:"aiEnhanced"`
	AISuggestions models.JSONPayload `json:"aiSuggestions"`
	Tags          models.StringList  `json:"tags"`
}

// TaskUpdate carries a partial update; nil fields are left untouched.
// UpdatedAt is refreshed on every successful update regardless.
type TaskUpdate struct {
	Title         *string            `json:"title"`
	Description   *string            `json:"description"`
	Category      *string            `json:"category"`
	Priority      *string            `json:"priority"`
	PriorityScore *int               `json:"priorityScore"`
	Status        *string            `json:"status"`
	Deadline      *time.Time         `json:"deadline"`
	EstimatedTime *string            `json:"estimatedTime"`
	AIEnhanced    *bool              `json:"aiEnhanced"`
	AISuggestions models.JSONPayload `json:"aiSuggestions"`
	Tags          models.StringList  `json:"tags"`
}

// ContextEntryInput carries the caller-supplied fields for a new context
// entry. AI result fields and the processed flag are forced by the adapter,
// never taken from input.
type ContextEntryInput struct {
	Content    string `json:"content"`
	SourceType string `json:"sourceType"`
}

// ContextEntryUpdate carries a partial update to a context entry, typically
// written back by the handler layer once AI processing completes.
type ContextEntryUpdate struct {
	Content           *string            `json:"content"`
	SourceType        *string            `json:"sourceType"`
	ProcessedInsights models.JSONPayload `json:"processedInsights"`
	ExtractedTasks    models.JSONPayload `json:"extractedTasks"`
	IsProcessed       *bool              `json:"isProcessed"`
}

// CategoryInput carries the caller-supplied fields for category creation.
type CategoryInput struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// defaultCategoryColor is assigned to categories auto-created by task
// creation against an unknown category name.
const defaultCategoryColor = "gray"

// defaultPriorityScore derives a numeric ranking from the priority level:
// high lands in [7,9], medium in [4,6], low in [1,3]. The banding is
// randomized, so callers must treat the score as a range, not a value.
func defaultPriorityScore(priority string) int {
	switch priority {
	case models.PriorityHigh:
		return 7 + rand.IntN(3)
	case models.PriorityMedium:
		return 4 + rand.IntN(3)
	case models.PriorityLow:
		return 1 + rand.IntN(3)
	default:
		return 5
	}
}
