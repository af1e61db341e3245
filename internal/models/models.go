package models

import "time"

// Task status constants
const (
	TaskStatusPending   = "pending"
	TaskStatusCompleted = "completed"
)

// Priority constants
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Context entry source types
const (
	SourceTypeEmail   = "email"
	SourceTypeMessage = "message"
	SourceTypeNote    = "note"
)

// ValidPriority reports whether p is one of the known priority levels.
func ValidPriority(p string) bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// ValidSourceType reports whether s is one of the known context sources.
func ValidSourceType(s string) bool {
	return s == SourceTypeEmail || s == SourceTypeMessage || s == SourceTypeNote
}

// Task is a unit of work extracted from context or entered by hand.
type Task struct {
	ID            int         `db:"id" json:"id"`
	Title         string      `db:"title" json:"title"`
	Description   string      `db:"description" json:"description,omitempty"`
	Category      string      `db:"category" json:"category"`
	Priority      string      `db:"priority" json:"priority"`
	PriorityScore int         `db:"priority_score" json:"priorityScore"`
	Status        string      `db:"status" json:"status"`
	Deadline      *time.Time  `db:"deadline" json:"deadline,omitempty"`
	EstimatedTime string      `db:"estimated_time" json:"estimatedTime,omitempty"`
	AIEnhanced    bool        `db:"ai_enhanced" json:"aiEnhanced"`
	AISuggestions JSONPayload `db:"ai_suggestions" json:"aiSuggestions"`
	Tags          StringList  `db:"tags" json:"tags,omitempty"`
	CreatedAt     time.Time   `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time   `db:"updated_at" json:"updatedAt"`
}

// ContextEntry is a captured piece of raw text (email, message, note)
// awaiting or having undergone AI extraction.
type ContextEntry struct {
	ID                int         `db:"id" json:"id"`
	Content           string      `db:"content" json:"content"`
	SourceType        string      `db:"source_type" json:"sourceType"`
	ProcessedInsights JSONPayload `db:"processed_insights" json:"processedInsights"`
	ExtractedTasks    JSONPayload `db:"extracted_tasks" json:"extractedTasks"`
	IsProcessed       bool        `db:"is_processed" json:"isProcessed"`
	CreatedAt         time.Time   `db:"created_at" json:"createdAt"`
}

// Category is a named, usage-counted grouping label for tasks. The name is
// the natural key tasks reference; there is no enforced foreign key.
type Category struct {
	ID         int       `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	Color      string    `db:"color" json:"color"`
	UsageCount int       `db:"usage_count" json:"usageCount"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}
