package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"taskwise/internal/models"
)

// PostgresStorage implements Storage on top of a relational database via
// sqlx. Every operation delegates straight to the database; uniqueness and
// id generation are enforced by the schema. Queries are written with `?`
// placeholders and rebound for the active driver, so the adapter also runs
// against SQLite in tests.
type PostgresStorage struct {
	db *sqlx.DB
}

func NewPostgresStorage(db *sqlx.DB) *PostgresStorage {
	return &PostgresStorage{db: db}
}

const taskColumns = `id, title, description, category, priority, priority_score, status,
	deadline, estimated_time, ai_enhanced, ai_suggestions, tags, created_at, updated_at`

func (s *PostgresStorage) GetTasks(ctx context.Context) ([]models.Task, error) {
	tasks := []models.Task{}
	query := `SELECT ` + taskColumns + ` FROM tasks ORDER BY created_at DESC, id DESC`
	if err := s.db.SelectContext(ctx, &tasks, query); err != nil {
		return nil, fmt.Errorf("select tasks: %w", err)
	}
	return tasks, nil
}

func (s *PostgresStorage) GetTaskByID(ctx context.Context, id int) (*models.Task, error) {
	tasks := []models.Task{}
	query := s.db.Rebind(`SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`)
	if err := s.db.SelectContext(ctx, &tasks, query, id); err != nil {
		return nil, fmt.Errorf("select task %d: %w", id, err)
	}
	if len(tasks) == 0 {
		return nil, nil
	}
	return &tasks[0], nil
}

func (s *PostgresStorage) CreateTask(ctx context.Context, in TaskInput) (*models.Task, error) {
	now := time.Now().UTC()
	task := models.Task{
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

	query := s.db.Rebind(`
		INSERT INTO tasks (title, description, category, priority, priority_score, status,
			deadline, estimated_time, ai_enhanced, ai_suggestions, tags, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`)
	if err := s.db.GetContext(ctx, &task.ID, query,
		task.Title, task.Description, task.Category, task.Priority, task.PriorityScore,
		task.Status, task.Deadline, task.EstimatedTime, task.AIEnhanced, task.AISuggestions,
		task.Tags, task.CreatedAt, task.UpdatedAt,
	); err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}

	if task.Category != "" {
		if err := s.IncrementCategoryUsage(ctx, task.Category); err != nil {
			return nil, err
		}
	}
	return &task, nil
}

func (s *PostgresStorage) UpdateTask(ctx context.Context, id int, in TaskUpdate) (*models.Task, error) {
	sets := []string{"updated_at = ?"}
	args := []interface{}{time.Now().UTC()}

	appendSet := func(column string, value interface{}) {
		sets = append(sets, column+" = ?")
		args = append(args, value)
	}
	if in.Title != nil {
		appendSet("title", *in.Title)
	}
	if in.Description != nil {
		appendSet("description", *in.Description)
	}
	if in.Category != nil {
		appendSet("category", *in.Category)
	}
	if in.Priority != nil {
		appendSet("priority", *in.Priority)
	}
	if in.PriorityScore != nil {
		appendSet("priority_score", *in.PriorityScore)
	}
	if in.Status != nil {
		appendSet("status", *in.Status)
	}
	if in.Deadline != nil {
		appendSet("deadline", *in.Deadline)
	}
	if in.EstimatedTime != nil {
		appendSet("estimated_time", *in.EstimatedTime)
	}
	if in.AIEnhanced != nil {
		appendSet("ai_enhanced", *in.AIEnhanced)
	}
	if in.AISuggestions != nil {
		appendSet("ai_suggestions", in.AISuggestions)
	}
	if in.Tags != nil {
		appendSet("tags", in.Tags)
	}
	args = append(args, id)

	query := s.db.Rebind(fmt.Sprintf("UPDATE tasks SET %s WHERE id = ?", strings.Join(sets, ", ")))
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("update task %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update task %d: %w", id, err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("task with id %d %w", id, ErrNotFound)
	}
	return s.GetTaskByID(ctx, id)
}

func (s *PostgresStorage) DeleteTask(ctx context.Context, id int) error {
	query := s.db.Rebind(`DELETE FROM tasks WHERE id = ?`)
	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("task with id %d %w", id, ErrNotFound)
	}
	return nil
}

const entryColumns = `id, content, source_type, processed_insights, extracted_tasks, is_processed, created_at`

func (s *PostgresStorage) GetContextEntries(ctx context.Context) ([]models.ContextEntry, error) {
	entries := []models.ContextEntry{}
	query := `SELECT ` + entryColumns + ` FROM context_entries ORDER BY created_at DESC, id DESC`
	if err := s.db.SelectContext(ctx, &entries, query); err != nil {
		return nil, fmt.Errorf("select context entries: %w", err)
	}
	return entries, nil
}

func (s *PostgresStorage) CreateContextEntry(ctx context.Context, in ContextEntryInput) (*models.ContextEntry, error) {
	entry := models.ContextEntry{
		Content:    in.Content,
		SourceType: in.SourceType,
		CreatedAt:  time.Now().UTC(),
	}
	query := s.db.Rebind(`
		INSERT INTO context_entries (content, source_type, is_processed, created_at)
		VALUES (?, ?, FALSE, ?)
		RETURNING id`)
	if err := s.db.GetContext(ctx, &entry.ID, query, entry.Content, entry.SourceType, entry.CreatedAt); err != nil {
		return nil, fmt.Errorf("insert context entry: %w", err)
	}
	return &entry, nil
}

func (s *PostgresStorage) UpdateContextEntry(ctx context.Context, id int, in ContextEntryUpdate) (*models.ContextEntry, error) {
	sets := []string{}
	args := []interface{}{}

	appendSet := func(column string, value interface{}) {
		sets = append(sets, column+" = ?")
		args = append(args, value)
	}
	if in.Content != nil {
		appendSet("content", *in.Content)
	}
	if in.SourceType != nil {
		appendSet("source_type", *in.SourceType)
	}
	if in.ProcessedInsights != nil {
		appendSet("processed_insights", in.ProcessedInsights)
	}
	if in.ExtractedTasks != nil {
		appendSet("extracted_tasks", in.ExtractedTasks)
	}
	if in.IsProcessed != nil {
		appendSet("is_processed", *in.IsProcessed)
	}
	if len(sets) == 0 {
		// Nothing to change; still report not-found for missing ids.
		sets = append(sets, "id = id")
	}
	args = append(args, id)

	query := s.db.Rebind(fmt.Sprintf("UPDATE context_entries SET %s WHERE id = ?", strings.Join(sets, ", ")))
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("update context entry %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update context entry %d: %w", id, err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("context entry with id %d %w", id, ErrNotFound)
	}

	entries := []models.ContextEntry{}
	get := s.db.Rebind(`SELECT ` + entryColumns + ` FROM context_entries WHERE id = ?`)
	if err := s.db.SelectContext(ctx, &entries, get, id); err != nil {
		return nil, fmt.Errorf("select context entry %d: %w", id, err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("context entry with id %d %w", id, ErrNotFound)
	}
	return &entries[0], nil
}

func (s *PostgresStorage) GetCategories(ctx context.Context) ([]models.Category, error) {
	categories := []models.Category{}
	query := `SELECT id, name, color, usage_count, created_at FROM categories ORDER BY usage_count DESC, id ASC`
	if err := s.db.SelectContext(ctx, &categories, query); err != nil {
		return nil, fmt.Errorf("select categories: %w", err)
	}
	return categories, nil
}

func (s *PostgresStorage) CreateCategory(ctx context.Context, in CategoryInput) (*models.Category, error) {
	var exists int
	check := s.db.Rebind(`SELECT COUNT(*) FROM categories WHERE name = ?`)
	if err := s.db.GetContext(ctx, &exists, check, in.Name); err != nil {
		return nil, fmt.Errorf("check category name: %w", err)
	}
	if exists > 0 {
		return nil, fmt.Errorf("category %q %w", in.Name, ErrDuplicateName)
	}

	cat := models.Category{
		Name:      in.Name,
		Color:     in.Color,
		CreatedAt: time.Now().UTC(),
	}
	query := s.db.Rebind(`
		INSERT INTO categories (name, color, usage_count, created_at)
		VALUES (?, ?, 0, ?)
		RETURNING id`)
	if err := s.db.GetContext(ctx, &cat.ID, query, cat.Name, cat.Color, cat.CreatedAt); err != nil {
		return nil, fmt.Errorf("insert category: %w", err)
	}
	return &cat, nil
}

func (s *PostgresStorage) IncrementCategoryUsage(ctx context.Context, name string) error {
	// The increment is a single expression evaluated by the database, so
	// concurrent task creations against the same category serialize there.
	query := s.db.Rebind(`UPDATE categories SET usage_count = COALESCE(usage_count, 0) + 1 WHERE name = ?`)
	res, err := s.db.ExecContext(ctx, query, name)
	if err != nil {
		return fmt.Errorf("increment category usage: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("increment category usage: %w", err)
	}
	if affected > 0 {
		return nil
	}

	insert := s.db.Rebind(`
		INSERT INTO categories (name, color, usage_count, created_at)
		VALUES (?, ?, 1, ?)`)
	if _, err := s.db.ExecContext(ctx, insert, name, defaultCategoryColor, time.Now().UTC()); err != nil {
		return fmt.Errorf("auto-create category %q: %w", name, err)
	}
	return nil
}
