package ai

// TaskSuggestion is the model's enhancement of a single task.
type TaskSuggestion struct {
	EnhancedDescription string `json:"enhancedDescription"`
	SuggestedCategory   string `json:"suggestedCategory"`
	SuggestedPriority   string `json:"suggestedPriority"`
	SuggestedDeadline   string `json:"suggestedDeadline"`
	EstimatedTime       string `json:"estimatedTime"`
	Reasoning           string `json:"reasoning"`
}

// ExtractedTask is a task-shaped suggestion pulled out of raw context.
type ExtractedTask struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Priority    string `json:"priority"`
	Urgency     int    `json:"urgency"`
}

// PriorityUpdate recommends changing the priority of an existing task.
type PriorityUpdate struct {
	TaskID      int    `json:"taskId"`
	NewPriority string `json:"newPriority"`
	Reasoning   string `json:"reasoning"`
}

// Suggestion is a single actionable productivity recommendation.
type Suggestion struct {
	Type       string `json:"type"`
	Message    string `json:"message"`
	Actionable bool   `json:"actionable"`
}

// ContextInsights is the model's full analysis of a batch of context
// entries.
type ContextInsights struct {
	ExtractedTasks  []ExtractedTask  `json:"extractedTasks"`
	PriorityUpdates []PriorityUpdate `json:"priorityUpdates"`
	Suggestions     []Suggestion     `json:"suggestions"`
}
