package ai

import (
	"fmt"
	"strings"

	"taskwise/internal/models"
)

const (
	enhanceSystemPrompt    = "You are an AI task management assistant. Analyze tasks and provide intelligent enhancements based on context. Always respond with valid JSON."
	processSystemPrompt    = "You are an AI context analysis assistant. Extract actionable task management insights from daily context. Always respond with valid JSON."
	prioritizeSystemPrompt = "You are an AI task prioritization assistant. Analyze tasks and context to determine optimal priority order. Always respond with valid JSON."
	suggestSystemPrompt    = "You are an AI productivity assistant. Provide actionable suggestions for better task management. Always respond with valid JSON."
)

func buildEnhancePrompt(in EnhanceTaskInput) string {
	var b strings.Builder

	b.WriteString("Analyze this task and provide AI-powered enhancements based on the context provided.\n\n")
	b.WriteString("Task Details:\n")
	b.WriteString("- Title: " + in.Title + "\n")
	if in.Description != "" {
		b.WriteString("- Description: " + in.Description + "\n")
	} else {
		b.WriteString("- Description: No description provided\n")
	}
	if in.Category != "" {
		b.WriteString("- Category: " + in.Category + "\n")
	} else {
		b.WriteString("- Category: Not specified\n")
	}

	b.WriteString("\nContext Information:\n")
	for _, entry := range in.ContextEntries {
		b.WriteString(entry.Content)
		b.WriteString("\n\n")
	}

	b.WriteString(`Please provide a JSON response with the following structure:
{
  "enhancedDescription": "Enhanced task description with context-aware details",
  "suggestedCategory": "Most appropriate category",
  "suggestedPriority": "high|medium|low",
  "suggestedDeadline": "YYYY-MM-DD format or relative time",
  "estimatedTime": "Time estimate with unit",
  "reasoning": "Brief explanation of the suggestions"
}

Consider urgency based on context, task complexity, dependencies and deadlines
mentioned in context, and the user's workload patterns.
`)
	return b.String()
}

func buildProcessPrompt(entries []models.ContextEntry) string {
	var b strings.Builder

	b.WriteString("Analyze the following daily context and extract actionable insights for task management.\n\n")
	b.WriteString("Context Data:\n")
	for _, entry := range entries {
		b.WriteString("[" + strings.ToUpper(entry.SourceType) + "] " + entry.Content)
		b.WriteString("\n\n")
	}

	b.WriteString(`Please provide a JSON response with the following structure:
{
  "extractedTasks": [
    {"title": "Task title", "description": "Task description", "category": "Suggested category", "priority": "high|medium|low", "urgency": 1}
  ],
  "priorityUpdates": [
    {"taskId": 0, "newPriority": "high|medium|low", "reasoning": "Why priority should change"}
  ],
  "suggestions": [
    {"type": "schedule|optimize|delegate", "message": "Actionable suggestion", "actionable": true}
  ]
}

Focus on extracting new tasks from emails, messages and notes, identifying
urgent matters, and recommending prioritization changes.
`)
	return b.String()
}

func buildPrioritizePrompt(tasks []models.Task, entries []models.ContextEntry) string {
	var b strings.Builder

	b.WriteString("Analyze these tasks and reorder them by priority based on the provided context.\n\n")
	b.WriteString("Current Tasks:\n")
	for _, t := range tasks {
		fmt.Fprintf(&b, "ID: %d, Title: %s, Category: %s, Current Priority: %s\n", t.ID, t.Title, t.Category, t.Priority)
	}

	b.WriteString("\nContext:\n")
	for _, entry := range entries {
		b.WriteString(entry.Content)
		b.WriteString("\n\n")
	}

	b.WriteString(`Please provide a JSON response with an array of task IDs ordered by priority (most urgent first):
{
  "prioritizedTaskIds": [1, 3, 2, 4],
  "reasoning": "Brief explanation of the prioritization logic"
}

Consider deadlines mentioned in context, business impact, dependencies, and
the user's schedule and commitments.
`)
	return b.String()
}

func buildSuggestionsPrompt(tasks []models.Task, entries []models.ContextEntry) string {
	var b strings.Builder

	b.WriteString("Based on the user's current tasks and recent context, provide 3-5 actionable suggestions for better task management.\n\n")
	b.WriteString("Current Tasks:\n")
	for i, t := range tasks {
		if i == 10 {
			break
		}
		fmt.Fprintf(&b, "%s (%s priority, %s)\n", t.Title, t.Priority, t.Category)
	}

	b.WriteString("\nRecent Context:\n")
	for i, entry := range entries {
		if i == 5 {
			break
		}
		b.WriteString(entry.Content)
		b.WriteString("\n\n")
	}

	b.WriteString(`Please provide a JSON response with suggestions:
{
  "suggestions": [
    {"type": "schedule|optimize|delegate|break", "message": "Specific actionable suggestion", "actionable": true}
  ]
}

Focus on schedule optimization, task batching opportunities, break
recommendations, and delegation opportunities.
`)
	return b.String()
}
