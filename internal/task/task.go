package task

import (
	"time"

	"github.com/google/uuid"
)

// Task is the single entity the tracker manages. The ID is assigned at
// creation and never changes; it is the only correlation key for edits,
// deletion and reminder identity.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	IsCompleted bool       `json:"isCompleted"`
	GroupID     *string    `json:"groupId,omitempty"`
}

// New builds a task with a fresh identifier. The due date and group are
// optional; completion always starts false.
func New(title string, due *time.Time, group *string) Task {
	return Task{
		ID:      uuid.New().String(),
		Title:   title,
		DueDate: due,
		GroupID: group,
	}
}
