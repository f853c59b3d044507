package publishers

import (
	"time"

	"github.com/Adda-Baaj/todo-api-client/pkg/todoapi"
)

// Event types emitted downstream.
const (
	EventTaskCreated = "task.created"
	EventTaskSynced  = "task.synced"
)

// Event represents the payload published downstream.
type Event struct {
	Type       string          `json:"type"`
	TaskID     string          `json:"task_id"`
	Source     string          `json:"source"`
	Task       todoapi.TaskDto `json:"task"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// NewEvent constructs an Event of typ for task as observed at source.
func NewEvent(typ, source string, task todoapi.TaskDto) Event {
	return Event{
		Type:       typ,
		TaskID:     task.ID,
		Source:     source,
		Task:       task,
		OccurredAt: time.Now().UTC(),
	}
}

// attributes returns the routing metadata attached to queue and topic messages.
func (e Event) attributes() map[string]string {
	return map[string]string{
		"event_type": e.Type,
		"task_id":    e.TaskID,
	}
}
