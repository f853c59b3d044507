package syncer

import (
	"context"

	"github.com/Adda-Baaj/todo-api-client/pkg/publishers"
	"github.com/Adda-Baaj/todo-api-client/pkg/todoapi"
)

// TaskLister lists the remote tasks.
type TaskLister interface {
	GetAllTasks(ctx context.Context) ([]todoapi.TaskDto, error)
}

// EventPublisher publishes task events downstream.
type EventPublisher interface {
	Publish(ctx context.Context, evt publishers.Event) (int, error)
}

// Deduper remembers which version of a task was already published.
type Deduper interface {
	SeenTask(task todoapi.TaskDto) (bool, error)
	MarkTask(task todoapi.TaskDto) error
}
