// Package syncer mirrors remote tasks and publishes the ones that changed.
package syncer

import (
	"context"
	"errors"
	"fmt"

	"github.com/Adda-Baaj/todo-api-client/internal/logger"
	"github.com/Adda-Baaj/todo-api-client/pkg/publishers"
	"github.com/Adda-Baaj/todo-api-client/pkg/todoapi"
)

// Result summarizes a single sync pass.
type Result struct {
	Fetched   int `json:"fetched"`
	Changed   int `json:"changed"`
	Published int `json:"published"`
}

// Service runs sync passes against the remote API.
type Service struct {
	lister    TaskLister
	publisher EventPublisher
	deduper   Deduper
	source    string
	log       logger.Logger
}

// NewService wires a sync service. publisher and deduper may be nil.
func NewService(lister TaskLister, publisher EventPublisher, log logger.Logger, deduper Deduper, source string) *Service {
	if log == nil {
		log = &logger.NopLogger{}
	}
	return &Service{
		lister:    lister,
		publisher: publisher,
		deduper:   deduper,
		source:    source,
		log:       log,
	}
}

// Run fetches every task and publishes a task.synced event for each task
// whose content changed since it was last marked.
func (s *Service) Run(ctx context.Context) (Result, error) {
	var res Result
	if s == nil || s.lister == nil {
		return res, fmt.Errorf("sync service is not initialized")
	}

	tasks, err := s.lister.GetAllTasks(ctx)
	if err != nil {
		return res, fmt.Errorf("list tasks: %w", err)
	}
	res.Fetched = len(tasks)

	changed := s.filterChanged(tasks)
	res.Changed = len(changed)

	var errs []error
	for _, task := range changed {
		if ctx.Err() != nil {
			s.log.WarnObj("sync cancelled", "sync_cancelled", map[string]any{
				"published": res.Published,
				"changed":   len(changed),
			})
			break
		}
		if err := s.publish(ctx, task); err != nil {
			errs = append(errs, fmt.Errorf("task %s: %w", task.ID, err))
			continue
		}
		res.Published++
	}

	s.log.InfoObj("sync pass completed", "sync_result", res)
	return res, errors.Join(errs...)
}

func (s *Service) publish(ctx context.Context, task todoapi.TaskDto) error {
	if s.publisher != nil {
		evt := publishers.NewEvent(publishers.EventTaskSynced, s.source, task)
		if _, err := s.publisher.Publish(ctx, evt); err != nil {
			return err
		}
	}
	if s.deduper != nil {
		if err := s.deduper.MarkTask(task); err != nil {
			return fmt.Errorf("mark task: %w", err)
		}
	}
	return nil
}

// filterChanged drops tasks already recorded with identical content.
// A lookup failure keeps the task.
func (s *Service) filterChanged(tasks []todoapi.TaskDto) []todoapi.TaskDto {
	if s.deduper == nil {
		return tasks
	}

	out := make([]todoapi.TaskDto, 0, len(tasks))
	for _, task := range tasks {
		seen, err := s.deduper.SeenTask(task)
		if err != nil {
			s.log.WarnObj("dedupe lookup failed", "dedupe_error", map[string]any{
				"task_id": task.ID,
				"error":   err.Error(),
			})
			out = append(out, task)
			continue
		}
		if !seen {
			out = append(out, task)
		}
	}
	return out
}
