package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/Adda-Baaj/todo-api-client/internal/config"
	"github.com/Adda-Baaj/todo-api-client/internal/logger"
	"github.com/Adda-Baaj/todo-api-client/pkg/publishers"
	"github.com/Adda-Baaj/todo-api-client/pkg/todoapi"
)

// Runtime wires the todo API client with the configured publishers.
type Runtime struct {
	cfg    *config.Config
	client *todoapi.Client
	fanout *publishers.Fanout
	log    logger.Logger
}

// NewRuntime builds the client and publishers from config.
func NewRuntime(ctx context.Context, cfg *config.Config, log logger.Logger) (*Runtime, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	opts := []todoapi.Option{todoapi.WithLogger(log)}
	if cfg.HTTPTimeout > 0 {
		opts = append(opts, todoapi.WithTimeout(cfg.HTTPTimeout))
	}
	client, err := todoapi.NewClient(cfg.APIBaseURL, opts...)
	if err != nil {
		return nil, fmt.Errorf("init todo api client: %w", err)
	}

	fanout, err := buildFanout(ctx, cfg.PublishersFile, log)
	if err != nil {
		return nil, err
	}

	log.InfoObj("runtime initialized", "runtime_meta", map[string]any{
		"base_url":         client.BaseURL(),
		"publishers_count": fanout.Size(),
	})

	return &Runtime{
		cfg:    cfg,
		client: client,
		fanout: fanout,
		log:    log,
	}, nil
}

// buildFanout loads the publishers file. An empty path yields no publishers.
func buildFanout(ctx context.Context, path string, log logger.Logger) (*publishers.Fanout, error) {
	if strings.TrimSpace(path) == "" {
		log.WarnObj("no publishers file configured; events are not published", "publishers_file", path)
		return publishers.NewFanout(nil), nil
	}

	publisherReg, err := publishers.LoadRegistry(path)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}

	enabled := publisherReg.Enabled()
	pubClients, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabled, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}

	summaries := make([]map[string]string, 0, len(enabled))
	for _, pubCfg := range enabled {
		summaries = append(summaries, map[string]string{
			"id":   pubCfg.ID,
			"type": pubCfg.Type,
		})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(summaries),
		"publishers": summaries,
	})

	return publishers.NewFanout(pubClients), nil
}

// Client exposes the underlying API client.
func (r *Runtime) Client() *todoapi.Client { return r.client }

// ListTasks returns every remote task.
func (r *Runtime) ListTasks(ctx context.Context) ([]todoapi.TaskDto, error) {
	return r.client.GetAllTasks(ctx)
}

// GetTask returns a single remote task.
func (r *Runtime) GetTask(ctx context.Context, id string) (todoapi.TaskDto, error) {
	return r.client.GetTaskByID(ctx, id)
}

// AddTask creates task remotely and publishes a task.created event.
// Publish failures are logged and do not fail the call.
func (r *Runtime) AddTask(ctx context.Context, task todoapi.TaskDto) (todoapi.TaskDto, error) {
	created, err := r.client.AddTask(ctx, task)
	if err != nil {
		return todoapi.TaskDto{}, err
	}

	evt := publishers.NewEvent(publishers.EventTaskCreated, r.client.BaseURL(), created)
	if _, err := r.fanout.Publish(ctx, evt); err != nil {
		r.log.ErrorObj("task.created publish failed", "publish_error", map[string]any{
			"task_id": created.ID,
			"error":   err.Error(),
		})
	}
	return created, nil
}

// Close releases publisher connections.
func (r *Runtime) Close() error {
	if r == nil {
		return nil
	}
	return r.fanout.Close()
}
