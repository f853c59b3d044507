package syncer

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/Adda-Baaj/todo-api-client/pkg/publishers"
	"github.com/Adda-Baaj/todo-api-client/pkg/todoapi"
)

// fakeLister returns preset tasks or an error.
type fakeLister struct {
	tasks []todoapi.TaskDto
	err   error
}

func (f *fakeLister) GetAllTasks(context.Context) ([]todoapi.TaskDto, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.tasks, nil
}

// fakePublisher records published events and can inject errors.
type fakePublisher struct {
	mu      sync.Mutex
	events  []publishers.Event
	errOnID string
}

func (f *fakePublisher) Publish(_ context.Context, evt publishers.Event) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, evt)
	if evt.TaskID == f.errOnID {
		return 0, errors.New("boom")
	}
	return 1, nil
}

// fakeDeduper remembers the last marked version of each task.
type fakeDeduper struct {
	mu      sync.Mutex
	seen    map[string]todoapi.TaskDto
	failID  string
	failErr error
}

func (f *fakeDeduper) SeenTask(task todoapi.TaskDto) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if task.ID == f.failID && f.failErr != nil {
		return false, f.failErr
	}
	prev, ok := f.seen[task.ID]
	return ok && prev == task, nil
}

func (f *fakeDeduper) MarkTask(task todoapi.TaskDto) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.seen == nil {
		f.seen = make(map[string]todoapi.TaskDto)
	}
	f.seen[task.ID] = task
	return nil
}

func TestRunPublishesChangedTasksOnly(t *testing.T) {
	unchanged := todoapi.TaskDto{ID: "1", Title: "same"}
	deduper := &fakeDeduper{seen: map[string]todoapi.TaskDto{
		"1": unchanged,
		"2": {ID: "2", Title: "before"},
	}}
	pub := &fakePublisher{}
	lister := &fakeLister{tasks: []todoapi.TaskDto{
		unchanged,
		{ID: "2", Title: "after"},
		{ID: "3", Title: "new"},
	}}

	svc := NewService(lister, pub, nil, deduper, "https://api.example.com")
	res, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res != (Result{Fetched: 3, Changed: 2, Published: 2}) {
		t.Fatalf("unexpected result %+v", res)
	}
	if len(pub.events) != 2 || pub.events[0].TaskID != "2" || pub.events[1].TaskID != "3" {
		t.Fatalf("unexpected events %+v", pub.events)
	}
	if pub.events[0].Type != publishers.EventTaskSynced || pub.events[0].Source != "https://api.example.com" {
		t.Fatalf("unexpected event metadata %+v", pub.events[0])
	}
	if deduper.seen["2"].Title != "after" {
		t.Fatalf("MarkTask not called for changed task")
	}
}

func TestRunSecondPassIsQuiet(t *testing.T) {
	pub := &fakePublisher{}
	svc := NewService(&fakeLister{tasks: []todoapi.TaskDto{{ID: "1"}, {ID: "2"}}}, pub, nil, &fakeDeduper{}, "src")

	if _, err := svc.Run(context.Background()); err != nil {
		t.Fatalf("first Run: %v", err)
	}
	res, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if res.Changed != 0 || len(pub.events) != 2 {
		t.Fatalf("expected no new events, result=%+v events=%d", res, len(pub.events))
	}
}

func TestRunAggregatesPublishErrors(t *testing.T) {
	deduper := &fakeDeduper{}
	pub := &fakePublisher{errOnID: "bad"}
	svc := NewService(&fakeLister{tasks: []todoapi.TaskDto{{ID: "bad"}, {ID: "good"}}}, pub, nil, deduper, "src")

	res, err := svc.Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "bad") {
		t.Fatalf("expected error mentioning bad task, got %v", err)
	}
	if res.Published != 1 {
		t.Fatalf("expected 1 published, got %d", res.Published)
	}
	if _, ok := deduper.seen["bad"]; ok {
		t.Fatalf("failed task must not be marked")
	}
}

func TestRunPropagatesListError(t *testing.T) {
	svc := NewService(&fakeLister{err: todoapi.ErrItemNotFound}, nil, nil, nil, "src")
	if _, err := svc.Run(context.Background()); !errors.Is(err, todoapi.ErrItemNotFound) {
		t.Fatalf("expected wrapped list error, got %v", err)
	}
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pub := &fakePublisher{}
	svc := NewService(&fakeLister{tasks: []todoapi.TaskDto{{ID: "1"}}}, pub, nil, nil, "src")
	res, err := svc.Run(ctx)
	if err != nil {
		t.Fatalf("expected no error on cancelled context, got %v", err)
	}
	if res.Published != 0 || len(pub.events) != 0 {
		t.Fatalf("expected nothing published, got %+v", res)
	}
}

func TestRunRequiresLister(t *testing.T) {
	if _, err := NewService(nil, nil, nil, nil, "").Run(context.Background()); err == nil {
		t.Fatalf("expected error without lister")
	}
}

func TestFilterChangedKeepsTasksOnDeduperError(t *testing.T) {
	deduper := &fakeDeduper{
		seen:    map[string]todoapi.TaskDto{"skip": {ID: "skip"}},
		failID:  "error",
		failErr: errors.New("lookup failed"),
	}
	svc := NewService(&fakeLister{}, nil, nil, deduper, "src")

	filtered := svc.filterChanged([]todoapi.TaskDto{{ID: "keep"}, {ID: "skip"}, {ID: "error"}})
	if len(filtered) != 2 {
		t.Fatalf("expected 2 tasks after filter, got %d", len(filtered))
	}
	if filtered[0].ID != "keep" || filtered[1].ID != "error" {
		t.Fatalf("unexpected filter result %#v", filtered)
	}
}
