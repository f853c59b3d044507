package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/Adda-Baaj/todo-api-client/pkg/todoapi"
)

func TestBoltStoreMarksAndExpiresTasks(t *testing.T) {
	dir := t.TempDir()
	opts := Options{
		TaskTTL:         1 * time.Second,
		CleanupInterval: 1 * time.Second,
	}

	storeRaw, err := openBolt(filepath.Join(dir, "todos.db"), opts)
	if err != nil {
		t.Fatalf("openBolt: %v", err)
	}
	store := storeRaw.(*boltStore)
	defer store.Close()

	task := todoapi.TaskDto{ID: "1", UserID: "1", Title: "delectus aut autem"}

	seen, err := store.SeenTask(task)
	if err != nil || seen {
		t.Fatalf("expected unseen task, seen=%v err=%v", seen, err)
	}

	if err := store.MarkTask(task); err != nil {
		t.Fatalf("MarkTask: %v", err)
	}

	seen, err = store.SeenTask(task)
	if err != nil || !seen {
		t.Fatalf("expected task marked as seen, got seen=%v err=%v", seen, err)
	}

	// Fast-forward cleanup cadence and trigger expiry.
	store.lastCleanup.Store(time.Now().Add(-2 * time.Second).Unix())
	time.Sleep(1100 * time.Millisecond)

	seen, err = store.SeenTask(task)
	if err != nil {
		t.Fatalf("SeenTask after expiry: %v", err)
	}
	if seen {
		t.Fatalf("expected entry to expire and be removed")
	}
}

func TestBoltStoreDetectsChangedContent(t *testing.T) {
	store, err := NewStore("bbolt", filepath.Join(t.TempDir(), "nested", "todos.db"), Options{})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	defer store.Close()

	task := todoapi.TaskDto{ID: "7", UserID: "1", Title: "write tests"}
	if err := store.MarkTask(task); err != nil {
		t.Fatalf("MarkTask: %v", err)
	}

	task.Finished = true
	seen, err := store.SeenTask(task)
	if err != nil {
		t.Fatalf("SeenTask: %v", err)
	}
	if seen {
		t.Fatalf("changed task must not be reported as seen")
	}
}

func TestBoltStoreTasksListsMirror(t *testing.T) {
	store, err := NewStore("BBOLT", filepath.Join(t.TempDir(), "todos.db"), Options{})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	defer store.Close()

	for _, task := range []todoapi.TaskDto{{ID: "2", Title: "b"}, {ID: "1", Title: "a"}} {
		if err := store.MarkTask(task); err != nil {
			t.Fatalf("MarkTask: %v", err)
		}
	}

	tasks, err := store.Tasks()
	if err != nil {
		t.Fatalf("Tasks: %v", err)
	}
	if len(tasks) != 2 || tasks[0].ID != "1" || tasks[1].ID != "2" {
		t.Fatalf("unexpected tasks %#v", tasks)
	}
}

func TestNewStoreSupportsNoop(t *testing.T) {
	store, err := NewStore("none", "", Options{})
	if err != nil {
		t.Fatalf("NewStore none: %v", err)
	}
	if err := store.MarkTask(todoapi.TaskDto{ID: "x"}); err != nil {
		t.Fatalf("noop store MarkTask: %v", err)
	}
	if seen, _ := store.SeenTask(todoapi.TaskDto{ID: "x"}); seen {
		t.Fatalf("noop store must never report seen")
	}
}

func TestNewStoreRejectsUnknownTypeAndMissingPath(t *testing.T) {
	if _, err := NewStore("redis", "x", Options{}); err == nil {
		t.Fatalf("expected unsupported type error")
	}
	if _, err := NewStore("bbolt", " ", Options{}); err == nil {
		t.Fatalf("expected missing path error")
	}
}
