package jobs

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"clipsmith/internal/paths"
)

func testWorkspace(t *testing.T) paths.WorkspacePaths {
	t.Helper()
	ws, err := paths.Resolve(t.TempDir())
	if err != nil {
		t.Fatalf("resolve workspace: %v", err)
	}
	return ws
}

func TestRegistryLifecycle(t *testing.T) {
	ws := testWorkspace(t)
	reg := NewRegistry(ws, zerolog.Nop())
	defer reg.Close()

	job, err := reg.Create("source.mp4")
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if _, err := uuid.Parse(job.ID); err != nil {
		t.Fatalf("job ID is not a UUID: %q", job.ID)
	}
	if job.Status != StatusQueued || job.Progress != 10 {
		t.Fatalf("unexpected new job %+v", job)
	}

	updated, err := reg.SetStatus(job.ID, StatusRendering)
	if err != nil {
		t.Fatalf("SetStatus error: %v", err)
	}
	if updated.Progress != 80 {
		t.Fatalf("expected progress 80, got %d", updated.Progress)
	}

	got, ok := reg.Get(job.ID)
	if !ok || got.Status != StatusRendering {
		t.Fatalf("Get returned %+v, %v", got, ok)
	}

	persisted, err := ReadStatus(ws.Job(job.ID).StatusFile)
	if err != nil {
		t.Fatalf("ReadStatus error: %v", err)
	}
	if persisted.Status != StatusRendering || persisted.Source != "source.mp4" {
		t.Fatalf("unexpected persisted status %+v", persisted)
	}

	if _, err := reg.Update("missing", func(*Job) {}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRegistrySerializesConcurrentUpdates(t *testing.T) {
	reg := NewRegistry(testWorkspace(t), zerolog.Nop())
	defer reg.Close()

	job, err := reg.Create("source.mp4")
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := reg.Update(job.ID, func(j *Job) { j.Attempt++ }); err != nil {
				t.Errorf("Update error: %v", err)
			}
		}()
	}
	wg.Wait()

	got, _ := reg.Get(job.ID)
	if got.Attempt != 50 {
		t.Fatalf("expected 50 serialized increments, got %d", got.Attempt)
	}
}

func TestRegistryListAndClose(t *testing.T) {
	ws := testWorkspace(t)
	reg := NewRegistry(ws, zerolog.Nop())

	for i := 0; i < 3; i++ {
		if _, err := reg.Create(fmt.Sprintf("src%d.mp4", i)); err != nil {
			t.Fatalf("Create error: %v", err)
		}
	}
	if n := len(reg.List()); n != 3 {
		t.Fatalf("expected 3 jobs, got %d", n)
	}

	all, err := ReadAll(ws.JobsDir)
	if err != nil {
		t.Fatalf("ReadAll error: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 persisted jobs, got %d", len(all))
	}

	reg.Close()
	reg.Close()
	if _, err := reg.Create("late.mp4"); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
	if _, ok := reg.Get("anything"); ok {
		t.Fatal("Get after Close must fail")
	}
}

func TestReadAllMissingDir(t *testing.T) {
	jobs, err := ReadAll(filepath.Join(t.TempDir(), "nope"))
	if err != nil || jobs != nil {
		t.Fatalf("expected empty result, got %v %v", jobs, err)
	}
}

func TestStatusProgress(t *testing.T) {
	cases := map[Status]int{
		StatusQueued:    10,
		StatusPlanning:  60,
		StatusRendering: 80,
		StatusDone:      100,
		StatusError:     100,
	}
	for status, want := range cases {
		if got := status.Progress(); got != want {
			t.Errorf("%s progress = %d, want %d", status, got, want)
		}
	}
	if !StatusError.Terminal() || StatusRendering.Terminal() {
		t.Fatal("unexpected terminal states")
	}
}
