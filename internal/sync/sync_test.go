package sync

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/iamtinsae/mockify/internal/model"
)

// fakeLister returns a fixed set of projects or an error.
type fakeLister struct {
	projects []*model.Project
	err      error
}

func (f *fakeLister) ListAllProjects(context.Context) ([]*model.Project, error) {
	return f.projects, f.err
}

// demoProjects returns two projects with one resource and two endpoints between them.
func demoProjects() []*model.Project {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return []*model.Project{
		{ID: "prj-2", Name: "Zeta", Slug: "zeta", CreatorID: "bob", CreatedAt: now},
		{
			ID: "prj-1", Name: "Demo", Slug: "demo", CreatorID: "alice", CreatedAt: now,
			Resources: []*model.Resource{{
				ID: "res-1", ProjectID: "prj-1", Name: "users", CreatedAt: now,
				Endpoints: []*model.Endpoint{
					{ID: "ep-1", ResourceID: "res-1", Route: "/", Method: model.MethodGet, CreatedAt: now,
						Schemas: []model.SchemaField{{Name: "id", Type: model.TypeID}}},
					{ID: "ep-2", ResourceID: "res-1", Route: "/", Method: model.MethodPost, CreatedAt: now},
				},
			}},
		},
	}
}

// mockDestination records calls to Write.
type mockDestination struct {
	name   string
	err    error
	writes atomic.Int64
	last   atomic.Value // []byte
}

func (d *mockDestination) Name() string { return d.name }

func (d *mockDestination) Write(_ context.Context, data []byte) error {
	d.writes.Add(1)
	d.last.Store(append([]byte(nil), data...))
	return d.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

func TestSchedulerStartStop(t *testing.T) {
	dest := &mockDestination{name: "mem"}
	sched := NewScheduler(&fakeLister{projects: demoProjects()}, []Destination{dest}, 50*time.Millisecond, testLogger())
	sched.Start()

	// Wait for at least the initial sync + one tick.
	time.Sleep(120 * time.Millisecond)
	sched.Stop()

	if writes := dest.writes.Load(); writes < 2 {
		t.Fatalf("expected at least 2 writes, got %d", writes)
	}

	data, ok := dest.last.Load().([]byte)
	if !ok || len(data) == 0 {
		t.Fatal("expected non-empty data")
	}
	// 1 header + 2 projects
	if lines := nonEmptyLines(string(data)); len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
}

func TestSchedulerStop_NoStart(t *testing.T) {
	sched := NewScheduler(&fakeLister{}, nil, time.Minute, nil)
	// Stop without Start should not panic.
	sched.Stop()
}

func TestSchedulerMultipleDestinations(t *testing.T) {
	dest1 := &mockDestination{name: "one"}
	dest2 := &mockDestination{name: "two"}

	sched := NewScheduler(&fakeLister{}, []Destination{dest1, dest2}, time.Second, testLogger())
	sched.Start()

	// Wait for the initial sync.
	time.Sleep(50 * time.Millisecond)
	sched.Stop()

	if dest1.writes.Load() < 1 {
		t.Fatal("dest1 expected at least 1 write")
	}
	if dest2.writes.Load() < 1 {
		t.Fatal("dest2 expected at least 1 write")
	}
}

func TestSyncNowJoinsDestinationErrors(t *testing.T) {
	errDown := errors.New("bucket unreachable")
	ok := &mockDestination{name: "ok"}
	bad := &mockDestination{name: "bad", err: errDown}
	sched := NewScheduler(&fakeLister{projects: demoProjects()}, []Destination{bad, ok}, time.Minute, testLogger())

	err := sched.SyncNow(context.Background())
	if !errors.Is(err, errDown) {
		t.Fatalf("SyncNow error = %v, want %v", err, errDown)
	}
	if !strings.Contains(err.Error(), "bad") {
		t.Errorf("error %q should name the destination", err)
	}
	if ok.writes.Load() != 1 {
		t.Errorf("healthy destination writes = %d, want 1", ok.writes.Load())
	}
}

func TestSyncNowExportFailure(t *testing.T) {
	errList := errors.New("db down")
	dest := &mockDestination{name: "mem"}
	sched := NewScheduler(&fakeLister{err: errList}, []Destination{dest}, time.Minute, testLogger())

	if err := sched.SyncNow(context.Background()); !errors.Is(err, errList) {
		t.Fatalf("SyncNow error = %v, want %v", err, errList)
	}
	if dest.writes.Load() != 0 {
		t.Error("destination should not be written when export fails")
	}
}

func nonEmptyLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out
}
