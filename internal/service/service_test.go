package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/limbo/timetrack/internal/guard"
	"github.com/limbo/timetrack/internal/service"
	"github.com/limbo/timetrack/pkg/entity"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func TestMain(m *testing.M) {
	service.InitValidator()
	m.Run()
}

// testClock is a manually advanced clock.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: fixedNow}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// fixture wires every service against one memStore.
type fixture struct {
	store    *memStore
	clock    *testClock
	projects *service.ProjectsService
	tasks    *service.TasksService
	timer    *service.TimerService
	entries  *service.EntriesService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := newMemStore()
	clock := newTestClock()
	g := guard.MustNew()
	return &fixture{
		store:    store,
		clock:    clock,
		projects: service.NewProjectsService(store.Projects(), g),
		tasks:    service.NewTasksService(store.Tasks(), store.Projects(), g),
		timer:    service.NewTimerService(store.Tasks(), store.Entries(), g, service.WithClock(clock.Now)),
		entries:  service.NewEntriesService(store.Entries(), store.Tasks(), store.Projects(), g),
	}
}

func (f *fixture) project(t *testing.T, owner uuid.UUID, title string) *entity.Project {
	t.Helper()
	p, err := f.projects.Create(context.Background(), owner, service.ProjectRequest{Title: title})
	require.NoError(t, err)
	return p
}

func (f *fixture) task(t *testing.T, owner uuid.UUID, project *entity.Project, title string) *entity.Task {
	t.Helper()
	task, err := f.tasks.Create(context.Background(), owner, service.CreateTaskRequest{
		ProjectID: project.ID,
		Title:     title,
	})
	require.NoError(t, err)
	return task
}
