package service_test

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	errorvalues "github.com/limbo/timetrack/internal/error_values"
	"github.com/limbo/timetrack/internal/repository"
	"github.com/limbo/timetrack/pkg/entity"
)

// memStore is an in-memory stand-in for the postgres repositories. It keeps the
// same cascade, derived-field and one-tracked-entry-per-user rules as the schema.
type memStore struct {
	mu       sync.Mutex
	projects map[uuid.UUID]entity.Project
	tasks    map[uuid.UUID]entity.Task
	entries  map[uuid.UUID]entity.Entry
}

func newMemStore() *memStore {
	return &memStore{
		projects: map[uuid.UUID]entity.Project{},
		tasks:    map[uuid.UUID]entity.Task{},
		entries:  map[uuid.UUID]entity.Entry{},
	}
}

func (m *memStore) Projects() repository.ProjectsRepositoryI { return (*memProjects)(m) }
func (m *memStore) Tasks() repository.TasksRepositoryI       { return (*memTasks)(m) }
func (m *memStore) Entries() repository.EntriesRepositoryI   { return (*memEntries)(m) }

func (m *memStore) entryCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

type memProjects memStore

func (p *memProjects) fill(project entity.Project) *entity.Project {
	for _, e := range p.entries {
		if e.ProjectID != nil && *e.ProjectID == project.ID {
			project.RegisteredTime += e.Minutes
		}
	}
	for _, t := range p.tasks {
		if t.ProjectID == project.ID && t.Status == entity.TaskStatusTodo {
			project.OpenTaskCount++
		}
	}
	return &project
}

func (p *memProjects) Create(ctx context.Context, project *entity.Project) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	project.ID = uuid.New()
	project.CreatedAt = fixedNow
	p.projects[project.ID] = *project
	return nil
}

func (p *memProjects) GetByID(ctx context.Context, id uuid.UUID) (*entity.Project, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	project, ok := p.projects[id]
	if !ok {
		return nil, errorvalues.ErrProjectNotFound
	}
	return p.fill(project), nil
}

func (p *memProjects) GetByOwner(ctx context.Context, owner uuid.UUID, limit, offset int) ([]*entity.Project, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	result := []*entity.Project{}
	for _, project := range p.projects {
		if project.Owner == owner {
			result = append(result, p.fill(project))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Title < result[j].Title })
	return page(result, limit, offset), nil
}

func (p *memProjects) Update(ctx context.Context, project *entity.Project) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	stored, ok := p.projects[project.ID]
	if !ok {
		return errorvalues.ErrProjectNotFound
	}
	stored.Title = project.Title
	p.projects[project.ID] = stored
	return nil
}

func (p *memProjects) Delete(ctx context.Context, id uuid.UUID) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.projects[id]; !ok {
		return errorvalues.ErrProjectNotFound
	}
	delete(p.projects, id)
	for tid, t := range p.tasks {
		if t.ProjectID == id {
			delete(p.tasks, tid)
		}
	}
	for eid, e := range p.entries {
		if e.ProjectID != nil && *e.ProjectID == id {
			delete(p.entries, eid)
		}
	}
	return nil
}

type memTasks memStore

func (t *memTasks) fill(task entity.Task) *entity.Task {
	for _, e := range t.entries {
		if e.TaskID != nil && *e.TaskID == task.ID {
			task.RegisteredTime += e.Minutes
		}
	}
	return &task
}

func (t *memTasks) Create(ctx context.Context, task *entity.Task) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.projects[task.ProjectID]; !ok {
		return errorvalues.ErrProjectNotFound
	}
	task.ID = uuid.New()
	task.CreatedAt = fixedNow
	t.tasks[task.ID] = *task
	return nil
}

func (t *memTasks) GetByID(ctx context.Context, id uuid.UUID) (*entity.Task, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	task, ok := t.tasks[id]
	if !ok {
		return nil, errorvalues.ErrTaskNotFound
	}
	return t.fill(task), nil
}

func (t *memTasks) List(ctx context.Context, filter repository.TaskFilter, limit, offset int) ([]*entity.Task, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	result := []*entity.Task{}
	for _, task := range t.tasks {
		if task.CreatedBy != filter.CreatedBy {
			continue
		}
		if filter.ProjectID != nil && task.ProjectID != *filter.ProjectID {
			continue
		}
		if filter.Status != nil && task.Status != *filter.Status {
			continue
		}
		result = append(result, t.fill(task))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Title < result[j].Title })
	return page(result, limit, offset), nil
}

func (t *memTasks) Update(ctx context.Context, task *entity.Task) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	stored, ok := t.tasks[task.ID]
	if !ok {
		return errorvalues.ErrTaskNotFound
	}
	stored.Title = task.Title
	stored.Status = task.Status
	t.tasks[task.ID] = stored
	return nil
}

func (t *memTasks) Delete(ctx context.Context, id uuid.UUID) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.tasks[id]; !ok {
		return errorvalues.ErrTaskNotFound
	}
	delete(t.tasks, id)
	for eid, e := range t.entries {
		if e.TaskID != nil && *e.TaskID == id {
			delete(t.entries, eid)
		}
	}
	return nil
}

type memEntries memStore

func (e *memEntries) Create(ctx context.Context, entry *entity.Entry) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if entry.IsTracked {
		for _, other := range e.entries {
			if other.IsTracked && other.CreatedBy == entry.CreatedBy {
				return errorvalues.ErrTimerAlreadyRunning
			}
		}
	}
	if entry.TaskID != nil {
		if _, ok := e.tasks[*entry.TaskID]; !ok {
			return errorvalues.ErrReferenceNotFound
		}
	}
	if entry.ProjectID != nil {
		if _, ok := e.projects[*entry.ProjectID]; !ok {
			return errorvalues.ErrReferenceNotFound
		}
	}
	entry.ID = uuid.New()
	e.entries[entry.ID] = *entry
	return nil
}

func (e *memEntries) GetByID(ctx context.Context, id uuid.UUID) (*entity.Entry, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	entry, ok := e.entries[id]
	if !ok {
		return nil, errorvalues.ErrEntryNotFound
	}
	return &entry, nil
}

func (e *memEntries) GetTrackedByUser(ctx context.Context, uid uuid.UUID) (*entity.Entry, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, entry := range e.entries {
		if entry.IsTracked && entry.CreatedBy == uid {
			return &entry, nil
		}
	}
	return nil, errorvalues.ErrTrackingNotFound
}

func (e *memEntries) FindTracked(ctx context.Context, uid, projectID, taskID uuid.UUID) (*entity.Entry, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, entry := range e.entries {
		if entry.IsTracked && entry.CreatedBy == uid &&
			entry.ProjectID != nil && *entry.ProjectID == projectID &&
			entry.TaskID != nil && *entry.TaskID == taskID {
			return &entry, nil
		}
	}
	return nil, errorvalues.ErrTrackingNotFound
}

func (e *memEntries) Finish(ctx context.Context, id uuid.UUID, minutes int) (*entity.Entry, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	entry, ok := e.entries[id]
	if !ok || !entry.IsTracked {
		return nil, errorvalues.ErrTrackingNotFound
	}
	entry.IsTracked = false
	entry.Minutes = minutes
	e.entries[id] = entry
	return &entry, nil
}

func (e *memEntries) List(ctx context.Context, filter repository.EntryFilter, limit, offset int) ([]*entity.Entry, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	result := []*entity.Entry{}
	for _, entry := range e.entries {
		if entry.CreatedBy != filter.CreatedBy {
			continue
		}
		if filter.ProjectID != nil && (entry.ProjectID == nil || *entry.ProjectID != *filter.ProjectID) {
			continue
		}
		if filter.TaskID != nil && (entry.TaskID == nil || *entry.TaskID != *filter.TaskID) {
			continue
		}
		result = append(result, &entry)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return page(result, limit, offset), nil
}

func (e *memEntries) Delete(ctx context.Context, id uuid.UUID) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.entries[id]; !ok {
		return errorvalues.ErrEntryNotFound
	}
	delete(e.entries, id)
	return nil
}
