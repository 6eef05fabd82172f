package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	errorvalues "github.com/limbo/timetrack/internal/error_values"
	"github.com/limbo/timetrack/internal/repository"
	"github.com/limbo/timetrack/pkg/entity"
)

var (
	ErrUnknownTask     = errors.Join(errorvalues.ErrValidation, errors.New("unknown task"))
	ErrProjectMismatch = errors.Join(errorvalues.ErrValidation, errors.New("task doesn't belong to the given project"))
)

// EntriesService handles manually logged time. Running timers are owned by TimerService.
type EntriesService struct {
	repo     repository.EntriesRepositoryI
	tasks    repository.TasksRepositoryI
	projects repository.ProjectsRepositoryI
	guard    Authorizer
	now      func() time.Time
}

func NewEntriesService(entriesRepo repository.EntriesRepositoryI, tasksRepo repository.TasksRepositoryI, projectsRepo repository.ProjectsRepositoryI, guard Authorizer) *EntriesService {
	if entriesRepo == nil || tasksRepo == nil || projectsRepo == nil {
		log.Fatal("provided nil repository to entries service")
	}
	return &EntriesService{
		repo:     entriesRepo,
		tasks:    tasksRepo,
		projects: projectsRepo,
		guard:    guard,
		now:      time.Now,
	}
}

func (es *EntriesService) List(ctx context.Context, owner uuid.UUID, filter EntryListFilter, pagination PaginationOpts) ([]*entity.Entry, error) {
	entries, err := es.repo.List(ctx, repository.EntryFilter{
		CreatedBy: owner,
		ProjectID: filter.ProjectID,
		TaskID:    filter.TaskID,
	}, pagination.Limit, pagination.Offset)
	if err != nil {
		return nil, errors.New("entries repository error: " + err.Error())
	}
	return entries, nil
}

func (es *EntriesService) Create(ctx context.Context, user uuid.UUID, req CreateEntryRequest) (*entity.Entry, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	entry := entity.Entry{
		Minutes:   req.Minutes,
		CreatedBy: user,
		CreatedAt: req.CreatedAt.UTC(),
	}
	if req.CreatedAt.IsZero() {
		entry.CreatedAt = es.now().UTC()
	}

	switch {
	case req.TaskID != nil:
		task, err := es.tasks.GetByID(ctx, *req.TaskID)
		if err != nil {
			if errors.Is(err, errorvalues.ErrTaskNotFound) {
				return nil, ErrUnknownTask
			}
			return nil, errors.New("tasks repository error: " + err.Error())
		}
		if !es.guard.Authorize(user, task) {
			return nil, errorvalues.ErrForbidden
		}
		if req.ProjectID != nil && *req.ProjectID != task.ProjectID {
			return nil, ErrProjectMismatch
		}
		projectID := task.ProjectID
		entry.TaskID = &task.ID
		entry.ProjectID = &projectID
	case req.ProjectID != nil:
		project, err := es.projects.GetByID(ctx, *req.ProjectID)
		if err != nil {
			if errors.Is(err, errorvalues.ErrProjectNotFound) {
				return nil, ErrUnknownProject
			}
			return nil, errors.New("projects repository error: " + err.Error())
		}
		if !es.guard.Authorize(user, project) {
			return nil, errorvalues.ErrForbidden
		}
		entry.ProjectID = &project.ID
	}

	err := es.repo.Create(ctx, &entry)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrReferenceNotFound):
			return nil, errors.Join(errorvalues.ErrValidation, err)
		case errors.Is(err, errorvalues.ErrValidation):
			return nil, err
		}
		return nil, errors.New("entries repository error: " + err.Error())
	}
	return &entry, nil
}

func (es *EntriesService) Get(ctx context.Context, user, id uuid.UUID) (*entity.Entry, error) {
	entry, err := es.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, errorvalues.ErrEntryNotFound) {
			return nil, errorvalues.ErrEntryNotFound
		}
		return nil, errors.New("entries repository error: " + err.Error())
	}
	if !es.guard.Authorize(user, entry) {
		return nil, errorvalues.ErrForbidden
	}
	return entry, nil
}

// Delete removes an entry. Deleting the tracked entry cancels the running timer.
func (es *EntriesService) Delete(ctx context.Context, user, id uuid.UUID) error {
	if _, err := es.Get(ctx, user, id); err != nil {
		return err
	}
	err := es.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, errorvalues.ErrEntryNotFound) {
			return err
		}
		return errors.New("entries repository error: " + err.Error())
	}
	return nil
}
