package service

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/google/uuid"
	errorvalues "github.com/limbo/timetrack/internal/error_values"
	"github.com/limbo/timetrack/internal/repository"
	"github.com/limbo/timetrack/pkg/entity"
)

// ErrUnknownProject is a validation failure: tasks can only be filed under an existing project.
var ErrUnknownProject = errors.Join(errorvalues.ErrValidation, errors.New("unknown project"))

type TasksService struct {
	repo     repository.TasksRepositoryI
	projects repository.ProjectsRepositoryI
	guard    Authorizer
}

func NewTasksService(tasksRepo repository.TasksRepositoryI, projectsRepo repository.ProjectsRepositoryI, guard Authorizer) *TasksService {
	if tasksRepo == nil || projectsRepo == nil {
		log.Fatal("provided nil tasksRepo or projectsRepo")
	}
	return &TasksService{
		repo:     tasksRepo,
		projects: projectsRepo,
		guard:    guard,
	}
}

func (ts *TasksService) List(ctx context.Context, owner uuid.UUID, filter TaskListFilter, pagination PaginationOpts) ([]*entity.Task, error) {
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, errors.Join(errorvalues.ErrValidation, errors.New("unknown status "+string(*filter.Status)))
	}
	tasks, err := ts.repo.List(ctx, repository.TaskFilter{
		CreatedBy: owner,
		ProjectID: filter.ProjectID,
		Status:    filter.Status,
	}, pagination.Limit, pagination.Offset)
	if err != nil {
		return nil, errors.New("tasks repository error: " + err.Error())
	}
	return tasks, nil
}

func (ts *TasksService) Create(ctx context.Context, user uuid.UUID, req CreateTaskRequest) (*entity.Task, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	project, err := ts.projects.GetByID(ctx, req.ProjectID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrProjectNotFound) {
			return nil, ErrUnknownProject
		}
		return nil, errors.New("projects repository error: " + err.Error())
	}
	if !ts.guard.Authorize(user, project) {
		return nil, errorvalues.ErrForbidden
	}
	status := req.Status
	if status == "" {
		status = entity.TaskStatusTodo
	}
	task := entity.Task{
		ProjectID: project.ID,
		Title:     strings.TrimSpace(req.Title),
		CreatedBy: user,
		Status:    status,
	}
	err = ts.repo.Create(ctx, &task)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrProjectNotFound):
			// project removed between the lookup and the insert
			return nil, ErrUnknownProject
		case errors.Is(err, errorvalues.ErrValidation):
			return nil, err
		}
		return nil, errors.New("tasks repository error: " + err.Error())
	}
	return &task, nil
}

func (ts *TasksService) Get(ctx context.Context, user, id uuid.UUID) (*entity.Task, error) {
	task, err := ts.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, errorvalues.ErrTaskNotFound) {
			return nil, errorvalues.ErrTaskNotFound
		}
		return nil, errors.New("tasks repository error: " + err.Error())
	}
	if !ts.guard.Authorize(user, task) {
		return nil, errorvalues.ErrForbidden
	}
	return task, nil
}

func (ts *TasksService) Update(ctx context.Context, user, id uuid.UUID, req UpdateTaskRequest) (*entity.Task, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	task, err := ts.Get(ctx, user, id)
	if err != nil {
		return nil, err
	}
	if req.Title != nil {
		task.Title = strings.TrimSpace(*req.Title)
	}
	if req.Status != nil {
		task.Status = *req.Status
	}
	err = ts.repo.Update(ctx, task)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrTaskNotFound), errors.Is(err, errorvalues.ErrValidation):
			return nil, err
		}
		return nil, errors.New("tasks repository error: " + err.Error())
	}
	return task, nil
}

func (ts *TasksService) Delete(ctx context.Context, user, id uuid.UUID) error {
	if _, err := ts.Get(ctx, user, id); err != nil {
		return err
	}
	err := ts.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, errorvalues.ErrTaskNotFound) {
			return err
		}
		return errors.New("tasks repository error: " + err.Error())
	}
	return nil
}
