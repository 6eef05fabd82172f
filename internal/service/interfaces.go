package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/limbo/timetrack/internal/guard"
	"github.com/limbo/timetrack/pkg/entity"
)

type RegisterRequest struct {
	Name     string `validate:"required,alphanum_underscore,min=3,max=100"`
	Password string `validate:"required,min=8,max=72"`
}

type UserServiceI interface {
	// Validates user's credentials, creates new row in database. Returns user's data with ID
	Register(ctx context.Context, req *RegisterRequest) (*entity.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
}

type PaginationOpts struct {
	Limit  int
	Offset int
}

type ProjectRequest struct {
	Title string `validate:"notblank,max=255"`
}

type CreateTaskRequest struct {
	ProjectID uuid.UUID         `validate:"required"`
	Title     string            `validate:"notblank,max=255"`
	Status    entity.TaskStatus `validate:"omitempty,oneof=todo done archived"`
}

// Zero fields of UpdateTaskRequest are left unchanged.
type UpdateTaskRequest struct {
	Title  *string            `validate:"omitempty,notblank,max=255"`
	Status *entity.TaskStatus `validate:"omitempty,oneof=todo done archived"`
}

type TaskListFilter struct {
	ProjectID *uuid.UUID
	Status    *entity.TaskStatus
}

type CreateEntryRequest struct {
	ProjectID *uuid.UUID
	TaskID    *uuid.UUID
	Minutes   int `validate:"min=1"`
	// Zero means now.
	CreatedAt time.Time
}

type EntryListFilter struct {
	ProjectID *uuid.UUID
	TaskID    *uuid.UUID
}

type ProjectsServiceI interface {
	List(ctx context.Context, owner uuid.UUID, pagination PaginationOpts) ([]*entity.Project, error)
	Create(ctx context.Context, owner uuid.UUID, req ProjectRequest) (*entity.Project, error)
	Get(ctx context.Context, user, id uuid.UUID) (*entity.Project, error)
	Update(ctx context.Context, user, id uuid.UUID, req ProjectRequest) (*entity.Project, error)
	Delete(ctx context.Context, user, id uuid.UUID) error
}

type TasksServiceI interface {
	List(ctx context.Context, owner uuid.UUID, filter TaskListFilter, pagination PaginationOpts) ([]*entity.Task, error)
	// Project must exist and belong to user
	Create(ctx context.Context, user uuid.UUID, req CreateTaskRequest) (*entity.Task, error)
	Get(ctx context.Context, user, id uuid.UUID) (*entity.Task, error)
	Update(ctx context.Context, user, id uuid.UUID, req UpdateTaskRequest) (*entity.Task, error)
	Delete(ctx context.Context, user, id uuid.UUID) error
}

// StartResult is a declined start when AlreadyTracking is set. Entry is then the running one.
type StartResult struct {
	Entry           *entity.Entry
	AlreadyTracking bool
}

type TimerServiceI interface {
	Start(ctx context.Context, user, taskID uuid.UUID) (*StartResult, error)
	Stop(ctx context.Context, user, taskID uuid.UUID) (*entity.Entry, error)
	Active(ctx context.Context, user uuid.UUID) (*entity.Entry, error)
}

type EntriesServiceI interface {
	List(ctx context.Context, owner uuid.UUID, filter EntryListFilter, pagination PaginationOpts) ([]*entity.Entry, error)
	Create(ctx context.Context, user uuid.UUID, req CreateEntryRequest) (*entity.Entry, error)
	Get(ctx context.Context, user, id uuid.UUID) (*entity.Entry, error)
	Delete(ctx context.Context, user, id uuid.UUID) error
}

type Authorizer interface {
	Authorize(user uuid.UUID, resource guard.Owned) bool
}
