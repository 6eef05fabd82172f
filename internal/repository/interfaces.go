package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/limbo/timetrack/pkg/entity"
)

type UsersRepositoryI interface {
	// Creates new user in database
	Create(ctx context.Context, user *entity.User) error
	// Looks up user by name
	FindByName(ctx context.Context, name string) (*entity.User, error)
	// Looks up user by uid. Can be used for authorization middleware
	FindByID(ctx context.Context, uid uuid.UUID) (*entity.User, error)
	// Deletes user, cascading to projects, tasks and entries
	Delete(ctx context.Context, uid uuid.UUID) error
}

type ProjectsRepositoryI interface {
	// Creates project. Title and Owner are necessary, ID and CreatedAt are filled in
	Create(ctx context.Context, project *entity.Project) error
	// Searches project with given id, derived fields included
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Project, error)
	// Lists projects of owner ordered by title
	GetByOwner(ctx context.Context, owner uuid.UUID, limit, offset int) ([]*entity.Project, error)
	// Updates title of project by ID
	Update(ctx context.Context, project *entity.Project) error
	// Deletes project, its tasks and entries
	Delete(ctx context.Context, id uuid.UUID) error
}

type TasksRepositoryI interface {
	// Creates task. ProjectID, Title, CreatedBy and Status are necessary
	Create(ctx context.Context, task *entity.Task) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Task, error)
	// Lists tasks matching filter, newest first
	List(ctx context.Context, filter TaskFilter, limit, offset int) ([]*entity.Task, error)
	// Updates title and status of task by ID
	Update(ctx context.Context, task *entity.Task) error
	// Deletes task and its entries
	Delete(ctx context.Context, id uuid.UUID) error
}

type EntriesRepositoryI interface {
	// Creates entry. Fails with ErrTimerAlreadyRunning if a second tracked entry is inserted for the user
	Create(ctx context.Context, entry *entity.Entry) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Entry, error)
	// Returns the user's running entry, whatever task it belongs to
	GetTrackedByUser(ctx context.Context, uid uuid.UUID) (*entity.Entry, error)
	// Returns the user's running entry for exactly this project and task
	FindTracked(ctx context.Context, uid, projectID, taskID uuid.UUID) (*entity.Entry, error)
	// Atomically turns a running entry into a finished one
	Finish(ctx context.Context, id uuid.UUID, minutes int) (*entity.Entry, error)
	// Lists entries matching filter, newest first
	List(ctx context.Context, filter EntryFilter, limit, offset int) ([]*entity.Entry, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Nil pointers mean "any".
type TaskFilter struct {
	CreatedBy uuid.UUID
	ProjectID *uuid.UUID
	Status    *entity.TaskStatus
}

type EntryFilter struct {
	CreatedBy uuid.UUID
	ProjectID *uuid.UUID
	TaskID    *uuid.UUID
}

type DBConfig interface {
	ConnString() string
}

type PgConnection interface {
	Ping(ctx context.Context) error
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PGCfg struct {
	Address  string
	Username string
	Password string
	DB       string
}

func (pgcfg *PGCfg) ConnString() string {
	return fmt.Sprintf("postgresql://%s:%s@%s/%s", pgcfg.Username, pgcfg.Password, pgcfg.Address, pgcfg.DB)
}
