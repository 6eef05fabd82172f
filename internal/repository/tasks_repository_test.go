package repository_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	errorvalues "github.com/limbo/timetrack/internal/error_values"
	"github.com/limbo/timetrack/internal/repository"
	"github.com/limbo/timetrack/pkg/entity"
	"github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var taskColumns = []string{"id", "project_id", "title", "created_by", "created_at", "status", "registered_time"}

func TestCreateTask(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	repo := repository.NewTasksRepo(mock)
	query := regexp.QuoteMeta(`INSERT INTO tasks (project_id, title, created_by, status) VALUES ($1, $2, $3, $4) RETURNING id, created_at;`)
	task := entity.Task{
		ProjectID: uuid.New(),
		Title:     "Write report",
		CreatedBy: userID,
		Status:    entity.TaskStatusTodo,
	}
	ctx := context.Background()
	t.Run("successfully created", func(t *testing.T) {
		tid := uuid.New()
		createdAt := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
		mock.ExpectQuery(query).
			WithArgs(task.ProjectID, task.Title, task.CreatedBy, "todo").
			WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(tid, createdAt))
		created := task
		assert.NoError(t, repo.Create(ctx, &created))
		assert.Equal(t, tid, created.ID)
		assert.Equal(t, createdAt, created.CreatedAt)
	})
	t.Run("unknown project", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(task.ProjectID, task.Title, task.CreatedBy, "todo").
			WillReturnError(&pgconn.PgError{Code: "23503"})
		created := task
		assert.ErrorIs(t, repo.Create(ctx, &created), errorvalues.ErrProjectNotFound)
	})
	t.Run("db error", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(task.ProjectID, task.Title, task.CreatedBy, "todo").
			WillReturnError(errors.New("db error"))
		created := task
		assert.Error(t, repo.Create(ctx, &created))
	})
}

func TestGetTaskByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	repo := repository.NewTasksRepo(mock)
	task := entity.Task{
		ID:             uuid.New(),
		ProjectID:      uuid.New(),
		Title:          "Write report",
		CreatedBy:      userID,
		CreatedAt:      time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		Status:         entity.TaskStatusDone,
		RegisteredTime: 42,
	}
	query := `(?s)SELECT (.+) FROM tasks t WHERE t.id = \$1;`
	ctx := context.Background()
	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(task.ID).
			WillReturnRows(pgxmock.NewRows(taskColumns).
				AddRow(task.ID, task.ProjectID, task.Title, task.CreatedBy, task.CreatedAt, "done", task.RegisteredTime))
		result, err := repo.GetByID(ctx, task.ID)
		assert.NoError(t, err)
		assert.Equal(t, task, *result)
	})
	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(task.ID).WillReturnError(pgx.ErrNoRows)
		_, err := repo.GetByID(ctx, task.ID)
		assert.ErrorIs(t, err, errorvalues.ErrTaskNotFound)
	})
}

func TestListTasks(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	repo := repository.NewTasksRepo(mock)
	projectID := uuid.New()
	todo := entity.TaskStatusTodo
	query := `(?s)SELECT (.+) FROM tasks t WHERE t.created_by = \$1 (.+) ORDER BY t.created_at DESC LIMIT \$4 OFFSET \$5;`
	ctx := context.Background()
	t.Run("filtered by project and status", func(t *testing.T) {
		status := "todo"
		task := entity.Task{
			ID:        uuid.New(),
			ProjectID: projectID,
			Title:     "Write report",
			CreatedBy: userID,
			CreatedAt: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
			Status:    todo,
		}
		mock.ExpectQuery(query).
			WithArgs(userID, &projectID, &status, 10, 0).
			WillReturnRows(pgxmock.NewRows(taskColumns).
				AddRow(task.ID, task.ProjectID, task.Title, task.CreatedBy, task.CreatedAt, "todo", 0))
		result, err := repo.List(ctx, repository.TaskFilter{CreatedBy: userID, ProjectID: &projectID, Status: &todo}, 10, 0)
		assert.NoError(t, err)
		assert.Equal(t, []*entity.Task{&task}, result)
	})
	t.Run("db error", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(userID, pgxmock.AnyArg(), pgxmock.AnyArg(), 10, 0).
			WillReturnError(errors.New("db error"))
		_, err := repo.List(ctx, repository.TaskFilter{CreatedBy: userID}, 10, 0)
		assert.Error(t, err)
	})
}

func TestUpdateTask(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	repo := repository.NewTasksRepo(mock)
	task := entity.Task{ID: uuid.New(), Title: "Renamed", Status: entity.TaskStatusArchived}
	query := regexp.QuoteMeta(`UPDATE tasks SET title = $1, status = $2 WHERE id = $3;`)
	ctx := context.Background()
	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(query).WithArgs(task.Title, "archived", task.ID).WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		assert.NoError(t, repo.Update(ctx, &task))
	})
	t.Run("not found", func(t *testing.T) {
		mock.ExpectExec(query).WithArgs(task.Title, "archived", task.ID).WillReturnResult(pgxmock.NewResult("UPDATE", 0))
		assert.ErrorIs(t, repo.Update(ctx, &task), errorvalues.ErrTaskNotFound)
	})
}

func TestDeleteTask(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	repo := repository.NewTasksRepo(mock)
	id := uuid.New()
	query := regexp.QuoteMeta(`DELETE FROM tasks WHERE id = $1;`)
	ctx := context.Background()
	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(query).WithArgs(id).WillReturnResult(pgxmock.NewResult("DELETE", 1))
		assert.NoError(t, repo.Delete(ctx, id))
	})
	t.Run("not found", func(t *testing.T) {
		mock.ExpectExec(query).WithArgs(id).WillReturnResult(pgxmock.NewResult("DELETE", 0))
		assert.ErrorIs(t, repo.Delete(ctx, id), errorvalues.ErrTaskNotFound)
	})
}
