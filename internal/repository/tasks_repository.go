package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	errorvalues "github.com/limbo/timetrack/internal/error_values"
	"github.com/limbo/timetrack/pkg/entity"
)

const selectTasks = `SELECT t.id, t.project_id, t.title, t.created_by, t.created_at, t.status,
	COALESCE((SELECT SUM(e.minutes) FROM entries e WHERE e.task_id = t.id), 0)
	FROM tasks t`

type TasksRepository struct {
	conn PgConnection
}

func NewTasksRepo(conn PgConnection) *TasksRepository {
	return &TasksRepository{
		conn: conn,
	}
}

func scanTask(row scanner) (*entity.Task, error) {
	var (
		t      entity.Task
		status string
	)
	err := row.Scan(&t.ID, &t.ProjectID, &t.Title, &t.CreatedBy, &t.CreatedAt, &status, &t.RegisteredTime)
	if err != nil {
		return nil, err
	}
	t.Status = entity.TaskStatus(status)
	t.CreatedAt = t.CreatedAt.UTC()
	return &t, nil
}

func (tr *TasksRepository) Create(ctx context.Context, task *entity.Task) error {
	if task == nil {
		return errors.New("task is nil")
	}
	row := tr.conn.QueryRow(ctx,
		`INSERT INTO tasks (project_id, title, created_by, status) VALUES ($1, $2, $3, $4) RETURNING id, created_at;`,
		task.ProjectID,
		task.Title,
		task.CreatedBy,
		string(task.Status),
	)
	if err := row.Scan(&task.ID, &task.CreatedAt); err != nil {
		switch pgErrorCode(err) {
		case codeFKViolation:
			return errorvalues.ErrProjectNotFound
		case codeCheckViolation:
			return errorvalues.ErrValidation
		}
		return errors.New("creating task db error: " + err.Error())
	}
	task.CreatedAt = task.CreatedAt.UTC()
	return nil
}

func (tr *TasksRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Task, error) {
	task, err := scanTask(tr.conn.QueryRow(ctx, selectTasks+` WHERE t.id = $1;`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrTaskNotFound
		}
		return nil, errors.New("getting task by id error: " + err.Error())
	}
	return task, nil
}

func (tr *TasksRepository) List(ctx context.Context, filter TaskFilter, limit, offset int) ([]*entity.Task, error) {
	var status *string
	if filter.Status != nil {
		s := string(*filter.Status)
		status = &s
	}
	rows, err := tr.conn.Query(ctx, selectTasks+` WHERE t.created_by = $1
		AND ($2::uuid IS NULL OR t.project_id = $2)
		AND ($3::text IS NULL OR t.status = $3)
		ORDER BY t.created_at DESC LIMIT $4 OFFSET $5;`,
		filter.CreatedBy, filter.ProjectID, status, limit, offset)
	if err != nil {
		return nil, errors.New("listing tasks error: " + err.Error())
	}
	defer rows.Close()
	tasks := make([]*entity.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, errors.New("unmarshalling task error: " + err.Error())
		}
		tasks = append(tasks, t)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.New("unexpected error after scanning tasks: " + err.Error())
	}
	return tasks, nil
}

func (tr *TasksRepository) Update(ctx context.Context, task *entity.Task) error {
	ct, err := tr.conn.Exec(ctx, `UPDATE tasks SET title = $1, status = $2 WHERE id = $3;`,
		task.Title, string(task.Status), task.ID,
	)
	if err != nil {
		if pgErrorCode(err) == codeCheckViolation {
			return errorvalues.ErrValidation
		}
		return errors.New("updating task error: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrTaskNotFound
	}
	return nil
}

func (tr *TasksRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ct, err := tr.conn.Exec(ctx, `DELETE FROM tasks WHERE id = $1;`, id)
	if err != nil {
		return errors.New("deleting task error: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrTaskNotFound
	}
	return nil
}
