package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	errorvalues "github.com/limbo/timetrack/internal/error_values"
	"github.com/limbo/timetrack/pkg/entity"
)

const selectProjects = `SELECT p.id, p.title, p.owner_id, p.created_at,
	COALESCE((SELECT SUM(e.minutes) FROM entries e WHERE e.project_id = p.id), 0),
	(SELECT COUNT(*) FROM tasks t WHERE t.project_id = p.id AND t.status = 'todo')
	FROM projects p`

type ProjectsRepository struct {
	conn PgConnection
}

func NewProjectsRepo(conn PgConnection) *ProjectsRepository {
	return &ProjectsRepository{
		conn: conn,
	}
}

// scanner is satisfied by both pgx.Row and pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanProject(row scanner) (*entity.Project, error) {
	var p entity.Project
	err := row.Scan(&p.ID, &p.Title, &p.Owner, &p.CreatedAt, &p.RegisteredTime, &p.OpenTaskCount)
	if err != nil {
		return nil, err
	}
	p.CreatedAt = p.CreatedAt.UTC()
	return &p, nil
}

func (pr *ProjectsRepository) Create(ctx context.Context, project *entity.Project) error {
	if project == nil {
		return errors.New("project is nil")
	}
	row := pr.conn.QueryRow(ctx, `INSERT INTO projects (title, owner_id) VALUES ($1, $2) RETURNING id, created_at;`,
		project.Title,
		project.Owner,
	)
	if err := row.Scan(&project.ID, &project.CreatedAt); err != nil {
		switch pgErrorCode(err) {
		case codeFKViolation:
			return errorvalues.ErrOwnerNotFound
		case codeCheckViolation:
			return errorvalues.ErrValidation
		}
		return errors.New("creating project db error: " + err.Error())
	}
	project.CreatedAt = project.CreatedAt.UTC()
	return nil
}

func (pr *ProjectsRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Project, error) {
	project, err := scanProject(pr.conn.QueryRow(ctx, selectProjects+` WHERE p.id = $1;`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrProjectNotFound
		}
		return nil, errors.New("getting project by id error: " + err.Error())
	}
	return project, nil
}

func (pr *ProjectsRepository) GetByOwner(ctx context.Context, owner uuid.UUID, limit, offset int) ([]*entity.Project, error) {
	rows, err := pr.conn.Query(ctx, selectProjects+` WHERE p.owner_id = $1 ORDER BY p.title LIMIT $2 OFFSET $3;`,
		owner, limit, offset)
	if err != nil {
		return nil, errors.New("getting projects by owner error: " + err.Error())
	}
	defer rows.Close()
	projects := make([]*entity.Project, 0)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, errors.New("unmarshalling project error: " + err.Error())
		}
		projects = append(projects, p)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.New("unexpected error after scanning projects: " + err.Error())
	}
	return projects, nil
}

func (pr *ProjectsRepository) Update(ctx context.Context, project *entity.Project) error {
	ct, err := pr.conn.Exec(ctx, `UPDATE projects SET title = $1 WHERE id = $2;`, project.Title, project.ID)
	if err != nil {
		if pgErrorCode(err) == codeCheckViolation {
			return errorvalues.ErrValidation
		}
		return errors.New("updating project error: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrProjectNotFound
	}
	return nil
}

func (pr *ProjectsRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ct, err := pr.conn.Exec(ctx, `DELETE FROM projects WHERE id = $1;`, id)
	if err != nil {
		return errors.New("deleting project error: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrProjectNotFound
	}
	return nil
}
