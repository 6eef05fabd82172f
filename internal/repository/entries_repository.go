package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	errorvalues "github.com/limbo/timetrack/internal/error_values"
	"github.com/limbo/timetrack/pkg/entity"
)

const (
	entryColumns  = `id, project_id, task_id, minutes, is_tracked, created_by, created_at`
	selectEntries = `SELECT ` + entryColumns + ` FROM entries`
)

type EntriesRepository struct {
	conn PgConnection
}

func NewEntriesRepo(conn PgConnection) *EntriesRepository {
	return &EntriesRepository{
		conn: conn,
	}
}

func scanEntry(row scanner) (*entity.Entry, error) {
	var e entity.Entry
	err := row.Scan(&e.ID, &e.ProjectID, &e.TaskID, &e.Minutes, &e.IsTracked, &e.CreatedBy, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	e.CreatedAt = e.CreatedAt.UTC()
	return &e, nil
}

func (er *EntriesRepository) Create(ctx context.Context, entry *entity.Entry) error {
	if entry == nil {
		return errors.New("entry is nil")
	}
	row := er.conn.QueryRow(ctx,
		`INSERT INTO entries (project_id, task_id, minutes, is_tracked, created_by, created_at) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id;`,
		entry.ProjectID,
		entry.TaskID,
		entry.Minutes,
		entry.IsTracked,
		entry.CreatedBy,
		entry.CreatedAt.UTC(),
	)
	if err := row.Scan(&entry.ID); err != nil {
		switch pgErrorCode(err) {
		// Only entries_one_tracked_per_user can be violated here
		case codeUniqueViolation:
			return errorvalues.ErrTimerAlreadyRunning
		case codeFKViolation:
			return errorvalues.ErrReferenceNotFound
		case codeCheckViolation:
			return errorvalues.ErrValidation
		}
		return errors.New("creating entry db error: " + err.Error())
	}
	return nil
}

func (er *EntriesRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Entry, error) {
	entry, err := scanEntry(er.conn.QueryRow(ctx, selectEntries+` WHERE id = $1;`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrEntryNotFound
		}
		return nil, errors.New("getting entry by id error: " + err.Error())
	}
	return entry, nil
}

func (er *EntriesRepository) GetTrackedByUser(ctx context.Context, uid uuid.UUID) (*entity.Entry, error) {
	entry, err := scanEntry(er.conn.QueryRow(ctx, selectEntries+` WHERE created_by = $1 AND is_tracked;`, uid))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrTrackingNotFound
		}
		return nil, errors.New("getting tracked entry error: " + err.Error())
	}
	return entry, nil
}

func (er *EntriesRepository) FindTracked(ctx context.Context, uid, projectID, taskID uuid.UUID) (*entity.Entry, error) {
	entry, err := scanEntry(er.conn.QueryRow(ctx,
		selectEntries+` WHERE created_by = $1 AND project_id = $2 AND task_id = $3 AND is_tracked;`,
		uid, projectID, taskID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrTrackingNotFound
		}
		return nil, errors.New("searching tracked entry error: " + err.Error())
	}
	return entry, nil
}

// Finish only touches a row that is still tracked, so of two concurrent stops exactly one wins.
func (er *EntriesRepository) Finish(ctx context.Context, id uuid.UUID, minutes int) (*entity.Entry, error) {
	entry, err := scanEntry(er.conn.QueryRow(ctx,
		`UPDATE entries SET minutes = $1, is_tracked = FALSE WHERE id = $2 AND is_tracked RETURNING `+entryColumns+`;`,
		minutes, id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrTrackingNotFound
		}
		return nil, errors.New("finishing entry error: " + err.Error())
	}
	return entry, nil
}

func (er *EntriesRepository) List(ctx context.Context, filter EntryFilter, limit, offset int) ([]*entity.Entry, error) {
	rows, err := er.conn.Query(ctx, selectEntries+` WHERE created_by = $1
		AND ($2::uuid IS NULL OR project_id = $2)
		AND ($3::uuid IS NULL OR task_id = $3)
		ORDER BY created_at DESC LIMIT $4 OFFSET $5;`,
		filter.CreatedBy, filter.ProjectID, filter.TaskID, limit, offset)
	if err != nil {
		return nil, errors.New("listing entries error: " + err.Error())
	}
	defer rows.Close()
	entries := make([]*entity.Entry, 0)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, errors.New("unmarshalling entry error: " + err.Error())
		}
		entries = append(entries, e)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.New("unexpected error after scanning entries: " + err.Error())
	}
	return entries, nil
}

func (er *EntriesRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ct, err := er.conn.Exec(ctx, `DELETE FROM entries WHERE id = $1;`, id)
	if err != nil {
		return errors.New("deleting entry error: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrEntryNotFound
	}
	return nil
}
