package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	errorvalues "github.com/limbo/timetrack/internal/error_values"
	"github.com/limbo/timetrack/internal/metrics"
	"github.com/limbo/timetrack/internal/repository"
	"github.com/limbo/timetrack/pkg/entity"
)

// TimerService drives the per-user start/stop state machine. A user is either idle
// or has exactly one tracked entry; the storage layer rejects a second one.
type TimerService struct {
	tasks   repository.TasksRepositoryI
	entries repository.EntriesRepositoryI
	guard   Authorizer
	now     func() time.Time
}

type TimerOption func(*TimerService)

func WithClock(now func() time.Time) TimerOption {
	return func(ts *TimerService) {
		ts.now = now
	}
}

func NewTimerService(tasksRepo repository.TasksRepositoryI, entriesRepo repository.EntriesRepositoryI, guard Authorizer, opts ...TimerOption) *TimerService {
	if tasksRepo == nil || entriesRepo == nil {
		log.Fatal("provided nil tasksRepo or entriesRepo")
	}
	ts := &TimerService{
		tasks:   tasksRepo,
		entries: entriesRepo,
		guard:   guard,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(ts)
	}
	return ts
}

// ElapsedMinutes is the whole number of minutes between start and end, never less than one.
func ElapsedMinutes(start, end time.Time) int {
	minutes := int(end.UTC().Sub(start.UTC()) / time.Minute)
	return max(1, minutes)
}

func (ts *TimerService) Start(ctx context.Context, user, taskID uuid.UUID) (*StartResult, error) {
	task, err := ts.ownedTask(ctx, user, taskID)
	if err != nil {
		metrics.ObserveTimer(metrics.ActionStart, outcomeOf(err))
		return nil, err
	}
	active, err := ts.entries.GetTrackedByUser(ctx, user)
	switch {
	case err == nil:
		metrics.ObserveTimer(metrics.ActionStart, metrics.OutcomeDeclined)
		return &StartResult{Entry: active, AlreadyTracking: true}, nil
	case !errors.Is(err, errorvalues.ErrTrackingNotFound):
		metrics.ObserveTimer(metrics.ActionStart, metrics.OutcomeError)
		return nil, errors.New("entries repository error: " + err.Error())
	}

	projectID := task.ProjectID
	entry := entity.Entry{
		ProjectID: &projectID,
		TaskID:    &task.ID,
		IsTracked: true,
		CreatedBy: user,
		CreatedAt: ts.now().UTC(),
	}
	err = ts.entries.Create(ctx, &entry)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrTimerAlreadyRunning):
			// lost a race against a concurrent start
			metrics.ObserveTimer(metrics.ActionStart, metrics.OutcomeConflict)
			return nil, errorvalues.ErrTimerAlreadyRunning
		case errors.Is(err, errorvalues.ErrReferenceNotFound):
			metrics.ObserveTimer(metrics.ActionStart, metrics.OutcomeNotFound)
			return nil, errorvalues.ErrTaskNotFound
		}
		metrics.ObserveTimer(metrics.ActionStart, metrics.OutcomeError)
		return nil, errors.New("entries repository error: " + err.Error())
	}
	metrics.ObserveTimer(metrics.ActionStart, metrics.OutcomeStarted)
	return &StartResult{Entry: &entry}, nil
}

func (ts *TimerService) Stop(ctx context.Context, user, taskID uuid.UUID) (*entity.Entry, error) {
	task, err := ts.ownedTask(ctx, user, taskID)
	if err != nil {
		metrics.ObserveTimer(metrics.ActionStop, outcomeOf(err))
		return nil, err
	}
	tracked, err := ts.entries.FindTracked(ctx, user, task.ProjectID, task.ID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrTrackingNotFound) {
			metrics.ObserveTimer(metrics.ActionStop, metrics.OutcomeNotFound)
			return nil, errorvalues.ErrTrackingNotFound
		}
		metrics.ObserveTimer(metrics.ActionStop, metrics.OutcomeError)
		return nil, errors.New("entries repository error: " + err.Error())
	}

	minutes := ElapsedMinutes(tracked.CreatedAt, ts.now())
	finished, err := ts.entries.Finish(ctx, tracked.ID, minutes)
	if err != nil {
		if errors.Is(err, errorvalues.ErrTrackingNotFound) {
			// stopped concurrently
			metrics.ObserveTimer(metrics.ActionStop, metrics.OutcomeNotFound)
			return nil, errorvalues.ErrTrackingNotFound
		}
		metrics.ObserveTimer(metrics.ActionStop, metrics.OutcomeError)
		return nil, errors.New("entries repository error: " + err.Error())
	}
	metrics.ObserveTimer(metrics.ActionStop, metrics.OutcomeStopped)
	return finished, nil
}

func (ts *TimerService) Active(ctx context.Context, user uuid.UUID) (*entity.Entry, error) {
	active, err := ts.entries.GetTrackedByUser(ctx, user)
	if err != nil {
		if errors.Is(err, errorvalues.ErrTrackingNotFound) {
			return nil, errorvalues.ErrTrackingNotFound
		}
		return nil, errors.New("entries repository error: " + err.Error())
	}
	return active, nil
}

func (ts *TimerService) ownedTask(ctx context.Context, user, taskID uuid.UUID) (*entity.Task, error) {
	task, err := ts.tasks.GetByID(ctx, taskID)
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

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, errorvalues.ErrForbidden):
		return metrics.OutcomeForbidden
	case errors.Is(err, errorvalues.ErrTaskNotFound):
		return metrics.OutcomeNotFound
	}
	return metrics.OutcomeError
}
