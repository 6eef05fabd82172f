package repository_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	errorvalues "github.com/limbo/timetrack/internal/error_values"
	"github.com/limbo/timetrack/internal/repository"
	"github.com/limbo/timetrack/pkg/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestUser(t *testing.T, repo *repository.UsersRepository, name string) *entity.User {
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &entity.User{Name: name, PasswordHash: "pass_hash"}))
	user, err := repo.FindByName(ctx, name)
	require.NoError(t, err)
	return user
}

func TestStoreIntegrational(t *testing.T) {
	pool := setupTestDB(t)
	users := repository.NewUsersRepo(pool)
	projects := repository.NewProjectsRepo(pool)
	tasks := repository.NewTasksRepo(pool)
	entries := repository.NewEntriesRepo(pool)
	ctx := context.Background()

	alice := createTestUser(t, users, "alice")
	bob := createTestUser(t, users, "bob")

	alpha := &entity.Project{Title: "Alpha", Owner: alice.ID}
	require.NoError(t, projects.Create(ctx, alpha))
	beta := &entity.Project{Title: "Beta", Owner: alice.ID}
	require.NoError(t, projects.Create(ctx, beta))
	bobs := &entity.Project{Title: "Aardvark", Owner: bob.ID}
	require.NoError(t, projects.Create(ctx, bobs))

	writeReport := &entity.Task{ProjectID: alpha.ID, Title: "Write report", CreatedBy: alice.ID, Status: entity.TaskStatusTodo}
	require.NoError(t, tasks.Create(ctx, writeReport))
	review := &entity.Task{ProjectID: alpha.ID, Title: "Review", CreatedBy: alice.ID, Status: entity.TaskStatusDone}
	require.NoError(t, tasks.Create(ctx, review))

	t.Run("projects are listed per owner ordered by title", func(t *testing.T) {
		result, err := projects.GetByOwner(ctx, alice.ID, 10, 0)
		require.NoError(t, err)
		require.Len(t, result, 2)
		assert.Equal(t, "Alpha", result[0].Title)
		assert.Equal(t, "Beta", result[1].Title)
		for _, p := range result {
			assert.Equal(t, alice.ID, p.Owner)
		}
	})
	t.Run("tasks filtered by status", func(t *testing.T) {
		todo := entity.TaskStatusTodo
		result, err := tasks.List(ctx, repository.TaskFilter{CreatedBy: alice.ID, Status: &todo}, 10, 0)
		require.NoError(t, err)
		require.Len(t, result, 1)
		assert.Equal(t, writeReport.ID, result[0].ID)
	})
	t.Run("only one tracked entry per user", func(t *testing.T) {
		first := &entity.Entry{ProjectID: &alpha.ID, TaskID: &writeReport.ID, IsTracked: true, CreatedBy: alice.ID, CreatedAt: time.Now().UTC()}
		require.NoError(t, entries.Create(ctx, first))
		second := &entity.Entry{ProjectID: &alpha.ID, TaskID: &review.ID, IsTracked: true, CreatedBy: alice.ID, CreatedAt: time.Now().UTC()}
		assert.ErrorIs(t, entries.Create(ctx, second), errorvalues.ErrTimerAlreadyRunning)

		tracked, err := entries.GetTrackedByUser(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, first.ID, tracked.ID)

		finished, err := entries.Finish(ctx, first.ID, 3)
		require.NoError(t, err)
		assert.False(t, finished.IsTracked)
		assert.Equal(t, 3, finished.Minutes)

		_, err = entries.Finish(ctx, first.ID, 5)
		assert.ErrorIs(t, err, errorvalues.ErrTrackingNotFound)
		_, err = entries.GetTrackedByUser(ctx, alice.ID)
		assert.ErrorIs(t, err, errorvalues.ErrTrackingNotFound)
	})
	t.Run("concurrent starts leave a single tracked entry", func(t *testing.T) {
		var (
			wg      sync.WaitGroup
			mu      sync.Mutex
			created int
		)
		for range 8 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				e := &entity.Entry{ProjectID: &alpha.ID, TaskID: &review.ID, IsTracked: true, CreatedBy: alice.ID, CreatedAt: time.Now().UTC()}
				if err := entries.Create(ctx, e); err == nil {
					mu.Lock()
					created++
					mu.Unlock()
				} else {
					assert.ErrorIs(t, err, errorvalues.ErrTimerAlreadyRunning)
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, 1, created)
		tracked, err := entries.GetTrackedByUser(ctx, alice.ID)
		require.NoError(t, err)
		_, err = entries.Finish(ctx, tracked.ID, 2)
		require.NoError(t, err)
	})
	t.Run("another user may track at the same time", func(t *testing.T) {
		e := &entity.Entry{ProjectID: &bobs.ID, IsTracked: true, CreatedBy: bob.ID, CreatedAt: time.Now().UTC()}
		require.NoError(t, entries.Create(ctx, e))
	})
	t.Run("registered time is the sum of entry minutes", func(t *testing.T) {
		manual := &entity.Entry{ProjectID: &alpha.ID, TaskID: &writeReport.ID, Minutes: 10, CreatedBy: alice.ID, CreatedAt: time.Now().UTC()}
		require.NoError(t, entries.Create(ctx, manual))
		p, err := projects.GetByID(ctx, alpha.ID)
		require.NoError(t, err)
		assert.Equal(t, 3+2+10, p.RegisteredTime)
		assert.Equal(t, 1, p.OpenTaskCount)
		task, err := tasks.GetByID(ctx, writeReport.ID)
		require.NoError(t, err)
		assert.Equal(t, 3+10, task.RegisteredTime)
	})
	t.Run("deleting a task removes its entries", func(t *testing.T) {
		require.NoError(t, tasks.Delete(ctx, review.ID))
		result, err := entries.List(ctx, repository.EntryFilter{CreatedBy: alice.ID, TaskID: &review.ID}, 50, 0)
		require.NoError(t, err)
		assert.Empty(t, result)
	})
	t.Run("deleting a project removes its tasks and entries", func(t *testing.T) {
		require.NoError(t, projects.Delete(ctx, alpha.ID))
		_, err := tasks.GetByID(ctx, writeReport.ID)
		assert.ErrorIs(t, err, errorvalues.ErrTaskNotFound)
		result, err := entries.List(ctx, repository.EntryFilter{CreatedBy: alice.ID, ProjectID: &alpha.ID}, 50, 0)
		require.NoError(t, err)
		assert.Empty(t, result)
	})
	t.Run("deleting a user removes everything owned", func(t *testing.T) {
		require.NoError(t, users.Delete(ctx, bob.ID))
		_, err := projects.GetByID(ctx, bobs.ID)
		assert.ErrorIs(t, err, errorvalues.ErrProjectNotFound)
	})
	t.Run("unknown owner", func(t *testing.T) {
		err := projects.Create(ctx, &entity.Project{Title: "Ghost", Owner: uuid.New()})
		assert.ErrorIs(t, err, errorvalues.ErrOwnerNotFound)
	})
}
