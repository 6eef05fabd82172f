package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	errorvalues "github.com/limbo/timetrack/internal/error_values"
	"github.com/limbo/timetrack/internal/service"
	"github.com/limbo/timetrack/pkg/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type mockState int

const (
	stateSuccess mockState = iota
	stateDBError
	stateUserExists
	stateUserNotFound
)

type usersRepoMock struct {
	state   mockState
	created *entity.User
}

var testUserID = uuid.New()

func (m *usersRepoMock) Create(ctx context.Context, user *entity.User) error {
	switch m.state {
	case stateDBError:
		return errors.New("db error")
	case stateUserExists:
		return errorvalues.ErrUserExists
	default:
		m.created = user
		return nil
	}
}

func (m *usersRepoMock) FindByName(ctx context.Context, name string) (*entity.User, error) {
	switch m.state {
	case stateDBError:
		return nil, errors.New("db error")
	case stateUserNotFound:
		return nil, errorvalues.ErrUserNotFound
	default:
		u := *m.created
		u.ID = testUserID
		return &u, nil
	}
}

func (m *usersRepoMock) FindByID(ctx context.Context, uid uuid.UUID) (*entity.User, error) {
	switch m.state {
	case stateDBError:
		return nil, errors.New("db error")
	case stateUserNotFound:
		return nil, errorvalues.ErrUserNotFound
	default:
		return &entity.User{ID: uid, Name: "test_user"}, nil
	}
}

func (m *usersRepoMock) Delete(ctx context.Context, uid uuid.UUID) error {
	return nil
}

func TestRegister(t *testing.T) {
	mock := &usersRepoMock{state: stateSuccess}
	us := service.NewUserService(mock)
	ctx := context.Background()
	req := &service.RegisterRequest{Name: "test_user", Password: "test_password"}

	t.Run("success", func(t *testing.T) {
		user, err := us.Register(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, testUserID, user.ID)
		assert.Equal(t, req.Name, user.Name)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)))
	})
	t.Run("name taken", func(t *testing.T) {
		mock.state = stateUserExists
		_, err := us.Register(ctx, req)
		assert.ErrorIs(t, err, errorvalues.ErrUserExists)
	})
	t.Run("db error", func(t *testing.T) {
		mock.state = stateDBError
		_, err := us.Register(ctx, req)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, errorvalues.ErrValidation)
	})
	t.Run("invalid input", func(t *testing.T) {
		mock.state = stateSuccess
		for _, bad := range []*service.RegisterRequest{
			{Name: "ab", Password: "test_password"},
			{Name: "1user", Password: "test_password"},
			{Name: "_user", Password: "test_password"},
			{Name: "user name", Password: "test_password"},
			{Name: "test_user", Password: "short"},
		} {
			_, err := us.Register(ctx, bad)
			assert.ErrorIs(t, err, errorvalues.ErrValidation, bad.Name)
		}
	})
}

func TestGetUserByID(t *testing.T) {
	mock := &usersRepoMock{state: stateSuccess}
	us := service.NewUserService(mock)
	ctx := context.Background()
	t.Run("success", func(t *testing.T) {
		user, err := us.GetByID(ctx, testUserID)
		require.NoError(t, err)
		assert.Equal(t, testUserID, user.ID)
	})
	t.Run("not found", func(t *testing.T) {
		mock.state = stateUserNotFound
		_, err := us.GetByID(ctx, testUserID)
		assert.ErrorIs(t, err, errorvalues.ErrUserNotFound)
	})
	t.Run("db error", func(t *testing.T) {
		mock.state = stateDBError
		_, err := us.GetByID(ctx, testUserID)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, errorvalues.ErrUserNotFound)
	})
}
