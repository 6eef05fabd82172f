package guard_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/limbo/timetrack/internal/guard"
	"github.com/limbo/timetrack/pkg/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthorize(t *testing.T) {
	g, err := guard.New()
	require.NoError(t, err)
	owner := uuid.New()
	stranger := uuid.New()
	projectID := uuid.New()

	testCases := []struct {
		Desc     string
		User     uuid.UUID
		Resource guard.Owned
		Allowed  bool
	}{
		{
			Desc:     "project owner",
			User:     owner,
			Resource: &entity.Project{ID: projectID, Owner: owner},
			Allowed:  true,
		},
		{
			Desc:     "project stranger",
			User:     stranger,
			Resource: &entity.Project{ID: projectID, Owner: owner},
			Allowed:  false,
		},
		{
			Desc:     "task creator",
			User:     owner,
			Resource: &entity.Task{ProjectID: projectID, CreatedBy: owner},
			Allowed:  true,
		},
		{
			Desc:     "task stranger",
			User:     stranger,
			Resource: &entity.Task{ProjectID: projectID, CreatedBy: owner},
			Allowed:  false,
		},
		{
			Desc:     "entry creator",
			User:     owner,
			Resource: &entity.Entry{CreatedBy: owner},
			Allowed:  true,
		},
		{
			Desc:     "nil resource",
			User:     owner,
			Resource: nil,
			Allowed:  false,
		},
		{
			Desc:     "nil user",
			User:     uuid.Nil,
			Resource: &entity.Project{},
			Allowed:  false,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.Desc, func(t *testing.T) {
			assert.Equal(t, tc.Allowed, g.Authorize(tc.User, tc.Resource))
		})
	}
}
