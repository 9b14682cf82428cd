package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/deppfellow/employee-api/internal/errs"
	"github.com/deppfellow/employee-api/internal/model"
	"github.com/deppfellow/employee-api/internal/repository"
	"github.com/deppfellow/employee-api/internal/sqlerr"
	"github.com/deppfellow/employee-api/internal/testcontainers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmployeeRepository(t *testing.T) {
	_, db := testcontainers.NewDatabase(t)
	repo := repository.NewEmployeeRepository(db.Pool)
	ctx := context.Background()

	t.Run("empty table lists as empty slice", func(t *testing.T) {
		all, err := repo.FindAll(ctx)
		require.NoError(t, err)
		assert.NotNil(t, all)
		assert.Empty(t, all)
	})

	ada, err := repo.Save(ctx, model.Employee{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"})
	require.NoError(t, err)
	require.NotZero(t, ada.ID)

	t.Run("insert assigns id and returns stored row", func(t *testing.T) {
		assert.Equal(t, "Ada", ada.FirstName)
		assert.Equal(t, "Lovelace", ada.LastName)
		assert.Equal(t, "ada@example.com", ada.Email)
	})

	t.Run("find by id and email", func(t *testing.T) {
		byID, err := repo.FindByID(ctx, ada.ID)
		require.NoError(t, err)
		got, ok := byID.Get()
		require.True(t, ok)
		assert.Equal(t, ada, got)

		byEmail, err := repo.FindByEmail(ctx, "ada@example.com")
		require.NoError(t, err)
		assert.True(t, byEmail.IsPresent())

		missing, err := repo.FindByID(ctx, ada.ID+1000)
		require.NoError(t, err)
		assert.False(t, missing.IsPresent())
	})

	t.Run("duplicate email violates unique constraint", func(t *testing.T) {
		_, err := repo.Save(ctx, model.Employee{FirstName: "Other", LastName: "Person", Email: "ada@example.com"})
		require.Error(t, err)
		assert.Equal(t, sqlerr.UniqueViolation, sqlerr.ErrCode(err))

		var httpErr *errs.HTTPError
		require.True(t, errors.As(sqlerr.HandleError(err), &httpErr))
		assert.Equal(t, "EMPLOYEE_ALREADY_EXISTS", httpErr.Code)
	})

	t.Run("update overwrites stored row", func(t *testing.T) {
		ada.Email = "ada.lovelace@example.com"
		updated, err := repo.Save(ctx, ada)
		require.NoError(t, err)
		assert.Equal(t, ada, updated)

		all, err := repo.FindAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, []model.Employee{ada}, all)
	})

	t.Run("update of missing id is not found", func(t *testing.T) {
		_, err := repo.Save(ctx, model.Employee{ID: ada.ID + 1000, FirstName: "No", LastName: "One", Email: "no@example.com"})
		require.Error(t, err)

		var httpErr *errs.HTTPError
		require.True(t, errors.As(sqlerr.HandleError(err), &httpErr))
		assert.Equal(t, "Employee not found", httpErr.Message)
	})

	t.Run("find by name matches both names", func(t *testing.T) {
		_, err := repo.Save(ctx, model.Employee{FirstName: "Ada", LastName: "Byron", Email: "byron@example.com"})
		require.NoError(t, err)

		found, err := repo.FindByName(ctx, "Ada", "Lovelace")
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, ada.ID, found[0].ID)

		none, err := repo.FindByName(ctx, "Grace", "Hopper")
		require.NoError(t, err)
		assert.NotNil(t, none)
		assert.Empty(t, none)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		require.NoError(t, repo.DeleteByID(ctx, ada.ID))
		require.NoError(t, repo.DeleteByID(ctx, ada.ID))

		gone, err := repo.FindByID(ctx, ada.ID)
		require.NoError(t, err)
		assert.False(t, gone.IsPresent())
	})
}
