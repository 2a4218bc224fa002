package userinfo

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/goliatone/go-userinfo/pkg/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

func TestRepository_StoreFailuresAreWrapped(t *testing.T) {
	sqldb, mock, err := sqlmock.New()
	require.NoError(t, err)
	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() {
		_ = db.Close()
	})

	repo, err := NewRepository(RepositoryConfig{DB: db})
	require.NoError(t, err)

	connErr := errors.New("dial tcp 10.0.0.1:5432: connection refused")
	mock.ExpectQuery(`SELECT`).WillReturnError(connErr)

	_, err = repo.FindByID(context.Background(), uuid.New())
	require.Error(t, err)
	require.ErrorIs(t, err, types.ErrStoreUnavailable)
	require.NotErrorIs(t, err, types.ErrUserInfoNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMapStoreError(t *testing.T) {
	require.NoError(t, mapStoreError(nil))
	require.ErrorIs(t, mapStoreError(types.ErrUserInfoNotFound), types.ErrUserInfoNotFound)

	wrapped := mapStoreError(errors.New("disk I/O error"))
	require.ErrorIs(t, wrapped, types.ErrStoreUnavailable)
	require.ErrorIs(t, mapStoreError(wrapped), types.ErrStoreUnavailable)
}
