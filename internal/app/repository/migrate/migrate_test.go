package migrate

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchema(t *testing.T) {
	ddl, err := Schema("postgres")
	require.NoError(t, err)
	assert.Contains(t, ddl, "TIMESTAMPTZ")

	ddl, err = Schema("sqlite3")
	require.NoError(t, err)
	assert.Contains(t, ddl, "REAL")

	_, err = Schema("mysql")
	assert.Error(t, err)
}

func TestUp(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS skill_runs").WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, Up(context.Background(), db, "postgres"))

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS skill_runs").WillReturnError(errors.New("permission denied"))
	err = Up(context.Background(), db, "sqlite3")
	assert.ErrorContains(t, err, "permission denied")

	assert.NoError(t, mock.ExpectationsWereMet())
}
