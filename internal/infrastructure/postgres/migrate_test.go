package postgres

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateURL(t *testing.T) {
	assert.Equal(t, "pgx5://u:p@db:5432/erp?sslmode=disable", migrateURL("postgres://u:p@db:5432/erp?sslmode=disable"))
	assert.Equal(t, "pgx5://u@db/erp", migrateURL("postgresql://u@db/erp"))
	assert.Equal(t, "pgx5://ya/convertido", migrateURL("pgx5://ya/convertido"))
}

func TestMigrationsEmbebidas(t *testing.T) {
	up, err := fs.Glob(migrationsFS, "migrations/*.up.sql")
	require.NoError(t, err)
	down, err := fs.Glob(migrationsFS, "migrations/*.down.sql")
	require.NoError(t, err)
	require.NotEmpty(t, up)
	assert.Len(t, down, len(up), "cada migración tiene su reversa")
}
