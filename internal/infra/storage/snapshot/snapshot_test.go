package snapshot_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/itvlab/lab-scheduler/internal/domain"
	roomRepo "github.com/itvlab/lab-scheduler/internal/infra/storage/room"
	"github.com/itvlab/lab-scheduler/internal/infra/storage/snapshot"
	"github.com/itvlab/lab-scheduler/internal/infra/storage/storagetest"
	"github.com/itvlab/lab-scheduler/pkg/psqlbuilder"
)

func TestWriteFile(t *testing.T) {
	ctx := context.Background()
	db := storagetest.NewSQLite(t)

	_, err := roomRepo.NewRepository(db.DB, db.Dialect).CreateIfMissing(ctx, "Geral 1", domain.CategoryGeneral)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "copy.db")
	require.NoError(t, snapshot.New(db.DB, db.Dialect).WriteFile(ctx, path))

	copyDB, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer copyDB.Close()

	var name string
	require.NoError(t, copyDB.QueryRowContext(ctx, "SELECT name FROM rooms").Scan(&name))
	assert.Equal(t, "Geral 1", name)
}

func TestWriteFile_Unsupported(t *testing.T) {
	s := snapshot.New(nil, psqlbuilder.Postgres)
	assert.False(t, s.SupportsFile())
	assert.ErrorIs(t, s.WriteFile(context.Background(), "x.db"), snapshot.ErrUnsupported)
}
