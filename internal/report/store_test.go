package report

import (
	"context"
	"testing"

	"generus-backend/internal/auth"
	"generus-backend/internal/auth/authtest"
	"generus-backend/internal/database/dbtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormStoreListKBMAppliesScopeAndFilter(t *testing.T) {
	db, rec := dbtest.DryRun(t)
	store := NewGormStore(db)

	year := 2026
	scope := auth.Scope{DesaID: authtest.Uint(1), KelompokID: authtest.Uint(10)}
	_, err := store.ListKBM(context.Background(), scope, Filter{KategoriID: authtest.Uint(3), Year: &year})
	require.NoError(t, err)

	q := rec.Last()
	assert.Contains(t, q.SQL, `FROM "laporan_kbm"`)
	assert.Regexp(t, `desa_id = \$\d`, q.SQL)
	assert.Regexp(t, `kelompok_id = \$\d`, q.SQL)
	assert.Regexp(t, `period_year = \$\d`, q.SQL)
	assert.Regexp(t, `kategori_id = \$\d`, q.SQL)
	assert.Contains(t, q.SQL, "ORDER BY created_at DESC")
	assert.ElementsMatch(t, []any{uint(1), uint(10), 2026, uint(3)}, q.Vars)
}

func TestGormStoreListKBMUnrestricted(t *testing.T) {
	db, rec := dbtest.DryRun(t)
	store := NewGormStore(db)

	_, err := store.ListKBM(context.Background(), auth.Scope{}, Filter{})
	require.NoError(t, err)

	q := rec.Last()
	assert.NotContains(t, q.SQL, "WHERE")
	assert.Empty(t, q.Vars)
}

func TestGormStoreListMuslimunDesaScope(t *testing.T) {
	db, rec := dbtest.DryRun(t)
	store := NewGormStore(db)

	_, err := store.ListMuslimun(context.Background(), auth.Scope{DesaID: authtest.Uint(2)}, Filter{})
	require.NoError(t, err)

	q := rec.Last()
	assert.Contains(t, q.SQL, `FROM "laporan_muslimun"`)
	assert.Regexp(t, `desa_id = \$\d`, q.SQL)
	assert.NotContains(t, q.SQL, "kelompok_id")
	assert.Contains(t, q.SQL, "ORDER BY meeting_date DESC, created_at DESC")
	assert.Equal(t, []any{uint(2)}, q.Vars)
}

func TestGormStoreDesaOfKelompok(t *testing.T) {
	db, rec := dbtest.DryRun(t)
	store := NewGormStore(db)

	_, _ = store.DesaOfKelompok(context.Background(), 7)

	q := rec.Last()
	assert.Contains(t, q.SQL, `FROM "kelompok"`)
	assert.Contains(t, q.SQL, `"kelompok"."id" = $1`)
}
