package fixture

import (
	"database/sql"
	"path/filepath"
	"testing"

	"fakenode/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDumpAndLoadSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixtures.db")

	src := NewStore()
	src.SetLookupResult(common.RegionKey("meta,,1"), common.RowKey("row1"), common.Result("V1"))
	src.SetLookupResult(common.RegionKey("meta,,1"), common.RowKey("row2"), common.Result("V2"))
	src.SetScanResults(common.RegionKey("meta,,1"), []common.Result{
		common.Result("s1"), common.Result("s2"), common.Result("s3"),
	})
	src.SetScanResults(common.RegionKey("user,,9"), []common.Result{common.Result("u1")})
	require.NoError(t, DumpSQLite(src, path))

	dst := NewStore()
	require.NoError(t, LoadSQLite(dst, path))

	got, ok := dst.Lookup(common.RegionKey("meta,,1"), common.RowKey("row2"))
	require.True(t, ok)
	assert.Equal(t, common.Result("V2"), got)
	assert.Equal(t, []common.Result{
		common.Result("s1"), common.Result("s2"), common.Result("s3"),
	}, dst.ScanSequence(common.RegionKey("meta,,1")))
	assert.Equal(t, []common.Result{common.Result("u1")}, dst.ScanSequence(common.RegionKey("user,,9")))
}

func TestLoadSQLiteOrdersBySequence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "handwritten.db")
	db, err := openDB(path)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO scans (region, seq, result) VALUES
		(X'52', 2, X'6332'),
		(X'52', 0, X'6330'),
		(X'52', 1, X'6331')`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	s := NewStore()
	require.NoError(t, LoadSQLite(s, path))
	assert.Equal(t, []common.Result{
		common.Result("c0"), common.Result("c1"), common.Result("c2"),
	}, s.ScanSequence(common.RegionKey("R")))
}

func TestDumpSQLiteReplacesContents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixtures.db")

	first := NewStore()
	first.SetLookupResult(common.RegionKey("R"), common.RowKey("stale"), common.Result("x"))
	require.NoError(t, DumpSQLite(first, path))

	second := NewStore()
	second.SetLookupResult(common.RegionKey("R"), common.RowKey("fresh"), common.Result("y"))
	require.NoError(t, DumpSQLite(second, path))

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM lookups").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestLoadSQLiteBadPath(t *testing.T) {
	err := LoadSQLite(NewStore(), filepath.Join(t.TempDir(), "missing-dir", "f.db"))
	assert.Error(t, err)
}
