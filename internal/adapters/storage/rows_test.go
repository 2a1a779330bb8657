package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryAllAndCountBy(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	_, err := db.Exec(`CREATE TABLE kit (name TEXT, status TEXT)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO kit VALUES ('rower', 'working'), ('bike', 'working'), ('sled', 'repair')`)
	require.NoError(t, err)
	name := func(row ScanFunc) (string, error) {
		var n string
		err := row(&n)
		return n, err
	}

	names, err := QueryAll(ctx, db, name, "SELECT name FROM kit WHERE status = ? ORDER BY name", "working")
	require.NoError(t, err)
	assert.Equal(t, []string{"bike", "rower"}, names)

	none, err := QueryAll(ctx, db, name, "SELECT name FROM kit WHERE status = 'lost'")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	counts, err := CountBy(ctx, db, "SELECT status, COUNT(*) FROM kit GROUP BY status")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"working": 2, "repair": 1}, counts)
}
