package sqlite_test

import (
	"context"
	"crypto/rand"
	"fmt"
	"math"
	"math/big"
	"testing"
	"time"

	"github.com/sagarc03/filekeep"
	"github.com/sagarc03/filekeep/database/sqlite"
	"github.com/stretchr/testify/require"
)

func getRandomString(t *testing.T) string {
	t.Helper()
	n, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
	require.NoError(t, err, "random string")
	return fmt.Sprintf("test%x", n.Int64())
}

// setupTestStore creates a store with a unique table name for test isolation
func setupTestStore(t *testing.T) filekeep.MetadataStore {
	t.Helper()

	ctx := context.Background()
	tables := filekeep.Tables{Files: "files_" + getRandomString(t)}

	db, err := sqlite.Connect(ctx, ":memory:", tables)
	require.NoError(t, err, "failed to connect")
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, db.Migrate(ctx), "failed to migrate")

	return db.GetStore()
}

func newRecord(id, owner string, uploaded time.Time) filekeep.FileRecord {
	return filekeep.FileRecord{
		ID:          id,
		Filename:    id + ".txt",
		ContentType: "text/plain",
		Size:        int64(len(id)),
		UploadDate:  uploaded,
		OwnerID:     owner,
		OwnerEmail:  owner + "@example.com",
		StorageKey:  filekeep.StorageKey(owner, id, id+".txt"),
	}
}
