package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/zonehq/chapteradmin/internal/app/system/indexes"
)

// SetupTestDB connects to the test MongoDB instance and returns a fresh
// database scoped to the calling test. The database is dropped and the
// client disconnected during cleanup.
//
// Set CHAPTERADMIN_TEST_MONGO_URI to point at a test instance; the test
// is skipped when no instance is reachable.
func SetupTestDB(t *testing.T) *mongo.Database {
	t.Helper()

	uri := os.Getenv("CHAPTERADMIN_TEST_MONGO_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Skipf("skipping: cannot connect to test MongoDB at %s: %v", uri, err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		t.Skipf("skipping: test MongoDB at %s not reachable: %v", uri, err)
	}

	dbName := fmt.Sprintf("chapteradmin_test_%d", time.Now().UnixNano())
	db := client.Database(dbName)

	// Unique indexes are part of the behavior under test (duplicate
	// detection, upsert keys), so build them the same way startup does.
	if err := indexes.EnsureAll(ctx, db); err != nil {
		_ = client.Disconnect(ctx)
		t.Fatalf("failed to create indexes on test database: %v", err)
	}

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})

	return db
}
