// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
We aggregate errors so any problem is visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureUsers(ctx, db); err != nil {
		problems = append(problems, "users: "+err.Error())
	}
	if err := ensureChapters(ctx, db); err != nil {
		problems = append(problems, "chapters: "+err.Error())
	}
	if err := ensureEvents(ctx, db); err != nil {
		problems = append(problems, "events: "+err.Error())
	}
	if err := ensureOpportunities(ctx, db); err != nil {
		problems = append(problems, "opportunities: "+err.Error())
	}
	if err := ensureMirroredEvents(ctx, db); err != nil {
		problems = append(problems, "mirrored_events: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func ensureUsers(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("users").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("uniq_email").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetName("uniq_username").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "role", Value: 1}},
			Options: options.Index().SetName("by_role"),
		},
	})
	return err
}

func ensureChapters(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("chapters").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "chapter_name_ci", Value: 1}},
			Options: options.Index().SetName("by_chapter_name_ci"),
		},
		{
			Keys:    bson.D{{Key: "zone", Value: 1}},
			Options: options.Index().SetName("by_zone"),
		},
	})
	return err
}

func ensureEvents(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("events").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "chapter", Value: 1}},
			Options: options.Index().SetName("by_chapter"),
		},
		{
			Keys:    bson.D{{Key: "event_date", Value: 1}},
			Options: options.Index().SetName("by_event_date"),
		},
	})
	return err
}

func ensureOpportunities(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("opportunities").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "opp_name_ci", Value: 1}},
			Options: options.Index().SetName("by_opp_name_ci"),
		},
	})
	return err
}

// The inbound event mirror is keyed by the portal's event ID; uniqueness
// makes the last-write-wins upsert race-safe.
func ensureMirroredEvents(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("mirrored_events").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "event_id", Value: 1}},
			Options: options.Index().SetName("uniq_event_id").SetUnique(true),
		},
	})
	return err
}
