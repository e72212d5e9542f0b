package userstore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/zonehq/chapteradmin/internal/app/system/auth"
	"github.com/zonehq/chapteradmin/internal/app/system/timeouts"
	"github.com/zonehq/chapteradmin/internal/domain/models"
)

// Fetcher implements auth.UserFetcher so the session middleware loads
// fresh user data on each request. Role edits, permission changes, and
// deactivation take effect on the next request, not at next login.
type Fetcher struct {
	users *mongo.Collection
}

// NewFetcher creates a UserFetcher that queries the given database.
func NewFetcher(db *mongo.Database) *Fetcher {
	return &Fetcher{users: db.Collection("users")}
}

// FetchUser retrieves a user by ID and returns nil if the user is not
// found, inactive, or if any error occurs.
func (f *Fetcher) FetchUser(ctx context.Context, userID string) *auth.SessionUser {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	var u models.User
	if err := f.users.FindOne(ctx, bson.M{"_id": oid}).Decode(&u); err != nil {
		return nil
	}
	if !u.IsActive {
		return nil
	}

	return &auth.SessionUser{
		ID:              u.ID.Hex(),
		Name:            u.Name,
		Email:           u.Email,
		Username:        u.Username,
		Role:            u.Role,
		AllowedFeatures: u.AllowedFeatures,
	}
}
