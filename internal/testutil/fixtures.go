package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/zonehq/chapteradmin/internal/domain/models"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateSuperAdmin creates an active superadmin account.
func (f *Fixtures) CreateSuperAdmin(ctx context.Context, name, email, username string) models.User {
	f.t.Helper()
	return f.createUser(ctx, name, email, username, models.RoleSuperAdmin, nil)
}

// CreateSubAdmin creates an active subadmin account with the given
// feature grants.
func (f *Fixtures) CreateSubAdmin(ctx context.Context, name, email, username string, features []models.FeaturePermission) models.User {
	f.t.Helper()
	return f.createUser(ctx, name, email, username, models.RoleSubAdmin, features)
}

func (f *Fixtures) createUser(ctx context.Context, name, email, username, role string, features []models.FeaturePermission) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:              primitive.NewObjectID(),
		Name:            name,
		NameCI:          text.Fold(name),
		Email:           email,
		Username:        username,
		PasswordHash:    "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy",
		Role:            role,
		AllowedFeatures: features,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateChapter creates a chapter with empty member and event lists.
func (f *Fixtures) CreateChapter(ctx context.Context, name, zone string) models.Chapter {
	f.t.Helper()

	now := time.Now().UTC()
	ch := models.Chapter{
		ID:              primitive.NewObjectID(),
		ChapterName:     name,
		ChapterNameCI:   text.Fold(name),
		Zone:            zone,
		ChapterLeadName: "Test Lead",
		Events:          []primitive.ObjectID{},
		Members:         []models.ChapterMember{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if _, err := f.db.Collection("chapters").InsertOne(ctx, ch); err != nil {
		f.t.Fatalf("failed to create test chapter: %v", err)
	}
	return ch
}

// CreateEvent creates an event belonging to the given chapter and links
// it into the chapter's events list.
func (f *Fixtures) CreateEvent(ctx context.Context, name string, chapterID primitive.ObjectID, membershipRequired bool, slots int) models.Event {
	f.t.Helper()

	now := time.Now().UTC()
	date := time.Date(now.Year()+1, time.March, 10, 0, 0, 0, 0, time.UTC)
	ev := models.Event{
		ID:                 primitive.NewObjectID(),
		EventName:          name,
		EventNameCI:        text.Fold(name),
		Slots:              slots,
		Link:               "https://example.org/events",
		EventStartTime:     date.Add(18 * time.Hour),
		EventEndTime:       date.Add(20 * time.Hour),
		EventDate:          date,
		Location:           "Test Hall",
		MembershipRequired: membershipRequired,
		Image:              "/files/images/test.png",
		Chapter:            chapterID,
		Members:            []models.EventMember{},
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if _, err := f.db.Collection("events").InsertOne(ctx, ev); err != nil {
		f.t.Fatalf("failed to create test event: %v", err)
	}
	if _, err := f.db.Collection("chapters").UpdateOne(ctx,
		map[string]any{"_id": chapterID},
		map[string]any{"$push": map[string]any{"events": ev.ID}}); err != nil {
		f.t.Fatalf("failed to link test event to chapter: %v", err)
	}
	return ev
}

// CreateOpportunity creates an opportunity with an empty interest list.
func (f *Fixtures) CreateOpportunity(ctx context.Context, name string) models.Opportunity {
	f.t.Helper()

	now := time.Now().UTC()
	opp := models.Opportunity{
		ID:                primitive.NewObjectID(),
		OppName:           name,
		OppNameCI:         text.Fold(name),
		OppDate:           time.Date(now.Year()+1, time.June, 1, 0, 0, 0, 0, time.UTC),
		Location:          "Test Center",
		Image:             "/files/images/test.png",
		InterestedMembers: []models.InterestedMember{},
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if _, err := f.db.Collection("opportunities").InsertOne(ctx, opp); err != nil {
		f.t.Fatalf("failed to create test opportunity: %v", err)
	}
	return opp
}
