package userstore

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/zonehq/chapteradmin/internal/domain/models"
	"github.com/zonehq/chapteradmin/internal/testutil"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(testutil.SetupTestDB(t))
}

func TestCreateNormalizesAndHashes(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u, err := s.Create(ctx, models.User{
		Name:     "  Ada   Lovelace ",
		Email:    " Ada@Example.ORG ",
		Username: " AdaL ",
		Role:     models.RoleSuperAdmin,
	}, "hunter2hunter2")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if u.Email != "ada@example.org" || u.Username != "adal" || u.Name != "Ada Lovelace" {
		t.Errorf("normalization: got email=%q username=%q name=%q", u.Email, u.Username, u.Name)
	}
	if !u.IsActive {
		t.Error("new user is not active")
	}
	if u.PasswordHash == "hunter2hunter2" || u.PasswordHash == "" {
		t.Error("password stored without hashing")
	}
	if !CheckPassword(&u, "hunter2hunter2") {
		t.Error("CheckPassword rejected the original password")
	}
	if CheckPassword(&u, "wrong") {
		t.Error("CheckPassword accepted a wrong password")
	}
}

func TestCreateDuplicate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := models.User{Name: "Ada", Email: "ada@example.org", Username: "ada", Role: models.RoleSuperAdmin}
	if _, err := s.Create(ctx, base, "hunter2hunter2"); err != nil {
		t.Fatalf("first Create: %v", err)
	}

	dup := base
	dup.Username = "ada2" // same email
	if _, err := s.Create(ctx, dup, "hunter2hunter2"); !errors.Is(err, ErrDuplicate) {
		t.Errorf("duplicate email: err = %v, want ErrDuplicate", err)
	}

	dup = base
	dup.Email = "other@example.org" // same username
	if _, err := s.Create(ctx, dup, "hunter2hunter2"); !errors.Is(err, ErrDuplicate) {
		t.Errorf("duplicate username: err = %v, want ErrDuplicate", err)
	}
}

func TestCreateRejectsUnknownRole(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Create(context.Background(), models.User{
		Name: "X", Email: "x@example.org", Username: "x", Role: "owner",
	}, "hunter2hunter2")
	if err == nil {
		t.Error("Create accepted an unknown role")
	}
}

func TestLookups(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u, err := s.Create(ctx, models.User{
		Name: "Ada", Email: "ada@example.org", Username: "ada", Role: models.RoleSuperAdmin,
	}, "hunter2hunter2")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if got, err := s.GetByID(ctx, u.ID); err != nil || got.Username != "ada" {
		t.Errorf("GetByID = %v, %v", got, err)
	}
	// Lookups normalize their input the same way Create does.
	if got, err := s.GetByEmail(ctx, " ADA@Example.org "); err != nil || got.ID != u.ID {
		t.Errorf("GetByEmail = %v, %v", got, err)
	}
	if got, err := s.GetByUsername(ctx, " Ada "); err != nil || got.ID != u.ID {
		t.Errorf("GetByUsername = %v, %v", got, err)
	}
	if _, err := s.GetByUsername(ctx, "nobody"); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("GetByUsername(missing) err = %v, want ErrNoDocuments", err)
	}

	if exists, err := s.EmailOrUsernameExists(ctx, "ada@example.org", "unused"); err != nil || !exists {
		t.Errorf("EmailOrUsernameExists(taken email) = %v, %v", exists, err)
	}
	if exists, err := s.EmailOrUsernameExists(ctx, "free@example.org", "ada"); err != nil || !exists {
		t.Errorf("EmailOrUsernameExists(taken username) = %v, %v", exists, err)
	}
	if exists, err := s.EmailOrUsernameExists(ctx, "free@example.org", "free"); err != nil || exists {
		t.Errorf("EmailOrUsernameExists(free) = %v, %v", exists, err)
	}
}

func TestListSubAdmins(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	creator := primitive.NewObjectID()

	if _, err := s.Create(ctx, models.User{
		Name: "Root", Email: "root@example.org", Username: "root", Role: models.RoleSuperAdmin,
	}, "hunter2hunter2"); err != nil {
		t.Fatalf("create superadmin: %v", err)
	}
	for _, name := range []string{"bea", "cam"} {
		if _, err := s.Create(ctx, models.User{
			Name:      name,
			Email:     name + "@example.org",
			Username:  name,
			Role:      models.RoleSubAdmin,
			CreatedBy: &creator,
		}, "hunter2hunter2"); err != nil {
			t.Fatalf("create subadmin %s: %v", name, err)
		}
	}

	got, err := s.ListSubAdmins(ctx)
	if err != nil {
		t.Fatalf("ListSubAdmins: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("ListSubAdmins = %d users, want 2 (superadmin excluded)", len(got))
	}
	for _, u := range got {
		if u.Role != models.RoleSubAdmin {
			t.Errorf("listed user %s has role %q", u.Username, u.Role)
		}
	}
}
