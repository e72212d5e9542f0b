// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FeaturePermission is one per-feature toggle on a subadmin account.
// Superadmins bypass feature checks entirely, so the list is only
// consulted for role "subadmin".
type FeaturePermission struct {
	Feature string `bson:"feature" json:"feature"`
	Allowed bool   `bson:"allowed" json:"allowed"`
}

// User represents an administrative account: a superadmin or a subadmin
// created by one. Members of chapters and events are not Users; they live
// in the membership portal and are referenced by portal member IDs.
type User struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name         string              `bson:"name" json:"name"`
	NameCI       string              `bson:"name_ci" json:"-"` // lowercase, diacritics-stripped
	Email        string              `bson:"email" json:"email"`
	Username     string              `bson:"username" json:"username"`
	PasswordHash string              `bson:"password_hash" json:"-"`
	Role         string              `bson:"role" json:"role"` // superadmin | subadmin
	CreatedBy    *primitive.ObjectID `bson:"created_by,omitempty" json:"createdBy,omitempty"`

	AllowedFeatures []FeaturePermission `bson:"allowed_features,omitempty" json:"allowedFeatures,omitempty"`
	IsActive        bool                `bson:"is_active" json:"isActive"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// Roles for User.Role.
const (
	RoleSuperAdmin = "superadmin"
	RoleSubAdmin   = "subadmin"
)

// Feature names gating the mutation endpoints.
const (
	FeatureAddChapter = "addChapter"
	FeatureAddEvent   = "addEvent"
	FeatureAddOpp     = "addOpp"
)
