// internal/domain/models/chapter.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ChapterMember is an enrolled member inside a chapter. MemberID is the
// membership portal's user ID; it is never validated locally.
type ChapterMember struct {
	MemberID string `bson:"member_id" json:"memberId"`
	Name     string `bson:"name" json:"name"`
	Email    string `bson:"email" json:"email"`
	Role     string `bson:"role,omitempty" json:"role,omitempty"`
	Phone    string `bson:"phone,omitempty" json:"phone,omitempty"`
}

// Chapter is a regional organizational unit. It owns its embedded members
// list and the events reference list; the Event documents themselves live
// in their own collection and are only referenced here.
type Chapter struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ChapterName     string             `bson:"chapter_name" json:"chapterName"`
	ChapterNameCI   string             `bson:"chapter_name_ci" json:"-"`
	Zone            string             `bson:"zone" json:"zone"`
	Description     string             `bson:"description,omitempty" json:"description,omitempty"`
	ChapterLeadName string             `bson:"chapter_lead_name" json:"chapterLeadName"`
	Image           string             `bson:"image,omitempty" json:"image,omitempty"`

	Events  []primitive.ObjectID `bson:"events" json:"events"`
	Members []ChapterMember      `bson:"members" json:"members"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
