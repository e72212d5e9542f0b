// internal/domain/models/event.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EventMember is an enrollment inside an event.
type EventMember struct {
	MemberID string `bson:"member_id" json:"memberId"`
	Name     string `bson:"name" json:"name"`
	Email    string `bson:"email" json:"email"`
	Phone    string `bson:"phone,omitempty" json:"phone,omitempty"`
}

// Event is a scheduled activity belonging to exactly one chapter.
//
// When MembershipRequired is true, Slots caps enrollment: it must start
// above zero and is decremented atomically with each member add.
type Event struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EventName      string             `bson:"event_name" json:"eventName"`
	EventNameCI    string             `bson:"event_name_ci" json:"-"`
	Slots          int                `bson:"slots" json:"slots"`
	Link           string             `bson:"link,omitempty" json:"link,omitempty"`
	EventStartTime time.Time          `bson:"event_start_time" json:"eventStartTime"`
	EventEndTime   time.Time          `bson:"event_end_time" json:"eventEndTime"`
	EventDate      time.Time          `bson:"event_date" json:"eventDate"`
	Location       string             `bson:"location" json:"location"`
	Description    string             `bson:"description,omitempty" json:"description,omitempty"`

	MembershipRequired bool   `bson:"membership_required" json:"membershipRequired"`
	Image              string `bson:"image" json:"image"`

	Chapter primitive.ObjectID `bson:"chapter" json:"chapter"`
	Members []EventMember      `bson:"members" json:"members"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
