// internal/domain/models/mirroredevent.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MirroredEvent is a locally-cached copy of an event that originated in the
// membership portal, keyed by the portal's event ID. Upserts are
// last-write-wins; no version or timestamp comparison is done.
//
// This collection is independent of the admin-side events collection.
type MirroredEvent struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EventID string             `bson:"event_id" json:"eventId"`

	EventName          string    `bson:"event_name" json:"eventName"`
	EventStartTime     time.Time `bson:"event_start_time,omitempty" json:"eventStartTime,omitempty"`
	EventEndTime       time.Time `bson:"event_end_time,omitempty" json:"eventEndTime,omitempty"`
	EventDate          time.Time `bson:"event_date" json:"eventDate"`
	Location           string    `bson:"location,omitempty" json:"location,omitempty"`
	Description        string    `bson:"description,omitempty" json:"description,omitempty"`
	MembershipRequired bool      `bson:"membership_required" json:"membershipRequired"`

	// Chapter is whatever chapter summary the portal sent; it is stored
	// opaquely and never resolved against local chapters.
	Chapter ChapterSummary `bson:"chapter" json:"chapter"`

	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// ChapterSummary is the denormalized chapter info carried on event webhooks
// so the receiving side does not have to re-resolve the chapter.
type ChapterSummary struct {
	ID   string `bson:"id" json:"id"`
	Name string `bson:"name" json:"name"`
}
