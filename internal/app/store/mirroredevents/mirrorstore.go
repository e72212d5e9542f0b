package mirrorstore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/zonehq/chapteradmin/internal/domain/models"
)

// Store holds the local mirror of events pushed in by the membership
// portal. Documents are keyed by the portal's event ID, not ObjectID.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("mirrored_events")}
}

// Upsert applies a full last-write-wins replacement of the mirrored
// fields for the given portal event ID. Repeated deliveries and
// redeliveries converge on the latest payload.
func (s *Store) Upsert(ctx context.Context, ev models.MirroredEvent) error {
	ev.UpdatedAt = time.Now()

	_, err := s.c.UpdateOne(ctx,
		bson.M{"event_id": ev.EventID},
		bson.M{"$set": bson.M{
			"event_name":          ev.EventName,
			"event_start_time":    ev.EventStartTime,
			"event_end_time":      ev.EventEndTime,
			"event_date":          ev.EventDate,
			"location":            ev.Location,
			"description":         ev.Description,
			"membership_required": ev.MembershipRequired,
			"chapter":             ev.Chapter,
			"updated_at":          ev.UpdatedAt,
		}},
		options.Update().SetUpsert(true))
	return err
}

// GetByEventID loads a mirrored event by its portal event ID.
func (s *Store) GetByEventID(ctx context.Context, eventID string) (*models.MirroredEvent, error) {
	var ev models.MirroredEvent
	if err := s.c.FindOne(ctx, bson.M{"event_id": eventID}).Decode(&ev); err != nil {
		return nil, err
	}
	return &ev, nil
}

// List returns all mirrored events.
func (s *Store) List(ctx context.Context) ([]models.MirroredEvent, error) {
	cur, err := s.c.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.MirroredEvent
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
