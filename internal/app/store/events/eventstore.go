package eventstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/zonehq/chapteradmin/internal/app/system/normalize"
	"github.com/zonehq/chapteradmin/internal/domain/models"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("events")}
}

var (
	// ErrAlreadyEnrolled is returned when the member ID is already on the
	// event's member list. Event enrollment is not idempotent.
	ErrAlreadyEnrolled = errors.New("member already enrolled in this event")

	// ErrNoSlots is returned when a membership-required event has no
	// available slots left.
	ErrNoSlots = errors.New("no available slots")
)

// Create inserts a new event.
func (s *Store) Create(ctx context.Context, ev models.Event) (models.Event, error) {
	ev.ID = primitive.NewObjectID()
	ev.EventName = normalize.Name(ev.EventName)
	ev.EventNameCI = text.Fold(ev.EventName)
	if ev.Members == nil {
		ev.Members = []models.EventMember{}
	}

	now := time.Now()
	ev.CreatedAt = now
	ev.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, ev); err != nil {
		return models.Event{}, err
	}
	return ev, nil
}

// GetByID loads an event by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Event, error) {
	var ev models.Event
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&ev); err != nil {
		return nil, err
	}
	return &ev, nil
}

// List returns all events.
func (s *Store) List(ctx context.Context) ([]models.Event, error) {
	cur, err := s.c.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Event
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes an event document.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// Enroll adds a member to the event. Unlike chapter enrollment this is
// NOT idempotent: a duplicate member ID yields ErrAlreadyEnrolled.
//
// For membership-required events the slot decrement and the member add
// happen in one atomic update, so concurrent enrollments cannot
// oversubscribe the event.
func (s *Store) Enroll(ctx context.Context, id primitive.ObjectID, m models.EventMember) error {
	m.Email = normalize.Email(m.Email)
	m.Name = normalize.Name(m.Name)

	ev, err := s.GetByID(ctx, id)
	if err != nil {
		return err // mongo.ErrNoDocuments when event absent
	}
	for _, existing := range ev.Members {
		if existing.MemberID == m.MemberID {
			return ErrAlreadyEnrolled
		}
	}
	if ev.MembershipRequired && ev.Slots <= 0 {
		return ErrNoSlots
	}

	filter := bson.M{"_id": id, "members.member_id": bson.M{"$ne": m.MemberID}}
	update := bson.M{
		"$push": bson.M{"members": m},
		"$set":  bson.M{"updated_at": time.Now()},
	}
	if ev.MembershipRequired {
		filter["slots"] = bson.M{"$gt": 0}
		update["$inc"] = bson.M{"slots": -1}
	}

	res, err := s.c.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		// Lost a race since the pre-check: either the member appeared or
		// the last slot was taken.
		fresh, err := s.GetByID(ctx, id)
		if err != nil {
			return err
		}
		for _, existing := range fresh.Members {
			if existing.MemberID == m.MemberID {
				return ErrAlreadyEnrolled
			}
		}
		return ErrNoSlots
	}
	return nil
}
