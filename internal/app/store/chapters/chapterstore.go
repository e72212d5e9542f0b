package chapterstore

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
	return &Store{c: db.Collection("chapters")}
}

// ErrMemberNotFound is returned when a member ID is not in the chapter's
// member list.
var ErrMemberNotFound = errors.New("member not found in chapter")

// Create inserts a new chapter with empty member and event lists unless
// the caller supplied them.
func (s *Store) Create(ctx context.Context, ch models.Chapter) (models.Chapter, error) {
	ch.ID = primitive.NewObjectID()
	ch.ChapterName = normalize.Name(ch.ChapterName)
	ch.ChapterNameCI = text.Fold(ch.ChapterName)
	if ch.Events == nil {
		ch.Events = []primitive.ObjectID{}
	}
	if ch.Members == nil {
		ch.Members = []models.ChapterMember{}
	}

	now := time.Now()
	ch.CreatedAt = now
	ch.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, ch); err != nil {
		return models.Chapter{}, err
	}
	return ch, nil
}

// GetByID loads a chapter by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Chapter, error) {
	var ch models.Chapter
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&ch); err != nil {
		return nil, err
	}
	return &ch, nil
}

// List returns all chapters, insertion order.
func (s *Store) List(ctx context.Context) ([]models.Chapter, error) {
	cur, err := s.c.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Chapter
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a chapter document. Referenced events are left in place;
// chapter deletion does not cascade.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// AddMember adds a member with set semantics: if a member with the same
// member_id is already present the call is a no-op, not an error.
// Returns added=false when the member was already enrolled.
func (s *Store) AddMember(ctx context.Context, id primitive.ObjectID, m models.ChapterMember) (added bool, err error) {
	m.Email = normalize.Email(m.Email)
	m.Name = normalize.Name(m.Name)

	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "members.member_id": bson.M{"$ne": m.MemberID}},
		bson.M{
			"$push": bson.M{"members": m},
			"$set":  bson.M{"updated_at": time.Now()},
		})
	if err != nil {
		return false, err
	}
	if res.MatchedCount == 0 {
		// Either the chapter is missing or the member already exists.
		// Distinguish the two for the caller.
		if err := s.c.FindOne(ctx, bson.M{"_id": id}).Err(); err != nil {
			return false, err // mongo.ErrNoDocuments when chapter absent
		}
		return false, nil
	}
	return true, nil
}

// UpdateMemberRole sets the role of the member with the given member ID.
// The match is exact; no normalization is applied to the member ID.
func (s *Store) UpdateMemberRole(ctx context.Context, id primitive.ObjectID, memberID, role string) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "members.member_id": memberID},
		bson.M{"$set": bson.M{
			"members.$.role": role,
			"updated_at":     time.Now(),
		}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		if err := s.c.FindOne(ctx, bson.M{"_id": id}).Err(); err != nil {
			return err
		}
		return ErrMemberNotFound
	}
	return nil
}

// PushEvent appends an event reference to the chapter's events list.
func (s *Store) PushEvent(ctx context.Context, id, eventID primitive.ObjectID) error {
	_, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{
			"$push": bson.M{"events": eventID},
			"$set":  bson.M{"updated_at": time.Now()},
		})
	return err
}

// PullEvent removes an event reference from the chapter's events list.
func (s *Store) PullEvent(ctx context.Context, id, eventID primitive.ObjectID) error {
	_, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{
			"$pull": bson.M{"events": eventID},
			"$set":  bson.M{"updated_at": time.Now()},
		})
	return err
}
