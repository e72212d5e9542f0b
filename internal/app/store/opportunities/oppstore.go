package oppstore

import (
	"context"
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
	return &Store{c: db.Collection("opportunities")}
}

// Create inserts a new opportunity.
func (s *Store) Create(ctx context.Context, opp models.Opportunity) (models.Opportunity, error) {
	opp.ID = primitive.NewObjectID()
	opp.OppName = normalize.Name(opp.OppName)
	opp.OppNameCI = text.Fold(opp.OppName)
	if opp.InterestedMembers == nil {
		opp.InterestedMembers = []models.InterestedMember{}
	}

	now := time.Now()
	opp.CreatedAt = now
	opp.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, opp); err != nil {
		return models.Opportunity{}, err
	}
	return opp, nil
}

// GetByID loads an opportunity by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Opportunity, error) {
	var opp models.Opportunity
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&opp); err != nil {
		return nil, err
	}
	return &opp, nil
}

// List returns all opportunities.
func (s *Store) List(ctx context.Context) ([]models.Opportunity, error) {
	cur, err := s.c.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Opportunity
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddInterested records a member's interest with set semantics: a member
// already on the list is a no-op. Returns added=false in that case.
func (s *Store) AddInterested(ctx context.Context, id primitive.ObjectID, m models.InterestedMember) (added bool, err error) {
	m.Email = normalize.Email(m.Email)
	m.Name = normalize.Name(m.Name)

	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "interested_members.member_id": bson.M{"$ne": m.MemberID}},
		bson.M{
			"$push": bson.M{"interested_members": m},
			"$set":  bson.M{"updated_at": time.Now()},
		})
	if err != nil {
		return false, err
	}
	if res.MatchedCount == 0 {
		if err := s.c.FindOne(ctx, bson.M{"_id": id}).Err(); err != nil {
			return false, err // mongo.ErrNoDocuments when opportunity absent
		}
		return false, nil
	}
	return true, nil
}
