// internal/domain/models/opportunity.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InterestedMember is a member who expressed interest in an opportunity.
type InterestedMember struct {
	MemberID string `bson:"member_id" json:"memberId"`
	Name     string `bson:"name" json:"name"`
	Email    string `bson:"email" json:"email"`
	Phone    string `bson:"phone,omitempty" json:"phone,omitempty"`
}

// Opportunity is a standalone engagement listing. Interest is recorded via
// the inbound opportunity-enroll webhook, deduplicated by member ID.
type Opportunity struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OppName     string             `bson:"opp_name" json:"oppName"`
	OppNameCI   string             `bson:"opp_name_ci" json:"-"`
	OppDate     time.Time          `bson:"opp_date" json:"oppDate"`
	Location    string             `bson:"location" json:"location"`
	Image       string             `bson:"image" json:"image"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`

	MembershipRequired bool               `bson:"membership_required" json:"membershipRequired"`
	InterestedMembers  []InterestedMember `bson:"interested_members" json:"interestedMembers"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
