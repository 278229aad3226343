package entity

import "time"

const (
	FriendStatusPending  = "pending"
	FriendStatusAccepted = "accepted"
	FriendStatusRejected = "rejected"
	FriendStatusBlocked  = "blocked"
)

// Friendship is stored with the pair in canonical smaller-first order so a
// single document covers both directions of the relation.
type Friendship struct {
	Id          string    `bson:"_id" json:"id"`
	UserOneId   string    `bson:"userOneId" json:"userOneId"`
	UserTwoId   string    `bson:"userTwoId" json:"userTwoId"`
	Status      string    `bson:"status" json:"status"`
	RequestedBy string    `bson:"requestedBy" json:"requestedBy"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`
}

// CanonicalPair orders two user ids smaller-first.
func CanonicalPair(a, b string) (string, string) {
	if a < b {
		return a, b
	}
	return b, a
}

// Other returns the member of the pair that is not userId.
func (f Friendship) Other(userId string) string {
	if f.UserOneId == userId {
		return f.UserTwoId
	}
	return f.UserOneId
}
