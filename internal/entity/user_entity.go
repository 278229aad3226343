package entity

import "time"

type User struct {
	Id         string    `bson:"_id" json:"id"`
	Name       string    `bson:"name" json:"name"`
	Email      string    `bson:"email" json:"email"`
	Password   string    `bson:"password" json:"-"` // Don't expose password in JSON
	ProfilePic string    `bson:"profilePic" json:"profilePic"`
	Bio        string    `bson:"bio" json:"bio"`
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time `bson:"updatedAt" json:"updatedAt"`
}

// UserSummary is the denormalized profile projection returned alongside
// chats so clients can render names without extra lookups.
type UserSummary struct {
	Id         string `bson:"_id" json:"id"`
	Name       string `bson:"name" json:"name"`
	ProfilePic string `bson:"profilePic" json:"profilePic"`
	Bio        string `bson:"bio" json:"bio"`
}

func (u User) Summary() UserSummary {
	return UserSummary{
		Id:         u.Id,
		Name:       u.Name,
		ProfilePic: u.ProfilePic,
		Bio:        u.Bio,
	}
}
