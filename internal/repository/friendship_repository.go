package repository

import (
	"context"
	"errors"
	"time"

	"github.com/suraj946/goss-up-server/internal/entity"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var ErrFriendshipNotFound = errors.New("friendship not found")

type FriendshipRepository interface {
	Get(ctx context.Context, friendshipId string) (entity.Friendship, error)
	GetByPair(ctx context.Context, userOneId, userTwoId string) (entity.Friendship, error)
	GetAccepted(ctx context.Context, userOneId, userTwoId string) (entity.Friendship, error)
	GetAcceptedMany(ctx context.Context, userId string, otherIds []string) ([]entity.Friendship, error)
	ListAccepted(ctx context.Context, userId string) ([]entity.Friendship, error)
	Create(ctx context.Context, friendship entity.Friendship) (string, error)
	UpdateStatus(ctx context.Context, friendshipId, status, requestedBy string) error
}

type friendshipRepository struct {
	db *mongo.Database
}

func NewFriendshipRepository(db *mongo.Database) FriendshipRepository {
	return &friendshipRepository{
		db: db,
	}
}

func (r *friendshipRepository) Get(ctx context.Context, friendshipId string) (entity.Friendship, error) {
	collection := r.db.Collection("friendships")
	filter := bson.M{"_id": friendshipId}

	var friendship entity.Friendship
	err := collection.FindOne(ctx, filter).Decode(&friendship)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return entity.Friendship{}, ErrFriendshipNotFound
		}
		return entity.Friendship{}, err
	}

	return friendship, nil
}

// GetByPair looks up the friendship document for an unordered user pair,
// whatever its status.
func (r *friendshipRepository) GetByPair(ctx context.Context, userOneId, userTwoId string) (entity.Friendship, error) {
	one, two := entity.CanonicalPair(userOneId, userTwoId)

	collection := r.db.Collection("friendships")
	filter := bson.M{
		"userOneId": one,
		"userTwoId": two,
	}

	var friendship entity.Friendship
	err := collection.FindOne(ctx, filter).Decode(&friendship)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return entity.Friendship{}, ErrFriendshipNotFound
		}
		return entity.Friendship{}, err
	}

	return friendship, nil
}

func (r *friendshipRepository) GetAccepted(ctx context.Context, userOneId, userTwoId string) (entity.Friendship, error) {
	one, two := entity.CanonicalPair(userOneId, userTwoId)

	collection := r.db.Collection("friendships")
	filter := bson.M{
		"userOneId": one,
		"userTwoId": two,
		"status":    entity.FriendStatusAccepted,
	}

	var friendship entity.Friendship
	err := collection.FindOne(ctx, filter).Decode(&friendship)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return entity.Friendship{}, ErrFriendshipNotFound
		}
		return entity.Friendship{}, err
	}

	return friendship, nil
}

// GetAcceptedMany returns all accepted friendships between userId and any of
// otherIds. Pairs with no accepted friendship are absent from the result.
func (r *friendshipRepository) GetAcceptedMany(ctx context.Context, userId string, otherIds []string) ([]entity.Friendship, error) {
	collection := r.db.Collection("friendships")
	filter := bson.M{
		"status": entity.FriendStatusAccepted,
		"$or": bson.A{
			bson.M{"userOneId": userId, "userTwoId": bson.M{"$in": otherIds}},
			bson.M{"userTwoId": userId, "userOneId": bson.M{"$in": otherIds}},
		},
	}

	cursor, err := collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}

	var friendships []entity.Friendship
	err = cursor.All(ctx, &friendships)
	if err != nil {
		return nil, err
	}

	return friendships, nil
}

func (r *friendshipRepository) ListAccepted(ctx context.Context, userId string) ([]entity.Friendship, error) {
	collection := r.db.Collection("friendships")
	filter := bson.M{
		"status": entity.FriendStatusAccepted,
		"$or": bson.A{
			bson.M{"userOneId": userId},
			bson.M{"userTwoId": userId},
		},
	}

	cursor, err := collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}

	var friendships []entity.Friendship
	err = cursor.All(ctx, &friendships)
	if err != nil {
		return nil, err
	}

	return friendships, nil
}

func (r *friendshipRepository) Create(ctx context.Context, friendship entity.Friendship) (string, error) {
	collection := r.db.Collection("friendships")
	friendship.Id = uuid.New().String()
	friendship.UserOneId, friendship.UserTwoId = entity.CanonicalPair(friendship.UserOneId, friendship.UserTwoId)
	friendship.CreatedAt = time.Now()
	friendship.UpdatedAt = time.Now()

	_, err := collection.InsertOne(ctx, friendship)
	if err != nil {
		return "", err
	}

	return friendship.Id, nil
}

func (r *friendshipRepository) UpdateStatus(ctx context.Context, friendshipId, status, requestedBy string) error {
	collection := r.db.Collection("friendships")
	filter := bson.M{"_id": friendshipId}

	update := bson.M{
		"$set": bson.M{
			"status":      status,
			"requestedBy": requestedBy,
			"updatedAt":   time.Now(),
		},
	}

	_, err := collection.UpdateOne(ctx, filter, update)
	return err
}
