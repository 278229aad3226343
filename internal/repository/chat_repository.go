package repository

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/suraj946/goss-up-server/internal/entity"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrChatNotFound = errors.New("chat not found")

	// ErrDuplicatePair signals that another request created the same
	// one-to-one chat first; the caller re-reads and returns the winner.
	ErrDuplicatePair = errors.New("one-to-one chat already exists for pair")

	// ErrVersionConflict signals a lost compare-and-swap on a chat record;
	// the caller re-reads and retries.
	ErrVersionConflict = errors.New("chat was modified concurrently")
)

type ChatRepository interface {
	Get(ctx context.Context, chatId string) (entity.Chat, error)
	GetOneToOneByPair(ctx context.Context, pairKey string) (entity.Chat, error)
	Create(ctx context.Context, chat entity.Chat) (string, error)
	UpdateGroup(ctx context.Context, chat entity.Chat) error
	SetLastMessage(ctx context.Context, chatId, messageId string, at time.Time) error
	ListByParticipant(ctx context.Context, userId string, limit, offset int) ([]entity.Chat, error)
	CountByParticipant(ctx context.Context, userId string) (int64, error)
	SearchGroupsByName(ctx context.Context, userId, query string, limit, offset int) ([]entity.Chat, error)
	CountGroupsByName(ctx context.Context, userId, query string) (int64, error)
	Delete(ctx context.Context, chatId string, version int64) error
}

type chatRepository struct {
	db *mongo.Database
}

func NewChatRepository(db *mongo.Database) ChatRepository {
	return &chatRepository{
		db: db,
	}
}

func (r *chatRepository) Get(ctx context.Context, chatId string) (entity.Chat, error) {
	collection := r.db.Collection("chats")
	filter := bson.M{"_id": chatId}

	var chat entity.Chat
	err := collection.FindOne(ctx, filter).Decode(&chat)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return entity.Chat{}, ErrChatNotFound
		}
		return entity.Chat{}, err
	}

	return chat, nil
}

// GetOneToOneByPair looks up a one-to-one chat by the exact canonical pair
// key. Exact-match lookup, backed by the unique pairKey index.
func (r *chatRepository) GetOneToOneByPair(ctx context.Context, pairKey string) (entity.Chat, error) {
	collection := r.db.Collection("chats")
	filter := bson.M{
		"chatType": entity.ChatTypeOneToOne,
		"pairKey":  pairKey,
	}

	var chat entity.Chat
	err := collection.FindOne(ctx, filter).Decode(&chat)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return entity.Chat{}, ErrChatNotFound
		}
		return entity.Chat{}, err
	}

	return chat, nil
}

func (r *chatRepository) Create(ctx context.Context, chat entity.Chat) (string, error) {
	collection := r.db.Collection("chats")
	chat.Id = uuid.New().String()
	chat.Version = 1
	chat.CreatedAt = time.Now()
	chat.UpdatedAt = time.Now()

	_, err := collection.InsertOne(ctx, chat)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", ErrDuplicatePair
		}
		return "", err
	}

	return chat.Id, nil
}

// UpdateGroup writes the mutable group fields conditioned on the version the
// caller read, so concurrent membership edits cannot silently overwrite each
// other.
func (r *chatRepository) UpdateGroup(ctx context.Context, chat entity.Chat) error {
	collection := r.db.Collection("chats")
	filter := bson.M{
		"_id":     chat.Id,
		"version": chat.Version,
	}

	update := bson.M{
		"$set": bson.M{
			"participants": chat.Participants,
			"admins":       chat.Admins,
			"groupName":    chat.GroupName,
			"groupIcon":    chat.GroupIcon,
			"groupIconId":  chat.GroupIconId,
			"updatedAt":    time.Now(),
		},
		"$inc": bson.M{"version": 1},
	}

	result, err := collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrVersionConflict
	}

	return nil
}

// SetLastMessage bumps the conversation summary after a message write has
// committed. Unconditional: last-write-wins is correct for recency.
func (r *chatRepository) SetLastMessage(ctx context.Context, chatId, messageId string, at time.Time) error {
	collection := r.db.Collection("chats")
	filter := bson.M{"_id": chatId}

	update := bson.M{
		"$set": bson.M{
			"lastMessageId": messageId,
			"updatedAt":     at,
		},
	}

	result, err := collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrChatNotFound
	}

	return nil
}

func (r *chatRepository) ListByParticipant(ctx context.Context, userId string, limit, offset int) ([]entity.Chat, error) {
	collection := r.db.Collection("chats")
	filter := bson.M{"participants": userId}

	opts := options.Find().
		SetSort(bson.D{{Key: "updatedAt", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	var chats []entity.Chat
	err = cursor.All(ctx, &chats)
	if err != nil {
		return nil, err
	}

	return chats, nil
}

func (r *chatRepository) CountByParticipant(ctx context.Context, userId string) (int64, error) {
	collection := r.db.Collection("chats")
	return collection.CountDocuments(ctx, bson.M{"participants": userId})
}

func (r *chatRepository) SearchGroupsByName(ctx context.Context, userId, query string, limit, offset int) ([]entity.Chat, error) {
	collection := r.db.Collection("chats")
	filter := groupSearchFilter(userId, query)

	opts := options.Find().
		SetSort(bson.D{{Key: "updatedAt", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	var chats []entity.Chat
	err = cursor.All(ctx, &chats)
	if err != nil {
		return nil, err
	}

	return chats, nil
}

func (r *chatRepository) CountGroupsByName(ctx context.Context, userId, query string) (int64, error) {
	collection := r.db.Collection("chats")
	return collection.CountDocuments(ctx, groupSearchFilter(userId, query))
}

// Delete removes the chat record conditioned on the version the caller read,
// the same guard UpdateGroup uses. A membership edit that committed in
// between invalidates the delete.
func (r *chatRepository) Delete(ctx context.Context, chatId string, version int64) error {
	collection := r.db.Collection("chats")
	filter := bson.M{
		"_id":     chatId,
		"version": version,
	}

	result, err := collection.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrVersionConflict
	}

	return nil
}

// groupSearchFilter scopes to groups the user belongs to, with a
// case-insensitive substring match on the group name.
func groupSearchFilter(userId, query string) bson.M {
	return bson.M{
		"chatType":     entity.ChatTypeGroup,
		"participants": userId,
		"groupName": bson.M{
			"$regex":   regexp.QuoteMeta(query),
			"$options": "i",
		},
	}
}
