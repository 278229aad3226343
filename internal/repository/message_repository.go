package repository

import (
	"context"
	"errors"
	"time"

	"github.com/suraj946/goss-up-server/internal/entity"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrMessageNotFound = errors.New("message not found")

type MessageRepository interface {
	Get(ctx context.Context, messageId string) (entity.Message, error)
	GetMany(ctx context.Context, messageIds []string) ([]entity.Message, error)
	GetByChatId(ctx context.Context, chatId string, limit, offset int) ([]entity.Message, error)
	CountByChatId(ctx context.Context, chatId string) (int64, error)
	Create(ctx context.Context, message entity.Message) (entity.Message, error)
	Delete(ctx context.Context, messageId string) error
	DeleteByChatId(ctx context.Context, chatId string) error
}

type messageRepository struct {
	db *mongo.Database
}

func NewMessageRepository(db *mongo.Database) MessageRepository {
	return &messageRepository{
		db: db,
	}
}

func (r *messageRepository) Get(ctx context.Context, messageId string) (entity.Message, error) {
	collection := r.db.Collection("messages")
	filter := bson.M{"_id": messageId}

	var message entity.Message
	err := collection.FindOne(ctx, filter).Decode(&message)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return entity.Message{}, ErrMessageNotFound
		}
		return entity.Message{}, err
	}

	return message, nil
}

func (r *messageRepository) GetMany(ctx context.Context, messageIds []string) ([]entity.Message, error) {
	collection := r.db.Collection("messages")
	filter := bson.M{"_id": bson.M{"$in": messageIds}}

	cursor, err := collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}

	var messages []entity.Message
	err = cursor.All(ctx, &messages)
	if err != nil {
		return nil, err
	}

	return messages, nil
}

func (r *messageRepository) GetByChatId(ctx context.Context, chatId string, limit, offset int) ([]entity.Message, error) {
	collection := r.db.Collection("messages")
	filter := bson.M{"chatId": chatId}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	var messages []entity.Message
	err = cursor.All(ctx, &messages)
	if err != nil {
		return nil, err
	}

	return messages, nil
}

func (r *messageRepository) CountByChatId(ctx context.Context, chatId string) (int64, error) {
	collection := r.db.Collection("messages")
	return collection.CountDocuments(ctx, bson.M{"chatId": chatId})
}

func (r *messageRepository) Create(ctx context.Context, message entity.Message) (entity.Message, error) {
	collection := r.db.Collection("messages")
	message.Id = uuid.New().String()
	message.CreatedAt = time.Now()

	_, err := collection.InsertOne(ctx, message)
	if err != nil {
		return entity.Message{}, err
	}

	return message, nil
}

func (r *messageRepository) Delete(ctx context.Context, messageId string) error {
	collection := r.db.Collection("messages")
	filter := bson.M{"_id": messageId}
	_, err := collection.DeleteOne(ctx, filter)
	return err
}

func (r *messageRepository) DeleteByChatId(ctx context.Context, chatId string) error {
	collection := r.db.Collection("messages")
	filter := bson.M{"chatId": chatId}
	_, err := collection.DeleteMany(ctx, filter)
	return err
}
