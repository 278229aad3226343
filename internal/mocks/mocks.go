package mocks

import (
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/suraj946/goss-up-server/internal/entity"
	"github.com/suraj946/goss-up-server/internal/repository"
)

type UserRepositoryMock struct {
	mock.Mock
}

func (m *UserRepositoryMock) Get(ctx context.Context, userId string) (entity.User, error) {
	args := m.Called(ctx, userId)
	var user entity.User
	if val := args.Get(0); val != nil {
		user = val.(entity.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) GetMany(ctx context.Context, userIds []string) ([]entity.User, error) {
	args := m.Called(ctx, userIds)
	var users []entity.User
	if val := args.Get(0); val != nil {
		users = val.([]entity.User)
	}
	return users, args.Error(1)
}

func (m *UserRepositoryMock) GetByEmail(ctx context.Context, email string) (entity.User, error) {
	args := m.Called(ctx, email)
	var user entity.User
	if val := args.Get(0); val != nil {
		user = val.(entity.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *UserRepositoryMock) Create(ctx context.Context, user entity.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}

func (m *UserRepositoryMock) Update(ctx context.Context, user entity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

type FriendshipRepositoryMock struct {
	mock.Mock
}

func (m *FriendshipRepositoryMock) Get(ctx context.Context, friendshipId string) (entity.Friendship, error) {
	args := m.Called(ctx, friendshipId)
	var friendship entity.Friendship
	if val := args.Get(0); val != nil {
		friendship = val.(entity.Friendship)
	}
	return friendship, args.Error(1)
}

func (m *FriendshipRepositoryMock) GetByPair(ctx context.Context, userOneId, userTwoId string) (entity.Friendship, error) {
	args := m.Called(ctx, userOneId, userTwoId)
	var friendship entity.Friendship
	if val := args.Get(0); val != nil {
		friendship = val.(entity.Friendship)
	}
	return friendship, args.Error(1)
}

func (m *FriendshipRepositoryMock) GetAccepted(ctx context.Context, userOneId, userTwoId string) (entity.Friendship, error) {
	args := m.Called(ctx, userOneId, userTwoId)
	var friendship entity.Friendship
	if val := args.Get(0); val != nil {
		friendship = val.(entity.Friendship)
	}
	return friendship, args.Error(1)
}

func (m *FriendshipRepositoryMock) GetAcceptedMany(ctx context.Context, userId string, otherIds []string) ([]entity.Friendship, error) {
	args := m.Called(ctx, userId, otherIds)
	var friendships []entity.Friendship
	if val := args.Get(0); val != nil {
		friendships = val.([]entity.Friendship)
	}
	return friendships, args.Error(1)
}

func (m *FriendshipRepositoryMock) ListAccepted(ctx context.Context, userId string) ([]entity.Friendship, error) {
	args := m.Called(ctx, userId)
	var friendships []entity.Friendship
	if val := args.Get(0); val != nil {
		friendships = val.([]entity.Friendship)
	}
	return friendships, args.Error(1)
}

func (m *FriendshipRepositoryMock) Create(ctx context.Context, friendship entity.Friendship) (string, error) {
	args := m.Called(ctx, friendship)
	return args.String(0), args.Error(1)
}

func (m *FriendshipRepositoryMock) UpdateStatus(ctx context.Context, friendshipId, status, requestedBy string) error {
	args := m.Called(ctx, friendshipId, status, requestedBy)
	return args.Error(0)
}

type ChatRepositoryMock struct {
	mock.Mock
}

func (m *ChatRepositoryMock) Get(ctx context.Context, chatId string) (entity.Chat, error) {
	args := m.Called(ctx, chatId)
	var chat entity.Chat
	if val := args.Get(0); val != nil {
		chat = val.(entity.Chat)
	}
	return chat, args.Error(1)
}

func (m *ChatRepositoryMock) GetOneToOneByPair(ctx context.Context, pairKey string) (entity.Chat, error) {
	args := m.Called(ctx, pairKey)
	var chat entity.Chat
	if val := args.Get(0); val != nil {
		chat = val.(entity.Chat)
	}
	return chat, args.Error(1)
}

func (m *ChatRepositoryMock) Create(ctx context.Context, chat entity.Chat) (string, error) {
	args := m.Called(ctx, chat)
	return args.String(0), args.Error(1)
}

func (m *ChatRepositoryMock) UpdateGroup(ctx context.Context, chat entity.Chat) error {
	args := m.Called(ctx, chat)
	return args.Error(0)
}

func (m *ChatRepositoryMock) SetLastMessage(ctx context.Context, chatId, messageId string, at time.Time) error {
	args := m.Called(ctx, chatId, messageId, at)
	return args.Error(0)
}

func (m *ChatRepositoryMock) ListByParticipant(ctx context.Context, userId string, limit, offset int) ([]entity.Chat, error) {
	args := m.Called(ctx, userId, limit, offset)
	var chats []entity.Chat
	if val := args.Get(0); val != nil {
		chats = val.([]entity.Chat)
	}
	return chats, args.Error(1)
}

func (m *ChatRepositoryMock) CountByParticipant(ctx context.Context, userId string) (int64, error) {
	args := m.Called(ctx, userId)
	return args.Get(0).(int64), args.Error(1)
}

func (m *ChatRepositoryMock) SearchGroupsByName(ctx context.Context, userId, query string, limit, offset int) ([]entity.Chat, error) {
	args := m.Called(ctx, userId, query, limit, offset)
	var chats []entity.Chat
	if val := args.Get(0); val != nil {
		chats = val.([]entity.Chat)
	}
	return chats, args.Error(1)
}

func (m *ChatRepositoryMock) CountGroupsByName(ctx context.Context, userId, query string) (int64, error) {
	args := m.Called(ctx, userId, query)
	return args.Get(0).(int64), args.Error(1)
}

func (m *ChatRepositoryMock) Delete(ctx context.Context, chatId string, version int64) error {
	args := m.Called(ctx, chatId, version)
	return args.Error(0)
}

type MessageRepositoryMock struct {
	mock.Mock
}

func (m *MessageRepositoryMock) Get(ctx context.Context, messageId string) (entity.Message, error) {
	args := m.Called(ctx, messageId)
	var msg entity.Message
	if val := args.Get(0); val != nil {
		msg = val.(entity.Message)
	}
	return msg, args.Error(1)
}

func (m *MessageRepositoryMock) GetMany(ctx context.Context, messageIds []string) ([]entity.Message, error) {
	args := m.Called(ctx, messageIds)
	var msgs []entity.Message
	if val := args.Get(0); val != nil {
		msgs = val.([]entity.Message)
	}
	return msgs, args.Error(1)
}

func (m *MessageRepositoryMock) GetByChatId(ctx context.Context, chatId string, limit, offset int) ([]entity.Message, error) {
	args := m.Called(ctx, chatId, limit, offset)
	var msgs []entity.Message
	if val := args.Get(0); val != nil {
		msgs = val.([]entity.Message)
	}
	return msgs, args.Error(1)
}

func (m *MessageRepositoryMock) CountByChatId(ctx context.Context, chatId string) (int64, error) {
	args := m.Called(ctx, chatId)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MessageRepositoryMock) Create(ctx context.Context, message entity.Message) (entity.Message, error) {
	args := m.Called(ctx, message)
	var msg entity.Message
	if val := args.Get(0); val != nil {
		msg = val.(entity.Message)
	}
	return msg, args.Error(1)
}

func (m *MessageRepositoryMock) Delete(ctx context.Context, messageId string) error {
	args := m.Called(ctx, messageId)
	return args.Error(0)
}

func (m *MessageRepositoryMock) DeleteByChatId(ctx context.Context, chatId string) error {
	args := m.Called(ctx, chatId)
	return args.Error(0)
}

type NotifierMock struct {
	mock.Mock
}

func (m *NotifierMock) Notify(userIds []string, event string, payload any) {
	m.Called(userIds, event, payload)
}

type BlobStoreMock struct {
	mock.Mock
}

func (m *BlobStoreMock) Upload(ctx context.Context, file io.Reader, folder string) (string, string, error) {
	args := m.Called(ctx, file, folder)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *BlobStoreMock) Delete(ctx context.Context, publicId string) error {
	args := m.Called(ctx, publicId)
	return args.Error(0)
}

type PresenceMock struct {
	mock.Mock
}

func (m *PresenceMock) GetOnline(ctx context.Context, userIds []string) (map[string]bool, error) {
	args := m.Called(ctx, userIds)
	var online map[string]bool
	if val := args.Get(0); val != nil {
		online = val.(map[string]bool)
	}
	return online, args.Error(1)
}

var _ repository.UserRepository = (*UserRepositoryMock)(nil)
var _ repository.FriendshipRepository = (*FriendshipRepositoryMock)(nil)
var _ repository.ChatRepository = (*ChatRepositoryMock)(nil)
var _ repository.MessageRepository = (*MessageRepositoryMock)(nil)
