package usecase

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/suraj946/goss-up-server/internal/entity"
	"github.com/suraj946/goss-up-server/internal/repository"
)

var (
	ErrEmptyMessage       = errors.New("message content is required")
	ErrInvalidMessageType = errors.New("invalid message type")
)

type MessageUsecase interface {
	SendMessage(ctx context.Context, senderId, chatId, messageType, content string) (entity.Message, error)
	GetMessages(ctx context.Context, chatId, userId string, page int) (entity.MessagePage, error)
}

type messageUsecase struct {
	messageRepo repository.MessageRepository
	chatRepo    repository.ChatRepository
	userRepo    repository.UserRepository
	notifier    Notifier
}

func NewMessageUsecase(
	messageRepo repository.MessageRepository,
	chatRepo repository.ChatRepository,
	userRepo repository.UserRepository,
	notifier Notifier,
) MessageUsecase {
	return &messageUsecase{
		messageRepo: messageRepo,
		chatRepo:    chatRepo,
		userRepo:    userRepo,
		notifier:    notifier,
	}
}

// SendMessage persists the message, then updates the owning chat's summary
// state. The ordering matters: lastMessageId only ever references a message
// that is already durably written.
func (m *messageUsecase) SendMessage(ctx context.Context, senderId, chatId, messageType, content string) (entity.Message, error) {
	if strings.TrimSpace(content) == "" {
		return entity.Message{}, ErrEmptyMessage
	}
	if messageType == "" {
		messageType = entity.MessageTypeText
	}
	if messageType != entity.MessageTypeText && messageType != entity.MessageTypeImage {
		return entity.Message{}, ErrInvalidMessageType
	}

	chat, err := m.chatRepo.Get(ctx, chatId)
	if err != nil {
		return entity.Message{}, mapChatErr(err)
	}
	if !chat.HasParticipant(senderId) {
		return entity.Message{}, ErrNotParticipant
	}

	message, err := m.messageRepo.Create(ctx, entity.Message{
		ChatId:      chatId,
		SenderId:    senderId,
		MessageType: messageType,
		Content:     content,
	})
	if err != nil {
		return entity.Message{}, err
	}

	if err := m.chatRepo.SetLastMessage(ctx, chatId, message.Id, message.CreatedAt); err != nil {
		// Don't leave a message the conversation list will never surface.
		if delErr := m.messageRepo.Delete(context.WithoutCancel(ctx), message.Id); delErr != nil {
			log.Printf("Failed to compensate message %s: %v", message.Id, delErr)
		}
		return entity.Message{}, err
	}

	m.fanout(ctx, chat, message)
	return message, nil
}

func (m *messageUsecase) GetMessages(ctx context.Context, chatId, userId string, page int) (entity.MessagePage, error) {
	chat, err := m.chatRepo.Get(ctx, chatId)
	if err != nil {
		return entity.MessagePage{}, mapChatErr(err)
	}
	if !chat.HasParticipant(userId) {
		return entity.MessagePage{}, ErrNotParticipant
	}

	page = clampPage(page)

	total, err := m.messageRepo.CountByChatId(ctx, chatId)
	if err != nil {
		return entity.MessagePage{}, err
	}

	messages, err := m.messageRepo.GetByChatId(ctx, chatId, ChatPageSize, (page-1)*ChatPageSize)
	if err != nil {
		return entity.MessagePage{}, err
	}

	return entity.MessagePage{
		Messages:   messages,
		Page:       page,
		TotalCount: total,
		HasMore:    int64(page*ChatPageSize) < total,
	}, nil
}

// fanout notifies every participant except the sender. Best-effort: a
// failure to resolve the sender profile only degrades the payload.
func (m *messageUsecase) fanout(ctx context.Context, chat entity.Chat, message entity.Message) {
	if m.notifier == nil {
		return
	}

	sender := entity.UserSummary{Id: message.SenderId}
	if user, err := m.userRepo.Get(ctx, message.SenderId); err == nil {
		sender = user.Summary()
	} else {
		log.Printf("Failed to resolve sender %s for fanout: %v", message.SenderId, err)
	}

	recipients := make([]string, 0, len(chat.Participants))
	for _, id := range chat.Participants {
		if id != message.SenderId {
			recipients = append(recipients, id)
		}
	}
	if len(recipients) == 0 {
		return
	}

	m.notifier.Notify(recipients, entity.EventNewMessage, entity.NewMessageEvent{
		Message: message,
		Sender:  sender,
	})
}
