package usecase

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"

	"github.com/suraj946/goss-up-server/infrastructure/cache"
	"github.com/suraj946/goss-up-server/internal/entity"
	"github.com/suraj946/goss-up-server/internal/repository"
)

var (
	ErrChatNotFound          = errors.New("chat not found")
	ErrNotGroupChat          = errors.New("chat is not a group chat")
	ErrSelfChat              = errors.New("cannot start a chat with yourself")
	ErrNotFriends            = errors.New("an accepted friendship is required")
	ErrNotParticipant        = errors.New("you are not a participant of this chat")
	ErrNotAdmin              = errors.New("you are not an admin of this group")
	ErrAlreadyParticipant    = errors.New("user is already a participant")
	ErrTargetNotParticipant  = errors.New("user is not a participant of this group")
	ErrCannotRemoveSelf      = errors.New("use leave-group to remove yourself")
	ErrGroupNameRequired     = errors.New("group name is required")
	ErrNotEnoughParticipants = errors.New("a group needs at least two other participants")
)

const (
	// ChatPageSize is the fixed page size of list and search queries.
	ChatPageSize = 50

	// maxUpdateRetries bounds the optimistic retry loop on version
	// conflicts before the conflict is surfaced as an internal error.
	maxUpdateRetries = 3

	groupIconFolder = "goss-up/group-icons"
)

type ChatUsecase interface {
	// CreateOneToOne returns the one-to-one chat for the pair, creating it
	// if needed. The second return reports whether a new chat was created.
	CreateOneToOne(ctx context.Context, requesterId, targetUserId string) (entity.ChatDetailResponse, bool, error)

	CreateGroup(ctx context.Context, requesterId string, participantIds []string, groupName string) (entity.Chat, error)
	UpdateGroupName(ctx context.Context, chatId, newName, actorId string) (entity.Chat, error)
	UpdateGroupIcon(ctx context.Context, chatId, actorId string, icon io.Reader) (entity.Chat, error)
	AddParticipant(ctx context.Context, chatId, newParticipantId, actorId string) (entity.Chat, error)
	RemoveParticipant(ctx context.Context, chatId, targetId, actorId string) (entity.Chat, error)

	// ToggleAdmin flips the target's admin membership and reports whether
	// the target is an admin afterwards.
	ToggleAdmin(ctx context.Context, chatId, targetId, actorId string) (entity.Chat, bool, error)

	LeaveGroup(ctx context.Context, chatId, actorId string) error
	SearchGroups(ctx context.Context, actorId, query string, page int) (entity.ChatPage, error)
	ListChats(ctx context.Context, actorId string, page int) (entity.ChatPage, error)
}

type chatUsecase struct {
	chatRepo    repository.ChatRepository
	userRepo    repository.UserRepository
	friendRepo  repository.FriendshipRepository
	messageRepo repository.MessageRepository
	profiles    *cache.ProfileCache
	blob        BlobStore
	notifier    Notifier
}

func NewChatUsecase(
	chatRepo repository.ChatRepository,
	userRepo repository.UserRepository,
	friendRepo repository.FriendshipRepository,
	messageRepo repository.MessageRepository,
	profiles *cache.ProfileCache,
	blob BlobStore,
	notifier Notifier,
) ChatUsecase {
	return &chatUsecase{
		chatRepo:    chatRepo,
		userRepo:    userRepo,
		friendRepo:  friendRepo,
		messageRepo: messageRepo,
		profiles:    profiles,
		blob:        blob,
		notifier:    notifier,
	}
}

func (c *chatUsecase) CreateOneToOne(ctx context.Context, requesterId, targetUserId string) (entity.ChatDetailResponse, bool, error) {
	if requesterId == targetUserId {
		return entity.ChatDetailResponse{}, false, ErrSelfChat
	}

	if _, err := c.userRepo.Get(ctx, targetUserId); err != nil {
		return entity.ChatDetailResponse{}, false, mapUserErr(err)
	}

	pairKey := entity.ChatPairKey(requesterId, targetUserId)

	existing, err := c.chatRepo.GetOneToOneByPair(ctx, pairKey)
	if err == nil {
		return c.chatDetail(ctx, existing, false)
	}
	if !errors.Is(err, repository.ErrChatNotFound) {
		return entity.ChatDetailResponse{}, false, err
	}

	if _, err := c.friendRepo.GetAccepted(ctx, requesterId, targetUserId); err != nil {
		if errors.Is(err, repository.ErrFriendshipNotFound) {
			return entity.ChatDetailResponse{}, false, ErrNotFriends
		}
		return entity.ChatDetailResponse{}, false, err
	}

	one, two := entity.CanonicalPair(requesterId, targetUserId)
	chat := entity.Chat{
		ChatType:     entity.ChatTypeOneToOne,
		Participants: []string{one, two},
		PairKey:      pairKey,
	}

	chatId, err := c.chatRepo.Create(ctx, chat)
	if err != nil {
		// Lost the creation race: the other participant inserted the pair
		// first. Return the winner's record instead of erroring.
		if errors.Is(err, repository.ErrDuplicatePair) {
			winner, err := c.chatRepo.GetOneToOneByPair(ctx, pairKey)
			if err != nil {
				return entity.ChatDetailResponse{}, false, err
			}
			return c.chatDetail(ctx, winner, false)
		}
		return entity.ChatDetailResponse{}, false, err
	}

	chat, err = c.chatRepo.Get(ctx, chatId)
	if err != nil {
		return entity.ChatDetailResponse{}, false, err
	}

	return c.chatDetail(ctx, chat, true)
}

func (c *chatUsecase) CreateGroup(ctx context.Context, requesterId string, participantIds []string, groupName string) (entity.Chat, error) {
	groupName = strings.TrimSpace(groupName)
	if groupName == "" {
		return entity.Chat{}, ErrGroupNameRequired
	}

	others := dedupe(participantIds, requesterId)
	if len(others) < 2 {
		return entity.Chat{}, ErrNotEnoughParticipants
	}

	users, err := c.userRepo.GetMany(ctx, others)
	if err != nil {
		return entity.Chat{}, err
	}
	if len(users) != len(others) {
		return entity.Chat{}, ErrUserNotFound
	}

	// Every named participant must be an accepted friend of the creator;
	// friendship between the participants themselves is not required.
	friendships, err := c.friendRepo.GetAcceptedMany(ctx, requesterId, others)
	if err != nil {
		return entity.Chat{}, err
	}
	if len(friendships) != len(others) {
		return entity.Chat{}, ErrNotFriends
	}

	chat := entity.Chat{
		ChatType:     entity.ChatTypeGroup,
		Participants: append(others, requesterId),
		Admins:       []string{requesterId},
		GroupName:    groupName,
	}

	chatId, err := c.chatRepo.Create(ctx, chat)
	if err != nil {
		return entity.Chat{}, err
	}

	chat, err = c.chatRepo.Get(ctx, chatId)
	if err != nil {
		return entity.Chat{}, err
	}

	c.notify(chat, requesterId, entity.EventNewGroup, entity.NewGroupEvent{Chat: chat})
	return chat, nil
}

func (c *chatUsecase) UpdateGroupName(ctx context.Context, chatId, newName, actorId string) (entity.Chat, error) {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return entity.Chat{}, ErrGroupNameRequired
	}

	chat, err := c.mutateGroup(ctx, chatId, func(chat *entity.Chat) error {
		if !chat.HasAdmin(actorId) {
			return ErrNotAdmin
		}
		chat.GroupName = newName
		return nil
	})
	if err != nil {
		return entity.Chat{}, err
	}

	c.notify(chat, actorId, entity.EventGroupRenamed, entity.GroupRenamedEvent{
		ChatId:    chat.Id,
		GroupName: chat.GroupName,
	})
	return chat, nil
}

func (c *chatUsecase) UpdateGroupIcon(ctx context.Context, chatId, actorId string, icon io.Reader) (entity.Chat, error) {
	// Reject before paying for the upload.
	current, err := c.chatRepo.Get(ctx, chatId)
	if err != nil {
		return entity.Chat{}, mapChatErr(err)
	}
	if current.ChatType != entity.ChatTypeGroup {
		return entity.Chat{}, ErrNotGroupChat
	}
	if !current.HasAdmin(actorId) {
		return entity.Chat{}, ErrNotAdmin
	}

	url, publicId, err := c.blob.Upload(ctx, icon, groupIconFolder)
	if err != nil {
		return entity.Chat{}, err
	}

	var prevIconId string
	chat, err := c.mutateGroup(ctx, chatId, func(chat *entity.Chat) error {
		if !chat.HasAdmin(actorId) {
			return ErrNotAdmin
		}
		prevIconId = chat.GroupIconId
		chat.GroupIcon = url
		chat.GroupIconId = publicId
		return nil
	})
	if err != nil {
		// The record never pointed at the new asset; clean it up.
		if delErr := c.blob.Delete(ctx, publicId); delErr != nil {
			log.Printf("Failed to delete unused group icon %s: %v", publicId, delErr)
		}
		return entity.Chat{}, err
	}

	// The replaced asset is unreferenced once the update committed.
	// Deletion is best-effort and never fails the operation.
	if prevIconId != "" {
		if err := c.blob.Delete(ctx, prevIconId); err != nil {
			log.Printf("Failed to delete replaced group icon %s: %v", prevIconId, err)
		}
	}

	c.notify(chat, actorId, entity.EventGroupIconUpdated, entity.GroupIconUpdatedEvent{
		ChatId:    chat.Id,
		GroupIcon: chat.GroupIcon,
	})
	return chat, nil
}

func (c *chatUsecase) AddParticipant(ctx context.Context, chatId, newParticipantId, actorId string) (entity.Chat, error) {
	if _, err := c.userRepo.Get(ctx, newParticipantId); err != nil {
		return entity.Chat{}, mapUserErr(err)
	}

	// The trust rule mirrors one-to-one creation: only the acting admin's
	// friendship with the invitee is checked.
	if _, err := c.friendRepo.GetAccepted(ctx, actorId, newParticipantId); err != nil {
		if errors.Is(err, repository.ErrFriendshipNotFound) {
			return entity.Chat{}, ErrNotFriends
		}
		return entity.Chat{}, err
	}

	chat, err := c.mutateGroup(ctx, chatId, func(chat *entity.Chat) error {
		if !chat.HasAdmin(actorId) {
			return ErrNotAdmin
		}
		if chat.HasParticipant(newParticipantId) {
			return ErrAlreadyParticipant
		}
		chat.Participants = append(chat.Participants, newParticipantId)
		return nil
	})
	if err != nil {
		return entity.Chat{}, err
	}

	c.notify(chat, actorId, entity.EventParticipantAdded, entity.ParticipantEvent{
		ChatId: chat.Id,
		UserId: newParticipantId,
	})
	return chat, nil
}

func (c *chatUsecase) RemoveParticipant(ctx context.Context, chatId, targetId, actorId string) (entity.Chat, error) {
	if targetId == actorId {
		return entity.Chat{}, ErrCannotRemoveSelf
	}

	chat, err := c.mutateGroup(ctx, chatId, func(chat *entity.Chat) error {
		if !chat.HasAdmin(actorId) {
			return ErrNotAdmin
		}
		if !chat.HasParticipant(targetId) {
			return ErrTargetNotParticipant
		}
		chat.Participants = remove(chat.Participants, targetId)
		chat.Admins = remove(chat.Admins, targetId)
		ensureAdmin(chat)
		return nil
	})
	if err != nil {
		return entity.Chat{}, err
	}

	c.notifyUsers(append(chat.Participants, targetId), actorId, entity.EventParticipantRemoved, entity.ParticipantEvent{
		ChatId: chat.Id,
		UserId: targetId,
	})
	return chat, nil
}

func (c *chatUsecase) ToggleAdmin(ctx context.Context, chatId, targetId, actorId string) (entity.Chat, bool, error) {
	var isAdmin bool
	chat, err := c.mutateGroup(ctx, chatId, func(chat *entity.Chat) error {
		if !chat.HasAdmin(actorId) {
			return ErrNotAdmin
		}
		if !chat.HasParticipant(targetId) {
			return ErrTargetNotParticipant
		}
		if chat.HasAdmin(targetId) {
			chat.Admins = remove(chat.Admins, targetId)
			ensureAdmin(chat)
		} else {
			chat.Admins = append(chat.Admins, targetId)
		}
		isAdmin = chat.HasAdmin(targetId)
		return nil
	})
	if err != nil {
		return entity.Chat{}, false, err
	}

	c.notify(chat, actorId, entity.EventAdminToggled, entity.AdminToggledEvent{
		ChatId:  chat.Id,
		UserId:  targetId,
		IsAdmin: isAdmin,
	})
	return chat, isAdmin, nil
}

func (c *chatUsecase) LeaveGroup(ctx context.Context, chatId, actorId string) error {
	var lastErr error
	for attempt := 0; attempt < maxUpdateRetries; attempt++ {
		chat, err := c.chatRepo.Get(ctx, chatId)
		if err != nil {
			return mapChatErr(err)
		}
		if chat.ChatType != entity.ChatTypeGroup {
			return ErrNotGroupChat
		}
		if !chat.HasParticipant(actorId) {
			return ErrNotParticipant
		}

		chat.Participants = remove(chat.Participants, actorId)
		chat.Admins = remove(chat.Admins, actorId)

		if len(chat.Participants) == 0 {
			// Nobody left: purge the conversation and its messages. The
			// delete carries the version read above, so a membership edit
			// that committed in between invalidates it and we re-read.
			if err := c.chatRepo.Delete(ctx, chatId, chat.Version); err != nil {
				if errors.Is(err, repository.ErrVersionConflict) {
					lastErr = err
					continue
				}
				return err
			}
			if err := c.messageRepo.DeleteByChatId(ctx, chatId); err != nil {
				log.Printf("Failed to purge messages of deleted chat %s: %v", chatId, err)
			}
			return nil
		}

		ensureAdmin(&chat)

		if err := c.chatRepo.UpdateGroup(ctx, chat); err != nil {
			if errors.Is(err, repository.ErrVersionConflict) {
				lastErr = err
				continue
			}
			return err
		}

		c.notifyUsers(chat.Participants, actorId, entity.EventParticipantRemoved, entity.ParticipantEvent{
			ChatId: chat.Id,
			UserId: actorId,
		})
		return nil
	}
	return lastErr
}

func (c *chatUsecase) SearchGroups(ctx context.Context, actorId, query string, page int) (entity.ChatPage, error) {
	page = clampPage(page)

	total, err := c.chatRepo.CountGroupsByName(ctx, actorId, query)
	if err != nil {
		return entity.ChatPage{}, err
	}

	chats, err := c.chatRepo.SearchGroupsByName(ctx, actorId, query, ChatPageSize, (page-1)*ChatPageSize)
	if err != nil {
		return entity.ChatPage{}, err
	}

	return entity.ChatPage{
		Chats:      chats,
		Page:       page,
		TotalCount: total,
		HasMore:    int64(page*ChatPageSize) < total,
	}, nil
}

func (c *chatUsecase) ListChats(ctx context.Context, actorId string, page int) (entity.ChatPage, error) {
	page = clampPage(page)

	total, err := c.chatRepo.CountByParticipant(ctx, actorId)
	if err != nil {
		return entity.ChatPage{}, err
	}

	chats, err := c.chatRepo.ListByParticipant(ctx, actorId, ChatPageSize, (page-1)*ChatPageSize)
	if err != nil {
		return entity.ChatPage{}, err
	}

	var messageIds []string
	userIdSet := make(map[string]bool)
	for _, chat := range chats {
		if chat.LastMessageId != "" {
			messageIds = append(messageIds, chat.LastMessageId)
		}
		for _, id := range chat.Participants {
			userIdSet[id] = true
		}
	}

	lastMessages := make(map[string]entity.MessageSummary)
	if len(messageIds) > 0 {
		messages, err := c.messageRepo.GetMany(ctx, messageIds)
		if err != nil {
			return entity.ChatPage{}, err
		}
		for _, msg := range messages {
			lastMessages[msg.ChatId] = msg.Summary()
		}
	}

	userIds := make([]string, 0, len(userIdSet))
	for id := range userIdSet {
		userIds = append(userIds, id)
	}
	participants, err := c.summaries(ctx, userIds)
	if err != nil {
		return entity.ChatPage{}, err
	}

	return entity.ChatPage{
		Chats:        chats,
		LastMessages: lastMessages,
		Participants: participants,
		Page:         page,
		TotalCount:   total,
		HasMore:      int64(page*ChatPageSize) < total,
	}, nil
}

// mutateGroup re-reads the group, applies the mutation and writes it back
// conditioned on the version read, retrying on concurrent modification. This
// serializes membership edits per conversation.
func (c *chatUsecase) mutateGroup(ctx context.Context, chatId string, mutate func(chat *entity.Chat) error) (entity.Chat, error) {
	var lastErr error
	for attempt := 0; attempt < maxUpdateRetries; attempt++ {
		chat, err := c.chatRepo.Get(ctx, chatId)
		if err != nil {
			return entity.Chat{}, mapChatErr(err)
		}
		if chat.ChatType != entity.ChatTypeGroup {
			return entity.Chat{}, ErrNotGroupChat
		}

		if err := mutate(&chat); err != nil {
			return entity.Chat{}, err
		}

		err = c.chatRepo.UpdateGroup(ctx, chat)
		if err == nil {
			chat.Version++
			return chat, nil
		}
		if !errors.Is(err, repository.ErrVersionConflict) {
			return entity.Chat{}, err
		}
		lastErr = err
	}
	return entity.Chat{}, lastErr
}

func (c *chatUsecase) chatDetail(ctx context.Context, chat entity.Chat, created bool) (entity.ChatDetailResponse, bool, error) {
	participants, err := c.summaries(ctx, chat.Participants)
	if err != nil {
		return entity.ChatDetailResponse{}, false, err
	}
	return entity.ChatDetailResponse{
		Chat:         chat,
		Participants: participants,
	}, created, nil
}

// summaries resolves user ids to profile summaries through the in-memory
// profile cache.
func (c *chatUsecase) summaries(ctx context.Context, userIds []string) ([]entity.UserSummary, error) {
	result := make([]entity.UserSummary, 0, len(userIds))

	var missing []string
	for _, id := range userIds {
		if c.profiles != nil {
			if summary, ok := c.profiles.Get(id); ok {
				result = append(result, summary)
				continue
			}
		}
		missing = append(missing, id)
	}

	if len(missing) > 0 {
		users, err := c.userRepo.GetMany(ctx, missing)
		if err != nil {
			return nil, err
		}
		for _, user := range users {
			summary := user.Summary()
			if c.profiles != nil {
				c.profiles.Set(user.Id, summary, profileCacheTTL)
			}
			result = append(result, summary)
		}
	}

	return result, nil
}

// notify publishes to every participant of the chat except the actor.
func (c *chatUsecase) notify(chat entity.Chat, actorId, event string, payload any) {
	c.notifyUsers(chat.Participants, actorId, event, payload)
}

func (c *chatUsecase) notifyUsers(userIds []string, actorId, event string, payload any) {
	if c.notifier == nil {
		return
	}
	recipients := make([]string, 0, len(userIds))
	for _, id := range userIds {
		if id != actorId {
			recipients = append(recipients, id)
		}
	}
	if len(recipients) > 0 {
		c.notifier.Notify(recipients, event, payload)
	}
}

// ensureAdmin keeps the invariant that a group with participants always has
// at least one admin, promoting the first remaining participant.
func ensureAdmin(chat *entity.Chat) {
	if len(chat.Admins) == 0 && len(chat.Participants) > 0 {
		chat.Admins = []string{chat.Participants[0]}
	}
}

func clampPage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

func remove(ids []string, target string) []string {
	out := ids[:0]
	for _, id := range ids {
		if id != target {
			out = append(out, id)
		}
	}
	return out
}

// dedupe drops duplicates and the excluded id while preserving order.
func dedupe(ids []string, exclude string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || id == exclude || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func mapChatErr(err error) error {
	if errors.Is(err, repository.ErrChatNotFound) {
		return ErrChatNotFound
	}
	return err
}
