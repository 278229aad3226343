package usecase

import (
	"context"
	"errors"
	"log"

	"github.com/suraj946/goss-up-server/internal/entity"
	"github.com/suraj946/goss-up-server/internal/repository"
)

var (
	ErrSelfFriendRequest  = errors.New("cannot send a friend request to yourself")
	ErrRequestPending     = errors.New("a friend request is already pending for this pair")
	ErrAlreadyFriends     = errors.New("users are already friends")
	ErrUserBlocked        = errors.New("this pair is blocked")
	ErrRequestNotFound    = errors.New("friend request not found")
	ErrNotRequestReceiver = errors.New("only the receiver can respond to a friend request")
	ErrRequestNotPending  = errors.New("friend request has already been responded to")
)

type FriendInfo struct {
	entity.UserSummary
	IsOnline bool `json:"isOnline"`
}

type FriendUsecase interface {
	SendRequest(ctx context.Context, requesterId, targetId string) (entity.Friendship, error)
	Respond(ctx context.Context, requestId, userId string, accept bool) (entity.Friendship, error)
	ListFriends(ctx context.Context, userId string) ([]FriendInfo, error)
}

type friendUsecase struct {
	friendRepo repository.FriendshipRepository
	userRepo   repository.UserRepository
	presence   Presence
	notifier   Notifier
}

func NewFriendUsecase(
	friendRepo repository.FriendshipRepository,
	userRepo repository.UserRepository,
	presence Presence,
	notifier Notifier,
) FriendUsecase {
	return &friendUsecase{
		friendRepo: friendRepo,
		userRepo:   userRepo,
		presence:   presence,
		notifier:   notifier,
	}
}

func (u *friendUsecase) SendRequest(ctx context.Context, requesterId, targetId string) (entity.Friendship, error) {
	if requesterId == targetId {
		return entity.Friendship{}, ErrSelfFriendRequest
	}

	requester, err := u.userRepo.Get(ctx, requesterId)
	if err != nil {
		return entity.Friendship{}, mapUserErr(err)
	}
	if _, err := u.userRepo.Get(ctx, targetId); err != nil {
		return entity.Friendship{}, mapUserErr(err)
	}

	existing, err := u.friendRepo.GetByPair(ctx, requesterId, targetId)
	if err == nil {
		switch existing.Status {
		case entity.FriendStatusPending:
			return entity.Friendship{}, ErrRequestPending
		case entity.FriendStatusAccepted:
			return entity.Friendship{}, ErrAlreadyFriends
		case entity.FriendStatusBlocked:
			return entity.Friendship{}, ErrUserBlocked
		default:
			// Rejected earlier; reopen the same pair document.
			if err := u.friendRepo.UpdateStatus(ctx, existing.Id, entity.FriendStatusPending, requesterId); err != nil {
				return entity.Friendship{}, err
			}
			existing.Status = entity.FriendStatusPending
			existing.RequestedBy = requesterId
			u.notifyRequest(targetId, existing, requester)
			return existing, nil
		}
	}
	if !errors.Is(err, repository.ErrFriendshipNotFound) {
		return entity.Friendship{}, err
	}

	friendship := entity.Friendship{
		UserOneId:   requesterId,
		UserTwoId:   targetId,
		Status:      entity.FriendStatusPending,
		RequestedBy: requesterId,
	}

	id, err := u.friendRepo.Create(ctx, friendship)
	if err != nil {
		return entity.Friendship{}, err
	}
	friendship.Id = id
	friendship.UserOneId, friendship.UserTwoId = entity.CanonicalPair(requesterId, targetId)

	u.notifyRequest(targetId, friendship, requester)
	return friendship, nil
}

func (u *friendUsecase) Respond(ctx context.Context, requestId, userId string, accept bool) (entity.Friendship, error) {
	request, err := u.friendRepo.Get(ctx, requestId)
	if err != nil {
		if errors.Is(err, repository.ErrFriendshipNotFound) {
			return entity.Friendship{}, ErrRequestNotFound
		}
		return entity.Friendship{}, err
	}

	if request.Status != entity.FriendStatusPending {
		return entity.Friendship{}, ErrRequestNotPending
	}
	if request.Other(request.RequestedBy) != userId {
		return entity.Friendship{}, ErrNotRequestReceiver
	}

	status := entity.FriendStatusRejected
	if accept {
		status = entity.FriendStatusAccepted
	}

	if err := u.friendRepo.UpdateStatus(ctx, requestId, status, request.RequestedBy); err != nil {
		return entity.Friendship{}, err
	}
	request.Status = status

	if accept && u.notifier != nil {
		responder, err := u.userRepo.Get(ctx, userId)
		if err == nil {
			u.notifier.Notify([]string{request.RequestedBy}, entity.EventFriendAccepted, entity.FriendRequestEvent{
				RequestId: request.Id,
				From:      responder.Summary(),
			})
		}
	}

	return request, nil
}

func (u *friendUsecase) ListFriends(ctx context.Context, userId string) ([]FriendInfo, error) {
	friendships, err := u.friendRepo.ListAccepted(ctx, userId)
	if err != nil {
		return nil, err
	}

	friendIds := make([]string, 0, len(friendships))
	for _, f := range friendships {
		friendIds = append(friendIds, f.Other(userId))
	}

	friends := make([]FriendInfo, 0, len(friendIds))
	if len(friendIds) == 0 {
		return friends, nil
	}

	users, err := u.userRepo.GetMany(ctx, friendIds)
	if err != nil {
		return nil, err
	}

	var online map[string]bool
	if u.presence != nil {
		online, err = u.presence.GetOnline(ctx, friendIds)
		if err != nil {
			// Presence is a convenience; the friend list is still valid.
			log.Printf("presence lookup failed: %v", err)
			online = nil
		}
	}

	for _, user := range users {
		friends = append(friends, FriendInfo{
			UserSummary: user.Summary(),
			IsOnline:    online[user.Id],
		})
	}

	return friends, nil
}

func (u *friendUsecase) notifyRequest(targetId string, friendship entity.Friendship, requester entity.User) {
	if u.notifier == nil {
		return
	}
	u.notifier.Notify([]string{targetId}, entity.EventFriendRequest, entity.FriendRequestEvent{
		RequestId: friendship.Id,
		From:      requester.Summary(),
	})
}

func mapUserErr(err error) error {
	if errors.Is(err, repository.ErrUserNotFound) {
		return ErrUserNotFound
	}
	return err
}
