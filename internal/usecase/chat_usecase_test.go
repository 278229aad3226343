package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/suraj946/goss-up-server/internal/entity"
	"github.com/suraj946/goss-up-server/internal/mocks"
	"github.com/suraj946/goss-up-server/internal/repository"
)

type chatMocks struct {
	chatRepo    *mocks.ChatRepositoryMock
	userRepo    *mocks.UserRepositoryMock
	friendRepo  *mocks.FriendshipRepositoryMock
	messageRepo *mocks.MessageRepositoryMock
	blob        *mocks.BlobStoreMock
	notifier    *mocks.NotifierMock
}

func newChatUsecase() (ChatUsecase, *chatMocks) {
	m := &chatMocks{
		chatRepo:    new(mocks.ChatRepositoryMock),
		userRepo:    new(mocks.UserRepositoryMock),
		friendRepo:  new(mocks.FriendshipRepositoryMock),
		messageRepo: new(mocks.MessageRepositoryMock),
		blob:        new(mocks.BlobStoreMock),
		notifier:    new(mocks.NotifierMock),
	}
	uc := NewChatUsecase(m.chatRepo, m.userRepo, m.friendRepo, m.messageRepo, nil, m.blob, m.notifier)
	return uc, m
}

func (m *chatMocks) assertExpectations(t *testing.T) {
	t.Helper()
	m.chatRepo.AssertExpectations(t)
	m.userRepo.AssertExpectations(t)
	m.friendRepo.AssertExpectations(t)
	m.messageRepo.AssertExpectations(t)
	m.blob.AssertExpectations(t)
	m.notifier.AssertExpectations(t)
}

func TestCreateOneToOneSelf(t *testing.T) {
	uc, m := newChatUsecase()

	_, _, err := uc.CreateOneToOne(context.Background(), "u1", "u1")

	require.ErrorIs(t, err, ErrSelfChat)
	m.assertExpectations(t)
}

func TestCreateOneToOneExistingReturned(t *testing.T) {
	uc, m := newChatUsecase()

	existing := entity.Chat{
		Id:           "chat-1",
		ChatType:     entity.ChatTypeOneToOne,
		Participants: []string{"u1", "u2"},
		PairKey:      "u1:u2",
	}
	m.userRepo.On("Get", mock.Anything, "u2").Return(entity.User{Id: "u2"}, nil).Once()
	m.chatRepo.On("GetOneToOneByPair", mock.Anything, "u1:u2").Return(existing, nil).Once()
	m.userRepo.On("GetMany", mock.Anything, []string{"u1", "u2"}).
		Return([]entity.User{{Id: "u1"}, {Id: "u2"}}, nil).Once()

	detail, created, err := uc.CreateOneToOne(context.Background(), "u1", "u2")

	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, "chat-1", detail.Chat.Id)
	m.assertExpectations(t)
}

func TestCreateOneToOneRequiresFriendship(t *testing.T) {
	uc, m := newChatUsecase()

	m.userRepo.On("Get", mock.Anything, "u2").Return(entity.User{Id: "u2"}, nil).Once()
	m.chatRepo.On("GetOneToOneByPair", mock.Anything, "u1:u2").
		Return(entity.Chat{}, repository.ErrChatNotFound).Once()
	m.friendRepo.On("GetAccepted", mock.Anything, "u1", "u2").
		Return(entity.Friendship{}, repository.ErrFriendshipNotFound).Once()

	_, _, err := uc.CreateOneToOne(context.Background(), "u1", "u2")

	require.ErrorIs(t, err, ErrNotFriends)
	m.assertExpectations(t)
}

func TestCreateOneToOneCanonicalOrder(t *testing.T) {
	uc, m := newChatUsecase()

	// Requester id sorts after target: participants and pair key still come
	// out in the canonical low/high order.
	m.userRepo.On("Get", mock.Anything, "a1").Return(entity.User{Id: "a1"}, nil).Once()
	m.chatRepo.On("GetOneToOneByPair", mock.Anything, "a1:z9").
		Return(entity.Chat{}, repository.ErrChatNotFound).Once()
	m.friendRepo.On("GetAccepted", mock.Anything, "z9", "a1").
		Return(entity.Friendship{Status: entity.FriendStatusAccepted}, nil).Once()
	m.chatRepo.On("Create", mock.Anything, entity.Chat{
		ChatType:     entity.ChatTypeOneToOne,
		Participants: []string{"a1", "z9"},
		PairKey:      "a1:z9",
	}).Return("chat-1", nil).Once()
	m.chatRepo.On("Get", mock.Anything, "chat-1").Return(entity.Chat{
		Id:           "chat-1",
		ChatType:     entity.ChatTypeOneToOne,
		Participants: []string{"a1", "z9"},
		PairKey:      "a1:z9",
	}, nil).Once()
	m.userRepo.On("GetMany", mock.Anything, []string{"a1", "z9"}).
		Return([]entity.User{{Id: "a1"}, {Id: "z9"}}, nil).Once()

	detail, created, err := uc.CreateOneToOne(context.Background(), "z9", "a1")

	require.NoError(t, err)
	require.True(t, created)
	require.Equal(t, []string{"a1", "z9"}, detail.Chat.Participants)
	m.assertExpectations(t)
}

func TestCreateOneToOneLosesCreationRace(t *testing.T) {
	uc, m := newChatUsecase()

	winner := entity.Chat{
		Id:           "winner",
		ChatType:     entity.ChatTypeOneToOne,
		Participants: []string{"u1", "u2"},
		PairKey:      "u1:u2",
	}
	m.userRepo.On("Get", mock.Anything, "u2").Return(entity.User{Id: "u2"}, nil).Once()
	m.chatRepo.On("GetOneToOneByPair", mock.Anything, "u1:u2").
		Return(entity.Chat{}, repository.ErrChatNotFound).Once()
	m.friendRepo.On("GetAccepted", mock.Anything, "u1", "u2").
		Return(entity.Friendship{Status: entity.FriendStatusAccepted}, nil).Once()
	m.chatRepo.On("Create", mock.Anything, mock.Anything).
		Return("", repository.ErrDuplicatePair).Once()
	m.chatRepo.On("GetOneToOneByPair", mock.Anything, "u1:u2").Return(winner, nil).Once()
	m.userRepo.On("GetMany", mock.Anything, []string{"u1", "u2"}).
		Return([]entity.User{{Id: "u1"}, {Id: "u2"}}, nil).Once()

	detail, created, err := uc.CreateOneToOne(context.Background(), "u1", "u2")

	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, "winner", detail.Chat.Id)
	m.assertExpectations(t)
}

func TestCreateGroupRequiresName(t *testing.T) {
	uc, m := newChatUsecase()

	_, err := uc.CreateGroup(context.Background(), "u1", []string{"u2", "u3"}, "   ")

	require.ErrorIs(t, err, ErrGroupNameRequired)
	m.assertExpectations(t)
}

func TestCreateGroupTooFewAfterDedupe(t *testing.T) {
	uc, m := newChatUsecase()

	// Duplicates and the creator's own id don't count toward the minimum.
	_, err := uc.CreateGroup(context.Background(), "u1", []string{"u2", "u2", "u1"}, "trip")

	require.ErrorIs(t, err, ErrNotEnoughParticipants)
	m.assertExpectations(t)
}

func TestCreateGroupCreatorBecomesAdmin(t *testing.T) {
	uc, m := newChatUsecase()

	m.userRepo.On("GetMany", mock.Anything, []string{"u2", "u3"}).
		Return([]entity.User{{Id: "u2"}, {Id: "u3"}}, nil).Once()
	m.friendRepo.On("GetAcceptedMany", mock.Anything, "u1", []string{"u2", "u3"}).
		Return([]entity.Friendship{{}, {}}, nil).Once()
	m.chatRepo.On("Create", mock.Anything, entity.Chat{
		ChatType:     entity.ChatTypeGroup,
		Participants: []string{"u2", "u3", "u1"},
		Admins:       []string{"u1"},
		GroupName:    "trip",
	}).Return("chat-1", nil).Once()
	m.chatRepo.On("Get", mock.Anything, "chat-1").Return(entity.Chat{
		Id:           "chat-1",
		ChatType:     entity.ChatTypeGroup,
		Participants: []string{"u2", "u3", "u1"},
		Admins:       []string{"u1"},
		GroupName:    "trip",
	}, nil).Once()
	m.notifier.On("Notify", []string{"u2", "u3"}, entity.EventNewGroup, mock.Anything).Once()

	chat, err := uc.CreateGroup(context.Background(), "u1", []string{"u2", "u3"}, "trip")

	require.NoError(t, err)
	require.Equal(t, []string{"u1"}, chat.Admins)
	m.assertExpectations(t)
}

func TestUpdateGroupNameNonAdmin(t *testing.T) {
	uc, m := newChatUsecase()

	m.chatRepo.On("Get", mock.Anything, "chat-1").Return(entity.Chat{
		Id:           "chat-1",
		ChatType:     entity.ChatTypeGroup,
		Participants: []string{"u1", "u2"},
		Admins:       []string{"u1"},
		GroupName:    "old",
	}, nil).Once()

	_, err := uc.UpdateGroupName(context.Background(), "chat-1", "new", "u2")

	// No UpdateGroup call: a forbidden request mutates nothing.
	require.ErrorIs(t, err, ErrNotAdmin)
	m.assertExpectations(t)
}

func TestUpdateGroupNameRejectsOneToOne(t *testing.T) {
	uc, m := newChatUsecase()

	m.chatRepo.On("Get", mock.Anything, "chat-1").Return(entity.Chat{
		Id:           "chat-1",
		ChatType:     entity.ChatTypeOneToOne,
		Participants: []string{"u1", "u2"},
	}, nil).Once()

	_, err := uc.UpdateGroupName(context.Background(), "chat-1", "new", "u1")

	require.ErrorIs(t, err, ErrNotGroupChat)
	m.assertExpectations(t)
}

func TestUpdateGroupNameRetriesOnVersionConflict(t *testing.T) {
	uc, m := newChatUsecase()

	group := entity.Chat{
		Id:           "chat-1",
		ChatType:     entity.ChatTypeGroup,
		Participants: []string{"u1", "u2", "u3"},
		Admins:       []string{"u1"},
		GroupName:    "old",
		Version:      4,
	}
	m.chatRepo.On("Get", mock.Anything, "chat-1").Return(group, nil).Once()
	m.chatRepo.On("UpdateGroup", mock.Anything, mock.Anything).
		Return(repository.ErrVersionConflict).Once()

	refreshed := group
	refreshed.Version = 5
	m.chatRepo.On("Get", mock.Anything, "chat-1").Return(refreshed, nil).Once()
	m.chatRepo.On("UpdateGroup", mock.Anything, mock.MatchedBy(func(c entity.Chat) bool {
		return c.Version == 5 && c.GroupName == "new"
	})).Return(nil).Once()
	m.notifier.On("Notify", []string{"u2", "u3"}, entity.EventGroupRenamed, mock.Anything).Once()

	chat, err := uc.UpdateGroupName(context.Background(), "chat-1", "new", "u1")

	require.NoError(t, err)
	require.Equal(t, "new", chat.GroupName)
	m.assertExpectations(t)
}

func TestAddParticipantRequiresFriendshipWithActor(t *testing.T) {
	uc, m := newChatUsecase()

	m.userRepo.On("Get", mock.Anything, "u4").Return(entity.User{Id: "u4"}, nil).Once()
	m.friendRepo.On("GetAccepted", mock.Anything, "u1", "u4").
		Return(entity.Friendship{}, repository.ErrFriendshipNotFound).Once()

	_, err := uc.AddParticipant(context.Background(), "chat-1", "u4", "u1")

	require.ErrorIs(t, err, ErrNotFriends)
	m.assertExpectations(t)
}

func TestAddParticipantAlreadyMember(t *testing.T) {
	uc, m := newChatUsecase()

	m.userRepo.On("Get", mock.Anything, "u2").Return(entity.User{Id: "u2"}, nil).Once()
	m.friendRepo.On("GetAccepted", mock.Anything, "u1", "u2").
		Return(entity.Friendship{Status: entity.FriendStatusAccepted}, nil).Once()
	m.chatRepo.On("Get", mock.Anything, "chat-1").Return(entity.Chat{
		Id:           "chat-1",
		ChatType:     entity.ChatTypeGroup,
		Participants: []string{"u1", "u2", "u3"},
		Admins:       []string{"u1"},
	}, nil).Once()

	_, err := uc.AddParticipant(context.Background(), "chat-1", "u2", "u1")

	require.ErrorIs(t, err, ErrAlreadyParticipant)
	m.assertExpectations(t)
}

func TestRemoveParticipantSelf(t *testing.T) {
	uc, m := newChatUsecase()

	_, err := uc.RemoveParticipant(context.Background(), "chat-1", "u1", "u1")

	require.ErrorIs(t, err, ErrCannotRemoveSelf)
	m.assertExpectations(t)
}

func TestRemoveParticipantPromotesReplacementAdmin(t *testing.T) {
	uc, m := newChatUsecase()

	// Removing a fellow admin leaves u1 as the only one; the group is never
	// left without an admin.
	m.chatRepo.On("Get", mock.Anything, "chat-1").Return(entity.Chat{
		Id:           "chat-1",
		ChatType:     entity.ChatTypeGroup,
		Participants: []string{"u2", "u1", "u3"},
		Admins:       []string{"u1", "u2"},
		Version:      1,
	}, nil).Once()
	m.chatRepo.On("UpdateGroup", mock.Anything, mock.MatchedBy(func(c entity.Chat) bool {
		return len(c.Participants) == 2 && !c.HasParticipant("u2") && c.HasAdmin("u1")
	})).Return(nil).Once()
	m.notifier.On("Notify", []string{"u3", "u2"}, entity.EventParticipantRemoved, mock.Anything).Once()

	chat, err := uc.RemoveParticipant(context.Background(), "chat-1", "u2", "u1")

	require.NoError(t, err)
	require.False(t, chat.HasParticipant("u2"))
	require.False(t, chat.HasAdmin("u2"))
	m.assertExpectations(t)
}

func TestRemoveParticipantTargetMissing(t *testing.T) {
	uc, m := newChatUsecase()

	m.chatRepo.On("Get", mock.Anything, "chat-1").Return(entity.Chat{
		Id:           "chat-1",
		ChatType:     entity.ChatTypeGroup,
		Participants: []string{"u1", "u2"},
		Admins:       []string{"u1"},
	}, nil).Once()

	_, err := uc.RemoveParticipant(context.Background(), "chat-1", "u9", "u1")

	require.ErrorIs(t, err, ErrTargetNotParticipant)
	m.assertExpectations(t)
}

func TestToggleAdminPromotes(t *testing.T) {
	uc, m := newChatUsecase()

	m.chatRepo.On("Get", mock.Anything, "chat-1").Return(entity.Chat{
		Id:           "chat-1",
		ChatType:     entity.ChatTypeGroup,
		Participants: []string{"u1", "u2"},
		Admins:       []string{"u1"},
	}, nil).Once()
	m.chatRepo.On("UpdateGroup", mock.Anything, mock.MatchedBy(func(c entity.Chat) bool {
		return c.HasAdmin("u1") && c.HasAdmin("u2")
	})).Return(nil).Once()
	m.notifier.On("Notify", []string{"u2"}, entity.EventAdminToggled, mock.Anything).Once()

	_, isAdmin, err := uc.ToggleAdmin(context.Background(), "chat-1", "u2", "u1")

	require.NoError(t, err)
	require.True(t, isAdmin)
	m.assertExpectations(t)
}

func TestToggleAdminDemoteLastAdminRepromotes(t *testing.T) {
	uc, m := newChatUsecase()

	// Demoting the only admin may not leave the group adminless: the first
	// participant is promoted in the same write.
	m.chatRepo.On("Get", mock.Anything, "chat-1").Return(entity.Chat{
		Id:           "chat-1",
		ChatType:     entity.ChatTypeGroup,
		Participants: []string{"u2", "u1", "u3"},
		Admins:       []string{"u1"},
	}, nil).Once()
	m.chatRepo.On("UpdateGroup", mock.Anything, mock.MatchedBy(func(c entity.Chat) bool {
		return len(c.Admins) == 1 && c.HasAdmin("u2")
	})).Return(nil).Once()
	m.notifier.On("Notify", []string{"u2", "u3"}, entity.EventAdminToggled, mock.Anything).Once()

	chat, isAdmin, err := uc.ToggleAdmin(context.Background(), "chat-1", "u1", "u1")

	require.NoError(t, err)
	require.False(t, isAdmin)
	require.Equal(t, []string{"u2"}, chat.Admins)
	m.assertExpectations(t)
}

func TestLeaveGroupPromotesReplacementAdmin(t *testing.T) {
	uc, m := newChatUsecase()

	m.chatRepo.On("Get", mock.Anything, "chat-1").Return(entity.Chat{
		Id:           "chat-1",
		ChatType:     entity.ChatTypeGroup,
		Participants: []string{"u1", "u2", "u3"},
		Admins:       []string{"u1"},
		Version:      2,
	}, nil).Once()
	m.chatRepo.On("UpdateGroup", mock.Anything, mock.MatchedBy(func(c entity.Chat) bool {
		return !c.HasParticipant("u1") && c.HasAdmin("u2")
	})).Return(nil).Once()
	m.notifier.On("Notify", []string{"u2", "u3"}, entity.EventParticipantRemoved, mock.Anything).Once()

	err := uc.LeaveGroup(context.Background(), "chat-1", "u1")

	require.NoError(t, err)
	m.assertExpectations(t)
}

func TestLeaveGroupLastParticipantDeletesChat(t *testing.T) {
	uc, m := newChatUsecase()

	m.chatRepo.On("Get", mock.Anything, "chat-1").Return(entity.Chat{
		Id:           "chat-1",
		ChatType:     entity.ChatTypeGroup,
		Participants: []string{"u1"},
		Admins:       []string{"u1"},
		Version:      3,
	}, nil).Once()
	m.chatRepo.On("Delete", mock.Anything, "chat-1", int64(3)).Return(nil).Once()
	m.messageRepo.On("DeleteByChatId", mock.Anything, "chat-1").Return(nil).Once()

	err := uc.LeaveGroup(context.Background(), "chat-1", "u1")

	require.NoError(t, err)
	m.assertExpectations(t)
}

func TestLeaveGroupDeleteLosesToConcurrentAdd(t *testing.T) {
	uc, m := newChatUsecase()

	// The sole participant leaves while an admin session concurrently adds
	// u2. The delete carries the stale version, fails, and the retry sees
	// the grown group: the chat survives and no messages are purged.
	m.chatRepo.On("Get", mock.Anything, "chat-1").Return(entity.Chat{
		Id:           "chat-1",
		ChatType:     entity.ChatTypeGroup,
		Participants: []string{"u1"},
		Admins:       []string{"u1"},
		Version:      1,
	}, nil).Once()
	m.chatRepo.On("Delete", mock.Anything, "chat-1", int64(1)).
		Return(repository.ErrVersionConflict).Once()

	m.chatRepo.On("Get", mock.Anything, "chat-1").Return(entity.Chat{
		Id:           "chat-1",
		ChatType:     entity.ChatTypeGroup,
		Participants: []string{"u1", "u2"},
		Admins:       []string{"u1"},
		Version:      2,
	}, nil).Once()
	m.chatRepo.On("UpdateGroup", mock.Anything, mock.MatchedBy(func(c entity.Chat) bool {
		return c.Version == 2 && !c.HasParticipant("u1") && c.HasAdmin("u2")
	})).Return(nil).Once()
	m.notifier.On("Notify", []string{"u2"}, entity.EventParticipantRemoved, mock.Anything).Once()

	err := uc.LeaveGroup(context.Background(), "chat-1", "u1")

	require.NoError(t, err)
	m.messageRepo.AssertNotCalled(t, "DeleteByChatId", mock.Anything, mock.Anything)
	m.assertExpectations(t)
}

func TestLeaveGroupNonParticipant(t *testing.T) {
	uc, m := newChatUsecase()

	m.chatRepo.On("Get", mock.Anything, "chat-1").Return(entity.Chat{
		Id:           "chat-1",
		ChatType:     entity.ChatTypeGroup,
		Participants: []string{"u1", "u2"},
		Admins:       []string{"u1"},
	}, nil).Once()

	err := uc.LeaveGroup(context.Background(), "chat-1", "u9")

	require.ErrorIs(t, err, ErrNotParticipant)
	m.assertExpectations(t)
}

func TestSearchGroupsPagination(t *testing.T) {
	uc, m := newChatUsecase()

	m.chatRepo.On("CountGroupsByName", mock.Anything, "u1", "trip").
		Return(int64(120), nil).Once()
	m.chatRepo.On("SearchGroupsByName", mock.Anything, "u1", "trip", ChatPageSize, ChatPageSize).
		Return([]entity.Chat{{Id: "chat-1"}}, nil).Once()

	page, err := uc.SearchGroups(context.Background(), "u1", "trip", 2)

	require.NoError(t, err)
	require.Equal(t, 2, page.Page)
	require.Equal(t, int64(120), page.TotalCount)
	require.True(t, page.HasMore)
	m.assertExpectations(t)
}

func TestListChatsClampsPageAndResolvesSummaries(t *testing.T) {
	uc, m := newChatUsecase()

	chats := []entity.Chat{
		{Id: "chat-1", ChatType: entity.ChatTypeOneToOne, Participants: []string{"u1", "u2"}, LastMessageId: "msg-1"},
	}
	m.chatRepo.On("CountByParticipant", mock.Anything, "u1").Return(int64(1), nil).Once()
	m.chatRepo.On("ListByParticipant", mock.Anything, "u1", ChatPageSize, 0).Return(chats, nil).Once()
	m.messageRepo.On("GetMany", mock.Anything, []string{"msg-1"}).
		Return([]entity.Message{{Id: "msg-1", ChatId: "chat-1", MessageType: entity.MessageTypeText, Content: "hi"}}, nil).Once()
	m.userRepo.On("GetMany", mock.Anything, mock.MatchedBy(func(ids []string) bool {
		return len(ids) == 2
	})).Return([]entity.User{{Id: "u1"}, {Id: "u2"}}, nil).Once()

	page, err := uc.ListChats(context.Background(), "u1", -3)

	require.NoError(t, err)
	require.Equal(t, 1, page.Page)
	require.False(t, page.HasMore)
	require.Equal(t, "hi", page.LastMessages["chat-1"].Content)
	require.Len(t, page.Participants, 2)
	m.assertExpectations(t)
}

func TestUpdateGroupIconCleansUpOnFailure(t *testing.T) {
	uc, m := newChatUsecase()

	group := entity.Chat{
		Id:           "chat-1",
		ChatType:     entity.ChatTypeGroup,
		Participants: []string{"u1", "u2"},
		Admins:       []string{"u1"},
		GroupIconId:  "old-icon",
	}
	m.chatRepo.On("Get", mock.Anything, "chat-1").Return(group, nil).Twice()
	m.blob.On("Upload", mock.Anything, mock.Anything, "goss-up/group-icons").
		Return("https://cdn/icon.png", "new-icon", nil).Once()
	m.chatRepo.On("UpdateGroup", mock.Anything, mock.Anything).
		Return(repository.ErrChatNotFound).Once()
	m.blob.On("Delete", mock.Anything, "new-icon").Return(nil).Once()

	_, err := uc.UpdateGroupIcon(context.Background(), "chat-1", "u1", nil)

	require.Error(t, err)
	m.assertExpectations(t)
}

func TestUpdateGroupIconReplacesOldAsset(t *testing.T) {
	uc, m := newChatUsecase()

	group := entity.Chat{
		Id:           "chat-1",
		ChatType:     entity.ChatTypeGroup,
		Participants: []string{"u1", "u2"},
		Admins:       []string{"u1"},
		GroupIconId:  "old-icon",
	}
	m.chatRepo.On("Get", mock.Anything, "chat-1").Return(group, nil).Twice()
	m.blob.On("Upload", mock.Anything, mock.Anything, "goss-up/group-icons").
		Return("https://cdn/icon.png", "new-icon", nil).Once()
	m.chatRepo.On("UpdateGroup", mock.Anything, mock.MatchedBy(func(c entity.Chat) bool {
		return c.GroupIconId == "new-icon" && c.GroupIcon == "https://cdn/icon.png"
	})).Return(nil).Once()
	m.blob.On("Delete", mock.Anything, "old-icon").Return(nil).Once()
	m.notifier.On("Notify", []string{"u2"}, entity.EventGroupIconUpdated, mock.Anything).Once()

	chat, err := uc.UpdateGroupIcon(context.Background(), "chat-1", "u1", nil)

	require.NoError(t, err)
	require.Equal(t, "new-icon", chat.GroupIconId)
	m.assertExpectations(t)
}
