package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"samevibe-service/internal/bus"
	"samevibe-service/internal/media"
	"samevibe-service/internal/models"
	"samevibe-service/internal/repositories"
)

type UserRepositoryMock struct {
	mock.Mock
}

func (m *UserRepositoryMock) CreateUser(ctx context.Context, username, email, passwordHash, firstName, lastName string) (models.User, error) {
	args := m.Called(ctx, username, email, passwordHash, firstName, lastName)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) GetByUsername(ctx context.Context, username string) (models.User, error) {
	args := m.Called(ctx, username)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) GetByID(ctx context.Context, userID int) (models.User, error) {
	args := m.Called(ctx, userID)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) GetProfile(ctx context.Context, userID int) (models.User, models.Profile, error) {
	args := m.Called(ctx, userID)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	var profile models.Profile
	if val := args.Get(1); val != nil {
		profile = val.(models.Profile)
	}
	return user, profile, args.Error(2)
}

func (m *UserRepositoryMock) UpdateProfile(ctx context.Context, userID int, update models.ProfileView) error {
	args := m.Called(ctx, userID, update)
	return args.Error(0)
}

func (m *UserRepositoryMock) GetOtherUser(ctx context.Context, userID int) (models.OtherUser, error) {
	args := m.Called(ctx, userID)
	var other models.OtherUser
	if val := args.Get(0); val != nil {
		other = val.(models.OtherUser)
	}
	return other, args.Error(1)
}

func (m *UserRepositoryMock) ListOtherUsers(ctx context.Context, excludeUserID int) ([]models.MatchedUser, error) {
	args := m.Called(ctx, excludeUserID)
	var users []models.MatchedUser
	if val := args.Get(0); val != nil {
		users = val.([]models.MatchedUser)
	}
	return users, args.Error(1)
}

type ChatRepositoryMock struct {
	mock.Mock
}

func (m *ChatRepositoryMock) CreateOrGetChat(ctx context.Context, userID int, otherID int) (models.Chat, bool, error) {
	args := m.Called(ctx, userID, otherID)
	var chat models.Chat
	if val := args.Get(0); val != nil {
		chat = val.(models.Chat)
	}
	return chat, args.Bool(1), args.Error(2)
}

func (m *ChatRepositoryMock) GetChat(ctx context.Context, chatID int) (models.Chat, error) {
	args := m.Called(ctx, chatID)
	var chat models.Chat
	if val := args.Get(0); val != nil {
		chat = val.(models.Chat)
	}
	return chat, args.Error(1)
}

func (m *ChatRepositoryMock) IsParticipant(ctx context.Context, chatID int, userID int) (bool, error) {
	args := m.Called(ctx, chatID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *ChatRepositoryMock) ListChatViews(ctx context.Context, userID int) ([]models.ChatView, error) {
	args := m.Called(ctx, userID)
	var views []models.ChatView
	if val := args.Get(0); val != nil {
		views = val.([]models.ChatView)
	}
	return views, args.Error(1)
}

func (m *ChatRepositoryMock) GetChatView(ctx context.Context, chatID int, forUserID int) (models.ChatView, error) {
	args := m.Called(ctx, chatID, forUserID)
	var view models.ChatView
	if val := args.Get(0); val != nil {
		view = val.(models.ChatView)
	}
	return view, args.Error(1)
}

func (m *ChatRepositoryMock) DeleteChatBetween(ctx context.Context, userID int, otherID int) error {
	args := m.Called(ctx, userID, otherID)
	return args.Error(0)
}

func (m *ChatRepositoryMock) TouchChat(ctx context.Context, chatID int) error {
	args := m.Called(ctx, chatID)
	return args.Error(0)
}

type MessageRepositoryMock struct {
	mock.Mock
}

func (m *MessageRepositoryMock) CreateMessage(ctx context.Context, chatID int, senderID int, text string, attachment *string) (models.Message, error) {
	args := m.Called(ctx, chatID, senderID, text, attachment)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

func (m *MessageRepositoryMock) ListMessages(ctx context.Context, chatID int) ([]models.Message, error) {
	args := m.Called(ctx, chatID)
	var msgs []models.Message
	if val := args.Get(0); val != nil {
		msgs = val.([]models.Message)
	}
	return msgs, args.Error(1)
}

func (m *MessageRepositoryMock) GetMessage(ctx context.Context, messageID int) (models.Message, error) {
	args := m.Called(ctx, messageID)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

func (m *MessageRepositoryMock) UpdateMessage(ctx context.Context, messageID int, text string, attachment *string) (models.Message, error) {
	args := m.Called(ctx, messageID, text, attachment)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

type FriendshipRepositoryMock struct {
	mock.Mock
}

func (m *FriendshipRepositoryMock) Create(ctx context.Context, fromUserID int, toUserID int) (models.Friendship, error) {
	args := m.Called(ctx, fromUserID, toUserID)
	var fs models.Friendship
	if val := args.Get(0); val != nil {
		fs = val.(models.Friendship)
	}
	return fs, args.Error(1)
}

func (m *FriendshipRepositoryMock) List(ctx context.Context, userID int, category string) ([]models.FriendshipView, error) {
	args := m.Called(ctx, userID, category)
	var views []models.FriendshipView
	if val := args.Get(0); val != nil {
		views = val.([]models.FriendshipView)
	}
	return views, args.Error(1)
}

func (m *FriendshipRepositoryMock) Accept(ctx context.Context, fromUserID int, toUserID int) (models.Friendship, error) {
	args := m.Called(ctx, fromUserID, toUserID)
	var fs models.Friendship
	if val := args.Get(0); val != nil {
		fs = val.(models.Friendship)
	}
	return fs, args.Error(1)
}

func (m *FriendshipRepositoryMock) Delete(ctx context.Context, userID int, otherID int) error {
	args := m.Called(ctx, userID, otherID)
	return args.Error(0)
}

func (m *FriendshipRepositoryMock) GetBetween(ctx context.Context, userID int, otherID int) (models.Friendship, error) {
	args := m.Called(ctx, userID, otherID)
	var fs models.Friendship
	if val := args.Get(0); val != nil {
		fs = val.(models.Friendship)
	}
	return fs, args.Error(1)
}

type TagRepositoryMock struct {
	mock.Mock
}

func (m *TagRepositoryMock) ListVocab(ctx context.Context, kind models.TagKind) ([]models.Tag, error) {
	args := m.Called(ctx, kind)
	var tags []models.Tag
	if val := args.Get(0); val != nil {
		tags = val.([]models.Tag)
	}
	return tags, args.Error(1)
}

func (m *TagRepositoryMock) ListUserTags(ctx context.Context, kind models.TagKind, userID int) ([]models.Tag, error) {
	args := m.Called(ctx, kind, userID)
	var tags []models.Tag
	if val := args.Get(0); val != nil {
		tags = val.([]models.Tag)
	}
	return tags, args.Error(1)
}

func (m *TagRepositoryMock) ListUserTagIDs(ctx context.Context, kind models.TagKind, userID int) ([]int, error) {
	args := m.Called(ctx, kind, userID)
	var ids []int
	if val := args.Get(0); val != nil {
		ids = val.([]int)
	}
	return ids, args.Error(1)
}

func (m *TagRepositoryMock) ReplaceUserTags(ctx context.Context, kind models.TagKind, userID int, tagIDs []int) error {
	args := m.Called(ctx, kind, userID, tagIDs)
	return args.Error(0)
}

type BusMock struct {
	mock.Mock
}

func (m *BusMock) Subscribe(channel string, conn bus.Conn) {
	m.Called(channel, conn)
}

func (m *BusMock) Unsubscribe(channel string, conn bus.Conn) {
	m.Called(channel, conn)
}

func (m *BusMock) Publish(ctx context.Context, channel string, event interface{}) error {
	args := m.Called(ctx, channel, event)
	return args.Error(0)
}

type SignerMock struct {
	mock.Mock
}

func (m *SignerMock) PresignUpload(ctx context.Context, keyPrefix, contentType string) (media.UploadTarget, error) {
	args := m.Called(ctx, keyPrefix, contentType)
	var target media.UploadTarget
	if val := args.Get(0); val != nil {
		target = val.(media.UploadTarget)
	}
	return target, args.Error(1)
}

var (
	_ repositories.UserRepository       = (*UserRepositoryMock)(nil)
	_ repositories.ChatRepository       = (*ChatRepositoryMock)(nil)
	_ repositories.MessageRepository    = (*MessageRepositoryMock)(nil)
	_ repositories.FriendshipRepository = (*FriendshipRepositoryMock)(nil)
	_ repositories.TagRepository        = (*TagRepositoryMock)(nil)
	_ bus.Bus                           = (*BusMock)(nil)
	_ media.Signer                      = (*SignerMock)(nil)
)
