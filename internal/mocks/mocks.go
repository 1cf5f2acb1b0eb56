package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"social-service/internal/models"
	"social-service/internal/rabbitmq"
	"social-service/internal/repositories"
	"social-service/internal/storage"
)

// MockUserRepository mocks the identity store.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, username, passwordHash string) (*models.User, error) {
	args := m.Called(ctx, username, passwordHash)
	var user *models.User
	if val := args.Get(0); val != nil {
		user = val.(*models.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	var user *models.User
	if val := args.Get(0); val != nil {
		user = val.(*models.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	var user *models.User
	if val := args.Get(0); val != nil {
		user = val.(*models.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) ListExcept(ctx context.Context, id int64) ([]models.UserSummary, error) {
	args := m.Called(ctx, id)
	var users []models.UserSummary
	if val := args.Get(0); val != nil {
		users = val.([]models.UserSummary)
	}
	return users, args.Error(1)
}

func (m *MockUserRepository) SetProfilePicture(ctx context.Context, id int64, url string) error {
	args := m.Called(ctx, id, url)
	return args.Error(0)
}

// MockFriendshipRepository mocks the relationship store.
type MockFriendshipRepository struct {
	mock.Mock
}

func (m *MockFriendshipRepository) Create(ctx context.Context, userID, friendID int64) (*models.Friendship, error) {
	args := m.Called(ctx, userID, friendID)
	var f *models.Friendship
	if val := args.Get(0); val != nil {
		f = val.(*models.Friendship)
	}
	return f, args.Error(1)
}

func (m *MockFriendshipRepository) GetByID(ctx context.Context, id int64) (*models.Friendship, error) {
	args := m.Called(ctx, id)
	var f *models.Friendship
	if val := args.Get(0); val != nil {
		f = val.(*models.Friendship)
	}
	return f, args.Error(1)
}

func (m *MockFriendshipRepository) FindBetween(ctx context.Context, a, b int64) (*models.Friendship, error) {
	args := m.Called(ctx, a, b)
	var f *models.Friendship
	if val := args.Get(0); val != nil {
		f = val.(*models.Friendship)
	}
	return f, args.Error(1)
}

func (m *MockFriendshipRepository) AreFriends(ctx context.Context, a, b int64) (bool, error) {
	args := m.Called(ctx, a, b)
	return args.Bool(0), args.Error(1)
}

func (m *MockFriendshipRepository) UpdateStatus(ctx context.Context, id int64, status models.FriendshipStatus) (*models.Friendship, error) {
	args := m.Called(ctx, id, status)
	var f *models.Friendship
	if val := args.Get(0); val != nil {
		f = val.(*models.Friendship)
	}
	return f, args.Error(1)
}

func (m *MockFriendshipRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockFriendshipRepository) ListFriends(ctx context.Context, userID int64) ([]models.UserSummary, error) {
	args := m.Called(ctx, userID)
	var friends []models.UserSummary
	if val := args.Get(0); val != nil {
		friends = val.([]models.UserSummary)
	}
	return friends, args.Error(1)
}

func (m *MockFriendshipRepository) ListIncoming(ctx context.Context, userID int64) ([]models.IncomingRequest, error) {
	args := m.Called(ctx, userID)
	var reqs []models.IncomingRequest
	if val := args.Get(0); val != nil {
		reqs = val.([]models.IncomingRequest)
	}
	return reqs, args.Error(1)
}

func (m *MockFriendshipRepository) ListOutgoing(ctx context.Context, userID int64) ([]models.OutgoingRequest, error) {
	args := m.Called(ctx, userID)
	var reqs []models.OutgoingRequest
	if val := args.Get(0); val != nil {
		reqs = val.([]models.OutgoingRequest)
	}
	return reqs, args.Error(1)
}

// MockMessageRepository mocks the message store.
type MockMessageRepository struct {
	mock.Mock
}

func (m *MockMessageRepository) Create(ctx context.Context, senderID, receiverID int64, content string) (*models.Message, error) {
	args := m.Called(ctx, senderID, receiverID, content)
	var msg *models.Message
	if val := args.Get(0); val != nil {
		msg = val.(*models.Message)
	}
	return msg, args.Error(1)
}

func (m *MockMessageRepository) ListForUser(ctx context.Context, userID int64) ([]models.MessageView, error) {
	args := m.Called(ctx, userID)
	var msgs []models.MessageView
	if val := args.Get(0); val != nil {
		msgs = val.([]models.MessageView)
	}
	return msgs, args.Error(1)
}

// MockPublisher mocks RabbitMQ publisher behavior for events and telemetry.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, routingKey string, event any) error {
	args := m.Called(ctx, routingKey, event)
	return args.Error(0)
}

func (m *MockPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockAvatarStore mocks avatar blob storage.
type MockAvatarStore struct {
	mock.Mock
}

func (m *MockAvatarStore) Save(ctx context.Context, userID int64, ext string, r io.Reader) (string, error) {
	args := m.Called(ctx, userID, ext, r)
	return args.String(0), args.Error(1)
}

func (m *MockAvatarStore) Remove(ctx context.Context, url string) error {
	args := m.Called(ctx, url)
	return args.Error(0)
}

// Compile-time assertions
var (
	_ repositories.UserRepository       = (*MockUserRepository)(nil)
	_ repositories.FriendshipRepository = (*MockFriendshipRepository)(nil)
	_ repositories.MessageRepository    = (*MockMessageRepository)(nil)
	_ rabbitmq.Publisher                = (*MockPublisher)(nil)
	_ storage.AvatarStore               = (*MockAvatarStore)(nil)
)
