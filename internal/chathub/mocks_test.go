package chathub_test

import (
	"time"

	"villago/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/mock"
)

// MockStorage is a testify/mock implementation of the storage.Storage
// interface, so expectations can be set per test.
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) SaveUser(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockStorage) GetUserByID(userID string) (*models.User, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStorage) UpdateUser(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockStorage) FindOrCreateGuest(nickname, region string) (*models.User, error) {
	args := m.Called(nickname, region)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStorage) UpdateUserReputation(userID string, delta int) error {
	args := m.Called(userID, delta)
	return args.Error(0)
}

func (m *MockStorage) SaveRoom(room *models.ChatRoom) error {
	args := m.Called(room)
	return args.Error(0)
}

func (m *MockStorage) GetRoomByID(roomID string) (*models.ChatRoom, error) {
	args := m.Called(roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChatRoom), args.Error(1)
}

func (m *MockStorage) ListRooms() ([]models.ChatRoom, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ChatRoom), args.Error(1)
}

func (m *MockStorage) CreateMessage(roomID, userID, content string, isSystem bool) (*models.ChatMessage, error) {
	args := m.Called(roomID, userID, content, isSystem)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChatMessage), args.Error(1)
}

func (m *MockStorage) ListMessages(roomID string, limit int, before *time.Time) ([]models.ChatMessage, error) {
	args := m.Called(roomID, limit, before)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ChatMessage), args.Error(1)
}

func (m *MockStorage) SaveReport(report *models.Report) error {
	args := m.Called(report)
	return args.Error(0)
}

func (m *MockStorage) UpdateReport(report *models.Report) error {
	args := m.Called(report)
	return args.Error(0)
}

func (m *MockStorage) GetReportByID(id uint) (*models.Report, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Report), args.Error(1)
}

func (m *MockStorage) GetReportsForUser(userID string, since time.Time) ([]models.Report, error) {
	args := m.Called(userID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Report), args.Error(1)
}

func (m *MockStorage) IsUserBanned(userID string) (bool, error) {
	args := m.Called(userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockStorage) SetBanFlag(userID string, ttl time.Duration) error {
	args := m.Called(userID, ttl)
	return args.Error(0)
}

func (m *MockStorage) ClearBanFlag(userID string) error {
	args := m.Called(userID)
	return args.Error(0)
}

func (m *MockStorage) SetOnlineCount(roomID string, count int) error {
	args := m.Called(roomID, count)
	return args.Error(0)
}

func (m *MockStorage) GetOnlineCount(roomID string) (int, error) {
	args := m.Called(roomID)
	return args.Int(0), args.Error(1)
}

func (m *MockStorage) PublishEvent(payload []byte) error {
	args := m.Called(payload)
	return args.Error(0)
}

func (m *MockStorage) SubscribeEvents() *redis.PubSub {
	args := m.Called()
	return args.Get(0).(*redis.PubSub)
}

// MockClient is a transport-free test double for the chathub.Client interface.
// Events land in a buffered channel for assertion.
type MockClient struct {
	id       string
	userID   string
	nickname string
	events   chan models.Envelope
}

func newMockClient(id, nickname string) *MockClient {
	return &MockClient{
		id:       id,
		userID:   "user-" + id,
		nickname: nickname,
		events:   make(chan models.Envelope, 32), // Buffered to prevent blocking in tests
	}
}

func (c *MockClient) GetID() string       { return c.id }
func (c *MockClient) GetUserID() string   { return c.userID }
func (c *MockClient) GetNickname() string { return c.nickname }

func (c *MockClient) Send(ev models.Envelope) bool {
	select {
	case c.events <- ev:
		return true
	default:
		return false
	}
}

func (c *MockClient) Run()   {}
func (c *MockClient) Close() {}

// DrainEvents empties the event channel and returns everything received so far.
func (c *MockClient) DrainEvents() []models.Envelope {
	var events []models.Envelope
	for {
		select {
		case ev := <-c.events:
			events = append(events, ev)
		default:
			return events
		}
	}
}
