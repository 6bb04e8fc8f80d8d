package storage

import (
	"context"
	"errors"
	"log"
	"time"

	"villago/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

var ErrRoomNotFound = errors.New("chat room not found")

// Storage is everything the realtime core, the REST handlers, moderation and
// the admin CLI need from the data layer. The chathub packages depend on this
// interface only, never on gorm or redis directly.
type Storage interface {
	SaveUser(user *models.User) error
	GetUserByID(userID string) (*models.User, error)
	UpdateUser(user *models.User) error
	FindOrCreateGuest(nickname, region string) (*models.User, error)
	UpdateUserReputation(userID string, delta int) error

	SaveRoom(room *models.ChatRoom) error
	GetRoomByID(roomID string) (*models.ChatRoom, error)
	ListRooms() ([]models.ChatRoom, error)

	CreateMessage(roomID, userID, content string, isSystem bool) (*models.ChatMessage, error)
	ListMessages(roomID string, limit int, before *time.Time) ([]models.ChatMessage, error)

	SaveReport(report *models.Report) error
	UpdateReport(report *models.Report) error
	GetReportByID(id uint) (*models.Report, error)
	GetReportsForUser(userID string, since time.Time) ([]models.Report, error)

	IsUserBanned(userID string) (bool, error)
	SetBanFlag(userID string, ttl time.Duration) error
	ClearBanFlag(userID string) error

	SetOnlineCount(roomID string, count int) error
	GetOnlineCount(roomID string) (int, error)

	PublishEvent(payload []byte) error
	SubscribeEvents() *redis.PubSub
}

// eventsChannel is the Redis Pub/Sub channel shared by all server instances.
const eventsChannel = "chat:events"

type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
	Ctx   context.Context
}

// NewStorageService Constructor
func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
		Ctx:   context.Background(),
	}
}

// --- Users ---

func (s *Service) SaveUser(user *models.User) error {
	return s.DB.Save(user).Error
}

func (s *Service) GetUserByID(userID string) (*models.User, error) {
	var user models.User
	if err := s.DB.First(&user, "id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Service) UpdateUser(user *models.User) error {
	return s.DB.Save(user).Error
}

// FindOrCreateGuest returns an existing user with the given nickname or creates
// a fresh guest record. Guests are real users; moderation applies to them too.
func (s *Service) FindOrCreateGuest(nickname, region string) (*models.User, error) {
	var user models.User
	defaults := models.User{Nickname: nickname, Region: region, ReputationScore: 100}

	result := s.DB.Where("nickname = ?", nickname).FirstOrCreate(&user, defaults)
	if result.Error != nil {
		log.Printf("ERROR: Failed to find or create guest %q: %v", nickname, result.Error)
		return nil, result.Error
	}
	if result.RowsAffected > 0 {
		log.Printf("INFO: New guest user %s created (nickname: %s).", user.ID, nickname)
	}
	return &user, nil
}

func (s *Service) UpdateUserReputation(userID string, delta int) error {
	return s.DB.Model(&models.User{}).
		Where("id = ?", userID).
		Update("reputation_score", gorm.Expr("reputation_score + ?", delta)).Error
}

// --- Rooms ---

func (s *Service) SaveRoom(room *models.ChatRoom) error {
	return s.DB.Save(room).Error
}

func (s *Service) GetRoomByID(roomID string) (*models.ChatRoom, error) {
	var room models.ChatRoom
	err := s.DB.Where("room_id = ?", roomID).First(&room).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		log.Printf("ERROR: Failed to get room %s: %v", roomID, err)
		return nil, err
	}
	return &room, nil
}

func (s *Service) ListRooms() ([]models.ChatRoom, error) {
	var rooms []models.ChatRoom
	if err := s.DB.Where("is_active = ?", true).Order("created_at asc").Find(&rooms).Error; err != nil {
		return nil, err
	}
	return rooms, nil
}

// --- Messages ---

// CreateMessage persists a message and returns the stored record with the
// author preloaded, so callers can re-broadcast the store-assigned id and
// timestamp verbatim.
func (s *Service) CreateMessage(roomID, userID, content string, isSystem bool) (*models.ChatMessage, error) {
	msg := models.ChatMessage{
		RoomID:   roomID,
		UserID:   userID,
		Content:  content,
		IsSystem: isSystem,
	}
	if err := s.DB.Create(&msg).Error; err != nil {
		log.Printf("ERROR: Failed to save message for room %s: %v", roomID, err)
		return nil, err
	}
	if err := s.DB.Preload("User").First(&msg, msg.ID).Error; err != nil {
		return nil, err
	}
	return &msg, nil
}

// ListMessages returns up to limit messages for a room, newest first. A non-nil
// before cursor restricts to messages created strictly before it; callers
// reverse the slice for display.
func (s *Service) ListMessages(roomID string, limit int, before *time.Time) ([]models.ChatMessage, error) {
	var messages []models.ChatMessage
	q := s.DB.Preload("User").Where("room_id = ?", roomID)
	if before != nil {
		q = q.Where("created_at < ?", *before)
	}
	err := q.Order("created_at desc").Limit(limit).Find(&messages).Error
	if err != nil {
		log.Printf("ERROR: Failed to load messages for room %s: %v", roomID, err)
		return nil, err
	}
	return messages, nil
}

// --- Reports ---

func (s *Service) SaveReport(report *models.Report) error {
	if report.Status == "" {
		report.Status = "new"
	}
	if err := s.DB.Create(report).Error; err != nil {
		log.Printf("ERROR: Failed to save report for user %s: %v", report.ReportedUserID, err)
		return err
	}
	return nil
}

func (s *Service) UpdateReport(report *models.Report) error {
	return s.DB.Save(report).Error
}

func (s *Service) GetReportByID(id uint) (*models.Report, error) {
	var report models.Report
	if err := s.DB.First(&report, id).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

func (s *Service) GetReportsForUser(userID string, since time.Time) ([]models.Report, error) {
	var reports []models.Report
	err := s.DB.Where("reported_user_id = ? AND created_at > ?", userID, since).
		Find(&reports).Error
	if err != nil {
		return nil, err
	}
	return reports, nil
}

// --- Redis: ban flags, online counts, pub/sub ---

// IsUserBanned checks the ban flag in Redis (fast path used on every send).
func (s *Service) IsUserBanned(userID string) (bool, error) {
	status, err := s.Redis.Get(s.Ctx, "ban:"+userID).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return status != "", nil
}

// SetBanFlag mirrors a moderation ban into Redis. ttl <= 0 means no expiry.
func (s *Service) SetBanFlag(userID string, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	return s.Redis.Set(s.Ctx, "ban:"+userID, "1", ttl).Err()
}

func (s *Service) ClearBanFlag(userID string) error {
	return s.Redis.Del(s.Ctx, "ban:"+userID).Err()
}

// SetOnlineCount caches a room's live member count for the REST room listing.
func (s *Service) SetOnlineCount(roomID string, count int) error {
	return s.Redis.Set(s.Ctx, "chat:online:"+roomID, count, 0).Err()
}

func (s *Service) GetOnlineCount(roomID string) (int, error) {
	n, err := s.Redis.Get(s.Ctx, "chat:online:"+roomID).Int()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return n, err
}

// PublishEvent pushes a serialized chat event to every server instance.
func (s *Service) PublishEvent(payload []byte) error {
	return s.Redis.Publish(s.Ctx, eventsChannel, payload).Err()
}

func (s *Service) SubscribeEvents() *redis.PubSub {
	return s.Redis.Subscribe(s.Ctx, eventsChannel)
}
