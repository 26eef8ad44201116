package repository

import (
	"time"

	"talenthub/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db}
}

func (r *NotificationRepository) Create(n *model.Notification) error {
	return r.db.Create(n).Error
}

func (r *NotificationRepository) FindByUser(userID uuid.UUID, limit int) ([]model.Notification, error) {
	var notifications []model.Notification
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&notifications).Error
	return notifications, err
}

// MarkAllRead is a scan-then-mutate sweep; eventual consistency is fine for
// read flags.
func (r *NotificationRepository) MarkAllRead(userID uuid.UUID) (int64, error) {
	res := r.db.Model(&model.Notification{}).
		Where("user_id = ? AND read = false", userID).
		Updates(map[string]any{"read": true, "updated_at": time.Now()})
	return res.RowsAffected, res.Error
}

func (r *NotificationRepository) UpsertDeviceToken(token *model.DeviceToken) error {
	var existing model.DeviceToken
	err := r.db.First(&existing, "token = ?", token.Token).Error
	if err == gorm.ErrRecordNotFound {
		token.CreatedAt = time.Now()
		token.UpdatedAt = token.CreatedAt
		return r.db.Create(token).Error
	}
	if err != nil {
		return err
	}
	existing.UserID = token.UserID
	existing.UpdatedAt = time.Now()
	return r.db.Save(&existing).Error
}

func (r *NotificationRepository) TokensByUser(userID uuid.UUID) ([]string, error) {
	var tokens []string
	err := r.db.Model(&model.DeviceToken{}).
		Where("user_id = ?", userID).
		Pluck("token", &tokens).Error
	return tokens, err
}

// DeleteStaleTokens removes registration tokens not refreshed since the
// cutoff. Runs as a background sweep.
func (r *NotificationRepository) DeleteStaleTokens(cutoff time.Time) (int64, error) {
	res := r.db.Where("updated_at < ?", cutoff).Delete(&model.DeviceToken{})
	return res.RowsAffected, res.Error
}
