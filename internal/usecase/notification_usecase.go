package usecase

import (
	"context"
	"html"
	"time"

	"talenthub/internal/model"
	"talenthub/internal/service"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type notificationStore interface {
	Create(n *model.Notification) error
	FindByUser(userID uuid.UUID, limit int) ([]model.Notification, error)
	MarkAllRead(userID uuid.UUID) (int64, error)
	UpsertDeviceToken(token *model.DeviceToken) error
	TokensByUser(userID uuid.UUID) ([]string, error)
	DeleteStaleTokens(cutoff time.Time) (int64, error)
}

// notifier is the fanout seam other usecases depend on; NotificationUsecase
// is the production implementation.
type notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, email, title, body string) error
}

type NotificationUsecase struct {
	store  notificationStore
	pusher service.Pusher
	mailer service.Mailer
	logger *zap.Logger
}

func NewNotificationUsecase(store notificationStore, pusher service.Pusher, mailer service.Mailer, logger *zap.Logger) *NotificationUsecase {
	return &NotificationUsecase{store: store, pusher: pusher, mailer: mailer, logger: logger}
}

// Notify persists the notification and fans it out over push and email.
// The row is the source of truth; push and mail are best-effort.
func (uc *NotificationUsecase) Notify(ctx context.Context, userID uuid.UUID, email, title, body string) error {
	n := &model.Notification{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     title,
		Body:      body,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := uc.store.Create(n); err != nil {
		return err
	}

	if uc.pusher != nil {
		tokens, err := uc.store.TokensByUser(userID)
		if err != nil {
			uc.logger.Warn("device token lookup failed",
				zap.String("user_id", userID.String()), zap.Error(err))
		} else if err := uc.pusher.Push(ctx, tokens, title, body); err != nil {
			uc.logger.Warn("push delivery failed",
				zap.String("user_id", userID.String()), zap.Error(err))
		}
	}

	if uc.mailer != nil && email != "" {
		if err := uc.mailer.Send(email, title, "<p>"+html.EscapeString(body)+"</p>"); err != nil {
			uc.logger.Warn("notification mail failed",
				zap.String("user_id", userID.String()), zap.Error(err))
		}
	}
	return nil
}

func (uc *NotificationUsecase) List(userID uuid.UUID, limit int) ([]model.Notification, error) {
	if limit < 1 || limit > 200 {
		limit = 50
	}
	return uc.store.FindByUser(userID, limit)
}

func (uc *NotificationUsecase) MarkAllRead(userID uuid.UUID) (int64, error) {
	return uc.store.MarkAllRead(userID)
}

func (uc *NotificationUsecase) RegisterDevice(userID uuid.UUID, token string) error {
	if token == "" {
		return ErrInvalidInput
	}
	return uc.store.UpsertDeviceToken(&model.DeviceToken{
		ID:     uuid.New(),
		UserID: userID,
		Token:  token,
	})
}

// CleanupExpiredTokens sweeps registration tokens that have not been
// refreshed within ttl. Intended to run periodically in the background.
func (uc *NotificationUsecase) CleanupExpiredTokens(ttl time.Duration) {
	removed, err := uc.store.DeleteStaleTokens(time.Now().Add(-ttl))
	if err != nil {
		uc.logger.Warn("token cleanup failed", zap.Error(err))
		return
	}
	if removed > 0 {
		uc.logger.Info("expired device tokens removed", zap.Int64("count", removed))
	}
}
