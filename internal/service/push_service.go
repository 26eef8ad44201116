package service

import (
	"context"
	"fmt"

	"talenthub/internal/config"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Pusher delivers a push notification to a set of device tokens.
// Delivery is best-effort: failures are logged by callers, never surfaced.
type Pusher interface {
	Push(ctx context.Context, tokens []string, title, body string) error
}

type FCMService struct {
	client *resty.Client
	cfg    *config.FirebaseConfig
	logger *zap.Logger
}

func NewFCMService(logger *zap.Logger) *FCMService {
	return &FCMService{
		client: resty.New(),
		cfg:    config.LoadFirebaseConfig(),
		logger: logger,
	}
}

const fcmEndpoint = "https://fcm.googleapis.com/fcm/send"

func (s *FCMService) Push(ctx context.Context, tokens []string, title, body string) error {
	if s.cfg.FCMServerKey == "" {
		return fmt.Errorf("fcm is not configured")
	}
	if len(tokens) == 0 {
		return nil
	}

	payload := map[string]any{
		"registration_ids": tokens,
		"notification": map[string]string{
			"title": title,
			"body":  body,
		},
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "key="+s.cfg.FCMServerKey).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Post(fcmEndpoint)
	if err != nil {
		return fmt.Errorf("fcm push: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("fcm push: status %d: %s", resp.StatusCode(), resp.String())
	}

	s.logger.Debug("push delivered", zap.Int("tokens", len(tokens)), zap.String("title", title))
	return nil
}
