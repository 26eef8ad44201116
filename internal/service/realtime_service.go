package service

import (
	"context"
	"fmt"
	"strings"

	"talenthub/internal/config"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// RealtimeStore is the narrow contract over the hosted realtime database
// that backs chat rooms.
type RealtimeStore interface {
	RoomExists(ctx context.Context, roomID string) (bool, error)
	RoomMembers(ctx context.Context, roomID string) ([]string, error)
}

// FirebaseRTDBService talks to the Firebase Realtime Database REST API.
// Rooms live under /rooms/{roomID} with a members map keyed by user ID.
type FirebaseRTDBService struct {
	client *resty.Client
	cfg    *config.FirebaseConfig
	logger *zap.Logger
}

func NewFirebaseRTDBService(logger *zap.Logger) *FirebaseRTDBService {
	return &FirebaseRTDBService{
		client: resty.New(),
		cfg:    config.LoadFirebaseConfig(),
		logger: logger,
	}
}

func (s *FirebaseRTDBService) RoomExists(ctx context.Context, roomID string) (bool, error) {
	resp, err := s.get(ctx, fmt.Sprintf("rooms/%s", roomID), true)
	if err != nil {
		return false, err
	}
	return resp != "null" && resp != "", nil
}

func (s *FirebaseRTDBService) RoomMembers(ctx context.Context, roomID string) ([]string, error) {
	resp, err := s.get(ctx, fmt.Sprintf("rooms/%s/members", roomID), false)
	if err != nil {
		return nil, err
	}
	if resp == "null" || resp == "" {
		return nil, nil
	}

	var members []string
	gjson.Parse(resp).ForEach(func(key, _ gjson.Result) bool {
		members = append(members, key.String())
		return true
	})
	return members, nil
}

// get issues a REST read against the database tree. shallow avoids pulling
// whole room payloads when only existence matters.
func (s *FirebaseRTDBService) get(ctx context.Context, keyPath string, shallow bool) (string, error) {
	if s.cfg.DatabaseURL == "" {
		return "", fmt.Errorf("firebase database is not configured")
	}

	req := s.client.R().SetContext(ctx)
	if s.cfg.DatabaseAuth != "" {
		req.SetQueryParam("auth", s.cfg.DatabaseAuth)
	}
	if shallow {
		req.SetQueryParam("shallow", "true")
	}

	url := fmt.Sprintf("%s/%s.json", strings.TrimRight(s.cfg.DatabaseURL, "/"), keyPath)
	resp, err := req.Get(url)
	if err != nil {
		return "", fmt.Errorf("realtime store read: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("realtime store read: status %d", resp.StatusCode())
	}
	return strings.TrimSpace(resp.String()), nil
}
