package service

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"

	"talenthub/internal/config"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// FileStore uploads CV documents to object storage. Callers treat upload as
// best-effort: the analysis pipeline continues when it fails.
type FileStore interface {
	Upload(ctx context.Context, filePath, fileName string) (*StoredFile, error)
}

type StoredFile struct {
	URL      string
	PublicID string
}

type CloudinaryService struct {
	client *resty.Client
	cfg    *config.CloudinaryConfig
	logger *zap.Logger
}

func NewCloudinaryService(logger *zap.Logger) *CloudinaryService {
	return &CloudinaryService{
		client: resty.New(),
		cfg:    config.LoadCloudinaryConfig(),
		logger: logger,
	}
}

// Upload performs an unsigned upload and returns the public URL plus the
// public ID derived from it.
func (s *CloudinaryService) Upload(ctx context.Context, filePath, fileName string) (*StoredFile, error) {
	if s.cfg.CloudName == "" || s.cfg.UploadPreset == "" {
		return nil, fmt.Errorf("cloudinary is not configured")
	}

	endpoint := fmt.Sprintf("https://api.cloudinary.com/v1_1/%s/auto/upload", s.cfg.CloudName)

	resp, err := s.client.R().
		SetContext(ctx).
		SetFile("file", filePath).
		SetFormData(map[string]string{
			"upload_preset": s.cfg.UploadPreset,
			"folder":        s.cfg.Folder,
		}).
		Post(endpoint)
	if err != nil {
		return nil, fmt.Errorf("cloudinary upload: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("cloudinary upload: status %d: %s", resp.StatusCode(), resp.String())
	}

	secureURL := gjson.Get(resp.String(), "secure_url").String()
	if secureURL == "" {
		return nil, fmt.Errorf("cloudinary upload: response missing secure_url")
	}

	s.logger.Info("cv file uploaded",
		zap.String("file_name", fileName),
		zap.String("url", secureURL))

	return &StoredFile{
		URL:      secureURL,
		PublicID: PublicIDFromURL(secureURL),
	}, nil
}

// PublicIDFromURL derives the storage public ID from the path segments that
// follow ".../upload/", skipping the version segment and dropping the file
// extension.
func PublicIDFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	idx := -1
	for i, seg := range segments {
		if seg == "upload" {
			idx = i
			break
		}
	}
	if idx == -1 || idx+1 >= len(segments) {
		return ""
	}

	rest := segments[idx+1:]
	if len(rest) > 1 && strings.HasPrefix(rest[0], "v") && isDigits(rest[0][1:]) {
		rest = rest[1:]
	}

	id := strings.Join(rest, "/")
	if ext := path.Ext(id); ext != "" {
		id = strings.TrimSuffix(id, ext)
	}
	return id
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
