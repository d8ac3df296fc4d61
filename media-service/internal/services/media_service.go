package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"nomadpal/media-service/internal/models"
)

const sniffLen = 512

type MediaRepository interface {
	Save(ctx context.Context, m *models.Media) error
	FindByUserID(ctx context.Context, userID string) ([]models.Media, error)
}

type ObjectStorage interface {
	PutObject(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
}

type ProfileUpdater interface {
	SetAvatar(ctx context.Context, authHeader, avatarURL string) error
}

type MediaService struct {
	repo      MediaRepository
	storage   ObjectStorage
	users     ProfileUpdater
	publicURL string
	now       func() time.Time
}

// NewMediaService builds public URLs as <publicURL>/<object key>, so
// publicURL should include the bucket.
func NewMediaService(r MediaRepository, s ObjectStorage, users ProfileUpdater, publicURL string) *MediaService {
	return &MediaService{
		repo:      r,
		storage:   s,
		users:     users,
		publicURL: strings.TrimRight(publicURL, "/"),
		now:       time.Now,
	}
}

// UploadAvatar stores an image and makes it the caller's profile avatar.
// The content type is sniffed from the data, the client header is ignored.
func (s *MediaService) UploadAvatar(ctx context.Context, userID, authHeader string, file io.Reader, upload models.Upload) (*models.Media, error) {
	if upload.Size <= 0 {
		return nil, fmt.Errorf("%w: file is empty", models.ErrValidation)
	}
	if upload.Size > models.MaxAvatarSize {
		return nil, models.ErrTooLarge
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(file, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]

	contentType := http.DetectContentType(head)
	if !strings.HasPrefix(contentType, "image/") {
		return nil, models.ErrUnsupportedMedia
	}

	now := s.now().UTC()
	fileName := cleanFileName(upload.FileName)
	objectKey := fmt.Sprintf("%s/%s/%d_%s", models.AvatarMedia, userID, now.UnixNano(), fileName)

	body := io.MultiReader(bytes.NewReader(head), file)
	if err := s.storage.PutObject(ctx, objectKey, body, upload.Size, contentType); err != nil {
		return nil, fmt.Errorf("store object: %w", err)
	}

	media := &models.Media{
		UserID:      userID,
		Type:        models.AvatarMedia,
		FileName:    fileName,
		ObjectKey:   objectKey,
		URL:         s.objectURL(objectKey),
		ContentType: contentType,
		Size:        upload.Size,
		CreatedAt:   now,
	}
	if err := s.repo.Save(ctx, media); err != nil {
		return nil, err
	}

	if err := s.users.SetAvatar(ctx, authHeader, media.URL); err != nil {
		return media, fmt.Errorf("%w: %v", models.ErrUpstream, err)
	}
	return media, nil
}

func (s *MediaService) GetUserMedia(ctx context.Context, userID string) ([]models.Media, error) {
	return s.repo.FindByUserID(ctx, userID)
}

func (s *MediaService) objectURL(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return s.publicURL + "/" + strings.Join(parts, "/")
}

// cleanFileName keeps the base name and replaces characters that are awkward
// in object keys.
func cleanFileName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		return "upload"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}
