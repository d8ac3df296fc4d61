package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"nomadpal/media-service/internal/models"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

type fakeRepo struct {
	saved []models.Media
}

func (f *fakeRepo) Save(_ context.Context, m *models.Media) error {
	f.saved = append(f.saved, *m)
	return nil
}

func (f *fakeRepo) FindByUserID(_ context.Context, userID string) ([]models.Media, error) {
	out := []models.Media{}
	for _, m := range f.saved {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	return out, nil
}

type fakeStorage struct {
	key         string
	body        []byte
	contentType string
}

func (f *fakeStorage) PutObject(_ context.Context, key string, r io.Reader, _ int64, contentType string) error {
	f.key, f.contentType = key, contentType
	b, err := io.ReadAll(r)
	f.body = b
	return err
}

type fakeUsers struct {
	authHeader string
	avatar     string
	err        error
}

func (f *fakeUsers) SetAvatar(_ context.Context, authHeader, avatarURL string) error {
	f.authHeader, f.avatar = authHeader, avatarURL
	return f.err
}

func newTestService() (*MediaService, *fakeRepo, *fakeStorage, *fakeUsers) {
	repo, storage, users := &fakeRepo{}, &fakeStorage{}, &fakeUsers{}
	svc := NewMediaService(repo, storage, users, "http://cdn.local/nomadpal-media/")
	svc.now = func() time.Time { return time.Unix(0, 1700000000000000000) }
	return svc, repo, storage, users
}

func TestUploadAvatar(t *testing.T) {
	svc, repo, storage, users := newTestService()
	data := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{1}, 600)...)

	media, err := svc.UploadAvatar(context.Background(), "u1", "Bearer t", bytes.NewReader(data), models.Upload{
		FileName: "my photo.png",
		Size:     int64(len(data)),
	})
	if err != nil {
		t.Fatal(err)
	}

	wantKey := "avatar/u1/1700000000000000000_my_photo.png"
	if media.ObjectKey != wantKey || storage.key != wantKey {
		t.Errorf("key = %q", media.ObjectKey)
	}
	if media.URL != "http://cdn.local/nomadpal-media/"+wantKey {
		t.Errorf("url = %q", media.URL)
	}
	if !bytes.Equal(storage.body, data) {
		t.Error("stored body differs from upload")
	}
	if storage.contentType != "image/png" || media.ContentType != "image/png" {
		t.Errorf("content type = %q", storage.contentType)
	}
	if users.avatar != media.URL || users.authHeader != "Bearer t" {
		t.Errorf("profile update = %+v", users)
	}
	if len(repo.saved) != 1 {
		t.Errorf("saved %d records", len(repo.saved))
	}
}

func TestUploadAvatarRejects(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		size int64
		want error
	}{
		{"empty", nil, 0, models.ErrValidation},
		{"too large", pngHeader, models.MaxAvatarSize + 1, models.ErrTooLarge},
		{"not an image", []byte("just some text, definitely not a picture"), 40, models.ErrUnsupportedMedia},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _, users := newTestService()
			_, err := svc.UploadAvatar(context.Background(), "u1", "", bytes.NewReader(tt.data), models.Upload{FileName: "x.png", Size: tt.size})
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
			if len(repo.saved) != 0 || users.avatar != "" {
				t.Error("rejected upload must not be recorded")
			}
		})
	}
}

func TestUploadAvatarProfileFailure(t *testing.T) {
	svc, repo, _, users := newTestService()
	users.err = errors.New("503")

	media, err := svc.UploadAvatar(context.Background(), "u1", "", bytes.NewReader(pngHeader), models.Upload{FileName: "a.png", Size: int64(len(pngHeader))})
	if !errors.Is(err, models.ErrUpstream) {
		t.Fatalf("got %v", err)
	}
	if media == nil || len(repo.saved) != 1 {
		t.Error("media record should survive a failed profile update")
	}
}

func TestCleanFileName(t *testing.T) {
	tests := map[string]string{
		"photo.jpg":            "photo.jpg",
		"../../etc/passwd":     "passwd",
		`C:\Users\me\pic.png`:  "pic.png",
		"sunset at nacpan.png": "sunset_at_nacpan.png",
		"":                     "upload",
	}
	for in, want := range tests {
		if got := cleanFileName(in); got != want {
			t.Errorf("cleanFileName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestGetUserMedia(t *testing.T) {
	svc, repo, _, _ := newTestService()
	repo.saved = []models.Media{{UserID: "u1"}, {UserID: "u2"}}

	got, err := svc.GetUserMedia(context.Background(), "u1")
	if err != nil || len(got) != 1 {
		t.Errorf("got %v %v", got, err)
	}
	if !strings.HasPrefix(svc.publicURL, "http://cdn.local") {
		t.Errorf("public url = %q", svc.publicURL)
	}
}
