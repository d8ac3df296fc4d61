package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"nomadpal/internal/authclient"
	"nomadpal/media-service/internal/models"
)

type stubMedia struct {
	userID     string
	authHeader string
	upload     models.Upload
	err        error
}

func (s *stubMedia) UploadAvatar(_ context.Context, userID, authHeader string, file io.Reader, upload models.Upload) (*models.Media, error) {
	s.userID, s.authHeader, s.upload = userID, authHeader, upload
	if s.err != nil {
		return nil, s.err
	}
	return &models.Media{UserID: userID, URL: "http://cdn.local/avatar.png"}, nil
}

func (s *stubMedia) GetUserMedia(_ context.Context, userID string) ([]models.Media, error) {
	return []models.Media{{UserID: userID}}, nil
}

func setupRouter(svc MediaService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewMediaHandler(svc).RegisterRoutes(router, func(c *gin.Context) {
		c.Set(authclient.KeyUserID, "u1")
		c.Next()
	})
	return router
}

func multipartBody(t *testing.T, field, filename string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	fw, err := mw.CreateFormFile(field, filename)
	if err != nil {
		t.Fatal(err)
	}
	_, _ = fw.Write(data)
	_ = mw.Close()
	return body, mw.FormDataContentType()
}

func TestUploadAvatar(t *testing.T) {
	svc := &stubMedia{}
	body, contentType := multipartBody(t, "file", "me.png", []byte("\x89PNG\r\n\x1a\n"))

	req := httptest.NewRequest(http.MethodPost, "/media/avatar", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer tok")
	w := httptest.NewRecorder()
	setupRouter(svc).ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body)
	}
	var resp struct {
		URL string `json:"url"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.URL != "http://cdn.local/avatar.png" {
		t.Errorf("url = %q", resp.URL)
	}
	if svc.userID != "u1" || svc.authHeader != "Bearer tok" || svc.upload.FileName != "me.png" || svc.upload.Size != 8 {
		t.Errorf("service called with %+v", svc)
	}
}

func TestUploadAvatarErrors(t *testing.T) {
	tests := []struct {
		name  string
		field string
		err   error
		want  int
	}{
		{"missing file", "other", nil, http.StatusBadRequest},
		{"not an image", "file", models.ErrUnsupportedMedia, http.StatusUnsupportedMediaType},
		{"too large", "file", models.ErrTooLarge, http.StatusRequestEntityTooLarge},
		{"profile update failed", "file", models.ErrUpstream, http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, contentType := multipartBody(t, tt.field, "a.png", []byte("data"))
			req := httptest.NewRequest(http.MethodPost, "/media/avatar", body)
			req.Header.Set("Content-Type", contentType)
			w := httptest.NewRecorder()
			setupRouter(&stubMedia{err: tt.err}).ServeHTTP(w, req)

			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestUploadAvatarBodyLimit(t *testing.T) {
	body, contentType := multipartBody(t, "file", "big.png", make([]byte, models.MaxAvatarSize+2<<20))
	req := httptest.NewRequest(http.MethodPost, "/media/avatar", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	setupRouter(&stubMedia{}).ServeHTTP(w, req)

	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d", w.Code)
	}
}

func TestGetUserMedia(t *testing.T) {
	w := httptest.NewRecorder()
	setupRouter(&stubMedia{}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/media/user/u7", nil))

	var got []models.Media
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if w.Code != http.StatusOK || len(got) != 1 || got[0].UserID != "u7" {
		t.Errorf("status = %d, got %+v", w.Code, got)
	}
}
