package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// UserServiceClient updates profiles on behalf of the caller.
type UserServiceClient struct {
	BaseURL string
	client  *http.Client
}

func NewUserClient(baseURL string) *UserServiceClient {
	return &UserServiceClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

// SetAvatar forwards the caller's Authorization header so user-service
// updates the caller's own profile.
func (uc *UserServiceClient) SetAvatar(ctx context.Context, authHeader, avatarURL string) error {
	body, err := json.Marshal(map[string]string{"avatar": avatarURL})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uc.BaseURL+"/users/me", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", authHeader)

	resp, err := uc.client.Do(req)
	if err != nil {
		return fmt.Errorf("call user-service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("user-service returned %d", resp.StatusCode)
	}
	return nil
}
