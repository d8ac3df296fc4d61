package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"nomadpal/concierge-service/internal/models"
)

// MarketplaceClient reads recommendations from marketplace-service.
type MarketplaceClient struct {
	BaseURL string
	client  *http.Client
}

func NewMarketplaceClient(baseURL string) *MarketplaceClient {
	return &MarketplaceClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

func (mc *MarketplaceClient) Recommended(ctx context.Context, location string, limit int) ([]models.RecommendedService, error) {
	q := url.Values{}
	if location != "" {
		q.Set("location", location)
	}
	if limit > 0 {
		q.Set("limit", fmt.Sprint(limit))
	}

	endpoint := mc.BaseURL + "/api/services/recommended"
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := mc.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: marketplace returned %d", models.ErrUpstream, resp.StatusCode)
	}

	services := []models.RecommendedService{}
	if err := json.NewDecoder(resp.Body).Decode(&services); err != nil {
		return nil, fmt.Errorf("decode recommendations: %w", err)
	}
	return services, nil
}
