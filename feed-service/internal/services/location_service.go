package services

import (
	"context"
	"log"
	"strings"

	"nomadpal/feed-service/internal/models"
	"nomadpal/internal/cache"
)

type LocationService interface {
	Get(ctx context.Context, userID string) string
	Set(ctx context.Context, userID, location string) (string, error)
}

type locationService struct {
	cache cache.Cache
}

func NewLocationService(c cache.Cache) LocationService {
	return &locationService{cache: c}
}

func locationKey(userID string) string {
	return "location:" + userID
}

// Get falls back to the default location when none is stored or Redis
// fails.
func (s *locationService) Get(ctx context.Context, userID string) string {
	var loc string
	if err := s.cache.Get(ctx, locationKey(userID), &loc); err != nil {
		if err != cache.ErrCacheMiss {
			log.Printf("[LOCATION] Failed to read location for %s: %v", userID, err)
		}
		return models.DefaultLocation
	}
	if loc == "" {
		return models.DefaultLocation
	}
	return loc
}

func (s *locationService) Set(ctx context.Context, userID, location string) (string, error) {
	location = strings.TrimSpace(location)
	if err := s.cache.Set(ctx, locationKey(userID), location, 0); err != nil {
		return "", err
	}
	return location, nil
}
