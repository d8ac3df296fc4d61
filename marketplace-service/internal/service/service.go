package services

import (
	"context"
	"strconv"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"nomadpal/marketplace-service/internal/models"
)

const maxRecommendedLimit = 20

type ServiceRepository interface {
	Find(context.Context, models.ServiceFilter) ([]models.Service, error)
	Recommended(ctx context.Context, location string, limit int64) ([]models.Service, error)
	GetByID(context.Context, primitive.ObjectID) (*models.Service, error)
	CreateService(context.Context, *models.Service) error
	UpdateService(context.Context, *models.Service) error
	DeleteService(context.Context, primitive.ObjectID) error
	SetVerified(ctx context.Context, id primitive.ObjectID, verified bool) error
}

type MarketplaceService struct {
	repo ServiceRepository
}

func NewMarketplaceService(repo ServiceRepository) *MarketplaceService {
	return &MarketplaceService{
		repo: repo,
	}
}

func (s *MarketplaceService) ListServices(ctx context.Context, filter models.ServiceFilter) ([]models.Service, error) {
	if filter.Type != "" && !validType(filter.Type) {
		return nil, models.ErrValidation
	}
	return s.repo.Find(ctx, filter)
}

// Recommended parses limit itself so the handler can pass the raw query value.
func (s *MarketplaceService) Recommended(ctx context.Context, location, limit string) ([]models.Service, error) {
	n := models.DefaultRecommendedLimit
	if limit != "" {
		parsed, err := strconv.Atoi(limit)
		if err != nil || parsed < 1 {
			return nil, models.ErrValidation
		}
		n = min(parsed, maxRecommendedLimit)
	}

	return s.repo.Recommended(ctx, location, int64(n))
}

func (s *MarketplaceService) GetService(ctx context.Context, id string) (*models.Service, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, models.ErrInvalidID
	}

	return s.repo.GetByID(ctx, objID)
}

// CreateService lists a new offer for providerID. New offers are unverified
// and unrated until an admin reviews them.
func (s *MarketplaceService) CreateService(ctx context.Context, providerID string, req *models.ServiceRequest) (*models.Service, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	service := &models.Service{ProviderID: providerID}
	req.Apply(service)

	if err := s.repo.CreateService(ctx, service); err != nil {
		return nil, err
	}

	return service, nil
}

func (s *MarketplaceService) UpdateService(ctx context.Context, providerID, id string, req *models.ServiceRequest) (*models.Service, error) {
	service, err := s.ownedService(ctx, providerID, id)
	if err != nil {
		return nil, err
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	req.Apply(service)
	if err := s.repo.UpdateService(ctx, service); err != nil {
		return nil, err
	}

	return service, nil
}

func (s *MarketplaceService) DeleteService(ctx context.Context, providerID, id string) error {
	service, err := s.ownedService(ctx, providerID, id)
	if err != nil {
		return err
	}

	return s.repo.DeleteService(ctx, service.ID)
}

func (s *MarketplaceService) SetVerified(ctx context.Context, id string, verified bool) (*models.Service, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, models.ErrInvalidID
	}

	if err := s.repo.SetVerified(ctx, objID, verified); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, objID)
}

func (s *MarketplaceService) ownedService(ctx context.Context, providerID, id string) (*models.Service, error) {
	service, err := s.GetService(ctx, id)
	if err != nil {
		return nil, err
	}
	if service.ProviderID != providerID {
		return nil, models.ErrForbidden
	}
	return service, nil
}

func validType(t string) bool {
	switch t {
	case models.TypeGuide, models.TypeDriver, models.TypeHost, models.TypeTour:
		return true
	}
	return false
}
