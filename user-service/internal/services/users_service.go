package services

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"nomadpal/internal/cache"
	"nomadpal/user-service/internal/models"
)

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	List(ctx context.Context, location string) ([]models.User, error)
	UpdateFields(ctx context.Context, id string, fields bson.M) error
}

type ReviewRepository interface {
	Insert(ctx context.Context, review *models.Review) error
	Exists(ctx context.Context, targetID, reviewerID string) (bool, error)
	FindByTarget(ctx context.Context, targetID string) ([]models.Review, error)
	Count(ctx context.Context) (int64, error)
}

type UserService struct {
	users   UserRepository
	reviews ReviewRepository
	cache   cache.Cache
	now     func() time.Time
}

func NewUserService(users UserRepository, reviews ReviewRepository, c cache.Cache) *UserService {
	return &UserService{users: users, reviews: reviews, cache: c, now: time.Now}
}

func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *UserService) GetProfile(ctx context.Context, id string) (*models.Profile, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.profile(ctx, user)
}

func (s *UserService) GetProfileByUsername(ctx context.Context, username string) (*models.Profile, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.profile(ctx, user)
}

func (s *UserService) profile(ctx context.Context, user *models.User) (*models.Profile, error) {
	reviews, err := s.reviews.FindByTarget(ctx, user.ID.Hex())
	if err != nil {
		return nil, fmt.Errorf("load reviews: %w", err)
	}
	return &models.Profile{User: *user, Reviews: reviews, Stats: reviewStats(reviews)}, nil
}

func reviewStats(reviews []models.Review) models.ReviewStats {
	if len(reviews) == 0 {
		return models.ReviewStats{}
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	return models.ReviewStats{
		Count:   len(reviews),
		Average: roundOne(float64(sum) / float64(len(reviews))),
	}
}

func roundOne(v float64) float64 {
	return math.Round(v*10) / 10
}

// UpdateMe applies the non-nil fields of req and returns the fresh record.
func (s *UserService) UpdateMe(ctx context.Context, id string, req models.UpdateProfileRequest) (*models.User, error) {
	fields := bson.M{"last_active": s.now()}

	if req.Name != nil {
		fields["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Bio != nil {
		fields["bio"] = *req.Bio
	}
	if req.Location != nil {
		fields["location"] = strings.TrimSpace(*req.Location)
	}
	if req.Avatar != nil {
		fields["avatar"] = *req.Avatar
	}
	if req.Socials != nil {
		fields["socials"] = req.Socials
	}
	if req.Specialties != nil {
		fields["specialties"] = *req.Specialties
	}
	if req.Languages != nil {
		fields["languages"] = *req.Languages
	}
	if req.PhoneNumber != nil {
		fields["phone_number"] = *req.PhoneNumber
	}
	if req.DeviceToken != nil {
		fields["device_token"] = *req.DeviceToken
	}

	if err := s.update(ctx, id, fields); err != nil {
		return nil, err
	}
	return s.users.GetByID(ctx, id)
}

func (s *UserService) ListUsers(ctx context.Context, location string) ([]models.User, error) {
	return s.users.List(ctx, strings.TrimSpace(location))
}

// TrustDirectory lists the members of category, highest trust first, with
// the size of every category for the same location.
func (s *UserService) TrustDirectory(ctx context.Context, category, location string) (*models.TrustDirectory, error) {
	if category == "" {
		category = models.CategoryAll
	}
	match, ok := categoryFilters[category]
	if !ok {
		return nil, fmt.Errorf("%w: unknown category %q", models.ErrValidation, category)
	}

	all, err := s.users.List(ctx, strings.TrimSpace(location))
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(categoryFilters))
	for name := range categoryFilters {
		counts[name] = 0
	}
	selected := []models.User{}
	for _, u := range all {
		for name, f := range categoryFilters {
			if f(u) {
				counts[name]++
			}
		}
		if match(u) {
			selected = append(selected, u)
		}
	}

	sort.SliceStable(selected, func(i, j int) bool {
		if selected[i].TrustRating != selected[j].TrustRating {
			return selected[i].TrustRating > selected[j].TrustRating
		}
		return strings.ToLower(selected[i].Name) < strings.ToLower(selected[j].Name)
	})

	return &models.TrustDirectory{Category: category, Users: selected, Counts: counts}, nil
}

var categoryFilters = map[string]func(models.User) bool{
	models.CategoryAll:       func(models.User) bool { return true },
	models.CategoryGuides:    func(u models.User) bool { return u.MemberType == models.MemberGuide },
	models.CategoryTravelers: func(u models.User) bool { return u.MemberType == models.MemberTraveler },
	models.CategoryVerified:  func(u models.User) bool { return u.Verified },
}

func (s *UserService) TrustStats(ctx context.Context) (*models.TrustStats, error) {
	users, err := s.users.List(ctx, "")
	if err != nil {
		return nil, err
	}
	total, err := s.reviews.Count(ctx)
	if err != nil {
		return nil, err
	}

	stats := &models.TrustStats{TotalReviews: total}
	sum := 0.0
	for _, u := range users {
		sum += u.TrustRating
		if u.Verified {
			stats.VerifiedMembers++
		}
		if u.MemberType == models.MemberGuide {
			stats.LocalGuides++
		}
	}
	if len(users) > 0 {
		stats.AverageTrustRating = roundOne(sum / float64(len(users)))
	}
	return stats, nil
}

// SetTrustRating stores rating as given. Trust ratings are never derived
// from reviews.
func (s *UserService) SetTrustRating(ctx context.Context, id string, rating float64) (*models.User, error) {
	if rating < 0 || rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 0 and 5", models.ErrValidation)
	}
	if err := s.update(ctx, id, bson.M{"trust_rating": rating}); err != nil {
		return nil, err
	}
	return s.users.GetByID(ctx, id)
}

func (s *UserService) SetVerified(ctx context.Context, id string, verified bool) (*models.User, error) {
	if err := s.update(ctx, id, bson.M{"verified": verified}); err != nil {
		return nil, err
	}
	return s.users.GetByID(ctx, id)
}

func (s *UserService) SetBadges(ctx context.Context, id string, badges []string) (*models.User, error) {
	if badges == nil {
		badges = []string{}
	}
	if err := s.update(ctx, id, bson.M{"badges": badges}); err != nil {
		return nil, err
	}
	return s.users.GetByID(ctx, id)
}

func (s *UserService) update(ctx context.Context, id string, fields bson.M) error {
	if err := s.users.UpdateFields(ctx, id, fields); err != nil {
		return err
	}
	if err := s.cache.Delete(ctx, cache.SessionKey(id)); err != nil {
		log.Printf("[CACHE] Failed to drop session for %s: %v", id, err)
	}
	return nil
}
