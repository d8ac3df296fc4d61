package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"nomadpal/internal/events"
	"nomadpal/user-service/internal/models"
)

type ReviewService struct {
	users     UserRepository
	reviews   ReviewRepository
	publisher events.Publisher
	now       func() time.Time
}

func NewReviewService(users UserRepository, reviews ReviewRepository, publisher events.Publisher) *ReviewService {
	return &ReviewService{users: users, reviews: reviews, publisher: publisher, now: time.Now}
}

// CreateReview records reviewerID's review of targetID and notifies the
// target. The target's trust rating is left alone.
func (s *ReviewService) CreateReview(ctx context.Context, reviewerID, targetID string, req models.CreateReviewRequest) (*models.Review, error) {
	comment := strings.TrimSpace(req.Comment)
	switch {
	case req.Rating < 1 || req.Rating > 5:
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", models.ErrValidation)
	case comment == "":
		return nil, fmt.Errorf("%w: comment is required", models.ErrValidation)
	}

	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	// ids are compared and stored in canonical lower-case hex
	targetID = target.ID.Hex()
	if strings.EqualFold(reviewerID, targetID) {
		return nil, fmt.Errorf("%w: you cannot review yourself", models.ErrValidation)
	}

	exists, err := s.reviews.Exists(ctx, targetID, reviewerID)
	if err != nil {
		return nil, fmt.Errorf("check existing review: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("%w: you already reviewed %s", models.ErrDuplicate, target.Username)
	}

	review := &models.Review{
		TargetID:   targetID,
		ReviewerID: reviewerID,
		Rating:     req.Rating,
		Comment:    comment,
		CreatedAt:  s.now(),
	}
	if err := s.reviews.Insert(ctx, review); err != nil {
		return nil, err
	}

	ev := events.Event{
		Type:        events.TypeReviewReceived,
		RecipientID: targetID,
		ActorID:     reviewerID,
		Title:       "You received a new review",
		Message:     fmt.Sprintf("Someone rated you %d/5: %s", review.Rating, review.Comment),
		Metadata:    map[string]string{"review_id": review.ID.Hex()},
		CreatedAt:   review.CreatedAt,
	}
	if err := s.publisher.Publish(ctx, events.ChannelReview, ev); err != nil {
		log.Printf("[EVENTS] Failed to publish review_received: %v", err)
	}

	return review, nil
}

func (s *ReviewService) ListReviews(ctx context.Context, targetID string) ([]models.Review, error) {
	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	return s.reviews.FindByTarget(ctx, target.ID.Hex())
}
