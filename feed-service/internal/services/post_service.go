package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"nomadpal/feed-service/internal/models"
	"nomadpal/feed-service/internal/repository"
	"nomadpal/internal/cache"
	"nomadpal/internal/events"
)

const (
	// feedVersionKey names the current generation of the cached feed. Writes
	// move it forward so a list read before the write can never be served
	// after it.
	feedVersionKey = "feed:version"
	feedCacheKey   = "feed:all"
	feedCacheTTL   = 10 * time.Minute
	voteAttempts   = 3
)

type PostService interface {
	ListPosts(ctx context.Context, filter models.PostFilter) ([]models.Post, error)
	GetPost(ctx context.Context, id string) (*models.Post, error)
	CreatePost(ctx context.Context, userID string, req models.PostRequest) (*models.Post, error)
	UpdatePost(ctx context.Context, userID, id string, req models.PostRequest) (*models.Post, error)
	DeletePost(ctx context.Context, userID, id string) error
	AddReply(ctx context.Context, userID, postID, content string) (*models.Reply, error)
	SetHelpful(ctx context.Context, userID, postID, replyID string, helpful bool) error
	Vote(ctx context.Context, userID, postID, direction string) (*models.Post, error)
	RefreshFeedCache(ctx context.Context) error
}

type postService struct {
	repo      repository.PostRepository
	cache     cache.Cache
	locations LocationService
	publisher events.Publisher
	now       func() time.Time
}

func NewPostService(repo repository.PostRepository, c cache.Cache, locations LocationService, publisher events.Publisher) PostService {
	return &postService{
		repo:      repo,
		cache:     c,
		locations: locations,
		publisher: publisher,
		now:       time.Now,
	}
}

func (s *postService) ListPosts(ctx context.Context, filter models.PostFilter) ([]models.Post, error) {
	if filter.Type == "all" {
		filter.Type = ""
	}

	var posts []models.Post
	var key string
	if filter.IsEmpty() {
		key = s.feedKey(ctx)
		if err := s.cache.Get(ctx, key, &posts); err != nil {
			if !errors.Is(err, cache.ErrCacheMiss) {
				log.Printf("[CACHE] Failed to read %s: %v", key, err)
			}
			posts = nil
		}
	}

	if posts == nil {
		var err error
		posts, err = s.repo.Find(ctx, filter)
		if err != nil {
			return nil, err
		}
		if key != "" {
			if err := s.cache.Set(ctx, key, posts, feedCacheTTL); err != nil {
				log.Printf("[CACHE] Failed to set %s: %v", key, err)
			}
		}
	}

	now := s.now()
	for i := range posts {
		s.decorate(&posts[i], now)
	}
	return posts, nil
}

func (s *postService) GetPost(ctx context.Context, id string) (*models.Post, error) {
	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.decorate(post, s.now())
	return post, nil
}

func (s *postService) decorate(post *models.Post, now time.Time) {
	post.TimeAgo = models.TimeAgo(post.CreatedAt, now)
	if post.Replies == nil {
		post.Replies = []models.Reply{}
	}
	if post.Tags == nil {
		post.Tags = []string{}
	}
}

func (s *postService) CreatePost(ctx context.Context, userID string, req models.PostRequest) (*models.Post, error) {
	location := strings.TrimSpace(req.Location)
	if location == "" {
		location = s.locations.Get(ctx, userID)
	}

	now := s.now()
	post := &models.Post{
		UserID:    userID,
		Type:      req.Type,
		Title:     strings.TrimSpace(req.Title),
		Content:   strings.TrimSpace(req.Content),
		Location:  location,
		Tags:      models.NormalizeTags(req.Tags),
		CreatedAt: now,
		UpdatedAt: now,
		Replies:   []models.Reply{},
	}
	if post.Title == "" || post.Content == "" {
		return nil, fmt.Errorf("%w: title and content are required", models.ErrValidation)
	}

	if err := s.repo.Create(ctx, post); err != nil {
		return nil, err
	}
	s.invalidateFeed(ctx)

	s.decorate(post, now)
	return post, nil
}

// UpdatePost replaces the editable fields. Only the owner may edit. An
// empty location falls back to the owner's current location, as on create.
func (s *postService) UpdatePost(ctx context.Context, userID, id string, req models.PostRequest) (*models.Post, error) {
	post, err := s.ownedPost(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	post.Type = req.Type
	post.Title = strings.TrimSpace(req.Title)
	post.Content = strings.TrimSpace(req.Content)
	post.Tags = models.NormalizeTags(req.Tags)
	post.Location = strings.TrimSpace(req.Location)
	if post.Location == "" {
		post.Location = s.locations.Get(ctx, userID)
	}
	if post.Title == "" || post.Content == "" {
		return nil, fmt.Errorf("%w: title and content are required", models.ErrValidation)
	}

	if err := s.repo.Update(ctx, post); err != nil {
		return nil, err
	}
	s.invalidateFeed(ctx)

	s.decorate(post, s.now())
	return post, nil
}

func (s *postService) DeletePost(ctx context.Context, userID, id string) error {
	if _, err := s.ownedPost(ctx, userID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateFeed(ctx)
	return nil
}

// AddReply appends a reply and tells the post owner about it.
func (s *postService) AddReply(ctx context.Context, userID, postID, content string) (*models.Reply, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: reply content is required", models.ErrValidation)
	}

	post, err := s.repo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	reply := models.Reply{
		ID:        uuid.NewString(),
		UserID:    userID,
		Content:   content,
		CreatedAt: s.now(),
	}
	if err := s.repo.AddReply(ctx, postID, reply); err != nil {
		return nil, err
	}
	s.invalidateFeed(ctx)

	if post.UserID != userID {
		ev := events.Event{
			Type:        events.TypeReplyAdded,
			RecipientID: post.UserID,
			ActorID:     userID,
			Title:       "New reply on your post",
			Message:     fmt.Sprintf("Someone replied to %q", post.Title),
			Metadata:    map[string]string{"post_id": postID, "reply_id": reply.ID},
			CreatedAt:   reply.CreatedAt,
		}
		if err := s.publisher.Publish(ctx, events.ChannelFeed, ev); err != nil {
			log.Printf("[EVENTS] Failed to publish reply_added: %v", err)
		}
	}

	return &reply, nil
}

func (s *postService) SetHelpful(ctx context.Context, userID, postID, replyID string, helpful bool) error {
	if _, err := s.ownedPost(ctx, userID, postID); err != nil {
		return err
	}
	if err := s.repo.SetReplyHelpful(ctx, postID, replyID, helpful); err != nil {
		return err
	}
	s.invalidateFeed(ctx)
	return nil
}

// Vote records userID's single vote on a post. Switching direction moves the
// vote between counters and VoteNone retracts it.
func (s *postService) Vote(ctx context.Context, userID, postID, direction string) (*models.Post, error) {
	switch direction {
	case models.VoteUp, models.VoteDown, models.VoteNone:
	default:
		return nil, fmt.Errorf("%w: direction must be up, down or none", models.ErrValidation)
	}

	for attempt := 0; attempt < voteAttempts; attempt++ {
		post, err := s.repo.GetByID(ctx, postID)
		if err != nil {
			return nil, err
		}

		current := post.Votes[userID]
		if current == "" {
			current = models.VoteNone
		}
		if current == direction {
			s.decorate(post, s.now())
			return post, nil
		}

		err = s.repo.ApplyVote(ctx, postID, userID, current, direction)
		if errors.Is(err, models.ErrConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}
		s.invalidateFeed(ctx)
		return s.GetPost(ctx, postID)
	}
	return nil, fmt.Errorf("%w: vote on %s", models.ErrConflict, postID)
}

func (s *postService) RefreshFeedCache(ctx context.Context) error {
	key := s.feedKey(ctx)
	posts, err := s.repo.Find(ctx, models.PostFilter{})
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, key, posts, feedCacheTTL)
}

// feedKey must be read before the posts it will cache.
func (s *postService) feedKey(ctx context.Context) string {
	var version string
	if err := s.cache.Get(ctx, feedVersionKey, &version); err != nil && !errors.Is(err, cache.ErrCacheMiss) {
		log.Printf("[CACHE] Failed to read %s: %v", feedVersionKey, err)
	}
	return feedCacheKey + ":" + version
}

func (s *postService) ownedPost(ctx context.Context, userID, id string) (*models.Post, error) {
	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.UserID != userID {
		return nil, fmt.Errorf("%w: only the author can change this post", models.ErrForbidden)
	}
	return post, nil
}

func (s *postService) invalidateFeed(ctx context.Context) {
	if err := s.cache.Set(ctx, feedVersionKey, uuid.NewString(), 0); err != nil {
		log.Printf("[CACHE] Failed to invalidate %s: %v", feedCacheKey, err)
	}
}
