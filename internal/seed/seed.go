// Package seed loads and clears the NomadPal demo dataset.
package seed

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Collections lists everything reset drops.
var Collections = []string{
	"users",
	"posts",
	"reviews",
	"services",
	"concierge_messages",
	"media",
	"notifications",
}

type User struct {
	Name          string    `bson:"name"`
	Username      string    `bson:"username"`
	UsernameLower string    `bson:"username_lower"`
	Email         string    `bson:"email"`
	EmailLower    string    `bson:"email_lower"`
	Password      string    `bson:"password"`
	Avatar        string    `bson:"avatar"`
	Location      string    `bson:"location"`
	TrustRating   float64   `bson:"trust_rating"`
	Verified      bool      `bson:"verified"`
	MemberSince   time.Time `bson:"member_since"`
	Badges        []string  `bson:"badges"`
	Bio           string    `bson:"bio"`
	Specialties   []string  `bson:"specialties"`
	Languages     []string  `bson:"languages"`
	MemberType    string    `bson:"member_type"`
	Role          string    `bson:"role"`
	LastActive    time.Time `bson:"last_active"`
}

type Reply struct {
	ID        string    `bson:"id"`
	UserID    string    `bson:"user_id"`
	Content   string    `bson:"content"`
	CreatedAt time.Time `bson:"created_at"`
	Helpful   bool      `bson:"helpful"`
}

type Post struct {
	UserID    string            `bson:"user_id"`
	Type      string            `bson:"type"`
	Title     string            `bson:"title"`
	Content   string            `bson:"content"`
	Location  string            `bson:"location"`
	Tags      []string          `bson:"tags"`
	CreatedAt time.Time         `bson:"created_at"`
	UpdatedAt time.Time         `bson:"updated_at"`
	Replies   []Reply           `bson:"replies"`
	Upvotes   int               `bson:"upvotes"`
	Downvotes int               `bson:"downvotes"`
	Votes     map[string]string `bson:"votes,omitempty"`
}

type Review struct {
	TargetID   string    `bson:"target_id"`
	ReviewerID string    `bson:"reviewer_id"`
	Rating     int       `bson:"rating"`
	Comment    string    `bson:"comment"`
	CreatedAt  time.Time `bson:"created_at"`
}

type Service struct {
	ProviderID  string    `bson:"provider_id"`
	Type        string    `bson:"type"`
	Title       string    `bson:"title"`
	Description string    `bson:"description"`
	Price       float64   `bson:"price"`
	Currency    string    `bson:"currency"`
	Duration    string    `bson:"duration,omitempty"`
	Location    string    `bson:"location"`
	Rating      float64   `bson:"rating"`
	Verified    bool      `bson:"verified"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

// UserSummary is one row of the users listing.
type UserSummary struct {
	ID          string  `bson:"-"`
	Username    string  `bson:"username"`
	Name        string  `bson:"name"`
	Location    string  `bson:"location"`
	TrustRating float64 `bson:"trust_rating"`
	Verified    bool    `bson:"verified"`
	MemberType  string  `bson:"member_type"`
	Role        string  `bson:"role"`
}

type Store interface {
	FindUserID(ctx context.Context, usernameLower string) (string, bool, error)
	InsertUser(ctx context.Context, u User) (string, error)
	PostExists(ctx context.Context, title string) (bool, error)
	InsertPost(ctx context.Context, p Post) error
	ReviewExists(ctx context.Context, reviewerID, targetID string) (bool, error)
	InsertReview(ctx context.Context, r Review) error
	ServiceExists(ctx context.Context, providerID, title string) (bool, error)
	InsertService(ctx context.Context, s Service) error
	Drop(ctx context.Context, collections []string) error
	// EnsureIndexes recreates the unique indexes the services rely on, which
	// a drop removes along with the collection.
	EnsureIndexes(ctx context.Context) error
	ListUsers(ctx context.Context) ([]UserSummary, error)
}

// Report counts the documents a Run inserted.
type Report struct {
	Users    int
	Posts    int
	Reviews  int
	Services int
}

func (r Report) String() string {
	return fmt.Sprintf("users=%d posts=%d reviews=%d services=%d", r.Users, r.Posts, r.Reviews, r.Services)
}

type Seeder struct {
	store Store
	cost  int
	now   func() time.Time
	newID func() string
}

func NewSeeder(store Store) *Seeder {
	return &Seeder{
		store: store,
		cost:  bcrypt.DefaultCost,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Run inserts whatever part of the demo dataset is missing. Users are
// matched by username, posts by title, reviews by reviewer and target and
// services by provider and title.
func (s *Seeder) Run(ctx context.Context) (Report, error) {
	var report Report
	if err := s.store.EnsureIndexes(ctx); err != nil {
		return report, fmt.Errorf("seed indexes: %w", err)
	}
	ids := make(map[string]string, len(demoUsers))

	for _, u := range demoUsers {
		id, created, err := s.ensureUser(ctx, u)
		if err != nil {
			return report, fmt.Errorf("seed user %s: %w", u.Username, err)
		}
		ids[u.Username] = id
		if created {
			report.Users++
		}
	}

	for _, p := range demoPosts {
		exists, err := s.store.PostExists(ctx, p.Title)
		if err != nil {
			return report, fmt.Errorf("seed post %q: %w", p.Title, err)
		}
		if exists {
			continue
		}
		if err := s.store.InsertPost(ctx, s.buildPost(p, ids)); err != nil {
			return report, fmt.Errorf("seed post %q: %w", p.Title, err)
		}
		report.Posts++
	}

	for _, r := range demoReviews {
		reviewerID, targetID := ids[r.Reviewer], ids[r.Target]
		exists, err := s.store.ReviewExists(ctx, reviewerID, targetID)
		if err != nil {
			return report, fmt.Errorf("seed review %s->%s: %w", r.Reviewer, r.Target, err)
		}
		if exists {
			continue
		}
		review := Review{
			TargetID:   targetID,
			ReviewerID: reviewerID,
			Rating:     r.Rating,
			Comment:    r.Comment,
			CreatedAt:  s.now().UTC(),
		}
		if err := s.store.InsertReview(ctx, review); err != nil {
			return report, fmt.Errorf("seed review %s->%s: %w", r.Reviewer, r.Target, err)
		}
		report.Reviews++
	}

	for _, svc := range demoServices {
		providerID := ids[svc.Provider]
		exists, err := s.store.ServiceExists(ctx, providerID, svc.Title)
		if err != nil {
			return report, fmt.Errorf("seed service %q: %w", svc.Title, err)
		}
		if exists {
			continue
		}
		now := s.now().UTC()
		doc := Service{
			ProviderID:  providerID,
			Type:        svc.Type,
			Title:       svc.Title,
			Description: svc.Description,
			Price:       svc.Price,
			Currency:    svc.Currency,
			Duration:    svc.Duration,
			Location:    svc.Location,
			Rating:      svc.Rating,
			Verified:    svc.Verified,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.store.InsertService(ctx, doc); err != nil {
			return report, fmt.Errorf("seed service %q: %w", svc.Title, err)
		}
		report.Services++
	}

	return report, nil
}

func (s *Seeder) ensureUser(ctx context.Context, u userSeed) (string, bool, error) {
	lower := strings.ToLower(u.Username)
	id, found, err := s.store.FindUserID(ctx, lower)
	if err != nil || found {
		return id, false, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), s.cost)
	if err != nil {
		return "", false, err
	}
	avatar := u.Avatar
	if avatar == "" {
		avatar = "https://ui-avatars.com/api/?name=" + strings.ReplaceAll(u.Name, " ", "+")
	}

	id, err = s.store.InsertUser(ctx, User{
		Name:          u.Name,
		Username:      u.Username,
		UsernameLower: lower,
		Email:         u.Email,
		EmailLower:    strings.ToLower(u.Email),
		Password:      string(hashed),
		Avatar:        avatar,
		Location:      u.Location,
		TrustRating:   u.TrustRating,
		Verified:      u.Verified,
		MemberSince:   u.MemberSince,
		Badges:        u.Badges,
		Bio:           u.Bio,
		Specialties:   u.Specialties,
		Languages:     u.Languages,
		MemberType:    u.MemberType,
		Role:          u.Role,
		LastActive:    s.now().UTC(),
	})
	if err != nil {
		return "", false, err
	}
	return id, true, nil
}

// buildPost resolves usernames to ids and derives the vote counters from
// the votes map.
func (s *Seeder) buildPost(p postSeed, ids map[string]string) Post {
	post := Post{
		UserID:    ids[p.Author],
		Type:      p.Type,
		Title:     p.Title,
		Content:   p.Content,
		Location:  p.Location,
		Tags:      p.Tags,
		CreatedAt: p.At,
		UpdatedAt: p.At,
		Replies:   []Reply{},
		Votes:     map[string]string{},
	}
	for _, r := range p.Replies {
		at := p.At.Add(r.Offset)
		post.Replies = append(post.Replies, Reply{
			ID:        s.newID(),
			UserID:    ids[r.Author],
			Content:   r.Content,
			CreatedAt: at,
			Helpful:   r.Helpful,
		})
		if at.After(post.UpdatedAt) {
			post.UpdatedAt = at
		}
	}
	for voter, dir := range p.Votes {
		post.Votes[ids[voter]] = dir
		if dir == "up" {
			post.Upvotes++
		} else {
			post.Downvotes++
		}
	}
	return post
}

// Reset drops every NomadPal collection and restores the unique indexes so
// the services keep enforcing uniqueness before the next seed.
func Reset(ctx context.Context, store Store) error {
	if err := store.Drop(ctx, Collections); err != nil {
		return err
	}
	return store.EnsureIndexes(ctx)
}
