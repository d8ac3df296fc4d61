package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"nomadpal/feed-service/internal/models"
	"nomadpal/internal/cache"
	"nomadpal/internal/events"
)

type fakePostRepo struct {
	mu        sync.Mutex
	posts     map[string]*models.Post
	finds     int
	conflicts int
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: map[string]*models.Post{}}
}

func clonePost(p *models.Post) *models.Post {
	cp := *p
	cp.Replies = append([]models.Reply(nil), p.Replies...)
	cp.Tags = append([]string(nil), p.Tags...)
	cp.Votes = map[string]string{}
	for k, v := range p.Votes {
		cp.Votes[k] = v
	}
	return &cp
}

func (r *fakePostRepo) Create(_ context.Context, p *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = primitive.NewObjectID()
	r.posts[p.ID.Hex()] = clonePost(p)
	return nil
}

func (r *fakePostRepo) GetByID(_ context.Context, id string) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return clonePost(p), nil
}

func (r *fakePostRepo) Find(_ context.Context, f models.PostFilter) ([]models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finds++
	out := []models.Post{}
	for _, p := range r.posts {
		if f.Type != "" && p.Type != f.Type {
			continue
		}
		if f.Location != "" && !strings.Contains(strings.ToLower(p.Location), strings.ToLower(f.Location)) {
			continue
		}
		if f.UserID != "" && p.UserID != f.UserID {
			continue
		}
		if f.Tag != "" {
			found := false
			for _, t := range p.Tags {
				found = found || t == strings.ToLower(f.Tag)
			}
			if !found {
				continue
			}
		}
		out = append(out, *clonePost(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakePostRepo) Update(_ context.Context, p *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[p.ID.Hex()]; !ok {
		return models.ErrNotFound
	}
	r.posts[p.ID.Hex()] = clonePost(p)
	return nil
}

func (r *fakePostRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.posts, id)
	return nil
}

func (r *fakePostRepo) AddReply(_ context.Context, id string, reply models.Reply) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return models.ErrNotFound
	}
	p.Replies = append(p.Replies, reply)
	return nil
}

func (r *fakePostRepo) SetReplyHelpful(_ context.Context, postID, replyID string, helpful bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[postID]
	if !ok {
		return models.ErrNotFound
	}
	for i := range p.Replies {
		if p.Replies[i].ID == replyID {
			p.Replies[i].Helpful = helpful
			return nil
		}
	}
	return models.ErrNotFound
}

func (r *fakePostRepo) ApplyVote(_ context.Context, postID, userID, from, to string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[postID]
	if !ok {
		return models.ErrNotFound
	}
	if r.conflicts > 0 {
		r.conflicts--
		return models.ErrConflict
	}
	current := p.Votes[userID]
	if current == "" {
		current = models.VoteNone
	}
	if current != from {
		return models.ErrConflict
	}
	switch from {
	case models.VoteUp:
		p.Upvotes--
	case models.VoteDown:
		p.Downvotes--
	}
	switch to {
	case models.VoteUp:
		p.Upvotes++
	case models.VoteDown:
		p.Downvotes++
	}
	if p.Votes == nil {
		p.Votes = map[string]string{}
	}
	if to == models.VoteNone {
		delete(p.Votes, userID)
	} else {
		p.Votes[userID] = to
	}
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, _ string, ev events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

type fixture struct {
	svc  *postService
	repo *fakePostRepo
	mem  *cache.Memory
	pub  *recordingPublisher
	loc  LocationService
}

func newFixture() *fixture {
	repo := newFakePostRepo()
	mem := cache.NewMemory()
	pub := &recordingPublisher{}
	loc := NewLocationService(mem)
	svc := NewPostService(repo, mem, loc, pub).(*postService)
	return &fixture{svc: svc, repo: repo, mem: mem, pub: pub, loc: loc}
}

func (f *fixture) create(t *testing.T, userID string, req models.PostRequest) *models.Post {
	t.Helper()
	p, err := f.svc.CreatePost(context.Background(), userID, req)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	return p
}

func TestCreatePostDefaults(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	p := f.create(t, "u1", models.PostRequest{Type: "question", Title: "Van to Port Barton?", Content: "Anyone?", Tags: models.TagList{"Transport, ,VAN-share"}})
	if p.Location != models.DefaultLocation {
		t.Errorf("location = %q", p.Location)
	}
	if strings.Join(p.Tags, ",") != "transport,van-share" {
		t.Errorf("tags = %v", p.Tags)
	}
	if p.Upvotes != 0 || p.Downvotes != 0 || len(p.Replies) != 0 || p.TimeAgo != "Just now" {
		t.Errorf("unexpected post %+v", p)
	}

	if _, err := f.loc.Set(ctx, "u2", "Bali, Indonesia"); err != nil {
		t.Fatal(err)
	}
	p = f.create(t, "u2", models.PostRequest{Type: "offer", Title: "Sunrise hike", Content: "Join me"})
	if p.Location != "Bali, Indonesia" {
		t.Errorf("location from current location = %q", p.Location)
	}

	p = f.create(t, "u2", models.PostRequest{Type: "offer", Title: "Visa run", Content: "x", Location: "Siem Reap"})
	if p.Location != "Siem Reap" {
		t.Errorf("explicit location = %q", p.Location)
	}
}

func TestListPostsNewestFirstAndFilters(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	for i, req := range []models.PostRequest{
		{Type: "question", Title: "A", Content: "a", Location: "El Nido", Tags: models.TagList{"transport"}},
		{Type: "offer", Title: "B", Content: "b", Location: "Bali", Tags: models.TagList{"hiking"}},
		{Type: "question", Title: "C", Content: "c", Location: "Bali", Tags: models.TagList{"visa"}},
	} {
		f.svc.now = func() time.Time { return base.Add(time.Duration(i) * time.Hour) }
		f.create(t, "u1", req)
	}
	f.svc.now = func() time.Time { return base.Add(50 * time.Hour) }

	titles := func(ps []models.Post) string {
		var out []string
		for _, p := range ps {
			out = append(out, p.Title)
		}
		return strings.Join(out, "")
	}

	cases := []struct {
		filter models.PostFilter
		want   string
	}{
		{models.PostFilter{}, "CBA"},
		{models.PostFilter{Type: "all"}, "CBA"},
		{models.PostFilter{Type: "question"}, "CA"},
		{models.PostFilter{Location: "bali"}, "CB"},
		{models.PostFilter{Tag: "HIKING"}, "B"},
		{models.PostFilter{UserID: "nobody"}, ""},
	}
	for _, tc := range cases {
		got, err := f.svc.ListPosts(ctx, tc.filter)
		if err != nil {
			t.Fatal(err)
		}
		if titles(got) != tc.want {
			t.Errorf("%+v: got %q, want %q", tc.filter, titles(got), tc.want)
		}
	}

	all, _ := f.svc.ListPosts(ctx, models.PostFilter{})
	if all[0].TimeAgo != "2d ago" {
		t.Errorf("time_ago = %q", all[0].TimeAgo)
	}
}

func TestFeedCacheInvalidatedOnWrite(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.create(t, "u1", models.PostRequest{Type: "question", Title: "A", Content: "a"})

	_, _ = f.svc.ListPosts(ctx, models.PostFilter{})
	_, _ = f.svc.ListPosts(ctx, models.PostFilter{})
	if f.repo.finds != 1 {
		t.Fatalf("expected cached second read, repo hit %d times", f.repo.finds)
	}

	f.create(t, "u1", models.PostRequest{Type: "question", Title: "B", Content: "b"})
	posts, _ := f.svc.ListPosts(ctx, models.PostFilter{})
	if len(posts) != 2 || f.repo.finds != 2 {
		t.Errorf("expected fresh read after write: %d posts, %d finds", len(posts), f.repo.finds)
	}

	if err := f.svc.RefreshFeedCache(ctx); err != nil {
		t.Fatal(err)
	}
	if !f.mem.Exists(ctx, f.svc.feedKey(ctx)) {
		t.Error("refresh did not populate the cache")
	}
}

// racingRepo runs during once, after a Find has read the posts.
type racingRepo struct {
	*fakePostRepo
	during func()
}

func (r *racingRepo) Find(ctx context.Context, filter models.PostFilter) ([]models.Post, error) {
	out, err := r.fakePostRepo.Find(ctx, filter)
	if d := r.during; d != nil {
		r.during = nil
		d()
	}
	return out, err
}

func TestFeedCacheIgnoresReadsOverlappingWrites(t *testing.T) {
	ctx := context.Background()
	mem := cache.NewMemory()
	repo := &racingRepo{fakePostRepo: newFakePostRepo()}
	svc := NewPostService(repo, mem, NewLocationService(mem), &recordingPublisher{}).(*postService)

	if _, err := svc.CreatePost(ctx, "u1", models.PostRequest{Type: "question", Title: "A", Content: "a"}); err != nil {
		t.Fatal(err)
	}
	repo.during = func() {
		if _, err := svc.CreatePost(ctx, "u1", models.PostRequest{Type: "question", Title: "B", Content: "b"}); err != nil {
			t.Errorf("create during read: %v", err)
		}
	}

	if _, err := svc.ListPosts(ctx, models.PostFilter{}); err != nil {
		t.Fatal(err)
	}
	posts, err := svc.ListPosts(ctx, models.PostFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(posts) != 2 {
		t.Errorf("stale feed served after write: %d posts", len(posts))
	}

	repo.during = func() {
		if _, err := svc.CreatePost(ctx, "u1", models.PostRequest{Type: "question", Title: "C", Content: "c"}); err != nil {
			t.Errorf("create during refresh: %v", err)
		}
	}
	if err := svc.RefreshFeedCache(ctx); err != nil {
		t.Fatal(err)
	}
	posts, _ = svc.ListPosts(ctx, models.PostFilter{})
	if len(posts) != 3 {
		t.Errorf("stale refresh served after write: %d posts", len(posts))
	}
}

func TestUpdatePostReplacesLocation(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	p := f.create(t, "owner", models.PostRequest{Type: "question", Title: "A", Content: "a", Location: "El Nido, Philippines"})
	if _, err := f.loc.Set(ctx, "owner", "Bali, Indonesia"); err != nil {
		t.Fatal(err)
	}

	got, err := f.svc.UpdatePost(ctx, "owner", p.ID.Hex(), models.PostRequest{Type: "question", Title: "A", Content: "a"})
	if err != nil {
		t.Fatal(err)
	}
	if got.Location != "Bali, Indonesia" {
		t.Errorf("location = %q, want the owner's current location", got.Location)
	}

	got, err = f.svc.UpdatePost(ctx, "owner", p.ID.Hex(), models.PostRequest{Type: "question", Title: "A", Content: "a", Location: " Port Barton "})
	if err != nil {
		t.Fatal(err)
	}
	if got.Location != "Port Barton" {
		t.Errorf("location = %q", got.Location)
	}
}

func TestOwnerOnlyOperations(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	p := f.create(t, "owner", models.PostRequest{Type: "question", Title: "A", Content: "a", Tags: models.TagList{"x"}})
	id := p.ID.Hex()

	upd := models.PostRequest{Type: "review", Title: "A2", Content: "a2", Tags: models.TagList{"Y"}}
	if _, err := f.svc.UpdatePost(ctx, "other", id, upd); !errors.Is(err, models.ErrForbidden) {
		t.Errorf("update by other: %v", err)
	}
	got, err := f.svc.UpdatePost(ctx, "owner", id, upd)
	if err != nil {
		t.Fatal(err)
	}
	if got.Type != "review" || got.Title != "A2" || strings.Join(got.Tags, ",") != "y" || got.Location != models.DefaultLocation {
		t.Errorf("unexpected update %+v", got)
	}

	reply, err := f.svc.AddReply(ctx, "other", id, "Take the 9am van")
	if err != nil {
		t.Fatal(err)
	}
	if err := f.svc.SetHelpful(ctx, "other", id, reply.ID, true); !errors.Is(err, models.ErrForbidden) {
		t.Errorf("helpful by non-owner: %v", err)
	}
	if err := f.svc.SetHelpful(ctx, "owner", id, reply.ID, true); err != nil {
		t.Errorf("helpful by owner: %v", err)
	}
	post, _ := f.svc.GetPost(ctx, id)
	if !post.Replies[0].Helpful {
		t.Error("reply not marked helpful")
	}

	if err := f.svc.DeletePost(ctx, "other", id); !errors.Is(err, models.ErrForbidden) {
		t.Errorf("delete by other: %v", err)
	}
	if err := f.svc.DeletePost(ctx, "owner", id); err != nil {
		t.Errorf("delete by owner: %v", err)
	}
	if _, err := f.svc.GetPost(ctx, id); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("expected deleted post to be gone, got %v", err)
	}
}

func TestAddReplyNotifiesOwnerOnly(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	p := f.create(t, "owner", models.PostRequest{Type: "question", Title: "A", Content: "a"})
	id := p.ID.Hex()

	if _, err := f.svc.AddReply(ctx, "owner", id, "bump"); err != nil {
		t.Fatal(err)
	}
	reply, err := f.svc.AddReply(ctx, "helper", id, "Try the ferry")
	if err != nil {
		t.Fatal(err)
	}
	if reply.ID == "" || reply.Helpful {
		t.Errorf("unexpected reply %+v", reply)
	}
	if _, err := f.svc.AddReply(ctx, "helper", id, "   "); !errors.Is(err, models.ErrValidation) {
		t.Errorf("blank reply: %v", err)
	}

	if len(f.pub.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(f.pub.events))
	}
	ev := f.pub.events[0]
	if ev.Type != events.TypeReplyAdded || ev.RecipientID != "owner" || ev.ActorID != "helper" || ev.Metadata["post_id"] != id {
		t.Errorf("unexpected event %+v", ev)
	}

	post, _ := f.svc.GetPost(ctx, id)
	if len(post.Replies) != 2 || post.Replies[1].Content != "Try the ferry" {
		t.Errorf("replies not appended in order: %+v", post.Replies)
	}
}

func TestVoteSwitchingAndRetraction(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	id := f.create(t, "owner", models.PostRequest{Type: "question", Title: "A", Content: "a"}).ID.Hex()

	steps := []struct {
		user, dir string
		up, down  int
	}{
		{"u1", "up", 1, 0},
		{"u1", "up", 1, 0},
		{"u2", "up", 2, 0},
		{"u1", "down", 1, 1},
		{"u1", "none", 1, 0},
		{"u1", "none", 1, 0},
		{"u2", "down", 0, 1},
	}
	for i, s := range steps {
		p, err := f.svc.Vote(ctx, s.user, id, s.dir)
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if p.Upvotes != s.up || p.Downvotes != s.down {
			t.Errorf("step %d (%s %s): got %d/%d, want %d/%d", i, s.user, s.dir, p.Upvotes, p.Downvotes, s.up, s.down)
		}
	}

	if _, err := f.svc.Vote(ctx, "u1", id, "sideways"); !errors.Is(err, models.ErrValidation) {
		t.Errorf("bad direction: %v", err)
	}
}

func TestVoteRetriesOnConflict(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	id := f.create(t, "owner", models.PostRequest{Type: "question", Title: "A", Content: "a"}).ID.Hex()

	f.repo.conflicts = 2
	p, err := f.svc.Vote(ctx, "u1", id, "up")
	if err != nil || p.Upvotes != 1 {
		t.Fatalf("expected vote after retries: %v %+v", err, p)
	}

	f.repo.conflicts = voteAttempts
	if _, err := f.svc.Vote(ctx, "u1", id, "down"); !errors.Is(err, models.ErrConflict) {
		t.Errorf("expected ErrConflict after exhausting retries, got %v", err)
	}
}

func TestLocationDefault(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	if got := f.loc.Get(ctx, "u1"); got != models.DefaultLocation {
		t.Errorf("default = %q", got)
	}
	if _, err := f.loc.Set(ctx, "u1", "  Coron  "); err != nil {
		t.Fatal(err)
	}
	if got := f.loc.Get(ctx, "u1"); got != "Coron" {
		t.Errorf("got %q", got)
	}
}
