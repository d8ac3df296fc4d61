package services

import (
	"context"
	"log"
	"time"
)

type CacheRefresher struct {
	postService PostService
	interval    time.Duration
}

func NewCacheRefresher(postService PostService, interval time.Duration) *CacheRefresher {
	return &CacheRefresher{
		postService: postService,
		interval:    interval,
	}
}

// Start rebuilds the feed cache on every tick until ctx is done.
func (cr *CacheRefresher) Start(ctx context.Context) {
	ticker := time.NewTicker(cr.interval)
	go func() {
		for {
			select {
			case <-ticker.C:
				cr.refresh(ctx)
			case <-ctx.Done():
				log.Println("[CACHE] Stopping feed cache refresher...")
				ticker.Stop()
				return
			}
		}
	}()
}

func (cr *CacheRefresher) refresh(ctx context.Context) {
	if err := cr.postService.RefreshFeedCache(ctx); err != nil {
		log.Printf("[CACHE] Failed to refresh feed cache: %v", err)
		return
	}
	log.Println("[CACHE] Successfully refreshed feed cache.")
}
