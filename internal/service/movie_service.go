// Package service wires the metadata client, favorites store, recommendation
// pipeline and chatbot client together.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"movie-companion-service/internal/filter"
	"movie-companion-service/internal/models"
	"movie-companion-service/internal/recommend"
	"movie-companion-service/internal/store"
)

const (
	searchCacheTTL = 5 * time.Minute
	detailCacheTTL = 30 * time.Minute
)

// MetadataClient is the slice of the OMDb client the service depends on.
type MetadataClient interface {
	Search(ctx context.Context, keyword string, page int) (*models.SearchResult, error)
	GetDetail(ctx context.Context, imdbID string) (*models.MovieDetail, error)
}

// ChatClient sends a prompt plus favorites context to the chatbot.
type ChatClient interface {
	Send(ctx context.Context, prompt string, favorites []models.MovieDetail) (string, error)
}

// RecommendationView is the recommendation listing with the facet values
// available for narrowing it further.
type RecommendationView struct {
	Recommendations []models.RecommendedMovie `json:"recommendations"`
	Available       filter.FacetValues        `json:"available_filters"`
	Total           int                       `json:"total"`
}

// MovieService handles business logic for search, favorites, recommendations
// and chat.
type MovieService struct {
	metadata  MetadataClient
	chat      ChatClient
	favorites *store.Favorites
	generator *recommend.Generator
	redis     *redis.Client

	// epoch guards against a stale regeneration overwriting a newer one.
	epoch atomic.Uint64

	recMu           sync.RWMutex
	recommendations []models.RecommendedMovie
}

// NewMovieService creates the service, registers the favorites change hook
// and computes the initial recommendation set from the hydrated favorites.
func NewMovieService(metadata MetadataClient, chat ChatClient, favorites *store.Favorites, rdb *redis.Client) *MovieService {
	s := &MovieService{
		metadata:  metadata,
		chat:      chat,
		favorites: favorites,
		generator: recommend.NewGenerator(metadata),
		redis:     rdb,
	}

	// Regenerate wholesale whenever the favorites list changes size.
	favorites.OnChange(func(snapshot []models.MovieDetail) {
		s.regenerate(context.Background(), snapshot)
	})
	s.regenerate(context.Background(), favorites.List())

	return s
}

// Search returns one page of metadata search results, served from the Redis
// cache when possible. Provider not-found errors pass through unchanged so
// the handler can distinguish them from transport failures.
func (s *MovieService) Search(ctx context.Context, query string, page int) (*models.SearchResult, error) {
	if page < 1 {
		page = 1
	}

	cacheKey := fmt.Sprintf("omdb:search:%s:%d", query, page)
	if cached, err := s.getFromCache(ctx, cacheKey); err == nil {
		var result models.SearchResult
		if json.Unmarshal([]byte(cached), &result) == nil {
			slog.Debug("cache hit", "key", cacheKey)
			return &result, nil
		}
	}

	result, err := s.metadata.Search(ctx, query, page)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(result); err == nil {
		s.setCache(ctx, cacheKey, string(data), searchCacheTTL)
	}
	return result, nil
}

// GetDetail returns the full detail record for an identifier, cached.
func (s *MovieService) GetDetail(ctx context.Context, imdbID string) (*models.MovieDetail, error) {
	cacheKey := "omdb:detail:" + imdbID
	if cached, err := s.getFromCache(ctx, cacheKey); err == nil {
		var detail models.MovieDetail
		if json.Unmarshal([]byte(cached), &detail) == nil {
			slog.Debug("cache hit", "key", cacheKey)
			return &detail, nil
		}
	}

	detail, err := s.metadata.GetDetail(ctx, imdbID)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(detail); err == nil {
		s.setCache(ctx, cacheKey, string(data), detailCacheTTL)
	}
	return detail, nil
}

// Favorites returns the favorites list narrowed by a free-text query.
func (s *MovieService) Favorites(query string) []models.MovieDetail {
	return filter.Favorites(s.favorites.List(), query)
}

// AddFavorite fetches the detail record for the identifier and stores it at
// the front of the favorites list. Duplicate adds are no-ops.
func (s *MovieService) AddFavorite(ctx context.Context, imdbID string) ([]models.MovieDetail, error) {
	detail, err := s.GetDetail(ctx, imdbID)
	if err != nil {
		return nil, fmt.Errorf("fetch detail for favorite: %w", err)
	}
	s.favorites.Add(ctx, *detail)
	return s.favorites.List(), nil
}

// RemoveFavorite removes the identifier from the favorites list.
func (s *MovieService) RemoveFavorite(ctx context.Context, imdbID string) []models.MovieDetail {
	s.favorites.Remove(ctx, imdbID)
	return s.favorites.List()
}

// Recommendations returns the current recommendation set narrowed by the
// free-text query and facet selections, along with the facet values the
// unfiltered set offers.
func (s *MovieService) Recommendations(query string, facets filter.Facets) RecommendationView {
	s.recMu.RLock()
	current := make([]models.RecommendedMovie, len(s.recommendations))
	copy(current, s.recommendations)
	s.recMu.RUnlock()

	filtered := filter.Recommendations(current, query, facets)
	return RecommendationView{
		Recommendations: filtered,
		Available:       filter.AvailableFacetValues(current),
		Total:           len(filtered),
	}
}

// Chat forwards the prompt plus the current favorites to the chatbot.
func (s *MovieService) Chat(ctx context.Context, prompt string) (string, error) {
	return s.chat.Send(ctx, prompt, s.favorites.List())
}

// regenerate discards the previous recommendation set and rebuilds it from
// the given favorites snapshot. A run that finishes after a newer one has
// started is discarded.
func (s *MovieService) regenerate(ctx context.Context, favorites []models.MovieDetail) {
	epoch := s.epoch.Add(1)

	recommendations := s.generator.Generate(ctx, favorites)

	s.recMu.Lock()
	defer s.recMu.Unlock()
	if epoch != s.epoch.Load() {
		slog.Debug("discarding stale recommendation run", "epoch", epoch)
		return
	}
	s.recommendations = recommendations
	slog.Info("recommendations regenerated",
		"favorites", len(favorites), "recommendations", len(recommendations))
}

// ---- Redis Helpers ----

func (s *MovieService) getFromCache(ctx context.Context, key string) (string, error) {
	if s.redis == nil {
		return "", fmt.Errorf("redis not available")
	}
	return s.redis.Get(ctx, key).Result()
}

func (s *MovieService) setCache(ctx context.Context, key, value string, ttl time.Duration) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Set(ctx, key, value, ttl).Err(); err != nil {
		slog.Error("failed to set cache", "key", key, "error", err)
	}
}
