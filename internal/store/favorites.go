package store

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"movie-companion-service/internal/models"
)

// FavoritesKey is the fixed key the serialized favorites list lives under.
const FavoritesKey = "movie:favorites"

// ChangeHook is invoked with a snapshot of the favorites after any mutation
// that changed the list's size.
type ChangeHook func(favorites []models.MovieDetail)

// Favorites is the ordered, deduplicated favorites list. New entries are
// prepended; every mutation is written through the KV port.
type Favorites struct {
	kv KV

	mu      sync.RWMutex
	entries []models.MovieDetail
	hooks   []ChangeHook
}

// NewFavorites creates the store and hydrates it from the KV. A missing,
// malformed or unreadable record yields an empty list, never an error.
func NewFavorites(ctx context.Context, kv KV) *Favorites {
	s := &Favorites{kv: kv}

	raw, found, err := kv.Get(ctx, FavoritesKey)
	if err != nil {
		slog.Warn("could not load favorites, starting empty", "error", err)
		return s
	}
	if !found {
		return s
	}
	if err := json.Unmarshal([]byte(raw), &s.entries); err != nil {
		slog.Warn("stored favorites are malformed, starting empty", "error", err)
		s.entries = nil
	}
	return s
}

// OnChange registers a hook fired after every size-changing mutation.
func (s *Favorites) OnChange(hook ChangeHook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, hook)
}

// List returns a snapshot of the favorites, most recently added first.
func (s *Favorites) List() []models.MovieDetail {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot()
}

// Len returns the number of favorites.
func (s *Favorites) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Add prepends the detail record if its identifier is new and persists the
// list. Duplicate adds are no-ops. Reports whether the list changed.
func (s *Favorites) Add(ctx context.Context, detail models.MovieDetail) bool {
	s.mu.Lock()
	for _, e := range s.entries {
		if e.ImdbID == detail.ImdbID {
			s.mu.Unlock()
			return false
		}
	}
	s.entries = append([]models.MovieDetail{detail}, s.entries...)
	snapshot := s.snapshot()
	s.mu.Unlock()

	s.persist(ctx, snapshot)
	s.fireHooks(snapshot)
	return true
}

// Remove deletes the entry with the given identifier if present. The list is
// persisted either way. Reports whether the list changed.
func (s *Favorites) Remove(ctx context.Context, imdbID string) bool {
	s.mu.Lock()
	kept := s.entries[:0:0]
	removed := false
	for _, e := range s.entries {
		if e.ImdbID == imdbID {
			removed = true
			continue
		}
		kept = append(kept, e)
	}
	s.entries = kept
	snapshot := s.snapshot()
	s.mu.Unlock()

	s.persist(ctx, snapshot)
	if removed {
		s.fireHooks(snapshot)
	}
	return removed
}

// snapshot copies the entries; callers must hold at least a read lock.
func (s *Favorites) snapshot() []models.MovieDetail {
	out := make([]models.MovieDetail, len(s.entries))
	copy(out, s.entries)
	return out
}

// persist writes the full list through the KV port. Write failures are
// logged, never surfaced.
func (s *Favorites) persist(ctx context.Context, favorites []models.MovieDetail) {
	data, err := json.Marshal(favorites)
	if err != nil {
		slog.Error("failed to encode favorites", "error", err)
		return
	}
	if err := s.kv.Set(ctx, FavoritesKey, string(data)); err != nil {
		slog.Error("failed to persist favorites", "error", err)
	}
}

func (s *Favorites) fireHooks(favorites []models.MovieDetail) {
	s.mu.RLock()
	hooks := make([]ChangeHook, len(s.hooks))
	copy(hooks, s.hooks)
	s.mu.RUnlock()

	for _, hook := range hooks {
		hook(favorites)
	}
}
