package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"movie-companion-service/internal/filter"
	"movie-companion-service/internal/models"
	"movie-companion-service/internal/omdb"
	"movie-companion-service/internal/store"
)

// fakeMetadata serves one canned search page for every keyword and canned
// detail records by identifier.
type fakeMetadata struct {
	page        *models.SearchResult
	details     map[string]*models.MovieDetail
	searchErr   error
	searchCalls int
}

func (f *fakeMetadata) Search(context.Context, string, int) (*models.SearchResult, error) {
	f.searchCalls++
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.page, nil
}

func (f *fakeMetadata) GetDetail(_ context.Context, imdbID string) (*models.MovieDetail, error) {
	d, ok := f.details[imdbID]
	if !ok {
		return nil, fmt.Errorf("%w: no such id", omdb.ErrNotFound)
	}
	return d, nil
}

type fakeChat struct {
	reply string
	err   error
	sent  []models.MovieDetail
}

func (f *fakeChat) Send(_ context.Context, _ string, favorites []models.MovieDetail) (string, error) {
	f.sent = favorites
	return f.reply, f.err
}

func newTestService(t *testing.T) (*MovieService, *fakeMetadata, *fakeChat) {
	t.Helper()

	metadata := &fakeMetadata{
		page: &models.SearchResult{
			Movies: []models.MovieSummary{
				{ImdbID: "rec1", Title: "Rec One", Year: "2011", Type: "movie"},
				{ImdbID: "rec2", Title: "Rec Two", Year: "2012", Type: "movie"},
				{ImdbID: "tt-fav", Title: "The Favorite", Year: "2015", Type: "movie"},
			},
			TotalResults: 3,
		},
		details: map[string]*models.MovieDetail{
			"tt-fav": {
				MovieSummary: models.MovieSummary{ImdbID: "tt-fav", Title: "The Favorite", Year: "2015", Type: "movie"},
				Genre:        "Action",
				Director:     "Great Director",
				Actors:       "Lead Actor",
				ImdbRating:   "8.4",
			},
		},
	}
	chat := &fakeChat{reply: "hello"}
	favorites := store.NewFavorites(context.Background(), store.NewMemoryKV())

	return NewMovieService(metadata, chat, favorites, nil), metadata, chat
}

func TestMovieService_RegeneratesOnFavoritesChange(t *testing.T) {
	ctx := context.Background()
	svc, metadata, _ := newTestService(t)

	// Initial set comes from the zero-favorites fallback, untagged.
	initial := svc.Recommendations("", filter.Facets{})
	if len(initial.Recommendations) != 3 {
		t.Fatalf("initial len = %d, want 3", len(initial.Recommendations))
	}
	for _, r := range initial.Recommendations {
		if !r.Provenance.IsZero() {
			t.Errorf("fallback recommendation %s is tagged", r.ImdbID)
		}
	}

	if _, err := svc.AddFavorite(ctx, "tt-fav"); err != nil {
		t.Fatalf("AddFavorite: %v", err)
	}

	regenerated := svc.Recommendations("", filter.Facets{})
	if len(regenerated.Recommendations) == 0 {
		t.Fatal("no recommendations after add")
	}
	for _, r := range regenerated.Recommendations {
		if r.ImdbID == "tt-fav" {
			t.Error("favorite leaked into recommendations")
		}
		if r.Provenance.IsZero() {
			t.Errorf("recommendation %s lost its provenance", r.ImdbID)
		}
	}

	// Duplicate add is a no-op and must not re-run the generator.
	callsBefore := metadata.searchCalls
	if _, err := svc.AddFavorite(ctx, "tt-fav"); err != nil {
		t.Fatalf("duplicate AddFavorite: %v", err)
	}
	if metadata.searchCalls != callsBefore {
		t.Errorf("duplicate add re-ran generation: %d extra calls", metadata.searchCalls-callsBefore)
	}

	// Removing the last favorite falls back to the untagged path again.
	svc.RemoveFavorite(ctx, "tt-fav")
	final := svc.Recommendations("", filter.Facets{})
	for _, r := range final.Recommendations {
		if !r.Provenance.IsZero() {
			t.Errorf("post-remove recommendation %s is tagged", r.ImdbID)
		}
	}
}

func TestMovieService_RecommendationFiltering(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)
	if _, err := svc.AddFavorite(ctx, "tt-fav"); err != nil {
		t.Fatalf("AddFavorite: %v", err)
	}

	view := svc.Recommendations("", filter.Facets{Genres: []string{"Action"}})
	if len(view.Recommendations) == 0 {
		t.Fatal("genre facet filtered everything out")
	}
	for _, r := range view.Recommendations {
		if r.RecommendedBy != "Genre: Action" {
			t.Errorf("label = %q, want %q", r.RecommendedBy, "Genre: Action")
		}
	}

	// Available values reflect the unfiltered set.
	if len(view.Available.Sources) == 0 {
		t.Error("available filters missing sources")
	}

	none := svc.Recommendations("", filter.Facets{Genres: []string{"Western"}})
	if len(none.Recommendations) != 0 {
		t.Errorf("unexpected matches: %v", none.Recommendations)
	}
}

func TestMovieService_SearchErrorsPassThrough(t *testing.T) {
	svc, metadata, _ := newTestService(t)
	metadata.searchErr = fmt.Errorf("%w: nothing", omdb.ErrNotFound)

	_, err := svc.Search(context.Background(), "zzzz", 1)
	if !errors.Is(err, omdb.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound to pass through", err)
	}
}

func TestMovieService_AddFavoriteUnknownID(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.AddFavorite(context.Background(), "tt-missing")
	if !errors.Is(err, omdb.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestMovieService_FavoritesFreeText(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)
	if _, err := svc.AddFavorite(ctx, "tt-fav"); err != nil {
		t.Fatalf("AddFavorite: %v", err)
	}

	if got := svc.Favorites("favorite"); len(got) != 1 {
		t.Errorf("match len = %d, want 1", len(got))
	}
	if got := svc.Favorites("western"); len(got) != 0 {
		t.Errorf("no-match len = %d, want 0", len(got))
	}
}

func TestMovieService_Chat(t *testing.T) {
	ctx := context.Background()
	svc, _, chat := newTestService(t)
	if _, err := svc.AddFavorite(ctx, "tt-fav"); err != nil {
		t.Fatalf("AddFavorite: %v", err)
	}

	reply, err := svc.Chat(ctx, "recommend something")
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if reply != "hello" {
		t.Errorf("reply = %q", reply)
	}
	if len(chat.sent) != 1 || chat.sent[0].ImdbID != "tt-fav" {
		t.Errorf("chat payload favorites = %+v", chat.sent)
	}
}
