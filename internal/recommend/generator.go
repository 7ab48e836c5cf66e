package recommend

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"sort"
	"strconv"
	"strings"

	"movie-companion-service/internal/models"
)

const (
	maxRecommendations = 10
	genreSearchCount   = 2
	keepPerGenre       = 3
	keepPerDirector    = 2
	keepPerActor       = 2
)

// fallbackKeywords seed the zero-favorites path.
var fallbackKeywords = []string{"Marvel", "Star Wars", "Batman", "Lord of the Rings"}

// Searcher is the slice of the metadata client the generator needs.
type Searcher interface {
	Search(ctx context.Context, keyword string, page int) (*models.SearchResult, error)
}

// Generator builds a provenance-tagged recommendation list from a favorites
// list by issuing a bounded sequence of metadata searches.
type Generator struct {
	searcher Searcher
}

// NewGenerator creates a new recommendation generator.
func NewGenerator(searcher Searcher) *Generator {
	return &Generator{searcher: searcher}
}

// Generate produces up to 10 recommendations for the given favorites. Search
// failures in individual phases are logged and skipped; the result is always
// a valid (possibly empty) list, never an error.
func (g *Generator) Generate(ctx context.Context, favorites []models.MovieDetail) []models.RecommendedMovie {
	if len(favorites) == 0 {
		return g.fallback(ctx)
	}

	analysis := AnalyzePreferences(favorites)

	seen := make(map[string]struct{}, len(favorites))
	for _, f := range favorites {
		seen[f.ImdbID] = struct{}{}
	}

	var recommendations []models.RecommendedMovie

	// Phase 1: top genres.
	topGenres := analysis.TopGenres
	if len(topGenres) > genreSearchCount {
		topGenres = topGenres[:genreSearchCount]
	}
	for _, genre := range topGenres {
		recommendations = g.appendFromSearch(ctx, recommendations, seen,
			genre, keepPerGenre, models.GenreProvenance(genre))
	}

	// Phase 2: director of the highest-rated favorite.
	if director, ok := topRatedDirector(favorites); ok {
		recommendations = g.appendFromSearch(ctx, recommendations, seen,
			director, keepPerDirector, models.DirectorProvenance(director))
	}

	// Phase 3: lead actor of the most recently added favorite.
	if actor, ok := leadActor(favorites); ok {
		recommendations = g.appendFromSearch(ctx, recommendations, seen,
			actor, keepPerActor, models.ActorProvenance(actor))
	}

	if len(recommendations) > maxRecommendations {
		recommendations = recommendations[:maxRecommendations]
	}
	return recommendations
}

// fallback returns one page of results for a pseudo-random popular keyword,
// untagged and uncapped. Failures are swallowed.
func (g *Generator) fallback(ctx context.Context) []models.RecommendedMovie {
	keyword := fallbackKeywords[rand.IntN(len(fallbackKeywords))]

	result, err := g.searcher.Search(ctx, keyword, 1)
	if err != nil {
		slog.Warn("fallback recommendation search failed", "keyword", keyword, "error", err)
		return []models.RecommendedMovie{}
	}

	recommendations := make([]models.RecommendedMovie, 0, len(result.Movies))
	for _, m := range result.Movies {
		recommendations = append(recommendations, models.NewRecommendedMovie(m, models.Provenance{}))
	}
	return recommendations
}

// appendFromSearch runs one search and appends up to keep unseen results,
// tagged with the given provenance. A failed search contributes nothing.
func (g *Generator) appendFromSearch(
	ctx context.Context,
	recommendations []models.RecommendedMovie,
	seen map[string]struct{},
	keyword string,
	keep int,
	provenance models.Provenance,
) []models.RecommendedMovie {
	result, err := g.searcher.Search(ctx, keyword, 1)
	if err != nil {
		slog.Warn("recommendation search failed",
			"keyword", keyword, "source", provenance.Source, "error", err)
		return recommendations
	}

	kept := 0
	for _, m := range result.Movies {
		if kept >= keep {
			break
		}
		if _, dup := seen[m.ImdbID]; dup {
			continue
		}
		seen[m.ImdbID] = struct{}{}
		recommendations = append(recommendations, models.NewRecommendedMovie(m, provenance))
		kept++
	}
	return recommendations
}

// topRatedDirector returns the first-listed director of the highest-rated
// favorite. Favorites without a parseable rating don't compete; a stable
// sort keeps the first-encountered favorite on ties.
func topRatedDirector(favorites []models.MovieDetail) (string, bool) {
	rated := make([]models.MovieDetail, 0, len(favorites))
	for _, f := range favorites {
		if f.ImdbRating == "" || f.ImdbRating == models.NotAvailable {
			continue
		}
		if _, err := strconv.ParseFloat(f.ImdbRating, 64); err != nil {
			continue
		}
		rated = append(rated, f)
	}
	if len(rated) == 0 {
		return "", false
	}

	sort.SliceStable(rated, func(i, j int) bool {
		ri, _ := strconv.ParseFloat(rated[i].ImdbRating, 64)
		rj, _ := strconv.ParseFloat(rated[j].ImdbRating, 64)
		return ri > rj
	})

	top := rated[0]
	if top.Director == models.NotAvailable {
		return "", false
	}
	director := strings.TrimSpace(strings.Split(top.Director, ",")[0])
	if director == "" {
		return "", false
	}
	return director, true
}

// leadActor returns the first-listed actor of the first favorite (favorites
// are prepended, so that is the most recently added one).
func leadActor(favorites []models.MovieDetail) (string, bool) {
	first := favorites[0]
	if first.Actors == models.NotAvailable {
		return "", false
	}
	actor := strings.TrimSpace(strings.Split(first.Actors, ",")[0])
	if actor == "" {
		return "", false
	}
	return actor, true
}
