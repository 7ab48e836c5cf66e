// Package recommend derives viewing preferences from a favorites list and
// generates recommendations from them.
package recommend

import (
	"sort"
	"strconv"
	"strings"

	"movie-companion-service/internal/models"
)

const (
	topGenreCount = 3
	defaultType   = "movie"
	defaultDecade = "2020"
)

// orderedCounter counts occurrences while remembering first-seen order, so
// ties can be broken stably.
type orderedCounter struct {
	keys   []string
	counts map[string]int
}

func newOrderedCounter() *orderedCounter {
	return &orderedCounter{counts: make(map[string]int)}
}

func (c *orderedCounter) add(key string) {
	if _, ok := c.counts[key]; !ok {
		c.keys = append(c.keys, key)
	}
	c.counts[key]++
}

// ranked returns the keys sorted by descending count; equal counts keep
// first-seen order.
func (c *orderedCounter) ranked() []string {
	ranked := make([]string, len(c.keys))
	copy(ranked, c.keys)
	sort.SliceStable(ranked, func(i, j int) bool {
		return c.counts[ranked[i]] > c.counts[ranked[j]]
	})
	return ranked
}

// AnalyzePreferences summarizes a favorites list into its top genres,
// dominant content type and dominant decade. Pure and deterministic given
// the same favorites ordering.
func AnalyzePreferences(favorites []models.MovieDetail) models.PreferenceAnalysis {
	if len(favorites) == 0 {
		return models.PreferenceAnalysis{
			TopGenres:     []string{},
			PreferredType: defaultType,
			CommonDecade:  defaultDecade,
		}
	}

	genres := newOrderedCounter()
	types := newOrderedCounter()
	decades := newOrderedCounter()

	for _, movie := range favorites {
		// Each raw token counts, including repeats within one favorite.
		for _, g := range strings.Split(movie.Genre, ",") {
			if g = strings.TrimSpace(g); g != "" {
				genres.add(g)
			}
		}

		types.add(movie.Type)

		// Favorites without a parseable year skip decade voting.
		if year, err := strconv.Atoi(strings.TrimSpace(movie.Year)); err == nil {
			decades.add(strconv.Itoa(year / 10 * 10))
		}
	}

	topGenres := genres.ranked()
	if len(topGenres) > topGenreCount {
		topGenres = topGenres[:topGenreCount]
	}

	preferredType := defaultType
	if ranked := types.ranked(); len(ranked) > 0 {
		preferredType = ranked[0]
	}

	commonDecade := defaultDecade
	if ranked := decades.ranked(); len(ranked) > 0 {
		commonDecade = ranked[0]
	}

	return models.PreferenceAnalysis{
		TopGenres:     topGenres,
		PreferredType: preferredType,
		CommonDecade:  commonDecade,
	}
}
