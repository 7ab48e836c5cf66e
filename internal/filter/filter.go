// Package filter narrows favorites and recommendation lists by free-text
// query and facet selections. All functions are pure and order-preserving,
// cheap enough to run on every keystroke-equivalent request.
package filter

import (
	"strings"

	"movie-companion-service/internal/models"
)

// Facets holds the five independent facet selections for the recommendation
// list. An empty selection leaves that facet inactive.
type Facets struct {
	Types     []string
	Sources   []string // provenance sources: "Genre", "Director", "Actor"
	Genres    []string
	Directors []string
	Actors    []string
}

// IsZero reports whether no facet is active.
func (f Facets) IsZero() bool {
	return len(f.Types) == 0 && len(f.Sources) == 0 &&
		len(f.Genres) == 0 && len(f.Directors) == 0 && len(f.Actors) == 0
}

// FacetValues lists the facet values present in a recommendation set, used
// to populate filter choices.
type FacetValues struct {
	Types     []string `json:"types"`
	Sources   []string `json:"sources"`
	Genres    []string `json:"genres"`
	Directors []string `json:"directors"`
	Actors    []string `json:"actors"`
}

// Favorites returns the favorites matching a free-text query against title,
// genre, actors or director.
func Favorites(favorites []models.MovieDetail, query string) []models.MovieDetail {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return favorites
	}

	matched := make([]models.MovieDetail, 0, len(favorites))
	for _, m := range favorites {
		if strings.Contains(strings.ToLower(m.Title), query) ||
			strings.Contains(strings.ToLower(m.Genre), query) ||
			strings.Contains(strings.ToLower(m.Actors), query) ||
			strings.Contains(strings.ToLower(m.Director), query) {
			matched = append(matched, m)
		}
	}
	return matched
}

// Recommendations narrows a recommendation list by free-text query and facet
// selections. The query matches title, type or year; facets AND together,
// values within one facet OR together.
func Recommendations(recommendations []models.RecommendedMovie, query string, facets Facets) []models.RecommendedMovie {
	filtered := byQuery(recommendations, query)
	if facets.IsZero() {
		return filtered
	}

	matched := make([]models.RecommendedMovie, 0, len(filtered))
	for _, m := range filtered {
		if passesFacets(m, facets) {
			matched = append(matched, m)
		}
	}
	return matched
}

func byQuery(recommendations []models.RecommendedMovie, query string) []models.RecommendedMovie {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return recommendations
	}

	matched := make([]models.RecommendedMovie, 0, len(recommendations))
	for _, m := range recommendations {
		if strings.Contains(strings.ToLower(m.Title), query) ||
			strings.Contains(strings.ToLower(m.Type), query) ||
			strings.Contains(m.Year, query) {
			matched = append(matched, m)
		}
	}
	return matched
}

func passesFacets(m models.RecommendedMovie, facets Facets) bool {
	if len(facets.Types) > 0 && !contains(facets.Types, m.Type) {
		return false
	}
	if len(facets.Sources) > 0 {
		if m.Provenance.IsZero() || !contains(facets.Sources, string(m.Provenance.Source)) {
			return false
		}
	}
	if !passesValueFacet(m, models.SourceGenre, facets.Genres) {
		return false
	}
	if !passesValueFacet(m, models.SourceDirector, facets.Directors) {
		return false
	}
	if !passesValueFacet(m, models.SourceActor, facets.Actors) {
		return false
	}
	return true
}

// passesValueFacet checks one of the genre/director/actor facets: the entry
// must carry provenance of the matching source and its value must be among
// the selected ones.
func passesValueFacet(m models.RecommendedMovie, source models.ProvenanceSource, selected []string) bool {
	if len(selected) == 0 {
		return true
	}
	return m.Provenance.Source == source && contains(selected, m.Provenance.Value)
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

// AvailableFacetValues extracts the distinct facet values present in a
// recommendation set, in first-seen order.
func AvailableFacetValues(recommendations []models.RecommendedMovie) FacetValues {
	values := FacetValues{
		Types:     []string{},
		Sources:   []string{},
		Genres:    []string{},
		Directors: []string{},
		Actors:    []string{},
	}
	for _, m := range recommendations {
		values.Types = appendUnique(values.Types, m.Type)
		if m.Provenance.IsZero() {
			continue
		}
		values.Sources = appendUnique(values.Sources, string(m.Provenance.Source))
		switch m.Provenance.Source {
		case models.SourceGenre:
			values.Genres = appendUnique(values.Genres, m.Provenance.Value)
		case models.SourceDirector:
			values.Directors = appendUnique(values.Directors, m.Provenance.Value)
		case models.SourceActor:
			values.Actors = appendUnique(values.Actors, m.Provenance.Value)
		}
	}
	return values
}

func appendUnique(values []string, v string) []string {
	if v == "" || contains(values, v) {
		return values
	}
	return append(values, v)
}
