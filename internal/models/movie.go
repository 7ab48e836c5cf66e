package models

// NotAvailable is the provider's sentinel for any missing text field
// (director, actors, rating, poster, ...).
const NotAvailable = "N/A"

// MovieSummary is a single search result. Immutable once created.
type MovieSummary struct {
	ImdbID string `json:"imdbID"`
	Title  string `json:"Title"`
	Year   string `json:"Year"`
	Type   string `json:"Type"` // "movie", "series" or "episode"
	Poster string `json:"Poster"`
}

// Rating is one (source, value) pair from the detail response, e.g.
// {"Internet Movie Database", "8.5/10"}.
type Rating struct {
	Source string `json:"Source"`
	Value  string `json:"Value"`
}

// MovieDetail is the full detail record for a title. It is the canonical
// shape stored in the favorites list, so it must round-trip losslessly
// through JSON.
type MovieDetail struct {
	MovieSummary
	Rated      string   `json:"Rated"`
	Released   string   `json:"Released"`
	Runtime    string   `json:"Runtime"`
	Genre      string   `json:"Genre"` // comma-separated
	Director   string   `json:"Director"`
	Writer     string   `json:"Writer"`
	Actors     string   `json:"Actors"` // comma-separated
	Plot       string   `json:"Plot"`
	Language   string   `json:"Language"`
	Country    string   `json:"Country"`
	Awards     string   `json:"Awards"`
	ImdbRating string   `json:"imdbRating"` // numeric string or "N/A"
	ImdbVotes  string   `json:"imdbVotes"`
	BoxOffice  string   `json:"BoxOffice,omitempty"`
	Ratings    []Rating `json:"Ratings"`
}

// SearchResult is one page of search results.
type SearchResult struct {
	Movies       []MovieSummary `json:"results"`
	TotalResults int            `json:"total_results"`
}

// PreferenceAnalysis is the compact summary the analyzer derives from the
// favorites list. Ephemeral, never persisted.
type PreferenceAnalysis struct {
	TopGenres     []string `json:"top_genres"` // up to 3, descending frequency
	PreferredType string   `json:"preferred_type"`
	CommonDecade  string   `json:"common_decade"` // e.g. "1990"
}

// RecommendedMovie is a search result plus the provenance of the signal that
// produced it.
type RecommendedMovie struct {
	MovieSummary
	Provenance Provenance `json:"provenance"`
	// RecommendedBy is the display form of Provenance ("Genre: Action").
	// Derived, never parsed back.
	RecommendedBy string `json:"recommendedBy,omitempty"`
}

// NewRecommendedMovie tags a summary with its provenance and derives the
// display label.
func NewRecommendedMovie(m MovieSummary, p Provenance) RecommendedMovie {
	return RecommendedMovie{MovieSummary: m, Provenance: p, RecommendedBy: p.Label()}
}
