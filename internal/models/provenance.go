package models

// ProvenanceSource identifies which favorite-derived signal produced a
// recommendation.
type ProvenanceSource string

const (
	SourceNone     ProvenanceSource = ""
	SourceGenre    ProvenanceSource = "Genre"
	SourceDirector ProvenanceSource = "Director"
	SourceActor    ProvenanceSource = "Actor"
)

// Provenance is a tagged variant carried alongside each recommendation. The
// display string is derived from it, never the other way around, so a value
// containing ": " cannot corrupt filtering.
type Provenance struct {
	Source ProvenanceSource `json:"source,omitempty"`
	Value  string           `json:"value,omitempty"`
}

// GenreProvenance tags a recommendation produced by a genre search.
func GenreProvenance(genre string) Provenance {
	return Provenance{Source: SourceGenre, Value: genre}
}

// DirectorProvenance tags a recommendation produced by a director search.
func DirectorProvenance(director string) Provenance {
	return Provenance{Source: SourceDirector, Value: director}
}

// ActorProvenance tags a recommendation produced by an actor search.
func ActorProvenance(actor string) Provenance {
	return Provenance{Source: SourceActor, Value: actor}
}

// IsZero reports whether the recommendation carries no provenance (the
// zero-favorites path returns raw results).
func (p Provenance) IsZero() bool {
	return p.Source == SourceNone
}

// Label renders the display form, e.g. "Genre: Action". Empty for untagged
// recommendations.
func (p Provenance) Label() string {
	if p.IsZero() {
		return ""
	}
	return string(p.Source) + ": " + p.Value
}
