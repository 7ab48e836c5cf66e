package recommend

import (
	"reflect"
	"testing"

	"movie-companion-service/internal/models"
)

func favorite(id, title, year, mtype, genre, director, actors, rating string) models.MovieDetail {
	return models.MovieDetail{
		MovieSummary: models.MovieSummary{
			ImdbID: id,
			Title:  title,
			Year:   year,
			Type:   mtype,
		},
		Genre:      genre,
		Director:   director,
		Actors:     actors,
		ImdbRating: rating,
	}
}

func TestAnalyzePreferences_Empty(t *testing.T) {
	got := AnalyzePreferences(nil)

	want := models.PreferenceAnalysis{
		TopGenres:     []string{},
		PreferredType: "movie",
		CommonDecade:  "2020",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("AnalyzePreferences(nil) = %+v, want %+v", got, want)
	}
}

func TestAnalyzePreferences_SingleFavorite(t *testing.T) {
	favorites := []models.MovieDetail{
		favorite("tt1", "Avatar", "2009", "movie", "Action, Sci-Fi", "J. Cameron", "A. Actor, B. Actor", "8.5"),
	}

	got := AnalyzePreferences(favorites)

	if want := []string{"Action", "Sci-Fi"}; !reflect.DeepEqual(got.TopGenres, want) {
		t.Errorf("TopGenres = %v, want %v", got.TopGenres, want)
	}
	if got.PreferredType != "movie" {
		t.Errorf("PreferredType = %q, want %q", got.PreferredType, "movie")
	}
	if got.CommonDecade != "2000" {
		t.Errorf("CommonDecade = %q, want %q", got.CommonDecade, "2000")
	}
}

func TestAnalyzePreferences_GenreCounting(t *testing.T) {
	t.Run("repeated token in one favorite counts per occurrence", func(t *testing.T) {
		favorites := []models.MovieDetail{
			favorite("tt1", "A", "2001", "movie", "Action, Action, Drama", "", "", ""),
		}

		got := AnalyzePreferences(favorites)

		// Action counted twice, Drama once.
		if want := []string{"Action", "Drama"}; !reflect.DeepEqual(got.TopGenres, want) {
			t.Errorf("TopGenres = %v, want %v", got.TopGenres, want)
		}
	})

	t.Run("capped at three genres", func(t *testing.T) {
		favorites := []models.MovieDetail{
			favorite("tt1", "A", "2001", "movie", "Action, Drama, Comedy, Horror, Thriller", "", "", ""),
		}

		got := AnalyzePreferences(favorites)

		if len(got.TopGenres) != 3 {
			t.Fatalf("len(TopGenres) = %d, want 3", len(got.TopGenres))
		}
	})

	t.Run("ties keep first-seen order", func(t *testing.T) {
		favorites := []models.MovieDetail{
			favorite("tt1", "A", "2001", "movie", "Western, Noir", "", "", ""),
			favorite("tt2", "B", "2002", "movie", "Noir, Western", "", "", ""),
		}

		got := AnalyzePreferences(favorites)

		if want := []string{"Western", "Noir"}; !reflect.DeepEqual(got.TopGenres, want) {
			t.Errorf("TopGenres = %v, want %v", got.TopGenres, want)
		}
	})
}

func TestAnalyzePreferences_TypePreference(t *testing.T) {
	favorites := []models.MovieDetail{
		favorite("tt1", "A", "2001", "series", "Drama", "", "", ""),
		favorite("tt2", "B", "2002", "movie", "Drama", "", "", ""),
		favorite("tt3", "C", "2003", "series", "Drama", "", "", ""),
	}

	got := AnalyzePreferences(favorites)

	if got.PreferredType != "series" {
		t.Errorf("PreferredType = %q, want %q", got.PreferredType, "series")
	}
}

func TestAnalyzePreferences_Decades(t *testing.T) {
	t.Run("most frequent decade wins", func(t *testing.T) {
		favorites := []models.MovieDetail{
			favorite("tt1", "A", "1994", "movie", "Drama", "", "", ""),
			favorite("tt2", "B", "1999", "movie", "Drama", "", "", ""),
			favorite("tt3", "C", "2005", "movie", "Drama", "", "", ""),
		}

		got := AnalyzePreferences(favorites)

		if got.CommonDecade != "1990" {
			t.Errorf("CommonDecade = %q, want %q", got.CommonDecade, "1990")
		}
	})

	t.Run("unparseable years are excluded from voting", func(t *testing.T) {
		favorites := []models.MovieDetail{
			favorite("tt1", "A", "2015–2019", "series", "Drama", "", "", ""),
			favorite("tt2", "B", "1987", "movie", "Drama", "", "", ""),
		}

		got := AnalyzePreferences(favorites)

		if got.CommonDecade != "1980" {
			t.Errorf("CommonDecade = %q, want %q", got.CommonDecade, "1980")
		}
	})

	t.Run("defaults when no year parses", func(t *testing.T) {
		favorites := []models.MovieDetail{
			favorite("tt1", "A", "N/A", "movie", "Drama", "", "", ""),
		}

		got := AnalyzePreferences(favorites)

		if got.CommonDecade != "2020" {
			t.Errorf("CommonDecade = %q, want %q", got.CommonDecade, "2020")
		}
	})
}
