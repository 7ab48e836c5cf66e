package handler

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v3"

	"movie-companion-service/internal/filter"
	"movie-companion-service/internal/models"
	"movie-companion-service/internal/omdb"
	"movie-companion-service/internal/service"
)

// MovieHandler handles HTTP requests for search, favorites, recommendations
// and chat.
type MovieHandler struct {
	svc *service.MovieService
}

// NewMovieHandler creates a new MovieHandler.
func NewMovieHandler(svc *service.MovieService) *MovieHandler {
	return &MovieHandler{svc: svc}
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SearchResponse is the search listing response. Message carries the
// provider's wording when it reported no match.
type SearchResponse struct {
	Results      []models.MovieSummary `json:"results"`
	TotalResults int                   `json:"total_results"`
	Message      string                `json:"message,omitempty"`
}

// FavoritesResponse is the favorites listing response.
type FavoritesResponse struct {
	Favorites []models.MovieDetail `json:"favorites"`
	Total     int                  `json:"total"`
}

// AddFavoriteRequest is the body for adding a favorite.
type AddFavoriteRequest struct {
	ImdbID string `json:"imdbID"`
}

// ChatRequest is the body for a chat message.
type ChatRequest struct {
	Prompt string `json:"prompt"`
}

// ChatResponse is the chatbot reply.
type ChatResponse struct {
	Response string `json:"response"`
}

const (
	chatFallbackReply    = "I received your message!"
	chatUnavailableReply = "Sorry, I couldn't reach the movie assistant right now. Please try again in a moment."
)

// Health returns service health status.
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *MovieHandler) Health(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"service": "movie-companion-service",
	})
}

// Search returns one page of metadata search results.
// @Summary Search movies
// @Tags movies
// @Produce json
// @Param q query string true "Search keyword"
// @Param page query int false "Page number" default(1)
// @Success 200 {object} SearchResponse
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /search [get]
func (h *MovieHandler) Search(c fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "query parameter q is required",
		})
	}
	page := fiber.Query(c, "page", 1)

	result, err := h.svc.Search(c.Context(), query, page)
	if err != nil {
		if errors.Is(err, omdb.ErrNotFound) {
			// Provider-reported empty result, not a failure.
			return c.JSON(SearchResponse{
				Results: []models.MovieSummary{},
				Message: err.Error(),
			})
		}
		slog.Error("search failed", "query", query, "error", err)
		return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{
			Error: "failed to search movies: " + err.Error(),
		})
	}

	return c.JSON(SearchResponse{
		Results:      result.Movies,
		TotalResults: result.TotalResults,
	})
}

// GetDetail returns the full detail record for one title.
// @Summary Get movie detail
// @Tags movies
// @Produce json
// @Param imdbID path string true "IMDb identifier"
// @Success 200 {object} models.MovieDetail
// @Failure 404 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /movies/{imdbID} [get]
func (h *MovieHandler) GetDetail(c fiber.Ctx) error {
	imdbID := c.Params("imdbID")

	detail, err := h.svc.GetDetail(c.Context(), imdbID)
	if err != nil {
		if errors.Is(err, omdb.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
				Error: "movie not found",
			})
		}
		slog.Error("failed to get movie detail", "imdb_id", imdbID, "error", err)
		return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{
			Error: "failed to retrieve movie details: " + err.Error(),
		})
	}

	return c.JSON(detail)
}

// ListFavorites returns the favorites, optionally narrowed by a free-text
// query over title, genre, actors and director.
// @Summary List favorites
// @Tags favorites
// @Produce json
// @Param q query string false "Free-text filter"
// @Success 200 {object} FavoritesResponse
// @Router /favorites [get]
func (h *MovieHandler) ListFavorites(c fiber.Ctx) error {
	favorites := h.svc.Favorites(c.Query("q"))
	return c.JSON(FavoritesResponse{Favorites: favorites, Total: len(favorites)})
}

// AddFavorite stores the given title at the front of the favorites list.
// @Summary Add a favorite
// @Tags favorites
// @Accept json
// @Produce json
// @Param request body AddFavoriteRequest true "Title to add"
// @Success 200 {object} FavoritesResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /favorites [post]
func (h *MovieHandler) AddFavorite(c fiber.Ctx) error {
	var req AddFavoriteRequest
	if err := c.Bind().Body(&req); err != nil || strings.TrimSpace(req.ImdbID) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "imdbID is required",
		})
	}

	favorites, err := h.svc.AddFavorite(c.Context(), strings.TrimSpace(req.ImdbID))
	if err != nil {
		if errors.Is(err, omdb.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
				Error: "movie not found",
			})
		}
		slog.Error("failed to add favorite", "imdb_id", req.ImdbID, "error", err)
		return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{
			Error: "failed to add favorite: " + err.Error(),
		})
	}

	return c.JSON(FavoritesResponse{Favorites: favorites, Total: len(favorites)})
}

// RemoveFavorite removes a title from the favorites list. Removing an absent
// identifier is a no-op that still returns the current list.
// @Summary Remove a favorite
// @Tags favorites
// @Produce json
// @Param imdbID path string true "IMDb identifier"
// @Success 200 {object} FavoritesResponse
// @Router /favorites/{imdbID} [delete]
func (h *MovieHandler) RemoveFavorite(c fiber.Ctx) error {
	favorites := h.svc.RemoveFavorite(c.Context(), c.Params("imdbID"))
	return c.JSON(FavoritesResponse{Favorites: favorites, Total: len(favorites)})
}

// ListRecommendations returns the current recommendation set narrowed by the
// free-text query and facet selections. Facet parameters take comma-separated
// values; values within one facet OR together, facets AND together.
// @Summary List recommendations
// @Tags recommendations
// @Produce json
// @Param q query string false "Free-text filter"
// @Param type query string false "Content types, comma-separated"
// @Param source query string false "Provenance sources, comma-separated (Genre,Director,Actor)"
// @Param genre query string false "Genres, comma-separated"
// @Param director query string false "Directors, comma-separated"
// @Param actor query string false "Actors, comma-separated"
// @Success 200 {object} service.RecommendationView
// @Router /recommendations [get]
func (h *MovieHandler) ListRecommendations(c fiber.Ctx) error {
	facets := filter.Facets{
		Types:     splitFacet(c.Query("type")),
		Sources:   splitFacet(c.Query("source")),
		Genres:    splitFacet(c.Query("genre")),
		Directors: splitFacet(c.Query("director")),
		Actors:    splitFacet(c.Query("actor")),
	}

	return c.JSON(h.svc.Recommendations(c.Query("q"), facets))
}

// Chat forwards a prompt to the chatbot. Transport failures come back as a
// bot-authored message, never as an error status.
// @Summary Chat about movies
// @Tags chat
// @Accept json
// @Produce json
// @Param request body ChatRequest true "Prompt"
// @Success 200 {object} ChatResponse
// @Failure 400 {object} ErrorResponse
// @Router /chat [post]
func (h *MovieHandler) Chat(c fiber.Ctx) error {
	var req ChatRequest
	if err := c.Bind().Body(&req); err != nil || strings.TrimSpace(req.Prompt) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "prompt is required",
		})
	}

	reply, err := h.svc.Chat(c.Context(), strings.TrimSpace(req.Prompt))
	if err != nil {
		slog.Error("chatbot request failed", "error", err)
		return c.JSON(ChatResponse{Response: chatUnavailableReply})
	}
	if reply == "" {
		reply = chatFallbackReply
	}

	return c.JSON(ChatResponse{Response: reply})
}

// splitFacet parses a comma-separated facet parameter into its values.
func splitFacet(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			values = append(values, p)
		}
	}
	return values
}
