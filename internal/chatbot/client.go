// Package chatbot is the client for the movie chatbot endpoint.
package chatbot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"movie-companion-service/internal/models"
)

// favoriteContext is the trimmed favorite shape sent to the chatbot. Plot,
// poster and rating fields are stripped; only identifying and structural
// fields go over the wire.
type favoriteContext struct {
	ImdbID    string `json:"imdbID"`
	Title     string `json:"Title"`
	Year      string `json:"Year"`
	Type      string `json:"Type"`
	Rated     string `json:"Rated"`
	Released  string `json:"Released"`
	Runtime   string `json:"Runtime"`
	Genre     string `json:"Genre"`
	Director  string `json:"Director"`
	Writer    string `json:"Writer"`
	Actors    string `json:"Actors"`
	Language  string `json:"Language"`
	Country   string `json:"Country"`
	Awards    string `json:"Awards"`
	ImdbVotes string `json:"imdbVotes"`
	BoxOffice string `json:"BoxOffice,omitempty"`
}

type chatRequest struct {
	Prompt         string            `json:"prompt"`
	FavoriteMovies []favoriteContext `json:"favoriteMovies"`
}

type chatResponse struct {
	Response string `json:"response"`
}

// Client is the chatbot API client.
type Client struct {
	url  string
	http *http.Client
}

// NewClient creates a new chatbot client.
func NewClient(url string) *Client {
	return &Client{
		url: url,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Send posts the prompt plus the user's favorites to the chatbot and returns
// the reply text. A response without a reply field is an empty reply, not an
// error.
func (c *Client) Send(ctx context.Context, prompt string, favorites []models.MovieDetail) (string, error) {
	payload := chatRequest{
		Prompt:         prompt,
		FavoriteMovies: make([]favoriteContext, 0, len(favorites)),
	}
	for _, f := range favorites {
		payload.FavoriteMovies = append(payload.FavoriteMovies, favoriteContext{
			ImdbID:    f.ImdbID,
			Title:     f.Title,
			Year:      f.Year,
			Type:      f.Type,
			Rated:     f.Rated,
			Released:  f.Released,
			Runtime:   f.Runtime,
			Genre:     f.Genre,
			Director:  f.Director,
			Writer:    f.Writer,
			Actors:    f.Actors,
			Language:  f.Language,
			Country:   f.Country,
			Awards:    f.Awards,
			ImdbVotes: f.ImdbVotes,
			BoxOffice: f.BoxOffice,
		})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	slog.Debug("sending chat request", "favorites", len(favorites))
	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("chatbot returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var reply chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return "", fmt.Errorf("failed to decode chat response: %w", err)
	}
	return reply.Response, nil
}
