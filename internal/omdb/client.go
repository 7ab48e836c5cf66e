// Package omdb is the client for the OMDb movie metadata API.
package omdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"movie-companion-service/internal/models"
)

// ErrNotFound is returned when the provider itself reports no match
// ("Response": "False"), as opposed to a transport failure.
var ErrNotFound = errors.New("movie not found")

// Client is the OMDb API client.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a new OMDb API client.
func NewClient(apiKey, baseURL string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// ---- OMDb Response Types (internal, not exposed to consumers) ----

type searchResponse struct {
	Search       []models.MovieSummary `json:"Search"`
	TotalResults string                `json:"totalResults"`
	Response     string                `json:"Response"`
	Error        string                `json:"Error"`
}

type detailResponse struct {
	models.MovieDetail
	Response string `json:"Response"`
	Error    string `json:"Error"`
}

// ---- Client Methods ----

// Search fetches one page of search results for the given keyword.
// A provider-reported empty result set yields ErrNotFound wrapped with the
// provider's message.
func (c *Client) Search(ctx context.Context, keyword string, page int) (*models.SearchResult, error) {
	reqURL := fmt.Sprintf(
		"%s/?apikey=%s&s=%s&page=%d",
		c.baseURL, c.apiKey, url.QueryEscape(keyword), page,
	)

	slog.Debug("fetching OMDb search", "keyword", keyword, "page", page)
	var result searchResponse
	if err := c.doGet(ctx, reqURL, &result); err != nil {
		return nil, err
	}

	if result.Response == "False" {
		msg := result.Error
		if msg == "" {
			msg = "Movie not found"
		}
		return nil, fmt.Errorf("%w: %s", ErrNotFound, msg)
	}

	total, _ := strconv.Atoi(result.TotalResults)
	return &models.SearchResult{
		Movies:       result.Search,
		TotalResults: total,
	}, nil
}

// GetDetail fetches the full detail record for an IMDb identifier.
func (c *Client) GetDetail(ctx context.Context, imdbID string) (*models.MovieDetail, error) {
	reqURL := fmt.Sprintf(
		"%s/?apikey=%s&i=%s&plot=full",
		c.baseURL, c.apiKey, url.QueryEscape(imdbID),
	)

	slog.Debug("fetching OMDb detail", "imdb_id", imdbID)
	var result detailResponse
	if err := c.doGet(ctx, reqURL, &result); err != nil {
		return nil, err
	}

	if result.Response == "False" {
		msg := result.Error
		if msg == "" {
			msg = "Movie not found"
		}
		return nil, fmt.Errorf("%w: %s", ErrNotFound, msg)
	}

	return &result.MovieDetail, nil
}

func (c *Client) doGet(ctx context.Context, reqURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("OMDb API returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode OMDb response: %w", err)
	}
	return nil
}
