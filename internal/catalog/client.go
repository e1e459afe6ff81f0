package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"platterd/internal/identification"
)

const defaultBaseURL = "https://api.themoviedb.org/3"

// HTTPDoer describes the HTTP client used by Client, grounded on the
// teacher's jellyfin.HTTPDoer seam for swapping in a fake transport in tests.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is a TMDb-backed identification.Catalog.
type Client struct {
	baseURL string
	token   string
	client  HTTPDoer
}

// New constructs a TMDb client. token is the API read-access bearer token;
// an empty token still produces a Client, but every search will fail
// authorization, so callers should prefer NewConfigured for startup wiring.
func New(baseURL, token string, client HTTPDoer) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{baseURL: baseURL, token: token, client: client}
}

// NewConfigured returns a TMDb-backed catalog, or a no-op catalog if token
// is empty (spec.md §6: an empty catalog token is a supported, degraded
// configuration, not a startup error).
func NewConfigured(baseURL, token string) identification.Catalog {
	if token == "" {
		return noopCatalog{}
	}
	return New(baseURL, token, nil)
}

type searchMovieResponse struct {
	Results []struct {
		ID          int64   `json:"id"`
		Title       string  `json:"title"`
		ReleaseDate string  `json:"release_date"`
		Popularity  float64 `json:"popularity"`
		PosterPath  string  `json:"poster_path"`
	} `json:"results"`
}

// SearchMovie implements identification.Catalog. Errors are returned rather
// than swallowed; the identifier decides how to degrade (spec.md §4.5 step
// 7 treats both "catalog error" and "catalog returned nothing" the same:
// fall through to an UNKNOWN review).
func (c *Client) SearchMovie(ctx context.Context, query string, limit int) ([]identification.MovieCandidate, error) {
	endpoint := fmt.Sprintf("%s/search/movie?%s", c.baseURL, url.Values{"query": {query}}.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build tmdb search request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tmdb search movie: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("tmdb search movie: status %d", resp.StatusCode)
	}

	var payload searchMovieResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode tmdb search response: %w", err)
	}

	results := payload.Results
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	candidates := make([]identification.MovieCandidate, 0, len(results))
	for _, r := range results {
		candidates = append(candidates, identification.MovieCandidate{
			CatalogID:  r.ID,
			Title:      r.Title,
			Year:       extractYear(r.ReleaseDate),
			Popularity: r.Popularity,
			PosterRef:  r.PosterPath,
		})
	}
	return candidates, nil
}

// extractYear pulls the leading YYYY out of a TMDb release_date string,
// grounded on dvdtoplex's TMDbClient._extract_year.
func extractYear(dateStr string) *int {
	if len(dateStr) < 4 {
		return nil
	}
	year, err := strconv.Atoi(dateStr[:4])
	if err != nil {
		return nil
	}
	return &year
}

// noopCatalog always reports no candidates, used when no API token is
// configured.
type noopCatalog struct{}

func (noopCatalog) SearchMovie(ctx context.Context, query string, limit int) ([]identification.MovieCandidate, error) {
	return nil, nil
}
