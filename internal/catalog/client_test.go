package catalog

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"testing"
)

type fakeDoer struct {
	status int
	body   string
	err    error
}

func (f fakeDoer) Do(req *http.Request) (*http.Response, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &http.Response{
		StatusCode: f.status,
		Body:       io.NopCloser(bytes.NewBufferString(f.body)),
	}, nil
}

const sampleSearchResponse = `{
	"results": [
		{"id": 603, "title": "The Matrix", "release_date": "1999-03-30", "popularity": 95.2, "poster_path": "/poster.jpg"},
		{"id": 604, "title": "The Matrix Reloaded", "release_date": "2003-05-15", "popularity": 60.1}
	]
}`

func TestSearchMovieParsesResults(t *testing.T) {
	client := New("", "fake-token", fakeDoer{status: http.StatusOK, body: sampleSearchResponse})

	candidates, err := client.SearchMovie(context.Background(), "the matrix", 10)
	if err != nil {
		t.Fatalf("SearchMovie: %v", err)
	}
	if len(candidates) != 2 {
		t.Fatalf("got %d candidates, want 2", len(candidates))
	}
	if candidates[0].CatalogID != 603 || candidates[0].Title != "The Matrix" {
		t.Fatalf("unexpected first candidate: %+v", candidates[0])
	}
	if candidates[0].Year == nil || *candidates[0].Year != 1999 {
		t.Fatalf("unexpected year: %+v", candidates[0].Year)
	}
}

func TestSearchMovieRespectsLimit(t *testing.T) {
	client := New("", "fake-token", fakeDoer{status: http.StatusOK, body: sampleSearchResponse})

	candidates, err := client.SearchMovie(context.Background(), "the matrix", 1)
	if err != nil {
		t.Fatalf("SearchMovie: %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("got %d candidates, want 1", len(candidates))
	}
}

func TestSearchMovieSurfacesHTTPErrorStatus(t *testing.T) {
	client := New("", "fake-token", fakeDoer{status: http.StatusUnauthorized, body: `{}`})

	if _, err := client.SearchMovie(context.Background(), "anything", 10); err == nil {
		t.Fatal("expected error on 401 response")
	}
}

func TestNewConfiguredReturnsNoopWithoutToken(t *testing.T) {
	c := NewConfigured("", "")
	candidates, err := c.SearchMovie(context.Background(), "anything", 10)
	if err != nil {
		t.Fatalf("noop catalog should never error: %v", err)
	}
	if candidates != nil {
		t.Fatalf("expected nil candidates from noop catalog, got %v", candidates)
	}
}
