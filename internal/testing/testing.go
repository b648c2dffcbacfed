// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"net/http"
	"os"
	"testing"

	"golang.org/x/oauth2"

	"radar/internal/models"
	"radar/internal/services"
)

// MockService is a configurable test double for [services.Service]
type MockService struct {
	Artists       []models.Artist
	Albums        map[string][]models.Release // keyed by artist ID
	Tracks        map[string][]models.Track   // keyed by release ID
	User          *services.SpotifyUser
	Created       []models.Playlist
	AddedURIs     [][]string
	FailFollowed  error
	FailAlbums    error
	FailTracks    error
	FailCreate    error
	FailAddTracks error
}

func (m *MockService) Authenticate(ctx context.Context, token *oauth2.Token) error {
	return nil
}

func (m *MockService) CurrentUser(ctx context.Context) (*services.SpotifyUser, error) {
	if m.User == nil {
		return &services.SpotifyUser{ID: "mockuser"}, nil
	}
	return m.User, nil
}

func (m *MockService) FollowedArtists(ctx context.Context) ([]models.Artist, error) {
	if m.FailFollowed != nil {
		return nil, m.FailFollowed
	}
	return m.Artists, nil
}

func (m *MockService) ArtistAlbums(ctx context.Context, artistID, market string) ([]models.Release, error) {
	if m.FailAlbums != nil {
		return nil, m.FailAlbums
	}
	return m.Albums[artistID], nil
}

func (m *MockService) AlbumTracks(ctx context.Context, release models.Release) ([]models.Track, error) {
	if m.FailTracks != nil {
		return nil, m.FailTracks
	}
	return m.Tracks[release.ID], nil
}

func (m *MockService) CreatePlaylist(ctx context.Context, userID, name, description string, public bool) (*models.Playlist, error) {
	if m.FailCreate != nil {
		return nil, m.FailCreate
	}
	pl := models.Playlist{
		ID:          "mock-playlist",
		Name:        name,
		Description: description,
		Public:      public,
		URL:         "https://open.spotify.com/playlist/mock-playlist",
	}
	m.Created = append(m.Created, pl)
	return &pl, nil
}

func (m *MockService) AddTracks(ctx context.Context, playlistID string, uris []string) error {
	if m.FailAddTracks != nil {
		return m.FailAddTracks
	}
	batch := make([]string, len(uris))
	copy(batch, uris)
	m.AddedURIs = append(m.AddedURIs, batch)
	return nil
}

func (m *MockService) Name() string { return "mock" }

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
