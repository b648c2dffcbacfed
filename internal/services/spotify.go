// Spotify API implementation of [Service]
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"golang.org/x/oauth2"

	"radar/internal/models"
	"radar/internal/shared"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"
)

// Follow and playlist write access. The follow scope covers /me/following,
// the modify scopes cover playlist creation in both visibilities.
var spotifyScopes = []string{
	"user-follow-read",
	"playlist-modify-public",
	"playlist-modify-private",
}

// SpotifyUser represents a Spotify user profile.
type SpotifyUser struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Country     string `json:"country"`
}

type externalURLs struct {
	Spotify string `json:"spotify"`
}

type spotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type spotifyAlbum struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	AlbumGroup  string          `json:"album_group"`
	AlbumType   string          `json:"album_type"`
	Artists     []spotifyArtist `json:"artists"`
	ReleaseDate string          `json:"release_date"`
	Precision   string          `json:"release_date_precision"`
	TotalTracks int             `json:"total_tracks"`
}

type spotifyTrack struct {
	ID           string          `json:"id"`
	URI          string          `json:"uri"`
	Name         string          `json:"name"`
	Artists      []spotifyArtist `json:"artists"`
	ExternalURLs externalURLs    `json:"external_urls"`
}

type spotifyPlaylist struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Description  string       `json:"description"`
	Public       bool         `json:"public"`
	ExternalURLs externalURLs `json:"external_urls"`
}

type albumPage struct {
	Items []spotifyAlbum `json:"items"`
	Total int            `json:"total"`
	Next  *string        `json:"next"`
}

type trackPage struct {
	Items []spotifyTrack `json:"items"`
	Total int            `json:"total"`
	Next  *string        `json:"next"`
}

type followedArtistsPage struct {
	Artists struct {
		Items  []spotifyArtist `json:"items"`
		Total  int             `json:"total"`
		Cursor struct {
			After string `json:"after"`
		} `json:"cursors"`
		Next *string `json:"next"`
	} `json:"artists"`
}

type apiError struct {
	Error struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	} `json:"error"`
}

// SpotifyService implements the [Service] interface for Spotify API interactions.
// Uses [oauth2] for authentication and provides methods for artist, release, and playlist operations.
type SpotifyService struct {
	config         *oauth2.Config
	token          *oauth2.Token
	httpClient     *http.Client
	onTokenRefresh func(*oauth2.Token)
}

// NewSpotifyService creates a new Spotify service with the given OAuth2 credentials.
func NewSpotifyService(credentials map[string]string) (*SpotifyService, error) {
	clientID, ok := credentials["client_id"]
	if !ok || clientID == "" {
		return nil, fmt.Errorf("missing client_id in credentials")
	}

	clientSecret, ok := credentials["client_secret"]
	if !ok || clientSecret == "" {
		return nil, fmt.Errorf("missing client_secret in credentials")
	}

	redirectURI, ok := credentials["redirect_uri"]
	if !ok || redirectURI == "" {
		redirectURI = "http://localhost:3000/callback"
	}

	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURI,
		Scopes:       spotifyScopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  spotifyAuthURL,
			TokenURL: spotifyTokenURL,
		},
	}

	return &SpotifyService{
		config:     config,
		httpClient: http.DefaultClient,
	}, nil
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// GetAuthURL returns the OAuth2 authorization URL for user login.
func (s *SpotifyService) GetAuthURL(state string) string {
	return s.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// GetOAuthConfig exposes the OAuth2 configuration for the callback handler.
func (s *SpotifyService) GetOAuthConfig() *oauth2.Config {
	return s.config
}

// SetTokenRefreshCallback registers a function invoked whenever the token
// source produces a new token, so callers can persist refreshed credentials.
func (s *SpotifyService) SetTokenRefreshCallback(fn func(*oauth2.Token)) {
	s.onTokenRefresh = fn
}

// Authenticate installs the token and builds an HTTP client that refreshes it transparently.
func (s *SpotifyService) Authenticate(ctx context.Context, token *oauth2.Token) error {
	if token == nil || token.AccessToken == "" {
		return fmt.Errorf("%w: run 'radar auth' first", shared.ErrNotAuthenticated)
	}

	s.token = token
	source := &refreshableTokenSource{
		source:   s.config.TokenSource(ctx, token),
		callback: s.onTokenRefresh,
	}
	s.httpClient = oauth2.NewClient(ctx, source)

	return nil
}

// ExchangeCode trades an authorization code for a token and authenticates with it.
func (s *SpotifyService) ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := s.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange auth code: %w", err)
	}

	if err := s.Authenticate(ctx, token); err != nil {
		return nil, err
	}

	return token, nil
}

// doRequest performs an authenticated HTTP request against the Spotify API.
func (s *SpotifyService) doRequest(ctx context.Context, method, endpoint string, body, result any) error {
	if s.token == nil {
		return fmt.Errorf("%w: call Authenticate first", shared.ErrNotAuthenticated)
	}

	apiURL := spotifyBaseURL + endpoint

	var reqBody *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%w: spotify returned 401", shared.ErrTokenExpired)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr apiError
		if decodeErr := json.NewDecoder(resp.Body).Decode(&apiErr); decodeErr == nil && apiErr.Error.Message != "" {
			return fmt.Errorf("%w: status %d: %s", shared.ErrAPIRequest, resp.StatusCode, apiErr.Error.Message)
		}
		return fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// CurrentUser retrieves the current authenticated user's profile.
func (s *SpotifyService) CurrentUser(ctx context.Context) (*SpotifyUser, error) {
	var user SpotifyUser
	if err := s.doRequest(ctx, http.MethodGet, "/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// FollowedArtists retrieves all artists the user follows.
//
// The endpoint is cursor-paginated: each page reports the ID to pass as
// "after" for the next page, and Next goes nil on the last one.
func (s *SpotifyService) FollowedArtists(ctx context.Context) ([]models.Artist, error) {
	var artists []models.Artist
	after := ""

	for {
		endpoint := "/me/following?type=artist&limit=50"
		if after != "" {
			endpoint += "&after=" + url.QueryEscape(after)
		}

		var page followedArtistsPage
		if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &page); err != nil {
			return nil, err
		}

		for _, item := range page.Artists.Items {
			artists = append(artists, models.Artist{ID: item.ID, Name: item.Name})
		}

		if page.Artists.Next == nil || page.Artists.Cursor.After == "" {
			break
		}
		after = page.Artists.Cursor.After
	}

	return artists, nil
}

// ArtistAlbums retrieves an artist's albums and singles across all pages.
func (s *SpotifyService) ArtistAlbums(ctx context.Context, artistID, market string) ([]models.Release, error) {
	var releases []models.Release
	offset := 0

	for {
		endpoint := fmt.Sprintf("/artists/%s/albums?include_groups=album,single&limit=50&offset=%d", artistID, offset)
		if market != "" {
			endpoint += "&market=" + url.QueryEscape(market)
		}

		var page albumPage
		if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &page); err != nil {
			return nil, err
		}

		for _, album := range page.Items {
			release := models.Release{
				ID:          album.ID,
				Name:        album.Name,
				ArtistID:    artistID,
				Type:        album.AlbumType,
				ReleaseDate: album.ReleaseDate,
				Precision:   album.Precision,
				TotalTracks: album.TotalTracks,
			}
			if len(album.Artists) > 0 {
				release.ArtistName = album.Artists[0].Name
			}
			releases = append(releases, release)
		}

		if page.Next == nil {
			break
		}
		offset += 50
	}

	return releases, nil
}

// AlbumTracks retrieves the full track listing of a release.
func (s *SpotifyService) AlbumTracks(ctx context.Context, release models.Release) ([]models.Track, error) {
	var tracks []models.Track
	offset := 0

	for {
		endpoint := fmt.Sprintf("/albums/%s/tracks?limit=50&offset=%d", release.ID, offset)

		var page trackPage
		if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &page); err != nil {
			return nil, err
		}

		for _, item := range page.Items {
			track := models.Track{
				ID:          item.ID,
				URI:         item.URI,
				Name:        item.Name,
				ArtistName:  release.ArtistName,
				AlbumID:     release.ID,
				AlbumName:   release.Name,
				ReleaseDate: release.ReleaseDate,
				URL:         item.ExternalURLs.Spotify,
			}
			if track.ArtistName == "" && len(item.Artists) > 0 {
				track.ArtistName = item.Artists[0].Name
			}
			tracks = append(tracks, track)
		}

		if page.Next == nil {
			break
		}
		offset += 50
	}

	return tracks, nil
}

// CreatePlaylist creates an empty playlist owned by the given user.
func (s *SpotifyService) CreatePlaylist(ctx context.Context, userID, name, description string, public bool) (*models.Playlist, error) {
	body := map[string]any{
		"name":        name,
		"description": description,
		"public":      public,
	}

	var created spotifyPlaylist
	endpoint := fmt.Sprintf("/users/%s/playlists", url.PathEscape(userID))
	if err := s.doRequest(ctx, http.MethodPost, endpoint, body, &created); err != nil {
		return nil, err
	}

	return &models.Playlist{
		ID:          created.ID,
		Name:        created.Name,
		Description: created.Description,
		Public:      created.Public,
		URL:         created.ExternalURLs.Spotify,
	}, nil
}

// AddTracks appends track URIs to a playlist. The endpoint caps a single
// request at 100 URIs; callers batch accordingly.
func (s *SpotifyService) AddTracks(ctx context.Context, playlistID string, uris []string) error {
	if len(uris) == 0 {
		return nil
	}
	if len(uris) > 100 {
		return fmt.Errorf("%w: at most 100 URIs per request, got %d", shared.ErrInvalidArgument, len(uris))
	}

	body := map[string]any{"uris": uris}
	endpoint := fmt.Sprintf("/playlists/%s/tracks", playlistID)
	return s.doRequest(ctx, http.MethodPost, endpoint, body, nil)
}

// refreshableTokenSource wraps an [oauth2.TokenSource] and invokes a callback
// whenever the underlying source hands back a different access token.
type refreshableTokenSource struct {
	source   oauth2.TokenSource
	callback func(*oauth2.Token)
	mu       sync.Mutex
	last     string
}

func (r *refreshableTokenSource) Token() (*oauth2.Token, error) {
	token, err := r.source.Token()
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	changed := token.AccessToken != r.last
	r.last = token.AccessToken
	r.mu.Unlock()

	if changed && r.callback != nil {
		r.callback(token)
	}

	return token, nil
}
