// package services defines interface Service for interacting with the Spotify Web API
package services

import (
	"context"

	"golang.org/x/oauth2"

	"radar/internal/models"
)

// Service defines the Spotify operations the radar pipeline depends on.
// The concrete implementation is [SpotifyService]; tests substitute mocks.
type Service interface {
	// Authenticate installs an OAuth2 token and builds the authenticated HTTP client.
	Authenticate(ctx context.Context, token *oauth2.Token) error

	// CurrentUser retrieves the authenticated user's profile.
	CurrentUser(ctx context.Context) (*SpotifyUser, error)

	// FollowedArtists retrieves every artist the user follows, across all cursor pages.
	FollowedArtists(ctx context.Context) ([]models.Artist, error)

	// ArtistAlbums retrieves an artist's albums and singles, across all offset pages.
	ArtistAlbums(ctx context.Context, artistID, market string) ([]models.Release, error)

	// AlbumTracks retrieves the track listing of a release, across all offset pages.
	AlbumTracks(ctx context.Context, release models.Release) ([]models.Track, error)

	// CreatePlaylist creates an empty playlist owned by the given user.
	CreatePlaylist(ctx context.Context, userID, name, description string, public bool) (*models.Playlist, error)

	// AddTracks appends up to 100 track URIs to a playlist.
	AddTracks(ctx context.Context, playlistID string, uris []string) error

	// Name returns the name of the service
	Name() string
}

// OAuthService is implemented by services that authenticate via the OAuth2 authorization-code flow.
type OAuthService interface {
	Service

	// GetAuthURL returns the authorization URL for user login.
	GetAuthURL(state string) string

	// GetOAuthConfig exposes the underlying OAuth2 configuration for callback handling.
	GetOAuthConfig() *oauth2.Config
}
