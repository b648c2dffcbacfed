// Package services implements the Spotify Web API client used by the radar pipeline.
//
// # Service Interface
//
// [Service] abstracts the handful of endpoints the pipeline touches: the
// user profile, followed artists, artist albums, album tracks, playlist
// creation, and playlist track insertion. [OAuthService] extends it with the
// authorization URL and OAuth2 config needed by the callback server.
//
// # Authentication
//
// [SpotifyService] authenticates with an [oauth2.Token]. The HTTP client is
// built from an oauth2 token source wrapped in refreshableTokenSource, which
// fires a registered callback whenever the access token changes so the CLI
// can write refreshed tokens back to config.toml.
//
// # Pagination
//
// Followed artists use cursor pagination ("after" IDs); artist albums and
// album tracks use offset pagination. All three loop until the API stops
// reporting a next page, returning fully materialized slices.
package services
