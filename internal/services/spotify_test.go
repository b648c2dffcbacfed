package services

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"golang.org/x/oauth2"

	"radar/internal/models"
	"radar/internal/shared"
)

func testCredentials() map[string]string {
	return map[string]string{
		"client_id":     "test_client_id",
		"client_secret": "test_client_secret",
	}
}

func TestSpotifyService(t *testing.T) {
	t.Run("NewSpotifyService", func(t *testing.T) {
		t.Run("With Valid Credentials", func(t *testing.T) {
			credentials := testCredentials()
			credentials["redirect_uri"] = "http://localhost:9999/callback"

			srv, err := NewSpotifyService(credentials)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if srv == nil {
				t.Fatal("expected service to be created")
			}

			if srv.Name() != "Spotify" {
				t.Errorf("expected service name 'Spotify', got %s", srv.Name())
			}

			if srv.config.RedirectURL != "http://localhost:9999/callback" {
				t.Errorf("unexpected redirect URI %s", srv.config.RedirectURL)
			}
		})

		t.Run("Missing Client ID", func(t *testing.T) {
			credentials := map[string]string{
				"client_secret": "test_client_secret",
			}

			if _, err := NewSpotifyService(credentials); err == nil {
				t.Error("expected error for missing client_id")
			}
		})

		t.Run("Missing Client Secret", func(t *testing.T) {
			credentials := map[string]string{
				"client_id": "test_client_id",
			}

			if _, err := NewSpotifyService(credentials); err == nil {
				t.Error("expected error for missing client_secret")
			}
		})

		t.Run("Default Redirect URI", func(t *testing.T) {
			srv, err := NewSpotifyService(testCredentials())
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if srv.config.RedirectURL != "http://localhost:3000/callback" {
				t.Errorf("expected default redirect URI, got %s", srv.config.RedirectURL)
			}
		})
	})

	t.Run("GetAuthURL", func(t *testing.T) {
		srv, err := NewSpotifyService(testCredentials())
		if err != nil {
			t.Fatalf("failed to create service: %v", err)
		}

		authURL := srv.GetAuthURL("test_state")
		if authURL == "" {
			t.Fatal("expected auth URL to be generated")
		}

		if !strings.Contains(authURL, "accounts.spotify.com") {
			t.Error("auth URL should contain Spotify domain")
		}
		if !strings.Contains(authURL, "test_client_id") {
			t.Error("auth URL should contain client_id")
		}
		if !strings.Contains(authURL, "test_state") {
			t.Error("auth URL should contain state")
		}
		if !strings.Contains(authURL, "user-follow-read") {
			t.Error("auth URL should request the follow scope")
		}
		if !strings.Contains(authURL, "playlist-modify-private") {
			t.Error("auth URL should request the private playlist scope")
		}
	})

	t.Run("Authenticate", func(t *testing.T) {
		srv, err := NewSpotifyService(testCredentials())
		if err != nil {
			t.Fatalf("failed to create service: %v", err)
		}

		t.Run("with valid token", func(t *testing.T) {
			token := &oauth2.Token{AccessToken: "test_access_token"}
			if err := srv.Authenticate(context.Background(), token); err != nil {
				t.Errorf("expected no error with access token, got %v", err)
			}
		})

		t.Run("with nil token", func(t *testing.T) {
			if err := srv.Authenticate(context.Background(), nil); err == nil {
				t.Error("expected error for nil token")
			}
		})

		t.Run("with empty access token", func(t *testing.T) {
			if err := srv.Authenticate(context.Background(), &oauth2.Token{}); err == nil {
				t.Error("expected error for empty access token")
			}
		})
	})

	t.Run("AddTracks", func(t *testing.T) {
		srv, err := NewSpotifyService(testCredentials())
		if err != nil {
			t.Fatalf("failed to create service: %v", err)
		}

		t.Run("rejects more than 100 URIs", func(t *testing.T) {
			uris := make([]string, 101)
			for i := range uris {
				uris[i] = "spotify:track:x"
			}

			if err := srv.AddTracks(context.Background(), "pl1", uris); err == nil {
				t.Error("expected error for oversized batch")
			}
		})

		t.Run("empty batch is a no-op", func(t *testing.T) {
			if err := srv.AddTracks(context.Background(), "pl1", nil); err != nil {
				t.Errorf("expected no error for empty batch, got %v", err)
			}
		})
	})

	t.Run("requests require authentication", func(t *testing.T) {
		srv, err := NewSpotifyService(testCredentials())
		if err != nil {
			t.Fatalf("failed to create service: %v", err)
		}

		if _, err := srv.CurrentUser(context.Background()); err == nil {
			t.Error("expected error before Authenticate is called")
		}
	})
}

// scriptedTransport replays canned responses in order, recording request URLs.
type scriptedTransport struct {
	responses []*http.Response
	requests  []string
	calls     int
}

func (t *scriptedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	t.requests = append(t.requests, req.URL.String())
	if t.calls >= len(t.responses) {
		return nil, errors.New("no scripted response left")
	}
	resp := t.responses[t.calls]
	t.calls++
	return resp, nil
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

// wiredService returns an authenticated service whose HTTP client replays the
// given responses.
func wiredService(t *testing.T, responses ...*http.Response) (*SpotifyService, *scriptedTransport) {
	t.Helper()

	srv, err := NewSpotifyService(testCredentials())
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	if err := srv.Authenticate(context.Background(), &oauth2.Token{AccessToken: "token"}); err != nil {
		t.Fatalf("failed to authenticate: %v", err)
	}

	transport := &scriptedTransport{responses: responses}
	srv.httpClient = &http.Client{Transport: transport}
	return srv, transport
}

func TestSpotifyWire(t *testing.T) {
	ctx := context.Background()

	t.Run("CurrentUser decodes profile", func(t *testing.T) {
		srv, _ := wiredService(t, jsonResponse(200, `{"id":"user1","display_name":"Tester"}`))

		user, err := srv.CurrentUser(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if user.ID != "user1" || user.DisplayName != "Tester" {
			t.Errorf("unexpected user: %+v", user)
		}
	})

	t.Run("401 maps to token expiry", func(t *testing.T) {
		srv, _ := wiredService(t, jsonResponse(401, `{"error":{"status":401,"message":"The access token expired"}}`))

		_, err := srv.CurrentUser(ctx)
		if !errors.Is(err, shared.ErrTokenExpired) {
			t.Errorf("expected ErrTokenExpired, got %v", err)
		}
	})

	t.Run("API error message surfaces", func(t *testing.T) {
		srv, _ := wiredService(t, jsonResponse(403, `{"error":{"status":403,"message":"Insufficient client scope"}}`))

		_, err := srv.CurrentUser(ctx)
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Fatalf("expected ErrAPIRequest, got %v", err)
		}
		if !strings.Contains(err.Error(), "Insufficient client scope") {
			t.Errorf("expected API message in error, got %v", err)
		}
	})

	t.Run("FollowedArtists follows cursors", func(t *testing.T) {
		page1 := `{"artists":{"items":[{"id":"art1","name":"The Night Owls"}],"total":2,"cursors":{"after":"art1"},"next":"more"}}`
		page2 := `{"artists":{"items":[{"id":"art2","name":"Glass Harbor"}],"total":2,"cursors":{"after":""},"next":null}}`
		srv, transport := wiredService(t, jsonResponse(200, page1), jsonResponse(200, page2))

		artists, err := srv.FollowedArtists(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(artists) != 2 {
			t.Fatalf("expected 2 artists, got %d", len(artists))
		}
		if artists[0].ID != "art1" || artists[1].ID != "art2" {
			t.Errorf("unexpected artists: %v", artists)
		}
		if len(transport.requests) != 2 {
			t.Fatalf("expected 2 requests, got %d", len(transport.requests))
		}
		if !strings.Contains(transport.requests[1], "after=art1") {
			t.Errorf("expected cursor in second request, got %s", transport.requests[1])
		}
	})

	t.Run("ArtistAlbums pages by offset and passes market", func(t *testing.T) {
		page := `{"items":[{"id":"rel1","name":"Midnight Sessions","album_type":"album","artists":[{"id":"art1","name":"The Night Owls"}],"release_date":"2025-06-12","release_date_precision":"day","total_tracks":2}],"total":1,"next":null}`
		srv, transport := wiredService(t, jsonResponse(200, page))

		releases, err := srv.ArtistAlbums(ctx, "art1", "SE")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(releases) != 1 {
			t.Fatalf("expected 1 release, got %d", len(releases))
		}
		release := releases[0]
		if release.ArtistID != "art1" || release.ArtistName != "The Night Owls" {
			t.Errorf("unexpected release artist fields: %+v", release)
		}
		if release.Precision != "day" {
			t.Errorf("expected day precision, got %s", release.Precision)
		}
		if !strings.Contains(transport.requests[0], "include_groups=album,single") {
			t.Errorf("expected include_groups in request, got %s", transport.requests[0])
		}
		if !strings.Contains(transport.requests[0], "market=SE") {
			t.Errorf("expected market in request, got %s", transport.requests[0])
		}
	})

	t.Run("AlbumTracks carries release context onto tracks", func(t *testing.T) {
		page := `{"items":[{"id":"t1","uri":"spotify:track:t1","name":"First Light","artists":[{"id":"art1","name":"The Night Owls"}],"external_urls":{"spotify":"https://open.spotify.com/track/t1"}}],"total":1,"next":null}`
		srv, _ := wiredService(t, jsonResponse(200, page))

		release := models.Release{ID: "rel1", Name: "Midnight Sessions", ArtistName: "The Night Owls", ReleaseDate: "2025-06-12"}
		tracks, err := srv.AlbumTracks(ctx, release)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(tracks) != 1 {
			t.Fatalf("expected 1 track, got %d", len(tracks))
		}
		track := tracks[0]
		if track.AlbumID != "rel1" || track.AlbumName != "Midnight Sessions" {
			t.Errorf("expected release context on track, got %+v", track)
		}
		if track.URL != "https://open.spotify.com/track/t1" {
			t.Errorf("unexpected track URL %s", track.URL)
		}
	})

	t.Run("CreatePlaylist decodes created playlist", func(t *testing.T) {
		body := `{"id":"pl1","name":"New Releases 2025-06-15","description":"window","public":false,"external_urls":{"spotify":"https://open.spotify.com/playlist/pl1"}}`
		srv, transport := wiredService(t, jsonResponse(201, body))

		playlist, err := srv.CreatePlaylist(ctx, "user1", "New Releases 2025-06-15", "window", false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if playlist.ID != "pl1" || playlist.Public {
			t.Errorf("unexpected playlist: %+v", playlist)
		}
		if !strings.Contains(transport.requests[0], "/users/user1/playlists") {
			t.Errorf("unexpected request URL %s", transport.requests[0])
		}
	})
}

// stubTokenSource hands out a fixed sequence of tokens.
type stubTokenSource struct {
	tokens []*oauth2.Token
	err    error
	calls  int
}

func (s *stubTokenSource) Token() (*oauth2.Token, error) {
	if s.err != nil {
		return nil, s.err
	}
	token := s.tokens[s.calls]
	if s.calls < len(s.tokens)-1 {
		s.calls++
	}
	return token, nil
}

func TestRefreshableTokenSource(t *testing.T) {
	t.Run("invokes callback on token change", func(t *testing.T) {
		first := &oauth2.Token{AccessToken: "first", Expiry: time.Now().Add(time.Hour)}
		second := &oauth2.Token{AccessToken: "second", Expiry: time.Now().Add(2 * time.Hour)}

		var refreshed []string
		source := &refreshableTokenSource{
			source: &stubTokenSource{tokens: []*oauth2.Token{first, first, second}},
			callback: func(token *oauth2.Token) {
				refreshed = append(refreshed, token.AccessToken)
			},
		}

		for i := 0; i < 3; i++ {
			if _, err := source.Token(); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}

		if len(refreshed) != 2 {
			t.Fatalf("expected 2 callback invocations, got %d", len(refreshed))
		}
		if refreshed[0] != "first" || refreshed[1] != "second" {
			t.Errorf("unexpected callback tokens: %v", refreshed)
		}
	})

	t.Run("propagates source errors", func(t *testing.T) {
		source := &refreshableTokenSource{
			source: &stubTokenSource{err: errors.New("refresh failed")},
		}

		if _, err := source.Token(); err == nil {
			t.Error("expected error from failing source")
		}
	})

	t.Run("nil callback is safe", func(t *testing.T) {
		token := &oauth2.Token{AccessToken: "only"}
		source := &refreshableTokenSource{
			source: &stubTokenSource{tokens: []*oauth2.Token{token}},
		}

		if _, err := source.Token(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}
