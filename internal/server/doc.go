// Package server provides the localhost HTTP plumbing for the OAuth2 authorization-code flow.
//
// # OAuth Callback Handler
//
// [OAuthHandler] implements the authorization code callback: it validates the
// state parameter (CSRF protection), exchanges the authorization code for
// tokens, and sends the result through a buffered channel. It only processes
// one callback to prevent replay attacks.
//
// # Callback Server
//
// [CallbackServer] wraps [http.Server] with a single /callback route. The CLI
// starts it before opening the browser, waits on the handler's result channel
// (with a timeout), then shuts the server down.
package server
