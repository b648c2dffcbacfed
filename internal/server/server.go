// package server hosts the temporary HTTP server used for OAuth callbacks
package server

import (
	"context"
	"net/http"
)

// CallbackServer is a short-lived HTTP server that exists only for the
// duration of an OAuth2 authorization flow.
type CallbackServer struct {
	srv    *http.Server
	errors chan error
}

// NewCallbackServer creates a server at addr routing /callback to the handler.
func NewCallbackServer(addr string, handler http.Handler) *CallbackServer {
	mux := http.NewServeMux()
	mux.Handle("/callback", handler)

	return &CallbackServer{
		srv:    &http.Server{Addr: addr, Handler: mux},
		errors: make(chan error, 1),
	}
}

// Start begins serving in a background goroutine.
//
// Startup and serve failures are delivered on [CallbackServer.Errors];
// http.ErrServerClosed from a clean shutdown is swallowed.
func (c *CallbackServer) Start() {
	go func() {
		if err := c.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			c.errors <- err
		}
	}()
}

// Errors returns the channel delivering serve failures.
func (c *CallbackServer) Errors() <-chan error {
	return c.errors
}

// Shutdown gracefully stops the server.
func (c *CallbackServer) Shutdown(ctx context.Context) error {
	return c.srv.Shutdown(ctx)
}
