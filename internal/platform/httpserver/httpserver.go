package httpserver

import (
	"net/http"
	"time"
)

// New builds an http.Server with timeouts suited to a JSON API that
// accepts inline photo uploads on the signup endpoint.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
}
