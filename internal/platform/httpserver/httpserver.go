package httpserver

import (
	"net/http"
	"time"
)

// New returns the server the binary listens on. Per-request deadlines live in
// the router's timeout middleware; only the header read is bounded here, so
// slow-header clients cannot pin connections.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
