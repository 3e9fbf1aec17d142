package httpserver

import (
	"net/http"
	"time"
)

// New builds the loopback server the tablet UI talks to. WriteTimeout must
// exceed the longest backend deadline (the 30s register call) or the agent
// would cut responses off mid-registration.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      45 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
