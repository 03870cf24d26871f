package api

import (
	"bytes"
	"sync"
)

var (
	upstreamFailureMessage = []byte(`"message":"Request Failed`)
	upstreamFailureCode    = []byte("503")
)

// IsUpstreamFailure reports whether a 200 response body carries the upstream unavailable marker.
func IsUpstreamFailure(body []byte) bool {
	return bytes.Contains(body, upstreamFailureMessage) && bytes.Contains(body, upstreamFailureCode)
}

// Endpoints is an ordered, circular list of interchangeable API servers.
type Endpoints interface {
	// Current returns the server in use.
	Current() string
	// Rotate switches to the next server and returns it.
	Rotate() string
	// Len returns the number of servers.
	Len() int
}

type endpoints struct {
	mu      sync.Mutex
	servers []string
	current int
}

// NewEndpoints creates the failover list. The list must not be empty.
func NewEndpoints(servers []string) Endpoints {
	if len(servers) == 0 {
		panic("api: at least one API server is required")
	}

	return &endpoints{servers: append([]string(nil), servers...)}
}

func (e *endpoints) Current() string {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.servers[e.current]
}

func (e *endpoints) Rotate() string {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.current = (e.current + 1) % len(e.servers)

	return e.servers[e.current]
}

func (e *endpoints) Len() int {
	return len(e.servers)
}
