package chathub

import "connecto/backend/internal/models"

// Client is the interface for one live, authenticated connection.
// It abstracts the underlying transport so the hub can manage different
// client types uniformly (the WebSocket client in production, mocks in tests).
type Client interface {
	// GetConnID returns the unique identifier of this connection. One user
	// may hold several concurrent connections, each with its own id.
	GetConnID() string
	// GetUserID returns the authenticated user behind the connection.
	GetUserID() string

	// Send queues an event for delivery to the connection without blocking.
	// It returns false when the connection is closed or its buffer is full;
	// a slow consumer must never delay delivery to the others.
	Send(event models.ServerEvent) bool

	// Run starts the client's read and write pumps, which handle incoming
	// and outgoing events.
	Run()
	// Close shuts down the client's outbound delivery. Safe to call more
	// than once.
	Close()
}
