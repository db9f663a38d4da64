package chathub_test

import "connecto/backend/internal/models"

type MockClient struct {
	connID string
	userID string

	// Received collects everything the hub delivered to this client.
	Received chan models.ServerEvent

	full bool
}

func newMockClient(connID, userID string) *MockClient {
	return &MockClient{
		connID:   connID,
		userID:   userID,
		Received: make(chan models.ServerEvent, 16),
	}
}

func (c *MockClient) GetConnID() string { return c.connID }
func (c *MockClient) GetUserID() string { return c.userID }

func (c *MockClient) Send(event models.ServerEvent) bool {
	if c.full {
		return false
	}
	select {
	case c.Received <- event:
		return true
	default:
		return false
	}
}

func (c *MockClient) Run() {
	// Not needed for testing
}

func (c *MockClient) Close() {
	// Not needed for testing
}
