package services

import (
	"github.com/stretchr/testify/mock"
)

// MockSessionNotifier is a mock for the SessionNotifier interface
type MockSessionNotifier struct {
	mock.Mock
}

// PublishToSession records the call
func (m *MockSessionNotifier) PublishToSession(sessionID, eventType string, data interface{}) {
	m.Called(sessionID, eventType, data)
}
