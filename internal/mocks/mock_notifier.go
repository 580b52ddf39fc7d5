package mocks

import (
	"sync"

	"helpyhands-market-service/internal/ports/outbound"
)

// MockNotifier implements outbound.Notifier for testing. Sent messages are
// recorded so tests can assert on dispatch.
type MockNotifier struct {
	SendSMSFunc   func(to, message string) error
	SendEmailFunc func(to, subject, body string) error

	mu         sync.Mutex
	SentSMS    []SentSMS
	SentEmails []SentEmail
}

type SentSMS struct {
	To      string
	Message string
}

type SentEmail struct {
	To      string
	Subject string
	Body    string
}

// NewMockNotifier creates a new MockNotifier with default behaviors
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

func (m *MockNotifier) SendSMS(to, message string) error {
	if m.SendSMSFunc != nil {
		return m.SendSMSFunc(to, message)
	}
	// Default behavior: record and succeed
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SentSMS = append(m.SentSMS, SentSMS{To: to, Message: message})
	return nil
}

func (m *MockNotifier) SendEmail(to, subject, body string) error {
	if m.SendEmailFunc != nil {
		return m.SendEmailFunc(to, subject, body)
	}
	// Default behavior: record and succeed
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SentEmails = append(m.SentEmails, SentEmail{To: to, Subject: subject, Body: body})
	return nil
}

// Compile-time interface compliance verification
var _ outbound.Notifier = (*MockNotifier)(nil)
