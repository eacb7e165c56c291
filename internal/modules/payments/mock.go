package payments

import (
	"context"
	"fmt"
	"sync"
)

// MockProvider is an in-memory Provider for tests and local development
// without Stripe credentials.
type MockProvider struct {
	mu sync.Mutex

	CreateRequests []SessionRequest
	CreateRef      SessionRef
	CreateErr      error

	Sessions map[string]Session
	GetErrs  map[string]error

	VerifyEvent WebhookEvent
	VerifyErr   error

	seq int
}

func NewMockProvider() *MockProvider {
	return &MockProvider{
		Sessions: map[string]Session{},
		GetErrs:  map[string]error{},
	}
}

func (m *MockProvider) Name() string { return "mock" }

func (m *MockProvider) CreateCheckoutSession(_ context.Context, req SessionRequest) (SessionRef, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CreateRequests = append(m.CreateRequests, req)
	if m.CreateErr != nil {
		return SessionRef{}, m.CreateErr
	}
	if m.CreateRef.ID != "" {
		return m.CreateRef, nil
	}
	m.seq++
	id := fmt.Sprintf("cs_test_mock%06d", m.seq)
	return SessionRef{ID: id, URL: "https://checkout.mock.local/pay/" + id}, nil
}

func (m *MockProvider) GetCheckoutSession(_ context.Context, sessionID string) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err, ok := m.GetErrs[sessionID]; ok {
		return Session{}, err
	}
	if sess, ok := m.Sessions[sessionID]; ok {
		return sess, nil
	}
	return Session{}, &ProviderError{Kind: KindSessionMissing, Err: fmt.Errorf("mock: no such session %s", sessionID)}
}

func (m *MockProvider) VerifyWebhook(_ string, _ []byte) (WebhookEvent, error) {
	if m.VerifyErr != nil {
		return WebhookEvent{}, m.VerifyErr
	}
	return m.VerifyEvent, nil
}
