package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/Josemabaher/bargoglio-webapp-sub001/internal/domain"
	"github.com/google/uuid"
)

// MockPaymentProvider stands in for Stripe in development and integration
// runs. Webhook payloads are accepted unsigned as a JSON PaymentNotification.
type MockPaymentProvider struct {
	mu       sync.Mutex
	sessions []domain.CheckoutRequest
}

func NewMockPaymentProvider() *MockPaymentProvider {
	return &MockPaymentProvider{}
}

func (m *MockPaymentProvider) CreateCheckoutSession(
	ctx context.Context,
	req domain.CheckoutRequest) (*domain.CheckoutSession, error) {

	m.mu.Lock()
	m.sessions = append(m.sessions, req)
	m.mu.Unlock()

	id := "cs_test_" + uuid.NewString()

	return &domain.CheckoutSession{
		ID:  id,
		URL: fmt.Sprintf("https://checkout.example.com/%s", id),
	}, nil
}

func (m *MockPaymentProvider) ParseWebhook(payload []byte, signature string) (*domain.PaymentNotification, error) {
	var notification domain.PaymentNotification

	if err := json.Unmarshal(payload, &notification); err != nil {
		return nil, fmt.Errorf("decode notification: %w", err)
	}

	if notification.Status == "" {
		notification.Status = domain.PaymentIgnored
	}

	return &notification, nil
}

// Sessions returns a copy of every checkout request received so far.
func (m *MockPaymentProvider) Sessions() []domain.CheckoutRequest {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]domain.CheckoutRequest, len(m.sessions))
	copy(out, m.sessions)

	return out
}
