package service_test

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/unclebandit/mailpulse-backend/internal/mailer"
	"github.com/unclebandit/mailpulse-backend/internal/model"
	"github.com/unclebandit/mailpulse-backend/internal/repository"
)

// --- Mock Repositories ---

type MockUserRepo struct {
	mu      sync.Mutex
	users   map[string]*model.UserAccount
	findErr error
	// createErr, when set, is returned by Create instead of storing.
	createErr error
}

func NewMockUserRepo() *MockUserRepo {
	return &MockUserRepo{users: map[string]*model.UserAccount{}}
}

func (m *MockUserRepo) FindByEmail(ctx context.Context, email string) (*model.UserAccount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	u, ok := m.users[email]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (m *MockUserRepo) Create(ctx context.Context, u *model.UserAccount) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	if _, ok := m.users[u.Email]; ok {
		return repository.ErrDuplicate
	}
	cp := *u
	m.users[u.Email] = &cp
	return nil
}

func (m *MockUserRepo) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users)
}

type MockEmailRepo struct {
	mu        sync.Mutex
	emails    map[uuid.UUID]*model.EmailRecord
	order     []uuid.UUID
	createErr error
	updateErr error
	listErr   error
	updates   int
}

func NewMockEmailRepo() *MockEmailRepo {
	return &MockEmailRepo{emails: map[uuid.UUID]*model.EmailRecord{}}
}

func (m *MockEmailRepo) Create(ctx context.Context, e *model.EmailRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	cp := *e
	m.emails[e.ID] = &cp
	m.order = append(m.order, e.ID)
	return nil
}

func (m *MockEmailRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.EmailRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.emails[id]
	if !ok {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

func (m *MockEmailRepo) MarkOpened(ctx context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updates++
	if m.updateErr != nil {
		return false, m.updateErr
	}
	e, ok := m.emails[id]
	if !ok {
		return false, nil
	}
	e.Opened = true
	return true, nil
}

func (m *MockEmailRepo) ListUnopened(ctx context.Context) ([]model.EmailRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := []model.EmailRecord{}
	for _, id := range m.order {
		if e := m.emails[id]; !e.Opened {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (m *MockEmailRepo) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.emails)
}

// --- Mock transport ---

type MockSender struct {
	sent []mailer.Message
	err  error
}

func (m *MockSender) Send(ctx context.Context, msg mailer.Message) (*model.DeliveryReceipt, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.sent = append(m.sent, msg)
	return &model.DeliveryReceipt{MessageID: "<1@example.com>", Accepted: []string{msg.To}, Response: "250 OK"}, nil
}

// --- Mock publisher ---

type MockPublisher struct {
	mu       sync.Mutex
	payloads []any
	err      error
}

func (m *MockPublisher) Publish(topic string, payload any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.payloads = append(m.payloads, payload)
	return nil
}
