package controller_test

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/unclebandit/mailpulse-backend/internal/mailer"
	"github.com/unclebandit/mailpulse-backend/internal/model"
	"github.com/unclebandit/mailpulse-backend/internal/repository"
)

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]model.UserAccount
}

func (m *memUserRepo) FindByEmail(ctx context.Context, email string) (*model.UserAccount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[email]; ok {
		return &u, nil
	}
	return nil, nil
}

func (m *memUserRepo) Create(ctx context.Context, u *model.UserAccount) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.users == nil {
		m.users = map[string]model.UserAccount{}
	}
	if _, ok := m.users[u.Email]; ok {
		return repository.ErrDuplicate
	}
	m.users[u.Email] = *u
	return nil
}

type memEmailRepo struct {
	mu     sync.Mutex
	emails map[uuid.UUID]model.EmailRecord
	err    error
}

func (m *memEmailRepo) Create(ctx context.Context, e *model.EmailRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if m.emails == nil {
		m.emails = map[uuid.UUID]model.EmailRecord{}
	}
	m.emails[e.ID] = *e
	return nil
}

func (m *memEmailRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.EmailRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.emails[id]; ok {
		return &e, nil
	}
	return nil, nil
}

func (m *memEmailRepo) MarkOpened(ctx context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.emails[id]
	if !ok {
		return false, nil
	}
	e.Opened = true
	m.emails[id] = e
	return true, nil
}

func (m *memEmailRepo) ListUnopened(ctx context.Context) ([]model.EmailRecord, error) {
	return nil, errors.New("not used")
}

type fakeSender struct {
	sent []mailer.Message
	err  error
}

func (f *fakeSender) Send(ctx context.Context, msg mailer.Message) (*model.DeliveryReceipt, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.sent = append(f.sent, msg)
	return &model.DeliveryReceipt{MessageID: "<abc@example.com>", Accepted: []string{msg.To}, Response: "250 OK"}, nil
}

type fakeFetcher struct {
	org *model.Organization
	err error
}

func (f *fakeFetcher) FetchOrganization(ctx context.Context, profileURL string) (*model.Organization, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.org, nil
}

type fakeCompleter struct {
	text string
	err  error
}

func (f *fakeCompleter) Complete(ctx context.Context, system, prompt string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}
