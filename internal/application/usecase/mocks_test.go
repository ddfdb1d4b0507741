package usecase_test

import (
	"context"
	"strings"
	"sync"

	"github.com/bibbank/loanrisk/internal/domain/event"
	"github.com/bibbank/loanrisk/internal/domain/model"
	"github.com/bibbank/loanrisk/internal/domain/port"
)

// --- Mock implementations ---

type mockApplicantRepository struct {
	mu        sync.Mutex
	stored    map[string]model.Applicant
	saveFunc  func(ctx context.Context, a model.Applicant) error
	listFunc  func(ctx context.Context, q port.ListQuery) (port.ApplicantPage, error)
	saved     []model.Applicant
	events    []event.DomainEvent
	lastQuery port.ListQuery
}

func newMockRepo(applicants ...model.Applicant) *mockApplicantRepository {
	m := &mockApplicantRepository{stored: make(map[string]model.Applicant)}
	for _, a := range applicants {
		m.stored[a.ID()] = a.ClearEvents()
	}
	return m
}

func (m *mockApplicantRepository) Save(ctx context.Context, a model.Applicant) error {
	if m.saveFunc != nil {
		if err := m.saveFunc(ctx, a); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = append(m.saved, a)
	m.events = append(m.events, a.DomainEvents()...)
	m.stored[a.ID()] = a.ClearEvents()
	return nil
}

// eventTypes lists the event types recorded with saved applicants.
func (m *mockApplicantRepository) eventTypes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.events))
	for _, e := range m.events {
		out = append(out, e.EventType())
	}
	return out
}

func (m *mockApplicantRepository) FindByID(_ context.Context, id string) (model.Applicant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.stored[id]; ok {
		return a, nil
	}
	return model.Applicant{}, &model.NotFoundError{Identifier: id}
}

func (m *mockApplicantRepository) FindByEmail(_ context.Context, email string) (model.Applicant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.stored {
		if strings.EqualFold(a.Email(), email) {
			return a, nil
		}
	}
	return model.Applicant{}, &model.NotFoundError{Identifier: email}
}

func (m *mockApplicantRepository) FindByIdentifier(ctx context.Context, identifier string) (model.Applicant, error) {
	if strings.Contains(identifier, "@") {
		return m.FindByEmail(ctx, identifier)
	}
	return m.FindByID(ctx, identifier)
}

func (m *mockApplicantRepository) List(ctx context.Context, q port.ListQuery) (port.ApplicantPage, error) {
	m.lastQuery = q
	if m.listFunc != nil {
		return m.listFunc(ctx, q)
	}
	return port.NewApplicantPage(nil, q, 0), nil
}

type mockLocker struct {
	lockFunc func(ctx context.Context, key string) error
	keys     []string
	released int
}

func (m *mockLocker) Lock(ctx context.Context, key string) (func(context.Context) error, error) {
	if m.lockFunc != nil {
		if err := m.lockFunc(ctx, key); err != nil {
			return nil, err
		}
	}
	m.keys = append(m.keys, key)
	return func(context.Context) error {
		m.released++
		return nil
	}, nil
}
