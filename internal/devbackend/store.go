// Package devbackend is an in-memory implementation of the auth and
// payment-method backend contract the dashboard gateway consumes. It backs
// cmd/devbackend for local use and the gateway's end-to-end tests.
package devbackend

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/perbaikiinaja/dashboard/internal/core/domain"
)

var (
	errEmailTaken = errors.New("email already registered")
	errNotFound   = errors.New("payment method not found")
)

type account struct {
	ID           string
	Role         domain.Role
	FullName     string
	Email        string
	PhoneNumber  string
	Address      string
	PasswordHash string
	CreatedAt    time.Time
}

func (a *account) identity() domain.Identity {
	p := domain.Profile{ID: a.ID, FullName: a.FullName, Email: a.Email, PhoneNumber: a.PhoneNumber}
	var addr *string
	if a.Address != "" {
		v := a.Address
		addr = &v
	}
	switch a.Role {
	case domain.RoleAdmin:
		return domain.Admin{Profile: p}
	case domain.RoleTechnician:
		return domain.Technician{Profile: p, Address: addr}
	default:
		return domain.User{Profile: p, Address: addr}
	}
}

// Store keeps accounts and payment methods in memory.
type Store struct {
	mu       sync.RWMutex
	accounts map[string]*account // by lower-cased email
	methods  map[string]domain.PaymentMethodRecord
	now      func() time.Time
}

func NewStore() *Store {
	return &Store{
		accounts: make(map[string]*account),
		methods:  make(map[string]domain.PaymentMethodRecord),
		now:      time.Now,
	}
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Store) addAccount(a *account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := emailKey(a.Email)
	if _, ok := s.accounts[key]; ok {
		return errEmailTaken
	}
	a.ID = uuid.NewString()
	a.CreatedAt = s.now().UTC()
	s.accounts[key] = a
	return nil
}

func (s *Store) accountByEmail(email string) (*account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[emailKey(email)]
	return a, ok
}

func (s *Store) accountByID(id string) (*account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.accounts {
		if a.ID == id {
			return a, true
		}
	}
	return nil, false
}

// listMethods returns matching records, oldest first.
func (s *Store) listMethods(filter domain.PaymentMethodFilter) []domain.PaymentMethodRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.PaymentMethodRecord, 0, len(s.methods))
	for _, r := range s.methods {
		if filter.Matches(r) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(*out[j].CreatedAt) })
	return out
}

func (s *Store) getMethod(id string) (domain.PaymentMethodRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.methods[id]
	if !ok {
		return domain.PaymentMethodRecord{}, errNotFound
	}
	return r, nil
}

func (s *Store) createMethod(r domain.PaymentMethodRecord) domain.PaymentMethodRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now().UTC()
	r.ID = uuid.NewString()
	r.CreatedAt = &now
	r.UpdatedAt = &now
	r.DeletedAt = nil
	s.methods[r.ID] = r
	return r
}

func (s *Store) updateMethod(id string, r domain.PaymentMethodRecord) (domain.PaymentMethodRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.methods[id]
	if !ok || old.Deleted() {
		return domain.PaymentMethodRecord{}, errNotFound
	}
	now := s.now().UTC()
	r.ID = id
	r.CreatedAt = old.CreatedAt
	r.UpdatedAt = &now
	s.methods[id] = r
	return r, nil
}

func (s *Store) deleteMethod(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.methods[id]
	if !ok || r.Deleted() {
		return errNotFound
	}
	now := s.now().UTC()
	r.DeletedAt = &now
	r.UpdatedAt = &now
	r.Status = domain.StatusInactive
	s.methods[id] = r
	return nil
}
