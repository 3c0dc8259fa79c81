package accounts

import (
	"context"
	"sync"
	"time"

	"github.com/nkarpov/authd/internal/common"
	"github.com/nkarpov/authd/internal/server/models"
)

// InMemoryRepository is a map-backed Repository used by tests and by the
// in-memory repository manager. Safe for concurrent use.
type InMemoryRepository struct {
	mu       sync.RWMutex
	accounts map[string]*models.Account // keyed by account id
	order    []string                   // insertion order stands in for created_at ordering
}

// NewInMemoryRepository constructs an empty in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{accounts: make(map[string]*models.Account)}
}

func (r *InMemoryRepository) Create(_ context.Context, account *models.Account) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range r.accounts {
		if a.Email == account.Email {
			return nil, common.ErrorAlreadyExists
		}
	}

	stored := *account
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}
	r.accounts[stored.ID] = &stored
	r.order = append(r.order, stored.ID)

	result := stored
	return &result, nil
}

func (r *InMemoryRepository) GetByEmail(_ context.Context, email string) (*models.Account, error) {
	return r.find(func(a *models.Account) bool { return a.Email == email })
}

func (r *InMemoryRepository) GetByID(_ context.Context, id string) (*models.Account, error) {
	return r.find(func(a *models.Account) bool { return a.ID == id })
}

func (r *InMemoryRepository) GetByActivationID(_ context.Context, activationID string) (*models.Account, error) {
	return r.find(func(a *models.Account) bool { return a.ActivationID == activationID })
}

func (r *InMemoryRepository) find(match func(*models.Account) bool) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.accounts {
		if match(a) {
			result := *a
			return &result, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *InMemoryRepository) Save(_ context.Context, account *models.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.accounts[account.ID]
	if !ok {
		return common.ErrorNotFound
	}
	stored.Email = account.Email
	stored.PasswordHash = account.PasswordHash
	stored.Activated = account.Activated
	stored.ActivationID = account.ActivationID
	return nil
}

func (r *InMemoryRepository) GetAll(_ context.Context) ([]*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*models.Account, 0, len(r.order))
	for _, id := range r.order {
		a := *r.accounts[id]
		result = append(result, &a)
	}
	return result, nil
}
