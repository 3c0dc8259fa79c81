package sessiontokens

import (
	"context"
	"sync"
	"time"

	"github.com/nkarpov/authd/internal/common"
	"github.com/nkarpov/authd/internal/server/models"
)

// InMemoryRepository is a map-backed Repository used by tests and by the
// in-memory repository manager. The mutex gives CompareAndReplace the same
// linearizable replace-if-unchanged semantics the SQL implementation gets
// from a conditional UPDATE.
type InMemoryRepository struct {
	mu     sync.Mutex
	tokens map[string]*models.SessionToken // keyed by account id
}

// NewInMemoryRepository constructs an empty in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{tokens: make(map[string]*models.SessionToken)}
}

func (r *InMemoryRepository) Put(_ context.Context, accountID, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tokens[accountID] = &models.SessionToken{
		AccountID: accountID,
		Token:     token,
		IssuedAt:  time.Now(),
	}
	return nil
}

func (r *InMemoryRepository) CompareAndReplace(_ context.Context, accountID, oldToken, newToken string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.tokens[accountID]
	if !ok || current.Token != oldToken {
		return false, nil
	}
	current.Token = newToken
	current.IssuedAt = time.Now()
	return true, nil
}

func (r *InMemoryRepository) Remove(_ context.Context, token string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for accountID, stored := range r.tokens {
		if stored.Token == token {
			delete(r.tokens, accountID)
			return true, nil
		}
	}
	return false, nil
}

func (r *InMemoryRepository) FindByValue(_ context.Context, token string) (*models.SessionToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, stored := range r.tokens {
		if stored.Token == token {
			result := *stored
			return &result, nil
		}
	}
	return nil, common.ErrorNotFound
}
