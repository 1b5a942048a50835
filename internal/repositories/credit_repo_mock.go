package repositories

import (
	"fmt"
	"sync"
	"time"

	"mindmap/internal/models"
)

// MockCreditRepository is an in-memory implementation of CreditRepository.
// The mutex serializes the check-then-decrement, matching the conditional
// UPDATE of the GORM implementation.
type MockCreditRepository struct {
	credits map[uint]*models.Credit
	nextID  uint
	mu      sync.Mutex
}

// NewMockCreditRepository creates a new instance of MockCreditRepository.
func NewMockCreditRepository() *MockCreditRepository {
	return &MockCreditRepository{
		credits: make(map[uint]*models.Credit),
		nextID:  1,
	}
}

// Seed installs a ledger row for a user, as signup would.
func (r *MockCreditRepository) Seed(userID uint, amount int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	r.credits[userID] = &models.Credit{
		ID:        r.nextID,
		Amount:    amount,
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.nextID++
}

// GetByUser returns the user's credit record.
func (r *MockCreditRepository) GetByUser(userID uint) (*models.Credit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	credit, ok := r.credits[userID]
	if !ok {
		return nil, fmt.Errorf("credit record for user %d: %w", userID, ErrNotFound)
	}
	copied := *credit
	return &copied, nil
}

// Debit decrements the balance, failing without mutation when it would go
// negative.
func (r *MockCreditRepository) Debit(userID uint, amount int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	credit, ok := r.credits[userID]
	if !ok {
		return 0, fmt.Errorf("credit record for user %d: %w", userID, ErrNotFound)
	}
	if credit.Amount < amount {
		return credit.Amount, fmt.Errorf("balance %d below %d for user %d: %w",
			credit.Amount, amount, userID, ErrInsufficientCredit)
	}
	credit.Amount -= amount
	credit.UpdatedAt = time.Now()
	return credit.Amount, nil
}

// Grant increments the balance.
func (r *MockCreditRepository) Grant(userID uint, amount int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	credit, ok := r.credits[userID]
	if !ok {
		return fmt.Errorf("credit record for user %d: %w", userID, ErrNotFound)
	}
	credit.Amount += amount
	credit.UpdatedAt = time.Now()
	return nil
}
