package services

import (
	"mindmap/internal/models"
	"mindmap/internal/repositories"
)

// CreditService handles the per-user credit ledger.
type CreditService struct {
	repo repositories.CreditRepository
}

// NewCreditService creates a new CreditService.
func NewCreditService(repo repositories.CreditRepository) *CreditService {
	return &CreditService{
		repo: repo,
	}
}

// Balance returns the user's current credit record. A missing record for an
// existing user is an inconsistent-state error, not "zero credits".
func (s *CreditService) Balance(userID uint) (*models.Credit, error) {
	return s.repo.GetByUser(userID)
}

// TryDebit decrements the balance by amount and returns the new balance.
// The decrement is atomic with a floor at zero, so concurrent requests
// cannot drive the balance negative.
func (s *CreditService) TryDebit(userID uint, amount int) (int, error) {
	return s.repo.Debit(userID, amount)
}

// Refund credits back a previous debit after a failed AI call.
func (s *CreditService) Refund(userID uint, amount int) error {
	return s.repo.Grant(userID, amount)
}
