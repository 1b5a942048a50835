package repositories

import "mindmap/internal/models"

// CreditRepository defines the interface for credit ledger access.
type CreditRepository interface {
	GetByUser(userID uint) (*models.Credit, error)
	// Debit atomically decrements the balance by amount and returns the new
	// balance. Fails with ErrInsufficientCredit (no mutation) when the balance
	// is below amount, ErrNotFound when no ledger row exists.
	Debit(userID uint, amount int) (int, error)
	// Grant atomically increments the balance by amount. Also used to refund
	// a debit after a failed AI call.
	Grant(userID uint, amount int) error
}
