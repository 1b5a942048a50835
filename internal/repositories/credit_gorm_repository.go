package repositories

import (
	"fmt"

	"gorm.io/gorm"

	"mindmap/internal/models"
)

// GORMCreditRepository is a GORM implementation of CreditRepository.
type GORMCreditRepository struct {
	db *gorm.DB
}

// NewGORMCreditRepository creates a new instance of GORMCreditRepository.
func NewGORMCreditRepository(db *gorm.DB) *GORMCreditRepository {
	return &GORMCreditRepository{
		db: db,
	}
}

// GetByUser retrieves the user's credit record.
func (r *GORMCreditRepository) GetByUser(userID uint) (*models.Credit, error) {
	var credit models.Credit
	if err := r.db.First(&credit, "user_id = ?", userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("credit record for user %d: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get credit for user %d: %w", userID, err)
	}
	return &credit, nil
}

// Debit decrements the balance with a single conditional UPDATE, so two
// concurrent debits can never drive the balance below zero.
func (r *GORMCreditRepository) Debit(userID uint, amount int) (int, error) {
	res := r.db.Model(&models.Credit{}).
		Where("user_id = ? AND amount >= ?", userID, amount).
		Update("amount", gorm.Expr("amount - ?", amount))
	if res.Error != nil {
		return 0, fmt.Errorf("failed to debit credit for user %d: %w", userID, res.Error)
	}
	if res.RowsAffected == 0 {
		// Distinguish a missing ledger row from an insufficient balance.
		credit, err := r.GetByUser(userID)
		if err != nil {
			return 0, err
		}
		return credit.Amount, fmt.Errorf("balance %d below %d for user %d: %w",
			credit.Amount, amount, userID, ErrInsufficientCredit)
	}

	credit, err := r.GetByUser(userID)
	if err != nil {
		return 0, err
	}
	return credit.Amount, nil
}

// Grant increments the balance.
func (r *GORMCreditRepository) Grant(userID uint, amount int) error {
	res := r.db.Model(&models.Credit{}).
		Where("user_id = ?", userID).
		Update("amount", gorm.Expr("amount + ?", amount))
	if res.Error != nil {
		return fmt.Errorf("failed to grant credit for user %d: %w", userID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("credit record for user %d: %w", userID, ErrNotFound)
	}
	return nil
}
