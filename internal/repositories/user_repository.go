package repositories

import "mindmap/internal/models"

// UserRepository defines the interface for user data access.
type UserRepository interface {
	// CreateWithCredit persists a new user together with their initial credit
	// record. Both rows commit together or neither persists.
	CreateWithCredit(user *models.User, credit *models.Credit) error
	GetByEmail(email string) (*models.User, error)
	GetByID(id uint) (*models.User, error)
}
