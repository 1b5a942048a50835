package repositories

import "mindmap/internal/models"

// MindMapRepository defines the interface for mind map data access. Every
// lookup is scoped to the owning user; a record owned by someone else is
// reported as not found.
type MindMapRepository interface {
	Create(mindmap *models.MindMap) error
	ListByUser(userID uint, skip, limit int) ([]models.MindMap, error)
	GetByID(userID, id uint) (*models.MindMap, error)
	Update(mindmap *models.MindMap) error
	Delete(userID, id uint) error
}
