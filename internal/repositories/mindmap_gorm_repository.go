package repositories

import (
	"fmt"

	"gorm.io/gorm"

	"mindmap/internal/models"
)

// GORMMindMapRepository is a GORM implementation of MindMapRepository.
type GORMMindMapRepository struct {
	db *gorm.DB
}

// NewGORMMindMapRepository creates a new instance of GORMMindMapRepository.
func NewGORMMindMapRepository(db *gorm.DB) *GORMMindMapRepository {
	return &GORMMindMapRepository{
		db: db,
	}
}

// Create creates a new mind map in the database.
func (r *GORMMindMapRepository) Create(mindmap *models.MindMap) error {
	if err := r.db.Create(mindmap).Error; err != nil {
		return fmt.Errorf("failed to create mind map: %w", err)
	}
	return nil
}

// ListByUser retrieves the user's mind maps in creation order, paginated.
func (r *GORMMindMapRepository) ListByUser(userID uint, skip, limit int) ([]models.MindMap, error) {
	var mindmaps []models.MindMap
	err := r.db.
		Where("user_id = ?", userID).
		Order("id").
		Offset(skip).
		Limit(limit).
		Find(&mindmaps).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list mind maps for user %d: %w", userID, err)
	}
	return mindmaps, nil
}

// GetByID retrieves a single mind map scoped to its owner.
func (r *GORMMindMapRepository) GetByID(userID, id uint) (*models.MindMap, error) {
	var mindmap models.MindMap
	if err := r.db.First(&mindmap, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("mind map with ID %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get mind map by ID %d: %w", id, err)
	}
	return &mindmap, nil
}

// Update overwrites title and data of an existing mind map. The WHERE clause
// includes the owner, so updating a foreign record reports not found.
func (r *GORMMindMapRepository) Update(mindmap *models.MindMap) error {
	res := r.db.Model(&models.MindMap{}).
		Where("id = ? AND user_id = ?", mindmap.ID, mindmap.UserID).
		Updates(map[string]interface{}{
			"title": mindmap.Title,
			"data":  mindmap.Data,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update mind map: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("mind map with ID %d: %w", mindmap.ID, ErrNotFound)
	}
	return nil
}

// Delete deletes a mind map by its ID, scoped to its owner.
func (r *GORMMindMapRepository) Delete(userID, id uint) error {
	res := r.db.Delete(&models.MindMap{}, "id = ? AND user_id = ?", id, userID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete mind map: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("mind map with ID %d: %w", id, ErrNotFound)
	}
	return nil
}
