package services

import (
	"encoding/json"

	"mindmap/internal/models"
	"mindmap/internal/repositories"
)

// MindMapService handles business logic for mind map documents. Every
// operation is scoped to the calling user.
type MindMapService struct {
	repo repositories.MindMapRepository
}

// NewMindMapService creates a new MindMapService.
func NewMindMapService(repo repositories.MindMapRepository) *MindMapService {
	return &MindMapService{
		repo: repo,
	}
}

// Create stores a new mind map for the user.
func (s *MindMapService) Create(userID uint, title string, data json.RawMessage) (*models.MindMap, error) {
	mindmap := &models.MindMap{
		Title:  title,
		Data:   data,
		UserID: userID,
	}
	if err := s.repo.Create(mindmap); err != nil {
		return nil, err
	}
	return mindmap, nil
}

// List returns the user's mind maps in creation order, paginated.
func (s *MindMapService) List(userID uint, skip, limit int) ([]models.MindMap, error) {
	return s.repo.ListByUser(userID, skip, limit)
}

// Get returns a single mind map owned by the user.
func (s *MindMapService) Get(userID, id uint) (*models.MindMap, error) {
	return s.repo.GetByID(userID, id)
}

// Replace fully overwrites title and data of an existing mind map. There are
// no partial/patch semantics.
func (s *MindMapService) Replace(userID, id uint, title string, data json.RawMessage) (*models.MindMap, error) {
	mindmap, err := s.repo.GetByID(userID, id)
	if err != nil {
		return nil, err
	}

	mindmap.Title = title
	mindmap.Data = data
	if err := s.repo.Update(mindmap); err != nil {
		return nil, err
	}

	return s.repo.GetByID(userID, id)
}

// Delete removes a mind map owned by the user. A second delete reports not
// found, same as a delete of a record that never existed.
func (s *MindMapService) Delete(userID, id uint) error {
	return s.repo.Delete(userID, id)
}
