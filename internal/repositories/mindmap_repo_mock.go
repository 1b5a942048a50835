package repositories

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"mindmap/internal/models"
)

// MockMindMapRepository is an in-memory implementation of MindMapRepository.
type MockMindMapRepository struct {
	mindmaps map[uint]models.MindMap
	nextID   uint
	mu       sync.RWMutex
}

// NewMockMindMapRepository creates a new instance of MockMindMapRepository.
func NewMockMindMapRepository() *MockMindMapRepository {
	return &MockMindMapRepository{
		mindmaps: make(map[uint]models.MindMap),
		nextID:   1,
	}
}

// Create adds a new mind map, assigning the next surrogate ID.
func (r *MockMindMapRepository) Create(mindmap *models.MindMap) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	mindmap.ID = r.nextID
	r.nextID++
	now := time.Now()
	mindmap.CreatedAt = now
	mindmap.UpdatedAt = now
	r.mindmaps[mindmap.ID] = *mindmap
	return nil
}

// ListByUser returns the user's mind maps in creation order.
func (r *MockMindMapRepository) ListByUser(userID uint, skip, limit int) ([]models.MindMap, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	owned := make([]models.MindMap, 0)
	for _, m := range r.mindmaps {
		if m.UserID == userID {
			owned = append(owned, m)
		}
	}
	sort.Slice(owned, func(i, j int) bool { return owned[i].ID < owned[j].ID })

	if skip >= len(owned) {
		return []models.MindMap{}, nil
	}
	owned = owned[skip:]
	if limit < len(owned) {
		owned = owned[:limit]
	}
	return owned, nil
}

// GetByID returns a mind map scoped to its owner.
func (r *MockMindMapRepository) GetByID(userID, id uint) (*models.MindMap, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	mindmap, ok := r.mindmaps[id]
	if !ok || mindmap.UserID != userID {
		return nil, fmt.Errorf("mind map with ID %d: %w", id, ErrNotFound)
	}
	return &mindmap, nil
}

// Update overwrites an existing mind map owned by the same user.
func (r *MockMindMapRepository) Update(mindmap *models.MindMap) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.mindmaps[mindmap.ID]
	if !ok || existing.UserID != mindmap.UserID {
		return fmt.Errorf("mind map with ID %d: %w", mindmap.ID, ErrNotFound)
	}
	mindmap.CreatedAt = existing.CreatedAt
	mindmap.UpdatedAt = time.Now()
	r.mindmaps[mindmap.ID] = *mindmap
	return nil
}

// Delete removes a mind map owned by the user.
func (r *MockMindMapRepository) Delete(userID, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	mindmap, ok := r.mindmaps[id]
	if !ok || mindmap.UserID != userID {
		return fmt.Errorf("mind map with ID %d: %w", id, ErrNotFound)
	}
	delete(r.mindmaps, id)
	return nil
}
