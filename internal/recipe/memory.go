package recipe

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/eatlyst/eatlyst/internal/model"
	"github.com/google/uuid"
)

// MemoryStore is an in-process document store used in tests and single-user
// deployments without a database.
type MemoryStore struct { // implements Store
	mu      sync.RWMutex
	recipes map[model.RecipeID]*model.Recipe
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		recipes: make(map[model.RecipeID]*model.Recipe),
	}
}

func (m *MemoryStore) Create(ctx context.Context, r *model.Recipe) (model.RecipeID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := model.RecipeID(uuid.New().String())
	r.ID = id
	r.CreatedAt = time.Now().UTC()
	r.ModifiedAt = r.CreatedAt

	stored := *r
	m.recipes[id] = &stored
	return id, nil
}

func (m *MemoryStore) Get(ctx context.Context, id model.RecipeID) (*model.Recipe, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.recipes[id]
	if !ok {
		return nil, fmt.Errorf("recipe %s: %w", id, ErrNotFound)
	}
	out := *r
	return &out, nil
}

func (m *MemoryStore) QueryByAuthor(ctx context.Context, author model.UserID) ([]model.Recipe, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]model.Recipe, 0)
	for _, r := range m.recipes {
		if r.AuthorID == author {
			out = append(out, *r)
		}
	}

	slices.SortStableFunc(out, func(a, b model.Recipe) int {
		return -a.CreatedAt.Compare(b.CreatedAt)
	})

	return out, nil
}

func (m *MemoryStore) Update(ctx context.Context, id model.RecipeID, patch Patch) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.recipes[id]
	if !ok {
		return fmt.Errorf("recipe %s: %w", id, ErrNotFound)
	}

	if patch.Name != nil {
		r.Name = *patch.Name
	}
	if patch.Instructions != nil {
		r.Instructions = *patch.Instructions
	}
	if patch.Category != nil {
		r.Category = *patch.Category
	}
	if patch.PhotoURL != nil {
		r.PhotoURL = *patch.PhotoURL
	}
	if patch.TotalTime != nil {
		r.TotalTime = *patch.TotalTime
	}
	if patch.Servings != nil {
		r.Servings = *patch.Servings
	}
	if patch.Difficulty != nil {
		r.Difficulty = *patch.Difficulty
	}
	r.ModifiedAt = time.Now().UTC()

	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, id model.RecipeID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.recipes[id]; !ok {
		return fmt.Errorf("recipe %s: %w", id, ErrNotFound)
	}
	delete(m.recipes, id)
	return nil
}
