package recipe

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/eatlyst/eatlyst/internal/cache"
	"github.com/eatlyst/eatlyst/internal/db"
	"github.com/eatlyst/eatlyst/internal/model"
	"github.com/google/uuid"
)

type SQLiteStore struct { // implements Store
	db db.DB

	// Per-author query results, invalidated on any write touching the
	// author's recipes.
	listCache *cache.Cache[model.UserID, []model.Recipe]
}

func NewSQLiteStore(db db.DB) *SQLiteStore {
	return &SQLiteStore{
		db: db,

		listCache: cache.NewCache[model.UserID, []model.Recipe](),
	}
}

func (s *SQLiteStore) Create(ctx context.Context, r *model.Recipe) (model.RecipeID, error) {
	id := model.RecipeID(uuid.New().String())
	now := time.Now().UTC()

	lines, err := json.Marshal(r.IngredientLines)
	if err != nil {
		return "", fmt.Errorf("error encoding ingredient lines: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO recipes (id, name, total_time, servings, difficulty, ingredient_lines,
		                      instructions, category, photo_url, author_id, author_name,
		                      created_at, modified_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, r.Name, r.TotalTime, r.Servings, r.Difficulty, string(lines),
		r.Instructions, r.Category, r.PhotoURL, r.AuthorID, r.AuthorName,
		now, now,
	)
	if err != nil {
		return "", fmt.Errorf("error creating recipe: %w", err)
	}

	r.ID = id
	r.CreatedAt = now
	r.ModifiedAt = now
	s.listCache.Delete(r.AuthorID)

	recipeLogger.Debug().Str("recipe_id", string(id)).Str("name", r.Name).Msg("Recipe created")
	return id, nil
}

func (s *SQLiteStore) Get(ctx context.Context, id model.RecipeID) (*model.Recipe, error) {
	row := s.db.Get().QueryRow(
		`SELECT id, name, total_time, servings, difficulty, ingredient_lines,
		        instructions, category, photo_url, author_id, author_name,
		        created_at, modified_at
		 FROM recipes WHERE id = ?`, id)

	r, err := scanRecipe(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("recipe %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("error reading recipe: %w", err)
	}
	return r, nil
}

func (s *SQLiteStore) QueryByAuthor(ctx context.Context, author model.UserID) ([]model.Recipe, error) {
	if cached, ok := s.listCache.Get(author); ok {
		out := make([]model.Recipe, len(cached))
		copy(out, cached)
		return out, nil
	}

	rows, err := s.db.Query(
		`SELECT id, name, total_time, servings, difficulty, ingredient_lines,
		        instructions, category, photo_url, author_id, author_name,
		        created_at, modified_at
		 FROM recipes WHERE author_id = ? ORDER BY created_at DESC`, author)
	if err != nil {
		return nil, fmt.Errorf("error querying recipes: %w", err)
	}
	defer rows.Close()

	recipes := make([]model.Recipe, 0)
	for rows.Next() {
		r, err := scanRecipe(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("error scanning recipe: %w", err)
		}
		recipes = append(recipes, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recipes: %w", err)
	}

	s.listCache.Set(author, recipes)

	out := make([]model.Recipe, len(recipes))
	copy(out, recipes)
	return out, nil
}

func (s *SQLiteStore) Update(ctx context.Context, id model.RecipeID, patch Patch) error {
	set := "modified_at = ?"
	args := []interface{}{time.Now().UTC()}

	appendField := func(column string, value interface{}) {
		set += ", " + column + " = ?"
		args = append(args, value)
	}

	if patch.Name != nil {
		appendField("name", *patch.Name)
	}
	if patch.Instructions != nil {
		appendField("instructions", *patch.Instructions)
	}
	if patch.Category != nil {
		appendField("category", *patch.Category)
	}
	if patch.PhotoURL != nil {
		appendField("photo_url", *patch.PhotoURL)
	}
	if patch.TotalTime != nil {
		appendField("total_time", *patch.TotalTime)
	}
	if patch.Servings != nil {
		appendField("servings", *patch.Servings)
	}
	if patch.Difficulty != nil {
		appendField("difficulty", string(*patch.Difficulty))
	}

	args = append(args, id)
	res, err := s.db.Exec(`UPDATE recipes SET `+set+` WHERE id = ?`, args...)
	if err != nil {
		return fmt.Errorf("error updating recipe: %w", err)
	}

	affected, err := res.RowsAffected()
	if err == nil && affected == 0 {
		return fmt.Errorf("recipe %s: %w", id, ErrNotFound)
	}

	s.invalidateAuthorOf(ctx, id)
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id model.RecipeID) error {
	s.invalidateAuthorOf(ctx, id)

	res, err := s.db.Exec(`DELETE FROM recipes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("error deleting recipe: %w", err)
	}

	affected, err := res.RowsAffected()
	if err == nil && affected == 0 {
		return fmt.Errorf("recipe %s: %w", id, ErrNotFound)
	}

	recipeLogger.Debug().Str("recipe_id", string(id)).Msg("Recipe deleted")
	return nil
}

func (s *SQLiteStore) invalidateAuthorOf(ctx context.Context, id model.RecipeID) {
	var author model.UserID
	row := s.db.Get().QueryRow(`SELECT author_id FROM recipes WHERE id = ?`, id)
	if err := row.Scan(&author); err == nil {
		s.listCache.Delete(author)
	}
}

// scanRecipe reads one recipes row; the scan argument order must match the
// SELECT column order used by every query in this file.
func scanRecipe(scan func(dest ...interface{}) error) (*model.Recipe, error) {
	var r model.Recipe
	var lines string

	err := scan(&r.ID, &r.Name, &r.TotalTime, &r.Servings, &r.Difficulty, &lines,
		&r.Instructions, &r.Category, &r.PhotoURL, &r.AuthorID, &r.AuthorName,
		&r.CreatedAt, &r.ModifiedAt)
	if err != nil {
		return nil, err
	}

	if lines != "" {
		if err := json.Unmarshal([]byte(lines), &r.IngredientLines); err != nil {
			return nil, fmt.Errorf("error decoding ingredient lines: %w", err)
		}
	}

	return &r, nil
}
