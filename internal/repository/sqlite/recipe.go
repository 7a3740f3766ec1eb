package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"receitas-api/internal/apperror"
	"receitas-api/internal/model"
	"receitas-api/internal/repository"
)

const recipeColumns = `r.id, r.id_usuarios, r.id_categorias, r.nome,
	r.tempo_preparo_minutos, r.porcoes, r.modo_preparo, r.ingredientes,
	r.foto, r.criado_em, r.alterado_em, c.id, c.nome`

// CreateRecipe inserts a new recipe and fills ID and timestamps. A caller
// that pre-set CreatedAt keeps it, which the tests use to control ordering.
func (db *DB) CreateRecipe(ctx context.Context, recipe *model.Recipe) error {
	now := time.Now()
	if recipe.CreatedAt.IsZero() {
		recipe.CreatedAt = now
	}
	recipe.UpdatedAt = now

	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO receitas
		 (id_usuarios, id_categorias, nome, tempo_preparo_minutos, porcoes,
		  modo_preparo, ingredientes, foto, criado_em, alterado_em)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		recipe.UserID, recipe.CategoryID, recipe.Name, recipe.PrepMinutes,
		recipe.Servings, recipe.Steps, recipe.Ingredients, recipe.Photo,
		recipe.CreatedAt, recipe.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating recipe: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading new recipe id: %w", err)
	}
	recipe.ID = id

	return nil
}

// GetRecipe returns the user's recipe with its embedded category. A recipe
// owned by another user is reported exactly like a nonexistent one.
func (db *DB) GetRecipe(ctx context.Context, userID, id int64) (*model.Recipe, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+recipeColumns+`
		 FROM receitas r
		 JOIN categorias c ON c.id = r.id_categorias
		 WHERE r.id = ? AND r.id_usuarios = ?`,
		id, userID,
	)

	recipe, err := scanRecipe(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("Receita não encontrada.")
		}
		return nil, fmt.Errorf("sqlite: getting recipe %d: %w", id, err)
	}
	return recipe, nil
}

// ListRecipes returns one page of the user's recipes, most recent first,
// with insertion order breaking creation-time ties.
func (db *DB) ListRecipes(ctx context.Context, userID int64, filter repository.RecipeFilter) (*model.RecipePage, error) {
	where := []string{"r.id_usuarios = ?"}
	args := []any{userID}

	if filter.Query != "" {
		// ulower is the Unicode lower() registered in this package; instr
		// matches the query literally, so LIKE wildcards need no escaping.
		q := strings.ToLower(filter.Query)
		where = append(where,
			`(instr(ulower(r.nome), ?) > 0 OR instr(ulower(r.ingredientes), ?) > 0 OR instr(ulower(r.modo_preparo), ?) > 0)`)
		args = append(args, q, q, q)
	}
	if filter.CategoryID != 0 {
		where = append(where, "r.id_categorias = ?")
		args = append(args, filter.CategoryID)
	}
	cond := strings.Join(where, " AND ")

	var total int
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM receitas r WHERE `+cond, args...,
	).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("sqlite: counting recipes: %w", err)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * model.RecipePageSize

	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+recipeColumns+`
		 FROM receitas r
		 JOIN categorias c ON c.id = r.id_categorias
		 WHERE `+cond+`
		 ORDER BY r.criado_em DESC, r.id ASC
		 LIMIT ? OFFSET ?`,
		append(args, model.RecipePageSize, offset)...,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing recipes: %w", err)
	}
	defer rows.Close()

	recipes := make([]model.Recipe, 0, model.RecipePageSize)
	for rows.Next() {
		recipe, err := scanRecipe(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning recipe row: %w", err)
		}
		recipes = append(recipes, *recipe)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating recipes: %w", err)
	}

	return model.NewRecipePage(recipes, total, page), nil
}

// UpdateRecipe persists all mutable fields of the recipe, owner-scoped.
func (db *DB) UpdateRecipe(ctx context.Context, recipe *model.Recipe) error {
	recipe.UpdatedAt = time.Now()

	res, err := db.conn.ExecContext(ctx,
		`UPDATE receitas
		 SET id_categorias = ?, nome = ?, tempo_preparo_minutos = ?, porcoes = ?,
		     modo_preparo = ?, ingredientes = ?, foto = ?, alterado_em = ?
		 WHERE id = ? AND id_usuarios = ?`,
		recipe.CategoryID, recipe.Name, recipe.PrepMinutes, recipe.Servings,
		recipe.Steps, recipe.Ingredients, recipe.Photo, recipe.UpdatedAt,
		recipe.ID, recipe.UserID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating recipe %d: %w", recipe.ID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if affected == 0 {
		return apperror.NotFound("Receita não encontrada.")
	}
	return nil
}

// DeleteRecipe hard-deletes the user's recipe.
func (db *DB) DeleteRecipe(ctx context.Context, userID, id int64) error {
	res, err := db.conn.ExecContext(ctx,
		`DELETE FROM receitas WHERE id = ? AND id_usuarios = ?`,
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting recipe %d: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if affected == 0 {
		return apperror.NotFound("Receita não encontrada.")
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecipe(row rowScanner) (*model.Recipe, error) {
	var r model.Recipe
	var c model.Category
	err := row.Scan(
		&r.ID, &r.UserID, &r.CategoryID, &r.Name,
		&r.PrepMinutes, &r.Servings, &r.Steps, &r.Ingredients,
		&r.Photo, &r.CreatedAt, &r.UpdatedAt, &c.ID, &c.Name,
	)
	if err != nil {
		return nil, err
	}
	r.Category = &c
	return &r, nil
}
