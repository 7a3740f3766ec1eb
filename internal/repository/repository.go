// Package repository declares the storage interfaces consumed by the service
// layer. Two implementations exist: sqlite (persistent) and memory (the
// offline store used for deterministic tests), selected via configuration.
package repository

import (
	"context"

	"receitas-api/internal/model"
)

// RecipeFilter narrows a recipe listing. Zero values mean "no filter".
type RecipeFilter struct {
	Query      string // case-insensitive substring over nome, ingredientes, modo_preparo
	CategoryID int64
	Page       int // 1-based; values < 1 are treated as 1
}

type UserRepository interface {
	// CreateUser inserts a new user and fills ID and timestamps.
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	GetUserByLogin(ctx context.Context, login string) (*model.User, error)
	UpdateUser(ctx context.Context, user *model.User) error
	// LoginTaken reports whether login belongs to a user other than excludeID.
	// Pass excludeID 0 to match any user.
	LoginTaken(ctx context.Context, login string, excludeID int64) (bool, error)
}

type TokenRepository interface {
	CreateToken(ctx context.Context, token *model.Token) error
	GetToken(ctx context.Context, id string) (*model.Token, error)
	DeleteToken(ctx context.Context, id string) error
	// ReplaceUserTokens atomically revokes every token of the user and stores
	// the new one, so no old token stays valid past a fresh login.
	ReplaceUserTokens(ctx context.Context, userID int64, token *model.Token) error
}

type CategoryRepository interface {
	// ListCategories returns all categories ordered by name.
	ListCategories(ctx context.Context) ([]model.Category, error)
	CategoryExists(ctx context.Context, id int64) (bool, error)
}

// RecipeRepository is strictly owner-scoped: every read and write carries the
// owning user's id, and a mismatch is indistinguishable from absence.
type RecipeRepository interface {
	CreateRecipe(ctx context.Context, recipe *model.Recipe) error
	// GetRecipe returns the recipe with its embedded category, or
	// apperror.ErrNotFound when it does not exist or belongs to another user.
	GetRecipe(ctx context.Context, userID, id int64) (*model.Recipe, error)
	ListRecipes(ctx context.Context, userID int64, filter RecipeFilter) (*model.RecipePage, error)
	UpdateRecipe(ctx context.Context, recipe *model.Recipe) error
	DeleteRecipe(ctx context.Context, userID, id int64) error
}

// Store bundles all repositories behind one connection lifecycle.
type Store interface {
	UserRepository
	TokenRepository
	CategoryRepository
	RecipeRepository
	Close() error
}
