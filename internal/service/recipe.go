package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"receitas-api/internal/apperror"
	"receitas-api/internal/model"
	"receitas-api/internal/repository"
)

// RecipeService owns the recipe business rules. Every operation is scoped
// to the requesting user; the repositories make cross-user access look like
// absence, and this layer never weakens that.
type RecipeService struct {
	recipes    repository.RecipeRepository
	categories repository.CategoryRepository
	logger     *slog.Logger
}

func NewRecipeService(
	recipes repository.RecipeRepository,
	categories repository.CategoryRepository,
	logger *slog.Logger,
) *RecipeService {
	return &RecipeService{
		recipes:    recipes,
		categories: categories,
		logger:     logger,
	}
}

// RecipeInput holds the full field set for creating a recipe. Field-shape
// validation (lengths, minimums) happens at the HTTP layer; this layer
// checks referential rules.
type RecipeInput struct {
	CategoryID  int64
	Name        string
	PrepMinutes int
	Servings    int
	Steps       string
	Ingredients string
	Photo       string
}

// RecipePatch holds the optional fields of a partial update; nil means
// "leave unchanged".
type RecipePatch struct {
	CategoryID  *int64
	Name        *string
	PrepMinutes *int
	Servings    *int
	Steps       *string
	Ingredients *string
	Photo       *string
}

// Create validates the category and persists a new recipe owned by userID,
// returning it with the embedded category.
func (s *RecipeService) Create(ctx context.Context, userID int64, in RecipeInput) (*model.Recipe, error) {
	if err := s.checkCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	recipe := &model.Recipe{
		UserID:      userID,
		CategoryID:  in.CategoryID,
		Name:        strings.TrimSpace(in.Name),
		PrepMinutes: in.PrepMinutes,
		Servings:    in.Servings,
		Steps:       in.Steps,
		Ingredients: in.Ingredients,
		Photo:       in.Photo,
	}

	if err := s.recipes.CreateRecipe(ctx, recipe); err != nil {
		s.logger.Error("failed to create recipe",
			slog.Int64("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating recipe: %w", err)
	}

	s.logger.Info("recipe created",
		slog.Int64("id", recipe.ID),
		slog.Int64("userID", userID),
	)

	return s.recipes.GetRecipe(ctx, userID, recipe.ID)
}

// Get returns one of the user's recipes with its embedded category.
func (s *RecipeService) Get(ctx context.Context, userID, id int64) (*model.Recipe, error) {
	return s.recipes.GetRecipe(ctx, userID, id)
}

// List returns one page of the user's recipes, filtered and sorted.
func (s *RecipeService) List(ctx context.Context, userID int64, filter repository.RecipeFilter) (*model.RecipePage, error) {
	filter.Query = strings.TrimSpace(filter.Query)

	page, err := s.recipes.ListRecipes(ctx, userID, filter)
	if err != nil {
		s.logger.Error("failed to list recipes",
			slog.Int64("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("listing recipes: %w", err)
	}
	return page, nil
}

// Update applies a partial patch to one of the user's recipes. Only the
// provided fields change; a patched category is re-validated.
func (s *RecipeService) Update(ctx context.Context, userID, id int64, patch RecipePatch) (*model.Recipe, error) {
	recipe, err := s.recipes.GetRecipe(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if patch.CategoryID != nil {
		if err := s.checkCategory(ctx, *patch.CategoryID); err != nil {
			return nil, err
		}
		recipe.CategoryID = *patch.CategoryID
	}
	if patch.Name != nil {
		recipe.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.PrepMinutes != nil {
		recipe.PrepMinutes = *patch.PrepMinutes
	}
	if patch.Servings != nil {
		recipe.Servings = *patch.Servings
	}
	if patch.Steps != nil {
		recipe.Steps = *patch.Steps
	}
	if patch.Ingredients != nil {
		recipe.Ingredients = *patch.Ingredients
	}
	if patch.Photo != nil {
		recipe.Photo = *patch.Photo
	}

	if err := s.recipes.UpdateRecipe(ctx, recipe); err != nil {
		return nil, err
	}

	s.logger.Info("recipe updated",
		slog.Int64("id", id),
		slog.Int64("userID", userID),
	)

	return s.recipes.GetRecipe(ctx, userID, id)
}

// Delete hard-deletes one of the user's recipes.
func (s *RecipeService) Delete(ctx context.Context, userID, id int64) error {
	if err := s.recipes.DeleteRecipe(ctx, userID, id); err != nil {
		return err
	}

	s.logger.Info("recipe deleted",
		slog.Int64("id", id),
		slog.Int64("userID", userID),
	)
	return nil
}

func (s *RecipeService) checkCategory(ctx context.Context, id int64) error {
	exists, err := s.categories.CategoryExists(ctx, id)
	if err != nil {
		return fmt.Errorf("checking category %d: %w", id, err)
	}
	if !exists {
		return apperror.ValidationFailed("id_categorias", "O id_categorias selecionado é inválido.")
	}
	return nil
}
