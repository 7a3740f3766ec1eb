package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"receitas-api/internal/cache"
	"receitas-api/internal/model"
	"receitas-api/internal/repository"
)

const (
	categoryCacheKey = "categorias"
	categoryCacheTTL = time.Hour
)

// CategoryService serves the read-only category catalog, optionally through
// a cache. Categories only change by migration, so a stale entry can at
// worst outlive a deploy by the TTL.
type CategoryService struct {
	categories repository.CategoryRepository
	cache      cache.Cache // nil when no cache is configured
	logger     *slog.Logger
}

func NewCategoryService(categories repository.CategoryRepository, c cache.Cache, logger *slog.Logger) *CategoryService {
	return &CategoryService{
		categories: categories,
		cache:      c,
		logger:     logger,
	}
}

// InvalidateCache drops the cached category list so the next read reflects
// freshly migrated seed data. Called at startup; a no-op without a cache.
func (s *CategoryService) InvalidateCache(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	if err := s.cache.Delete(ctx, categoryCacheKey); err != nil {
		return fmt.Errorf("service/category: invalidating cache: %w", err)
	}
	return nil
}

// List returns all categories ordered by name.
func (s *CategoryService) List(ctx context.Context) ([]model.Category, error) {
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, categoryCacheKey); err == nil {
			var cached []model.Category
			if err := json.Unmarshal(data, &cached); err == nil {
				return cached, nil
			}
		}
	}

	categories, err := s.categories.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/category: listing: %w", err)
	}

	if s.cache != nil {
		if data, err := json.Marshal(categories); err == nil {
			if err := s.cache.Set(ctx, categoryCacheKey, data, categoryCacheTTL); err != nil {
				s.logger.Warn("category cache write failed", slog.String("error", err.Error()))
			}
		}
	}

	return categories, nil
}
