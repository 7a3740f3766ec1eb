// Package memory implements repository.Store entirely in memory: the
// offline store. It exists for deterministic tests and local runs without a
// database file; ids auto-increment per table and nothing survives the
// process.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"receitas-api/internal/apperror"
	"receitas-api/internal/model"
	"receitas-api/internal/repository"
)

// Store holds all tables behind one mutex.
type Store struct {
	mu sync.RWMutex

	users      map[int64]*model.User
	tokens     map[string]*model.Token
	categories []model.Category
	recipes    map[int64]*model.Recipe

	nextUserID   int64
	nextRecipeID int64
}

var _ repository.Store = (*Store)(nil)

// defaultCategories mirrors the seed data of the sqlite migrations.
var defaultCategories = []string{
	"Bolos e tortas doces",
	"Carnes",
	"Aves",
	"Peixes e frutos do mar",
	"Saladas, molhos e acompanhamentos",
	"Sopas",
	"Massas",
	"Bebidas",
	"Doces e sobremesas",
	"Lanches",
	"Prato Único",
	"Light",
	"Alimentação Saudável",
}

// New creates an empty store with the default category catalog.
func New() *Store {
	s := &Store{
		users:   make(map[int64]*model.User),
		tokens:  make(map[string]*model.Token),
		recipes: make(map[int64]*model.Recipe),
	}
	for i, name := range defaultCategories {
		s.categories = append(s.categories, model.Category{ID: int64(i + 1), Name: name})
	}
	return s
}

func (s *Store) Close() error { return nil }

// --- users ---

func (s *Store) CreateUser(_ context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextUserID++
	now := time.Now()
	user.ID = s.nextUserID
	user.CreatedAt = now
	user.UpdatedAt = now

	stored := *user
	s.users[user.ID] = &stored
	return nil
}

func (s *Store) GetUserByID(_ context.Context, id int64) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, apperror.NotFound("Usuário não encontrado.")
	}
	copied := *u
	return &copied, nil
}

func (s *Store) GetUserByLogin(_ context.Context, login string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Login == login {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperror.NotFound("Usuário não encontrado.")
}

func (s *Store) UpdateUser(_ context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.ID]; !ok {
		return apperror.NotFound("Usuário não encontrado.")
	}
	user.UpdatedAt = time.Now()
	stored := *user
	s.users[user.ID] = &stored
	return nil
}

func (s *Store) LoginTaken(_ context.Context, login string, excludeID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Login == login && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

// --- tokens ---

func (s *Store) CreateToken(_ context.Context, token *model.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now()
	}
	stored := *token
	s.tokens[token.ID] = &stored
	return nil
}

func (s *Store) GetToken(_ context.Context, id string) (*model.Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tokens[id]
	if !ok {
		return nil, apperror.NotFound("Token não encontrado.")
	}
	copied := *t
	return &copied, nil
}

func (s *Store) DeleteToken(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tokens[id]; !ok {
		return apperror.NotFound("Token não encontrado.")
	}
	delete(s.tokens, id)
	return nil
}

// ReplaceUserTokens revokes all of the user's tokens and stores the new one
// under the same lock, mirroring the sqlite transaction.
func (s *Store) ReplaceUserTokens(_ context.Context, userID int64, token *model.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, t := range s.tokens {
		if t.UserID == userID {
			delete(s.tokens, id)
		}
	}
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now()
	}
	stored := *token
	s.tokens[token.ID] = &stored
	return nil
}

// --- categories ---

func (s *Store) ListCategories(_ context.Context) ([]model.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Category, len(s.categories))
	copy(out, s.categories)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) CategoryExists(_ context.Context, id int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.categories {
		if c.ID == id {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) category(id int64) *model.Category {
	for _, c := range s.categories {
		if c.ID == id {
			copied := c
			return &copied
		}
	}
	return nil
}

// --- recipes ---

func (s *Store) CreateRecipe(_ context.Context, recipe *model.Recipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextRecipeID++
	now := time.Now()
	recipe.ID = s.nextRecipeID
	if recipe.CreatedAt.IsZero() {
		recipe.CreatedAt = now
	}
	recipe.UpdatedAt = now

	stored := *recipe
	stored.Category = nil
	s.recipes[recipe.ID] = &stored
	return nil
}

func (s *Store) GetRecipe(_ context.Context, userID, id int64) (*model.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.recipes[id]
	if !ok || r.UserID != userID {
		return nil, apperror.NotFound("Receita não encontrada.")
	}
	copied := *r
	copied.Category = s.category(r.CategoryID)
	return &copied, nil
}

func (s *Store) ListRecipes(_ context.Context, userID int64, filter repository.RecipeFilter) (*model.RecipePage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]model.Recipe, 0, len(s.recipes))
	q := strings.ToLower(filter.Query)
	for _, r := range s.recipes {
		if r.UserID != userID {
			continue
		}
		if filter.CategoryID != 0 && r.CategoryID != filter.CategoryID {
			continue
		}
		if q != "" && !matchesQuery(r, q) {
			continue
		}
		copied := *r
		copied.Category = s.category(r.CategoryID)
		matched = append(matched, copied)
	}

	// Most recent first; equal timestamps keep insertion (id) order.
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID < matched[j].ID
	})

	page := filter.Page
	if page < 1 {
		page = 1
	}
	total := len(matched)

	start := (page - 1) * model.RecipePageSize
	if start > total {
		start = total
	}
	end := start + model.RecipePageSize
	if end > total {
		end = total
	}

	return model.NewRecipePage(matched[start:end], total, page), nil
}

func (s *Store) UpdateRecipe(_ context.Context, recipe *model.Recipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.recipes[recipe.ID]
	if !ok || existing.UserID != recipe.UserID {
		return apperror.NotFound("Receita não encontrada.")
	}

	recipe.UpdatedAt = time.Now()
	stored := *recipe
	stored.Category = nil
	s.recipes[recipe.ID] = &stored
	return nil
}

func (s *Store) DeleteRecipe(_ context.Context, userID, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.recipes[id]
	if !ok || r.UserID != userID {
		return apperror.NotFound("Receita não encontrada.")
	}
	delete(s.recipes, id)
	return nil
}

func matchesQuery(r *model.Recipe, q string) bool {
	return strings.Contains(strings.ToLower(r.Name), q) ||
		strings.Contains(strings.ToLower(r.Ingredients), q) ||
		strings.Contains(strings.ToLower(r.Steps), q)
}
