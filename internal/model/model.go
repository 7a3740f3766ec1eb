// Package model defines the data structures used throughout the application.
// JSON tags follow the API wire format, which uses Portuguese field names.
package model

import "time"

// User is a registered account. The password hash never leaves the server.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"nome"`
	Login        string    `json:"login"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
}

// Category is read-only reference data, seeded by migration.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"nome"`
}

// Recipe belongs to exactly one user and one category. Foto holds the
// storage-relative path of the uploaded photo, empty when none.
type Recipe struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"id_usuarios"`
	CategoryID  int64     `json:"id_categorias"`
	Name        string    `json:"nome"`
	PrepMinutes int       `json:"tempo_preparo_minutos"`
	Servings    int       `json:"porcoes"`
	Steps       string    `json:"modo_preparo"`
	Ingredients string    `json:"ingredientes"`
	Photo       string    `json:"foto"`
	CreatedAt   time.Time `json:"criado_em"`
	UpdatedAt   time.Time `json:"alterado_em"`
	Category    *Category `json:"categoria,omitempty"`
}

// Token is a revocable bearer credential. ID is the JWT's jti claim; a token
// is only accepted while its row exists.
type Token struct {
	ID        string
	UserID    int64
	CreatedAt time.Time
}

// RecipePageSize is the fixed page size of recipe listings.
const RecipePageSize = 15

// RecipePage is the pagination envelope of the recipe listing.
// From and To are 1-based item indices, null when the page is empty.
type RecipePage struct {
	Data        []Recipe `json:"data"`
	CurrentPage int      `json:"current_page"`
	LastPage    int      `json:"last_page"`
	PerPage     int      `json:"per_page"`
	Total       int      `json:"total"`
	From        *int     `json:"from"`
	To          *int     `json:"to"`
}

// NewRecipePage assembles the envelope for one page of results.
// data must already be sliced to the requested page.
func NewRecipePage(data []Recipe, total, page int) *RecipePage {
	if page < 1 {
		page = 1
	}

	lastPage := (total + RecipePageSize - 1) / RecipePageSize
	if lastPage < 1 {
		lastPage = 1
	}

	p := &RecipePage{
		Data:        data,
		CurrentPage: page,
		LastPage:    lastPage,
		PerPage:     RecipePageSize,
		Total:       total,
	}

	if len(data) > 0 {
		from := (page-1)*RecipePageSize + 1
		to := from + len(data) - 1
		p.From = &from
		p.To = &to
	}

	return p
}
