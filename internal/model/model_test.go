package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRecipePageFirstOfMany(t *testing.T) {
	data := make([]Recipe, RecipePageSize)
	page := NewRecipePage(data, 33, 1)

	assert.Equal(t, 1, page.CurrentPage)
	assert.Equal(t, 3, page.LastPage)
	assert.Equal(t, RecipePageSize, page.PerPage)
	assert.Equal(t, 33, page.Total)
	require.NotNil(t, page.From)
	require.NotNil(t, page.To)
	assert.Equal(t, 1, *page.From)
	assert.Equal(t, 15, *page.To)
}

func TestNewRecipePagePartialLastPage(t *testing.T) {
	data := make([]Recipe, 3)
	page := NewRecipePage(data, 33, 3)

	assert.Equal(t, 3, page.CurrentPage)
	assert.Equal(t, 3, page.LastPage)
	require.NotNil(t, page.From)
	require.NotNil(t, page.To)
	assert.Equal(t, 31, *page.From)
	assert.Equal(t, 33, *page.To)
}

func TestNewRecipePageEmpty(t *testing.T) {
	page := NewRecipePage(nil, 0, 1)

	assert.Equal(t, 1, page.CurrentPage)
	assert.Equal(t, 1, page.LastPage)
	assert.Equal(t, 0, page.Total)
	assert.Nil(t, page.From)
	assert.Nil(t, page.To)
}

func TestNewRecipePageBeyondLast(t *testing.T) {
	page := NewRecipePage(nil, 5, 9)

	assert.Equal(t, 9, page.CurrentPage)
	assert.Equal(t, 1, page.LastPage)
	assert.Nil(t, page.From)
	assert.Nil(t, page.To)
}

func TestRecipePageEmptyEnvelopeJSON(t *testing.T) {
	page := NewRecipePage(nil, 0, 1)
	page.Data = []Recipe{} // keep data an array, not null

	out, err := json.Marshal(page)
	require.NoError(t, err)

	assert.JSONEq(t,
		`{"data":[],"current_page":1,"last_page":1,"per_page":15,"total":0,"from":null,"to":null}`,
		string(out))
}

func TestUserJSONHidesPasswordHash(t *testing.T) {
	out, err := json.Marshal(User{ID: 1, Name: "Maria", Login: "maria", PasswordHash: "secret"})
	require.NoError(t, err)

	assert.JSONEq(t, `{"id":1,"nome":"Maria","login":"maria"}`, string(out))
}
