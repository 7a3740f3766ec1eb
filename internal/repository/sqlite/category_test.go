package sqlite

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListCategoriesSeededAndSorted(t *testing.T) {
	db := newTestDB(t)

	categories, err := db.ListCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 13)

	names := make([]string, len(categories))
	for i, c := range categories {
		names[i] = c.Name
	}
	assert.True(t, sort.StringsAreSorted(names), "categories come back ordered by nome")
	assert.Contains(t, names, "Bolos e tortas doces")
	assert.Contains(t, names, "Massas")
}

func TestCategoryExists(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	exists, err := db.CategoryExists(ctx, 1)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = db.CategoryExists(ctx, 999)
	require.NoError(t, err)
	assert.False(t, exists)
}
