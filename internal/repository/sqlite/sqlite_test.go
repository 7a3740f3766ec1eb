package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"receitas-api/internal/model"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestUser(t *testing.T, db *DB, login string) *model.User {
	t.Helper()
	user := &model.User{Name: "Usuário " + login, Login: login, PasswordHash: "hash"}
	require.NoError(t, db.CreateUser(context.Background(), user))
	return user
}

// createTestRecipe pre-sets criado_em so listing order is deterministic.
func createTestRecipe(t *testing.T, db *DB, userID int64, name string, createdAt time.Time) *model.Recipe {
	t.Helper()
	recipe := &model.Recipe{
		UserID:      userID,
		CategoryID:  1,
		Name:        name,
		PrepMinutes: 30,
		Servings:    4,
		Steps:       "Misture tudo e asse.",
		Ingredients: "farinha, ovos, açúcar",
		CreatedAt:   createdAt,
	}
	require.NoError(t, db.CreateRecipe(context.Background(), recipe))
	return recipe
}
