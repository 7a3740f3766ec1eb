package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotFoundMatchesSentinel(t *testing.T) {
	err := NotFound("Receita não encontrada.")

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrValidation))
	assert.Equal(t, "Receita não encontrada.", err.Error())
}

func TestSentinelSurvivesWrapping(t *testing.T) {
	wrapped := fmt.Errorf("listing recipes: %w", NotFound("Receita não encontrada."))

	assert.True(t, errors.Is(wrapped, ErrNotFound))

	var appErr *AppError
	require.True(t, errors.As(wrapped, &appErr))
	assert.Equal(t, "Receita não encontrada.", appErr.Message)
}

func TestValidationFailedSingleField(t *testing.T) {
	err := ValidationFailed("login", "Usuário já existe")

	assert.True(t, errors.Is(err, ErrValidation))
	assert.Equal(t, "Usuário já existe", err.Message)
	assert.Equal(t, []string{"Usuário já existe"}, err.Fields["login"])
}

func TestValidationFieldsUsesFirstFieldMessage(t *testing.T) {
	err := ValidationFields(
		[]string{"nome", "senha"},
		map[string][]string{
			"senha": {"O campo senha é obrigatório."},
			"nome":  {"O campo nome é obrigatório."},
		},
	)

	assert.Equal(t, "O campo nome é obrigatório.", err.Message)
	assert.Len(t, err.Fields, 2)
}

func TestValidationFieldsEmptyFallsBack(t *testing.T) {
	err := ValidationFields(nil, map[string][]string{})

	assert.Equal(t, "Os dados fornecidos são inválidos.", err.Message)
}
