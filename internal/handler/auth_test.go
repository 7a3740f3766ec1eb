package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterEndpoint(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodPost, "/api/register", "", map[string]string{
		"nome":               "Maria",
		"login":              "maria",
		"senha":              "senha123",
		"senha_confirmation": "senha123",
	})
	require.Equal(t, http.StatusCreated, rec.Code, "body: %s", rec.Body.String())

	body := decodeBody[map[string]any](t, rec)
	assert.Equal(t, "Bearer", body["token_type"])
	assert.NotEmpty(t, body["token"])

	usuario, ok := body["usuario"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Maria", usuario["nome"])
	assert.Equal(t, "maria", usuario["login"])
	assert.NotContains(t, usuario, "senha")
	assert.NotContains(t, rec.Body.String(), "senha123")
}

func TestRegisterValidationEnvelope(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodPost, "/api/register", "", map[string]string{
		"senha":              "abc",
		"senha_confirmation": "abc",
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	body := decodeBody[ErrorResponse](t, rec)
	assert.Equal(t, "O campo nome é obrigatório.", body.Message)
	assert.Contains(t, body.Errors, "nome")
	assert.Contains(t, body.Errors, "login")
	assert.Equal(t, []string{"O campo senha deve ter pelo menos 6 caracteres."}, body.Errors["senha"])
}

func TestRegisterPasswordConfirmationMismatch(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodPost, "/api/register", "", map[string]string{
		"nome":               "Maria",
		"login":              "maria",
		"senha":              "senha123",
		"senha_confirmation": "outra123",
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	body := decodeBody[ErrorResponse](t, rec)
	assert.Equal(t, []string{"A confirmação de senha não confere."}, body.Errors["senha_confirmation"])
}

func TestRegisterDuplicateLogin(t *testing.T) {
	app := newTestApp(t)
	app.register(t, "maria")

	rec := app.do(t, http.MethodPost, "/api/register", "", map[string]string{
		"nome":               "Outra Maria",
		"login":              "maria",
		"senha":              "senha123",
		"senha_confirmation": "senha123",
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	body := decodeBody[ErrorResponse](t, rec)
	assert.Equal(t, []string{"Usuário já existe"}, body.Errors["login"])
}

func TestRegisterBadJSONBody(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/api/register", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	app.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"message":"Corpo da requisição inválido."}`, rec.Body.String())
}

func TestLoginFlow(t *testing.T) {
	app := newTestApp(t)
	firstToken := app.register(t, "maria")

	t.Run("wrong password is a generic 422", func(t *testing.T) {
		rec := app.do(t, http.MethodPost, "/api/login", "", map[string]string{
			"login": "maria",
			"senha": "senhaerrada",
		})
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

		body := decodeBody[ErrorResponse](t, rec)
		assert.Equal(t, "Credenciais inválidas.", body.Message)
	})

	t.Run("unknown login gets the same message", func(t *testing.T) {
		rec := app.do(t, http.MethodPost, "/api/login", "", map[string]string{
			"login": "desconhecida",
			"senha": "senha123",
		})
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

		body := decodeBody[ErrorResponse](t, rec)
		assert.Equal(t, "Credenciais inválidas.", body.Message)
	})

	t.Run("success revokes previous token", func(t *testing.T) {
		rec := app.do(t, http.MethodPost, "/api/login", "", map[string]string{
			"login": "maria",
			"senha": "senha123",
		})
		require.Equal(t, http.StatusOK, rec.Code)

		result := decodeBody[struct {
			Token string `json:"token"`
		}](t, rec)
		require.NotEmpty(t, result.Token)

		old := app.do(t, http.MethodGet, "/api/user", firstToken, nil)
		assert.Equal(t, http.StatusUnauthorized, old.Code)

		fresh := app.do(t, http.MethodGet, "/api/user", result.Token, nil)
		assert.Equal(t, http.StatusOK, fresh.Code)
	})
}

func TestLogoutRevokesToken(t *testing.T) {
	app := newTestApp(t)
	token := app.register(t, "maria")

	rec := app.do(t, http.MethodPost, "/api/logout", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Logout realizado com sucesso."}`, rec.Body.String())

	after := app.do(t, http.MethodGet, "/api/user", token, nil)
	assert.Equal(t, http.StatusUnauthorized, after.Code)
	assert.JSONEq(t, `{"message":"Não autenticado."}`, after.Body.String())
}

func TestMeEndpoint(t *testing.T) {
	app := newTestApp(t)
	token := app.register(t, "maria")

	rec := app.do(t, http.MethodGet, "/api/user", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody[map[string]any](t, rec)
	assert.Equal(t, "maria", body["login"])
	assert.NotContains(t, body, "senha")
}

func TestUpdateProfileEndpoint(t *testing.T) {
	app := newTestApp(t)
	token := app.register(t, "maria")

	t.Run("rename", func(t *testing.T) {
		rec := app.do(t, http.MethodPatch, "/api/user", token, map[string]string{
			"nome": "Maria Silva",
		})
		require.Equal(t, http.StatusOK, rec.Code)

		body := decodeBody[map[string]any](t, rec)
		assert.Equal(t, "Maria Silva", body["nome"])
		assert.Equal(t, "maria", body["login"])
	})

	t.Run("password change without current password", func(t *testing.T) {
		rec := app.do(t, http.MethodPatch, "/api/user", token, map[string]string{
			"senha": "novasenha",
		})
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

		body := decodeBody[ErrorResponse](t, rec)
		assert.Contains(t, body.Errors, "senha_atual")
	})

	t.Run("password change with wrong current password", func(t *testing.T) {
		rec := app.do(t, http.MethodPatch, "/api/user", token, map[string]string{
			"senha":       "novasenha",
			"senha_atual": "senhaerrada",
		})
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

		body := decodeBody[ErrorResponse](t, rec)
		assert.Equal(t, "Senha atual incorreta.", body.Message)
	})

	t.Run("password change succeeds", func(t *testing.T) {
		rec := app.do(t, http.MethodPatch, "/api/user", token, map[string]string{
			"senha":       "novasenha",
			"senha_atual": "senha123",
		})
		require.Equal(t, http.StatusOK, rec.Code)

		login := app.do(t, http.MethodPost, "/api/login", "", map[string]string{
			"login": "maria",
			"senha": "novasenha",
		})
		assert.Equal(t, http.StatusOK, login.Code)
	})
}

func TestCategoriesEndpoint(t *testing.T) {
	app := newTestApp(t)

	anon := app.do(t, http.MethodGet, "/api/categorias", "", nil)
	assert.Equal(t, http.StatusUnauthorized, anon.Code)

	token := app.register(t, "maria")
	rec := app.do(t, http.MethodGet, "/api/categorias", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	categories := decodeBody[[]map[string]any](t, rec)
	assert.Len(t, categories, 13)
	assert.Equal(t, "Alimentação Saudável", categories[0]["nome"])
}
