package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"receitas-api/internal/auth"
	"receitas-api/internal/repository/memory"
	"receitas-api/internal/service"
	"receitas-api/internal/storage"
)

// testApp wires the handlers onto the real route tree over the in-memory
// store, so these tests exercise the full HTTP surface.
type testApp struct {
	router http.Handler
	store  *memory.Store
	photos *storage.PhotoStore
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.New()

	tokens, err := auth.NewTokenService("test-secret-0123456789abcdef", time.Hour)
	require.NoError(t, err)

	photos, err := storage.NewPhotoStore(t.TempDir())
	require.NoError(t, err)

	authHandler := NewAuthHandler(
		service.NewAuthService(store, store, tokens, auth.NewPasswordServiceWithCost(4), logger),
		logger,
	)
	categoryHandler := NewCategoryHandler(
		service.NewCategoryService(store, nil, logger),
		logger,
	)
	recipeHandler := NewRecipeHandler(
		service.NewRecipeService(store, store, logger),
		photos,
		logger,
	)

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Post("/register", authHandler.HandleRegister)
		r.Post("/login", authHandler.HandleLogin)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens, store))

			r.Get("/categorias", categoryHandler.HandleList)
			r.Post("/logout", authHandler.HandleLogout)
			r.Get("/user", authHandler.HandleMe)
			r.Patch("/user", authHandler.HandleUpdateProfile)

			r.Route("/receitas", func(r chi.Router) {
				r.Get("/", recipeHandler.HandleList)
				r.Post("/", recipeHandler.HandleCreate)
				r.Get("/{id}", recipeHandler.HandleGet)
				r.Put("/{id}", recipeHandler.HandleUpdate)
				r.Delete("/{id}", recipeHandler.HandleDelete)
			})
		})
	})

	return &testApp{router: r, store: store, photos: photos}
}

// do sends a JSON request; body may be nil.
func (a *testApp) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

// doMultipart sends a multipart form with string fields plus an optional
// "foto" file part.
func (a *testApp) doMultipart(t *testing.T, method, path, token string, fields map[string]string, photo []byte) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if photo != nil {
		part, err := mw.CreateFormFile("foto", "foto.png")
		require.NoError(t, err)
		_, err = part.Write(photo)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), "body: %s", rec.Body.String())
	return out
}

// register creates an account through the API and returns its bearer token.
func (a *testApp) register(t *testing.T, login string) string {
	t.Helper()

	rec := a.do(t, http.MethodPost, "/api/register", "", map[string]string{
		"nome":               "Usuário " + login,
		"login":              login,
		"senha":              "senha123",
		"senha_confirmation": "senha123",
	})
	require.Equal(t, http.StatusCreated, rec.Code, "body: %s", rec.Body.String())

	var result struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.NotEmpty(t, result.Token)
	return result.Token
}

func validRecipeBody() map[string]any {
	return map[string]any{
		"id_categorias":         1,
		"nome":                  "Bolo de cenoura",
		"tempo_preparo_minutos": 50,
		"porcoes":               10,
		"modo_preparo":          "Bata tudo e asse por 40 minutos.",
		"ingredientes":          "cenoura, farinha, ovos, óleo",
	}
}

// createRecipe posts a valid recipe and returns its id.
func (a *testApp) createRecipe(t *testing.T, token string) int64 {
	t.Helper()

	rec := a.do(t, http.MethodPost, "/api/receitas", token, validRecipeBody())
	require.Equal(t, http.StatusCreated, rec.Code, "body: %s", rec.Body.String())

	var created struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotZero(t, created.ID)
	return created.ID
}

func recipePath(id int64) string {
	return fmt.Sprintf("/api/receitas/%d", id)
}
