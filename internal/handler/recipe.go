package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"receitas-api/internal/apperror"
	"receitas-api/internal/auth"
	"receitas-api/internal/repository"
	"receitas-api/internal/service"
	"receitas-api/internal/storage"
	"receitas-api/internal/validation"
)

// maxUploadMemory bounds the in-memory portion of multipart parsing; larger
// file parts spill to temporary files.
const maxUploadMemory = 10 << 20

// RecipeHandler exposes the owner-scoped recipe CRUD. Create and update
// accept either a JSON body or multipart/form-data carrying a "foto" file.
type RecipeHandler struct {
	service *service.RecipeService
	photos  *storage.PhotoStore
	logger  *slog.Logger
}

func NewRecipeHandler(service *service.RecipeService, photos *storage.PhotoStore, logger *slog.Logger) *RecipeHandler {
	return &RecipeHandler{service: service, photos: photos, logger: logger}
}

// HandleList returns one page of the user's recipes.
//
// HTTP: GET /api/receitas?q=&categoria_id=&page= (bearer)
func (h *RecipeHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("Não autenticado."))
		return
	}

	filter := repository.RecipeFilter{
		Query: r.URL.Query().Get("q"),
		Page:  1,
	}

	if raw := r.URL.Query().Get("categoria_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeError(w, apperror.ValidationFailed("categoria_id",
				"O campo categoria_id deve ser um número inteiro."))
			return
		}
		filter.CategoryID = id
	}
	if raw := r.URL.Query().Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, apperror.ValidationFailed("page",
				"O campo page deve ser um número inteiro."))
			return
		}
		filter.Page = page
	}

	page, err := h.service.List(r.Context(), userID, filter)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, page)
}

// HandleGet returns a single recipe, 404 when it does not exist or belongs
// to another user.
//
// HTTP: GET /api/receitas/{id} (bearer)
func (h *RecipeHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("Não autenticado."))
		return
	}

	id, err := recipeID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	recipe, err := h.service.Get(r.Context(), userID, id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, recipe)
}

type recipeCreateRequest struct {
	CategoryID  int64  `json:"id_categorias" validate:"required"`
	Name        string `json:"nome" validate:"required,max=45"`
	PrepMinutes int    `json:"tempo_preparo_minutos" validate:"required,min=1"`
	Servings    int    `json:"porcoes" validate:"required,min=1"`
	Steps       string `json:"modo_preparo" validate:"required"`
	Ingredients string `json:"ingredientes" validate:"required"`
}

// HandleCreate persists a new recipe owned by the requesting user.
//
// HTTP: POST /api/receitas (bearer; JSON or multipart with "foto")
func (h *RecipeHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("Não autenticado."))
		return
	}

	var req recipeCreateRequest
	var photoData []byte
	var photoExt string

	if isMultipart(r) {
		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			writeMessage(w, http.StatusBadRequest, "Corpo da requisição inválido.")
			return
		}

		if err := decodeCreateForm(r.PostForm, &req); err != nil {
			writeError(w, err)
			return
		}

		if file, _, err := r.FormFile("foto"); err == nil {
			defer file.Close()
			photoData, photoExt, err = h.photos.ReadPhoto(file)
			if err != nil {
				writeError(w, err)
				return
			}
		}
	} else {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeMessage(w, http.StatusBadRequest, "Corpo da requisição inválido.")
			return
		}
	}

	if err := validation.Struct(req); err != nil {
		writeError(w, err)
		return
	}

	in := service.RecipeInput{
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		PrepMinutes: req.PrepMinutes,
		Servings:    req.Servings,
		Steps:       req.Steps,
		Ingredients: req.Ingredients,
	}

	if photoData != nil {
		path, err := h.photos.Save(photoData, photoExt)
		if err != nil {
			writeError(w, err)
			return
		}
		in.Photo = path
	}

	recipe, err := h.service.Create(r.Context(), userID, in)
	if err != nil {
		if in.Photo != "" {
			if derr := h.photos.Delete(in.Photo); derr != nil {
				h.logger.Warn("orphan photo cleanup failed", slog.String("error", derr.Error()))
			}
		}
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, recipe)
}

type recipeUpdateRequest struct {
	CategoryID  *int64  `json:"id_categorias" validate:"omitempty,min=1"`
	Name        *string `json:"nome" validate:"omitempty,max=45"`
	PrepMinutes *int    `json:"tempo_preparo_minutos" validate:"omitempty,min=1"`
	Servings    *int    `json:"porcoes" validate:"omitempty,min=1"`
	Steps       *string `json:"modo_preparo"`
	Ingredients *string `json:"ingredientes"`
}

// HandleUpdate applies a partial update; only provided fields change. A new
// photo replaces (and removes) the previous file.
//
// HTTP: PUT /api/receitas/{id} (bearer; JSON or multipart with "foto")
func (h *RecipeHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("Não autenticado."))
		return
	}

	id, err := recipeID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req recipeUpdateRequest
	var photoData []byte
	var photoExt string

	if isMultipart(r) {
		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			writeMessage(w, http.StatusBadRequest, "Corpo da requisição inválido.")
			return
		}

		if err := decodeUpdateForm(r.PostForm, &req); err != nil {
			writeError(w, err)
			return
		}

		if file, _, err := r.FormFile("foto"); err == nil {
			defer file.Close()
			photoData, photoExt, err = h.photos.ReadPhoto(file)
			if err != nil {
				writeError(w, err)
				return
			}
		}
	} else {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeMessage(w, http.StatusBadRequest, "Corpo da requisição inválido.")
			return
		}
	}

	if err := validation.Struct(req); err != nil {
		writeError(w, err)
		return
	}

	patch := service.RecipePatch{
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		PrepMinutes: req.PrepMinutes,
		Servings:    req.Servings,
		Steps:       req.Steps,
		Ingredients: req.Ingredients,
	}

	var oldPhoto string
	if photoData != nil {
		// Look the recipe up before writing the new file so an unowned id
		// does not leave an orphan on disk.
		current, err := h.service.Get(r.Context(), userID, id)
		if err != nil {
			writeError(w, err)
			return
		}
		oldPhoto = current.Photo

		path, err := h.photos.Save(photoData, photoExt)
		if err != nil {
			writeError(w, err)
			return
		}
		patch.Photo = &path
	}

	recipe, err := h.service.Update(r.Context(), userID, id, patch)
	if err != nil {
		if patch.Photo != nil {
			if derr := h.photos.Delete(*patch.Photo); derr != nil {
				h.logger.Warn("orphan photo cleanup failed", slog.String("error", derr.Error()))
			}
		}
		writeError(w, err)
		return
	}

	if patch.Photo != nil && oldPhoto != "" && oldPhoto != *patch.Photo {
		if derr := h.photos.Delete(oldPhoto); derr != nil {
			h.logger.Warn("old photo cleanup failed", slog.String("error", derr.Error()))
		}
	}

	writeJSON(w, http.StatusOK, recipe)
}

// HandleDelete hard-deletes one of the user's recipes.
//
// HTTP: DELETE /api/receitas/{id} (bearer)
func (h *RecipeHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("Não autenticado."))
		return
	}

	id, err := recipeID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.service.Delete(r.Context(), userID, id); err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "Receita excluída com sucesso.")
}

// recipeID parses the path id. A non-numeric id is reported as not found,
// the same as a numeric id that matches nothing.
func recipeID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, apperror.NotFound("Receita não encontrada.")
	}
	return id, nil
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/")
}

func decodeCreateForm(form url.Values, req *recipeCreateRequest) error {
	req.Name = form.Get("nome")
	req.Steps = form.Get("modo_preparo")
	req.Ingredients = form.Get("ingredientes")

	var err error
	if req.CategoryID, err = formInt64(form, "id_categorias"); err != nil {
		return err
	}
	if req.PrepMinutes, err = formInt(form, "tempo_preparo_minutos"); err != nil {
		return err
	}
	if req.Servings, err = formInt(form, "porcoes"); err != nil {
		return err
	}
	return nil
}

func decodeUpdateForm(form url.Values, req *recipeUpdateRequest) error {
	if form.Has("nome") {
		v := form.Get("nome")
		req.Name = &v
	}
	if form.Has("modo_preparo") {
		v := form.Get("modo_preparo")
		req.Steps = &v
	}
	if form.Has("ingredientes") {
		v := form.Get("ingredientes")
		req.Ingredients = &v
	}
	if form.Has("id_categorias") {
		v, err := formInt64(form, "id_categorias")
		if err != nil {
			return err
		}
		req.CategoryID = &v
	}
	if form.Has("tempo_preparo_minutos") {
		v, err := formInt(form, "tempo_preparo_minutos")
		if err != nil {
			return err
		}
		req.PrepMinutes = &v
	}
	if form.Has("porcoes") {
		v, err := formInt(form, "porcoes")
		if err != nil {
			return err
		}
		req.Servings = &v
	}
	return nil
}

func formInt(form url.Values, key string) (int, error) {
	raw := form.Get(key)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperror.ValidationFailed(key, "O campo "+key+" deve ser um número inteiro.")
	}
	return v, nil
}

func formInt64(form url.Values, key string) (int64, error) {
	raw := form.Get(key)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperror.ValidationFailed(key, "O campo "+key+" deve ser um número inteiro.")
	}
	return v, nil
}
