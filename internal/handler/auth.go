package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"receitas-api/internal/apperror"
	"receitas-api/internal/auth"
	"receitas-api/internal/service"
	"receitas-api/internal/validation"
)

// AuthHandler exposes registration, login/logout and the profile endpoints.
type AuthHandler struct {
	service *service.AuthService
	logger  *slog.Logger
}

func NewAuthHandler(service *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{service: service, logger: logger}
}

type registerRequest struct {
	Name                 string `json:"nome" validate:"required,max=100"`
	Login                string `json:"login" validate:"required,max=100"`
	Password             string `json:"senha" validate:"required,min=6"`
	PasswordConfirmation string `json:"senha_confirmation" validate:"required,eqfield=Password"`
}

// HandleRegister creates a user and issues the first token.
//
// HTTP: POST /api/register
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Corpo da requisição inválido.")
		return
	}

	if err := validation.Struct(req); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.service.Register(r.Context(), req.Name, req.Login, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

type loginRequest struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"senha" validate:"required"`
}

// HandleLogin authenticates and issues a fresh token, revoking any previous
// session of the account.
//
// HTTP: POST /api/login
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Corpo da requisição inválido.")
		return
	}

	if err := validation.Struct(req); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.service.Login(r.Context(), req.Login, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// HandleLogout revokes the token that authenticated this request.
//
// HTTP: POST /api/logout (bearer)
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	tokenID, ok := auth.TokenIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("Não autenticado."))
		return
	}

	if err := h.service.Logout(r.Context(), tokenID); err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "Logout realizado com sucesso.")
}

// HandleMe returns the authenticated user's profile.
//
// HTTP: GET /api/user (bearer)
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("Não autenticado."))
		return
	}

	user, err := h.service.GetUser(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

type profileUpdateRequest struct {
	Name            *string `json:"nome" validate:"omitempty,max=100"`
	Login           *string `json:"login" validate:"omitempty,max=100"`
	Password        *string `json:"senha" validate:"omitempty,min=6"`
	CurrentPassword *string `json:"senha_atual"`
}

// HandleUpdateProfile applies a partial profile update. Changing the
// password requires the current one.
//
// HTTP: PATCH /api/user (bearer)
func (h *AuthHandler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("Não autenticado."))
		return
	}

	var req profileUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Corpo da requisição inválido.")
		return
	}

	if err := validation.Struct(req); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), userID, service.ProfilePatch{
		Name:            req.Name,
		Login:           req.Login,
		Password:        req.Password,
		CurrentPassword: req.CurrentPassword,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}
