// Package service contains the business logic layer, sitting between the
// HTTP handlers and the repositories. Services validate business rules and
// return domain errors; they know nothing about HTTP.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"receitas-api/internal/apperror"
	"receitas-api/internal/auth"
	"receitas-api/internal/model"
	"receitas-api/internal/repository"
)

// AuthService implements the credential and token flows: register, login,
// logout and profile updates.
type AuthService struct {
	users     repository.UserRepository
	tokens    repository.TokenRepository
	issuer    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

func NewAuthService(
	users repository.UserRepository,
	tokens repository.TokenRepository,
	issuer *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		issuer:    issuer,
		passwords: passwords,
		logger:    logger,
	}
}

// AuthResult is the response body of register and login.
type AuthResult struct {
	User      *model.User `json:"usuario"`
	Token     string      `json:"token"`
	TokenType string      `json:"token_type"`
}

// Register creates a user and issues their first token. Logins are unique
// (case-sensitive exact match); a taken login is a field-level validation
// error and no user is created.
func (s *AuthService) Register(ctx context.Context, name, login, password string) (*AuthResult, error) {
	taken, err := s.users.LoginTaken(ctx, login, 0)
	if err != nil {
		return nil, fmt.Errorf("service/auth: checking login: %w", err)
	}
	if taken {
		return nil, apperror.ValidationFailed("login", "Usuário já existe")
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("service/auth: %w", err)
	}

	user := &model.User{Name: name, Login: login, PasswordHash: hash}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("service/auth: creating user: %w", err)
	}

	token, jti, err := s.issuer.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("service/auth: %w", err)
	}
	if err := s.tokens.CreateToken(ctx, &model.Token{ID: jti, UserID: user.ID}); err != nil {
		return nil, fmt.Errorf("service/auth: storing token: %w", err)
	}

	s.logger.Info("user registered",
		slog.Int64("userID", user.ID),
		slog.String("login", user.Login),
	)

	return &AuthResult{User: user, Token: token, TokenType: "Bearer"}, nil
}

// Login authenticates by login and password. Unknown login and wrong
// password produce the same generic error so accounts cannot be enumerated.
// On success every previously issued token is revoked before the new one
// becomes visible: one active session per account.
func (s *AuthService) Login(ctx context.Context, login, password string) (*AuthResult, error) {
	invalid := apperror.ValidationFailed("login", "Credenciais inválidas.")

	user, err := s.users.GetUserByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, invalid
		}
		return nil, fmt.Errorf("service/auth: looking up login: %w", err)
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return nil, invalid
	}

	token, jti, err := s.issuer.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("service/auth: %w", err)
	}
	if err := s.tokens.ReplaceUserTokens(ctx, user.ID, &model.Token{ID: jti, UserID: user.ID}); err != nil {
		return nil, fmt.Errorf("service/auth: replacing tokens: %w", err)
	}

	s.logger.Info("user logged in", slog.Int64("userID", user.ID))

	return &AuthResult{User: user, Token: token, TokenType: "Bearer"}, nil
}

// Logout revokes exactly the presented token; other sessions of the same
// user (there should be none) are untouched.
func (s *AuthService) Logout(ctx context.Context, tokenID string) error {
	if err := s.tokens.DeleteToken(ctx, tokenID); err != nil {
		return fmt.Errorf("service/auth: revoking token: %w", err)
	}
	return nil
}

// GetUser returns the profile of the given user.
func (s *AuthService) GetUser(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// ProfilePatch holds the optional profile fields; nil means "leave as is".
type ProfilePatch struct {
	Name            *string
	Login           *string
	Password        *string
	CurrentPassword *string
}

// UpdateProfile applies a partial profile update. A login change re-checks
// uniqueness excluding the user themselves; a password change requires the
// current password to verify first.
func (s *AuthService) UpdateProfile(ctx context.Context, userID int64, patch ProfilePatch) (*model.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if patch.Login != nil && *patch.Login != user.Login {
		taken, err := s.users.LoginTaken(ctx, *patch.Login, userID)
		if err != nil {
			return nil, fmt.Errorf("service/auth: checking login: %w", err)
		}
		if taken {
			return nil, apperror.ValidationFailed("login", "Usuário já existe")
		}
		user.Login = *patch.Login
	}

	if patch.Name != nil {
		user.Name = *patch.Name
	}

	if patch.Password != nil {
		if patch.CurrentPassword == nil {
			return nil, apperror.ValidationFailed("senha_atual", "O campo senha_atual é obrigatório.")
		}
		if err := s.passwords.Verify(user.PasswordHash, *patch.CurrentPassword); err != nil {
			return nil, apperror.ValidationFailed("senha_atual", "Senha atual incorreta.")
		}
		hash, err := s.passwords.Hash(*patch.Password)
		if err != nil {
			return nil, fmt.Errorf("service/auth: %w", err)
		}
		user.PasswordHash = hash
	}

	if err := s.users.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("service/auth: updating profile: %w", err)
	}

	s.logger.Info("profile updated", slog.Int64("userID", userID))

	return user, nil
}
