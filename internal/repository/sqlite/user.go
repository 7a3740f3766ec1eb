package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"receitas-api/internal/apperror"
	"receitas-api/internal/model"
)

// CreateUser inserts a new user and fills ID and timestamps. Login
// uniqueness is enforced by the schema; callers check it first to produce a
// field-level validation error instead of a raw constraint failure.
func (db *DB) CreateUser(ctx context.Context, user *model.User) error {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO usuarios (nome, login, senha, criado_em, alterado_em)
		 VALUES (?, ?, ?, ?, ?)`,
		user.Name, user.Login, user.PasswordHash, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading new user id: %w", err)
	}
	user.ID = id

	return nil
}

func (db *DB) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	return db.getUser(ctx, `WHERE id = ?`, id)
}

func (db *DB) GetUserByLogin(ctx context.Context, login string) (*model.User, error) {
	return db.getUser(ctx, `WHERE login = ?`, login)
}

func (db *DB) getUser(ctx context.Context, where string, arg any) (*model.User, error) {
	var u model.User
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, nome, login, senha, criado_em, alterado_em FROM usuarios `+where,
		arg,
	).Scan(&u.ID, &u.Name, &u.Login, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("Usuário não encontrado.")
		}
		return nil, fmt.Errorf("sqlite: getting user: %w", err)
	}
	return &u, nil
}

// UpdateUser persists nome, login, senha and the modification timestamp.
func (db *DB) UpdateUser(ctx context.Context, user *model.User) error {
	user.UpdatedAt = time.Now()

	res, err := db.conn.ExecContext(ctx,
		`UPDATE usuarios SET nome = ?, login = ?, senha = ?, alterado_em = ?
		 WHERE id = ?`,
		user.Name, user.Login, user.PasswordHash, user.UpdatedAt, user.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating user %d: %w", user.ID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if affected == 0 {
		return apperror.NotFound("Usuário não encontrado.")
	}

	return nil
}

// LoginTaken reports whether login belongs to a user other than excludeID.
func (db *DB) LoginTaken(ctx context.Context, login string, excludeID int64) (bool, error) {
	var count int
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM usuarios WHERE login = ? AND id != ?`,
		login, excludeID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("sqlite: checking login %q: %w", login, err)
	}
	return count > 0, nil
}
