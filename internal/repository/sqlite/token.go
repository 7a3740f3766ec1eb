package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"receitas-api/internal/apperror"
	"receitas-api/internal/model"
)

func (db *DB) CreateToken(ctx context.Context, token *model.Token) error {
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now()
	}

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO tokens (id, id_usuarios, criado_em) VALUES (?, ?, ?)`,
		token.ID, token.UserID, token.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating token: %w", err)
	}
	return nil
}

func (db *DB) GetToken(ctx context.Context, id string) (*model.Token, error) {
	var t model.Token
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, id_usuarios, criado_em FROM tokens WHERE id = ?`,
		id,
	).Scan(&t.ID, &t.UserID, &t.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("Token não encontrado.")
		}
		return nil, fmt.Errorf("sqlite: getting token: %w", err)
	}
	return &t, nil
}

func (db *DB) DeleteToken(ctx context.Context, id string) error {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM tokens WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting token: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if affected == 0 {
		return apperror.NotFound("Token não encontrado.")
	}
	return nil
}

// ReplaceUserTokens revokes every token of the user and stores the new one
// in a single transaction, so a concurrent request never observes both the
// old and the new token as valid.
func (db *DB) ReplaceUserTokens(ctx context.Context, userID int64, token *model.Token) error {
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now()
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning token transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM tokens WHERE id_usuarios = ?`, userID,
	); err != nil {
		return fmt.Errorf("sqlite: revoking tokens for user %d: %w", userID, err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO tokens (id, id_usuarios, criado_em) VALUES (?, ?, ?)`,
		token.ID, token.UserID, token.CreatedAt,
	); err != nil {
		return fmt.Errorf("sqlite: storing replacement token: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing token transaction: %w", err)
	}
	return nil
}
