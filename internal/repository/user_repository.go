package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/unclebandit/mailpulse-backend/internal/model"
)

// ErrDuplicate is returned when an insert hits a unique constraint.
var ErrDuplicate = errors.New("duplicate key")

const uniqueViolation = "23505"

type UserRepositoryInterface interface {
	FindByEmail(ctx context.Context, email string) (*model.UserAccount, error)
	Create(ctx context.Context, u *model.UserAccount) error
}

type UserRepository struct {
	DB *sql.DB
}

// FindByEmail returns nil, nil when no account uses the address.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.UserAccount, error) {
	query := `
        SELECT id, email, password_hash, name, created_at
        FROM users
        WHERE email = $1
    `
	var u model.UserAccount
	err := r.DB.QueryRowContext(ctx, query, email).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *model.UserAccount) error {
	query := `
        INSERT INTO users (id, email, password_hash, name, created_at)
        VALUES ($1, $2, $3, $4, $5)
    `
	_, err := r.DB.ExecContext(ctx, query, u.ID, u.Email, u.PasswordHash, u.Name, u.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("%w: %s", ErrDuplicate, pqErr.Constraint)
		}
		return err
	}
	return nil
}

var _ UserRepositoryInterface = (*UserRepository)(nil)
