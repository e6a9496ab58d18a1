package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/unclebandit/mailpulse-backend/internal/model"
)

type EmailRepositoryInterface interface {
	Create(ctx context.Context, e *model.EmailRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.EmailRecord, error)
	MarkOpened(ctx context.Context, id uuid.UUID) (bool, error)
	ListUnopened(ctx context.Context) ([]model.EmailRecord, error)
}

type EmailRepository struct {
	DB *sql.DB
}

func (r *EmailRepository) Create(ctx context.Context, e *model.EmailRecord) error {
	query := `
        INSERT INTO emails (id, recipient, subject, body, sent_at, opened)
        VALUES ($1, $2, $3, $4, $5, $6)
    `
	_, err := r.DB.ExecContext(ctx, query, e.ID, e.Recipient, e.Subject, e.Body, e.SentAt, e.Opened)
	return err
}

// GetByID returns nil, nil when the record does not exist.
func (r *EmailRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.EmailRecord, error) {
	query := `
        SELECT id, recipient, subject, body, sent_at, opened
        FROM emails
        WHERE id = $1
    `
	var e model.EmailRecord
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&e.ID, &e.Recipient, &e.Subject, &e.Body, &e.SentAt, &e.Opened)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

// MarkOpened sets opened=true and reports whether a record matched. The flag is
// never cleared, so repeated calls leave the same end state.
func (r *EmailRepository) MarkOpened(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `UPDATE emails SET opened = TRUE WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *EmailRepository) ListUnopened(ctx context.Context) ([]model.EmailRecord, error) {
	query := `
        SELECT id, recipient, subject, body, sent_at, opened
        FROM emails
        WHERE opened = FALSE
        ORDER BY sent_at
    `
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	emails := []model.EmailRecord{}
	for rows.Next() {
		var e model.EmailRecord
		if err := rows.Scan(&e.ID, &e.Recipient, &e.Subject, &e.Body, &e.SentAt, &e.Opened); err != nil {
			return nil, err
		}
		emails = append(emails, e)
	}
	return emails, rows.Err()
}

var _ EmailRepositoryInterface = (*EmailRepository)(nil)
