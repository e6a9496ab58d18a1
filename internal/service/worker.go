package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/unclebandit/mailpulse-backend/internal/model"
)

// EmailLookup is the part of the email repository the reminder worker needs.
type EmailLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.EmailRecord, error)
}

// ReminderWorker consumes follow-up reminders. Reminders can sit in the queue
// for a while, so each one is checked against the current record and dropped
// if the email was opened or removed in the meantime.
type ReminderWorker struct {
	EmailRepo EmailLookup
	Logger    *zap.Logger
}

func NewReminderWorker(repo EmailLookup, logger *zap.Logger) *ReminderWorker {
	return &ReminderWorker{EmailRepo: repo, Logger: logger}
}

// Handle logs the reminder if the email is still unopened and reports whether
// it was. Storage errors are returned so the queue can retry.
func (w *ReminderWorker) Handle(ctx context.Context, r model.FollowUpReminder) (bool, error) {
	rec, err := w.EmailRepo.GetByID(ctx, r.EmailID)
	if err != nil {
		return false, err
	}
	if rec == nil || rec.Opened {
		w.Logger.Debug("skipping stale reminder", zap.String("email_id", r.EmailID.String()))
		return false, nil
	}

	w.Logger.Info("Follow-up reminder",
		zap.String("recipient", rec.Recipient),
		zap.String("email_id", rec.ID.String()),
		zap.String("subject", rec.Subject),
		zap.Time("sent_at", rec.SentAt),
	)
	return true, nil
}
