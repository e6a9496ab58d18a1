package service

import (
	"context"

	"go.uber.org/zap"

	appErrors "github.com/unclebandit/mailpulse-backend/internal/errors"
	"github.com/unclebandit/mailpulse-backend/internal/metrics"
	"github.com/unclebandit/mailpulse-backend/internal/model"
	"github.com/unclebandit/mailpulse-backend/internal/queue"
	"github.com/unclebandit/mailpulse-backend/internal/repository"
)

// FollowUpScanner reports every email that has not been opened yet. It only
// logs and publishes reminders; no mail is sent.
type FollowUpScanner struct {
	EmailRepo repository.EmailRepositoryInterface
	Publisher queue.Publisher
	Logger    *zap.Logger
}

func (s *FollowUpScanner) Scan(ctx context.Context) ([]model.FollowUpReminder, error) {
	emails, err := s.EmailRepo.ListUnopened(ctx)
	if err != nil {
		return nil, appErrors.NewPersistence("list unopened emails", err)
	}

	reminders := make([]model.FollowUpReminder, 0, len(emails))
	for _, e := range emails {
		r := model.FollowUpReminder{
			EmailID:   e.ID,
			Recipient: e.Recipient,
			Subject:   e.Subject,
			SentAt:    e.SentAt,
		}
		reminders = append(reminders, r)

		s.Logger.Info("follow-up needed", zap.String("recipient", e.Recipient), zap.String("email_id", e.ID.String()))
		if s.Publisher != nil {
			if err := s.Publisher.Publish(queue.FollowUpTopic, r); err != nil {
				s.Logger.Warn("failed to publish follow-up reminder", zap.String("email_id", e.ID.String()), zap.Error(err))
			}
		}
	}

	metrics.FollowUpsPending.Set(float64(len(reminders)))
	return reminders, nil
}

// Run adapts Scan to a scheduler task.
func (s *FollowUpScanner) Run(ctx context.Context) error {
	_, err := s.Scan(ctx)
	return err
}
