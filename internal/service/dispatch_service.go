package service

import (
	"context"

	"go.uber.org/zap"

	appErrors "github.com/unclebandit/mailpulse-backend/internal/errors"
	"github.com/unclebandit/mailpulse-backend/internal/mailer"
	"github.com/unclebandit/mailpulse-backend/internal/metrics"
	"github.com/unclebandit/mailpulse-backend/internal/model"
)

// DispatchService sends mail through the configured transport. It does not
// read or write email records; compose first if the message should be tracked.
type DispatchService struct {
	Sender mailer.Sender
	Logger *zap.Logger
}

type DispatchInput struct {
	Recipient string `json:"recipient" validate:"required,addrlist"`
	Subject   string `json:"subject" validate:"required"`
	Body      string `json:"body" validate:"required"`
}

func (s *DispatchService) Send(ctx context.Context, in DispatchInput) (*model.DeliveryReceipt, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	receipt, err := s.Sender.Send(ctx, mailer.Message{
		To:      in.Recipient,
		Subject: in.Subject,
		HTML:    in.Body,
	})
	if err != nil {
		metrics.IncrementDispatch("failed")
		return nil, appErrors.NewDispatch(err)
	}

	metrics.IncrementDispatch("sent")
	s.Logger.Info("email sent", zap.String("message_id", receipt.MessageID))
	return receipt, nil
}
