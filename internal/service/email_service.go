package service

import (
	"context"
	"fmt"
	"html"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appErrors "github.com/unclebandit/mailpulse-backend/internal/errors"
	"github.com/unclebandit/mailpulse-backend/internal/metrics"
	"github.com/unclebandit/mailpulse-backend/internal/model"
	"github.com/unclebandit/mailpulse-backend/internal/repository"
)

type EmailService struct {
	EmailRepo       repository.EmailRepositoryInterface
	TrackingBaseURL string
	Logger          *zap.Logger
	Now             func() time.Time
}

type ComposeInput struct {
	Recipient string `json:"recipient" validate:"required,addrlist"`
	Subject   string `json:"subject" validate:"required"`
	Body      string `json:"body" validate:"required"`
}

// TrackingURL is the pixel address for the record with the given id.
func TrackingURL(baseURL string, id uuid.UUID) string {
	return fmt.Sprintf("%s/track-open/%s", baseURL, id)
}

// PixelTag is the invisible 1x1 image that points at trackingURL.
func PixelTag(trackingURL string) string {
	return fmt.Sprintf(`<img src="%s" width="1" height="1" style="display:none;" />`, html.EscapeString(trackingURL))
}

// Compose stores a new email record whose body already carries its tracking
// pixel. The id is generated before the insert so a single write is enough and
// no record ever exists without its pixel.
func (s *EmailService) Compose(ctx context.Context, in ComposeInput) (*model.EmailRecord, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	id := uuid.New()
	rec := &model.EmailRecord{
		ID:        id,
		Recipient: in.Recipient,
		Subject:   in.Subject,
		Body:      in.Body + PixelTag(TrackingURL(s.TrackingBaseURL, id)),
		SentAt:    s.now().UTC(),
		Opened:    false,
	}

	if err := s.EmailRepo.Create(ctx, rec); err != nil {
		return nil, appErrors.NewPersistence("insert email", err)
	}

	metrics.EmailsComposed.Inc()
	s.Logger.Info("email composed", zap.String("email_id", id.String()))
	return rec, nil
}

// MarkOpened flips the opened flag for rawID and reports whether a record
// matched. Ids that are not UUIDs match nothing and touch no storage.
func (s *EmailService) MarkOpened(ctx context.Context, rawID string) (bool, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		metrics.IncrementOpen("invalid")
		return false, nil
	}

	matched, err := s.EmailRepo.MarkOpened(ctx, id)
	if err != nil {
		metrics.IncrementOpen("error")
		return false, appErrors.NewPersistence("update email", err)
	}
	if matched {
		metrics.IncrementOpen("matched")
	} else {
		metrics.IncrementOpen("unknown")
	}
	return matched, nil
}

func (s *EmailService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
