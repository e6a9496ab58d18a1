package mailer

import (
	"context"
	"crypto/tls"
	"fmt"
	netmail "net/mail"
	"strings"
	"time"

	mail "github.com/go-mail/mail"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/unclebandit/mailpulse-backend/internal/model"
)

// Message is an HTML email ready for delivery.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Sender delivers a message and reports what the transport accepted.
type Sender interface {
	Send(ctx context.Context, msg Message) (*model.DeliveryReceipt, error)
}

// dialer is the part of *mail.Dialer the SMTP sender uses.
type dialer interface {
	DialAndSend(m ...*mail.Message) error
}

type SMTPSender struct {
	From   string
	Host   string
	dialer dialer
	logger *zap.Logger
}

// NewSMTPSender authenticates with user/pass and negotiates STARTTLS when the
// server offers it.
func NewSMTPSender(host string, port int, user, pass, from string, logger *zap.Logger) *SMTPSender {
	d := mail.NewDialer(host, port, user, pass)
	d.TLSConfig = &tls.Config{ServerName: host}
	if port == 465 {
		d.SSL = true
	}
	return &SMTPSender{
		From:   from,
		Host:   host,
		dialer: d,
		logger: logger,
	}
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) (*model.DeliveryReceipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	recipients, err := netmail.ParseAddressList(msg.To)
	if err != nil {
		return nil, fmt.Errorf("invalid recipient %q: %w", msg.To, err)
	}

	messageID := fmt.Sprintf("<%s@%s>", uuid.NewString(), domainOf(s.From, s.Host))

	m := mail.NewMessage()
	to := make([]string, 0, len(recipients))
	accepted := make([]string, 0, len(recipients))
	for _, r := range recipients {
		to = append(to, m.FormatAddress(r.Address, r.Name))
		accepted = append(accepted, r.Address)
	}

	m.SetHeader("From", s.From)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", msg.Subject)
	m.SetHeader("Message-ID", messageID)
	m.SetBody("text/html", msg.HTML)

	s.logger.Debug("smtp send", zap.String("host", s.Host), zap.String("to", msg.To))

	if err := s.dialer.DialAndSend(m); err != nil {
		return nil, fmt.Errorf("smtp send: %w", err)
	}

	// go-mail does not expose the server reply, so Response stays empty.
	return &model.DeliveryReceipt{
		MessageID: messageID,
		Accepted:  accepted,
		SentAt:    time.Now().UTC(),
	}, nil
}

func domainOf(from, fallback string) string {
	if i := strings.LastIndex(from, "@"); i >= 0 && i < len(from)-1 {
		return strings.TrimSuffix(from[i+1:], ">")
	}
	return fallback
}
