package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/unclebandit/mailpulse-backend/internal/model"
)

// FollowUpTopic carries one FollowUpReminder per unopened email.
const FollowUpTopic = "follow_up_reminders"

type Publisher interface {
	Publish(topic string, payload any) error
}

// Queue interface
type Queue interface {
	Publisher
	Subscribe(topic string, handler func(payload any) error) error
	Close() error
}

// InMemoryQueue delivers each published payload to every subscriber of the
// topic in its own goroutine, retrying failed handlers with a linear backoff.
type InMemoryQueue struct {
	mu         sync.Mutex
	handlers   map[string][]func(payload any) error
	maxRetries int
	backoff    time.Duration
	logger     *zap.Logger
	wg         sync.WaitGroup
}

func NewInMemoryQueue(logger *zap.Logger) *InMemoryQueue {
	return &InMemoryQueue{
		handlers:   make(map[string][]func(payload any) error),
		maxRetries: 3,
		backoff:    500 * time.Millisecond,
		logger:     logger,
	}
}

// JobPayload wraps a message payload with retry info
type JobPayload struct {
	Topic      string
	Payload    any
	RetryCount int
	MaxRetries int
}

// Publish sends a message to all subscribers
func (q *InMemoryQueue) Publish(topic string, payload any) error {
	q.mu.Lock()
	handlers := append([]func(payload any) error(nil), q.handlers[topic]...)
	q.mu.Unlock()

	if len(handlers) == 0 {
		return fmt.Errorf("no subscribers for topic %s", topic)
	}

	for _, handler := range handlers {
		job := JobPayload{Topic: topic, Payload: payload, MaxRetries: q.maxRetries}
		q.wg.Add(1)
		go q.processJob(handler, job)
	}
	return nil
}

func (q *InMemoryQueue) processJob(handler func(payload any) error, job JobPayload) {
	defer q.wg.Done()
	for {
		err := handler(job.Payload)
		if err == nil {
			return
		}

		job.RetryCount++
		if job.RetryCount > job.MaxRetries {
			q.logger.Error("job permanently failed",
				zap.String("topic", job.Topic),
				zap.Int("attempts", job.RetryCount),
				zap.Error(err),
			)
			return
		}
		q.logger.Warn("job failed, retrying",
			zap.String("topic", job.Topic),
			zap.Int("attempt", job.RetryCount),
			zap.Error(err),
		)
		time.Sleep(time.Duration(job.RetryCount) * q.backoff)
	}
}

// Subscribe adds a handler for a topic
func (q *InMemoryQueue) Subscribe(topic string, handler func(payload any) error) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.handlers[topic] = append(q.handlers[topic], handler)
	return nil
}

// Close waits for in-flight jobs to finish.
func (q *InMemoryQueue) Close() error {
	q.wg.Wait()
	return nil
}

// ErrUnknownPayload is returned by DecodeReminder for payloads that are neither
// a reminder value nor its JSON encoding.
var ErrUnknownPayload = errors.New("unexpected payload type")

// DecodeReminder accepts a model.FollowUpReminder from the in-memory queue or
// raw JSON from RabbitMQ.
func DecodeReminder(payload any) (model.FollowUpReminder, error) {
	var reminder model.FollowUpReminder
	switch p := payload.(type) {
	case model.FollowUpReminder:
		return p, nil
	case *model.FollowUpReminder:
		if p == nil {
			return reminder, ErrUnknownPayload
		}
		return *p, nil
	case []byte:
		if err := json.Unmarshal(p, &reminder); err != nil {
			return reminder, fmt.Errorf("decode follow-up reminder: %w", err)
		}
		return reminder, nil
	default:
		return reminder, fmt.Errorf("%w: %T", ErrUnknownPayload, payload)
	}
}

// StartFollowUpSubscriber logs every reminder published on FollowUpTopic.
func StartFollowUpSubscriber(q Queue, logger *zap.Logger) error {
	return q.Subscribe(FollowUpTopic, func(payload any) error {
		reminder, err := DecodeReminder(payload)
		if err != nil {
			logger.Warn("invalid follow-up payload", zap.Error(err))
			return nil // no retry
		}

		logger.Info("Follow-up reminder",
			zap.String("recipient", reminder.Recipient),
			zap.String("email_id", reminder.EmailID.String()),
			zap.String("subject", reminder.Subject),
			zap.Time("sent_at", reminder.SentAt),
		)
		return nil
	})
}
