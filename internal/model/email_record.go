// internal/model/email_record.go
package model

import (
	"time"

	"github.com/google/uuid"
)

type EmailRecord struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Recipient string    `db:"recipient" json:"recipient"`
	Subject   string    `db:"subject" json:"subject"`
	Body      string    `db:"body" json:"body"`
	SentAt    time.Time `db:"sent_at" json:"sentAt"`
	Opened    bool      `db:"opened" json:"opened"`
}

// FollowUpReminder is published for every record still unopened at scan time.
type FollowUpReminder struct {
	EmailID   uuid.UUID `json:"emailId"`
	Recipient string    `json:"recipient"`
	Subject   string    `json:"subject"`
	SentAt    time.Time `json:"sentAt"`
}
