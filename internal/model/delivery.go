// internal/model/delivery.go
package model

import "time"

// DeliveryReceipt is what the mail transport reports back for an accepted message.
// Response carries the raw server reply only when the transport exposes one.
type DeliveryReceipt struct {
	MessageID string    `json:"messageId"`
	Accepted  []string  `json:"accepted"`
	Response  string    `json:"response,omitempty"`
	SentAt    time.Time `json:"sentAt"`
}
