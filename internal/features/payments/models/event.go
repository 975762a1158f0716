package models

import "time"

// Event types delivered by the payment provider. Anything else is
// acknowledged without effect so the provider stops redelivering.
const (
	EventTypeChargeConfirmed = "charge:confirmed"
)

// WebhookEvent is the strict schema a verified webhook body is decoded into.
// Unknown extra fields from the provider are ignored; missing required ones
// reject the payload.
type WebhookEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Metadata EventMetadata `json:"metadata"`
	} `json:"data"`
}

// EventMetadata carries the purchase intent attached to the charge when the
// checkout was created.
type EventMetadata struct {
	UserID string `json:"userId"`
	Coins  int64  `json:"coins"`
}

// PurchaseEvent is a validated confirmed purchase extracted from a webhook.
type PurchaseEvent struct {
	EventID string
	UserID  string
	Coins   int64
}

// WebhookAck is the body returned for every acknowledged webhook delivery,
// including deduplicated and irrelevant-type ones.
type WebhookAck struct {
	Success bool `json:"success" example:"true"`
}

// LedgerEntry is one applied balance mutation.
// @Description One coin credit or debit on a profile
type LedgerEntry struct {
	ID        int64     `json:"id" example:"42"`
	ProfileID string    `json:"profile_id" example:"usr_8f14e45f"`
	Delta     int64     `json:"delta" example:"25" description:"Positive for credits, negative for debits"`
	Reason    string    `json:"reason" example:"coinbase charge"`
	EventID   *string   `json:"event_id,omitempty" example:"evt_1" description:"Provider event ID for webhook-driven credits"`
	CreatedAt time.Time `json:"created_at" example:"2024-03-15T14:30:00Z"`
}

// SpendRequest debits coins from the authenticated profile.
type SpendRequest struct {
	Coins  int64  `json:"coins" binding:"required"`
	Reason string `json:"reason" binding:"required"`
}

// SpendResponse reports the balance after a successful debit.
type SpendResponse struct {
	ProfileID string `json:"profile_id" example:"usr_8f14e45f"`
	Spent     int64  `json:"spent" example:"30"`
	Coins     int64  `json:"coins" example:"95" description:"Balance after the debit"`
}
