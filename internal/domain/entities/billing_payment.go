package entities

import (
	"encoding/json"
	"time"
)

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusApproved PaymentStatus = "approved"
	PaymentStatusRejected PaymentStatus = "rejected"
)

// PaymentStatusFromProvider maps a gateway status onto ours.
func PaymentStatusFromProvider(status string) PaymentStatus {
	switch status {
	case "approved":
		return PaymentStatusApproved
	case "rejected", "cancelled", "refunded":
		return PaymentStatusRejected
	default:
		return PaymentStatusPending
	}
}

// EstimatePayment is a card payment charged against an estimate's final amount.
//
// Storage model (DynamoDB):
//   - PK: id
//   - GSI (estimate_id-index): estimate_id
//
// ProviderPayloadRaw keeps the gateway response for reconciliation.
type EstimatePayment struct {
	ID         string        `json:"id"`
	EstimateID string        `json:"estimate_id"`
	Amount     int64         `json:"amount"`
	Date       time.Time     `json:"date"`
	Status     PaymentStatus `json:"status"`
	CreatedBy  string        `json:"created_by"`

	ProviderPayloadRaw json.RawMessage        `json:"provider_payload_raw,omitempty"`
	ProviderPayload    map[string]interface{} `json:"provider_payload,omitempty"`
}
