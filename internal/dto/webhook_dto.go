package dto

import "encoding/json"

// WebhookEnvelope is the processor's notification body:
// { id, type, data: { object: { ... } } }
type WebhookEnvelope struct {
	Id   string      `json:"id" validate:"required"`
	Type string      `json:"type" validate:"required"`
	Data WebhookData `json:"data"`
}

type WebhookData struct {
	Object WebhookObject `json:"object"`
}

// WebhookObject carries the payment object. Metadata values are opaque
// strings holding serialized JSON.
type WebhookObject struct {
	Id       string            `json:"id"`
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Customer string            `json:"customer"`
	Metadata map[string]string `json:"metadata"`
}

// CartItem is one purchased line item inside metadata["cart"].
type CartItem struct {
	TierId   string  `json:"tierId"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

type CustomerInfo struct {
	Name  string `json:"name"`
	Email string `json:"email" validate:"required,email"`
}

type BusinessInfo struct {
	BusinessName string `json:"businessName"`
}

type ContactInfo struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// PurchaseMetadata is the fully decoded, normalized purchase payload.
// Cart and CustomerInfo are required; the rest default to empty values.
type PurchaseMetadata struct {
	Cart         []CartItem
	CustomerInfo CustomerInfo
	BusinessInfo BusinessInfo
	ContactInfo  ContactInfo
	IsNewUser    bool
	UserIdHint   string
}

// WebhookAck is the response body returned to the processor.
type WebhookAck struct {
	Received bool   `json:"received"`
	Flagged  bool   `json:"flagged,omitempty"`
	Message  string `json:"message,omitempty"`
}

// EventStatusResponse is the ops lookup projection of a ledger entry.
type EventStatusResponse struct {
	EventId     string  `json:"event_id"`
	EventType   string  `json:"event_type"`
	Status      string  `json:"status"`
	ReceivedAt  string  `json:"received_at"`
	ProcessedAt *string `json:"processed_at,omitempty"`
}

// RawJSON decodes a metadata value that is itself serialized JSON.
func RawJSON(value string, out interface{}) error {
	return json.Unmarshal([]byte(value), out)
}
