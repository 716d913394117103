package models

import "time"

// Role identifies the author of a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Delivery tracks the two-phase lifecycle of an optimistically appended
// user message: it is shown immediately as Pending and later marked
// Confirmed or Failed once the backend answers. Assistant messages and
// histories fetched from the server are always Confirmed.
type Delivery string

const (
	DeliveryPending   Delivery = "pending"
	DeliveryConfirmed Delivery = "confirmed"
	DeliveryFailed    Delivery = "failed"
)

// Session is a conversation session. The identifier is server-assigned and
// never mutated by the client; list order is server-defined.
type Session struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Message is a single chat turn. Messages are append-only within a
// session's cache: never edited or reordered. ID is the server-assigned
// identifier (zero for messages not yet acknowledged); LocalID is a
// client-generated identifier used to track optimistic appends.
type Message struct {
	ID        int64     `json:"id,omitempty"`
	LocalID   string    `json:"-"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"created_at"`
	Delivery  Delivery  `json:"-"`
}
