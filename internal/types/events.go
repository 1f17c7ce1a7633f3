package types

import "time"

type EventType string

const (
	EventCatalogImported EventType = "catalog.imported"
	EventOfferCreated    EventType = "offer.created"
	EventOfferListed     EventType = "offer.listed"
)

// PublicEvents are the broadcast topics a connection may subscribe to.
// offer.created is only ever sent to the offer owner.
var PublicEvents = []EventType{EventCatalogImported, EventOfferListed}

func IsPublicEvent(t EventType) bool {
	for _, p := range PublicEvents {
		if p == t {
			return true
		}
	}
	return false
}

// Event is one frame written to a notification connection.
type Event struct {
	Type      EventType `json:"type"`
	Data      any       `json:"data"`
	Timestamp string    `json:"timestamp"`
}

type CatalogImportedEvent struct {
	Makers     int   `json:"makers_requested"`
	MakerCount int   `json:"maker_count"`
	DurationMS int64 `json:"duration_ms"`
}

// OfferCreatedEvent confirms to the owner that the offer and its images are
// stored.
type OfferCreatedEvent struct {
	OfferID   string `json:"offer_id"`
	Images    int    `json:"images"`
	CreatedAt string `json:"created_at"`
}

// OfferListedEvent announces a new offer on the public feed.
type OfferListedEvent struct {
	OfferID   string `json:"offer_id"`
	CreatedAt string `json:"created_at"`
}

// SubscriptionMessage is what clients send to change their topics.
type SubscriptionMessage struct {
	Action string      `json:"action"`
	Events []EventType `json:"events"`
}

const (
	ActionSubscribe   = "subscribe"
	ActionUnsubscribe = "unsubscribe"
)

func NewEvent(eventType EventType, data any) *Event {
	return &Event{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}
