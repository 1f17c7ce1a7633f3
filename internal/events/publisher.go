package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/princekumarofficial/autohouse-service/internal/types"
)

// Publisher interface for publishing events
type Publisher interface {
	PublishCatalogImported(requested, makerCount int, took time.Duration)
	PublishOfferCreated(accountID string, offerID uuid.UUID, images int, createdAt time.Time)
}

// WebSocketHub interface for the WebSocket hub
type WebSocketHub interface {
	BroadcastToUser(userID string, event *types.Event)
	BroadcastAll(event *types.Event)
	IsUserConnected(userID string) bool
}

// EventPublisher implements the Publisher interface
type EventPublisher struct {
	hub WebSocketHub
}

func NewEventPublisher(hub WebSocketHub) *EventPublisher {
	return &EventPublisher{
		hub: hub,
	}
}

// PublishCatalogImported tells subscribers that the catalog changed.
func (p *EventPublisher) PublishCatalogImported(requested, makerCount int, took time.Duration) {
	event := types.NewEvent(types.EventCatalogImported, &types.CatalogImportedEvent{
		Makers:     requested,
		MakerCount: makerCount,
		DurationMS: took.Milliseconds(),
	})
	p.hub.BroadcastAll(event)
}

// PublishOfferCreated confirms the offer to its owner when connected and
// announces it on the public offer feed.
func (p *EventPublisher) PublishOfferCreated(accountID string, offerID uuid.UUID, images int, createdAt time.Time) {
	stamp := createdAt.UTC().Format(time.RFC3339)

	if p.hub.IsUserConnected(accountID) {
		p.hub.BroadcastToUser(accountID, types.NewEvent(types.EventOfferCreated, &types.OfferCreatedEvent{
			OfferID:   offerID.String(),
			Images:    images,
			CreatedAt: stamp,
		}))
	}

	p.hub.BroadcastAll(types.NewEvent(types.EventOfferListed, &types.OfferListedEvent{
		OfferID:   offerID.String(),
		CreatedAt: stamp,
	}))
}

// Nop discards every event. Commands without a hub use it.
type Nop struct{}

func (Nop) PublishCatalogImported(int, int, time.Duration)        {}
func (Nop) PublishOfferCreated(string, uuid.UUID, int, time.Time) {}
