package events

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/princekumarofficial/autohouse-service/internal/types"
)

type recordingHub struct {
	connected map[string]bool
	toUser    map[string][]*types.Event
	toAll     []*types.Event
}

func newRecordingHub(connected ...string) *recordingHub {
	h := &recordingHub{connected: map[string]bool{}, toUser: map[string][]*types.Event{}}
	for _, id := range connected {
		h.connected[id] = true
	}
	return h
}

func (h *recordingHub) BroadcastToUser(userID string, event *types.Event) {
	h.toUser[userID] = append(h.toUser[userID], event)
}

func (h *recordingHub) BroadcastAll(event *types.Event) {
	h.toAll = append(h.toAll, event)
}

func (h *recordingHub) IsUserConnected(userID string) bool {
	return h.connected[userID]
}

func TestPublishOfferCreated(t *testing.T) {
	hub := newRecordingHub("owner")
	p := NewEventPublisher(hub)
	offerID := uuid.New()

	p.PublishOfferCreated("owner", offerID, 2, time.Now())
	p.PublishOfferCreated("offline", uuid.New(), 1, time.Now())

	if len(hub.toUser["owner"]) != 1 {
		t.Fatalf("Expected 1 event for owner, got %d", len(hub.toUser["owner"]))
	}
	if len(hub.toUser["offline"]) != 0 {
		t.Fatal("Expected no event for disconnected user")
	}
	data, ok := hub.toUser["owner"][0].Data.(*types.OfferCreatedEvent)
	if !ok || data.OfferID != offerID.String() || data.Images != 2 {
		t.Fatalf("Unexpected event data %+v", hub.toUser["owner"][0].Data)
	}

	if len(hub.toAll) != 2 {
		t.Fatalf("Expected every offer on the public feed, got %d", len(hub.toAll))
	}
	if hub.toAll[0].Type != types.EventOfferListed {
		t.Fatalf("Unexpected feed event %s", hub.toAll[0].Type)
	}
	if listed := hub.toAll[0].Data.(*types.OfferListedEvent); listed.OfferID != offerID.String() {
		t.Fatalf("Unexpected feed data %+v", listed)
	}
}

func TestPublishCatalogImported(t *testing.T) {
	hub := newRecordingHub()
	NewEventPublisher(hub).PublishCatalogImported(4, 10, 1500*time.Millisecond)

	if len(hub.toAll) != 1 {
		t.Fatalf("Expected 1 broadcast, got %d", len(hub.toAll))
	}
	data := hub.toAll[0].Data.(*types.CatalogImportedEvent)
	if data.Makers != 4 || data.MakerCount != 10 || data.DurationMS != 1500 {
		t.Fatalf("Unexpected event data %+v", data)
	}
}
