package websocket

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/princekumarofficial/autohouse-service/internal/types"
	"github.com/princekumarofficial/autohouse-service/internal/types/users"
	"github.com/princekumarofficial/autohouse-service/internal/utils/jwt"
	wsClient "github.com/princekumarofficial/autohouse-service/internal/websocket"
)

const secret = "ws-secret"

func TestTopics(t *testing.T) {
	tests := []struct {
		query   string
		want    []types.EventType
		wantErr bool
	}{
		{"", []types.EventType{types.EventCatalogImported}, false},
		{"events=offer.listed", []types.EventType{types.EventOfferListed}, false},
		{"events=offer.listed,%20catalog.imported", []types.EventType{types.EventOfferListed, types.EventCatalogImported}, false},
		{"events=offer.created", nil, true},
		{"events=bogus", nil, true},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/ws?"+tt.query, nil)
		got, err := Topics(r)
		if (err != nil) != tt.wantErr {
			t.Errorf("%q: unexpected error %v", tt.query, err)
			continue
		}
		if len(got) != len(tt.want) {
			t.Errorf("%q: expected %v, got %v", tt.query, tt.want, got)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("%q: expected %v, got %v", tt.query, tt.want, got)
			}
		}
	}
}

func TestWebSocketHandler_Rejects(t *testing.T) {
	handler := WebSocketHandler(wsClient.NewHub(), secret)
	tok, _ := jwt.CreateToken("u1", []users.Role{users.RoleUser}, secret, time.Hour)

	tests := []struct {
		name string
		url  string
		want int
	}{
		{"missing token", "/ws", http.StatusUnauthorized},
		{"bad token", "/ws?token=nope", http.StatusUnauthorized},
		{"unknown topic", "/ws?token=" + tok + "&events=bogus", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			handler(rr, httptest.NewRequest(http.MethodGet, tt.url, nil))
			if rr.Code != tt.want {
				t.Errorf("Expected status %d, got %d", tt.want, rr.Code)
			}
		})
	}
}

func TestWebSocketHandler_DeliversSubscribedEvents(t *testing.T) {
	hub := wsClient.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	server := httptest.NewServer(WebSocketHandler(hub, secret))
	defer server.Close()

	tok, err := jwt.CreateToken("u1", []users.Role{users.RoleUser}, secret, time.Hour)
	if err != nil {
		t.Fatalf("CreateToken failed: %v", err)
	}
	header := http.Header{"Authorization": []string{"Bearer " + tok}}
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "?events=offer.listed"
	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(time.Second)
	for !hub.IsUserConnected("u1") {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	hub.BroadcastAll(types.NewEvent(types.EventCatalogImported, types.CatalogImportedEvent{}))
	hub.BroadcastAll(types.NewEvent(types.EventOfferListed, types.OfferListedEvent{OfferID: "o-1"}))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ev types.Event
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("ReadJSON failed: %v", err)
	}
	if ev.Type != types.EventOfferListed {
		t.Fatalf("Expected only the subscribed topic, got %s", ev.Type)
	}
}
