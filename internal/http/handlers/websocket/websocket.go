package websocket

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/princekumarofficial/autohouse-service/internal/types"
	"github.com/princekumarofficial/autohouse-service/internal/utils/jwt"
	"github.com/princekumarofficial/autohouse-service/internal/utils/response"
	wsClient "github.com/princekumarofficial/autohouse-service/internal/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// bearerToken reads the token from the Authorization header, or from the
// token query parameter for browsers that cannot set headers on the upgrade.
func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return r.URL.Query().Get("token")
}

// Topics parses the comma separated events query parameter. Without it a
// connection follows catalog imports only.
func Topics(r *http.Request) ([]types.EventType, error) {
	raw := r.URL.Query().Get("events")
	if raw == "" {
		return []types.EventType{types.EventCatalogImported}, nil
	}
	var topics []types.EventType
	for _, part := range strings.Split(raw, ",") {
		t := types.EventType(strings.TrimSpace(part))
		if !types.IsPublicEvent(t) {
			return nil, fmt.Errorf("unknown event %q", t)
		}
		topics = append(topics, t)
	}
	return topics, nil
}

// WebSocketHandler upgrades authenticated clients to a notification stream.
// Clients may later send {"action":"subscribe","events":[...]} to change
// topics.
// @Summary Real-time notifications
// @Tags websocket
// @Param token query string false "JWT token when the Authorization header cannot be set"
// @Param events query string false "Comma separated topics: catalog.imported, offer.listed"
// @Success 101 "Switching Protocols"
// @Failure 400 {object} response.Response "Unknown topic"
// @Failure 401 {object} response.Response "Unauthorized"
// @Router /ws [get]
func WebSocketHandler(hub *wsClient.Hub, jwtSecret string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			response.WriteJSON(w, http.StatusUnauthorized, response.GeneralError(errors.New("token required")))
			return
		}

		userID, err := jwt.ExtractUserIDFromToken(token, jwtSecret)
		if err != nil {
			slog.Warn("WebSocket connection attempted with invalid token", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusUnauthorized, response.GeneralError(errors.New("invalid token")))
			return
		}

		topics, err := Topics(r)
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			slog.Error("Failed to upgrade WebSocket connection", slog.String("error", err.Error()))
			return
		}

		client := wsClient.NewClient(conn, userID, hub, topics...)
		hub.RegisterClient(client)
		client.Start()
	}
}
