package websocket

import (
	"encoding/json"
	"log/slog"

	"fleet-tracker/internal/event"
)

// Hub fans events from the bus out to connected websocket clients. Each
// client only sees events for its own organization.
type Hub struct {
	clients map[*Client]bool

	register   chan *Client
	unregister chan *Client

	bus event.Bus
}

func NewHub(bus event.Bus) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		bus:        bus,
	}
}

func (h *Hub) Run() {
	events, unsubscribe := h.bus.Subscribe()
	defer unsubscribe()

	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
		case e := <-events:
			message, err := json.Marshal(e)
			if err != nil {
				slog.Error("failed to marshal event", "error", err)
				continue
			}
			orgID := eventOrganization(e)
			for client := range h.clients {
				if orgID != "" && client.organizationID != orgID {
					continue
				}
				select {
				case client.send <- message:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
		}
	}
}

// eventOrganization extracts the tenant from an event payload. Events
// without an organization_id are broadcast to everyone.
func eventOrganization(e event.Event) string {
	payload, ok := e.Payload.(map[string]any)
	if !ok {
		return ""
	}
	orgID, _ := payload["organization_id"].(string)
	return orgID
}
