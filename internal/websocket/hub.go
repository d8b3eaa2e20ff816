package websocket

import (
	"encoding/json"
	"sync"

	"github.com/foodgram/foodgram-backend/internal/app/service"
	"github.com/foodgram/foodgram-backend/pkg/logger"
)

// FeedEvent is one message pushed to a connected subscriber
type FeedEvent struct {
	Type   string                `json:"type"`
	Recipe service.RecipeSummary `json:"recipe"`
}

// Hub fans new-recipe events out to the connected subscribers of the recipe's
// author. A user may hold several connections at once (multi device); every
// open connection gets the event.
type Hub struct {
	clients map[uint][]*Client

	register   chan *Client
	unregister chan *Client
	notify     chan *feedNotification

	mu sync.RWMutex
}

type feedNotification struct {
	subscriberIDs []uint
	payload       []byte
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uint][]*Client),
		register:   make(chan *Client, 256),
		unregister: make(chan *Client, 256),
		notify:     make(chan *feedNotification, 1024),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			h.mu.Unlock()
			logger.Info("Feed client registered", map[string]interface{}{
				"user_id":        client.UserID,
				"total_sessions": len(h.clients[client.UserID]),
			})

		case client := <-h.unregister:
			// A client can be unregistered twice: once by a buffer-full
			// drop and again by its read pump. Only the unregister that
			// actually removes the client may close its Send channel.
			h.mu.Lock()
			removed := false
			if clientList, ok := h.clients[client.UserID]; ok {
				newList := make([]*Client, 0, len(clientList))
				for _, c := range clientList {
					if c == client {
						removed = true
						continue
					}
					newList = append(newList, c)
				}

				if len(newList) == 0 {
					delete(h.clients, client.UserID)
				} else {
					h.clients[client.UserID] = newList
				}
			}
			h.mu.Unlock()

			if removed {
				close(client.Send)
				logger.Info("Feed client unregistered", map[string]interface{}{
					"user_id": client.UserID,
				})
			}

		case notification := <-h.notify:
			h.mu.RLock()
			for _, userID := range notification.subscriberIDs {
				clientList, ok := h.clients[userID]
				if !ok {
					continue
				}
				for _, client := range clientList {
					select {
					case client.Send <- notification.payload:
					default:
						// Send buffer full; drop the connection rather than block the hub
						go h.Unregister(client)
						logger.Warn("Feed client send buffer full, disconnecting", map[string]interface{}{
							"user_id": userID,
						})
					}
				}
			}
			h.mu.RUnlock()
		}
	}
}

// NotifyRecipeCreated pushes a new-recipe event to every listed subscriber.
// Offline subscribers are skipped and a full notify queue drops the event;
// the feed is best effort and never blocks recipe creation.
func (h *Hub) NotifyRecipeCreated(subscriberIDs []uint, recipe service.RecipeSummary) {
	if len(subscriberIDs) == 0 {
		return
	}

	payload, err := json.Marshal(FeedEvent{
		Type:   "recipe_created",
		Recipe: recipe,
	})
	if err != nil {
		logger.Error("Failed to marshal feed event", err, nil)
		return
	}

	select {
	case h.notify <- &feedNotification{subscriberIDs: subscriberIDs, payload: payload}:
	default:
		logger.Warn("Feed notify channel full, event dropped", map[string]interface{}{
			"recipe_id": recipe.ID,
		})
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

func (h *Hub) IsUserOnline(userID uint) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[userID]
	return ok
}
