package wsocket

import (
	"encoding/json"
	"net/http"
	"sync"

	"amora_go_backend/internal/broker"
	"amora_go_backend/internal/services"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Handler serves the websocket chat transport. Each connection belongs to
// one authenticated user; replies, typing indicators and entitlement
// changes are pushed over the same socket.
type Handler struct {
	sessionService *services.SessionService
	messageBroker  *broker.Broker
	upgrader       websocket.Upgrader
	log            zerolog.Logger
}

type Message struct {
	Type    string `json:"type"`
	Content string `json:"content,omitempty"`
	URL     string `json:"url,omitempty"`
}

func NewHandler(sessionService *services.SessionService, messageBroker *broker.Broker, upgrader websocket.Upgrader, log zerolog.Logger) *Handler {
	return &Handler{
		sessionService: sessionService,
		messageBroker:  messageBroker,
		upgrader:       upgrader,
		log:            log,
	}
}

func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request, userID string) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to upgrade websocket connection")
		return
	}
	defer conn.Close()

	// Correlates log lines when a user reconnects or holds multiple tabs.
	log := h.log.With().Str("connID", uuid.NewString()).Str("userID", userID).Logger()
	log.Info().Msg("Websocket connected")
	defer log.Info().Msg("Websocket disconnected")

	// The tier-update goroutine and the read loop both write to the socket.
	var writeMu sync.Mutex
	writeJSON := func(msg Message) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		return conn.WriteJSON(msg)
	}

	ctx := r.Context()
	tierUpdates := h.messageBroker.Subscribe("tier_update_" + userID)
	defer h.messageBroker.Unsubscribe("tier_update_"+userID, tierUpdates)

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case update, ok := <-tierUpdates:
				if !ok {
					return
				}
				tier, _ := update.(string)
				if err := writeJSON(Message{Type: "tier_update", Content: tier}); err != nil {
					log.Error().Err(err).Msg("Failed to push tier update")
					return
				}
			}
		}
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			break
		}

		var msg Message
		if err := json.Unmarshal(raw, &msg); err != nil {
			log.Warn().Err(err).Msg("Ignoring malformed websocket message")
			continue
		}

		switch msg.Type {
		case "message":
			if err := writeJSON(Message{Type: "typing"}); err != nil {
				return
			}
			reply, err := h.sessionService.HandleTurn(ctx, userID, msg.Content)
			if err != nil {
				log.Error().Err(err).Msg("Chat turn failed")
				reply = "Something went wrong... 🙈 Try again?"
			}
			if err := writeJSON(Message{Type: "message", Content: reply}); err != nil {
				return
			}
		case "image":
			if err := writeJSON(Message{Type: "typing"}); err != nil {
				return
			}
			url, caption, err := h.sessionService.HandleImageRequest(ctx, userID, msg.Content)
			if err != nil || url == "" {
				if err := writeJSON(Message{
					Type:    "message",
					Content: "🔒 Want pics? Unlock moderate or explicit!",
				}); err != nil {
					return
				}
				continue
			}
			if err := writeJSON(Message{Type: "image", Content: caption, URL: url}); err != nil {
				return
			}
		default:
			log.Warn().Str("type", msg.Type).Msg("Unhandled websocket message type")
		}
	}
}
