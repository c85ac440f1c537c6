// Package notify fans committed match activity out to live consumers:
// websocket scoreboards and the AMQP exchange other services listen on.
package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/websocket"

	"github.com/litovel-minicup/matchlive/internal/domain"
	"github.com/litovel-minicup/matchlive/internal/logging"
	"github.com/litovel-minicup/matchlive/internal/metrics"
	"github.com/litovel-minicup/matchlive/internal/snapshot"
)

const clientSendBuffer = 32

// Message is the wire envelope pushed to websocket clients.
type Message struct {
	Type    string         `json:"type"`
	MatchID int64          `json:"match_id"`
	Match   map[string]any `json:"match,omitempty"`
	Event   map[string]any `json:"event,omitempty"`
}

// Client is a connected websocket consumer. A client subscribed to a match
// only receives messages for that match; an unfiltered client receives all.
type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	send    chan []byte
	matchID int64 // 0 means no filter
}

// Hub tracks connected clients and broadcasts messages to them. All client
// set mutation happens on the Run goroutine.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan *Message
	register   chan *Client
	unregister chan *Client

	upgrader   websocket.Upgrader
	logger     *slog.Logger
	metrics    *metrics.Recorder
	halfLength int
}

func NewHub(logger *slog.Logger, recorder *metrics.Recorder, halfLength int) *Hub {
	if halfLength <= 0 {
		halfLength = domain.DefaultHalfLength
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan *Message, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		logger:     logger,
		metrics:    recorder,
		halfLength: halfLength,
	}
}

// Run owns the client set until ctx is cancelled. On shutdown every client
// send channel is closed, which lets writePump close the connections.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			return

		case client := <-h.register:
			h.clients[client] = true
			logging.Info(h.logger, "websocket client connected",
				slog.Int("clients", len(h.clients)),
				slog.Int64(logging.FieldMatchID, client.matchID))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			logging.Info(h.logger, "websocket client disconnected",
				slog.Int("clients", len(h.clients)))

		case message := <-h.broadcast:
			payload, err := json.Marshal(message)
			if err != nil {
				logging.Error(h.logger, "marshaling broadcast", err)
				continue
			}
			for client := range h.clients {
				if client.matchID != 0 && client.matchID != message.MatchID {
					continue
				}
				select {
				case client.send <- payload:
				default:
					// Slow consumer, drop it rather than stall the hub.
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.metrics.RecordBroadcast()
		}
	}
}

// Broadcast queues a message for delivery to matching clients.
func (h *Hub) Broadcast(msg *Message) {
	select {
	case h.broadcast <- msg:
	default:
		logging.Warn(h.logger, "broadcast queue full, dropping message",
			slog.Int64(logging.FieldMatchID, msg.MatchID))
	}
}

// MatchEventCommitted pushes the committed event and the refreshed scoreboard
// to subscribed clients.
func (h *Hub) MatchEventCommitted(ctx context.Context, detail domain.MatchDetail, event domain.TimelineEvent) {
	h.Broadcast(&Message{
		Type:    "match_event",
		MatchID: detail.Match.ID,
		Match:   snapshot.Match(detail, h.halfLength, nil),
		Event:   snapshot.Event(event.Event, event.Player, detail.HomeTeam, detail.AwayTeam),
	})
}

// ServeWS upgrades an HTTP request to a websocket subscription. A match_id
// query parameter narrows the stream to a single match.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Error(h.logger, "websocket upgrade failed", err)
		return
	}

	var matchID int64
	if raw := r.URL.Query().Get("match_id"); raw != "" {
		matchID, _ = strconv.ParseInt(raw, 10, 64)
	}

	client := &Client{
		hub:     h,
		conn:    conn,
		send:    make(chan []byte, clientSendBuffer),
		matchID: matchID,
	}
	h.register <- client

	go client.writePump()
	go client.readPump()
}

// readPump drains the connection so close frames are processed. Clients are
// not expected to send anything else.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for {
		message, ok := <-c.send
		if !ok {
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
}
