package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/litovel-minicup/matchlive/internal/domain"
)

func testDetail(id int64) domain.MatchDetail {
	return domain.MatchDetail{
		Match:    domain.Match{ID: id, HomeTeamID: 10, AwayTeamID: 20, OnlineState: domain.StateHalfFirst},
		HomeTeam: domain.TeamInfo{ID: 10, Name: "Lions", DressColor: "red"},
		AwayTeam: domain.TeamInfo{ID: 20, Name: "Wolves", DressColor: "blue"},
		Category: domain.Category{ID: 1, Name: "U13"},
	}
}

func dialHub(t *testing.T, hub *Hub, query string) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dialing hub: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	// Registration happens after the handshake returns; give the hub a
	// moment to pick the client up before tests start broadcasting.
	time.Sleep(50 * time.Millisecond)
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("reading message: %v", err)
	}
	var msg Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		t.Fatalf("decoding message: %v", err)
	}
	return msg
}

func TestHubBroadcastsCommittedEvents(t *testing.T) {
	hub := NewHub(nil, nil, 600)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	conn := dialHub(t, hub, "")

	ev := domain.TimelineEvent{Event: domain.MatchEvent{
		ID: 1, MatchID: 42, Type: domain.EventStart, HalfIndex: 0, TimeOffset: 0,
	}}
	hub.MatchEventCommitted(ctx, testDetail(42), ev)

	msg := readMessage(t, conn)
	if msg.Type != "match_event" {
		t.Fatalf("expected match_event, got %s", msg.Type)
	}
	if msg.MatchID != 42 {
		t.Fatalf("expected match 42, got %d", msg.MatchID)
	}
	if msg.Event["type"] != "start" {
		t.Fatalf("expected start event, got %v", msg.Event["type"])
	}
	if msg.Match["state"] != "half_first" {
		t.Fatalf("expected half_first, got %v", msg.Match["state"])
	}
}

func TestHubFiltersByMatchID(t *testing.T) {
	hub := NewHub(nil, nil, 600)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	conn := dialHub(t, hub, "?match_id=7")

	ev := domain.TimelineEvent{Event: domain.MatchEvent{ID: 1, MatchID: 42, Type: domain.EventGoal}}
	hub.MatchEventCommitted(ctx, testDetail(42), ev)

	ev7 := domain.TimelineEvent{Event: domain.MatchEvent{ID: 2, MatchID: 7, Type: domain.EventGoal}}
	hub.MatchEventCommitted(ctx, testDetail(7), ev7)

	// Only the subscribed match comes through.
	msg := readMessage(t, conn)
	if msg.MatchID != 7 {
		t.Fatalf("expected filtered stream to deliver match 7, got %d", msg.MatchID)
	}
}

func TestHubShutdownClosesClients(t *testing.T) {
	hub := NewHub(nil, nil, 600)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	conn := dialHub(t, hub, "")

	cancel()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Fatalf("expected connection to close on shutdown")
	}
}
