package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"

	"github.com/litovel-minicup/matchlive/internal/app/matches"
	"github.com/litovel-minicup/matchlive/internal/domain"
	"github.com/litovel-minicup/matchlive/internal/store"
)

func newTestHandler(t *testing.T) (*Handler, *store.MemoryStore) {
	t.Helper()
	s := store.NewMemoryStore()
	s.PutCategory(domain.Category{ID: 1, Name: "U13"})
	s.PutTeamInfo(domain.TeamInfo{ID: 10, CategoryID: 1, Name: "Lions", DressColor: "red"})
	s.PutTeamInfo(domain.TeamInfo{ID: 20, CategoryID: 1, Name: "Wolves", DressColor: "blue"})
	s.PutPlayer(domain.Player{ID: 5, TeamID: 10, Name: "Jan", Surname: "Novak", Number: 7})
	s.PutMatch(domain.Match{ID: 100, CategoryID: 1, HomeTeamID: 10, AwayTeamID: 20})
	svc := matches.NewService(s, nil, nil, 600)
	return NewHandler(svc, nil), s
}

func serve(h http.HandlerFunc, method, target string, body []byte, vars map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	if vars != nil {
		req = mux.SetURLVars(req, vars)
	}
	rr := httptest.NewRecorder()
	h(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return body
}

func TestHealth(t *testing.T) {
	h, _ := newTestHandler(t)
	rr := serve(h.Health, http.MethodGet, "/api/health", nil, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if got := decodeBody(t, rr)["status"]; got != "ok" {
		t.Fatalf("expected ok, got %v", got)
	}
}

func TestReady(t *testing.T) {
	h, _ := newTestHandler(t)
	rr := serve(h.Ready, http.MethodGet, "/api/ready", nil, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestMatchesList(t *testing.T) {
	h, _ := newTestHandler(t)
	rr := serve(h.Matches, http.MethodGet, "/api/matches", nil, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	body := decodeBody(t, rr)
	list, ok := body["matches"].([]any)
	if !ok || len(list) != 1 {
		t.Fatalf("expected 1 match, got %v", body["matches"])
	}
}

func TestMatchByID(t *testing.T) {
	h, _ := newTestHandler(t)
	rr := serve(h.MatchByID, http.MethodGet, "/api/matches/100", nil, map[string]string{"id": "100"})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	body := decodeBody(t, rr)
	if body["state"] != "init" {
		t.Fatalf("expected init, got %v", body["state"])
	}
	if body["home_team_name"] != "Lions" {
		t.Fatalf("expected Lions, got %v", body["home_team_name"])
	}
	if _, ok := body["events"]; !ok {
		t.Fatalf("expected embedded events")
	}
}

func TestMatchByIDNotFound(t *testing.T) {
	h, _ := newTestHandler(t)
	rr := serve(h.MatchByID, http.MethodGet, "/api/matches/999", nil, map[string]string{"id": "999"})
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestMatchByIDInvalid(t *testing.T) {
	h, _ := newTestHandler(t)
	rr := serve(h.MatchByID, http.MethodGet, "/api/matches/abc", nil, map[string]string{"id": "abc"})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestChangeStateAccepted(t *testing.T) {
	h, _ := newTestHandler(t)
	body := []byte(`{"state":"half_first"}`)
	rr := serve(h.ChangeState, http.MethodPost, "/api/matches/100/state", body, map[string]string{"id": "100"})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	resp := decodeBody(t, rr)
	if resp["state"] != "half_first" {
		t.Fatalf("expected half_first, got %v", resp["state"])
	}
	event, ok := resp["event"].(map[string]any)
	if !ok || event["type"] != "start" {
		t.Fatalf("expected start event, got %v", resp["event"])
	}
}

func TestChangeStateUnknownTarget(t *testing.T) {
	h, _ := newTestHandler(t)
	body := []byte(`{"state":"overtime"}`)
	rr := serve(h.ChangeState, http.MethodPost, "/api/matches/100/state", body, map[string]string{"id": "100"})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestChangeStateIllegalTransition(t *testing.T) {
	h, _ := newTestHandler(t)
	body := []byte(`{"state":"end"}`)
	rr := serve(h.ChangeState, http.MethodPost, "/api/matches/100/state", body, map[string]string{"id": "100"})
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rr.Code)
	}
}

func TestChangeStateBadBody(t *testing.T) {
	h, _ := newTestHandler(t)
	rr := serve(h.ChangeState, http.MethodPost, "/api/matches/100/state", []byte(`{`), map[string]string{"id": "100"})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}

	rr = serve(h.ChangeState, http.MethodPost, "/api/matches/100/state", []byte(`{}`), map[string]string{"id": "100"})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 on missing state, got %d", rr.Code)
	}
}

func TestAddEventCreated(t *testing.T) {
	h, _ := newTestHandler(t)
	body := []byte(`{"type":"goal","half_index":0,"time_offset":120,"score_home":1,"score_away":0,"player_id":5,"team_id":10}`)
	rr := serve(h.AddEvent, http.MethodPost, "/api/matches/100/events", body, map[string]string{"id": "100"})
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	resp := decodeBody(t, rr)
	event, ok := resp["event"].(map[string]any)
	if !ok {
		t.Fatalf("expected event payload, got %v", resp)
	}
	if event["player_name"] != "Jan Novak" {
		t.Fatalf("expected hydrated player name, got %v", event["player_name"])
	}
	if event["team_index"] != float64(0) {
		t.Fatalf("expected team_index 0, got %v", event["team_index"])
	}
}

func TestAddEventRejectsReservedTypes(t *testing.T) {
	h, _ := newTestHandler(t)
	body := []byte(`{"type":"start","half_index":0,"time_offset":0}`)
	rr := serve(h.AddEvent, http.MethodPost, "/api/matches/100/events", body, map[string]string{"id": "100"})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestTimeline(t *testing.T) {
	h, s := newTestHandler(t)
	msg := "kickoff soon"
	s.InsertEvent(context.Background(), &domain.MatchEvent{MatchID: 100, Type: domain.EventInfo, Message: &msg})

	rr := serve(h.Timeline, http.MethodGet, "/api/matches/100/timeline", nil, map[string]string{"id": "100"})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	body := decodeBody(t, rr)
	events, ok := body["events"].([]any)
	if !ok || len(events) != 1 {
		t.Fatalf("expected 1 event, got %v", body["events"])
	}
}

func TestErrorResponseCarriesRequestID(t *testing.T) {
	h, _ := newTestHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/api/matches/999", nil)
	req.Header.Set("X-Request-ID", "req-42")
	req = mux.SetURLVars(req, map[string]string{"id": "999"})
	rr := httptest.NewRecorder()
	h.MatchByID(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
	if got := decodeBody(t, rr)["requestId"]; got != "req-42" {
		t.Fatalf("expected request id echoed, got %v", got)
	}
}
