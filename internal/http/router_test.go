package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/litovel-minicup/matchlive/internal/app/matches"
	"github.com/litovel-minicup/matchlive/internal/domain"
	"github.com/litovel-minicup/matchlive/internal/http/handlers"
	"github.com/litovel-minicup/matchlive/internal/store"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	s := store.NewMemoryStore()
	s.PutCategory(domain.Category{ID: 1, Name: "U13"})
	s.PutTeamInfo(domain.TeamInfo{ID: 10, CategoryID: 1, Name: "Lions", DressColor: "red"})
	s.PutTeamInfo(domain.TeamInfo{ID: 20, CategoryID: 1, Name: "Wolves", DressColor: "blue"})
	s.PutMatch(domain.Match{ID: 100, CategoryID: 1, HomeTeamID: 10, AwayTeamID: 20})
	svc := matches.NewService(s, nil, nil, 600)
	return NewRouter(handlers.NewHandler(svc, nil), nil)
}

func TestRouterRoutes(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		method string
		path   string
		body   string
		want   int
	}{
		{http.MethodGet, "/api/health", "", http.StatusOK},
		{http.MethodGet, "/api/ready", "", http.StatusOK},
		{http.MethodGet, "/api/matches", "", http.StatusOK},
		{http.MethodGet, "/api/matches/100", "", http.StatusOK},
		{http.MethodGet, "/api/matches/100/timeline", "", http.StatusOK},
		{http.MethodPost, "/api/matches/100/state", `{"state":"half_first"}`, http.StatusOK},
		{http.MethodPost, "/api/matches/100/events", `{"type":"goal","half_index":0,"time_offset":10}`, http.StatusCreated},
		{http.MethodGet, "/api/matches/999", "", http.StatusNotFound},
		{http.MethodPost, "/api/matches/100", "", http.StatusMethodNotAllowed},
		{http.MethodGet, "/api/matches/100/state", "", http.StatusMethodNotAllowed},
		{http.MethodGet, "/api/nope", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		if rr.Code != tt.want {
			t.Fatalf("%s %s: expected %d, got %d (%s)", tt.method, tt.path, tt.want, rr.Code, rr.Body.String())
		}
	}
}

func TestRouterOmitsWebsocketWhenAbsent(t *testing.T) {
	router := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 without websocket handler, got %d", rr.Code)
	}
}
