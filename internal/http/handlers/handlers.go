package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/litovel-minicup/matchlive/internal/app/matches"
	"github.com/litovel-minicup/matchlive/internal/domain"
)

// Handler wires HTTP routes to the match service.
type Handler struct {
	svc    *matches.Service
	logger *slog.Logger
}

func NewHandler(svc *matches.Service, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// Health reports the service health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := r.Context().Err(); err != nil {
		writeError(w, r, http.StatusServiceUnavailable, "shutting down", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

// Ready reports readiness for traffic, including store reachability.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Ready(r.Context()); err != nil {
		writeError(w, r, http.StatusServiceUnavailable, "store unreachable", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"}, h.logger)
}

// Matches returns scoreboard payloads for every match.
func (h *Handler) Matches(w http.ResponseWriter, r *http.Request) {
	snaps, err := h.svc.ListSnapshots(r.Context())
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"matches": snaps}, h.logger)
}

// MatchByID returns one match scoreboard with its timeline embedded.
func (h *Handler) MatchByID(w http.ResponseWriter, r *http.Request) {
	id, ok := h.matchID(w, r)
	if !ok {
		return
	}

	snap, err := h.svc.Snapshot(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap, h.logger)
}

// Timeline returns the ordered event list for one match.
func (h *Handler) Timeline(w http.ResponseWriter, r *http.Request) {
	id, ok := h.matchID(w, r)
	if !ok {
		return
	}

	snap, err := h.svc.Snapshot(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"match_id": id, "events": snap["events"]}, h.logger)
}

type changeStateRequest struct {
	State string `json:"state"`
}

// ChangeState advances the match state machine by one step.
func (h *Handler) ChangeState(w http.ResponseWriter, r *http.Request) {
	id, ok := h.matchID(w, r)
	if !ok {
		return
	}

	var req changeStateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}
	if req.State == "" {
		writeError(w, r, http.StatusBadRequest, "missing state", h.logger)
		return
	}

	ev, err := h.svc.ChangeState(r.Context(), id, domain.MatchState(req.State))
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	payload, err := h.svc.EventSnapshot(r.Context(), *ev)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"state": req.State, "event": payload}, h.logger)
}

type addEventRequest struct {
	Type       string  `json:"type"`
	HalfIndex  int     `json:"half_index"`
	TimeOffset int     `json:"time_offset"`
	Message    *string `json:"message"`
	ScoreHome  *int    `json:"score_home"`
	ScoreAway  *int    `json:"score_away"`
	PlayerID   *int64  `json:"player_id"`
	TeamID     *int64  `json:"team_id"`
}

// AddEvent records a reported goal or info entry on the match timeline.
func (h *Handler) AddEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := h.matchID(w, r)
	if !ok {
		return
	}

	var req addEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	ev, err := h.svc.AddEvent(r.Context(), id, matches.AddEventParams{
		Type:       domain.EventType(req.Type),
		HalfIndex:  req.HalfIndex,
		TimeOffset: req.TimeOffset,
		Message:    req.Message,
		ScoreHome:  req.ScoreHome,
		ScoreAway:  req.ScoreAway,
		PlayerID:   req.PlayerID,
		TeamID:     req.TeamID,
	})
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	payload, err := h.svc.EventSnapshot(r.Context(), *ev)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"event": payload}, h.logger)
}

func (h *Handler) matchID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, r, http.StatusBadRequest, "invalid match id", h.logger)
		return 0, false
	}
	return id, true
}

// writeDomainError maps service errors onto HTTP statuses. State machine
// corruption surfaces as 500 so operators notice; rejected requests stay in
// the 4xx range.
func (h *Handler) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	logger := loggerFromContext(r, h.logger)

	var inconsistency *domain.InconsistencyError
	switch {
	case errors.Is(err, domain.ErrMatchNotFound):
		writeError(w, r, http.StatusNotFound, "match not found", h.logger)
	case errors.Is(err, domain.ErrUnknownState):
		writeError(w, r, http.StatusBadRequest, "unknown target state", h.logger)
	case errors.Is(err, domain.ErrInvalidEvent):
		writeError(w, r, http.StatusBadRequest, "invalid event", h.logger)
	case errors.Is(err, domain.ErrIllegalTransition):
		writeError(w, r, http.StatusConflict, "illegal transition", h.logger)
	case errors.As(err, &inconsistency):
		if logger != nil {
			logger.Error("match state inconsistency", "err", err)
		}
		writeError(w, r, http.StatusInternalServerError, "inconsistent match state", h.logger)
	default:
		if logger != nil {
			logger.Error("request failed", "err", err)
		}
		writeError(w, r, http.StatusInternalServerError, "internal error", h.logger)
	}
}
