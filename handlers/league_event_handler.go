package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Dosada05/league-system/services"
)

type LeagueEventHandler struct {
	service  services.LeagueEventService
	exporter services.StandingsExporter
	logger   *slog.Logger
}

func NewLeagueEventHandler(service services.LeagueEventService, exporter services.StandingsExporter, logger *slog.Logger) *LeagueEventHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &LeagueEventHandler{
		service:  service,
		exporter: exporter,
		logger:   logger,
	}
}

// CreateEvent обрабатывает POST /api/league-events
func (h *LeagueEventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var input services.CreateEventInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	event, err := h.service.CreateEvent(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "league event created",
		slog.Int("event_id", event.ID), slog.Int("league_instance_id", event.LeagueInstanceID))

	headers := make(http.Header)
	headers.Set("Location", fmt.Sprintf("/api/league-events/%d", event.ID))
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"success": true, "leagueEvent": event}, headers); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetEvent обрабатывает GET /api/league-events/{eventID}
func (h *LeagueEventHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	view, err := h.service.GetEvent(r.Context(), eventID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"leagueEvent": view.Event, "groups": view.Groups}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UpdateMatch обрабатывает PUT /api/league-events/matches/{matchID}.
// matchId в теле необязателен, но если передан, должен совпадать с URL.
func (h *LeagueEventHandler) UpdateMatch(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.UpdateMatchInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.MatchID != 0 && input.MatchID != matchID {
		badRequestResponse(w, r, fmt.Errorf("matchId in body (%d) does not match URL (%d)", input.MatchID, matchID))
		return
	}
	input.MatchID = matchID

	match, err := h.service.UpdateMatch(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"success": true, "match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// AutoSave обрабатывает POST /api/league-events/auto-save
func (h *LeagueEventHandler) AutoSave(w http.ResponseWriter, r *http.Request) {
	var input services.AutoSaveInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.service.AutoSaveResults(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{
		"success":         true,
		"league_event_id": result.LeagueEventID,
		"updated":         result.Updated,
		"skipped":         result.Skipped,
		"groups":          result.RecomputedGroups,
	}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RecomputeEvent обрабатывает POST /api/league-events/{eventID}/recompute
func (h *LeagueEventHandler) RecomputeEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	updates, err := h.service.RecomputeEvent(r.Context(), eventID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"success": true, "groups": updates}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ExportStandings обрабатывает POST /api/league-events/{eventID}/export
func (h *LeagueEventHandler) ExportStandings(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if h.exporter == nil {
		mapServiceErrorToHTTP(w, r, services.ErrExportDisabled)
		return
	}

	result, err := h.exporter.ExportEventStandings(r.Context(), eventID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "standings exported",
		slog.Int("event_id", eventID), slog.String("key", result.Key))

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"export": result}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
