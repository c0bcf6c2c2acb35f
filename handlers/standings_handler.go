package handlers

import (
	"net/http"

	"github.com/frbcapl/league-system/services"
	"github.com/go-chi/chi/v5"
)

type StandingsHandler struct {
	standingsService services.StandingsService
}

func NewStandingsHandler(ss services.StandingsService) *StandingsHandler {
	return &StandingsHandler{standingsService: ss}
}

func (h *StandingsHandler) ListStandings(w http.ResponseWriter, r *http.Request) {
	division := chi.URLParam(r, "division")

	standings, err := h.standingsService.ListStandings(r.Context(), division)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, standings, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *StandingsHandler) SyncFromSheet(w http.ResponseWriter, r *http.Request) {
	division := chi.URLParam(r, "division")

	imported, err := h.standingsService.SyncFromSheet(r.Context(), division)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"imported": imported}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *StandingsHandler) SnapshotToSheet(w http.ResponseWriter, r *http.Request) {
	division := chi.URLParam(r, "division")

	key, err := h.standingsService.SnapshotToSheet(r.Context(), division)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"key": key}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
