package handlers

import (
	"net/http"

	"github.com/frbcapl/league-system/services"
	"github.com/go-chi/chi/v5"
)

type MatchHandler struct {
	matchService services.MatchService
}

func NewMatchHandler(ms services.MatchService) *MatchHandler {
	return &MatchHandler{matchService: ms}
}

type createMatchFromProposalInput struct {
	ProposalID int `json:"proposalId"`
}

func (h *MatchHandler) CreateMatchFromProposal(w http.ResponseWriter, r *http.Request) {
	var input createMatchFromProposalInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.CreateMatchFromProposal(r.Context(), input.ProposalID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, match, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) CompleteMatch(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.CompleteMatchInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.CompleteMatch(r.Context(), id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, match, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) ListMatchesByStatus(w http.ResponseWriter, r *http.Request) {
	division := chi.URLParam(r, "division")
	status := chi.URLParam(r, "status")

	matches, err := h.matchService.ListMatchesByStatus(r.Context(), division, status)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, matches, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) ListMatchesByPlayer(w http.ResponseWriter, r *http.Request) {
	player := chi.URLParam(r, "player")
	division := chi.URLParam(r, "division")

	matches, err := h.matchService.ListMatchesByPlayer(r.Context(), player, division)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, matches, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) GetMatchStats(w http.ResponseWriter, r *http.Request) {
	division := chi.URLParam(r, "division")

	stats, err := h.matchService.GetMatchStats(r.Context(), division)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, stats, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
