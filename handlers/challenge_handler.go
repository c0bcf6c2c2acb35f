package handlers

import (
	"errors"
	"net/http"

	"github.com/frbcapl/league-system/services"
	"github.com/go-chi/chi/v5"
)

type ChallengeHandler struct {
	challengeService services.ChallengeService
}

func NewChallengeHandler(cs services.ChallengeService) *ChallengeHandler {
	return &ChallengeHandler{challengeService: cs}
}

func (h *ChallengeHandler) GetPlayerStats(w http.ResponseWriter, r *http.Request) {
	player := chi.URLParam(r, "player")
	division := chi.URLParam(r, "division")

	stats, err := h.challengeService.GetPlayerStats(r.Context(), player, division)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, stats, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ChallengeHandler) GetEligibleOpponents(w http.ResponseWriter, r *http.Request) {
	player := chi.URLParam(r, "player")
	division := chi.URLParam(r, "division")

	opponents, err := h.challengeService.GetEligibleOpponents(r.Context(), player, division)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, opponents, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type validateChallengeInput struct {
	SenderName   string `json:"senderName"`
	ReceiverName string `json:"receiverName"`
	Division     string `json:"division"`
}

func (h *ChallengeHandler) ValidateChallenge(w http.ResponseWriter, r *http.Request) {
	var input validateChallengeInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.SenderName == "" || input.ReceiverName == "" || input.Division == "" {
		badRequestResponse(w, r, errors.New("senderName, receiverName and division are required"))
		return
	}

	result, err := h.challengeService.ValidateChallenge(r.Context(), input.SenderName, input.ReceiverName, input.Division)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, result, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
