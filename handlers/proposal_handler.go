package handlers

import (
	"net/http"
	"strconv"

	"github.com/frbcapl/league-system/models"
	"github.com/frbcapl/league-system/repositories"
	"github.com/frbcapl/league-system/services"
)

type ProposalHandler struct {
	proposalService services.ProposalService
}

func NewProposalHandler(ps services.ProposalService) *ProposalHandler {
	return &ProposalHandler{proposalService: ps}
}

func (h *ProposalHandler) CreateProposal(w http.ResponseWriter, r *http.Request) {
	var input services.CreateProposalInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	proposal, err := h.proposalService.CreateProposal(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, proposal, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ProposalHandler) ListProposals(w http.ResponseWriter, r *http.Request) {
	filter := repositories.ProposalFilter{}
	query := r.URL.Query()

	if division := query.Get("division"); division != "" {
		filter.Division = &division
	}
	if status := query.Get("status"); status != "" {
		proposalStatus := models.ProposalStatus(status)
		filter.Status = &proposalStatus
	}
	if completed := query.Get("completed"); completed != "" {
		parsed, err := strconv.ParseBool(completed)
		if err != nil {
			badRequestResponse(w, r, err)
			return
		}
		filter.Completed = &parsed
	}
	if limit := query.Get("limit"); limit != "" {
		parsed, err := strconv.Atoi(limit)
		if err != nil || parsed < 0 {
			badRequestResponse(w, r, err)
			return
		}
		filter.Limit = parsed
	}

	proposals, err := h.proposalService.ListProposals(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, proposals, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type setProposalStatusInput struct {
	Status string  `json:"status"`
	Note   *string `json:"note"`
}

func (h *ProposalHandler) SetProposalStatus(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "proposalID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input setProposalStatusInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	proposal, err := h.proposalService.SetProposalStatus(r.Context(), id, models.ProposalStatus(input.Status), input.Note)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, proposal, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// DeleteProposal is the idempotent admin hard delete. The response always
// succeeds; "deleted" tells cleanup tooling whether a record existed.
func (h *ProposalHandler) DeleteProposal(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "proposalID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	deleted, err := h.proposalService.DeleteProposal(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"deleted": deleted}
	if !deleted {
		response["message"] = "proposal did not exist"
	}

	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
