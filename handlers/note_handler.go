package handlers

import (
	"net/http"

	"github.com/frbcapl/league-system/middleware"
	"github.com/frbcapl/league-system/services"
)

type NoteHandler struct {
	noteService services.NoteService
	authService services.AuthService
}

func NewNoteHandler(ns services.NoteService, as services.AuthService) *NoteHandler {
	return &NoteHandler{noteService: ns, authService: as}
}

func (h *NoteHandler) ListNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := h.noteService.ListNotes(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, notes, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type createNoteInput struct {
	Text string `json:"text"`
}

func (h *NoteHandler) CreateNote(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	user, err := h.authService.GetUser(r.Context(), userID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	var input createNoteInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	note, err := h.noteService.CreateNote(r.Context(), input.Text, user.FirstName+" "+user.LastName)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, note, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *NoteHandler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "noteID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.noteService.DeleteNote(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"deleted": true}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
