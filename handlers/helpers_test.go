package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/frbcapl/league-system/services"
	"github.com/go-chi/chi/v5"
)

func TestMapServiceErrorToHTTP(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"proposal not found", services.ErrProposalNotFound, http.StatusNotFound},
		{"match not found", services.ErrMatchNotFound, http.StatusNotFound},
		{"player not ranked", services.ErrPlayerNotRanked, http.StatusNotFound},
		{"sheet not found", services.ErrStandingsSheetNotFound, http.StatusNotFound},
		{"invalid transition", services.ErrInvalidStatusTransition, http.StatusConflict},
		{"already completed", services.ErrMatchAlreadyCompleted, http.StatusConflict},
		{"already derived", services.ErrMatchAlreadyDerived, http.StatusConflict},
		{"not confirmed", services.ErrProposalNotConfirmed, http.StatusConflict},
		{"email taken", services.ErrAuthEmailTaken, http.StatusConflict},
		{"sender required", services.ErrSenderRequired, http.StatusBadRequest},
		{"invalid type", services.ErrInvalidProposalType, http.StatusBadRequest},
		{"phase mismatch", services.ErrPhaseTypeMismatch, http.StatusBadRequest},
		{"winner not in match", services.ErrWinnerNotInMatch, http.StatusBadRequest},
		{"invalid sheet", services.ErrStandingsSheetInvalid, http.StatusBadRequest},
		{"bad credentials", services.ErrAuthInvalidCredentials, http.StatusUnauthorized},
		{"store unavailable", services.ErrStandingsSourceUnavailable, http.StatusServiceUnavailable},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)

			mapServiceErrorToHTTP(rec, req, tc.err)

			if rec.Code != tc.want {
				t.Fatalf("expected status %d, got %d", tc.want, rec.Code)
			}
		})
	}
}

func requestWithURLParam(name, value string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(name, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestGetIDFromURL(t *testing.T) {
	tests := []struct {
		name    string
		param   string
		value   string
		want    int
		wantErr bool
	}{
		{"named param", "proposalID", "42", 42, false},
		{"id fallback", "id", "7", 7, false},
		{"non-numeric", "proposalID", "abc", 0, true},
		{"zero", "proposalID", "0", 0, true},
		{"negative", "proposalID", "-3", 0, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := requestWithURLParam(tc.param, tc.value)

			id, err := getIDFromURL(req, "proposalID")
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if id != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, id)
			}
		})
	}
}

func TestReadJSON(t *testing.T) {
	type payload struct {
		Status string `json:"status"`
	}

	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"well formed", `{"status": "confirmed"}`, ""},
		{"empty body", ``, "must not be empty"},
		{"malformed", `{"status":`, "badly-formed JSON"},
		{"unknown field", `{"state": "confirmed"}`, "unknown key"},
		{"wrong type", `{"status": 7}`, "incorrect JSON type"},
		{"trailing value", `{"status": "confirmed"}{"again": true}`, "single JSON value"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.body))

			var dst payload
			err := readJSON(rec, req, &dst)
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}
