package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/iho/gohotel/internal/adapter/http/dto"
	"github.com/iho/gohotel/internal/domain"
)

func TestParseIntQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/customers?limit=50", nil)
	if got := parseIntQuery(req, "limit", 10); got != 50 {
		t.Fatalf("expected limit=50, got %d", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/customers?limit=invalid", nil)
	if got := parseIntQuery(req, "limit", 10); got != 10 {
		t.Fatalf("expected fallback to default, got %d", got)
	}

	req.URL = &url.URL{RawQuery: ""}
	if got := parseIntQuery(req, "limit", 25); got != 25 {
		t.Fatalf("expected default when missing, got %d", got)
	}
}

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"customer not found", domain.ErrCustomerNotFound, http.StatusNotFound},
		{"booking not found", fmt.Errorf("load: %w", domain.ErrBookingNotFound), http.StatusNotFound},
		{"validation", domain.ErrValidation, http.StatusBadRequest},
		{"invalid amount", domain.ErrInvalidAmount, http.StatusBadRequest},
		{"currency mismatch", domain.ErrCurrencyMismatch, http.StatusBadRequest},
		{"missing rate", domain.ErrMissingExchangeRate, http.StatusBadRequest},
		{"negative result", domain.ErrNegativeResult, http.StatusBadRequest},
		{"insufficient funds", domain.ErrInsufficientFunds, http.StatusPaymentRequired},
		{"inactive customer", domain.ErrCustomerInactive, http.StatusForbidden},
		{"invalid state", domain.ErrInvalidState, http.StatusConflict},
		{"deposit already paid", domain.ErrDepositAlreadyPaid, http.StatusConflict},
		{"deposit required", domain.ErrDepositRequired, http.StatusConflict},
		{"already cancelled", domain.ErrAlreadyCancelled, http.StatusConflict},
		{"email used", domain.ErrEmailAlreadyUsed, http.StatusConflict},
		{"concurrent modification", domain.ErrConcurrentModification, http.StatusConflict},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mapDomainError(tt.err); got != tt.expected {
				t.Fatalf("expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestWriteDomainErrorInsufficientFunds(t *testing.T) {
	rr := httptest.NewRecorder()

	writeDomainError(rr, &domain.InsufficientFundsError{
		Balance:  domain.Euros(30),
		Required: domain.Euros(50),
	}, "failed to pay deposit")

	if rr.Code != http.StatusPaymentRequired {
		t.Fatalf("expected 402, got %d", rr.Code)
	}

	var resp dto.InsufficientFundsResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Shortfall.Amount.String() != "20" || resp.Required.Amount.String() != "50" || resp.Balance.Amount.String() != "30" {
		t.Fatalf("unexpected amounts: %+v", resp)
	}
}

func TestWriteDomainErrorHidesInternalDetails(t *testing.T) {
	rr := httptest.NewRecorder()

	writeDomainError(rr, errors.New("pq: connection refused"), "failed to get booking")

	var resp dto.ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if rr.Code != http.StatusInternalServerError || resp.Message != "" {
		t.Fatalf("expected opaque 500, got %d %+v", rr.Code, resp)
	}
}

func TestWriteJSON(t *testing.T) {
	rr := httptest.NewRecorder()
	payload := map[string]string{"status": "ok"}

	writeJSON(rr, http.StatusCreated, payload)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rr.Code)
	}

	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected content-type application/json, got %s", ct)
	}

	var decoded map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if decoded["status"] != "ok" {
		t.Fatalf("expected payload to round-trip, got %+v", decoded)
	}
}

func TestWriteError(t *testing.T) {
	rr := httptest.NewRecorder()

	writeError(rr, http.StatusBadRequest, "bad request", "detail")

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}

	var resp dto.ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}

	if resp.Error != "bad request" || resp.Message != "detail" {
		t.Fatalf("expected error message to propagate, got %+v", resp)
	}
}
