package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/gohotel/internal/adapter/http/dto"
	"github.com/iho/gohotel/internal/domain"
	"github.com/iho/gohotel/internal/usecase"
)

// WalletService defines the behavior needed by WalletHandler.
type WalletService interface {
	GetWallet(ctx context.Context, customerID string) (*domain.Wallet, error)
	CreditWallet(ctx context.Context, input usecase.CreditWalletInput) (*usecase.CreditResult, error)
	GetTransactionHistory(ctx context.Context, input usecase.GetTransactionHistoryInput) ([]*domain.Transaction, error)
}

// WalletHandler handles wallet-related HTTP requests.
type WalletHandler struct {
	walletUC WalletService
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(walletUC WalletService) *WalletHandler {
	return &WalletHandler{walletUC: walletUC}
}

// Get returns the customer's wallet, creating an empty one on first access.
func (h *WalletHandler) Get(w http.ResponseWriter, r *http.Request) {
	wallet, err := h.walletUC.GetWallet(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err, "failed to get wallet")
		return
	}

	writeJSON(w, http.StatusOK, dto.WalletFromDomain(wallet))
}

// Credit adds funds to the customer's wallet.
func (h *WalletHandler) Credit(w http.ResponseWriter, r *http.Request) {
	var req dto.CreditWalletRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.walletUC.CreditWallet(r.Context(), req.ToUseCaseInput(chi.URLParam(r, "id")))
	if err != nil {
		writeDomainError(w, err, "failed to credit wallet")
		return
	}

	writeJSON(w, http.StatusCreated, dto.CreditFromUseCase(result))
}

// History lists the wallet's transactions, newest first.
func (h *WalletHandler) History(w http.ResponseWriter, r *http.Request) {
	txs, err := h.walletUC.GetTransactionHistory(r.Context(), usecase.GetTransactionHistoryInput{
		CustomerID: chi.URLParam(r, "id"),
		Limit:      parseIntQuery(r, "limit", 20),
		Offset:     parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeDomainError(w, err, "failed to list transactions")
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionsFromDomain(txs))
}
