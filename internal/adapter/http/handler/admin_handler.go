package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/iho/gohotel/internal/adapter/http/dto"
	"github.com/iho/gohotel/internal/domain"
	"github.com/iho/gohotel/internal/usecase"
)

// StatsService defines the behavior needed for admin statistics.
type StatsService interface {
	GetStats(ctx context.Context) (*usecase.Stats, error)
	ReconcileWallets(ctx context.Context) (*usecase.ReconciliationReport, error)
}

// AuditService defines the behavior needed for audit queries.
type AuditService interface {
	ListAuditLogs(ctx context.Context, input usecase.ListAuditLogsInput) ([]*domain.AuditLog, error)
}

// AdminHandler serves hotel-wide statistics, reconciliation and the audit trail.
type AdminHandler struct {
	statsUC StatsService
	auditUC AuditService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(statsUC StatsService, auditUC AuditService) *AdminHandler {
	return &AdminHandler{statsUC: statsUC, auditUC: auditUC}
}

// Stats returns hotel statistics.
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statsUC.GetStats(r.Context())
	if err != nil {
		writeDomainError(w, err, "failed to get stats")
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// Reconciliation checks every wallet balance against its transactions.
func (h *AdminHandler) Reconciliation(w http.ResponseWriter, r *http.Request) {
	report, err := h.statsUC.ReconcileWallets(r.Context())
	if err != nil {
		writeDomainError(w, err, "failed to reconcile wallets")
		return
	}

	writeJSON(w, http.StatusOK, dto.ReconciliationFromUseCase(report))
}

// AuditLogs lists audit logs. Dates are RFC 3339 timestamps.
func (h *AdminHandler) AuditLogs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	input := usecase.ListAuditLogsInput{
		Action:       q.Get("action"),
		ResourceType: q.Get("resource_type"),
		ResourceID:   q.Get("resource_id"),
		Limit:        parseIntQuery(r, "limit", 50),
		Offset:       parseIntQuery(r, "offset", 0),
	}

	var err error
	if input.StartDate, err = parseTimeQuery(r, "start_date"); err != nil {
		writeError(w, http.StatusBadRequest, "invalid start_date", err.Error())
		return
	}
	if input.EndDate, err = parseTimeQuery(r, "end_date"); err != nil {
		writeError(w, http.StatusBadRequest, "invalid end_date", err.Error())
		return
	}

	logs, err := h.auditUC.ListAuditLogs(r.Context(), input)
	if err != nil {
		writeDomainError(w, err, "failed to list audit logs")
		return
	}

	writeJSON(w, http.StatusOK, dto.AuditLogsFromDomain(logs))
}

func parseTimeQuery(r *http.Request, key string) (*time.Time, error) {
	val := r.URL.Query().Get(key)
	if val == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
