package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/gohotel/internal/adapter/http/dto"
	"github.com/iho/gohotel/internal/domain"
	"github.com/iho/gohotel/internal/usecase"
)

// CustomerService defines the behavior needed by CustomerHandler.
type CustomerService interface {
	CreateCustomer(ctx context.Context, input usecase.CreateCustomerInput) (*domain.Customer, error)
	GetCustomer(ctx context.Context, id string) (*domain.Customer, error)
	ListCustomers(ctx context.Context, input usecase.ListCustomersInput) ([]*domain.Customer, error)
	UpdateCustomer(ctx context.Context, input usecase.UpdateCustomerInput) (*domain.Customer, error)
	SuspendCustomer(ctx context.Context, id string) (*domain.Customer, error)
	ReactivateCustomer(ctx context.Context, id string) (*domain.Customer, error)
}

// CustomerHandler handles customer-related HTTP requests.
type CustomerHandler struct {
	customerUC CustomerService
}

// NewCustomerHandler creates a new CustomerHandler.
func NewCustomerHandler(customerUC CustomerService) *CustomerHandler {
	return &CustomerHandler{customerUC: customerUC}
}

// Create registers a new customer.
func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateCustomerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	customer, err := h.customerUC.CreateCustomer(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, err, "failed to create customer")
		return
	}

	writeJSON(w, http.StatusCreated, dto.CustomerFromDomain(customer))
}

// Get retrieves a customer by ID.
func (h *CustomerHandler) Get(w http.ResponseWriter, r *http.Request) {
	customer, err := h.customerUC.GetCustomer(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err, "failed to get customer")
		return
	}

	writeJSON(w, http.StatusOK, dto.CustomerFromDomain(customer))
}

// List lists customers.
func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	customers, err := h.customerUC.ListCustomers(r.Context(), usecase.ListCustomersInput{
		Limit:  parseIntQuery(r, "limit", 20),
		Offset: parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeDomainError(w, err, "failed to list customers")
		return
	}

	writeJSON(w, http.StatusOK, dto.ListCustomersResponse{
		Customers: dto.CustomersFromDomain(customers),
		Total:     int64(len(customers)),
	})
}

// Update changes a customer's name or contact details.
func (h *CustomerHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateCustomerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	customer, err := h.customerUC.UpdateCustomer(r.Context(), req.ToUseCaseInput(chi.URLParam(r, "id")))
	if err != nil {
		writeDomainError(w, err, "failed to update customer")
		return
	}

	writeJSON(w, http.StatusOK, dto.CustomerFromDomain(customer))
}

// Suspend suspends a customer.
func (h *CustomerHandler) Suspend(w http.ResponseWriter, r *http.Request) {
	customer, err := h.customerUC.SuspendCustomer(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err, "failed to suspend customer")
		return
	}

	writeJSON(w, http.StatusOK, dto.CustomerFromDomain(customer))
}

// Reactivate reactivates a suspended customer.
func (h *CustomerHandler) Reactivate(w http.ResponseWriter, r *http.Request) {
	customer, err := h.customerUC.ReactivateCustomer(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err, "failed to reactivate customer")
		return
	}

	writeJSON(w, http.StatusOK, dto.CustomerFromDomain(customer))
}
