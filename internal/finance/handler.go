package finance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/tembo-ops/tembo-ops/internal/platform/httpx"
)

// RequisitionStore is the persistence surface the handler reads and writes.
type RequisitionStore interface {
	ListRequisitions(ctx context.Context) ([]CashRequisition, error)
	GetRequisition(ctx context.Context, crNumber string) (CashRequisition, error)
	CreateRequisition(ctx context.Context, cr CashRequisition) error
}

// Handler wires HTTP endpoints for cash-requisition administration.
type Handler struct {
	logger    *slog.Logger
	store     RequisitionStore
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, store RequisitionStore) *Handler {
	return &Handler{logger: logger, store: store, validator: validator.New()}
}

// MountReadRoutes registers the requisition listing and lookup endpoints.
func (h *Handler) MountReadRoutes(r chi.Router) {
	r.Get("/requisitions", h.handleList)
	r.Get("/requisitions/{number}", h.handleGet)
}

// MountWriteRoutes registers requisition admin endpoints, intended to sit
// behind the API-key guard.
func (h *Handler) MountWriteRoutes(r chi.Router) {
	r.Post("/requisitions", h.handleCreate)
}

type createRequisitionRequest struct {
	CRNumber        string     `json:"cr_number" validate:"required"`
	TotalCost       float64    `json:"total_cost" validate:"required,gt=0"`
	Currency        string     `json:"currency" validate:"required,len=3,alpha"`
	AmountBase      *float64   `json:"amount_base" validate:"omitempty,gt=0"`
	Status          string     `json:"status" validate:"required,oneof=Pending Approved Completed Resolved Rejected Declined Cancelled"`
	ExpenseCategory string     `json:"expense_category" validate:"required"`
	DateCompleted   *time.Time `json:"date_completed"`
}

type requisitionView struct {
	ID              uuid.UUID  `json:"id"`
	CRNumber        string     `json:"cr_number"`
	TotalCost       float64    `json:"total_cost"`
	Currency        string     `json:"currency"`
	AmountBase      *float64   `json:"amount_base,omitempty"`
	Status          string     `json:"status"`
	ExpenseCategory string     `json:"expense_category"`
	DateCompleted   *time.Time `json:"date_completed,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

func viewOf(cr CashRequisition) requisitionView {
	return requisitionView{
		ID:              cr.ID,
		CRNumber:        cr.CRNumber,
		TotalCost:       cr.TotalCost,
		Currency:        cr.Currency,
		AmountBase:      cr.AmountBase,
		Status:          string(cr.Status),
		ExpenseCategory: cr.ExpenseCategory,
		DateCompleted:   cr.DateCompleted,
		CreatedAt:       cr.CreatedAt,
	}
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	crs, err := h.store.ListRequisitions(r.Context())
	if err != nil {
		h.logger.Error("list requisitions", slog.Any("error", err))
		httpx.Problem(w, http.StatusServiceUnavailable, "Requisitions Unavailable", "cash requisitions could not be loaded")
		return
	}
	views := make([]requisitionView, 0, len(crs))
	for _, cr := range crs {
		views = append(views, viewOf(cr))
	}
	httpx.JSON(w, http.StatusOK, views)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")
	cr, err := h.store.GetRequisition(r.Context(), number)
	if errors.Is(err, ErrRequisitionNotFound) {
		httpx.RespondError(w, fmt.Errorf("%w: requisition %s", httpx.ErrNotFound, number))
		return
	}
	if err != nil {
		h.logger.Error("get requisition", slog.String("number", number), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, viewOf(cr))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequisitionRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: body must be valid JSON", httpx.ErrValidation))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.RespondError(w, fmt.Errorf("%w: %s", httpx.ErrValidation, err))
		return
	}
	cr := CashRequisition{
		ID:              uuid.New(),
		CRNumber:        strings.TrimSpace(req.CRNumber),
		TotalCost:       req.TotalCost,
		Currency:        strings.ToUpper(req.Currency),
		AmountBase:      req.AmountBase,
		Status:          RequisitionStatus(req.Status),
		ExpenseCategory: req.ExpenseCategory,
		DateCompleted:   req.DateCompleted,
		CreatedAt:       time.Now().UTC(),
	}
	if err := h.store.CreateRequisition(r.Context(), cr); err != nil {
		if errors.Is(err, ErrDuplicateCRNumber) {
			httpx.RespondError(w, fmt.Errorf("%w: cr number %s already exists", httpx.ErrConflict, cr.CRNumber))
			return
		}
		h.logger.Error("create requisition", slog.String("number", cr.CRNumber), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, viewOf(cr))
}
