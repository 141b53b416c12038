package fx

import (
	"log/slog"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/tembo-ops/tembo-ops/internal/platform/httpx"
)

// Handler wires HTTP endpoints for exchange-rate administration.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountReadRoutes registers the rate listing endpoint.
func (h *Handler) MountReadRoutes(r chi.Router) {
	r.Get("/rates", h.handleList)
}

// MountWriteRoutes registers rate admin endpoints, intended to sit behind
// the API-key guard.
func (h *Handler) MountWriteRoutes(r chi.Router) {
	r.Put("/rates", h.handleUpsert)
}

type upsertRateRequest struct {
	Currency string  `json:"currency" validate:"required,len=3,alpha"`
	Rate     float64 `json:"rate" validate:"required,gt=0"`
}

type rateView struct {
	Currency string  `json:"currency"`
	Rate     float64 `json:"rate"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	table, err := h.service.Snapshot(r.Context())
	if err != nil {
		h.logger.Error("list rates", slog.Any("error", err))
		httpx.Problem(w, http.StatusServiceUnavailable, "Rates Unavailable", "exchange rates could not be loaded")
		return
	}
	views := make([]rateView, 0, len(table))
	for currency, rate := range table {
		views = append(views, rateView{Currency: currency, Rate: rate})
	}
	sort.Slice(views, func(i, j int) bool { return views[i].Currency < views[j].Currency })
	httpx.JSON(w, http.StatusOK, views)
}

func (h *Handler) handleUpsert(w http.ResponseWriter, r *http.Request) {
	var req upsertRateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Payload", "body must be valid JSON")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	if err := h.service.SetRate(r.Context(), req.Currency, req.Rate); err != nil {
		h.logger.Error("upsert rate", slog.String("currency", req.Currency), slog.Any("error", err))
		httpx.Problem(w, http.StatusUnprocessableEntity, "Rate Rejected", err.Error())
		return
	}
	httpx.JSON(w, http.StatusOK, rateView{Currency: req.Currency, Rate: req.Rate})
}
