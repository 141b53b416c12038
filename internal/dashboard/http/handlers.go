// Package dashhttp serves the operations dashboard over HTTP.
package dashhttp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/tembo-ops/tembo-ops/internal/dashboard"
	"github.com/tembo-ops/tembo-ops/internal/dashboard/export"
	"github.com/tembo-ops/tembo-ops/internal/fx"
	"github.com/tembo-ops/tembo-ops/internal/observability"
	"github.com/tembo-ops/tembo-ops/internal/platform/httpx"
)

const requestTimeout = 5 * time.Second

// DashboardService is the dashboard data contract used by the handler.
type DashboardService interface {
	GetDashboard(ctx context.Context, q dashboard.Query) (*dashboard.Result, error)
	Invalidate(ctx context.Context) error
}

// Handler coordinates HTTP requests for the operations dashboard.
type Handler struct {
	logger  *slog.Logger
	service DashboardService

	// defaultCurrency is used when the request does not name one.
	defaultCurrency string

	csvPool sync.Pool
	now     func() time.Time
	metrics *observability.Metrics
}

// NewHandler constructs the dashboard HTTP handler.
func NewHandler(logger *slog.Logger, service DashboardService, defaultCurrency string) *Handler {
	h := &Handler{
		logger:          logger,
		service:         service,
		defaultCurrency: defaultCurrency,
		now:             time.Now,
	}
	h.csvPool.New = func() interface{} { return new(bytes.Buffer) }
	return h
}

// WithNow overrides the handler clock for testing.
func (h *Handler) WithNow(fn func() time.Time) {
	if fn != nil {
		h.now = fn
	}
}

// WithMetrics attaches the compute-duration instrument.
func (h *Handler) WithMetrics(m *observability.Metrics) {
	h.metrics = m
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	q, err := h.parseQuery(r)
	if err != nil {
		h.handleQueryError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	result, err := h.loadDashboard(ctx, r, q)
	if err != nil {
		h.handleComputeError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, result)
}

func (h *Handler) handleCSV(w http.ResponseWriter, r *http.Request) {
	q, err := h.parseQuery(r)
	if err != nil {
		h.handleQueryError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	result, err := h.loadDashboard(ctx, r, q)
	if err != nil {
		h.handleComputeError(w, err)
		return
	}

	buf := h.csvPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer func() {
		buf.Reset()
		h.csvPool.Put(buf)
	}()

	if err := export.WriteKPICSV(buf, result); err != nil {
		h.handleServerError(w, "write kpi csv", err)
		return
	}
	buf.WriteString("\n")
	if err := export.WriteSeriesCSV(buf, "Revenue", result.MonthlyRevenue); err != nil {
		h.handleServerError(w, "write revenue csv", err)
		return
	}
	buf.WriteString("\n")
	if err := export.WriteSeriesCSV(buf, "Expense", result.MonthlyExpense); err != nil {
		h.handleServerError(w, "write expense csv", err)
		return
	}
	buf.WriteString("\n")
	if err := export.WriteCategoryCSV(buf, result.ExpenseCategories); err != nil {
		h.handleServerError(w, "write category csv", err)
		return
	}
	buf.WriteString("\n")
	if err := export.WriteRankingCSV(buf, result.VehicleRanking); err != nil {
		h.handleServerError(w, "write ranking csv", err)
		return
	}

	filename := fmt.Sprintf("dashboard-%s.csv", result.AsOf.Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logError("stream csv", err)
	}
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if err := h.service.Invalidate(ctx); err != nil {
		h.handleServerError(w, "invalidate dashboard", err)
		return
	}
	httpx.JSON(w, http.StatusAccepted, map[string]string{"status": "refresh scheduled"})
}

// loadDashboard dedupes identical concurrent requests through singleflight
// so a burst of dashboard loads triggers one snapshot computation.
func (h *Handler) loadDashboard(ctx context.Context, r *http.Request, q dashboard.Query) (*dashboard.Result, error) {
	key := q.DisplayCurrency + "|" + r.URL.RawQuery
	value, err, _ := singleflightLoad(ctx, key, func(ctx context.Context) (interface{}, error) {
		start := time.Now()
		result, err := h.service.GetDashboard(ctx, q)
		if err == nil {
			h.metrics.ObserveCompute(time.Since(start))
		} else {
			h.metrics.IncSnapshotFailure()
		}
		return result, err
	})
	if err != nil {
		return nil, err
	}
	return value.(*dashboard.Result), nil
}

func (h *Handler) parseQuery(r *http.Request) (dashboard.Query, error) {
	values := r.URL.Query()

	currency := strings.ToUpper(strings.TrimSpace(values.Get("currency")))
	if currency == "" {
		currency = h.defaultCurrency
	}

	q := dashboard.Query{
		DisplayCurrency: currency,
		AsOf:            h.now().UTC(),
	}

	global, err := parseGlobalWindow(values.Get("month"), values.Get("year"), q.AsOf)
	if err != nil {
		return dashboard.Query{}, err
	}
	q.Global = global

	windows := []struct {
		dst    *dashboard.ChartWindow
		prefix string
	}{
		{&q.RevenueWindow, "revenue"},
		{&q.ExpenseWindow, "expense"},
		{&q.CategoryWindow, "category"},
		{&q.RankingWindow, "ranking"},
		{&q.CapacityWindow, "capacity"},
	}
	for _, w := range windows {
		parsed, err := parseChartWindow(values, w.prefix)
		if err != nil {
			return dashboard.Query{}, err
		}
		*w.dst = parsed
	}

	if class := strings.TrimSpace(values.Get("ranking_capacity")); class != "" {
		switch class {
		case string(dashboard.CapacitySevenSeater), string(dashboard.CapacityFiveSeater), string(dashboard.CapacityOther):
			q.RankingCapacity = dashboard.CapacityClass(class)
		default:
			return dashboard.Query{}, validationError{field: "ranking_capacity"}
		}
	}

	if limitStr := strings.TrimSpace(values.Get("limit")); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit <= 0 || limit > 100 {
			return dashboard.Query{}, validationError{field: "limit"}
		}
		q.RecentLimit = limit
	}

	return q, nil
}

func parseGlobalWindow(monthStr, yearStr string, asOf time.Time) (dashboard.GlobalWindow, error) {
	monthStr = strings.TrimSpace(monthStr)
	if monthStr == "" || strings.EqualFold(monthStr, "all") {
		return dashboard.GlobalWindow{}, nil
	}
	monthNum, err := strconv.Atoi(monthStr)
	if err != nil || monthNum < 1 || monthNum > 12 {
		return dashboard.GlobalWindow{}, validationError{field: "month"}
	}
	month := time.Month(monthNum)

	year := asOf.Year()
	if yearStr = strings.TrimSpace(yearStr); yearStr != "" {
		year, err = strconv.Atoi(yearStr)
		if err != nil || year < 2000 || year > 2200 {
			return dashboard.GlobalWindow{}, validationError{field: "year"}
		}
	}
	return dashboard.GlobalWindow{Month: &month, Year: year}, nil
}

func parseChartWindow(values interface{ Get(string) string }, prefix string) (dashboard.ChartWindow, error) {
	mode := strings.ToLower(strings.TrimSpace(values.Get(prefix + "_window")))
	w := dashboard.ChartWindow{Mode: dashboard.WindowMode(mode)}

	switch w.Mode {
	case "", dashboard.ModeAll, dashboard.ModeYear, dashboard.ModeQuarter, dashboard.ModeMonth:
	case dashboard.ModeSpecific:
		monthsStr := strings.TrimSpace(values.Get(prefix + "_months"))
		if monthsStr == "" {
			return dashboard.ChartWindow{}, validationError{field: prefix + "_months"}
		}
		for _, piece := range strings.Split(monthsStr, ",") {
			monthNum, err := strconv.Atoi(strings.TrimSpace(piece))
			if err != nil || monthNum < 1 || monthNum > 12 {
				return dashboard.ChartWindow{}, validationError{field: prefix + "_months"}
			}
			w.Months = append(w.Months, time.Month(monthNum))
		}
		if yearStr := strings.TrimSpace(values.Get(prefix + "_year")); yearStr != "" {
			year, err := strconv.Atoi(yearStr)
			if err != nil || year < 2000 || year > 2200 {
				return dashboard.ChartWindow{}, validationError{field: prefix + "_year"}
			}
			w.Year = year
		}
	default:
		return dashboard.ChartWindow{}, validationError{field: prefix + "_window"}
	}
	return w, nil
}

func (h *Handler) handleQueryError(w http.ResponseWriter, err error) {
	var vErr validationError
	if errors.As(err, &vErr) {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Parameter", vErr.Error())
		return
	}
	h.handleServerError(w, "parse query", err)
}

func (h *Handler) handleComputeError(w http.ResponseWriter, err error) {
	var unknownCurrency *fx.UnknownCurrencyError
	if errors.As(err, &unknownCurrency) {
		httpx.Problem(w, http.StatusUnprocessableEntity, "Unknown Currency",
			fmt.Sprintf("no exchange rate for %s", unknownCurrency.Currency))
		return
	}
	var vErr validationError
	if errors.As(err, &vErr) {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Parameter", vErr.Error())
		return
	}
	h.handleServerError(w, "compute dashboard", err)
}

func (h *Handler) handleServerError(w http.ResponseWriter, context string, err error) {
	h.logError(context, err)
	httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
}

func (h *Handler) logError(context string, err error) {
	if h.logger != nil {
		h.logger.Error(context, slog.Any("error", err))
	}
}

type validationError struct {
	field string
}

func (v validationError) Error() string {
	return fmt.Sprintf("invalid %s", v.field)
}
