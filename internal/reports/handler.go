package reports

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/drif-ai/finance/internal/ledger"
	"github.com/drif-ai/finance/internal/platform/httpx"
)

// Handler wires report endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers report endpoints.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/reports", func(r chi.Router) {
		r.Get("/financials", h.Financials)
		r.Get("/financials.csv", h.FinancialsCSV)
	})
}

func (h *Handler) Financials(w http.ResponseWriter, r *http.Request) {
	view, ok := h.build(w, r)
	if !ok {
		return
	}
	httpx.JSON(w, http.StatusOK, view)
}

func (h *Handler) FinancialsCSV(w http.ResponseWriter, r *http.Request) {
	view, ok := h.build(w, r)
	if !ok {
		return
	}
	filename := fmt.Sprintf("financials_%s_%s.csv", view.Start, view.End)
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	if err := WriteFinancialsCSV(w, view); err != nil {
		h.logger.Error("stream financials csv", slog.Any("error", err))
	}
}

func (h *Handler) build(w http.ResponseWriter, r *http.Request) (ReportView, bool) {
	period, err := parsePeriod(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return ReportView{}, false
	}
	view, err := h.service.Financials(r.Context(), period)
	if err != nil {
		if errors.Is(err, ledger.ErrInvalidPeriod) {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
			return ReportView{}, false
		}
		h.logger.Error("build financials", slog.Any("error", err))
		httpx.RespondError(w, err)
		return ReportView{}, false
	}
	return view, true
}

func parsePeriod(r *http.Request) (ledger.Period, error) {
	startRaw := r.URL.Query().Get("start")
	endRaw := r.URL.Query().Get("end")
	if startRaw == "" || endRaw == "" {
		return ledger.Period{}, fmt.Errorf("reports: start and end are required (YYYY-MM-DD)")
	}
	start, err := time.Parse(dateLayout, startRaw)
	if err != nil {
		return ledger.Period{}, fmt.Errorf("reports: invalid start %q", startRaw)
	}
	end, err := time.Parse(dateLayout, endRaw)
	if err != nil {
		return ledger.Period{}, fmt.Errorf("reports: invalid end %q", endRaw)
	}
	return ledger.NewPeriod(start, end), nil
}
