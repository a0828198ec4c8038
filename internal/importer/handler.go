package importer

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/drif-ai/finance/internal/ledger"
	"github.com/drif-ai/finance/internal/platform/httpx"
)

// Handler wires batch import endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers import endpoints.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/import", func(r chi.Router) {
		r.Post("/transactions", h.Batch)
		r.Post("/csv", h.CSV)
	})
}

func (h *Handler) Batch(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	transactions, err := req.ToTransactions()
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	h.apply(w, r, transactions)
}

func (h *Handler) CSV(w http.ResponseWriter, r *http.Request) {
	transactions, err := ParseCSV(r.Body)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	h.apply(w, r, transactions)
}

func (h *Handler) apply(w http.ResponseWriter, r *http.Request, transactions []ledger.Transaction) {
	result, err := h.service.Apply(r.Context(), transactions)
	if err != nil {
		// Earlier tuples may have committed; report the partial result
		// alongside the failure instead of a bare problem document.
		if result.Failed != nil && isValidation(result.Failed.Err) {
			httpx.JSON(w, http.StatusUnprocessableEntity, NewBatchResponse(result))
			return
		}
		h.logger.Error("apply import batch", slog.Any("error", err))
		httpx.JSON(w, http.StatusInternalServerError, NewBatchResponse(result))
		return
	}
	httpx.JSON(w, http.StatusOK, NewBatchResponse(result))
}

func isValidation(err error) bool {
	return errors.Is(err, ledger.ErrUnbalanced) ||
		errors.Is(err, ledger.ErrTooFewEntries) ||
		errors.Is(err, ledger.ErrZeroAmount) ||
		errors.Is(err, ledger.ErrNegativeAmount) ||
		errors.Is(err, ledger.ErrTwoSided) ||
		errors.Is(err, ledger.ErrUnknownAccount)
}
