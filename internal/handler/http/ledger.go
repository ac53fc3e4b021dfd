package http

import (
	"net/http"

	"github.com/cmlabs-hris/shrms-backend-go/internal/domain/ledger"
	"github.com/cmlabs-hris/shrms-backend-go/internal/handler/http/response"
)

type LedgerHandler interface {
	Status(w http.ResponseWriter, r *http.Request)
	Vaults(w http.ResponseWriter, r *http.Request)
	Preview(w http.ResponseWriter, r *http.Request)
	History(w http.ResponseWriter, r *http.Request)
}

type ledgerHandlerImpl struct {
	ledgerService ledger.LedgerService
}

func NewLedgerHandler(ledgerService ledger.LedgerService) LedgerHandler {
	return &ledgerHandlerImpl{ledgerService: ledgerService}
}

func (h *ledgerHandlerImpl) Status(w http.ResponseWriter, r *http.Request) {
	result, err := h.ledgerService.GetStatus(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *ledgerHandlerImpl) Vaults(w http.ResponseWriter, r *http.Request) {
	results, err := h.ledgerService.ListVaults(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, results)
}

// Preview quotes commission and total for a payout without writing anything.
func (h *ledgerHandlerImpl) Preview(w http.ResponseWriter, r *http.Request) {
	var req ledger.PreviewPayoutRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.ledgerService.PreviewPayout(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *ledgerHandlerImpl) History(w http.ResponseWriter, r *http.Request) {
	limit, ok := intQuery(r, "limit")
	if !ok {
		response.BadRequest(w, "limit must be a number", nil)
		return
	}

	results, err := h.ledgerService.SalaryHistory(r.Context(), limit)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.List(w, results, response.Meta{Count: len(results), Limit: limit})
}
