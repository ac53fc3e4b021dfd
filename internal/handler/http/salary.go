package http

import (
	"net/http"
	"time"

	"github.com/cmlabs-hris/shrms-backend-go/internal/domain/salary"
	"github.com/cmlabs-hris/shrms-backend-go/internal/handler/http/response"
)

type SalaryHandler interface {
	// Mine returns the caller's snapshot for ?month.
	Mine(w http.ResponseWriter, r *http.Request)
	ListByMonth(w http.ResponseWriter, r *http.Request)
	ListUnpaid(w http.ResponseWriter, r *http.Request)
	RecalculateMonth(w http.ResponseWriter, r *http.Request)
	RecalculateEmployee(w http.ResponseWriter, r *http.Request)
	Report(w http.ResponseWriter, r *http.Request)
	Adjust(w http.ResponseWriter, r *http.Request)
	MarkPaid(w http.ResponseWriter, r *http.Request)
	Logs(w http.ResponseWriter, r *http.Request)
}

type salaryHandlerImpl struct {
	salaryService salary.SalaryService
	loc           *time.Location
}

func NewSalaryHandler(salaryService salary.SalaryService, loc *time.Location) SalaryHandler {
	return &salaryHandlerImpl{salaryService: salaryService, loc: loc}
}

func (h *salaryHandlerImpl) Mine(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	result, err := h.salaryService.GetOrCreate(r.Context(), actor.EmployeeID, monthQuery(r, h.loc))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *salaryHandlerImpl) ListByMonth(w http.ResponseWriter, r *http.Request) {
	month := monthQuery(r, h.loc)
	results, err := h.salaryService.ListByMonth(r.Context(), month)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.List(w, results, response.Meta{Month: month, Count: len(results)})
}

func (h *salaryHandlerImpl) ListUnpaid(w http.ResponseWriter, r *http.Request) {
	month := monthQuery(r, h.loc)
	results, err := h.salaryService.ListUnpaid(r.Context(), month)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.List(w, results, response.Meta{Month: month, Count: len(results)})
}

func (h *salaryHandlerImpl) RecalculateMonth(w http.ResponseWriter, r *http.Request) {
	result, err := h.salaryService.RecalculateMonth(r.Context(), monthQuery(r, h.loc))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Salaries recalculated", result)
}

func (h *salaryHandlerImpl) RecalculateEmployee(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := idParam(w, r, "employeeID", "employee_id")
	if !ok {
		return
	}

	result, err := h.salaryService.Recalculate(r.Context(), employeeID, monthQuery(r, h.loc))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Salary recalculated", result)
}

func (h *salaryHandlerImpl) Report(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := idParam(w, r, "employeeID", "employee_id")
	if !ok {
		return
	}

	result, err := h.salaryService.GetReport(r.Context(), employeeID, monthQuery(r, h.loc))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *salaryHandlerImpl) Adjust(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	snapshotID, ok := idParam(w, r, "id", "snapshot_id")
	if !ok {
		return
	}

	var req salary.AdjustSalaryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.SnapshotID = snapshotID
	req.ActorID = &actor.EmployeeID

	result, err := h.salaryService.Adjust(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Salary adjusted", result)
}

func (h *salaryHandlerImpl) MarkPaid(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	snapshotID, ok := idParam(w, r, "id", "snapshot_id")
	if !ok {
		return
	}

	var req salary.MarkPaidRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.SnapshotID = snapshotID
	req.ActorID = &actor.EmployeeID

	result, err := h.salaryService.MarkPaid(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Salary marked as paid", result)
}

func (h *salaryHandlerImpl) Logs(w http.ResponseWriter, r *http.Request) {
	snapshotID, ok := idParam(w, r, "id", "snapshot_id")
	if !ok {
		return
	}

	results, err := h.salaryService.GetLogs(r.Context(), snapshotID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, results)
}
