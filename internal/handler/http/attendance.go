package http

import (
	"net/http"
	"time"

	"github.com/cmlabs-hris/shrms-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/shrms-backend-go/internal/handler/http/response"
)

type AttendanceHandler interface {
	CheckIn(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
	Today(w http.ResponseWriter, r *http.Request)
	Summary(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Mark(w http.ResponseWriter, r *http.Request)
	RecalculateWorkHours(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
	loc               *time.Location
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService, loc *time.Location) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
		loc:               loc,
	}
}

// CheckIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req attendance.CheckInRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.EmployeeID = actor.EmployeeID
	req.IPAddress = r.RemoteAddr
	if req.Device == "" {
		req.Device = r.UserAgent()
	}
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		req.IPAddress = ip
	}

	result, err := h.attendanceService.CheckIn(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Check in successful", result)
}

// CheckOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	result, err := h.attendanceService.CheckOut(r.Context(), attendance.CheckOutRequest{EmployeeID: actor.EmployeeID})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Check out successful", result)
}

// Today returns the caller's attendance for today.
func (h *attendanceHandlerImpl) Today(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	result, err := h.attendanceService.GetTodayStatus(r.Context(), actor.EmployeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Summary returns a monthly summary. Admins may ask for any employee.
func (h *attendanceHandlerImpl) Summary(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	employeeID := actor.EmployeeID
	other, ok := idQuery(w, r, "employee_id")
	if !ok {
		return
	}
	if other != nil && *other != employeeID {
		if !actor.IsAdmin() {
			response.Forbidden(w, "Cannot view another employee's attendance")
			return
		}
		employeeID = *other
	}

	result, err := h.attendanceService.GetSummary(r.Context(), employeeID, monthQuery(r, h.loc))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// List implements AttendanceHandler.
func (h *attendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := idQuery(w, r, "employee_id")
	if !ok {
		return
	}

	filter := attendance.AttendanceFilter{
		EmployeeID: employeeID,
		Month:      optionalQuery(r, "month"),
		StartDate:  optionalQuery(r, "start_date"),
		EndDate:    optionalQuery(r, "end_date"),
	}
	if status := r.URL.Query().Get("status"); status != "" {
		st := attendance.Status(status)
		filter.Status = &st
	}
	limit, ok := intQuery(r, "limit")
	if !ok {
		response.BadRequest(w, "limit must be a number", nil)
		return
	}
	filter.Limit = limit

	results, err := h.attendanceService.GetRecords(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	meta := response.Meta{Count: len(results), Limit: limit}
	if filter.Month != nil {
		meta.Month = *filter.Month
	}
	response.List(w, results, meta)
}

// Mark implements AttendanceHandler.
func (h *attendanceHandlerImpl) Mark(w http.ResponseWriter, r *http.Request) {
	var req attendance.MarkAttendanceRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.attendanceService.MarkAttendance(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance saved", result)
}

// RecalculateWorkHours implements AttendanceHandler.
func (h *attendanceHandlerImpl) RecalculateWorkHours(w http.ResponseWriter, r *http.Request) {
	result, err := h.attendanceService.RecalculateWorkHours(r.Context(), optionalQuery(r, "month"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
