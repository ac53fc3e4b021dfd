package http

import (
	"net/http"

	"github.com/cmlabs-hris/shrms-backend-go/internal/domain/request"
	"github.com/cmlabs-hris/shrms-backend-go/internal/handler/http/response"
)

type RequestHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Mine(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
}

type requestHandlerImpl struct {
	requestService request.RequestService
}

func NewRequestHandler(requestService request.RequestService) RequestHandler {
	return &requestHandlerImpl{requestService: requestService}
}

// Create files a request. Employees file for themselves; admins may name anyone.
func (h *requestHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req request.CreateRequestRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.EmployeeID == "" || !actor.IsAdmin() {
		req.EmployeeID = actor.EmployeeID
	}

	result, err := h.requestService.CreateRequest(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Request submitted", result)
}

func (h *requestHandlerImpl) Mine(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	filter, ok := requestFilter(w, r)
	if !ok {
		return
	}
	filter.EmployeeID = &actor.EmployeeID

	results, err := h.requestService.ListRequests(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.List(w, results, response.Meta{Count: len(results)})
}

func (h *requestHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter, ok := requestFilter(w, r)
	if !ok {
		return
	}

	results, err := h.requestService.ListRequests(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.List(w, results, response.Meta{Count: len(results)})
}

func requestFilter(w http.ResponseWriter, r *http.Request) (request.RequestFilter, bool) {
	employeeID, ok := idQuery(w, r, "employee_id")
	if !ok {
		return request.RequestFilter{}, false
	}

	filter := request.RequestFilter{EmployeeID: employeeID}
	if s := r.URL.Query().Get("status"); s != "" {
		status := request.Status(s)
		filter.Status = &status
	}
	if t := r.URL.Query().Get("type"); t != "" {
		typ := request.Type(t)
		filter.Type = &typ
	}
	return filter, true
}

func (h *requestHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id", "request_id")
	if !ok {
		return
	}

	result, err := h.requestService.GetRequest(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

func (h *requestHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	id, ok := idParam(w, r, "id", "request_id")
	if !ok {
		return
	}

	var req request.ApproveRequestRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = id
	req.ApproverID = actor.EmployeeID

	result, err := h.requestService.ApproveRequest(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Request approved", result)
}

func (h *requestHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	id, ok := idParam(w, r, "id", "request_id")
	if !ok {
		return
	}

	result, err := h.requestService.RejectRequest(r.Context(), request.RejectRequestRequest{
		ID:         id,
		ApproverID: actor.EmployeeID,
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Request rejected", result)
}
