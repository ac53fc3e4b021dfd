package request

import (
	"context"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/shrms-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/shrms-backend-go/internal/domain/request"
	"github.com/cmlabs-hris/shrms-backend-go/internal/domain/salary"
	"github.com/cmlabs-hris/shrms-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/shrms-backend-go/internal/pkg/eventbus"
	"github.com/cmlabs-hris/shrms-backend-go/internal/pkg/period"
	"github.com/cmlabs-hris/shrms-backend-go/internal/pkg/validator"
)

type RequestServiceImpl struct {
	tx           database.Transactor
	requestRepo  request.RequestRepository
	employees    employee.Directory
	recalculator salary.Recalculator
	bus          *eventbus.Bus
	loc          *time.Location
	now          func() time.Time
}

func NewRequestService(
	tx database.Transactor,
	requestRepo request.RequestRepository,
	employees employee.Directory,
	recalculator salary.Recalculator,
	bus *eventbus.Bus,
	loc *time.Location,
) request.RequestService {
	return &RequestServiceImpl{
		tx:           tx,
		requestRepo:  requestRepo,
		employees:    employees,
		recalculator: recalculator,
		bus:          bus,
		loc:          loc,
		now:          time.Now,
	}
}

// CreateRequest implements request.RequestService.
func (s *RequestServiceImpl) CreateRequest(ctx context.Context, req request.CreateRequestRequest) (request.RequestResponse, error) {
	if err := req.Validate(); err != nil {
		return request.RequestResponse{}, err
	}
	if _, err := s.employees.GetEmployee(ctx, req.EmployeeID); err != nil {
		return request.RequestResponse{}, err
	}

	created, err := s.requestRepo.Create(ctx, request.Request{
		EmployeeID: req.EmployeeID,
		Type:       req.Type,
		Amount:     req.Amount,
		Month:      req.Month,
		VaultID:    req.VaultID,
		Reason:     req.Reason,
	})
	if err != nil {
		return request.RequestResponse{}, err
	}

	slog.Info("Salary request created", "request_id", created.ID, "employee_id", created.EmployeeID, "type", created.Type)
	return request.NewRequestResponse(created), nil
}

// ApproveRequest implements request.RequestService. The decision and the
// snapshot recalculation commit together; the approval event follows.
func (s *RequestServiceImpl) ApproveRequest(ctx context.Context, req request.ApproveRequestRequest) (request.RequestResponse, error) {
	if err := req.Validate(); err != nil {
		return request.RequestResponse{}, err
	}

	var (
		approved request.Request
		month    string
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		existing, err := s.requestRepo.GetByIDForUpdate(ctx, req.ID)
		if err != nil {
			return err
		}
		if !existing.IsPending() {
			return request.ErrRequestAlreadyProcessed
		}

		approved, err = s.requestRepo.SetDecision(ctx, req.ID, request.StatusApproved, req.ApproverID, s.now(), req.VaultID)
		if err != nil {
			return err
		}

		month = period.Month(s.now().In(s.loc))
		if approved.Month != nil {
			month = *approved.Month
		}
		_, err = s.recalculator.Recalculate(ctx, approved.EmployeeID, month)
		return err
	})
	if err != nil {
		return request.RequestResponse{}, err
	}

	slog.Info("Salary request approved",
		"request_id", approved.ID, "employee_id", approved.EmployeeID, "type", approved.Type, "month", month)

	event, ok := approved.Type.ApprovedEvent(request.Approved{
		RequestID:  approved.ID,
		EmployeeID: approved.EmployeeID,
		Type:       approved.Type,
		Amount:     approved.Amount,
		Month:      month,
		VaultID:    approved.VaultID,
		ApproverID: req.ApproverID,
	})
	if ok {
		if err := s.bus.Publish(ctx, event); err != nil {
			slog.Warn("Approval subscriber failed", "event", event.EventName(), "request_id", approved.ID, "error", err)
		}
	}

	return request.NewRequestResponse(approved), nil
}

// RejectRequest implements request.RequestService.
func (s *RequestServiceImpl) RejectRequest(ctx context.Context, req request.RejectRequestRequest) (request.RequestResponse, error) {
	if !validator.IsValidUUID(req.ID) {
		return request.RequestResponse{}, validator.ValidationErrors{{Field: "id", Message: "invalid request id"}}
	}

	var rejected request.Request
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		existing, err := s.requestRepo.GetByIDForUpdate(ctx, req.ID)
		if err != nil {
			return err
		}
		if !existing.IsPending() {
			return request.ErrRequestAlreadyProcessed
		}
		rejected, err = s.requestRepo.SetDecision(ctx, req.ID, request.StatusRejected, req.ApproverID, s.now(), nil)
		return err
	})
	if err != nil {
		return request.RequestResponse{}, err
	}

	slog.Info("Salary request rejected", "request_id", rejected.ID, "employee_id", rejected.EmployeeID)
	return request.NewRequestResponse(rejected), nil
}

// GetRequest implements request.RequestService.
func (s *RequestServiceImpl) GetRequest(ctx context.Context, id string) (request.RequestResponse, error) {
	r, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		return request.RequestResponse{}, err
	}
	return request.NewRequestResponse(r), nil
}

// ListRequests implements request.RequestService.
func (s *RequestServiceImpl) ListRequests(ctx context.Context, filter request.RequestFilter) ([]request.RequestResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	requests, err := s.requestRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	out := make([]request.RequestResponse, 0, len(requests))
	for _, r := range requests {
		out = append(out, request.NewRequestResponse(r))
	}
	return out, nil
}
