package request

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/cmlabs-hris/shrms-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/shrms-backend-go/internal/domain/request"
	"github.com/cmlabs-hris/shrms-backend-go/internal/domain/salary"
	"github.com/cmlabs-hris/shrms-backend-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/shrms-backend-go/internal/pkg/eventbus"
	"github.com/cmlabs-hris/shrms-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type passthroughTx struct{}

func (passthroughTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeRequestRepo struct {
	request.RequestRepository
	requests map[string]request.Request
	seq      int
}

func (r *fakeRequestRepo) Create(_ context.Context, req request.Request) (request.Request, error) {
	r.seq++
	req.ID = fmt.Sprintf("01900000-0000-7000-8000-%012d", r.seq)
	req.Status = request.StatusPending
	r.requests[req.ID] = req
	return req, nil
}

func (r *fakeRequestRepo) GetByID(_ context.Context, id string) (request.Request, error) {
	req, ok := r.requests[id]
	if !ok {
		return request.Request{}, request.ErrRequestNotFound
	}
	return req, nil
}

func (r *fakeRequestRepo) GetByIDForUpdate(ctx context.Context, id string) (request.Request, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeRequestRepo) SetDecision(_ context.Context, id string, status request.Status, by string, at time.Time, vaultID *string) (request.Request, error) {
	req := r.requests[id]
	if !req.IsPending() {
		return request.Request{}, request.ErrRequestAlreadyProcessed
	}
	req.Status = status
	req.ApprovedBy = &by
	req.ApprovedAt = &at
	if vaultID != nil {
		req.VaultID = vaultID
	}
	r.requests[id] = req
	return req, nil
}

func (r *fakeRequestRepo) List(_ context.Context, f request.RequestFilter) ([]request.Request, error) {
	out := make([]request.Request, 0)
	for _, req := range r.requests {
		if f.Status != nil && req.Status != *f.Status {
			continue
		}
		out = append(out, req)
	}
	return out, nil
}

type fakeDirectory map[string]employee.Employee

func (d fakeDirectory) GetEmployee(_ context.Context, id string) (employee.Employee, error) {
	e, ok := d[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (d fakeDirectory) ListByStatus(context.Context, employee.Status) ([]employee.Employee, error) {
	return nil, nil
}

type recalcCall struct{ employeeID, month string }

type recordingRecalculator struct {
	calls []recalcCall
	err   error
}

func (r *recordingRecalculator) Recalculate(_ context.Context, employeeID, month string) (salary.SnapshotResponse, error) {
	r.calls = append(r.calls, recalcCall{employeeID, month})
	return salary.SnapshotResponse{EmployeeID: employeeID, Month: month}, r.err
}

const (
	approverID = "01900000-0000-7000-8000-0000000000ad"
	employeeID = "01900000-0000-7000-8000-0000000000e1"
)

func newTestService(t *testing.T) (*RequestServiceImpl, *recordingRecalculator, *eventbus.Bus) {
	t.Helper()
	recalc := &recordingRecalculator{}
	bus := eventbus.New(nil)
	dir := fakeDirectory{employeeID: {ID: employeeID, Status: employee.StatusActive}}
	svc := NewRequestService(passthroughTx{}, &fakeRequestRepo{requests: map[string]request.Request{}}, dir, recalc, bus, time.UTC).(*RequestServiceImpl)
	svc.now = func() time.Time { return time.Date(2025, 7, 14, 10, 0, 0, 0, time.UTC) }
	return svc, recalc, bus
}

func TestApprove_NullMonthUsesCurrentMonth(t *testing.T) {
	svc, recalc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateRequest(ctx, request.CreateRequestRequest{EmployeeID: employeeID, Type: request.TypeBonus, Amount: decimal.NewFromInt(500)})
	require.NoError(t, err)

	approved, err := svc.ApproveRequest(ctx, request.ApproveRequestRequest{ID: created.ID, ApproverID: approverID})
	require.NoError(t, err)
	assert.Equal(t, request.StatusApproved, approved.Status)
	assert.Equal(t, []recalcCall{{employeeID, "2025-07"}}, recalc.calls)
}

func TestApprove_ExplicitMonth(t *testing.T) {
	svc, recalc, _ := newTestService(t)
	ctx := context.Background()

	month := "2025-03"
	created, err := svc.CreateRequest(ctx, request.CreateRequestRequest{EmployeeID: employeeID, Type: request.TypeDeduction, Amount: decimal.NewFromInt(50), Month: &month})
	require.NoError(t, err)

	_, err = svc.ApproveRequest(ctx, request.ApproveRequestRequest{ID: created.ID, ApproverID: approverID})
	require.NoError(t, err)
	assert.Equal(t, []recalcCall{{employeeID, "2025-03"}}, recalc.calls)
}

func TestApprove_OnlyOnce(t *testing.T) {
	svc, recalc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateRequest(ctx, request.CreateRequestRequest{EmployeeID: employeeID, Type: request.TypeBonus, Amount: decimal.NewFromInt(1)})
	require.NoError(t, err)
	_, err = svc.ApproveRequest(ctx, request.ApproveRequestRequest{ID: created.ID, ApproverID: approverID})
	require.NoError(t, err)

	_, err = svc.ApproveRequest(ctx, request.ApproveRequestRequest{ID: created.ID, ApproverID: approverID})
	assert.ErrorIs(t, err, request.ErrRequestAlreadyProcessed)
	assert.Equal(t, apperror.KindInvalidState, apperror.KindOf(err))

	_, err = svc.RejectRequest(ctx, request.RejectRequestRequest{ID: created.ID, ApproverID: approverID})
	assert.ErrorIs(t, err, request.ErrRequestAlreadyProcessed)
	assert.Len(t, recalc.calls, 1)
}

func TestApprove_NotFound(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.ApproveRequest(context.Background(), request.ApproveRequestRequest{
		ID: "01900000-0000-7000-8000-000000000999", ApproverID: approverID,
	})
	assert.ErrorIs(t, err, request.ErrRequestNotFound)
}

func TestApprove_PublishesAdvanceEvent(t *testing.T) {
	svc, _, bus := newTestService(t)
	ctx := context.Background()

	var advances []request.AdvanceApproved
	bonuses := 0
	eventbus.Subscribe(bus, func(_ context.Context, e request.AdvanceApproved) error {
		advances = append(advances, e)
		return nil
	})
	eventbus.Subscribe(bus, func(context.Context, request.BonusApproved) error {
		bonuses++
		return nil
	})

	vault := "01900000-0000-7000-8000-0000000000aa"
	created, err := svc.CreateRequest(ctx, request.CreateRequestRequest{EmployeeID: employeeID, Type: request.TypeAdvance, Amount: decimal.NewFromInt(250)})
	require.NoError(t, err)
	_, err = svc.ApproveRequest(ctx, request.ApproveRequestRequest{ID: created.ID, ApproverID: approverID, VaultID: &vault})
	require.NoError(t, err)

	require.Len(t, advances, 1)
	assert.Equal(t, 0, bonuses)
	assert.Equal(t, "250", advances[0].Amount.String())
	assert.Equal(t, "2025-07", advances[0].Month)
	assert.Equal(t, vault, *advances[0].VaultID)
	assert.Equal(t, approverID, advances[0].ApproverID)
}

func TestApprove_RecalculationFailureAborts(t *testing.T) {
	svc, recalc, bus := newTestService(t)
	ctx := context.Background()
	recalc.err = employee.ErrEmployeeNotFound
	published := 0
	eventbus.Subscribe(bus, func(context.Context, request.BonusApproved) error {
		published++
		return nil
	})

	created, err := svc.CreateRequest(ctx, request.CreateRequestRequest{EmployeeID: employeeID, Type: request.TypeBonus, Amount: decimal.NewFromInt(1)})
	require.NoError(t, err)

	_, err = svc.ApproveRequest(ctx, request.ApproveRequestRequest{ID: created.ID, ApproverID: approverID})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
	assert.Equal(t, 0, published)
}

func TestCreateRequest_Validation(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	bad := "2025-7"
	_, err := svc.CreateRequest(ctx, request.CreateRequestRequest{EmployeeID: employeeID, Type: "loan", Amount: decimal.NewFromInt(-1), Month: &bad})
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	_, err = svc.CreateRequest(ctx, request.CreateRequestRequest{EmployeeID: "abc", Type: request.TypeBonus, Amount: decimal.NewFromInt(1)})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "employee_id")

	_, err = svc.CreateRequest(ctx, request.CreateRequestRequest{EmployeeID: "01900000-0000-7000-8000-0000000000ff", Type: request.TypeBonus, Amount: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}
