package postgresql_test

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/shrms-backend-go/internal/domain/request"
	"github.com/cmlabs-hris/shrms-backend-go/internal/repository/postgresql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestRepository_SumApprovedByMonth(t *testing.T) {
	setup := NewTestDatabase(t)
	repo := postgresql.NewRequestRepository(setup.DB)
	ctx := context.Background()
	emp := createTestEmployee(t, setup.DB, "+201000000020", 6000)
	approver := createTestEmployee(t, setup.DB, "+201000000021", 9000)

	month := "2025-03"
	other := "2025-04"
	create := func(typ request.Type, amount int64, m *string, approve bool) {
		req, err := repo.Create(ctx, request.Request{
			EmployeeID: emp.ID, Type: typ, Amount: decimal.NewFromInt(amount), Month: m,
		})
		require.NoError(t, err)
		if approve {
			_, err = repo.SetDecision(ctx, req.ID, request.StatusApproved, approver.ID, time.Now(), nil)
			require.NoError(t, err)
		}
	}

	create(request.TypeBonus, 500, &month, true)
	create(request.TypeDeduction, 100, nil, true)
	create(request.TypeAdvance, 250, &month, true)
	create(request.TypeBonus, 999, &other, true)
	create(request.TypeBonus, 777, &month, false)

	totals, err := repo.SumApproved(ctx, emp.ID, month)
	require.NoError(t, err)
	assert.Equal(t, "500", totals.Bonuses.String())
	assert.Equal(t, "100", totals.Deductions.String())
	assert.Equal(t, "250", totals.Advances.String())

	applicable, err := repo.ListApplicable(ctx, emp.ID, month)
	require.NoError(t, err)
	assert.Len(t, applicable, 3)
}

func TestRequestRepository_DecisionOnlyOnce(t *testing.T) {
	setup := NewTestDatabase(t)
	repo := postgresql.NewRequestRepository(setup.DB)
	ctx := context.Background()
	emp := createTestEmployee(t, setup.DB, "+201000000022", 6000)

	req, err := repo.Create(ctx, request.Request{EmployeeID: emp.ID, Type: request.TypeAdvance, Amount: decimal.NewFromInt(10)})
	require.NoError(t, err)
	assert.Equal(t, request.StatusPending, req.Status)

	_, err = repo.SetDecision(ctx, req.ID, request.StatusRejected, emp.ID, time.Now(), nil)
	require.NoError(t, err)

	_, err = repo.SetDecision(ctx, req.ID, request.StatusApproved, emp.ID, time.Now(), nil)
	assert.ErrorIs(t, err, request.ErrRequestAlreadyProcessed)
}
