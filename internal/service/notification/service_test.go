package notification

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/shrms-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/shrms-backend-go/internal/domain/request"
	"github.com/cmlabs-hris/shrms-backend-go/internal/domain/salary"
	"github.com/cmlabs-hris/shrms-backend-go/internal/pkg/eventbus"
	"github.com/cmlabs-hris/shrms-backend-go/internal/pkg/sse"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, ch <-chan notification.Notification) notification.Notification {
	t.Helper()
	select {
	case n := <-ch:
		return n
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for notification")
		return notification.Notification{}
	}
}

func TestNotify_ReachesEmployeeAndAdmins(t *testing.T) {
	svc := NewNotificationService(sse.NewHub(), Config{WorkerCount: 1})
	defer svc.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	employeeCh, closeEmployee := svc.Subscribe(ctx, "emp-1", false)
	defer closeEmployee()
	adminCh, closeAdmin := svc.Subscribe(ctx, "admin-1", true)
	defer closeAdmin()

	require.NoError(t, svc.Notify(ctx, notification.Notification{
		RecipientID: "emp-1", Type: notification.TypeSalaryPaid, Title: "Salary paid",
	}))

	got := receive(t, employeeCh)
	assert.Equal(t, notification.TypeSalaryPaid, got.Type)
	assert.False(t, got.CreatedAt.IsZero())

	got = receive(t, adminCh)
	assert.Equal(t, "emp-1", got.RecipientID)
}

func TestSubscribe_AdminGetsOwnNotificationOnce(t *testing.T) {
	svc := NewNotificationService(sse.NewHub(), Config{WorkerCount: 1})
	defer svc.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, cleanup := svc.Subscribe(ctx, "admin-1", true)
	defer cleanup()

	require.NoError(t, svc.Notify(ctx, notification.Notification{RecipientID: "admin-1", Title: "first"}))
	require.NoError(t, svc.Notify(ctx, notification.Notification{RecipientID: "emp-2", Title: "second"}))

	assert.Equal(t, "first", receive(t, ch).Title)
	assert.Equal(t, "second", receive(t, ch).Title)
}

func TestSubscribe_ForwardsBusEvents(t *testing.T) {
	svc := NewNotificationService(sse.NewHub(), Config{WorkerCount: 1})
	defer svc.Stop()

	bus := eventbus.New(nil)
	Subscribe(bus, svc)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch, cleanup := svc.Subscribe(ctx, "emp-1", false)
	defer cleanup()

	require.NoError(t, bus.Publish(ctx, request.BonusApproved{Approved: request.Approved{
		RequestID: "req-1", EmployeeID: "emp-1", Type: request.TypeBonus,
		Amount: decimal.NewFromInt(250), Month: "2025-03",
	}}))
	got := receive(t, ch)
	assert.Equal(t, notification.TypeBonusApproved, got.Type)
	assert.Equal(t, "250.00", got.Data["amount"])

	require.NoError(t, bus.Publish(ctx, salary.PaidEvent{
		EmployeeID: "emp-1", FinalSalary: decimal.NewFromInt(6000), Month: "2025-03",
	}))
	got = receive(t, ch)
	assert.Equal(t, notification.TypeSalaryPaid, got.Type)
	assert.Contains(t, got.Message, "6000.00")

	bus.Wait()
}

func TestStop_IsIdempotent(t *testing.T) {
	svc := NewNotificationService(sse.NewHub(), Config{})
	svc.Stop()
	svc.Stop()
}
