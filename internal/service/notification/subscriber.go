package notification

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/shrms-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/shrms-backend-go/internal/domain/request"
	"github.com/cmlabs-hris/shrms-backend-go/internal/domain/salary"
	"github.com/cmlabs-hris/shrms-backend-go/internal/pkg/eventbus"
)

// Subscribe forwards salary and request events to the notification service.
// Handlers are asynchronous and never fail the publisher.
func Subscribe(bus *eventbus.Bus, svc notification.Service) {
	eventbus.SubscribeAsync(bus, func(ctx context.Context, e salary.RecalculatedEvent) error {
		snap := e.Snapshot
		return svc.Notify(ctx, notification.Notification{
			RecipientID: snap.EmployeeID,
			Type:        notification.TypeSalaryRecalculated,
			Title:       "Salary updated",
			Message:     fmt.Sprintf("Your salary for %s is now %s", snap.Month, snap.FinalSalary.StringFixed(2)),
			Data: map[string]interface{}{
				"snapshot_id":  snap.ID,
				"month":        snap.Month,
				"final_salary": snap.FinalSalary.StringFixed(2),
			},
		})
	})

	eventbus.SubscribeAsync(bus, func(ctx context.Context, e salary.PaidEvent) error {
		return svc.Notify(ctx, notification.Notification{
			RecipientID: e.EmployeeID,
			Type:        notification.TypeSalaryPaid,
			Title:       "Salary paid",
			Message:     fmt.Sprintf("Your salary of %s for %s has been paid", e.FinalSalary.StringFixed(2), e.Month),
			Data: map[string]interface{}{
				"snapshot_id":  e.Snapshot.ID,
				"month":        e.Month,
				"final_salary": e.FinalSalary.StringFixed(2),
			},
		})
	})

	eventbus.SubscribeAsync(bus, func(ctx context.Context, e request.AdvanceApproved) error {
		return svc.Notify(ctx, approvedNotification(notification.TypeAdvanceApproved, "Advance approved", e.Approved))
	})
	eventbus.SubscribeAsync(bus, func(ctx context.Context, e request.BonusApproved) error {
		return svc.Notify(ctx, approvedNotification(notification.TypeBonusApproved, "Bonus approved", e.Approved))
	})
	eventbus.SubscribeAsync(bus, func(ctx context.Context, e request.DeductionApproved) error {
		return svc.Notify(ctx, approvedNotification(notification.TypeDeductionApproved, "Deduction applied", e.Approved))
	})
}

func approvedNotification(t notification.NotificationType, title string, a request.Approved) notification.Notification {
	return notification.Notification{
		RecipientID: a.EmployeeID,
		Type:        t,
		Title:       title,
		Message:     fmt.Sprintf("%s of %s for %s", title, a.Amount.StringFixed(2), a.Month),
		Data: map[string]interface{}{
			"request_id": a.RequestID,
			"amount":     a.Amount.StringFixed(2),
			"month":      a.Month,
		},
	}
}
