package ledger

import (
	"context"
	"errors"

	"github.com/cmlabs-hris/shrms-backend-go/internal/domain/ledger"
	"github.com/cmlabs-hris/shrms-backend-go/internal/domain/request"
	"github.com/cmlabs-hris/shrms-backend-go/internal/domain/salary"
	"github.com/cmlabs-hris/shrms-backend-go/internal/pkg/eventbus"
)

// Subscribe wires payouts to salary payments and advance approvals. Both run
// synchronously in the publisher's call. A disabled integration is not an
// error for the publisher.
func Subscribe(bus *eventbus.Bus, svc ledger.LedgerService) {
	eventbus.Subscribe(bus, func(ctx context.Context, e salary.PaidEvent) error {
		_, err := svc.PayoutSalary(ctx, e.Snapshot, e.VaultID, e.PaidBy)
		return ignoreDisabled(err)
	})

	eventbus.Subscribe(bus, func(ctx context.Context, e request.AdvanceApproved) error {
		approver := e.ApproverID
		_, err := svc.PayoutAdvance(ctx, ledger.AdvancePayout{
			EmployeeID: e.EmployeeID,
			Amount:     e.Amount,
			RequestID:  e.RequestID,
			VaultID:    e.VaultID,
			ActorID:    &approver,
		})
		return ignoreDisabled(err)
	})
}

func ignoreDisabled(err error) error {
	if errors.Is(err, ledger.ErrIntegrationUnavailable) {
		return nil
	}
	return err
}
