package notification

import "context"

// Service pushes notifications to connected event streams.
type Service interface {
	// Notify queues n for delivery. It does not wait for subscribers.
	Notify(ctx context.Context, n Notification) error

	// Subscribe opens a stream for an employee. Admins also receive AdminTopic.
	Subscribe(ctx context.Context, employeeID string, admin bool) (<-chan Notification, func())

	Stop()
}
