package notification

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/shrms-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/shrms-backend-go/internal/pkg/sse"
)

const eventName = "notification"

// Config holds notification service configuration
type Config struct {
	WorkerCount int // default: 2
	QueueSize   int // default: 1000
}

type service struct {
	hub    *sse.Hub
	config Config
	now    func() time.Time

	queue    chan notification.Notification
	wg       sync.WaitGroup
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewNotificationService creates a new notification service with background workers
func NewNotificationService(hub *sse.Hub, cfg Config) notification.Service {
	if cfg.WorkerCount == 0 {
		cfg.WorkerCount = 2
	}
	if cfg.QueueSize == 0 {
		cfg.QueueSize = 1000
	}

	s := &service{
		hub:    hub,
		config: cfg,
		now:    time.Now,
		queue:  make(chan notification.Notification, cfg.QueueSize),
		stopCh: make(chan struct{}),
	}

	for i := 0; i < cfg.WorkerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	slog.Info("Notification service started", "workers", cfg.WorkerCount, "queue_size", cfg.QueueSize)
	return s
}

func (s *service) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case n := <-s.queue:
			s.deliver(n)
		case <-s.stopCh:
			// Drain what is already queued.
			for {
				select {
				case n := <-s.queue:
					s.deliver(n)
				default:
					slog.Debug("Notification worker stopped", "worker", id)
					return
				}
			}
		}
	}
}

func (s *service) deliver(n notification.Notification) {
	topics := []string{notification.AdminTopic}
	if n.RecipientID != "" {
		topics = append(topics, n.RecipientID)
	}
	s.hub.PublishToMany(topics, sse.Event{Event: eventName, Data: n})
}

// Notify queues a notification for async delivery
func (s *service) Notify(ctx context.Context, n notification.Notification) error {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = s.now()
	}

	select {
	case s.queue <- n:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		// Queue full, deliver inline
		s.deliver(n)
		return nil
	}
}

// Subscribe creates an SSE subscription for an employee
func (s *service) Subscribe(ctx context.Context, employeeID string, admin bool) (<-chan notification.Notification, func()) {
	topics := []string{employeeID}
	if admin {
		topics = append(topics, notification.AdminTopic)
	}
	ch, cleanup := s.hub.Subscribe(topics...)

	out := make(chan notification.Notification, 10)

	go func() {
		defer close(out)
		for {
			select {
			case event, ok := <-ch:
				if !ok {
					return
				}
				n, ok := event.Data.(notification.Notification)
				if !ok {
					continue
				}
				// Own notifications also arrive on the employee topic.
				if event.Topic == notification.AdminTopic && n.RecipientID == employeeID {
					continue
				}
				select {
				case out <- n:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, cleanup
}

// Stop gracefully stops the notification service
func (s *service) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
		s.wg.Wait()
		slog.Info("Notification service stopped")
	})
}
