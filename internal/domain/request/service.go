package request

import "context"

type RequestService interface {
	CreateRequest(ctx context.Context, req CreateRequestRequest) (RequestResponse, error)

	// ApproveRequest approves a pending request, recalculates the affected
	// month and publishes the type-specific approval event.
	ApproveRequest(ctx context.Context, req ApproveRequestRequest) (RequestResponse, error)

	RejectRequest(ctx context.Context, req RejectRequestRequest) (RequestResponse, error)
	GetRequest(ctx context.Context, id string) (RequestResponse, error)
	ListRequests(ctx context.Context, filter RequestFilter) ([]RequestResponse, error)
}
