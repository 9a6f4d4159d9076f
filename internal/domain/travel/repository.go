package travel

import (
	"context"
	"time"
)

type Repository interface {
	CreateRequest(ctx context.Context, req Request) (Request, error)
	UpdateRequest(ctx context.Context, req Request) error
	GetRequest(ctx context.Context, id string) (Request, error)

	// GetOverlappingOpen returns an open or approved active request for
	// the sender overlapping [start, end], or nil.
	GetOverlappingOpen(ctx context.Context, senderID string, start, end time.Time) (*Request, error)

	CreateRequestHistory(ctx context.Context, history History) error

	// ListWithUnprocessedDays returns approved, active requests that
	// still have unprocessed day rows dated on or before the cutoff.
	ListWithUnprocessedDays(ctx context.Context, until time.Time) ([]Request, error)

	CreateDay(ctx context.Context, day Day) (Day, error)
	UpdateDay(ctx context.Context, day Day) error
	ListDays(ctx context.Context, requestID string) ([]Day, error)
	DeleteDay(ctx context.Context, dayID string) error

	CreateDeleteRequest(ctx context.Context, req DeleteRequest) (DeleteRequest, error)
	UpdateDeleteRequest(ctx context.Context, req DeleteRequest) error
	GetDeleteRequest(ctx context.Context, id string) (DeleteRequest, error)
	GetOpenDeleteRequest(ctx context.Context, requestID string) (*DeleteRequest, error)
	CreateDeleteRequestHistory(ctx context.Context, history History) error
}
