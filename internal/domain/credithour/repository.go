package credithour

import (
	"context"
	"time"
)

type Repository interface {
	GetSetting(ctx context.Context, id string) (Setting, error)

	CreateRequest(ctx context.Context, req Request) (Request, error)
	UpdateRequest(ctx context.Context, req Request) error
	GetRequest(ctx context.Context, id string) (Request, error)

	// GetOpenRequest returns the non-terminal, non-deleted request for
	// (sender, date), or nil.
	GetOpenRequest(ctx context.Context, senderID string, date time.Time) (*Request, error)

	// ListUngranted returns approved, active requests without a credit
	// entry yet.
	ListUngranted(ctx context.Context) ([]Request, error)

	CreateRequestHistory(ctx context.Context, history History) error
	ListRequestHistories(ctx context.Context, requestID string) ([]History, error)

	CreateEntry(ctx context.Context, entry TimeSheetEntry) (TimeSheetEntry, error)
	UpdateEntry(ctx context.Context, entry TimeSheetEntry) error
	GetEntry(ctx context.Context, id string) (TimeSheetEntry, error)

	CreateDeleteRequest(ctx context.Context, req DeleteRequest) (DeleteRequest, error)
	UpdateDeleteRequest(ctx context.Context, req DeleteRequest) error
	GetDeleteRequest(ctx context.Context, id string) (DeleteRequest, error)
	GetOpenDeleteRequest(ctx context.Context, requestID string) (*DeleteRequest, error)
	CreateDeleteRequestHistory(ctx context.Context, history History) error

	// SumWindow aggregates credit durations for a sender inside a
	// window, skipping declined/cancelled/deleted requests; a request
	// with a consumed credit entry contributes the entry's earned value
	// instead of the requested one. excludeID skips the instance being
	// edited.
	SumWindow(ctx context.Context, senderID string, from, to time.Time, excludeID string) (time.Duration, error)
}
