package preapproval

import (
	"context"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/approval"
)

type Repository interface {
	Create(ctx context.Context, req Overtime) (Overtime, error)
	Update(ctx context.Context, req Overtime) error
	GetByID(ctx context.Context, id string) (Overtime, error)
	GetOpenForDate(ctx context.Context, senderID string, date time.Time) (*Overtime, error)

	// ListConvertible returns requests in the given status that have no
	// overtime entry yet.
	ListConvertible(ctx context.Context, status approval.Status) ([]Overtime, error)

	CreateHistory(ctx context.Context, history History) error
	ListHistories(ctx context.Context, requestID string) ([]History, error)

	// SumWindow aggregates pre-approved durations inside a window,
	// preferring the generated claim's claimed value over the requested
	// duration; declined and cancelled requests are skipped.
	SumWindow(ctx context.Context, senderID string, from, to time.Time, excludeID string) (time.Duration, error)
}
