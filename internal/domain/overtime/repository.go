package overtime

import (
	"context"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/approval"
)

type Repository interface {
	GetSetting(ctx context.Context, id string) (Setting, error)

	CreateEntry(ctx context.Context, entry Entry) (Entry, error)
	GetEntryByID(ctx context.Context, id string) (Entry, error)
	GetEntryByTimeSheet(ctx context.Context, timeSheetID string) (*Entry, error)

	CreateDetail(ctx context.Context, detail EntryDetail) (EntryDetail, error)
	UpdateDetail(ctx context.Context, detail EntryDetail) error
	GetDetailByEntry(ctx context.Context, entryID string) (EntryDetail, error)
	CreateDetailHistory(ctx context.Context, history EntryDetailHistory) error

	CreateClaim(ctx context.Context, claim Claim) (Claim, error)
	UpdateClaim(ctx context.Context, claim Claim) error
	GetClaim(ctx context.Context, id string) (Claim, error)
	GetClaimByEntry(ctx context.Context, entryID string) (*Claim, error)
	CreateClaimHistory(ctx context.Context, history ClaimHistory) error
	ListClaimHistories(ctx context.Context, claimID string) ([]ClaimHistory, error)

	// ListExpirableClaims returns unarchived claims in the given
	// statuses created on or before the cutoff.
	ListExpirableClaims(ctx context.Context, statuses []approval.Status, cutoff time.Time) ([]Claim, error)
	ArchiveClaim(ctx context.Context, claimID string) error

	// SumWindow aggregates claimed overtime for a sender inside a
	// window, skipping declined/cancelled claims; entries without a
	// claimed value contribute their raw earned duration.
	SumWindow(ctx context.Context, senderID string, from, to time.Time, excludeEntryID string) (time.Duration, error)
}
