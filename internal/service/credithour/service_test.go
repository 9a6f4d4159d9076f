package credithour

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/approval"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/credithour"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/notification"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNotifier struct {
	notification.Service
	queued []notification.CreateNotificationRequest
}

func (f *fakeNotifier) QueueNotification(_ context.Context, req notification.CreateNotificationRequest) error {
	f.queued = append(f.queued, req)
	return nil
}

type fakeUsers struct {
	user.UserRepository
	users map[string]user.User
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func notifierService() (*Service, *fakeNotifier) {
	notifier := &fakeNotifier{}
	users := &fakeUsers{users: map[string]user.User{
		"sup1": {ID: "sup1", OrganizationID: "org-1", Role: user.RoleSupervisor},
	}}
	return &Service{users: users, notifier: notifier}, notifier
}

func TestNotifyCreated_RequestedPingsRecipient(t *testing.T) {
	svc, notifier := notifierService()
	req := credithour.Request{
		ID:        "r1",
		Sender:    "emp",
		Recipient: "sup1",
		Status:    approval.StatusRequested,
		Date:      time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		Duration:  time.Hour,
	}

	svc.notifyCreated(context.Background(), req, "emp")

	require.Len(t, notifier.queued, 1)
	assert.Equal(t, "sup1", notifier.queued[0].RecipientID)
	assert.Equal(t, notification.TypeClaimRequested, notifier.queued[0].Type)
}

func TestNotifyCreated_BornApprovedStaysQuiet(t *testing.T) {
	svc, notifier := notifierService()
	req := credithour.Request{
		ID:        "r2",
		Sender:    "emp",
		Recipient: "hr1",
		Status:    approval.StatusApproved,
		Date:      time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		Duration:  time.Hour,
	}

	svc.notifyCreated(context.Background(), req, "hr1")

	assert.Empty(t, notifier.queued)
}
