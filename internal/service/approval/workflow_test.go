package approval

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/approval"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/supervisor"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEdges serves a fixed escalation chain per user.
type fakeEdges struct {
	chains map[string][]supervisor.Edge
}

func (f *fakeEdges) GetAt(_ context.Context, userID string, order int) (supervisor.Edge, error) {
	for _, e := range f.chains[userID] {
		if e.AuthorityOrder == order {
			return e, nil
		}
	}
	return supervisor.Edge{}, supervisor.ErrNoSupervisorAtLevel
}

func (f *fakeEdges) GetEdge(_ context.Context, userID, supervisorID string) (supervisor.Edge, error) {
	for _, e := range f.chains[userID] {
		if e.SupervisorID == supervisorID {
			return e, nil
		}
	}
	return supervisor.Edge{}, supervisor.ErrNotSupervisorOf
}

func (f *fakeEdges) ListForUser(_ context.Context, userID string) ([]supervisor.Edge, error) {
	return f.chains[userID], nil
}

func (f *fakeEdges) ListSubordinates(_ context.Context, supervisorID string) ([]supervisor.Edge, error) {
	var out []supervisor.Edge
	for _, chain := range f.chains {
		for _, e := range chain {
			if e.SupervisorID == supervisorID {
				out = append(out, e)
			}
		}
	}
	return out, nil
}

// testRequest is a minimal approval.Request for driving the engine.
type testRequest struct {
	id        string
	sender    string
	recipient string
	status    approval.Status
}

func (r *testRequest) RequestID() string                  { return r.id }
func (r *testRequest) SenderID() string                   { return r.sender }
func (r *testRequest) RecipientID() string                { return r.recipient }
func (r *testRequest) CurrentStatus() approval.Status     { return r.status }
func (r *testRequest) SetCurrentStatus(s approval.Status) { r.status = s }
func (r *testRequest) SetRecipient(id string)             { r.recipient = id }

func chainEngine() *Engine {
	return NewEngine(&fakeEdges{chains: map[string][]supervisor.Edge{
		"emp": {
			{UserID: "emp", SupervisorID: "sup1", AuthorityOrder: 1, Approve: false, Deny: true, Forward: true},
			{UserID: "emp", SupervisorID: "sup2", AuthorityOrder: 2, Approve: true, Deny: true, Forward: true},
		},
		"loner": {},
	}})
}

func employee(id string) user.User    { return user.User{ID: id, Role: user.RoleEmployee} }
func supervisorU(id string) user.User { return user.User{ID: id, Role: user.RoleSupervisor} }
func hr(id string) user.User          { return user.User{ID: id, Role: user.RoleHR} }

func TestTransition_RequestRoutesToFirstSupervisor(t *testing.T) {
	engine := chainEngine()
	req := &testRequest{id: "r1", sender: "emp", recipient: "emp", status: approval.StatusUnclaimed}

	entry, err := engine.Transition(context.Background(), req, employee("emp"), approval.ModeSelf, approval.StatusRequested, ClaimPolicy(), "")
	require.NoError(t, err)

	assert.Equal(t, approval.StatusRequested, req.status)
	assert.Equal(t, "sup1", req.recipient)
	assert.Equal(t, "emp", entry.ActorID)
	assert.Equal(t, approval.StatusRequested, entry.Action)
}

func TestTransition_RequestWithoutChainFails(t *testing.T) {
	engine := chainEngine()
	req := &testRequest{id: "r1", sender: "loner", recipient: "loner", status: approval.StatusUnclaimed}

	_, err := engine.Transition(context.Background(), req, employee("loner"), approval.ModeSelf, approval.StatusRequested, ClaimPolicy(), "")
	assert.ErrorIs(t, err, approval.ErrNoSupervisorChain)
	assert.Equal(t, approval.StatusUnclaimed, req.status, "failed transition must not mutate the request")
}

func TestTransition_ForwardWalksTheChain(t *testing.T) {
	engine := chainEngine()
	req := &testRequest{id: "r1", sender: "emp", recipient: "sup1", status: approval.StatusRequested}

	_, err := engine.Transition(context.Background(), req, supervisorU("sup1"), approval.ModeSupervisor, approval.StatusForwarded, ClaimPolicy(), "")
	require.NoError(t, err)
	assert.Equal(t, "sup2", req.recipient)

	// sup2 is the last level; forwarding again has nowhere to go
	_, err = engine.Transition(context.Background(), req, supervisorU("sup2"), approval.ModeSupervisor, approval.StatusForwarded, ClaimPolicy(), "")
	assert.ErrorIs(t, err, approval.ErrNoNextSupervisor)
}

func TestTransition_EdgeFlagGatesAction(t *testing.T) {
	engine := chainEngine()
	// sup1 may deny and forward but not approve
	req := &testRequest{id: "r1", sender: "emp", recipient: "sup1", status: approval.StatusRequested}

	_, err := engine.Transition(context.Background(), req, supervisorU("sup1"), approval.ModeSupervisor, approval.StatusApproved, ClaimPolicy(), "")
	var permErr *approval.PermissionError
	require.ErrorAs(t, err, &permErr)
	assert.Equal(t, approval.StatusApproved, permErr.Action)

	_, err = engine.Transition(context.Background(), req, supervisorU("sup1"), approval.ModeSupervisor, approval.StatusDeclined, ClaimPolicy(), "denied")
	assert.NoError(t, err)
}

func TestTransition_NonRecipientRejected(t *testing.T) {
	engine := chainEngine()
	req := &testRequest{id: "r1", sender: "emp", recipient: "sup1", status: approval.StatusRequested}

	_, err := engine.Transition(context.Background(), req, supervisorU("sup2"), approval.ModeSupervisor, approval.StatusDeclined, ClaimPolicy(), "")
	assert.ErrorIs(t, err, approval.ErrNotRecipient)
}

func TestTransition_HRBypassesRecipientForDecisions(t *testing.T) {
	engine := chainEngine()
	req := &testRequest{id: "r1", sender: "emp", recipient: "sup1", status: approval.StatusRequested}

	_, err := engine.Transition(context.Background(), req, hr("hr1"), approval.ModeHR, approval.StatusApproved, ClaimPolicy(), "")
	require.NoError(t, err)
	assert.Equal(t, approval.StatusApproved, req.status)
	assert.Equal(t, "sup1", req.recipient, "decisions keep the recipient for history")
}

func TestTransition_HRMayNotForward(t *testing.T) {
	engine := chainEngine()
	req := &testRequest{id: "r1", sender: "emp", recipient: "sup1", status: approval.StatusRequested}

	_, err := engine.Transition(context.Background(), req, hr("hr1"), approval.ModeHR, approval.StatusForwarded, ClaimPolicy(), "")
	assert.ErrorIs(t, err, approval.ErrModeNotAllowed)
}

func TestTransition_CancelIsSenderOnlyAndRoutesBack(t *testing.T) {
	engine := chainEngine()
	req := &testRequest{id: "r1", sender: "emp", recipient: "sup1", status: approval.StatusRequested}

	_, err := engine.Transition(context.Background(), req, supervisorU("sup1"), approval.ModeSelf, approval.StatusCancelled, RequestPolicy(), "")
	assert.ErrorIs(t, err, approval.ErrCancelNotSender)

	_, err = engine.Transition(context.Background(), req, employee("emp"), approval.ModeSelf, approval.StatusCancelled, RequestPolicy(), "changed my mind")
	require.NoError(t, err)
	assert.Equal(t, approval.StatusCancelled, req.status)
	assert.Equal(t, "emp", req.recipient)
}

func TestTransition_SupervisorCancellingOwnRequestAsSelf(t *testing.T) {
	// A supervisor who filed their own request cancels it in self mode;
	// supervisor mode is blocked for Cancelled.
	engine := NewEngine(&fakeEdges{chains: map[string][]supervisor.Edge{
		"sup1": {{UserID: "sup1", SupervisorID: "boss", AuthorityOrder: 1, Approve: true, Deny: true, Forward: false}},
	}})
	req := &testRequest{id: "r1", sender: "sup1", recipient: "boss", status: approval.StatusRequested}

	_, err := engine.Transition(context.Background(), req, supervisorU("sup1"), approval.ModeSupervisor, approval.StatusCancelled, RequestPolicy(), "")
	assert.ErrorIs(t, err, approval.ErrModeNotAllowed)

	_, err = engine.Transition(context.Background(), req, supervisorU("sup1"), approval.ModeSelf, approval.StatusCancelled, RequestPolicy(), "")
	assert.NoError(t, err)
}

func TestTransition_OrderViolations(t *testing.T) {
	engine := chainEngine()

	// an approved request cannot be cancelled
	req := &testRequest{id: "r1", sender: "emp", recipient: "sup2", status: approval.StatusApproved}
	_, err := engine.Transition(context.Background(), req, employee("emp"), approval.ModeSelf, approval.StatusCancelled, RequestPolicy(), "")
	var orderErr *approval.OrderError
	require.ErrorAs(t, err, &orderErr)
	assert.Equal(t, approval.StatusApproved, orderErr.Existing)

	// claims cannot skip Unclaimed straight to Approved
	claim := &testRequest{id: "c1", sender: "emp", recipient: "emp", status: approval.StatusUnclaimed}
	_, err = engine.Transition(context.Background(), claim, hr("hr1"), approval.ModeHR, approval.StatusApproved, ClaimPolicy(), "")
	assert.ErrorAs(t, err, &orderErr)
}

func TestTransition_DeclinedClaimMayBeReRequested(t *testing.T) {
	engine := chainEngine()
	req := &testRequest{id: "c1", sender: "emp", recipient: "sup1", status: approval.StatusDeclined}

	_, err := engine.Transition(context.Background(), req, employee("emp"), approval.ModeSelf, approval.StatusRequested, ClaimPolicy(), "fixed the remarks")
	require.NoError(t, err)
	assert.Equal(t, "sup1", req.recipient, "re-request routes to the level-1 supervisor again")
}

func TestTransition_SystemActorBypassesAllChecks(t *testing.T) {
	engine := chainEngine()
	req := &testRequest{id: "r1", sender: "loner", recipient: "sup1", status: approval.StatusApproved}

	_, err := engine.Transition(context.Background(), req, user.SystemActor(), approval.ModeHR, approval.StatusConfirmed, ClaimPolicy(), "")
	assert.NoError(t, err)
}
