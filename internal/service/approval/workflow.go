package approval

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/approval"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/supervisor"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/user"
	"github.com/google/uuid"
)

// Policy parameterizes the engine per request kind. The state machine
// itself is shared; kinds differ only in their successor table and in
// which actions HR may perform without being the recipient.
type Policy struct {
	Successors         approval.SuccessorTable
	InvalidModeActions map[approval.Status][]approval.Mode
	// HRBypass lists the target statuses HR may drive without being
	// the current recipient.
	HRBypass []approval.Status
}

// ClaimPolicy governs overtime claims.
func ClaimPolicy() Policy {
	return Policy{
		Successors:         approval.ClaimSuccessors,
		InvalidModeActions: approval.InvalidModeActions,
		HRBypass:           []approval.Status{approval.StatusApproved, approval.StatusDeclined, approval.StatusConfirmed},
	}
}

// RequestPolicy governs pre-approvals, credit-hour, travel and delete
// requests.
func RequestPolicy() Policy {
	return Policy{
		Successors:         approval.RequestSuccessors,
		InvalidModeActions: approval.InvalidModeActions,
		HRBypass:           []approval.Status{approval.StatusApproved, approval.StatusDeclined, approval.StatusConfirmed},
	}
}

// Engine validates and applies workflow transitions. It mutates the
// request in memory and hands back the history row; persisting both in
// one transaction is the caller's job.
type Engine struct {
	edges supervisor.EdgeRepository
}

func NewEngine(edges supervisor.EdgeRepository) *Engine {
	return &Engine{edges: edges}
}

// NextRecipient resolves who a request routes to after newStatus is
// applied, before the request is mutated.
func (e *Engine) NextRecipient(ctx context.Context, req approval.Request, newStatus approval.Status) (string, error) {
	switch newStatus {
	case approval.StatusRequested:
		edge, err := e.edges.GetAt(ctx, req.SenderID(), 1)
		if err != nil {
			if errors.Is(err, supervisor.ErrNoSupervisorAtLevel) {
				return "", approval.ErrNoSupervisorChain
			}
			return "", fmt.Errorf("failed to resolve first supervisor: %w", err)
		}
		return edge.SupervisorID, nil
	case approval.StatusForwarded:
		// The next level is looked up by the current recipient's
		// authority on the sender, not by who is acting.
		current, err := e.edges.GetEdge(ctx, req.SenderID(), req.RecipientID())
		if err != nil {
			return "", fmt.Errorf("failed to resolve current authority: %w", err)
		}
		next, err := e.edges.GetAt(ctx, req.SenderID(), current.AuthorityOrder+1)
		if err != nil {
			if errors.Is(err, supervisor.ErrNoSupervisorAtLevel) {
				return "", approval.ErrNoNextSupervisor
			}
			return "", fmt.Errorf("failed to resolve next supervisor: %w", err)
		}
		return next.SupervisorID, nil
	case approval.StatusCancelled:
		return req.SenderID(), nil
	default:
		// Terminal decisions keep the recipient so history shows who
		// acted.
		return req.RecipientID(), nil
	}
}

// ValidateActor enforces who may drive the transition. HR bypasses the
// recipient check for the policy's bypass statuses only; everyone else
// must be the current recipient and hold the matching flag on the
// supervisor edge. Cancel is always sender-only.
func (e *Engine) ValidateActor(ctx context.Context, req approval.Request, actor user.User, mode approval.Mode, to approval.Status, policy Policy) error {
	if actor.IsSystem() {
		return nil
	}
	if to == approval.StatusCancelled {
		if actor.ID != req.SenderID() {
			return approval.ErrCancelNotSender
		}
		return nil
	}
	if to == approval.StatusRequested {
		// Initial request or re-request after decline.
		if actor.ID != req.SenderID() {
			return approval.ErrCancelNotSender
		}
		return nil
	}
	if mode == approval.ModeHR && actor.IsHR() {
		for _, s := range policy.HRBypass {
			if s == to {
				return nil
			}
		}
	}
	if actor.ID != req.RecipientID() {
		return approval.ErrNotRecipient
	}
	edge, err := e.edges.GetEdge(ctx, req.SenderID(), actor.ID)
	if err != nil {
		if errors.Is(err, supervisor.ErrNotSupervisorOf) {
			return approval.ErrNotRecipient
		}
		return fmt.Errorf("failed to load supervisor edge: %w", err)
	}
	switch to {
	case approval.StatusForwarded:
		if !edge.Forward {
			return &approval.PermissionError{Action: approval.StatusForwarded}
		}
	case approval.StatusApproved:
		if !edge.Approve {
			return &approval.PermissionError{Action: approval.StatusApproved}
		}
	case approval.StatusDeclined:
		if !edge.Deny {
			return &approval.PermissionError{Action: approval.StatusDeclined}
		}
	}
	return nil
}

// Transition validates ordering, mode and actor, resolves the new
// recipient, mutates the request and returns the history row to
// persist alongside it. On any error the request is left untouched.
func (e *Engine) Transition(ctx context.Context, req approval.Request, actor user.User, mode approval.Mode, to approval.Status, policy Policy, remark string) (approval.HistoryEntry, error) {
	from := req.CurrentStatus()
	if !policy.Successors.Allows(from, to) {
		return approval.HistoryEntry{}, &approval.OrderError{Existing: from, Performed: to}
	}
	if !actor.IsSystem() && !approval.ModeAllowed(policy.InvalidModeActions, to, mode) {
		return approval.HistoryEntry{}, approval.ErrModeNotAllowed
	}
	if err := e.ValidateActor(ctx, req, actor, mode, to, policy); err != nil {
		return approval.HistoryEntry{}, err
	}
	recipient, err := e.NextRecipient(ctx, req, to)
	if err != nil {
		return approval.HistoryEntry{}, err
	}

	req.SetCurrentStatus(to)
	req.SetRecipient(recipient)

	return approval.HistoryEntry{
		ID:          uuid.NewString(),
		RequestID:   req.RequestID(),
		ActorID:     actor.ID,
		RecipientID: recipient,
		Action:      to,
		Remark:      remark,
		CreatedAt:   time.Now(),
	}, nil
}
