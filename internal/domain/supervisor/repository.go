package supervisor

import "context"

// EdgeRepository looks up a user's escalation chain.
type EdgeRepository interface {
	// GetAt returns the edge at the given authority order for the user,
	// or ErrNoSupervisorAtLevel.
	GetAt(ctx context.Context, userID string, authorityOrder int) (Edge, error)

	// GetEdge returns the edge between user and a specific supervisor,
	// or ErrNotSupervisorOf.
	GetEdge(ctx context.Context, userID, supervisorID string) (Edge, error)

	// ListForUser returns the full chain ordered by authority.
	ListForUser(ctx context.Context, userID string) ([]Edge, error)

	// ListSubordinates returns the edges where the given user is the
	// supervisor.
	ListSubordinates(ctx context.Context, supervisorID string) ([]Edge, error)
}
