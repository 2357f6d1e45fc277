package reconcile

import (
	"context"
	"fmt"

	"cms-sync/core/nodestore"
)

// ApplyPlan executes the actions in a reconcile plan.
// Creates run before deletes so a node is never missing between the two.
// Returns the number of actions executed and any error encountered.
func ApplyPlan(ctx context.Context, store nodestore.NodeStore, plan *ReconcilePlan, opts ReconcileOptions) (executed int, err error) {
	if opts.DryRun || plan == nil {
		return 0, nil
	}

	var (
		creates []Action
		deletes []string
	)
	for _, action := range plan.Actions {
		switch action.Type {
		case ActionCreate:
			creates = append(creates, action)
		case ActionDelete:
			deletes = append(deletes, action.Key)
		}
	}

	for _, action := range creates {
		if action.Node == nil {
			continue
		}
		if err := store.CreateNode(ctx, *action.Node); err != nil {
			return executed, fmt.Errorf("failed to create node %s: %w", action.Key, err)
		}
		executed++
	}

	if len(deletes) == 0 {
		return executed, nil
	}

	// Try batch delete first
	if batchDeleter, ok := store.(BatchDeleter); ok {
		if err := batchDeleter.DeleteNodes(ctx, deletes); err != nil {
			return executed, fmt.Errorf("failed to batch delete nodes: %w", err)
		}
		return executed + len(deletes), nil
	}

	// Fallback to one-at-a-time
	for _, id := range deletes {
		if err := store.DeleteNode(ctx, id); err != nil {
			return executed, fmt.Errorf("failed to delete node %s: %w", id, err)
		}
		executed++
	}

	return executed, nil
}
