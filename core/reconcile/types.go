package reconcile

import (
	"context"

	"cms-sync/core/nodestore"
)

// ActionType represents the type of mutation action.
type ActionType string

const (
	// ActionCreate creates (or replaces) a node from the current run.
	ActionCreate ActionType = "create"
	// ActionDelete deletes an owned node that is no longer produced.
	ActionDelete ActionType = "delete"
)

// Action represents a planned mutation operation.
type Action struct {
	// Type specifies the action to perform.
	Type ActionType `json:"type"`

	// Key is the node id.
	Key string `json:"key"`

	// Reason explains why this action is needed.
	Reason string `json:"reason"`

	// Node is the node to create. Only populated for ActionCreate.
	Node *nodestore.Node `json:"-"`
}

// ReconcilePlan contains the planned actions of one run.
type ReconcilePlan struct {
	// Actions lists creates first, then deletes.
	Actions []Action `json:"actions"`

	// Summary provides aggregate counts.
	Summary PlanSummary `json:"summary"`
}

// PlanSummary provides aggregate statistics for a reconcile plan.
type PlanSummary struct {
	// Existing is the number of owned nodes before the run.
	Existing int `json:"existing"`

	// Referenced is the number of distinct file nodes referenced this run.
	Referenced int `json:"referenced"`

	// CreateActions counts planned creates.
	CreateActions int `json:"create_actions"`

	// DeleteActions counts planned deletes.
	DeleteActions int `json:"delete_actions"`

	// Kept counts existing nodes that survive the run.
	Kept int `json:"kept"`
}

// ReconcileOptions controls how a plan is applied.
type ReconcileOptions struct {
	// DryRun prevents execution of any mutations if true.
	DryRun bool
}

// BatchDeleter is implemented by stores that can delete many nodes at once.
type BatchDeleter interface {
	DeleteNodes(ctx context.Context, ids []string) error
}
