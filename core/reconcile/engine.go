package reconcile

import (
	"sort"

	"cms-sync/core/nodestore"
)

// BuildPlan compares the nodes produced by this run against the owned nodes
// already in the store.
//
// Every new node is created unconditionally. An existing node is kept when it
// was produced again or is a file node referenced this run; every other
// existing node is deleted.
func BuildPlan(newNodes []nodestore.Node, referenced []string, existing []nodestore.Node) *ReconcilePlan {
	keep := buildUnion(newNodes, referenced)

	plan := &ReconcilePlan{
		Actions: make([]Action, 0, len(newNodes)),
	}
	plan.Summary.Existing = len(existing)
	plan.Summary.Referenced = countDistinct(referenced)

	for i := range newNodes {
		node := newNodes[i]
		plan.Actions = append(plan.Actions, Action{
			Type:   ActionCreate,
			Key:    node.ID,
			Reason: "produced by run",
			Node:   &node,
		})
		plan.Summary.CreateActions++
	}

	stale := make([]string, 0)
	for _, node := range existing {
		if _, ok := keep[node.ID]; ok {
			plan.Summary.Kept++
			continue
		}
		stale = append(stale, node.ID)
	}

	// Sort deletes for deterministic output
	sort.Strings(stale)
	for _, id := range stale {
		plan.Actions = append(plan.Actions, Action{
			Type:   ActionDelete,
			Key:    id,
			Reason: "no longer produced",
		})
		plan.Summary.DeleteActions++
	}

	return plan
}

// Creates returns the create actions of the plan.
func (p *ReconcilePlan) Creates() []Action {
	return p.filter(ActionCreate)
}

// Deletes returns the delete actions of the plan.
func (p *ReconcilePlan) Deletes() []Action {
	return p.filter(ActionDelete)
}

func (p *ReconcilePlan) filter(t ActionType) []Action {
	var out []Action
	for _, a := range p.Actions {
		if a.Type == t {
			out = append(out, a)
		}
	}
	return out
}

// buildUnion builds the set of ids that must survive the run.
func buildUnion(newNodes []nodestore.Node, referenced []string) map[string]struct{} {
	keep := make(map[string]struct{}, len(newNodes)+len(referenced))
	for _, node := range newNodes {
		keep[node.ID] = struct{}{}
	}
	for _, id := range referenced {
		keep[id] = struct{}{}
	}
	return keep
}

func countDistinct(ids []string) int {
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		seen[id] = struct{}{}
	}
	return len(seen)
}
