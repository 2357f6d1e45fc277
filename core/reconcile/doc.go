// Package reconcile computes and applies the node changes of a sync run.
//
// A run materializes every content node it fetched, links the file nodes its
// media resolved to, and must then remove the owned nodes the source no longer
// produces. BuildPlan compares three inputs with in-memory indices:
//
//   - the nodes built this run (always created)
//   - the file node ids referenced this run (kept)
//   - the owned nodes currently in the store
//
// ApplyPlan executes creates before deletes. Stores implementing BatchDeleter
// delete in one call.
//
// # Usage Example
//
//	existing, err := store.GetNodesByOwner(ctx, owner)
//	plan := reconcile.BuildPlan(nodes, result.FileNodeIDs, existing)
//	executed, err := reconcile.ApplyPlan(ctx, store, plan, reconcile.ReconcileOptions{DryRun: dryRun})
package reconcile
