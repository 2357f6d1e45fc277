package reconcile

import (
	"context"
	"errors"
	"testing"

	"cms-sync/core/nodestore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingStore wraps a MemoryStore and records the order of mutations.
type recordingStore struct {
	*nodestore.MemoryStore
	ops       []string
	deleteErr error
}

func newRecordingStore() *recordingStore {
	return &recordingStore{MemoryStore: nodestore.NewMemoryStore()}
}

func (s *recordingStore) CreateNode(ctx context.Context, node nodestore.Node) error {
	s.ops = append(s.ops, "create:"+node.ID)
	return s.MemoryStore.CreateNode(ctx, node)
}

func (s *recordingStore) DeleteNode(ctx context.Context, id string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.ops = append(s.ops, "delete:"+id)
	return s.MemoryStore.DeleteNode(ctx, id)
}

// batchStore additionally implements BatchDeleter.
type batchStore struct {
	*recordingStore
	batches [][]string
}

func (s *batchStore) DeleteNodes(ctx context.Context, ids []string) error {
	s.batches = append(s.batches, ids)
	for _, id := range ids {
		if err := s.MemoryStore.DeleteNode(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func seed(t *testing.T, s nodestore.NodeStore, ids ...string) {
	for _, n := range nodes(ids...) {
		require.NoError(t, s.CreateNode(context.Background(), n))
	}
}

func TestApplyPlan_CreatesThenDeletes(t *testing.T) {
	ctx := context.Background()
	store := newRecordingStore()
	seed(t, store.MemoryStore, "A", "B", "C")

	existing, err := store.GetNodesByOwner(ctx, "cms-sync")
	require.NoError(t, err)

	plan := BuildPlan(nodes("B", "C", "D"), nil, existing)
	executed, err := ApplyPlan(ctx, store, plan, ReconcileOptions{})
	require.NoError(t, err)

	assert.Equal(t, 4, executed)
	assert.Equal(t, []string{"create:B", "create:C", "create:D", "delete:A"}, store.ops)

	owned, err := store.GetNodesByOwner(ctx, "cms-sync")
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "C", "D"}, []string{owned[0].ID, owned[1].ID, owned[2].ID})
}

func TestApplyPlan_DryRun(t *testing.T) {
	store := newRecordingStore()
	plan := BuildPlan(nodes("A"), nil, nodes("Z"))

	executed, err := ApplyPlan(context.Background(), store, plan, ReconcileOptions{DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, 0, executed)
	assert.Empty(t, store.ops)
}

func TestApplyPlan_UsesBatchDeletion(t *testing.T) {
	ctx := context.Background()
	store := &batchStore{recordingStore: newRecordingStore()}
	seed(t, store.MemoryStore, "A", "B", "C")
	existing, _ := store.GetNodesByOwner(ctx, "cms-sync")

	plan := BuildPlan(nodes("C"), nil, existing)
	executed, err := ApplyPlan(ctx, store, plan, ReconcileOptions{})
	require.NoError(t, err)

	assert.Equal(t, 3, executed)
	require.Len(t, store.batches, 1)
	assert.Equal(t, []string{"A", "B"}, store.batches[0])
	assert.Equal(t, []string{"create:C"}, store.ops)
}

func TestApplyPlan_DeleteError(t *testing.T) {
	store := newRecordingStore()
	store.deleteErr = errors.New("database is locked")

	plan := BuildPlan(nodes("A"), nil, nodes("Z"))
	executed, err := ApplyPlan(context.Background(), store, plan, ReconcileOptions{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to delete node Z")
	assert.ErrorContains(t, err, "database is locked")
	assert.Equal(t, 1, executed)
}

func TestApplyPlan_NilPlan(t *testing.T) {
	executed, err := ApplyPlan(context.Background(), newRecordingStore(), nil, ReconcileOptions{})
	assert.NoError(t, err)
	assert.Equal(t, 0, executed)
}
