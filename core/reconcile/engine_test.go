package reconcile

import (
	"testing"

	"cms-sync/core/nodestore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nodes(ids ...string) []nodestore.Node {
	out := make([]nodestore.Node, 0, len(ids))
	for _, id := range ids {
		out = append(out, nodestore.NewNode(id, "Article", "cms-sync", map[string]any{"id": id}))
	}
	return out
}

func keys(actions []Action) []string {
	out := make([]string, 0, len(actions))
	for _, a := range actions {
		out = append(out, a.Key)
	}
	return out
}

func TestBuildPlan_DeletesStaleNodes(t *testing.T) {
	plan := BuildPlan(nodes("B", "C", "D"), nil, nodes("A", "B", "C"))

	assert.Equal(t, []string{"B", "C", "D"}, keys(plan.Creates()))
	assert.Equal(t, []string{"A"}, keys(plan.Deletes()))

	assert.Equal(t, 3, plan.Summary.Existing)
	assert.Equal(t, 3, plan.Summary.CreateActions)
	assert.Equal(t, 1, plan.Summary.DeleteActions)
	assert.Equal(t, 2, plan.Summary.Kept)
}

func TestBuildPlan_KeepsReferencedFiles(t *testing.T) {
	existing := append(nodes("Article_1"), nodestore.NewNode("file-1", "File", "cms-sync", nil), nodestore.NewNode("file-2", "File", "cms-sync", nil))

	plan := BuildPlan(nodes("Article_1"), []string{"file-1", "file-1"}, existing)

	assert.Equal(t, []string{"file-2"}, keys(plan.Deletes()))
	assert.Equal(t, 1, plan.Summary.Referenced)
	assert.Equal(t, 2, plan.Summary.Kept)
}

func TestBuildPlan_CreatesBeforeDeletes(t *testing.T) {
	plan := BuildPlan(nodes("X"), nil, nodes("Z", "Y"))

	require.Len(t, plan.Actions, 3)
	assert.Equal(t, ActionCreate, plan.Actions[0].Type)
	assert.Equal(t, ActionDelete, plan.Actions[1].Type)
	assert.Equal(t, "Y", plan.Actions[1].Key)
	assert.Equal(t, "Z", plan.Actions[2].Key)
}

func TestBuildPlan_CreatesAreUnconditional(t *testing.T) {
	plan := BuildPlan(nodes("A"), nil, nodes("A"))

	require.Len(t, plan.Creates(), 1)
	assert.Empty(t, plan.Deletes())
	assert.NotNil(t, plan.Creates()[0].Node)
	assert.Equal(t, "A", plan.Creates()[0].Node.ID)
}

func TestBuildPlan_EmptyRunDeletesEverything(t *testing.T) {
	plan := BuildPlan(nil, nil, nodes("A", "B"))

	assert.Empty(t, plan.Creates())
	assert.Equal(t, []string{"A", "B"}, keys(plan.Deletes()))
}

func TestBuildPlan_NodePointersAreDistinct(t *testing.T) {
	plan := BuildPlan(nodes("A", "B"), nil, nil)

	creates := plan.Creates()
	require.Len(t, creates, 2)
	assert.Equal(t, "A", creates[0].Node.ID)
	assert.Equal(t, "B", creates[1].Node.ID)
}
