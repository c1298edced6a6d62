package inmemorystore

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/visualgrid/internal/model"
	"github.com/vk/visualgrid/internal/nodeid"
	"github.com/zclconf/go-cty/cty"
)

func newEntry(t *testing.T) *model.Node {
	t.Helper()
	return model.NewEntryNode(nodeid.New(), model.EntryDefinition{ID: "main"})
}

func TestAddAndGet(t *testing.T) {
	s := New()
	n := newEntry(t)

	// Lookup before insert
	_, ok := s.Get(n.ID)
	assert.False(t, ok)

	require.NoError(t, s.Add(n))

	got, ok := s.Get(n.ID)
	require.True(t, ok)
	assert.Same(t, n, got)
	assert.Equal(t, 1, s.Len())
}

func TestAdd_RejectsDuplicates(t *testing.T) {
	s := New()
	n := newEntry(t)
	require.NoError(t, s.Add(n))

	// Same instance twice
	require.ErrorIs(t, s.Add(n), model.ErrDuplicateNode)

	// Different instance, same id
	clash := model.NewEntryNode(n.ID, model.EntryDefinition{ID: "other"})
	require.ErrorIs(t, s.Add(clash), model.ErrDuplicateNode)

	// Same instance with a changed id
	n.ID = nodeid.New()
	require.ErrorIs(t, s.Add(n), model.ErrDuplicateNode)

	assert.Equal(t, 1, s.Len())
}

func TestRemove_PreservesOrder(t *testing.T) {
	s := New()
	nodes := []*model.Node{newEntry(t), newEntry(t), newEntry(t)}
	for _, n := range nodes {
		require.NoError(t, s.Add(n))
	}

	assert.True(t, s.Remove(nodes[1].ID))
	assert.False(t, s.Remove(nodes[1].ID), "second remove is a no-op")

	all := s.All()
	require.Len(t, all, 2)
	assert.Same(t, nodes[0], all[0])
	assert.Same(t, nodes[2], all[1])
}

func TestConcurrentReads(t *testing.T) {
	s := New()
	var ids []nodeid.ID
	for i := 0; i < 50; i++ {
		n, err := model.NewNode(model.EntryNodeType)
		require.NoError(t, err)
		require.NoError(t, s.Add(n))
		ids = append(ids, n.ID)
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for _, id := range ids {
				n, ok := s.Get(id)
				assert.True(t, ok, fmt.Sprintf("worker %d lost node %s", worker, id))
				assert.True(t, n.ResultType() == cty.NilType)
			}
			assert.Len(t, s.All(), len(ids))
		}(i)
	}
	wg.Wait()
}
