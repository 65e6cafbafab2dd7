package store_test

import (
	"testing"

	"github.com/dominikbraun/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-stepparams/internal/store"
)

func TestMemoryStoreListVerticesKeepsInsertionOrder(t *testing.T) {
	t.Parallel()

	s := store.NewMemoryStore[string, int]()
	for i, k := range []string{"c", "a", "b"} {
		require.NoError(t, s.AddVertex(k, i, graph.VertexProperties{}))
	}

	got, err := s.ListVertices()
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "b"}, got)

	count, err := s.VertexCount()
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestMemoryStoreAddVertexTwice(t *testing.T) {
	t.Parallel()

	s := store.NewMemoryStore[string, int]()
	require.NoError(t, s.AddVertex("a", 1, graph.VertexProperties{}))
	require.ErrorIs(t, s.AddVertex("a", 2, graph.VertexProperties{}), graph.ErrVertexAlreadyExists)
}

func TestMemoryStoreReplaceVertex(t *testing.T) {
	t.Parallel()

	s := store.NewMemoryStore[string, int]()
	require.NoError(t, s.AddVertex("a", 1, graph.VertexProperties{Weight: 4}))
	require.NoError(t, s.AddVertex("b", 2, graph.VertexProperties{}))
	require.NoError(t, s.AddEdge("a", "b", graph.Edge[string]{Source: "a", Target: "b"}))

	require.NoError(t, s.ReplaceVertex("a", 10))

	v, props, err := s.Vertex("a")
	require.NoError(t, err)
	assert.Equal(t, 10, v)
	assert.Equal(t, 4, props.Weight)

	_, err = s.Edge("a", "b")
	require.NoError(t, err)

	require.ErrorIs(t, s.ReplaceVertex("missing", 0), graph.ErrVertexNotFound)
}

func TestMemoryStoreRemoveVertex(t *testing.T) {
	t.Parallel()

	s := store.NewMemoryStore[string, int]()
	require.NoError(t, s.AddVertex("a", 1, graph.VertexProperties{}))
	require.NoError(t, s.AddVertex("b", 2, graph.VertexProperties{}))
	require.NoError(t, s.AddEdge("a", "b", graph.Edge[string]{Source: "a", Target: "b"}))

	require.ErrorIs(t, s.RemoveVertex("a"), graph.ErrVertexHasEdges)
	require.NoError(t, s.RemoveEdge("a", "b"))
	require.NoError(t, s.RemoveVertex("a"))
	require.ErrorIs(t, s.RemoveVertex("a"), graph.ErrVertexNotFound)

	got, err := s.ListVertices()
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, got)
}

func TestMemoryStoreEdges(t *testing.T) {
	t.Parallel()

	s := store.NewMemoryStore[string, int]()
	for i, k := range []string{"a", "b", "c"} {
		require.NoError(t, s.AddVertex(k, i, graph.VertexProperties{}))
	}
	require.NoError(t, s.AddEdge("b", "c", graph.Edge[string]{Source: "b", Target: "c"}))
	require.NoError(t, s.AddEdge("a", "b", graph.Edge[string]{Source: "a", Target: "b"}))

	edges, err := s.ListEdges()
	require.NoError(t, err)
	require.Len(t, edges, 2)
	assert.Equal(t, "a", edges[0].Source)
	assert.Equal(t, "b", edges[1].Source)

	_, err = s.Edge("c", "a")
	require.ErrorIs(t, err, graph.ErrEdgeNotFound)

	require.ErrorIs(t, s.UpdateEdge("c", "a", graph.Edge[string]{}), graph.ErrEdgeNotFound)
}
