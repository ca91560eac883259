package docs

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCatalog = `{
	"version": "1.2",
	"last_updated": "2025-05-01",
	"topics": [
		{"id": "project-setup", "title": "Project Setup", "type": "workflow", "priority": "critical", "path": "workflows/project-setup.md", "read_order": 1},
		{"id": "graphql-crud", "title": "GraphQL CRUD", "type": "recipe", "priority": "high", "path": "recipes/graphql-crud.md"},
		{"id": "implementation-checklist", "title": "Checklist", "type": "workflow", "priority": "critical", "path": "workflows/checklist.md", "read_order": 2}
	]
}`

func testDocsServer(t *testing.T, catalogHits *atomic.Int32) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/topics.json":
			if catalogHits != nil {
				catalogHits.Add(1)
			}
			_, _ = w.Write([]byte(testCatalog))
		case "/workflows/project-setup.md":
			_, _ = w.Write([]byte("# Project Setup\n"))
		case "/CLAUDE.md":
			_, _ = w.Write([]byte("# Agent Guidance\n"))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return NewClient(srv.URL + "/")
}

func TestCatalog(t *testing.T) {
	client := testDocsServer(t, nil)

	catalog, err := client.Catalog(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1.2", catalog.Version)
	assert.Len(t, catalog.Topics, 3)

	topic, ok := catalog.Find("graphql-crud")
	require.True(t, ok)
	assert.Equal(t, "recipe", topic.Type)

	_, ok = catalog.Find("missing")
	assert.False(t, ok)
}

func TestCatalogIsCached(t *testing.T) {
	var hits atomic.Int32
	client := testDocsServer(t, &hits)

	_, err := client.Catalog(context.Background())
	require.NoError(t, err)
	_, err = client.Catalog(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int32(1), hits.Load())
}

func TestByPriorityOrdering(t *testing.T) {
	catalog := &Catalog{Topics: []Topic{
		{ID: "b", Priority: "critical", ReadOrder: 2},
		{ID: "c", Priority: "critical"},
		{ID: "a", Priority: "critical", ReadOrder: 1},
		{ID: "other", Priority: "high"},
	}}

	critical := catalog.ByPriority("critical")
	require.Len(t, critical, 3)
	assert.Equal(t, "a", critical[0].ID)
	assert.Equal(t, "b", critical[1].ID)
	assert.Equal(t, "c", critical[2].ID, "topics without read order sort last")
}

func TestFetchTopic(t *testing.T) {
	client := testDocsServer(t, nil)

	catalog, err := client.Catalog(context.Background())
	require.NoError(t, err)

	topic, ok := catalog.Find("project-setup")
	require.True(t, ok)

	doc, err := client.FetchTopic(context.Background(), catalog, topic)
	require.NoError(t, err)
	assert.Contains(t, doc.Content, "# Project Setup")
}

func TestFetchTopicNotFound(t *testing.T) {
	client := testDocsServer(t, nil)

	catalog, err := client.Catalog(context.Background())
	require.NoError(t, err)

	_, err = client.FetchTopic(context.Background(), catalog, Topic{ID: "ghost", Path: "missing.md"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ghost")
}

func TestFetchAgentTemplate(t *testing.T) {
	client := testDocsServer(t, nil)

	content, err := client.FetchAgentTemplate(context.Background())
	require.NoError(t, err)
	assert.Contains(t, content, "# Agent Guidance")
}
