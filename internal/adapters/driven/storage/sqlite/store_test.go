package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/switchboard-labs/switchboard-cli/internal/core/domain"
	"github.com/switchboard-labs/switchboard-cli/internal/core/ports/driven"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testChunk(id string, dom domain.Domain, source string, position int) domain.DocumentChunk {
	return domain.DocumentChunk{
		ID:        id,
		Domain:    dom,
		Source:    source,
		Position:  position,
		Text:      "chunk " + id,
		Embedding: []float32{0.1, 0.2, 0.3},
		Metadata:  map[string]any{"origin": source},
	}
}

func TestChunkStore_ReplaceAndLoad(t *testing.T) {
	store := newTestStore(t)
	chunks := store.ChunkStore()
	ctx := context.Background()

	err := chunks.ReplaceSource(ctx, domain.DomainMedical, "anatomy.md", []domain.DocumentChunk{
		testChunk("c1", domain.DomainMedical, "anatomy.md", 0),
		testChunk("c2", domain.DomainMedical, "anatomy.md", 1),
	})
	require.NoError(t, err)

	loaded, err := chunks.LoadDomain(ctx, domain.DomainMedical)
	require.NoError(t, err)
	require.Len(t, loaded, 2)

	assert.Equal(t, "c1", loaded[0].ID)
	assert.Equal(t, domain.DomainMedical, loaded[0].Domain)
	assert.Equal(t, "anatomy.md", loaded[0].Source)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, loaded[0].Embedding)
	assert.Equal(t, "anatomy.md", loaded[0].Metadata["origin"])
}

func TestChunkStore_ReplaceSwapsChunkSet(t *testing.T) {
	store := newTestStore(t)
	chunks := store.ChunkStore()
	ctx := context.Background()

	err := chunks.ReplaceSource(ctx, domain.DomainMedical, "notes.md", []domain.DocumentChunk{
		testChunk("old1", domain.DomainMedical, "notes.md", 0),
		testChunk("old2", domain.DomainMedical, "notes.md", 1),
	})
	require.NoError(t, err)

	err = chunks.ReplaceSource(ctx, domain.DomainMedical, "notes.md", []domain.DocumentChunk{
		testChunk("new1", domain.DomainMedical, "notes.md", 0),
	})
	require.NoError(t, err)

	loaded, err := chunks.LoadDomain(ctx, domain.DomainMedical)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "new1", loaded[0].ID)
}

func TestChunkStore_LoadDomainIsolation(t *testing.T) {
	store := newTestStore(t)
	chunks := store.ChunkStore()
	ctx := context.Background()

	require.NoError(t, chunks.ReplaceSource(ctx, domain.DomainMedical, "a.md",
		[]domain.DocumentChunk{testChunk("m1", domain.DomainMedical, "a.md", 0)}))
	require.NoError(t, chunks.ReplaceSource(ctx, domain.DomainAIML, "b.md",
		[]domain.DocumentChunk{testChunk("t1", domain.DomainAIML, "b.md", 0)}))

	loaded, err := chunks.LoadDomain(ctx, domain.DomainAIML)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "t1", loaded[0].ID)
}

func TestChunkStore_DeleteSource(t *testing.T) {
	store := newTestStore(t)
	chunks := store.ChunkStore()
	ctx := context.Background()

	require.NoError(t, chunks.ReplaceSource(ctx, domain.DomainMedical, "a.md",
		[]domain.DocumentChunk{testChunk("m1", domain.DomainMedical, "a.md", 0)}))

	removed, err := chunks.DeleteSource(ctx, domain.DomainMedical, "a.md")
	require.NoError(t, err)
	assert.True(t, removed)

	loaded, err := chunks.LoadDomain(ctx, domain.DomainMedical)
	require.NoError(t, err)
	assert.Empty(t, loaded)

	removed, err = chunks.DeleteSource(ctx, domain.DomainMedical, "a.md")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestChunkStore_Sources(t *testing.T) {
	store := newTestStore(t)
	chunks := store.ChunkStore()
	ctx := context.Background()

	require.NoError(t, chunks.ReplaceSource(ctx, domain.DomainMedical, "a.md",
		[]domain.DocumentChunk{
			testChunk("m1", domain.DomainMedical, "a.md", 0),
			testChunk("m2", domain.DomainMedical, "a.md", 1),
		}))
	require.NoError(t, chunks.ReplaceSource(ctx, domain.DomainMedical, "b.md",
		[]domain.DocumentChunk{testChunk("m3", domain.DomainMedical, "b.md", 0)}))

	sources, err := chunks.Sources(ctx, domain.DomainMedical)
	require.NoError(t, err)
	require.Len(t, sources, 2)

	assert.Equal(t, "a.md", sources[0].Source)
	assert.Equal(t, 2, sources[0].ChunkCount)
	assert.Positive(t, sources[0].TotalSize)
	assert.Equal(t, "b.md", sources[1].Source)
}

func TestSessionStore_GetUnknownReturnsEmpty(t *testing.T) {
	store := newTestStore(t)

	session, err := store.SessionStore().Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.Equal(t, "nope", session.ID)
	assert.Empty(t, session.Turns)
}

func TestSessionStore_AppendAndGet(t *testing.T) {
	store := newTestStore(t)
	sessions := store.SessionStore()
	ctx := context.Background()

	err := sessions.Append(ctx, "s1",
		domain.ConversationTurn{Role: domain.RoleUser, Text: "hello"},
		domain.ConversationTurn{Role: domain.RoleAssistant, Text: "hi", Domain: domain.DomainGeneral},
	)
	require.NoError(t, err)

	session, err := sessions.Get(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, session.Turns, 2)

	assert.Equal(t, domain.RoleUser, session.Turns[0].Role)
	assert.Equal(t, "hello", session.Turns[0].Text)
	assert.Equal(t, domain.DomainGeneral, session.Turns[1].Domain)
	assert.False(t, session.Turns[0].Timestamp.IsZero())
	assert.False(t, session.CreatedAt.IsZero())
}

func TestSessionStore_ClearAndList(t *testing.T) {
	store := newTestStore(t)
	sessions := store.SessionStore()
	ctx := context.Background()

	require.NoError(t, sessions.Append(ctx, "s1",
		domain.ConversationTurn{Role: domain.RoleUser, Text: "one"}))
	require.NoError(t, sessions.Append(ctx, "s2",
		domain.ConversationTurn{Role: domain.RoleUser, Text: "two"}))

	ids, err := sessions.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"s1", "s2"}, ids)

	require.NoError(t, sessions.Clear(ctx, "s1"))
	require.NoError(t, sessions.Clear(ctx, "never-existed"))

	ids, err = sessions.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"s2"}, ids)

	session, err := sessions.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, session.Turns)
}

func TestMetricsStore_RecordAndStats(t *testing.T) {
	store := newTestStore(t)
	metrics := store.MetricsStore()
	ctx := context.Background()

	record := func(dom domain.Domain, outcome domain.RouteOutcome, confidence float64) {
		t.Helper()
		require.NoError(t, metrics.Record(ctx, driven.QueryMetric{
			Query:      "q",
			Domain:     dom,
			Outcome:    outcome,
			Confidence: confidence,
			Duration:   100 * time.Millisecond,
		}))
	}

	record(domain.DomainMedical, domain.Routed, 0.8)
	record(domain.DomainMedical, domain.Failed, 0.4)
	record(domain.DomainAIML, domain.Routed, 0.9)

	stats, err := metrics.Stats(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 2)

	assert.Equal(t, domain.DomainMedical, stats[0].Domain, "busiest domain first")
	assert.Equal(t, 2, stats[0].Queries)
	assert.Equal(t, 1, stats[0].Failures)
	assert.InDelta(t, 0.6, stats[0].AvgConfidence, 1e-9)
	assert.Equal(t, 100*time.Millisecond, stats[0].AvgDuration)

	assert.Equal(t, domain.DomainAIML, stats[1].Domain)
	assert.Equal(t, 0, stats[1].Failures)
}

func TestStore_MigrationsAreIdempotent(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.ChunkStore().ReplaceSource(context.Background(),
		domain.DomainMedical, "a.md",
		[]domain.DocumentChunk{testChunk("m1", domain.DomainMedical, "a.md", 0)}))
	require.NoError(t, store.Close())

	// Reopening must not rerun applied migrations or lose data.
	store, err = NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	loaded, err := store.ChunkStore().LoadDomain(context.Background(), domain.DomainMedical)
	require.NoError(t, err)
	assert.Len(t, loaded, 1)
}
