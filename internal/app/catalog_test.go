package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cesargomez89/ingestq/internal/domain"
)

func TestCatalogService_Sources(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	_, err := h.catalog.CreateSource(ctx, SourceInput{SourceName: " "}, "t")
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)

	cfg, err := h.configs.Create(ctx, h.input("q", 0), "t")
	require.NoError(t, err)

	updated, err := h.catalog.UpdateSource(ctx, h.source.ID, SourceInput{SourceName: "Acme Corp", Active: true}, "bob")
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", updated.SourceName)
	assert.Equal(t, "bob", updated.UpdatedBy)

	got, err := h.configs.Get(ctx, cfg.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", got.SourceName)

	list, err := h.catalog.ListSources(ctx, "acme")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = h.catalog.UpdateSource(ctx, 999, SourceInput{SourceName: "x"}, "bob")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCatalogService_Scripts(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	_, err := h.catalog.CreateScript(ctx, ScriptInput{ScriptName: "x", SourceID: 999}, "t")
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)

	updated, err := h.catalog.UpdateScript(ctx, h.script.ID, ScriptInput{
		ScriptName: "acme-scraper", SourceID: h.source.ID, Version: "2", Active: false,
	}, "bob")
	require.NoError(t, err)
	assert.Equal(t, "2", updated.Version)
	assert.Equal(t, domain.FlagNo, updated.Active)

	list, err := h.catalog.ListScripts(ctx, "scraper")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCatalogService_QueueInstancesFollowConfigPriority(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	a, err := h.configs.Create(ctx, h.input("a", 1), "t")
	require.NoError(t, err)

	q, err := h.catalog.CreateQueueInstance(ctx, QueueInstanceInput{ConfigID: a.ID, QueueName: "daily"}, "t")
	require.NoError(t, err)
	assert.Equal(t, 1, q.Priority)
	assert.Equal(t, h.source.ID, q.SourceID)
	assert.True(t, q.QueueDate.Equal(testNow))

	// A new config taking priority 1 pushes a to 2; the queue instance follows.
	_, err = h.configs.Create(ctx, h.input("b", 1), "t")
	require.NoError(t, err)

	instances, err := h.catalog.ListQueueInstances(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, instances, 1)
	assert.Equal(t, 2, instances[0].Priority)

	_, err = h.catalog.CreateQueueInstance(ctx, QueueInstanceInput{ConfigID: 999, QueueName: "x"}, "t")
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)

	payloads, err := h.catalog.ListPayloads(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, payloads)
}
