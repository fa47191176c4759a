package app

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cesargomez89/ingestq/internal/domain"
	"github.com/cesargomez89/ingestq/internal/logger"
	"github.com/cesargomez89/ingestq/internal/store"
)

type fixedClock struct {
	t time.Time
}

func (c fixedClock) Now() time.Time { return c.t }

type message struct {
	audience string
	subject  string
	body     string
}

type recordingNotifier struct {
	mu       sync.Mutex
	messages []message
}

func (n *recordingNotifier) NotifyDevelopers(_ context.Context, subject, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, message{"developers", subject, body})
	return nil
}

func (n *recordingNotifier) NotifySubscribers(_ context.Context, subject, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, message{"subscribers", subject, body})
	return nil
}

func (n *recordingNotifier) sent(audience string) []message {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []message
	for _, m := range n.messages {
		if m.audience == audience {
			out = append(out, m)
		}
	}
	return out
}

type harness struct {
	db       *store.DB
	notifier *recordingNotifier
	rec      *Reconciler
	configs  *ConfigService
	catalog  *CatalogService
	source   *domain.Source
	script   *domain.Script
}

var testNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newHarness(t *testing.T) *harness {
	t.Helper()
	db, err := store.NewSQLiteDB(filepath.Join(t.TempDir(), "app.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	clock := fixedClock{t: testNow}
	log := logger.Discard()
	n := &recordingNotifier{}
	rec := NewReconciler(db, n, clock, log, "system", 5*time.Second)
	h := &harness{
		db:       db,
		notifier: n,
		rec:      rec,
		configs:  NewConfigService(db, rec, clock, log),
		catalog:  NewCatalogService(db, clock, log),
	}

	ctx := context.Background()
	h.source, err = h.catalog.CreateSource(ctx, SourceInput{SourceName: "Acme", SourceDomain: "acme.example", Active: true}, "tester")
	require.NoError(t, err)
	h.script, err = h.catalog.CreateScript(ctx, ScriptInput{SourceID: h.source.ID, ScriptName: "acme-scraper", Version: "1", Active: true}, "tester")
	require.NoError(t, err)
	return h
}

func (h *harness) input(query string, prio int) ConfigInput {
	return ConfigInput{
		SourceID:    h.source.ID,
		ScriptID:    h.script.ID,
		QueryString: query,
		Priority:    prio,
		CronLogic:   "0 * * * *",
	}
}

// seed inserts a configuration directly, bypassing reconciliation.
func (h *harness) seed(t *testing.T, query string, prio int, status domain.LiveStatus) *domain.QueueConfiguration {
	t.Helper()
	c := &domain.QueueConfiguration{
		SourceID:        h.source.ID,
		ScriptID:        h.script.ID,
		SourceName:      h.source.SourceName,
		QueryString:     query,
		Priority:        prio,
		LiveStatus:      status,
		PriorityUpdated: domain.FlagNo,
		Active:          domain.FlagYes,
		CreatedBy:       "seed",
		CreatedAt:       testNow,
		UpdatedBy:       "seed",
		UpdatedAt:       testNow,
	}
	require.NoError(t, h.db.CreateConfig(context.Background(), c))
	return c
}

func (h *harness) priorities(t *testing.T) map[int64]int {
	t.Helper()
	all, err := h.db.ListAllConfigs(context.Background())
	require.NoError(t, err)
	out := make(map[int64]int)
	for _, c := range all {
		if c.IsActive() {
			out[c.ID] = c.Priority
		}
	}
	return out
}

func requireDense(t *testing.T, prios map[int64]int) {
	t.Helper()
	seen := make(map[int]bool, len(prios))
	for id, p := range prios {
		require.False(t, seen[p], "priority %d held twice (config %d)", p, id)
		require.True(t, p >= 1 && p <= len(prios), "priority %d of config %d outside 1..%d", p, id, len(prios))
		seen[p] = true
	}
}
