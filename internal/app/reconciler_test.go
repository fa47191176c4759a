package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cesargomez89/ingestq/internal/domain"
)

func TestReconcile_EmptyStoreIsNoOp(t *testing.T) {
	h := newHarness(t)

	report, err := h.rec.Reconcile(context.Background(), TriggerManual)
	require.NoError(t, err)
	assert.True(t, report.NoOp)
	assert.Empty(t, report.Changes)
	assert.NotEmpty(t, report.PassID)
}

func TestReconcile_AssignsZeroLast(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	a := h.seed(t, "a", 1, domain.LiveStatusProcessing)
	b := h.seed(t, "b", 2, domain.LiveStatusProcessing)
	c := h.seed(t, "c", 3, domain.LiveStatusProcessing)
	d := h.seed(t, "d", 0, domain.LiveStatusAssignPriorityPending)

	report, err := h.rec.Reconcile(ctx, TriggerManual)
	require.NoError(t, err)
	require.Len(t, report.Changes, 1)
	assert.Equal(t, d.ID, report.Changes[0].ConfigID)

	assert.Equal(t, map[int64]int{a.ID: 1, b.ID: 2, c.ID: 3, d.ID: 4}, h.priorities(t))

	got, err := h.db.GetConfig(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.LiveStatusProcessing, got.LiveStatus)
	assert.Equal(t, domain.FlagNo, got.PriorityUpdated)

	logs, err := h.db.ListPriorityLog(ctx, 0, 100)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, d.ID, logs[0].ConfigID)
	assert.Equal(t, 0, logs[0].OldPriority)
	assert.Equal(t, 4, logs[0].NewPriority)
	assert.Equal(t, "system", logs[0].UpdatedBy)
	assert.True(t, logs[0].UpdatedAt.Equal(testNow))
}

func TestReconcile_ClosesGapsAndIsIdempotent(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	a := h.seed(t, "a", 2, domain.LiveStatusProcessing)
	b := h.seed(t, "b", 5, domain.LiveStatusFetched)
	c := h.seed(t, "c", 9, domain.LiveStatusError)

	_, err := h.rec.Reconcile(ctx, TriggerSweep)
	require.NoError(t, err)
	assert.Equal(t, map[int64]int{a.ID: 1, b.ID: 2, c.ID: 3}, h.priorities(t))

	got, err := h.db.GetConfig(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.LiveStatusFetched, got.LiveStatus, "non-pending status untouched")

	logsBefore, err := h.db.ListPriorityLog(ctx, 0, 100)
	require.NoError(t, err)

	second, err := h.rec.Reconcile(ctx, TriggerSweep)
	require.NoError(t, err)
	assert.True(t, second.NoOp)
	assert.Empty(t, second.Changes)

	logsAfter, err := h.db.ListPriorityLog(ctx, 0, 100)
	require.NoError(t, err)
	assert.Len(t, logsAfter, len(logsBefore))
}

func TestReconcile_DeactivatesDuplicates(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	first := h.seed(t, "Solar Panels", 1, domain.LiveStatusProcessing)
	dup := h.seed(t, "solar panels", 2, domain.LiveStatusProcessing)
	other := h.seed(t, "wind", 3, domain.LiveStatusProcessing)

	report, err := h.rec.Reconcile(ctx, TriggerManual)
	require.NoError(t, err)
	require.Len(t, report.Duplicates, 1)
	assert.Equal(t, first.ID, report.Duplicates[0].KeptID)
	assert.Equal(t, dup.ID, report.Duplicates[0].DuplicateID)

	got, err := h.db.GetConfig(ctx, dup.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.FlagNo, got.Active)
	require.NotNil(t, got.ErrorString)
	assert.Equal(t, "Duplicate config detected", *got.ErrorString)
	require.NotNil(t, got.ErrorDesc)
	assert.Contains(t, *got.ErrorDesc, "Original config ID is")

	assert.Equal(t, map[int64]int{first.ID: 1, other.ID: 2}, h.priorities(t))

	subs := h.notifier.sent("subscribers")
	require.Len(t, subs, 1)
	assert.Contains(t, subs[0].body, "duplicates config")
}

func TestReconcile_PromotesPendingWithoutChange(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	c := h.seed(t, "a", 1, domain.LiveStatusAssignPriorityPending)

	report, err := h.rec.Reconcile(ctx, TriggerManual)
	require.NoError(t, err)
	assert.True(t, report.NoOp)
	assert.Equal(t, int64(1), report.Promoted)

	got, err := h.db.GetConfig(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.LiveStatusProcessing, got.LiveStatus)

	logs, err := h.db.ListPriorityLog(ctx, c.ID, 10)
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestReconcile_RollsBackOnFailure(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	first := h.seed(t, "q", 1, domain.LiveStatusProcessing)
	dup := h.seed(t, "Q", 3, domain.LiveStatusProcessing)
	gap := h.seed(t, "r", 7, domain.LiveStatusProcessing)

	_, err := h.db.ExecContext(ctx, "DROP TABLE priority_log")
	require.NoError(t, err)

	_, err = h.rec.Reconcile(ctx, TriggerManual)
	require.Error(t, err)
	assert.True(t, domain.IsRetryable(err))

	got, err := h.db.GetConfig(ctx, dup.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.FlagYes, got.Active, "duplicate deactivation rolled back")
	assert.Nil(t, got.ErrorString)

	assert.Equal(t, map[int64]int{first.ID: 1, dup.ID: 3, gap.ID: 7}, h.priorities(t))

	devs := h.notifier.sent("developers")
	require.Len(t, devs, 1)
	assert.Contains(t, devs[0].subject, "failed")
	assert.Empty(t, h.notifier.sent("subscribers"))

	last, err := h.rec.LastPass(ctx)
	require.NoError(t, err)
	assert.Nil(t, last)
}

func TestReconcile_TimesOutWaitingForRunningPass(t *testing.T) {
	h := newHarness(t)
	h.rec.timeout = 20 * time.Millisecond

	require.NoError(t, h.rec.gate.Acquire(context.Background(), 1))
	defer h.rec.gate.Release(1)

	_, err := h.rec.Reconcile(context.Background(), TriggerManual)
	require.Error(t, err)

	var te *domain.TransientStoreError
	require.True(t, errors.As(err, &te))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestReconcile_ConcurrentPassesStayDense(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	for _, q := range []string{"a", "b", "c", "d", "e", "f"} {
		h.seed(t, q, 0, domain.LiveStatusAssignPriorityPending)
	}
	h.seed(t, "g", 2, domain.LiveStatusProcessing)
	h.seed(t, "h", 2, domain.LiveStatusProcessing)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := h.rec.Reconcile(ctx, TriggerSweep)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	prios := h.priorities(t)
	assert.Len(t, prios, 8)
	requireDense(t, prios)

	logs, err := h.db.ListPriorityLog(ctx, 0, 100)
	require.NoError(t, err)
	assert.Len(t, logs, 7, "one entry per config moved by the first pass only")
}

func TestReconcile_RecordsLastPass(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.seed(t, "a", 0, domain.LiveStatusAssignPriorityPending)

	report, err := h.rec.Reconcile(ctx, TriggerSweep)
	require.NoError(t, err)

	last, err := h.rec.LastPass(ctx)
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, report.PassID, last.PassID)
	assert.Equal(t, "sweep", last.Trigger)
	assert.Equal(t, 1, last.Changes)
	require.NotNil(t, last.At)
	assert.True(t, last.At.Equal(testNow))
}
