package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/cesargomez89/ingestq/internal/constants"
	"github.com/cesargomez89/ingestq/internal/domain"
	"github.com/cesargomez89/ingestq/internal/logger"
	"github.com/cesargomez89/ingestq/internal/notify"
	"github.com/cesargomez89/ingestq/internal/priority"
	"github.com/cesargomez89/ingestq/internal/store"
)

// Clock supplies the timestamps written by a pass.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// Trigger names what started a reconciliation pass.
type Trigger string

const (
	TriggerCreate Trigger = "create"
	TriggerUpdate Trigger = "update"
	TriggerDelete Trigger = "delete"
	TriggerManual Trigger = "manual"
	TriggerSweep  Trigger = "sweep"
)

// Report describes one completed pass.
type Report struct {
	StartedAt  time.Time                `json:"started_at"`
	PassID     string                   `json:"pass_id"`
	Trigger    Trigger                  `json:"trigger"`
	Duplicates []priority.DuplicatePair `json:"duplicates"`
	Changes    []priority.Change        `json:"changes"`
	Duration   time.Duration            `json:"duration"`
	Promoted   int64                    `json:"promoted"`
	NoOp       bool                     `json:"no_op"`
}

// PassStatus is the last successful pass as recorded in settings.
type PassStatus struct {
	At      *time.Time `json:"at,omitempty"`
	PassID  string     `json:"pass_id"`
	Trigger string     `json:"trigger"`
	Changes int        `json:"changes"`
}

// Reconciler keeps active configuration priorities unique and dense
// and deactivates duplicate configurations.
type Reconciler struct {
	db       *store.DB
	notifier notify.Notifier
	clock    Clock
	logger   *logger.Logger
	gate     *semaphore.Weighted
	actor    string
	timeout  time.Duration
}

func NewReconciler(db *store.DB, n notify.Notifier, clock Clock, log *logger.Logger, actor string, timeout time.Duration) *Reconciler {
	if clock == nil {
		clock = SystemClock{}
	}
	if timeout <= 0 {
		timeout = constants.DefaultReconcileTimeout
	}
	return &Reconciler{
		db:       db,
		notifier: n,
		clock:    clock,
		logger:   log.WithComponent("reconciler"),
		gate:     semaphore.NewWeighted(1),
		actor:    actor,
		timeout:  timeout,
	}
}

// Reconcile runs one pass over the persisted configurations. Either every
// write of the pass is committed or none is. Passes never overlap.
func (r *Reconciler) Reconcile(ctx context.Context, trigger Trigger) (*Report, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	begin := time.Now()
	report := &Report{
		PassID:    uuid.New().String(),
		Trigger:   trigger,
		StartedAt: r.clock.Now().UTC(),
	}
	log := r.logger.WithPass(report.PassID, string(trigger))

	if err := r.gate.Acquire(ctx, 1); err != nil {
		return nil, r.fail(ctx, log, report, transient("wait for running pass", err))
	}
	defer r.gate.Release(1)

	err := r.db.RunInTx(ctx, func(tx *store.DB) error {
		return r.pass(ctx, tx, log, report)
	})
	if err != nil {
		var ce *domain.ConsistencyError
		if !errors.As(err, &ce) && !domain.IsRetryable(err) {
			err = transient("commit", err)
		}
		return nil, r.fail(ctx, log, report, err)
	}
	report.Duration = time.Since(begin)

	log.Info("Reconciliation finished",
		"duplicates", len(report.Duplicates),
		"changes", len(report.Changes),
		"promoted", report.Promoted,
		"no_op", report.NoOp,
		"duration", report.Duration)

	if len(report.Duplicates) > 0 {
		r.announceDuplicates(ctx, log, report)
	}
	return report, nil
}

func (r *Reconciler) pass(ctx context.Context, tx *store.DB, log *logger.Logger, report *Report) error {
	now := report.StartedAt

	if err := tx.LockReconcile(ctx); err != nil {
		return transient("lock", err)
	}

	configs, err := tx.ListAllConfigs(ctx)
	if err != nil {
		return transient("list configurations", err)
	}

	report.Duplicates = priority.FindDuplicates(configs)
	deactivated := make(map[int64]bool, len(report.Duplicates))
	for _, d := range report.Duplicates {
		if err := tx.DeactivateDuplicate(ctx, d, r.actor, now); err != nil {
			return transient("deactivate duplicate", err)
		}
		deactivated[d.DuplicateID] = true
		log.WithConfig(d.DuplicateID).Warn("Duplicate config deactivated", "error", d.Err(), "kept_id", d.KeptID)
	}

	var active []*domain.QueueConfiguration
	for _, c := range configs {
		if c.IsActive() && !deactivated[c.ID] {
			active = append(active, c)
		}
	}

	slots := priority.Slots(active)
	if priority.Canonical(slots) {
		report.NoOp = true
		log.Debug("Priorities already unique and dense", "configs", len(slots))
	} else {
		assigned, err := priority.Assign(priority.Sort(slots), len(slots))
		if err != nil {
			return err
		}
		report.Changes = priority.Diff(slots, assigned)
		if err := tx.ApplyReconciliation(ctx, report.Changes, r.actor, now); err != nil {
			return transient("apply priorities", err)
		}
		for _, ch := range report.Changes {
			log.WithConfig(ch.ConfigID).Info("Priority updated", "old", ch.OldPriority, "new", ch.NewPriority)
		}
	}

	report.Promoted, err = tx.PromotePending(ctx, r.actor, now)
	if err != nil {
		return transient("promote pending", err)
	}

	for key, value := range map[string]string{
		store.SettingLastPassID:      report.PassID,
		store.SettingLastPassAt:      now.Format(time.RFC3339Nano),
		store.SettingLastPassTrigger: string(report.Trigger),
		store.SettingLastPassChanges: strconv.Itoa(len(report.Changes)),
	} {
		if err := tx.SetSetting(ctx, key, value); err != nil {
			return transient("record pass", err)
		}
	}
	return nil
}

// LastPass returns the most recent successful pass, or nil if none ran yet.
func (r *Reconciler) LastPass(ctx context.Context) (*PassStatus, error) {
	id, err := r.db.GetSetting(ctx, store.SettingLastPassID)
	if err != nil {
		return nil, fmt.Errorf("failed to read last pass: %w", err)
	}
	if id == "" {
		return nil, nil
	}

	status := &PassStatus{PassID: id}
	if status.Trigger, err = r.db.GetSetting(ctx, store.SettingLastPassTrigger); err != nil {
		return nil, fmt.Errorf("failed to read last pass: %w", err)
	}
	if raw, err := r.db.GetSetting(ctx, store.SettingLastPassAt); err == nil && raw != "" {
		if at, perr := time.Parse(time.RFC3339Nano, raw); perr == nil {
			status.At = &at
		}
	}
	if raw, err := r.db.GetSetting(ctx, store.SettingLastPassChanges); err == nil && raw != "" {
		status.Changes, _ = strconv.Atoi(raw)
	}
	return status, nil
}

func (r *Reconciler) fail(ctx context.Context, log *logger.Logger, report *Report, err error) error {
	log.Error("Reconciliation failed", "error", err)

	nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), constants.DefaultHTTPTimeout)
	defer cancel()

	subject := fmt.Sprintf("Priority reconciliation failed (%s)", report.Trigger)
	body := fmt.Sprintf("<p>Pass %s started at %s failed and was rolled back.</p><p>%s</p>",
		report.PassID, report.StartedAt.Format(time.RFC3339), err)
	if nerr := r.notifier.NotifyDevelopers(nctx, subject, body); nerr != nil {
		log.Error("Failed to notify developers", "error", nerr)
	}
	return fmt.Errorf("reconciliation pass %s: %w", report.PassID, err)
}

func (r *Reconciler) announceDuplicates(ctx context.Context, log *logger.Logger, report *Report) {
	var b strings.Builder
	b.WriteString("<p>The following queue configurations were deactivated as duplicates:</p><ul>")
	for _, d := range report.Duplicates {
		fmt.Fprintf(&b, "<li>Config %d duplicates config %d</li>", d.DuplicateID, d.KeptID)
	}
	b.WriteString("</ul>")

	nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), constants.DefaultHTTPTimeout)
	defer cancel()
	if err := r.notifier.NotifySubscribers(nctx, constants.DuplicateErrorString, b.String()); err != nil {
		log.Error("Failed to notify subscribers", "error", err)
	}
}

func transient(op string, err error) error {
	return &domain.TransientStoreError{Op: op, Err: err}
}
