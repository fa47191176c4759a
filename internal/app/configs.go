package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cesargomez89/ingestq/internal/constants"
	"github.com/cesargomez89/ingestq/internal/domain"
	"github.com/cesargomez89/ingestq/internal/logger"
	"github.com/cesargomez89/ingestq/internal/store"
)

// ConfigInput carries the operator-editable fields of a queue configuration.
type ConfigInput struct {
	StartDate      *time.Time
	EndDate        *time.Time
	Active         *bool
	QueryString    string
	QueueType      string
	Description    string
	Frequency      string
	CronLogic      string
	ScriptID       int64
	SourceID       int64
	MaxCountPerDay int
	Priority       int
	InputCount     int
	TargetDays     int
}

// ConfigService is the CRUD surface for queue configurations. Every
// mutation is followed by a reconciliation pass.
type ConfigService struct {
	db         *store.DB
	reconciler *Reconciler
	clock      Clock
	logger     *logger.Logger
}

func NewConfigService(db *store.DB, r *Reconciler, clock Clock, log *logger.Logger) *ConfigService {
	if clock == nil {
		clock = SystemClock{}
	}
	return &ConfigService{
		db:         db,
		reconciler: r,
		clock:      clock,
		logger:     log.WithComponent("configs"),
	}
}

func (s *ConfigService) Get(ctx context.Context, id int64) (*domain.QueueConfiguration, error) {
	return s.db.GetConfig(ctx, id)
}

func (s *ConfigService) List(ctx context.Context, search string) ([]*domain.QueueConfiguration, error) {
	return s.db.ListConfigs(ctx, search, constants.MaxListResults)
}

// Create stores a new pending configuration. A nonzero submitted priority
// is logged as a change from 0.
func (s *ConfigService) Create(ctx context.Context, in ConfigInput, actor string) (*domain.QueueConfiguration, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	now := s.clock.Now().UTC()
	c := &domain.QueueConfiguration{
		LiveStatus:      domain.LiveStatusAssignPriorityPending,
		PriorityUpdated: domain.FlagNo,
		Active:          domain.FlagYes,
		CreatedBy:       actor,
		CreatedAt:       now,
		UpdatedBy:       actor,
		UpdatedAt:       now,
	}
	applyInput(c, in)

	err := s.db.RunInTx(ctx, func(tx *store.DB) error {
		if err := s.resolveRefs(ctx, tx, c); err != nil {
			return err
		}
		if err := tx.CreateConfig(ctx, c); err != nil {
			return err
		}
		if c.Priority == 0 {
			return nil
		}
		return tx.InsertPriorityLog(ctx, &domain.PriorityLogEntry{
			ConfigID:    c.ID,
			OldPriority: 0,
			NewPriority: c.Priority,
			UpdatedBy:   actor,
			UpdatedAt:   now,
		})
	})
	if err != nil {
		return nil, err
	}
	s.logger.WithConfig(c.ID).Info("Config created", "priority", c.Priority, "by", actor)

	return s.afterMutation(ctx, c.ID, TriggerCreate)
}

// Update overwrites the editable fields. A priority change marks the
// configuration as operator-prioritized and is logged.
func (s *ConfigService) Update(ctx context.Context, id int64, in ConfigInput, actor string) (*domain.QueueConfiguration, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	now := s.clock.Now().UTC()
	err := s.db.RunInTx(ctx, func(tx *store.DB) error {
		c, err := tx.GetConfig(ctx, id)
		if err != nil {
			return err
		}
		oldPriority := c.Priority
		wasActive := c.IsActive()

		applyInput(c, in)
		c.UpdatedBy = actor
		c.UpdatedAt = now
		if !wasActive && c.IsActive() {
			c.ErrorString = nil
			c.ErrorDesc = nil
		}
		if err := s.resolveRefs(ctx, tx, c); err != nil {
			return err
		}

		if c.Priority != oldPriority {
			c.PriorityUpdated = domain.FlagYes
		}
		if err := tx.UpdateConfig(ctx, c); err != nil {
			return err
		}
		if c.Priority == oldPriority {
			return nil
		}
		return tx.InsertPriorityLog(ctx, &domain.PriorityLogEntry{
			ConfigID:    c.ID,
			OldPriority: oldPriority,
			NewPriority: c.Priority,
			UpdatedBy:   actor,
			UpdatedAt:   now,
		})
	})
	if err != nil {
		return nil, err
	}
	s.logger.WithConfig(id).Info("Config updated", "priority", in.Priority, "by", actor)

	return s.afterMutation(ctx, id, TriggerUpdate)
}

// Delete removes a configuration; its priority log stays.
func (s *ConfigService) Delete(ctx context.Context, id int64, actor string) error {
	if err := s.db.DeleteConfig(ctx, id); err != nil {
		return err
	}
	s.logger.WithConfig(id).Info("Config deleted", "by", actor)

	if _, err := s.reconciler.Reconcile(ctx, TriggerDelete); err != nil {
		return fmt.Errorf("config %d deleted: %w", id, err)
	}
	return nil
}

// PriorityLog lists audit entries, newest first. configID 0 lists all.
func (s *ConfigService) PriorityLog(ctx context.Context, configID int64) ([]*domain.PriorityLogEntry, error) {
	return s.db.ListPriorityLog(ctx, configID, constants.MaxLogResults)
}

// Dispatchable lists what the fetch worker may run next, in priority order.
func (s *ConfigService) Dispatchable(ctx context.Context) ([]*domain.QueueConfiguration, error) {
	return s.db.ListDispatchable(ctx)
}

func (s *ConfigService) afterMutation(ctx context.Context, id int64, trigger Trigger) (*domain.QueueConfiguration, error) {
	if _, err := s.reconciler.Reconcile(ctx, trigger); err != nil {
		return nil, fmt.Errorf("config %d saved: %w", id, err)
	}
	return s.db.GetConfig(ctx, id)
}

// resolveRefs checks the source and script exist and copies the source name.
func (s *ConfigService) resolveRefs(ctx context.Context, tx *store.DB, c *domain.QueueConfiguration) error {
	src, err := tx.GetSource(ctx, c.SourceID)
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("%w: source %d does not exist", domain.ErrInvalidConfig, c.SourceID)
	} else if err != nil {
		return err
	}
	script, err := tx.GetScript(ctx, c.ScriptID)
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("%w: script %d does not exist", domain.ErrInvalidConfig, c.ScriptID)
	} else if err != nil {
		return err
	}
	if script.SourceID != src.ID {
		return fmt.Errorf("%w: script %d belongs to source %d", domain.ErrInvalidConfig, script.ID, script.SourceID)
	}
	c.SourceName = src.SourceName
	return nil
}

func validateInput(in ConfigInput) error {
	var problems []string
	if strings.TrimSpace(in.QueryString) == "" {
		problems = append(problems, "query string is required")
	}
	if in.Priority < 0 {
		problems = append(problems, "priority must not be negative")
	}
	if in.MaxCountPerDay < 0 {
		problems = append(problems, "max count per day must not be negative")
	}
	if in.StartDate != nil && in.EndDate != nil && in.EndDate.Before(*in.StartDate) {
		problems = append(problems, "end date is before start date")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

func applyInput(c *domain.QueueConfiguration, in ConfigInput) {
	c.ScriptID = in.ScriptID
	c.SourceID = in.SourceID
	c.QueryString = strings.TrimSpace(in.QueryString)
	c.QueueType = in.QueueType
	c.Description = in.Description
	c.Frequency = in.Frequency
	c.CronLogic = in.CronLogic
	c.StartDate = in.StartDate
	c.EndDate = in.EndDate
	c.MaxCountPerDay = in.MaxCountPerDay
	c.Priority = in.Priority
	c.InputCount = in.InputCount
	c.TargetDays = in.TargetDays
	if in.Active != nil {
		c.Active = domain.FlagOf(*in.Active)
	}
}
