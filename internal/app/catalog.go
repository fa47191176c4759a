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

// SourceInput carries the editable fields of a source.
type SourceInput struct {
	SourceName     string
	SourceDomain   string
	Description    string
	MaxCountPerDay int
	Active         bool
}

// ScriptInput carries the editable fields of a script.
type ScriptInput struct {
	ScriptName            string
	SourceCodePath        string
	Version               string
	Description           string
	DependencyDescription string
	SourceID              int64
	Active                bool
}

// QueueInstanceInput carries the fields of a new queue instance.
type QueueInstanceInput struct {
	QueueDate     time.Time
	QueueName     string
	QueueType     string
	ProcessStatus string
	ConfigID      int64
}

// CatalogService manages the reference data around queue configurations.
type CatalogService struct {
	db     *store.DB
	clock  Clock
	logger *logger.Logger
}

func NewCatalogService(db *store.DB, clock Clock, log *logger.Logger) *CatalogService {
	if clock == nil {
		clock = SystemClock{}
	}
	return &CatalogService{db: db, clock: clock, logger: log.WithComponent("catalog")}
}

func (s *CatalogService) ListSources(ctx context.Context, search string) ([]*domain.Source, error) {
	return s.db.ListSources(ctx, search, constants.MaxListResults)
}

func (s *CatalogService) CreateSource(ctx context.Context, in SourceInput, actor string) (*domain.Source, error) {
	if strings.TrimSpace(in.SourceName) == "" {
		return nil, fmt.Errorf("%w: source name is required", domain.ErrInvalidConfig)
	}
	now := s.clock.Now().UTC()
	src := &domain.Source{
		SourceName:     strings.TrimSpace(in.SourceName),
		SourceDomain:   in.SourceDomain,
		Description:    in.Description,
		MaxCountPerDay: in.MaxCountPerDay,
		Active:         domain.FlagOf(in.Active),
		CreatedBy:      actor,
		CreatedAt:      now,
		UpdatedBy:      actor,
		UpdatedAt:      now,
	}
	if err := s.db.CreateSource(ctx, src); err != nil {
		return nil, err
	}
	s.logger.Info("Source created", "source_id", src.ID, "name", src.SourceName)
	return src, nil
}

// UpdateSource edits a source and renames it on its configurations.
func (s *CatalogService) UpdateSource(ctx context.Context, id int64, in SourceInput, actor string) (*domain.Source, error) {
	if strings.TrimSpace(in.SourceName) == "" {
		return nil, fmt.Errorf("%w: source name is required", domain.ErrInvalidConfig)
	}

	var src *domain.Source
	err := s.db.RunInTx(ctx, func(tx *store.DB) error {
		var err error
		if src, err = tx.GetSource(ctx, id); err != nil {
			return err
		}
		src.SourceName = strings.TrimSpace(in.SourceName)
		src.SourceDomain = in.SourceDomain
		src.Description = in.Description
		src.MaxCountPerDay = in.MaxCountPerDay
		src.Active = domain.FlagOf(in.Active)
		src.UpdatedBy = actor
		src.UpdatedAt = s.clock.Now().UTC()
		if err := tx.UpdateSource(ctx, src); err != nil {
			return err
		}
		return tx.RenameSourceOnConfigs(ctx, src.ID, src.SourceName)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Source updated", "source_id", id)
	return src, nil
}

func (s *CatalogService) ListScripts(ctx context.Context, search string) ([]*domain.Script, error) {
	return s.db.ListScripts(ctx, search, constants.MaxListResults)
}

func (s *CatalogService) CreateScript(ctx context.Context, in ScriptInput, actor string) (*domain.Script, error) {
	if err := s.checkScript(ctx, in); err != nil {
		return nil, err
	}
	now := s.clock.Now().UTC()
	script := &domain.Script{
		SourceID:              in.SourceID,
		ScriptName:            strings.TrimSpace(in.ScriptName),
		SourceCodePath:        in.SourceCodePath,
		Version:               in.Version,
		Description:           in.Description,
		DependencyDescription: in.DependencyDescription,
		Active:                domain.FlagOf(in.Active),
		CreatedBy:             actor,
		CreatedAt:             now,
		UpdatedBy:             actor,
		UpdatedAt:             now,
	}
	if err := s.db.CreateScript(ctx, script); err != nil {
		return nil, err
	}
	s.logger.Info("Script created", "script_id", script.ID, "name", script.ScriptName)
	return script, nil
}

func (s *CatalogService) UpdateScript(ctx context.Context, id int64, in ScriptInput, actor string) (*domain.Script, error) {
	if err := s.checkScript(ctx, in); err != nil {
		return nil, err
	}
	script, err := s.db.GetScript(ctx, id)
	if err != nil {
		return nil, err
	}
	script.SourceID = in.SourceID
	script.ScriptName = strings.TrimSpace(in.ScriptName)
	script.SourceCodePath = in.SourceCodePath
	script.Version = in.Version
	script.Description = in.Description
	script.DependencyDescription = in.DependencyDescription
	script.Active = domain.FlagOf(in.Active)
	script.UpdatedBy = actor
	script.UpdatedAt = s.clock.Now().UTC()
	if err := s.db.UpdateScript(ctx, script); err != nil {
		return nil, err
	}
	s.logger.Info("Script updated", "script_id", id)
	return script, nil
}

func (s *CatalogService) checkScript(ctx context.Context, in ScriptInput) error {
	if strings.TrimSpace(in.ScriptName) == "" {
		return fmt.Errorf("%w: script name is required", domain.ErrInvalidConfig)
	}
	if _, err := s.db.GetSource(ctx, in.SourceID); errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("%w: source %d does not exist", domain.ErrInvalidConfig, in.SourceID)
	} else if err != nil {
		return err
	}
	return nil
}

func (s *CatalogService) ListQueueInstances(ctx context.Context, configID int64) ([]*domain.QueueInstance, error) {
	return s.db.ListQueueInstances(ctx, configID, constants.MaxListResults)
}

// CreateQueueInstance materializes a queue for a configuration. The
// instance inherits the configuration's source, script and priority.
func (s *CatalogService) CreateQueueInstance(ctx context.Context, in QueueInstanceInput, actor string) (*domain.QueueInstance, error) {
	if strings.TrimSpace(in.QueueName) == "" {
		return nil, fmt.Errorf("%w: queue name is required", domain.ErrInvalidConfig)
	}
	c, err := s.db.GetConfig(ctx, in.ConfigID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("%w: config %d does not exist", domain.ErrInvalidConfig, in.ConfigID)
	} else if err != nil {
		return nil, err
	}

	queueDate := in.QueueDate
	if queueDate.IsZero() {
		queueDate = s.clock.Now().UTC()
	}
	queueType := in.QueueType
	if queueType == "" {
		queueType = c.QueueType
	}
	q := &domain.QueueInstance{
		SourceID:      c.SourceID,
		SourceName:    c.SourceName,
		ScriptID:      c.ScriptID,
		ConfigID:      c.ID,
		QueueName:     strings.TrimSpace(in.QueueName),
		QueueType:     queueType,
		Priority:      c.Priority,
		QueueDate:     queueDate,
		ProcessStatus: in.ProcessStatus,
		Queued:        domain.FlagNo,
		Aggregated:    domain.FlagNo,
		Parsed:        domain.FlagNo,
		Dropped:       domain.FlagNo,
		CreatedBy:     actor,
		UpdatedAt:     s.clock.Now().UTC(),
	}
	if err := s.db.CreateQueueInstance(ctx, q); err != nil {
		return nil, err
	}
	s.logger.WithConfig(c.ID).Info("Queue instance created", "queue_id", q.ID, "priority", q.Priority)
	return q, nil
}

func (s *CatalogService) ListPayloads(ctx context.Context, configID int64) ([]*domain.Payload, error) {
	return s.db.ListPayloads(ctx, configID, constants.MaxListResults)
}
