// Package runner orchestrates the backup run across all configured sources.
package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/fgeck/remotedump/internal/models"
	"github.com/fgeck/remotedump/internal/services/mysql"
	"github.com/fgeck/remotedump/internal/services/pipeline"
	"github.com/fgeck/remotedump/internal/services/remote"
	"github.com/fgeck/remotedump/internal/services/shell"
	"github.com/fgeck/remotedump/internal/services/telegram"
	"github.com/fgeck/remotedump/internal/services/wol"
	"github.com/rs/zerolog"
)

// Service defines the interface for the backup runner.
type Service interface {
	Run(ctx context.Context, cfg models.BackupConfig) error
}

// Impl implements the runner Service interface.
type Impl struct {
	shellSvc    shell.Service
	pipeSvc     pipeline.Service
	wolSvc      wol.Service
	telegramSvc telegram.Service
	resolver    shell.Resolver
	registry    *remote.Registry // nil outside tests; a fresh one is built per run
	logger      zerolog.Logger
}

// New creates a new runner service.
func New(logger zerolog.Logger) *Impl {
	shellSvc := shell.New(logger)
	return &Impl{
		shellSvc:    shellSvc,
		pipeSvc:     pipeline.New(logger, shellSvc),
		wolSvc:      wol.New(logger),
		telegramSvc: telegram.New(logger),
		resolver:    &shell.ExecResolver{},
		logger:      logger,
	}
}

// NewWithServices creates a new runner service with custom services (for testing).
func NewWithServices(
	logger zerolog.Logger,
	shellSvc shell.Service,
	pipeSvc pipeline.Service,
	wolSvc wol.Service,
	telegramSvc telegram.Service,
	resolver shell.Resolver,
	registry *remote.Registry,
) *Impl {
	return &Impl{
		shellSvc:    shellSvc,
		pipeSvc:     pipeSvc,
		wolSvc:      wolSvc,
		telegramSvc: telegramSvc,
		resolver:    resolver,
		registry:    registry,
		logger:      logger,
	}
}

// Run executes the backup run: wake the host if configured, build and name
// all sources, then perform them in order. The first failing source aborts
// the run.
func (s *Impl) Run(ctx context.Context, cfg models.BackupConfig) error {
	startTime := time.Now()
	var runErr error
	var failedSource string
	completed := 0

	s.logger.Info().
		Int("sources", len(cfg.Sources)).
		Bool("compressed", cfg.Compressor != nil).
		Msg("starting backup run")

	defer func() {
		if cfg.Telegram != nil {
			s.sendNotification(ctx, cfg, startTime, completed, failedSource, runErr)
		}
	}()

	if cfg.WOL != nil {
		if err := s.runWake(ctx, cfg.WOL); err != nil {
			runErr = err
			return err
		}
	}

	sources, err := s.buildSources(cfg)
	if err != nil {
		runErr = err
		return err
	}

	for _, src := range sources {
		if err := src.Perform(ctx, cfg.Compressor); err != nil {
			failedSource = src.DumpFilename()
			runErr = err
			return fmt.Errorf("backup of source '%s' failed: %w", failedSource, err)
		}
		completed++
	}

	s.logger.Info().
		Int("sources", completed).
		Dur("duration", time.Since(startTime)).
		Msg("backup run completed successfully")

	return nil
}

// buildSources constructs one source per config entry, registers each with
// the naming registry and finalizes naming only after every sibling is known.
func (s *Impl) buildSources(cfg models.BackupConfig) ([]*remote.Source, error) {
	registry := s.registry
	if registry == nil {
		registry = remote.NewRegistry(s.logger)
	}

	sources := make([]*remote.Source, 0, len(cfg.Sources))
	for i, sc := range cfg.Sources {
		engine, err := s.newEngine(sc)
		if err != nil {
			return nil, fmt.Errorf("sources[%d]: %w", i, err)
		}
		registry.Register(engine.Name())
		sources = append(sources, remote.New(engine, sc, s.shellSvc, s.pipeSvc, s.resolver, s.logger))
	}

	for _, src := range sources {
		src.FinalizeNaming(registry)
	}

	return sources, nil
}

// newEngine selects the engine variant for a source. New database engines
// are added here, not in the perform flow.
func (s *Impl) newEngine(cfg models.SourceConfig) (remote.Engine, error) {
	switch cfg.Type {
	case "mysql":
		return mysql.New(cfg.MySQL, s.resolver), nil
	default:
		return nil, fmt.Errorf("unsupported source type: %s", cfg.Type)
	}
}

func (s *Impl) runWake(ctx context.Context, cfg *models.WOLConfig) error {
	s.logger.Info().
		Str("mac", cfg.MACAddress).
		Str("poll_host", cfg.PollHost).
		Msg("waking database host")

	result, err := s.wolSvc.Wake(ctx, *cfg)
	if err != nil {
		return fmt.Errorf("wake failed: %w", err)
	}
	if result.Error != nil {
		return fmt.Errorf("wake failed: %w", result.Error)
	}
	if !result.TargetReady && cfg.PollHost != "" {
		return fmt.Errorf("host did not become ready after wake")
	}

	s.logger.Info().
		Bool("packet_sent", result.PacketSent).
		Dur("wait_duration", result.WaitDuration).
		Msg("database host is up")

	return nil
}

func (s *Impl) sendNotification(
	ctx context.Context,
	cfg models.BackupConfig,
	startTime time.Time,
	completed int,
	failedSource string,
	runErr error,
) {
	summary := models.RunSummary{
		Success:          runErr == nil,
		StartTime:        startTime,
		Duration:         time.Since(startTime),
		SourcesTotal:     len(cfg.Sources),
		SourcesCompleted: completed,
		FailedSource:     failedSource,
	}
	if runErr != nil {
		summary.ErrorMessage = runErr.Error()
	}

	result, err := s.telegramSvc.SendNotification(ctx, *cfg.Telegram, summary)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to send Telegram notification")
		return
	}
	if result.Error != nil {
		s.logger.Error().Err(result.Error).Msg("failed to send Telegram notification")
		return
	}

	s.logger.Info().Msg("Telegram notification sent")
}
