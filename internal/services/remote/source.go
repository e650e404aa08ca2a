// Package remote drives one configured database source: transport rendering,
// dump filename resolution, remote directory preparation and the perform flow.
package remote

import (
	"context"
	"fmt"

	apperrors "github.com/fgeck/remotedump/internal/errors"
	"github.com/fgeck/remotedump/internal/models"
	"github.com/fgeck/remotedump/internal/services/pipeline"
	"github.com/fgeck/remotedump/internal/services/shell"
	"github.com/rs/zerolog"
)

// Engine is the database-specific part of a source. Engines form a closed
// set of variants selected at configuration time; new databases are added as
// new variants, not by changing the perform flow.
type Engine interface {
	// Name is the engine type name used in filenames and logs, e.g. "MySQL".
	Name() string
	// Validate checks that the engine's connectivity options are usable.
	Validate() error
	// DumpCommand builds the full dump invocation writing to stdout.
	DumpCommand() (string, error)
}

// Source is one configured remote database backup unit.
type Source struct {
	engine     Engine
	databaseID string
	remotePath string
	ssh        models.SSHConfig
	shellSvc   shell.Service
	pipeSvc    pipeline.Service
	resolver   shell.Resolver
	logger     zerolog.Logger

	filename string // resolved once by FinalizeNaming, stable afterwards
	destPath string
}

// New creates a source from its configuration and collaborators.
func New(
	engine Engine,
	cfg models.SourceConfig,
	shellSvc shell.Service,
	pipeSvc pipeline.Service,
	resolver shell.Resolver,
	logger zerolog.Logger,
) *Source {
	return &Source{
		engine:     engine,
		databaseID: cfg.DatabaseID,
		remotePath: cfg.RemotePath,
		ssh:        cfg.SSH,
		shellSvc:   shellSvc,
		pipeSvc:    pipeSvc,
		resolver:   resolver,
		logger:     logger,
	}
}

// FinalizeNaming resolves the source's dump filename against the registry.
// The model must call this for every source after configuration completes and
// before any Perform. Resolving is idempotent: later calls keep the first
// result and do not re-trigger the registry's defect recovery.
func (s *Source) FinalizeNaming(reg *Registry) {
	if s.filename == "" {
		s.filename = reg.Filename(s.engine.Name(), s.databaseID)
	}
}

// DumpFilename returns the resolved filename, empty before FinalizeNaming.
func (s *Source) DumpFilename() string {
	return s.filename
}

// SSH returns the source's transport configuration.
func (s *Source) SSH() models.SSHConfig {
	return s.ssh
}

// DestPath returns the normalized destination directory.
func (s *Source) DestPath() string {
	if s.destPath == "" {
		s.destPath = DestPath(s.remotePath)
	}
	return s.destPath
}

// EnsureDirectory creates the destination directory on the remote host.
func (s *Source) EnsureDirectory(ctx context.Context) error {
	sshBin, err := s.resolver.Lookup("ssh")
	if err != nil {
		return err
	}

	command := fmt.Sprintf(`%s %s %s "mkdir -p '%s'"`, sshBin, TransportArgs(s.ssh), s.ssh.Host, s.DestPath())

	result := s.shellSvc.Run(ctx, command)
	if result.Error != nil {
		return apperrors.NewRemoteExecError(s.filename, result.Error.Error())
	}
	if result.ExitStatus != 0 {
		return apperrors.NewRemoteExecError(s.filename, result.Stderr)
	}

	return nil
}

// Perform runs the full backup of this source: connectivity validation,
// remote directory preparation, then the dump pipeline. It blocks until every
// pipeline stage has terminated and never retries.
func (s *Source) Perform(ctx context.Context, comp *models.CompressorConfig) error {
	if s.filename == "" {
		return fmt.Errorf("naming not finalized for %s source", s.engine.Name())
	}

	s.logger.Info().
		Str("source", s.filename).
		Str("host", s.ssh.Host).
		Msg("started")

	if err := s.engine.Validate(); err != nil {
		return fmt.Errorf("source '%s': %w", s.filename, err)
	}

	if err := s.EnsureDirectory(ctx); err != nil {
		return err
	}

	dump, err := s.engine.DumpCommand()
	if err != nil {
		return fmt.Errorf("source '%s': %w", s.filename, err)
	}

	sshBin, err := s.resolver.Lookup("ssh")
	if err != nil {
		return err
	}

	result := s.pipeSvc.Run(ctx, pipeline.Request{
		DumpCommand: dump,
		Compressor:  comp,
		WritePrefix: fmt.Sprintf("%s %s %s", sshBin, TransportArgs(s.ssh), s.ssh.Host),
		TargetDir:   s.DestPath(),
		Filename:    s.filename,
	})
	if !result.Success {
		return apperrors.NewPipelineError(s.filename, result.Errors)
	}

	s.logger.Info().
		Str("source", s.filename).
		Str("target", result.Target).
		Msg("finished")

	return nil
}
