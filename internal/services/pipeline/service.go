// Package pipeline composes and runs the staged dump pipeline.
package pipeline

import (
	"context"
	"fmt"

	"github.com/fgeck/remotedump/internal/models"
	"github.com/fgeck/remotedump/internal/services/shell"
	"github.com/rs/zerolog"
)

// Request describes one dump pipeline: the engine dump command, an optional
// compression stage and the remote file the stream is written to.
type Request struct {
	DumpCommand string
	Compressor  *models.CompressorConfig // nil for an uncompressed dump
	WritePrefix string                   // "<ssh> <transport args> <host>"
	TargetDir   string                   // normalized destination directory
	Filename    string                   // dump filename without extension
}

// Service defines the interface for running dump pipelines.
type Service interface {
	Run(ctx context.Context, req Request) *models.PipelineResult
}

// Impl implements the pipeline Service interface.
type Impl struct {
	shellSvc shell.Service
	logger   zerolog.Logger
}

// New creates a new pipeline service.
func New(logger zerolog.Logger, shellSvc shell.Service) *Impl {
	return &Impl{
		shellSvc: shellSvc,
		logger:   logger,
	}
}

// Extension returns the dump file extension for the given compressor:
// "sql" for uncompressed dumps, "sql" plus the compressor fragment otherwise.
func Extension(comp *models.CompressorConfig) string {
	ext := "sql"
	if comp != nil {
		ext += comp.Extension
	}
	return ext
}

// Run connects the dump, compression and remote write stages into one
// pipeline and executes it. All stages run concurrently; the dump is streamed,
// never buffered wholesale.
func (s *Impl) Run(ctx context.Context, req Request) *models.PipelineResult {
	target := fmt.Sprintf("%s/%s.%s", req.TargetDir, req.Filename, Extension(req.Compressor))

	stages := []string{req.DumpCommand}
	if req.Compressor != nil {
		stages = append(stages, req.Compressor.Command)
	}
	stages = append(stages, fmt.Sprintf(`%s "cat > '%s'"`, req.WritePrefix, target))

	s.logger.Debug().
		Str("target", target).
		Int("stages", len(stages)).
		Msg("executing dump pipeline")

	result := s.shellSvc.RunPipeline(ctx, stages)
	result.Target = target
	return result
}
