// Package shell executes shell commands and staged pipelines.
package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/fgeck/remotedump/internal/models"
	"github.com/rs/zerolog"
)

// Service defines the interface for running shell commands.
type Service interface {
	Run(ctx context.Context, command string) *models.CommandResult
	RunPipeline(ctx context.Context, stages []string) *models.PipelineResult
}

// Resolver looks up the absolute path of an external utility.
type Resolver interface {
	Lookup(name string) (string, error)
}

// ExecResolver resolves utilities via the PATH environment.
type ExecResolver struct{}

// Lookup returns the absolute path of the named utility.
func (r *ExecResolver) Lookup(name string) (string, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("utility %q not found: %w", name, err)
	}
	return path, nil
}

// Impl implements the shell Service interface.
type Impl struct {
	shell  string
	logger zerolog.Logger
}

// New creates a new shell service.
func New(logger zerolog.Logger) *Impl {
	return &Impl{
		shell:  "/bin/sh",
		logger: logger,
	}
}

// Run executes a single command synchronously and captures its output.
func (s *Impl) Run(ctx context.Context, command string) *models.CommandResult {
	s.logger.Debug().Str("command", command).Msg("running command")

	result := &models.CommandResult{}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, s.shell, "-c", command) //nolint:gosec // command strings are operator-controlled
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result.Stdout = stdout.String()
	result.Stderr = stderr.String()

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitStatus = exitErr.ExitCode()
		} else {
			result.Error = fmt.Errorf("failed to run command: %w", err)
			result.ExitStatus = -1
		}
	}

	return result
}

// RunPipeline launches every stage as a subprocess, connects stage N's stdout
// to stage N+1's stdin with OS pipes and waits for all of them. Success
// requires every stage to exit with status zero; the error output of failing
// stages is aggregated into one multi-line message.
func (s *Impl) RunPipeline(ctx context.Context, stages []string) *models.PipelineResult {
	result := &models.PipelineResult{}
	if len(stages) == 0 {
		result.Success = true
		return result
	}

	s.logger.Debug().Strs("stages", stages).Msg("running pipeline")

	cmds := make([]*exec.Cmd, len(stages))
	stderrs := make([]bytes.Buffer, len(stages))
	for i, stage := range stages {
		cmds[i] = exec.CommandContext(ctx, s.shell, "-c", stage) //nolint:gosec // stage strings are operator-controlled
		cmds[i].Stderr = &stderrs[i]
	}

	// The parent keeps its own copies of the pipe ends; they must be closed
	// after the children start or the readers never see EOF.
	var pipes []*os.File
	for i := 0; i < len(cmds)-1; i++ {
		r, w, err := os.Pipe()
		if err != nil {
			closeAll(pipes)
			result.Errors = fmt.Sprintf("failed to create pipe: %v", err)
			return result
		}
		cmds[i].Stdout = w
		cmds[i+1].Stdin = r
		pipes = append(pipes, r, w)
	}

	startErrs := make([]error, len(cmds))
	for i, cmd := range cmds {
		startErrs[i] = cmd.Start()
	}
	closeAll(pipes)

	var failures []string
	for i, cmd := range cmds {
		name := stageName(stages[i])
		if startErrs[i] != nil {
			failures = append(failures, fmt.Sprintf("%s failed to start: %v", name, startErrs[i]))
			continue
		}
		if err := cmd.Wait(); err != nil {
			msg := fmt.Sprintf("%s returned exit status %d", name, cmd.ProcessState.ExitCode())
			if errText := strings.TrimSpace(stderrs[i].String()); errText != "" {
				msg += "\n" + errText
			}
			failures = append(failures, msg)
		}
	}

	if len(failures) > 0 {
		result.Errors = strings.Join(failures, "\n")
		return result
	}

	result.Success = true
	return result
}

// stageName extracts a short display name from a stage command line.
func stageName(stage string) string {
	fields := strings.Fields(stage)
	if len(fields) == 0 {
		return "(empty)"
	}
	return filepath.Base(fields[0])
}

func closeAll(files []*os.File) {
	for _, f := range files {
		_ = f.Close()
	}
}
