// Package errors defines the typed errors surfaced by a backup run.
package errors

import "fmt"

// ConnectivityError reports that a source's connectivity options resolve to
// no usable target (no socket and no host/port). It is raised before any
// remote command is issued.
type ConnectivityError struct {
	Engine string
	Reason string
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("%s connectivity options are unusable: %s", e.Engine, e.Reason)
}

// NewConnectivityError creates a ConnectivityError.
func NewConnectivityError(engine, reason string) *ConnectivityError {
	return &ConnectivityError{Engine: engine, Reason: reason}
}

// RemoteExecError reports a failed remote preparation command. Stderr carries
// the command's error output verbatim.
type RemoteExecError struct {
	Source string
	Stderr string
}

func (e *RemoteExecError) Error() string {
	return fmt.Sprintf("remote command failed for source '%s': %s", e.Source, e.Stderr)
}

// NewRemoteExecError creates a RemoteExecError.
func NewRemoteExecError(source, stderr string) *RemoteExecError {
	return &RemoteExecError{Source: source, Stderr: stderr}
}

// PipelineError reports a dump pipeline whose stages did not all exit with
// status zero. Output is the aggregated stderr of the failing stages.
type PipelineError struct {
	Source string
	Output string
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("dump pipeline failed for source '%s':\n%s", e.Source, e.Output)
}

// NewPipelineError creates a PipelineError.
func NewPipelineError(source, output string) *PipelineError {
	return &PipelineError{Source: source, Output: output}
}
