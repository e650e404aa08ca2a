package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectivityError_Error(t *testing.T) {
	err := NewConnectivityError("MySQL", "no socket or host/port configured")

	assert.Equal(t, "MySQL connectivity options are unusable: no socket or host/port configured", err.Error())
}

func TestRemoteExecError_Error(t *testing.T) {
	err := NewRemoteExecError("MySQL-app", "mkdir: permission denied")

	assert.Contains(t, err.Error(), "MySQL-app")
	assert.Contains(t, err.Error(), "mkdir: permission denied")
}

func TestPipelineError_Error(t *testing.T) {
	err := NewPipelineError("MySQL", "mysqldump returned exit status 2\naccess denied")

	assert.Contains(t, err.Error(), "MySQL")
	assert.Contains(t, err.Error(), "access denied")
}

func TestErrorsAs_ThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("source failed: %w", NewPipelineError("MySQL-app", "disk full"))

	var pipeErr *PipelineError
	require.True(t, stderrors.As(wrapped, &pipeErr))
	assert.Equal(t, "MySQL-app", pipeErr.Source)
	assert.Equal(t, "disk full", pipeErr.Output)
}
