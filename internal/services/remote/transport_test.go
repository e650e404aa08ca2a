package remote

import (
	"testing"

	"github.com/fgeck/remotedump/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestTransportArgs_DefaultPort(t *testing.T) {
	args := TransportArgs(models.SSHConfig{Host: "db1"})

	assert.Equal(t, "-p 22", args)
}

func TestTransportArgs_WithUser(t *testing.T) {
	args := TransportArgs(models.SSHConfig{Host: "db1", Port: 2222, User: "backup"})

	assert.Equal(t, "-p 2222 -l backup", args)
}

func TestTransportArgs_WithOptions(t *testing.T) {
	args := TransportArgs(models.SSHConfig{
		Host:    "db1",
		User:    "backup",
		Options: []string{"-o", "BatchMode=yes"},
	})

	assert.Equal(t, "-p 22 -l backup -o BatchMode=yes", args)
}

func TestDestPath(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected string
	}{
		{"tilde and trailing slash", "~/backups/", "backups"},
		{"tilde only", "~/backups", "backups"},
		{"absolute", "/var/backups", "/var/backups"},
		{"trailing slash", "/var/backups/", "/var/backups"},
		{"nested relative", "~/backups/db/", "backups/db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DestPath(tt.path))
		})
	}
}
