package remote

import (
	"fmt"
	"strings"

	"github.com/fgeck/remotedump/internal/models"
)

// DefaultSSHPort is used when a source does not configure one.
const DefaultSSHPort = 22

// TransportArgs renders the ssh argument prefix for a remote command:
// "-p <port> [-l <user>] [<additional options>]", trailing space trimmed.
func TransportArgs(cfg models.SSHConfig) string {
	port := cfg.Port
	if port == 0 {
		port = DefaultSSHPort
	}

	parts := []string{fmt.Sprintf("-p %d", port)}
	if cfg.User != "" {
		parts = append(parts, fmt.Sprintf("-l %s", cfg.User))
	}
	parts = append(parts, cfg.Options...)

	return strings.TrimSpace(strings.Join(parts, " "))
}

// DestPath normalizes a configured remote path: a leading "~/" and a
// trailing "/" are stripped.
func DestPath(remotePath string) string {
	return strings.TrimSuffix(strings.TrimPrefix(remotePath, "~/"), "/")
}
