// Package probe verifies SSH connectivity to a source's remote host.
package probe

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/user"
	"time"

	"github.com/fgeck/remotedump/internal/models"
	"github.com/fgeck/remotedump/internal/services/remote"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/ssh"
)

// Service defines the interface for SSH connectivity probes.
type Service interface {
	Check(ctx context.Context, cfg models.SSHConfig) (*models.ProbeResult, error)
}

// Client wraps an established SSH connection for mocking.
type Client interface {
	Output(cmd string) (string, error)
	Close() error
}

// ClientFactory creates SSH clients.
type ClientFactory interface {
	NewClient(addr string, config *ssh.ClientConfig) (Client, error)
}

// DefaultClientFactory dials real SSH connections.
type DefaultClientFactory struct{}

// NewClient connects to the given address.
func (f *DefaultClientFactory) NewClient(addr string, config *ssh.ClientConfig) (Client, error) {
	client, err := ssh.Dial("tcp", addr, config)
	if err != nil {
		return nil, err
	}
	return &defaultClient{client: client}, nil
}

type defaultClient struct {
	client *ssh.Client
}

func (c *defaultClient) Output(cmd string) (string, error) {
	session, err := c.client.NewSession()
	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	defer func() { _ = session.Close() }()

	out, err := session.CombinedOutput(cmd)
	return string(out), err
}

func (c *defaultClient) Close() error {
	return c.client.Close()
}

// Impl implements the probe Service interface.
type Impl struct {
	clientFactory ClientFactory
	logger        zerolog.Logger
}

// New creates a new probe service.
func New(logger zerolog.Logger) *Impl {
	return &Impl{
		clientFactory: &DefaultClientFactory{},
		logger:        logger,
	}
}

// NewWithClientFactory creates a new probe service with a custom factory (for testing).
func NewWithClientFactory(logger zerolog.Logger, factory ClientFactory) *Impl {
	return &Impl{
		clientFactory: factory,
		logger:        logger,
	}
}

func buildClientConfig(cfg models.SSHConfig) (*ssh.ClientConfig, error) {
	if cfg.KeyPath == "" {
		return nil, fmt.Errorf("ssh.key_path is required for the connection probe")
	}

	key, err := os.ReadFile(cfg.KeyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read private key from %s: %w", cfg.KeyPath, err)
	}

	signer, err := ssh.ParsePrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	username := cfg.User
	if username == "" {
		current, err := user.Current()
		if err != nil {
			return nil, fmt.Errorf("ssh.user not set and current user unknown: %w", err)
		}
		username = current.Username
	}

	return &ssh.ClientConfig{
		User: username,
		Auth: []ssh.AuthMethod{
			ssh.PublicKeys(signer),
		},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(), //nolint:gosec // probe only verifies reachability
		Timeout:         30 * time.Second,
	}, nil
}

// Check dials the source's SSH endpoint and runs a trivial command, verifying
// the host is reachable before a backup run touches it.
func (s *Impl) Check(ctx context.Context, cfg models.SSHConfig) (*models.ProbeResult, error) {
	result := &models.ProbeResult{}

	port := cfg.Port
	if port == 0 {
		port = remote.DefaultSSHPort
	}
	addr := net.JoinHostPort(cfg.Host, fmt.Sprintf("%d", port))

	s.logger.Debug().Str("addr", addr).Msg("probing SSH connection")

	clientConfig, err := buildClientConfig(cfg)
	if err != nil {
		result.Error = err
		return result, nil
	}

	clientChan := make(chan struct {
		client Client
		err    error
	}, 1)

	go func() {
		client, err := s.clientFactory.NewClient(addr, clientConfig)
		clientChan <- struct {
			client Client
			err    error
		}{client, err}
	}()

	var client Client
	select {
	case <-ctx.Done():
		result.Error = ctx.Err()
		return result, nil
	case res := <-clientChan:
		if res.err != nil {
			result.Error = fmt.Errorf("failed to connect: %w", res.err)
			return result, nil
		}
		client = res.client
	}
	defer func() { _ = client.Close() }()

	output, err := client.Output("echo OK")
	result.Output = output
	if err != nil {
		result.Error = fmt.Errorf("probe command failed: %w", err)
		return result, nil
	}

	result.Reachable = true
	return result, nil
}
