package probe

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/fgeck/remotedump/internal/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"
)

type mockClient struct {
	outputFunc func(cmd string) (string, error)
	closed     bool
}

func (m *mockClient) Output(cmd string) (string, error) {
	if m.outputFunc != nil {
		return m.outputFunc(cmd)
	}
	return "OK\n", nil
}

func (m *mockClient) Close() error {
	m.closed = true
	return nil
}

type mockClientFactory struct {
	newClientFunc func(addr string, config *ssh.ClientConfig) (Client, error)
	capturedAddr  string
}

func (m *mockClientFactory) NewClient(addr string, config *ssh.ClientConfig) (Client, error) {
	m.capturedAddr = addr
	if m.newClientFunc != nil {
		return m.newClientFunc(addr, config)
	}
	return &mockClient{}, nil
}

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func writeTestKey(t *testing.T) string {
	t.Helper()

	_, privateKey, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	pemBlock, err := ssh.MarshalPrivateKey(privateKey, "")
	require.NoError(t, err)

	keyPath := filepath.Join(t.TempDir(), "id_ed25519")
	require.NoError(t, os.WriteFile(keyPath, pem.EncodeToMemory(pemBlock), 0o600))
	return keyPath
}

func testConfig(t *testing.T) models.SSHConfig {
	t.Helper()
	return models.SSHConfig{
		Host:    "db1.lan",
		User:    "backup",
		KeyPath: writeTestKey(t),
	}
}

func TestCheck_Success(t *testing.T) {
	factory := &mockClientFactory{}
	svc := NewWithClientFactory(testLogger(), factory)

	result, err := svc.Check(context.Background(), testConfig(t))

	require.NoError(t, err)
	assert.Nil(t, result.Error)
	assert.True(t, result.Reachable)
	assert.Contains(t, result.Output, "OK")
	assert.Equal(t, "db1.lan:22", factory.capturedAddr, "port defaults to 22")
}

func TestCheck_CustomPort(t *testing.T) {
	factory := &mockClientFactory{}
	svc := NewWithClientFactory(testLogger(), factory)

	cfg := testConfig(t)
	cfg.Port = 2222

	_, err := svc.Check(context.Background(), cfg)

	require.NoError(t, err)
	assert.Equal(t, "db1.lan:2222", factory.capturedAddr)
}

func TestCheck_MissingKeyPath(t *testing.T) {
	svc := NewWithClientFactory(testLogger(), &mockClientFactory{})

	result, err := svc.Check(context.Background(), models.SSHConfig{Host: "db1.lan", User: "backup"})

	require.NoError(t, err)
	require.NotNil(t, result.Error)
	assert.Contains(t, result.Error.Error(), "key_path")
	assert.False(t, result.Reachable)
}

func TestCheck_ConnectFailure(t *testing.T) {
	factory := &mockClientFactory{
		newClientFunc: func(addr string, config *ssh.ClientConfig) (Client, error) {
			return nil, errors.New("connection refused")
		},
	}
	svc := NewWithClientFactory(testLogger(), factory)

	result, err := svc.Check(context.Background(), testConfig(t))

	require.NoError(t, err)
	require.NotNil(t, result.Error)
	assert.Contains(t, result.Error.Error(), "connection refused")
}

func TestCheck_CommandFailure(t *testing.T) {
	client := &mockClient{
		outputFunc: func(cmd string) (string, error) {
			return "", errors.New("exited with status 127")
		},
	}
	factory := &mockClientFactory{
		newClientFunc: func(addr string, config *ssh.ClientConfig) (Client, error) {
			return client, nil
		},
	}
	svc := NewWithClientFactory(testLogger(), factory)

	result, err := svc.Check(context.Background(), testConfig(t))

	require.NoError(t, err)
	require.NotNil(t, result.Error)
	assert.False(t, result.Reachable)
	assert.True(t, client.closed)
}
