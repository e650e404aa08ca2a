package mysql

import (
	"testing"

	apperrors "github.com/fgeck/remotedump/internal/errors"
	"github.com/fgeck/remotedump/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockResolver struct{}

func (m *mockResolver) Lookup(name string) (string, error) {
	return "/usr/bin/" + name, nil
}

func newEngine(cfg models.MySQLConfig) *Engine {
	return New(cfg, &mockResolver{})
}

func TestName(t *testing.T) {
	assert.Equal(t, "MySQL", newEngine(models.MySQLConfig{}).Name())
}

func TestValidate_NoConnectivity(t *testing.T) {
	err := newEngine(models.MySQLConfig{Database: "app"}).Validate()

	var connErr *apperrors.ConnectivityError
	require.ErrorAs(t, err, &connErr)
	assert.Equal(t, "MySQL", connErr.Engine)
}

func TestValidate_SocketIsEnough(t *testing.T) {
	err := newEngine(models.MySQLConfig{Socket: "/run/mysqld/mysqld.sock"}).Validate()

	assert.NoError(t, err)
}

func TestValidate_HostIsEnough(t *testing.T) {
	assert.NoError(t, newEngine(models.MySQLConfig{Host: "127.0.0.1"}).Validate())
	assert.NoError(t, newEngine(models.MySQLConfig{Port: 3306}).Validate())
}

func TestDumpCommand_AllDatabasesDefault(t *testing.T) {
	cmd, err := newEngine(models.MySQLConfig{Host: "127.0.0.1"}).DumpCommand()

	require.NoError(t, err)
	assert.Equal(t, "/usr/bin/mysqldump --host='127.0.0.1' --all-databases", cmd)
}

func TestDumpCommand_AllDatabasesSentinel(t *testing.T) {
	cmd, err := newEngine(models.MySQLConfig{
		Database: AllDatabases,
		Host:     "127.0.0.1",
	}).DumpCommand()

	require.NoError(t, err)
	assert.Contains(t, cmd, "--all-databases")
}

func TestDumpCommand_FullOrdering(t *testing.T) {
	cmd, err := newEngine(models.MySQLConfig{
		Database:   "app",
		Username:   "root",
		Password:   "secret",
		Host:       "127.0.0.1",
		Port:       3306,
		OnlyTables: []string{"users", "orders"},
		SkipTables: []string{"logs"},
		Options:    []string{"--single-transaction", "--quick"},
	}).DumpCommand()

	require.NoError(t, err)
	assert.Equal(t,
		"/usr/bin/mysqldump --user='root' --password='secret' "+
			"--host='127.0.0.1' --port='3306' --single-transaction --quick "+
			"app users orders --ignore-table='app.logs'",
		cmd)
}

func TestDumpCommand_SocketWinsOverHostPort(t *testing.T) {
	cmd, err := newEngine(models.MySQLConfig{
		Database: "app",
		Host:     "127.0.0.1",
		Port:     3306,
		Socket:   "/run/mysqld/mysqld.sock",
	}).DumpCommand()

	require.NoError(t, err)
	assert.Contains(t, cmd, "--socket='/run/mysqld/mysqld.sock'")
	assert.NotContains(t, cmd, "--host")
	assert.NotContains(t, cmd, "--port")
}

func TestDumpCommand_SkipTableQualification(t *testing.T) {
	cmd, err := newEngine(models.MySQLConfig{
		Database:   "app",
		Host:       "127.0.0.1",
		SkipTables: []string{"logs", "other.audit"},
	}).DumpCommand()

	require.NoError(t, err)
	assert.Contains(t, cmd, "--ignore-table='app.logs' --ignore-table='other.audit'")
}

func TestDumpCommand_SkipTablesUnqualifiedForAllDatabases(t *testing.T) {
	cmd, err := newEngine(models.MySQLConfig{
		Host:       "127.0.0.1",
		SkipTables: []string{"mysql.slow_log", "logs"},
	}).DumpCommand()

	require.NoError(t, err)
	assert.Contains(t, cmd, "--ignore-table='mysql.slow_log' --ignore-table='logs'")
}

func TestDumpCommand_OnlyTablesIgnoredForAllDatabases(t *testing.T) {
	cmd, err := newEngine(models.MySQLConfig{
		Host:       "127.0.0.1",
		OnlyTables: []string{"users"},
	}).DumpCommand()

	require.NoError(t, err)
	assert.NotContains(t, cmd, "users")
}

func TestDumpCommand_CredentialsOnlyWhenPresent(t *testing.T) {
	cmd, err := newEngine(models.MySQLConfig{
		Database: "app",
		Username: "root",
		Host:     "127.0.0.1",
	}).DumpCommand()

	require.NoError(t, err)
	assert.Contains(t, cmd, "--user='root'")
	assert.NotContains(t, cmd, "--password")
}

func TestDumpCommand_EmbeddedQuoteNotEscaped(t *testing.T) {
	cmd, err := newEngine(models.MySQLConfig{
		Database: "app",
		Host:     "127.0.0.1",
		Password: "it's",
	}).DumpCommand()

	require.NoError(t, err)
	assert.Contains(t, cmd, "--password='it's'")
}
