// Package mysql builds mysqldump invocations for remote MySQL sources.
package mysql

import (
	"fmt"
	"strings"

	apperrors "github.com/fgeck/remotedump/internal/errors"
	"github.com/fgeck/remotedump/internal/models"
	"github.com/fgeck/remotedump/internal/services/shell"
)

// AllDatabases is the sentinel database name meaning "dump every database".
const AllDatabases = ":all"

// engineName is the type name used in dump filenames and logs.
const engineName = "MySQL"

// Engine implements the remote.Engine variant for MySQL.
type Engine struct {
	cfg      models.MySQLConfig
	resolver shell.Resolver
}

// New creates a MySQL engine.
func New(cfg models.MySQLConfig, resolver shell.Resolver) *Engine {
	return &Engine{
		cfg:      cfg,
		resolver: resolver,
	}
}

// Name returns the engine type name.
func (e *Engine) Name() string {
	return engineName
}

// Validate checks that the connectivity options yield a usable target:
// a socket, or a host/port. Failing this is fatal before any remote command.
func (e *Engine) Validate() error {
	if e.cfg.Socket == "" && e.cfg.Host == "" && e.cfg.Port == 0 {
		return apperrors.NewConnectivityError(engineName, "no socket or host/port configured")
	}
	return nil
}

// DumpCommand assembles the mysqldump invocation from its optional fragments,
// each omitted entirely when unset, joined with single spaces in fixed order:
// credentials, connectivity, extra options, name/scope, tables to dump,
// tables to skip. User-supplied values are wrapped in single quotes; embedded
// quotes are not escaped further, matching the shell-string construction the
// rest of the pipeline uses.
func (e *Engine) DumpCommand() (string, error) {
	bin, err := e.resolver.Lookup("mysqldump")
	if err != nil {
		return "", err
	}

	parts := []string{bin}
	for _, fragment := range []string{
		e.credentialOptions(),
		e.connectivityOptions(),
		e.userOptions(),
		e.nameOption(),
		e.tablesToDump(),
		e.tablesToSkip(),
	} {
		if fragment != "" {
			parts = append(parts, fragment)
		}
	}

	return strings.Join(parts, " "), nil
}

// dumpAll reports whether the dump targets every database on the server.
func (e *Engine) dumpAll() bool {
	return e.cfg.Database == "" || e.cfg.Database == AllDatabases
}

func (e *Engine) credentialOptions() string {
	var opts []string
	if e.cfg.Username != "" {
		opts = append(opts, fmt.Sprintf("--user='%s'", e.cfg.Username))
	}
	if e.cfg.Password != "" {
		opts = append(opts, fmt.Sprintf("--password='%s'", e.cfg.Password))
	}
	return strings.Join(opts, " ")
}

// connectivityOptions renders the socket alone when one is configured;
// host and port are ignored in that case.
func (e *Engine) connectivityOptions() string {
	if e.cfg.Socket != "" {
		return fmt.Sprintf("--socket='%s'", e.cfg.Socket)
	}

	var opts []string
	if e.cfg.Host != "" {
		opts = append(opts, fmt.Sprintf("--host='%s'", e.cfg.Host))
	}
	if e.cfg.Port != 0 {
		opts = append(opts, fmt.Sprintf("--port='%d'", e.cfg.Port))
	}
	return strings.Join(opts, " ")
}

func (e *Engine) userOptions() string {
	return strings.Join(e.cfg.Options, " ")
}

func (e *Engine) nameOption() string {
	if e.dumpAll() {
		return "--all-databases"
	}
	return e.cfg.Database
}

// tablesToDump is only emitted for single-database dumps; qualification of
// the listed tables is the operator's responsibility.
func (e *Engine) tablesToDump() string {
	if e.dumpAll() {
		return ""
	}
	return strings.Join(e.cfg.OnlyTables, " ")
}

// tablesToSkip qualifies unqualified entries with the database name unless
// the dump targets all databases.
func (e *Engine) tablesToSkip() string {
	var opts []string
	for _, table := range e.cfg.SkipTables {
		name := table
		if !e.dumpAll() && !strings.Contains(table, ".") {
			name = e.cfg.Database + "." + table
		}
		opts = append(opts, fmt.Sprintf("--ignore-table='%s'", name))
	}
	return strings.Join(opts, " ")
}
