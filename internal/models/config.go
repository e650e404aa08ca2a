// Package models contains the data structures used throughout remotedump.
package models

// BackupConfig holds the complete configuration for a backup run.
type BackupConfig struct {
	Sources    []SourceConfig
	Compressor *CompressorConfig // nil if not configured
	WOL        *WOLConfig        // nil if not configured
	Telegram   *TelegramConfig   // nil if not configured
}

// CompressorConfig describes the optional compression stage of the dump
// pipeline. Command is inserted between the dump and the remote write stage;
// Extension is appended to the bare "sql" extension (e.g. ".gz" -> "sql.gz").
type CompressorConfig struct {
	Command   string
	Extension string
}

// SourceConfig holds the configuration of one remote database source.
type SourceConfig struct {
	Type       string // engine type, currently "mysql"
	DatabaseID string // optional identifier distinguishing sibling sources
	RemotePath string // destination directory on the remote host
	SSH        SSHConfig
	MySQL      MySQLConfig
}

// SSHConfig holds the transport parameters for reaching the remote host.
type SSHConfig struct {
	Host    string
	Port    int // default 22
	User    string
	Options []string // extra arguments for the ssh binary
	KeyPath string   // private key path, used by the connection probe only
}

// MySQLConfig holds the mysqldump-specific configuration of a source.
// Database may be the all-databases sentinel to dump every database on the
// server. Socket takes precedence over Host/Port when both are given.
type MySQLConfig struct {
	Database   string
	Username   string
	Password   string
	Host       string
	Port       int
	Socket     string
	SkipTables []string
	OnlyTables []string
	Options    []string // free-form extra mysqldump flags
}
