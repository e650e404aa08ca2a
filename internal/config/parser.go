// Package config provides configuration file parsing.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fgeck/remotedump/internal/models"
	"github.com/spf13/viper"
)

// Engine types a source may declare.
var supportedTypes = map[string]bool{"mysql": true}

// Parser handles configuration file parsing.
type Parser struct {
	v *viper.Viper
}

// NewParser creates a new configuration parser.
func NewParser() *Parser {
	v := viper.New()
	v.SetConfigType("yaml")
	return &Parser{v: v}
}

// LoadFile loads configuration from a file path.
func (p *Parser) LoadFile(path string) (*models.BackupConfig, error) {
	p.v.SetConfigFile(path)

	if err := p.v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	return p.parse()
}

// LoadReader loads configuration from a reader (useful for testing).
func (p *Parser) LoadReader(content string) (*models.BackupConfig, error) {
	if err := p.v.ReadConfig(strings.NewReader(content)); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	return p.parse()
}

// rawSource mirrors one sources[] entry of the YAML file.
type rawSource struct {
	Type       string `mapstructure:"type"`
	DatabaseID string `mapstructure:"database_id"`
	RemotePath string `mapstructure:"remote_path"`
	SSH        struct {
		Host    string   `mapstructure:"host"`
		Port    int      `mapstructure:"port"`
		User    string   `mapstructure:"user"`
		Options []string `mapstructure:"options"`
		KeyPath string   `mapstructure:"key_path"`
	} `mapstructure:"ssh"`
	Database   string   `mapstructure:"database"`
	Username   string   `mapstructure:"username"`
	Password   string   `mapstructure:"password"`
	Host       string   `mapstructure:"host"`
	Port       int      `mapstructure:"port"`
	Socket     string   `mapstructure:"socket"`
	SkipTables []string `mapstructure:"skip_tables"`
	OnlyTables []string `mapstructure:"only_tables"`
	Options    []string `mapstructure:"options"`
}

//nolint:gocognit,gocyclo // parsing config requires checking many fields
func (p *Parser) parse() (*models.BackupConfig, error) {
	cfg := &models.BackupConfig{}

	// Parse sources (required).
	var raws []rawSource
	if err := p.v.UnmarshalKey("sources", &raws); err != nil {
		return nil, fmt.Errorf("parsing sources: %w", err)
	}
	if len(raws) == 0 {
		return nil, fmt.Errorf("at least one source is required")
	}

	for i, raw := range raws {
		if raw.Type == "" {
			raw.Type = "mysql"
		}
		if !supportedTypes[raw.Type] {
			return nil, fmt.Errorf("sources[%d].type %q is not supported", i, raw.Type)
		}
		if raw.RemotePath == "" {
			return nil, fmt.Errorf("sources[%d].remote_path is required", i)
		}
		if raw.SSH.Host == "" {
			return nil, fmt.Errorf("sources[%d].ssh.host is required", i)
		}
		if raw.SSH.Port == 0 {
			raw.SSH.Port = 22
		}

		cfg.Sources = append(cfg.Sources, models.SourceConfig{
			Type:       raw.Type,
			DatabaseID: raw.DatabaseID,
			RemotePath: raw.RemotePath,
			SSH: models.SSHConfig{
				Host:    raw.SSH.Host,
				Port:    raw.SSH.Port,
				User:    raw.SSH.User,
				Options: raw.SSH.Options,
				KeyPath: raw.SSH.KeyPath,
			},
			MySQL: models.MySQLConfig{
				Database:   raw.Database,
				Username:   p.expandEnv(raw.Username),
				Password:   p.expandEnv(raw.Password),
				Host:       raw.Host,
				Port:       raw.Port,
				Socket:     raw.Socket,
				SkipTables: raw.SkipTables,
				OnlyTables: raw.OnlyTables,
				Options:    raw.Options,
			},
		})
	}

	// Parse optional compressor config.
	if p.v.IsSet("compressor") {
		cfg.Compressor = &models.CompressorConfig{
			Command:   p.v.GetString("compressor.command"),
			Extension: p.v.GetString("compressor.extension"),
		}

		if cfg.Compressor.Command == "" {
			return nil, fmt.Errorf("compressor.command is required when compressor is configured")
		}
		if cfg.Compressor.Extension == "" {
			return nil, fmt.Errorf("compressor.extension is required when compressor is configured")
		}
	}

	// Parse optional WOL config.
	if p.v.IsSet("wol") {
		cfg.WOL = &models.WOLConfig{
			MACAddress:   p.v.GetString("wol.mac_address"),
			BroadcastIP:  p.v.GetString("wol.broadcast_ip"),
			PollHost:     p.v.GetString("wol.poll_host"),
			PollPort:     p.v.GetInt("wol.poll_port"),
			Timeout:      p.v.GetDuration("wol.timeout"),
			PollInterval: p.v.GetDuration("wol.poll_interval"),
		}

		if cfg.WOL.MACAddress == "" {
			return nil, fmt.Errorf("wol.mac_address is required when wol is configured")
		}

		// Set defaults.
		if cfg.WOL.BroadcastIP == "" {
			cfg.WOL.BroadcastIP = "255.255.255.255"
		}
		if cfg.WOL.PollPort == 0 {
			cfg.WOL.PollPort = 22
		}
		if cfg.WOL.Timeout == 0 {
			cfg.WOL.Timeout = 5 * time.Minute
		}
		if cfg.WOL.PollInterval == 0 {
			cfg.WOL.PollInterval = 10 * time.Second
		}
	}

	// Parse optional Telegram config.
	if p.v.IsSet("telegram") {
		cfg.Telegram = &models.TelegramConfig{
			BotToken: p.expandEnv(p.v.GetString("telegram.bot_token")),
			ChatID:   p.expandEnv(p.v.GetString("telegram.chat_id")),
		}

		if cfg.Telegram.BotToken == "" {
			return nil, fmt.Errorf("telegram.bot_token is required when telegram is configured")
		}
		if cfg.Telegram.ChatID == "" {
			return nil, fmt.Errorf("telegram.chat_id is required when telegram is configured")
		}
	}

	return cfg, nil
}

// expandEnv expands environment variables in the format ${VAR} or $VAR.
func (p *Parser) expandEnv(s string) string {
	return os.ExpandEnv(s)
}

// Validate performs validation on the loaded configuration.
func Validate(cfg *models.BackupConfig) error {
	if cfg == nil {
		return fmt.Errorf("configuration is nil")
	}

	if len(cfg.Sources) == 0 {
		return fmt.Errorf("at least one source is required")
	}

	for i, src := range cfg.Sources {
		if !supportedTypes[src.Type] {
			return fmt.Errorf("sources[%d].type %q is not supported", i, src.Type)
		}
		if src.RemotePath == "" {
			return fmt.Errorf("sources[%d].remote_path is required", i)
		}
		if src.SSH.Host == "" {
			return fmt.Errorf("sources[%d].ssh.host is required", i)
		}
	}

	return nil
}
