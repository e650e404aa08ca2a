package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fgeck/remotedump/internal/config"
	"github.com/fgeck/remotedump/internal/services/probe"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var probeConnections bool

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	Long: `Validate the configuration file without executing any backup operations.
With --probe, additionally verify SSH connectivity to each source's remote host
(requires ssh.key_path on the sources).`,
	RunE: validateConfig,
}

func init() {
	validateCmd.Flags().BoolVar(&probeConnections, "probe", false, "probe SSH connectivity to each source host")
}

func validateConfig(cmd *cobra.Command, args []string) error {
	if configFile == "" {
		log.Error().Msg("config file is required")
		return cmd.Help()
	}

	// Check if file exists
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		log.Error().Str("file", configFile).Msg("config file not found")
		return fmt.Errorf("config file not found: %s", configFile)
	}

	// Load configuration
	parser := config.NewParser()
	cfg, err := parser.LoadFile(configFile)
	if err != nil {
		log.Error().Err(err).Str("file", configFile).Msg("failed to parse config")
		return err
	}

	// Validate configuration
	if err := config.Validate(cfg); err != nil {
		log.Error().Err(err).Msg("configuration validation failed")
		return err
	}

	// Print configuration summary
	fmt.Println("Configuration is valid!")
	fmt.Println()
	fmt.Println("Sources:")
	for _, src := range cfg.Sources {
		fmt.Printf("  - type: %s\n", src.Type)
		if src.DatabaseID != "" {
			fmt.Printf("    database_id: %s\n", src.DatabaseID)
		}
		fmt.Printf("    remote: %s@%s:%d\n", orDefault(src.SSH.User, "(current user)"), src.SSH.Host, src.SSH.Port)
		fmt.Printf("    remote_path: %s\n", src.RemotePath)
		if src.MySQL.Database != "" {
			fmt.Printf("    database: %s\n", src.MySQL.Database)
		} else {
			fmt.Printf("    database: (all databases)\n")
		}
	}
	fmt.Println()
	fmt.Println("Optional Features:")
	fmt.Printf("  Compressor: %v\n", cfg.Compressor != nil)
	fmt.Printf("  Wake-on-LAN: %v\n", cfg.WOL != nil)
	fmt.Printf("  Telegram: %v\n", cfg.Telegram != nil)

	if cfg.Compressor != nil {
		fmt.Println()
		fmt.Println("Compressor Configuration:")
		fmt.Printf("  Command: %s\n", cfg.Compressor.Command)
		fmt.Printf("  Extension: %s\n", cfg.Compressor.Extension)
	}

	if cfg.WOL != nil {
		fmt.Println()
		fmt.Println("WOL Configuration:")
		fmt.Printf("  MAC Address: %s\n", cfg.WOL.MACAddress)
		fmt.Printf("  Broadcast IP: %s\n", cfg.WOL.BroadcastIP)
		if cfg.WOL.PollHost != "" {
			fmt.Printf("  Poll: %s:%d\n", cfg.WOL.PollHost, cfg.WOL.PollPort)
		}
	}

	if !probeConnections {
		return nil
	}

	// Probe SSH connectivity per source
	fmt.Println()
	fmt.Println("Probing SSH connectivity:")
	probeSvc := probe.New(log.Logger)
	failed := 0
	for _, src := range cfg.Sources {
		result, err := probeSvc.Check(context.Background(), src.SSH)
		if err != nil {
			return err
		}
		if result.Error != nil {
			failed++
			fmt.Printf("  %s: FAILED (%v)\n", src.SSH.Host, result.Error)
			continue
		}
		fmt.Printf("  %s: OK\n", src.SSH.Host)
	}

	if failed > 0 {
		return fmt.Errorf("%d source host(s) unreachable", failed)
	}
	return nil
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
