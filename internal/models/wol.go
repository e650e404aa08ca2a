package models

import "time"

// WOLConfig holds Wake-on-LAN configuration for the database host.
type WOLConfig struct {
	MACAddress   string
	BroadcastIP  string
	PollHost     string        // host whose SSH port is polled until reachable
	PollPort     int           // port to poll, default 22
	Timeout      time.Duration // max time to wait for the host
	PollInterval time.Duration // how often to retry the connection
}

// WOLResult holds the result of a Wake-on-LAN operation.
type WOLResult struct {
	PacketSent   bool
	TargetReady  bool
	WaitDuration time.Duration
	Error        error
}
