package models

// ProbeResult holds the result of an SSH connectivity probe.
type ProbeResult struct {
	Reachable bool
	Output    string
	Error     error
}
