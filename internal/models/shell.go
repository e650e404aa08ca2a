package models

// CommandResult holds the outcome of a single shell command.
type CommandResult struct {
	ExitStatus int
	Stdout     string
	Stderr     string
	Error      error // set when the command could not be run at all
}

// PipelineResult holds the aggregate outcome of a staged pipeline run.
// Success is true only when every stage exited with status zero. Errors
// carries one line per failing stage, including its captured stderr.
type PipelineResult struct {
	Success bool
	Errors  string
	Target  string // remote path the pipeline wrote to, for logging
}
