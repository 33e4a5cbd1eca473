// Package cli implements the interactive terminal runner behind the
// `enkat run` command.
package cli

import "time"

// RunOptions contains all the configuration for the Run command.
type RunOptions struct {
	File      string
	SessionID string
	Fresh     bool
	Debug     bool
	Plain     bool
	Pacing    time.Duration
}

// Execute handles the 'run' command logic.
func Execute(opts RunOptions) error {
	if opts.Fresh && opts.SessionID != "" {
		ResetSession(opts.SessionID)
	}
	return RunSession(opts)
}
