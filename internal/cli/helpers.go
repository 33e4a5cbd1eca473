package cli

import (
	"context"
	"fmt"
	"log/slog"

	"enkat/internal/logging"
	"enkat/pkg/adapters/file"
)

// createLogger configures the application logger. In debug mode it
// writes to Stderr, keeping the conversation on Stdout clean.
func createLogger(debug bool) *slog.Logger {
	if debug {
		return logging.New(slog.LevelDebug)
	}
	return logging.NewNop()
}

// printSystemMessage prints a standardized system message to stdout.
func printSystemMessage(format string, args ...any) {
	fmt.Printf(">>> %s\n", fmt.Sprintf(format, args...))
}

// ResetSession clears the stored snapshot for the given id.
func ResetSession(sessionID string) {
	store := file.NewStore("") // default .enkat/sessions
	_ = store.Delete(context.Background(), sessionID)
}
