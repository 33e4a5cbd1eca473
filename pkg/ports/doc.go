// Package ports defines the driven-side interfaces of the survey
// engine: configuration supply, response persistence and session
// snapshots. Adapters under pkg/adapters implement them; the core
// only ever sees these interfaces.
package ports
