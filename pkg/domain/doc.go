// Package domain contains the core survey model: the question graph,
// skip rules, session state and the transcript types. It has no
// dependencies and no behavior beyond lookups; resolution lives in
// internal/resolver and orchestration in pkg/session.
package domain
