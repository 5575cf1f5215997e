// Package config provides in-memory OpenTelemetry providers for reactionstore tests.
//
// The providers record spans and metrics in memory, so tests can verify what a
// ReactionQuery emits through the oteladapters without any external backend.
package config
