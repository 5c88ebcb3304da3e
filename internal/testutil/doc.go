// Package testutil provides shared test doubles and builders used across
// package tests: a deterministic NLP stub with scripted results and helpers
// for building session contexts.
package testutil
