// Package session houses concrete implementations of the session Store. The
// Context struct itself lives in the core package to centralize domain
// contracts. Keeping only implementations here prevents higher level
// packages (agents, orchestrator) from depending on concrete storage.
//
// Additional backends live in sub-packages (see session/redis) without
// changing any calling code; only the wiring layer decides which
// implementation to instantiate.
package session
