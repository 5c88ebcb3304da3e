// Package nlp provides implementations of the core.NLPService contract:
// a deterministic keyword-based service for tests and demos, and a
// TTL-bounded caching decorator. Provider-backed implementations live in the
// openai and anthropic subpackages.
//
// All implementations honor the contract's failure tolerance: analysis
// failures degrade to an empty result and generation failures degrade to a
// generic apology string; transport-level errors never reach agent logic.
package nlp
