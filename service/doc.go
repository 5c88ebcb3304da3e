// Package service defines the downstream domain collaborators consumed by
// concrete agents (leads, subscriptions, payments, users) together with
// in-memory implementations suitable for tests and demo servers. The
// orchestration core treats these purely as interface boundaries; production
// deployments supply implementations backed by the platform's document store
// and third-party APIs.
package service
