// Package testutil holds shared fixtures and mocks for vidseek tests:
// mock API services (mock_services.go), sample transcripts and rendered watch
// pages (fixtures.go), and an observable zap logger (logs.go).
package testutil
