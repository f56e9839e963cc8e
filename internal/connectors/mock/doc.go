// Package mock provides deterministic in-memory food sources.
//
// Fixtures returns the adapter set used in mock-source mode: the four
// provider tags backed by a fixed catalogue, with no network access.
// New and NewBarcode build individual sources with scripted behaviour
// (errors, delays, call counting) for tests.
package mock
