// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - FoodStore: Local Food Store persistence
//   - ResultCache: Time-expiring cache of aggregated results
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// Any number of food sources may be wired, including none:
//
//   - FoodSource: Text search against one external nutrition provider
//   - BarcodeSource: Barcode lookup, implemented only by capable providers
//   - TokenProvider: Bearer tokens for OAuth-protected providers
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven
