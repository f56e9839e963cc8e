// Package connectors holds the plumbing shared by food provider connectors:
// a JSON HTTP client with per-provider rate limiting and typed status errors.
//
// Each provider lives in its own subpackage (usda, openfoodfacts, nutritionix,
// fatsecret, mock) and implements driven.FoodSource, plus driven.BarcodeSource
// when the provider supports barcode lookup.
package connectors
