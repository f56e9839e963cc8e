// Package fatsecret implements a food source backed by the FatSecret
// Platform REST API.
//
// # Authentication
//
// FatSecret uses the OAuth 2.0 client-credentials grant. Bearer tokens are
// obtained from FATSECRET_CLIENT_ID and FATSECRET_CLIENT_SECRET through a
// shared [driven.TokenProvider], which caches the token process-wide and
// refreshes it shortly before expiry. Scopes default to "basic"; set
// FATSECRET_SCOPES to "basic barcode" on accounts with barcode access.
//
// When the API rejects a token, either with HTTP 401 or with the in-body
// error codes 13 (invalid token) or 14 (token expired), the connector
// invalidates the cached token and retries the call exactly once.
//
// # Payload Quirks
//
// The REST API serialises every value as a string and collapses
// single-element lists into a bare object. Decoding accepts both shapes.
// Search results carry nutrients only inside a free-text description
// ("Per 100g - Calories: 52kcal | Fat: 0.17g | Carbs: 13.81g | Protein: 0.26g"),
// which is parsed into the canonical fields.
//
// # Barcode Lookup
//
// Barcodes are normalised to GTIN-13 by left-padding with zeros, resolved to
// a food id with food.find_id_for_barcode, then fetched with food.get.v2.
// The default serving, or the first one listed, supplies the nutrients.
package fatsecret
