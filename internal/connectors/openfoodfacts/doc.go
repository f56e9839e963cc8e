// Package openfoodfacts implements a food source backed by the Open Food
// Facts crowd-sourced product database.
//
// Open Food Facts indexes products by barcode, which makes it the first
// source consulted for barcode lookups. No credentials are needed; the
// connector is always configured unless OPENFOODFACTS_DISABLED is true.
//
// Nutrients are taken from the per-100 g nutriment fields. Open Food Facts
// reports sodium in grams; it is converted to milligrams to match the other
// providers.
package openfoodfacts
