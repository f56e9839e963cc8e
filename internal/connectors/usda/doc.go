// Package usda implements a food source backed by USDA FoodData Central.
//
// Only text search is supported. FoodData Central has no barcode endpoint
// suited to single-item lookup, so the connector does not implement
// driven.BarcodeSource. Nutrient values are reported per 100 g.
//
// The connector is configured when USDA_API_KEY is set.
package usda
