// Package nutritionix implements a food source backed by the Nutritionix
// v2 API, covering both common and branded foods plus UPC lookup.
//
// Requests authenticate with the x-app-id and x-app-key headers taken from
// NUTRITIONIX_APP_ID and NUTRITIONIX_APP_KEY.
package nutritionix
