// Package services implements the driving port interfaces.
//
// FoodSearchService is the aggregator: it queries the Local Food Store and
// every configured food source concurrently, bounds each source call by a
// deadline with one retry, ranks and deduplicates the combined records,
// persists external records and caches the merged result.
//
// SettingsService layers defaults, the config file and the environment
// into domain.AppSettings.
package services
