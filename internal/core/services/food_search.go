package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/metric"

	"github.com/custodia-labs/nutrisearch/internal/core/domain"
	"github.com/custodia-labs/nutrisearch/internal/core/ports/driven"
	"github.com/custodia-labs/nutrisearch/internal/core/ports/driving"
	"github.com/custodia-labs/nutrisearch/internal/logger"
)

// Ensure FoodSearchService implements the interface.
var _ driving.FoodSearchService = (*FoodSearchService)(nil)

// Cache key prefixes.
const (
	searchKeyPrefix  = "search:"
	barcodeKeyPrefix = "barcode:"
)

// FoodSearchOption configures a FoodSearchService.
type FoodSearchOption func(*FoodSearchService)

// WithMeterProvider records metrics on mp instead of the global provider.
func WithMeterProvider(mp metric.MeterProvider) FoodSearchOption {
	return func(s *FoodSearchService) { s.meterProvider = mp }
}

// FoodSearchService aggregates the local food store and the external
// sources into one ranked, deduplicated result list.
type FoodSearchService struct {
	store    driven.FoodStore
	cache    driven.ResultCache
	sources  []driven.FoodSource
	settings domain.SearchSettings

	meterProvider metric.MeterProvider
	metrics       *searchMetrics
}

// NewFoodSearchService creates a food search service. Zero-valued settings
// fall back to the defaults.
func NewFoodSearchService(
	store driven.FoodStore,
	cache driven.ResultCache,
	sources []driven.FoodSource,
	settings domain.SearchSettings,
	opts ...FoodSearchOption,
) *FoodSearchService {
	defaults := domain.DefaultAppSettings().Search
	if settings.SourceTimeout <= 0 {
		settings.SourceTimeout = defaults.SourceTimeout
	}
	if settings.RetryDelay <= 0 {
		settings.RetryDelay = defaults.RetryDelay
	}
	if settings.MaxResults <= 0 {
		settings.MaxResults = defaults.MaxResults
	}

	s := &FoodSearchService{
		store:    store,
		cache:    cache,
		sources:  sources,
		settings: settings,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.metrics = newSearchMetrics(s.meterProvider)
	return s
}

// sourceOutcome is what one source returned in a text-search round.
type sourceOutcome struct {
	status domain.SourceStatus
	foods  []domain.Food
}

// Search runs a text search across the local store and every configured
// source. A cached result for the same normalized query is returned as is.
func (s *FoodSearchService) Search(ctx context.Context, query string) (*domain.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}
	reqID := uuid.NewString()

	logger.Section("Food Search")
	logger.Debug("[%s] query=%q", reqID, query)

	key := searchKeyPrefix + strings.ToLower(query)
	if foods, ok := s.cache.Get(ctx, key); ok {
		s.metrics.recordCache(ctx, "search", true)
		logger.Debug("[%s] cache hit, %d foods", reqID, len(foods))
		return cachedResult(foods), nil
	}
	s.metrics.recordCache(ctx, "search", false)

	start := time.Now()
	stored, err := s.store.FindMany(ctx, query, s.settings.MaxResults)
	if err != nil {
		return nil, fmt.Errorf("search local store: %w", err)
	}
	local := make([]domain.Food, 0, len(stored))
	for _, f := range stored {
		local = append(local, f.AsLocal())
	}
	localStatus := domain.SourceStatus{
		Name:       domain.SourceDatabase,
		Status:     domain.StatusSuccess,
		Count:      len(local),
		DurationMs: elapsedMs(start),
	}
	logger.Debug("[%s] local store: %d foods", reqID, len(local))

	outcomes := s.fanOut(ctx, reqID, query)

	combined := local
	sources := make([]domain.SourceStatus, 0, len(outcomes)+1)
	sources = append(sources, localStatus)
	for _, out := range outcomes {
		sources = append(sources, out.status)
		for _, f := range out.foods {
			combined = append(combined, s.persistBestEffort(ctx, reqID, f))
		}
	}

	merged := mergeResults(combined, s.settings.MaxResults)
	s.cache.Set(ctx, key, merged)
	logger.Debug("[%s] merged %d of %d foods", reqID, len(merged), len(combined))

	return &domain.SearchResult{Foods: merged, Sources: sources}, nil
}

// fanOut queries every source concurrently. Outcomes keep source order.
func (s *FoodSearchService) fanOut(ctx context.Context, reqID, query string) []sourceOutcome {
	outcomes := make([]sourceOutcome, len(s.sources))

	var wg sync.WaitGroup
	for i, src := range s.sources {
		if !src.IsConfigured() {
			outcomes[i] = sourceOutcome{status: skipped(src.Name())}
			continue
		}

		wg.Add(1)
		go func(i int, src driven.FoodSource) {
			defer wg.Done()

			start := time.Now()
			foods, err := callWithDeadline(ctx, s.settings.SourceTimeout, s.settings.RetryDelay,
				func(ctx context.Context) ([]domain.Food, error) { return src.Search(ctx, query) })
			status := domain.SourceStatus{
				Name:       src.Name(),
				Status:     statusFor(err),
				DurationMs: elapsedMs(start),
			}
			if err != nil {
				status.Error = err.Error()
				foods = nil
				logger.Warn("[%s] source %s failed: %v", reqID, src.Name(), err)
			} else {
				foods = validFoods(foods)
				status.Count = len(foods)
				logger.Debug("[%s] source %s: %d foods in %dms", reqID, src.Name(), len(foods), status.DurationMs)
			}
			s.metrics.recordSource(ctx, status)
			outcomes[i] = sourceOutcome{status: status, foods: foods}
		}(i, src)
	}
	wg.Wait()

	return outcomes
}

// SearchByBarcode resolves a barcode to a single food. The local store is
// consulted first, then barcode-capable sources in barcode priority order
// until one answers. A miss returns an empty result and is not cached.
func (s *FoodSearchService) SearchByBarcode(ctx context.Context, barcode string) (*domain.SearchResult, error) {
	code := strings.TrimSpace(barcode)
	if code == "" {
		return nil, fmt.Errorf("%w: empty barcode", domain.ErrInvalidInput)
	}
	reqID := uuid.NewString()

	logger.Section("Barcode Lookup")
	logger.Debug("[%s] barcode=%q", reqID, code)

	key := barcodeKeyPrefix + code
	if foods, ok := s.cache.Get(ctx, key); ok && len(foods) > 0 {
		s.metrics.recordCache(ctx, "barcode", true)
		logger.Debug("[%s] cache hit", reqID)
		return cachedResult(foods), nil
	}
	s.metrics.recordCache(ctx, "barcode", false)

	sources := make([]domain.SourceStatus, 0, len(s.sources)+1)

	start := time.Now()
	localStatus := domain.SourceStatus{Name: domain.SourceDatabase, Status: domain.StatusSuccess}
	stored, err := s.store.FindBySourceID(ctx, code)
	localStatus.DurationMs = elapsedMs(start)
	switch {
	case err == nil:
		localStatus.Count = 1
		sources = append(sources, localStatus)
		foods := []domain.Food{*stored}
		s.cache.Set(ctx, key, foods)
		logger.Debug("[%s] local store hit, id=%v", reqID, derefID(stored.LocalID))
		return &domain.SearchResult{Foods: foods, Sources: sources}, nil
	case errors.Is(err, domain.ErrNotFound):
		sources = append(sources, localStatus)
	default:
		logger.Warn("[%s] local barcode lookup failed: %v", reqID, err)
		localStatus.Status = domain.StatusError
		localStatus.Error = err.Error()
		sources = append(sources, localStatus)
	}

	var found *domain.Food
	for _, src := range s.barcodeOrder() {
		bs, ok := src.(driven.BarcodeSource)
		if found != nil || !ok || !src.IsConfigured() {
			sources = append(sources, skipped(src.Name()))
			continue
		}

		start := time.Now()
		food, err := callWithDeadline(ctx, s.settings.SourceTimeout, s.settings.RetryDelay,
			func(ctx context.Context) (*domain.Food, error) { return bs.LookupBarcode(ctx, code) })
		status := domain.SourceStatus{
			Name:       src.Name(),
			Status:     statusFor(err),
			DurationMs: elapsedMs(start),
		}
		if err != nil {
			status.Error = err.Error()
			logger.Warn("[%s] source %s failed: %v", reqID, src.Name(), err)
		} else if food != nil {
			status.Count = 1
			found = food
		}
		s.metrics.recordSource(ctx, status)
		sources = append(sources, status)
	}

	if found == nil {
		logger.Debug("[%s] barcode not found", reqID)
		return &domain.SearchResult{Foods: []domain.Food{}, Sources: sources}, nil
	}

	hit := *found
	hit.SourceID = code
	hit.Barcode = code
	hit.Sanitize()
	persisted := s.persistBestEffort(ctx, reqID, hit)

	foods := []domain.Food{persisted}
	s.cache.Set(ctx, key, foods)
	return &domain.SearchResult{Foods: foods, Sources: sources}, nil
}

// barcodeOrder returns the sources sorted by barcode priority.
func (s *FoodSearchService) barcodeOrder() []driven.FoodSource {
	ordered := make([]driven.FoodSource, len(s.sources))
	copy(ordered, s.sources)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Name().BarcodePriority() < ordered[j].Name().BarcodePriority()
	})
	return ordered
}

// PersistFood stores food unless an equivalent record already exists,
// matching first on (source, sourceId) and then on (name, brand). The
// stored record is returned either way. A source id is required because
// it is the store's identity key.
func (s *FoodSearchService) PersistFood(ctx context.Context, food domain.Food) (*domain.Food, error) {
	if !food.Valid() {
		return nil, fmt.Errorf("%w: food needs a source id or a name", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(food.SourceID) == "" {
		return nil, fmt.Errorf("%w: food needs a source id to be stored", domain.ErrInvalidInput)
	}

	existing, err := s.store.FindBySource(ctx, food.Source, food.SourceID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("find by source: %w", err)
	}

	existing, err = s.store.FindByNameBrand(ctx, food.Name, food.BrandName)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("find by name and brand: %w", err)
	}

	inserted, err := s.store.Insert(ctx, food)
	if err != nil {
		return nil, fmt.Errorf("insert food: %w", err)
	}
	return inserted, nil
}

// persistBestEffort persists food and returns the stored record. On failure
// the original record is returned without a local id. Records without a
// source id are returned as is.
func (s *FoodSearchService) persistBestEffort(ctx context.Context, reqID string, food domain.Food) domain.Food {
	if strings.TrimSpace(food.SourceID) == "" {
		logger.Debug("[%s] not persisting %s record %q without source id", reqID, food.Source, food.Name)
		food.LocalID = nil
		return food
	}
	stored, err := s.PersistFood(ctx, food)
	if err != nil {
		logger.Warn("[%s] persist %s/%s failed: %v", reqID, food.Source, food.SourceID, err)
		food.LocalID = nil
		return food
	}
	return *stored
}

func cachedResult(foods []domain.Food) *domain.SearchResult {
	return &domain.SearchResult{
		Foods: foods,
		Sources: []domain.SourceStatus{{
			Name:   domain.SourceCache,
			Status: domain.StatusSuccess,
			Count:  len(foods),
		}},
		FromCache: true,
	}
}

func skipped(name domain.SourceTag) domain.SourceStatus {
	return domain.SourceStatus{Name: name, Status: domain.StatusSkipped}
}

// validFoods drops records with neither an id nor a name and sanitizes the
// numeric fields of the rest.
func validFoods(foods []domain.Food) []domain.Food {
	kept := make([]domain.Food, 0, len(foods))
	for _, f := range foods {
		if !f.Valid() {
			continue
		}
		f.Sanitize()
		kept = append(kept, f)
	}
	return kept
}

func derefID(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}
