package mock

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/nutrisearch/internal/core/domain"
	"github.com/custodia-labs/nutrisearch/internal/core/ports/driven"
)

// Ensure the sources implement the interfaces.
var (
	_ driven.FoodSource    = (*Source)(nil)
	_ driven.BarcodeSource = (*BarcodeSource)(nil)
)

type config struct {
	unconfigured bool
	foods        []domain.Food
	barcodes     map[string]domain.Food
	err          error
	failFirst    int
	delay        time.Duration
	ignoreCtx    bool
}

// Option scripts a mock source.
type Option func(*config)

// WithFoods sets the catalogue searched by Search.
func WithFoods(foods ...domain.Food) Option {
	return func(c *config) { c.foods = append(c.foods, foods...) }
}

// WithBarcode registers a barcode answer for LookupBarcode.
func WithBarcode(code string, food domain.Food) Option {
	return func(c *config) {
		if c.barcodes == nil {
			c.barcodes = make(map[string]domain.Food)
		}
		c.barcodes[code] = food
	}
}

// WithError makes every call fail with err.
func WithError(err error) Option {
	return func(c *config) { c.err = err }
}

// FailFirst makes the first n calls fail with domain.ErrSourceUnavailable.
func FailFirst(n int) Option {
	return func(c *config) { c.failFirst = n }
}

// WithDelay delays every call by d, returning early if the context ends.
func WithDelay(d time.Duration) Option {
	return func(c *config) { c.delay = d }
}

// WithBlockingDelay delays every call by d regardless of the context.
func WithBlockingDelay(d time.Duration) Option {
	return func(c *config) {
		c.delay = d
		c.ignoreCtx = true
	}
}

// Unconfigured makes IsConfigured report false.
func Unconfigured() Option {
	return func(c *config) { c.unconfigured = true }
}

// Source is a scripted text-search source.
type Source struct {
	name domain.SourceTag
	cfg  config

	mu          sync.Mutex
	searchCalls int
	failures    int
}

// New creates a search-only mock source.
func New(name domain.SourceTag, opts ...Option) *Source {
	s := &Source{name: name}
	for _, opt := range opts {
		opt(&s.cfg)
	}
	return s
}

// Name returns the source tag.
func (s *Source) Name() domain.SourceTag {
	return s.name
}

// IsConfigured reports whether the source was built without Unconfigured.
func (s *Source) IsConfigured() bool {
	return !s.cfg.unconfigured
}

// Search returns catalogue entries whose name or brand contains query.
func (s *Source) Search(ctx context.Context, query string) ([]domain.Food, error) {
	s.mu.Lock()
	s.searchCalls++
	s.mu.Unlock()

	if err := s.behave(ctx); err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(query))
	foods := make([]domain.Food, 0)
	for _, f := range s.cfg.foods {
		if strings.Contains(strings.ToLower(f.Name), needle) ||
			strings.Contains(strings.ToLower(f.BrandName), needle) {
			foods = append(foods, f)
		}
	}
	return foods, nil
}

// SearchCalls returns how many times Search was invoked.
func (s *Source) SearchCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.searchCalls
}

// behave applies the scripted delay and failures.
func (s *Source) behave(ctx context.Context) error {
	if s.cfg.delay > 0 {
		if s.cfg.ignoreCtx {
			time.Sleep(s.cfg.delay)
		} else {
			timer := time.NewTimer(s.cfg.delay)
			defer timer.Stop()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-timer.C:
			}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failures < s.cfg.failFirst {
		s.failures++
		return domain.ErrSourceUnavailable
	}
	return s.cfg.err
}

// BarcodeSource is a scripted source that also answers barcode lookups.
type BarcodeSource struct {
	*Source

	mu          sync.Mutex
	lookupCalls int
}

// NewBarcode creates a mock source supporting LookupBarcode.
func NewBarcode(name domain.SourceTag, opts ...Option) *BarcodeSource {
	return &BarcodeSource{Source: New(name, opts...)}
}

// LookupBarcode returns the registered food for code, or nil.
func (b *BarcodeSource) LookupBarcode(ctx context.Context, code string) (*domain.Food, error) {
	b.mu.Lock()
	b.lookupCalls++
	b.mu.Unlock()

	if err := b.behave(ctx); err != nil {
		return nil, err
	}

	food, ok := b.cfg.barcodes[code]
	if !ok {
		return nil, nil
	}
	return &food, nil
}

// LookupCalls returns how many times LookupBarcode was invoked.
func (b *BarcodeSource) LookupCalls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lookupCalls
}
