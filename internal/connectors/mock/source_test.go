package mock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/nutrisearch/internal/core/domain"
	"github.com/custodia-labs/nutrisearch/internal/core/ports/driven"
)

func TestSource_SearchFilters(t *testing.T) {
	s := New(domain.SourceUSDA, WithFoods(
		domain.Food{SourceID: "1", Name: "Apple"},
		domain.Food{SourceID: "2", Name: "Bread", BrandName: "Apple Bakery"},
		domain.Food{SourceID: "3", Name: "Pear"},
	))

	foods, err := s.Search(context.Background(), " APPLE ")
	require.NoError(t, err)
	assert.Len(t, foods, 2)
	assert.Equal(t, 1, s.SearchCalls())
	assert.True(t, s.IsConfigured())
}

func TestSource_ScriptedFailures(t *testing.T) {
	s := New(domain.SourceUSDA, FailFirst(1), WithFoods(domain.Food{Name: "Apple"}))
	ctx := context.Background()

	_, err := s.Search(ctx, "apple")
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)

	foods, err := s.Search(ctx, "apple")
	require.NoError(t, err)
	assert.Len(t, foods, 1)

	boom := errors.New("boom")
	_, err = New(domain.SourceUSDA, WithError(boom)).Search(ctx, "apple")
	assert.ErrorIs(t, err, boom)
}

func TestSource_DelayHonoursContext(t *testing.T) {
	s := New(domain.SourceUSDA, WithDelay(time.Second))
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := s.Search(ctx, "apple")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestBarcodeSource_Lookup(t *testing.T) {
	b := NewBarcode(domain.SourceOpenFoodFacts, WithBarcode("123", domain.Food{Name: "Thing"}))
	ctx := context.Background()

	food, err := b.LookupBarcode(ctx, "123")
	require.NoError(t, err)
	require.NotNil(t, food)
	assert.Equal(t, "Thing", food.Name)

	food, err = b.LookupBarcode(ctx, "456")
	require.NoError(t, err)
	assert.Nil(t, food)
	assert.Equal(t, 2, b.LookupCalls())
	assert.Equal(t, 0, b.SearchCalls())
}

func TestFixtures(t *testing.T) {
	sources := Fixtures()
	require.Len(t, sources, 4)

	names := make([]domain.SourceTag, 0, len(sources))
	for _, s := range sources {
		names = append(names, s.Name())
		assert.True(t, s.IsConfigured())
	}
	assert.Equal(t, []domain.SourceTag{
		domain.SourceUSDA, domain.SourceFatSecret, domain.SourceNutritionix, domain.SourceOpenFoodFacts,
	}, names)

	_, usdaBarcode := sources[0].(driven.BarcodeSource)
	assert.False(t, usdaBarcode)

	off, ok := sources[3].(driven.BarcodeSource)
	require.True(t, ok)
	food, err := off.LookupBarcode(context.Background(), BarcodeNutella)
	require.NoError(t, err)
	require.NotNil(t, food)
	assert.Equal(t, "Nutella", food.Name)
}
