package quote

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pure8plus/pure8/internal/model"
)

func sampleQuotes(n int) []model.Quote {
	quotes := make([]model.Quote, 0, n)
	for i := 0; i < n; i++ {
		quotes = append(quotes, model.Quote{ID: string(rune('a' + i)), Content: string(rune('a' + i))})
	}
	return quotes
}

func TestOfDayDeterministic(t *testing.T) {
	t.Parallel()

	quotes := sampleQuotes(10)
	morning := time.Date(2026, 3, 10, 0, 0, 1, 0, time.Local)
	evening := time.Date(2026, 3, 10, 23, 59, 59, 0, time.Local)

	assert.Equal(t, OfDay(quotes, morning), OfDay(quotes, evening),
		"same calendar day must pick the same quote")
}

func TestOfDayCoversRange(t *testing.T) {
	t.Parallel()

	quotes := sampleQuotes(3)
	seen := map[string]bool{}
	day := time.Date(2026, 1, 1, 12, 0, 0, 0, time.Local)
	for i := 0; i < 60; i++ {
		seen[OfDay(quotes, day).ID] = true
		day = day.AddDate(0, 0, 1)
	}
	assert.Len(t, seen, 3, "rotation should eventually reach every quote")
}

func TestOfDayEmpty(t *testing.T) {
	t.Parallel()
	assert.Equal(t, model.Quote{}, OfDay(nil, time.Now()))
}

func TestDayHashNonNegative(t *testing.T) {
	t.Parallel()

	day := time.Date(2020, 1, 1, 0, 0, 0, 0, time.Local)
	for i := 0; i < 3650; i++ {
		h := dayHash(day.Format(dateLayout))
		require.GreaterOrEqual(t, h, 0, "hash of %s", day.Format(dateLayout))
		day = day.AddDate(0, 0, 1)
	}
}

type fakeStore struct {
	quotes []model.Quote
	bumped []string
}

func (f *fakeStore) ListQuotes(context.Context) ([]model.Quote, error) {
	return f.quotes, nil
}

func (f *fakeStore) BumpQuoteDisplayCount(_ context.Context, id string) error {
	f.bumped = append(f.bumped, id)
	return nil
}

func (f *fakeStore) ToggleQuoteFavorite(_ context.Context, id string) error {
	for i := range f.quotes {
		if f.quotes[i].ID == id {
			f.quotes[i].IsFavorite = !f.quotes[i].IsFavorite
			return nil
		}
	}
	return model.ErrNotFound
}

func TestDailyBumpsDisplayCount(t *testing.T) {
	t.Parallel()

	store := &fakeStore{quotes: sampleQuotes(5)}
	service := NewService(store)

	quote, err := service.Daily(context.Background(), time.Now())
	require.NoError(t, err)
	require.Len(t, store.bumped, 1)
	assert.Equal(t, quote.ID, store.bumped[0])
	assert.Equal(t, 1, quote.DisplayCount)
}

func TestDailyEmptySet(t *testing.T) {
	t.Parallel()

	service := NewService(&fakeStore{})
	_, err := service.Daily(context.Background(), time.Now())
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestToggleFavorite(t *testing.T) {
	t.Parallel()

	store := &fakeStore{quotes: sampleQuotes(3)}
	service := NewService(store)
	ctx := context.Background()

	require.NoError(t, service.ToggleFavorite(ctx, "b"))

	favorites, err := service.Favorites(ctx)
	require.NoError(t, err)
	require.Len(t, favorites, 1)
	assert.Equal(t, "b", favorites[0].ID)

	require.NoError(t, service.ToggleFavorite(ctx, "b"))
	favorites, err = service.Favorites(ctx)
	require.NoError(t, err)
	assert.Empty(t, favorites)

	assert.ErrorIs(t, service.ToggleFavorite(ctx, "missing"), model.ErrNotFound)
}

func TestDefaultQuotes(t *testing.T) {
	t.Parallel()

	quotes := DefaultQuotes()
	require.NotEmpty(t, quotes)
	for _, quote := range quotes {
		assert.NotEmpty(t, quote.Content)
		assert.NotEmpty(t, quote.Author)
		assert.NotEmpty(t, quote.Category)
	}
}
