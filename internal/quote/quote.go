// Package quote picks the motivational quote of the day. The pick is
// deterministic per calendar day so the quote stays put until midnight.
package quote

import (
	"context"
	"time"

	"github.com/pure8plus/pure8/internal/model"
)

// dateLayout renders a day the way the pick has always been keyed, so
// existing users see the same rotation after upgrades.
const dateLayout = "Mon Jan 02 2006"

type Store interface {
	ListQuotes(ctx context.Context) ([]model.Quote, error)
	BumpQuoteDisplayCount(ctx context.Context, quoteID string) error
	ToggleQuoteFavorite(ctx context.Context, quoteID string) error
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Daily returns the quote of the day from the stored set and records
// that it was shown. An empty quote table yields ErrNotFound.
func (s *Service) Daily(ctx context.Context, now time.Time) (model.Quote, error) {
	quotes, err := s.store.ListQuotes(ctx)
	if err != nil {
		return model.Quote{}, err
	}
	if len(quotes) == 0 {
		return model.Quote{}, model.ErrNotFound
	}

	picked := OfDay(quotes, now)
	if err := s.store.BumpQuoteDisplayCount(ctx, picked.ID); err != nil {
		return model.Quote{}, err
	}
	picked.DisplayCount++
	return picked, nil
}

// ToggleFavorite flips the favorite mark on a quote. An unknown id
// yields ErrNotFound.
func (s *Service) ToggleFavorite(ctx context.Context, quoteID string) error {
	return s.store.ToggleQuoteFavorite(ctx, quoteID)
}

// Favorites returns the quotes the user has marked, in stable order.
func (s *Service) Favorites(ctx context.Context) ([]model.Quote, error) {
	quotes, err := s.store.ListQuotes(ctx)
	if err != nil {
		return nil, err
	}

	favorites := make([]model.Quote, 0)
	for _, q := range quotes {
		if q.IsFavorite {
			favorites = append(favorites, q)
		}
	}
	return favorites, nil
}

// OfDay hashes the calendar day into an index over the quote list.
// Same day, same list, same quote.
func OfDay(quotes []model.Quote, now time.Time) model.Quote {
	if len(quotes) == 0 {
		return model.Quote{}
	}
	return quotes[dayHash(now.Format(dateLayout))%len(quotes)]
}

// dayHash folds the day string into a non-negative int using the
// classic 31-multiplier string hash with 32-bit wraparound. The exact
// arithmetic matters: changing it reshuffles everyone's rotation.
func dayHash(day string) int {
	var hash int32
	for _, r := range day {
		hash = hash<<5 - hash + int32(r)
	}
	if hash < 0 {
		hash = -hash
	}
	// Negating math.MinInt32 leaves it negative; the mask catches that
	// one value and is a no-op for every other.
	return int(hash & 0x7fffffff)
}

// DefaultQuotes is the seed set installed on first run.
func DefaultQuotes() []model.Quote {
	lines := []struct {
		content  string
		category string
	}{
		{"Pure 6 is pure 6, not a single minute of water.", "truth"},
		{"Without special reason, never break faith with yourself.", "persistence"},
		{"Waking up a few hours earlier gives you more time to learn.", "energy"},
		{"At 1000 hours, I believe I can reach 2000. 10000 hours is uncertain but possible.", "milestone"},
		{"It is a different world. Only those who experience it understand.", "growth"},
		{"3.5 is what belongs to you. Respect the factual data.", "truth"},
		{"I am maintaining my constitution. Low motivation must also complete.", "persistence"},
		{"Pure 8 is more useful than Pure 6.", "learning"},
		{"Millions recommend, few practice.", "persistence"},
		{"Stopping does not mean not working, but adjusting and recovering.", "energy"},
	}

	quotes := make([]model.Quote, 0, len(lines))
	for _, line := range lines {
		quotes = append(quotes, model.Quote{
			Content:  line.content,
			Author:   "Bai Shishi",
			Source:   "Knowledge Planet",
			Category: line.category,
		})
	}
	return quotes
}
