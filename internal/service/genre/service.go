// Package genre walks the catalog's filtered listing pages for tracked
// genres and feeds fresh tracks into the download queue. Each genre carries
// a date watermark so completed walks never re-inspect old releases.
package genre

//go:generate $MOCKGEN -source=service.go -destination=mocks/service_mock.go

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	clientsoundeo "github.com/matiasbn/dj-wizard/internal/client/soundeo"
	"github.com/matiasbn/dj-wizard/internal/config"
	"github.com/matiasbn/dj-wizard/internal/logger"
	"github.com/matiasbn/dj-wizard/internal/store"
)

// Service schedules catalog walks over tracked genres.
type Service interface {
	// AddGenre registers a genre for scanning, or renames a tracked one.
	AddGenre(ctx context.Context, genreID uint32, name string) error
	// ListGenres returns every tracked genre sorted by id.
	ListGenres() []store.TrackedGenre
	// RunAll walks every tracked genre in id order.
	RunAll(ctx context.Context) ([]WalkSummary, error)
	// RunGenre walks one tracked genre newest-first and enqueues fresh tracks.
	RunGenre(ctx context.Context, genreID uint32) (*WalkSummary, error)
}

// ServiceImpl implements the genre scheduler over the snapshot store.
type ServiceImpl struct {
	// cfg contains the application configuration.
	cfg *config.Config
	// client talks to the catalog.
	client clientsoundeo.Client
	// store owns the persistent state snapshot.
	store *store.Store
	// limiter paces page and metadata fetches for politeness.
	limiter *rate.Limiter
	// now returns the current time; injectable for tests.
	now func() time.Time
}

// NewService creates a genre scheduler bound to a catalog client and a state store.
func NewService(cfg *config.Config, client clientsoundeo.Client, stateStore *store.Store) Service {
	ratePerSecond := cfg.ListingRatePerSecond
	if ratePerSecond <= 0 {
		ratePerSecond = 1
	}

	return &ServiceImpl{
		cfg:     cfg,
		client:  client,
		store:   stateStore,
		limiter: rate.NewLimiter(rate.Limit(ratePerSecond), 1),
		now:     time.Now,
	}
}

// AddGenre registers a genre for scanning, or renames a tracked one.
func (s *ServiceImpl) AddGenre(ctx context.Context, genreID uint32, name string) error {
	err := s.store.UpsertGenre(genreID, name)
	if err != nil {
		return err
	}

	logger.Infof(ctx, "Tracking genre '%s' (id %d)", name, genreID)

	return nil
}

// ListGenres returns every tracked genre sorted by id.
func (s *ServiceImpl) ListGenres() []store.TrackedGenre {
	return s.store.ListGenres()
}

// RunAll walks every tracked genre in id order. A failed walk is logged and
// the remaining genres still run; cancellation aborts the batch.
func (s *ServiceImpl) RunAll(ctx context.Context) ([]WalkSummary, error) {
	genres := s.store.ListGenres()
	if len(genres) == 0 {
		return nil, ErrNoTrackedGenres
	}

	summaries := make([]WalkSummary, 0, len(genres))

	for i := range genres {
		if ctx.Err() != nil {
			return summaries, ctx.Err()
		}

		summary, err := s.RunGenre(ctx, genres[i].GenreID)
		if err != nil {
			logger.Errorf(ctx, "Walk of genre '%s' failed: %v", genres[i].GenreName, err)

			continue
		}

		summaries = append(summaries, *summary)
	}

	return summaries, nil
}
