package tasks

import (
	"context"
	"strings"
	"sync"

	"github.com/desertthunder/setlist/internal/models"
)

// searchJob tags a query with its origin index so found tracks preserve the
// input order of their originating queries.
type searchJob struct {
	index int
	query models.TrackQuery
}

type searchOutcome struct {
	index int
	track *models.Track
	err   error
}

// SearchAll resolves an ordered sequence of track queries against the
// provider, fanning the lookups out over a worker pool since they are
// independent read-only calls. The request completes only once every
// sub-lookup has reported back.
//
// A query with an empty track name short-circuits to not-found without a
// provider call. Queries previously resolved by the cache also skip the
// provider. The union of found and not-found always has the cardinality of
// the input.
//
// A provider failure on any sub-lookup fails the whole batch; a lookup that
// merely returns no items lands in not-found.
func (e *SetlistEngine) SearchAll(ctx context.Context, token string, queries []models.TrackQuery) (*models.SearchResult, error) {
	found := make([]*models.Track, len(queries))

	jobs := make(chan searchJob, len(queries))
	outcomes := make(chan searchOutcome, len(queries))

	var wg sync.WaitGroup
	for i := 0; i < e.workers; i++ {
		wg.Add(1)
		go e.searchWorker(ctx, token, &wg, jobs, outcomes)
	}

	// Jobs are buffered to the input size, so enqueueing never blocks.
	pending := 0
	for i, query := range queries {
		if strings.TrimSpace(query.Track) == "" {
			continue
		}
		jobs <- searchJob{index: i, query: query}
		pending++
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	var firstErr error
	for outcome := range outcomes {
		if outcome.err != nil {
			if firstErr == nil {
				firstErr = outcome.err
			}
			continue
		}
		found[outcome.index] = outcome.track
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if firstErr != nil {
		return nil, firstErr
	}

	result := &models.SearchResult{
		FoundTracks:    []models.Track{},
		NotFoundTracks: []models.TrackQuery{},
	}
	for i, query := range queries {
		if found[i] != nil {
			result.FoundTracks = append(result.FoundTracks, *found[i])
		} else {
			result.NotFoundTracks = append(result.NotFoundTracks, query)
		}
	}

	e.logger.Debug("batch search complete",
		"queries", len(queries), "looked_up", pending,
		"found", len(result.FoundTracks), "not_found", len(result.NotFoundTracks))

	return result, nil
}

// searchWorker resolves jobs until the channel closes, emitting exactly one
// outcome per job so the collector's accounting stays exact even under
// cancellation.
func (e *SetlistEngine) searchWorker(ctx context.Context, token string, wg *sync.WaitGroup, jobs <-chan searchJob, outcomes chan<- searchOutcome) {
	defer wg.Done()

	for job := range jobs {
		if err := ctx.Err(); err != nil {
			outcomes <- searchOutcome{index: job.index, err: err}
			continue
		}

		outcomes <- e.searchOne(ctx, token, job)
	}
}

// searchOne resolves a single query, consulting the cache first and caching
// fresh matches best-effort.
func (e *SetlistEngine) searchOne(ctx context.Context, token string, job searchJob) searchOutcome {
	if e.cache != nil {
		if cached, err := e.cache.Get(job.query.Track, job.query.Artist); err == nil && cached != nil {
			return searchOutcome{index: job.index, track: cached}
		}
	}

	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			return searchOutcome{index: job.index, err: err}
		}
	}

	tracks, err := e.api.SearchTracks(ctx, token, job.query.Track, job.query.Artist, 1)
	if err != nil {
		return searchOutcome{index: job.index, err: err}
	}
	if len(tracks) == 0 {
		return searchOutcome{index: job.index}
	}

	match := tracks[0]
	if e.cache != nil {
		if err := e.cache.Put(job.query.Track, job.query.Artist, match); err != nil {
			e.logger.Warn("failed to cache search result", "track", job.query.Track, "error", err)
		}
	}

	return searchOutcome{index: job.index, track: &match}
}
