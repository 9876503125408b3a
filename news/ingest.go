package news

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"ringstats-backend/logger"
	"ringstats-backend/metrics"
	"ringstats-backend/models"
)

const defaultIngestConcurrency = 4

// Ingester pulls articles from every active source into the article store.
type Ingester struct {
	store       SourceStore
	fetcher     *Fetcher
	thumbs      *ThumbnailFinder
	concurrency int
}

func NewIngester(store SourceStore, fetcher *Fetcher, thumbs *ThumbnailFinder) *Ingester {
	return &Ingester{
		store:       store,
		fetcher:     fetcher,
		thumbs:      thumbs,
		concurrency: defaultIngestConcurrency,
	}
}

// Result summarises one ingest run.
type Result struct {
	RunID    string `json:"runId"`
	Sources  int    `json:"sources"`
	Inserted int    `json:"inserted"`
	Failed   int    `json:"failed"`
}

// Run ingests the given sources, or every active source when ids is empty.
// A failing source is logged and counted, it does not stop the run.
func (i *Ingester) Run(ctx context.Context, ids []int64) (Result, error) {
	start := time.Now()
	res := Result{RunID: uuid.NewString()}
	log := logger.Log.WithField("run_id", res.RunID)

	sources, err := i.store.ListSources(ctx, true)
	if err != nil {
		return res, fmt.Errorf("list sources: %w", err)
	}
	sources = selectSources(sources, ids)
	res.Sources = len(sources)

	var inserted, failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(i.concurrency)
	for _, src := range sources {
		g.Go(func() error {
			n, err := i.ingestSource(gctx, src)
			inserted.Add(int64(n))
			if err != nil {
				failed.Add(1)
				log.WithField("source", src.Name).Warnf("ingest source: %v", err)
			}
			return nil
		})
	}
	_ = g.Wait()

	res.Inserted = int(inserted.Load())
	res.Failed = int(failed.Load())
	metrics.IngestRunDuration.Observe(time.Since(start).Seconds())
	log.WithFields(map[string]interface{}{
		"sources":  res.Sources,
		"inserted": res.Inserted,
		"failed":   res.Failed,
		"duration": time.Since(start).String(),
	}).Info("Ingest run finished")
	return res, ctx.Err()
}

func selectSources(all []models.Source, ids []int64) []models.Source {
	if len(ids) == 0 {
		return all
	}
	want := make(map[int64]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []models.Source
	for _, s := range all {
		if want[s.ID] {
			out = append(out, s)
		}
	}
	return out
}

// collect prefers the source's feed and falls back to a known site profile.
func (i *Ingester) collect(ctx context.Context, src models.Source) ([]Item, SiteProfile, error) {
	if src.RSSURL != "" {
		items, err := FetchFeed(ctx, i.fetcher, src.RSSURL)
		return items, SiteProfile{}, err
	}
	p, ok := ProfileFor(src.BaseURL)
	if !ok {
		return nil, SiteProfile{}, fmt.Errorf("no feed or scraper for %q", src.BaseURL)
	}
	items, err := ScrapeIndex(ctx, i.fetcher, p, src.BaseURL)
	return items, p, err
}

func (i *Ingester) ingestSource(ctx context.Context, src models.Source) (int, error) {
	items, profile, err := i.collect(ctx, src)
	if err != nil {
		metrics.RecordIngestItem(src.Name, "error")
		return 0, err
	}

	inserted := 0
	for _, item := range items {
		if ctx.Err() != nil {
			return inserted, ctx.Err()
		}
		if item.Title == "" || item.CanonicalURL == "" {
			metrics.RecordIngestItem(src.Name, "skipped")
			continue
		}
		if item.ThumbnailURL == "" && i.thumbs != nil {
			item.ThumbnailURL = i.thumbs.Find(ctx, item.CanonicalURL, profile.ImageSelector)
		}
		ok, err := i.store.InsertIngested(ctx, src, item, Fingerprint(item.Title))
		switch {
		case err != nil:
			metrics.RecordIngestItem(src.Name, "error")
			logger.Log.WithField("url", item.CanonicalURL).Warnf("store ingested article: %v", err)
		case ok:
			inserted++
			metrics.RecordIngestItem(src.Name, "inserted")
		default:
			metrics.RecordIngestItem(src.Name, "duplicate")
		}
	}
	return inserted, nil
}
