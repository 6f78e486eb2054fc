package ranking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"youbuddy/internal/model"
)

var (
	// ErrInvalidQuery is returned for a missing or blank search query.
	ErrInvalidQuery = errors.New("query is required")
	// ErrInvalidCount is returned when the result count is outside 1..pool size.
	ErrInvalidCount = errors.New("result count out of range")
)

// Searcher finds candidate video ids in relevance order.
type Searcher interface {
	SearchVideoIDs(ctx context.Context, query string, limit int) ([]string, error)
}

// Detailer loads snippet and statistics for at most one batch of ids.
type Detailer interface {
	VideosByIDs(ctx context.Context, ids []string) ([]model.Video, error)
}

// Pipeline runs search, enrichment, scoring and ranking for one query.
// It is safe for concurrent use; it holds no per-request state.
type Pipeline struct {
	search  Searcher
	details Detailer
	opts    Options
}

// NewPipeline wires a pipeline over the given upstreams.
func NewPipeline(s Searcher, d Detailer, opts Options) *Pipeline {
	return &Pipeline{search: s, details: d, opts: opts}
}

// Options returns the pipeline's tunables.
func (p *Pipeline) Options() Options {
	return p.opts
}

// Rank returns at most n videos for query, best first. An empty search
// result yields an empty, non-nil slice.
func (p *Pipeline) Rank(ctx context.Context, query string, n int) ([]model.ScoredVideo, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrInvalidQuery
	}
	if n < 1 || n > p.opts.PoolSize {
		return nil, fmt.Errorf("%w: %d not in 1..%d", ErrInvalidCount, n, p.opts.PoolSize)
	}

	ids, err := p.search.SearchVideoIDs(ctx, query, p.opts.PoolSize)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		slog.Info("ranking: no candidates", "query", query)
		return []model.ScoredVideo{}, nil
	}
	slog.Info("ranking: fetching details", "query", query, "candidates", len(ids))

	videos, err := p.enrich(ctx, ids)
	if err != nil {
		return nil, err
	}

	scored := make([]model.ScoredVideo, 0, len(videos))
	for _, v := range videos {
		if strings.TrimSpace(v.PublishedAt) == "" {
			slog.Warn("ranking: skipping video without publish date", "id", v.ID)
			continue
		}
		score, rec := p.opts.Score(v.ViewCount, v.LikeCount, v.PublishedAt)
		if rec.Degraded {
			slog.Warn("ranking: recency degraded", "id", v.ID, "reason", rec.Reason)
		}
		scored = append(scored, model.ScoredVideo{Video: v, Score: score})
	}
	out := Rank(scored, n)
	slog.Info("ranking: done", "query", query, "scored", len(scored), "returned", len(out))
	return out, nil
}

// enrich fetches details batch by batch, keeping batch order. Records for ids
// outside the batch, or repeated ids, are discarded.
func (p *Pipeline) enrich(ctx context.Context, ids []string) ([]model.Video, error) {
	out := make([]model.Video, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, batch := range Chunk(ids, p.opts.BatchLimit) {
		want := make(map[string]struct{}, len(batch))
		for _, id := range batch {
			want[id] = struct{}{}
		}
		videos, err := p.details.VideosByIDs(ctx, batch)
		if err != nil {
			return nil, fmt.Errorf("details: %w", err)
		}
		for _, v := range videos {
			if _, ok := want[v.ID]; !ok {
				continue
			}
			if _, dup := seen[v.ID]; dup {
				continue
			}
			seen[v.ID] = struct{}{}
			out = append(out, v)
		}
	}
	if dropped := len(ids) - len(out); dropped > 0 {
		slog.Info("ranking: ids missing from details", "dropped", dropped)
	}
	return out, nil
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
