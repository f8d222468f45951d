package legie

import (
	"context"
)

// Resolve runs the full pipeline for one query: inline title-metadata
// extraction, the search cascade, one concurrent worker per candidate,
// per-entry issue reconciliation, field composition, and final ranking.
// Records come back best-first. ErrNoResults means the cascade found
// nothing, backfill included.
func (r *Resolver) Resolve(ctx context.Context, query Query) ([]Record, error) {
	title, ids := ParseTitleMetadata(query.Title, query.Identifiers)
	r.logger.Info("resolving",
		"title", title, "authors", len(query.Authors), "identifiers", len(ids))

	candidates, err := r.Search(ctx, title, query.Authors, ids)
	if err != nil {
		return nil, err
	}
	r.logger.Info("cascade finished", "candidates", len(candidates))

	groups := r.fetchCandidates(ctx, candidates, query.Authors, ids["pubdate"])
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var records []Record
	for _, group := range groups {
		for _, issue := range r.reconcile(group) {
			records = append(records, r.Compose(issue))
		}
	}
	if len(records) == 0 {
		return nil, ErrNoResults
	}

	r.SortRecords(records, query.Title, query.Authors, query.Identifiers)
	r.logger.Info("resolved", "records", len(records))
	return records, nil
}
