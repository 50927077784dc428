package jobs

import "context"

// Repo persists job postings.
type Repo interface {
	List(ctx context.Context, filter Filter) ([]Posting, error)
	Get(ctx context.Context, id string) (Posting, error)
	Upsert(ctx context.Context, p Posting) error
}

// Searcher runs full-text queries and returns matching posting ids in rank order.
type Searcher interface {
	Search(ctx context.Context, filter Filter) ([]string, error)
}
