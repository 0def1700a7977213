package fmdata

import (
	"context"
	"fmt"
)

// PageFetcher fetches one page of records for a lazily paginated
// foundset. Offset is 1-based, as on the wire.
type PageFetcher func(ctx context.Context, offset, limit int) ([]*Record, error)

// Foundset is the ordered result of a query. Records materialize page
// by page as they are accessed and stay cached for the Foundset's
// lifetime; iteration order is the server's return order at fetch
// time. A Foundset is forward-only and never restarts; issue a new
// query for fresh data. Not safe for concurrent use.
type Foundset struct {
	records    []*Record
	total      int
	returned   int
	pageSize   int
	nextOffset int
	fetch      PageFetcher
}

// NewFoundset builds a lazily paginated foundset from the first page
// of a query result. firstOffset is the 1-based offset the page was
// fetched at; pageSize bounds subsequent page fetches.
func NewFoundset(records []*Record, info DataInfo, firstOffset, pageSize int, fetch PageFetcher) *Foundset {
	if firstOffset <= 0 {
		firstOffset = 1
	}

	total := info.FoundCount
	if total < len(records) {
		total = len(records)
	}

	return &Foundset{
		records:    records,
		total:      total,
		returned:   info.ReturnedCount,
		pageSize:   pageSize,
		nextOffset: firstOffset + len(records),
		fetch:      fetch,
	}
}

// NewPortalFoundset wraps the fully materialized related records of a
// portal. Total count may exceed the row count when the portal was
// range-limited; rows beyond the range are not fetchable through the
// parent record.
func NewPortalFoundset(records []*Record, info DataInfo) *Foundset {
	total := info.FoundCount
	if total < len(records) {
		total = len(records)
	}

	return &Foundset{
		records:  records,
		total:    total,
		returned: info.ReturnedCount,
	}
}

// TotalCount returns the server-reported match count, which may exceed
// the number of records materialized so far.
func (f *Foundset) TotalCount() int {
	return f.total
}

// ReturnedCount returns the record count of the initial response page.
func (f *Foundset) ReturnedCount() int {
	return f.returned
}

// Len returns the number of records materialized so far.
func (f *Foundset) Len() int {
	return len(f.records)
}

// Records returns the materialized records without triggering fetches.
func (f *Foundset) Records() []*Record {
	out := make([]*Record, len(f.records))
	copy(out, f.records)

	return out
}

// Get returns the record at index i, fetching further pages on demand.
func (f *Foundset) Get(ctx context.Context, i int) (*Record, error) {
	if i < 0 || i >= f.total {
		return nil, fmt.Errorf("%w: index %d, total %d", ErrIndexOutOfRange, i, f.total)
	}

	for i >= len(f.records) {
		fetched, err := f.fetchNext(ctx)
		if err != nil {
			return nil, err
		}

		if fetched == 0 {
			return nil, fmt.Errorf("%w: index %d, materialized %d", ErrIndexOutOfRange, i, len(f.records))
		}
	}

	return f.records[i], nil
}

// All materializes every remaining page and returns the full, ordered
// record list.
func (f *Foundset) All(ctx context.Context) ([]*Record, error) {
	for f.hasMore() {
		fetched, err := f.fetchNext(ctx)
		if err != nil {
			return nil, err
		}

		if fetched == 0 {
			break
		}
	}

	return f.Records(), nil
}

// ForEach applies fn to every record in server order, fetching pages
// as needed. Iteration stops at the first error fn returns.
func (f *Foundset) ForEach(ctx context.Context, fn func(*Record) error) error {
	for i := 0; i < f.total; i++ {
		record, err := f.Get(ctx, i)
		if err != nil {
			return err
		}

		err = fn(record)
		if err != nil {
			return err
		}
	}

	return nil
}

func (f *Foundset) hasMore() bool {
	return f.fetch != nil && len(f.records) < f.total
}

func (f *Foundset) fetchNext(ctx context.Context) (int, error) {
	if !f.hasMore() {
		return 0, nil
	}

	limit := f.pageSize
	if limit <= 0 {
		limit = f.total - len(f.records)
	}

	page, err := f.fetch(ctx, f.nextOffset, limit)
	if err != nil {
		return 0, fmt.Errorf("fetching foundset page at offset %d: %w", f.nextOffset, err)
	}

	f.records = append(f.records, page...)
	f.nextOffset += len(page)

	if len(page) == 0 {
		// Server returned fewer rows than promised; treat the
		// foundset as complete rather than looping.
		f.total = len(f.records)
	}

	return len(page), nil
}

// Iterator returns a forward-only iterator over the foundset in the
// style of a pagination cursor. One iterator per foundset at a time;
// it shares the foundset's record cache.
func (f *Foundset) Iterator(ctx context.Context) *FoundsetIterator {
	return &FoundsetIterator{ctx: ctx, fs: f}
}

// FoundsetIterator walks a Foundset record by record.
type FoundsetIterator struct {
	ctx context.Context
	fs  *Foundset
	idx int
}

// HasNext reports whether another record is available.
func (it *FoundsetIterator) HasNext() bool {
	return it.idx < it.fs.total
}

// Next returns the next record, fetching the next page when the
// materialized prefix is exhausted.
func (it *FoundsetIterator) Next() (*Record, error) {
	record, err := it.fs.Get(it.ctx, it.idx)
	if err != nil {
		return nil, err
	}

	it.idx++

	return record, nil
}
