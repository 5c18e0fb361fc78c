package streaming

import "context"

// StreamBatch is one page yielded by a paginated stream.
// BatchNumber increments by 1 per yield, starting at 0; More is false on the
// last batch.
type StreamBatch struct {
	Items       []interface{}
	BatchNumber int
	Offset      int
	More        bool
	Err         error
}

// FetchPageFunc fetches one page of up to batchSize items starting at
// offset. A page shorter than batchSize signals the caller that the
// underlying collection is exhausted.
type FetchPageFunc func(ctx context.Context, offset, batchSize int) ([]interface{}, error)

// Paginated traverses a Checkmk collection page by page, returning a
// channel of StreamBatch. The producer goroutine stops fetching as soon as
// ctx is cancelled or the consumer stops draining the channel.
//
// A fetch error is delivered as the Err field of the batch it occurred in
// and the channel is closed afterward; batches already sent are not
// retracted.
func Paginated(ctx context.Context, fetch FetchPageFunc, batchSize int) <-chan StreamBatch {
	if batchSize <= 0 {
		batchSize = 100
	}
	out := make(chan StreamBatch)

	go func() {
		defer close(out)
		offset := 0
		batchNumber := 0
		var pending []interface{}
		var pendingErr error
		havePending := false
		for {
			if ctx.Err() != nil {
				return
			}

			page, err := pending, pendingErr
			if !havePending {
				page, err = fetch(ctx, offset, batchSize)
			}
			havePending = false
			if err != nil {
				select {
				case out <- StreamBatch{BatchNumber: batchNumber, Offset: offset, Err: err}:
				case <-ctx.Done():
				}
				return
			}

			if len(page) == 0 {
				return
			}

			more := len(page) == batchSize
			// Look one page ahead so a full final page still reports More=false.
			if more {
				pending, pendingErr = fetch(ctx, offset+len(page), batchSize)
				havePending = true
				more = pendingErr != nil || len(pending) > 0
			}
			select {
			case out <- StreamBatch{Items: page, BatchNumber: batchNumber, Offset: offset, More: more}:
			case <-ctx.Done():
				return
			}

			offset += len(page)
			batchNumber++
			if !more {
				return
			}
		}
	}()

	return out
}

// Collect drains a stream started by Paginated into a single slice,
// convenient for callers that do not need constant-memory traversal (e.g.
// tool handlers assembling a bounded response). The first batch error, if
// any, is returned alongside whatever items were collected before it.
func Collect(stream <-chan StreamBatch) ([]interface{}, error) {
	var items []interface{}
	for batch := range stream {
		if batch.Err != nil {
			return items, batch.Err
		}
		items = append(items, batch.Items...)
	}
	return items, nil
}
