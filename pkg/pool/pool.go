package pool

import (
	"io"
	"runtime"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// Pool bounds the number of goroutines used to parallelize expensive searches,
// such as prime generation, and the verification of many proofs at once.
//
// Functions needing a *Pool will work with a nil receiver, doing the equivalent
// work on the current goroutine instead. A nil pool therefore makes searches
// deterministic when the candidates are drawn from a deterministic reader.
type Pool struct {
	workerCount int
}

// NewPool creates a new pool, with a certain number of workers.
//
// If count <= 0, this will use the number of available CPUs instead.
func NewPool(count int) *Pool {
	if count <= 0 {
		count = runtime.NumCPU()
	}
	return &Pool{workerCount: count}
}

// Search queries the function f, until count successes are found.
//
// f is supposed to try a single candidate, returning false if that candidate isn't
// successful.
//
// The result will be a slice containing the first count successes.
func Search[T any](p *Pool, count int, f func() (T, bool)) []T {
	results := make([]T, 0, count)
	if p == nil {
		for len(results) < count {
			if res, ok := f(); ok {
				results = append(results, res)
			}
		}
		return results
	}

	var (
		mu        sync.Mutex
		remaining = int64(count)
		g         errgroup.Group
	)
	for i := 0; i < p.workerCount; i++ {
		g.Go(func() error {
			for atomic.LoadInt64(&remaining) > 0 {
				res, ok := f()
				if !ok {
					continue
				}
				if atomic.AddInt64(&remaining, -1) < 0 {
					return nil
				}
				mu.Lock()
				results = append(results, res)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// Parallelize calls a function count times, passing in indices from 0..count-1.
//
// The result will be a slice containing [f(0), f(1), ..., f(count - 1)].
func Parallelize[T any](p *Pool, count int, f func(int) T) []T {
	results := make([]T, count)
	if p == nil {
		for i := range results {
			results[i] = f(i)
		}
		return results
	}

	var g errgroup.Group
	g.SetLimit(p.workerCount)
	for i := 0; i < count; i++ {
		g.Go(func() error {
			results[i] = f(i)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// LockedReader wraps an io.Reader to be safe for concurrent reads.
//
// This means acquiring a lock whenever a read happens, so be aware of that
// for performance or concurrency reasons.
type LockedReader struct {
	reader io.Reader
	m      sync.Mutex
}

// NewLockedReader creates a LockedReader by wrapping an underlying value.
func NewLockedReader(r io.Reader) *LockedReader {
	return &LockedReader{reader: r}
}

// Read implements io.Reader for LockedReader.
//
// When calling this function concurrently, what value ends up getting
// read is raced, but no value is read twice.
func (r *LockedReader) Read(p []byte) (int, error) {
	r.m.Lock()
	defer r.m.Unlock()
	return r.reader.Read(p)
}
