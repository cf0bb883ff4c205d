/*
Copyright 2012 Google Inc.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

     http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package memocache memoizes function calls in process.
//
// A Cache wraps a Func and remembers its results, keyed by the call's
// positional and keyword arguments (plus optional extra state). Bounded
// caches evict the least recently used result once full; unbounded caches
// keep everything; a disabled cache only counts calls.
//
// Results are computed outside the cache's lock, so concurrent misses for
// the same arguments may each run the wrapped function. The first result
// stored wins and later callers still receive their own result. WithDedup
// makes concurrent misses for equal arguments wait for a single
// computation instead.
package memocache // import "github.com/vimeo/memocache"

import (
	"context"
	"log/slog"
	"reflect"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/vimeo/memocache/key"
	"github.com/vimeo/memocache/singleflight"

	"go.opencensus.io/stats"
	"go.opencensus.io/tag"
	"go.opencensus.io/trace"
)

// Func is a function whose results can be cached. args and kwargs must
// be hashable for the result to be stored; see package key.
type Func func(ctx context.Context, args []any, kwargs map[string]any) (any, error)

// Info describes the function wrapped by a Cache.
type Info struct {
	// Name is the function's short name, e.g. "fib" or "func1".
	Name string
	// QualifiedName is the name within its package, e.g. "(*T).fib" or
	// "TestFoo.func1".
	QualifiedName string
	// Package is the import path of the package defining the function.
	Package string
	// Doc is the documentation passed with WithDoc.
	Doc string
}

func funcInfo(fn Func, doc string) Info {
	info := Info{Doc: doc}
	f := runtime.FuncForPC(reflect.ValueOf(fn).Pointer())
	if f == nil {
		return info
	}
	full := f.Name()
	pkgEnd := strings.LastIndexByte(full, '/') + 1
	if dot := strings.IndexByte(full[pkgEnd:], '.'); dot >= 0 {
		info.Package = full[:pkgEnd+dot]
		info.QualifiedName = full[pkgEnd+dot+1:]
	} else {
		info.QualifiedName = full
	}
	info.QualifiedName = strings.TrimSuffix(info.QualifiedName, "-fm")
	info.Name = info.QualifiedName[strings.LastIndexByte(info.QualifiedName, '.')+1:]
	return info
}

// A Cache memoizes the results of a Func. All methods are safe for
// concurrent use.
type Cache struct {
	// counters first so they're 64-bit aligned on 32-bit platforms
	hits      AtomicInt
	misses    AtomicInt
	evictions AtomicInt

	fn   Func
	cfg  Config
	info Info
	name string
	keys key.Builder

	// mu guards store and the reset of the counters in Clear.
	mu sync.Mutex
	// store is nil when the cache is Disabled.
	store store
	// flights is nil unless the cache was built WithDedup.
	flights *singleflight.Group[*key.Key, any]
}

func newCache(fn Func, cfg Config) *Cache {
	c := &Cache{
		fn:   fn,
		cfg:  cfg,
		info: funcInfo(fn, cfg.Doc),
		keys: key.Builder{Typed: cfg.Typed, State: cfg.state},
	}
	c.name = cfg.Name
	if c.name == "" {
		c.name = c.info.QualifiedName
	}

	switch {
	case cfg.Capacity.IsBounded():
		c.store = newBoundedStore(int(cfg.Capacity))
	case cfg.Capacity == Unbounded:
		c.store = newUnboundedStore()
	}
	if cfg.Dedup && c.store != nil {
		c.flights = &singleflight.Group[*key.Key, any]{}
	}
	return c
}

// New wraps fn in a Cache configured by opts. It panics if fn is nil.
func New(fn Func, opts ...Option) (*Cache, error) {
	f, err := NewFactory(opts...)
	if err != nil {
		return nil, err
	}
	return f.Wrap(fn), nil
}

// Name returns the name of the cache: the WithName value, or else the
// wrapped function's qualified name.
func (c *Cache) Name() string {
	return c.name
}

// Info describes the wrapped function.
func (c *Cache) Info() Info {
	return c.info
}

// Wrapped returns the underlying function, bypassing the cache.
func (c *Cache) Wrapped() Func {
	return c.fn
}

// Config returns the configuration the cache was built with.
func (c *Cache) Config() Config {
	return c.cfg
}

// Call returns the cached result of fn(ctx, args, kwargs), computing and
// storing it on a miss. Errors from the wrapped function are returned
// unchanged and neither stored nor counted. When the arguments can't be
// hashed, the configured UnhashablePolicy decides between failing with an
// error matching ErrUnhashable and calling through without caching.
func (c *Cache) Call(ctx context.Context, args []any, kwargs map[string]any) (any, error) {
	ctx, _ = tag.New(ctx, tag.Upsert(CacheKey, c.name))

	ctx, span := trace.StartSpan(ctx, "memocache.(*Cache).Call on "+c.name)
	startTime := time.Now()
	defer func() {
		c.record(ctx, MCallLatencyMilliseconds.M(sinceInMilliseconds(startTime)))
		span.End()
	}()

	c.record(ctx, MCalls.M(1))

	if c.store == nil {
		span.Annotatef(nil, "Cache disabled")
		return c.callThrough(ctx, span, args, kwargs)
	}

	k, err := c.keys.Build(args, kwargs)
	if err != nil {
		c.record(ctx, MUnhashable.M(1))
		switch c.cfg.Unhashable {
		case UnhashableRaise:
			span.SetStatus(trace.Status{Code: trace.StatusCodeInvalidArgument, Message: err.Error()})
			return nil, unhashableError(err)
		case UnhashableWarn:
			c.log().WarnContext(ctx, "arguments are not hashable, calling without caching",
				slog.String("cache", c.name), slog.Any("error", err))
		}
		span.Annotatef(nil, "Unhashable arguments")
		return c.callThrough(ctx, span, args, kwargs)
	}
	c.record(ctx, MKeyElements.M(int64(k.Len())))

	if value, ok := c.lookup(k); ok {
		span.Annotatef(nil, "Cache hit")
		c.recordHit(ctx, "lookup")
		return value, nil
	}
	span.Annotatef(nil, "Cache miss")

	if c.flights == nil {
		return c.fill(ctx, span, k, args, kwargs)
	}
	value, err, shared := c.flights.Do(k, func() (any, error) {
		return c.fill(ctx, span, k, args, kwargs)
	})
	if shared && err == nil {
		c.hits.Add(1)
		span.Annotatef(nil, "Joined in-flight computation")
		c.recordHit(ctx, "deduped")
	}
	return value, err
}

// fill computes the result for k and stores it unless another caller got
// there first.
func (c *Cache) fill(ctx context.Context, span *trace.Span, k *key.Key, args []any, kwargs map[string]any) (any, error) {
	value, err := c.compute(ctx, span, args, kwargs)
	if err != nil {
		return value, err
	}

	stored, evicted := c.insert(k, value)
	if !stored {
		// Another caller stored a result for k while we computed. Keep
		// theirs and hand back our own.
		span.Annotatef(nil, "Result stored concurrently")
		c.recordHit(ctx, "race")
		return value, nil
	}

	c.record(ctx, MCacheMisses.M(1))
	if evicted != nil {
		c.record(ctx, MEvictions.M(1))
		c.log().DebugContext(ctx, "evicted least recently used result",
			slog.String("cache", c.name), slog.Uint64("key_hash", evicted.Hash()))
	}
	return value, nil
}

func (c *Cache) log() *slog.Logger {
	return loggerOrDefault(c.cfg.logger)
}

// lookup returns the stored result for k, counting a hit when found. Key
// Equal methods run here, so the unlock is deferred in case one panics.
func (c *Cache) lookup(k *key.Key) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	value, ok := c.store.get(k)
	if ok {
		c.hits.Add(1)
	}
	return value, ok
}

// insert stores value under k and counts a miss, unless k is already
// present, in which case it counts a hit and stores nothing.
func (c *Cache) insert(k *key.Key, value any) (stored bool, evicted *key.Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.store.get(k); ok {
		c.hits.Add(1)
		return false, nil
	}
	evicted = c.store.add(k, value)
	c.misses.Add(1)
	if evicted != nil {
		c.evictions.Add(1)
	}
	return true, evicted
}

func (c *Cache) record(ctx context.Context, ms ...stats.Measurement) {
	if c.cfg.recorder == nil {
		stats.Record(ctx, ms...)
		return
	}
	stats.RecordWithOptions(ctx, stats.WithRecorder(c.cfg.recorder), stats.WithMeasurements(ms...))
}

func (c *Cache) recordHit(ctx context.Context, kind string) {
	ctx, _ = tag.New(ctx, tag.Upsert(HitKindKey, kind))
	c.record(ctx, MCacheHits.M(1))
}

// callThrough invokes fn without touching the store and counts a miss on
// success.
func (c *Cache) callThrough(ctx context.Context, span *trace.Span, args []any, kwargs map[string]any) (any, error) {
	value, err := c.compute(ctx, span, args, kwargs)
	if err != nil {
		return value, err
	}
	c.misses.Add(1)
	c.record(ctx, MCacheMisses.M(1))
	return value, nil
}

func (c *Cache) compute(ctx context.Context, span *trace.Span, args []any, kwargs map[string]any) (any, error) {
	computeStart := time.Now()
	value, err := c.fn(ctx, args, kwargs)
	c.record(ctx, MComputeLatencyMilliseconds.M(sinceInMilliseconds(computeStart)))
	if err != nil {
		span.SetStatus(trace.Status{Code: trace.StatusCodeUnknown, Message: "Failed to compute result: " + err.Error()})
		c.record(ctx, MComputeErrors.M(1))
	}
	return value, err
}

// Clear drops every stored result and resets the hit, miss and eviction
// counters. Capacity is unchanged.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store != nil {
		c.store.clear()
	}
	c.hits.Store(0)
	c.misses.Store(0)
	c.evictions.Store(0)
}

// Stats returns a consistent snapshot of the cache's counters and size.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := Stats{
		Hits:      c.hits.Get(),
		Misses:    c.misses.Get(),
		Evictions: c.evictions.Get(),
		Capacity:  c.cfg.Capacity,
	}
	if c.store != nil {
		s.Size = int64(c.store.len())
	}
	return s
}

// Keys returns the keys currently stored, most recently used first for a
// bounded cache and in no particular order otherwise.
func (c *Cache) Keys() []*key.Key {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		return nil
	}
	return c.store.keys()
}
