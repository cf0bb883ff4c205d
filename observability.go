/*
Copyright 2018 Google LLC.

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

package memocache

import (
	"time"

	"go.opencensus.io/stats"
	"go.opencensus.io/stats/view"
	"go.opencensus.io/tag"
)

const (
	unitDimensionless = "1"
	unitMillisecond   = "ms"
)

var (
	// Copied from https://github.com/census-instrumentation/opencensus-go/blob/ff7de98412e5c010eb978f11056f90c00561637f/plugin/ocgrpc/stats_common.go#L55
	defaultMillisecondsDistribution = view.Distribution(0, 0.01, 0.05, 0.1, 0.3, 0.6, 0.8, 1, 2, 3, 4, 5, 6, 8, 10, 13, 16, 20, 25, 30, 40, 50, 65, 80, 100, 130, 160, 200, 250, 300, 400, 500, 650, 800, 1000, 2000, 5000, 10000, 20000, 50000, 100000)
	keyElementsDistribution         = view.Distribution(0, 1, 2, 3, 4, 6, 8, 12, 16, 32, 64)
)

// Opencensus stats
var (
	MCalls         = stats.Int64("calls", "The number of Call requests", unitDimensionless)
	MCacheHits     = stats.Int64("cache_hits", "The number of calls answered from the cache", unitDimensionless)
	MCacheMisses   = stats.Int64("cache_misses", "The number of calls that computed a result", unitDimensionless)
	MUnhashable    = stats.Int64("unhashable_calls", "The number of calls whose arguments could not be hashed", unitDimensionless)
	MEvictions     = stats.Int64("evictions", "The number of entries displaced by newer results", unitDimensionless)
	MComputeErrors = stats.Int64("compute_errors", "The number of computations that returned an error", unitDimensionless)
	MKeyElements   = stats.Int64("key_elements", "The number of elements in a call key", unitDimensionless)

	MCallLatencyMilliseconds    = stats.Float64("call_latency", "Call latency in milliseconds", unitMillisecond)
	MComputeLatencyMilliseconds = stats.Float64("compute_latency", "Latency of the wrapped function in milliseconds", unitMillisecond)
)

// CacheKey tags the name of the cache
var CacheKey = tag.MustNewKey("cache")

// HitKindKey tags how a hit was found: "lookup" for a stored result found
// before computing, "race" for a result another caller stored while this
// one was computing, and "deduped" for a caller that waited on another
// caller's computation (WithDedup).
var HitKindKey = tag.MustNewKey("hit-kind")

// AllViews is a slice of default views for people to use
var AllViews = []*view.View{
	{Name: "memocache/calls", Description: "The number of Call requests", TagKeys: []tag.Key{CacheKey}, Measure: MCalls, Aggregation: view.Count()},
	{Name: "memocache/cache_hits", Description: "The number of calls answered from the cache", TagKeys: []tag.Key{CacheKey, HitKindKey}, Measure: MCacheHits, Aggregation: view.Count()},
	{Name: "memocache/cache_misses", Description: "The number of calls that computed a result", TagKeys: []tag.Key{CacheKey}, Measure: MCacheMisses, Aggregation: view.Count()},
	{Name: "memocache/unhashable_calls", Description: "The number of calls whose arguments could not be hashed", TagKeys: []tag.Key{CacheKey}, Measure: MUnhashable, Aggregation: view.Count()},
	{Name: "memocache/evictions", Description: "The number of entries displaced by newer results", TagKeys: []tag.Key{CacheKey}, Measure: MEvictions, Aggregation: view.Count()},
	{Name: "memocache/compute_errors", Description: "The number of computations that returned an error", TagKeys: []tag.Key{CacheKey}, Measure: MComputeErrors, Aggregation: view.Count()},
	{Name: "memocache/key_elements", Description: "The distribution of key sizes", TagKeys: []tag.Key{CacheKey}, Measure: MKeyElements, Aggregation: keyElementsDistribution},
	{Name: "memocache/call_latency", Description: "The call latency", TagKeys: []tag.Key{CacheKey}, Measure: MCallLatencyMilliseconds, Aggregation: defaultMillisecondsDistribution},
	{Name: "memocache/compute_latency", Description: "The latency of the wrapped function", TagKeys: []tag.Key{CacheKey}, Measure: MComputeLatencyMilliseconds, Aggregation: defaultMillisecondsDistribution},
}

func sinceInMilliseconds(start time.Time) float64 {
	d := time.Since(start)
	return float64(d.Nanoseconds()) / 1e6
}
