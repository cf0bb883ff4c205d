/*
Copyright 2026 Vimeo Inc.

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

// Package promcollector exports memocache stats as Prometheus metrics.
package promcollector // import "github.com/vimeo/memocache/promcollector"

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vimeo/memocache"
)

// Source lists the caches to export. *memocache.Registry implements it.
type Source interface {
	Caches() []*memocache.Cache
}

// Collector is a prometheus.Collector reading Cache.Stats at scrape time.
type Collector struct {
	src Source

	hits      *prometheus.Desc
	misses    *prometheus.Desc
	evictions *prometheus.Desc
	size      *prometheus.Desc
	capacity  *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

// New returns a Collector for src with metric names under namespace
// (e.g. "myapp" gives "myapp_memocache_hits_total").
func New(namespace string, src Source) *Collector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "memocache", name), help, []string{"cache"}, nil)
	}
	return &Collector{
		src:       src,
		hits:      desc("hits_total", "Calls answered from the cache."),
		misses:    desc("misses_total", "Calls that computed a result."),
		evictions: desc("evictions_total", "Results displaced by newer ones."),
		size:      desc("entries", "Results currently held."),
		capacity:  desc("capacity_entries", "Configured entry bound; absent for unbounded caches."),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.hits
	ch <- c.misses
	ch <- c.evictions
	ch <- c.size
	ch <- c.capacity
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for _, mc := range c.src.Caches() {
		s := mc.Stats()
		name := mc.Name()
		ch <- prometheus.MustNewConstMetric(c.hits, prometheus.CounterValue, float64(s.Hits), name)
		ch <- prometheus.MustNewConstMetric(c.misses, prometheus.CounterValue, float64(s.Misses), name)
		ch <- prometheus.MustNewConstMetric(c.evictions, prometheus.CounterValue, float64(s.Evictions), name)
		ch <- prometheus.MustNewConstMetric(c.size, prometheus.GaugeValue, float64(s.Size), name)
		if max, ok := s.MaxSize(); ok {
			ch <- prometheus.MustNewConstMetric(c.capacity, prometheus.GaugeValue, float64(max), name)
		}
	}
}

// Handler serves the metrics of src, and nothing else, in the Prometheus
// exposition format.
func Handler(namespace string, src Source) http.Handler {
	reg := prometheus.NewRegistry()
	reg.MustRegister(New(namespace, src))
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
