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

package promcollector

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/vimeo/memocache"
)

func identity(_ context.Context, args []any, _ map[string]any) (any, error) {
	return args[0], nil
}

func newRegistry(t testing.TB) *memocache.Registry {
	t.Helper()
	reg := memocache.NewRegistry()
	bounded, err := reg.NewCache("bounded", identity, memocache.WithCapacity(2))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := reg.NewCache("unbounded", identity, memocache.WithUnbounded()); err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	for _, arg := range []int{1, 1, 2, 3} {
		if _, err := bounded.Call(ctx, []any{arg}, nil); err != nil {
			t.Fatal(err)
		}
	}
	return reg
}

func TestCollect(t *testing.T) {
	reg := newRegistry(t)

	expected := `
# HELP test_memocache_capacity_entries Configured entry bound; absent for unbounded caches.
# TYPE test_memocache_capacity_entries gauge
test_memocache_capacity_entries{cache="bounded"} 2
# HELP test_memocache_entries Results currently held.
# TYPE test_memocache_entries gauge
test_memocache_entries{cache="bounded"} 2
test_memocache_entries{cache="unbounded"} 0
# HELP test_memocache_evictions_total Results displaced by newer ones.
# TYPE test_memocache_evictions_total counter
test_memocache_evictions_total{cache="bounded"} 1
test_memocache_evictions_total{cache="unbounded"} 0
# HELP test_memocache_hits_total Calls answered from the cache.
# TYPE test_memocache_hits_total counter
test_memocache_hits_total{cache="bounded"} 1
test_memocache_hits_total{cache="unbounded"} 0
# HELP test_memocache_misses_total Calls that computed a result.
# TYPE test_memocache_misses_total counter
test_memocache_misses_total{cache="bounded"} 3
test_memocache_misses_total{cache="unbounded"} 0
`
	if err := testutil.CollectAndCompare(New("test", reg), strings.NewReader(expected)); err != nil {
		t.Error(err)
	}
}

func TestCollectAfterClearAll(t *testing.T) {
	reg := newRegistry(t)
	reg.ClearAll()

	c := New("test", reg)
	expected := `
# HELP test_memocache_hits_total Calls answered from the cache.
# TYPE test_memocache_hits_total counter
test_memocache_hits_total{cache="bounded"} 0
test_memocache_hits_total{cache="unbounded"} 0
`
	if err := testutil.CollectAndCompare(c, strings.NewReader(expected), "test_memocache_hits_total"); err != nil {
		t.Error(err)
	}
	if got := testutil.CollectAndCount(c, "test_memocache_capacity_entries"); got != 1 {
		t.Errorf("capacity series = %d, want 1", got)
	}
}

func TestHandler(t *testing.T) {
	srv := httptest.NewServer(Handler("test", newRegistry(t)))
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if want := `test_memocache_misses_total{cache="bounded"} 3`; !strings.Contains(string(body), want) {
		t.Errorf("response missing %q:\n%s", want, body)
	}
}
