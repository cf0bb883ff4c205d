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

package memocache

// A Factory holds a validated Config and wraps any number of functions
// with it. Each wrapped function gets its own store and counters.
type Factory struct {
	cfg Config
}

// NewFactory validates opts. The returned error is a *ConfigError
// matching ErrInvalidConfig.
func NewFactory(opts ...Option) (*Factory, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt.apply(&cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Factory{cfg: cfg}, nil
}

// Config returns the configuration shared by every cache the factory
// builds.
func (f *Factory) Config() Config {
	return f.cfg
}

// Wrap returns a new, empty Cache around fn. It panics if fn is nil.
func (f *Factory) Wrap(fn Func) *Cache {
	if fn == nil {
		panic("nil Func")
	}
	return newCache(fn, f.cfg)
}
