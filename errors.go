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

import (
	"errors"
	"fmt"

	"github.com/vimeo/memocache/key"
)

var (
	// ErrUnhashable is matched by the error a call returns under
	// UnhashableRaise.
	ErrUnhashable = key.ErrUnhashable

	// ErrInvalidConfig is matched by every *ConfigError.
	ErrInvalidConfig = errors.New("memocache: invalid configuration")

	// ErrDuplicateName is returned when registering a second cache under
	// a name already in use.
	ErrDuplicateName = errors.New("memocache: duplicate cache name")
)

// ConfigError reports an option rejected while building a cache.
type ConfigError struct {
	Field  string
	Value  any
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("memocache: invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

// Is lets errors.Is match ErrInvalidConfig.
func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

func unhashableError(err error) error {
	return fmt.Errorf("memocache: cached function arguments must be hashable: %w", err)
}
