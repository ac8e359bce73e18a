/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package netinfo

// Gate passes a value through only when it differs from the last value it
// passed. It is not safe for concurrent use; each observer owns its own.
type Gate[T comparable] struct {
	last T
}

// NewGate returns a gate whose baseline is initial. A first value equal to
// initial is treated as unchanged.
func NewGate[T comparable](initial T) *Gate[T] {
	return &Gate[T]{last: initial}
}

// Consider stores v and returns it with true when it differs from the
// baseline. Otherwise the baseline is untouched and ok is false.
func (g *Gate[T]) Consider(v T) (changed T, ok bool) {
	if v == g.last {
		var zero T
		return zero, false
	}

	g.last = v

	return v, true
}

// Last returns the current baseline.
func (g *Gate[T]) Last() T {
	return g.last
}
