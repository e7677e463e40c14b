// Copyright 2026 gorse Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package dataset

// NotID represents a code doesn't exist.
const NotID = -1

// Index manages the map between external codes and dense indices. A code is a raw
// user ID or item ID. The dense index is the internal index optimized for faster
// access and less memory usage.
type Index struct {
	numbers map[string]int // code -> dense index
	names   []string       // dense index -> code
}

// NewIndex creates an Index.
func NewIndex() *Index {
	return &Index{
		numbers: make(map[string]int),
		names:   make([]string, 0),
	}
}

// Len returns the number of indexed codes.
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.names)
}

// Add adds a code to the index and returns its dense index. Existing codes keep
// their index.
func (idx *Index) Add(name string) int {
	if number, exist := idx.numbers[name]; exist {
		return number
	}
	number := len(idx.names)
	idx.numbers[name] = number
	idx.names = append(idx.names, name)
	return number
}

// ToNumber converts a code to a dense index. NotID is returned for unknown codes.
func (idx *Index) ToNumber(name string) int {
	if idx == nil {
		return NotID
	}
	if number, exist := idx.numbers[name]; exist {
		return number
	}
	return NotID
}

// ToName converts a dense index to a code.
func (idx *Index) ToName(index int) string {
	return idx.names[index]
}

// Names returns all codes ordered by dense index.
func (idx *Index) Names() []string {
	return idx.names
}
