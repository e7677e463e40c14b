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

import "math"

// Entity is a user or an item with its training ratings.
type Entity struct {
	Code    string
	Index   int
	Ratings RatingList
	mean    float64
}

func newEntity(code string, index int) *Entity {
	return &Entity{Code: code, Index: index, mean: math.NaN()}
}

// Mean returns the average training rating, or NaN if the entity has no training
// ratings. It is computed once when the data model is built.
func (e *Entity) Mean() float64 {
	return e.mean
}

// Count returns the number of training ratings.
func (e *Entity) Count() int {
	return e.Ratings.Len()
}

func (e *Entity) refresh() {
	e.mean = e.Ratings.Mean()
}

// TestEntity is a user or an item with held-out ratings. It shares the index space
// of training entities, so Entity points to the training view of the same user or
// item (its rating list is empty if it has no training ratings).
type TestEntity struct {
	*Entity
	// TestIndex is the position among test entities of the same kind.
	TestIndex int
	// Test stores held-out ratings sorted by counterpart index.
	Test RatingList
}
