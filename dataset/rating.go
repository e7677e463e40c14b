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

import (
	"math"
	"slices"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Rating is a value given to a counterpart. For a user the counterpart is an item
// and vice versa.
type Rating struct {
	Index int
	Value float64
}

// RatingList stores the ratings of an entity sorted by counterpart index. Indices
// are strictly increasing and never repeat.
type RatingList struct {
	Indices []int
	Values  []float64
}

// NewRatingList creates an empty rating list with reserved capacity.
func NewRatingList(capacity int) *RatingList {
	return &RatingList{
		Indices: make([]int, 0, capacity),
		Values:  make([]float64, 0, capacity),
	}
}

// Len returns the number of ratings.
func (l *RatingList) Len() int {
	if l == nil {
		return 0
	}
	return len(l.Indices)
}

// IndexAt returns the counterpart index of the pos-th rating.
func (l *RatingList) IndexAt(pos int) int {
	return l.Indices[pos]
}

// ValueAt returns the value of the pos-th rating.
func (l *RatingList) ValueAt(pos int) float64 {
	return l.Values[pos]
}

// At returns the pos-th rating.
func (l *RatingList) At(pos int) Rating {
	return Rating{Index: l.Indices[pos], Value: l.Values[pos]}
}

// Find searches a counterpart index. If the index is missing, the returned position
// is where it would be inserted.
func (l *RatingList) Find(index int) (int, bool) {
	if l == nil {
		return 0, false
	}
	pos := sort.SearchInts(l.Indices, index)
	return pos, pos < len(l.Indices) && l.Indices[pos] == index
}

// Get returns the rating on a counterpart.
func (l *RatingList) Get(index int) (float64, bool) {
	if pos, ok := l.Find(index); ok {
		return l.Values[pos], true
	}
	return 0, false
}

// Upsert sets the rating on a counterpart. An existing rating is overwritten and the
// list doesn't grow. It returns true if a new rating was inserted.
func (l *RatingList) Upsert(index int, value float64) bool {
	pos, ok := l.Find(index)
	if ok {
		l.Values[pos] = value
		return false
	}
	l.Indices = slices.Insert(l.Indices, pos, index)
	l.Values = slices.Insert(l.Values, pos, value)
	return true
}

// ForEach iterates ratings in increasing order of counterpart index.
func (l *RatingList) ForEach(f func(index int, value float64)) {
	for i := range l.Indices {
		f(l.Indices[i], l.Values[i])
	}
}

// Mean returns the average rating, or NaN if the list is empty.
func (l *RatingList) Mean() float64 {
	if l.Len() == 0 {
		return math.NaN()
	}
	return stat.Mean(l.Values, nil)
}
