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
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func assertSorted(t *testing.T, l *RatingList) {
	assert.Equal(t, len(l.Indices), len(l.Values))
	for i := 1; i < l.Len(); i++ {
		assert.Less(t, l.IndexAt(i-1), l.IndexAt(i))
	}
}

func TestRatingListUpsert(t *testing.T) {
	l := NewRatingList(0)
	assert.True(t, l.Upsert(5, 1))
	assert.True(t, l.Upsert(1, 2))
	assert.True(t, l.Upsert(3, 3))
	assert.True(t, l.Upsert(9, 4))
	assert.Equal(t, []int{1, 3, 5, 9}, l.Indices)
	assert.Equal(t, []float64{2, 3, 1, 4}, l.Values)
	// overwrite doesn't grow
	assert.False(t, l.Upsert(3, 5))
	assert.Equal(t, 4, l.Len())
	assert.Equal(t, Rating{Index: 3, Value: 5}, l.At(1))
	// lookup
	pos, ok := l.Find(5)
	assert.True(t, ok)
	assert.Equal(t, 2, pos)
	pos, ok = l.Find(4)
	assert.False(t, ok)
	assert.Equal(t, 2, pos)
	value, ok := l.Get(9)
	assert.True(t, ok)
	assert.Equal(t, 4.0, value)
	_, ok = l.Get(100)
	assert.False(t, ok)
	// out of range access fails fast
	assert.Panics(t, func() { l.ValueAt(10) })
}

func TestRatingListRandomUpsert(t *testing.T) {
	rng := rand.New(rand.NewSource(0))
	l := NewRatingList(0)
	expected := make(map[int]float64)
	for i := 0; i < 10000; i++ {
		index, value := rng.Intn(500), rng.Float64()
		l.Upsert(index, value)
		expected[index] = value
	}
	assertSorted(t, l)
	assert.Equal(t, len(expected), l.Len())
	l.ForEach(func(index int, value float64) {
		assert.Equal(t, expected[index], value)
	})
}

func TestRatingListAcceptsAnyValue(t *testing.T) {
	l := NewRatingList(0)
	l.Upsert(0, math.NaN())
	l.Upsert(1, 1000)
	value, ok := l.Get(0)
	assert.True(t, ok)
	assert.True(t, math.IsNaN(value))
	value, _ = l.Get(1)
	assert.Equal(t, 1000.0, value)
}

func TestRatingListMean(t *testing.T) {
	l := NewRatingList(0)
	assert.True(t, math.IsNaN(l.Mean()))
	l.Upsert(0, 1)
	l.Upsert(1, 2)
	l.Upsert(2, 6)
	assert.Equal(t, 3.0, l.Mean())
	var nilList *RatingList
	assert.Equal(t, 0, nilList.Len())
}

func TestIndex(t *testing.T) {
	idx := NewIndex()
	assert.Equal(t, 0, idx.Len())
	assert.Equal(t, 0, idx.Add("1"))
	assert.Equal(t, 1, idx.Add("2"))
	assert.Equal(t, 2, idx.Add("4"))
	assert.Equal(t, 1, idx.Add("2"))
	assert.Equal(t, 3, idx.Len())
	assert.Equal(t, 2, idx.ToNumber("4"))
	assert.Equal(t, NotID, idx.ToNumber("1000"))
	assert.Equal(t, "4", idx.ToName(2))
	assert.Equal(t, []string{"1", "2", "4"}, idx.Names())
	var nilIndex *Index
	assert.Equal(t, NotID, nilIndex.ToNumber("1"))
}
