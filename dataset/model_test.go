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
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
)

func newTestDataModel() *DataModel {
	return NewDataModel([]Triple{
		{"u1", "i1", 3},
		{"u1", "i2", 4},
		{"u2", "i1", 1},
		{"u2", "i3", 5},
		{"u3", "i2", 2},
		{"u1", "i2", 5}, // overwrite
	}, []Triple{
		{"u1", "i3", 4},
		{"u4", "i1", 2}, // test-only user
		{"u2", "i4", 3}, // test-only item
		{"u4", "i1", 3}, // overwrite
	})
}

func TestDataModel(t *testing.T) {
	m := newTestDataModel()
	assert.Equal(t, 4, m.CountUsers())
	assert.Equal(t, 4, m.CountItems())
	assert.Equal(t, 5, m.CountRatings())
	assert.Equal(t, 3, m.CountTestRatings())
	assert.Equal(t, 3, m.CountTestUsers())
	assert.Equal(t, 3, m.CountTestItems())
	assert.Equal(t, 1.0, m.MinRating())
	assert.Equal(t, 5.0, m.MaxRating())

	// training ratings
	u1, err := m.UserByCode("u1")
	assert.NoError(t, err)
	assert.Equal(t, 0, u1.Index)
	assert.Equal(t, []int{0, 1}, u1.Ratings.Indices)
	assert.Equal(t, []float64{3, 5}, u1.Ratings.Values)
	assert.Equal(t, 4.0, u1.Mean())
	assert.Equal(t, 2, u1.Count())
	i2, err := m.ItemByCode("i2")
	assert.NoError(t, err)
	assert.Equal(t, []int{0, 2}, i2.Ratings.Indices)
	assert.Equal(t, []float64{5, 2}, i2.Ratings.Values)

	// test-only user shares the index space with an empty training list
	u4, err := m.TestUserByCode("u4")
	assert.NoError(t, err)
	assert.Equal(t, 3, u4.Index)
	assert.Equal(t, 1, u4.TestIndex)
	assert.Equal(t, 0, u4.Count())
	assert.True(t, math.IsNaN(u4.Mean()))
	assert.Equal(t, []float64{3}, u4.Test.Values)
	assert.Same(t, m.User(3), u4.Entity)
	assert.False(t, m.IsUserPredictable(3))
	assert.True(t, m.IsUserPredictable(0))
	assert.False(t, m.IsUserPredictable(-1))

	// test-only item
	i4, err := m.TestItemByCode("i4")
	assert.NoError(t, err)
	assert.Equal(t, 0, i4.Count())
	assert.False(t, m.IsItemPredictable(i4.Index))
	assert.Equal(t, []int{1}, i4.Test.Indices)

	// rows
	assert.Equal(t, 0, m.TestUserRow(0))
	assert.Equal(t, 2, m.TestUserRow(1))
	assert.Equal(t, NotRow, m.TestUserRow(2))
	assert.Equal(t, NotRow, m.TestItemRow(1))

	// unknown codes
	_, err = m.UserByCode("u100")
	assert.True(t, errors.Is(err, errors.NotFound))
	_, err = m.TestUserByCode("u3")
	assert.True(t, errors.Is(err, errors.NotFound))
	_, err = m.ItemByCode("i100")
	assert.True(t, errors.Is(err, errors.NotFound))
	_, err = m.TestItemByCode("i2")
	assert.True(t, errors.Is(err, errors.NotFound))
	assert.Panics(t, func() { m.User(100) })
}

func TestDataModelView(t *testing.T) {
	m := newTestDataModel()
	users := m.View(UserSide)
	assert.Equal(t, UserSide, users.Side)
	assert.Len(t, users.Entities, 4)
	assert.Len(t, users.Targets, 3)
	assert.Len(t, users.Counterparts, 4)
	assert.Equal(t, 0, users.Row(0))
	assert.Equal(t, NotRow, users.Row(2))
	assert.Equal(t, NotRow, users.Row(100))
	items := m.View(ItemSide)
	assert.Equal(t, "item", items.Side.String())
	assert.Equal(t, m.GetTestItems(), items.Targets)
	assert.Equal(t, m.GetUsers(), items.Counterparts)
	assert.Equal(t, 0, items.Row(2))

	// entities without training ratings
	assert.True(t, users.IsPredictable(0))
	assert.False(t, users.IsPredictable(3))
	assert.False(t, users.IsPredictable(-1))
	assert.False(t, users.IsPredictable(100))
	i4, err := m.TestItemByCode("i4")
	assert.NoError(t, err)
	assert.False(t, items.IsPredictable(i4.Index))
	assert.True(t, items.IsPredictable(0))
}

func TestEmptyDataModel(t *testing.T) {
	m := NewDataModel(nil, nil)
	assert.Equal(t, 0, m.CountUsers())
	assert.True(t, math.IsNaN(m.MinRating()))
	assert.True(t, math.IsNaN(m.MaxRating()))
}
