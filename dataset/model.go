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
	"github.com/bits-and-blooms/bitset"
	"github.com/juju/errors"
)

// NotRow represents an entity without held-out ratings.
const NotRow = -1

// DataModel holds users, items and their held-out counterparts. It is immutable
// once built, so it can be shared by workers without locking.
type DataModel struct {
	userIndex *Index
	itemIndex *Index
	users     []*Entity
	items     []*Entity
	testUsers []*TestEntity
	testItems []*TestEntity
	// dense index -> position among test entities
	testUserRows []int
	testItemRows []int
	// entities with at least one training rating
	userPredictable *bitset.BitSet
	itemPredictable *bitset.BitSet
	minRating       float64
	maxRating       float64
	numRatings      int
	numTestRatings  int
}

// NewDataModel builds a data model from training and held-out triples.
func NewDataModel(train, test []Triple) *DataModel {
	builder := NewBuilder()
	for _, t := range train {
		builder.AddTrain(t.UserCode, t.ItemCode, t.Value)
	}
	for _, t := range test {
		builder.AddTest(t.UserCode, t.ItemCode, t.Value)
	}
	return builder.Build()
}

// CountUsers returns the number of users, including test-only users.
func (m *DataModel) CountUsers() int {
	return len(m.users)
}

// CountItems returns the number of items, including test-only items.
func (m *DataModel) CountItems() int {
	return len(m.items)
}

// CountTestUsers returns the number of users with held-out ratings.
func (m *DataModel) CountTestUsers() int {
	return len(m.testUsers)
}

// CountTestItems returns the number of items with held-out ratings.
func (m *DataModel) CountTestItems() int {
	return len(m.testItems)
}

// CountRatings returns the number of distinct training ratings.
func (m *DataModel) CountRatings() int {
	return m.numRatings
}

// CountTestRatings returns the number of distinct held-out ratings.
func (m *DataModel) CountTestRatings() int {
	return m.numTestRatings
}

// MinRating returns the minimum training rating.
func (m *DataModel) MinRating() float64 {
	return m.minRating
}

// MaxRating returns the maximum training rating.
func (m *DataModel) MaxRating() float64 {
	return m.maxRating
}

func (m *DataModel) GetUsers() []*Entity {
	return m.users
}

func (m *DataModel) GetItems() []*Entity {
	return m.items
}

func (m *DataModel) GetTestUsers() []*TestEntity {
	return m.testUsers
}

func (m *DataModel) GetTestItems() []*TestEntity {
	return m.testItems
}

func (m *DataModel) GetUserIndex() *Index {
	return m.userIndex
}

func (m *DataModel) GetItemIndex() *Index {
	return m.itemIndex
}

// User returns the user at a dense index. It panics if the index is out of range.
func (m *DataModel) User(index int) *Entity {
	return m.users[index]
}

// Item returns the item at a dense index. It panics if the index is out of range.
func (m *DataModel) Item(index int) *Entity {
	return m.items[index]
}

// TestUser returns the test user at a test position.
func (m *DataModel) TestUser(row int) *TestEntity {
	return m.testUsers[row]
}

// TestItem returns the test item at a test position.
func (m *DataModel) TestItem(row int) *TestEntity {
	return m.testItems[row]
}

// UserByCode finds a user by its code.
func (m *DataModel) UserByCode(code string) (*Entity, error) {
	index := m.userIndex.ToNumber(code)
	if index == NotID {
		return nil, errors.NotFoundf("user %s", code)
	}
	return m.users[index], nil
}

// ItemByCode finds an item by its code.
func (m *DataModel) ItemByCode(code string) (*Entity, error) {
	index := m.itemIndex.ToNumber(code)
	if index == NotID {
		return nil, errors.NotFoundf("item %s", code)
	}
	return m.items[index], nil
}

// TestUserByCode finds a test user by its code.
func (m *DataModel) TestUserByCode(code string) (*TestEntity, error) {
	index := m.userIndex.ToNumber(code)
	if index == NotID || m.testUserRows[index] == NotRow {
		return nil, errors.NotFoundf("test user %s", code)
	}
	return m.testUsers[m.testUserRows[index]], nil
}

// TestItemByCode finds a test item by its code.
func (m *DataModel) TestItemByCode(code string) (*TestEntity, error) {
	index := m.itemIndex.ToNumber(code)
	if index == NotID || m.testItemRows[index] == NotRow {
		return nil, errors.NotFoundf("test item %s", code)
	}
	return m.testItems[m.testItemRows[index]], nil
}

// TestUserRow returns the test position of a user, or NotRow.
func (m *DataModel) TestUserRow(userIndex int) int {
	return m.testUserRows[userIndex]
}

// TestItemRow returns the test position of an item, or NotRow.
func (m *DataModel) TestItemRow(itemIndex int) int {
	return m.testItemRows[itemIndex]
}

// IsUserPredictable returns false if the user has no training ratings.
func (m *DataModel) IsUserPredictable(userIndex int) bool {
	if userIndex < 0 || userIndex >= len(m.users) {
		return false
	}
	return m.userPredictable.Test(uint(userIndex))
}

// IsItemPredictable returns false if the item has no training ratings.
func (m *DataModel) IsItemPredictable(itemIndex int) bool {
	if itemIndex < 0 || itemIndex >= len(m.items) {
		return false
	}
	return m.itemPredictable.Test(uint(itemIndex))
}
