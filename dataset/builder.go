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

	"github.com/bits-and-blooms/bitset"
	"github.com/gorse-io/cfeval/common/log"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// Triple is a raw rating given by a user to an item.
type Triple struct {
	UserCode string
	ItemCode string
	Value    float64
}

type indexedRating struct {
	user  int
	item  int
	value float64
}

// Builder builds a DataModel from raw rating streams. Indices are assigned when
// ratings are added and rating lists are filled when the model is built.
type Builder struct {
	userIndex     *Index
	itemIndex     *Index
	train         []indexedRating
	test          []indexedRating
	testUserOrder []int
	testItemOrder []int
	testUserSeen  map[int]struct{}
	testItemSeen  map[int]struct{}
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{
		userIndex:    NewIndex(),
		itemIndex:    NewIndex(),
		testUserSeen: make(map[int]struct{}),
		testItemSeen: make(map[int]struct{}),
	}
}

// AddTrain adds a training rating. Duplicated pairs are resolved by the last value.
func (b *Builder) AddTrain(userCode, itemCode string, value float64) {
	b.train = append(b.train, indexedRating{
		user:  b.userIndex.Add(userCode),
		item:  b.itemIndex.Add(itemCode),
		value: value,
	})
}

// AddTest adds a held-out rating. Users and items only seen in held-out ratings are
// still assigned training indices.
func (b *Builder) AddTest(userCode, itemCode string, value float64) {
	r := indexedRating{
		user:  b.userIndex.Add(userCode),
		item:  b.itemIndex.Add(itemCode),
		value: value,
	}
	if _, exist := b.testUserSeen[r.user]; !exist {
		b.testUserSeen[r.user] = struct{}{}
		b.testUserOrder = append(b.testUserOrder, r.user)
	}
	if _, exist := b.testItemSeen[r.item]; !exist {
		b.testItemSeen[r.item] = struct{}{}
		b.testItemOrder = append(b.testItemOrder, r.item)
	}
	b.test = append(b.test, r)
}

// Build creates the DataModel. The builder should not be used afterwards.
func (b *Builder) Build() *DataModel {
	m := &DataModel{
		userIndex: b.userIndex,
		itemIndex: b.itemIndex,
		users:     make([]*Entity, b.userIndex.Len()),
		items:     make([]*Entity, b.itemIndex.Len()),
		minRating: math.Inf(1),
		maxRating: math.Inf(-1),
	}
	for i, code := range b.userIndex.Names() {
		m.users[i] = newEntity(code, i)
	}
	for i, code := range b.itemIndex.Names() {
		m.items[i] = newEntity(code, i)
	}
	// fill training ratings
	for _, r := range b.train {
		if m.users[r.user].Ratings.Upsert(r.item, r.value) {
			m.numRatings++
		}
		m.items[r.item].Ratings.Upsert(r.user, r.value)
	}
	// the rating scale is taken from the final training values
	for _, user := range m.users {
		for _, value := range user.Ratings.Values {
			if math.IsNaN(value) {
				continue
			}
			m.minRating = math.Min(m.minRating, value)
			m.maxRating = math.Max(m.maxRating, value)
		}
	}
	if m.minRating > m.maxRating {
		m.minRating, m.maxRating = math.NaN(), math.NaN()
	}
	// fill held-out ratings
	m.testUsers, m.testUserRows = newTestEntities(m.users, b.testUserOrder)
	m.testItems, m.testItemRows = newTestEntities(m.items, b.testItemOrder)
	for _, r := range b.test {
		if m.testUsers[m.testUserRows[r.user]].Test.Upsert(r.item, r.value) {
			m.numTestRatings++
		}
		m.testItems[m.testItemRows[r.item]].Test.Upsert(r.user, r.value)
	}
	// derived scalars
	m.userPredictable = bitset.New(uint(len(m.users)))
	for _, user := range m.users {
		user.refresh()
		if user.Count() > 0 {
			m.userPredictable.Set(uint(user.Index))
		}
	}
	m.itemPredictable = bitset.New(uint(len(m.items)))
	for _, item := range m.items {
		item.refresh()
		if item.Count() > 0 {
			m.itemPredictable.Set(uint(item.Index))
		}
	}
	log.Logger().Info("build data model",
		zap.Int("n_users", len(m.users)),
		zap.Int("n_items", len(m.items)),
		zap.Int("n_ratings", m.numRatings),
		zap.Int("n_test_users", len(m.testUsers)),
		zap.Int("n_test_items", len(m.testItems)),
		zap.Int("n_test_ratings", m.numTestRatings))
	return m
}

func newTestEntities(entities []*Entity, order []int) ([]*TestEntity, []int) {
	rows := lo.Times(len(entities), func(int) int { return NotRow })
	testEntities := make([]*TestEntity, len(order))
	for row, index := range order {
		rows[index] = row
		testEntities[row] = &TestEntity{Entity: entities[index], TestIndex: row}
	}
	return testEntities, rows
}
