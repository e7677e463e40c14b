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

import "github.com/bits-and-blooms/bitset"

// Side selects whether neighbors are users or items.
type Side int

const (
	UserSide Side = iota
	ItemSide
)

func (s Side) String() string {
	switch s {
	case UserSide:
		return "user"
	case ItemSide:
		return "item"
	default:
		return "unknown"
	}
}

// View is the data model seen from one side. Targets are compared against Entities,
// and ratings inside both point to Counterparts.
type View struct {
	Side         Side
	Entities     []*Entity
	Targets      []*TestEntity
	Counterparts []*Entity
	MinRating    float64
	MaxRating    float64
	rows         []int
	predictable  *bitset.BitSet
}

// View returns the user-based or item-based view of the data model.
func (m *DataModel) View(side Side) *View {
	if side == ItemSide {
		return &View{
			Side:         side,
			Entities:     m.items,
			Targets:      m.testItems,
			Counterparts: m.users,
			MinRating:    m.minRating,
			MaxRating:    m.maxRating,
			rows:         m.testItemRows,
			predictable:  m.itemPredictable,
		}
	}
	return &View{
		Side:         UserSide,
		Entities:     m.users,
		Targets:      m.testUsers,
		Counterparts: m.items,
		MinRating:    m.minRating,
		MaxRating:    m.maxRating,
		rows:         m.testUserRows,
		predictable:  m.userPredictable,
	}
}

// Row returns the target position of an entity, or NotRow.
func (v *View) Row(index int) int {
	if index < 0 || index >= len(v.rows) {
		return NotRow
	}
	return v.rows[index]
}

// IsPredictable returns false if the entity has no training ratings.
func (v *View) IsPredictable(index int) bool {
	if index < 0 || index >= len(v.Entities) {
		return false
	}
	return v.predictable.Test(uint(index))
}
