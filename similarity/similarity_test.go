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

package similarity

import (
	"math"
	"testing"

	"github.com/gorse-io/cfeval/dataset"
	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
)

const simTestEpsilon = 1e-9

// newTestDataModel creates three users rating four items. The rating of u1 on i4 is
// held out.
func newTestDataModel() *dataset.DataModel {
	return dataset.NewDataModel([]dataset.Triple{
		{UserCode: "u1", ItemCode: "i1", Value: 3}, {UserCode: "u1", ItemCode: "i2", Value: 4}, {UserCode: "u1", ItemCode: "i3", Value: 2},
		{UserCode: "u2", ItemCode: "i1", Value: 3}, {UserCode: "u2", ItemCode: "i2", Value: 4}, {UserCode: "u2", ItemCode: "i3", Value: 2}, {UserCode: "u2", ItemCode: "i4", Value: 1},
		{UserCode: "u3", ItemCode: "i1", Value: 1}, {UserCode: "u3", ItemCode: "i2", Value: 5}, {UserCode: "u3", ItemCode: "i3", Value: 5}, {UserCode: "u3", ItemCode: "i4", Value: 4},
		{UserCode: "u4", ItemCode: "i5", Value: 2},
	}, []dataset.Triple{
		{UserCode: "u1", ItemCode: "i4", Value: 5},
	})
}

func users(t *testing.T, m *dataset.DataModel, codes ...string) []*dataset.Entity {
	var entities []*dataset.Entity
	for _, code := range codes {
		user, err := m.UserByCode(code)
		assert.NoError(t, err)
		entities = append(entities, user)
	}
	return entities
}

func TestForIntersection(t *testing.T) {
	a, b := dataset.NewRatingList(0), dataset.NewRatingList(0)
	for _, i := range []int{1, 3, 5, 7, 9} {
		a.Upsert(i, float64(i))
	}
	for _, i := range []int{0, 3, 4, 9, 10} {
		b.Upsert(i, float64(-i))
	}
	var indices []int
	count := ForIntersection(a, b, func(index int, va, vb float64) {
		assert.Equal(t, va, -vb)
		indices = append(indices, index)
	})
	assert.Equal(t, 2, count)
	assert.Equal(t, []int{3, 9}, indices)
	assert.Equal(t, 0, CountIntersection(a, dataset.NewRatingList(0)))
}

func TestCosine(t *testing.T) {
	m := newTestDataModel()
	u := users(t, m, "u1", "u2", "u3")
	assert.Equal(t, 1.0, Cosine(u[0], u[1]))
	assert.InDelta(t, 33/math.Sqrt(29*51), Cosine(u[0], u[2]), simTestEpsilon)
}

func TestPearson(t *testing.T) {
	m := newTestDataModel()
	u := users(t, m, "u1", "u2")
	// means are 3 and 2.5
	assert.InDelta(t, 2/math.Sqrt(5.5), Pearson(u[0], u[1]), simTestEpsilon)
	assert.InDelta(t, (2/math.Sqrt(5.5)+1)/2, PearsonScaled(u[0], u[1]), simTestEpsilon)
	assert.InDelta(t, 1, NewConstrainedPearson(3)(u[0], u[1]), simTestEpsilon)
}

func TestMSD(t *testing.T) {
	m := newTestDataModel()
	u := users(t, m, "u1", "u2", "u3")
	msd := NewMSD(m.MinRating(), m.MaxRating())
	assert.Equal(t, 1.0, msd(u[0], u[1]))
	// differences 2, -1, -3 on a scale of 4
	assert.InDelta(t, 1-(4.0+1+9)/16/3, msd(u[0], u[2]), simTestEpsilon)
	// degenerate scale
	assert.Equal(t, 1.0, NewMSD(3, 3)(u[0], u[2]))
}

func TestJaccard(t *testing.T) {
	m := newTestDataModel()
	u := users(t, m, "u1", "u2")
	assert.Equal(t, 0.75, Jaccard(u[0], u[1]))
	assert.Equal(t, 0.75, NewJMSD(m.MinRating(), m.MaxRating())(u[0], u[1]))
}

func TestSpearman(t *testing.T) {
	m := newTestDataModel()
	u := users(t, m, "u1", "u2", "u3")
	assert.InDelta(t, 1, Spearman(u[0], u[1]), simTestEpsilon)
	assert.InDelta(t, 0.125, Spearman(u[0], u[2]), simTestEpsilon)
	assert.Equal(t, []float64{1.5, 3, 1.5, 4}, rank([]float64{10, 20, 10, 30}))
	// a single common rating has no rank correlation
	a := dataset.NewDataModel([]dataset.Triple{{UserCode: "a", ItemCode: "x", Value: 1}, {UserCode: "b", ItemCode: "x", Value: 2}}, nil)
	assert.True(t, math.IsInf(Spearman(a.User(0), a.User(1)), -1))
}

func TestSingularities(t *testing.T) {
	m := newTestDataModel()
	u := users(t, m, "u1", "u2")
	view := m.View(dataset.UserSide)
	sim := NewSingularities(view, 3)
	// i1 and i2 are both relevant, i3 is both non-relevant. Among four users,
	// singularities of i1, i2 and i3 are (0.5, 0.75), (0.25, 1) and (0.75, 0.5).
	relevant := (0.5*0.5 + 0.25*0.25) / 2
	nonRelevant := 0.5 * 0.5
	assert.InDelta(t, (relevant+nonRelevant)/2, sim.Similarity(u[0], u[1]), simTestEpsilon)
}

func TestSymmetry(t *testing.T) {
	m := newTestDataModel()
	view := m.View(dataset.UserSide)
	for _, name := range Names {
		sim, err := Lookup(name, view, Options{Median: math.NaN(), RelevanceThreshold: math.NaN()})
		assert.NoError(t, err)
		for _, a := range m.GetUsers() {
			for _, b := range m.GetUsers() {
				ab, ba := sim(a, b), sim(b, a)
				if math.IsInf(ab, -1) {
					assert.True(t, math.IsInf(ba, -1), name)
				} else {
					assert.InDelta(t, ab, ba, simTestEpsilon, name)
				}
			}
		}
	}
}

func TestNoCommonRatings(t *testing.T) {
	m := newTestDataModel()
	u := users(t, m, "u1", "u4")
	view := m.View(dataset.UserSide)
	for _, name := range Names {
		sim, err := Lookup(name, view, Options{Median: 3, RelevanceThreshold: 3})
		assert.NoError(t, err)
		assert.True(t, math.IsInf(sim(u[0], u[1]), -1), name)
	}
}

func TestLookupUnknown(t *testing.T) {
	m := newTestDataModel()
	_, err := Lookup("euclidean", m.View(dataset.UserSide), Options{})
	assert.True(t, errors.Is(err, errors.NotValid))
}

func TestCompute(t *testing.T) {
	m := newTestDataModel()
	view := m.View(dataset.UserSide)
	serial, err := Compute(view, Cosine, 1)
	assert.NoError(t, err)
	parallel, err := Compute(view, Cosine, 8)
	assert.NoError(t, err)
	assert.Equal(t, serial, parallel)
	assert.Len(t, serial.Rows, 1)
	row := serial.Rows[0]
	assert.Len(t, row, 4)
	// self
	assert.True(t, math.IsInf(row[0], -1))
	assert.Equal(t, 1.0, row[1])
	assert.True(t, math.IsInf(row[3], -1))
	low, high := serial.Range()
	assert.InDelta(t, 33/math.Sqrt(29*51), low, simTestEpsilon)
	assert.Equal(t, 1.0, high)
}

func TestComputeWithoutTrainingRatings(t *testing.T) {
	m := dataset.NewDataModel([]dataset.Triple{
		{UserCode: "u1", ItemCode: "i1", Value: 3}, {UserCode: "u2", ItemCode: "i1", Value: 4},
	}, []dataset.Triple{
		{UserCode: "u1", ItemCode: "i2", Value: 5}, {UserCode: "u3", ItemCode: "i1", Value: 2},
	})
	view := m.View(dataset.UserSide)
	calls := 0
	counting := func(a, b *dataset.Entity) float64 {
		calls++
		return Cosine(a, b)
	}
	sims, err := Compute(view, counting, 1)
	assert.NoError(t, err)
	// u1 is only compared with u2
	assert.Equal(t, 1, calls)
	u1, err := m.UserByCode("u1")
	assert.NoError(t, err)
	u3, err := m.UserByCode("u3")
	assert.NoError(t, err)
	row := sims.Rows[view.Row(u1.Index)]
	assert.Equal(t, 1.0, row[1])
	assert.True(t, math.IsInf(row[u3.Index], -1))
	for _, sim := range sims.Rows[view.Row(u3.Index)] {
		assert.True(t, math.IsInf(sim, -1))
	}
}

func TestMatrixRangeEmpty(t *testing.T) {
	m := &Matrix{Rows: [][]float64{{math.Inf(-1), math.NaN()}}}
	low, high := m.Range()
	assert.True(t, math.IsNaN(low))
	assert.True(t, math.IsNaN(high))
}
