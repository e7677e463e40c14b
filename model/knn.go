// Copyright 2020 gorse Project Authors
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

package model

import (
	"math"
	"time"

	"github.com/gorse-io/cfeval/aggregate"
	"github.com/gorse-io/cfeval/common/log"
	"github.com/gorse-io/cfeval/dataset"
	"github.com/gorse-io/cfeval/neighbor"
	"github.com/gorse-io/cfeval/similarity"
	"github.com/juju/errors"
	"go.uber.org/zap"
)

// KNN predicts ratings from the k nearest neighbors among users (or items) which
// have held-out ratings to predict.
type KNN struct {
	BaseModel
	view      *dataset.View
	predictor *aggregate.Predictor
}

// NewKNN creates a KNN model. Hyper-parameters are checked when fitting.
func NewKNN(dataModel *dataset.DataModel, params Params) *KNN {
	knn := &KNN{BaseModel: BaseModel{DataModel: dataModel}}
	knn.SetParams(params)
	return knn
}

// Fit computes similarities and neighbors of targets. Results of the previous fit are
// replaced.
func (knn *KNN) Fit() error {
	start := time.Now()
	side := dataset.ItemSide
	if knn.Params.GetBool(UserBased, true) {
		side = dataset.UserSide
	}
	var (
		k          = knn.Params.GetInt(NNeighbors, 50)
		nJobs      = knn.Params.GetInt(NJobs, 0)
		simName    = knn.Params.GetString(Similarity, similarity.NameCosine)
		aggName    = knn.Params.GetString(Aggregation, aggregate.NameMean)
		view       = knn.DataModel.View(side)
		simOptions = similarity.Options{
			Median:             knn.Params.GetFloat64(Median, math.NaN()),
			RelevanceThreshold: knn.Params.GetFloat64(RelevanceThreshold, math.NaN()),
		}
	)
	agg, err := aggregate.Lookup(aggName)
	if err != nil {
		return errors.Trace(err)
	}
	sim, err := similarity.Lookup(simName, view, simOptions)
	if err != nil {
		return errors.Trace(err)
	}
	sims, err := similarity.Compute(view, sim, nJobs)
	if err != nil {
		return errors.Trace(err)
	}
	neighbors, err := neighbor.Find(sims, k, nJobs)
	if err != nil {
		return errors.Trace(err)
	}
	knn.view = view
	knn.predictor = aggregate.NewPredictor(aggregate.NewNeighborhood(view, sims, neighbors), agg)
	log.Logger().Info("fit knn",
		zap.Stringer("params", knn.GetParams()),
		zap.String("side", side.String()),
		zap.Int("n_neighbors", k),
		zap.String("similarity", simName),
		zap.String("aggregation", aggName),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}

// Predict predicts the rating of a user on an item. Only targets, users (or items)
// with held-out ratings, have neighbors, so others get NaN. Targets without training
// ratings get NaN as well.
func (knn *KNN) Predict(userIndex, itemIndex int) float64 {
	if knn.predictor == nil || !knn.isValid(userIndex, itemIndex) {
		return math.NaN()
	}
	if knn.view.Side == dataset.UserSide {
		if !knn.DataModel.IsUserPredictable(userIndex) {
			return math.NaN()
		}
		return knn.predictor.Predict(knn.view.Row(userIndex), itemIndex)
	}
	if !knn.DataModel.IsItemPredictable(itemIndex) {
		return math.NaN()
	}
	return knn.predictor.Predict(knn.view.Row(itemIndex), userIndex)
}

func (knn *KNN) PredictTest(testUser *dataset.TestEntity) []float64 {
	if knn.predictor != nil && knn.view.Side == dataset.UserSide && knn.DataModel.IsUserPredictable(testUser.Index) {
		return knn.predictor.PredictTest(testUser.TestIndex)
	}
	return predictTest(knn.Predict, testUser)
}
