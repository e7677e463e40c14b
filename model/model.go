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
	"strings"

	"github.com/gorse-io/cfeval/dataset"
	"github.com/juju/errors"
)

// Recommender is the interface for all models. Any algorithm implementing it can be
// evaluated.
type Recommender interface {
	// Fit estimates the model from training ratings.
	Fit() error
	// Predict predicts the rating of a user on an item. It returns NaN if the
	// prediction is withheld.
	Predict(userIndex, itemIndex int) float64
	// PredictTest predicts ratings of a test user aligned with its held-out ratings.
	PredictTest(testUser *dataset.TestEntity) []float64
}

// BaseModel must be included by every recommendation model. Hyper-parameters and the
// data model are managed by the BaseModel.
type BaseModel struct {
	Params    Params             // Hyper-parameters
	DataModel *dataset.DataModel // Training and held-out ratings
}

// SetParams sets hyper-parameters for the BaseModel model.
func (model *BaseModel) SetParams(params Params) {
	model.Params = params
}

// GetParams returns all hyper-parameters.
func (model *BaseModel) GetParams() Params {
	return model.Params
}

// isValid checks whether a pair of indices belongs to the data model.
func (model *BaseModel) isValid(userIndex, itemIndex int) bool {
	return userIndex >= 0 && userIndex < model.DataModel.CountUsers() &&
		itemIndex >= 0 && itemIndex < model.DataModel.CountItems()
}

// predictTest predicts held-out ratings of a test user one by one.
func predictTest(predict func(userIndex, itemIndex int) float64, testUser *dataset.TestEntity) []float64 {
	predictions := make([]float64, testUser.Test.Len())
	for i, itemIndex := range testUser.Test.Indices {
		predictions[i] = predict(testUser.Index, itemIndex)
	}
	return predictions
}

const (
	NameKNN         = "knn"
	NameUserAverage = "user_average"
	NameItemAverage = "item_average"
)

// NewRecommender creates a recommender by name.
func NewRecommender(name string, dataModel *dataset.DataModel, params Params) (Recommender, error) {
	switch strings.ToLower(name) {
	case NameKNN:
		return NewKNN(dataModel, params), nil
	case NameUserAverage:
		return NewUserAverage(dataModel), nil
	case NameItemAverage:
		return NewItemAverage(dataModel), nil
	default:
		return nil, errors.NotValidf("recommender %s", name)
	}
}

// UserAverage predicts the average rating of the user.
type UserAverage struct {
	BaseModel
}

func NewUserAverage(dataModel *dataset.DataModel) *UserAverage {
	return &UserAverage{BaseModel{Params: Params{}, DataModel: dataModel}}
}

// Fit does nothing since averages are computed when the data model is built.
func (model *UserAverage) Fit() error {
	return nil
}

func (model *UserAverage) Predict(userIndex, itemIndex int) float64 {
	if !model.isValid(userIndex, itemIndex) || !model.DataModel.IsUserPredictable(userIndex) {
		return math.NaN()
	}
	return model.DataModel.User(userIndex).Mean()
}

func (model *UserAverage) PredictTest(testUser *dataset.TestEntity) []float64 {
	return predictTest(model.Predict, testUser)
}

// ItemAverage predicts the average rating of the item.
type ItemAverage struct {
	BaseModel
}

func NewItemAverage(dataModel *dataset.DataModel) *ItemAverage {
	return &ItemAverage{BaseModel{Params: Params{}, DataModel: dataModel}}
}

// Fit does nothing since averages are computed when the data model is built.
func (model *ItemAverage) Fit() error {
	return nil
}

func (model *ItemAverage) Predict(userIndex, itemIndex int) float64 {
	if !model.isValid(userIndex, itemIndex) || !model.DataModel.IsItemPredictable(itemIndex) {
		return math.NaN()
	}
	return model.DataModel.Item(itemIndex).Mean()
}

func (model *ItemAverage) PredictTest(testUser *dataset.TestEntity) []float64 {
	return predictTest(model.Predict, testUser)
}
