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

package config

import (
	"math"

	"github.com/go-viper/mapstructure/v2"
	"github.com/gorse-io/cfeval/model"
	"github.com/juju/errors"
	"github.com/spf13/viper"
)

// Config is the configuration for an evaluation.
type Config struct {
	Data     DataConfig     `mapstructure:"data"`
	KNN      KNNConfig      `mapstructure:"knn"`
	Evaluate EvaluateConfig `mapstructure:"evaluate"`
}

// DataConfig is the configuration for rating files.
type DataConfig struct {
	TrainPath string `mapstructure:"train_path" validate:"required"`
	TestPath  string `mapstructure:"test_path" validate:"required"`
	Separator string `mapstructure:"separator" validate:"required"`
	Header    bool   `mapstructure:"header"`
}

// KNNConfig is the configuration for the recommender.
type KNNConfig struct {
	Recommender        string  `mapstructure:"recommender" validate:"oneof=knn user_average item_average"`
	UserBased          bool    `mapstructure:"user_based"`
	Neighbors          int     `mapstructure:"neighbors" validate:"gt=0"`
	Similarity         string  `mapstructure:"similarity" validate:"oneof=cosine pearson pearson_scaled constrained_pearson msd jaccard jmsd spearman singularities"`
	Aggregation        string  `mapstructure:"aggregation" validate:"oneof=mean weighted_mean deviation_from_mean"`
	Median             float64 `mapstructure:"median"`
	RelevanceThreshold float64 `mapstructure:"relevance_threshold"`
}

// EvaluateConfig is the configuration for quality measures.
type EvaluateConfig struct {
	Measures           []string `mapstructure:"measures" validate:"required,dive,oneof=mae mse rmse coverage precision recall f1 ndcg map mrr hr"`
	TopN               int      `mapstructure:"top_n" validate:"gt=0"`
	RelevanceThreshold float64  `mapstructure:"relevance_threshold"`
	Jobs               int      `mapstructure:"jobs" validate:"gte=0"`
}

// GetParams converts the configuration to hyper-parameters of the recommender. The
// number of workers is left to the evaluate section.
func (config *KNNConfig) GetParams() model.Params {
	return model.Params{
		model.UserBased:          config.UserBased,
		model.NNeighbors:         config.Neighbors,
		model.Similarity:         config.Similarity,
		model.Aggregation:        config.Aggregation,
		model.Median:             config.Median,
		model.RelevanceThreshold: config.RelevanceThreshold,
	}
}

// GetDefaultConfig returns the configuration without files and environment variables.
func GetDefaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			Separator: ",",
		},
		KNN: KNNConfig{
			Recommender:        model.NameKNN,
			UserBased:          true,
			Neighbors:          50,
			Similarity:         "cosine",
			Aggregation:        "mean",
			Median:             math.NaN(),
			RelevanceThreshold: math.NaN(),
		},
		Evaluate: EvaluateConfig{
			Measures:           []string{"mae"},
			TopN:               10,
			RelevanceThreshold: 4,
		},
	}
}

func setDefault() {
	defaultConfig := GetDefaultConfig()
	// [data]
	viper.SetDefault("data.separator", defaultConfig.Data.Separator)
	viper.SetDefault("data.header", defaultConfig.Data.Header)
	// [knn]
	viper.SetDefault("knn.recommender", defaultConfig.KNN.Recommender)
	viper.SetDefault("knn.user_based", defaultConfig.KNN.UserBased)
	viper.SetDefault("knn.neighbors", defaultConfig.KNN.Neighbors)
	viper.SetDefault("knn.similarity", defaultConfig.KNN.Similarity)
	viper.SetDefault("knn.aggregation", defaultConfig.KNN.Aggregation)
	viper.SetDefault("knn.median", defaultConfig.KNN.Median)
	viper.SetDefault("knn.relevance_threshold", defaultConfig.KNN.RelevanceThreshold)
	// [evaluate]
	viper.SetDefault("evaluate.measures", defaultConfig.Evaluate.Measures)
	viper.SetDefault("evaluate.top_n", defaultConfig.Evaluate.TopN)
	viper.SetDefault("evaluate.relevance_threshold", defaultConfig.Evaluate.RelevanceThreshold)
	viper.SetDefault("evaluate.jobs", defaultConfig.Evaluate.Jobs)
}

type configBinding struct {
	key string
	env string
}

// LoadConfig loads configuration from a TOML file. Environment variables override
// values in the file. The path could be empty.
func LoadConfig(path string) (*Config, error) {
	viper.Reset()
	setDefault()

	// bind environment bindings
	bindings := []configBinding{
		{"data.train_path", "CFEVAL_DATA_TRAIN_PATH"},
		{"data.test_path", "CFEVAL_DATA_TEST_PATH"},
		{"data.separator", "CFEVAL_DATA_SEPARATOR"},
		{"data.header", "CFEVAL_DATA_HEADER"},
		{"knn.recommender", "CFEVAL_KNN_RECOMMENDER"},
		{"knn.user_based", "CFEVAL_KNN_USER_BASED"},
		{"knn.neighbors", "CFEVAL_KNN_NEIGHBORS"},
		{"knn.similarity", "CFEVAL_KNN_SIMILARITY"},
		{"knn.aggregation", "CFEVAL_KNN_AGGREGATION"},
		{"knn.median", "CFEVAL_KNN_MEDIAN"},
		{"knn.relevance_threshold", "CFEVAL_KNN_RELEVANCE_THRESHOLD"},
		{"evaluate.measures", "CFEVAL_EVALUATE_MEASURES"},
		{"evaluate.top_n", "CFEVAL_EVALUATE_TOP_N"},
		{"evaluate.relevance_threshold", "CFEVAL_EVALUATE_RELEVANCE_THRESHOLD"},
		{"evaluate.jobs", "CFEVAL_EVALUATE_JOBS"},
	}
	for _, binding := range bindings {
		if err := viper.BindEnv(binding.key, binding.env); err != nil {
			return nil, errors.Trace(err)
		}
	}

	// load config file
	if path != "" {
		viper.SetConfigType("toml")
		viper.SetConfigFile(path)
		if err := viper.ReadInConfig(); err != nil {
			return nil, errors.Trace(err)
		}
	}

	// unmarshal config file
	var conf Config
	if err := viper.Unmarshal(&conf, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToSliceHookFunc(","),
	))); err != nil {
		return nil, errors.Trace(err)
	}
	if err := conf.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	return &conf, nil
}
